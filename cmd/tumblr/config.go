package main

import (
	"errors"
	"io/fs"
	"os"
	"strconv"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Config is read from a TOML file, then from TUMBLR_* environment
// variables, then from flags. Later sources win.
type Config struct {
	ConsumerKey    string  `toml:"consumer_key"`
	ConsumerSecret string  `toml:"consumer_secret"`
	Token          string  `toml:"token"`
	TokenSecret    string  `toml:"token_secret"`
	Hostname       string  `toml:"hostname"`
	Rate           float64 `toml:"rate"`
}

// loadConfig reads configPath (if it exists) and overlays the environment,
// after loading envPath into it (if it exists).
func loadConfig(configPath, envPath string) (Config, error) {
	cfg := Config{}
	if configPath != "" {
		if _, err := toml.DecodeFile(configPath, &cfg); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return cfg, err
		}
	}
	if envPath != "" {
		if err := godotenv.Load(envPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return cfg, err
		}
	}

	cfg.ConsumerKey = getEnv("TUMBLR_CONSUMER_KEY", cfg.ConsumerKey)
	cfg.ConsumerSecret = getEnv("TUMBLR_CONSUMER_SECRET", cfg.ConsumerSecret)
	cfg.Token = getEnv("TUMBLR_TOKEN", cfg.Token)
	cfg.TokenSecret = getEnv("TUMBLR_TOKEN_SECRET", cfg.TokenSecret)
	cfg.Hostname = getEnv("TUMBLR_HOSTNAME", cfg.Hostname)
	if v := os.Getenv("TUMBLR_RATE"); v != "" {
		rate, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return cfg, err
		}
		cfg.Rate = rate
	}
	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
