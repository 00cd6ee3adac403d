package main

import (
	"context"
	"fmt"
	"os"

	tumblr "github.com/dictor/go-tumblr"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	isDebug            bool
	configPath         string
	envPath            string
	flagConfig         Config
	client             *tumblr.Client
	Logger             = logrus.New()
	MediaExtension     = []string{".jpg", ".jpeg", ".png", ".gif", ".webm", ".mp4", ".mp3"}
	defaultConfigPath  = "tumblr.toml"
	defaultEnvFilePath = ".env"
)

func main() {
	root := &cobra.Command{
		Use:               "tumblr",
		Short:             "command line client for the tumblr v2 api",
		SilenceUsage:      true,
		PersistentPreRunE: setup,
	}
	flags := root.PersistentFlags()
	flags.StringVar(&configPath, "config", defaultConfigPath, "path of toml config file")
	flags.StringVar(&envPath, "env", defaultEnvFilePath, "path of .env file")
	flags.BoolVar(&isDebug, "debug", false, "print debug log")
	flags.StringVar(&flagConfig.Hostname, "host", "", "api hostname")
	flags.StringVar(&flagConfig.ConsumerKey, "consumer-key", "", "oauth consumer key")
	flags.StringVar(&flagConfig.ConsumerSecret, "consumer-secret", "", "oauth consumer secret")
	flags.StringVar(&flagConfig.Token, "token", "", "oauth access token")
	flags.StringVar(&flagConfig.TokenSecret, "token-secret", "", "oauth access token secret")
	flags.Float64Var(&flagConfig.Rate, "rate", 0, "maximum requests per second, 0 for unlimited")

	root.AddCommand(
		&cobra.Command{Use: "info [blog]", Short: "print blog information", Args: cobra.ExactArgs(1), RunE: execInfo},
		newPostsCommand(),
		newTaggedCommand(),
		newAvatarCommand(),
		&cobra.Command{Use: "limits", Short: "print the user's limits", Args: cobra.NoArgs, RunE: execLimits},
		newUploadCommand(),
		&cobra.Command{Use: "batch-upload [blog] [directory] [pixiv|name|split]", Short: "upload every sub directory with a tag taken from its name", Args: cobra.ExactArgs(3), RunE: execBatchUpload},
		&cobra.Command{Use: "delete [blog] [tag] [except noted (bool)]", Short: "delete every post with a tag", Args: cobra.ExactArgs(3), RunE: execDelete},
	)

	if err := root.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func setup(cmd *cobra.Command, args []string) error {
	if isDebug {
		Logger.SetLevel(logrus.DebugLevel)
	}
	Logger.SetFormatter(&logrus.TextFormatter{
		ForceColors:   true,
		DisableColors: false,
		ForceQuote:    false,
	})

	cfg, err := loadConfig(configPath, envPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	cfg = mergeConfig(cfg, flagConfig)
	if len(cfg.ConsumerKey) < 1 {
		fmt.Print("enter consumer key : ")
		fmt.Scanln(&cfg.ConsumerKey)
	}

	client = tumblr.NewClient(tumblr.Config{
		ConsumerKey:       cfg.ConsumerKey,
		ConsumerSecret:    cfg.ConsumerSecret,
		Token:             cfg.Token,
		TokenSecret:       cfg.TokenSecret,
		Hostname:          cfg.Hostname,
		Logger:            Logger,
		RequestsPerSecond: cfg.Rate,
	})
	return nil
}

// mergeConfig overlays every non-empty value of override onto base.
func mergeConfig(base, override Config) Config {
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&base.ConsumerKey, override.ConsumerKey)
	set(&base.ConsumerSecret, override.ConsumerSecret)
	set(&base.Token, override.Token)
	set(&base.TokenSecret, override.TokenSecret)
	set(&base.Hostname, override.Hostname)
	if override.Rate > 0 {
		base.Rate = override.Rate
	}
	return base
}
