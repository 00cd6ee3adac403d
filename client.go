// Package tumblr is a client for the Tumblr v2 API.
//
// Requests are signed with OAuth1 once a token is set:
//
//	client := tumblr.NewClient(tumblr.Config{
//		ConsumerKey:    "consumer-key",
//		ConsumerSecret: "consumer-secret",
//		Token:          "token",
//		TokenSecret:    "token-secret",
//	})
//	posts, err := client.BlogPosts(ctx, "staff", tumblr.Params{"limit": 5})
//
// Posts decode into one of the Post variants; switch on the concrete type
// to reach variant fields.
package tumblr

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/dghubble/oauth1"
	"github.com/go-resty/resty/v2"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

const (
	Version = "0.1.0"

	DefaultHostname = "api.tumblr.com"
	DefaultTimeout  = 10 * time.Second

	apiVersionPrefix = "/v2"
	maxRedirects     = 10
)

var (
	// UserAgent is sent with every request.
	UserAgent = "go-tumblr/" + Version
	// Logger is used by clients created without a Config.Logger.
	Logger = logrus.New()
)

// Config holds the settings of a Client. Only the consumer credentials are
// required; requests are unsigned until a token is provided.
type Config struct {
	ConsumerKey    string
	ConsumerSecret string

	Token       string
	TokenSecret string

	// Hostname without scheme. Defaults to DefaultHostname.
	Hostname string
	// Timeout applies to each request. Defaults to DefaultTimeout.
	Timeout time.Duration
	// HTTPClient provides the base transport. Its redirect policy and
	// timeout are not used.
	HTTPClient *http.Client
	Logger     *logrus.Logger

	// RequestsPerSecond throttles outgoing requests when positive.
	RequestsPerSecond float64
	// Burst is the throttle's burst size. Defaults to 1.
	Burst int
}

// Client talks to the Tumblr API. It is safe for concurrent use; the rate
// limit reading reflects whichever response completed last.
type Client struct {
	mu             sync.RWMutex
	consumerKey    string
	consumerSecret string
	token          *oauth1.Token
	hostname       string
	timeout        time.Duration
	base           *http.Client
	oauth          *oauth1.Config
	rest           *resty.Client
	noRedirect     *resty.Client
	// unsigned carries multipart bodies, which are signed separately
	unsigned *resty.Client

	log     *logrus.Logger
	limiter *rate.Limiter

	limitsMu sync.Mutex
	limits   RateLimits
}

// NewClient returns a client configured from cfg.
func NewClient(cfg Config) *Client {
	c := &Client{
		consumerKey:    cfg.ConsumerKey,
		consumerSecret: cfg.ConsumerSecret,
		hostname:       cfg.Hostname,
		timeout:        cfg.Timeout,
		base:           cfg.HTTPClient,
		log:            cfg.Logger,
	}
	if c.hostname == "" {
		c.hostname = DefaultHostname
	}
	if c.timeout <= 0 {
		c.timeout = DefaultTimeout
	}
	if c.base == nil {
		c.base = &http.Client{}
	}
	if c.log == nil {
		c.log = Logger
	}
	if cfg.RequestsPerSecond > 0 {
		burst := cfg.Burst
		if burst <= 0 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), burst)
	}
	if cfg.Token != "" || cfg.TokenSecret != "" {
		c.token = oauth1.NewToken(cfg.Token, cfg.TokenSecret)
	}
	c.rebuild()
	return c
}

// SetConsumer replaces the consumer credentials.
func (c *Client) SetConsumer(key, secret string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.consumerKey = key
	c.consumerSecret = secret
	c.rebuild()
}

// SetToken replaces the access token. Requests are signed from now on.
func (c *Client) SetToken(token, secret string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = oauth1.NewToken(token, secret)
	c.rebuild()
}

// ClearToken removes the access token; later requests are sent unsigned.
func (c *Client) ClearToken() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = nil
	c.rebuild()
}

// SetHostname sets the API host, without scheme, e.g. "api.tumblr.com".
func (c *Client) SetHostname(host string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.hostname = host
}

func (c *Client) Hostname() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.hostname
}

// APIKey is the consumer key, sent as api_key on public endpoints.
func (c *Client) APIKey() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.consumerKey
}

// RateLimits returns the reading taken from the most recent response.
func (c *Client) RateLimits() RateLimits {
	c.limitsMu.Lock()
	defer c.limitsMu.Unlock()
	return c.limits
}

func (c *Client) setRateLimits(l RateLimits) {
	c.limitsMu.Lock()
	c.limits = l
	c.limitsMu.Unlock()
}

// rebuild recreates the resty clients after a credential change. The caller
// must hold c.mu.
func (c *Client) rebuild() {
	c.oauth = oauth1.NewConfig(c.consumerKey, c.consumerSecret)
	signed := c.base
	if c.token != nil {
		ctx := context.WithValue(context.Background(), oauth1.HTTPClient, c.base)
		signed = c.oauth.Client(ctx, c.token)
	}
	c.rest = c.newResty(signed, resty.FlexibleRedirectPolicy(maxRedirects))
	c.noRedirect = c.newResty(signed, resty.RedirectPolicyFunc(func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}))
	c.unsigned = c.newResty(c.base, resty.FlexibleRedirectPolicy(maxRedirects))
}

// headerCapture stands in for the network when a request only needs to be
// signed.
type headerCapture struct {
	header http.Header
}

func (h *headerCapture) RoundTrip(req *http.Request) (*http.Response, error) {
	h.header = req.Header.Clone()
	if req.Body != nil {
		req.Body.Close()
	}
	return &http.Response{
		StatusCode: http.StatusNoContent,
		Header:     http.Header{},
		Body:       http.NoBody,
		Request:    req,
	}, nil
}

// signForm signs a form encoded POST of values to rawURL and returns its
// Authorization header. Nothing leaves the process.
func signForm(ctx context.Context, config *oauth1.Config, token *oauth1.Token, rawURL string, values map[string]string) (string, error) {
	form := url.Values(lo.MapValues(values, func(v string, _ string) []string { return []string{v} }))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, rawURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	capture := &headerCapture{}
	signer := config.Client(context.WithValue(ctx, oauth1.HTTPClient, &http.Client{Transport: capture}), token)
	resp, err := signer.Do(req)
	if err != nil {
		return "", fmt.Errorf("sign %s: %w", rawURL, err)
	}
	resp.Body.Close()
	return capture.header.Get("Authorization"), nil
}

func (c *Client) newResty(hc *http.Client, policy resty.RedirectPolicy) *resty.Client {
	// a fresh http.Client per resty client keeps the redirect policies apart
	return resty.NewWithClient(&http.Client{Transport: hc.Transport, Jar: hc.Jar}).
		SetLogger(c.log).
		SetTimeout(c.timeout).
		SetHeader("User-Agent", UserAgent).
		SetRedirectPolicy(policy)
}
