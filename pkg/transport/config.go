package transport

import (
	"crypto/tls"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Tunhoclaptrinh/Sen-App/pkg/resource"
)

// Config describes how the client reaches the Sen backend. It is usually
// built from the api block of the CLI config:
//
//	api {
//	  base_url   = "https://sen.example.com/api"
//	  auth_token = env("SEN_API_TOKEN")
//	  timeout    = "15s"
//	}
type Config struct {
	// BaseURL is the API root every resource path is joined to, including
	// any "/api" prefix.
	BaseURL string `json:"baseUrl"`

	// AuthToken is sent as a Bearer token when no TokenStore is given.
	// Collections such as heritage sites are public, so it may be empty.
	AuthToken string `json:"-"`

	// TLSVerify is nil or true unless the backend runs with a self-signed
	// certificate on a developer machine.
	TLSVerify *bool `json:"tlsVerify,omitempty"`

	// Timeout bounds a single request, including reading the body.
	Timeout time.Duration `json:"timeout,omitempty"`

	// MaxRetries is how often a request that hit a network error or a 5xx
	// is sent again. Zero keeps failures immediate for the resource layer.
	MaxRetries int `json:"maxRetries,omitempty"`

	// RetryDelay is the first backoff interval. Later ones grow
	// exponentially.
	RetryDelay time.Duration `json:"retryDelay,omitempty"`
}

const (
	defaultTimeout    = 15 * time.Second
	defaultRetryDelay = 500 * time.Millisecond
)

// DefaultConfig returns a Config without a base URL. Callers must set one
// before passing it to New.
func DefaultConfig() *Config {
	verify := true
	return &Config{
		TLSVerify:  &verify,
		Timeout:    defaultTimeout,
		RetryDelay: defaultRetryDelay,
	}
}

func (c *Config) applyDefaults() {
	if c.TLSVerify == nil {
		verify := true
		c.TLSVerify = &verify
	}
	if c.Timeout == 0 {
		c.Timeout = defaultTimeout
	}
	if c.RetryDelay == 0 {
		c.RetryDelay = defaultRetryDelay
	}
}

// Validate reports the first problem found in the config.
func (c *Config) Validate() error {
	if _, err := parseBaseURL(c.BaseURL); err != nil {
		return err
	}
	switch {
	case c.Timeout <= 0:
		return fmt.Errorf("timeout must be positive, got: %v", c.Timeout)
	case c.MaxRetries < 0:
		return fmt.Errorf("max_retries must be non-negative, got: %d", c.MaxRetries)
	case c.RetryDelay < 0:
		return fmt.Errorf("retry_delay must be non-negative, got: %v", c.RetryDelay)
	}
	return nil
}

// parseBaseURL checks raw and returns it without a trailing slash, so paths
// can be appended with a single "/".
func parseBaseURL(raw string) (string, error) {
	if raw == "" {
		return "", fmt.Errorf("base_url is required")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("invalid base_url %q: %w", raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("base_url must use http or https scheme, got: %q", u.Scheme)
	}
	if u.Host == "" {
		return "", fmt.Errorf("base_url %q has no host", raw)
	}
	return strings.TrimSuffix(raw, "/"), nil
}

// NewHTTPClient returns the client requests are sent with. Up to twice the
// default batch concurrency connections per host are kept idle, so batch
// operations reuse them.
func (c *Config) NewHTTPClient() *http.Client {
	rt := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		ForceAttemptHTTP2:   true,
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 2 * resource.DefaultBatchConcurrency,
		IdleConnTimeout:     90 * time.Second,
	}
	if c.TLSVerify != nil && !*c.TLSVerify {
		rt.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
	}
	return &http.Client{Timeout: c.Timeout, Transport: rt}
}
