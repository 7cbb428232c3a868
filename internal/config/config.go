package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-multierror"
	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsimple"
	"github.com/spf13/afero"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"

	"github.com/Tunhoclaptrinh/Sen-App/pkg/resource"
	"github.com/Tunhoclaptrinh/Sen-App/pkg/transport"
)

const (
	// EnvConfigPath names the environment variable holding the default
	// config file path.
	EnvConfigPath = "SEN_CONFIG"

	defaultLogLevel   = "info"
	defaultTimeout    = "15s"
	defaultRetryDelay = "500ms"
)

// Config contains the client configuration.
type Config struct {
	// LogLevel is one of trace, debug, info, warn, error or off.
	LogLevel string `hcl:"log_level,optional"`

	// API configures the connection to the backend.
	API *API `hcl:"api,block"`

	// Batch configures the batch operations.
	Batch *Batch `hcl:"batch,block"`
}

// API configures the HTTP transport.
type API struct {
	// BaseURL is prefixed to every resource path.
	BaseURL string `hcl:"base_url"`

	// AuthToken is a static Bearer token. Use env("NAME") to keep it out of
	// the file.
	AuthToken string `hcl:"auth_token,optional"`

	// TokenFile is where a login token is persisted. When set it takes
	// precedence over AuthToken and is cleared on 401. AuthToken is still
	// sent while the file is missing or empty.
	TokenFile string `hcl:"token_file,optional"`

	// Timeout is a duration string, e.g. "15s".
	Timeout string `hcl:"timeout,optional"`

	// TLSVerify controls TLS certificate verification.
	TLSVerify *bool `hcl:"tls_verify,optional"`

	// MaxRetries for network failures and 5xx responses. Default 0.
	MaxRetries int `hcl:"max_retries,optional"`

	// RetryDelay is a duration string for the initial retry delay.
	RetryDelay string `hcl:"retry_delay,optional"`
}

// Batch configures batch operations.
type Batch struct {
	// Concurrency is the number of in-flight requests per batch. Zero or
	// negative removes the limit.
	Concurrency *int `hcl:"concurrency,optional"`
}

// Default returns a Config with every optional field set.
func Default() *Config {
	concurrency := resource.DefaultBatchConcurrency
	tlsVerify := true
	return &Config{
		LogLevel: defaultLogLevel,
		API: &API{
			Timeout:    defaultTimeout,
			TLSVerify:  &tlsVerify,
			RetryDelay: defaultRetryDelay,
		},
		Batch: &Batch{
			Concurrency: &concurrency,
		},
	}
}

// LoadFile parses the HCL config file at path from the OS filesystem.
func LoadFile(path string) (*Config, error) {
	return Load(afero.NewOsFs(), path)
}

// Load parses the HCL config file at path on fsys, applies defaults and
// validates the result.
func Load(fsys afero.Fs, path string) (*Config, error) {
	src, err := afero.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	cfg := &Config{}
	if err := hclsimple.Decode(path, src, evalContext(), cfg); err != nil {
		return nil, fmt.Errorf("error decoding config file: %w", err)
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// evalContext exposes env(name) to config files.
func evalContext() *hcl.EvalContext {
	return &hcl.EvalContext{
		Functions: map[string]function.Function{
			"env": envFunc,
		},
	}
}

var envFunc = function.New(&function.Spec{
	Params: []function.Parameter{
		{Name: "name", Type: cty.String},
	},
	Type: function.StaticReturnType(cty.String),
	Impl: func(args []cty.Value, _ cty.Type) (cty.Value, error) {
		return cty.StringVal(os.Getenv(args[0].AsString())), nil
	},
})

func (c *Config) applyDefaults() {
	defaults := Default()
	if c.LogLevel == "" {
		c.LogLevel = defaults.LogLevel
	}
	if c.API == nil {
		c.API = &API{}
	}
	if c.API.Timeout == "" {
		c.API.Timeout = defaults.API.Timeout
	}
	if c.API.TLSVerify == nil {
		c.API.TLSVerify = defaults.API.TLSVerify
	}
	if c.API.RetryDelay == "" {
		c.API.RetryDelay = defaults.API.RetryDelay
	}
	if c.Batch == nil {
		c.Batch = &Batch{}
	}
	if c.Batch.Concurrency == nil {
		c.Batch.Concurrency = defaults.Batch.Concurrency
	}
}

// Validate reports every problem in the configuration at once.
func (c *Config) Validate() error {
	var result *multierror.Error

	if hclog.LevelFromString(c.LogLevel) == hclog.NoLevel {
		result = multierror.Append(result,
			fmt.Errorf("log_level %q is not one of trace, debug, info, warn, error, off", c.LogLevel))
	}

	if c.API == nil {
		result = multierror.Append(result, fmt.Errorf("api block is required"))
		return result.ErrorOrNil()
	}

	if c.API.BaseURL == "" {
		result = multierror.Append(result, fmt.Errorf("api.base_url is required"))
	} else if u, err := url.Parse(c.API.BaseURL); err != nil {
		result = multierror.Append(result, fmt.Errorf("api.base_url is invalid: %w", err))
	} else if u.Scheme != "http" && u.Scheme != "https" {
		result = multierror.Append(result,
			fmt.Errorf("api.base_url must use http or https scheme, got: %q", u.Scheme))
	}

	if d, err := parseDuration(c.API.Timeout); err != nil {
		result = multierror.Append(result, fmt.Errorf("api.timeout: %w", err))
	} else if d <= 0 {
		result = multierror.Append(result, fmt.Errorf("api.timeout must be positive, got: %s", c.API.Timeout))
	}

	if d, err := parseDuration(c.API.RetryDelay); err != nil {
		result = multierror.Append(result, fmt.Errorf("api.retry_delay: %w", err))
	} else if d < 0 {
		result = multierror.Append(result, fmt.Errorf("api.retry_delay must be non-negative, got: %s", c.API.RetryDelay))
	}

	if c.API.MaxRetries < 0 {
		result = multierror.Append(result,
			fmt.Errorf("api.max_retries must be non-negative, got: %d", c.API.MaxRetries))
	}

	return result.ErrorOrNil()
}

// BatchConcurrency returns the configured batch concurrency.
func (c *Config) BatchConcurrency() int {
	if c.Batch == nil || c.Batch.Concurrency == nil {
		return resource.DefaultBatchConcurrency
	}
	return *c.Batch.Concurrency
}

// TransportConfig converts the api block into a transport.Config.
func (c *Config) TransportConfig() (*transport.Config, error) {
	if c.API == nil {
		return nil, fmt.Errorf("api block is required")
	}

	timeout, err := parseDuration(c.API.Timeout)
	if err != nil {
		return nil, fmt.Errorf("api.timeout: %w", err)
	}
	retryDelay, err := parseDuration(c.API.RetryDelay)
	if err != nil {
		return nil, fmt.Errorf("api.retry_delay: %w", err)
	}

	return &transport.Config{
		BaseURL:    c.API.BaseURL,
		AuthToken:  c.API.AuthToken,
		TLSVerify:  c.API.TLSVerify,
		Timeout:    timeout,
		MaxRetries: c.API.MaxRetries,
		RetryDelay: retryDelay,
	}, nil
}

// TokenStore returns the token store selected by the api block: a file store
// when token_file is set, otherwise the static auth_token.
func (c *Config) TokenStore(fsys afero.Fs) (transport.TokenStore, error) {
	if c.API == nil {
		return transport.StaticToken(""), nil
	}
	if c.API.TokenFile == "" {
		return transport.StaticToken(c.API.AuthToken), nil
	}
	store, err := transport.NewFileTokenStore(fsys, c.API.TokenFile)
	if err != nil {
		return nil, fmt.Errorf("api.token_file: %w", err)
	}
	if c.API.AuthToken == "" {
		return store, nil
	}
	return &transport.FallbackTokenStore{Primary: store, Fallback: c.API.AuthToken}, nil
}

func parseDuration(s string) (time.Duration, error) {
	if strings.TrimSpace(s) == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q", s)
	}
	return d, nil
}
