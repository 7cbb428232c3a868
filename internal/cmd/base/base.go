package base

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/hashicorp/go-hclog"
	"github.com/mitchellh/cli"
	"github.com/spf13/afero"

	"github.com/Tunhoclaptrinh/Sen-App/internal/config"
	"github.com/Tunhoclaptrinh/Sen-App/internal/services"
	"github.com/Tunhoclaptrinh/Sen-App/pkg/resource"
	"github.com/Tunhoclaptrinh/Sen-App/pkg/transport"
)

// EnvBaseURL overrides api.base_url, and is enough on its own when no config
// file is given.
const EnvBaseURL = "SEN_BASE_URL"

// Command is embedded by every CLI command.
type Command struct {
	Log hclog.Logger
	UI  cli.Ui
	Fs  afero.Fs

	// Context is the context requests run under.
	Context context.Context

	flagConfig   string
	flagBaseURL  string
	flagResource string
}

// NewCommand returns a Command writing to ui and reading files from the OS
// filesystem.
func NewCommand(log hclog.Logger, ui cli.Ui) *Command {
	return &Command{
		Log:     log,
		UI:      ui,
		Fs:      afero.NewOsFs(),
		Context: context.Background(),
	}
}

// ConnectionFlags registers -config and -base-url on f.
func (c *Command) ConnectionFlags(f *FlagSet) {
	f.StringVar(
		&c.flagConfig, "config", "",
		fmt.Sprintf("[%s] Path to the HCL config file", config.EnvConfigPath),
	)
	f.StringVar(
		&c.flagBaseURL, "base-url", "",
		fmt.Sprintf("[%s] Backend base URL, overriding api.base_url", EnvBaseURL),
	)
}

// ResourceFlags registers the connection flags and -resource on f.
func (c *Command) ResourceFlags(f *FlagSet) {
	c.ConnectionFlags(f)
	f.StringVar(
		&c.flagResource, "resource", "",
		fmt.Sprintf("(Required) Resource name or path, e.g. %s",
			strings.Join(services.KnownResources(), ", ")),
	)
}

// LoadConfig reads the config file named by -config or SEN_CONFIG. Without
// one, defaults are used and the base URL must come from -base-url or
// SEN_BASE_URL.
func (c *Command) LoadConfig() (*config.Config, error) {
	path := c.flagConfig
	if path == "" {
		path = os.Getenv(config.EnvConfigPath)
	}

	baseURL := c.flagBaseURL
	if baseURL == "" {
		baseURL = os.Getenv(EnvBaseURL)
	}

	var cfg *config.Config
	if path != "" {
		var err error
		cfg, err = config.Load(c.FS(), path)
		if err != nil {
			return nil, err
		}
	} else {
		cfg = config.Default()
		cfg.API.BaseURL = baseURL
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("no config file given and %s is not usable: %w", EnvBaseURL, err)
		}
	}

	if level := hclog.LevelFromString(cfg.LogLevel); level != hclog.NoLevel {
		c.Log.SetLevel(level)
	}
	return cfg, nil
}

// Transport builds the HTTP transport described by the config, pointed at the
// -base-url override when one was given.
func (c *Command) Transport(cfg *config.Config) (*transport.Client, error) {
	tc, err := cfg.TransportConfig()
	if err != nil {
		return nil, err
	}
	tokens, err := cfg.TokenStore(c.FS())
	if err != nil {
		return nil, err
	}

	client, err := transport.New(tc,
		transport.WithLogger(c.Log),
		transport.WithTokenStore(tokens),
		transport.WithUnauthorizedHook(func(context.Context) {
			c.UI.Warn("The backend rejected the stored credentials; log in again with 'sen auth'.")
		}),
	)
	if err != nil {
		return nil, err
	}

	override := c.flagBaseURL
	if override == "" {
		override = os.Getenv(EnvBaseURL)
	}
	if override != "" && strings.TrimSuffix(override, "/") != client.BaseURL() {
		if err := client.SetBaseURL(override); err != nil {
			return nil, err
		}
	}
	return client, nil
}

// Registry loads the configuration and returns the domain services.
func (c *Command) Registry() (*services.Registry, error) {
	cfg, err := c.LoadConfig()
	if err != nil {
		return nil, err
	}
	client, err := c.Transport(cfg)
	if err != nil {
		return nil, err
	}
	return services.NewRegistry(client,
		resource.WithLogger(c.Log),
		resource.WithBatchConcurrency(cfg.BatchConcurrency()),
	), nil
}

// Service returns an untyped service for the -resource flag.
func (c *Command) Service() (*services.RawService, error) {
	if c.flagResource == "" {
		return nil, fmt.Errorf("resource flag is required")
	}
	reg, err := c.Registry()
	if err != nil {
		return nil, err
	}
	return reg.Raw(c.flagResource), nil
}

// Output writes v to the UI as indented JSON.
func (c *Command) Output(v any) int {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		c.UI.Error(fmt.Sprintf("error encoding output: %v", err))
		return 1
	}
	c.UI.Output(string(data))
	return 0
}

// Fail reports err on the UI and returns the exit code for it.
func (c *Command) Fail(action string, err error) int {
	c.UI.Error(fmt.Sprintf("error %s: %v", action, err))
	return 1
}

// Ctx returns the context requests run under.
func (c *Command) Ctx() context.Context {
	if c.Context == nil {
		return context.Background()
	}
	return c.Context
}

// FS returns the filesystem request bodies and token files are read from.
func (c *Command) FS() afero.Fs {
	if c.Fs == nil {
		c.Fs = afero.NewOsFs()
	}
	return c.Fs
}
