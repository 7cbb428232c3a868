package auth

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/Tunhoclaptrinh/Sen-App/internal/cmd/base"
	"github.com/Tunhoclaptrinh/Sen-App/pkg/transport"
)

// EnvToken is read when -token is not given.
const EnvToken = "SEN_TOKEN"

type Command struct {
	*base.Command

	flagToken  string
	flagLogout bool
}

func (c *Command) Synopsis() string {
	return "Store or clear the login token"
}

func (c *Command) Help() string {
	return `Usage: sen auth [-token=<token> | -logout]

  Save a Bearer token to the file named by api.token_file so later commands
  are authenticated, or remove it with -logout. The token is also cleared
  automatically when the backend answers 401.` + c.Flags().Help()
}

func (c *Command) Flags() *base.FlagSet {
	f := base.NewFlagSet(flag.NewFlagSet("auth", flag.ContinueOnError))

	c.ConnectionFlags(f)
	f.StringVar(&c.flagToken, "token", "",
		fmt.Sprintf("[%s] Token to store", EnvToken))
	f.BoolVar(&c.flagLogout, "logout", false, "Remove the stored token")

	return f
}

func (c *Command) Run(args []string) int {
	f := c.Flags()
	if err := f.Parse(args); err != nil {
		c.UI.Error(fmt.Sprintf("error parsing flags: %v", err))
		return 1
	}

	cfg, err := c.LoadConfig()
	if err != nil {
		return c.Fail("loading config", err)
	}
	if cfg.API.TokenFile == "" {
		c.UI.Error("api.token_file must be set in the config file to store a token")
		return 1
	}

	store, err := transport.NewFileTokenStore(c.FS(), cfg.API.TokenFile)
	if err != nil {
		return c.Fail("opening token file", err)
	}

	if c.flagLogout {
		if err := store.Clear(c.Ctx()); err != nil {
			return c.Fail("clearing token", err)
		}
		c.UI.Info("Logged out")
		return 0
	}

	token := strings.TrimSpace(c.flagToken)
	if token == "" {
		token = strings.TrimSpace(os.Getenv(EnvToken))
	}
	if token == "" {
		c.UI.Error(fmt.Sprintf("a token is required (-token or %s)", EnvToken))
		return 1
	}

	if err := store.Save(token); err != nil {
		return c.Fail("saving token", err)
	}
	c.UI.Info(fmt.Sprintf("Token saved to %s", store.Path()))
	return 0
}
