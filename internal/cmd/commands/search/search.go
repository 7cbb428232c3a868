package search

import (
	"flag"
	"fmt"
	"strings"

	"github.com/Tunhoclaptrinh/Sen-App/internal/cmd/base"
)

type Command struct {
	*base.Command

	query base.QueryFlags
}

func (c *Command) Synopsis() string {
	return "Full-text search within a resource"
}

func (c *Command) Help() string {
	return `Usage: sen search -resource=<name> [options] <text>

  Run a full-text search against the resource's search endpoint and print
  the response envelope as JSON.

  Example:
    sen search -resource=heritage -limit=5 "hoang thanh"` + c.Flags().Help()
}

func (c *Command) Flags() *base.FlagSet {
	f := base.NewFlagSet(flag.NewFlagSet("search", flag.ContinueOnError))

	c.ResourceFlags(f)
	c.query.Register(f)

	return f
}

func (c *Command) Run(args []string) int {
	f := c.Flags()
	if err := f.Parse(args); err != nil {
		c.UI.Error(fmt.Sprintf("error parsing flags: %v", err))
		return 1
	}
	if f.NArg() == 0 {
		c.UI.Error("search text is required")
		return 1
	}
	text := strings.Join(f.Args(), " ")

	q, err := c.query.Query()
	if err != nil {
		c.UI.Error(err.Error())
		return 1
	}

	svc, err := c.Service()
	if err != nil {
		return c.Fail("initializing client", err)
	}

	env, err := svc.Search(c.Ctx(), text, q)
	if err != nil {
		return c.Fail("searching", err)
	}
	return c.Output(env)
}
