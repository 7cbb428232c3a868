package get

import (
	"flag"
	"fmt"

	"github.com/Tunhoclaptrinh/Sen-App/internal/cmd/base"
	"github.com/Tunhoclaptrinh/Sen-App/pkg/resource"
)

type Command struct {
	*base.Command

	flagEmbed  base.StringSlice
	flagExpand base.StringSlice
}

func (c *Command) Synopsis() string {
	return "Fetch a single resource by ID"
}

func (c *Command) Help() string {
	return `Usage: sen get -resource=<name> [options] <id>

  Fetch one resource and print it as JSON. Related resources can be inlined
  with -embed (children) and -expand (parents).

  Example:
    sen get -resource=heritage -embed=artifacts,timeline 12` + c.Flags().Help()
}

func (c *Command) Flags() *base.FlagSet {
	f := base.NewFlagSet(flag.NewFlagSet("get", flag.ContinueOnError))

	c.ResourceFlags(f)
	f.Var(&c.flagEmbed, "embed", "Child relations to embed. Can be repeated")
	f.Var(&c.flagExpand, "expand", "Parent relations to expand. Can be repeated")

	return f
}

func (c *Command) Run(args []string) int {
	f := c.Flags()
	if err := f.Parse(args); err != nil {
		c.UI.Error(fmt.Sprintf("error parsing flags: %v", err))
		return 1
	}
	if f.NArg() != 1 {
		c.UI.Error("exactly one resource ID is required")
		return 1
	}

	svc, err := c.Service()
	if err != nil {
		return c.Fail("initializing client", err)
	}

	rels := resource.Relations{Embed: c.flagEmbed, Expand: c.flagExpand}
	item, err := svc.GetWithRelations(c.Ctx(), f.Arg(0), rels)
	if err != nil {
		return c.Fail("fetching resource", err)
	}
	return c.Output(item)
}
