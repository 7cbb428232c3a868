package exists

import (
	"flag"
	"fmt"

	"github.com/Tunhoclaptrinh/Sen-App/internal/cmd/base"
)

type Command struct {
	*base.Command

	flagStrict bool
}

func (c *Command) Synopsis() string {
	return "Check whether a resource exists"
}

func (c *Command) Help() string {
	return `Usage: sen exists -resource=<name> [options] <id>

  Print true or false. Exits 0 when the resource exists and 2 when it does
  not. Any failure counts as "does not exist" unless -strict is set, in which
  case only a 404 does and other failures exit 1.` + c.Flags().Help()
}

func (c *Command) Flags() *base.FlagSet {
	f := base.NewFlagSet(flag.NewFlagSet("exists", flag.ContinueOnError))

	c.ResourceFlags(f)
	f.BoolVar(&c.flagStrict, "strict", false,
		"Report errors other than not found instead of printing false")

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

	var found bool
	if c.flagStrict {
		found, err = svc.Lookup(c.Ctx(), f.Arg(0))
		if err != nil {
			return c.Fail("checking resource", err)
		}
	} else {
		found = svc.Exists(c.Ctx(), f.Arg(0))
	}

	c.UI.Output(fmt.Sprint(found))
	if !found {
		return 2
	}
	return 0
}
