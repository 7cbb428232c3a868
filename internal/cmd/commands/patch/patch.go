package patch

import (
	"flag"
	"fmt"

	"github.com/Tunhoclaptrinh/Sen-App/internal/cmd/base"
)

type Command struct {
	*base.Command

	body base.BodyFlags
}

func (c *Command) Synopsis() string {
	return "Partially update a resource"
}

func (c *Command) Help() string {
	return `Usage: sen patch -resource=<name> (-file=<path> | -data=<json>) <id>

  Apply the fields of the JSON body to the resource and print the result.

  Example:
    sen patch -resource=addresses -data='{"note":"Ring twice"}' 3` + c.Flags().Help()
}

func (c *Command) Flags() *base.FlagSet {
	f := base.NewFlagSet(flag.NewFlagSet("patch", flag.ContinueOnError))

	c.ResourceFlags(f)
	c.body.Register(f)

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

	body, err := c.body.Read(c.FS())
	if err != nil {
		c.UI.Error(err.Error())
		return 1
	}

	svc, err := c.Service()
	if err != nil {
		return c.Fail("initializing client", err)
	}

	patched, err := svc.Patch(c.Ctx(), f.Arg(0), body)
	if err != nil {
		return c.Fail("patching resource", err)
	}
	return c.Output(patched)
}
