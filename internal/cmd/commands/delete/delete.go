package delete

import (
	"flag"
	"fmt"

	"github.com/Tunhoclaptrinh/Sen-App/internal/cmd/base"
)

type Command struct {
	*base.Command
}

func (c *Command) Synopsis() string {
	return "Delete one or more resources"
}

func (c *Command) Help() string {
	return `Usage: sen delete -resource=<name> <id> [<id>...]

  Delete the given resources. Several IDs are deleted concurrently; the
  command fails if any delete fails, and the others are not restored.` + c.Flags().Help()
}

func (c *Command) Flags() *base.FlagSet {
	f := base.NewFlagSet(flag.NewFlagSet("delete", flag.ContinueOnError))

	c.ResourceFlags(f)

	return f
}

func (c *Command) Run(args []string) int {
	f := c.Flags()
	if err := f.Parse(args); err != nil {
		c.UI.Error(fmt.Sprintf("error parsing flags: %v", err))
		return 1
	}
	if f.NArg() == 0 {
		c.UI.Error("at least one resource ID is required")
		return 1
	}

	svc, err := c.Service()
	if err != nil {
		return c.Fail("initializing client", err)
	}

	ids := f.Args()
	if len(ids) == 1 {
		err = svc.Delete(c.Ctx(), ids[0])
	} else {
		err = svc.BatchDelete(c.Ctx(), ids)
	}
	if err != nil {
		return c.Fail("deleting", err)
	}

	c.UI.Info(fmt.Sprintf("Deleted %d resource(s) from %s", len(ids), svc.Endpoint()))
	return 0
}
