package create

import (
	"encoding/json"
	"flag"
	"fmt"

	"github.com/Tunhoclaptrinh/Sen-App/internal/cmd/base"
	"github.com/Tunhoclaptrinh/Sen-App/internal/services"
)

type Command struct {
	*base.Command

	body base.BodyFlags
}

func (c *Command) Synopsis() string {
	return "Create one or more resources"
}

func (c *Command) Help() string {
	return `Usage: sen create -resource=<name> (-file=<path> | -data=<json>)

  Create a resource from a JSON object and print the stored result. When the
  body is a JSON array, every element is created concurrently; if any of them
  fails the command fails, and elements already created are not removed.` + c.Flags().Help()
}

func (c *Command) Flags() *base.FlagSet {
	f := base.NewFlagSet(flag.NewFlagSet("create", flag.ContinueOnError))

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

	body, err := c.body.Read(c.FS())
	if err != nil {
		c.UI.Error(err.Error())
		return 1
	}

	svc, err := c.Service()
	if err != nil {
		return c.Fail("initializing client", err)
	}

	if base.IsArray(body) {
		var items []services.Record
		if err := json.Unmarshal(body, &items); err != nil {
			c.UI.Error(fmt.Sprintf("error decoding body: %v", err))
			return 1
		}
		created, err := svc.BatchCreate(c.Ctx(), items)
		if err != nil {
			return c.Fail("creating resources", err)
		}
		return c.Output(created)
	}

	created, err := svc.Create(c.Ctx(), body)
	if err != nil {
		return c.Fail("creating resource", err)
	}
	return c.Output(created)
}
