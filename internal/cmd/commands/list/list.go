package list

import (
	"flag"
	"fmt"

	"github.com/Tunhoclaptrinh/Sen-App/internal/cmd/base"
	"github.com/Tunhoclaptrinh/Sen-App/pkg/resource"
)

type Command struct {
	*base.Command

	query base.QueryFlags
}

func (c *Command) Synopsis() string {
	return "List resources with paging, sorting and filters"
}

func (c *Command) Help() string {
	return `Usage: sen list -resource=<name> [options]

  List resources and print the response envelope, including pagination, as
  JSON. Filters use the backend operators as key suffixes: _gte, _lte, _ne,
  _like and _in.

  Example:
    sen list -resource=artifacts -page=2 -limit=20 -sort=name -filter=is3D=true` + c.Flags().Help()
}

func (c *Command) Flags() *base.FlagSet {
	f := base.NewFlagSet(flag.NewFlagSet("list", flag.ContinueOnError))

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

	q, err := c.query.Query()
	if err != nil {
		c.UI.Error(err.Error())
		return 1
	}

	svc, err := c.Service()
	if err != nil {
		return c.Fail("initializing client", err)
	}

	var env *resource.PagedEnvelope[map[string]any]
	if filters := c.query.Filters.Map(); len(filters) > 0 {
		env, err = svc.Filter(c.Ctx(), filters, q)
	} else {
		env, err = svc.GetAll(c.Ctx(), q)
	}
	if err != nil {
		return c.Fail("listing resources", err)
	}
	return c.Output(env)
}
