package count

import (
	"flag"
	"fmt"
	"strconv"

	"github.com/Tunhoclaptrinh/Sen-App/internal/cmd/base"
)

type Command struct {
	*base.Command

	query base.QueryFlags
}

func (c *Command) Synopsis() string {
	return "Count resources matching filters"
}

func (c *Command) Help() string {
	return `Usage: sen count -resource=<name> [options]

  Print the number of resources matching the filters, as reported by the
  backend's pagination total. Prints 0 when the backend does not paginate
  the collection.` + c.Flags().Help()
}

func (c *Command) Flags() *base.FlagSet {
	f := base.NewFlagSet(flag.NewFlagSet("count", flag.ContinueOnError))

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

	n, err := svc.Count(c.Ctx(), q)
	if err != nil {
		return c.Fail("counting resources", err)
	}
	c.UI.Output(strconv.Itoa(n))
	return 0
}
