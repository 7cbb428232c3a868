package version

import (
	"github.com/Tunhoclaptrinh/Sen-App/internal/cmd/base"
	"github.com/Tunhoclaptrinh/Sen-App/internal/version"
)

type Command struct {
	*base.Command
}

func (c *Command) Synopsis() string {
	return "Print the version"
}

func (c *Command) Help() string {
	return `Usage: sen version

  Print the version of the sen client.`
}

func (c *Command) Run(args []string) int {
	c.UI.Output(version.String())
	return 0
}
