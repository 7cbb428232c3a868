package cmd

import (
	"github.com/hashicorp/go-hclog"
	"github.com/mitchellh/cli"

	"github.com/Tunhoclaptrinh/Sen-App/internal/cmd/base"
	"github.com/Tunhoclaptrinh/Sen-App/internal/cmd/commands/auth"
	"github.com/Tunhoclaptrinh/Sen-App/internal/cmd/commands/count"
	"github.com/Tunhoclaptrinh/Sen-App/internal/cmd/commands/create"
	deletecmd "github.com/Tunhoclaptrinh/Sen-App/internal/cmd/commands/delete"
	"github.com/Tunhoclaptrinh/Sen-App/internal/cmd/commands/exists"
	"github.com/Tunhoclaptrinh/Sen-App/internal/cmd/commands/get"
	"github.com/Tunhoclaptrinh/Sen-App/internal/cmd/commands/list"
	"github.com/Tunhoclaptrinh/Sen-App/internal/cmd/commands/patch"
	"github.com/Tunhoclaptrinh/Sen-App/internal/cmd/commands/search"
	"github.com/Tunhoclaptrinh/Sen-App/internal/cmd/commands/update"
	"github.com/Tunhoclaptrinh/Sen-App/internal/cmd/commands/version"
)

// Commands is the mapping of all available commands.
var Commands map[string]cli.CommandFactory

func initCommands(log hclog.Logger, ui cli.Ui) {
	Commands = commandsFor(base.NewCommand(log, ui))
}

// commandsFor returns the command factories sharing b.
func commandsFor(b *base.Command) map[string]cli.CommandFactory {
	return map[string]cli.CommandFactory{
		"auth": func() (cli.Command, error) {
			return &auth.Command{Command: b}, nil
		},
		"count": func() (cli.Command, error) {
			return &count.Command{Command: b}, nil
		},
		"create": func() (cli.Command, error) {
			return &create.Command{Command: b}, nil
		},
		"delete": func() (cli.Command, error) {
			return &deletecmd.Command{Command: b}, nil
		},
		"exists": func() (cli.Command, error) {
			return &exists.Command{Command: b}, nil
		},
		"get": func() (cli.Command, error) {
			return &get.Command{Command: b}, nil
		},
		"list": func() (cli.Command, error) {
			return &list.Command{Command: b}, nil
		},
		"patch": func() (cli.Command, error) {
			return &patch.Command{Command: b}, nil
		},
		"search": func() (cli.Command, error) {
			return &search.Command{Command: b}, nil
		},
		"update": func() (cli.Command, error) {
			return &update.Command{Command: b}, nil
		},
		"version": func() (cli.Command, error) {
			return &version.Command{Command: b}, nil
		},
	}
}
