package version

import (
	"fmt"

	"github.com/hashicorp-forge/granola-client/internal/cmd/base"
	"github.com/hashicorp-forge/granola-client/internal/version"
	"github.com/hashicorp-forge/granola-client/pkg/granola"
)

type Command struct {
	*base.Command
}

func (c *Command) Synopsis() string {
	return "Print the CLI version"
}

func (c *Command) Help() string {
	return `Usage: granola version

  Prints the CLI version and the desktop app version it identifies as.`
}

func (c *Command) Run(args []string) int {
	c.UI.Output(fmt.Sprintf("granola %s (client %s)", version.Version, granola.DefaultClientInfo().AppVersion))
	return 0
}
