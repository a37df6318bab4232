package folders

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"sort"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/mitchellh/cli"

	"github.com/hashicorp-forge/granola-client/internal/cmd/base"
	"github.com/hashicorp-forge/granola-client/pkg/models"
)

type Command struct {
	*base.Command
}

func (c *Command) Synopsis() string {
	return "Work with folders"
}

func (c *Command) Help() string {
	return `Usage: granola folders <subcommand> [options] [args]

  This command groups subcommands for folders (document lists).`
}

func (c *Command) Run(args []string) int {
	return cli.RunResultHelp
}

// ListCommand prints every folder the user can see.
type ListCommand struct {
	*base.Command

	client base.ClientFlags
}

func (c *ListCommand) Synopsis() string {
	return "List folders"
}

func (c *ListCommand) Help() string {
	return `Usage: granola folders list [options]

  Lists folders with their document counts, sorted by title.` +
		c.Flags().Help()
}

func (c *ListCommand) Flags() *base.FlagSet {
	f := base.NewFlagSet(flag.NewFlagSet("folders list", flag.ContinueOnError))
	c.client.AddClientFlags(f)
	return f
}

func (c *ListCommand) Run(args []string) int {
	flags := c.Flags()
	if err := flags.Parse(args); err != nil {
		c.UI.Error(fmt.Sprintf("error parsing flags: %v", err))
		return 1
	}

	ctx := context.Background()
	client, err := c.NewClient(ctx, c.client)
	if err != nil {
		c.UI.Error(err.Error())
		return 1
	}
	defer client.Close()

	resp, err := client.GetDocumentLists(ctx)
	if err != nil {
		c.UI.Error(fmt.Sprintf("error listing folders: %v", err))
		return 1
	}

	c.UI.Output(renderTable(resp.Lists))
	return 0
}

func renderTable(lists map[string]models.DocumentList) string {
	folders := make([]models.DocumentList, 0, len(lists))
	for _, f := range lists {
		folders = append(folders, f)
	}
	sort.Slice(folders, func(i, j int) bool {
		if folders[i].Title != folders[j].Title {
			return folders[i].Title < folders[j].Title
		}
		return folders[i].ID < folders[j].ID
	})

	var buf bytes.Buffer
	tw := table.NewWriter()
	tw.SetOutputMirror(&buf)
	tw.SetStyle(table.StyleLight)
	tw.AppendHeader(table.Row{"ID", "Title", "Documents", "Shared"})
	for _, f := range folders {
		shared := ""
		if f.IsShared {
			shared = "yes"
		}
		tw.AppendRow(table.Row{f.ID, f.Title, len(f.DocumentIDs), shared})
	}
	tw.Render()
	return buf.String()
}
