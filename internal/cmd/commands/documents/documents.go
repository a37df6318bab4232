package documents

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/mitchellh/cli"
	"github.com/pkg/browser"

	"github.com/hashicorp-forge/granola-client/internal/cmd/base"
	"github.com/hashicorp-forge/granola-client/pkg/models"
)

// WebURL is where documents are opened in a browser.
const WebURL = "https://notes.granola.ai/d/"

type Command struct {
	*base.Command
}

func (c *Command) Synopsis() string {
	return "Work with documents"
}

func (c *Command) Help() string {
	return `Usage: granola documents <subcommand> [options] [args]

  This command groups subcommands for listing and reading documents.`
}

func (c *Command) Run(args []string) int {
	return cli.RunResultHelp
}

// ListCommand prints every document as a table.
type ListCommand struct {
	*base.Command

	client        base.ClientFlags
	flagWorkspace string
	flagFolder    string
	flagLimit     int
}

func (c *ListCommand) Synopsis() string {
	return "List documents"
}

func (c *ListCommand) Help() string {
	return `Usage: granola documents list [options]

  Lists documents, following pagination until -limit documents have been
  printed or no more remain.` +
		c.Flags().Help()
}

func (c *ListCommand) Flags() *base.FlagSet {
	f := base.NewFlagSet(flag.NewFlagSet("documents list", flag.ContinueOnError))
	c.client.AddClientFlags(f)
	f.StringVar(&c.flagWorkspace, "workspace", "", "Only list documents in this workspace.")
	f.StringVar(&c.flagFolder, "folder", "", "Only list documents in the folder with this name.")
	f.IntVar(&c.flagLimit, "limit", 0, "Maximum number of documents to print. 0 prints all.")
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

	var docs []models.Document
	if c.flagFolder != "" {
		docs, err = client.GetDocumentsByFolderName(ctx, c.flagFolder, false)
		if err != nil {
			c.UI.Error(fmt.Sprintf("error listing folder: %v", err))
			return 1
		}
		if c.flagLimit > 0 && len(docs) > c.flagLimit {
			docs = docs[:c.flagLimit]
		}
	} else {
		filters := &models.GetDocumentsRequest{WorkspaceID: c.flagWorkspace}
		for doc, err := range client.ListAllDocuments(ctx, filters) {
			if err != nil {
				c.UI.Error(fmt.Sprintf("error listing documents: %v", err))
				return 1
			}
			docs = append(docs, doc)
			if c.flagLimit > 0 && len(docs) >= c.flagLimit {
				break
			}
		}
	}

	var buf bytes.Buffer
	tw := table.NewWriter()
	tw.SetOutputMirror(&buf)
	tw.SetStyle(table.StyleLight)
	tw.AppendHeader(table.Row{"ID", "Title", "Created", "Updated"})
	for _, d := range docs {
		tw.AppendRow(table.Row{d.ID, d.Title, formatTime(d.CreatedAt), formatTime(d.UpdatedAt)})
	}
	tw.AppendFooter(table.Row{"", fmt.Sprintf("%d documents", len(docs))})
	tw.Render()
	c.UI.Output(buf.String())
	return 0
}

func formatTime(t models.Timestamp) string {
	if t.IsZero() {
		return ""
	}
	return t.Local().Format("2006-01-02 15:04")
}

// ShowCommand prints a document's metadata and notes.
type ShowCommand struct {
	*base.Command

	client base.ClientFlags
}

func (c *ShowCommand) Synopsis() string {
	return "Show a document's attendees and notes"
}

func (c *ShowCommand) Help() string {
	return `Usage: granola documents show [options] <id>

  Prints the title, creator, attendees and notes of a document as Markdown.` +
		c.Flags().Help()
}

func (c *ShowCommand) Flags() *base.FlagSet {
	f := base.NewFlagSet(flag.NewFlagSet("documents show", flag.ContinueOnError))
	c.client.AddClientFlags(f)
	return f
}

func (c *ShowCommand) Run(args []string) int {
	flags := c.Flags()
	if err := flags.Parse(args); err != nil {
		c.UI.Error(fmt.Sprintf("error parsing flags: %v", err))
		return 1
	}
	if flags.NArg() != 1 {
		c.UI.Error("expected exactly one document ID")
		return 1
	}
	id := flags.Arg(0)

	ctx := context.Background()
	client, err := c.NewClient(ctx, c.client)
	if err != nil {
		c.UI.Error(err.Error())
		return 1
	}
	defer client.Close()

	page, err := client.GetDocuments(ctx, &models.GetDocumentsRequest{
		DocumentIDs:            []string{id},
		IncludeLastViewedPanel: true,
		IncludeShared:          true,
	})
	if err != nil {
		c.UI.Error(fmt.Sprintf("error fetching document: %v", err))
		return 1
	}
	if len(page.Docs) == 0 {
		c.UI.Error(fmt.Sprintf("document %q not found", id))
		return 1
	}
	doc := page.Docs[0]

	meta, err := client.GetDocumentMetadata(ctx, id)
	if err != nil {
		c.Log.Warn("error fetching document metadata", "id", id, "error", err)
	}

	c.UI.Output(render(doc, meta))
	return 0
}

func render(doc models.Document, meta models.DocumentMetadata) string {
	var b strings.Builder
	b.WriteString("# " + doc.Title + "\n")

	var details []string
	if meta.Creator.Name != "" {
		details = append(details, "Creator: "+person(meta.Creator.Name, meta.Creator.Email))
	}
	if len(meta.Attendees) > 0 {
		names := make([]string, 0, len(meta.Attendees))
		for _, a := range meta.Attendees {
			names = append(names, person(a.Name, a.Email))
		}
		details = append(details, "Attendees: "+strings.Join(names, ", "))
	}
	if !doc.CreatedAt.IsZero() {
		details = append(details, "Created: "+formatTime(doc.CreatedAt))
	}
	if len(details) > 0 {
		b.WriteString("\n" + strings.Join(details, "\n") + "\n")
	}

	notes := doc.NotesMarkdown
	if notes == "" {
		notes = doc.Notes()
	}
	if notes == "" {
		notes = doc.NotesPlain
	}
	if notes != "" {
		b.WriteString("\n" + notes + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func person(name, email string) string {
	switch {
	case name == "":
		return email
	case email == "":
		return name
	}
	return fmt.Sprintf("%s <%s>", name, email)
}

// OpenCommand opens a document in the web app.
type OpenCommand struct {
	*base.Command

	// Open defaults to browser.OpenURL.
	Open func(url string) error
}

func (c *OpenCommand) Synopsis() string {
	return "Open a document in the browser"
}

func (c *OpenCommand) Help() string {
	return `Usage: granola open <id>

  Opens a document in the Granola web app using the default browser.`
}

func (c *OpenCommand) Run(args []string) int {
	if len(args) != 1 || args[0] == "" {
		c.UI.Error("expected exactly one document ID")
		return 1
	}

	open := c.Open
	if open == nil {
		open = browser.OpenURL
	}
	url := WebURL + args[0]
	c.UI.Info("Opening " + url)
	if err := open(url); err != nil {
		c.UI.Error(fmt.Sprintf("error opening browser: %v", err))
		return 1
	}
	return 0
}
