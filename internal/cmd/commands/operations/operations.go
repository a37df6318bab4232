package operations

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/hashicorp-forge/granola-client/internal/cmd/base"
	"github.com/hashicorp-forge/granola-client/pkg/granola/catalog"
)

// Command lists the operations of the API catalog.
type Command struct {
	*base.Command

	flagJSON bool
}

func (c *Command) Synopsis() string {
	return "List API operations"
}

func (c *Command) Help() string {
	return `Usage: granola operations [options]

  Lists every operation the client can dispatch, with its method, path and
  whether it requires authentication or may be retried.` +
		c.Flags().Help()
}

func (c *Command) Flags() *base.FlagSet {
	f := base.NewFlagSet(flag.NewFlagSet("operations", flag.ContinueOnError))
	f.BoolVar(&c.flagJSON, "json", false, "Print operations as JSON.")
	return f
}

type operation struct {
	Name      string `json:"name"`
	Method    string `json:"method"`
	Path      string `json:"path"`
	Auth      bool   `json:"requires_auth"`
	Retryable bool   `json:"retryable"`
	Request   string `json:"request"`
	Response  string `json:"response"`
	Summary   string `json:"summary,omitempty"`
}

func (c *Command) Run(args []string) int {
	flags := c.Flags()
	if err := flags.Parse(args); err != nil {
		c.UI.Error(fmt.Sprintf("error parsing flags: %v", err))
		return 1
	}

	cat := catalog.Default()
	ops := make([]operation, 0, cat.Len())
	for _, name := range cat.Names() {
		d, _ := cat.Resolve(name)
		ops = append(ops, operation{
			Name:      d.Name,
			Method:    d.Method,
			Path:      d.Path,
			Auth:      d.RequiresAuth,
			Retryable: d.Retryable(),
			Request:   d.Request.String(),
			Response:  d.Response.String(),
			Summary:   d.Summary,
		})
	}

	if c.flagJSON {
		out, err := json.MarshalIndent(ops, "", "  ")
		if err != nil {
			c.UI.Error(fmt.Sprintf("error encoding operations: %v", err))
			return 1
		}
		c.UI.Output(string(out))
		return 0
	}

	var buf bytes.Buffer
	tw := table.NewWriter()
	tw.SetOutputMirror(&buf)
	tw.SetStyle(table.StyleLight)
	tw.AppendHeader(table.Row{"Operation", "Method", "Path", "Auth", "Retry", "Summary"})
	for _, op := range ops {
		tw.AppendRow(table.Row{op.Name, op.Method, op.Path, yesNo(op.Auth), yesNo(op.Retryable), op.Summary})
	}
	tw.Render()
	c.UI.Output(buf.String())
	return 0
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

// SchemaCommand prints the JSON Schema of an operation's request and
// response.
type SchemaCommand struct {
	*base.Command
}

func (c *SchemaCommand) Synopsis() string {
	return "Print the JSON Schema of an operation"
}

func (c *SchemaCommand) Help() string {
	return `Usage: granola schema <operation>

  Prints the JSON Schema of the request and response of an operation.
  Run "granola operations" to list operation names.`
}

func (c *SchemaCommand) Run(args []string) int {
	if len(args) != 1 {
		c.UI.Error("expected exactly one operation name")
		c.UI.Error(c.Help())
		return 1
	}

	d, ok := catalog.Default().Resolve(args[0])
	if !ok {
		c.UI.Error(fmt.Sprintf("unknown operation %q", args[0]))
		return 1
	}

	req, res := d.JSONSchema()
	out, err := json.MarshalIndent(map[string]any{
		"operation": d.Name,
		"method":    d.Method,
		"path":      d.Path,
		"request":   req,
		"response":  res,
	}, "", "  ")
	if err != nil {
		c.UI.Error(fmt.Sprintf("error encoding schema: %v", err))
		return 1
	}
	c.UI.Output(string(out))
	return 0
}
