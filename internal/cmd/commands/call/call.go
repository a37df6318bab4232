package call

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/hashicorp-forge/granola-client/internal/cmd/base"
	"github.com/hashicorp-forge/granola-client/pkg/granola/dispatch"
)

// Command dispatches any catalog operation by name.
type Command struct {
	*base.Command

	client      base.ClientFlags
	flagParams  base.StringMap
	flagBody    string
	flagTimeout time.Duration
}

func (c *Command) Synopsis() string {
	return "Call an API operation by name"
}

func (c *Command) Help() string {
	return `Usage: granola call [options] <operation>

  Dispatches an operation and prints the validated response as JSON.

  Path parameters are given with -param, and the request body as JSON with
  -body. A body starting with @ is read from the named file, and -body=-
  reads standard input.

      $ granola call -param id=abc123 get-document-metadata
      $ granola call -body '{"title":"Kickoff"}' create-document` +
		c.Flags().Help()
}

func (c *Command) Flags() *base.FlagSet {
	f := base.NewFlagSet(flag.NewFlagSet("call", flag.ContinueOnError))
	c.client.AddClientFlags(f)

	c.flagParams = base.StringMap{}
	f.Var(c.flagParams, "param", "Path parameter as name=value. May be repeated.")
	f.StringVar(&c.flagBody, "body", "", "Request body as JSON, @file, or - for stdin.")
	f.DurationVar(&c.flagTimeout, "timeout", 0, "Overall deadline for the call, including retries.")
	return f
}

func (c *Command) Run(args []string) int {
	flags := c.Flags()
	if err := flags.Parse(args); err != nil {
		c.UI.Error(fmt.Sprintf("error parsing flags: %v", err))
		return 1
	}
	if flags.NArg() != 1 {
		c.UI.Error("expected exactly one operation name")
		return 1
	}
	op := flags.Arg(0)

	ctx := context.Background()
	if c.flagTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.flagTimeout)
		defer cancel()
	}

	client, err := c.NewClient(ctx, c.client)
	if err != nil {
		c.UI.Error(err.Error())
		return 1
	}
	defer client.Close()

	d := client.Dispatcher()
	desc, ok := d.Catalog().Resolve(op)
	if !ok {
		c.UI.Error(fmt.Sprintf("unknown operation %q", op))
		return exitCode(dispatch.ErrUnknownOperation)
	}

	var body any
	if c.flagBody != "" {
		raw, err := readBody(c.flagBody)
		if err != nil {
			c.UI.Error(err.Error())
			return 1
		}
		body = desc.Request.New()
		if body == nil {
			c.UI.Error(fmt.Sprintf("operation %q takes no request body", op))
			return 1
		}
		if err := json.Unmarshal(raw, body); err != nil {
			c.UI.Error(fmt.Sprintf("error parsing body as %s: %v", desc.Request, err))
			return 1
		}
	}

	v, err := d.Dispatch(ctx, dispatch.Call{
		Operation:  op,
		PathParams: c.flagParams,
		Body:       body,
	})
	if err != nil {
		c.UI.Error(err.Error())
		c.Log.Debug("call failed", "operation", op, "kind", dispatch.KindOf(err))
		return exitCode(err)
	}
	if v == nil {
		return 0
	}

	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		c.UI.Error(fmt.Sprintf("error encoding response: %v", err))
		return 1
	}
	c.UI.Output(string(out))
	return 0
}

func readBody(s string) ([]byte, error) {
	switch {
	case s == "-":
		b, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("error reading stdin: %w", err)
		}
		return b, nil
	case strings.HasPrefix(s, "@"):
		b, err := os.ReadFile(s[1:])
		if err != nil {
			return nil, fmt.Errorf("error reading body file: %w", err)
		}
		return b, nil
	}
	return []byte(s), nil
}

// exitCode maps caller mistakes to 2 and everything else to 1.
func exitCode(err error) int {
	switch {
	case errors.Is(err, dispatch.ErrUnknownOperation),
		errors.Is(err, dispatch.ErrMissingPathParameter),
		errors.Is(err, dispatch.ErrUnexpectedPathParameter),
		errors.Is(err, dispatch.ErrRequestValidation):
		return 2
	}
	return 1
}
