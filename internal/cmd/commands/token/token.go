package token

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/hashicorp-forge/granola-client/internal/cmd/base"
	"github.com/hashicorp-forge/granola-client/pkg/granola/auth"
)

// Command inspects the credential the CLI would use.
type Command struct {
	*base.Command

	client   base.ClientFlags
	flagShow bool

	// Now defaults to time.Now.
	Now func() time.Time
}

func (c *Command) Synopsis() string {
	return "Inspect the API credential"
}

func (c *Command) Help() string {
	return `Usage: granola token [options]

  Resolves the credential the CLI would send, from -token, $GRANOLA_TOKEN,
  the config file, or the desktop app's session file, and prints where it
  came from and when it expires. The token itself is printed only with
  -show.` +
		c.Flags().Help()
}

func (c *Command) Flags() *base.FlagSet {
	f := base.NewFlagSet(flag.NewFlagSet("token", flag.ContinueOnError))
	c.client.AddClientFlags(f)
	f.BoolVar(&c.flagShow, "show", false, "Print the token.")
	return f
}

func (c *Command) Run(args []string) int {
	flags := c.Flags()
	if err := flags.Parse(args); err != nil {
		c.UI.Error(fmt.Sprintf("error parsing flags: %v", err))
		return 1
	}

	now := time.Now
	if c.Now != nil {
		now = c.Now
	}

	ctx := context.Background()
	cfg, err := c.LoadConfig(c.client)
	if err != nil {
		c.UI.Error(err.Error())
		return 1
	}
	clientCfg, err := cfg.ClientConfig(ctx, c.Log)
	if err != nil {
		c.UI.Error(err.Error())
		return 1
	}

	var (
		cred   auth.Credential
		source string
	)
	switch {
	case clientCfg.AuthToken != "":
		cred, source = auth.Credential{Token: clientCfg.AuthToken}, "token"
	case clientCfg.Credentials != nil:
		if cred, err = clientCfg.Credentials.Credential(ctx); err != nil {
			c.UI.Error(fmt.Sprintf("error reading credential: %v", err))
			return 1
		}
		source = "token file"
	default:
		path, err := auth.DefaultTokenPath()
		if err != nil {
			c.UI.Error("no credential configured: set -token, $GRANOLA_TOKEN or token_file")
			return 1
		}
		if cred, err = auth.NewFileSource(path).Fetch(ctx, auth.Credential{}); err != nil {
			c.UI.Error(fmt.Sprintf("error reading credential: %v", err))
			return 1
		}
		source = path
	}

	if cred.Expiry.IsZero() {
		cred.Expiry = auth.TokenExpiry(cred.Token)
	}

	c.UI.Output(fmt.Sprintf("Source:        %s", source))
	switch {
	case cred.Expiry.IsZero():
		c.UI.Output("Expires:       unknown")
	case cred.Valid(now(), 0):
		c.UI.Output(fmt.Sprintf("Expires:       %s (in %s)",
			cred.Expiry.Local().Format(time.RFC3339), cred.Expiry.Sub(now()).Round(time.Second)))
	default:
		c.UI.Output(fmt.Sprintf("Expired:       %s", cred.Expiry.Local().Format(time.RFC3339)))
	}
	c.UI.Output(fmt.Sprintf("Refreshable:   %t", cred.RefreshToken != ""))
	if c.flagShow {
		c.UI.Output(fmt.Sprintf("Token:         %s", cred.Token))
	}

	if !cred.Expiry.IsZero() && !cred.Valid(now(), 0) {
		return 1
	}
	return 0
}
