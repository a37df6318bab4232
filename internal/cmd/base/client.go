package base

import (
	"context"
	"fmt"

	"github.com/hashicorp/go-hclog"

	"github.com/hashicorp-forge/granola-client/internal/config"
	"github.com/hashicorp-forge/granola-client/pkg/granola"
)

// ClientFlags are the flags of every command that talks to the API.
type ClientFlags struct {
	Config   string
	Token    string
	BaseURL  string
	LogLevel string
}

// AddClientFlags registers the client flags on f.
func (c *ClientFlags) AddClientFlags(f *FlagSet) {
	f.StringVar(&c.Config, "config", "",
		"Path to the config file. Defaults to $GRANOLA_CONFIG, then the user config directory.")
	f.StringVar(&c.Token, "token", "",
		"API bearer token. Overrides the config file and $GRANOLA_TOKEN.")
	f.StringVar(&c.BaseURL, "base-url", "",
		"API base URL. Overrides the config file and $GRANOLA_BASE_URL.")
	f.StringVar(&c.LogLevel, "log-level", "",
		"Log level (trace, debug, info, warn, error).")
}

// LoadConfig loads the CLI config and applies flag overrides.
func (c *Command) LoadConfig(flags ClientFlags) (*config.Config, error) {
	cfg, err := config.Load(flags.Config)
	if err != nil {
		return nil, err
	}
	if flags.Token != "" {
		cfg.Token = flags.Token
	}
	if flags.BaseURL != "" {
		cfg.BaseURL = flags.BaseURL
	}
	if flags.LogLevel != "" {
		cfg.LogLevel = flags.LogLevel
	}
	if cfg.LogLevel != "" {
		c.Log.SetLevel(hclog.LevelFromString(cfg.LogLevel))
	}
	return cfg, nil
}

// NewClient builds an API client from the CLI config and flags.
func (c *Command) NewClient(ctx context.Context, flags ClientFlags) (*granola.Client, error) {
	cfg, err := c.LoadConfig(flags)
	if err != nil {
		return nil, err
	}
	clientCfg, err := cfg.ClientConfig(ctx, c.Log)
	if err != nil {
		return nil, fmt.Errorf("error configuring client: %w", err)
	}
	return granola.New(clientCfg)
}
