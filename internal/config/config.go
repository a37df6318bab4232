// Package config loads the granola CLI configuration from an HCL file and
// the environment.
package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/hcl/v2/hclsimple"
	"golang.org/x/oauth2"

	"github.com/hashicorp-forge/granola-client/pkg/granola"
	"github.com/hashicorp-forge/granola-client/pkg/granola/auth"
	"github.com/hashicorp-forge/granola-client/pkg/granola/transport"
)

const (
	EnvConfig  = "GRANOLA_CONFIG"
	EnvToken   = "GRANOLA_TOKEN"
	EnvBaseURL = "GRANOLA_BASE_URL"
)

// Config is the CLI configuration.
type Config struct {
	BaseURL   string `hcl:"base_url,optional"`
	Token     string `hcl:"token,optional"`
	TokenFile string `hcl:"token_file,optional"`
	LogLevel  string `hcl:"log_level,optional"`

	// Durations use Go syntax, e.g. "10s".
	Timeout    string `hcl:"timeout,optional"`
	RetryDelay string `hcl:"retry_delay,optional"`

	MaxRetries *int  `hcl:"max_retries,optional"`
	TLSVerify  *bool `hcl:"tls_verify,optional"`
	Trace      bool  `hcl:"trace,optional"`

	Client *Client `hcl:"client,block"`
	OAuth  *OAuth  `hcl:"oauth,block"`
}

// Client overrides the identity reported to the API.
type Client struct {
	AppVersion string            `hcl:"app_version,optional"`
	ClientType string            `hcl:"client_type,optional"`
	Headers    map[string]string `hcl:"headers,optional"`
}

// OAuth configures refresh-token exchange for tokens read from TokenFile or
// the desktop session file.
type OAuth struct {
	ClientID string `hcl:"client_id"`
	Issuer   string `hcl:"issuer,optional"`
	TokenURL string `hcl:"token_url,optional"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.BaseURL, validation.By(httpURL)),
		validation.Field(&c.LogLevel, validation.In("trace", "debug", "info", "warn", "error", "off")),
		validation.Field(&c.Timeout, validation.By(duration)),
		validation.Field(&c.RetryDelay, validation.By(duration)),
		validation.Field(&c.MaxRetries, validation.Min(0), validation.Max(10)),
		validation.Field(&c.OAuth),
	)
}

// Validate validates the OAuth block.
func (o *OAuth) Validate() error {
	return validation.ValidateStruct(o,
		validation.Field(&o.ClientID, validation.Required),
		validation.Field(&o.Issuer,
			validation.When(o.TokenURL == "", validation.Required.Error("issuer or token_url is required")),
			validation.By(httpURL)),
		validation.Field(&o.TokenURL, validation.By(httpURL)),
	)
}

func httpURL(v any) error {
	s, _ := v.(string)
	if s == "" {
		return nil
	}
	u, err := url.Parse(s)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return errors.New("must be an http or https URL")
	}
	return nil
}

func duration(v any) error {
	s, _ := v.(string)
	if s == "" {
		return nil
	}
	if _, err := time.ParseDuration(s); err != nil {
		return errors.New("must be a duration such as 10s")
	}
	return nil
}

// DefaultPath returns the default config file location,
// $XDG_CONFIG_HOME/granola/granola.hcl or the OS equivalent.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "granola", "granola.hcl"), nil
}

// Load reads the config file at path, falling back to GRANOLA_CONFIG and then
// DefaultPath, and applies environment overrides. A missing default file is
// not an error; a missing explicit file is.
func Load(path string) (*Config, error) {
	explicit := true
	if path == "" {
		path = os.Getenv(EnvConfig)
	}
	if path == "" {
		explicit = false
		var err error
		if path, err = DefaultPath(); err != nil {
			path = ""
		}
	}

	cfg := &Config{}
	if path != "" {
		err := hclsimple.DecodeFile(path, nil, cfg)
		switch {
		case err == nil:
		case !explicit && isNotExist(path):
			cfg = &Config{}
		default:
			return nil, fmt.Errorf("error parsing config file %q: %w", path, err)
		}
	}

	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func isNotExist(path string) bool {
	_, err := os.Stat(path)
	return errors.Is(err, fs.ErrNotExist)
}

func (c *Config) applyEnv() {
	if v := os.Getenv(EnvToken); v != "" {
		c.Token = v
	}
	if v := os.Getenv(EnvBaseURL); v != "" {
		c.BaseURL = v
	}
}

// ClientConfig converts c into a client configuration. Credentials are
// resolved in order: token, token file, then the client's platform default.
// When an oauth block is present, tokens are refreshed against its token
// endpoint, which is discovered from the issuer if not given.
func (c *Config) ClientConfig(ctx context.Context, logger hclog.Logger) (granola.Config, error) {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	cfg := granola.DefaultConfig()
	cfg.Logger = logger
	cfg.AuthToken = c.Token
	cfg.TLSVerify = c.TLSVerify
	cfg.Trace = c.Trace

	if c.BaseURL != "" {
		cfg.BaseURL = strings.TrimRight(c.BaseURL, "/")
	}
	if c.Timeout != "" {
		d, err := time.ParseDuration(c.Timeout)
		if err != nil {
			return cfg, fmt.Errorf("invalid timeout: %w", err)
		}
		cfg.Timeout = d
	}
	if c.RetryDelay != "" {
		d, err := time.ParseDuration(c.RetryDelay)
		if err != nil {
			return cfg, fmt.Errorf("invalid retry_delay: %w", err)
		}
		cfg.RetryDelay = d
	}
	if c.MaxRetries != nil {
		cfg.MaxRetries = *c.MaxRetries
	}
	if c.Client != nil {
		if c.Client.AppVersion != "" {
			cfg.Client.AppVersion = c.Client.AppVersion
		}
		if c.Client.ClientType != "" {
			cfg.Client.ClientType = c.Client.ClientType
		}
		cfg.Client.Headers = c.Client.Headers
	}

	// Token refresh and discovery share the API transport.
	tr := transport.NewHTTP(transport.HTTPConfig{
		TLSVerify:   cfg.TLSVerify,
		Trace:       cfg.Trace,
		ServiceName: granola.ServiceName,
	})
	cfg.Transport = tr

	if cfg.AuthToken != "" {
		return cfg, nil
	}

	var src auth.Source
	switch {
	case c.TokenFile != "":
		src = auth.NewFileSource(c.TokenFile)
	case c.OAuth != nil:
		path, err := auth.DefaultTokenPath()
		if err != nil {
			return cfg, fmt.Errorf("oauth requires token_file on this platform: %w", err)
		}
		src = auth.NewFileSource(path)
	default:
		return cfg, nil
	}

	if c.OAuth != nil {
		endpoint := oauth2.Endpoint{TokenURL: c.OAuth.TokenURL}
		if endpoint.TokenURL == "" {
			var err error
			if endpoint, err = auth.DiscoverEndpoint(ctx, c.OAuth.Issuer, tr.Client()); err != nil {
				return cfg, err
			}
		}
		src = &auth.OAuth2Source{
			Config:     &oauth2.Config{ClientID: c.OAuth.ClientID, Endpoint: endpoint},
			Seed:       src,
			HTTPClient: tr.Client(),
		}
	}
	cfg.Credentials = auth.NewRefreshing(src, auth.WithLogger(logger.Named("auth")))
	return cfg, nil
}
