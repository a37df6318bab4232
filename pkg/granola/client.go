// Package granola is a typed client for the Granola note-taking API.
//
// Every method is a thin wrapper over one catalog operation; the request
// dispatch core lives in package dispatch and is available through
// Client.Dispatcher for untyped calls.
package granola

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"runtime"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/hashicorp/go-hclog"

	"github.com/hashicorp-forge/granola-client/pkg/granola/auth"
	"github.com/hashicorp-forge/granola-client/pkg/granola/catalog"
	"github.com/hashicorp-forge/granola-client/pkg/granola/dispatch"
	"github.com/hashicorp-forge/granola-client/pkg/granola/transport"
)

// ServiceName names the client in trace spans.
const ServiceName = "granola-client"

const (
	DefaultBaseURL    = "https://api.granola.ai"
	DefaultTimeout    = 10 * time.Second
	DefaultMaxRetries = 3
	DefaultRetryDelay = 250 * time.Millisecond
)

// Config configures a Client.
type Config struct {
	// BaseURL is the API root.
	BaseURL string

	// AuthToken is a fixed bearer token. It takes precedence over
	// Credentials.
	AuthToken string

	// Credentials supplies bearer tokens. When neither AuthToken nor
	// Credentials is set, the client reads the desktop app's session file on
	// macOS and has no credentials elsewhere.
	Credentials auth.Provider

	// Timeout bounds each request attempt.
	Timeout time.Duration

	MaxRetries    int
	RetryDelay    time.Duration
	MaxRetryDelay time.Duration

	// TLSVerify controls TLS certificate verification. nil means verify.
	TLSVerify *bool

	// Trace enables Datadog APM spans for outgoing requests.
	Trace bool

	// Client identifies the calling application to the API.
	Client ClientInfo

	Logger hclog.Logger

	// Transport overrides the pooled HTTP transport.
	Transport transport.Transport

	// Catalog overrides the default operation catalog.
	Catalog *catalog.Catalog
}

// DefaultConfig returns the configuration used by the desktop app.
func DefaultConfig() Config {
	return Config{
		BaseURL:    DefaultBaseURL,
		Timeout:    DefaultTimeout,
		MaxRetries: DefaultMaxRetries,
		RetryDelay: DefaultRetryDelay,
		Client:     DefaultClientInfo(),
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.BaseURL, validation.Required),
		validation.Field(&c.Timeout, validation.Min(time.Duration(0))),
		validation.Field(&c.MaxRetries, validation.Min(0), validation.Max(10)),
		validation.Field(&c.RetryDelay, validation.Min(time.Duration(0))),
		validation.Field(&c.MaxRetryDelay, validation.Min(time.Duration(0))),
	)
}

// Client is a Granola API client. It is safe for concurrent use.
type Client struct {
	d         *dispatch.Dispatcher
	transport transport.Transport
	logger    hclog.Logger
}

// New creates a Client.
func New(cfg Config) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid client config: %w", err)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = hclog.NewNullLogger()
	}

	tr := cfg.Transport
	if tr == nil {
		tr = transport.NewHTTP(transport.HTTPConfig{
			TLSVerify:   cfg.TLSVerify,
			Trace:       cfg.Trace,
			ServiceName: ServiceName,
		})
	}

	d, err := dispatch.New(dispatch.Config{
		BaseURL:       cfg.BaseURL,
		Catalog:       cfg.Catalog,
		Credentials:   credentials(cfg, logger),
		Transport:     tr,
		Timeout:       cfg.Timeout,
		MaxRetries:    cfg.MaxRetries,
		RetryDelay:    cfg.RetryDelay,
		MaxRetryDelay: cfg.MaxRetryDelay,
		RetryJitter:   0.1,
		Header:        cfg.Client.Header(),
		Logger:        logger.Named("dispatch"),
	})
	if err != nil {
		return nil, err
	}

	return &Client{
		d:         d,
		transport: tr,
		logger:    logger,
	}, nil
}

// credentials picks the credential provider for cfg. It returns nil when no
// source is available, so authenticated operations fail with
// dispatch.ErrAuthenticationUnavailable.
func credentials(cfg Config, logger hclog.Logger) auth.Provider {
	switch {
	case cfg.AuthToken != "":
		return auth.Static(cfg.AuthToken)
	case cfg.Credentials != nil:
		return cfg.Credentials
	}

	path, err := auth.DefaultTokenPath()
	if err != nil {
		if errors.Is(err, auth.ErrUnsupportedPlatform) {
			logger.Warn("automatic token retrieval is only supported on macOS, provide a token", "os", runtime.GOOS)
		} else {
			logger.Warn("error locating session file", "error", err)
		}
		return nil
	}
	return auth.NewRefreshing(auth.NewFileSource(path), auth.WithLogger(logger.Named("auth")))
}

// Dispatcher returns the dispatch core, for operations without a typed
// method or catalogs with custom operations.
func (c *Client) Dispatcher() *dispatch.Dispatcher {
	return c.d
}

// Close releases idle connections held by the client's transport.
func (c *Client) Close() error {
	if t, ok := c.transport.(interface{ CloseIdleConnections() }); ok {
		t.CloseIdleConnections()
	}
	return nil
}

func call[T any](ctx context.Context, c *Client, op string, params map[string]string, body any) (T, error) {
	return dispatch.Do[T](ctx, c.d, dispatch.Call{
		Operation:  op,
		PathParams: params,
		Body:       body,
	})
}

func exec(ctx context.Context, c *Client, op string, params map[string]string, body any) error {
	_, err := c.d.Dispatch(ctx, dispatch.Call{
		Operation:  op,
		PathParams: params,
		Body:       body,
	})
	return err
}

// ClientInfo describes the calling application. It is sent as the
// User-Agent and X-Client-* headers on every request.
type ClientInfo struct {
	AppVersion      string
	ClientType      string
	Platform        string
	Architecture    string
	ElectronVersion string
	ChromeVersion   string
	NodeVersion     string
	OSVersion       string
	OSBuild         string

	// Headers are extra headers sent with every request.
	Headers map[string]string
}

// DefaultClientInfo identifies as the desktop app on the running platform.
func DefaultClientInfo() ClientInfo {
	return ClientInfo{
		AppVersion:      "6.4.0",
		ClientType:      "electron",
		Platform:        runtime.GOOS,
		Architecture:    runtime.GOARCH,
		ElectronVersion: "33.4.5",
		ChromeVersion:   "130.0.6723.191",
		NodeVersion:     "20.18.3",
	}
}

// Header returns the request headers for ci. Empty fields are omitted.
func (ci ClientInfo) Header() http.Header {
	h := http.Header{}
	set := func(k, v string) {
		if v != "" {
			h.Set(k, v)
		}
	}

	if ci.AppVersion != "" {
		ua := "Granola/" + ci.AppVersion
		if ci.ElectronVersion != "" {
			ua += " Electron/" + ci.ElectronVersion
		}
		if ci.Platform != "" {
			ua += fmt.Sprintf(" (%s; %s)", ci.Platform, ci.Architecture)
		}
		h.Set("User-Agent", ua)
	}
	set("X-App-Version", ci.AppVersion)
	set("X-Client-Type", ci.ClientType)
	set("X-Client-Platform", ci.Platform)
	set("X-Client-Architecture", ci.Architecture)
	set("X-Electron-Version", ci.ElectronVersion)
	set("X-Chrome-Version", ci.ChromeVersion)
	set("X-Node-Version", ci.NodeVersion)
	set("X-OS-Version", ci.OSVersion)
	set("X-OS-Build", ci.OSBuild)

	for k, v := range ci.Headers {
		h.Set(k, v)
	}
	return h
}
