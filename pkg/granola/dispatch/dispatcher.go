// Package dispatch turns a named operation, path parameters and a body into
// one validated, typed result. It resolves the operation in a catalog,
// checks the caller's input before any network I/O, attaches credentials,
// sends the request with a bounded retry policy and classifies every
// failure into a Kind.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"

	"github.com/hashicorp-forge/granola-client/pkg/granola/auth"
	"github.com/hashicorp-forge/granola-client/pkg/granola/catalog"
	"github.com/hashicorp-forge/granola-client/pkg/granola/schema"
	"github.com/hashicorp-forge/granola-client/pkg/granola/transport"
)

// emptyObject is sent as the body of POST-like operations that take no
// payload; the API expects a JSON object on every POST.
var emptyObject = []byte("{}")

// Config configures a Dispatcher.
type Config struct {
	// BaseURL is the endpoint root, e.g. "https://api.granola.ai".
	BaseURL string

	// Catalog defaults to catalog.Default().
	Catalog *catalog.Catalog

	// Credentials supplies bearer tokens. When nil, operations that require
	// authentication fail with ErrAuthenticationUnavailable.
	Credentials auth.Provider

	// Transport defaults to a pooled HTTP transport.
	Transport transport.Transport

	// Timeout bounds each attempt. Zero means no limit beyond the context.
	Timeout time.Duration

	// MaxRetries is the retry ceiling: at most 1+MaxRetries requests are
	// sent for one call, not counting the single resend after a credential
	// refresh.
	MaxRetries int

	// RetryDelay is the first backoff delay. Later delays double.
	RetryDelay time.Duration

	// MaxRetryDelay caps the backoff delay. Defaults to 30 seconds.
	MaxRetryDelay time.Duration

	// RetryJitter randomizes backoff delays by this factor (0 to 1).
	RetryJitter float64

	// Header holds headers sent with every request.
	Header http.Header

	Logger hclog.Logger
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.BaseURL, validation.Required, validation.By(httpURL)),
		validation.Field(&c.Timeout, validation.Min(time.Duration(0))),
		validation.Field(&c.MaxRetries, validation.Min(0)),
		validation.Field(&c.RetryDelay, validation.Min(time.Duration(0))),
		validation.Field(&c.MaxRetryDelay, validation.Min(time.Duration(0))),
		validation.Field(&c.RetryJitter, validation.Min(0.0), validation.Max(1.0)),
	)
}

func httpURL(v any) error {
	s, _ := v.(string)
	u, err := url.Parse(s)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("must use http or https scheme, got %q", u.Scheme)
	}
	if u.Host == "" {
		return errors.New("must include a host")
	}
	return nil
}

// Dispatcher executes catalog operations. It is safe for concurrent use and
// holds no per-call state.
type Dispatcher struct {
	cfg       Config
	baseURL   string
	catalog   *catalog.Catalog
	creds     auth.Provider
	transport transport.Transport
	logger    hclog.Logger
}

// New creates a Dispatcher.
func New(cfg Config) (*Dispatcher, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid dispatcher config: %w", err)
	}
	if cfg.Catalog == nil {
		cfg.Catalog = catalog.Default()
	}
	if cfg.Transport == nil {
		cfg.Transport = transport.NewHTTP(transport.HTTPConfig{})
	}
	if cfg.Logger == nil {
		cfg.Logger = hclog.NewNullLogger()
	}
	if cfg.MaxRetryDelay == 0 {
		cfg.MaxRetryDelay = 30 * time.Second
	}
	if cfg.MaxRetryDelay < cfg.RetryDelay {
		cfg.MaxRetryDelay = cfg.RetryDelay
	}
	cfg.Header = cfg.Header.Clone()

	return &Dispatcher{
		cfg:       cfg,
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		catalog:   cfg.Catalog,
		creds:     cfg.Credentials,
		transport: cfg.Transport,
		logger:    cfg.Logger,
	}, nil
}

// Catalog returns the catalog operations are resolved in.
func (d *Dispatcher) Catalog() *catalog.Catalog {
	return d.catalog
}

// Call is one invocation of an operation.
type Call struct {
	Operation  string
	PathParams map[string]string

	// Body is the request value, of the operation's request type or a
	// pointer to it. nil means absent.
	Body any

	// Header adds or replaces request headers. Authorization cannot be
	// overridden.
	Header http.Header

	// Timeout overrides the configured per-attempt timeout.
	Timeout time.Duration
}

// Dispatch executes call and returns the decoded, validated response value,
// which has the operation's response type (nil for void operations). Every
// error is an *Error.
func (d *Dispatcher) Dispatch(ctx context.Context, call Call) (any, error) {
	op := call.Operation

	desc, ok := d.catalog.Resolve(op)
	if !ok {
		return nil, &Error{Op: op, Kind: ErrUnknownOperation}
	}

	path, err := desc.Template().Expand(call.PathParams)
	if err != nil {
		return nil, pathError(op, err)
	}

	if err := desc.Request.Validate(call.Body); err != nil {
		return nil, requestError(op, err)
	}

	target := d.baseURL + path
	body, err := d.encodeBody(desc, call.Body, &target)
	if err != nil {
		return nil, requestError(op, err)
	}

	var cred auth.Credential
	if desc.RequiresAuth {
		if cred, err = d.credential(ctx, op); err != nil {
			return nil, err
		}
	}

	logger := d.logger.With("operation", op)
	bo := d.newBackOff()
	refreshed := false
	attempts := 0

	for {
		if err := ctx.Err(); err != nil {
			return nil, &Error{Op: op, Kind: ErrTimeout, Attempts: attempts, Err: err}
		}

		attempts++
		req := d.buildRequest(desc, call, target, body, cred)
		logger.Debug("sending request",
			"method", req.Method,
			"url", req.URL,
			"attempt", attempts,
			"request_id", req.Header.Get("X-Request-Id"),
		)

		resp, sendErr := d.transport.Send(ctx, req)
		if sendErr != nil && ctx.Err() != nil {
			return nil, &Error{Op: op, Kind: ErrTimeout, Attempts: attempts, Err: ctx.Err()}
		}

		var callErr *Error
		if sendErr != nil {
			callErr = &Error{Op: op, Kind: ErrTransport, Err: sendErr}
		} else {
			logger.Trace("received response", "status", resp.StatusCode, "bytes", len(resp.Body))

			if resp.StatusCode >= 200 && resp.StatusCode < 300 {
				v, err := desc.Response.Decode(resp.Body)
				if err != nil {
					e := responseError(op, err)
					e.StatusCode = resp.StatusCode
					e.Attempts = attempts
					return nil, e
				}
				return v, nil
			}

			if resp.StatusCode == http.StatusUnauthorized && desc.RequiresAuth && !refreshed && d.creds != nil {
				// One credential refresh and one resend per call.
				refreshed = true
				logger.Debug("credential rejected, refreshing")
				d.creds.Invalidate(cred)
				if cred, err = d.credential(ctx, op); err != nil {
					var e *Error
					if errors.As(err, &e) {
						e.StatusCode = resp.StatusCode
						e.Body = string(resp.Body)
						e.Attempts = attempts
					}
					return nil, err
				}
				continue
			}

			callErr = classify(op, resp, call.PathParams)
		}

		callErr.Attempts = attempts
		if !shouldRetry(callErr, desc.Retryable()) {
			return nil, callErr
		}

		delay := bo.NextBackOff()
		if delay == backoff.Stop {
			return nil, callErr
		}
		if callErr.RetryAfter > delay {
			delay = callErr.RetryAfter
		}

		logger.Warn("retrying request",
			"attempt", attempts,
			"error", callErr.Kind,
			"status", callErr.StatusCode,
			"delay", delay,
		)
		if !wait(ctx, delay) {
			cause := ctx.Err()
			if cause == nil {
				cause = context.DeadlineExceeded
			}
			return nil, &Error{Op: op, Kind: ErrTimeout, Attempts: attempts, Err: cause, Last: callErr}
		}
	}
}

// encodeBody serializes the request value. Operations sent with GET-like
// methods carry it in the query string of target instead.
func (d *Dispatcher) encodeBody(desc catalog.Descriptor, v any, target *string) ([]byte, error) {
	if desc.QueryRequest() {
		q, err := desc.Request.Query(v)
		if err != nil {
			return nil, err
		}
		if len(q) > 0 {
			*target += "?" + q.Encode()
		}
		return nil, nil
	}

	body, err := desc.Request.Encode(v)
	if err != nil {
		return nil, err
	}
	if body == nil {
		body = emptyObject
	}
	return body, nil
}

func (d *Dispatcher) credential(ctx context.Context, op string) (auth.Credential, error) {
	if d.creds == nil {
		return auth.Credential{}, &Error{Op: op, Kind: ErrAuthenticationUnavailable, Err: auth.ErrUnavailable}
	}
	cred, err := d.creds.Credential(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return auth.Credential{}, &Error{Op: op, Kind: ErrTimeout, Err: err}
		}
		return auth.Credential{}, &Error{Op: op, Kind: ErrAuthenticationUnavailable, Err: err}
	}
	return cred, nil
}

func (d *Dispatcher) buildRequest(desc catalog.Descriptor, call Call, target string, body []byte, cred auth.Credential) *transport.Request {
	h := d.cfg.Header.Clone()
	if h == nil {
		h = http.Header{}
	}
	for k, v := range desc.Header {
		h[k] = append([]string(nil), v...)
	}

	h.Set("Accept", desc.Response.Format().ContentType())
	if body != nil {
		h.Set("Content-Type", schema.FormatJSON.ContentType())
	}
	h.Set("X-Request-Id", uuid.NewString())

	for k, v := range call.Header {
		k = http.CanonicalHeaderKey(k)
		if k == "Authorization" {
			continue
		}
		h[k] = append([]string(nil), v...)
	}

	h.Del("Authorization")
	if desc.RequiresAuth {
		h.Set("Authorization", "Bearer "+cred.Token)
	}

	timeout := d.cfg.Timeout
	if call.Timeout > 0 {
		timeout = call.Timeout
	}

	return &transport.Request{
		Method:  desc.Method,
		URL:     target,
		Header:  h,
		Body:    body,
		Timeout: timeout,
	}
}

// Do dispatches call and asserts the result to T.
func Do[T any](ctx context.Context, d *Dispatcher, call Call) (T, error) {
	var zero T
	v, err := d.Dispatch(ctx, call)
	if err != nil {
		return zero, err
	}
	if v == nil {
		return zero, nil
	}
	t, ok := v.(T)
	if !ok {
		return zero, &Error{
			Op:     call.Operation,
			Kind:   ErrResponseValidation,
			Reason: fmt.Sprintf("response is %T, not %T", v, zero),
		}
	}
	return t, nil
}
