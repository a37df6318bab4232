package dispatch

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Kind classifies a dispatch failure. Each Kind is itself an error, so
// errors.Is(err, dispatch.ErrNotFound) matches any *Error of that kind.
type Kind string

func (k Kind) Error() string { return string(k) }

const (
	ErrUnknownOperation          Kind = "unknown operation"
	ErrMissingPathParameter      Kind = "missing path parameter"
	ErrUnexpectedPathParameter   Kind = "unexpected path parameter"
	ErrRequestValidation         Kind = "invalid request"
	ErrAuthenticationUnavailable Kind = "authentication unavailable"
	ErrAuthorization             Kind = "not authorized"
	ErrNotFound                  Kind = "not found"
	ErrRateLimited               Kind = "rate limited"
	ErrClient                    Kind = "client error"
	ErrServer                    Kind = "server error"
	ErrResponseValidation        Kind = "invalid response"
	ErrTransport                 Kind = "transport error"
	ErrTimeout                   Kind = "timeout"
)

const maxBodyInError = 512

// Error is returned by every failed dispatch.
type Error struct {
	// Op is the operation name.
	Op   string
	Kind Kind

	// StatusCode is the HTTP status, zero when no response was received.
	StatusCode int

	// Body is the raw response body of a non-2xx response.
	Body string

	// Field and Reason describe a request or response validation failure.
	Field  string
	Reason string

	// Param is the offending path parameter.
	Param string

	// PathParams are the caller's path parameters, set for NotFound.
	PathParams map[string]string

	// RetryAfter is the server's Retry-After hint, set for RateLimited.
	RetryAfter time.Duration

	// Attempts is the number of requests sent.
	Attempts int

	// Last is the failure of the final attempt when a Timeout interrupted
	// retries. It is not part of the error chain.
	Last *Error

	// Err is the underlying cause, if any.
	Err error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Op)
	b.WriteString(": ")
	b.WriteString(string(e.Kind))
	if e.StatusCode != 0 {
		fmt.Fprintf(&b, " (status %d)", e.StatusCode)
	}
	if e.Param != "" {
		fmt.Fprintf(&b, ": %q", e.Param)
	}
	if e.Kind == ErrNotFound && len(e.PathParams) > 0 {
		fmt.Fprintf(&b, ": %v", e.PathParams)
	}
	switch {
	case e.Field != "" && e.Reason != "":
		fmt.Fprintf(&b, ": %s: %s", e.Field, e.Reason)
	case e.Reason != "":
		b.WriteString(": " + e.Reason)
	}
	if e.Body != "" {
		body := e.Body
		if len(body) > maxBodyInError {
			body = body[:maxBodyInError] + "..."
		}
		b.WriteString(": " + body)
	}
	if e.Err != nil {
		b.WriteString(": " + e.Err.Error())
	}
	if e.Last != nil {
		fmt.Fprintf(&b, " (last attempt: %s", e.Last.Kind)
		if e.Last.StatusCode != 0 {
			fmt.Fprintf(&b, ", status %d", e.Last.StatusCode)
		}
		b.WriteString(")")
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is e's Kind.
func (e *Error) Is(target error) bool {
	k, ok := target.(Kind)
	return ok && k == e.Kind
}

// Retryable reports whether the failure is transient.
func (e *Error) Retryable() bool {
	switch e.Kind {
	case ErrRateLimited, ErrServer, ErrTransport:
		return true
	}
	return false
}

// KindOf returns the Kind of the first *Error in err's chain, or the empty
// Kind.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}
