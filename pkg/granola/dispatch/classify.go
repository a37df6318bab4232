package dispatch

import (
	"errors"
	"maps"
	"net/http"
	"time"

	"github.com/hashicorp-forge/granola-client/pkg/granola/catalog"
	"github.com/hashicorp-forge/granola-client/pkg/granola/schema"
	"github.com/hashicorp-forge/granola-client/pkg/granola/transport"
)

// classify maps a non-2xx response to an error.
func classify(op string, resp *transport.Response, params map[string]string) *Error {
	e := &Error{
		Op:         op,
		StatusCode: resp.StatusCode,
		Body:       string(resp.Body),
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized, resp.StatusCode == http.StatusForbidden:
		e.Kind = ErrAuthorization
	case resp.StatusCode == http.StatusNotFound:
		e.Kind = ErrNotFound
		e.PathParams = maps.Clone(params)
	case resp.StatusCode == http.StatusTooManyRequests:
		e.Kind = ErrRateLimited
		e.RetryAfter = parseRetryAfter(resp.Header, time.Now())
	case resp.StatusCode >= 500:
		e.Kind = ErrServer
	default:
		e.Kind = ErrClient
	}
	return e
}

func pathError(op string, err error) *Error {
	var missing *catalog.MissingParamError
	if errors.As(err, &missing) {
		return &Error{Op: op, Kind: ErrMissingPathParameter, Param: missing.Param}
	}
	var unexpected *catalog.UnexpectedParamError
	if errors.As(err, &unexpected) {
		return &Error{Op: op, Kind: ErrUnexpectedPathParameter, Param: unexpected.Param}
	}
	return &Error{Op: op, Kind: ErrMissingPathParameter, Err: err}
}

func requestError(op string, err error) *Error {
	e := &Error{Op: op, Kind: ErrRequestValidation}
	var v *schema.Violation
	if errors.As(err, &v) {
		e.Field, e.Reason = v.Field, v.Reason
		return e
	}
	e.Err = err
	return e
}

func responseError(op string, err error) *Error {
	e := requestError(op, err)
	e.Kind = ErrResponseValidation
	return e
}
