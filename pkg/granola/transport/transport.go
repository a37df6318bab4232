// Package transport sends fully built requests over the wire. The dispatcher
// depends only on the Transport interface, so any engine (or a test fake)
// can stand in for the HTTP implementation.
package transport

import (
	"context"
	"net/http"
	"time"
)

// Request is a fully built request.
type Request struct {
	Method string
	URL    string
	Header http.Header
	Body   []byte

	// Timeout bounds this attempt. Zero means no per-attempt limit beyond
	// the context.
	Timeout time.Duration
}

// Response is a received response with its body fully read.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Transport sends one request and returns the response, or an error when no
// response was received.
type Transport interface {
	Send(ctx context.Context, req *Request) (*Response, error)
}

// Func adapts a function to the Transport interface.
type Func func(ctx context.Context, req *Request) (*Response, error)

// Send calls f.
func (f Func) Send(ctx context.Context, req *Request) (*Response, error) {
	return f(ctx, req)
}
