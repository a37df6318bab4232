// Package auth supplies bearer credentials to the dispatcher.
package auth

import (
	"context"
	"errors"
	"time"
)

// ErrUnavailable is returned when no credential can be produced.
var ErrUnavailable = errors.New("no credential available")

// Credential is a bearer token and its optional expiry.
type Credential struct {
	Token        string
	RefreshToken string

	// Expiry is zero when the token does not expire.
	Expiry time.Time
}

// Valid reports whether the token is set and will not expire within skew of
// now.
func (c Credential) Valid(now time.Time, skew time.Duration) bool {
	if c.Token == "" {
		return false
	}
	return c.Expiry.IsZero() || now.Add(skew).Before(c.Expiry)
}

// Provider hands out credentials. Implementations must be safe for
// concurrent use.
type Provider interface {
	// Credential returns a currently valid credential, refreshing it first if
	// needed.
	Credential(ctx context.Context) (Credential, error)

	// Invalidate marks c as rejected by the server. A provider that still
	// holds c drops it so the next Credential call refreshes. Invalidating a
	// credential that was already replaced is a no-op.
	Invalidate(c Credential)
}

// Source produces a fresh credential. prev is the last credential the
// provider held, possibly zero; sources that refresh use prev.RefreshToken.
type Source interface {
	Fetch(ctx context.Context, prev Credential) (Credential, error)
}

// SourceFunc adapts a function to the Source interface.
type SourceFunc func(ctx context.Context, prev Credential) (Credential, error)

// Fetch calls f.
func (f SourceFunc) Fetch(ctx context.Context, prev Credential) (Credential, error) {
	return f(ctx, prev)
}

type static struct {
	cred Credential
}

// Static returns a provider for a fixed, non-expiring token. An empty token
// yields ErrUnavailable.
func Static(token string) Provider {
	return &static{cred: Credential{Token: token}}
}

func (s *static) Credential(context.Context) (Credential, error) {
	if s.cred.Token == "" {
		return Credential{}, ErrUnavailable
	}
	return s.cred, nil
}

func (s *static) Invalidate(Credential) {}
