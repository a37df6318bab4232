package auth

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/hashicorp/go-hclog"
	"golang.org/x/sync/singleflight"
)

const (
	defaultSkew           = 30 * time.Second
	defaultRefreshTimeout = 30 * time.Second
)

var _ Provider = (*Refreshing)(nil)

// Refreshing caches a credential and refreshes it from a Source when it is
// missing, expired or invalidated. Concurrent refreshes collapse into one
// call to the source.
type Refreshing struct {
	source  Source
	skew    time.Duration
	timeout time.Duration
	logger  hclog.Logger
	now     func() time.Time

	mu     sync.Mutex
	cached Credential

	group singleflight.Group
}

// RefreshOption configures a Refreshing provider.
type RefreshOption func(*Refreshing)

// WithSkew treats credentials as expired this long before their expiry.
func WithSkew(d time.Duration) RefreshOption {
	return func(r *Refreshing) { r.skew = d }
}

// WithRefreshTimeout bounds a single refresh.
func WithRefreshTimeout(d time.Duration) RefreshOption {
	return func(r *Refreshing) { r.timeout = d }
}

// WithLogger sets the logger.
func WithLogger(l hclog.Logger) RefreshOption {
	return func(r *Refreshing) { r.logger = l }
}

// WithInitial seeds the cache.
func WithInitial(c Credential) RefreshOption {
	return func(r *Refreshing) { r.cached = c }
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) RefreshOption {
	return func(r *Refreshing) { r.now = now }
}

// NewRefreshing returns a provider backed by src.
func NewRefreshing(src Source, opts ...RefreshOption) *Refreshing {
	r := &Refreshing{
		source:  src,
		skew:    defaultSkew,
		timeout: defaultRefreshTimeout,
		logger:  hclog.NewNullLogger(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Credential returns the cached credential or refreshes it. Each caller
// stops waiting when its own context ends; the shared refresh keeps running
// for the others.
func (r *Refreshing) Credential(ctx context.Context) (Credential, error) {
	r.mu.Lock()
	c := r.cached
	r.mu.Unlock()
	if c.Valid(r.now(), r.skew) {
		return c, nil
	}

	ch := r.group.DoChan("refresh", func() (any, error) {
		return r.refresh(context.WithoutCancel(ctx))
	})

	select {
	case <-ctx.Done():
		return Credential{}, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return Credential{}, res.Err
		}
		return res.Val.(Credential), nil
	}
}

func (r *Refreshing) refresh(ctx context.Context) (Credential, error) {
	r.mu.Lock()
	prev := r.cached
	r.mu.Unlock()

	// A refresh that finished between the cache check and this call already
	// produced a usable credential.
	if prev.Valid(r.now(), r.skew) {
		return prev, nil
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	r.logger.Debug("refreshing credential")
	c, err := r.source.Fetch(ctx, prev)
	if err != nil {
		r.logger.Warn("credential refresh failed", "error", err)
		return Credential{}, fmt.Errorf("error refreshing credential: %w", err)
	}
	if c.Token == "" {
		return Credential{}, ErrUnavailable
	}
	if c.RefreshToken == "" {
		c.RefreshToken = prev.RefreshToken
	}

	r.mu.Lock()
	r.cached = c
	r.mu.Unlock()

	r.logger.Debug("credential refreshed", "expiry", c.Expiry)
	return c, nil
}

// Invalidate drops the cached token if it is still c. The refresh token is
// kept for the next refresh.
func (r *Refreshing) Invalidate(c Credential) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cached.Token != "" && r.cached.Token == c.Token {
		r.cached.Token = ""
		r.cached.Expiry = time.Time{}
	}
}
