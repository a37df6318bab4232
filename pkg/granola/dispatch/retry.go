package dispatch

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// newBackOff returns the retry schedule for one call: RetryDelay, doubling
// up to MaxRetryDelay, stopping after MaxRetries retries.
func (d *Dispatcher) newBackOff() backoff.BackOff {
	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = d.cfg.RetryDelay
	exp.MaxInterval = d.cfg.MaxRetryDelay
	exp.Multiplier = 2
	exp.RandomizationFactor = d.cfg.RetryJitter
	exp.MaxElapsedTime = 0
	b := backoff.WithMaxRetries(exp, uint64(d.cfg.MaxRetries))
	b.Reset()
	return b
}

// shouldRetry reports whether a failed attempt may be resent. Rate limiting
// is always retryable; server and transport failures only when resending
// cannot duplicate a side effect.
func shouldRetry(e *Error, retryable bool) bool {
	switch e.Kind {
	case ErrRateLimited:
		return true
	case ErrServer, ErrTransport:
		return retryable
	}
	return false
}

// parseRetryAfter reads a Retry-After header given in seconds or as an HTTP
// date.
func parseRetryAfter(h http.Header, now time.Time) time.Duration {
	v := strings.TrimSpace(h.Get("Retry-After"))
	if v == "" {
		return 0
	}
	if secs, err := strconv.Atoi(v); err == nil {
		if secs < 0 {
			return 0
		}
		return time.Duration(secs) * time.Second
	}
	if t, err := http.ParseTime(v); err == nil {
		if d := t.Sub(now); d > 0 {
			return d
		}
	}
	return 0
}

// wait sleeps for delay. It returns false without sleeping when the
// context's deadline would pass first, and false when the context ends
// during the wait.
func wait(ctx context.Context, delay time.Duration) bool {
	if deadline, ok := ctx.Deadline(); ok && time.Until(deadline) < delay {
		return false
	}
	if delay <= 0 {
		return ctx.Err() == nil
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
