package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func TestStatic(t *testing.T) {
	p := Static("tok")
	c, err := p.Credential(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "tok", c.Token)

	p.Invalidate(c)
	c, err = p.Credential(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "tok", c.Token)

	_, err = Static("").Credential(context.Background())
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestCredentialValid(t *testing.T) {
	now := time.Now()
	assert.False(t, Credential{}.Valid(now, 0))
	assert.True(t, Credential{Token: "a"}.Valid(now, time.Hour))
	assert.True(t, Credential{Token: "a", Expiry: now.Add(time.Minute)}.Valid(now, 0))
	assert.False(t, Credential{Token: "a", Expiry: now.Add(time.Minute)}.Valid(now, 2*time.Minute))
}

// countingSource returns tok-1, tok-2, ... and blocks each fetch until
// release is closed.
type countingSource struct {
	calls   atomic.Int32
	release chan struct{}
}

func (s *countingSource) Fetch(ctx context.Context, prev Credential) (Credential, error) {
	n := s.calls.Add(1)
	if s.release != nil {
		select {
		case <-s.release:
		case <-ctx.Done():
			return Credential{}, ctx.Err()
		}
	}
	return Credential{Token: fmt.Sprintf("tok-%d", n), RefreshToken: "refresh"}, nil
}

func TestRefreshing(t *testing.T) {
	t.Run("concurrent callers share one refresh", func(t *testing.T) {
		src := &countingSource{release: make(chan struct{})}
		p := NewRefreshing(src)

		const callers = 20
		var wg sync.WaitGroup
		tokens := make([]string, callers)
		errs := make([]error, callers)
		for i := 0; i < callers; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				c, err := p.Credential(context.Background())
				tokens[i], errs[i] = c.Token, err
			}(i)
		}

		time.Sleep(20 * time.Millisecond)
		close(src.release)
		wg.Wait()

		assert.Equal(t, int32(1), src.calls.Load())
		for i := 0; i < callers; i++ {
			require.NoError(t, errs[i])
			assert.Equal(t, "tok-1", tokens[i])
		}
	})

	t.Run("cached credential is reused", func(t *testing.T) {
		src := &countingSource{}
		p := NewRefreshing(src)
		for i := 0; i < 3; i++ {
			c, err := p.Credential(context.Background())
			require.NoError(t, err)
			assert.Equal(t, "tok-1", c.Token)
		}
		assert.Equal(t, int32(1), src.calls.Load())
	})

	t.Run("expired credential is refreshed", func(t *testing.T) {
		src := &countingSource{}
		now := time.Now()
		p := NewRefreshing(src,
			WithInitial(Credential{Token: "old", Expiry: now.Add(10 * time.Second)}),
			WithSkew(30*time.Second),
			WithClock(func() time.Time { return now }),
		)
		c, err := p.Credential(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "tok-1", c.Token)
	})

	t.Run("repeated invalidation of the same token refreshes once", func(t *testing.T) {
		src := &countingSource{}
		p := NewRefreshing(src, WithInitial(Credential{Token: "stale", RefreshToken: "r0"}))

		stale, err := p.Credential(context.Background())
		require.NoError(t, err)

		for i := 0; i < 5; i++ {
			p.Invalidate(stale)
			c, err := p.Credential(context.Background())
			require.NoError(t, err)
			assert.Equal(t, "tok-1", c.Token)
		}
		assert.Equal(t, int32(1), src.calls.Load())
	})

	t.Run("refresh token survives invalidation", func(t *testing.T) {
		var got string
		p := NewRefreshing(SourceFunc(func(_ context.Context, prev Credential) (Credential, error) {
			got = prev.RefreshToken
			return Credential{Token: "new"}, nil
		}), WithInitial(Credential{Token: "old", RefreshToken: "r1"}))

		p.Invalidate(Credential{Token: "old"})
		c, err := p.Credential(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "r1", got)
		assert.Equal(t, "r1", c.RefreshToken)
	})

	t.Run("waiter honors its own context", func(t *testing.T) {
		src := &countingSource{release: make(chan struct{})}
		defer close(src.release)
		p := NewRefreshing(src)

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
		defer cancel()
		_, err := p.Credential(ctx)
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})

	t.Run("source failure", func(t *testing.T) {
		boom := errors.New("boom")
		p := NewRefreshing(SourceFunc(func(context.Context, Credential) (Credential, error) {
			return Credential{}, boom
		}))
		_, err := p.Credential(context.Background())
		assert.ErrorIs(t, err, boom)
	})

	t.Run("empty token is unavailable", func(t *testing.T) {
		p := NewRefreshing(SourceFunc(func(context.Context, Credential) (Credential, error) {
			return Credential{}, nil
		}))
		_, err := p.Credential(context.Background())
		assert.ErrorIs(t, err, ErrUnavailable)
	})
}

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(exp),
	}).SignedString([]byte("test-key"))
	require.NoError(t, err)
	return tok
}

func writeSession(t *testing.T, fs afero.Fs, key string, tokens map[string]any) {
	t.Helper()
	inner, err := json.Marshal(tokens)
	require.NoError(t, err)
	outer, err := json.Marshal(map[string]any{key: string(inner)})
	require.NoError(t, err)
	require.NoError(t, afero.WriteFile(fs, "/session/supabase.json", outer, 0o600))
}

func TestFileSource(t *testing.T) {
	t.Run("cognito tokens with jwt expiry", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		exp := time.Now().Add(time.Hour).Truncate(time.Second)
		access := signedToken(t, exp)
		writeSession(t, fs, "cognito_tokens", map[string]any{
			"access_token":  access,
			"refresh_token": "refresh-1",
		})

		src := &FileSource{Fs: fs, Path: "/session/supabase.json"}
		c, err := src.Fetch(context.Background(), Credential{})
		require.NoError(t, err)
		assert.Equal(t, access, c.Token)
		assert.Equal(t, "refresh-1", c.RefreshToken)
		assert.True(t, exp.Equal(c.Expiry))
	})

	t.Run("workos tokens with explicit lifetime", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		obtained := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
		writeSession(t, fs, "workos_tokens", map[string]any{
			"access_token":  "opaque",
			"refresh_token": "refresh-2",
			"expires_in":    3600,
			"obtained_at":   obtained.UnixMilli(),
		})

		c, err := (&FileSource{Fs: fs, Path: "/session/supabase.json"}).Fetch(context.Background(), Credential{})
		require.NoError(t, err)
		assert.True(t, obtained.Add(time.Hour).Equal(c.Expiry))
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := (&FileSource{Fs: afero.NewMemMapFs(), Path: "/nope.json"}).Fetch(context.Background(), Credential{})
		assert.ErrorIs(t, err, ErrUnavailable)
	})

	t.Run("missing refresh token", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		writeSession(t, fs, "cognito_tokens", map[string]any{"access_token": "a"})
		_, err := (&FileSource{Fs: fs, Path: "/session/supabase.json"}).Fetch(context.Background(), Credential{})
		assert.ErrorContains(t, err, "access or refresh token missing")
	})

	t.Run("no token key", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		require.NoError(t, afero.WriteFile(fs, "/s.json", []byte(`{"user":"x"}`), 0o600))
		_, err := (&FileSource{Fs: fs, Path: "/s.json"}).Fetch(context.Background(), Credential{})
		assert.ErrorContains(t, err, "no tokens found")
	})
}

func TestTokenExpiry(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	assert.True(t, exp.Equal(TokenExpiry(signedToken(t, exp))))
	assert.True(t, TokenExpiry("not-a-jwt").IsZero())
}

func TestOAuth2Source(t *testing.T) {
	var refreshTokens []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		refreshTokens = append(refreshTokens, r.PostForm.Get("refresh_token"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"fresh","token_type":"Bearer","refresh_token":"rotated","expires_in":3600}`))
	}))
	defer srv.Close()

	cfg := &oauth2.Config{
		ClientID: "client",
		Endpoint: oauth2.Endpoint{TokenURL: srv.URL + "/oauth/token", AuthStyle: oauth2.AuthStyleInParams},
	}

	t.Run("exchanges previous refresh token", func(t *testing.T) {
		src := &OAuth2Source{Config: cfg, HTTPClient: srv.Client()}
		c, err := src.Fetch(context.Background(), Credential{RefreshToken: "r1"})
		require.NoError(t, err)
		assert.Equal(t, "fresh", c.Token)
		assert.Equal(t, "rotated", c.RefreshToken)
		assert.False(t, c.Expiry.IsZero())
		assert.Equal(t, "r1", refreshTokens[len(refreshTokens)-1])
	})

	t.Run("valid seed is used without exchange", func(t *testing.T) {
		before := len(refreshTokens)
		src := &OAuth2Source{Config: cfg, Seed: SourceFunc(func(context.Context, Credential) (Credential, error) {
			return Credential{Token: "seeded", RefreshToken: "r2"}, nil
		})}
		c, err := src.Fetch(context.Background(), Credential{})
		require.NoError(t, err)
		assert.Equal(t, "seeded", c.Token)
		assert.Len(t, refreshTokens, before)
	})

	t.Run("expired seed is exchanged", func(t *testing.T) {
		src := &OAuth2Source{Config: cfg, HTTPClient: srv.Client(), Seed: SourceFunc(func(context.Context, Credential) (Credential, error) {
			return Credential{Token: "old", RefreshToken: "r3", Expiry: time.Now().Add(-time.Minute)}, nil
		})}
		c, err := src.Fetch(context.Background(), Credential{})
		require.NoError(t, err)
		assert.Equal(t, "fresh", c.Token)
		assert.Equal(t, "r3", refreshTokens[len(refreshTokens)-1])
	})

	t.Run("no refresh token", func(t *testing.T) {
		_, err := (&OAuth2Source{Config: cfg}).Fetch(context.Background(), Credential{})
		assert.ErrorIs(t, err, ErrUnavailable)
	})
}

func TestDiscoverEndpoint(t *testing.T) {
	var issuer string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/.well-known/openid-configuration" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"issuer":                 issuer,
			"authorization_endpoint": issuer + "/authorize",
			"token_endpoint":         issuer + "/oauth/token",
			"jwks_uri":               issuer + "/jwks",
		})
	}))
	defer srv.Close()
	issuer = srv.URL

	ep, err := DiscoverEndpoint(context.Background(), issuer, srv.Client())
	require.NoError(t, err)
	assert.Equal(t, issuer+"/oauth/token", ep.TokenURL)
	assert.Equal(t, issuer+"/authorize", ep.AuthURL)
}
