package auth

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"
)

// OAuth2Source exchanges a refresh token for a new access token.
type OAuth2Source struct {
	Config *oauth2.Config

	// Seed supplies the first credential when the provider holds none,
	// typically a FileSource. A still-valid seed credential is used as is.
	Seed Source

	// HTTPClient is used for token requests. Defaults to
	// http.DefaultClient.
	HTTPClient *http.Client
}

// Fetch implements Source.
func (s *OAuth2Source) Fetch(ctx context.Context, prev Credential) (Credential, error) {
	refresh := prev.RefreshToken
	if refresh == "" && s.Seed != nil {
		seed, err := s.Seed.Fetch(ctx, prev)
		if err != nil {
			return Credential{}, err
		}
		if seed.Valid(time.Now(), 0) {
			return seed, nil
		}
		refresh = seed.RefreshToken
	}
	if refresh == "" {
		return Credential{}, ErrUnavailable
	}

	if s.HTTPClient != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, s.HTTPClient)
	}
	tok, err := s.Config.TokenSource(ctx, &oauth2.Token{RefreshToken: refresh}).Token()
	if err != nil {
		return Credential{}, fmt.Errorf("error exchanging refresh token: %w", err)
	}
	return Credential{
		Token:        tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		Expiry:       tok.Expiry,
	}, nil
}

// DiscoverEndpoint resolves the OAuth2 endpoints of an OpenID Connect
// issuer.
func DiscoverEndpoint(ctx context.Context, issuer string, client *http.Client) (oauth2.Endpoint, error) {
	if client != nil {
		ctx = oidc.ClientContext(ctx, client)
	}
	p, err := oidc.NewProvider(ctx, issuer)
	if err != nil {
		return oauth2.Endpoint{}, fmt.Errorf("error discovering %s: %w", issuer, err)
	}
	return p.Endpoint(), nil
}
