package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/spf13/afero"
)

// ErrUnsupportedPlatform is returned by DefaultTokenPath outside macOS.
var ErrUnsupportedPlatform = errors.New("automatic token discovery is only supported on macOS")

// tokenKeys are the keys of the desktop app's session file that hold the
// token payload, newest first.
var tokenKeys = []string{"workos_tokens", "cognito_tokens"}

// DefaultTokenPath returns the session file written by the Granola desktop
// app.
func DefaultTokenPath() (string, error) {
	if runtime.GOOS != "darwin" {
		return "", ErrUnsupportedPlatform
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("error finding home directory: %w", err)
	}
	return filepath.Join(home, "Library", "Application Support", "Granola", "supabase.json"), nil
}

// FileSource reads tokens from the desktop app's session file. The file is
// re-read on every fetch so tokens rotated by the app are picked up.
type FileSource struct {
	Fs   afero.Fs
	Path string
}

// NewFileSource returns a FileSource reading path from the OS filesystem.
func NewFileSource(path string) *FileSource {
	return &FileSource{Fs: afero.NewOsFs(), Path: path}
}

type sessionTokens struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`

	// ObtainedAt is in Unix milliseconds.
	ObtainedAt int64 `json:"obtained_at"`
}

// Fetch implements Source.
func (s *FileSource) Fetch(_ context.Context, _ Credential) (Credential, error) {
	data, err := afero.ReadFile(s.Fs, s.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Credential{}, fmt.Errorf("token file not found: %s: %w", s.Path, ErrUnavailable)
		}
		return Credential{}, fmt.Errorf("error reading token file: %w", err)
	}

	tokens, err := parseSession(data)
	if err != nil {
		return Credential{}, fmt.Errorf("error parsing token file %s: %w", s.Path, err)
	}

	cred := Credential{
		Token:        tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
	}
	if tokens.ExpiresIn > 0 && tokens.ObtainedAt > 0 {
		cred.Expiry = time.UnixMilli(tokens.ObtainedAt).Add(time.Duration(tokens.ExpiresIn) * time.Second)
	} else {
		cred.Expiry = TokenExpiry(tokens.AccessToken)
	}
	return cred, nil
}

func parseSession(data []byte) (sessionTokens, error) {
	var session map[string]json.RawMessage
	if err := json.Unmarshal(data, &session); err != nil {
		return sessionTokens{}, err
	}

	for _, key := range tokenKeys {
		raw, ok := session[key]
		if !ok {
			continue
		}

		// The payload is usually a JSON document stored as a string.
		var inner string
		if err := json.Unmarshal(raw, &inner); err == nil {
			raw = json.RawMessage(inner)
		}

		var tokens sessionTokens
		if err := json.Unmarshal(raw, &tokens); err != nil {
			return sessionTokens{}, fmt.Errorf("invalid %s: %w", key, err)
		}
		if tokens.AccessToken == "" || tokens.RefreshToken == "" {
			return sessionTokens{}, errors.New("access or refresh token missing")
		}
		return tokens, nil
	}
	return sessionTokens{}, errors.New("no tokens found")
}

// TokenExpiry returns the exp claim of a JWT without verifying its
// signature. It returns the zero time for opaque tokens.
func TokenExpiry(token string) time.Time {
	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return time.Time{}
	}
	if claims.ExpiresAt == nil {
		return time.Time{}
	}
	return claims.ExpiresAt.Time
}
