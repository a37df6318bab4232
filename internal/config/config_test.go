package config

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "granola.hcl")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	t.Setenv(EnvToken, "")
	t.Setenv(EnvBaseURL, "")

	path := writeConfig(t, `
base_url    = "https://api.example.com/"
timeout     = "5s"
max_retries = 1
log_level   = "debug"

client {
  app_version = "7.0.0"
  headers = {
    "X-Client-Build" = "42"
  }
}
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "https://api.example.com/", cfg.BaseURL)
	assert.Equal(t, "debug", cfg.LogLevel)
	require.NotNil(t, cfg.MaxRetries)
	assert.Equal(t, 1, *cfg.MaxRetries)

	cc, err := cfg.ClientConfig(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, "https://api.example.com", cc.BaseURL)
	assert.Equal(t, 5*time.Second, cc.Timeout)
	assert.Equal(t, 1, cc.MaxRetries)
	assert.Equal(t, "7.0.0", cc.Client.AppVersion)
	assert.Equal(t, "electron", cc.Client.ClientType)
	assert.Equal(t, "42", cc.Client.Header().Get("X-Client-Build"))
}

func TestLoadEnvironment(t *testing.T) {
	path := writeConfig(t, `token = "from-file"`)
	t.Setenv(EnvConfig, path)
	t.Setenv(EnvToken, "from-env")
	t.Setenv(EnvBaseURL, "http://localhost:8080")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Token)
	assert.Equal(t, "http://localhost:8080", cfg.BaseURL)

	cc, err := cfg.ClientConfig(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cc.AuthToken)
	assert.Nil(t, cc.Credentials)
}

func TestLoadErrors(t *testing.T) {
	t.Setenv(EnvToken, "")
	t.Setenv(EnvBaseURL, "")

	tests := []struct {
		name string
		body string
		want string
	}{
		{name: "syntax", body: `base_url = `, want: "error parsing config file"},
		{name: "unknown attribute", body: `color = "blue"`, want: "error parsing config file"},
		{name: "bad url", body: `base_url = "ftp://example.com"`, want: "BaseURL"},
		{name: "bad duration", body: `timeout = "soon"`, want: "Timeout"},
		{name: "bad log level", body: `log_level = "loud"`, want: "LogLevel"},
		{name: "too many retries", body: `max_retries = 50`, want: "MaxRetries"},
		{name: "oauth without endpoint", body: "oauth {\n  client_id = \"abc\"\n}", want: "issuer or token_url is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}

	_, err := Load(filepath.Join(t.TempDir(), "missing.hcl"))
	assert.Error(t, err)
}

func TestClientConfigTokenFile(t *testing.T) {
	t.Setenv(EnvToken, "")
	t.Setenv(EnvBaseURL, "")

	session := filepath.Join(t.TempDir(), "supabase.json")
	require.NoError(t, os.WriteFile(session,
		[]byte(`{"workos_tokens":"{\"access_token\":\"file-token\",\"refresh_token\":\"r1\"}"}`), 0o600))

	cfg, err := Load(writeConfig(t, `token_file = "`+filepath.ToSlash(session)+`"`))
	require.NoError(t, err)

	cc, err := cfg.ClientConfig(context.Background(), nil)
	require.NoError(t, err)
	require.NotNil(t, cc.Credentials)

	cred, err := cc.Credentials.Credential(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "file-token", cred.Token)
}

func TestClientConfigOAuthDiscovery(t *testing.T) {
	t.Setenv(EnvToken, "")
	t.Setenv(EnvBaseURL, "")

	var issuer string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"issuer": "` + issuer + `",
			"authorization_endpoint": "` + issuer + `/authorize",
			"token_endpoint": "` + issuer + `/token",
			"jwks_uri": "` + issuer + `/jwks",
			"id_token_signing_alg_values_supported": ["RS256"]
		}`))
	}))
	t.Cleanup(srv.Close)
	issuer = srv.URL

	session := filepath.Join(t.TempDir(), "supabase.json")
	require.NoError(t, os.WriteFile(session, []byte(`{"workos_tokens":{"access_token":"a","refresh_token":"r"}}`), 0o600))

	cfg, err := Load(writeConfig(t, `
token_file = "`+filepath.ToSlash(session)+`"
oauth {
  client_id = "granola-cli"
  issuer    = "`+issuer+`"
}
`))
	require.NoError(t, err)

	cc, err := cfg.ClientConfig(context.Background(), nil)
	require.NoError(t, err)
	assert.NotNil(t, cc.Credentials)
}

func TestClientConfigOAuthSharesTransport(t *testing.T) {
	t.Setenv(EnvToken, "")
	t.Setenv(EnvBaseURL, "")

	var issuer string
	srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/.well-known/openid-configuration":
			_, _ = w.Write([]byte(`{
				"issuer": "` + issuer + `",
				"authorization_endpoint": "` + issuer + `/authorize",
				"token_endpoint": "` + issuer + `/token",
				"jwks_uri": "` + issuer + `/jwks",
				"id_token_signing_alg_values_supported": ["RS256"]
			}`))
		case "/token":
			assert.NoError(t, r.ParseForm())
			assert.Equal(t, "refresh_token", r.Form.Get("grant_type"))
			assert.Equal(t, "r1", r.Form.Get("refresh_token"))
			_, _ = w.Write([]byte(`{"access_token":"fresh","token_type":"Bearer","refresh_token":"r2","expires_in":3600}`))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	issuer = srv.URL

	// Expired long ago, so the first credential comes from the token endpoint.
	session := filepath.Join(t.TempDir(), "supabase.json")
	require.NoError(t, os.WriteFile(session, []byte(
		`{"workos_tokens":{"access_token":"stale","refresh_token":"r1","expires_in":60,"obtained_at":1000}}`), 0o600))

	body := `
token_file = "` + filepath.ToSlash(session) + `"
oauth {
  client_id = "granola-cli"
  issuer    = "` + issuer + `"
}
`

	t.Run("tls_verify disabled", func(t *testing.T) {
		cfg, err := Load(writeConfig(t, body+"tls_verify = false\n"))
		require.NoError(t, err)

		cc, err := cfg.ClientConfig(context.Background(), nil)
		require.NoError(t, err)
		require.NotNil(t, cc.Transport)
		require.NotNil(t, cc.Credentials)

		cred, err := cc.Credentials.Credential(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "fresh", cred.Token)
		assert.Equal(t, "r2", cred.RefreshToken)
	})

	t.Run("tls_verify enabled rejects the certificate", func(t *testing.T) {
		cfg, err := Load(writeConfig(t, body))
		require.NoError(t, err)

		_, err = cfg.ClientConfig(context.Background(), nil)
		assert.ErrorContains(t, err, "certificate")
	})
}

func TestClientConfigDurations(t *testing.T) {
	cfg := &Config{Timeout: "soon"}
	_, err := cfg.ClientConfig(context.Background(), nil)
	assert.ErrorContains(t, err, "invalid timeout")

	cfg = &Config{RetryDelay: "5 parsecs"}
	_, err = cfg.ClientConfig(context.Background(), nil)
	assert.ErrorContains(t, err, "invalid retry_delay")

	cfg = &Config{Timeout: "2s", RetryDelay: "10ms"}
	cc, err := cfg.ClientConfig(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, 2*time.Second, cc.Timeout)
	assert.Equal(t, 10*time.Millisecond, cc.RetryDelay)
}
