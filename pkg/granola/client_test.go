package granola

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"runtime"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hashicorp-forge/granola-client/pkg/granola/auth"
	"github.com/hashicorp-forge/granola-client/pkg/granola/dispatch"
	"github.com/hashicorp-forge/granola-client/pkg/models"
)

// fakeAPI serves canned responses keyed by path and records request bodies.
type fakeAPI struct {
	t *testing.T

	mu       sync.Mutex
	routes   map[string]func(body map[string]any) (int, string)
	requests []recordedRequest
}

type recordedRequest struct {
	Method string
	Path   string
	Query  string
	Header http.Header
	Body   map[string]any
}

func newFakeAPI(t *testing.T) *fakeAPI {
	return &fakeAPI{t: t, routes: map[string]func(map[string]any) (int, string){}}
}

func (f *fakeAPI) handle(path string, fn func(body map[string]any) (int, string)) {
	f.routes[path] = fn
}

func (f *fakeAPI) respond(path string, status int, body string) {
	f.handle(path, func(map[string]any) (int, string) { return status, body })
}

func (f *fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	raw, _ := io.ReadAll(r.Body)
	var body map[string]any
	if len(raw) > 0 {
		assert.NoError(f.t, json.Unmarshal(raw, &body))
	}

	f.mu.Lock()
	f.requests = append(f.requests, recordedRequest{
		Method: r.Method,
		Path:   r.URL.Path,
		Query:  r.URL.RawQuery,
		Header: r.Header.Clone(),
		Body:   body,
	})
	fn, ok := f.routes[r.URL.Path]
	f.mu.Unlock()

	if !ok {
		http.NotFound(w, r)
		return
	}
	status, resp := fn(body)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, resp)
}

func (f *fakeAPI) last() recordedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	require.NotEmpty(f.t, f.requests)
	return f.requests[len(f.requests)-1]
}

func (f *fakeAPI) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests)
}

func newTestClient(t *testing.T, api http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)

	cfg := DefaultConfig()
	cfg.BaseURL = srv.URL
	cfg.AuthToken = "test-token"
	cfg.RetryDelay = time.Millisecond

	c, err := New(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestConfig(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "https://api.granola.ai", cfg.BaseURL)
	assert.Equal(t, 10*time.Second, cfg.Timeout)
	assert.Equal(t, 3, cfg.MaxRetries)

	cfg.MaxRetries = -1
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.BaseURL = ""
	_, err := New(cfg)
	assert.ErrorContains(t, err, "invalid client config")

	cfg = DefaultConfig()
	cfg.BaseURL = "not a url"
	_, err = New(cfg)
	assert.Error(t, err)
}

func TestClientInfoHeader(t *testing.T) {
	ci := DefaultClientInfo()
	assert.Equal(t, runtime.GOOS, ci.Platform)
	assert.Equal(t, runtime.GOARCH, ci.Architecture)

	ci.Platform, ci.Architecture = "darwin", "arm64"
	ci.Headers = map[string]string{"X-Client-Build": "42"}
	h := ci.Header()

	assert.Equal(t, "Granola/6.4.0 Electron/33.4.5 (darwin; arm64)", h.Get("User-Agent"))
	assert.Equal(t, "6.4.0", h.Get("X-App-Version"))
	assert.Equal(t, "electron", h.Get("X-Client-Type"))
	assert.Equal(t, "darwin", h.Get("X-Client-Platform"))
	assert.Equal(t, "130.0.6723.191", h.Get("X-Chrome-Version"))
	assert.Equal(t, "42", h.Get("X-Client-Build"))
	assert.Empty(t, h.Values("X-OS-Version"))

	assert.Empty(t, ClientInfo{}.Header())
}

func TestClientSendsIdentity(t *testing.T) {
	api := newFakeAPI(t)
	api.respond("/v1/get-user-info", http.StatusOK, `{"id":"u1","email":"ada@example.com","name":"Ada"}`)
	c := newTestClient(t, api)

	u, err := c.GetUserInfo(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Ada", u.Name)

	req := api.last()
	assert.Equal(t, http.MethodPost, req.Method)
	assert.Equal(t, "Bearer test-token", req.Header.Get("Authorization"))
	assert.Equal(t, "electron", req.Header.Get("X-Client-Type"))
	assert.Contains(t, req.Header.Get("User-Agent"), "Granola/6.4.0")
	assert.Empty(t, req.Body)
}

func TestClientCredentialsPrecedence(t *testing.T) {
	api := newFakeAPI(t)
	api.respond("/v1/get-user-info", http.StatusOK, `{"id":"u1","email":"ada@example.com"}`)
	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)

	cfg := DefaultConfig()
	cfg.BaseURL = srv.URL
	cfg.Credentials = auth.Static("from-provider")
	c, err := New(cfg)
	require.NoError(t, err)

	_, err = c.GetUserInfo(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer from-provider", api.last().Header.Get("Authorization"))

	cfg.AuthToken = "from-token"
	c, err = New(cfg)
	require.NoError(t, err)

	_, err = c.GetUserInfo(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer from-token", api.last().Header.Get("Authorization"))
}

func TestClientWithoutCredentials(t *testing.T) {
	if runtime.GOOS == "darwin" {
		t.Skip("darwin falls back to the desktop session file")
	}
	api := newFakeAPI(t)
	api.respond("/v1/health", http.StatusOK, ``)
	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)

	cfg := DefaultConfig()
	cfg.BaseURL = srv.URL
	c, err := New(cfg)
	require.NoError(t, err)

	_, err = c.GetUserInfo(context.Background())
	assert.ErrorIs(t, err, dispatch.ErrAuthenticationUnavailable)
	assert.Zero(t, api.count())

	require.NoError(t, c.HealthCheck(context.Background()))
	assert.Empty(t, api.last().Header.Get("Authorization"))
}

func TestClientDispatcher(t *testing.T) {
	api := newFakeAPI(t)
	api.respond("/v1/get-feature-flags", http.StatusOK, `[{"feature":"ai_chat","value":true},{"feature":"beta","value":"no"}]`)
	c := newTestClient(t, api)

	v, err := c.Dispatcher().Dispatch(context.Background(), dispatch.Call{Operation: "get-feature-flags"})
	require.NoError(t, err)
	flags, ok := v.([]models.FeatureFlag)
	require.True(t, ok)
	assert.Len(t, flags, 2)

	m, err := c.GetFeatureFlagsMap(context.Background())
	require.NoError(t, err)
	assert.True(t, m["ai_chat"].Enabled())
	assert.False(t, m["beta"].Enabled())
}

func TestUpdateManifestName(t *testing.T) {
	assert.Equal(t, "latest-mac.yml", UpdateManifestName("darwin"))
	assert.Equal(t, "latest.yml", UpdateManifestName("windows"))
	assert.Equal(t, "latest-linux.yml", UpdateManifestName("linux"))
	assert.Equal(t, "latest-mac.yml", UpdateManifestName("plan9"))
}

func TestClientOperations(t *testing.T) {
	api := newFakeAPI(t)
	api.respond("/v1/share-document", http.StatusOK, `{}`)
	api.respond("/v1/unshare-document", http.StatusOK, `{}`)
	api.respond("/v1/documents/d1/access", http.StatusOK, `{"users":[{"email":"bob@example.com","role":"viewer"}]}`)
	api.respond("/v1/get-document-set", http.StatusOK, `{"documents":{"d1":{"updated_at":"2025-01-01T00:00:00Z","owner":true}}}`)
	api.respond("/v1/get-workspaces", http.StatusOK, `{"workspaces":[{"workspace_id":"w1","display_name":"Acme"}]}`)
	api.respond("/v1/workspaces/w1/members", http.StatusOK, `{"members":[{"user_id":"u1","email":"ada@example.com"}]}`)
	api.respond("/v1/get-panel-templates", http.StatusOK, `[{"id":"t1","title":"1:1"}]`)
	api.respond("/v1/get-people", http.StatusOK, `[{"id":"p1","name":"Bob","details":{"company":"Acme"}}]`)
	api.respond("/v1/get-subscriptions", http.StatusOK, `{"active_plan_id":"free","subscription_plans":[{"id":"free","type":"free","display_name":"Free"}]}`)
	api.respond("/v1/get-calendar-events", http.StatusOK, `{"events":[{"id":"e1","summary":"Standup","start":"2025-01-01T09:00:00Z","end":"2025-01-01T09:15:00Z"}]}`)
	api.respond("/v1/refresh-google-events", http.StatusOK, ``)
	api.respond("/v1/get-notion-integration", http.StatusOK, `{"canceled":false,"workspaces":[{"id":"n1","name":"Notes"}]}`)
	api.respond("/v1/save-to-notion", http.StatusOK, `{"page_id":"pg1","page_url":"https://notion.so/pg1"}`)
	api.respond("/v1/get-slack-integration", http.StatusOK, `{"connected":true,"team_name":"Acme"}`)
	api.respond("/v1/get-slack-channels", http.StatusOK, `{"channels":[{"id":"C1","name":"general"}]}`)
	api.respond("/v1/post-slack-message", http.StatusOK, `{}`)
	api.respond("/v1/check-for-update/"+UpdateManifestName(runtime.GOOS), http.StatusOK, "version: 6.5.0\nreleaseDate: '2025-02-01'\n")
	c := newTestClient(t, api)
	ctx := context.Background()

	require.NoError(t, c.ShareDocument(ctx, models.ShareDocumentRequest{DocumentID: "d1", Emails: []string{"bob@example.com"}}))
	assert.Equal(t, []any{"bob@example.com"}, api.last().Body["emails"])
	require.NoError(t, c.UnshareDocument(ctx, models.UnshareDocumentRequest{DocumentID: "d1", Emails: []string{"bob@example.com"}}))

	access, err := c.GetDocumentAccess(ctx, "d1")
	require.NoError(t, err)
	assert.Equal(t, "viewer", access.Users[0].Role)

	set, err := c.GetDocumentSet(ctx)
	require.NoError(t, err)
	assert.True(t, set.Documents["d1"].Owner)

	ws, err := c.GetWorkspaces(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Acme", ws.Workspaces[0].Name)

	members, err := c.GetWorkspaceMembers(ctx, "w1")
	require.NoError(t, err)
	assert.Len(t, members.Members, 1)

	templates, err := c.GetPanelTemplates(ctx)
	require.NoError(t, err)
	assert.Equal(t, "1:1", templates[0].Title)

	people, err := c.GetPeople(ctx)
	require.NoError(t, err)
	assert.JSONEq(t, `{"company":"Acme"}`, people[0].Details.String())

	subs, err := c.GetSubscriptions(ctx)
	require.NoError(t, err)
	assert.Equal(t, "free", subs.ActivePlanID)

	events, err := c.GetCalendarEvents(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, "Standup", events.Events[0].Summary)
	require.NoError(t, c.RefreshGoogleEvents(ctx))

	notion, err := c.GetNotionIntegration(ctx)
	require.NoError(t, err)
	assert.Equal(t, "n1", notion.Workspaces[0].ID)

	page, err := c.SaveToNotion(ctx, models.SaveToNotionRequest{DocumentID: "d1"})
	require.NoError(t, err)
	assert.Equal(t, "pg1", page.PageID)

	slack, err := c.GetSlackIntegration(ctx)
	require.NoError(t, err)
	assert.True(t, slack.Connected)

	channels, err := c.GetSlackChannels(ctx)
	require.NoError(t, err)
	assert.Equal(t, "general", channels.Channels[0].Name)
	require.NoError(t, c.PostSlackMessage(ctx, models.PostSlackMessageRequest{DocumentID: "d1", ChannelID: "C1"}))

	manifest, err := c.CheckForUpdate(ctx)
	require.NoError(t, err)
	assert.Equal(t, "6.5.0", manifest.Version)
	assert.Empty(t, api.last().Header.Get("Authorization"))
}
