package catalog

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hashicorp-forge/granola-client/pkg/granola/schema"
)

type widget struct {
	Name string `json:"name" validate:"required"`
}

func TestNew(t *testing.T) {
	t.Run("resolves registered operations", func(t *testing.T) {
		c, err := New(
			Get("get-widget", "/v1/widgets/{id}", schema.Void(), schema.Of[widget]()),
			Post("create-widget", "/v1/widgets", schema.Of[widget](), schema.Of[widget]()),
		)
		require.NoError(t, err)
		assert.Equal(t, 2, c.Len())
		assert.Equal(t, []string{"create-widget", "get-widget"}, c.Names())

		d, ok := c.Resolve("get-widget")
		require.True(t, ok)
		assert.Equal(t, http.MethodGet, d.Method)
		assert.True(t, d.RequiresAuth)
		assert.Equal(t, []string{"id"}, d.Template().Params())

		_, ok = c.Resolve("delete-widget")
		assert.False(t, ok)
	})

	t.Run("rejects duplicates", func(t *testing.T) {
		_, err := New(
			Post("create-widget", "/v1/widgets", schema.Void(), schema.Void()),
			Post("create-widget", "/v2/widgets", schema.Void(), schema.Void()),
		)
		require.Error(t, err)
		assert.Contains(t, err.Error(), `duplicate operation "create-widget"`)
	})

	t.Run("reports every invalid descriptor", func(t *testing.T) {
		_, err := New(
			Post("CreateWidget", "/v1/widgets", schema.Void(), schema.Void()),
			Post("bad-path", "v1/widgets", schema.Void(), schema.Void()),
			Post("bad-template", "/v1/widgets/{id", schema.Void(), schema.Void()),
			Get("bad-query", "/v1/widgets", schema.Of[[]widget](), schema.Void()),
			Descriptor{Name: "bad-method", Method: "FETCH", Path: "/v1"},
		)
		require.Error(t, err)
		msg := err.Error()
		assert.Contains(t, msg, `"CreateWidget"`)
		assert.Contains(t, msg, `"bad-path"`)
		assert.Contains(t, msg, `"bad-template"`)
		assert.Contains(t, msg, `"bad-query"`)
		assert.Contains(t, msg, `"bad-method"`)
	})

	t.Run("resolved descriptors do not share headers", func(t *testing.T) {
		c := MustNew(Post("create-widget", "/v1/widgets", schema.Void(), schema.Void()).
			WithHeader("X-Feature", "a"))
		d, _ := c.Resolve("create-widget")
		d.Header.Set("X-Feature", "b")

		again, _ := c.Resolve("create-widget")
		assert.Equal(t, "a", again.Header.Get("X-Feature"))
	})
}

func TestDescriptor(t *testing.T) {
	post := Post("create-widget", "/v1/widgets", schema.Void(), schema.Void())
	assert.False(t, post.Retryable())
	assert.True(t, post.Safe().Retryable())
	assert.False(t, post.Public().RequiresAuth)

	get := Get("list-widgets", "/v1/widgets", schema.Void(), schema.Void())
	assert.True(t, get.Retryable())
	assert.True(t, get.QueryRequest())
}

func TestTemplate(t *testing.T) {
	tmpl, err := ParseTemplate("/v1/workspaces/{workspace_id}/documents/{id}")
	require.NoError(t, err)
	assert.Equal(t, []string{"workspace_id", "id"}, tmpl.Params())

	t.Run("expands and escapes", func(t *testing.T) {
		path, err := tmpl.Expand(map[string]string{"workspace_id": "w 1", "id": "a/b"})
		require.NoError(t, err)
		assert.Equal(t, "/v1/workspaces/w%201/documents/a%2Fb", path)
	})

	t.Run("escapes dot segments", func(t *testing.T) {
		for value, want := range map[string]string{
			"..":   "/v1/workspaces/w1/documents/%2E%2E",
			".":    "/v1/workspaces/w1/documents/%2E",
			"../x": "/v1/workspaces/w1/documents/..%2Fx",
			"a.b":  "/v1/workspaces/w1/documents/a.b",
			"...":  "/v1/workspaces/w1/documents/...",
		} {
			path, err := tmpl.Expand(map[string]string{"workspace_id": "w1", "id": value})
			require.NoError(t, err)
			assert.Equal(t, want, path, value)
		}
	})

	t.Run("missing", func(t *testing.T) {
		_, err := tmpl.Expand(map[string]string{"workspace_id": "w1"})
		var missing *MissingParamError
		require.ErrorAs(t, err, &missing)
		assert.Equal(t, "id", missing.Param)
	})

	t.Run("empty value counts as missing", func(t *testing.T) {
		_, err := tmpl.Expand(map[string]string{"workspace_id": "w1", "id": ""})
		var missing *MissingParamError
		require.ErrorAs(t, err, &missing)
	})

	t.Run("unexpected", func(t *testing.T) {
		_, err := tmpl.Expand(map[string]string{"workspace_id": "w1", "id": "d1", "zz": "x", "extra": "y"})
		var unexpected *UnexpectedParamError
		require.ErrorAs(t, err, &unexpected)
		assert.Equal(t, "extra", unexpected.Param)
	})

	t.Run("no placeholders", func(t *testing.T) {
		plain, err := ParseTemplate("/v1/health")
		require.NoError(t, err)
		path, err := plain.Expand(nil)
		require.NoError(t, err)
		assert.Equal(t, "/v1/health", path)

		_, err = plain.Expand(map[string]string{"id": "x"})
		assert.Error(t, err)
	})

	t.Run("malformed", func(t *testing.T) {
		for _, raw := range []string{"/v1/{id", "/v1/id}", "/v1/{}", "/v1/{a}/{a}", "/v1/{1x}", "/v1/{a-b}"} {
			_, err := ParseTemplate(raw)
			assert.Error(t, err, raw)
		}
	})
}

func TestDefault(t *testing.T) {
	c := Default()
	assert.Same(t, c, Default())
	assert.Equal(t, len(Granola()), c.Len())

	d, ok := c.Resolve(OpGetDocumentMetadata)
	require.True(t, ok)
	assert.Equal(t, []string{"id"}, d.Template().Params())

	d, ok = c.Resolve(OpCheckForUpdate)
	require.True(t, ok)
	assert.False(t, d.RequiresAuth)
	assert.Equal(t, schema.FormatYAML, d.Response.Format())

	d, ok = c.Resolve(OpCreateDocument)
	require.True(t, ok)
	assert.False(t, d.Retryable())

	d, ok = c.Resolve(OpGetUserInfo)
	require.True(t, ok)
	assert.True(t, d.Retryable())
}
