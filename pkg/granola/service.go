package granola

import (
	"context"
	"runtime"

	"github.com/hashicorp-forge/granola-client/pkg/granola/catalog"
	"github.com/hashicorp-forge/granola-client/pkg/models"
)

// SearchDocuments runs a full-text search over the user's documents.
func (c *Client) SearchDocuments(ctx context.Context, q models.SearchQuery) (models.SearchResponse, error) {
	return call[models.SearchResponse](ctx, c, catalog.OpSearchDocuments, nil, q)
}

// UpdateManifestName returns the release manifest published for goos.
func UpdateManifestName(goos string) string {
	switch goos {
	case "windows":
		return "latest.yml"
	case "linux":
		return "latest-linux.yml"
	default:
		return "latest-mac.yml"
	}
}

// CheckForUpdate returns the desktop release manifest for this platform.
func (c *Client) CheckForUpdate(ctx context.Context) (models.UpdateManifest, error) {
	return call[models.UpdateManifest](ctx, c, catalog.OpCheckForUpdate,
		map[string]string{"manifest": UpdateManifestName(runtime.GOOS)}, nil)
}

// HealthCheck reports whether the API is reachable.
func (c *Client) HealthCheck(ctx context.Context) error {
	return exec(ctx, c, catalog.OpHealthCheck, nil, nil)
}
