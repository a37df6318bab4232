package granola

import (
	"context"

	"github.com/hashicorp-forge/granola-client/pkg/granola/catalog"
	"github.com/hashicorp-forge/granola-client/pkg/models"
)

// GetUserInfo returns the authenticated user.
func (c *Client) GetUserInfo(ctx context.Context) (models.UserInfo, error) {
	return call[models.UserInfo](ctx, c, catalog.OpGetUserInfo, nil, nil)
}

func (c *Client) GetWorkspaces(ctx context.Context) (models.WorkspacesResponse, error) {
	return call[models.WorkspacesResponse](ctx, c, catalog.OpGetWorkspaces, nil, nil)
}

func (c *Client) GetWorkspaceMembers(ctx context.Context, workspaceID string) (models.WorkspaceMembersResponse, error) {
	return call[models.WorkspaceMembersResponse](ctx, c, catalog.OpGetWorkspaceMembers,
		map[string]string{"workspace_id": workspaceID}, nil)
}

func (c *Client) GetPanelTemplates(ctx context.Context) ([]models.PanelTemplate, error) {
	return call[[]models.PanelTemplate](ctx, c, catalog.OpGetPanelTemplates, nil, nil)
}

func (c *Client) GetPeople(ctx context.Context) ([]models.Person, error) {
	return call[[]models.Person](ctx, c, catalog.OpGetPeople, nil, nil)
}

func (c *Client) GetFeatureFlags(ctx context.Context) ([]models.FeatureFlag, error) {
	return call[[]models.FeatureFlag](ctx, c, catalog.OpGetFeatureFlags, nil, nil)
}

// GetFeatureFlagsMap returns feature flags keyed by feature name. Later
// entries win when a feature appears more than once.
func (c *Client) GetFeatureFlagsMap(ctx context.Context) (map[string]models.FeatureFlag, error) {
	flags, err := c.GetFeatureFlags(ctx)
	if err != nil {
		return nil, err
	}
	m := make(map[string]models.FeatureFlag, len(flags))
	for _, f := range flags {
		m[f.Feature] = f
	}
	return m, nil
}

func (c *Client) GetSubscriptions(ctx context.Context) (models.SubscriptionsResponse, error) {
	return call[models.SubscriptionsResponse](ctx, c, catalog.OpGetSubscriptions, nil, nil)
}
