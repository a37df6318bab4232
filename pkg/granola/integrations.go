package granola

import (
	"context"

	"github.com/hashicorp-forge/granola-client/pkg/granola/catalog"
	"github.com/hashicorp-forge/granola-client/pkg/models"
)

func (c *Client) GetNotionIntegration(ctx context.Context) (models.NotionIntegrationResponse, error) {
	return call[models.NotionIntegrationResponse](ctx, c, catalog.OpGetNotionIntegration, nil, nil)
}

func (c *Client) SaveToNotion(ctx context.Context, req models.SaveToNotionRequest) (models.SaveToNotionResponse, error) {
	return call[models.SaveToNotionResponse](ctx, c, catalog.OpSaveToNotion, nil, req)
}

func (c *Client) GetSlackIntegration(ctx context.Context) (models.SlackIntegrationResponse, error) {
	return call[models.SlackIntegrationResponse](ctx, c, catalog.OpGetSlackIntegration, nil, nil)
}

func (c *Client) GetSlackChannels(ctx context.Context) (models.SlackChannelsResponse, error) {
	return call[models.SlackChannelsResponse](ctx, c, catalog.OpGetSlackChannels, nil, nil)
}

func (c *Client) PostSlackMessage(ctx context.Context, req models.PostSlackMessageRequest) error {
	return exec(ctx, c, catalog.OpPostSlackMessage, nil, req)
}
