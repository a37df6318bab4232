package granola

import (
	"context"

	"github.com/hashicorp-forge/granola-client/pkg/granola/catalog"
	"github.com/hashicorp-forge/granola-client/pkg/models"
)

func (c *Client) ShareDocument(ctx context.Context, req models.ShareDocumentRequest) error {
	return exec(ctx, c, catalog.OpShareDocument, nil, req)
}

func (c *Client) UnshareDocument(ctx context.Context, req models.UnshareDocumentRequest) error {
	return exec(ctx, c, catalog.OpUnshareDocument, nil, req)
}

// GetDocumentAccess lists the users who can access a document.
func (c *Client) GetDocumentAccess(ctx context.Context, id string) (models.DocumentAccessResponse, error) {
	return call[models.DocumentAccessResponse](ctx, c, catalog.OpGetDocumentAccess, byID(id), nil)
}
