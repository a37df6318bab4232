package granola

import (
	"context"
	"iter"

	"github.com/hashicorp-forge/granola-client/pkg/granola/catalog"
	"github.com/hashicorp-forge/granola-client/pkg/models"
)

func byID(id string) map[string]string {
	return map[string]string{"id": id}
}

// GetDocuments returns one page of documents. filters may be nil.
func (c *Client) GetDocuments(ctx context.Context, filters *models.GetDocumentsRequest) (models.DocumentsResponse, error) {
	return call[models.DocumentsResponse](ctx, c, catalog.OpGetDocuments, nil, filters)
}

// ListAllDocuments iterates over every document matching filters, following
// the pagination cursor. Iteration stops after the first error. filters.Cursor
// is ignored.
func (c *Client) ListAllDocuments(ctx context.Context, filters *models.GetDocumentsRequest) iter.Seq2[models.Document, error] {
	return func(yield func(models.Document, error) bool) {
		var req models.GetDocumentsRequest
		if filters != nil {
			req = *filters
		}
		req.Cursor = ""

		for {
			page, err := c.GetDocuments(ctx, &req)
			if err != nil {
				yield(models.Document{}, err)
				return
			}
			for _, doc := range page.Docs {
				if !yield(doc, nil) {
					return
				}
			}
			if page.NextCursor == "" || page.NextCursor == req.Cursor {
				return
			}
			req.Cursor = page.NextCursor
		}
	}
}

// GetDocumentMetadata returns the creator and attendees of a document.
func (c *Client) GetDocumentMetadata(ctx context.Context, id string) (models.DocumentMetadata, error) {
	return call[models.DocumentMetadata](ctx, c, catalog.OpGetDocumentMetadata, byID(id), nil)
}

// GetDocumentTranscript returns the transcript of a document.
func (c *Client) GetDocumentTranscript(ctx context.Context, id string) ([]models.TranscriptSegment, error) {
	return call[[]models.TranscriptSegment](ctx, c, catalog.OpGetDocumentTranscript, byID(id), nil)
}

// GetDocumentSet returns an index of every document the user can access.
func (c *Client) GetDocumentSet(ctx context.Context) (models.DocumentSetResponse, error) {
	return call[models.DocumentSetResponse](ctx, c, catalog.OpGetDocumentSet, nil, nil)
}

func (c *Client) CreateDocument(ctx context.Context, req models.CreateDocumentRequest) (models.CreateDocumentResponse, error) {
	return call[models.CreateDocumentResponse](ctx, c, catalog.OpCreateDocument, nil, req)
}

func (c *Client) UpdateDocument(ctx context.Context, req models.UpdateDocumentRequest) error {
	return exec(ctx, c, catalog.OpUpdateDocument, nil, req)
}

func (c *Client) UpdateDocumentPanel(ctx context.Context, req models.UpdateDocumentPanelRequest) error {
	return exec(ctx, c, catalog.OpUpdateDocumentPanel, nil, req)
}

func (c *Client) DeleteDocument(ctx context.Context, id string) error {
	return exec(ctx, c, catalog.OpDeleteDocument, nil, models.DeleteDocumentRequest{DocumentID: id})
}
