package granola

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/hashicorp-forge/granola-client/pkg/granola/catalog"
	"github.com/hashicorp-forge/granola-client/pkg/models"
)

var (
	// ErrFolderNotFound is returned when no folder matches a lookup.
	ErrFolderNotFound = errors.New("folder not found")

	// ErrAmbiguousFolder is returned when a folder name matches more than one
	// folder. Look the folder up by ID instead.
	ErrAmbiguousFolder = errors.New("folder name is ambiguous")
)

// GetDocumentLists returns every folder the user can see, with document IDs.
func (c *Client) GetDocumentLists(ctx context.Context) (models.DocumentListsResponse, error) {
	return call[models.DocumentListsResponse](ctx, c, catalog.OpGetDocumentLists, nil, models.DocumentListsRequest{
		IncludeDocumentIDs: true,
	})
}

func (c *Client) CreateFolder(ctx context.Context, req models.CreateFolderRequest) (models.CreateFolderResponse, error) {
	return call[models.CreateFolderResponse](ctx, c, catalog.OpCreateFolder, nil, req)
}

func (c *Client) UpdateFolder(ctx context.Context, req models.UpdateFolderRequest) error {
	return exec(ctx, c, catalog.OpUpdateFolder, nil, req)
}

func (c *Client) AddDocumentToFolder(ctx context.Context, folderID, documentID string) error {
	return exec(ctx, c, catalog.OpAddDocumentToFolder, nil, models.FolderDocumentRequest{
		ListID:     folderID,
		DocumentID: documentID,
	})
}

func (c *Client) RemoveDocumentFromFolder(ctx context.Context, folderID, documentID string) error {
	return exec(ctx, c, catalog.OpRemoveDocumentFromFolder, nil, models.FolderDocumentRequest{
		ListID:     folderID,
		DocumentID: documentID,
	})
}

// GetDocumentsByFolderID returns the documents in a folder, including notes
// of documents shared with the user.
func (c *Client) GetDocumentsByFolderID(ctx context.Context, folderID string) ([]models.Document, error) {
	lists, err := c.GetDocumentLists(ctx)
	if err != nil {
		return nil, err
	}
	folder, ok := lists.Lists[folderID]
	if !ok {
		return nil, fmt.Errorf("%w: id %q", ErrFolderNotFound, folderID)
	}
	return c.folderDocuments(ctx, folder)
}

// GetDocumentsByFolderName returns the documents in the folder titled name.
func (c *Client) GetDocumentsByFolderName(ctx context.Context, name string, caseSensitive bool) ([]models.Document, error) {
	lists, err := c.GetDocumentLists(ctx)
	if err != nil {
		return nil, err
	}

	var matches []models.DocumentList
	for _, f := range lists.Lists {
		if f.Title == name || (!caseSensitive && strings.EqualFold(f.Title, name)) {
			matches = append(matches, f)
		}
	}

	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("%w: name %q", ErrFolderNotFound, name)
	case 1:
		return c.folderDocuments(ctx, matches[0])
	}

	ids := make([]string, 0, len(matches))
	for _, f := range matches {
		ids = append(ids, f.ID)
	}
	sort.Strings(ids)
	return nil, fmt.Errorf("%w: %q matches folders %s", ErrAmbiguousFolder, name, strings.Join(ids, ", "))
}

func (c *Client) folderDocuments(ctx context.Context, folder models.DocumentList) ([]models.Document, error) {
	if len(folder.DocumentIDs) == 0 {
		return []models.Document{}, nil
	}

	page, err := c.GetDocuments(ctx, &models.GetDocumentsRequest{
		DocumentIDs:            folder.DocumentIDs,
		IncludeLastViewedPanel: true,
		IncludeShared:          true,
		IncludeFolders:         true,
		ExpandFolders:          true,
		ShowOrganization:       true,
	})
	if err != nil {
		return nil, err
	}
	return page.Docs, nil
}
