package models

import (
	"github.com/hashicorp-forge/granola-client/pkg/prosemirror"
)

// Document is a meeting note.
type Document struct {
	ID            string    `json:"id" validate:"required"`
	Title         string    `json:"title,omitempty"`
	WorkspaceID   string    `json:"workspace_id,omitempty"`
	UserID        string    `json:"user_id,omitempty"`
	CreatedAt     Timestamp `json:"created_at"`
	UpdatedAt     Timestamp `json:"updated_at"`
	DeletedAt     Timestamp `json:"deleted_at,omitzero"`
	NotesMarkdown string    `json:"notes_markdown,omitempty"`
	NotesPlain    string    `json:"notes_plain,omitempty"`
	Overview      string    `json:"overview,omitempty"`
	Public        bool      `json:"public,omitempty"`

	// LastViewedPanel is populated when documents are requested with
	// IncludeLastViewedPanel, which is how notes in shared folders are read.
	LastViewedPanel *Panel `json:"last_viewed_panel,omitempty"`
}

// Panel is one note panel of a document.
type Panel struct {
	ID           string `json:"id,omitempty"`
	DocumentID   string `json:"document_id,omitempty"`
	Title        string `json:"title,omitempty"`
	TemplateSlug string `json:"template_slug,omitempty"`

	// Content is a ProseMirror document.
	Content JSON `json:"content,omitempty"`
}

// Notes renders the last viewed panel as Markdown. It returns an empty string
// when the panel is missing or its content is not a ProseMirror document.
func (d Document) Notes() string {
	if d.LastViewedPanel == nil || d.LastViewedPanel.Content.IsNull() {
		return ""
	}
	v, err := d.LastViewedPanel.Content.Value()
	if err != nil {
		return ""
	}
	md, err := prosemirror.Convert(v)
	if err != nil {
		return ""
	}
	return md
}

// GetDocumentsRequest filters the document listing. The zero value lists the
// caller's own documents.
type GetDocumentsRequest struct {
	WorkspaceID string `json:"workspaceId,omitempty"`
	Cursor      string `json:"cursor,omitempty"`
	Limit       int    `json:"limit,omitempty" validate:"gte=0,lte=500"`

	IncludeLastViewedPanel bool     `json:"include_last_viewed_panel,omitempty"`
	IncludeShared          bool     `json:"include_shared,omitempty"`
	IncludeFolders         bool     `json:"include_folders,omitempty"`
	ExpandFolders          bool     `json:"expand_folders,omitempty"`
	ShowOrganization       bool     `json:"show_organization,omitempty"`
	DocumentIDs            []string `json:"document_ids,omitempty" validate:"dive,required"`
}

// DocumentsResponse is one page of documents.
type DocumentsResponse struct {
	Docs       []Document `json:"docs" validate:"dive"`
	NextCursor string     `json:"next_cursor,omitempty"`
}

// DocumentMetadata describes who created and attended a meeting.
type DocumentMetadata struct {
	DocumentID string   `json:"document_id,omitempty"`
	Creator    Creator  `json:"creator"`
	Attendees  []Person `json:"attendees,omitempty"`
}

// Creator is the author of a document.
type Creator struct {
	ID    string `json:"id,omitempty"`
	Name  string `json:"name" validate:"required"`
	Email string `json:"email,omitempty"`
}

// TranscriptSegment is one utterance of a meeting transcript.
type TranscriptSegment struct {
	StartTimestamp Timestamp `json:"startTimestamp"`
	EndTimestamp   Timestamp `json:"endTimestamp"`
	Text           string    `json:"text"`
	Source         string    `json:"source,omitempty"`
	Speaker        string    `json:"speaker,omitempty"`
}

// DocumentSetResponse is a lightweight index of every document the user can
// access, keyed by document ID.
type DocumentSetResponse struct {
	Documents map[string]DocumentSetEntry `json:"documents" validate:"required"`
}

// DocumentSetEntry is one entry of DocumentSetResponse.
type DocumentSetEntry struct {
	UpdatedAt Timestamp `json:"updated_at"`
	Owner     bool      `json:"owner"`
}

// CreateDocumentRequest creates a new document.
type CreateDocumentRequest struct {
	Title           string `json:"title" validate:"required,max=500"`
	WorkspaceID     string `json:"workspace_id,omitempty"`
	TemplateID      string `json:"template_id,omitempty"`
	CalendarEventID string `json:"calendar_event_id,omitempty"`
	NotesMarkdown   string `json:"notes_markdown,omitempty"`
}

// CreateDocumentResponse identifies the created document.
type CreateDocumentResponse struct {
	ID        string    `json:"id" validate:"required"`
	Title     string    `json:"title,omitempty"`
	CreatedAt Timestamp `json:"created_at,omitzero"`
}

// UpdateDocumentRequest changes document fields. Empty fields are left
// unchanged.
type UpdateDocumentRequest struct {
	DocumentID    string `json:"documentId" validate:"required"`
	Title         string `json:"title,omitempty"`
	Notes         JSON   `json:"notes,omitempty"`
	Overview      string `json:"overview,omitempty"`
	NotesPlain    string `json:"notesPlain,omitempty"`
	NotesMarkdown string `json:"notesMarkdown,omitempty"`
}

// UpdateDocumentPanelRequest replaces the content of one panel.
type UpdateDocumentPanelRequest struct {
	DocumentID string `json:"documentId" validate:"required"`
	PanelID    string `json:"panelId" validate:"required"`
	Content    JSON   `json:"content" validate:"required"`
}

// DeleteDocumentRequest deletes a document.
type DeleteDocumentRequest struct {
	DocumentID string `json:"document_id" validate:"required"`
}
