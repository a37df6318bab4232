package models

// ShareDocumentRequest grants users access to a document.
type ShareDocumentRequest struct {
	DocumentID string   `json:"document_id" validate:"required"`
	Emails     []string `json:"emails" validate:"required,min=1,dive,email"`
	Role       string   `json:"role,omitempty" validate:"omitempty,oneof=viewer editor"`
	Message    string   `json:"message,omitempty"`
}

// UnshareDocumentRequest revokes users' access to a document.
type UnshareDocumentRequest struct {
	DocumentID string   `json:"document_id" validate:"required"`
	Emails     []string `json:"emails" validate:"required,min=1,dive,email"`
}

// DocumentAccessResponse lists who can see a document.
type DocumentAccessResponse struct {
	DocumentID       string        `json:"document_id,omitempty"`
	LinkSharing      string        `json:"link_sharing,omitempty"`
	WorkspaceSharing string        `json:"workspace_sharing,omitempty"`
	Users            []AccessEntry `json:"users" validate:"dive"`
}

// AccessEntry is one user's access to a document.
type AccessEntry struct {
	UserID string `json:"user_id,omitempty"`
	Email  string `json:"email" validate:"required"`
	Name   string `json:"name,omitempty"`
	Role   string `json:"role"`
}
