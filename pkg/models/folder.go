package models

// DocumentList is a folder of documents, possibly shared with other users.
type DocumentList struct {
	ID                    string               `json:"id" validate:"required"`
	Title                 string               `json:"title"`
	Description           string               `json:"description,omitempty"`
	Icon                  *DocumentListIcon    `json:"icon,omitempty"`
	Visibility            string               `json:"visibility,omitempty"`
	WorkspaceID           string               `json:"workspace_id,omitempty"`
	IsFavourited          bool                 `json:"is_favourited"`
	UserRole              string               `json:"user_role,omitempty"`
	Members               []DocumentListMember `json:"members,omitempty" validate:"dive"`
	DocumentIDs           []string             `json:"document_ids"`
	SlackChannel          *SlackChannel        `json:"slack_channel,omitempty"`
	IsShared              bool                 `json:"is_shared"`
	SharingLinkVisibility string               `json:"sharing_link_visibility,omitempty"`
	CreatedAt             Timestamp            `json:"created_at"`
	UpdatedAt             Timestamp            `json:"updated_at"`
}

// DocumentListIcon is the icon shown next to a folder.
type DocumentListIcon struct {
	Type  string `json:"type"`
	Color string `json:"color"`
	Value string `json:"value"`
}

// DocumentListMember is a user with access to a folder.
type DocumentListMember struct {
	UserID    string    `json:"user_id" validate:"required"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Avatar    string    `json:"avatar,omitempty"`
	Role      string    `json:"role"`
	CreatedAt Timestamp `json:"created_at"`
}

// DocumentListsRequest selects which folders are returned.
type DocumentListsRequest struct {
	IncludeDocumentIDs     bool `json:"include_document_ids"`
	IncludeOnlyJoinedLists bool `json:"include_only_joined_lists"`
}

// DocumentListsResponse maps folder IDs to folders.
type DocumentListsResponse struct {
	Lists map[string]DocumentList `json:"lists" validate:"required"`
}

// CreateFolderRequest creates a folder.
type CreateFolderRequest struct {
	Title       string            `json:"title" validate:"required,max=200"`
	Description string            `json:"description,omitempty"`
	WorkspaceID string            `json:"workspace_id,omitempty"`
	Icon        *DocumentListIcon `json:"icon,omitempty"`
	Visibility  string            `json:"visibility,omitempty" validate:"omitempty,oneof=private workspace public"`
}

// CreateFolderResponse identifies the created folder.
type CreateFolderResponse struct {
	ID string `json:"id" validate:"required"`
}

// UpdateFolderRequest changes folder fields. Empty fields are left unchanged.
type UpdateFolderRequest struct {
	ID          string            `json:"id" validate:"required"`
	Title       string            `json:"title,omitempty"`
	Description string            `json:"description,omitempty"`
	Icon        *DocumentListIcon `json:"icon,omitempty"`
	Visibility  string            `json:"visibility,omitempty" validate:"omitempty,oneof=private workspace public"`
}

// FolderDocumentRequest adds a document to or removes it from a folder.
type FolderDocumentRequest struct {
	ListID     string `json:"list_id" validate:"required"`
	DocumentID string `json:"document_id" validate:"required"`
}
