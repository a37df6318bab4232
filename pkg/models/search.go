package models

// SearchQuery is sent as URL query parameters.
type SearchQuery struct {
	Query       string `json:"q" validate:"required"`
	WorkspaceID string `json:"workspace_id,omitempty"`
	Limit       int    `json:"limit,omitempty" validate:"gte=0,lte=100"`
	Offset      int    `json:"offset,omitempty" validate:"gte=0"`
}

// SearchResult is one matching document.
type SearchResult struct {
	DocumentID string    `json:"document_id" validate:"required"`
	Title      string    `json:"title"`
	Snippet    string    `json:"snippet,omitempty"`
	Score      float64   `json:"score,omitempty"`
	CreatedAt  Timestamp `json:"created_at,omitzero"`
}

// SearchResponse is a page of search results.
type SearchResponse struct {
	Results []SearchResult `json:"results" validate:"dive"`
	Total   int            `json:"total"`
}
