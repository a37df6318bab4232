package models

// NotionWorkspace is a connected Notion workspace.
type NotionWorkspace struct {
	ID   string `json:"id" validate:"required"`
	Name string `json:"name"`
}

// NotionIntegrationResponse describes the Notion connection.
type NotionIntegrationResponse struct {
	Canceled     bool              `json:"canceled"`
	Workspaces   []NotionWorkspace `json:"workspaces,omitempty" validate:"dive"`
	Integrations JSON              `json:"integrations,omitempty"`
}

// SaveToNotionRequest exports a document to Notion.
type SaveToNotionRequest struct {
	DocumentID        string `json:"document_id" validate:"required"`
	NotionWorkspaceID string `json:"notion_workspace_id,omitempty"`
	ParentPageID      string `json:"parent_page_id,omitempty"`
}

// SaveToNotionResponse locates the exported page.
type SaveToNotionResponse struct {
	PageID  string `json:"page_id" validate:"required"`
	PageURL string `json:"page_url,omitempty" validate:"omitempty,url"`
}

// SlackChannel is a Slack channel notes can be posted to.
type SlackChannel struct {
	ID   string `json:"id" validate:"required"`
	Name string `json:"name"`
}

// SlackIntegrationResponse describes the Slack connection.
type SlackIntegrationResponse struct {
	Connected bool   `json:"connected"`
	TeamID    string `json:"team_id,omitempty"`
	TeamName  string `json:"team_name,omitempty"`
}

// SlackChannelsResponse lists postable channels.
type SlackChannelsResponse struct {
	Channels []SlackChannel `json:"channels" validate:"dive"`
}

// PostSlackMessageRequest posts a document summary to a channel.
type PostSlackMessageRequest struct {
	DocumentID string `json:"document_id" validate:"required"`
	ChannelID  string `json:"channel_id" validate:"required"`
	Message    string `json:"message,omitempty"`
}
