package catalog

import (
	"sync"

	"github.com/hashicorp-forge/granola-client/pkg/granola/schema"
	"github.com/hashicorp-forge/granola-client/pkg/models"
)

// Operation names of the Granola API.
const (
	OpGetDocuments             = "get-documents"
	OpGetDocumentMetadata      = "get-document-metadata"
	OpGetDocumentTranscript    = "get-document-transcript"
	OpGetDocumentSet           = "get-document-set"
	OpGetDocumentLists         = "get-document-lists"
	OpCreateDocument           = "create-document"
	OpUpdateDocument           = "update-document"
	OpUpdateDocumentPanel      = "update-document-panel"
	OpDeleteDocument           = "delete-document"
	OpShareDocument            = "share-document"
	OpUnshareDocument          = "unshare-document"
	OpGetDocumentAccess        = "get-document-access"
	OpCreateFolder             = "create-folder"
	OpUpdateFolder             = "update-folder"
	OpAddDocumentToFolder      = "add-document-to-folder"
	OpRemoveDocumentFromFolder = "remove-document-from-folder"
	OpSearchDocuments          = "search-documents"
	OpGetPanelTemplates        = "get-panel-templates"
	OpGetUserInfo              = "get-user-info"
	OpGetWorkspaces            = "get-workspaces"
	OpGetWorkspaceMembers      = "get-workspace-members"
	OpGetPeople                = "get-people"
	OpGetFeatureFlags          = "get-feature-flags"
	OpGetSubscriptions         = "get-subscriptions"
	OpGetCalendarEvents        = "get-calendar-events"
	OpRefreshGoogleEvents      = "refresh-google-events"
	OpGetNotionIntegration     = "get-notion-integration"
	OpSaveToNotion             = "save-to-notion"
	OpGetSlackIntegration      = "get-slack-integration"
	OpGetSlackChannels         = "get-slack-channels"
	OpPostSlackMessage         = "post-slack-message"
	OpCheckForUpdate           = "check-for-update"
	OpHealthCheck              = "health-check"
)

var defaultCatalog = sync.OnceValue(func() *Catalog {
	return MustNew(Granola()...)
})

// Default returns the shared Granola catalog.
func Default() *Catalog {
	return defaultCatalog()
}

// Granola returns the descriptors of the Granola API. Callers may append
// their own descriptors and build a custom catalog with New.
func Granola() []Descriptor {
	void := schema.Void()

	return []Descriptor{
		// Documents.
		Post(OpGetDocuments, "/v2/get-documents",
			schema.Optional[models.GetDocumentsRequest](), schema.Of[models.DocumentsResponse]()).
			Safe().Describe("List documents, one page at a time"),
		Get(OpGetDocumentMetadata, "/v1/documents/{id}/metadata",
			void, schema.Of[models.DocumentMetadata]()).
			Describe("Get the creator and attendees of a document"),
		Get(OpGetDocumentTranscript, "/v1/documents/{id}/transcript",
			void, schema.Of[[]models.TranscriptSegment]()).
			Describe("Get the transcript of a document"),
		Post(OpGetDocumentSet, "/v1/get-document-set",
			void, schema.Of[models.DocumentSetResponse]()).
			Safe().Describe("Get an index of every accessible document"),
		Post(OpGetDocumentLists, "/v1/get-document-lists-metadata",
			schema.Optional[models.DocumentListsRequest](), schema.Of[models.DocumentListsResponse]()).
			Safe().Describe("List folders"),
		Post(OpCreateDocument, "/v1/create-document",
			schema.Of[models.CreateDocumentRequest](), schema.Of[models.CreateDocumentResponse]()).
			Describe("Create a document"),
		Post(OpUpdateDocument, "/v1/update-document",
			schema.Of[models.UpdateDocumentRequest](), void).
			Describe("Update document fields"),
		Post(OpUpdateDocumentPanel, "/v1/update-document-panel",
			schema.Of[models.UpdateDocumentPanelRequest](), void).
			Describe("Replace the content of a note panel"),
		Post(OpDeleteDocument, "/v1/delete-document",
			schema.Of[models.DeleteDocumentRequest](), void).
			Describe("Delete a document"),

		// Sharing.
		Post(OpShareDocument, "/v1/share-document",
			schema.Of[models.ShareDocumentRequest](), void).
			Describe("Share a document with users"),
		Post(OpUnshareDocument, "/v1/unshare-document",
			schema.Of[models.UnshareDocumentRequest](), void).
			Describe("Revoke users' access to a document"),
		Get(OpGetDocumentAccess, "/v1/documents/{id}/access",
			void, schema.Of[models.DocumentAccessResponse]()).
			Describe("List who can access a document"),

		// Folders.
		Post(OpCreateFolder, "/v1/create-document-list",
			schema.Of[models.CreateFolderRequest](), schema.Of[models.CreateFolderResponse]()).
			Describe("Create a folder"),
		Post(OpUpdateFolder, "/v1/update-document-list",
			schema.Of[models.UpdateFolderRequest](), void).
			Describe("Update a folder"),
		Post(OpAddDocumentToFolder, "/v1/add-document-to-list",
			schema.Of[models.FolderDocumentRequest](), void).
			Describe("Add a document to a folder"),
		Post(OpRemoveDocumentFromFolder, "/v1/remove-document-from-list",
			schema.Of[models.FolderDocumentRequest](), void).
			Describe("Remove a document from a folder"),

		// Search.
		Get(OpSearchDocuments, "/v1/search",
			schema.Of[models.SearchQuery](), schema.Of[models.SearchResponse]()).
			Describe("Full-text search over documents"),

		// Account.
		Post(OpGetPanelTemplates, "/v1/get-panel-templates",
			void, schema.Of[[]models.PanelTemplate]()).
			Safe().Describe("List note templates"),
		Post(OpGetUserInfo, "/v1/get-user-info",
			void, schema.Of[models.UserInfo]()).
			Safe().Describe("Get the authenticated user"),
		Post(OpGetWorkspaces, "/v1/get-workspaces",
			void, schema.Of[models.WorkspacesResponse]()).
			Safe().Describe("List workspaces"),
		Get(OpGetWorkspaceMembers, "/v1/workspaces/{workspace_id}/members",
			void, schema.Of[models.WorkspaceMembersResponse]()).
			Describe("List members of a workspace"),
		Post(OpGetPeople, "/v1/get-people",
			void, schema.Of[[]models.Person]()).
			Safe().Describe("List known people"),
		Post(OpGetFeatureFlags, "/v1/get-feature-flags",
			void, schema.Of[[]models.FeatureFlag]()).
			Safe().Describe("List feature flags"),
		Post(OpGetSubscriptions, "/v1/get-subscriptions",
			void, schema.Of[models.SubscriptionsResponse]()).
			Safe().Describe("List subscription plans"),

		// Calendar.
		Post(OpGetCalendarEvents, "/v1/get-calendar-events",
			schema.Optional[models.CalendarEventsRequest](), schema.Of[models.CalendarEventsResponse]()).
			Safe().Describe("List synced calendar events"),
		Post(OpRefreshGoogleEvents, "/v1/refresh-google-events",
			void, void).
			Describe("Resync Google calendar events"),

		// Integrations.
		Post(OpGetNotionIntegration, "/v1/get-notion-integration",
			void, schema.Of[models.NotionIntegrationResponse]()).
			Safe().Describe("Get the Notion integration"),
		Post(OpSaveToNotion, "/v1/save-to-notion",
			schema.Of[models.SaveToNotionRequest](), schema.Of[models.SaveToNotionResponse]()).
			Describe("Export a document to Notion"),
		Post(OpGetSlackIntegration, "/v1/get-slack-integration",
			void, schema.Of[models.SlackIntegrationResponse]()).
			Safe().Describe("Get the Slack integration"),
		Post(OpGetSlackChannels, "/v1/get-slack-channels",
			void, schema.Of[models.SlackChannelsResponse]()).
			Safe().Describe("List Slack channels"),
		Post(OpPostSlackMessage, "/v1/post-slack-message",
			schema.Of[models.PostSlackMessageRequest](), void).
			Describe("Post a document to Slack"),

		// Service.
		Get(OpCheckForUpdate, "/v1/check-for-update/{manifest}",
			void, schema.Of[models.UpdateManifest]().As(schema.FormatYAML)).
			Public().Describe("Get the desktop release manifest"),
		Get(OpHealthCheck, "/v1/health",
			void, void).
			Public().Describe("Check service health"),
	}
}
