package models

// UserInfo describes the authenticated user.
type UserInfo struct {
	ID          string `json:"id" validate:"required"`
	Email       string `json:"email" validate:"required,email"`
	Name        string `json:"name,omitempty"`
	Picture     string `json:"picture,omitempty"`
	WorkspaceID string `json:"workspace_id,omitempty"`
}

// Workspace is an organization the user belongs to.
type Workspace struct {
	ID        string    `json:"workspace_id" validate:"required"`
	Name      string    `json:"display_name"`
	Slug      string    `json:"slug,omitempty"`
	Role      string    `json:"role,omitempty"`
	PlanType  string    `json:"plan_type,omitempty"`
	CreatedAt Timestamp `json:"created_at,omitzero"`
}

// WorkspacesResponse lists the user's workspaces.
type WorkspacesResponse struct {
	Workspaces []Workspace `json:"workspaces" validate:"dive"`
}

// WorkspaceMember is a user in a workspace.
type WorkspaceMember struct {
	UserID string `json:"user_id" validate:"required"`
	Email  string `json:"email"`
	Name   string `json:"name,omitempty"`
	Role   string `json:"role,omitempty"`
}

// WorkspaceMembersResponse lists the members of one workspace.
type WorkspaceMembersResponse struct {
	Members []WorkspaceMember `json:"members" validate:"dive"`
}

// Person is a contact known to the user.
type Person struct {
	ID      string `json:"id,omitempty"`
	Name    string `json:"name,omitempty"`
	Email   string `json:"email,omitempty"`
	Details JSON   `json:"details,omitempty"`
}

// FeatureFlag is one feature toggle and its value.
type FeatureFlag struct {
	Feature string `json:"feature" validate:"required"`
	Value   JSON   `json:"value,omitempty"`
	UserID  string `json:"user_id,omitempty"`
}

// Enabled reports whether the flag value is JSON true.
func (f FeatureFlag) Enabled() bool {
	var b bool
	return f.Value.Decode(&b) == nil && b
}

// PanelTemplate is a note template.
type PanelTemplate struct {
	ID           string `json:"id" validate:"required"`
	Title        string `json:"title"`
	TemplateType string `json:"template_type,omitempty"`
	Category     string `json:"category,omitempty"`
	Description  string `json:"description,omitempty"`
}

// SubscriptionPlan is a purchasable plan.
type SubscriptionPlan struct {
	ID                 string   `json:"id" validate:"required"`
	Type               string   `json:"type"`
	DisplayName        string   `json:"display_name"`
	Price              JSON     `json:"price,omitempty"`
	CurrencyISO        string   `json:"currency_iso,omitempty"`
	RequiresWorkspace  bool     `json:"requires_workspace"`
	RequiresPayment    bool     `json:"requires_payment"`
	PrivacyMode        string   `json:"privacy_mode,omitempty"`
	IsTeamUpsellTarget bool     `json:"is_team_upsell_target"`
	Features           []string `json:"features,omitempty"`
	DisplayOrder       int      `json:"display_order"`
	Live               bool     `json:"live"`
}

// SubscriptionsResponse lists plans and the active one.
type SubscriptionsResponse struct {
	ActivePlanID      string             `json:"active_plan_id,omitempty"`
	SubscriptionPlans []SubscriptionPlan `json:"subscription_plans,omitempty" validate:"dive"`
}
