package api

// ──────────────────────────────────────────────────
// Access requests
// ──────────────────────────────────────────────────

// ResolveRequest is the request body for resolving effective access.
type ResolveRequest struct {
	UserID   string `json:"user_id" description:"User identifier"`
	TenantID string `json:"tenant_id" description:"Tenant identifier"`
	Role     string `json:"role" description:"Role slug held by the user"`
}

// CheckRequest is the request body for a permission or page check.
type CheckRequest struct {
	UserID   string `json:"user_id" description:"User identifier"`
	TenantID string `json:"tenant_id" description:"Tenant identifier"`
	Role     string `json:"role" description:"Role slug held by the user"`
	Kind     string `json:"kind" description:"Object kind (permission or page)"`
	Object   string `json:"object" description:"Permission string or page key to check"`
}

// ──────────────────────────────────────────────────
// Customization requests
// ──────────────────────────────────────────────────

// SaveCustomizationRequest is the body for creating or replacing the
// customization of a (tenant, role) pair.
type SaveCustomizationRequest struct {
	TenantID          string   `path:"tenantId" description:"Tenant identifier"`
	RoleSlug          string   `path:"roleSlug" description:"Role slug"`
	PermissionsAdd    []string `json:"permissions_add,omitempty" description:"Permissions granted on top of the base role"`
	PermissionsRemove []string `json:"permissions_remove,omitempty" description:"Permissions revoked from the base role"`
	PagesAdd          []string `json:"pages_add,omitempty" description:"Pages granted on top of the base role"`
	PagesRemove       []string `json:"pages_remove,omitempty" description:"Pages revoked from the base role"`
	IsActive          *bool    `json:"is_active,omitempty" description:"Whether the customization is applied (default: true)"`
	CreatedBy         string   `json:"created_by,omitempty" description:"Administrator who made the change"`
	Notes             string   `json:"notes,omitempty" description:"Free-form audit note"`
}

// GetCustomizationRequest holds path parameters for fetching a customization.
type GetCustomizationRequest struct {
	TenantID string `path:"tenantId" description:"Tenant identifier"`
	RoleSlug string `path:"roleSlug" description:"Role slug"`
}

// ListCustomizationsRequest holds query parameters for listing customizations.
type ListCustomizationsRequest struct {
	TenantID string `path:"tenantId" description:"Tenant identifier"`
	Role     string `query:"role" description:"Filter by role slug"`
	IsActive *bool  `query:"is_active" description:"Filter by active flag"`
	Limit    int    `query:"limit" description:"Maximum results (default: 50)"`
	Offset   int    `query:"offset" description:"Results to skip"`
}

// ──────────────────────────────────────────────────
// Decision log requests
// ──────────────────────────────────────────────────

// ListDecisionsRequest holds query parameters for listing logged decisions.
type ListDecisionsRequest struct {
	TenantID string `query:"tenant_id" description:"Filter by tenant"`
	UserID   string `query:"user_id" description:"Filter by user"`
	Role     string `query:"role" description:"Filter by role slug"`
	Kind     string `query:"kind" description:"Filter by object kind (permission or page)"`
	Object   string `query:"object" description:"Filter by checked object"`
	Allowed  *bool  `query:"allowed" description:"Filter by outcome"`
	Limit    int    `query:"limit" description:"Maximum results (default: 50)"`
	Offset   int    `query:"offset" description:"Results to skip"`
}

// GetDecisionRequest holds the path parameter for fetching a decision.
type GetDecisionRequest struct {
	DecisionID string `path:"decisionId" description:"Decision ID"`
}
