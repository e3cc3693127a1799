package api

// CheckResponse is the response for a permission or page check.
type CheckResponse struct {
	Allowed    bool   `json:"allowed" description:"Whether the user holds the object"`
	Source     string `json:"source" description:"How the result was produced (base, customized, super_admin_bypass, unknown_role)"`
	EvalTimeNs int64  `json:"eval_time_ns" description:"Evaluation time in nanoseconds"`
}

// CatalogRoleResponse describes one catalog role.
type CatalogRoleResponse struct {
	Slug        string   `json:"slug" description:"Role slug"`
	Name        string   `json:"name" description:"Display name"`
	Description string   `json:"description,omitempty" description:"Human-readable description"`
	Permissions []string `json:"permissions" description:"Base permission set"`
	Pages       []string `json:"pages" description:"Base page set"`
}

// StringListResponse wraps a flat list of strings.
type StringListResponse struct {
	Items []string `json:"items" description:"List of values"`
}

// ListResponse wraps a list of items with pagination metadata.
type ListResponse[T any] struct {
	Items  []T   `json:"items" description:"List of items"`
	Total  int64 `json:"total" description:"Total count"`
	Limit  int   `json:"limit" description:"Page size"`
	Offset int   `json:"offset" description:"Page offset"`
}
