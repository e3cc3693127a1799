package customization

import "context"

// Store defines persistence operations for tenant role customizations.
type Store interface {
	// SaveCustomization upserts a customization keyed on (TenantID, Role).
	// If a record for the pair exists its mutable fields are updated in
	// place and the stored ID is preserved; otherwise a new record is
	// created. Duplicate pairs must never coexist, and a save must be
	// atomic with respect to concurrent gets. The stored record is
	// returned.
	SaveCustomization(ctx context.Context, c *Customization) (*Customization, error)

	// GetCustomization retrieves the customization for (tenantID, role).
	// Returns an error wrapping ErrNotFound when absent.
	GetCustomization(ctx context.Context, tenantID, role string) (*Customization, error)

	// DeleteCustomization removes the customization for (tenantID, role).
	// Deleting an absent record is not an error.
	DeleteCustomization(ctx context.Context, tenantID, role string) error

	// ListCustomizations returns customizations matching the filter.
	ListCustomizations(ctx context.Context, filter *ListFilter) ([]*Customization, error)

	// CountCustomizations returns the number of records matching the filter.
	CountCustomizations(ctx context.Context, filter *ListFilter) (int64, error)

	// DeleteCustomizationsByTenant removes all customizations for a tenant.
	DeleteCustomizationsByTenant(ctx context.Context, tenantID string) error
}
