package verger

import "context"

// Cache provides caching for resolved access. Entries are keyed by
// (tenantID, role) because resolution depends on nothing else; every
// user of a tenant with the same role shares one entry.
type Cache interface {
	// Get returns a cached access resolution, if available.
	Get(ctx context.Context, tenantID, role string) (*Access, bool)

	// Set stores an access resolution in the cache.
	Set(ctx context.Context, tenantID, role string, access *Access)

	// InvalidateRole removes the cached resolution for one (tenant, role) pair.
	InvalidateRole(ctx context.Context, tenantID, role string)

	// InvalidateTenant removes all cached resolutions for a tenant.
	InvalidateTenant(ctx context.Context, tenantID string)
}
