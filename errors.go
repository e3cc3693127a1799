package verger

import "errors"

var (
	// ErrAccessDenied is returned when an enforced access query fails.
	ErrAccessDenied = errors.New("verger: access denied")

	// ErrTenantRequired is returned when a customization write is
	// missing its tenant ID.
	ErrTenantRequired = errors.New("verger: tenant id is required")

	// ErrRoleRequired is returned when a customization write is missing
	// its role slug.
	ErrRoleRequired = errors.New("verger: role is required")

	// ErrSuperAdminImmutable is returned when trying to customize the
	// super_admin role, which bypasses resolution and cannot be narrowed
	// or widened per tenant.
	ErrSuperAdminImmutable = errors.New("verger: super_admin role cannot be customized")
)
