// Package customization defines the tenant role customization entity and
// its store interface. A customization is an override record — permissions
// and pages added to or removed from a base role — scoped to exactly one
// (tenant, role) pair.
package customization

import (
	"errors"
	"time"

	"github.com/smartequiz/verger/id"
)

// ErrNotFound is returned by stores when no customization exists for
// the requested key. Resolvers treat it as "no override"; every other
// store error must surface to the caller.
var ErrNotFound = errors.New("verger: customization not found")

// Delta is an add/remove pair of identifier sets. An identifier listed
// in both Add and Remove resolves in favor of Remove.
type Delta struct {
	Add    []string `json:"add,omitempty"`
	Remove []string `json:"remove,omitempty"`
}

// Customization is a per-tenant, per-role override record. At most one
// record exists per (TenantID, Role) pair; saves are upserts keyed on
// that pair.
type Customization struct {
	ID          id.CustomizationID `json:"id" db:"id"`
	TenantID    string             `json:"tenant_id" db:"tenant_id"`
	Role        string             `json:"role" db:"role_slug"`
	Permissions Delta              `json:"permissions" db:"permissions"`
	Pages       Delta              `json:"pages" db:"pages"`

	// IsActive soft-disables the record: when false it stays in storage
	// but has zero effect on resolution.
	IsActive bool `json:"is_active" db:"is_active"`

	// Audit metadata, no resolution effect.
	CreatedBy string `json:"created_by,omitempty" db:"created_by"`
	Notes     string `json:"notes,omitempty" db:"notes"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// ListFilter contains filters for listing customizations.
type ListFilter struct {
	TenantID string `json:"tenant_id,omitempty"`
	Role     string `json:"role,omitempty"`
	IsActive *bool  `json:"is_active,omitempty"`
	Limit    int    `json:"limit,omitempty"`
	Offset   int    `json:"offset,omitempty"`
}
