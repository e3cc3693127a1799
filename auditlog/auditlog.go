// Package auditlog defines the access decision audit log Entry entity.
package auditlog

import (
	"errors"
	"time"

	"github.com/smartequiz/verger/id"
)

// ErrNotFound is returned by stores when a decision entry is absent.
var ErrNotFound = errors.New("verger: decision entry not found")

// Kind distinguishes what kind of identifier a decision was about.
type Kind string

const (
	// KindPermission marks a permission check decision.
	KindPermission Kind = "permission"

	// KindPage marks a page-access check decision.
	KindPage Kind = "page"
)

// Entry is a single access decision audit record.
type Entry struct {
	ID         id.DecisionID `json:"id" db:"id"`
	TenantID   string        `json:"tenant_id" db:"tenant_id"`
	UserID     string        `json:"user_id" db:"user_id"`
	Role       string        `json:"role" db:"role_slug"`
	Kind       Kind          `json:"kind" db:"kind"`
	Object     string        `json:"object" db:"object"`
	Allowed    bool          `json:"allowed" db:"allowed"`
	Source     string        `json:"source" db:"source"`
	EvalTimeNs int64         `json:"eval_time_ns" db:"eval_time_ns"`
	CreatedAt  time.Time     `json:"created_at" db:"created_at"`
}

// QueryFilter contains filters for querying decision entries.
type QueryFilter struct {
	TenantID string     `json:"tenant_id,omitempty"`
	UserID   string     `json:"user_id,omitempty"`
	Role     string     `json:"role,omitempty"`
	Kind     Kind       `json:"kind,omitempty"`
	Object   string     `json:"object,omitempty"`
	Allowed  *bool      `json:"allowed,omitempty"`
	After    *time.Time `json:"after,omitempty"`
	Before   *time.Time `json:"before,omitempty"`
	Limit    int        `json:"limit,omitempty"`
	Offset   int        `json:"offset,omitempty"`
}
