package auditlog

import (
	"context"
	"time"

	"github.com/smartequiz/verger/id"
)

// Store defines persistence operations for access decision audit logs.
type Store interface {
	// CreateDecision persists a new decision entry.
	CreateDecision(ctx context.Context, e *Entry) error

	// GetDecision retrieves a decision entry by ID.
	GetDecision(ctx context.Context, decID id.DecisionID) (*Entry, error)

	// ListDecisions returns decision entries matching the filter.
	ListDecisions(ctx context.Context, filter *QueryFilter) ([]*Entry, error)

	// CountDecisions returns the number of entries matching the filter.
	CountDecisions(ctx context.Context, filter *QueryFilter) (int64, error)

	// PurgeDecisions removes decision entries older than the given time.
	PurgeDecisions(ctx context.Context, before time.Time) (int64, error)

	// DeleteDecisionsByTenant removes all decision entries for a tenant.
	DeleteDecisionsByTenant(ctx context.Context, tenantID string) error
}
