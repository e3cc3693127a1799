// Package store defines the aggregate persistence interface. Each
// subsystem (customization, auditlog) defines its own store interface;
// the composite Store composes them all. Backends: Postgres, SQLite,
// MongoDB, and Memory.
package store

import (
	"context"

	"github.com/smartequiz/verger/auditlog"
	"github.com/smartequiz/verger/customization"
)

// Store is the aggregate persistence interface. A single backend
// (postgres, sqlite, mongo, memory) implements all subsystem stores.
type Store interface {
	customization.Store
	auditlog.Store

	// Migrate runs all schema migrations.
	Migrate(ctx context.Context) error

	// Ping checks database connectivity.
	Ping(ctx context.Context) error

	// Close closes the store connection.
	Close() error
}
