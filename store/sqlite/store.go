// Package sqlite provides a SQLite implementation of the Verger
// composite store using grove ORM. List deltas are stored as JSON text.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/xraph/grove"
	"github.com/xraph/grove/drivers/sqlitedriver"
	"github.com/xraph/grove/migrate"

	"github.com/smartequiz/verger/auditlog"
	"github.com/smartequiz/verger/customization"
	"github.com/smartequiz/verger/id"
	"github.com/smartequiz/verger/store"
)

// Compile-time interface check.
var _ store.Store = (*Store)(nil)

// Store is a SQLite implementation of the composite Verger store.
type Store struct {
	db  *grove.DB
	sdb *sqlitedriver.SqliteDB
}

// New creates a new SQLite store.
func New(db *grove.DB) *Store {
	return &Store{
		db:  db,
		sdb: sqlitedriver.Unwrap(db),
	}
}

// Migrate runs programmatic migrations via the grove orchestrator.
func (s *Store) Migrate(ctx context.Context) error {
	executor, err := migrate.NewExecutorFor(s.sdb)
	if err != nil {
		return fmt.Errorf("verger/sqlite: create migration executor: %w", err)
	}
	orch := migrate.NewOrchestrator(executor, Migrations)
	if _, err := orch.Migrate(ctx); err != nil {
		return fmt.Errorf("verger/sqlite: migration failed: %w", err)
	}
	return nil
}

// Ping verifies the database connection.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// isNoRows checks for the standard sql.ErrNoRows sentinel.
func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

// ──────────────────────────────────────────────────
// Customization operations
// ──────────────────────────────────────────────────

func (s *Store) SaveCustomization(ctx context.Context, c *customization.Customization) (*customization.Customization, error) {
	tx, err := s.sdb.BeginTxQuery(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("verger: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // rollback on error is intentional

	now := time.Now().UTC()
	existing := new(customizationModel)
	err = tx.NewSelect(existing).
		Where("tenant_id = ?", c.TenantID).
		Where("role_slug = ?", c.Role).
		Scan(ctx)
	switch {
	case err == nil:
		m, merr := customizationToModel(c)
		if merr != nil {
			return nil, fmt.Errorf("verger: %w", merr)
		}
		m.ID = existing.ID
		m.CreatedAt = existing.CreatedAt
		m.UpdatedAt = now
		if _, err := tx.NewUpdate(m).WherePK().Exec(ctx); err != nil {
			return nil, fmt.Errorf("verger: update customization: %w", err)
		}
		if err := tx.Commit(); err != nil {
			return nil, fmt.Errorf("verger: commit customization: %w", err)
		}
		return customizationFromModel(m)
	case isNoRows(err):
		m, merr := customizationToModel(c)
		if merr != nil {
			return nil, fmt.Errorf("verger: %w", merr)
		}
		if m.ID == "" {
			m.ID = id.NewCustomizationID().String()
		}
		m.CreatedAt = now
		m.UpdatedAt = now
		if _, err := tx.NewInsert(m).Exec(ctx); err != nil {
			return nil, fmt.Errorf("verger: insert customization: %w", err)
		}
		if err := tx.Commit(); err != nil {
			return nil, fmt.Errorf("verger: commit customization: %w", err)
		}
		return customizationFromModel(m)
	default:
		return nil, fmt.Errorf("verger: load customization for upsert: %w", err)
	}
}

func (s *Store) GetCustomization(ctx context.Context, tenantID, role string) (*customization.Customization, error) {
	m := new(customizationModel)
	err := s.sdb.NewSelect(m).
		Where("tenant_id = ?", tenantID).
		Where("role_slug = ?", role).
		Scan(ctx)
	if err != nil {
		if isNoRows(err) {
			return nil, fmt.Errorf("customization %s/%s: %w", tenantID, role, customization.ErrNotFound)
		}
		return nil, fmt.Errorf("verger: get customization: %w", err)
	}
	return customizationFromModel(m)
}

func (s *Store) DeleteCustomization(ctx context.Context, tenantID, role string) error {
	_, err := s.sdb.NewDelete((*customizationModel)(nil)).
		Where("tenant_id = ?", tenantID).
		Where("role_slug = ?", role).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("verger: delete customization: %w", err)
	}
	return nil
}

func (s *Store) ListCustomizations(ctx context.Context, filter *customization.ListFilter) ([]*customization.Customization, error) {
	var models []customizationModel
	q := s.sdb.NewSelect(&models).OrderExpr("tenant_id ASC, role_slug ASC")
	if filter != nil {
		if filter.TenantID != "" {
			q = q.Where("tenant_id = ?", filter.TenantID)
		}
		if filter.Role != "" {
			q = q.Where("role_slug = ?", filter.Role)
		}
		if filter.IsActive != nil {
			q = q.Where("is_active = ?", *filter.IsActive)
		}
		if filter.Limit > 0 {
			q = q.Limit(filter.Limit)
		}
		if filter.Offset > 0 {
			q = q.Offset(filter.Offset)
		}
	}
	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("verger: list customizations: %w", err)
	}
	result := make([]*customization.Customization, 0, len(models))
	for i := range models {
		c, err := customizationFromModel(&models[i])
		if err != nil {
			return nil, fmt.Errorf("verger: %w", err)
		}
		result = append(result, c)
	}
	return result, nil
}

func (s *Store) CountCustomizations(ctx context.Context, filter *customization.ListFilter) (int64, error) {
	q := s.sdb.NewSelect((*customizationModel)(nil))
	if filter != nil {
		if filter.TenantID != "" {
			q = q.Where("tenant_id = ?", filter.TenantID)
		}
		if filter.Role != "" {
			q = q.Where("role_slug = ?", filter.Role)
		}
		if filter.IsActive != nil {
			q = q.Where("is_active = ?", *filter.IsActive)
		}
	}
	count, err := q.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("verger: count customizations: %w", err)
	}
	return count, nil
}

func (s *Store) DeleteCustomizationsByTenant(ctx context.Context, tenantID string) error {
	_, err := s.sdb.NewDelete((*customizationModel)(nil)).
		Where("tenant_id = ?", tenantID).Exec(ctx)
	if err != nil {
		return fmt.Errorf("verger: delete customizations by tenant: %w", err)
	}
	return nil
}

// ──────────────────────────────────────────────────
// Decision log operations
// ──────────────────────────────────────────────────

func (s *Store) CreateDecision(ctx context.Context, e *auditlog.Entry) error {
	e.CreatedAt = time.Now().UTC()
	m := decisionToModel(e)
	_, err := s.sdb.NewInsert(m).Exec(ctx)
	if err != nil {
		return fmt.Errorf("verger: create decision: %w", err)
	}
	return nil
}

func (s *Store) GetDecision(ctx context.Context, decID id.DecisionID) (*auditlog.Entry, error) {
	m := new(decisionModel)
	err := s.sdb.NewSelect(m).Where("id = ?", decID.String()).Scan(ctx)
	if err != nil {
		if isNoRows(err) {
			return nil, fmt.Errorf("decision %s: %w", decID, auditlog.ErrNotFound)
		}
		return nil, fmt.Errorf("verger: get decision: %w", err)
	}
	return decisionFromModel(m), nil
}

func (s *Store) ListDecisions(ctx context.Context, filter *auditlog.QueryFilter) ([]*auditlog.Entry, error) {
	var models []decisionModel
	q := s.sdb.NewSelect(&models).OrderExpr("created_at DESC")
	if filter != nil {
		if filter.TenantID != "" {
			q = q.Where("tenant_id = ?", filter.TenantID)
		}
		if filter.UserID != "" {
			q = q.Where("user_id = ?", filter.UserID)
		}
		if filter.Role != "" {
			q = q.Where("role_slug = ?", filter.Role)
		}
		if filter.Kind != "" {
			q = q.Where("kind = ?", string(filter.Kind))
		}
		if filter.Object != "" {
			q = q.Where("object = ?", filter.Object)
		}
		if filter.Allowed != nil {
			q = q.Where("allowed = ?", *filter.Allowed)
		}
		if filter.After != nil {
			q = q.Where("created_at >= ?", *filter.After)
		}
		if filter.Before != nil {
			q = q.Where("created_at <= ?", *filter.Before)
		}
		if filter.Limit > 0 {
			q = q.Limit(filter.Limit)
		}
		if filter.Offset > 0 {
			q = q.Offset(filter.Offset)
		}
	}
	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("verger: list decisions: %w", err)
	}
	result := make([]*auditlog.Entry, len(models))
	for i := range models {
		result[i] = decisionFromModel(&models[i])
	}
	return result, nil
}

func (s *Store) CountDecisions(ctx context.Context, filter *auditlog.QueryFilter) (int64, error) {
	q := s.sdb.NewSelect((*decisionModel)(nil))
	if filter != nil {
		if filter.TenantID != "" {
			q = q.Where("tenant_id = ?", filter.TenantID)
		}
		if filter.UserID != "" {
			q = q.Where("user_id = ?", filter.UserID)
		}
		if filter.Role != "" {
			q = q.Where("role_slug = ?", filter.Role)
		}
		if filter.Kind != "" {
			q = q.Where("kind = ?", string(filter.Kind))
		}
		if filter.Object != "" {
			q = q.Where("object = ?", filter.Object)
		}
		if filter.Allowed != nil {
			q = q.Where("allowed = ?", *filter.Allowed)
		}
		if filter.After != nil {
			q = q.Where("created_at >= ?", *filter.After)
		}
		if filter.Before != nil {
			q = q.Where("created_at <= ?", *filter.Before)
		}
	}
	count, err := q.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("verger: count decisions: %w", err)
	}
	return count, nil
}

func (s *Store) PurgeDecisions(ctx context.Context, before time.Time) (int64, error) {
	res, err := s.sdb.NewDelete((*decisionModel)(nil)).
		Where("created_at < ?", before).Exec(ctx)
	if err != nil {
		return 0, fmt.Errorf("verger: purge decisions: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("verger: purge decisions rows: %w", err)
	}
	return n, nil
}

func (s *Store) DeleteDecisionsByTenant(ctx context.Context, tenantID string) error {
	_, err := s.sdb.NewDelete((*decisionModel)(nil)).
		Where("tenant_id = ?", tenantID).Exec(ctx)
	if err != nil {
		return fmt.Errorf("verger: delete decisions by tenant: %w", err)
	}
	return nil
}
