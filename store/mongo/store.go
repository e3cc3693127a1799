// Package mongo provides a MongoDB implementation of the Verger
// composite store using grove ORM.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	mongod "go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/xraph/grove"
	"github.com/xraph/grove/drivers/mongodriver"

	"github.com/smartequiz/verger/auditlog"
	"github.com/smartequiz/verger/customization"
	"github.com/smartequiz/verger/id"
	"github.com/smartequiz/verger/store"
)

// Collection name constants.
const (
	colCustomizations = "verger_customizations"
	colDecisions      = "verger_decisions"
)

// Compile-time interface check.
var _ store.Store = (*Store)(nil)

// Store is a MongoDB implementation of the composite Verger store.
type Store struct {
	db  *grove.DB
	mdb *mongodriver.MongoDB
}

// New creates a new MongoDB store backed by Grove ORM.
func New(db *grove.DB) *Store {
	return &Store{
		db:  db,
		mdb: mongodriver.Unwrap(db),
	}
}

// Migrate creates indexes for all verger collections.
func (s *Store) Migrate(ctx context.Context) error {
	indexes := migrationIndexes()
	for col, models := range indexes {
		if len(models) == 0 {
			continue
		}
		_, err := s.mdb.Collection(col).Indexes().CreateMany(ctx, models)
		if err != nil {
			return fmt.Errorf("verger/mongo: migrate %s indexes: %w", col, err)
		}
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

// now returns the current UTC time.
func now() time.Time {
	return time.Now().UTC()
}

// isNoDocuments checks if an error wraps mongo.ErrNoDocuments.
func isNoDocuments(err error) bool {
	return errors.Is(err, mongod.ErrNoDocuments)
}

// migrationIndexes returns the index definitions for all verger collections.
func migrationIndexes() map[string][]mongod.IndexModel {
	return map[string][]mongod.IndexModel{
		colCustomizations: {
			{
				Keys:    bson.D{{Key: "tenant_id", Value: 1}, {Key: "role_slug", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
			{Keys: bson.D{{Key: "tenant_id", Value: 1}}},
			{Keys: bson.D{{Key: "tenant_id", Value: 1}, {Key: "is_active", Value: 1}}},
		},
		colDecisions: {
			{Keys: bson.D{{Key: "tenant_id", Value: 1}}},
			{Keys: bson.D{{Key: "tenant_id", Value: 1}, {Key: "user_id", Value: 1}}},
			{Keys: bson.D{{Key: "tenant_id", Value: 1}, {Key: "kind", Value: 1}, {Key: "object", Value: 1}}},
			{Keys: bson.D{{Key: "created_at", Value: -1}}},
		},
	}
}

// ──────────────────────────────────────────────────
// Customization operations
// ──────────────────────────────────────────────────

// SaveCustomization upserts the customization for the (tenant, role) pair.
// The unique index on (tenant_id, role_slug) backstops concurrent inserts.
func (s *Store) SaveCustomization(ctx context.Context, c *customization.Customization) (*customization.Customization, error) {
	t := now()

	var existing customizationModel
	err := s.mdb.NewFind(&existing).
		Filter(bson.M{"tenant_id": c.TenantID, "role_slug": c.Role}).
		Scan(ctx)
	switch {
	case err == nil:
		m := customizationToModel(c)
		m.ID = existing.ID
		m.CreatedAt = existing.CreatedAt
		m.UpdatedAt = t
		res, err := s.mdb.NewUpdate(m).
			Filter(bson.M{"_id": m.ID}).
			Exec(ctx)
		if err != nil {
			return nil, fmt.Errorf("verger: update customization: %w", err)
		}
		if res.MatchedCount() == 0 {
			return nil, fmt.Errorf("customization %s/%s: %w", c.TenantID, c.Role, customization.ErrNotFound)
		}
		return customizationFromModel(m), nil
	case isNoDocuments(err):
		m := customizationToModel(c)
		if m.ID == "" {
			m.ID = id.NewCustomizationID().String()
		}
		m.CreatedAt = t
		m.UpdatedAt = t
		if _, err := s.mdb.NewInsert(m).Exec(ctx); err != nil {
			return nil, fmt.Errorf("verger: insert customization: %w", err)
		}
		return customizationFromModel(m), nil
	default:
		return nil, fmt.Errorf("verger: load customization for upsert: %w", err)
	}
}

func (s *Store) GetCustomization(ctx context.Context, tenantID, role string) (*customization.Customization, error) {
	var m customizationModel
	err := s.mdb.NewFind(&m).
		Filter(bson.M{"tenant_id": tenantID, "role_slug": role}).
		Scan(ctx)
	if err != nil {
		if isNoDocuments(err) {
			return nil, fmt.Errorf("customization %s/%s: %w", tenantID, role, customization.ErrNotFound)
		}
		return nil, fmt.Errorf("verger: get customization: %w", err)
	}
	return customizationFromModel(&m), nil
}

func (s *Store) DeleteCustomization(ctx context.Context, tenantID, role string) error {
	_, err := s.mdb.NewDelete((*customizationModel)(nil)).
		Filter(bson.M{"tenant_id": tenantID, "role_slug": role}).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("verger: delete customization: %w", err)
	}
	return nil
}

func (s *Store) ListCustomizations(ctx context.Context, filter *customization.ListFilter) ([]*customization.Customization, error) {
	var models []customizationModel
	f := bson.M{}
	if filter != nil {
		if filter.TenantID != "" {
			f["tenant_id"] = filter.TenantID
		}
		if filter.Role != "" {
			f["role_slug"] = filter.Role
		}
		if filter.IsActive != nil {
			f["is_active"] = *filter.IsActive
		}
	}
	q := s.mdb.NewFind(&models).
		Filter(f).
		Sort(bson.D{{Key: "tenant_id", Value: 1}, {Key: "role_slug", Value: 1}})
	if filter != nil {
		if filter.Limit > 0 {
			q = q.Limit(int64(filter.Limit))
		}
		if filter.Offset > 0 {
			q = q.Skip(int64(filter.Offset))
		}
	}
	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("verger: list customizations: %w", err)
	}
	result := make([]*customization.Customization, len(models))
	for i := range models {
		result[i] = customizationFromModel(&models[i])
	}
	return result, nil
}

func (s *Store) CountCustomizations(ctx context.Context, filter *customization.ListFilter) (int64, error) {
	f := bson.M{}
	if filter != nil {
		if filter.TenantID != "" {
			f["tenant_id"] = filter.TenantID
		}
		if filter.Role != "" {
			f["role_slug"] = filter.Role
		}
		if filter.IsActive != nil {
			f["is_active"] = *filter.IsActive
		}
	}
	count, err := s.mdb.NewFind((*customizationModel)(nil)).
		Filter(f).
		Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("verger: count customizations: %w", err)
	}
	return count, nil
}

func (s *Store) DeleteCustomizationsByTenant(ctx context.Context, tenantID string) error {
	_, err := s.mdb.NewDelete((*customizationModel)(nil)).
		Many().
		Filter(bson.M{"tenant_id": tenantID}).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("verger: delete customizations by tenant: %w", err)
	}
	return nil
}

// ──────────────────────────────────────────────────
// Decision log operations
// ──────────────────────────────────────────────────

func (s *Store) CreateDecision(ctx context.Context, e *auditlog.Entry) error {
	e.CreatedAt = now()
	m := decisionToModel(e)
	if _, err := s.mdb.NewInsert(m).Exec(ctx); err != nil {
		return fmt.Errorf("verger: create decision: %w", err)
	}
	return nil
}

func (s *Store) GetDecision(ctx context.Context, decID id.DecisionID) (*auditlog.Entry, error) {
	var m decisionModel
	err := s.mdb.NewFind(&m).
		Filter(bson.M{"_id": decID.String()}).
		Scan(ctx)
	if err != nil {
		if isNoDocuments(err) {
			return nil, fmt.Errorf("decision %s: %w", decID, auditlog.ErrNotFound)
		}
		return nil, fmt.Errorf("verger: get decision: %w", err)
	}
	return decisionFromModel(&m), nil
}

func decisionFilter(filter *auditlog.QueryFilter) bson.M {
	f := bson.M{}
	if filter == nil {
		return f
	}
	if filter.TenantID != "" {
		f["tenant_id"] = filter.TenantID
	}
	if filter.UserID != "" {
		f["user_id"] = filter.UserID
	}
	if filter.Role != "" {
		f["role_slug"] = filter.Role
	}
	if filter.Kind != "" {
		f["kind"] = string(filter.Kind)
	}
	if filter.Object != "" {
		f["object"] = filter.Object
	}
	if filter.Allowed != nil {
		f["allowed"] = *filter.Allowed
	}
	if filter.After != nil || filter.Before != nil {
		dateFilter := bson.M{}
		if filter.After != nil {
			dateFilter["$gte"] = *filter.After
		}
		if filter.Before != nil {
			dateFilter["$lte"] = *filter.Before
		}
		f["created_at"] = dateFilter
	}
	return f
}

func (s *Store) ListDecisions(ctx context.Context, filter *auditlog.QueryFilter) ([]*auditlog.Entry, error) {
	var models []decisionModel
	q := s.mdb.NewFind(&models).
		Filter(decisionFilter(filter)).
		Sort(bson.D{{Key: "created_at", Value: -1}})
	if filter != nil {
		if filter.Limit > 0 {
			q = q.Limit(int64(filter.Limit))
		}
		if filter.Offset > 0 {
			q = q.Skip(int64(filter.Offset))
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
	count, err := s.mdb.NewFind((*decisionModel)(nil)).
		Filter(decisionFilter(filter)).
		Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("verger: count decisions: %w", err)
	}
	return count, nil
}

func (s *Store) PurgeDecisions(ctx context.Context, before time.Time) (int64, error) {
	res, err := s.mdb.NewDelete((*decisionModel)(nil)).
		Many().
		Filter(bson.M{"created_at": bson.M{"$lt": before}}).
		Exec(ctx)
	if err != nil {
		return 0, fmt.Errorf("verger: purge decisions: %w", err)
	}
	return res.DeletedCount(), nil
}

func (s *Store) DeleteDecisionsByTenant(ctx context.Context, tenantID string) error {
	_, err := s.mdb.NewDelete((*decisionModel)(nil)).
		Many().
		Filter(bson.M{"tenant_id": tenantID}).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("verger: delete decisions by tenant: %w", err)
	}
	return nil
}
