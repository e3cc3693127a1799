// Package memory provides an in-memory implementation of the Verger
// composite store. It is intended for testing and development.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/smartequiz/verger/auditlog"
	"github.com/smartequiz/verger/customization"
	"github.com/smartequiz/verger/id"
)

// Compile-time interface checks.
var (
	_ customization.Store = (*Store)(nil)
	_ auditlog.Store      = (*Store)(nil)
)

// Store is a thread-safe in-memory store for all Verger entities.
// Customizations are keyed by the composite (tenantID, role) pair, which
// makes the at-most-one-record-per-pair invariant structural.
type Store struct {
	mu sync.RWMutex

	customizations map[string]*customization.Customization // "tenant|role" -> record
	decisions      map[string]*auditlog.Entry
}

// New creates a new in-memory store.
func New() *Store {
	return &Store{
		customizations: make(map[string]*customization.Customization),
		decisions:      make(map[string]*auditlog.Entry),
	}
}

// Migrate is a no-op for the memory store.
func (s *Store) Migrate(_ context.Context) error { return nil }

// Ping is a no-op for the memory store.
func (s *Store) Ping(_ context.Context) error { return nil }

// Close is a no-op for the memory store.
func (s *Store) Close() error { return nil }

func pairKey(tenantID, role string) string {
	return tenantID + "|" + role
}

// ──────────────────────────────────────────────────
// Customization Store
// ──────────────────────────────────────────────────

func (s *Store) SaveCustomization(_ context.Context, c *customization.Customization) (*customization.Customization, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	key := pairKey(c.TenantID, c.Role)

	stored := copyCustomization(c)
	if existing, ok := s.customizations[key]; ok {
		// Upsert: mutable fields replace, identity and creation time stay.
		stored.ID = existing.ID
		stored.CreatedAt = existing.CreatedAt
	} else {
		if stored.ID.IsNil() {
			stored.ID = id.NewCustomizationID()
		}
		stored.CreatedAt = now
	}
	stored.UpdatedAt = now

	s.customizations[key] = stored
	return copyCustomization(stored), nil
}

func (s *Store) GetCustomization(_ context.Context, tenantID, role string) (*customization.Customization, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.customizations[pairKey(tenantID, role)]
	if !ok {
		return nil, fmt.Errorf("customization %s/%s: %w", tenantID, role, customization.ErrNotFound)
	}
	return copyCustomization(c), nil
}

func (s *Store) DeleteCustomization(_ context.Context, tenantID, role string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.customizations, pairKey(tenantID, role))
	return nil
}

func (s *Store) ListCustomizations(_ context.Context, filter *customization.ListFilter) ([]*customization.Customization, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]*customization.Customization, 0, len(s.customizations))
	for _, c := range s.customizations {
		if filter != nil {
			if filter.TenantID != "" && c.TenantID != filter.TenantID {
				continue
			}
			if filter.Role != "" && c.Role != filter.Role {
				continue
			}
			if filter.IsActive != nil && c.IsActive != *filter.IsActive {
				continue
			}
		}
		result = append(result, copyCustomization(c))
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].TenantID != result[j].TenantID {
			return result[i].TenantID < result[j].TenantID
		}
		return result[i].Role < result[j].Role
	})
	return applyPagination(result, paginationOpts(filter)), nil
}

func (s *Store) CountCustomizations(ctx context.Context, filter *customization.ListFilter) (int64, error) {
	var unpaged *customization.ListFilter
	if filter != nil {
		f := *filter
		f.Limit, f.Offset = 0, 0
		unpaged = &f
	}
	list, err := s.ListCustomizations(ctx, unpaged)
	if err != nil {
		return 0, err
	}
	return int64(len(list)), nil
}

func (s *Store) DeleteCustomizationsByTenant(_ context.Context, tenantID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k, c := range s.customizations {
		if c.TenantID == tenantID {
			delete(s.customizations, k)
		}
	}
	return nil
}

// ──────────────────────────────────────────────────
// Decision audit log Store
// ──────────────────────────────────────────────────

func (s *Store) CreateDecision(_ context.Context, e *auditlog.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *e
	s.decisions[e.ID.String()] = &cp
	return nil
}

func (s *Store) GetDecision(_ context.Context, decID id.DecisionID) (*auditlog.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.decisions[decID.String()]
	if !ok {
		return nil, fmt.Errorf("decision %s: %w", decID, auditlog.ErrNotFound)
	}
	cp := *e
	return &cp, nil
}

func (s *Store) ListDecisions(_ context.Context, filter *auditlog.QueryFilter) ([]*auditlog.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]*auditlog.Entry, 0, len(s.decisions))
	for _, e := range s.decisions {
		if filter != nil {
			if filter.TenantID != "" && e.TenantID != filter.TenantID {
				continue
			}
			if filter.UserID != "" && e.UserID != filter.UserID {
				continue
			}
			if filter.Role != "" && e.Role != filter.Role {
				continue
			}
			if filter.Kind != "" && e.Kind != filter.Kind {
				continue
			}
			if filter.Object != "" && e.Object != filter.Object {
				continue
			}
			if filter.Allowed != nil && e.Allowed != *filter.Allowed {
				continue
			}
			if filter.After != nil && !e.CreatedAt.After(*filter.After) {
				continue
			}
			if filter.Before != nil && !e.CreatedAt.Before(*filter.Before) {
				continue
			}
		}
		cp := *e
		result = append(result, &cp)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	var p pagOpts
	if filter != nil {
		p = pagOpts{limit: filter.Limit, offset: filter.Offset}
	}
	return applyPagination(result, p), nil
}

func (s *Store) CountDecisions(ctx context.Context, filter *auditlog.QueryFilter) (int64, error) {
	var unpaged *auditlog.QueryFilter
	if filter != nil {
		f := *filter
		f.Limit, f.Offset = 0, 0
		unpaged = &f
	}
	list, err := s.ListDecisions(ctx, unpaged)
	if err != nil {
		return 0, err
	}
	return int64(len(list)), nil
}

func (s *Store) PurgeDecisions(_ context.Context, before time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var purged int64
	for k, e := range s.decisions {
		if e.CreatedAt.Before(before) {
			delete(s.decisions, k)
			purged++
		}
	}
	return purged, nil
}

func (s *Store) DeleteDecisionsByTenant(_ context.Context, tenantID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k, e := range s.decisions {
		if e.TenantID == tenantID {
			delete(s.decisions, k)
		}
	}
	return nil
}

// ──────────────────────────────────────────────────
// Helpers
// ──────────────────────────────────────────────────

func copyCustomization(c *customization.Customization) *customization.Customization {
	cp := *c
	cp.Permissions.Add = append([]string(nil), c.Permissions.Add...)
	cp.Permissions.Remove = append([]string(nil), c.Permissions.Remove...)
	cp.Pages.Add = append([]string(nil), c.Pages.Add...)
	cp.Pages.Remove = append([]string(nil), c.Pages.Remove...)
	return &cp
}

type pagOpts struct {
	limit  int
	offset int
}

func paginationOpts(f *customization.ListFilter) pagOpts {
	if f == nil {
		return pagOpts{}
	}
	return pagOpts{limit: f.Limit, offset: f.Offset}
}

func applyPagination[T any](items []*T, p pagOpts) []*T {
	if p.offset > 0 && p.offset < len(items) {
		items = items[p.offset:]
	} else if p.offset >= len(items) && p.offset > 0 {
		return nil
	}
	if p.limit > 0 && p.limit < len(items) {
		items = items[:p.limit]
	}
	return items
}
