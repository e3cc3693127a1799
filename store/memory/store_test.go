package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/smartequiz/verger/auditlog"
	"github.com/smartequiz/verger/customization"
	"github.com/smartequiz/verger/id"
)

func TestSaveCustomizationInsertAndUpsert(t *testing.T) {
	ctx := context.Background()
	s := New()

	first, err := s.SaveCustomization(ctx, &customization.Customization{
		TenantID:    "tenant_a",
		Role:        "question_manager",
		Permissions: customization.Delta{Add: []string{"questions.delete"}},
		IsActive:    true,
	})
	if err != nil {
		t.Fatalf("SaveCustomization() error = %v", err)
	}
	if first.ID.IsNil() {
		t.Fatal("expected an ID to be assigned on insert")
	}
	if first.CreatedAt.IsZero() || first.UpdatedAt.IsZero() {
		t.Fatal("expected timestamps to be set on insert")
	}

	second, err := s.SaveCustomization(ctx, &customization.Customization{
		TenantID:    "tenant_a",
		Role:        "question_manager",
		Permissions: customization.Delta{Remove: []string{"questions.update"}},
		IsActive:    true,
	})
	if err != nil {
		t.Fatalf("SaveCustomization() upsert error = %v", err)
	}
	if second.ID != first.ID {
		t.Errorf("upsert ID = %s, want stable %s", second.ID, first.ID)
	}
	if !second.CreatedAt.Equal(first.CreatedAt) {
		t.Error("upsert should preserve CreatedAt")
	}
	if len(second.Permissions.Add) != 0 || len(second.Permissions.Remove) != 1 {
		t.Errorf("upsert should replace deltas, got %+v", second.Permissions)
	}

	count, err := s.CountCustomizations(ctx, &customization.ListFilter{TenantID: "tenant_a"})
	if err != nil {
		t.Fatalf("CountCustomizations() error = %v", err)
	}
	if count != 1 {
		t.Errorf("count = %d, want 1 record per (tenant, role)", count)
	}
}

func TestGetCustomizationNotFound(t *testing.T) {
	s := New()
	_, err := s.GetCustomization(context.Background(), "tenant_a", "missing")
	if !errors.Is(err, customization.ErrNotFound) {
		t.Errorf("error = %v, want customization.ErrNotFound", err)
	}
}

func TestDeleteCustomizationIdempotent(t *testing.T) {
	ctx := context.Background()
	s := New()
	if _, err := s.SaveCustomization(ctx, &customization.Customization{
		TenantID: "tenant_a", Role: "scorekeeper", IsActive: true,
	}); err != nil {
		t.Fatalf("SaveCustomization() error = %v", err)
	}

	if err := s.DeleteCustomization(ctx, "tenant_a", "scorekeeper"); err != nil {
		t.Fatalf("DeleteCustomization() error = %v", err)
	}
	if err := s.DeleteCustomization(ctx, "tenant_a", "scorekeeper"); err != nil {
		t.Errorf("repeat DeleteCustomization() error = %v, want nil", err)
	}
	_, err := s.GetCustomization(ctx, "tenant_a", "scorekeeper")
	if !errors.Is(err, customization.ErrNotFound) {
		t.Errorf("after delete, error = %v, want customization.ErrNotFound", err)
	}
}

func TestListCustomizationsFilters(t *testing.T) {
	ctx := context.Background()
	s := New()
	seed := []*customization.Customization{
		{TenantID: "tenant_a", Role: "participant", IsActive: true},
		{TenantID: "tenant_a", Role: "scorekeeper", IsActive: false},
		{TenantID: "tenant_b", Role: "participant", IsActive: true},
	}
	for _, c := range seed {
		if _, err := s.SaveCustomization(ctx, c); err != nil {
			t.Fatalf("SaveCustomization() error = %v", err)
		}
	}

	byTenant, err := s.ListCustomizations(ctx, &customization.ListFilter{TenantID: "tenant_a"})
	if err != nil {
		t.Fatalf("ListCustomizations() error = %v", err)
	}
	if len(byTenant) != 2 {
		t.Errorf("tenant_a list = %d, want 2", len(byTenant))
	}

	active := true
	byActive, err := s.ListCustomizations(ctx, &customization.ListFilter{TenantID: "tenant_a", IsActive: &active})
	if err != nil {
		t.Fatalf("ListCustomizations() error = %v", err)
	}
	if len(byActive) != 1 || byActive[0].Role != "participant" {
		t.Errorf("active filter returned %d items, want participant only", len(byActive))
	}

	paged, err := s.ListCustomizations(ctx, &customization.ListFilter{Limit: 1, Offset: 1})
	if err != nil {
		t.Fatalf("ListCustomizations() error = %v", err)
	}
	if len(paged) != 1 {
		t.Errorf("paged list = %d, want 1", len(paged))
	}
}

func TestDeleteCustomizationsByTenant(t *testing.T) {
	ctx := context.Background()
	s := New()
	for _, c := range []*customization.Customization{
		{TenantID: "tenant_a", Role: "participant"},
		{TenantID: "tenant_a", Role: "scorekeeper"},
		{TenantID: "tenant_b", Role: "participant"},
	} {
		if _, err := s.SaveCustomization(ctx, c); err != nil {
			t.Fatalf("SaveCustomization() error = %v", err)
		}
	}

	if err := s.DeleteCustomizationsByTenant(ctx, "tenant_a"); err != nil {
		t.Fatalf("DeleteCustomizationsByTenant() error = %v", err)
	}
	remaining, err := s.CountCustomizations(ctx, nil)
	if err != nil {
		t.Fatalf("CountCustomizations() error = %v", err)
	}
	if remaining != 1 {
		t.Errorf("remaining = %d, want 1", remaining)
	}
}

func TestCopyOnReadIsolation(t *testing.T) {
	ctx := context.Background()
	s := New()
	if _, err := s.SaveCustomization(ctx, &customization.Customization{
		TenantID:    "tenant_a",
		Role:        "participant",
		Permissions: customization.Delta{Add: []string{"quizzes.join"}},
	}); err != nil {
		t.Fatalf("SaveCustomization() error = %v", err)
	}

	got, err := s.GetCustomization(ctx, "tenant_a", "participant")
	if err != nil {
		t.Fatalf("GetCustomization() error = %v", err)
	}
	got.Permissions.Add[0] = "mutated"

	again, err := s.GetCustomization(ctx, "tenant_a", "participant")
	if err != nil {
		t.Fatalf("GetCustomization() error = %v", err)
	}
	if again.Permissions.Add[0] != "quizzes.join" {
		t.Error("mutation of a returned record leaked into the store")
	}
}

func TestDecisionLifecycle(t *testing.T) {
	ctx := context.Background()
	s := New()

	old := &auditlog.Entry{
		ID:        id.NewDecisionID(),
		TenantID:  "tenant_a",
		UserID:    "user_1",
		Role:      "participant",
		Kind:      auditlog.KindPermission,
		Object:    "quizzes.join",
		Allowed:   true,
		CreatedAt: time.Now().UTC().Add(-2 * time.Hour),
	}
	recent := &auditlog.Entry{
		ID:        id.NewDecisionID(),
		TenantID:  "tenant_a",
		UserID:    "user_1",
		Role:      "participant",
		Kind:      auditlog.KindPage,
		Object:    "dashboard",
		Allowed:   false,
		CreatedAt: time.Now().UTC(),
	}
	for _, e := range []*auditlog.Entry{old, recent} {
		if err := s.CreateDecision(ctx, e); err != nil {
			t.Fatalf("CreateDecision() error = %v", err)
		}
	}

	got, err := s.GetDecision(ctx, old.ID)
	if err != nil {
		t.Fatalf("GetDecision() error = %v", err)
	}
	if got.Object != "quizzes.join" {
		t.Errorf("Object = %q, want quizzes.join", got.Object)
	}

	denied := false
	list, err := s.ListDecisions(ctx, &auditlog.QueryFilter{TenantID: "tenant_a", Allowed: &denied})
	if err != nil {
		t.Fatalf("ListDecisions() error = %v", err)
	}
	if len(list) != 1 || list[0].Kind != auditlog.KindPage {
		t.Errorf("denied filter returned %d entries, want the page denial", len(list))
	}

	purged, err := s.PurgeDecisions(ctx, time.Now().UTC().Add(-time.Hour))
	if err != nil {
		t.Fatalf("PurgeDecisions() error = %v", err)
	}
	if purged != 1 {
		t.Errorf("purged = %d, want 1", purged)
	}
	if _, err := s.GetDecision(ctx, old.ID); !errors.Is(err, auditlog.ErrNotFound) {
		t.Errorf("purged entry lookup error = %v, want auditlog.ErrNotFound", err)
	}
}
