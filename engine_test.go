package verger

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"testing"

	"github.com/smartequiz/verger/auditlog"
	"github.com/smartequiz/verger/catalog"
	"github.com/smartequiz/verger/customization"
	"github.com/smartequiz/verger/store/memory"
)

func newTestEngine(t *testing.T, opts ...Option) (*Engine, *memory.Store) {
	t.Helper()
	s := memory.New()
	eng, err := NewEngine(append([]Option{WithStore(s)}, opts...)...)
	if err != nil {
		t.Fatal(err)
	}
	return eng, s
}

func TestNewEngine_RequiresStore(t *testing.T) {
	_, err := NewEngine()
	if err == nil {
		t.Fatal("expected error when store is nil")
	}
}

func TestResolveBaseRole(t *testing.T) {
	ctx := context.Background()
	eng, _ := newTestEngine(t)

	user := &User{ID: "u1", TenantID: "tenant_a", Role: catalog.RoleQuestionManager}
	access, err := eng.Resolve(ctx, user)
	if err != nil {
		t.Fatal(err)
	}

	base, _ := eng.Catalog().Get(catalog.RoleQuestionManager)
	if !reflect.DeepEqual(access.Permissions, overlay(base.Permissions, nil, nil)) {
		t.Errorf("Permissions = %v, want base set %v", access.Permissions, base.Permissions)
	}
	if !reflect.DeepEqual(access.Pages, overlay(base.Pages, nil, nil)) {
		t.Errorf("Pages = %v, want base set %v", access.Pages, base.Pages)
	}
	if access.Source != SourceBase {
		t.Errorf("Source = %s, want %s", access.Source, SourceBase)
	}
}

func TestResolveCustomized(t *testing.T) {
	ctx := context.Background()
	eng, _ := newTestEngine(t)

	// Tenant A grants delete and revokes create for question managers.
	_, err := eng.SaveCustomization(ctx, &customization.Customization{
		TenantID: "tenant_a",
		Role:     catalog.RoleQuestionManager,
		Permissions: customization.Delta{
			Add:    []string{"questions.delete"},
			Remove: []string{"questions.create"},
		},
		Pages:    customization.Delta{Add: []string{"reports"}},
		IsActive: true,
	})
	if err != nil {
		t.Fatal(err)
	}

	user := &User{ID: "u1", TenantID: "tenant_a", Role: catalog.RoleQuestionManager}
	access, err := eng.Resolve(ctx, user)
	if err != nil {
		t.Fatal(err)
	}

	if access.Source != SourceCustomized {
		t.Fatalf("Source = %s, want %s", access.Source, SourceCustomized)
	}
	if access.CustomizationID == "" {
		t.Error("expected CustomizationID to be set")
	}
	if !access.HasPermission("questions.delete") {
		t.Error("added permission missing from effective set")
	}
	if access.HasPermission("questions.create") {
		t.Error("removed permission still in effective set")
	}
	if !access.HasPermission("questions.read") || !access.HasPermission("questions.update") {
		t.Error("untouched base permission missing from effective set")
	}
	if !access.HasPage("reports") {
		t.Error("added page missing from effective set")
	}

	// Tenant B is untouched: pure base behavior.
	other := &User{ID: "u2", TenantID: "tenant_b", Role: catalog.RoleQuestionManager}
	otherAccess, err := eng.Resolve(ctx, other)
	if err != nil {
		t.Fatal(err)
	}
	if otherAccess.Source != SourceBase {
		t.Errorf("tenant_b Source = %s, want %s", otherAccess.Source, SourceBase)
	}
	if otherAccess.HasPermission("questions.delete") {
		t.Error("tenant_a customization leaked into tenant_b")
	}
	if !otherAccess.HasPermission("questions.create") {
		t.Error("tenant_b lost a base permission it never customized")
	}
}

func TestRemoveWinsOverAdd(t *testing.T) {
	ctx := context.Background()
	eng, _ := newTestEngine(t)

	_, err := eng.SaveCustomization(ctx, &customization.Customization{
		TenantID: "tenant_a",
		Role:     catalog.RoleScorekeeper,
		Permissions: customization.Delta{
			Add:    []string{"scores.export"},
			Remove: []string{"scores.export"},
		},
		IsActive: true,
	})
	if err != nil {
		t.Fatal(err)
	}

	allowed, err := eng.HasPermission(ctx, &User{ID: "u1", TenantID: "tenant_a", Role: catalog.RoleScorekeeper}, "scores.export")
	if err != nil {
		t.Fatal(err)
	}
	if allowed {
		t.Error("permission in both add and remove must resolve to denied")
	}
}

func TestInactiveCustomizationHasNoEffect(t *testing.T) {
	ctx := context.Background()
	eng, _ := newTestEngine(t)

	_, err := eng.SaveCustomization(ctx, &customization.Customization{
		TenantID:    "tenant_a",
		Role:        catalog.RoleParticipant,
		Permissions: customization.Delta{Add: []string{"quizzes.manage"}},
		IsActive:    false,
	})
	if err != nil {
		t.Fatal(err)
	}

	access, err := eng.Resolve(ctx, &User{ID: "u1", TenantID: "tenant_a", Role: catalog.RoleParticipant})
	if err != nil {
		t.Fatal(err)
	}
	if access.Source != SourceBase {
		t.Errorf("Source = %s, want %s for inactive customization", access.Source, SourceBase)
	}
	if access.HasPermission("quizzes.manage") {
		t.Error("inactive customization must have zero effect")
	}
}

func TestUnknownRole(t *testing.T) {
	ctx := context.Background()
	eng, _ := newTestEngine(t)

	access, err := eng.Resolve(ctx, &User{ID: "u1", TenantID: "tenant_a", Role: "mystery"})
	if err != nil {
		t.Fatal(err)
	}
	if access.Source != SourceUnknownRole {
		t.Errorf("Source = %s, want %s", access.Source, SourceUnknownRole)
	}
	if len(access.Permissions) != 0 || len(access.Pages) != 0 {
		t.Errorf("unknown role must resolve to empty sets, got %v / %v", access.Permissions, access.Pages)
	}

	// A customization over an unknown role still merges onto the empty base.
	if _, err := eng.SaveCustomization(ctx, &customization.Customization{
		TenantID:    "tenant_a",
		Role:        "mystery",
		Permissions: customization.Delta{Add: []string{"special.ability"}},
		IsActive:    true,
	}); err != nil {
		t.Fatal(err)
	}

	access, err = eng.Resolve(ctx, &User{ID: "u1", TenantID: "tenant_a", Role: "mystery"})
	if err != nil {
		t.Fatal(err)
	}
	if access.Source != SourceCustomized {
		t.Errorf("Source = %s, want %s", access.Source, SourceCustomized)
	}
	if !access.HasPermission("special.ability") {
		t.Error("customization over unknown role must still apply")
	}
}

func TestSuperAdminBypass(t *testing.T) {
	ctx := context.Background()
	eng, _ := newTestEngine(t)

	admin := &User{ID: "root", Role: RoleSuperAdmin}
	access, err := eng.Resolve(ctx, admin)
	if err != nil {
		t.Fatal(err)
	}
	if access.Source != SourceBypass {
		t.Fatalf("Source = %s, want %s", access.Source, SourceBypass)
	}

	// Boolean checks pass for any string, even ones no catalog role carries.
	for _, perm := range []string{"questions.delete", "totally.made.up"} {
		allowed, err := eng.HasPermission(ctx, admin, perm)
		if err != nil {
			t.Fatal(err)
		}
		if !allowed {
			t.Errorf("super admin denied %q", perm)
		}
	}
	allowed, err := eng.CanAccessPage(ctx, admin, "no_such_page")
	if err != nil {
		t.Fatal(err)
	}
	if !allowed {
		t.Error("super admin denied a page")
	}

	// Enumeration returns the catalog-wide unions.
	if !reflect.DeepEqual(access.Permissions, eng.AllPermissions()) {
		t.Error("super admin permissions should be the catalog union")
	}
	if !reflect.DeepEqual(access.Pages, eng.AllPages()) {
		t.Error("super admin pages should be the catalog union")
	}
}

func TestSuperAdminCannotBeCustomized(t *testing.T) {
	eng, _ := newTestEngine(t)

	_, err := eng.SaveCustomization(context.Background(), &customization.Customization{
		TenantID:    "tenant_a",
		Role:        RoleSuperAdmin,
		Permissions: customization.Delta{Remove: []string{"anything"}},
		IsActive:    true,
	})
	if !errors.Is(err, ErrSuperAdminImmutable) {
		t.Errorf("error = %v, want ErrSuperAdminImmutable", err)
	}
}

func TestSaveCustomizationValidation(t *testing.T) {
	eng, _ := newTestEngine(t)
	ctx := context.Background()

	if _, err := eng.SaveCustomization(ctx, &customization.Customization{Role: "participant"}); !errors.Is(err, ErrTenantRequired) {
		t.Errorf("missing tenant: error = %v, want ErrTenantRequired", err)
	}
	if _, err := eng.SaveCustomization(ctx, &customization.Customization{TenantID: "tenant_a"}); !errors.Is(err, ErrRoleRequired) {
		t.Errorf("missing role: error = %v, want ErrRoleRequired", err)
	}
}

func TestSaveCustomizationUpsertKeepsID(t *testing.T) {
	ctx := context.Background()
	eng, _ := newTestEngine(t)

	first, err := eng.SaveCustomization(ctx, &customization.Customization{
		TenantID:    "tenant_a",
		Role:        catalog.RoleParticipant,
		Permissions: customization.Delta{Add: []string{"quizzes.replay"}},
		IsActive:    true,
	})
	if err != nil {
		t.Fatal(err)
	}

	second, err := eng.SaveCustomization(ctx, &customization.Customization{
		TenantID:    "tenant_a",
		Role:        catalog.RoleParticipant,
		Permissions: customization.Delta{Add: []string{"quizzes.spectate"}},
		IsActive:    true,
	})
	if err != nil {
		t.Fatal(err)
	}
	if second.ID != first.ID {
		t.Errorf("upsert changed ID: %s -> %s", first.ID, second.ID)
	}

	// The replacement is total: earlier deltas do not linger.
	access, err := eng.Resolve(ctx, &User{ID: "u1", TenantID: "tenant_a", Role: catalog.RoleParticipant})
	if err != nil {
		t.Fatal(err)
	}
	if access.HasPermission("quizzes.replay") {
		t.Error("old delta survived the upsert")
	}
	if !access.HasPermission("quizzes.spectate") {
		t.Error("new delta not in force after upsert")
	}
}

func TestDeleteCustomizationRevertsToBase(t *testing.T) {
	ctx := context.Background()
	eng, _ := newTestEngine(t)

	if _, err := eng.SaveCustomization(ctx, &customization.Customization{
		TenantID:    "tenant_a",
		Role:        catalog.RoleQuestionManager,
		Permissions: customization.Delta{Remove: []string{"questions.update"}},
		IsActive:    true,
	}); err != nil {
		t.Fatal(err)
	}

	if err := eng.DeleteCustomization(ctx, "tenant_a", catalog.RoleQuestionManager); err != nil {
		t.Fatal(err)
	}
	// Idempotent: deleting again succeeds.
	if err := eng.DeleteCustomization(ctx, "tenant_a", catalog.RoleQuestionManager); err != nil {
		t.Errorf("repeat delete error = %v, want nil", err)
	}

	access, err := eng.Resolve(ctx, &User{ID: "u1", TenantID: "tenant_a", Role: catalog.RoleQuestionManager})
	if err != nil {
		t.Fatal(err)
	}
	if access.Source != SourceBase {
		t.Errorf("Source = %s, want %s after delete", access.Source, SourceBase)
	}
	if !access.HasPermission("questions.update") {
		t.Error("base permission not restored after delete")
	}
}

func TestEnforce(t *testing.T) {
	ctx := context.Background()
	eng, _ := newTestEngine(t)
	user := &User{ID: "u1", TenantID: "tenant_a", Role: catalog.RoleParticipant}

	if err := eng.Enforce(ctx, user, "quizzes.read"); err != nil {
		t.Errorf("Enforce(quizzes.read) error = %v, want nil", err)
	}
	err := eng.Enforce(ctx, user, "questions.delete")
	if !errors.Is(err, ErrAccessDenied) {
		t.Errorf("Enforce(questions.delete) error = %v, want ErrAccessDenied", err)
	}
	err = eng.EnforcePage(ctx, user, "settings")
	if !errors.Is(err, ErrAccessDenied) {
		t.Errorf("EnforcePage(settings) error = %v, want ErrAccessDenied", err)
	}
}

// failingStore wraps the memory store and fails customization reads.
type failingStore struct {
	*memory.Store
}

func (f *failingStore) GetCustomization(_ context.Context, _, _ string) (*customization.Customization, error) {
	return nil, fmt.Errorf("connection refused")
}

func TestStoreOutageSurfacesAsError(t *testing.T) {
	eng, err := NewEngine(WithStore(&failingStore{Store: memory.New()}))
	if err != nil {
		t.Fatal(err)
	}

	_, err = eng.Resolve(context.Background(), &User{ID: "u1", TenantID: "tenant_a", Role: catalog.RoleParticipant})
	if err == nil {
		t.Fatal("store outage must surface as an error, not base access")
	}

	// The bypass never touches the store, so super admins still resolve.
	if _, err := eng.Resolve(context.Background(), &User{ID: "root", Role: RoleSuperAdmin}); err != nil {
		t.Errorf("super admin resolve error = %v, want nil", err)
	}
}

// stubCache records invalidations for assertions.
type stubCache struct {
	entries     map[string]*Access
	invalidated []string
}

func newStubCache() *stubCache {
	return &stubCache{entries: make(map[string]*Access)}
}

func (c *stubCache) Get(_ context.Context, tenantID, role string) (*Access, bool) {
	a, ok := c.entries[tenantID+":"+role]
	return a, ok
}

func (c *stubCache) Set(_ context.Context, tenantID, role string, access *Access) {
	c.entries[tenantID+":"+role] = access
}

func (c *stubCache) InvalidateRole(_ context.Context, tenantID, role string) {
	delete(c.entries, tenantID+":"+role)
	c.invalidated = append(c.invalidated, tenantID+":"+role)
}

func (c *stubCache) InvalidateTenant(_ context.Context, tenantID string) {
	for k := range c.entries {
		if len(k) > len(tenantID) && k[:len(tenantID)+1] == tenantID+":" {
			delete(c.entries, k)
		}
	}
}

func TestSaveInvalidatesCache(t *testing.T) {
	ctx := context.Background()
	cache := newStubCache()
	eng, _ := newTestEngine(t, WithCache(cache))
	user := &User{ID: "u1", TenantID: "tenant_a", Role: catalog.RoleScorekeeper}

	// Prime the cache.
	if _, err := eng.Resolve(ctx, user); err != nil {
		t.Fatal(err)
	}
	if _, ok := cache.Get(ctx, "tenant_a", catalog.RoleScorekeeper); !ok {
		t.Fatal("expected resolution to be cached")
	}

	if _, err := eng.SaveCustomization(ctx, &customization.Customization{
		TenantID:    "tenant_a",
		Role:        catalog.RoleScorekeeper,
		Permissions: customization.Delta{Add: []string{"scores.export"}},
		IsActive:    true,
	}); err != nil {
		t.Fatal(err)
	}
	if len(cache.invalidated) == 0 {
		t.Fatal("save must invalidate the cached (tenant, role) entry")
	}

	// The next resolve sees the new customization immediately.
	access, err := eng.Resolve(ctx, user)
	if err != nil {
		t.Fatal(err)
	}
	if !access.HasPermission("scores.export") {
		t.Error("stale cache served after customization change")
	}
}

func TestDecisionRecording(t *testing.T) {
	ctx := context.Background()
	eng, s := newTestEngine(t, WithConfig(Config{RecordDecisions: true}))
	user := &User{ID: "u1", TenantID: "tenant_a", Role: catalog.RoleParticipant}

	if _, err := eng.HasPermission(ctx, user, "quizzes.read"); err != nil {
		t.Fatal(err)
	}
	if _, err := eng.CanAccessPage(ctx, user, "settings"); err != nil {
		t.Fatal(err)
	}

	entries, err := s.ListDecisions(ctx, &auditlog.QueryFilter{TenantID: "tenant_a"})
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		t.Fatalf("logged decisions = %d, want 2", len(entries))
	}

	denied := false
	deniedEntries, err := s.ListDecisions(ctx, &auditlog.QueryFilter{TenantID: "tenant_a", Allowed: &denied})
	if err != nil {
		t.Fatal(err)
	}
	if len(deniedEntries) != 1 || deniedEntries[0].Kind != auditlog.KindPage {
		t.Errorf("expected exactly the page denial to be logged, got %d entries", len(deniedEntries))
	}
}

func TestTenantFromContextFallback(t *testing.T) {
	eng, _ := newTestEngine(t)

	if _, err := eng.SaveCustomization(context.Background(), &customization.Customization{
		TenantID:    "tenant_ctx",
		Role:        catalog.RoleParticipant,
		Permissions: customization.Delta{Add: []string{"quizzes.replay"}},
		IsActive:    true,
	}); err != nil {
		t.Fatal(err)
	}

	ctx := WithTenant(context.Background(), "app1", "tenant_ctx")
	access, err := eng.Resolve(ctx, &User{ID: "u1", Role: catalog.RoleParticipant})
	if err != nil {
		t.Fatal(err)
	}
	if access.TenantID != "tenant_ctx" {
		t.Errorf("TenantID = %q, want tenant_ctx from context scope", access.TenantID)
	}
	if !access.HasPermission("quizzes.replay") {
		t.Error("context-scoped tenant customization not applied")
	}
}
