package catalog

import (
	"sort"
	"testing"
)

func TestGetKnownRole(t *testing.T) {
	c := Default()
	d, ok := c.Get(RoleQuestionManager)
	if !ok {
		t.Fatal("expected question_manager in default catalog")
	}
	if d.Slug != RoleQuestionManager {
		t.Errorf("expected slug %q, got %q", RoleQuestionManager, d.Slug)
	}
	if len(d.Permissions) == 0 || len(d.Pages) == 0 {
		t.Error("expected non-empty permission and page sets")
	}
}

func TestGetUnknownRole(t *testing.T) {
	c := Default()
	d, ok := c.Get("no_such_role")
	if ok {
		t.Fatal("expected ok=false for unknown role")
	}
	if d != nil {
		t.Errorf("expected nil definition, got %+v", d)
	}
}

func TestGetReturnsCopy(t *testing.T) {
	c := New(RoleDefinition{
		Slug:        "editor",
		Permissions: []string{"docs.read"},
		Pages:       []string{"dashboard"},
	})

	d, _ := c.Get("editor")
	d.Permissions[0] = "docs.delete"
	d.Pages[0] = "billing"

	again, _ := c.Get("editor")
	if again.Permissions[0] != "docs.read" {
		t.Error("mutating a returned definition leaked into the catalog")
	}
	if again.Pages[0] != "dashboard" {
		t.Error("mutating returned pages leaked into the catalog")
	}
}

func TestNewSortsAndCopies(t *testing.T) {
	perms := []string{"b.read", "a.read"}
	c := New(RoleDefinition{Slug: "r", Permissions: perms})
	d, _ := c.Get("r")
	if !sort.StringsAreSorted(d.Permissions) {
		t.Errorf("expected sorted permissions, got %v", d.Permissions)
	}
	// The input slice must stay untouched by catalog construction.
	if perms[0] != "b.read" {
		t.Error("catalog construction mutated caller slice")
	}
}

func TestNewLastDefinitionWins(t *testing.T) {
	c := New(
		RoleDefinition{Slug: "r", Permissions: []string{"old.read"}},
		RoleDefinition{Slug: "r", Permissions: []string{"new.read"}},
	)
	d, _ := c.Get("r")
	if len(d.Permissions) != 1 || d.Permissions[0] != "new.read" {
		t.Errorf("expected replacement definition, got %v", d.Permissions)
	}
	if len(c.Roles()) != 1 {
		t.Errorf("expected a single role, got %d", len(c.Roles()))
	}
}

func TestPermissionsUnion(t *testing.T) {
	c := New(
		RoleDefinition{Slug: "a", Permissions: []string{"x.read", "y.read"}},
		RoleDefinition{Slug: "b", Permissions: []string{"y.read", "z.read"}},
	)
	got := c.Permissions()
	want := []string{"x.read", "y.read", "z.read"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}

func TestPagesUnionSortedDeduped(t *testing.T) {
	c := Default()
	pages := c.Pages()
	if !sort.StringsAreSorted(pages) {
		t.Errorf("expected sorted pages, got %v", pages)
	}
	seen := map[string]bool{}
	for _, p := range pages {
		if seen[p] {
			t.Errorf("duplicate page %q in union", p)
		}
		seen[p] = true
	}
	if !seen["dashboard"] || !seen["billing"] {
		t.Errorf("expected dashboard and billing in %v", pages)
	}
}

func TestRolesOrder(t *testing.T) {
	c := Default()
	roles := c.Roles()
	if len(roles) != 7 {
		t.Fatalf("expected 7 built-in roles, got %d", len(roles))
	}
	if roles[0].Slug != RoleSuperAdmin {
		t.Errorf("expected super_admin first, got %q", roles[0].Slug)
	}
}
