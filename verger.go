// Package verger resolves effective tenant access for the Smart eQuiz
// platform: which permissions and pages a user actually holds once their
// base role is combined with any active tenant customization.
//
// Base roles live in an immutable catalog. Tenants override a role with
// at most one customization record per (tenant, role) pair, adding or
// removing permissions and pages. Resolution merges the two with
// remove-wins precedence, and a distinguished super_admin role bypasses
// resolution entirely.
//
//	eng, err := verger.NewEngine(
//	    verger.WithStore(memStore),
//	)
//	ok, err := eng.HasPermission(ctx, &verger.User{
//	    ID:       "user_123",
//	    TenantID: "grace-chapel",
//	    Role:     catalog.RoleQuestionManager,
//	}, "questions.delete")
package verger

import "github.com/smartequiz/verger/catalog"

// RoleSuperAdmin is the distinguished platform-operator role. It bypasses
// the catalog and all customizations: every permission and page query
// answers true, regardless of tenant.
const RoleSuperAdmin = catalog.RoleSuperAdmin

// User identifies the subject of an access query. The record is owned
// by the platform's user service; the resolver only reads it.
type User struct {
	ID       string `json:"id"`
	TenantID string `json:"tenant_id"`
	Role     string `json:"role"`
	Email    string `json:"email,omitempty"`
}

// IsSuperAdmin reports whether the user holds the super_admin role.
func (u *User) IsSuperAdmin() bool { return u.Role == RoleSuperAdmin }

// Source identifies how an access result was produced.
type Source string

const (
	// SourceBypass means the super_admin short-circuit applied.
	SourceBypass Source = "super_admin_bypass"

	// SourceBase means the base role definition applied unchanged
	// (no customization, or an inactive one).
	SourceBase Source = "base"

	// SourceCustomized means an active tenant customization was merged
	// into the base definition.
	SourceCustomized Source = "customized"

	// SourceUnknownRole means the role was not in the catalog; the
	// effective sets are empty.
	SourceUnknownRole Source = "unknown_role"
)

// Access is the resolved, effective access for one user: the permission
// and page sets actually in force. It is derived on demand and never
// persisted.
type Access struct {
	TenantID    string   `json:"tenant_id"`
	Role        string   `json:"role"`
	Permissions []string `json:"permissions"`
	Pages       []string `json:"pages"`
	Source      Source   `json:"source"`

	// CustomizationID is set when Source is SourceCustomized.
	CustomizationID string `json:"customization_id,omitempty"`

	EvalTimeNs int64 `json:"eval_time_ns"`
}

// HasPermission reports whether the resolved access includes the
// permission. Super-admin access matches any string, including ones
// absent from every catalog entry.
func (a *Access) HasPermission(permission string) bool {
	if a.Source == SourceBypass {
		return true
	}
	return contains(a.Permissions, permission)
}

// HasPage reports whether the resolved access includes the page.
func (a *Access) HasPage(page string) bool {
	if a.Source == SourceBypass {
		return true
	}
	return contains(a.Pages, page)
}

func contains(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}
