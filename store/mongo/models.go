package mongo

import (
	"time"

	"github.com/xraph/grove"

	"github.com/smartequiz/verger/auditlog"
	"github.com/smartequiz/verger/customization"
	"github.com/smartequiz/verger/id"
)

// ──────────────────────────────────────────────────
// Customization model
// ──────────────────────────────────────────────────

type customizationModel struct {
	grove.BaseModel   `grove:"table:verger_customizations"`
	ID                string    `grove:"id,pk"              bson:"_id"`
	TenantID          string    `grove:"tenant_id"          bson:"tenant_id"`
	RoleSlug          string    `grove:"role_slug"          bson:"role_slug"`
	PermissionsAdd    []string  `grove:"permissions_add"    bson:"permissions_add,omitempty"`
	PermissionsRemove []string  `grove:"permissions_remove" bson:"permissions_remove,omitempty"`
	PagesAdd          []string  `grove:"pages_add"          bson:"pages_add,omitempty"`
	PagesRemove       []string  `grove:"pages_remove"       bson:"pages_remove,omitempty"`
	IsActive          bool      `grove:"is_active"          bson:"is_active"`
	CreatedBy         string    `grove:"created_by"         bson:"created_by"`
	Notes             string    `grove:"notes"              bson:"notes"`
	CreatedAt         time.Time `grove:"created_at"         bson:"created_at"`
	UpdatedAt         time.Time `grove:"updated_at"         bson:"updated_at"`
}

func customizationToModel(c *customization.Customization) *customizationModel {
	m := &customizationModel{
		TenantID:          c.TenantID,
		RoleSlug:          c.Role,
		PermissionsAdd:    c.Permissions.Add,
		PermissionsRemove: c.Permissions.Remove,
		PagesAdd:          c.Pages.Add,
		PagesRemove:       c.Pages.Remove,
		IsActive:          c.IsActive,
		CreatedBy:         c.CreatedBy,
		Notes:             c.Notes,
		CreatedAt:         c.CreatedAt,
		UpdatedAt:         c.UpdatedAt,
	}
	if !c.ID.IsNil() {
		m.ID = c.ID.String()
	}
	return m
}

func customizationFromModel(m *customizationModel) *customization.Customization {
	cid, _ := id.ParseCustomizationID(m.ID) //nolint:errcheck // stored IDs are always valid
	return &customization.Customization{
		ID:       cid,
		TenantID: m.TenantID,
		Role:     m.RoleSlug,
		Permissions: customization.Delta{
			Add:    m.PermissionsAdd,
			Remove: m.PermissionsRemove,
		},
		Pages: customization.Delta{
			Add:    m.PagesAdd,
			Remove: m.PagesRemove,
		},
		IsActive:  m.IsActive,
		CreatedBy: m.CreatedBy,
		Notes:     m.Notes,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// ──────────────────────────────────────────────────
// Decision log model
// ──────────────────────────────────────────────────

type decisionModel struct {
	grove.BaseModel `grove:"table:verger_decisions"`
	ID              string    `grove:"id,pk"        bson:"_id"`
	TenantID        string    `grove:"tenant_id"    bson:"tenant_id"`
	UserID          string    `grove:"user_id"      bson:"user_id"`
	RoleSlug        string    `grove:"role_slug"    bson:"role_slug"`
	Kind            string    `grove:"kind"         bson:"kind"`
	Object          string    `grove:"object"       bson:"object"`
	Allowed         bool      `grove:"allowed"      bson:"allowed"`
	Source          string    `grove:"source"       bson:"source"`
	EvalTimeNs      int64     `grove:"eval_time_ns" bson:"eval_time_ns"`
	CreatedAt       time.Time `grove:"created_at"   bson:"created_at"`
}

func decisionToModel(e *auditlog.Entry) *decisionModel {
	return &decisionModel{
		ID:         e.ID.String(),
		TenantID:   e.TenantID,
		UserID:     e.UserID,
		RoleSlug:   e.Role,
		Kind:       string(e.Kind),
		Object:     e.Object,
		Allowed:    e.Allowed,
		Source:     e.Source,
		EvalTimeNs: e.EvalTimeNs,
		CreatedAt:  e.CreatedAt,
	}
}

func decisionFromModel(m *decisionModel) *auditlog.Entry {
	did, _ := id.ParseDecisionID(m.ID) //nolint:errcheck // stored IDs are always valid
	return &auditlog.Entry{
		ID:         did,
		TenantID:   m.TenantID,
		UserID:     m.UserID,
		Role:       m.RoleSlug,
		Kind:       auditlog.Kind(m.Kind),
		Object:     m.Object,
		Allowed:    m.Allowed,
		Source:     m.Source,
		EvalTimeNs: m.EvalTimeNs,
		CreatedAt:  m.CreatedAt,
	}
}
