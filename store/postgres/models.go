package postgres

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
	ID                string    `grove:"id,pk"`
	TenantID          string    `grove:"tenant_id,notnull"`
	RoleSlug          string    `grove:"role_slug,notnull"`
	PermissionsAdd    []string  `grove:"permissions_add,type:jsonb"`
	PermissionsRemove []string  `grove:"permissions_remove,type:jsonb"`
	PagesAdd          []string  `grove:"pages_add,type:jsonb"`
	PagesRemove       []string  `grove:"pages_remove,type:jsonb"`
	IsActive          bool      `grove:"is_active,notnull"`
	CreatedBy         string    `grove:"created_by"`
	Notes             string    `grove:"notes"`
	CreatedAt         time.Time `grove:"created_at,notnull"`
	UpdatedAt         time.Time `grove:"updated_at,notnull"`
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
	ID              string    `grove:"id,pk"`
	TenantID        string    `grove:"tenant_id,notnull"`
	UserID          string    `grove:"user_id,notnull"`
	RoleSlug        string    `grove:"role_slug,notnull"`
	Kind            string    `grove:"kind,notnull"`
	Object          string    `grove:"object,notnull"`
	Allowed         bool      `grove:"allowed,notnull"`
	Source          string    `grove:"source"`
	EvalTimeNs      int64     `grove:"eval_time_ns,notnull"`
	CreatedAt       time.Time `grove:"created_at,notnull"`
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
