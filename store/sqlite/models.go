package sqlite

import (
	"encoding/json"
	"fmt"
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
	PermissionsAdd    string    `grove:"permissions_add"`    // JSON text
	PermissionsRemove string    `grove:"permissions_remove"` // JSON text
	PagesAdd          string    `grove:"pages_add"`          // JSON text
	PagesRemove       string    `grove:"pages_remove"`       // JSON text
	IsActive          bool      `grove:"is_active,notnull"`
	CreatedBy         string    `grove:"created_by"`
	Notes             string    `grove:"notes"`
	CreatedAt         time.Time `grove:"created_at,notnull"`
	UpdatedAt         time.Time `grove:"updated_at,notnull"`
}

func marshalList(items []string) (string, error) {
	if items == nil {
		items = []string{}
	}
	b, err := json.Marshal(items)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func unmarshalList(raw string) ([]string, error) {
	if raw == "" {
		return nil, nil
	}
	var items []string
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, err
	}
	return items, nil
}

func customizationToModel(c *customization.Customization) (*customizationModel, error) {
	permsAdd, err := marshalList(c.Permissions.Add)
	if err != nil {
		return nil, fmt.Errorf("marshal permission additions: %w", err)
	}
	permsRemove, err := marshalList(c.Permissions.Remove)
	if err != nil {
		return nil, fmt.Errorf("marshal permission removals: %w", err)
	}
	pagesAdd, err := marshalList(c.Pages.Add)
	if err != nil {
		return nil, fmt.Errorf("marshal page additions: %w", err)
	}
	pagesRemove, err := marshalList(c.Pages.Remove)
	if err != nil {
		return nil, fmt.Errorf("marshal page removals: %w", err)
	}
	m := &customizationModel{
		TenantID:          c.TenantID,
		RoleSlug:          c.Role,
		PermissionsAdd:    permsAdd,
		PermissionsRemove: permsRemove,
		PagesAdd:          pagesAdd,
		PagesRemove:       pagesRemove,
		IsActive:          c.IsActive,
		CreatedBy:         c.CreatedBy,
		Notes:             c.Notes,
		CreatedAt:         c.CreatedAt,
		UpdatedAt:         c.UpdatedAt,
	}
	if !c.ID.IsNil() {
		m.ID = c.ID.String()
	}
	return m, nil
}

func customizationFromModel(m *customizationModel) (*customization.Customization, error) {
	cid, _ := id.ParseCustomizationID(m.ID) //nolint:errcheck // stored IDs are always valid
	permsAdd, err := unmarshalList(m.PermissionsAdd)
	if err != nil {
		return nil, fmt.Errorf("unmarshal permission additions: %w", err)
	}
	permsRemove, err := unmarshalList(m.PermissionsRemove)
	if err != nil {
		return nil, fmt.Errorf("unmarshal permission removals: %w", err)
	}
	pagesAdd, err := unmarshalList(m.PagesAdd)
	if err != nil {
		return nil, fmt.Errorf("unmarshal page additions: %w", err)
	}
	pagesRemove, err := unmarshalList(m.PagesRemove)
	if err != nil {
		return nil, fmt.Errorf("unmarshal page removals: %w", err)
	}
	return &customization.Customization{
		ID:       cid,
		TenantID: m.TenantID,
		Role:     m.RoleSlug,
		Permissions: customization.Delta{
			Add:    permsAdd,
			Remove: permsRemove,
		},
		Pages: customization.Delta{
			Add:    pagesAdd,
			Remove: pagesRemove,
		},
		IsActive:  m.IsActive,
		CreatedBy: m.CreatedBy,
		Notes:     m.Notes,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}, nil
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
