package verger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/smartequiz/verger/auditlog"
	"github.com/smartequiz/verger/catalog"
	"github.com/smartequiz/verger/customization"
	"github.com/smartequiz/verger/id"
	"github.com/smartequiz/verger/plugin"
	"github.com/smartequiz/verger/store"
)

// Engine is the central access resolver. It combines the immutable role
// catalog with per-tenant customizations, manages the store and cache,
// and fires plugin hooks.
type Engine struct {
	store   store.Store
	catalog *catalog.Catalog
	cache   Cache
	plugins *plugin.Registry
	logger  *slog.Logger
	config  Config
}

// NewEngine creates a new Verger engine with the given options.
func NewEngine(opts ...Option) (*Engine, error) {
	e := &Engine{
		catalog: catalog.Default(),
		logger:  slog.Default(),
		config:  DefaultConfig(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.store == nil {
		return nil, errors.New("verger: store is required")
	}
	return e, nil
}

// Store returns the underlying composite store.
func (e *Engine) Store() store.Store { return e.store }

// Catalog returns the base role catalog.
func (e *Engine) Catalog() *catalog.Catalog { return e.catalog }

// Plugins returns the plugin registry (may be nil).
func (e *Engine) Plugins() *plugin.Registry { return e.plugins }

// Start performs any startup initialization.
func (e *Engine) Start(_ context.Context) error { return nil }

// Stop performs graceful shutdown.
func (e *Engine) Stop(ctx context.Context) error {
	if e.plugins != nil {
		e.plugins.EmitShutdown(ctx)
	}
	return nil
}

// Resolve computes the effective access for a user. This is the hot path.
//
// Resolution order: super_admin bypass → base role lookup (unknown roles
// resolve to empty sets, never an error) → active tenant customization
// merge with remove-wins precedence. An absent or inactive customization
// has zero effect. Store failures other than not-found surface as errors;
// treating an outage as "no customization" would silently change access.
func (e *Engine) Resolve(ctx context.Context, user *User) (*Access, error) {
	start := time.Now()

	tenantID := user.TenantID
	if tenantID == "" {
		tenantID = scopeFromContext(ctx).tenantID
	}

	if e.plugins != nil {
		e.plugins.EmitBeforeResolve(ctx, user)
	}

	// Super-admin short-circuits: all known permissions and pages,
	// ignoring tenant and customization entirely.
	if user.IsSuperAdmin() {
		access := &Access{
			TenantID:    tenantID,
			Role:        user.Role,
			Permissions: e.catalog.Permissions(),
			Pages:       e.catalog.Pages(),
			Source:      SourceBypass,
			EvalTimeNs:  time.Since(start).Nanoseconds(),
		}
		if e.plugins != nil {
			e.plugins.EmitAfterResolve(ctx, user, access)
		}
		return access, nil
	}

	if access, ok := e.cacheGet(ctx, tenantID, user.Role); ok {
		access.EvalTimeNs = time.Since(start).Nanoseconds()
		return access, nil
	}

	access, err := e.resolveUncached(ctx, tenantID, user.Role)
	if err != nil {
		return nil, err
	}
	access.EvalTimeNs = time.Since(start).Nanoseconds()

	e.cacheSet(ctx, tenantID, user.Role, access)

	if e.plugins != nil {
		e.plugins.EmitAfterResolve(ctx, user, access)
	}

	return access, nil
}

func (e *Engine) resolveUncached(ctx context.Context, tenantID, role string) (*Access, error) {
	var basePerms, basePages []string
	source := SourceUnknownRole

	if base, ok := e.catalog.Get(role); ok {
		basePerms = base.Permissions
		basePages = base.Pages
		source = SourceBase
	}

	custom, err := e.store.GetCustomization(ctx, tenantID, role)
	if err != nil && !errors.Is(err, customization.ErrNotFound) {
		return nil, fmt.Errorf("verger: load customization: %w", err)
	}

	access := &Access{
		TenantID: tenantID,
		Role:     role,
		Source:   source,
	}

	if custom == nil || !custom.IsActive {
		// No override in force; effective equals base exactly.
		access.Permissions = overlay(basePerms, nil, nil)
		access.Pages = overlay(basePages, nil, nil)
		return access, nil
	}

	access.Permissions = overlay(basePerms, custom.Permissions.Add, custom.Permissions.Remove)
	access.Pages = overlay(basePages, custom.Pages.Add, custom.Pages.Remove)
	access.Source = SourceCustomized
	access.CustomizationID = custom.ID.String()
	return access, nil
}

// HasPermission reports whether the user holds the permission.
// Super-admin users are always allowed, for any permission string.
func (e *Engine) HasPermission(ctx context.Context, user *User, permission string) (bool, error) {
	access, err := e.Resolve(ctx, user)
	if err != nil {
		return false, err
	}
	allowed := access.HasPermission(permission)
	e.recordDecision(ctx, user, access, auditlog.KindPermission, permission, allowed)
	return allowed, nil
}

// CanAccessPage reports whether the user may navigate to the page.
// Super-admin users are always allowed, for any page identifier.
func (e *Engine) CanAccessPage(ctx context.Context, user *User, page string) (bool, error) {
	access, err := e.Resolve(ctx, user)
	if err != nil {
		return false, err
	}
	allowed := access.HasPage(page)
	e.recordDecision(ctx, user, access, auditlog.KindPage, page, allowed)
	return allowed, nil
}

// EffectivePermissions returns the full effective permission set for the
// user, exactly as computed by Resolve — no additional filtering.
func (e *Engine) EffectivePermissions(ctx context.Context, user *User) ([]string, error) {
	access, err := e.Resolve(ctx, user)
	if err != nil {
		return nil, err
	}
	return access.Permissions, nil
}

// EffectivePages returns the full effective page set for the user.
func (e *Engine) EffectivePages(ctx context.Context, user *User) ([]string, error) {
	access, err := e.Resolve(ctx, user)
	if err != nil {
		return nil, err
	}
	return access.Pages, nil
}

// Enforce returns an error if the user does not hold the permission.
func (e *Engine) Enforce(ctx context.Context, user *User, permission string) error {
	allowed, err := e.HasPermission(ctx, user, permission)
	if err != nil {
		return fmt.Errorf("verger check: %w", err)
	}
	if !allowed {
		return fmt.Errorf("%w: %s lacks %s", ErrAccessDenied, user.Role, permission)
	}
	return nil
}

// EnforcePage returns an error if the user may not access the page.
func (e *Engine) EnforcePage(ctx context.Context, user *User, page string) error {
	allowed, err := e.CanAccessPage(ctx, user, page)
	if err != nil {
		return fmt.Errorf("verger check: %w", err)
	}
	if !allowed {
		return fmt.Errorf("%w: %s lacks page %s", ErrAccessDenied, user.Role, page)
	}
	return nil
}

// AllPermissions returns the sorted, deduplicated list of every
// permission string known to the role catalog across all roles.
func (e *Engine) AllPermissions() []string { return e.catalog.Permissions() }

// AllPages returns the sorted, deduplicated list of every page
// identifier known to the role catalog.
func (e *Engine) AllPages() []string { return e.catalog.Pages() }

// SaveCustomization upserts a tenant role customization, invalidates the
// cached resolution for its (tenant, role) pair, and notifies plugins.
// The stored record (with its stable ID) is returned.
func (e *Engine) SaveCustomization(ctx context.Context, c *customization.Customization) (*customization.Customization, error) {
	if c.TenantID == "" {
		return nil, ErrTenantRequired
	}
	if c.Role == "" {
		return nil, ErrRoleRequired
	}
	if c.Role == RoleSuperAdmin {
		return nil, ErrSuperAdminImmutable
	}

	stored, err := e.store.SaveCustomization(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("verger: save customization: %w", err)
	}

	if e.cache != nil {
		e.cache.InvalidateRole(ctx, stored.TenantID, stored.Role)
	}
	if e.plugins != nil {
		e.plugins.EmitCustomizationSaved(ctx, stored)
	}
	return stored, nil
}

// DeleteCustomization removes the customization for (tenantID, role).
// Deleting an absent record is a no-op. Resolution for the pair falls
// back to pure base-role behavior.
func (e *Engine) DeleteCustomization(ctx context.Context, tenantID, role string) error {
	if err := e.store.DeleteCustomization(ctx, tenantID, role); err != nil {
		return fmt.Errorf("verger: delete customization: %w", err)
	}

	if e.cache != nil {
		e.cache.InvalidateRole(ctx, tenantID, role)
	}
	if e.plugins != nil {
		e.plugins.EmitCustomizationDeleted(ctx, tenantID, role)
	}
	return nil
}

func (e *Engine) cacheGet(ctx context.Context, tenantID, role string) (*Access, bool) {
	if e.cache == nil || e.config.CacheTTL <= 0 {
		return nil, false
	}
	return e.cache.Get(ctx, tenantID, role)
}

func (e *Engine) cacheSet(ctx context.Context, tenantID, role string, access *Access) {
	if e.cache == nil || e.config.CacheTTL <= 0 {
		return
	}
	e.cache.Set(ctx, tenantID, role, access)
}

// recordDecision writes an audit entry for a query when enabled. Audit
// failures are logged, never propagated: a query must not fail because
// the log is unavailable.
func (e *Engine) recordDecision(ctx context.Context, user *User, access *Access, kind auditlog.Kind, object string, allowed bool) {
	if !e.config.RecordDecisions {
		return
	}
	entry := &auditlog.Entry{
		ID:         id.NewDecisionID(),
		TenantID:   access.TenantID,
		UserID:     user.ID,
		Role:       user.Role,
		Kind:       kind,
		Object:     object,
		Allowed:    allowed,
		Source:     string(access.Source),
		EvalTimeNs: access.EvalTimeNs,
		CreatedAt:  time.Now().UTC(),
	}
	if err := e.store.CreateDecision(ctx, entry); err != nil {
		e.logger.Warn("verger: record decision failed",
			"tenant_id", entry.TenantID,
			"user_id", entry.UserID,
			"error", err,
		)
	}
}
