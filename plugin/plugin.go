// Package plugin defines the plugin system for Verger.
// Plugins are notified of lifecycle events (access resolved,
// customization saved, etc.) and can react — logging, metrics, tracing.
//
// Each lifecycle hook is a separate interface so plugins opt in only
// to the events they care about.
package plugin

import (
	"context"

	"github.com/smartequiz/verger/customization"
)

// Plugin is the base interface all plugins must implement.
type Plugin interface {
	// Name returns a unique human-readable name for the plugin.
	Name() string
}

// ──────────────────────────────────────────────────
// Resolution lifecycle hooks
// ──────────────────────────────────────────────────

// BeforeResolve is called before an access resolution is evaluated.
// The user parameter is *verger.User (passed as any to avoid import cycle).
type BeforeResolve interface {
	OnBeforeResolve(ctx context.Context, user any) error
}

// AfterResolve is called after an access resolution completes.
// The user parameter is *verger.User; access is *verger.Access.
type AfterResolve interface {
	OnAfterResolve(ctx context.Context, user, access any) error
}

// ──────────────────────────────────────────────────
// Customization lifecycle hooks
// ──────────────────────────────────────────────────

// CustomizationSaved is called after a customization is created or updated.
type CustomizationSaved interface {
	OnCustomizationSaved(ctx context.Context, c *customization.Customization) error
}

// CustomizationDeleted is called after a customization is deleted.
type CustomizationDeleted interface {
	OnCustomizationDeleted(ctx context.Context, tenantID, role string) error
}

// ──────────────────────────────────────────────────
// Lifecycle
// ──────────────────────────────────────────────────

// Shutdown is called when the engine is stopping.
type Shutdown interface {
	OnShutdown(ctx context.Context) error
}
