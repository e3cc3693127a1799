package plugin

import (
	"context"
	"log/slog"

	"github.com/smartequiz/verger/customization"
)

// Named entry types pair a hook with the plugin name for logging.

type beforeResolveEntry struct {
	name string
	hook BeforeResolve
}
type afterResolveEntry struct {
	name string
	hook AfterResolve
}
type customizationSavedEntry struct {
	name string
	hook CustomizationSaved
}
type customizationDeletedEntry struct {
	name string
	hook CustomizationDeleted
}
type shutdownEntry struct {
	name string
	hook Shutdown
}

// Registry holds registered plugins and dispatches lifecycle events.
// It type-caches plugins at registration time so emit calls iterate
// only over plugins implementing the relevant hook.
type Registry struct {
	plugins []Plugin
	logger  *slog.Logger

	beforeResolve        []beforeResolveEntry
	afterResolve         []afterResolveEntry
	customizationSaved   []customizationSavedEntry
	customizationDeleted []customizationDeletedEntry
	shutdown             []shutdownEntry
}

// NewRegistry creates a plugin registry with the given logger.
func NewRegistry(logger *slog.Logger) *Registry {
	return &Registry{logger: logger}
}

// Register adds a plugin and type-asserts it into all applicable
// hook caches. Plugins are notified in registration order.
func (r *Registry) Register(p Plugin) {
	r.plugins = append(r.plugins, p)
	name := p.Name()

	if h, ok := p.(BeforeResolve); ok {
		r.beforeResolve = append(r.beforeResolve, beforeResolveEntry{name, h})
	}
	if h, ok := p.(AfterResolve); ok {
		r.afterResolve = append(r.afterResolve, afterResolveEntry{name, h})
	}
	if h, ok := p.(CustomizationSaved); ok {
		r.customizationSaved = append(r.customizationSaved, customizationSavedEntry{name, h})
	}
	if h, ok := p.(CustomizationDeleted); ok {
		r.customizationDeleted = append(r.customizationDeleted, customizationDeletedEntry{name, h})
	}
	if h, ok := p.(Shutdown); ok {
		r.shutdown = append(r.shutdown, shutdownEntry{name, h})
	}
}

// Plugins returns all registered plugins.
func (r *Registry) Plugins() []Plugin { return r.plugins }

// ──────────────────────────────────────────────────
// Resolution event emitters
// ──────────────────────────────────────────────────

// EmitBeforeResolve notifies all plugins that implement BeforeResolve.
func (r *Registry) EmitBeforeResolve(ctx context.Context, user any) {
	for _, e := range r.beforeResolve {
		if err := e.hook.OnBeforeResolve(ctx, user); err != nil {
			r.logHookError("OnBeforeResolve", e.name, err)
		}
	}
}

// EmitAfterResolve notifies all plugins that implement AfterResolve.
func (r *Registry) EmitAfterResolve(ctx context.Context, user, access any) {
	for _, e := range r.afterResolve {
		if err := e.hook.OnAfterResolve(ctx, user, access); err != nil {
			r.logHookError("OnAfterResolve", e.name, err)
		}
	}
}

// ──────────────────────────────────────────────────
// Customization event emitters
// ──────────────────────────────────────────────────

// EmitCustomizationSaved notifies all plugins that implement CustomizationSaved.
func (r *Registry) EmitCustomizationSaved(ctx context.Context, c *customization.Customization) {
	for _, e := range r.customizationSaved {
		if err := e.hook.OnCustomizationSaved(ctx, c); err != nil {
			r.logHookError("OnCustomizationSaved", e.name, err)
		}
	}
}

// EmitCustomizationDeleted notifies all plugins that implement CustomizationDeleted.
func (r *Registry) EmitCustomizationDeleted(ctx context.Context, tenantID, role string) {
	for _, e := range r.customizationDeleted {
		if err := e.hook.OnCustomizationDeleted(ctx, tenantID, role); err != nil {
			r.logHookError("OnCustomizationDeleted", e.name, err)
		}
	}
}

// EmitShutdown notifies all plugins that implement Shutdown.
func (r *Registry) EmitShutdown(ctx context.Context) {
	for _, e := range r.shutdown {
		if err := e.hook.OnShutdown(ctx); err != nil {
			r.logHookError("OnShutdown", e.name, err)
		}
	}
}

func (r *Registry) logHookError(hook, plugin string, err error) {
	if r.logger == nil {
		return
	}
	r.logger.Warn("verger: plugin hook failed",
		"hook", hook,
		"plugin", plugin,
		"error", err,
	)
}
