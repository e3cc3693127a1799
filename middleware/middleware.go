// Package middleware provides HTTP authorization middleware for Verger.
package middleware

import (
	"encoding/json"

	"github.com/xraph/forge"

	"github.com/smartequiz/verger"
)

// UserFunc resolves the requesting user from the request context. The
// platform owns identity; the middleware only needs the user's tenant
// and role to run the check.
type UserFunc func(ctx forge.Context) (*verger.User, bool)

// RequirePermission enforces that the requesting user holds the
// permission. Requests without a resolvable user are denied.
func RequirePermission(eng *verger.Engine, userFn UserFunc, permission string) forge.Middleware {
	return func(next forge.Handler) forge.Handler {
		return func(ctx forge.Context) error {
			user, ok := resolveUser(ctx, userFn)
			if !ok {
				return denyResponse(ctx)
			}
			if err := eng.Enforce(ctx.Context(), user, permission); err != nil {
				return denyResponse(ctx)
			}
			return next(ctx)
		}
	}
}

// RequirePage enforces that the requesting user can access the page.
func RequirePage(eng *verger.Engine, userFn UserFunc, page string) forge.Middleware {
	return func(next forge.Handler) forge.Handler {
		return func(ctx forge.Context) error {
			user, ok := resolveUser(ctx, userFn)
			if !ok {
				return denyResponse(ctx)
			}
			if err := eng.EnforcePage(ctx.Context(), user, page); err != nil {
				return denyResponse(ctx)
			}
			return next(ctx)
		}
	}
}

// RequireAnyPermission allows the request if the user holds ANY of the
// permissions.
func RequireAnyPermission(eng *verger.Engine, userFn UserFunc, permissions ...string) forge.Middleware {
	return func(next forge.Handler) forge.Handler {
		return func(ctx forge.Context) error {
			user, ok := resolveUser(ctx, userFn)
			if !ok {
				return denyResponse(ctx)
			}
			for _, p := range permissions {
				allowed, err := eng.HasPermission(ctx.Context(), user, p)
				if err == nil && allowed {
					return next(ctx)
				}
			}
			return denyResponse(ctx)
		}
	}
}

// resolveUser extracts the user via the supplied UserFunc, falling back
// to the Forge user ID when no resolver is given. The fallback carries
// no role, so it only passes checks through a super-admin bypass set up
// elsewhere; real deployments should provide a UserFunc.
func resolveUser(ctx forge.Context, userFn UserFunc) (*verger.User, bool) {
	if userFn != nil {
		return userFn(ctx)
	}
	if userID := forge.UserIDFromContext(ctx.Context()); userID != "" {
		return &verger.User{ID: userID}, true
	}
	return nil, false
}

func denyResponse(ctx forge.Context) error {
	ctx.SetHeader("Content-Type", "application/json")
	ctx.Response().WriteHeader(403)
	return json.NewEncoder(ctx.Response()).Encode(map[string]string{"error": "access denied"})
}
