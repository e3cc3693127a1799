// Package api provides HTTP handlers for the Verger access resolver.
package api

import (
	"net/http"

	"github.com/xraph/forge"

	"github.com/smartequiz/verger"
)

// API wires all Verger HTTP handlers together.
type API struct {
	eng    *verger.Engine
	router forge.Router
}

// New creates an API from an Engine and a Forge router.
func New(eng *verger.Engine, router forge.Router) *API {
	return &API{eng: eng, router: router}
}

// Handler returns the fully assembled http.Handler with all routes.
func (a *API) Handler() http.Handler {
	if a.router == nil {
		a.router = forge.NewRouter()
	}
	if err := a.RegisterRoutes(a.router); err != nil {
		panic("verger: register routes: " + err.Error())
	}
	return a.router.Handler()
}

// RegisterRoutes registers all API routes into the given Forge router.
func (a *API) RegisterRoutes(router forge.Router) error {
	registerers := []func(forge.Router) error{
		a.registerAccessRoutes,
		a.registerCustomizationRoutes,
		a.registerCatalogRoutes,
		a.registerDecisionRoutes,
	}
	for _, fn := range registerers {
		if err := fn(router); err != nil {
			return err
		}
	}
	return nil
}
