package api

import (
	"net/http"

	"github.com/xraph/forge"
)

func (a *API) registerCatalogRoutes(router forge.Router) error {
	g := router.Group("/v1/catalog", forge.WithGroupTags("catalog"))

	if err := g.GET("/roles", a.listCatalogRoles,
		forge.WithSummary("List catalog roles"),
		forge.WithDescription("Returns every base role definition in the catalog."),
		forge.WithOperationID("listCatalogRoles"),
		forge.WithResponseSchema(http.StatusOK, "Role definitions", []CatalogRoleResponse{}),
		forge.WithErrorResponses(),
	); err != nil {
		return err
	}

	if err := g.GET("/permissions", a.listCatalogPermissions,
		forge.WithSummary("List catalog permissions"),
		forge.WithDescription("Returns the union of all permissions across catalog roles."),
		forge.WithOperationID("listCatalogPermissions"),
		forge.WithResponseSchema(http.StatusOK, "Permission strings", StringListResponse{}),
		forge.WithErrorResponses(),
	); err != nil {
		return err
	}

	return g.GET("/pages", a.listCatalogPages,
		forge.WithSummary("List catalog pages"),
		forge.WithDescription("Returns the union of all page keys across catalog roles."),
		forge.WithOperationID("listCatalogPages"),
		forge.WithResponseSchema(http.StatusOK, "Page keys", StringListResponse{}),
		forge.WithErrorResponses(),
	)
}

func (a *API) listCatalogRoles(ctx forge.Context, _ *struct{}) ([]CatalogRoleResponse, error) {
	defs := a.eng.Catalog().Roles()
	resp := make([]CatalogRoleResponse, len(defs))
	for i, d := range defs {
		resp[i] = CatalogRoleResponse{
			Slug:        d.Slug,
			Name:        d.Name,
			Description: d.Description,
			Permissions: d.Permissions,
			Pages:       d.Pages,
		}
	}
	return resp, ctx.JSON(http.StatusOK, resp)
}

func (a *API) listCatalogPermissions(ctx forge.Context, _ *struct{}) (*StringListResponse, error) {
	resp := &StringListResponse{Items: a.eng.AllPermissions()}
	return resp, ctx.JSON(http.StatusOK, resp)
}

func (a *API) listCatalogPages(ctx forge.Context, _ *struct{}) (*StringListResponse, error) {
	resp := &StringListResponse{Items: a.eng.AllPages()}
	return resp, ctx.JSON(http.StatusOK, resp)
}
