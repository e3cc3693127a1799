package api

import (
	"net/http"

	"github.com/xraph/forge"

	"github.com/smartequiz/verger/customization"
)

func (a *API) registerCustomizationRoutes(router forge.Router) error {
	g := router.Group("/v1", forge.WithGroupTags("customizations"))

	if err := g.PUT("/tenants/:tenantId/customizations/:roleSlug", a.saveCustomization,
		forge.WithSummary("Save customization"),
		forge.WithDescription("Creates or replaces the customization for a (tenant, role) pair."),
		forge.WithOperationID("saveCustomization"),
		forge.WithRequestSchema(SaveCustomizationRequest{}),
		forge.WithResponseSchema(http.StatusOK, "Stored customization", &customization.Customization{}),
		forge.WithErrorResponses(),
	); err != nil {
		return err
	}

	if err := g.GET("/tenants/:tenantId/customizations/:roleSlug", a.getCustomization,
		forge.WithSummary("Get customization"),
		forge.WithDescription("Returns the customization for a (tenant, role) pair."),
		forge.WithOperationID("getCustomization"),
		forge.WithResponseSchema(http.StatusOK, "Customization", &customization.Customization{}),
		forge.WithErrorResponses(),
	); err != nil {
		return err
	}

	if err := g.DELETE("/tenants/:tenantId/customizations/:roleSlug", a.deleteCustomization,
		forge.WithSummary("Delete customization"),
		forge.WithDescription("Removes the customization; the role reverts to its base definition."),
		forge.WithOperationID("deleteCustomization"),
		forge.WithNoContentResponse(),
		forge.WithErrorResponses(),
	); err != nil {
		return err
	}

	return g.GET("/tenants/:tenantId/customizations", a.listCustomizations,
		forge.WithSummary("List customizations"),
		forge.WithDescription("Lists the tenant's customizations with optional filters."),
		forge.WithOperationID("listCustomizations"),
		forge.WithRequestSchema(ListCustomizationsRequest{}),
		forge.WithResponseSchema(http.StatusOK, "Customization list", ListResponse[*customization.Customization]{}),
		forge.WithErrorResponses(),
	)
}

func (a *API) saveCustomization(ctx forge.Context, req *SaveCustomizationRequest) (*customization.Customization, error) {
	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	c := &customization.Customization{
		TenantID: req.TenantID,
		Role:     req.RoleSlug,
		Permissions: customization.Delta{
			Add:    req.PermissionsAdd,
			Remove: req.PermissionsRemove,
		},
		Pages: customization.Delta{
			Add:    req.PagesAdd,
			Remove: req.PagesRemove,
		},
		IsActive:  isActive,
		CreatedBy: req.CreatedBy,
		Notes:     req.Notes,
	}

	stored, err := a.eng.SaveCustomization(ctx.Context(), c)
	if err != nil {
		return nil, mapError(err)
	}
	return stored, ctx.JSON(http.StatusOK, stored)
}

func (a *API) getCustomization(ctx forge.Context, req *GetCustomizationRequest) (*customization.Customization, error) {
	c, err := a.eng.Store().GetCustomization(ctx.Context(), req.TenantID, req.RoleSlug)
	if err != nil {
		return nil, mapError(err)
	}
	return c, ctx.JSON(http.StatusOK, c)
}

func (a *API) deleteCustomization(ctx forge.Context, req *GetCustomizationRequest) (*struct{}, error) {
	if err := a.eng.DeleteCustomization(ctx.Context(), req.TenantID, req.RoleSlug); err != nil {
		return nil, mapError(err)
	}
	return nil, ctx.NoContent(http.StatusNoContent)
}

func (a *API) listCustomizations(ctx forge.Context, req *ListCustomizationsRequest) (*ListResponse[*customization.Customization], error) {
	filter := &customization.ListFilter{
		TenantID: req.TenantID,
		Role:     req.Role,
		IsActive: req.IsActive,
		Limit:    defaultLimit(req.Limit),
		Offset:   req.Offset,
	}

	items, err := a.eng.Store().ListCustomizations(ctx.Context(), filter)
	if err != nil {
		return nil, mapError(err)
	}
	total, err := a.eng.Store().CountCustomizations(ctx.Context(), filter)
	if err != nil {
		return nil, mapError(err)
	}

	resp := &ListResponse[*customization.Customization]{
		Items:  items,
		Total:  total,
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}
	return resp, ctx.JSON(http.StatusOK, resp)
}
