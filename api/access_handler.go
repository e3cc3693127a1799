package api

import (
	"net/http"

	"github.com/xraph/forge"

	"github.com/smartequiz/verger"
	"github.com/smartequiz/verger/auditlog"
)

func (a *API) registerAccessRoutes(router forge.Router) error {
	g := router.Group("/v1/access", forge.WithGroupTags("access"))

	if err := g.POST("/resolve", a.resolve,
		forge.WithSummary("Resolve effective access"),
		forge.WithDescription("Computes the full effective permission and page sets for a user."),
		forge.WithOperationID("accessResolve"),
		forge.WithRequestSchema(ResolveRequest{}),
		forge.WithResponseSchema(http.StatusOK, "Effective access", &verger.Access{}),
		forge.WithErrorResponses(),
	); err != nil {
		return err
	}

	if err := g.POST("/check", a.check,
		forge.WithSummary("Access check"),
		forge.WithDescription("Evaluates whether the user holds a single permission or page."),
		forge.WithOperationID("accessCheck"),
		forge.WithRequestSchema(CheckRequest{}),
		forge.WithResponseSchema(http.StatusOK, "Check result", CheckResponse{}),
		forge.WithErrorResponses(),
	); err != nil {
		return err
	}

	return g.POST("/enforce", a.enforce,
		forge.WithSummary("Enforce access"),
		forge.WithDescription("Returns 200 if the user holds the object, 403 if not."),
		forge.WithOperationID("accessEnforce"),
		forge.WithRequestSchema(CheckRequest{}),
		forge.WithResponseSchema(http.StatusOK, "Allowed", CheckResponse{}),
		forge.WithErrorResponses(),
	)
}

func (a *API) resolve(ctx forge.Context, req *ResolveRequest) (*verger.Access, error) {
	if req.UserID == "" || req.Role == "" {
		return nil, forge.BadRequest("user_id and role are required")
	}

	access, err := a.eng.Resolve(ctx.Context(), toUser(req.UserID, req.TenantID, req.Role))
	if err != nil {
		return nil, mapError(err)
	}
	return access, ctx.JSON(http.StatusOK, access)
}

func (a *API) check(ctx forge.Context, req *CheckRequest) (*CheckResponse, error) {
	resp, err := a.runCheck(ctx, req)
	if err != nil {
		return nil, err
	}
	return resp, ctx.JSON(http.StatusOK, resp)
}

func (a *API) enforce(ctx forge.Context, req *CheckRequest) (*CheckResponse, error) {
	resp, err := a.runCheck(ctx, req)
	if err != nil {
		return nil, err
	}
	if !resp.Allowed {
		return resp, ctx.JSON(http.StatusForbidden, resp)
	}
	return resp, ctx.JSON(http.StatusOK, resp)
}

func (a *API) runCheck(ctx forge.Context, req *CheckRequest) (*CheckResponse, error) {
	if req.UserID == "" || req.Role == "" || req.Object == "" {
		return nil, forge.BadRequest("user_id, role, and object are required")
	}

	user := toUser(req.UserID, req.TenantID, req.Role)
	access, err := a.eng.Resolve(ctx.Context(), user)
	if err != nil {
		return nil, mapError(err)
	}

	var allowed bool
	switch auditlog.Kind(req.Kind) {
	case auditlog.KindPage:
		allowed, err = a.eng.CanAccessPage(ctx.Context(), user, req.Object)
	case auditlog.KindPermission, "":
		allowed, err = a.eng.HasPermission(ctx.Context(), user, req.Object)
	default:
		return nil, forge.BadRequest("kind must be permission or page")
	}
	if err != nil {
		return nil, mapError(err)
	}

	return &CheckResponse{
		Allowed:    allowed,
		Source:     string(access.Source),
		EvalTimeNs: access.EvalTimeNs,
	}, nil
}

func toUser(userID, tenantID, role string) *verger.User {
	return &verger.User{ID: userID, TenantID: tenantID, Role: role}
}
