package api

import (
	"fmt"
	"net/http"

	"github.com/xraph/forge"

	"github.com/smartequiz/verger/auditlog"
	"github.com/smartequiz/verger/id"
)

func (a *API) registerDecisionRoutes(router forge.Router) error {
	g := router.Group("/v1", forge.WithGroupTags("decisions"))

	if err := g.GET("/decisions", a.listDecisions,
		forge.WithSummary("List decisions"),
		forge.WithDescription("Lists logged access decisions with optional filters."),
		forge.WithOperationID("listDecisions"),
		forge.WithRequestSchema(ListDecisionsRequest{}),
		forge.WithResponseSchema(http.StatusOK, "Decision list", ListResponse[*auditlog.Entry]{}),
		forge.WithErrorResponses(),
	); err != nil {
		return err
	}

	return g.GET("/decisions/:decisionId", a.getDecision,
		forge.WithSummary("Get decision"),
		forge.WithDescription("Returns a single logged access decision."),
		forge.WithOperationID("getDecision"),
		forge.WithResponseSchema(http.StatusOK, "Decision", &auditlog.Entry{}),
		forge.WithErrorResponses(),
	)
}

func (a *API) listDecisions(ctx forge.Context, req *ListDecisionsRequest) (*ListResponse[*auditlog.Entry], error) {
	filter := &auditlog.QueryFilter{
		TenantID: req.TenantID,
		UserID:   req.UserID,
		Role:     req.Role,
		Kind:     auditlog.Kind(req.Kind),
		Object:   req.Object,
		Allowed:  req.Allowed,
		Limit:    defaultLimit(req.Limit),
		Offset:   req.Offset,
	}

	items, err := a.eng.Store().ListDecisions(ctx.Context(), filter)
	if err != nil {
		return nil, mapError(err)
	}
	total, err := a.eng.Store().CountDecisions(ctx.Context(), filter)
	if err != nil {
		return nil, mapError(err)
	}

	resp := &ListResponse[*auditlog.Entry]{
		Items:  items,
		Total:  total,
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}
	return resp, ctx.JSON(http.StatusOK, resp)
}

func (a *API) getDecision(ctx forge.Context, _ *GetDecisionRequest) (*auditlog.Entry, error) {
	decID, err := id.ParseDecisionID(ctx.Param("decisionId"))
	if err != nil {
		return nil, forge.BadRequest(fmt.Sprintf("invalid decision ID: %v", err))
	}

	entry, err := a.eng.Store().GetDecision(ctx.Context(), decID)
	if err != nil {
		return nil, mapError(err)
	}
	return entry, ctx.JSON(http.StatusOK, entry)
}
