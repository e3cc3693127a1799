package api

import (
	"errors"

	"github.com/xraph/forge"

	"github.com/smartequiz/verger"
	"github.com/smartequiz/verger/auditlog"
	"github.com/smartequiz/verger/customization"
)

// mapError maps domain errors to Forge HTTP errors.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, customization.ErrNotFound) || errors.Is(err, auditlog.ErrNotFound) {
		return forge.NotFound(err.Error())
	}
	if errors.Is(err, verger.ErrTenantRequired) || errors.Is(err, verger.ErrRoleRequired) {
		return forge.BadRequest(err.Error())
	}
	if errors.Is(err, verger.ErrSuperAdminImmutable) {
		return forge.BadRequest(err.Error())
	}
	if errors.Is(err, verger.ErrAccessDenied) {
		return forge.Forbidden(err.Error())
	}
	return err
}

func defaultLimit(limit int) int {
	if limit <= 0 {
		return 50
	}
	if limit > 1000 {
		return 1000
	}
	return limit
}
