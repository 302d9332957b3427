package auth

import (
	"errors"
	"net/http"

	dto "github.com/dropDatabas3/hellodiary/internal/http/dto/auth"
	httperrors "github.com/dropDatabas3/hellodiary/internal/http/errors"
	svc "github.com/dropDatabas3/hellodiary/internal/http/services/auth"
	"github.com/dropDatabas3/hellodiary/internal/observability/logger"
	"github.com/dropDatabas3/hellodiary/internal/security/token"
)

// RefreshController maneja POST /token/refresh/
type RefreshController struct {
	service svc.RefreshService
}

// NewRefreshController crea un nuevo controller de refresh.
func NewRefreshController(service svc.RefreshService) *RefreshController {
	return &RefreshController{service: service}
}

// Refresh maneja POST /token/refresh/
func (c *RefreshController) Refresh(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("RefreshController.Refresh"))

	var req dto.RefreshRequest
	if appErr := readJSON(w, r, &req, true); appErr != nil {
		httperrors.WriteError(w, appErr)
		return
	}

	access, err := c.service.Refresh(ctx, req.Refresh)
	if err != nil {
		if !writeRefreshError(w, err) {
			log.Error("refresh failed", logger.Err(err))
			return
		}
		log.Debug("refresh rejected", logger.Err(err))
		return
	}

	w.Header().Set("Cache-Control", "no-store")
	writeJSON(w, http.StatusOK, dto.RefreshResponse{Access: access})
}

// ─── Helpers ───

// writeRefreshError devuelve false si err no es un error de token.
func writeRefreshError(w http.ResponseWriter, err error) bool {
	switch {
	case errors.Is(err, token.ErrTokenMissing):
		httperrors.WriteError(w, httperrors.ErrTokenRequired)
	case errors.Is(err, token.ErrTokenExpired):
		httperrors.WriteError(w, httperrors.ErrTokenExpired)
	case errors.Is(err, token.ErrTokenRevoked):
		httperrors.WriteError(w, httperrors.ErrTokenInvalid.WithDetail("el token fue revocado"))
	case errors.Is(err, token.ErrInactiveOwner):
		httperrors.WriteError(w, httperrors.ErrUnauthorized)
	case errors.Is(err, token.ErrTokenInvalid):
		httperrors.WriteError(w, httperrors.ErrTokenInvalid)
	default:
		httperrors.WriteError(w, httperrors.ErrRequestFailed.WithCause(err))
		return false
	}
	return true
}
