package auth

import (
	"errors"
	"net/http"

	dto "github.com/dropDatabas3/hellodiary/internal/http/dto/auth"
	httperrors "github.com/dropDatabas3/hellodiary/internal/http/errors"
	"github.com/dropDatabas3/hellodiary/internal/http/middlewares"
	svc "github.com/dropDatabas3/hellodiary/internal/http/services/auth"
	"github.com/dropDatabas3/hellodiary/internal/observability/logger"
	"github.com/dropDatabas3/hellodiary/internal/security/token"
)

// LogoutController maneja el logout (revocación del refresh token).
type LogoutController struct {
	service svc.LogoutService
}

// NewLogoutController crea un nuevo controller de logout.
func NewLogoutController(service svc.LogoutService) *LogoutController {
	return &LogoutController{service: service}
}

// Logout maneja POST /users/logout/. Requiere RequireAuth + RequireActive.
func (c *LogoutController) Logout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("LogoutController.Logout"))

	var req dto.RefreshRequest
	if appErr := readJSON(w, r, &req, true); appErr != nil {
		httperrors.WriteError(w, appErr)
		return
	}

	if err := c.service.Logout(ctx, middlewares.GetUserID(ctx), req.Refresh); err != nil {
		if !writeLogoutError(w, err) {
			log.Error("logout failed", logger.Err(err))
			return
		}
		log.Debug("logout rejected", logger.Err(err))
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ─── Helpers ───

// writeLogoutError: cualquier problema con el refresh token es 400 TOKEN_ERROR.
// Devuelve false si err no es un error de token.
func writeLogoutError(w http.ResponseWriter, err error) bool {
	switch {
	case errors.Is(err, token.ErrTokenMissing):
		httperrors.WriteError(w, httperrors.ErrTokenRejected.WithDetail("refresh token requerido"))
	case errors.Is(err, token.ErrTokenRevoked):
		httperrors.WriteError(w, httperrors.ErrTokenRejected.WithDetail("el token ya fue revocado"))
	case errors.Is(err, token.ErrTokenExpired):
		httperrors.WriteError(w, httperrors.ErrTokenRejected.WithDetail("el token expiró"))
	case errors.Is(err, token.ErrTokenInvalid):
		httperrors.WriteError(w, httperrors.ErrTokenRejected)
	default:
		httperrors.WriteError(w, httperrors.ErrRequestFailed.WithCause(err))
		return false
	}
	return true
}
