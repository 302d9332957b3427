package auth

import (
	"errors"
	"net/http"

	dto "github.com/dropDatabas3/hellodiary/internal/http/dto/auth"
	httperrors "github.com/dropDatabas3/hellodiary/internal/http/errors"
	svc "github.com/dropDatabas3/hellodiary/internal/http/services/auth"
	"github.com/dropDatabas3/hellodiary/internal/observability/logger"
)

// MsgLoggedIn es el mensaje de login exitoso.
const MsgLoggedIn = "Inicio de sesión exitoso."

// LoginController maneja el endpoint de login.
type LoginController struct {
	service svc.LoginService
}

// NewLoginController crea un nuevo controller de login.
func NewLoginController(service svc.LoginService) *LoginController {
	return &LoginController{service: service}
}

// Login maneja POST /users/login/
func (c *LoginController) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("LoginController.Login"))

	var req dto.LoginRequest
	if appErr := readJSON(w, r, &req, false); appErr != nil {
		httperrors.WriteError(w, appErr)
		return
	}

	pair, err := c.service.Login(ctx, req)
	if err != nil {
		writeLoginError(w, err)
		if !errors.Is(err, svc.ErrInvalidCredentials) {
			log.Debug("login failed", logger.Err(err))
		}
		return
	}

	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Pragma", "no-cache")
	writeJSON(w, http.StatusOK, dto.LoginResponse{
		Message: MsgLoggedIn,
		Tokens:  dto.TokenPair{Access: pair.Access, Refresh: pair.Refresh},
	})
}

// ─── Helpers ───

func writeLoginError(w http.ResponseWriter, err error) {
	if appErr, ok := validationError(err); ok {
		httperrors.WriteError(w, appErr)
		return
	}
	switch {
	case errors.Is(err, svc.ErrInvalidCredentials):
		httperrors.WriteError(w, httperrors.ErrInvalidCredentials)
	default:
		httperrors.WriteError(w, httperrors.ErrRequestFailed.WithCause(err))
	}
}
