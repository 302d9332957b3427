package auth

import (
	"net/http"

	dto "github.com/dropDatabas3/hellodiary/internal/http/dto/auth"
	httperrors "github.com/dropDatabas3/hellodiary/internal/http/errors"
	svc "github.com/dropDatabas3/hellodiary/internal/http/services/auth"
	"github.com/dropDatabas3/hellodiary/internal/observability/logger"
)

// MsgRegistered es el mensaje de alta exitosa.
const MsgRegistered = "Usuario registrado correctamente."

// RegisterController maneja el endpoint de registro.
type RegisterController struct {
	service svc.RegisterService
}

// NewRegisterController crea un nuevo controller de registro.
func NewRegisterController(service svc.RegisterService) *RegisterController {
	return &RegisterController{service: service}
}

// Register maneja POST /users/register/
func (c *RegisterController) Register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("RegisterController.Register"))

	var req dto.RegisterRequest
	if appErr := readJSON(w, r, &req, false); appErr != nil {
		httperrors.WriteError(w, appErr)
		return
	}

	if _, err := c.service.Register(ctx, req); err != nil {
		if appErr, ok := validationError(err); ok {
			httperrors.WriteError(w, appErr)
			return
		}
		log.Error("register failed", logger.Err(err))
		httperrors.WriteError(w, httperrors.ErrRequestFailed.WithCause(err))
		return
	}

	writeJSON(w, http.StatusCreated, dto.MessageResponse{Message: MsgRegistered})
}
