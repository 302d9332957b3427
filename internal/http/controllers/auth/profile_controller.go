package auth

import (
	"errors"
	"net/http"

	dto "github.com/dropDatabas3/hellodiary/internal/http/dto/auth"
	httperrors "github.com/dropDatabas3/hellodiary/internal/http/errors"
	"github.com/dropDatabas3/hellodiary/internal/http/middlewares"
	svc "github.com/dropDatabas3/hellodiary/internal/http/services/auth"
	"github.com/dropDatabas3/hellodiary/internal/observability/logger"
)

// MsgProfileUpdated es el mensaje de actualización exitosa.
const MsgProfileUpdated = "Perfil actualizado correctamente."

// ProfileController maneja la edición del perfil propio.
type ProfileController struct {
	service svc.ProfileService
}

// NewProfileController crea un nuevo controller de perfil.
func NewProfileController(service svc.ProfileService) *ProfileController {
	return &ProfileController{service: service}
}

// Update maneja PATCH /users/update/
func (c *ProfileController) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("ProfileController.Update"))

	var req dto.ProfileUpdateRequest
	if appErr := readJSON(w, r, &req, false); appErr != nil {
		httperrors.WriteError(w, appErr)
		return
	}

	u, err := c.service.Update(ctx, middlewares.GetUserID(ctx), req)
	if err != nil {
		if appErr, ok := validationError(err); ok {
			httperrors.WriteError(w, appErr)
			return
		}
		if errors.Is(err, svc.ErrUserNotFound) {
			httperrors.WriteError(w, httperrors.ErrUnauthorized)
			return
		}
		log.Error("profile update failed", logger.Err(err))
		httperrors.WriteError(w, httperrors.ErrRequestFailed.WithCause(err))
		return
	}

	writeJSON(w, http.StatusOK, dto.ProfileResponse{
		Message: MsgProfileUpdated,
		User:    dto.NewUserResponse(u),
	})
}
