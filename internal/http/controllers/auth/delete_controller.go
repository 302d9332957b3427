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

// MsgDeleted es el mensaje de baja exitosa.
const MsgDeleted = "Cuenta desactivada correctamente."

// DeleteController maneja la baja lógica de la cuenta.
type DeleteController struct {
	service svc.DeleteService
}

// NewDeleteController crea un nuevo controller de baja.
func NewDeleteController(service svc.DeleteService) *DeleteController {
	return &DeleteController{service: service}
}

// Delete maneja DELETE /users/delete/. El body {refresh} es opcional.
func (c *DeleteController) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("DeleteController.Delete"))

	// la baja no depende del body: un refresh ausente o ilegible solo evita la revocación
	refresh := readOptionalRefresh(w, r)

	if err := c.service.Delete(ctx, middlewares.GetUserID(ctx), refresh); err != nil {
		if errors.Is(err, svc.ErrUserNotFound) {
			httperrors.WriteError(w, httperrors.ErrUnauthorized)
			return
		}
		log.Error("delete failed", logger.Err(err))
		httperrors.WriteError(w, httperrors.ErrRequestFailed.WithCause(err))
		return
	}

	writeJSON(w, http.StatusOK, dto.MessageResponse{Message: MsgDeleted})
}
