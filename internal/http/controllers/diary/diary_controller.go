// Package diary contiene el controller de /diary.
package diary

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	dto "github.com/dropDatabas3/hellodiary/internal/http/dto/diary"
	httperrors "github.com/dropDatabas3/hellodiary/internal/http/errors"
	"github.com/dropDatabas3/hellodiary/internal/http/middlewares"
	svc "github.com/dropDatabas3/hellodiary/internal/http/services/diary"
	"github.com/dropDatabas3/hellodiary/internal/observability/logger"
	"github.com/dropDatabas3/hellodiary/internal/security/authz"
)

// DiaryController maneja la lectura de diarios.
type DiaryController struct {
	service svc.Service
}

func NewDiaryController(service svc.Service) *DiaryController {
	return &DiaryController{service: service}
}

// Get maneja GET /diary/{id}/. Requiere RequireAuth + RequireActive.
func (c *DiaryController) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("DiaryController.Get"))

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		// un id no numérico no puede existir
		httperrors.WriteError(w, httperrors.ErrNotFound)
		return
	}

	d, err := c.service.GetOwned(ctx, id, middlewares.GetUserID(ctx))
	switch {
	case err == nil:
	case errors.Is(err, svc.ErrDiaryNotFound):
		httperrors.WriteError(w, httperrors.ErrNotFound)
		return
	case errors.Is(err, authz.ErrForbidden):
		httperrors.WriteError(w, httperrors.ErrForbidden)
		return
	default:
		log.Error("get diary failed", logger.DiaryID(id), logger.Err(err))
		httperrors.WriteError(w, httperrors.ErrRequestFailed.WithCause(err))
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(dto.NewDiaryResponse(d))
}
