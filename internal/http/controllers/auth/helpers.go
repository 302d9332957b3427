package auth

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	httperrors "github.com/dropDatabas3/hellodiary/internal/http/errors"
	svc "github.com/dropDatabas3/hellodiary/internal/http/services/auth"
	"github.com/dropDatabas3/hellodiary/internal/validation"
)

const (
	maxBodySize     = 64 * 1024 // 64KB
	contentTypeJSON = "application/json; charset=utf-8"
)

// MsgDuplicateIdentity se usa cuando el índice único del store gana la carrera.
const MsgDuplicateIdentity = "Ya existe un usuario con esos datos."

// readJSON limita el body, exige JSON y rechaza campos desconocidos.
// Con allowEmpty un body vacío deja dst intacto.
func readJSON(w http.ResponseWriter, r *http.Request, dst any, allowEmpty bool) *httperrors.AppError {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)

	if allowEmpty && r.ContentLength == 0 {
		return nil
	}

	ct := strings.ToLower(r.Header.Get("Content-Type"))
	if !strings.Contains(ct, "application/json") {
		return httperrors.ErrUnsupportedMediaType
	}

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	err := dec.Decode(dst)

	var maxErr *http.MaxBytesError
	switch {
	case err == nil:
	case errors.As(err, &maxErr):
		return httperrors.ErrBodyTooLarge
	case errors.Is(err, io.EOF):
		if allowEmpty {
			return nil
		}
		return httperrors.ErrInvalidJSON.WithDetail("body vacío")
	case strings.HasPrefix(err.Error(), "json: unknown field"):
		return httperrors.ErrInvalidJSON.WithDetail(err.Error())
	default:
		return httperrors.ErrInvalidJSON
	}

	// un solo objeto JSON por body
	if dec.More() {
		return httperrors.ErrInvalidJSON.WithDetail("body con datos extra")
	}
	return nil
}

// readOptionalRefresh lee {"refresh": "..."} sin validar el body: cualquier
// problema (content type, JSON roto, tipos, campos extra) equivale a no
// mandar token.
func readOptionalRefresh(w http.ResponseWriter, r *http.Request) string {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)

	var body map[string]any
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		return ""
	}
	s, _ := body["refresh"].(string)
	return s
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// validationError traduce errores de validación a 400 VALIDATION_ERROR con
// mensajes por campo. ok=false si err no es de validación.
func validationError(err error) (*httperrors.AppError, bool) {
	var verrs validation.Errors
	switch {
	case errors.As(err, &verrs):
		return httperrors.ErrValidation.WithFields(verrs), true
	case errors.Is(err, svc.ErrDuplicateIdentity):
		return httperrors.ErrValidation.WithFields(map[string][]string{
			validation.FieldNonField: {MsgDuplicateIdentity},
		}), true
	}
	return nil, false
}
