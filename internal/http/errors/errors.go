// Package errors define el formato de error HTTP de la API.
package errors

import (
	"encoding/json"
	"net/http"
)

// errorResponse controla exactamente qué campos llegan al cliente.
type errorResponse struct {
	Code    string              `json:"code"`
	Message string              `json:"message"`
	Detail  string              `json:"detail,omitempty"`
	Fields  map[string][]string `json:"fields,omitempty"`
}

// WriteError escribe la respuesta JSON para err. La causa (Err) nunca se serializa.
func WriteError(w http.ResponseWriter, err error) {
	appErr := FromError(err)

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(appErr.HTTPStatus)
	_ = json.NewEncoder(w).Encode(errorResponse{
		Code:    appErr.Code,
		Message: appErr.Message,
		Detail:  appErr.Detail,
		Fields:  appErr.Fields,
	})
}
