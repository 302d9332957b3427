// Package validation normaliza y valida la entrada de registro y perfil.
// Los errores son por campo, con el formato que devuelve la API.
package validation

import (
	"sort"
	"strings"
)

// Nombres de campo en las respuestas de error.
const (
	FieldUsername  = "username"
	FieldEmail     = "email"
	FieldPassword  = "password"
	FieldPassword2 = "password2"
	FieldFirstName = "first_name"
	FieldLastName  = "last_name"
	FieldNonField  = "non_field_errors"
)

// Errors agrupa mensajes por campo. Implementa error.
type Errors map[string][]string

func (e Errors) Add(field, msg string) {
	e[field] = append(e[field], msg)
}

func (e Errors) Has(field string) bool { return len(e[field]) > 0 }

// Err devuelve nil si no hay errores.
func (e Errors) Err() error {
	if len(e) == 0 {
		return nil
	}
	return e
}

func (e Errors) Error() string {
	keys := make([]string, 0, len(e))
	for k := range e {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString("validation failed:")
	for _, k := range keys {
		b.WriteString(" ")
		b.WriteString(k)
		b.WriteString("=")
		b.WriteString(strings.Join(e[k], "; "))
	}
	return b.String()
}
