package validation

import (
	"net/mail"
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"github.com/dropDatabas3/hellodiary/internal/security/password"
)

const (
	UsernameMinLen = 3
	UsernameMaxLen = 15
	EmailMaxLen    = 254
	NameMinLen     = 3
	NameMaxLen     = 150
)

// Mensajes expuestos al cliente.
const (
	MsgRequired         = "Este campo es obligatorio."
	MsgUsernameLength   = "El nombre de usuario debe tener entre 3 y 15 caracteres."
	MsgUsernameCharset  = "Solo se permiten letras, dígitos y los caracteres @ . + - _."
	MsgUsernameTaken    = "Ya existe un usuario con ese nombre."
	MsgEmailInvalid     = "Introduce una dirección de email válida."
	MsgEmailTaken       = "Ya existe un usuario con ese email."
	MsgPasswordSpaces   = "La contraseña no puede contener espacios."
	MsgPasswordWeak     = "La contraseña no cumple la política de seguridad."
	MsgPasswordMismatch = "Las contraseñas no coinciden."
	MsgNameTooShort     = "Debe tener al menos 3 caracteres."
	MsgNameTooLong      = "No puede superar los 150 caracteres."
)

// Letras y dígitos Unicode, más @ . + - _
var usernameRe = regexp.MustCompile(`^[\p{L}\p{N}_.@+-]+$`)

// NormalizeUsername recorta y lleva a NFC para que la longitud y la unicidad
// no dependan de la forma de composición.
func NormalizeUsername(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}

// NormalizeEmail recorta y pasa a minúsculas.
func NormalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Registration es la entrada de alta ya normalizada por Normalize.
type Registration struct {
	Username  string
	Email     string
	Password  string
	Password2 string
}

func (r *Registration) Normalize() {
	r.Username = NormalizeUsername(r.Username)
	r.Email = NormalizeEmail(r.Email)
}

// Validate aplica las reglas de formato. La unicidad se chequea en el servicio.
func (r Registration) Validate(policy password.Policy) error {
	errs := Errors{}
	checkUsername(errs, r.Username)
	checkEmail(errs, r.Email)

	if r.Password == "" {
		errs.Add(FieldPassword, MsgRequired)
	} else if ok, reasons := policy.Validate(r.Password); !ok {
		for _, reason := range reasons {
			if reason == "contains_whitespace" {
				errs.Add(FieldPassword, MsgPasswordSpaces)
			} else {
				errs.Add(FieldPassword, MsgPasswordWeak)
				break
			}
		}
	}
	if r.Password2 == "" {
		errs.Add(FieldPassword2, MsgRequired)
	} else if r.Password != "" && r.Password != r.Password2 {
		errs.Add(FieldPassword, MsgPasswordMismatch)
	}
	return errs.Err()
}

// ProfileUpdate es un parche parcial; nil = sin cambios.
type ProfileUpdate struct {
	Email     *string
	FirstName *string
	LastName  *string
}

// Normalize recorta nombres y normaliza el email.
func (p *ProfileUpdate) Normalize() {
	if p.Email != nil {
		v := NormalizeEmail(*p.Email)
		p.Email = &v
	}
	if p.FirstName != nil {
		v := strings.TrimSpace(*p.FirstName)
		p.FirstName = &v
	}
	if p.LastName != nil {
		v := strings.TrimSpace(*p.LastName)
		p.LastName = &v
	}
}

func (p ProfileUpdate) Validate() error {
	errs := Errors{}
	if p.Email != nil {
		checkEmail(errs, *p.Email)
	}
	if p.FirstName != nil {
		checkName(errs, FieldFirstName, *p.FirstName)
	}
	if p.LastName != nil {
		checkName(errs, FieldLastName, *p.LastName)
	}
	return errs.Err()
}

func checkUsername(errs Errors, s string) {
	if s == "" {
		errs.Add(FieldUsername, MsgRequired)
		return
	}
	if n := utf8.RuneCountInString(s); n < UsernameMinLen || n > UsernameMaxLen {
		errs.Add(FieldUsername, MsgUsernameLength)
	}
	if !usernameRe.MatchString(s) {
		errs.Add(FieldUsername, MsgUsernameCharset)
	}
}

func checkEmail(errs Errors, s string) {
	if s == "" {
		errs.Add(FieldEmail, MsgRequired)
		return
	}
	if !ValidEmail(s) {
		errs.Add(FieldEmail, MsgEmailInvalid)
	}
}

// ValidEmail acepta solo direcciones desnudas (sin display name ni <>).
func ValidEmail(s string) bool {
	if len(s) > EmailMaxLen {
		return false
	}
	addr, err := mail.ParseAddress(s)
	if err != nil || addr.Address != s {
		return false
	}
	at := strings.LastIndexByte(s, '@')
	return at > 0 && strings.Contains(s[at+1:], ".")
}

func checkName(errs Errors, field, s string) {
	n := utf8.RuneCountInString(s)
	switch {
	case n < NameMinLen:
		errs.Add(field, MsgNameTooShort)
	case n > NameMaxLen:
		errs.Add(field, MsgNameTooLong)
	}
}
