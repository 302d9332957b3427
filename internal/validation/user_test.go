package validation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/hellodiary/internal/security/password"
)

func fieldErrors(t *testing.T, err error) Errors {
	t.Helper()
	var verrs Errors
	require.True(t, errors.As(err, &verrs), "expected validation.Errors, got %v", err)
	return verrs
}

func TestRegistrationValid(t *testing.T) {
	r := Registration{Username: "  alice ", Email: " A@X.com ", Password: "Pass123", Password2: "Pass123"}
	r.Normalize()
	assert.Equal(t, "alice", r.Username)
	assert.Equal(t, "a@x.com", r.Email)
	assert.NoError(t, r.Validate(password.Policy{}))
}

func TestRegistrationUsernameRules(t *testing.T) {
	cases := []struct {
		name     string
		username string
		valid    bool
	}{
		{"min", "abc", true},
		{"max", "abcdefghijklmno", true},
		{"too short", "ab", false},
		{"too long", "abcdefghijklmnop", false},
		{"allowed symbols", "a.b@c+d-e_f", true},
		{"cyrillic counted in runes", "Иван", true},
		{"space", "al ice", false},
		{"slash", "al/ice", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := Registration{Username: tc.username, Email: "a@x.com", Password: "p", Password2: "p"}
			r.Normalize()
			err := r.Validate(password.Policy{})
			if tc.valid {
				assert.NoError(t, err)
				return
			}
			assert.True(t, fieldErrors(t, err).Has(FieldUsername))
		})
	}
}

func TestNormalizeUsernameNFC(t *testing.T) {
	decomposed := "Jose\u0301"
	assert.Equal(t, "Jos\u00e9", NormalizeUsername(decomposed))
}

func TestRegistrationPasswordRules(t *testing.T) {
	r := Registration{Username: "alice", Email: "a@x.com", Password: "Pass 123", Password2: "Pass 123"}
	errs := fieldErrors(t, r.Validate(password.Policy{}))
	assert.Equal(t, []string{MsgPasswordSpaces}, errs[FieldPassword])

	r = Registration{Username: "alice", Email: "a@x.com", Password: "Pass123", Password2: "Pass124"}
	errs = fieldErrors(t, r.Validate(password.Policy{}))
	assert.Equal(t, []string{MsgPasswordMismatch}, errs[FieldPassword])

	r = Registration{Username: "alice", Email: "a@x.com"}
	errs = fieldErrors(t, r.Validate(password.Policy{}))
	assert.True(t, errs.Has(FieldPassword))
	assert.True(t, errs.Has(FieldPassword2))
}

func TestValidEmail(t *testing.T) {
	assert.True(t, ValidEmail("a@x.com"))
	assert.False(t, ValidEmail("not-an-email"))
	assert.False(t, ValidEmail("Alice <a@x.com>"))
	assert.False(t, ValidEmail("a@localhost"))
	assert.False(t, ValidEmail(""))
}

func TestProfileUpdate(t *testing.T) {
	first, last, email := "  Al ", "Smith", " NEW@X.COM "
	p := ProfileUpdate{FirstName: &first, LastName: &last, Email: &email}
	p.Normalize()
	assert.Equal(t, "new@x.com", *p.Email)

	errs := fieldErrors(t, p.Validate())
	assert.Equal(t, []string{MsgNameTooShort}, errs[FieldFirstName])
	assert.False(t, errs.Has(FieldLastName))

	assert.NoError(t, ProfileUpdate{}.Validate())
}

func TestErrorsErr(t *testing.T) {
	assert.Nil(t, Errors{}.Err())
	e := Errors{}
	e.Add(FieldEmail, "x")
	assert.Contains(t, e.Err().Error(), "email=x")
}
