package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/hellodiary/internal/config"
	"github.com/dropDatabas3/hellodiary/internal/domain/repository"
	"github.com/dropDatabas3/hellodiary/internal/security/password"
)

func newTestApp(t *testing.T, mutate func(*config.Config)) *App {
	t.Helper()
	cfg := config.Default()
	cfg.Storage.DSN = filepath.Join(t.TempDir(), "hellodiary.db")
	cfg.Rate.Enabled = false
	cfg.Observability.MetricsEnabled = false
	if mutate != nil {
		mutate(cfg)
	}

	app, err := Build(context.Background(), cfg, Options{Hash: password.Fast})
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.Close() })
	return app
}

func do(t *testing.T, h http.Handler, method, path string, body any, access string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if access != "" {
		req.Header.Set("Authorization", "Bearer "+access)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

type errBody struct {
	Code    string              `json:"code"`
	Message string              `json:"message"`
	Fields  map[string][]string `json:"fields"`
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

type tokens struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

func register(t *testing.T, h http.Handler, username, email, pwd string) {
	t.Helper()
	rec := do(t, h, http.MethodPost, "/users/register/", map[string]string{
		"username": username, "email": email, "password": pwd, "password2": pwd,
	}, "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
}

func login(t *testing.T, h http.Handler, email, pwd string) tokens {
	t.Helper()
	rec := do(t, h, http.MethodPost, "/users/login/", map[string]string{"email": email, "password": pwd}, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decode[struct {
		Message string `json:"message"`
		Tokens  tokens `json:"tokens"`
	}](t, rec)
	require.NotEmpty(t, body.Message)
	require.NotEmpty(t, body.Tokens.Access)
	require.NotEmpty(t, body.Tokens.Refresh)
	return body.Tokens
}

func TestRegisterLoginDeactivateScenario(t *testing.T) {
	app := newTestApp(t, nil)
	h := app.Handler

	register(t, h, "alice", "a@x.com", "Pass123")
	tk := login(t, h, "a@x.com", "Pass123")

	rec := do(t, h, http.MethodDelete, "/users/delete/", map[string]string{"refresh": tk.Refresh}, tk.Access)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	// login de cuenta inactiva == password incorrecto == email desconocido
	inactive := do(t, h, http.MethodPost, "/users/login/", map[string]string{"email": "a@x.com", "password": "Pass123"}, "")
	wrongPwd := do(t, h, http.MethodPost, "/users/login/", map[string]string{"email": "a@x.com", "password": "nope"}, "")
	unknown := do(t, h, http.MethodPost, "/users/login/", map[string]string{"email": "zz@x.com", "password": "Pass123"}, "")
	for _, r := range []*httptest.ResponseRecorder{inactive, wrongPwd, unknown} {
		assert.Equal(t, http.StatusBadRequest, r.Code)
		assert.Equal(t, "INVALID_CREDENTIALS", decode[errBody](t, r).Code)
	}
	assert.Equal(t, inactive.Body.String(), wrongPwd.Body.String())
	assert.Equal(t, inactive.Body.String(), unknown.Body.String())

	// el access token sigue firmado pero la cuenta ya no autoriza nada
	rec = do(t, h, http.MethodPatch, "/users/update/", map[string]string{"first_name": "Alice"}, tk.Access)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// el refresh fue revocado en la baja
	rec = do(t, h, http.MethodPost, "/token/refresh/", map[string]string{"refresh": tk.Refresh}, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRegisterDuplicatesAndValidation(t *testing.T) {
	h := newTestApp(t, nil).Handler
	register(t, h, "alice", "a@x.com", "Pass123")

	rec := do(t, h, http.MethodPost, "/users/register/", map[string]string{
		"username": "alice", "email": "A@X.com", "password": "Pass123", "password2": "Pass123",
	}, "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := decode[errBody](t, rec)
	assert.Equal(t, "VALIDATION_ERROR", body.Code)
	assert.Contains(t, body.Fields, "username")
	assert.Contains(t, body.Fields, "email")

	rec = do(t, h, http.MethodPost, "/users/register/", map[string]string{
		"username": "bo", "email": "bad", "password": "a b", "password2": "x",
	}, "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	body = decode[errBody](t, rec)
	for _, f := range []string{"username", "email", "password"} {
		assert.Contains(t, body.Fields, f)
	}

	rec = do(t, h, http.MethodPost, "/users/register/", map[string]string{"username": "carol", "extra": "x"}, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_JSON", decode[errBody](t, rec).Code)
}

func TestDiaryOwnership(t *testing.T) {
	app := newTestApp(t, nil)
	h := app.Handler
	ctx := context.Background()

	register(t, h, "alice", "a@x.com", "Pass123")
	register(t, h, "bob", "b@x.com", "Pass123")
	alice, err := app.Store.Users().GetByUsername(ctx, "alice")
	require.NoError(t, err)
	bob, err := app.Store.Users().GetByUsername(ctx, "bob")
	require.NoError(t, err)

	mine, err := app.Store.Diaries().Create(ctx, repository.CreateDiaryInput{OwnerID: alice.ID, Title: "Мой первый дневник"})
	require.NoError(t, err)
	theirs, err := app.Store.Diaries().Create(ctx, repository.CreateDiaryInput{OwnerID: bob.ID, Title: "bob"})
	require.NoError(t, err)

	tk := login(t, h, "a@x.com", "Pass123")
	path := func(id int64) string { return "/diary/" + strconv.FormatInt(id, 10) + "/" }

	rec := do(t, h, http.MethodGet, path(mine.ID), nil, tk.Access)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.JSONEq(t, `{"owner":"alice","title":"Мой первый дневник"}`, rec.Body.String())

	assert.Equal(t, http.StatusForbidden, do(t, h, http.MethodGet, path(theirs.ID), nil, tk.Access).Code)
	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodGet, path(999999), nil, tk.Access).Code)
	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodGet, "/diary/abc/", nil, tk.Access).Code)
	assert.Equal(t, http.StatusUnauthorized, do(t, h, http.MethodGet, path(mine.ID), nil, "").Code)
	assert.Equal(t, http.StatusUnauthorized, do(t, h, http.MethodGet, path(mine.ID), nil, tk.Refresh).Code)
}

func TestLogoutAndRefresh(t *testing.T) {
	h := newTestApp(t, nil).Handler
	register(t, h, "alice", "a@x.com", "Pass123")
	tk := login(t, h, "a@x.com", "Pass123")

	rec := do(t, h, http.MethodPost, "/token/refresh/", map[string]string{"refresh": tk.Refresh}, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.NotEmpty(t, decode[tokens](t, rec).Access)

	rec = do(t, h, http.MethodPost, "/token/refresh/", map[string]string{}, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "TOKEN_REQUIRED", decode[errBody](t, rec).Code)

	rec = do(t, h, http.MethodPost, "/token/refresh/", map[string]string{"refresh": tk.Access}, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(t, h, http.MethodPost, "/users/logout/", map[string]string{}, tk.Access)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "TOKEN_ERROR", decode[errBody](t, rec).Code)

	rec = do(t, h, http.MethodPost, "/users/logout/", map[string]string{"refresh": tk.Refresh}, tk.Access)
	require.Equal(t, http.StatusNoContent, rec.Code, rec.Body.String())

	rec = do(t, h, http.MethodPost, "/users/logout/", map[string]string{"refresh": tk.Refresh}, tk.Access)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "TOKEN_ERROR", decode[errBody](t, rec).Code)

	rec = do(t, h, http.MethodPost, "/token/refresh/", map[string]string{"refresh": tk.Refresh}, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLogoutRejectsForeignRefresh(t *testing.T) {
	h := newTestApp(t, nil).Handler
	register(t, h, "alice", "a@x.com", "Pass123")
	register(t, h, "bob", "b@x.com", "Pass123")
	a := login(t, h, "a@x.com", "Pass123")
	b := login(t, h, "b@x.com", "Pass123")

	rec := do(t, h, http.MethodPost, "/users/logout/", map[string]string{"refresh": b.Refresh}, a.Access)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// el token de bob sigue vivo
	rec = do(t, h, http.MethodPost, "/token/refresh/", map[string]string{"refresh": b.Refresh}, "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestProfileUpdate(t *testing.T) {
	h := newTestApp(t, nil).Handler
	register(t, h, "alice", "a@x.com", "Pass123")
	register(t, h, "bob", "b@x.com", "Pass123")
	tk := login(t, h, "a@x.com", "Pass123")

	rec := do(t, h, http.MethodPatch, "/users/update/", map[string]string{"first_name": "Al"}, tk.Access)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decode[errBody](t, rec).Fields, "first_name")

	rec = do(t, h, http.MethodPatch, "/users/update/", map[string]string{"email": "b@x.com"}, tk.Access)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decode[errBody](t, rec).Fields, "email")

	rec = do(t, h, http.MethodPatch, "/users/update/", map[string]string{"first_name": "  Alice ", "email": "a@x.com"}, tk.Access)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decode[struct {
		Message string `json:"message"`
		User    struct {
			Username   string `json:"username"`
			Email      string `json:"email"`
			FirstName  string `json:"first_name"`
			LastName   string `json:"last_name"`
			DateJoined string `json:"date_joined"`
		} `json:"user"`
	}](t, rec)
	assert.NotEmpty(t, body.Message)
	assert.Equal(t, "alice", body.User.Username)
	assert.Equal(t, "Alice", body.User.FirstName)
	assert.Regexp(t, `^\d{2}-\d{2}-\d{4} \d{2}:\d{2}$`, body.User.DateJoined)
}

func TestBasePathAndOperationalRoutes(t *testing.T) {
	h := newTestApp(t, func(c *config.Config) { c.Server.BasePath = "/api" }).Handler

	rec := do(t, h, http.MethodPost, "/api/users/register/", map[string]string{
		"username": "alice", "email": "a@x.com", "password": "Pass123", "password2": "Pass123",
	}, "")
	assert.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = do(t, h, http.MethodPost, "/users/register/", map[string]string{}, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "ROUTE_NOT_FOUND", decode[errBody](t, rec).Code)

	assert.Equal(t, http.StatusOK, do(t, h, http.MethodGet, "/healthz", nil, "").Code)
	assert.Equal(t, http.StatusOK, do(t, h, http.MethodGet, "/readyz", nil, "").Code)

	rec = do(t, h, http.MethodGet, "/.well-known/jwks.json", nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"kty":"OKP"`)

	rec = do(t, h, http.MethodGet, "/api/users/login/", nil, "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestLoginRateLimited(t *testing.T) {
	h := newTestApp(t, func(c *config.Config) {
		c.Rate.Enabled = true
		c.Rate.Login.Limit = 2
	}).Handler

	body := map[string]string{"email": "a@x.com", "password": "x"}
	assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodPost, "/users/login/", body, "").Code)
	assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodPost, "/users/login/", body, "").Code)

	rec := do(t, h, http.MethodPost, "/users/login/", body, "")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
}

func TestDeleteIgnoresMalformedBody(t *testing.T) {
	app := newTestApp(t, nil)
	h := app.Handler

	tests := []struct {
		name string
		body string
		ct   string
	}{
		{"refresh not a string", `{"refresh":123}`, "application/json"},
		{"unknown field", `{"refresh":"x","extra":true}`, "application/json"},
		{"no content type", `{"refresh":"x"}`, ""},
		{"broken json", `{"refresh":`, "application/json"},
	}
	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			name := "del" + strconv.Itoa(i)
			register(t, h, name, name+"@x.com", "Pass123")
			tk := login(t, h, name+"@x.com", "Pass123")

			req := httptest.NewRequest(http.MethodDelete, "/users/delete/", bytes.NewBufferString(tt.body))
			if tt.ct != "" {
				req.Header.Set("Content-Type", tt.ct)
			}
			req.Header.Set("Authorization", "Bearer "+tk.Access)
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

			// la cuenta quedó inactiva aunque el body no sirviera
			rec = do(t, h, http.MethodPatch, "/users/update/", map[string]string{"first_name": "Someone"}, tk.Access)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}
}
