package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dto "github.com/dropDatabas3/hellodiary/internal/http/dto/health"
	svc "github.com/dropDatabas3/hellodiary/internal/http/services/health"
)

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) Ping(ctx context.Context) error { return f(ctx) }

var (
	okPing   = pingerFunc(func(context.Context) error { return nil })
	downPing = pingerFunc(func(context.Context) error { return errors.New("connection refused") })
)

func readyz(t *testing.T, d svc.Deps) (*httptest.ResponseRecorder, dto.HealthResponse) {
	t.Helper()
	c := NewControllers(svc.NewServices(d))
	rec := httptest.NewRecorder()
	c.Health.Readyz(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))

	var body dto.HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec, body
}

func TestReadyz(t *testing.T) {
	tests := []struct {
		name       string
		deps       svc.Deps
		wantCode   int
		wantStatus string
	}{
		{"all ok", svc.Deps{Store: okPing, Cache: okPing, KID: "k1"}, http.StatusOK, svc.StatusReady},
		{"cache down", svc.Deps{Store: okPing, Cache: downPing, KID: "k1"}, http.StatusOK, svc.StatusDegraded},
		{"store down", svc.Deps{Store: downPing, Cache: okPing, KID: "k1"}, http.StatusServiceUnavailable, svc.StatusUnavailable},
		{"no key", svc.Deps{Store: okPing, KID: ""}, http.StatusServiceUnavailable, svc.StatusUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, body := readyz(t, tt.deps)
			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, tt.wantStatus, body.Status)
		})
	}
}

func TestReadyzComponentsAndHeaders(t *testing.T) {
	rec, body := readyz(t, svc.Deps{Store: okPing, KID: "k1", Version: "1.2.3"})

	assert.Equal(t, "k1", rec.Header().Get("X-JWKS-KID"))
	assert.Equal(t, "1.2.3", rec.Header().Get("X-Service-Version"))
	assert.Equal(t, "ok", body.Components["store"].Status)
	assert.Equal(t, "disabled", body.Components["cache"].Status)
	assert.Equal(t, "k1", body.ActiveKeyID)
}

func TestHealthz(t *testing.T) {
	c := NewHealthController(nil)
	rec := httptest.NewRecorder()
	c.Healthz(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestJWKS(t *testing.T) {
	c := NewJWKSController([]byte(`{"keys":[]}`))
	rec := httptest.NewRecorder()
	c.GetJWKS(rec, httptest.NewRequest(http.MethodGet, "/.well-known/jwks.json", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, `{"keys":[]}`, rec.Body.String())
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")
}
