// Package router arma el árbol de rutas chi del servicio.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	authctrl "github.com/dropDatabas3/hellodiary/internal/http/controllers/auth"
	diaryctrl "github.com/dropDatabas3/hellodiary/internal/http/controllers/diary"
	healthctrl "github.com/dropDatabas3/hellodiary/internal/http/controllers/health"
	httperrors "github.com/dropDatabas3/hellodiary/internal/http/errors"
	mw "github.com/dropDatabas3/hellodiary/internal/http/middlewares"
	"github.com/dropDatabas3/hellodiary/internal/rate"
)

// Deps contiene todas las dependencias del router.
type Deps struct {
	// BasePath prefija las rutas de la API ("" o "/api"). Las rutas
	// operacionales (/healthz, /metrics, ...) quedan siempre en la raíz.
	BasePath string

	// Controllers
	Auth   *authctrl.Controllers
	Diary  *diaryctrl.DiaryController
	Health *healthctrl.Controllers
	JWKS   *healthctrl.JWKSController

	// Metrics sirve /metrics. nil = deshabilitado.
	Metrics http.Handler

	// Auth middlewares
	Tokens mw.AccessVerifier
	Users  mw.UserLoader

	// TrustedProxies habilita X-Forwarded-For. Vacío = solo RemoteAddr.
	TrustedProxies mw.TrustedProxies

	// Opcionales: nil = sin rate limiting.
	LoginLimiter    rate.Limiter
	RegisterLimiter rate.Limiter
}

// New construye el handler raíz.
func New(d Deps) http.Handler {
	r := chi.NewRouter()

	// Orden: request id → client ip → recover → logging → tracing → metrics → headers.
	r.Use(
		mw.WithRequestID(),
		mw.WithClientIP(d.TrustedProxies),
		mw.WithRecover(),
		mw.WithLogging(),
		mw.WithTracing(),
		mw.WithMetrics(),
		mw.WithSecurityHeaders(),
	)

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		httperrors.WriteError(w, httperrors.ErrRouteNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		httperrors.WriteError(w, httperrors.ErrMethodNotAllowed)
	})

	registerHealthRoutes(r, d)

	api := func(r chi.Router) {
		registerUserRoutes(r, d)
		registerDiaryRoutes(r, d)
	}
	if d.BasePath == "" || d.BasePath == "/" {
		r.Group(api)
	} else {
		r.Route(d.BasePath, api)
	}
	return r
}

// authed agrega RequireAuth + RequireActive a un grupo.
func authed(r chi.Router, d Deps) chi.Router {
	return r.With(mw.RequireAuth(d.Tokens), mw.RequireActive(d.Users), mw.WithNoStore())
}
