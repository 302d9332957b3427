package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// registerHealthRoutes registra las rutas operacionales (sin auth).
func registerHealthRoutes(r chi.Router, d Deps) {
	if d.Health != nil {
		r.Get("/healthz", d.Health.Health.Healthz)
		r.Get("/readyz", d.Health.Health.Readyz)
	}
	if d.JWKS != nil {
		r.Get("/.well-known/jwks.json", d.JWKS.GetJWKS)
	}
	if d.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", d.Metrics)
	}
}
