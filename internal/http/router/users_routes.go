package router

import (
	"github.com/go-chi/chi/v5"

	mw "github.com/dropDatabas3/hellodiary/internal/http/middlewares"
)

// registerUserRoutes registra /users/* y /token/refresh/.
func registerUserRoutes(r chi.Router, d Deps) {
	c := d.Auth

	// ─── Públicas (rate-limited) ───
	r.With(mw.WithRateLimit(d.RegisterLimiter, mw.IPPathRateKey), mw.WithNoStore()).
		Post("/users/register/", c.Register.Register)
	r.With(mw.WithRateLimit(d.LoginLimiter, mw.IPPathRateKey), mw.WithNoStore()).
		Post("/users/login/", c.Login.Login)

	// El refresh token viaja en el body; no pasa por RequireAuth.
	r.With(mw.WithNoStore()).Post("/token/refresh/", c.Refresh.Refresh)

	// ─── Autenticadas ───
	a := authed(r, d)
	a.Post("/users/logout/", c.Logout.Logout)
	a.Delete("/users/delete/", c.Delete.Delete)
	a.Patch("/users/update/", c.Profile.Update)
}
