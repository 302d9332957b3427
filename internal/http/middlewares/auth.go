package middlewares

import (
	"context"
	stderrors "errors"
	"net/http"
	"strings"

	"github.com/dropDatabas3/hellodiary/internal/domain/repository"
	"github.com/dropDatabas3/hellodiary/internal/http/errors"
	"github.com/dropDatabas3/hellodiary/internal/jwt"
	"github.com/dropDatabas3/hellodiary/internal/observability/logger"
	"github.com/dropDatabas3/hellodiary/internal/security/token"
)

// AccessVerifier valida access tokens (token.Service).
type AccessVerifier interface {
	VerifyAccess(ctx context.Context, raw string) (*jwt.Claims, error)
}

// UserLoader carga la identidad por ID sin filtrar por estado.
type UserLoader interface {
	GetByID(ctx context.Context, id string) (*repository.User, error)
}

// bearerToken extrae el token de "Authorization: Bearer <jwt>".
func bearerToken(r *http.Request) string {
	ah := strings.TrimSpace(r.Header.Get("Authorization"))
	if len(ah) < len("bearer ") || !strings.EqualFold(ah[:len("bearer ")], "bearer ") {
		return ""
	}
	return strings.TrimSpace(ah[len("bearer "):])
}

// RequireAuth valida el access token y guarda claims y user ID en el contexto.
// Sin token → 401 TOKEN_MISSING; expirado → TOKEN_EXPIRED; otro → TOKEN_INVALID.
func RequireAuth(tokens AccessVerifier) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := bearerToken(r)
			if raw == "" {
				w.Header().Set("WWW-Authenticate", `Bearer realm="api"`)
				errors.WriteError(w, errors.ErrTokenMissing)
				return
			}

			claims, err := tokens.VerifyAccess(r.Context(), raw)
			if err != nil {
				w.Header().Set("WWW-Authenticate", `Bearer realm="api", error="invalid_token"`)
				switch {
				case stderrors.Is(err, token.ErrTokenExpired):
					errors.WriteError(w, errors.ErrTokenExpired)
				case stderrors.Is(err, token.ErrTokenMissing):
					errors.WriteError(w, errors.ErrTokenMissing)
				default:
					errors.WriteError(w, errors.ErrTokenInvalid)
				}
				return
			}

			ctx := WithClaims(r.Context(), claims)
			ctx = WithUserID(ctx, claims.Subject)
			ctx = logger.ToContext(ctx, logger.From(ctx).With(logger.UserID(claims.Subject)))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireActive relee la identidad en cada request: un token válido de una
// cuenta desactivada no autoriza nada. Debe ir después de RequireAuth.
func RequireActive(users UserLoader) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID := GetUserID(r.Context())
			if userID == "" {
				errors.WriteError(w, errors.ErrUnauthorized)
				return
			}

			u, err := users.GetByID(r.Context(), userID)
			if repository.IsNotFound(err) || (err == nil && !u.IsActive) {
				errors.WriteError(w, errors.ErrUnauthorized)
				return
			}
			if err != nil {
				logger.From(r.Context()).Error("active check failed",
					logger.Layer("middleware"), logger.Op("RequireActive"), logger.Err(err))
				errors.WriteError(w, errors.ErrRequestFailed.WithCause(err))
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), u)))
		})
	}
}
