package middlewares

import (
	"context"

	"github.com/dropDatabas3/hellodiary/internal/domain/repository"
	"github.com/dropDatabas3/hellodiary/internal/jwt"
)

type ctxKey string

const (
	ctxClaimsKey    ctxKey = "claims"
	ctxUserIDKey    ctxKey = "user_id"
	ctxUserKey      ctxKey = "user"
	ctxRequestIDKey ctxKey = "request_id"
)

// WithClaims inyecta las claims del access token.
func WithClaims(ctx context.Context, c *jwt.Claims) context.Context {
	return context.WithValue(ctx, ctxClaimsKey, c)
}

// WithUserID inyecta el user ID (sub del token).
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, ctxUserIDKey, userID)
}

// WithUser inyecta la identidad cargada por RequireActive.
func WithUser(ctx context.Context, u *repository.User) context.Context {
	return context.WithValue(ctx, ctxUserKey, u)
}

func setRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, ctxRequestIDKey, requestID)
}

// GetClaims retorna nil si RequireAuth no corrió.
func GetClaims(ctx context.Context) *jwt.Claims {
	c, _ := ctx.Value(ctxClaimsKey).(*jwt.Claims)
	return c
}

func GetUserID(ctx context.Context) string {
	s, _ := ctx.Value(ctxUserIDKey).(string)
	return s
}

// GetUser retorna nil si RequireActive no corrió.
func GetUser(ctx context.Context) *repository.User {
	u, _ := ctx.Value(ctxUserKey).(*repository.User)
	return u
}

func GetRequestID(ctx context.Context) string {
	s, _ := ctx.Value(ctxRequestIDKey).(string)
	return s
}
