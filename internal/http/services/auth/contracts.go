// Package auth contiene los servicios de cuenta: registro, login, logout,
// baja, perfil y refresh.
package auth

import (
	"context"
	"errors"
	"time"

	"github.com/dropDatabas3/hellodiary/internal/domain/repository"
	dto "github.com/dropDatabas3/hellodiary/internal/http/dto/auth"
	"github.com/dropDatabas3/hellodiary/internal/jwt"
	"github.com/dropDatabas3/hellodiary/internal/security/token"
)

var (
	// ErrInvalidCredentials es el único error de login: email inexistente,
	// password incorrecto y cuenta inactiva son indistinguibles.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrDuplicateIdentity: el store rechazó el alta por unicidad (carrera
	// con otro registro). No revela qué campo colisionó.
	ErrDuplicateIdentity = errors.New("duplicate identity")

	ErrUserNotFound = errors.New("user not found")
)

// Tokens es la parte del token.Service que usan los servicios de cuenta.
type Tokens interface {
	Issue(ctx context.Context, userID string) (*token.Pair, error)
	VerifyRefresh(ctx context.Context, raw string) (*jwt.Claims, error)
	Revoke(ctx context.Context, raw, reason string) (*jwt.Claims, error)
	Refresh(ctx context.Context, raw string) (string, time.Time, error)
}

type RegisterService interface {
	Register(ctx context.Context, in dto.RegisterRequest) (*repository.User, error)
}

type LoginService interface {
	Login(ctx context.Context, in dto.LoginRequest) (*token.Pair, error)
}

type LogoutService interface {
	// Logout revoca el refresh token del usuario. Un token ausente, inválido,
	// ajeno o ya revocado es error.
	Logout(ctx context.Context, userID, refresh string) error
}

type DeleteService interface {
	// Delete desactiva la cuenta y revoca refresh en best-effort.
	Delete(ctx context.Context, userID, refresh string) error
}

type ProfileService interface {
	Update(ctx context.Context, userID string, in dto.ProfileUpdateRequest) (*repository.User, error)
}

type RefreshService interface {
	Refresh(ctx context.Context, refresh string) (string, error)
}
