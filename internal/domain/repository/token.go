package repository

import (
	"context"
	"time"
)

// Motivos de revocación.
const (
	RevokeReasonLogout         = "logout"
	RevokeReasonAccountDeleted = "account_deleted"
)

// RevokedToken es una entrada del denylist de refresh tokens.
type RevokedToken struct {
	JTI       string
	UserID    string
	Reason    string
	RevokedAt time.Time
	ExpiresAt time.Time // expiración natural del token; después se puede purgar
}

// DenylistRepository persiste los jti revocados.
type DenylistRepository interface {
	// Add inserta el jti. Retorna ErrConflict si ya estaba revocado.
	Add(ctx context.Context, t RevokedToken) error

	// IsRevoked reporta si el jti está en el denylist.
	IsRevoked(ctx context.Context, jti string) (bool, error)

	// PruneExpired borra entradas con expires_at < before y retorna cuántas borró.
	PruneExpired(ctx context.Context, before time.Time) (int64, error)
}
