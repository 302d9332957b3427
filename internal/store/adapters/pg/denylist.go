package pg

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dropDatabas3/hellodiary/internal/domain/repository"
)

type denylistRepo struct{ pool *pgxpool.Pool }

func (r *denylistRepo) Add(ctx context.Context, t repository.RevokedToken) error {
	if t.RevokedAt.IsZero() {
		t.RevokedAt = time.Now().UTC()
	}
	if t.Reason == "" {
		t.Reason = repository.RevokeReasonLogout
	}

	const query = `
		INSERT INTO revoked_tokens (jti, user_id, reason, revoked_at, expires_at)
		VALUES ($1, $2, $3, $4, $5)`
	if _, err := r.pool.Exec(ctx, query, t.JTI, t.UserID, t.Reason, t.RevokedAt, t.ExpiresAt); err != nil {
		if isUniqueViolation(err) {
			return repository.ErrConflict
		}
		return fmt.Errorf("pg: add revoked token: %w", err)
	}
	return nil
}

func (r *denylistRepo) IsRevoked(ctx context.Context, jti string) (bool, error) {
	var ok bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM revoked_tokens WHERE jti = $1)`, jti).Scan(&ok)
	if err != nil {
		return false, fmt.Errorf("pg: is revoked: %w", err)
	}
	return ok, nil
}

func (r *denylistRepo) PruneExpired(ctx context.Context, before time.Time) (int64, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM revoked_tokens WHERE expires_at < $1`, before.UTC())
	if err != nil {
		return 0, fmt.Errorf("pg: prune revoked tokens: %w", err)
	}
	return tag.RowsAffected(), nil
}
