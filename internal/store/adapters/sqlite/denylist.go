package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dropDatabas3/hellodiary/internal/domain/repository"
)

type denylistRepo struct{ db *sql.DB }

func (r *denylistRepo) Add(ctx context.Context, t repository.RevokedToken) error {
	if t.RevokedAt.IsZero() {
		t.RevokedAt = time.Now()
	}
	if t.Reason == "" {
		t.Reason = repository.RevokeReasonLogout
	}

	const query = `
		INSERT INTO revoked_tokens (jti, user_id, reason, revoked_at, expires_at)
		VALUES (?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query, t.JTI, t.UserID, t.Reason, toMillis(t.RevokedAt), toMillis(t.ExpiresAt))
	if err != nil {
		if isUniqueViolation(err) {
			return repository.ErrConflict
		}
		return fmt.Errorf("sqlite: add revoked token: %w", err)
	}
	return nil
}

func (r *denylistRepo) IsRevoked(ctx context.Context, jti string) (bool, error) {
	var one int
	err := r.db.QueryRowContext(ctx, `SELECT 1 FROM revoked_tokens WHERE jti = ?`, jti).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("sqlite: is revoked: %w", err)
	}
	return true, nil
}

func (r *denylistRepo) PruneExpired(ctx context.Context, before time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM revoked_tokens WHERE expires_at < ?`, toMillis(before))
	if err != nil {
		return 0, fmt.Errorf("sqlite: prune revoked tokens: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("sqlite: prune revoked tokens: %w", err)
	}
	return n, nil
}
