package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dropDatabas3/hellodiary/internal/domain/repository"
)

type userRepo struct{ db *sql.DB }

const userColumns = `id, username, email, password_hash, first_name, last_name, is_active, is_staff, date_joined, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*repository.User, error) {
	var (
		u                     repository.User
		isActive, isStaff     int
		dateJoined, updatedAt int64
	)
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.FirstName, &u.LastName,
		&isActive, &isStaff, &dateJoined, &updatedAt)
	if err != nil {
		return nil, err
	}
	u.IsActive = isActive != 0
	u.IsStaff = isStaff != 0
	u.DateJoined = fromMillis(dateJoined)
	u.UpdatedAt = fromMillis(updatedAt)
	return &u, nil
}

func (r *userRepo) Create(ctx context.Context, in repository.CreateUserInput) (*repository.User, error) {
	now := time.Now().UTC()
	u := &repository.User{
		ID:           uuid.NewString(),
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: in.PasswordHash,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		IsActive:     true,
		IsStaff:      in.IsStaff,
		DateJoined:   fromMillis(toMillis(now)),
		UpdatedAt:    fromMillis(toMillis(now)),
	}

	const query = `
		INSERT INTO users (` + userColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, 1, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		u.ID, u.Username, u.Email, u.PasswordHash, u.FirstName, u.LastName,
		boolToInt(u.IsStaff), toMillis(now), toMillis(now),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, repository.ErrConflict
		}
		return nil, fmt.Errorf("sqlite: create user: %w", err)
	}
	return u, nil
}

func (r *userRepo) getOne(ctx context.Context, op, where string, arg any) (*repository.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE ` + where + ` LIMIT 1`
	u, err := scanUser(r.db.QueryRowContext(ctx, query, arg))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("sqlite: %s: %w", op, err)
	}
	return u, nil
}

func (r *userRepo) GetByID(ctx context.Context, id string) (*repository.User, error) {
	return r.getOne(ctx, "get user by id", "id = ?", id)
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (*repository.User, error) {
	return r.getOne(ctx, "get user by email", "email = ?", email)
}

func (r *userRepo) GetByUsername(ctx context.Context, username string) (*repository.User, error) {
	return r.getOne(ctx, "get user by username", "username = ?", username)
}

func (r *userRepo) exists(ctx context.Context, op, query string, args ...any) (bool, error) {
	var one int
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("sqlite: %s: %w", op, err)
	}
	return true, nil
}

func (r *userRepo) ExistsUsername(ctx context.Context, username string) (bool, error) {
	return r.exists(ctx, "exists username", `SELECT 1 FROM users WHERE username = ? LIMIT 1`, username)
}

func (r *userRepo) ExistsEmail(ctx context.Context, email string) (bool, error) {
	return r.exists(ctx, "exists email", `SELECT 1 FROM users WHERE email = ? LIMIT 1`, email)
}

func (r *userRepo) EmailTakenByOther(ctx context.Context, email, userID string) (bool, error) {
	return r.exists(ctx, "email taken by other",
		`SELECT 1 FROM users WHERE email = ? AND id <> ? LIMIT 1`, email, userID)
}

func (r *userRepo) UpdateProfile(ctx context.Context, userID string, in repository.UpdateProfileInput) (*repository.User, error) {
	sets := make([]string, 0, 4)
	args := make([]any, 0, 5)
	if in.Email != nil {
		sets = append(sets, "email = ?")
		args = append(args, *in.Email)
	}
	if in.FirstName != nil {
		sets = append(sets, "first_name = ?")
		args = append(args, *in.FirstName)
	}
	if in.LastName != nil {
		sets = append(sets, "last_name = ?")
		args = append(args, *in.LastName)
	}
	if len(sets) == 0 {
		return r.GetByID(ctx, userID)
	}
	sets = append(sets, "updated_at = ?")
	args = append(args, toMillis(time.Now()), userID)

	query := `UPDATE users SET ` + strings.Join(sets, ", ") + ` WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, repository.ErrConflict
		}
		return nil, fmt.Errorf("sqlite: update profile: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, repository.ErrNotFound
	}
	return r.GetByID(ctx, userID)
}

func (r *userRepo) SoftDelete(ctx context.Context, userID string) error {
	// is_active ya en 0 también cuenta como fila afectada: la operación es idempotente.
	const query = `UPDATE users SET is_active = 0, updated_at = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query, toMillis(time.Now()), userID)
	if err != nil {
		return fmt.Errorf("sqlite: soft delete user: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: soft delete user: %w", err)
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}
