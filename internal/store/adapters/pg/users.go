package pg

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dropDatabas3/hellodiary/internal/domain/repository"
)

type userRepo struct{ pool *pgxpool.Pool }

const userColumns = `id::text, username, email, password_hash, first_name, last_name, is_active, is_staff, date_joined, updated_at`

func scanUser(row pgx.Row) (*repository.User, error) {
	var u repository.User
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.FirstName, &u.LastName,
		&u.IsActive, &u.IsStaff, &u.DateJoined, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *userRepo) Create(ctx context.Context, in repository.CreateUserInput) (*repository.User, error) {
	const query = `
		INSERT INTO users (id, username, email, password_hash, first_name, last_name, is_active, is_staff)
		VALUES ($1, $2, $3, $4, $5, $6, TRUE, $7)
		RETURNING ` + userColumns

	u, err := scanUser(r.pool.QueryRow(ctx, query,
		uuid.NewString(), in.Username, in.Email, in.PasswordHash, in.FirstName, in.LastName, in.IsStaff,
	))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, repository.ErrConflict
		}
		return nil, fmt.Errorf("pg: create user: %w", err)
	}
	return u, nil
}

func (r *userRepo) getOne(ctx context.Context, op, where string, arg any) (*repository.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE ` + where + ` LIMIT 1`
	u, err := scanUser(r.pool.QueryRow(ctx, query, arg))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("pg: %s: %w", op, err)
	}
	return u, nil
}

func (r *userRepo) GetByID(ctx context.Context, id string) (*repository.User, error) {
	if _, err := uuid.Parse(id); err != nil {
		// id no-UUID nunca existe; evita un error de cast en la DB.
		return nil, repository.ErrNotFound
	}
	return r.getOne(ctx, "get user by id", "id = $1", id)
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (*repository.User, error) {
	return r.getOne(ctx, "get user by email", "email = $1", email)
}

func (r *userRepo) GetByUsername(ctx context.Context, username string) (*repository.User, error) {
	return r.getOne(ctx, "get user by username", "username = $1", username)
}

func (r *userRepo) exists(ctx context.Context, op, query string, args ...any) (bool, error) {
	var ok bool
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&ok); err != nil {
		return false, fmt.Errorf("pg: %s: %w", op, err)
	}
	return ok, nil
}

func (r *userRepo) ExistsUsername(ctx context.Context, username string) (bool, error) {
	return r.exists(ctx, "exists username", `SELECT EXISTS (SELECT 1 FROM users WHERE username = $1)`, username)
}

func (r *userRepo) ExistsEmail(ctx context.Context, email string) (bool, error) {
	return r.exists(ctx, "exists email", `SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)`, email)
}

func (r *userRepo) EmailTakenByOther(ctx context.Context, email, userID string) (bool, error) {
	return r.exists(ctx, "email taken by other",
		`SELECT EXISTS (SELECT 1 FROM users WHERE email = $1 AND id::text <> $2)`, email, userID)
}

func (r *userRepo) UpdateProfile(ctx context.Context, userID string, in repository.UpdateProfileInput) (*repository.User, error) {
	sets := make([]string, 0, 4)
	args := make([]any, 0, 4)
	add := func(col string, v string) {
		args = append(args, v)
		sets = append(sets, col+" = $"+strconv.Itoa(len(args)))
	}
	if in.Email != nil {
		add("email", *in.Email)
	}
	if in.FirstName != nil {
		add("first_name", *in.FirstName)
	}
	if in.LastName != nil {
		add("last_name", *in.LastName)
	}
	if len(sets) == 0 {
		return r.GetByID(ctx, userID)
	}
	if _, err := uuid.Parse(userID); err != nil {
		return nil, repository.ErrNotFound
	}

	args = append(args, userID)
	query := `UPDATE users SET ` + strings.Join(sets, ", ") + `, updated_at = now()
		WHERE id = $` + strconv.Itoa(len(args)) + `
		RETURNING ` + userColumns

	u, err := scanUser(r.pool.QueryRow(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		if isUniqueViolation(err) {
			return nil, repository.ErrConflict
		}
		return nil, fmt.Errorf("pg: update profile: %w", err)
	}
	return u, nil
}

func (r *userRepo) SoftDelete(ctx context.Context, userID string) error {
	if _, err := uuid.Parse(userID); err != nil {
		return repository.ErrNotFound
	}
	const query = `UPDATE users SET is_active = FALSE, updated_at = now() WHERE id = $1`
	tag, err := r.pool.Exec(ctx, query, userID)
	if err != nil {
		return fmt.Errorf("pg: soft delete user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}
