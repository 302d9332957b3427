package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dropDatabas3/hellodiary/internal/domain/repository"
)

type diaryRepo struct{ db *sql.DB }

func (r *diaryRepo) GetWithOwner(ctx context.Context, id int64) (*repository.Diary, error) {
	const query = `
		SELECT d.id, d.owner_id, u.username, d.title, d.created_at, d.updated_at
		FROM diaries d
		JOIN users u ON u.id = d.owner_id
		WHERE d.id = ?`

	var (
		d                    repository.Diary
		createdAt, updatedAt int64
	)
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&d.ID, &d.OwnerID, &d.OwnerUsername, &d.Title, &createdAt, &updatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("sqlite: get diary: %w", err)
	}
	d.CreatedAt = fromMillis(createdAt)
	d.UpdatedAt = fromMillis(updatedAt)
	return &d, nil
}

func (r *diaryRepo) Create(ctx context.Context, in repository.CreateDiaryInput) (*repository.Diary, error) {
	now := toMillis(time.Now())
	const query = `INSERT INTO diaries (owner_id, title, created_at, updated_at) VALUES (?, ?, ?, ?)`

	res, err := r.db.ExecContext(ctx, query, in.OwnerID, in.Title, now, now)
	if err != nil {
		return nil, fmt.Errorf("sqlite: create diary: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("sqlite: create diary: %w", err)
	}
	return r.GetWithOwner(ctx, id)
}

func (r *diaryRepo) ListByOwner(ctx context.Context, ownerID string) ([]repository.Diary, error) {
	const query = `
		SELECT d.id, d.owner_id, u.username, d.title, d.created_at, d.updated_at
		FROM diaries d
		JOIN users u ON u.id = d.owner_id
		WHERE d.owner_id = ?
		ORDER BY d.created_at DESC, d.id DESC`

	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("sqlite: list diaries: %w", err)
	}
	defer rows.Close()

	var out []repository.Diary
	for rows.Next() {
		var (
			d                    repository.Diary
			createdAt, updatedAt int64
		)
		if err := rows.Scan(&d.ID, &d.OwnerID, &d.OwnerUsername, &d.Title, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("sqlite: scan diary: %w", err)
		}
		d.CreatedAt = fromMillis(createdAt)
		d.UpdatedAt = fromMillis(updatedAt)
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: list diaries: %w", err)
	}
	return out, nil
}
