package pg

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dropDatabas3/hellodiary/internal/domain/repository"
)

type diaryRepo struct{ pool *pgxpool.Pool }

const diarySelect = `
	SELECT d.id, d.owner_id::text, u.username, d.title, d.created_at, d.updated_at
	FROM diaries d
	JOIN users u ON u.id = d.owner_id`

func (r *diaryRepo) GetWithOwner(ctx context.Context, id int64) (*repository.Diary, error) {
	var d repository.Diary
	err := r.pool.QueryRow(ctx, diarySelect+` WHERE d.id = $1`, id).Scan(
		&d.ID, &d.OwnerID, &d.OwnerUsername, &d.Title, &d.CreatedAt, &d.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("pg: get diary: %w", err)
	}
	return &d, nil
}

func (r *diaryRepo) Create(ctx context.Context, in repository.CreateDiaryInput) (*repository.Diary, error) {
	var id int64
	const query = `INSERT INTO diaries (owner_id, title) VALUES ($1, $2) RETURNING id`
	if err := r.pool.QueryRow(ctx, query, in.OwnerID, in.Title).Scan(&id); err != nil {
		return nil, fmt.Errorf("pg: create diary: %w", err)
	}
	return r.GetWithOwner(ctx, id)
}

func (r *diaryRepo) ListByOwner(ctx context.Context, ownerID string) ([]repository.Diary, error) {
	rows, err := r.pool.Query(ctx, diarySelect+` WHERE d.owner_id = $1 ORDER BY d.created_at DESC, d.id DESC`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("pg: list diaries: %w", err)
	}
	defer rows.Close()

	var out []repository.Diary
	for rows.Next() {
		var d repository.Diary
		if err := rows.Scan(&d.ID, &d.OwnerID, &d.OwnerUsername, &d.Title, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, fmt.Errorf("pg: scan diary: %w", err)
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("pg: list diaries: %w", err)
	}
	return out, nil
}
