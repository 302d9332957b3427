package repository

import (
	"context"
	"time"
)

// Diary es un diario con exactamente un dueño (inmutable).
type Diary struct {
	ID            int64
	OwnerID       string
	OwnerUsername string // join con users en la misma consulta
	Title         string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// CreateDiaryInput se usa solo desde el seed.
type CreateDiaryInput struct {
	OwnerID string
	Title   string
}

// DiaryRepository define operaciones sobre diarios.
type DiaryRepository interface {
	// GetWithOwner trae el diario y el username del dueño en un solo round trip.
	// Retorna ErrNotFound si no existe.
	GetWithOwner(ctx context.Context, id int64) (*Diary, error)

	// Create inserta un diario.
	Create(ctx context.Context, in CreateDiaryInput) (*Diary, error)

	// ListByOwner lista los diarios del dueño, más nuevos primero.
	ListByOwner(ctx context.Context, ownerID string) ([]Diary, error)
}
