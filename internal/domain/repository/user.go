package repository

import (
	"context"
	"time"
)

// User es la identidad (cuenta) del sistema.
// Nunca se borra físicamente: la baja es IsActive=false.
type User struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string
	FirstName    string
	LastName     string
	IsActive     bool
	IsStaff      bool
	DateJoined   time.Time
	UpdatedAt    time.Time
}

// CreateUserInput contiene los datos para crear un usuario.
// PasswordHash ya viene hasheado; el repositorio nunca ve el password plano.
type CreateUserInput struct {
	Username     string
	Email        string
	PasswordHash string
	FirstName    string
	LastName     string
	IsStaff      bool
}

// UpdateProfileInput contiene los campos actualizables. nil = no tocar.
type UpdateProfileInput struct {
	Email     *string
	FirstName *string
	LastName  *string
}

// UserRepository define operaciones sobre usuarios.
type UserRepository interface {
	// Create inserta un usuario nuevo (activo).
	// Retorna ErrConflict si username o email ya existen, incluso en cuentas inactivas.
	Create(ctx context.Context, in CreateUserInput) (*User, error)

	// GetByID busca un usuario por ID sin filtrar por estado.
	// Retorna ErrNotFound si no existe.
	GetByID(ctx context.Context, id string) (*User, error)

	// GetByEmail busca un usuario por email sin filtrar por estado.
	// Retorna ErrNotFound si no existe.
	GetByEmail(ctx context.Context, email string) (*User, error)

	// GetByUsername busca un usuario por username.
	GetByUsername(ctx context.Context, username string) (*User, error)

	// ExistsUsername / ExistsEmail consideran también cuentas inactivas.
	ExistsUsername(ctx context.Context, username string) (bool, error)
	ExistsEmail(ctx context.Context, email string) (bool, error)

	// EmailTakenByOther reporta si el email pertenece a otro usuario distinto de userID.
	EmailTakenByOther(ctx context.Context, email, userID string) (bool, error)

	// UpdateProfile aplica los cambios y retorna el usuario actualizado.
	// Retorna ErrConflict si el email colisiona, ErrNotFound si no existe.
	UpdateProfile(ctx context.Context, userID string, in UpdateProfileInput) (*User, error)

	// SoftDelete marca is_active=false. Es idempotente.
	// Retorna ErrNotFound si el usuario no existe.
	SoftDelete(ctx context.Context, userID string) error
}
