package auth

import "github.com/dropDatabas3/hellodiary/internal/domain/repository"

// DateJoinedLayout formatea date_joined como DD-MM-YYYY HH:MM.
const DateJoinedLayout = "02-01-2006 15:04"

// NewUserResponse arma la vista pública de u.
func NewUserResponse(u *repository.User) UserResponse {
	return UserResponse{
		ID:         u.ID,
		Username:   u.Username,
		Email:      u.Email,
		FirstName:  u.FirstName,
		LastName:   u.LastName,
		DateJoined: u.DateJoined.Format(DateJoinedLayout),
	}
}
