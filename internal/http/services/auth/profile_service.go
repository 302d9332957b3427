package auth

import (
	"context"
	"fmt"

	"github.com/dropDatabas3/hellodiary/internal/audit"
	"github.com/dropDatabas3/hellodiary/internal/domain/repository"
	dto "github.com/dropDatabas3/hellodiary/internal/http/dto/auth"
	"github.com/dropDatabas3/hellodiary/internal/observability/logger"
	"github.com/dropDatabas3/hellodiary/internal/validation"
)

type profileService struct {
	users repository.UserRepository
}

func NewProfileService(d Deps) ProfileService {
	return &profileService{users: d.Users}
}

// Update aplica un parche parcial. El email debe ser único excluyendo al propio
// usuario.
func (s *profileService) Update(ctx context.Context, userID string, in dto.ProfileUpdateRequest) (*repository.User, error) {
	p := validation.ProfileUpdate{Email: in.Email, FirstName: in.FirstName, LastName: in.LastName}
	p.Normalize()
	if err := p.Validate(); err != nil {
		return nil, err
	}

	if p.Email != nil {
		taken, err := s.users.EmailTakenByOther(ctx, *p.Email, userID)
		if err != nil {
			return nil, fmt.Errorf("email taken check: %w", err)
		}
		if taken {
			return nil, validation.Errors{validation.FieldEmail: {validation.MsgEmailTaken}}
		}
	}

	u, err := s.users.UpdateProfile(ctx, userID, repository.UpdateProfileInput{
		Email:     p.Email,
		FirstName: p.FirstName,
		LastName:  p.LastName,
	})
	switch {
	case repository.IsConflict(err):
		return nil, validation.Errors{validation.FieldEmail: {validation.MsgEmailTaken}}
	case repository.IsNotFound(err):
		return nil, ErrUserNotFound
	case err != nil:
		return nil, fmt.Errorf("update profile: %w", err)
	}

	audit.Log(ctx, audit.EventUserProfileUpdated, logger.UserID(userID))
	return u, nil
}
