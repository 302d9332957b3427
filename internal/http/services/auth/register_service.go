package auth

import (
	"context"
	"fmt"

	"github.com/dropDatabas3/hellodiary/internal/audit"
	"github.com/dropDatabas3/hellodiary/internal/domain/repository"
	dto "github.com/dropDatabas3/hellodiary/internal/http/dto/auth"
	"github.com/dropDatabas3/hellodiary/internal/metrics"
	"github.com/dropDatabas3/hellodiary/internal/observability/logger"
	"github.com/dropDatabas3/hellodiary/internal/security/password"
	"github.com/dropDatabas3/hellodiary/internal/validation"
)

type registerService struct {
	users  repository.UserRepository
	hash   password.Params
	policy password.Policy
}

func NewRegisterService(d Deps) RegisterService {
	return &registerService{users: d.Users, hash: d.Hash, policy: d.Policy}
}

// Register valida, chequea unicidad (incluye cuentas inactivas), hashea y
// crea la identidad. El índice único del store decide en caso de carrera.
func (s *registerService) Register(ctx context.Context, in dto.RegisterRequest) (*repository.User, error) {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("auth.register"),
		logger.Op("Register"),
	)

	reg := validation.Registration{
		Username:  in.Username,
		Email:     in.Email,
		Password:  in.Password,
		Password2: in.Password2,
	}
	reg.Normalize()
	if err := reg.Validate(s.policy); err != nil {
		metrics.RecordRegistration(metrics.ResultInvalid)
		return nil, err
	}

	errs := validation.Errors{}
	taken, err := s.users.ExistsUsername(ctx, reg.Username)
	if err != nil {
		return nil, fmt.Errorf("exists username: %w", err)
	}
	if taken {
		errs.Add(validation.FieldUsername, validation.MsgUsernameTaken)
	}
	taken, err = s.users.ExistsEmail(ctx, reg.Email)
	if err != nil {
		return nil, fmt.Errorf("exists email: %w", err)
	}
	if taken {
		errs.Add(validation.FieldEmail, validation.MsgEmailTaken)
	}
	if err := errs.Err(); err != nil {
		metrics.RecordRegistration(metrics.ResultInvalid)
		return nil, err
	}

	phc, err := password.Hash(s.hash, reg.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u, err := s.users.Create(ctx, repository.CreateUserInput{
		Username:     reg.Username,
		Email:        reg.Email,
		PasswordHash: phc,
	})
	if repository.IsConflict(err) {
		metrics.RecordRegistration(metrics.ResultInvalid)
		log.Info("register lost uniqueness race", logger.Username(reg.Username))
		return nil, ErrDuplicateIdentity
	}
	if err != nil {
		metrics.RecordRegistration(metrics.ResultError)
		return nil, fmt.Errorf("create user: %w", err)
	}

	metrics.RecordRegistration(metrics.ResultSuccess)
	audit.Log(ctx, audit.EventUserRegistered, logger.UserID(u.ID), logger.Username(u.Username), logger.Email(u.Email))
	return u, nil
}
