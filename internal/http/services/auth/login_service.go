package auth

import (
	"context"
	"fmt"
	"sync"

	"github.com/dropDatabas3/hellodiary/internal/audit"
	"github.com/dropDatabas3/hellodiary/internal/domain/repository"
	dto "github.com/dropDatabas3/hellodiary/internal/http/dto/auth"
	"github.com/dropDatabas3/hellodiary/internal/metrics"
	"github.com/dropDatabas3/hellodiary/internal/observability/logger"
	"github.com/dropDatabas3/hellodiary/internal/security/password"
	"github.com/dropDatabas3/hellodiary/internal/security/token"
	"github.com/dropDatabas3/hellodiary/internal/validation"
)

type loginService struct {
	users  repository.UserRepository
	tokens Tokens
	hash   password.Params

	dummyOnce sync.Once
	dummyHash string
}

func NewLoginService(d Deps) LoginService {
	return &loginService{users: d.Users, tokens: d.Tokens, hash: d.Hash}
}

// dummy devuelve un hash con los mismos parámetros que los reales: un email
// inexistente cuesta lo mismo que un password incorrecto.
func (s *loginService) dummy() string {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = password.Hash(s.hash, "hellodiary-dummy-password")
	})
	return s.dummyHash
}

func (s *loginService) Login(ctx context.Context, in dto.LoginRequest) (*token.Pair, error) {
	email := validation.NormalizeEmail(in.Email)
	errs := validation.Errors{}
	if email == "" {
		errs.Add(validation.FieldEmail, validation.MsgRequired)
	}
	if in.Password == "" {
		errs.Add(validation.FieldPassword, validation.MsgRequired)
	}
	if err := errs.Err(); err != nil {
		return nil, err
	}

	u, err := s.users.GetByEmail(ctx, email)
	if repository.IsNotFound(err) {
		_ = password.Verify(in.Password, s.dummy())
		metrics.RecordLogin(metrics.ResultFailure)
		audit.Log(ctx, audit.EventUserLoginFailed, logger.Email(email), logger.Reason("unknown_email"))
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		metrics.RecordLogin(metrics.ResultError)
		return nil, fmt.Errorf("get user by email: %w", err)
	}

	if !password.Verify(in.Password, u.PasswordHash) {
		metrics.RecordLogin(metrics.ResultFailure)
		audit.Log(ctx, audit.EventUserLoginFailed, logger.UserID(u.ID), logger.Reason("bad_password"))
		return nil, ErrInvalidCredentials
	}
	if !u.IsActive {
		metrics.RecordLogin(metrics.ResultFailure)
		audit.Log(ctx, audit.EventUserLoginFailed, logger.UserID(u.ID), logger.Reason("inactive"))
		return nil, ErrInvalidCredentials
	}

	pair, err := s.tokens.Issue(ctx, u.ID)
	if err != nil {
		metrics.RecordLogin(metrics.ResultError)
		return nil, fmt.Errorf("issue tokens: %w", err)
	}

	metrics.RecordLogin(metrics.ResultSuccess)
	audit.Log(ctx, audit.EventUserLoggedIn, logger.UserID(u.ID), logger.Username(u.Username))
	return pair, nil
}
