package auth

import (
	"context"

	"github.com/dropDatabas3/hellodiary/internal/audit"
	"github.com/dropDatabas3/hellodiary/internal/domain/repository"
	"github.com/dropDatabas3/hellodiary/internal/observability/logger"
	"github.com/dropDatabas3/hellodiary/internal/security/token"
)

type logoutService struct {
	tokens Tokens
}

func NewLogoutService(d Deps) LogoutService {
	return &logoutService{tokens: d.Tokens}
}

func (s *logoutService) Logout(ctx context.Context, userID, refresh string) error {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("auth.logout"),
		logger.Op("Logout"),
		logger.UserID(userID),
	)

	claims, err := s.tokens.VerifyRefresh(ctx, refresh)
	if err != nil {
		return err
	}
	// un usuario no puede revocar refresh tokens ajenos
	if claims.Subject != userID {
		log.Warn("logout with foreign refresh token", logger.TokenID(claims.ID))
		return token.ErrTokenInvalid
	}

	if _, err := s.tokens.Revoke(ctx, refresh, repository.RevokeReasonLogout); err != nil {
		return err
	}
	audit.Log(ctx, audit.EventUserLoggedOut, logger.UserID(userID))
	return nil
}
