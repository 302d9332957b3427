package auth

import (
	"context"
	"fmt"
	"strings"

	"github.com/dropDatabas3/hellodiary/internal/audit"
	"github.com/dropDatabas3/hellodiary/internal/domain/repository"
	"github.com/dropDatabas3/hellodiary/internal/observability/logger"
)

type deleteService struct {
	users  repository.UserRepository
	tokens Tokens
}

func NewDeleteService(d Deps) DeleteService {
	return &deleteService{users: d.Users, tokens: d.Tokens}
}

// Delete desactiva la cuenta. El refresh token es opcional: si falta o es
// inválido la baja sigue adelante.
func (s *deleteService) Delete(ctx context.Context, userID, refresh string) error {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("auth.delete"),
		logger.Op("Delete"),
		logger.UserID(userID),
	)

	err := s.users.SoftDelete(ctx, userID)
	if repository.IsNotFound(err) {
		return ErrUserNotFound
	}
	if err != nil {
		return fmt.Errorf("soft delete: %w", err)
	}
	audit.Log(ctx, audit.EventUserDeactivated, logger.UserID(userID))

	if strings.TrimSpace(refresh) == "" {
		return nil
	}
	claims, err := s.tokens.VerifyRefresh(ctx, refresh)
	if err != nil {
		log.Debug("refresh not revoked on delete", logger.Err(err))
		return nil
	}
	if claims.Subject != userID {
		log.Warn("delete with foreign refresh token", logger.TokenID(claims.ID))
		return nil
	}
	if _, err := s.tokens.Revoke(ctx, refresh, repository.RevokeReasonAccountDeleted); err != nil {
		log.Debug("refresh not revoked on delete", logger.Err(err))
	}
	return nil
}
