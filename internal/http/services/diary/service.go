// Package diary expone la lectura de un diario restringida a su dueño.
package diary

import (
	"context"
	"errors"
	"fmt"

	"github.com/dropDatabas3/hellodiary/internal/audit"
	"github.com/dropDatabas3/hellodiary/internal/domain/repository"
	"github.com/dropDatabas3/hellodiary/internal/observability/logger"
	"github.com/dropDatabas3/hellodiary/internal/security/authz"
)

var ErrDiaryNotFound = errors.New("diary not found")

// Service define la lectura de diarios.
type Service interface {
	// GetOwned devuelve el diario si identityID es su dueño.
	// Orden de chequeo: existencia (ErrDiaryNotFound) y luego dueño (authz.ErrForbidden).
	GetOwned(ctx context.Context, diaryID int64, identityID string) (*repository.Diary, error)
}

type Deps struct {
	Diaries repository.DiaryRepository
}

type service struct {
	diaries repository.DiaryRepository
}

func NewService(d Deps) Service {
	return &service{diaries: d.Diaries}
}

func (s *service) GetOwned(ctx context.Context, diaryID int64, identityID string) (*repository.Diary, error) {
	d, err := s.diaries.GetWithOwner(ctx, diaryID)
	if repository.IsNotFound(err) {
		return nil, ErrDiaryNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get diary: %w", err)
	}

	if err := authz.CheckOwnership(d.OwnerID, identityID); err != nil {
		audit.Log(ctx, audit.EventDiaryAccessDenied, logger.UserID(identityID), logger.DiaryID(diaryID))
		return nil, err
	}
	return d, nil
}
