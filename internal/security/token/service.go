// Package token emite, verifica y revoca el par access/refresh.
//
// La revocación se persiste en el denylist del store; un cache positivo
// (memoria o redis) recuerda los jti revocados hasta su expiración natural.
package token

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/dropDatabas3/hellodiary/internal/cache"
	"github.com/dropDatabas3/hellodiary/internal/domain/repository"
	"github.com/dropDatabas3/hellodiary/internal/jwt"
	"github.com/dropDatabas3/hellodiary/internal/metrics"
	"github.com/dropDatabas3/hellodiary/internal/observability/logger"
)

var (
	ErrTokenMissing  = errors.New("token missing")
	ErrTokenInvalid  = errors.New("token invalid")
	ErrTokenExpired  = errors.New("token expired")
	ErrTokenRevoked  = errors.New("token revoked")
	ErrInactiveOwner = errors.New("token owner missing or inactive")
)

const revokedKeyPrefix = "revoked:"

// Pair es el resultado de un login.
type Pair struct {
	Access           string
	Refresh          string
	AccessExpiresAt  time.Time
	RefreshExpiresAt time.Time
}

// Deps agrupa las dependencias del servicio.
type Deps struct {
	Issuer   *jwt.Issuer
	Denylist repository.DenylistRepository
	Users    repository.UserRepository
	Cache    cache.Client // opcional
}

type Service struct {
	issuer   *jwt.Issuer
	denylist repository.DenylistRepository
	users    repository.UserRepository
	cache    cache.Client
	sf       singleflight.Group
	now      func() time.Time
}

func NewService(d Deps) *Service {
	return &Service{
		issuer:   d.Issuer,
		denylist: d.Denylist,
		users:    d.Users,
		cache:    d.Cache,
		now:      time.Now,
	}
}

// Issue emite un par nuevo para userID. Cada token lleva su propio jti.
func (s *Service) Issue(ctx context.Context, userID string) (*Pair, error) {
	access, ac, err := s.issuer.Issue(userID, jwt.TypeAccess)
	if err != nil {
		return nil, fmt.Errorf("sign access: %w", err)
	}
	refresh, rc, err := s.issuer.Issue(userID, jwt.TypeRefresh)
	if err != nil {
		return nil, fmt.Errorf("sign refresh: %w", err)
	}
	return &Pair{
		Access:           access,
		Refresh:          refresh,
		AccessExpiresAt:  ac.ExpiresAt.Time,
		RefreshExpiresAt: rc.ExpiresAt.Time,
	}, nil
}

// VerifyAccess valida firma, expiración y tipo de un access token.
func (s *Service) VerifyAccess(ctx context.Context, raw string) (*jwt.Claims, error) {
	return s.parse(raw, jwt.TypeAccess)
}

// VerifyRefresh valida un refresh token y consulta el denylist.
func (s *Service) VerifyRefresh(ctx context.Context, raw string) (*jwt.Claims, error) {
	claims, err := s.parse(raw, jwt.TypeRefresh)
	if err != nil {
		return nil, err
	}
	revoked, err := s.isRevoked(ctx, claims)
	if err != nil {
		return nil, fmt.Errorf("denylist lookup: %w", err)
	}
	if revoked {
		return nil, ErrTokenRevoked
	}
	return claims, nil
}

// Revoke agrega el jti del refresh token al denylist. Un jti ya presente se
// reporta como ErrTokenRevoked.
func (s *Service) Revoke(ctx context.Context, raw, reason string) (*jwt.Claims, error) {
	claims, err := s.VerifyRefresh(ctx, raw)
	if err != nil {
		return nil, err
	}

	err = s.denylist.Add(ctx, repository.RevokedToken{
		JTI:       claims.ID,
		UserID:    claims.Subject,
		Reason:    reason,
		RevokedAt: s.now().UTC(),
		ExpiresAt: claims.ExpiresAt.Time,
	})
	if repository.IsConflict(err) {
		s.remember(ctx, claims)
		return nil, ErrTokenRevoked
	}
	if err != nil {
		return nil, fmt.Errorf("denylist add: %w", err)
	}

	s.remember(ctx, claims)
	metrics.RecordTokenRevoked(reason)
	logger.From(ctx).Debug("refresh token revoked",
		logger.Component("token"), logger.UserID(claims.Subject),
		logger.TokenID(claims.ID), logger.Reason(reason))
	return claims, nil
}

// Refresh emite un access nuevo si el refresh es válido, no está revocado y el
// dueño sigue activo.
func (s *Service) Refresh(ctx context.Context, raw string) (string, time.Time, error) {
	claims, err := s.VerifyRefresh(ctx, raw)
	if err != nil {
		return "", time.Time{}, err
	}

	u, err := s.users.GetByID(ctx, claims.Subject)
	if repository.IsNotFound(err) {
		return "", time.Time{}, ErrInactiveOwner
	}
	if err != nil {
		return "", time.Time{}, fmt.Errorf("load owner: %w", err)
	}
	if !u.IsActive {
		return "", time.Time{}, ErrInactiveOwner
	}

	access, ac, err := s.issuer.Issue(u.ID, jwt.TypeAccess)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign access: %w", err)
	}
	return access, ac.ExpiresAt.Time, nil
}

// Prune borra del denylist las entradas vencidas. Una entrada se conserva
// mientras el token todavía pase Parse, es decir hasta exp+Leeway.
func (s *Service) Prune(ctx context.Context, now time.Time) (int64, error) {
	n, err := s.denylist.PruneExpired(ctx, now.Add(-s.leeway()).UTC())
	if err != nil {
		return 0, err
	}
	metrics.RecordDenylistPruned(n)
	return n, nil
}

func (s *Service) leeway() time.Duration {
	if s.issuer == nil {
		return 0
	}
	return s.issuer.Leeway
}

// JWKS devuelve el documento JWKS de la clave activa.
func (s *Service) JWKS() []byte { return s.issuer.Keys.JWKSJSON() }

func (s *Service) parse(raw, typ string) (*jwt.Claims, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, ErrTokenMissing
	}
	claims, err := s.issuer.Parse(raw, typ)
	switch {
	case err == nil:
		return claims, nil
	case errors.Is(err, jwt.ErrExpiredToken):
		return nil, ErrTokenExpired
	default:
		return nil, ErrTokenInvalid
	}
}

// isRevoked consulta el cache y, en miss, el store. Lookups concurrentes del
// mismo jti comparten una sola query.
func (s *Service) isRevoked(ctx context.Context, claims *jwt.Claims) (bool, error) {
	if s.cache != nil {
		ok, err := s.cache.Exists(ctx, revokedKeyPrefix+claims.ID)
		if err == nil && ok {
			return true, nil
		}
		if err != nil {
			logger.From(ctx).Warn("denylist cache lookup failed",
				logger.Component("token"), logger.Err(err))
		}
	}

	v, err, _ := s.sf.Do(claims.ID, func() (any, error) {
		return s.denylist.IsRevoked(ctx, claims.ID)
	})
	if err != nil {
		return false, err
	}
	revoked := v.(bool)
	if revoked {
		s.remember(ctx, claims)
	}
	return revoked, nil
}

// remember cachea el jti revocado hasta exp+Leeway. Los negativos no se
// cachean: una revocación en otro nodo debe verse en la próxima consulta.
func (s *Service) remember(ctx context.Context, claims *jwt.Claims) {
	if s.cache == nil || claims.ExpiresAt == nil {
		return
	}
	ttl := claims.ExpiresAt.Time.Add(s.leeway()).Sub(s.now())
	if ttl <= 0 {
		return
	}
	if err := s.cache.Set(ctx, revokedKeyPrefix+claims.ID, "1", ttl); err != nil {
		logger.From(ctx).Warn("denylist cache set failed",
			logger.Component("token"), logger.Err(err))
	}
}
