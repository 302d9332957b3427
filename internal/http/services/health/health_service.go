// Package health contiene el service para health checks.
package health

import (
	"context"
	"fmt"
	"time"

	dto "github.com/dropDatabas3/hellodiary/internal/http/dto/health"
	"github.com/dropDatabas3/hellodiary/internal/observability/logger"
)

// Estados agregados de /readyz.
const (
	StatusReady       = "ready"
	StatusDegraded    = "degraded"
	StatusUnavailable = "unavailable"
)

// HealthService define las operaciones de health check.
type HealthService interface {
	Check(ctx context.Context) dto.HealthResponse
}

// Pinger lo implementan store.AdapterConnection y cache.Client.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Deps contiene las dependencias inyectables para el health service.
type Deps struct {
	Store   Pinger // crítico
	Cache   Pinger // no crítico: el denylist del store sigue siendo la fuente de verdad
	KID     string
	Version string
	Timeout time.Duration // por componente; default 2s
}

type healthService struct {
	deps Deps
}

// NewHealthService crea un nuevo service de health check.
func NewHealthService(deps Deps) HealthService {
	if deps.Timeout <= 0 {
		deps.Timeout = 2 * time.Second
	}
	return &healthService{deps: deps}
}

const componentHealth = "health"

func (s *healthService) Check(ctx context.Context) dto.HealthResponse {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component(componentHealth),
		logger.Op("Check"),
	)

	response := dto.HealthResponse{
		Components:  make(map[string]dto.HealthStatus),
		Version:     s.deps.Version,
		ActiveKeyID: s.deps.KID,
		Timestamp:   time.Now().UTC(),
	}

	hasErrors := false
	hasCriticalErrors := false

	// 1) Store (crítico)
	if st, ok := s.ping(ctx, s.deps.Store); !ok {
		response.Components["store"] = st
		hasCriticalErrors = true
		log.Error("store unavailable", logger.Reason(st.Message))
	} else {
		response.Components["store"] = st
	}

	// 2) Cache (no crítico)
	if st, ok := s.ping(ctx, s.deps.Cache); !ok {
		response.Components["cache"] = st
		hasErrors = true
		log.Warn("cache unavailable", logger.Reason(st.Message))
	} else {
		response.Components["cache"] = st
	}

	// 3) Keystore
	if s.deps.KID == "" {
		response.Components["keystore"] = dto.HealthStatus{Status: "error", Message: "no active key"}
		hasCriticalErrors = true
	} else {
		response.Components["keystore"] = dto.HealthStatus{Status: "ok"}
	}

	switch {
	case hasCriticalErrors:
		response.Status = StatusUnavailable
	case hasErrors:
		response.Status = StatusDegraded
	default:
		response.Status = StatusReady
	}
	return response
}

// ping devuelve el estado del componente y si está sano. nil = "disabled".
func (s *healthService) ping(ctx context.Context, p Pinger) (dto.HealthStatus, bool) {
	if p == nil {
		return dto.HealthStatus{Status: "disabled"}, true
	}
	pctx, cancel := context.WithTimeout(ctx, s.deps.Timeout)
	defer cancel()
	if err := p.Ping(pctx); err != nil {
		return dto.HealthStatus{Status: "error", Message: fmt.Sprintf("unavailable: %v", err)}, false
	}
	return dto.HealthStatus{Status: "ok"}, true
}
