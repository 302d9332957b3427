// Package metrics define las métricas Prometheus del servicio. Vive aparte para
// evitar ciclos entre servicios y la capa HTTP.
package metrics

import (
	"database/sql"
	"net/http"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Resultados para las métricas de auth.
const (
	ResultSuccess = "success"
	ResultFailure = "failure"
	ResultInvalid = "invalid"
	ResultError   = "error"
)

var (
	registerOnce sync.Once
	registerErr  error

	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	httpInflight        *prometheus.GaugeVec

	loginsTotal        *prometheus.CounterVec
	registrationsTotal *prometheus.CounterVec
	tokensRevokedTotal *prometheus.CounterVec
	denylistPruned     prometheus.Counter
)

// Config agrupa dependencias para exponer /metrics.
type Config struct {
	Registry prometheus.Registerer
	Gatherer prometheus.Gatherer

	// Opcionales: estadísticas del pool según el driver activo.
	PgPool func() *pgxpool.Pool
	SQLDB  *sql.DB
}

// Register inicializa las métricas (una sola vez por proceso) y devuelve el
// handler para /metrics.
func Register(cfg Config) (http.Handler, error) {
	reg := cfg.Registry
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	registerOnce.Do(func() {
		httpRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Número total de requests procesadas",
		}, []string{"method", "path", "status"})

		httpRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Latencia de los requests HTTP",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path"})

		httpInflight = prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "http_inflight_requests",
			Help: "Requests en vuelo por método y ruta",
		}, []string{"method", "path"})

		loginsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "auth_logins_total",
			Help: "Intentos de login por resultado",
		}, []string{"result"})

		registrationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "auth_registrations_total",
			Help: "Registros por resultado",
		}, []string{"result"})

		tokensRevokedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "auth_tokens_revoked_total",
			Help: "Refresh tokens revocados por motivo",
		}, []string{"reason"})

		denylistPruned = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "denylist_pruned_total",
			Help: "Entradas vencidas eliminadas de la denylist",
		})

		for _, c := range []prometheus.Collector{
			httpRequestsTotal, httpRequestDuration, httpInflight,
			loginsTotal, registrationsTotal, tokensRevokedTotal, denylistPruned,
		} {
			if err := registerCollector(reg, c); err != nil {
				registerErr = err
				return
			}
		}
	})
	if registerErr != nil {
		return nil, registerErr
	}

	if cfg.PgPool != nil {
		if err := registerCollector(reg, newPgPoolCollector(cfg.PgPool)); err != nil {
			return nil, err
		}
	}
	if cfg.SQLDB != nil {
		if err := registerCollector(reg, collectors.NewDBStatsCollector(cfg.SQLDB, "hellodiary")); err != nil {
			return nil, err
		}
	}

	if cfg.Gatherer != nil {
		return promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{}), nil
	}
	return promhttp.Handler(), nil
}

// registerCollector registra el collector ignorando duplicados.
func registerCollector(reg prometheus.Registerer, c prometheus.Collector) error {
	if err := reg.Register(c); err != nil {
		if _, ok := err.(prometheus.AlreadyRegisteredError); ok {
			return nil
		}
		return err
	}
	return nil
}

// ─── Recorders (no-op si Register no se llamó) ───

func ObserveHTTP(method, path string, status int, d time.Duration) {
	if httpRequestsTotal == nil {
		return
	}
	httpRequestDuration.WithLabelValues(method, path).Observe(d.Seconds())
	httpRequestsTotal.WithLabelValues(method, path, statusLabel(status)).Inc()
}

// Inflight incrementa el gauge y devuelve la función que lo decrementa.
func Inflight(method, path string) func() {
	if httpInflight == nil {
		return func() {}
	}
	g := httpInflight.WithLabelValues(method, path)
	g.Inc()
	return g.Dec
}

func RecordLogin(result string) {
	if loginsTotal != nil {
		loginsTotal.WithLabelValues(result).Inc()
	}
}

func RecordRegistration(result string) {
	if registrationsTotal != nil {
		registrationsTotal.WithLabelValues(result).Inc()
	}
}

func RecordTokenRevoked(reason string) {
	if tokensRevokedTotal != nil {
		tokensRevokedTotal.WithLabelValues(reason).Inc()
	}
}

func RecordDenylistPruned(n int64) {
	if denylistPruned != nil && n > 0 {
		denylistPruned.Add(float64(n))
	}
}

// ─── pgxpool collector ───

type pgPoolCollector struct {
	pool func() *pgxpool.Pool

	acquiredDesc *prometheus.Desc
	idleDesc     *prometheus.Desc
	totalDesc    *prometheus.Desc
}

func newPgPoolCollector(pool func() *pgxpool.Pool) *pgPoolCollector {
	return &pgPoolCollector{
		pool:         pool,
		acquiredDesc: prometheus.NewDesc("pg_pool_acquired", "Conexiones adquiridas", nil, nil),
		idleDesc:     prometheus.NewDesc("pg_pool_idle", "Conexiones inactivas", nil, nil),
		totalDesc:    prometheus.NewDesc("pg_pool_total", "Conexiones totales", nil, nil),
	}
}

func (c *pgPoolCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.acquiredDesc
	ch <- c.idleDesc
	ch <- c.totalDesc
}

func (c *pgPoolCollector) Collect(ch chan<- prometheus.Metric) {
	p := c.pool()
	if p == nil {
		return
	}
	stat := p.Stat()
	ch <- prometheus.MustNewConstMetric(c.acquiredDesc, prometheus.GaugeValue, float64(stat.AcquiredConns()))
	ch <- prometheus.MustNewConstMetric(c.idleDesc, prometheus.GaugeValue, float64(stat.IdleConns()))
	ch <- prometheus.MustNewConstMetric(c.totalDesc, prometheus.GaugeValue, float64(stat.TotalConns()))
}
