// Package server arma el grafo de dependencias HTTP a partir de la config.
package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"

	"github.com/dropDatabas3/hellodiary/internal/cache"
	"github.com/dropDatabas3/hellodiary/internal/config"
	authctrl "github.com/dropDatabas3/hellodiary/internal/http/controllers/auth"
	diaryctrl "github.com/dropDatabas3/hellodiary/internal/http/controllers/diary"
	healthctrl "github.com/dropDatabas3/hellodiary/internal/http/controllers/health"
	mw "github.com/dropDatabas3/hellodiary/internal/http/middlewares"
	"github.com/dropDatabas3/hellodiary/internal/http/router"
	authsvc "github.com/dropDatabas3/hellodiary/internal/http/services/auth"
	diarysvc "github.com/dropDatabas3/hellodiary/internal/http/services/diary"
	healthsvc "github.com/dropDatabas3/hellodiary/internal/http/services/health"
	"github.com/dropDatabas3/hellodiary/internal/jwt"
	"github.com/dropDatabas3/hellodiary/internal/metrics"
	"github.com/dropDatabas3/hellodiary/internal/observability/logger"
	"github.com/dropDatabas3/hellodiary/internal/rate"
	"github.com/dropDatabas3/hellodiary/internal/security/password"
	"github.com/dropDatabas3/hellodiary/internal/security/token"
	"github.com/dropDatabas3/hellodiary/internal/store"
	_ "github.com/dropDatabas3/hellodiary/internal/store/adapters/dal"
)

// Options ajusta el armado sin pasar por la config (tests, versión del build).
type Options struct {
	// Hash de passwords; zero value = password.Default.
	Hash    password.Params
	Version string

	// Registry/Gatherer de métricas; nil = registry global.
	Registry prometheus.Registerer
	Gatherer prometheus.Gatherer
}

// App agrupa el handler y los recursos con ciclo de vida propio.
type App struct {
	Handler http.Handler
	Store   store.AdapterConnection
	Cache   cache.Client
	Tokens  *token.Service
	Keys    *jwt.KeySet

	closers []func() error
}

// Close libera cache y store en orden inverso de apertura.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Build abre store y cache, arma servicios, controllers y router.
func Build(ctx context.Context, cfg *config.Config, opts Options) (*App, error) {
	log := logger.From(ctx).With(logger.Component("wiring"))
	app := &App{}

	// 1. Store
	conn, err := OpenStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	app.Store = conn
	app.closers = append(app.closers, conn.Close)

	// 2. Cache (+ cliente redis compartido con el rate limiter)
	cc, rdb, err := openCache(ctx, cfg)
	if err != nil {
		_ = app.Close()
		return nil, err
	}
	app.Cache = cc
	app.closers = append(app.closers, cc.Close)

	// 3. Keys & Issuer
	keys, err := LoadKeys(cfg)
	if err != nil {
		_ = app.Close()
		return nil, err
	}
	if cfg.JWT.SigningSeed == "" {
		log.Warn("jwt.signing_seed empty: using ephemeral signing key")
	}
	app.Keys = keys

	issuer := jwt.NewIssuer(cfg.JWT.Issuer, keys)
	issuer.AccessTTL = cfg.JWT.AccessTTL
	issuer.RefreshTTL = cfg.JWT.RefreshTTL
	issuer.Leeway = cfg.JWT.Leeway

	app.Tokens = token.NewService(token.Deps{
		Issuer:   issuer,
		Denylist: conn.Denylist(),
		Users:    conn.Users(),
		Cache:    cc,
	})

	// 4. Services
	policy, err := loadPolicy(cfg)
	if err != nil {
		_ = app.Close()
		return nil, err
	}
	hash := opts.Hash
	if hash == (password.Params{}) {
		hash = password.Default
	}

	authServices := authsvc.NewServices(authsvc.Deps{
		Users:  conn.Users(),
		Tokens: app.Tokens,
		Hash:   hash,
		Policy: policy,
	})
	diaryService := diarysvc.NewService(diarysvc.Deps{Diaries: conn.Diaries()})
	healthServices := healthsvc.NewServices(healthsvc.Deps{
		Store:   conn,
		Cache:   cc,
		KID:     keys.KID,
		Version: opts.Version,
	})

	// 5. Metrics
	var metricsHandler http.Handler
	if cfg.Observability.MetricsEnabled {
		mcfg := metrics.Config{Registry: opts.Registry, Gatherer: opts.Gatherer}
		switch c := conn.(type) {
		case interface{ Pool() *pgxpool.Pool }:
			mcfg.PgPool = c.Pool
		case interface{ DB() *sql.DB }:
			mcfg.SQLDB = c.DB()
		}
		metricsHandler, err = metrics.Register(mcfg)
		if err != nil {
			_ = app.Close()
			return nil, fmt.Errorf("metrics: %w", err)
		}
	}

	// 6. Router
	proxies, err := mw.ParseTrustedProxies(cfg.Server.TrustedProxies)
	if err != nil {
		_ = app.Close()
		return nil, err
	}

	deps := router.Deps{
		BasePath:       cfg.Server.BasePath,
		TrustedProxies: proxies,
		Auth:           authctrl.NewControllers(authServices),
		Diary:          diaryctrl.NewDiaryController(diaryService),
		Health:         healthctrl.NewControllers(healthServices),
		JWKS:           healthctrl.NewJWKSController(app.Tokens.JWKS()),
		Metrics:        metricsHandler,
		Tokens:         app.Tokens,
		Users:          conn.Users(),
	}
	if cfg.Rate.Enabled {
		deps.LoginLimiter = newLimiter(rdb, cfg.Cache.Prefix+":rl:login:", cfg.Rate.Login.Limit, cfg.Rate.Login.Window)
		deps.RegisterLimiter = newLimiter(rdb, cfg.Cache.Prefix+":rl:register:", cfg.Rate.Register.Limit, cfg.Rate.Register.Window)
	}
	app.Handler = router.New(deps)

	log.Info("http handler ready",
		logger.String("storage", conn.Name()),
		logger.String("cache", cc.Driver()),
		logger.String("kid", keys.KID),
		logger.String("base_path", cfg.Server.BasePath),
	)
	return app, nil
}

// OpenStore abre el adapter configurado y, si corresponde, migra.
func OpenStore(ctx context.Context, cfg *config.Config) (store.AdapterConnection, error) {
	conn, err := store.OpenAdapter(ctx, store.AdapterConfig{
		Name:         cfg.Storage.Driver,
		DSN:          cfg.Storage.DSN,
		MaxOpenConns: cfg.Storage.MaxOpenConns,
		MaxIdleConns: cfg.Storage.MaxIdleConns,
	})
	if err != nil {
		return nil, fmt.Errorf("store: %w", err)
	}
	if cfg.Storage.AutoMigrate {
		if err := conn.Migrate(ctx); err != nil {
			_ = conn.Close()
			return nil, fmt.Errorf("store: %w", err)
		}
	}
	return conn, nil
}

// LoadKeys usa el seed configurado o genera una clave efímera (dev).
func LoadKeys(cfg *config.Config) (*jwt.KeySet, error) {
	if cfg.JWT.SigningSeed != "" {
		ks, err := jwt.NewEd25519FromSeed(cfg.JWT.KID, cfg.JWT.SigningSeed)
		if err != nil {
			return nil, fmt.Errorf("jwt: signing seed: %w", err)
		}
		return ks, nil
	}
	return jwt.NewDevEd25519(cfg.JWT.KID)
}

func openCache(ctx context.Context, cfg *config.Config) (cache.Client, *redis.Client, error) {
	ccfg := cache.Config{
		Driver:   cfg.Cache.Kind,
		Addr:     cfg.Cache.Redis.Addr,
		Password: cfg.Cache.Redis.Password,
		DB:       cfg.Cache.Redis.DB,
		Prefix:   cfg.Cache.Prefix,
	}
	if ccfg.Driver != "redis" {
		cc, err := cache.New(ctx, ccfg)
		return cc, nil, err
	}
	rdb, err := cache.Dial(ctx, ccfg)
	if err != nil {
		return nil, nil, err
	}
	return cache.NewRedisFromClient(rdb, ccfg.Prefix), rdb, nil
}

func newLimiter(rdb *redis.Client, prefix string, limit int, window time.Duration) rate.Limiter {
	if rdb != nil {
		return rate.NewRedisLimiter(rdb, prefix, limit, window)
	}
	return rate.NewMemoryLimiter(limit, window)
}

func loadPolicy(cfg *config.Config) (password.Policy, error) {
	sec := cfg.Security
	p := password.Policy{
		MinLength:     sec.PasswordMinLength,
		RequireUpper:  sec.PasswordRequireUpper,
		RequireLower:  sec.PasswordRequireLower,
		RequireDigit:  sec.PasswordRequireDigit,
		RequireSymbol: sec.PasswordRequireSymbol,
	}
	if path := sec.PasswordBlacklistPath; path != "" {
		bl, err := password.LoadBlacklist(path)
		if err != nil {
			return p, fmt.Errorf("password blacklist: %w", err)
		}
		p.Blacklist = bl
	}
	return p, nil
}
