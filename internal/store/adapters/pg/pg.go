// Package pg implementa el adapter PostgreSQL usando pgxpool.
package pg

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib" // driver "pgx" para goose
	"github.com/pressly/goose/v3"

	"github.com/dropDatabas3/hellodiary/internal/domain/repository"
	"github.com/dropDatabas3/hellodiary/internal/store"
	"github.com/dropDatabas3/hellodiary/migrations"
)

func init() {
	store.RegisterAdapter(&postgresAdapter{})
}

// uniqueViolation es el SQLSTATE 23505.
const uniqueViolation = "23505"

type postgresAdapter struct{}

func (a *postgresAdapter) Name() string { return "postgres" }

func (a *postgresAdapter) Connect(ctx context.Context, cfg store.AdapterConfig) (store.AdapterConnection, error) {
	if cfg.DSN == "" {
		return nil, fmt.Errorf("pg: dsn is required")
	}

	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("pg: parse dsn: %w", err)
	}
	if cfg.MaxOpenConns > 0 {
		poolCfg.MaxConns = int32(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		poolCfg.MinConns = int32(cfg.MaxIdleConns)
	}
	poolCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("pg: connect: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pg: ping: %w", err)
	}

	return &pgConnection{
		dsn:      cfg.DSN,
		pool:     pool,
		users:    &userRepo{pool: pool},
		diaries:  &diaryRepo{pool: pool},
		denylist: &denylistRepo{pool: pool},
	}, nil
}

type pgConnection struct {
	dsn      string
	pool     *pgxpool.Pool
	users    *userRepo
	diaries  *diaryRepo
	denylist *denylistRepo
}

func (c *pgConnection) Name() string { return "postgres" }

func (c *pgConnection) Ping(ctx context.Context) error { return c.pool.Ping(ctx) }

func (c *pgConnection) Close() error {
	c.pool.Close()
	return nil
}

// Migrate abre un *sql.DB efímero (driver pgx) solo para goose.
func (c *pgConnection) Migrate(ctx context.Context) error {
	db, err := sql.Open("pgx", c.dsn)
	if err != nil {
		return fmt.Errorf("pg: open for migrations: %w", err)
	}
	defer db.Close()

	_, err = store.RunMigrations(ctx, db, goose.DialectPostgres, migrations.PostgresDir)
	return err
}

// Pool expone el pool para el collector de métricas.
func (c *pgConnection) Pool() *pgxpool.Pool { return c.pool }

func (c *pgConnection) Users() repository.UserRepository { return c.users }
func (c *pgConnection) Diaries() repository.DiaryRepository { return c.diaries }
func (c *pgConnection) Denylist() repository.DenylistRepository { return c.denylist }

// ─── Helpers ───

// isUniqueViolation detecta 23505 (unique_violation).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

var _ store.AdapterConnection = (*pgConnection)(nil)
