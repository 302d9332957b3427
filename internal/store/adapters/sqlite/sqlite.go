// Package sqlite implementa el adapter SQLite (modernc, sin cgo).
// Pensado para desarrollo local y tests; producción usa adapters/pg.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/pressly/goose/v3"
	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"

	"github.com/dropDatabas3/hellodiary/internal/domain/repository"
	"github.com/dropDatabas3/hellodiary/internal/store"
	"github.com/dropDatabas3/hellodiary/migrations"
)

func init() {
	store.RegisterAdapter(&sqliteAdapter{})
}

const pragmas = "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"

type sqliteAdapter struct{}

func (a *sqliteAdapter) Name() string { return "sqlite" }

func (a *sqliteAdapter) Connect(ctx context.Context, cfg store.AdapterConfig) (store.AdapterConnection, error) {
	db, err := Open(ctx, cfg.DSN)
	if err != nil {
		return nil, err
	}
	return New(db), nil
}

// Open abre la base SQLite en path. ":memory:" usa una única conexión para que
// todas las queries vean la misma base.
func Open(ctx context.Context, path string) (*sql.DB, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("sqlite: storage path is required")
	}

	memory := path == ":memory:"
	dsn := buildDSN(path)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open: %w", err)
	}
	if memory {
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite: ping: %w", err)
	}
	return db, nil
}

func buildDSN(path string) string {
	if path == ":memory:" {
		return "file::memory:?" + pragmas
	}
	if strings.Contains(path, "?") {
		return path + "&" + pragmas
	}
	return path + "?" + pragmas
}

// Conn implementa store.AdapterConnection sobre *sql.DB.
type Conn struct {
	db       *sql.DB
	users    *userRepo
	diaries  *diaryRepo
	denylist *denylistRepo
}

// New envuelve un *sql.DB ya abierto (tests con sqlmock o archivos temporales).
func New(db *sql.DB) *Conn {
	return &Conn{
		db:       db,
		users:    &userRepo{db: db},
		diaries:  &diaryRepo{db: db},
		denylist: &denylistRepo{db: db},
	}
}

func (c *Conn) Name() string { return "sqlite" }

func (c *Conn) Ping(ctx context.Context) error { return c.db.PingContext(ctx) }

func (c *Conn) Close() error { return c.db.Close() }

func (c *Conn) Migrate(ctx context.Context) error {
	_, err := store.RunMigrations(ctx, c.db, goose.DialectSQLite3, migrations.SQLiteDir)
	return err
}

// DB expone el *sql.DB para el collector de métricas.
func (c *Conn) DB() *sql.DB { return c.db }

func (c *Conn) Users() repository.UserRepository { return c.users }
func (c *Conn) Diaries() repository.DiaryRepository { return c.diaries }
func (c *Conn) Denylist() repository.DenylistRepository { return c.denylist }

// ─── Helpers ───

// toMillis normaliza timestamps a milisegundos UTC para almacenamiento.
func toMillis(t time.Time) int64 {
	return t.UTC().UnixMilli()
}

func fromMillis(v int64) time.Time {
	return time.UnixMilli(v).UTC()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// isUniqueViolation detecta violaciones UNIQUE / PRIMARY KEY.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3lib.SQLITE_CONSTRAINT_UNIQUE:
			return true
		}
	}
	return strings.Contains(strings.ToLower(err.Error()), "unique constraint failed")
}

var (
	_ store.AdapterConnection = (*Conn)(nil)
)
