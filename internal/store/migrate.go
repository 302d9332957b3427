package store

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"

	"github.com/pressly/goose/v3"

	"github.com/dropDatabas3/hellodiary/internal/observability/logger"
	"github.com/dropDatabas3/hellodiary/migrations"
)

// MigrationResult resume una corrida de migraciones.
type MigrationResult struct {
	Applied []int64
	Version int64
}

// RunMigrations aplica las migraciones goose del directorio dir (dentro de
// migrations.FS) sobre db. Usa un Provider propio en vez del estado global de
// goose para que varias bases puedan migrarse en paralelo (tests).
func RunMigrations(ctx context.Context, db *sql.DB, dialect goose.Dialect, dir string) (*MigrationResult, error) {
	fsys, err := fs.Sub(migrations.FS, dir)
	if err != nil {
		return nil, fmt.Errorf("migrate: sub fs %q: %w", dir, err)
	}

	p, err := goose.NewProvider(dialect, db, fsys)
	if err != nil {
		return nil, fmt.Errorf("migrate: new provider: %w", err)
	}

	results, err := p.Up(ctx)
	if err != nil {
		return nil, fmt.Errorf("migrate: up: %w", err)
	}

	out := &MigrationResult{Applied: make([]int64, 0, len(results))}
	for _, r := range results {
		if r.Source != nil {
			out.Applied = append(out.Applied, r.Source.Version)
		}
	}

	v, err := p.GetDBVersion(ctx)
	if err != nil {
		return nil, fmt.Errorf("migrate: db version: %w", err)
	}
	out.Version = v

	if len(out.Applied) > 0 {
		logger.From(ctx).Info("migrations applied",
			logger.Component("store"),
			logger.Count(len(out.Applied)),
			logger.Any("version", v),
		)
	}
	return out, nil
}
