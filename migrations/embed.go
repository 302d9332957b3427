// Package migrations embebe las migraciones SQL (formato goose) por dialecto.
package migrations

import "embed"

// FS contiene las migraciones de todos los dialectos.
//
//go:embed postgres/*.sql sqlite/*.sql
var FS embed.FS

// Directorios dentro de FS.
const (
	PostgresDir = "postgres"
	SQLiteDir   = "sqlite"
)
