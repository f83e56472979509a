// Package migrations embeds SQL migration files into the binary.
//
// This allows the server to run migrations without needing the SQL files
// present on the filesystem - they're compiled into the executable.
package migrations

import "embed"

//go:embed *.sql
var migrationsFS embed.FS

// Files returns the embedded migration files for database.Migrate.
func Files() embed.FS {
	return migrationsFS
}
