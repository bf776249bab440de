package adminauth

import "embed"

// MigrationsFS contains SQL migrations for the local stores in a
// dialect-aware layout:
//   - Root files (data/sql/migrations/*.sql) contain PostgreSQL migrations
//   - SQLite overrides live in data/sql/migrations/sqlite/*.sql
//
//go:embed data/sql/migrations
var MigrationsFS embed.FS

// GetMigrationsFS exposes the SQL migration files so host applications can
// register them with their migration runner.
func GetMigrationsFS() embed.FS {
	return MigrationsFS
}
