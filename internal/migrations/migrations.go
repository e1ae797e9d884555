package migrations

import (
	"database/sql"
	_ "embed"

	"github.com/DevBigEazi/circlepot-indexer/internal/db"
	"github.com/DevBigEazi/circlepot-indexer/internal/logger"
)

//go:embed 001_initial.sql
var mig0001 string

func all() []db.Migration {
	return []db.Migration{
		{
			ID:  "001_initial.sql",
			SQL: mig0001,
		},
	}
}

// RunMigrations runs all migrations against the database at the given path.
func RunMigrations(dbPath string) error {
	return db.RunMigrations(dbPath, all())
}

// RunMigrationsDB runs all migrations on an already-open database.
func RunMigrationsDB(log *logger.Logger, database *sql.DB) error {
	return db.RunMigrationsDB(log, database, all())
}
