package database

import (
	"embed"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/pressly/goose/v3"
	"github.com/rs/zerolog/log"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

var dialects = map[string]string{
	DriverPostgres: "postgres",
	DriverSQLite:   "sqlite3",
}

// Migrate applies all pending embedded migrations.
func Migrate(db *sqlx.DB, driver string) error {
	dialect, ok := dialects[driver]
	if !ok {
		return fmt.Errorf("no migration dialect for driver %q", driver)
	}

	goose.SetBaseFS(migrationsFS)
	goose.SetLogger(goose.NopLogger())
	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("set migration dialect: %w", err)
	}

	if err := goose.Up(db.DB, "migrations"); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	log.Info().Str("driver", driver).Msg("Migrations applied")
	return nil
}
