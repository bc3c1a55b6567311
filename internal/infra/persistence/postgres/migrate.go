package postgres

import (
	"context"
	"database/sql"
	"embed"

	"roster/internal/errors"

	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// runMigrations sets up goose with the embedded migrations and applies any
// pending ones. Goose tracks applied versions in its own table, so running
// this on every start is safe.
func runMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrationsFS)

	if err := goose.SetDialect("postgres"); err != nil {
		return errors.Wrap(err, "failed to set goose dialect")
	}

	if err := goose.UpContext(ctx, db, "migrations"); err != nil {
		return errors.Wrap(err, "failed to apply migrations")
	}

	return nil
}
