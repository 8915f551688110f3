package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/phrazzld/todo-api/internal/config"
	"github.com/phrazzld/todo-api/internal/platform/migrate"
	"github.com/phrazzld/todo-api/internal/platform/postgres"
	"github.com/phrazzld/todo-api/internal/platform/sqlite"
	"github.com/phrazzld/todo-api/internal/redact"
)

// Database drivers accepted in database.driver.
const (
	driverMemory   = "memory"
	driverPostgres = "postgres"
	driverSQLite   = "sqlite"
)

// errNoSQLDatabase is returned when a SQL-only operation runs against the memory driver.
var errNoSQLDatabase = errors.New("the memory driver has no SQL database")

// openAppDatabase connects to the SQL database selected by cfg and returns
// the migration set matching its dialect.
func openAppDatabase(
	ctx context.Context,
	cfg config.DatabaseConfig,
	logger *slog.Logger,
) (*sql.DB, migrate.Source, error) {
	switch cfg.Driver {
	case driverPostgres:
		db, err := postgres.Open(ctx, cfg.URL, logger)
		if err != nil {
			return nil, migrate.Source{}, fmt.Errorf("failed to open postgres database: %w", err)
		}
		return db, postgres.Migrations(), nil
	case driverSQLite:
		db, err := sqlite.Open(ctx, cfg.URL, logger)
		if err != nil {
			return nil, migrate.Source{}, fmt.Errorf("failed to open sqlite database: %w", err)
		}
		return db, sqlite.Migrations(), nil
	case driverMemory:
		return nil, migrate.Source{}, errNoSQLDatabase
	default:
		return nil, migrate.Source{}, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

// closeDatabase closes db, logging rather than returning any failure.
func closeDatabase(db *sql.DB, logger *slog.Logger) {
	if db == nil {
		return
	}
	if err := db.Close(); err != nil {
		logger.Error("error closing database connection", redact.ErrorAttr(err))
	}
}
