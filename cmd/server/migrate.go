package main

import (
	"context"
	"fmt"
	"io"

	"github.com/phrazzld/todo-api/internal/platform/migrate"
)

// runMigrate executes a migration command against the configured SQL database.
// For the version command the current version is also written to out.
func runMigrate(ctx context.Context, configPath, command string, out io.Writer) error {
	cfg, err := loadAppConfig(configPath)
	if err != nil {
		return err
	}

	log, err := setupAppLogger(cfg)
	if err != nil {
		return err
	}

	db, src, err := openAppDatabase(ctx, cfg.Database, log)
	if err != nil {
		return fmt.Errorf("cannot run migrations: %w", err)
	}
	defer closeDatabase(db, log)

	if err := migrate.Run(ctx, db, src, command, log); err != nil {
		return err
	}

	if command == migrate.CommandVersion {
		version, err := migrate.CurrentVersion(ctx, db, src)
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintf(out, "%d\n", version)
	}
	return nil
}
