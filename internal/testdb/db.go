package testdb

import (
	"context"
	"database/sql"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/phrazzld/todo-api/internal/platform/migrate"
	"github.com/phrazzld/todo-api/internal/platform/postgres"
	"github.com/phrazzld/todo-api/internal/platform/sqlite"
	"github.com/stretchr/testify/require"
)

// TestTimeout defines a default timeout for test database operations.
const TestTimeout = 5 * time.Second

// EnvDatabaseURL names the variable holding the PostgreSQL test database URL.
const EnvDatabaseURL = "DATABASE_URL"

// IsIntegrationTestEnvironment returns true if the DATABASE_URL environment
// variable is set, indicating that integration tests can be run.
func IsIntegrationTestEnvironment() bool {
	return GetTestDatabaseURL() != ""
}

// GetTestDatabaseURL returns the PostgreSQL URL for tests, or "".
func GetTestDatabaseURL() string {
	return os.Getenv(EnvDatabaseURL)
}

// OpenSQLite returns a fresh in-memory SQLite database with migrations applied.
// The connection is closed when the test completes.
func OpenSQLite(t *testing.T) *sql.DB {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), TestTimeout)
	defer cancel()

	db, err := sqlite.Open(ctx, ":memory:", nil)
	require.NoError(t, err, "Failed to open sqlite database")
	t.Cleanup(func() { CleanupDB(t, db) })

	require.NoError(t, migrate.Up(ctx, db, sqlite.Migrations(), nil), "Failed to run migrations")
	return db
}

var pgMigrateOnce sync.Once

// OpenPostgres returns a connection to the PostgreSQL test database with
// migrations applied. It skips the test if DATABASE_URL is not set.
func OpenPostgres(t *testing.T) *sql.DB {
	t.Helper()

	dbURL := GetTestDatabaseURL()
	if dbURL == "" {
		t.Skip("DATABASE_URL not set - skipping integration test")
	}

	ctx, cancel := context.WithTimeout(context.Background(), TestTimeout)
	defer cancel()

	db, err := postgres.Open(ctx, dbURL, nil)
	require.NoError(t, err, "Failed to connect to %s", MaskDatabaseURL(dbURL))
	t.Cleanup(func() { CleanupDB(t, db) })

	var migrateErr error
	pgMigrateOnce.Do(func() {
		migrateErr = migrate.Up(context.Background(), db, postgres.Migrations(), nil)
	})
	require.NoError(t, migrateErr, "Failed to run migrations")

	return db
}

// CleanupDB properly closes a database connection, logging any errors.
func CleanupDB(t *testing.T, db *sql.DB) {
	t.Helper()
	if db == nil {
		return
	}

	if err := db.Close(); err != nil {
		t.Logf("Warning: failed to close database connection: %v", err)
	}
}
