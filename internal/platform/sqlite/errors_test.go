package sqlite_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/phrazzld/todo-api/internal/platform/sqlite"
	"github.com/phrazzld/todo-api/internal/store"
	"github.com/phrazzld/todo-api/internal/testdb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapError(t *testing.T) {
	assert.Nil(t, sqlite.MapError(nil))
	assert.ErrorIs(t, sqlite.MapError(sql.ErrNoRows), store.ErrNotFound)

	generic := errors.New("disk I/O error")
	assert.Equal(t, generic, sqlite.MapError(generic))
}

func TestMapErrorFromDriver(t *testing.T) {
	ctx := context.Background()
	db := testdb.OpenSQLite(t)

	_, err := db.ExecContext(ctx,
		`INSERT INTO users (username, created_at) VALUES ('alice', '2024-01-01T00:00:00.000000Z')`)
	require.NoError(t, err)

	_, err = db.ExecContext(ctx,
		`INSERT INTO users (username, created_at) VALUES ('alice', '2024-01-01T00:00:00.000000Z')`)
	require.Error(t, err)
	assert.True(t, sqlite.IsUniqueViolation(err))
	assert.ErrorIs(t, sqlite.MapError(err), store.ErrDuplicate)

	_, err = db.ExecContext(ctx,
		`INSERT INTO tasks (title, status, created_by, created_at) VALUES ('x', 'OPEN', 42, '2024-01-01T00:00:00.000000Z')`)
	require.Error(t, err)
	assert.True(t, sqlite.IsForeignKeyViolation(err))
	assert.ErrorIs(t, sqlite.MapError(err), store.ErrInvalidEntity)
}
