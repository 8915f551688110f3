package sqlite_test

import (
	"context"
	"testing"
	"time"

	"github.com/phrazzld/todo-api/internal/domain"
	"github.com/phrazzld/todo-api/internal/platform/sqlite"
	"github.com/phrazzld/todo-api/internal/store"
	"github.com/phrazzld/todo-api/internal/store/storetest"
	"github.com/phrazzld/todo-api/internal/testdb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openMigrated(t *testing.T) storetest.Stores {
	t.Helper()

	db := testdb.OpenSQLite(t)
	return storetest.Stores{
		Tasks: sqlite.NewTaskStore(db, nil),
		Users: sqlite.NewUserStore(db, nil),
	}
}

func TestSQLiteStoreContract(t *testing.T) {
	storetest.Run(t, openMigrated)
}

func TestCreateTruncatesToStoredPrecision(t *testing.T) {
	ctx := context.Background()
	s := openMigrated(t)

	user, err := domain.NewUser("alice", time.Now())
	require.NoError(t, err)
	require.NoError(t, s.Users.Create(ctx, user))

	created := time.Date(2024, 5, 1, 10, 0, 0, 123456789, time.UTC)
	task, err := domain.NewTask("precise", domain.TaskStatusOpen, user.ID, created)
	require.NoError(t, err)
	require.NoError(t, s.Tasks.Create(ctx, task))

	assert.Equal(t, 123456000, task.CreatedAt.Nanosecond())

	got, err := s.Tasks.GetByID(ctx, task.ID)
	require.NoError(t, err)
	assert.True(t, task.CreatedAt.Equal(got.CreatedAt))
}

func TestTaskStoreRejectsRowViolatingSchema(t *testing.T) {
	ctx := context.Background()
	db := testdb.OpenSQLite(t)

	_, err := db.ExecContext(ctx,
		`INSERT INTO users (username, created_at) VALUES ('alice', '2024-01-01T00:00:00.000000Z')`)
	require.NoError(t, err)

	_, err = db.ExecContext(ctx,
		`INSERT INTO tasks (title, status, created_by, created_at) VALUES ('x', 'BOGUS', 1, '2024-01-01T00:00:00.000000Z')`)
	require.Error(t, err)
	assert.ErrorIs(t, sqlite.MapError(err), store.ErrInvalidEntity)
}

func TestNewStoresPanicOnNilDB(t *testing.T) {
	assert.Panics(t, func() { sqlite.NewTaskStore(nil, nil) })
	assert.Panics(t, func() { sqlite.NewUserStore(nil, nil) })
}

func TestOpenRejectsUnreachablePath(t *testing.T) {
	_, err := sqlite.Open(context.Background(), "/nonexistent-dir/sub/todo.db", nil)
	assert.Error(t, err)
}
