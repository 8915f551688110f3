package postgres_test

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/phrazzld/todo-api/internal/domain"
	"github.com/phrazzld/todo-api/internal/platform/postgres"
	"github.com/phrazzld/todo-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockUserStore(t *testing.T) (*postgres.PostgresUserStore, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		_ = db.Close()
	})

	return postgres.NewPostgresUserStore(db, nil), mock
}

func TestPostgresUserStore_Create(t *testing.T) {
	now := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

	t.Run("success", func(t *testing.T) {
		s, mock := newMockUserStore(t)
		mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO users (username, created_at)")).
			WithArgs("alice", now).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(11)))

		user, err := domain.NewUser("alice", now)
		require.NoError(t, err)
		require.NoError(t, s.Create(context.Background(), user))
		assert.Equal(t, int64(11), user.ID)
	})

	t.Run("duplicate username", func(t *testing.T) {
		s, mock := newMockUserStore(t)
		mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO users")).
			WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_username_key"})

		user, err := domain.NewUser("alice", now)
		require.NoError(t, err)
		assert.ErrorIs(t, s.Create(context.Background(), user), store.ErrUsernameExists)
	})
}

func TestPostgresUserStore_GetByID(t *testing.T) {
	now := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

	t.Run("found", func(t *testing.T) {
		s, mock := newMockUserStore(t)
		mock.ExpectQuery(regexp.QuoteMeta("SELECT id, username, created_at FROM users WHERE id = $1")).
			WithArgs(int64(11)).
			WillReturnRows(sqlmock.NewRows([]string{"id", "username", "created_at"}).
				AddRow(int64(11), "alice", now))

		user, err := s.GetByID(context.Background(), 11)
		require.NoError(t, err)
		assert.Equal(t, "alice", user.Username)
		assert.True(t, now.Equal(user.CreatedAt))
	})

	t.Run("not found", func(t *testing.T) {
		s, mock := newMockUserStore(t)
		mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE id = $1")).
			WithArgs(int64(11)).
			WillReturnRows(sqlmock.NewRows([]string{"id", "username", "created_at"}))

		_, err := s.GetByID(context.Background(), 11)
		assert.ErrorIs(t, err, store.ErrUserNotFound)
	})
}
