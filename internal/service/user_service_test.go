package service_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/phrazzld/todo-api/internal/domain"
	"github.com/phrazzld/todo-api/internal/mocks"
	"github.com/phrazzld/todo-api/internal/platform/memory"
	"github.com/phrazzld/todo-api/internal/service"
	"github.com/phrazzld/todo-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newUserService() service.UserService {
	db := memory.NewDB()
	return service.NewUserService(memory.NewUserStore(db, nil), func() time.Time { return baseTime }, nil)
}

func TestUserService_CreateUser(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		svc := newUserService()

		user, err := svc.CreateUser(ctx, "  alice ")
		require.NoError(t, err)
		assert.Positive(t, user.ID)
		assert.Equal(t, "alice", user.Username)
		assert.True(t, user.CreatedAt.Equal(baseTime))

		got, err := svc.GetUser(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, user.Username, got.Username)
	})

	t.Run("duplicate username", func(t *testing.T) {
		svc := newUserService()

		_, err := svc.CreateUser(ctx, "alice")
		require.NoError(t, err)

		_, err = svc.CreateUser(ctx, "alice")
		assert.ErrorIs(t, err, service.ErrUsernameTaken)
	})

	t.Run("blank username", func(t *testing.T) {
		svc := newUserService()
		_, err := svc.CreateUser(ctx, "   ")
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("username too long", func(t *testing.T) {
		svc := newUserService()
		_, err := svc.CreateUser(ctx, strings.Repeat("a", domain.MaxUsernameLength+1))
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("store failure is wrapped", func(t *testing.T) {
		users := new(mocks.TestifyMockUserStore)
		storeErr := errors.New("disk full")
		users.On("Create", mock.Anything, mock.Anything).Return(storeErr)

		svc := service.NewUserService(users, nil, nil)
		_, err := svc.CreateUser(ctx, "alice")

		var svcErr *service.UserServiceError
		require.ErrorAs(t, err, &svcErr)
		assert.Equal(t, "create_user", svcErr.Operation)
		assert.ErrorIs(t, err, storeErr)
		users.AssertExpectations(t)
	})
}

func TestUserService_GetUser(t *testing.T) {
	ctx := context.Background()

	t.Run("not found", func(t *testing.T) {
		svc := newUserService()
		_, err := svc.GetUser(ctx, 5)
		require.ErrorIs(t, err, service.ErrUserNotFound)
		assert.Equal(t, "user with id 5 not found", err.Error())
	})

	t.Run("not found from mocked store", func(t *testing.T) {
		users := new(mocks.TestifyMockUserStore)
		users.On("GetByID", mock.Anything, int64(5)).Return(nil, store.ErrUserNotFound)

		svc := service.NewUserService(users, nil, nil)
		_, err := svc.GetUser(ctx, 5)
		assert.ErrorIs(t, err, service.ErrUserNotFound)
	})

	t.Run("unexpected failure", func(t *testing.T) {
		users := new(mocks.TestifyMockUserStore)
		users.On("GetByID", mock.Anything, int64(5)).Return(nil, errors.New("boom"))

		svc := service.NewUserService(users, nil, nil)
		_, err := svc.GetUser(ctx, 5)
		var svcErr *service.UserServiceError
		assert.ErrorAs(t, err, &svcErr)
	})
}

func TestNewUserService_NilStorePanics(t *testing.T) {
	assert.Panics(t, func() {
		service.NewUserService(nil, nil, nil)
	})
}
