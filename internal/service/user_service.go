package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/phrazzld/todo-api/internal/domain"
	"github.com/phrazzld/todo-api/internal/platform/logger"
	"github.com/phrazzld/todo-api/internal/store"
)

// UserService provides user-related operations
type UserService interface {
	// CreateUser registers a new user with the given username
	CreateUser(ctx context.Context, username string) (*domain.User, error)

	// GetUser retrieves a user by their ID
	GetUser(ctx context.Context, id int64) (*domain.User, error)
}

// UserServiceImpl implements the UserService interface
type UserServiceImpl struct {
	userStore store.UserStore
	now       func() time.Time
	logger    *slog.Logger
}

// NewUserService creates a new UserService.
// If now is nil, time.Now is used.
func NewUserService(userStore store.UserStore, now func() time.Time, logger *slog.Logger) UserService {
	if userStore == nil {
		panic("userStore cannot be nil")
	}
	if now == nil {
		now = time.Now
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &UserServiceImpl{
		userStore: userStore,
		now:       now,
		logger:    logger.With(slog.String("component", "user_service")),
	}
}

// CreateUser implements UserService.CreateUser
func (s *UserServiceImpl) CreateUser(ctx context.Context, username string) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	user, err := domain.NewUser(username, s.now())
	if err != nil {
		log.Debug("rejected invalid user", slog.String("error", err.Error()))
		return nil, err
	}

	if err := s.userStore.Create(ctx, user); err != nil {
		switch {
		case store.IsDuplicateError(err):
			log.Debug("attempted to create user with existing username",
				slog.String("username", user.Username))
			return nil, NewUsernameTakenError(user.Username)
		case errors.Is(err, domain.ErrValidation):
			return nil, err
		default:
			log.Error("failed to save user",
				slog.String("error", err.Error()),
				slog.String("username", user.Username))
			return nil, NewUserServiceError("create_user", "failed to save user", err)
		}
	}

	log.Info("user created",
		slog.Int64("user_id", user.ID),
		slog.String("username", user.Username))
	return user, nil
}

// GetUser implements UserService.GetUser
func (s *UserServiceImpl) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	user, err := s.userStore.GetByID(ctx, id)
	if err != nil {
		if store.IsNotFoundError(err) {
			return nil, NewUserNotFoundError(id)
		}
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to retrieve user",
			slog.String("error", err.Error()),
			slog.Int64("user_id", id))
		return nil, NewUserServiceError("get_user", "failed to retrieve user", err)
	}
	return user, nil
}
