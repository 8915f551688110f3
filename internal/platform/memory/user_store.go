package memory

import (
	"context"
	"log/slog"

	"github.com/phrazzld/todo-api/internal/domain"
	"github.com/phrazzld/todo-api/internal/platform/logger"
	"github.com/phrazzld/todo-api/internal/store"
)

// UserStore implements store.UserStore on top of a DB.
type UserStore struct {
	db     *DB
	logger *slog.Logger
}

// Ensure UserStore implements store.UserStore interface
var _ store.UserStore = (*UserStore)(nil)

// NewUserStore creates a user store backed by db.
// If logger is nil, a default logger will be used.
func NewUserStore(db *DB, logger *slog.Logger) *UserStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &UserStore{
		db:     db,
		logger: logger.With(slog.String("component", "memory_user_store")),
	}
}

// Create implements store.UserStore.Create
func (s *UserStore) Create(ctx context.Context, user *domain.User) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := user.Validate(); err != nil {
		return err
	}

	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	if _, taken := s.db.usernames[user.Username]; taken {
		log.Debug("username already exists", slog.String("username", user.Username))
		return store.ErrUsernameExists
	}

	s.db.lastUserID++
	user.ID = s.db.lastUserID

	stored := *user
	s.db.users[stored.ID] = &stored
	s.db.usernames[stored.Username] = stored.ID

	log.Debug("user created", slog.Int64("user_id", user.ID))
	return nil
}

// GetByID implements store.UserStore.GetByID
func (s *UserStore) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	user, ok := s.db.users[id]
	if !ok {
		return nil, store.ErrUserNotFound
	}

	found := *user
	return &found, nil
}
