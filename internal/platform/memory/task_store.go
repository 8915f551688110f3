package memory

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/phrazzld/todo-api/internal/domain"
	"github.com/phrazzld/todo-api/internal/platform/logger"
	"github.com/phrazzld/todo-api/internal/store"
)

// TaskStore implements store.TaskStore on top of a DB.
type TaskStore struct {
	db     *DB
	logger *slog.Logger
}

// Ensure TaskStore implements store.TaskStore interface
var _ store.TaskStore = (*TaskStore)(nil)

// NewTaskStore creates a task store backed by db.
// If logger is nil, a default logger will be used.
func NewTaskStore(db *DB, logger *slog.Logger) *TaskStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &TaskStore{
		db:     db,
		logger: logger.With(slog.String("component", "memory_task_store")),
	}
}

// Create implements store.TaskStore.Create
func (s *TaskStore) Create(ctx context.Context, task *domain.Task) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := task.Validate(); err != nil {
		log.Warn("task validation failed during create", slog.String("error", err.Error()))
		return err
	}

	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	if _, ok := s.db.users[task.CreatedBy]; !ok {
		log.Warn("task owner does not exist", slog.Int64("user_id", task.CreatedBy))
		return fmt.Errorf("%w: user with ID %d not found", store.ErrInvalidEntity, task.CreatedBy)
	}

	s.db.lastTaskID++
	task.ID = s.db.lastTaskID

	stored := *task
	s.db.tasks[stored.ID] = &stored

	log.Debug("task created",
		slog.Int64("task_id", task.ID),
		slog.Int64("user_id", task.CreatedBy))
	return nil
}

// GetByID implements store.TaskStore.GetByID
func (s *TaskStore) GetByID(ctx context.Context, id int64) (*domain.Task, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	task, ok := s.db.tasks[id]
	if !ok {
		return nil, store.ErrTaskNotFound
	}

	found := *task
	return &found, nil
}

// ListByUser implements store.TaskStore.ListByUser
func (s *TaskStore) ListByUser(
	ctx context.Context,
	userID int64,
	from, to *time.Time,
) ([]*domain.Task, error) {
	s.db.mu.RLock()
	result := make([]*domain.Task, 0)
	for _, task := range s.db.tasks {
		if task.CreatedBy != userID || !task.CreatedWithin(from, to) {
			continue
		}
		found := *task
		result = append(result, &found)
	}
	s.db.mu.RUnlock()

	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.Before(result[j].CreatedAt)
		}
		return result[i].ID < result[j].ID
	})

	return result, nil
}

// Update implements store.TaskStore.Update
func (s *TaskStore) Update(ctx context.Context, task *domain.Task) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := task.Validate(); err != nil {
		log.Warn("task validation failed during update",
			slog.Int64("task_id", task.ID),
			slog.String("error", err.Error()))
		return err
	}

	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	existing, ok := s.db.tasks[task.ID]
	if !ok {
		return store.ErrTaskNotFound
	}

	existing.Title = task.Title
	existing.Status = task.Status

	log.Debug("task updated",
		slog.Int64("task_id", task.ID),
		slog.String("status", string(task.Status)))
	return nil
}

// Delete implements store.TaskStore.Delete
func (s *TaskStore) Delete(ctx context.Context, id int64) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	if _, ok := s.db.tasks[id]; !ok {
		return store.ErrTaskNotFound
	}
	delete(s.db.tasks, id)

	logger.FromContextOrDefault(ctx, s.logger).Debug("task deleted", slog.Int64("task_id", id))
	return nil
}

// CountActiveByUser implements store.TaskStore.CountActiveByUser
func (s *TaskStore) CountActiveByUser(ctx context.Context, userID int64) (int, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	count := 0
	for _, task := range s.db.tasks {
		if task.CreatedBy == userID && task.Status.IsActive() {
			count++
		}
	}
	return count, nil
}
