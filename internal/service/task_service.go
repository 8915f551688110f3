package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/phrazzld/todo-api/internal/domain"
	"github.com/phrazzld/todo-api/internal/events"
	"github.com/phrazzld/todo-api/internal/platform/logger"
	"github.com/phrazzld/todo-api/internal/store"
)

// Default business rule values
const (
	DefaultMaxActiveTasks = 10
	DefaultMinDeleteAge   = 5 * time.Minute
)

// quotaStripes is the number of per-user locks guarding the quota check.
const quotaStripes = 64

// TaskServiceConfig holds the business rules applied by the task service.
type TaskServiceConfig struct {
	// MaxActiveTasks is the number of OPEN or IN_PROGRESS tasks a user may hold.
	MaxActiveTasks int

	// MinDeleteAge is how long a task must exist before it can be deleted.
	MinDeleteAge time.Duration

	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time
}

// DefaultTaskServiceConfig returns the standard business rules.
func DefaultTaskServiceConfig() TaskServiceConfig {
	return TaskServiceConfig{
		MaxActiveTasks: DefaultMaxActiveTasks,
		MinDeleteAge:   DefaultMinDeleteAge,
		Now:            time.Now,
	}
}

// TaskService provides task lifecycle operations
type TaskService interface {
	// List returns the user's tasks created within [from, to], oldest first.
	// Nil bounds are open.
	List(ctx context.Context, userID int64, from, to *time.Time) ([]*domain.Task, error)

	// Get retrieves a task by its ID
	Get(ctx context.Context, id int64) (*domain.Task, error)

	// Create creates a task owned by userID, enforcing the active-task quota
	Create(ctx context.Context, title string, status domain.TaskStatus, userID int64) (*domain.Task, error)

	// Update replaces the title and status of a task.
	// The quota is re-checked only when a non-active task becomes active.
	Update(ctx context.Context, id int64, title string, status domain.TaskStatus) (*domain.Task, error)

	// Delete removes a task once its cool-down has elapsed
	Delete(ctx context.Context, id int64) error

	// CountActive returns how many active tasks the user holds
	CountActive(ctx context.Context, userID int64) (int, error)
}

// taskServiceImpl implements the TaskService interface
type taskServiceImpl struct {
	tasks   store.TaskStore
	users   store.UserStore
	emitter events.EventEmitter
	cfg     TaskServiceConfig
	logger  *slog.Logger

	stripes [quotaStripes]sync.Mutex
}

// NewTaskService creates a new TaskService.
// It returns an error if any of the required dependencies are nil or the
// configuration is invalid. A nil emitter disables lifecycle events.
func NewTaskService(
	tasks store.TaskStore,
	users store.UserStore,
	emitter events.EventEmitter,
	cfg TaskServiceConfig,
	logger *slog.Logger,
) (TaskService, error) {
	if tasks == nil {
		return nil, domain.NewValidationError("tasks", "cannot be nil", domain.ErrValidation)
	}
	if users == nil {
		return nil, domain.NewValidationError("users", "cannot be nil", domain.ErrValidation)
	}
	if cfg.MaxActiveTasks <= 0 {
		return nil, domain.NewValidationError("MaxActiveTasks", "must be positive", domain.ErrValidation)
	}
	if cfg.MinDeleteAge < 0 {
		return nil, domain.NewValidationError("MinDeleteAge", "cannot be negative", domain.ErrValidation)
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &taskServiceImpl{
		tasks:   tasks,
		users:   users,
		emitter: emitter,
		cfg:     cfg,
		logger:  logger.With(slog.String("component", "task_service")),
	}, nil
}

// lockUser serializes quota-sensitive writes for one user and returns the unlock func.
func (s *taskServiceImpl) lockUser(userID int64) func() {
	idx := userID % quotaStripes
	if idx < 0 {
		idx = -idx
	}
	mu := &s.stripes[idx]
	mu.Lock()
	return mu.Unlock
}

// List implements TaskService.List
func (s *taskServiceImpl) List(
	ctx context.Context,
	userID int64,
	from, to *time.Time,
) ([]*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	tasks, err := s.tasks.ListByUser(ctx, userID, from, to)
	if err != nil {
		log.Error("failed to list tasks",
			slog.String("error", err.Error()),
			slog.Int64("user_id", userID))
		return nil, NewTaskServiceError("list", "failed to list tasks", err)
	}

	log.Debug("listed tasks",
		slog.Int64("user_id", userID),
		slog.Int("count", len(tasks)))
	return tasks, nil
}

// Get implements TaskService.Get
func (s *taskServiceImpl) Get(ctx context.Context, id int64) (*domain.Task, error) {
	task, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		if store.IsNotFoundError(err) {
			return nil, NewTaskNotFoundError(id)
		}
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to retrieve task",
			slog.String("error", err.Error()),
			slog.Int64("task_id", id))
		return nil, NewTaskServiceError("get", "failed to retrieve task", err)
	}
	return task, nil
}

// Create implements TaskService.Create
func (s *taskServiceImpl) Create(
	ctx context.Context,
	title string,
	status domain.TaskStatus,
	userID int64,
) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	task, err := domain.NewTask(title, status, userID, s.cfg.Now())
	if err != nil {
		log.Debug("rejected invalid task",
			slog.String("error", err.Error()),
			slog.Int64("user_id", userID))
		return nil, err
	}

	if _, err := s.users.GetByID(ctx, userID); err != nil {
		if store.IsNotFoundError(err) {
			return nil, NewUserNotFoundError(userID)
		}
		log.Error("failed to resolve task owner",
			slog.String("error", err.Error()),
			slog.Int64("user_id", userID))
		return nil, NewTaskServiceError("create", "failed to resolve user", err)
	}

	if status.IsActive() {
		unlock := s.lockUser(userID)
		defer unlock()

		if err := s.checkQuota(ctx, "create", userID); err != nil {
			return nil, err
		}
	}

	if err := s.tasks.Create(ctx, task); err != nil {
		if errors.Is(err, domain.ErrValidation) {
			return nil, err
		}
		if errors.Is(err, store.ErrInvalidEntity) {
			return nil, NewUserNotFoundError(userID)
		}
		log.Error("failed to save task",
			slog.String("error", err.Error()),
			slog.Int64("user_id", userID))
		return nil, NewTaskServiceError("create", "failed to save task", err)
	}

	log.Info("task created",
		slog.Int64("task_id", task.ID),
		slog.Int64("user_id", userID),
		slog.String("status", string(task.Status)))

	s.emit(ctx, events.TaskCreated, task)
	return task, nil
}

// Update implements TaskService.Update
func (s *taskServiceImpl) Update(
	ctx context.Context,
	id int64,
	title string,
	status domain.TaskStatus,
) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	task, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	// Every write for an owner happens under that owner's lock, against a copy
	// re-read inside it. The owner never changes.
	unlock := s.lockUser(task.CreatedBy)
	defer unlock()

	current, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	task = current.Clone()
	if err := task.Apply(title, status); err != nil {
		log.Debug("rejected invalid task update",
			slog.String("error", err.Error()),
			slog.Int64("task_id", id))
		return nil, err
	}

	if current.ActivatedBy(status) {
		if err := s.checkQuota(ctx, "update", current.CreatedBy); err != nil {
			return nil, err
		}
	}

	if err := s.tasks.Update(ctx, task); err != nil {
		if store.IsNotFoundError(err) {
			return nil, NewTaskNotFoundError(id)
		}
		if errors.Is(err, domain.ErrValidation) {
			return nil, err
		}
		log.Error("failed to update task",
			slog.String("error", err.Error()),
			slog.Int64("task_id", id))
		return nil, NewTaskServiceError("update", "failed to update task", err)
	}

	log.Info("task updated",
		slog.Int64("task_id", id),
		slog.String("status", string(task.Status)))

	s.emit(ctx, events.TaskUpdated, task)
	return task, nil
}

// Delete implements TaskService.Delete
func (s *taskServiceImpl) Delete(ctx context.Context, id int64) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	task, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	age := task.Age(s.cfg.Now())
	if age < s.cfg.MinDeleteAge {
		log.Debug("task deletion refused during cool-down",
			slog.Int64("task_id", id),
			slog.Duration("age", age),
			slog.Duration("min_age", s.cfg.MinDeleteAge))
		return NewDeletionTooSoonError(s.cfg.MinDeleteAge)
	}

	if err := s.tasks.Delete(ctx, id); err != nil {
		if store.IsNotFoundError(err) {
			return NewTaskNotFoundError(id)
		}
		log.Error("failed to delete task",
			slog.String("error", err.Error()),
			slog.Int64("task_id", id))
		return NewTaskServiceError("delete", "failed to delete task", err)
	}

	log.Info("task deleted", slog.Int64("task_id", id))

	s.emit(ctx, events.TaskDeleted, task)
	return nil
}

// CountActive implements TaskService.CountActive
func (s *taskServiceImpl) CountActive(ctx context.Context, userID int64) (int, error) {
	count, err := s.tasks.CountActiveByUser(ctx, userID)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to count active tasks",
			slog.String("error", err.Error()),
			slog.Int64("user_id", userID))
		return 0, NewTaskServiceError("count_active", "failed to count active tasks", err)
	}
	return count, nil
}

// checkQuota fails when the user already holds the maximum number of active tasks.
// Callers must hold the user's stripe lock.
func (s *taskServiceImpl) checkQuota(ctx context.Context, operation string, userID int64) error {
	count, err := s.tasks.CountActiveByUser(ctx, userID)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to count active tasks",
			slog.String("error", err.Error()),
			slog.Int64("user_id", userID))
		return NewTaskServiceError(operation, "failed to count active tasks", err)
	}

	if count >= s.cfg.MaxActiveTasks {
		logger.FromContextOrDefault(ctx, s.logger).Info("active task quota reached",
			slog.Int64("user_id", userID),
			slog.Int("active", count),
			slog.Int("limit", s.cfg.MaxActiveTasks))
		return NewTooManyActiveTasksError(s.cfg.MaxActiveTasks, userID)
	}
	return nil
}

// emit publishes a lifecycle event. Failures are logged and never returned.
func (s *taskServiceImpl) emit(ctx context.Context, eventType events.EventType, task *domain.Task) {
	if s.emitter == nil {
		return
	}

	event := events.NewTaskEvent(eventType, task, s.cfg.Now())
	if err := s.emitter.EmitEvent(ctx, event); err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Warn("failed to emit task event",
			slog.String("error", err.Error()),
			slog.String("event_type", string(eventType)),
			slog.Int64("task_id", task.ID))
	}
}
