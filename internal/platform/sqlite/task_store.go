package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/todo-api/internal/domain"
	"github.com/phrazzld/todo-api/internal/platform/logger"
	"github.com/phrazzld/todo-api/internal/store"
)

const taskColumns = `id, title, status, created_by, created_at`

// TaskStore implements the store.TaskStore interface
// using a SQLite database as the storage backend.
type TaskStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// Ensure TaskStore implements store.TaskStore interface
var _ store.TaskStore = (*TaskStore)(nil)

// NewTaskStore creates a new SQLite implementation of the TaskStore interface.
// If logger is nil, a default logger will be used.
func NewTaskStore(db store.DBTX, logger *slog.Logger) *TaskStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &TaskStore{
		db:     db,
		logger: logger.With(slog.String("component", "sqlite_task_store")),
	}
}

// Create implements store.TaskStore.Create
func (s *TaskStore) Create(ctx context.Context, task *domain.Task) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := task.Validate(); err != nil {
		log.Warn("task validation failed during create", slog.String("error", err.Error()))
		return err
	}

	createdAt := task.CreatedAt.UTC().Truncate(time.Microsecond)

	query := `
		INSERT INTO tasks (title, status, created_by, created_at)
		VALUES (?, ?, ?, ?)
		RETURNING id
	`
	var id int64
	err := s.db.QueryRowContext(ctx, query,
		task.Title,
		string(task.Status),
		task.CreatedBy,
		formatTime(createdAt),
	).Scan(&id)
	if err != nil {
		if IsForeignKeyViolation(err) {
			log.Warn("task owner does not exist", slog.Int64("user_id", task.CreatedBy))
			return fmt.Errorf("%w: user with ID %d not found", store.ErrInvalidEntity, task.CreatedBy)
		}
		log.Error("failed to create task",
			slog.String("error", err.Error()),
			slog.Int64("user_id", task.CreatedBy))
		return store.NewStoreError("task", "create", "insert failed", MapError(err))
	}

	task.ID = id
	task.CreatedAt = createdAt

	log.Debug("task created",
		slog.Int64("task_id", id),
		slog.Int64("user_id", task.CreatedBy))
	return nil
}

// GetByID implements store.TaskStore.GetByID
func (s *TaskStore) GetByID(ctx context.Context, id int64) (*domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = ?`

	task, err := scanTask(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrTaskNotFound
		}
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to get task",
			slog.Int64("task_id", id),
			slog.String("error", err.Error()))
		return nil, store.NewStoreError("task", "get", "query failed", MapError(err))
	}

	return task, nil
}

// ListByUser implements store.TaskStore.ListByUser
func (s *TaskStore) ListByUser(
	ctx context.Context,
	userID int64,
	from, to *time.Time,
) ([]*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT ` + taskColumns + ` FROM tasks WHERE created_by = ?`
	args := []any{userID}
	if from != nil {
		query += ` AND created_at >= ?`
		args = append(args, formatTime(domain.CeilTimestamp(*from)))
	}
	if to != nil {
		query += ` AND created_at <= ?`
		args = append(args, formatTime(*to))
	}
	query += ` ORDER BY created_at, id`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to list tasks",
			slog.Int64("user_id", userID),
			slog.String("error", err.Error()))
		return nil, store.NewStoreError("task", "list", "query failed", MapError(err))
	}
	defer func() { _ = rows.Close() }()

	tasks := make([]*domain.Task, 0)
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, store.NewStoreError("task", "list", "scan failed", err)
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, store.NewStoreError("task", "list", "row iteration failed", err)
	}

	return tasks, nil
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

	result, err := s.db.ExecContext(ctx,
		`UPDATE tasks SET title = ?, status = ? WHERE id = ?`,
		task.Title,
		string(task.Status),
		task.ID,
	)
	if err != nil {
		log.Error("failed to update task",
			slog.Int64("task_id", task.ID),
			slog.String("error", err.Error()))
		return store.NewStoreError("task", "update", "update failed", MapError(err))
	}

	return checkRowsAffected(result, store.ErrTaskNotFound)
}

// Delete implements store.TaskStore.Delete
func (s *TaskStore) Delete(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to delete task",
			slog.Int64("task_id", id),
			slog.String("error", err.Error()))
		return store.NewStoreError("task", "delete", "delete failed", MapError(err))
	}

	return checkRowsAffected(result, store.ErrTaskNotFound)
}

// CountActiveByUser implements store.TaskStore.CountActiveByUser
func (s *TaskStore) CountActiveByUser(ctx context.Context, userID int64) (int, error) {
	active := domain.ActiveTaskStatuses()

	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM tasks WHERE created_by = ? AND status IN (?, ?)`,
		userID,
		string(active[0]),
		string(active[1]),
	).Scan(&count)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to count active tasks",
			slog.Int64("user_id", userID),
			slog.String("error", err.Error()))
		return 0, store.NewStoreError("task", "count", "query failed", MapError(err))
	}

	return count, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (*domain.Task, error) {
	var (
		task      domain.Task
		status    string
		createdAt string
	)

	if err := row.Scan(&task.ID, &task.Title, &status, &task.CreatedBy, &createdAt); err != nil {
		return nil, err
	}

	task.Status = domain.TaskStatus(status)

	ts, err := parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	task.CreatedAt = ts

	return &task, nil
}

// checkRowsAffected returns notFound when an UPDATE or DELETE matched no rows.
func checkRowsAffected(result sql.Result, notFound error) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return notFound
	}
	return nil
}
