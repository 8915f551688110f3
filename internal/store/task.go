package store

import (
	"context"
	"time"

	"github.com/phrazzld/todo-api/internal/domain"
)

// TaskStore defines the interface for task data persistence.
// Implementations must be safe for concurrent use.
type TaskStore interface {
	// Create saves a new task and assigns its ID.
	// Returns validation errors from the domain Task if data is invalid.
	// Returns ErrInvalidEntity if the owning user does not exist.
	Create(ctx context.Context, task *domain.Task) error

	// GetByID retrieves a task by its ID.
	// Returns ErrTaskNotFound if the task does not exist.
	GetByID(ctx context.Context, id int64) (*domain.Task, error)

	// ListByUser returns the tasks owned by userID created within [from, to].
	// Nil bounds are open. Results are ordered by creation time, then ID.
	ListByUser(ctx context.Context, userID int64, from, to *time.Time) ([]*domain.Task, error)

	// Update persists the title and status of an existing task.
	// Owner and creation time are never changed.
	// Returns ErrTaskNotFound if the task does not exist.
	Update(ctx context.Context, task *domain.Task) error

	// Delete removes a task by its ID.
	// Returns ErrTaskNotFound if the task does not exist.
	Delete(ctx context.Context, id int64) error

	// CountActiveByUser returns how many of the user's tasks are OPEN or IN_PROGRESS.
	CountActiveByUser(ctx context.Context, userID int64) (int, error)
}
