package mocks

import (
	"context"
	"time"

	"github.com/phrazzld/todo-api/internal/domain"
	"github.com/phrazzld/todo-api/internal/service"
)

// MockTaskService implements service.TaskService for testing
type MockTaskService struct {
	// Custom behavior functions
	ListFn        func(ctx context.Context, userID int64, from, to *time.Time) ([]*domain.Task, error)
	GetFn         func(ctx context.Context, id int64) (*domain.Task, error)
	CreateFn      func(ctx context.Context, title string, status domain.TaskStatus, userID int64) (*domain.Task, error)
	UpdateFn      func(ctx context.Context, id int64, title string, status domain.TaskStatus) (*domain.Task, error)
	DeleteFn      func(ctx context.Context, id int64) error
	CountActiveFn func(ctx context.Context, userID int64) (int, error)

	// Default return values
	Task         *domain.Task
	Tasks        []*domain.Task
	Count        int
	DefaultError error
}

var _ service.TaskService = (*MockTaskService)(nil)

// List implements the TaskService.List method
func (m *MockTaskService) List(ctx context.Context, userID int64, from, to *time.Time) ([]*domain.Task, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, userID, from, to)
	}
	return m.Tasks, m.DefaultError
}

// Get implements the TaskService.Get method
func (m *MockTaskService) Get(ctx context.Context, id int64) (*domain.Task, error) {
	if m.GetFn != nil {
		return m.GetFn(ctx, id)
	}
	return m.Task, m.DefaultError
}

// Create implements the TaskService.Create method
func (m *MockTaskService) Create(
	ctx context.Context,
	title string,
	status domain.TaskStatus,
	userID int64,
) (*domain.Task, error) {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, title, status, userID)
	}
	return m.Task, m.DefaultError
}

// Update implements the TaskService.Update method
func (m *MockTaskService) Update(
	ctx context.Context,
	id int64,
	title string,
	status domain.TaskStatus,
) (*domain.Task, error) {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, id, title, status)
	}
	return m.Task, m.DefaultError
}

// Delete implements the TaskService.Delete method
func (m *MockTaskService) Delete(ctx context.Context, id int64) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}
	return m.DefaultError
}

// CountActive implements the TaskService.CountActive method
func (m *MockTaskService) CountActive(ctx context.Context, userID int64) (int, error) {
	if m.CountActiveFn != nil {
		return m.CountActiveFn(ctx, userID)
	}
	return m.Count, m.DefaultError
}
