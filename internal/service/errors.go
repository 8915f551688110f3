package service

import (
	"errors"
	"fmt"
	"time"
)

// Common service errors - sentinel errors used across service implementations.
// These errors represent common conditions that callers may want to check for with errors.Is().
//
// Error handling principles:
// 1. Service methods return sentinel errors for expected error conditions
// 2. Unexpected errors are wrapped in service-specific error types
// 3. Callers use errors.Is/errors.As to check for specific error conditions
// 4. The API layer maps service errors to appropriate HTTP status codes
var (
	// ErrTaskNotFound indicates that the requested task does not exist.
	// API layer should map this to HTTP 404 Not Found.
	ErrTaskNotFound = errors.New("task not found")

	// ErrUserNotFound indicates that the referenced user does not exist.
	// API layer should map this to HTTP 404 Not Found.
	ErrUserNotFound = errors.New("user not found")

	// ErrTooManyActiveTasks indicates that creating or reactivating a task
	// would take the owner past the active-task quota.
	// API layer should map this to HTTP 400 Bad Request.
	ErrTooManyActiveTasks = errors.New("too many active tasks")

	// ErrDeletionTooSoon indicates that a task was deleted before the
	// minimum age had elapsed.
	// API layer should map this to HTTP 400 Bad Request.
	ErrDeletionTooSoon = errors.New("task deleted too soon")

	// ErrUsernameTaken indicates that a user with the same username exists.
	// API layer should map this to HTTP 409 Conflict.
	ErrUsernameTaken = errors.New("username already taken")
)

// TaskError carries a client-facing message for one of the sentinel errors.
// errors.Is matches it against the wrapped sentinel.
type TaskError struct {
	Message string
	Err     error
}

// Error implements the error interface for TaskError.
func (e *TaskError) Error() string {
	return e.Message
}

// Unwrap returns the sentinel error to support errors.Is/errors.As.
func (e *TaskError) Unwrap() error {
	return e.Err
}

// NewTaskNotFoundError reports a missing task.
func NewTaskNotFoundError(id int64) *TaskError {
	return &TaskError{
		Message: fmt.Sprintf("task with id %d not found", id),
		Err:     ErrTaskNotFound,
	}
}

// NewUserNotFoundError reports a missing user.
func NewUserNotFoundError(id int64) *TaskError {
	return &TaskError{
		Message: fmt.Sprintf("user with id %d not found", id),
		Err:     ErrUserNotFound,
	}
}

// NewTooManyActiveTasksError reports a quota violation.
func NewTooManyActiveTasksError(limit int, userID int64) *TaskError {
	return &TaskError{
		Message: fmt.Sprintf("active task limit of %d reached for user %d", limit, userID),
		Err:     ErrTooManyActiveTasks,
	}
}

// NewDeletionTooSoonError reports a deletion inside the cool-down window.
func NewDeletionTooSoonError(minAge time.Duration) *TaskError {
	return &TaskError{
		Message: fmt.Sprintf("task cannot be deleted less than %s after creation", minAge),
		Err:     ErrDeletionTooSoon,
	}
}

// NewUsernameTakenError reports a duplicate username.
func NewUsernameTakenError(username string) *TaskError {
	return &TaskError{
		Message: fmt.Sprintf("username %q is already taken", username),
		Err:     ErrUsernameTaken,
	}
}

// TaskServiceError is a custom error type for unexpected task service failures.
type TaskServiceError struct {
	Operation string
	Message   string
	Err       error
}

// Error implements the error interface for TaskServiceError.
func (e *TaskServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("task service %s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("task service %s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *TaskServiceError) Unwrap() error {
	return e.Err
}

// NewTaskServiceError creates a new TaskServiceError.
func NewTaskServiceError(operation, message string, err error) *TaskServiceError {
	return &TaskServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}

// UserServiceError is a custom error type for unexpected user service failures.
type UserServiceError struct {
	Operation string
	Message   string
	Err       error
}

// Error implements the error interface for UserServiceError.
func (e *UserServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("user service %s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("user service %s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *UserServiceError) Unwrap() error {
	return e.Err
}

// NewUserServiceError creates a new UserServiceError.
func NewUserServiceError(operation, message string, err error) *UserServiceError {
	return &UserServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}
