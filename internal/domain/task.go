package domain

import (
	"fmt"
	"strings"
	"time"
)

// TaskStatus represents the lifecycle state of a task.
// The string values are the enum names used on the wire and in storage.
type TaskStatus string

// Possible task status values
const (
	TaskStatusOpen       TaskStatus = "OPEN"
	TaskStatusInProgress TaskStatus = "IN_PROGRESS"
	TaskStatusDone       TaskStatus = "DONE"
	TaskStatusClosed     TaskStatus = "CLOSED"
)

// TimestampPrecision is the resolution at which task timestamps are kept.
// It matches the microsecond columns of the SQL stores.
const TimestampPrecision = time.Microsecond

// Task validation errors
var (
	ErrEmptyTaskTitle     = fmt.Errorf("%w: task title cannot be empty", ErrValidation)
	ErrInvalidTaskStatus  = fmt.Errorf("%w: invalid task status", ErrValidation)
	ErrInvalidTaskOwnerID = fmt.Errorf("%w: task owner ID must be positive", ErrValidation)
)

// AllTaskStatuses returns every valid status in declaration order.
func AllTaskStatuses() []TaskStatus {
	return []TaskStatus{
		TaskStatusOpen,
		TaskStatusInProgress,
		TaskStatusDone,
		TaskStatusClosed,
	}
}

// ActiveTaskStatuses returns the statuses that count against a user's quota.
func ActiveTaskStatuses() []TaskStatus {
	return []TaskStatus{TaskStatusOpen, TaskStatusInProgress}
}

// IsValid reports whether s is one of the known statuses.
func (s TaskStatus) IsValid() bool {
	switch s {
	case TaskStatusOpen, TaskStatusInProgress, TaskStatusDone, TaskStatusClosed:
		return true
	default:
		return false
	}
}

// IsActive reports whether a task in this status counts as active.
func (s TaskStatus) IsActive() bool {
	return s == TaskStatusOpen || s == TaskStatusInProgress
}

// String implements fmt.Stringer.
func (s TaskStatus) String() string {
	return string(s)
}

// ParseTaskStatus converts an enum name into a TaskStatus.
// Matching is exact; "open" is not accepted.
func ParseTaskStatus(value string) (TaskStatus, error) {
	status := TaskStatus(value)
	if !status.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidTaskStatus, value)
	}
	return status, nil
}

// Task is a unit of work owned by a single user.
// CreatedAt is set once when the task is built and never changes afterwards.
type Task struct {
	ID        int64      `json:"id"`
	Title     string     `json:"title"`
	Status    TaskStatus `json:"status"`
	CreatedBy int64      `json:"createdBy"`
	CreatedAt time.Time  `json:"createdAt"`
}

// NewTask creates a new Task owned by userID, stamped with now (in UTC,
// truncated to TimestampPrecision).
// The ID is left zero; the store assigns it on creation.
// Returns an error if validation fails.
func NewTask(title string, status TaskStatus, userID int64, now time.Time) (*Task, error) {
	task := &Task{
		Title:     title,
		Status:    status,
		CreatedBy: userID,
		CreatedAt: now.UTC().Truncate(TimestampPrecision),
	}

	if err := task.Validate(); err != nil {
		return nil, err
	}

	return task, nil
}

// Validate checks if the Task has valid data.
// Returns an error if any field fails validation.
func (t *Task) Validate() error {
	if strings.TrimSpace(t.Title) == "" {
		return ErrEmptyTaskTitle
	}

	if !t.Status.IsValid() {
		return ErrInvalidTaskStatus
	}

	if t.CreatedBy <= 0 {
		return ErrInvalidTaskOwnerID
	}

	return nil
}

// Apply replaces the mutable fields of the task.
// Owner and creation timestamp are preserved. The task is left unchanged
// if the new values do not validate.
func (t *Task) Apply(title string, status TaskStatus) error {
	updated := *t
	updated.Title = title
	updated.Status = status

	if err := updated.Validate(); err != nil {
		return err
	}

	t.Title = title
	t.Status = status
	return nil
}

// Clone returns a copy of the task.
func (t *Task) Clone() *Task {
	c := *t
	return &c
}

// ActivatedBy reports whether moving this task to next turns a non-active
// task into an active one. Only such transitions are subject to the quota.
func (t *Task) ActivatedBy(next TaskStatus) bool {
	return next.IsActive() && !t.Status.IsActive()
}

// Age returns how long ago the task was created, relative to now.
func (t *Task) Age(now time.Time) time.Duration {
	return now.Sub(t.CreatedAt)
}

// CreatedWithin reports whether the creation timestamp falls in [from, to].
// A nil bound is open on that side.
func (t *Task) CreatedWithin(from, to *time.Time) bool {
	if from != nil && t.CreatedAt.Before(*from) {
		return false
	}
	if to != nil && t.CreatedAt.After(*to) {
		return false
	}
	return true
}

// CeilTimestamp rounds t up to the next multiple of TimestampPrecision.
// Comparing stored timestamps against a rounded lower bound gives the same
// result as comparing against the exact bound.
func CeilTimestamp(t time.Time) time.Time {
	truncated := t.Truncate(TimestampPrecision)
	if truncated.Before(t) {
		return truncated.Add(TimestampPrecision)
	}
	return truncated
}
