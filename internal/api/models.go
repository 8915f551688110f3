package api

import (
	"time"

	"github.com/phrazzld/todo-api/internal/domain"
)

// CreateTaskRequest is the body of POST /tasks.
type CreateTaskRequest struct {
	Title     string `json:"title"     validate:"required,notblank"`
	Status    string `json:"status"    validate:"required,oneof=OPEN IN_PROGRESS DONE CLOSED"`
	CreatedBy int64  `json:"createdBy" validate:"required,gt=0"`
}

// UpdateTaskRequest is the body of PUT /tasks/{id}.
// A createdBy field in the body is ignored; owners never change.
type UpdateTaskRequest struct {
	Title  string `json:"title"  validate:"required,notblank"`
	Status string `json:"status" validate:"required,oneof=OPEN IN_PROGRESS DONE CLOSED"`
}

// TaskResponse represents a task on the wire.
type TaskResponse struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Status    string    `json:"status"`
	CreatedBy int64     `json:"createdBy"`
	CreatedAt time.Time `json:"createdAt"`
}

// CreateUserRequest is the body of POST /users.
type CreateUserRequest struct {
	Username string `json:"username" validate:"required,notblank,max=64"`
}

// UserResponse represents a user on the wire.
type UserResponse struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"createdAt"`
}

func taskToResponse(task *domain.Task) TaskResponse {
	return TaskResponse{
		ID:        task.ID,
		Title:     task.Title,
		Status:    string(task.Status),
		CreatedBy: task.CreatedBy,
		CreatedAt: task.CreatedAt.UTC(),
	}
}

func tasksToResponse(tasks []*domain.Task) []TaskResponse {
	out := make([]TaskResponse, 0, len(tasks))
	for _, task := range tasks {
		out = append(out, taskToResponse(task))
	}
	return out
}

func userToResponse(user *domain.User) UserResponse {
	return UserResponse{
		ID:        user.ID,
		Username:  user.Username,
		CreatedAt: user.CreatedAt.UTC(),
	}
}
