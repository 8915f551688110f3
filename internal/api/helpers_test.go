package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/todo-api/internal/api/middleware"
	"github.com/phrazzld/todo-api/internal/api/shared"
	"github.com/phrazzld/todo-api/internal/domain"
	"github.com/phrazzld/todo-api/internal/mocks"
	"github.com/stretchr/testify/require"
)

var testCreatedAt = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestRouter(tasks *mocks.MockTaskService, users *mocks.MockUserService) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Trace(nil))

	if tasks != nil {
		h := NewTaskHandler(tasks, nil)
		r.Route("/tasks", func(r chi.Router) {
			r.Get("/", h.ListTasks)
			r.Post("/", h.CreateTask)
			r.Get("/active/count", h.CountActiveTasks)
			r.Get("/{id}", h.GetTask)
			r.Put("/{id}", h.UpdateTask)
			r.Delete("/{id}", h.DeleteTask)
		})
	}
	if users != nil {
		h := NewUserHandler(users, nil)
		r.Post("/users", h.CreateUser)
		r.Get("/users/{id}", h.GetUser)
	}
	return r
}

func doRequest(t *testing.T, handler http.Handler, method, target string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		switch b := body.(type) {
		case string:
			buf.WriteString(b)
		default:
			require.NoError(t, json.NewEncoder(&buf).Encode(b))
		}
	}

	req := httptest.NewRequest(method, target, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) shared.ErrorResponse {
	t.Helper()
	var resp shared.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func sampleTask(id int64, status domain.TaskStatus) *domain.Task {
	return &domain.Task{
		ID:        id,
		Title:     "Write report",
		Status:    status,
		CreatedBy: 1,
		CreatedAt: testCreatedAt,
	}
}
