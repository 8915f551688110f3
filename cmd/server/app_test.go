package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/phrazzld/todo-api/internal/config"
	"github.com/phrazzld/todo-api/internal/domain"
	"github.com/phrazzld/todo-api/internal/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(driver, url string) *config.Config {
	return &config.Config{
		Server:   config.ServerConfig{Port: config.DefaultPort, LogLevel: "error"},
		Database: config.DatabaseConfig{Driver: driver, URL: url},
		Tasks: config.TasksConfig{
			MaxActivePerUser: config.DefaultMaxActivePerUser,
			MinDeleteAge:     config.DefaultMinDeleteAge,
		},
		Events: config.EventsConfig{QueueSize: 10, WorkerCount: 1},
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// startTestServer wires a full application and serves its router.
func startTestServer(t *testing.T, cfg *config.Config) *httptest.Server {
	t.Helper()

	app, err := newApplication(context.Background(), cfg, discardLogger())
	require.NoError(t, err)

	srv := httptest.NewServer(app.setupRouter())
	t.Cleanup(func() {
		srv.Close()
		app.cleanup()
	})
	return srv
}

func call(t *testing.T, srv *httptest.Server, method, path string, body interface{}) (*http.Response, []byte) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequest(method, srv.URL+path, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, data
}

func createUser(t *testing.T, srv *httptest.Server, username string) int64 {
	t.Helper()

	resp, body := call(t, srv, http.MethodPost, "/users", map[string]interface{}{"username": username})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))

	var user struct {
		ID int64 `json:"id"`
	}
	require.NoError(t, json.Unmarshal(body, &user))
	return user.ID
}

func createTask(t *testing.T, srv *httptest.Server, userID int64, status string) (*http.Response, []byte) {
	t.Helper()
	return call(t, srv, http.MethodPost, "/tasks", map[string]interface{}{
		"title":     "write report",
		"status":    status,
		"createdBy": userID,
	})
}

func errorMessage(t *testing.T, body []byte) string {
	t.Helper()
	var resp struct {
		Status  int    `json:"status"`
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(body, &resp), string(body))
	return resp.Message
}

func TestApplication_TaskLifecycle(t *testing.T) {
	srv := startTestServer(t, testConfig(driverMemory, ""))
	userID := createUser(t, srv, "alice")

	resp, body := createTask(t, srv, userID, "OPEN")
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	assert.NotEmpty(t, resp.Header.Get("X-Trace-ID"))

	var task struct {
		ID        int64     `json:"id"`
		Title     string    `json:"title"`
		Status    string    `json:"status"`
		CreatedBy int64     `json:"createdBy"`
		CreatedAt time.Time `json:"createdAt"`
	}
	require.NoError(t, json.Unmarshal(body, &task))
	assert.Equal(t, fmt.Sprintf("/tasks/%d", task.ID), resp.Header.Get("Location"))
	assert.Equal(t, userID, task.CreatedBy)

	resp, body = call(t, srv, http.MethodGet, fmt.Sprintf("/tasks/%d", task.ID), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `"status":"OPEN"`)

	resp, body = call(t, srv, http.MethodPut, fmt.Sprintf("/tasks/%d", task.ID),
		map[string]interface{}{"title": "ship report", "status": "DONE"})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	assert.Contains(t, string(body), `"title":"ship report"`)

	resp, body = call(t, srv, http.MethodGet, fmt.Sprintf("/tasks/active/count?userId=%d", userID), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "0", strings.TrimSpace(string(body)))

	resp, body = call(t, srv, http.MethodDelete, fmt.Sprintf("/tasks/%d", task.ID), nil)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "task cannot be deleted less than 5m0s after creation", errorMessage(t, body))

	resp, body = call(t, srv, http.MethodGet, "/tasks/999", nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "task with id 999 not found", errorMessage(t, body))
}

func TestApplication_ActiveQuota(t *testing.T) {
	srv := startTestServer(t, testConfig(driverMemory, ""))
	userID := createUser(t, srv, "bob")

	for i := 0; i < config.DefaultMaxActivePerUser; i++ {
		resp, body := createTask(t, srv, userID, "IN_PROGRESS")
		require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	}

	resp, body := createTask(t, srv, userID, "OPEN")
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, fmt.Sprintf("active task limit of 10 reached for user %d", userID), errorMessage(t, body))

	resp, _ = createTask(t, srv, userID, "CLOSED")
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, body = call(t, srv, http.MethodGet, fmt.Sprintf("/tasks?userId=%d", userID), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var tasks []map[string]interface{}
	require.NoError(t, json.Unmarshal(body, &tasks))
	assert.Len(t, tasks, 11)
}

func TestApplication_ImmediateDeleteWithoutCoolDown(t *testing.T) {
	cfg := testConfig(driverMemory, "")
	cfg.Tasks.MinDeleteAge = 0
	srv := startTestServer(t, cfg)
	userID := createUser(t, srv, "carol")

	resp, body := createTask(t, srv, userID, "OPEN")
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))

	resp, _ = call(t, srv, http.MethodDelete, resp.Header.Get("Location"), nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, _ = call(t, srv, http.MethodGet, fmt.Sprintf("/tasks/active/count?userId=%d", userID), nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestApplication_Users(t *testing.T) {
	srv := startTestServer(t, testConfig(driverMemory, ""))
	userID := createUser(t, srv, "dave")

	resp, body := call(t, srv, http.MethodPost, "/users", map[string]interface{}{"username": "dave"})
	require.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, `username "dave" is already taken`, errorMessage(t, body))

	resp, body = call(t, srv, http.MethodGet, fmt.Sprintf("/users/%d", userID), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `"username":"dave"`)

	resp, body = createTask(t, srv, userID+100, "OPEN")
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, fmt.Sprintf("user with id %d not found", userID+100), errorMessage(t, body))
}

func TestApplication_Health(t *testing.T) {
	srv := startTestServer(t, testConfig(driverMemory, ""))

	resp, body := call(t, srv, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "OK", string(body))
}

func TestApplication_SQLiteBackend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "todo.db")
	srv := startTestServer(t, testConfig(driverSQLite, path))

	userID := createUser(t, srv, "erin")
	resp, body := createTask(t, srv, userID, "OPEN")
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))

	resp, body = call(t, srv, http.MethodGet, fmt.Sprintf("/tasks/active/count?userId=%d", userID), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "1", strings.TrimSpace(string(body)))

	resp, body = call(t, srv, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "OK", string(body))
}

func TestNewApplication_Errors(t *testing.T) {
	t.Run("unsupported driver", func(t *testing.T) {
		_, err := newApplication(context.Background(), testConfig("mysql", "x"), discardLogger())
		assert.ErrorContains(t, err, `unsupported database driver "mysql"`)
	})

	t.Run("invalid quota", func(t *testing.T) {
		cfg := testConfig(driverMemory, "")
		cfg.Tasks.MaxActivePerUser = 0
		_, err := newApplication(context.Background(), cfg, discardLogger())
		assert.ErrorContains(t, err, "failed to create task service")
	})
}

func TestRouter_PanicUsesErrorBody(t *testing.T) {
	app := &application{
		config: testConfig(driverMemory, ""),
		logger: discardLogger(),
		taskService: &mocks.MockTaskService{
			GetFn: func(ctx context.Context, id int64) (*domain.Task, error) {
				panic("nil map write")
			},
		},
		userService: &mocks.MockUserService{},
	}

	srv := httptest.NewServer(app.setupRouter())
	t.Cleanup(srv.Close)

	resp, body := call(t, srv, http.MethodGet, "/tasks/1", nil)
	require.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	assert.NotEmpty(t, resp.Header.Get("X-Trace-ID"))
	assert.Equal(t, "Internal server error", errorMessage(t, body))
}
