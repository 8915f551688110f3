// Package storetest holds the behavioural contract every store.TaskStore and
// store.UserStore implementation must satisfy. Backend packages run it from
// their own tests with a factory that returns fresh, empty stores.
package storetest

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/phrazzld/todo-api/internal/domain"
	"github.com/phrazzld/todo-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Stores is a pair of stores sharing one backing database.
type Stores struct {
	Tasks store.TaskStore
	Users store.UserStore
}

// Factory returns empty stores for a single subtest.
type Factory func(t *testing.T) Stores

// baseTime is truncated to microseconds so every backend round-trips it exactly.
var baseTime = time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)

// Run executes the full contract suite.
func Run(t *testing.T, newStores Factory) {
	t.Helper()

	t.Run("UserCreateAndGet", func(t *testing.T) { testUserCreateAndGet(t, newStores(t)) })
	t.Run("UserDuplicateUsername", func(t *testing.T) { testUserDuplicate(t, newStores(t)) })
	t.Run("UserNotFound", func(t *testing.T) { testUserNotFound(t, newStores(t)) })
	t.Run("TaskCreateAndGet", func(t *testing.T) { testTaskCreateAndGet(t, newStores(t)) })
	t.Run("TaskCreateUnknownOwner", func(t *testing.T) { testTaskUnknownOwner(t, newStores(t)) })
	t.Run("TaskCreateInvalid", func(t *testing.T) { testTaskCreateInvalid(t, newStores(t)) })
	t.Run("TaskNotFound", func(t *testing.T) { testTaskNotFound(t, newStores(t)) })
	t.Run("TaskListByUser", func(t *testing.T) { testTaskListByUser(t, newStores(t)) })
	t.Run("TaskListRange", func(t *testing.T) { testTaskListRange(t, newStores(t)) })
	t.Run("TaskUpdate", func(t *testing.T) { testTaskUpdate(t, newStores(t)) })
	t.Run("TaskDelete", func(t *testing.T) { testTaskDelete(t, newStores(t)) })
	t.Run("TaskCountActive", func(t *testing.T) { testTaskCountActive(t, newStores(t)) })
}

func mustCreateUser(t *testing.T, s Stores, username string) *domain.User {
	t.Helper()

	user, err := domain.NewUser(username, baseTime)
	require.NoError(t, err)
	require.NoError(t, s.Users.Create(context.Background(), user))
	require.Positive(t, user.ID)
	return user
}

func mustCreateTask(
	t *testing.T,
	s Stores,
	userID int64,
	title string,
	status domain.TaskStatus,
	createdAt time.Time,
) *domain.Task {
	t.Helper()

	task, err := domain.NewTask(title, status, userID, createdAt)
	require.NoError(t, err)
	require.NoError(t, s.Tasks.Create(context.Background(), task))
	require.Positive(t, task.ID)
	return task
}

func testUserCreateAndGet(t *testing.T, s Stores) {
	ctx := context.Background()
	first := mustCreateUser(t, s, "alice")
	second := mustCreateUser(t, s, "bob")

	assert.NotEqual(t, first.ID, second.ID)

	got, err := s.Users.GetByID(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, got.ID)
	assert.Equal(t, "alice", got.Username)
	assert.True(t, baseTime.Equal(got.CreatedAt), "created_at = %v", got.CreatedAt)
}

func testUserDuplicate(t *testing.T, s Stores) {
	mustCreateUser(t, s, "alice")

	dup, err := domain.NewUser("alice", baseTime)
	require.NoError(t, err)

	err = s.Users.Create(context.Background(), dup)
	assert.ErrorIs(t, err, store.ErrUsernameExists)
	assert.ErrorIs(t, err, store.ErrDuplicate)
}

func testUserNotFound(t *testing.T, s Stores) {
	_, err := s.Users.GetByID(context.Background(), 424242)
	assert.ErrorIs(t, err, store.ErrUserNotFound)
}

func testTaskCreateAndGet(t *testing.T, s Stores) {
	ctx := context.Background()
	user := mustCreateUser(t, s, "alice")

	first := mustCreateTask(t, s, user.ID, "write report", domain.TaskStatusOpen, baseTime)
	second := mustCreateTask(t, s, user.ID, "review report", domain.TaskStatusDone, baseTime)
	assert.NotEqual(t, first.ID, second.ID)

	got, err := s.Tasks.GetByID(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, got.ID)
	assert.Equal(t, "write report", got.Title)
	assert.Equal(t, domain.TaskStatusOpen, got.Status)
	assert.Equal(t, user.ID, got.CreatedBy)
	assert.True(t, baseTime.Equal(got.CreatedAt), "created_at = %v", got.CreatedAt)

	// Mutating the returned value must not leak into the store.
	got.Title = "changed"
	again, err := s.Tasks.GetByID(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, "write report", again.Title)
}

func testTaskUnknownOwner(t *testing.T, s Stores) {
	task, err := domain.NewTask("orphan", domain.TaskStatusOpen, 999, baseTime)
	require.NoError(t, err)

	err = s.Tasks.Create(context.Background(), task)
	assert.ErrorIs(t, err, store.ErrInvalidEntity)
}

func testTaskCreateInvalid(t *testing.T, s Stores) {
	user := mustCreateUser(t, s, "alice")

	task := &domain.Task{Title: "  ", Status: domain.TaskStatusOpen, CreatedBy: user.ID, CreatedAt: baseTime}
	err := s.Tasks.Create(context.Background(), task)
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Zero(t, task.ID)
}

func testTaskNotFound(t *testing.T, s Stores) {
	ctx := context.Background()

	_, err := s.Tasks.GetByID(ctx, 777)
	assert.ErrorIs(t, err, store.ErrTaskNotFound)

	ghost := &domain.Task{ID: 777, Title: "ghost", Status: domain.TaskStatusOpen, CreatedBy: 1, CreatedAt: baseTime}
	assert.ErrorIs(t, s.Tasks.Update(ctx, ghost), store.ErrTaskNotFound)
	assert.ErrorIs(t, s.Tasks.Delete(ctx, 777), store.ErrTaskNotFound)
}

func testTaskListByUser(t *testing.T, s Stores) {
	ctx := context.Background()
	alice := mustCreateUser(t, s, "alice")
	bob := mustCreateUser(t, s, "bob")

	// Inserted out of order; equal timestamps fall back to ID order.
	later := mustCreateTask(t, s, alice.ID, "later", domain.TaskStatusOpen, baseTime.Add(2*time.Hour))
	early := mustCreateTask(t, s, alice.ID, "early", domain.TaskStatusDone, baseTime)
	tieA := mustCreateTask(t, s, alice.ID, "tie a", domain.TaskStatusOpen, baseTime.Add(time.Hour))
	tieB := mustCreateTask(t, s, alice.ID, "tie b", domain.TaskStatusClosed, baseTime.Add(time.Hour))
	mustCreateTask(t, s, bob.ID, "bob's", domain.TaskStatusOpen, baseTime)

	tasks, err := s.Tasks.ListByUser(ctx, alice.ID, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, []int64{early.ID, tieA.ID, tieB.ID, later.ID}, ids(tasks))
	for _, task := range tasks {
		assert.Equal(t, alice.ID, task.CreatedBy)
	}

	none, err := s.Tasks.ListByUser(ctx, 31337, nil, nil)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func testTaskListRange(t *testing.T, s Stores) {
	ctx := context.Background()
	user := mustCreateUser(t, s, "alice")

	var created []*domain.Task
	for i := 0; i < 4; i++ {
		created = append(created, mustCreateTask(
			t, s, user.ID, fmt.Sprintf("task %d", i), domain.TaskStatusDone,
			baseTime.Add(time.Duration(i)*time.Hour),
		))
	}

	from := baseTime.Add(time.Hour)
	to := baseTime.Add(2 * time.Hour)
	fromNanos := from.Add(500 * time.Nanosecond)
	toNanos := to.Add(500 * time.Nanosecond)

	tests := []struct {
		name string
		from *time.Time
		to   *time.Time
		want []int64
	}{
		{"inclusive both ends", &from, &to, []int64{created[1].ID, created[2].ID}},
		{"open upper bound", &from, nil, []int64{created[1].ID, created[2].ID, created[3].ID}},
		{"open lower bound", nil, &to, []int64{created[0].ID, created[1].ID, created[2].ID}},
		{"single instant", &to, &to, []int64{created[2].ID}},
		{"inverted range", &to, &from, nil},
		{"sub-microsecond lower bound", &fromNanos, &to, []int64{created[2].ID}},
		{"sub-microsecond upper bound", &from, &toNanos, []int64{created[1].ID, created[2].ID}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tasks, err := s.Tasks.ListByUser(ctx, user.ID, tt.from, tt.to)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ids(tasks))
		})
	}
}

func testTaskUpdate(t *testing.T, s Stores) {
	ctx := context.Background()
	user := mustCreateUser(t, s, "alice")
	task := mustCreateTask(t, s, user.ID, "draft", domain.TaskStatusOpen, baseTime)

	update := *task
	require.NoError(t, update.Apply("final", domain.TaskStatusDone))
	// Owner and timestamp changes must be ignored.
	update.CreatedBy = user.ID + 100
	update.CreatedAt = baseTime.Add(24 * time.Hour)

	require.NoError(t, s.Tasks.Update(ctx, &update))

	got, err := s.Tasks.GetByID(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "final", got.Title)
	assert.Equal(t, domain.TaskStatusDone, got.Status)
	assert.Equal(t, user.ID, got.CreatedBy)
	assert.True(t, baseTime.Equal(got.CreatedAt))
}

func testTaskDelete(t *testing.T, s Stores) {
	ctx := context.Background()
	user := mustCreateUser(t, s, "alice")
	task := mustCreateTask(t, s, user.ID, "temp", domain.TaskStatusOpen, baseTime)

	require.NoError(t, s.Tasks.Delete(ctx, task.ID))

	_, err := s.Tasks.GetByID(ctx, task.ID)
	assert.ErrorIs(t, err, store.ErrTaskNotFound)
	assert.ErrorIs(t, s.Tasks.Delete(ctx, task.ID), store.ErrTaskNotFound)
}

func testTaskCountActive(t *testing.T, s Stores) {
	ctx := context.Background()
	alice := mustCreateUser(t, s, "alice")
	bob := mustCreateUser(t, s, "bob")

	count, err := s.Tasks.CountActiveByUser(ctx, alice.ID)
	require.NoError(t, err)
	assert.Zero(t, count)

	mustCreateTask(t, s, alice.ID, "a", domain.TaskStatusOpen, baseTime)
	inProgress := mustCreateTask(t, s, alice.ID, "b", domain.TaskStatusInProgress, baseTime)
	mustCreateTask(t, s, alice.ID, "c", domain.TaskStatusDone, baseTime)
	mustCreateTask(t, s, alice.ID, "d", domain.TaskStatusClosed, baseTime)
	mustCreateTask(t, s, bob.ID, "e", domain.TaskStatusOpen, baseTime)

	count, err = s.Tasks.CountActiveByUser(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	require.NoError(t, inProgress.Apply(inProgress.Title, domain.TaskStatusDone))
	require.NoError(t, s.Tasks.Update(ctx, inProgress))

	count, err = s.Tasks.CountActiveByUser(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func ids(tasks []*domain.Task) []int64 {
	if len(tasks) == 0 {
		return nil
	}
	out := make([]int64, 0, len(tasks))
	for _, task := range tasks {
		out = append(out, task.ID)
	}
	return out
}
