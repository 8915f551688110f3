package memory

import (
	"sync"

	"github.com/phrazzld/todo-api/internal/domain"
)

// DB is the shared state behind a TaskStore and UserStore pair.
// Tasks reference users, so both live under the same lock.
type DB struct {
	mu sync.RWMutex

	users     map[int64]*domain.User
	usernames map[string]int64
	tasks     map[int64]*domain.Task

	lastUserID int64
	lastTaskID int64
}

// NewDB creates an empty in-memory database.
func NewDB() *DB {
	return &DB{
		users:     make(map[int64]*domain.User),
		usernames: make(map[string]int64),
		tasks:     make(map[int64]*domain.Task),
	}
}
