package domain

import (
	"fmt"
	"strings"
	"time"
)

// MaxUsernameLength is the longest username accepted.
const MaxUsernameLength = 64

// User validation errors
var (
	ErrEmptyUsername   = fmt.Errorf("%w: username cannot be empty", ErrValidation)
	ErrUsernameTooLong = fmt.Errorf(
		"%w: username must be at most %d characters long",
		ErrValidation,
		MaxUsernameLength,
	)
)

// User is the owner of tasks. Tasks reference users by ID only.
type User struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"createdAt"`
}

// NewUser creates a new User with the given username.
// Surrounding whitespace is trimmed. The ID is assigned by the store.
// Returns an error if validation fails.
func NewUser(username string, now time.Time) (*User, error) {
	user := &User{
		Username:  strings.TrimSpace(username),
		CreatedAt: now.UTC(),
	}

	if err := user.Validate(); err != nil {
		return nil, err
	}

	return user, nil
}

// Validate checks if the User has valid data.
func (u *User) Validate() error {
	if strings.TrimSpace(u.Username) == "" {
		return ErrEmptyUsername
	}

	if len(u.Username) > MaxUsernameLength {
		return ErrUsernameTooLong
	}

	return nil
}
