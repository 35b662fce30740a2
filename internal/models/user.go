package models

import (
	"time"

	"github.com/google/uuid"
)

// UserID uniquely identifies a registered user (UUID format).
// It is a distinct type so balance maps and member lists cannot be keyed by
// arbitrary strings.
type UserID string

// User represents a registered user account.
type User struct {
	// ID is the unique identifier for the user.
	ID UserID

	// Name is the display name of the user.
	Name string

	// Email is the user's email address (unique). Used for login and for
	// adding members to groups.
	Email string

	// PasswordHash is the bcrypt hash of the user's password.
	// Never serialized in API responses.
	PasswordHash string

	// CreatedAt is the Unix timestamp when the account was created.
	CreatedAt int64
}

// NewUser creates a user with a fresh ID and creation timestamp.
func NewUser(name, email, passwordHash string) *User {
	return &User{
		ID:           UserID(uuid.New().String()),
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().Unix(),
	}
}
