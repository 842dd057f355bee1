// Package store persists user identities.
package store

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// User is a stored identity. Normalized fields are the upper-cased lookup keys.
type User struct {
	ID                 uuid.UUID
	UserName           string
	NormalizedUserName string
	Email              string
	NormalizedEmail    string
	EmailConfirmed     bool
	PasswordHash       string
	SecurityStamp      uuid.UUID
	CreatedAt          time.Time
}

// UserStore is an interface for identity storage operations.
type UserStore interface {
	// Create inserts a user and fills CreatedAt.
	// Returns ErrUserExists if the user name or email is taken.
	Create(ctx context.Context, user User) (*User, error)

	// FindByID returns ErrUserNotFound if no user has the given ID.
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)

	// FindByNormalizedEmail returns ErrUserNotFound if no user has the given email.
	FindByNormalizedEmail(ctx context.Context, normalizedEmail string) (*User, error)

	// DeleteByID returns ErrUserNotFound if no user has the given ID.
	DeleteByID(ctx context.Context, id uuid.UUID) error
}
