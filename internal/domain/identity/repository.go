package identity

import (
	"context"

	"github.com/google/uuid"
)

// UserRepository defines the interface for user persistence
type UserRepository interface {
	// FindByID finds a user by ID
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)

	// FindManagers returns all users holding the manager role, excluding
	// the given user ID (pass uuid.Nil to exclude nobody)
	FindManagers(ctx context.Context, excludeID uuid.UUID) ([]User, error)

	// Save creates or updates a user
	Save(ctx context.Context, user *User) error
}
