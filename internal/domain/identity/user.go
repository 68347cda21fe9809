package identity

import (
	"github.com/proserv/backend/internal/domain/shared"
)

// Role represents a user's role in the system
type Role string

const (
	RoleManager  Role = "manager"
	RoleEmployee Role = "employee"
)

// IsValid checks if the role is known
func (r Role) IsValid() bool {
	switch r {
	case RoleManager, RoleEmployee:
		return true
	}
	return false
}

// User represents an application user
type User struct {
	shared.BaseAggregateRoot
	Name  string `gorm:"type:varchar(100);not null"`
	Email string `gorm:"type:varchar(200);not null;uniqueIndex"`
	Role  Role   `gorm:"type:varchar(20);not null;default:'employee'"`
}

// TableName returns the table name for GORM
func (User) TableName() string {
	return "users"
}

// NewUser creates a new user
func NewUser(name, email string, role Role) (*User, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "User name cannot be empty")
	}
	if email == "" {
		return nil, shared.NewDomainError("INVALID_EMAIL", "User email cannot be empty")
	}
	if !role.IsValid() {
		return nil, shared.NewDomainError("INVALID_ROLE", "Unknown user role: "+string(role))
	}

	return &User{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Email:             email,
		Role:              role,
	}, nil
}

// IsManager returns true if the user holds the manager role
func (u *User) IsManager() bool {
	return u.Role == RoleManager
}
