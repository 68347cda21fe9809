package project

import (
	"context"

	"github.com/google/uuid"
)

// ProjectRepository defines the interface for project persistence
type ProjectRepository interface {
	// FindByID finds a project by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Project, error)

	// ExistsByClientAndName checks whether the client already has a project
	// with the exact given name
	ExistsByClientAndName(ctx context.Context, clientID uuid.UUID, name string) (bool, error)

	// Save creates or updates a project
	Save(ctx context.Context, project *Project) error
}
