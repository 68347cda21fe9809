package project

import (
	"github.com/google/uuid"
	"github.com/proserv/backend/internal/domain/shared"
)

// palette is the fixed set of colors assigned to new projects. The color for
// a given project is deterministic for its name so repeated derivations of
// the same project agree.
var palette = []string{
	"#2563eb", // blue
	"#16a34a", // green
	"#d97706", // amber
	"#dc2626", // red
	"#7c3aed", // violet
	"#0891b2", // cyan
	"#db2777", // pink
	"#65a30d", // lime
}

// Project represents a downstream work record created when an order is
// confirmed. Projects are unique per (client, name).
type Project struct {
	shared.BaseAggregateRoot
	ClientID    uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_project_client_name,priority:1"`
	Name        string    `gorm:"type:varchar(200);not null;uniqueIndex:idx_project_client_name,priority:2"`
	Color       string    `gorm:"type:varchar(20);not null"`
	Description *string   `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (Project) TableName() string {
	return "projects"
}

// NewProject creates a new project with a palette color derived from its name
func NewProject(clientID uuid.UUID, name string, description *string) (*Project, error) {
	if clientID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CLIENT", "Client ID cannot be empty")
	}
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Project name cannot be empty")
	}

	return &Project{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ClientID:          clientID,
		Name:              name,
		Color:             ColorFor(name),
		Description:       description,
	}, nil
}

// ColorFor picks a palette color for the given project name
func ColorFor(name string) string {
	sum := 0
	for _, r := range name {
		sum += int(r)
	}
	return palette[sum%len(palette)]
}
