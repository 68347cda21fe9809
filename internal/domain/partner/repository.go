package partner

import (
	"context"

	"github.com/google/uuid"
)

// ClientRepository defines the interface for client persistence
type ClientRepository interface {
	// FindByID finds a client by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Client, error)

	// FindCode returns the client's short code, or empty string when the
	// client does not exist
	FindCode(ctx context.Context, id uuid.UUID) (string, error)

	// Save creates or updates a client
	Save(ctx context.Context, client *Client) error
}
