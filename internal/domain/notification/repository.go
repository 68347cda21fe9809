package notification

import (
	"context"

	"github.com/google/uuid"
)

// NotificationRepository defines the interface for notification persistence
type NotificationRepository interface {
	// FindByUser finds all notifications addressed to the given user
	FindByUser(ctx context.Context, userID uuid.UUID) ([]Notification, error)

	// Save creates or updates a notification
	Save(ctx context.Context, n *Notification) error
}
