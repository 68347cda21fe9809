package notification

import (
	"time"

	"github.com/google/uuid"
	"github.com/proserv/backend/internal/domain/shared"
)

// Notification represents an in-app notification addressed to a single user
type Notification struct {
	shared.BaseAggregateRoot
	UserID  uuid.UUID `gorm:"type:uuid;not null;index"`
	Title   string    `gorm:"type:varchar(200);not null"`
	Message string    `gorm:"type:text;not null"`
	ReadAt  *time.Time
}

// TableName returns the table name for GORM
func (Notification) TableName() string {
	return "notifications"
}

// NewNotification creates a new unread notification
func NewNotification(userID uuid.UUID, title, message string) (*Notification, error) {
	if userID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_USER", "User ID cannot be empty")
	}
	if title == "" {
		return nil, shared.NewDomainError("INVALID_TITLE", "Notification title cannot be empty")
	}

	return &Notification{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		UserID:            userID,
		Title:             title,
		Message:           message,
	}, nil
}

// MarkRead marks the notification as read
func (n *Notification) MarkRead() {
	if n.ReadAt != nil {
		return
	}
	now := time.Now()
	n.ReadAt = &now
	n.UpdatedAt = now
}
