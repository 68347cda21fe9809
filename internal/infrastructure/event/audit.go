package event

import (
	"context"

	"github.com/proserv/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// AuditLogHandler is a wildcard handler that writes a structured log entry
// for every domain event crossing the bus. It gives operators a lightweight
// audit trail of document lifecycle changes without a persistent event store.
type AuditLogHandler struct {
	logger *zap.Logger
}

// NewAuditLogHandler creates a new audit log handler
func NewAuditLogHandler(logger *zap.Logger) *AuditLogHandler {
	return &AuditLogHandler{
		logger: logger.Named("audit"),
	}
}

// Handle logs the event
func (h *AuditLogHandler) Handle(ctx context.Context, evt shared.DomainEvent) error {
	h.logger.Info("Domain event",
		zap.String("event_type", evt.EventType()),
		zap.String("event_id", evt.EventID().String()),
		zap.String("aggregate_type", evt.AggregateType()),
		zap.String("aggregate_id", evt.AggregateID().String()),
		zap.Time("occurred_at", evt.OccurredAt()),
	)
	return nil
}

// EventTypes returns an empty slice, subscribing the handler to all events
func (h *AuditLogHandler) EventTypes() []string {
	return nil
}

// Ensure AuditLogHandler implements the EventHandler interface
var _ shared.EventHandler = (*AuditLogHandler)(nil)
