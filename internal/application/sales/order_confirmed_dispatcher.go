package sales

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/proserv/backend/internal/domain/catalog"
	"github.com/proserv/backend/internal/domain/identity"
	"github.com/proserv/backend/internal/domain/notification"
	"github.com/proserv/backend/internal/domain/partner"
	"github.com/proserv/backend/internal/domain/project"
	"github.com/proserv/backend/internal/domain/sales"
	"go.uber.org/zap"
)

// OrderConfirmedDispatcher runs the side effects of an order's first
// transition from DRAFT to CONFIRMED: one project per line item, idempotent by
// (client, derived name), followed by a summary notification to every manager
// except the confirming user.
type OrderConfirmedDispatcher struct {
	projectRepo      project.ProjectRepository
	clientRepo       partner.ClientRepository
	userRepo         identity.UserRepository
	notificationRepo notification.NotificationRepository
	productRepo      catalog.ProductRepository
	logger           *zap.Logger
}

// NewOrderConfirmedDispatcher creates a new OrderConfirmedDispatcher
func NewOrderConfirmedDispatcher(
	projectRepo project.ProjectRepository,
	clientRepo partner.ClientRepository,
	userRepo identity.UserRepository,
	notificationRepo notification.NotificationRepository,
	productRepo catalog.ProductRepository,
	logger *zap.Logger,
) *OrderConfirmedDispatcher {
	return &OrderConfirmedDispatcher{
		projectRepo:      projectRepo,
		clientRepo:       clientRepo,
		userRepo:         userRepo,
		notificationRepo: notificationRepo,
		productRepo:      productRepo,
		logger:           logger,
	}
}

// CreateProjects derives one project per line item and creates the ones that
// do not exist yet for the order's client. The project name is
// {clientCode}_{productCode}_{orderYear}, falling back to the raw client and
// product IDs when no code is on record. Returns the names actually created.
// Any error aborts the caller's confirmation.
func (d *OrderConfirmedDispatcher) CreateProjects(ctx context.Context, order *sales.Order) ([]string, error) {
	clientCode, err := d.clientRepo.FindCode(ctx, order.ClientID)
	if err != nil {
		return nil, err
	}
	if clientCode == "" {
		clientCode = order.ClientID.String()
	}

	productCodes, err := d.productCodes(ctx, order.Items)
	if err != nil {
		return nil, err
	}

	year := order.CreatedAt.Year()
	created := make([]string, 0, len(order.Items))
	seen := make(map[string]bool, len(order.Items))

	for i := range order.Items {
		item := &order.Items[i]

		productCode, ok := productCodes[item.ProductID]
		if !ok || productCode == "" {
			productCode = item.ProductID.String()
		}
		name := fmt.Sprintf("%s_%s_%d", clientCode, productCode, year)

		// Duplicate names within one order collapse to a single project.
		if seen[name] {
			continue
		}
		seen[name] = true

		exists, err := d.projectRepo.ExistsByClientAndName(ctx, order.ClientID, name)
		if err != nil {
			return nil, err
		}
		if exists {
			continue
		}

		var description *string
		if item.Note != "" {
			note := item.Note
			description = &note
		}

		p, err := project.NewProject(order.ClientID, name, description)
		if err != nil {
			return nil, err
		}
		if err := d.projectRepo.Save(ctx, p); err != nil {
			return nil, err
		}

		d.logger.Info("project created from confirmed order",
			zap.String("order_id", order.ID.String()),
			zap.String("client_id", order.ClientID.String()),
			zap.String("project_name", name),
		)
		created = append(created, name)
	}

	return created, nil
}

// NotifyManagers sends one notification per manager summarizing the projects
// created by the confirmation. Failures are logged and never propagate: by
// the time this runs, the confirmation is already committed.
func (d *OrderConfirmedDispatcher) NotifyManagers(ctx context.Context, order *sales.Order, createdProjects []string, actorID uuid.UUID) {
	managers, err := d.userRepo.FindManagers(ctx, actorID)
	if err != nil {
		d.logger.Warn("failed to list managers for confirmation notice",
			zap.String("order_id", order.ID.String()),
			zap.Error(err),
		)
		return
	}

	title := "Order confirmed"
	message := fmt.Sprintf("Order %s for %s was confirmed.", order.ID, order.ClientName)
	if len(createdProjects) > 0 {
		message = fmt.Sprintf("%s %d project(s) created: %s.",
			message, len(createdProjects), strings.Join(createdProjects, ", "))
	}

	for i := range managers {
		n, err := notification.NewNotification(managers[i].ID, title, message)
		if err != nil {
			d.logger.Warn("failed to build confirmation notice",
				zap.String("user_id", managers[i].ID.String()),
				zap.Error(err),
			)
			continue
		}
		if err := d.notificationRepo.Save(ctx, n); err != nil {
			d.logger.Warn("failed to save confirmation notice",
				zap.String("user_id", managers[i].ID.String()),
				zap.String("order_id", order.ID.String()),
				zap.Error(err),
			)
		}
	}
}

// productCodes batch-loads the codes of the products referenced by the items
func (d *OrderConfirmedDispatcher) productCodes(ctx context.Context, items []sales.LineItem) (map[uuid.UUID]string, error) {
	ids := make([]uuid.UUID, 0, len(items))
	seen := make(map[uuid.UUID]bool, len(items))
	for i := range items {
		if !seen[items[i].ProductID] {
			seen[items[i].ProductID] = true
			ids = append(ids, items[i].ProductID)
		}
	}

	products, err := d.productRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	codes := make(map[uuid.UUID]string, len(products))
	for _, p := range products {
		codes[p.ID] = p.Code
	}
	return codes, nil
}
