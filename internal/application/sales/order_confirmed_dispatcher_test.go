package sales

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/proserv/backend/internal/domain/catalog"
	"github.com/proserv/backend/internal/domain/identity"
	"github.com/proserv/backend/internal/domain/project"
	"github.com/proserv/backend/internal/domain/sales"
	"github.com/proserv/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type dispatcherFixture struct {
	projectRepo      *MockProjectRepository
	clientRepo       *MockClientRepository
	userRepo         *MockUserRepository
	notificationRepo *MockNotificationRepository
	productRepo      *MockProductRepository
	dispatcher       *OrderConfirmedDispatcher
}

func newDispatcherFixture() *dispatcherFixture {
	f := &dispatcherFixture{
		projectRepo:      new(MockProjectRepository),
		clientRepo:       new(MockClientRepository),
		userRepo:         new(MockUserRepository),
		notificationRepo: new(MockNotificationRepository),
		productRepo:      new(MockProductRepository),
	}
	f.dispatcher = NewOrderConfirmedDispatcher(
		f.projectRepo, f.clientRepo, f.userRepo, f.notificationRepo, f.productRepo, zap.NewNop())
	return f
}

func dispatcherTestOrder(t *testing.T, items ...sales.LineItem) *sales.Order {
	t.Helper()
	order, err := sales.NewOrder(testClientID, testClientName, "NET30", valueobject.ZeroPercent(), "", nil)
	require.NoError(t, err)
	require.NoError(t, order.ReplaceItems(items))
	order.ClearDomainEvents()
	return order
}

func dispatcherTestItem(t *testing.T, productID uuid.UUID, note string) sales.LineItem {
	t.Helper()
	item, err := sales.NewLineItem(productID, "Consulting", nil,
		decimal.NewFromInt(1), valueobject.NewMoneyEUR(decimal.NewFromInt(100)), valueobject.ZeroPercent(), note)
	require.NoError(t, err)
	return *item
}

func TestOrderConfirmedDispatcher_CreateProjects(t *testing.T) {
	ctx := context.Background()

	t.Run("creates one project per line item with the derived name", func(t *testing.T) {
		f := newDispatcherFixture()
		productA := uuid.New()
		productB := uuid.New()
		order := dispatcherTestOrder(t,
			dispatcherTestItem(t, productA, "kickoff work"),
			dispatcherTestItem(t, productB, ""),
		)
		year := order.CreatedAt.Year()

		f.clientRepo.On("FindCode", ctx, order.ClientID).Return("ACME", nil)
		f.productRepo.On("FindByIDs", ctx, mock.Anything).Return([]catalog.Product{
			testProduct(productA, "SRV-001", 50, 0),
			testProduct(productB, "SRV-002", 80, 0),
		}, nil)
		f.projectRepo.On("ExistsByClientAndName", ctx, order.ClientID, mock.Anything).Return(false, nil)

		var saved []*project.Project
		f.projectRepo.On("Save", ctx, mock.AnythingOfType("*project.Project")).
			Run(func(args mock.Arguments) {
				saved = append(saved, args.Get(1).(*project.Project))
			}).Return(nil)

		created, err := f.dispatcher.CreateProjects(ctx, order)

		require.NoError(t, err)
		assert.ElementsMatch(t, []string{
			fmt.Sprintf("ACME_SRV-001_%d", year),
			fmt.Sprintf("ACME_SRV-002_%d", year),
		}, created)
		require.Len(t, saved, 2)
		for _, p := range saved {
			assert.Equal(t, order.ClientID, p.ClientID)
			assert.NotEmpty(t, p.Color)
		}
		// the item note seeds the project description
		first := saved[0]
		if first.Name != fmt.Sprintf("ACME_SRV-001_%d", year) {
			first = saved[1]
		}
		require.NotNil(t, first.Description)
		assert.Equal(t, "kickoff work", *first.Description)
	})

	t.Run("skips projects that already exist for the client", func(t *testing.T) {
		f := newDispatcherFixture()
		productID := uuid.New()
		order := dispatcherTestOrder(t, dispatcherTestItem(t, productID, ""))
		name := fmt.Sprintf("ACME_SRV-001_%d", order.CreatedAt.Year())

		f.clientRepo.On("FindCode", ctx, order.ClientID).Return("ACME", nil)
		f.productRepo.On("FindByIDs", ctx, mock.Anything).
			Return([]catalog.Product{testProduct(productID, "SRV-001", 50, 0)}, nil)
		f.projectRepo.On("ExistsByClientAndName", ctx, order.ClientID, name).Return(true, nil)

		created, err := f.dispatcher.CreateProjects(ctx, order)

		require.NoError(t, err)
		assert.Empty(t, created)
		f.projectRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("collapses duplicate names within one order", func(t *testing.T) {
		f := newDispatcherFixture()
		productID := uuid.New()
		order := dispatcherTestOrder(t,
			dispatcherTestItem(t, productID, "phase one"),
			dispatcherTestItem(t, productID, "phase two"),
		)

		f.clientRepo.On("FindCode", ctx, order.ClientID).Return("ACME", nil)
		f.productRepo.On("FindByIDs", ctx, mock.Anything).
			Return([]catalog.Product{testProduct(productID, "SRV-001", 50, 0)}, nil)
		f.projectRepo.On("ExistsByClientAndName", ctx, order.ClientID, mock.Anything).Return(false, nil)
		f.projectRepo.On("Save", ctx, mock.AnythingOfType("*project.Project")).Return(nil)

		created, err := f.dispatcher.CreateProjects(ctx, order)

		require.NoError(t, err)
		assert.Len(t, created, 1)
		f.projectRepo.AssertNumberOfCalls(t, "Save", 1)
	})

	t.Run("falls back to raw IDs when codes are missing", func(t *testing.T) {
		f := newDispatcherFixture()
		productID := uuid.New()
		order := dispatcherTestOrder(t, dispatcherTestItem(t, productID, ""))
		name := fmt.Sprintf("%s_%s_%d", order.ClientID, productID, order.CreatedAt.Year())

		f.clientRepo.On("FindCode", ctx, order.ClientID).Return("", nil)
		f.productRepo.On("FindByIDs", ctx, mock.Anything).Return([]catalog.Product{}, nil)
		f.projectRepo.On("ExistsByClientAndName", ctx, order.ClientID, name).Return(false, nil)
		f.projectRepo.On("Save", ctx, mock.AnythingOfType("*project.Project")).Return(nil)

		created, err := f.dispatcher.CreateProjects(ctx, order)

		require.NoError(t, err)
		assert.Equal(t, []string{name}, created)
	})

	t.Run("propagates a project save failure", func(t *testing.T) {
		f := newDispatcherFixture()
		productID := uuid.New()
		order := dispatcherTestOrder(t, dispatcherTestItem(t, productID, ""))

		f.clientRepo.On("FindCode", ctx, order.ClientID).Return("ACME", nil)
		f.productRepo.On("FindByIDs", ctx, mock.Anything).
			Return([]catalog.Product{testProduct(productID, "SRV-001", 50, 0)}, nil)
		f.projectRepo.On("ExistsByClientAndName", ctx, order.ClientID, mock.Anything).Return(false, nil)
		f.projectRepo.On("Save", ctx, mock.AnythingOfType("*project.Project")).
			Return(errors.New("database unavailable"))

		_, err := f.dispatcher.CreateProjects(ctx, order)

		assert.Error(t, err)
	})
}

func TestOrderConfirmedDispatcher_NotifyManagers(t *testing.T) {
	ctx := context.Background()
	actorID := uuid.New()

	t.Run("notifies every manager except the actor", func(t *testing.T) {
		f := newDispatcherFixture()
		order := dispatcherTestOrder(t, dispatcherTestItem(t, uuid.New(), ""))

		managerA, err := identity.NewUser("Dana", "dana@example.com", identity.RoleManager)
		require.NoError(t, err)
		managerB, err := identity.NewUser("Robin", "robin@example.com", identity.RoleManager)
		require.NoError(t, err)

		f.userRepo.On("FindManagers", ctx, actorID).Return([]identity.User{*managerA, *managerB}, nil)
		f.notificationRepo.On("Save", ctx, mock.AnythingOfType("*notification.Notification")).Return(nil)

		f.dispatcher.NotifyManagers(ctx, order, []string{"ACME_SRV-001_2026"}, actorID)

		f.userRepo.AssertExpectations(t)
		f.notificationRepo.AssertNumberOfCalls(t, "Save", 2)
	})

	t.Run("a manager lookup failure is swallowed", func(t *testing.T) {
		f := newDispatcherFixture()
		order := dispatcherTestOrder(t, dispatcherTestItem(t, uuid.New(), ""))

		f.userRepo.On("FindManagers", ctx, actorID).Return(nil, errors.New("directory down"))

		f.dispatcher.NotifyManagers(ctx, order, nil, actorID)

		f.notificationRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("a single save failure does not stop the remaining notices", func(t *testing.T) {
		f := newDispatcherFixture()
		order := dispatcherTestOrder(t, dispatcherTestItem(t, uuid.New(), ""))

		managerA, err := identity.NewUser("Dana", "dana@example.com", identity.RoleManager)
		require.NoError(t, err)
		managerB, err := identity.NewUser("Robin", "robin@example.com", identity.RoleManager)
		require.NoError(t, err)

		f.userRepo.On("FindManagers", ctx, actorID).Return([]identity.User{*managerA, *managerB}, nil)
		f.notificationRepo.On("Save", ctx, mock.AnythingOfType("*notification.Notification")).
			Return(errors.New("queue full")).Once()
		f.notificationRepo.On("Save", ctx, mock.AnythingOfType("*notification.Notification")).
			Return(nil).Once()

		f.dispatcher.NotifyManagers(ctx, order, nil, actorID)

		f.notificationRepo.AssertNumberOfCalls(t, "Save", 2)
	})
}
