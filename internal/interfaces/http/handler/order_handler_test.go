package handler

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	salesapp "github.com/proserv/backend/internal/application/sales"
	"github.com/proserv/backend/internal/domain/catalog"
	"github.com/proserv/backend/internal/domain/sales"
	"github.com/proserv/backend/internal/domain/shared"
	"github.com/proserv/backend/internal/domain/shared/valueobject"
)

func setupOrderTestRouter() (*gin.Engine, *MockOrderRepository, *MockQuoteRepository, *MockProductRepository) {
	orderRepo := new(MockOrderRepository)
	quoteRepo := new(MockQuoteRepository)
	productRepo := new(MockProductRepository)
	specialPriceRepo := new(MockSpecialPriceRepository)

	resolver := salesapp.NewSnapshotResolver(productRepo, specialPriceRepo)
	// The dispatcher only runs on the confirmation path, which these tests
	// never reach.
	dispatcher := salesapp.NewOrderConfirmedDispatcher(nil, nil, nil, nil, nil, zap.NewNop())
	service := salesapp.NewOrderService(orderRepo, quoteRepo, resolver, dispatcher, salesapp.NoopInvalidationSink{}, zap.NewNop())
	handler := NewOrderHandler(service)

	r := gin.New()
	api := r.Group("/api/v1")
	handler.RegisterRoutes(api)
	return r, orderRepo, quoteRepo, productRepo
}

func testOrder(t *testing.T, linkedQuoteID *uuid.UUID) *sales.Order {
	t.Helper()
	order, err := sales.NewOrder(uuid.New(), "ACME Corp", "NET30", valueobject.ZeroPercent(), "", linkedQuoteID)
	require.NoError(t, err)
	item, err := sales.NewLineItem(uuid.New(), "Consulting", nil, decimal.NewFromInt(2), valueobject.NewMoneyEUR(decimal.NewFromInt(100)), valueobject.ZeroPercent(), "")
	require.NoError(t, err)
	item.AttachSnapshot(sales.Snapshot{ProductCost: decimal.NewFromInt(50)})
	require.NoError(t, order.ReplaceItems([]sales.LineItem{*item}))
	order.ApplyTotals(sales.ComputeTotals(order.Items, valueobject.ZeroPercent()))
	return order
}

func TestOrderHandler_Create(t *testing.T) {
	t.Run("creates draft order", func(t *testing.T) {
		router, orderRepo, _, productRepo := setupOrderTestRouter()
		productID := uuid.New()

		productRepo.On("FindByIDs", mock.Anything, []uuid.UUID{productID}).
			Return([]catalog.Product{testProduct(t, productID)}, nil)
		orderRepo.On("Save", mock.Anything, mock.AnythingOfType("*sales.Order")).Return(nil)

		body := fmt.Sprintf(`{
			"client_id": %q,
			"client_name": "ACME Corp",
			"items": [{"product_id": %q, "product_name": "Consulting", "quantity": "2", "unit_price": "100"}]
		}`, uuid.New(), productID)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/orders", bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
		resp := decodeResponse(t, w)
		data := resp.Data.(map[string]interface{})
		assert.Equal(t, "DRAFT", data["status"])
		orderRepo.AssertExpectations(t)
	})

	t.Run("rejects unknown linked quote", func(t *testing.T) {
		router, _, quoteRepo, _ := setupOrderTestRouter()
		quoteID := uuid.New()
		quoteRepo.On("FindByID", mock.Anything, quoteID).Return(nil, shared.ErrNotFound)

		body := fmt.Sprintf(`{
			"client_id": %q,
			"client_name": "ACME Corp",
			"linked_quote_id": %q,
			"items": [{"product_id": %q, "product_name": "Consulting", "quantity": "1", "unit_price": "100"}]
		}`, uuid.New(), quoteID, uuid.New())

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/orders", bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestOrderHandler_GetByID(t *testing.T) {
	t.Run("returns order", func(t *testing.T) {
		router, orderRepo, _, _ := setupOrderTestRouter()
		order := testOrder(t, nil)
		orderRepo.On("FindByID", mock.Anything, order.ID).Return(order, nil)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/orders/"+order.ID.String(), nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("returns 404 for missing order", func(t *testing.T) {
		router, orderRepo, _, _ := setupOrderTestRouter()
		id := uuid.New()
		orderRepo.On("FindByID", mock.Anything, id).Return(nil, shared.ErrNotFound)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/orders/"+id.String(), nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestOrderHandler_List(t *testing.T) {
	router, orderRepo, _, _ := setupOrderTestRouter()
	order := testOrder(t, nil)
	orderRepo.On("FindAll", mock.Anything, mock.AnythingOfType("shared.Filter")).Return([]sales.Order{*order}, nil)
	orderRepo.On("Count", mock.Anything, mock.AnythingOfType("shared.Filter")).Return(int64(1), nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decodeResponse(t, w)
	require.NotNil(t, resp.Meta)
	assert.Equal(t, int64(1), resp.Meta.Total)
}

func TestOrderHandler_Update(t *testing.T) {
	t.Run("rejects changes to fields locked by the linked quote", func(t *testing.T) {
		router, orderRepo, _, _ := setupOrderTestRouter()
		quoteID := uuid.New()
		order := testOrder(t, &quoteID)
		orderRepo.On("FindByID", mock.Anything, order.ID).Return(order, nil)

		w := httptest.NewRecorder()
		body := `{"client_name": "Another Client"}`
		req := httptest.NewRequest(http.MethodPatch, "/api/v1/orders/"+order.ID.String(), bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusConflict, w.Code)
		resp := decodeResponse(t, w)
		require.NotNil(t, resp.Error)
		assert.Equal(t, "DOCUMENT_LOCKED", resp.Error.Code)
		assert.Contains(t, resp.Error.Details, "clientName")
		orderRepo.AssertNotCalled(t, "SaveWithLock", mock.Anything, mock.Anything)
	})

	t.Run("rejects field updates on a non-draft order", func(t *testing.T) {
		router, orderRepo, _, _ := setupOrderTestRouter()
		order := testOrder(t, nil)
		require.NoError(t, order.ChangeStatus(sales.OrderStatusConfirmed))
		orderRepo.On("FindByID", mock.Anything, order.ID).Return(order, nil)

		w := httptest.NewRecorder()
		body := `{"notes": "updated"}`
		req := httptest.NewRequest(http.MethodPatch, "/api/v1/orders/"+order.ID.String(), bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		resp := decodeResponse(t, w)
		require.NotNil(t, resp.Error)
		assert.Equal(t, "INVALID_STATE", resp.Error.Code)
	})

	t.Run("rejects malformed acting user header", func(t *testing.T) {
		router, _, _, _ := setupOrderTestRouter()

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPatch, "/api/v1/orders/"+uuid.NewString(), bytes.NewBufferString(`{"notes": "x"}`))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-User-ID", "not-a-uuid")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("reports concurrency conflicts", func(t *testing.T) {
		router, orderRepo, _, _ := setupOrderTestRouter()
		order := testOrder(t, nil)
		orderRepo.On("FindByID", mock.Anything, order.ID).Return(order, nil)
		orderRepo.On("SaveWithLock", mock.Anything, mock.AnythingOfType("*sales.Order")).Return(shared.ErrConcurrencyConflict)

		w := httptest.NewRecorder()
		body := `{"notes": "updated"}`
		req := httptest.NewRequest(http.MethodPatch, "/api/v1/orders/"+order.ID.String(), bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusConflict, w.Code)
		resp := decodeResponse(t, w)
		require.NotNil(t, resp.Error)
		assert.Equal(t, "CONCURRENCY_CONFLICT", resp.Error.Code)
	})
}

func TestOrderHandler_Delete(t *testing.T) {
	t.Run("deletes draft order", func(t *testing.T) {
		router, orderRepo, _, _ := setupOrderTestRouter()
		order := testOrder(t, nil)
		orderRepo.On("FindByID", mock.Anything, order.ID).Return(order, nil)
		orderRepo.On("Delete", mock.Anything, order.ID).Return(nil)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodDelete, "/api/v1/orders/"+order.ID.String(), nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNoContent, w.Code)
		orderRepo.AssertExpectations(t)
	})

	t.Run("refuses to delete a confirmed order", func(t *testing.T) {
		router, orderRepo, _, _ := setupOrderTestRouter()
		order := testOrder(t, nil)
		require.NoError(t, order.ChangeStatus(sales.OrderStatusConfirmed))
		orderRepo.On("FindByID", mock.Anything, order.ID).Return(order, nil)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodDelete, "/api/v1/orders/"+order.ID.String(), nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		orderRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})
}
