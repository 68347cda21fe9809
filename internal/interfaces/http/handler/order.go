package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	salesapp "github.com/proserv/backend/internal/application/sales"
)

// OrderHandler handles order-related API endpoints
type OrderHandler struct {
	BaseHandler
	orderService *salesapp.OrderService
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(orderService *salesapp.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

// RegisterRoutes registers order routes on the given router group
func (h *OrderHandler) RegisterRoutes(rg *gin.RouterGroup) {
	orders := rg.Group("/orders")
	{
		orders.POST("", h.Create)
		orders.GET("", h.List)
		orders.GET("/:id", h.GetByID)
		orders.PATCH("/:id", h.Update)
		orders.DELETE("/:id", h.Delete)
	}
}

// Create godoc
// @Summary      Create an order
// @Description  Create a new order, optionally linked to a confirmed quote
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        request body salesapp.CreateOrderRequest true "Order data"
// @Success      201 {object} dto.Response{data=salesapp.OrderResponse}
// @Failure      400 {object} dto.Response
// @Router       /orders [post]
func (h *OrderHandler) Create(c *gin.Context) {
	var req salesapp.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	order, err := h.orderService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, order)
}

// GetByID godoc
// @Summary      Get order by ID
// @Tags         orders
// @Produce      json
// @Param        id path string true "Order ID" format(uuid)
// @Success      200 {object} dto.Response{data=salesapp.OrderResponse}
// @Failure      404 {object} dto.Response
// @Router       /orders/{id} [get]
func (h *OrderHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid order ID format")
		return
	}

	order, err := h.orderService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, order)
}

// List godoc
// @Summary      List orders
// @Description  Retrieve a paginated list of orders with optional filtering
// @Tags         orders
// @Produce      json
// @Param        search query string false "Search term (client name)"
// @Param        client_id query string false "Client ID" format(uuid)
// @Param        status query string false "Status" Enums(DRAFT, CONFIRMED, PROCESSING, COMPLETED, CANCELLED)
// @Param        linked_quote_id query string false "Linked quote ID" format(uuid)
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Success      200 {object} dto.Response{data=[]salesapp.OrderResponse}
// @Router       /orders [get]
func (h *OrderHandler) List(c *gin.Context) {
	var filter salesapp.OrderListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	page, err := h.orderService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// Update godoc
// @Summary      Update an order
// @Description  Partially update an order; confirming a draft creates projects and notifies managers
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        X-User-ID header string false "Acting user ID" format(uuid)
// @Param        id path string true "Order ID" format(uuid)
// @Param        request body salesapp.UpdateOrderRequest true "Fields to update"
// @Success      200 {object} dto.Response{data=salesapp.OrderResponse}
// @Failure      404 {object} dto.Response
// @Failure      409 {object} dto.Response
// @Failure      422 {object} dto.Response
// @Router       /orders/{id} [patch]
func (h *OrderHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid order ID format")
		return
	}

	// The actor is optional: when present it is excluded from the manager
	// notifications sent on confirmation.
	actorID := uuid.Nil
	if c.GetHeader("X-User-ID") != "" {
		actorID, err = getUserID(c)
		if err != nil {
			h.BadRequest(c, "Invalid user ID format")
			return
		}
	}

	var req salesapp.UpdateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	order, err := h.orderService.Update(c.Request.Context(), id, actorID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, order)
}

// Delete godoc
// @Summary      Delete an order
// @Description  Delete a draft order
// @Tags         orders
// @Produce      json
// @Param        id path string true "Order ID" format(uuid)
// @Success      204
// @Failure      404 {object} dto.Response
// @Failure      422 {object} dto.Response
// @Router       /orders/{id} [delete]
func (h *OrderHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid order ID format")
		return
	}

	if err := h.orderService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
