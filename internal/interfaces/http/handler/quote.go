package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	salesapp "github.com/proserv/backend/internal/application/sales"
)

// QuoteHandler handles quote-related API endpoints
type QuoteHandler struct {
	BaseHandler
	quoteService *salesapp.QuoteService
}

// NewQuoteHandler creates a new QuoteHandler
func NewQuoteHandler(quoteService *salesapp.QuoteService) *QuoteHandler {
	return &QuoteHandler{quoteService: quoteService}
}

// RegisterRoutes registers quote routes on the given router group
func (h *QuoteHandler) RegisterRoutes(rg *gin.RouterGroup) {
	quotes := rg.Group("/quotes")
	{
		quotes.POST("", h.Create)
		quotes.GET("", h.List)
		quotes.GET("/:id", h.GetByID)
		quotes.GET("/code/:code", h.GetByCode)
		quotes.PATCH("/:id", h.Update)
		quotes.DELETE("/:id", h.Delete)
	}
}

// Create godoc
// @Summary      Create a quote
// @Description  Create a new quote with catalog snapshots resolved for each line item
// @Tags         quotes
// @Accept       json
// @Produce      json
// @Param        request body salesapp.CreateQuoteRequest true "Quote data"
// @Success      201 {object} dto.Response{data=salesapp.QuoteResponse}
// @Failure      400 {object} dto.Response
// @Failure      409 {object} dto.Response
// @Router       /quotes [post]
func (h *QuoteHandler) Create(c *gin.Context) {
	var req salesapp.CreateQuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	quote, err := h.quoteService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, quote)
}

// GetByID godoc
// @Summary      Get quote by ID
// @Tags         quotes
// @Produce      json
// @Param        id path string true "Quote ID" format(uuid)
// @Success      200 {object} dto.Response{data=salesapp.QuoteResponse}
// @Failure      404 {object} dto.Response
// @Router       /quotes/{id} [get]
func (h *QuoteHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid quote ID format")
		return
	}

	quote, err := h.quoteService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, quote)
}

// GetByCode godoc
// @Summary      Get quote by code
// @Tags         quotes
// @Produce      json
// @Param        code path string true "Quote code" example:"Q-2026-00001"
// @Success      200 {object} dto.Response{data=salesapp.QuoteResponse}
// @Failure      404 {object} dto.Response
// @Router       /quotes/code/{code} [get]
func (h *QuoteHandler) GetByCode(c *gin.Context) {
	code := c.Param("code")
	if code == "" {
		h.BadRequest(c, "Quote code is required")
		return
	}

	quote, err := h.quoteService.GetByCode(c.Request.Context(), code)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, quote)
}

// List godoc
// @Summary      List quotes
// @Description  Retrieve a paginated list of quotes with optional filtering
// @Tags         quotes
// @Produce      json
// @Param        search query string false "Search term (code, client name)"
// @Param        client_id query string false "Client ID" format(uuid)
// @Param        status query string false "Status" Enums(QUOTED, CONFIRMED)
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Success      200 {object} dto.Response{data=[]salesapp.QuoteResponse}
// @Router       /quotes [get]
func (h *QuoteHandler) List(c *gin.Context) {
	var filter salesapp.QuoteListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	page, err := h.quoteService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// Update godoc
// @Summary      Update a quote
// @Description  Partially update a quote; status changes drive the lifecycle transitions
// @Tags         quotes
// @Accept       json
// @Produce      json
// @Param        id path string true "Quote ID" format(uuid)
// @Param        request body salesapp.UpdateQuoteRequest true "Fields to update"
// @Success      200 {object} dto.Response{data=salesapp.QuoteResponse}
// @Failure      404 {object} dto.Response
// @Failure      409 {object} dto.Response
// @Failure      422 {object} dto.Response
// @Router       /quotes/{id} [patch]
func (h *QuoteHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid quote ID format")
		return
	}

	var req salesapp.UpdateQuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	quote, err := h.quoteService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, quote)
}

// Delete godoc
// @Summary      Delete a quote
// @Description  Delete a quote and its line items; confirmed quotes are rejected
// @Tags         quotes
// @Produce      json
// @Param        id path string true "Quote ID" format(uuid)
// @Success      204
// @Failure      404 {object} dto.Response
// @Failure      409 {object} dto.Response
// @Router       /quotes/{id} [delete]
func (h *QuoteHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid quote ID format")
		return
	}

	if err := h.quoteService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
