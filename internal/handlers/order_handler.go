package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/hostelhub/snackshop-service/internal/models"
	"github.com/hostelhub/snackshop-service/internal/services"
	"github.com/hostelhub/snackshop-service/internal/utils"
)

type OrderHandler struct {
	BaseHandler
	service services.OrderService
}

func NewOrderHandler(service services.OrderService, logger utils.Logger) *OrderHandler {
	return &OrderHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
	}
}

// ===== STUDENT ENDPOINTS =====

// PlaceOrder creates an order for the authenticated user
func (h *OrderHandler) PlaceOrder(c *gin.Context) {
	userID, err := GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Message: "Not authenticated",
		})
		return
	}

	h.LogRequest(c, "Placing order", "user_id", userID)

	var req services.PlaceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request body",
			Details: err.Error(),
		})
		return
	}

	order, err := h.service.Place(c.Request.Context(), userID, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, order)
}

// ListMyOrders returns the authenticated user's own orders
func (h *OrderHandler) ListMyOrders(c *gin.Context) {
	userID, err := GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Message: "Not authenticated",
		})
		return
	}

	resp, err := h.service.ListByUser(c.Request.Context(), userID, parseOrderListParams(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// GetOrder returns a single order. Students only see their own; admins
// see everything.
func (h *OrderHandler) GetOrder(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	userID, err := GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Message: "Not authenticated",
		})
		return
	}

	order, err := h.service.GetByID(c.Request.Context(), id, userID, IsAdminFromContext(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, order)
}

// ===== ADMIN ENDPOINTS =====

// ListOrders returns all orders with optional filters
func (h *OrderHandler) ListOrders(c *gin.Context) {
	resp, err := h.service.List(c.Request.Context(), parseOrderListParams(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// CompleteOrder marks a pending order as completed
func (h *OrderHandler) CompleteOrder(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	h.LogRequest(c, "Completing order", "order_id", id)

	order, err := h.service.Complete(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, order)
}

// GetShopStats returns aggregate shop counters for the admin dashboard
func (h *OrderHandler) GetShopStats(c *gin.Context) {
	stats, err := h.service.GetShopStats(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

// parseOrderListParams reads pagination and filter query parameters
func parseOrderListParams(c *gin.Context) models.ListOrdersParams {
	params := models.ListOrdersParams{
		Status:  models.OrderStatus(c.Query("status")),
		SortBy:  c.DefaultQuery("sort_by", "created_at"),
		SortDir: c.DefaultQuery("sort_dir", "desc"),
	}

	if page, err := strconv.Atoi(c.DefaultQuery("page", "0")); err == nil {
		params.Page = page
	}
	if size, err := strconv.Atoi(c.DefaultQuery("size", "20")); err == nil {
		params.Size = size
	}
	if raw := c.Query("snack_id"); raw != "" {
		if id, err := strconv.ParseUint(raw, 10, 32); err == nil {
			snackID := uint(id)
			params.SnackID = &snackID
		}
	}
	if raw := c.Query("user_id"); raw != "" {
		if id, err := strconv.ParseUint(raw, 10, 32); err == nil {
			userID := uint(id)
			params.UserID = &userID
		}
	}

	return params
}
