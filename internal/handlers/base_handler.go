package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/hostelhub/snackshop-service/internal/services"
	"github.com/hostelhub/snackshop-service/internal/utils"
)

// ErrorResponse is the JSON error envelope for all handlers
type ErrorResponse struct {
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// BaseHandler carries the shared handler plumbing
type BaseHandler struct {
	logger utils.Logger
}

func NewBaseHandler(logger utils.Logger) BaseHandler {
	return BaseHandler{logger: logger}
}

// LogRequest logs an incoming request with optional key/value context
func (h *BaseHandler) LogRequest(c *gin.Context, msg string, args ...any) {
	logArgs := append([]any{
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
	}, args...)
	h.logger.Info(msg, logArgs...)
}

// LogError logs a handler-level failure
func (h *BaseHandler) LogError(c *gin.Context, err error, msg string) {
	h.logger.Error(msg,
		"error", err,
		"method", c.Request.Method,
		"path", c.Request.URL.Path)
}

// parseIDParam parses a numeric path parameter; on failure it writes a 400
// response and returns 0
func (h *BaseHandler) parseIDParam(c *gin.Context, name string) uint {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid " + name + " parameter",
		})
		return 0
	}
	return uint(id)
}

// handleServiceError maps service errors to HTTP status codes
func (h *BaseHandler) handleServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrValidationFailed):
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Validation failed",
			Details: err.Error(),
		})
	case errors.Is(err, services.ErrInvalidQuantity):
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Quantity must be a positive integer",
		})
	case errors.Is(err, services.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Message: "Invalid credentials",
		})
	case errors.Is(err, services.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Message: "Unauthorized",
		})
	case errors.Is(err, services.ErrForbidden):
		c.JSON(http.StatusForbidden, ErrorResponse{
			Message: "Forbidden",
		})
	case errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, services.ErrSnackNotFound),
		errors.Is(err, services.ErrOrderNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Message: "Resource not found",
			Details: err.Error(),
		})
	case errors.Is(err, services.ErrDuplicateIdentity):
		c.JSON(http.StatusConflict, ErrorResponse{
			Message: "An account with this name and room already exists",
		})
	case errors.Is(err, services.ErrInsufficientStock):
		c.JSON(http.StatusConflict, ErrorResponse{
			Message: "Insufficient stock",
		})
	case errors.Is(err, services.ErrHasPendingOrders):
		c.JSON(http.StatusConflict, ErrorResponse{
			Message: "Snack has pending orders and cannot be deleted",
		})
	case errors.Is(err, services.ErrAlreadyCompleted):
		c.JSON(http.StatusConflict, ErrorResponse{
			Message: "Order is already completed",
		})
	default:
		h.LogError(c, err, "Unexpected service error")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Message: "Internal server error",
		})
	}
}
