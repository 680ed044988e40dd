package repositories

import (
	"time"

	"github.com/hostelhub/snackshop-service/internal/models"
)

// ===== SHARED FILTER STRUCTS =====

type SnackFilters struct {
	Search        string `json:"search"`
	AvailableOnly bool   `json:"available_only"`
	Limit         int    `json:"limit"`
	Offset        int    `json:"offset"`
	SortBy        string `json:"sort_by"`    // "name", "price", "quantity", "created_at"
	SortOrder     string `json:"sort_order"` // "asc", "desc"
}

type OrderFilters struct {
	Status    *models.OrderStatus `json:"status"`
	SnackID   *uint               `json:"snack_id"`
	UserID    *uint               `json:"user_id"`
	DateFrom  *time.Time          `json:"date_from"`
	DateTo    *time.Time          `json:"date_to"`
	Limit     int                 `json:"limit"`
	Offset    int                 `json:"offset"`
	SortBy    string              `json:"sort_by"`    // "created_at", "status", "total_price"
	SortOrder string              `json:"sort_order"` // "asc", "desc"
}

// ===== SHARED STATISTICS STRUCTS =====

type ShopStats struct {
	TotalSnacks     int64   `json:"total_snacks"`
	AvailableSnacks int64   `json:"available_snacks"`
	PendingOrders   int64   `json:"pending_orders"`
	CompletedOrders int64   `json:"completed_orders"`
	Revenue         float64 `json:"revenue"`
}
