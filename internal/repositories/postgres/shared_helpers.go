package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/hostelhub/snackshop-service/internal/models"
	"github.com/hostelhub/snackshop-service/internal/repositories"
)

// SharedHelpers contains common database operations
type SharedHelpers struct {
	db *gorm.DB
}

func NewSharedHelpers(db *gorm.DB) *SharedHelpers {
	return &SharedHelpers{db: db}
}

// CountOrdersBySnack counts orders referencing a snack
func (h *SharedHelpers) CountOrdersBySnack(ctx context.Context, snackID uint) (int64, error) {
	var count int64
	err := h.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("snack_id = ?", snackID).
		Count(&count).Error
	return count, err
}

// CountOrdersByStatus counts orders in a lifecycle state
func (h *SharedHelpers) CountOrdersByStatus(ctx context.Context, status models.OrderStatus) (int64, error) {
	var count int64
	err := h.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("status = ?", status).
		Count(&count).Error
	return count, err
}

// GetSnackBasicInfo gets the columns the order path needs
func (h *SharedHelpers) GetSnackBasicInfo(ctx context.Context, snackID uint) (*models.Snack, error) {
	var snack models.Snack
	err := h.db.WithContext(ctx).
		Select("id, name, price, quantity, is_available, image_url").
		First(&snack, snackID).Error
	return &snack, err
}

// ApplySnackFilters applies common filters to snack queries
func (h *SharedHelpers) ApplySnackFilters(query *gorm.DB, filters repositories.SnackFilters) *gorm.DB {
	if filters.AvailableOnly {
		query = query.Where("is_available = ?", true)
	}
	if filters.Search != "" {
		query = query.Where("name ILIKE ?", "%"+filters.Search+"%")
	}
	return query
}

// ApplyOrderFilters applies common filters to order queries
func (h *SharedHelpers) ApplyOrderFilters(query *gorm.DB, filters repositories.OrderFilters) *gorm.DB {
	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}
	if filters.SnackID != nil {
		query = query.Where("snack_id = ?", *filters.SnackID)
	}
	if filters.UserID != nil {
		query = query.Where("user_id = ?", *filters.UserID)
	}
	if filters.DateFrom != nil {
		query = query.Where("created_at >= ?", *filters.DateFrom)
	}
	if filters.DateTo != nil {
		query = query.Where("created_at <= ?", *filters.DateTo)
	}
	return query
}

// ApplyPaginationAndSort applies pagination and sorting with SQL injection protection
func (h *SharedHelpers) ApplyPaginationAndSort(query *gorm.DB, sortBy, sortOrder string, limit, offset int) *gorm.DB {
	// Whitelist allowed sort columns
	allowedSortColumns := map[string]bool{
		"created_at":  true,
		"updated_at":  true,
		"id":          true,
		"name":        true,
		"price":       true,
		"quantity":    true,
		"status":      true,
		"total_price": true,
	}

	// Validate and set sort column
	if sortBy == "" || !allowedSortColumns[sortBy] {
		sortBy = "created_at"
	}

	// Validate and set sort order
	if sortOrder != "asc" && sortOrder != "ASC" {
		sortOrder = "DESC"
	} else {
		sortOrder = "ASC"
	}

	query = query.Order(sortBy + " " + sortOrder)

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	return query
}
