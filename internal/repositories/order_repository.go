package repositories

import (
	"context"

	"gorm.io/gorm"

	"github.com/hostelhub/snackshop-service/internal/models"
)

// OrderRepository interface for order-processor operations
type OrderRepository interface {
	// Basic operations (orders are never deleted)
	Create(ctx context.Context, tx *gorm.DB, order *models.Order) error
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Order, error)

	// Query operations
	List(ctx context.Context, tx *gorm.DB, filters OrderFilters) ([]*models.Order, int64, error)
	GetByUser(ctx context.Context, tx *gorm.DB, userID uint, filters OrderFilters) ([]*models.Order, int64, error)

	// Status operations
	//
	// MarkCompleted performs the Pending -> Completed transition as a
	// conditional update and reports rows affected; zero rows on an
	// existing order means it was already completed.
	MarkCompleted(ctx context.Context, tx *gorm.DB, id uint) (int64, error)

	// Validation and checks
	Exists(ctx context.Context, tx *gorm.DB, id uint) (bool, error)
	HasPendingBySnack(ctx context.Context, tx *gorm.DB, snackID uint) (bool, error)

	// Statistics
	GetShopStats(ctx context.Context) (*ShopStats, error)
}
