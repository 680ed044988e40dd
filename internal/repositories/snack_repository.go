package repositories

import (
	"context"

	"gorm.io/gorm"

	"github.com/hostelhub/snackshop-service/internal/models"
)

// SnackRepository interface for inventory-ledger operations
type SnackRepository interface {
	// Basic CRUD operations
	Create(ctx context.Context, tx *gorm.DB, snack *models.Snack) error
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Snack, error)
	Update(ctx context.Context, tx *gorm.DB, snack *models.Snack) error
	Delete(ctx context.Context, tx *gorm.DB, id uint) error

	// Query operations
	List(ctx context.Context, tx *gorm.DB, filters SnackFilters) ([]*models.Snack, int64, error)
	Count(ctx context.Context) (int64, error)

	// Stock operations
	//
	// DecrementStock applies a single conditional update
	// (quantity >= amount guards the decrement, availability is
	// recomputed in the same statement) and reports rows affected.
	// Zero rows means the snack is missing or stock is insufficient;
	// callers disambiguate with Exists.
	DecrementStock(ctx context.Context, tx *gorm.DB, id uint, amount int) (int64, error)

	// Validation and checks
	Exists(ctx context.Context, tx *gorm.DB, id uint) (bool, error)
}
