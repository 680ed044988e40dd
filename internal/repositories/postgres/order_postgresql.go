package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/hostelhub/snackshop-service/internal/cache"
	"github.com/hostelhub/snackshop-service/internal/models"
	"github.com/hostelhub/snackshop-service/internal/repositories"
)

// OrderPostgreSQL implements the OrderRepository interface
type OrderPostgreSQL struct {
	db           *gorm.DB
	helpers      *SharedHelpers
	cacheManager *cache.CacheManager
}

func NewOrderPostgreSQL(db *gorm.DB, redisClient *redis.Client) repositories.OrderRepository {
	return &OrderPostgreSQL{
		db:           db,
		helpers:      NewSharedHelpers(db),
		cacheManager: cache.NewCacheManager(redisClient),
	}
}

// ===== BASIC OPERATIONS =====

func (o *OrderPostgreSQL) Create(ctx context.Context, tx *gorm.DB, order *models.Order) error {
	db := o.getDB(tx)
	if err := db.WithContext(ctx).Create(order).Error; err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}

	cache.InvalidateOrderCache(ctx, o.cacheManager, order.ID, order.UserID)

	return nil
}

func (o *OrderPostgreSQL) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Order, error) {
	db := o.getDB(tx)
	var order models.Order
	if err := db.WithContext(ctx).
		// Unscoped preload keeps soft-deleted snacks resolvable on
		// historical orders
		Preload("Snack", func(db *gorm.DB) *gorm.DB { return db.Unscoped() }).
		First(&order, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("order not found with ID %d", id)
		}
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	return &order, nil
}

// ===== QUERY OPERATIONS =====

func (o *OrderPostgreSQL) List(ctx context.Context, tx *gorm.DB, filters repositories.OrderFilters) ([]*models.Order, int64, error) {
	db := o.getDB(tx)
	var orders []*models.Order
	var total int64

	// apply filter first
	query := db.WithContext(ctx).Model(&models.Order{})
	query = o.helpers.ApplyOrderFilters(query, filters)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count orders: %w", err)
	}

	// then apply pagination and sorting
	query = o.helpers.ApplyPaginationAndSort(query, filters.SortBy, filters.SortOrder, filters.Limit, filters.Offset)

	if err := query.
		Preload("Snack", func(db *gorm.DB) *gorm.DB { return db.Unscoped() }).
		Find(&orders).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list orders: %w", err)
	}

	return orders, total, nil
}

func (o *OrderPostgreSQL) GetByUser(ctx context.Context, tx *gorm.DB, userID uint, filters repositories.OrderFilters) ([]*models.Order, int64, error) {
	filters.UserID = &userID
	return o.List(ctx, tx, filters)
}

// ===== STATUS OPERATIONS =====

// MarkCompleted performs the Pending -> Completed transition as a conditional
// update. Zero rows affected on an existing order means it was already
// completed; callers disambiguate with Exists.
func (o *OrderPostgreSQL) MarkCompleted(ctx context.Context, tx *gorm.DB, id uint) (int64, error) {
	db := o.getDB(tx)

	result := db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ? AND status = ?", id, models.OrderStatusPending).
		Update("status", models.OrderStatusCompleted)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to complete order: %w", result.Error)
	}

	if result.RowsAffected > 0 {
		cache.SafeDelete(ctx, o.cacheManager.Order, fmt.Sprintf("id:%d", id))
		cache.SafeInvalidatePattern(ctx, o.cacheManager.Order, "list:*")
		cache.SafeInvalidatePattern(ctx, o.cacheManager.Stats, "shop:*")
	}

	return result.RowsAffected, nil
}

// ===== VALIDATION =====

func (o *OrderPostgreSQL) Exists(ctx context.Context, tx *gorm.DB, id uint) (bool, error) {
	db := o.getDB(tx)
	var count int64
	if err := db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", id).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check order existence: %w", err)
	}
	return count > 0, nil
}

func (o *OrderPostgreSQL) HasPendingBySnack(ctx context.Context, tx *gorm.DB, snackID uint) (bool, error) {
	db := o.getDB(tx)
	var count int64
	if err := db.WithContext(ctx).
		Model(&models.Order{}).
		Where("snack_id = ? AND status = ?", snackID, models.OrderStatusPending).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check pending orders: %w", err)
	}
	return count > 0, nil
}

// ===== STATISTICS =====

func (o *OrderPostgreSQL) GetShopStats(ctx context.Context) (*repositories.ShopStats, error) {
	cacheKey := "shop:overview"
	var stats repositories.ShopStats

	err := o.cacheManager.Stats.CacheOrExecute(ctx, cacheKey, &stats, cache.StatsCacheConfig.TTL, func() (interface{}, error) {
		var dbStats repositories.ShopStats

		if err := o.db.WithContext(ctx).
			Model(&models.Snack{}).
			Count(&dbStats.TotalSnacks).Error; err != nil {
			return nil, fmt.Errorf("failed to count snacks: %w", err)
		}

		if err := o.db.WithContext(ctx).
			Model(&models.Snack{}).
			Where("is_available = ?", true).
			Count(&dbStats.AvailableSnacks).Error; err != nil {
			return nil, fmt.Errorf("failed to count available snacks: %w", err)
		}

		pending, err := o.helpers.CountOrdersByStatus(ctx, models.OrderStatusPending)
		if err != nil {
			return nil, fmt.Errorf("failed to count pending orders: %w", err)
		}
		dbStats.PendingOrders = pending

		completed, err := o.helpers.CountOrdersByStatus(ctx, models.OrderStatusCompleted)
		if err != nil {
			return nil, fmt.Errorf("failed to count completed orders: %w", err)
		}
		dbStats.CompletedOrders = completed

		if err := o.db.WithContext(ctx).
			Model(&models.Order{}).
			Where("status = ?", models.OrderStatusCompleted).
			Select("COALESCE(SUM(total_price), 0)").
			Scan(&dbStats.Revenue).Error; err != nil {
			return nil, fmt.Errorf("failed to sum revenue: %w", err)
		}

		return &dbStats, nil
	})

	return &stats, err
}

// getDB returns the transaction DB if provided, otherwise returns the default DB
func (o *OrderPostgreSQL) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return o.db
}
