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

// SnackPostgreSQL implements the SnackRepository interface
type SnackPostgreSQL struct {
	db           *gorm.DB
	helpers      *SharedHelpers
	cacheManager *cache.CacheManager
}

func NewSnackPostgreSQL(db *gorm.DB, redisClient *redis.Client) repositories.SnackRepository {
	return &SnackPostgreSQL{
		db:           db,
		helpers:      NewSharedHelpers(db),
		cacheManager: cache.NewCacheManager(redisClient),
	}
}

// ===== BASIC CRUD OPERATIONS =====

func (s *SnackPostgreSQL) Create(ctx context.Context, tx *gorm.DB, snack *models.Snack) error {
	db := s.getDB(tx)
	if err := db.WithContext(ctx).Create(snack).Error; err != nil {
		return fmt.Errorf("failed to create snack: %w", err)
	}

	cache.InvalidateSnackCache(ctx, s.cacheManager, snack.ID)

	return nil
}

func (s *SnackPostgreSQL) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Snack, error) {
	db := s.getDB(tx)

	// Transactional reads bypass the cache so the order path always sees
	// the committed row
	if tx != nil {
		return s.getByIDUncached(ctx, db, id)
	}

	cacheKey := fmt.Sprintf("id:%d", id)
	var snack models.Snack

	err := s.cacheManager.Snack.CacheOrExecute(ctx, cacheKey, &snack, cache.SnackCacheConfig.TTL, func() (interface{}, error) {
		return s.getByIDUncached(ctx, db, id)
	})

	return &snack, err
}

func (s *SnackPostgreSQL) getByIDUncached(ctx context.Context, db *gorm.DB, id uint) (*models.Snack, error) {
	var snack models.Snack
	if err := db.WithContext(ctx).First(&snack, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("snack not found with ID %d", id)
		}
		return nil, fmt.Errorf("failed to get snack: %w", err)
	}
	return &snack, nil
}

func (s *SnackPostgreSQL) Update(ctx context.Context, tx *gorm.DB, snack *models.Snack) error {
	db := s.getDB(tx)
	if err := db.WithContext(ctx).Save(snack).Error; err != nil {
		return fmt.Errorf("failed to update snack: %w", err)
	}

	cache.InvalidateSnackCache(ctx, s.cacheManager, snack.ID)

	return nil
}

func (s *SnackPostgreSQL) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	db := s.getDB(tx)
	// Soft delete keeps historical order references resolvable
	if err := db.WithContext(ctx).Delete(&models.Snack{}, id).Error; err != nil {
		return fmt.Errorf("failed to delete snack: %w", err)
	}

	cache.InvalidateSnackCache(ctx, s.cacheManager, id)

	return nil
}

// ===== QUERY OPERATIONS =====

func (s *SnackPostgreSQL) List(ctx context.Context, tx *gorm.DB, filters repositories.SnackFilters) ([]*models.Snack, int64, error) {
	db := s.getDB(tx)
	var snacks []*models.Snack
	var total int64

	// apply filter first
	query := db.WithContext(ctx).Model(&models.Snack{})
	query = s.helpers.ApplySnackFilters(query, filters)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count snacks: %w", err)
	}

	// then apply pagination and sorting
	query = s.helpers.ApplyPaginationAndSort(query, filters.SortBy, filters.SortOrder, filters.Limit, filters.Offset)

	if err := query.Find(&snacks).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list snacks: %w", err)
	}

	return snacks, total, nil
}

func (s *SnackPostgreSQL) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := s.db.WithContext(ctx).
		Model(&models.Snack{}).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count snacks: %w", err)
	}
	return count, nil
}

// ===== STOCK OPERATIONS =====

// DecrementStock applies the decrement and the availability recompute as a
// single conditional UPDATE guarded by quantity >= amount, so concurrent
// placements against the same row are serialized by the database and stock
// can never go negative. Returns rows affected; zero means the snack is
// missing or stock is insufficient.
func (s *SnackPostgreSQL) DecrementStock(ctx context.Context, tx *gorm.DB, id uint, amount int) (int64, error) {
	db := s.getDB(tx)

	result := db.WithContext(ctx).
		Model(&models.Snack{}).
		Where("id = ? AND quantity >= ?", id, amount).
		Updates(map[string]interface{}{
			"quantity":     gorm.Expr("quantity - ?", amount),
			"is_available": gorm.Expr("quantity - ? > 0", amount),
		})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to decrement stock: %w", result.Error)
	}

	if result.RowsAffected > 0 {
		cache.InvalidateSnackCache(ctx, s.cacheManager, id)
	}

	return result.RowsAffected, nil
}

// ===== VALIDATION =====

func (s *SnackPostgreSQL) Exists(ctx context.Context, tx *gorm.DB, id uint) (bool, error) {
	db := s.getDB(tx)
	var count int64
	if err := db.WithContext(ctx).
		Model(&models.Snack{}).
		Where("id = ?", id).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check snack existence: %w", err)
	}
	return count > 0, nil
}

// getDB returns the transaction DB if provided, otherwise returns the default DB
func (s *SnackPostgreSQL) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return s.db
}
