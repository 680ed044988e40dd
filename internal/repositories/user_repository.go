package repositories

import (
	"context"

	"gorm.io/gorm"

	"github.com/hostelhub/snackshop-service/internal/models"
)

// UserRepository interface for credential-store operations
type UserRepository interface {
	// Basic operations
	Create(ctx context.Context, tx *gorm.DB, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)

	// Validation and checks
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	CountByRole(ctx context.Context, role models.UserRole) (int64, error)
}
