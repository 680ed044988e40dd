package services

import (
	"context"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/hostelhub/snackshop-service/internal/models"
	"github.com/hostelhub/snackshop-service/internal/repositories"
)

// ===== REQUEST/RESPONSE DTOs =====

// Request shapes live next to the models they validate against
type RegisterRequest = models.RegisterRequest
type LoginRequest = models.LoginRequest
type LoginResponse = models.LoginResponse
type CreateSnackRequest = models.SnackCreateRequest
type UpdateSnackRequest = models.SnackUpdateRequest
type PlaceOrderRequest = models.OrderCreateRequest

type SnackListResponse struct {
	Snacks []*models.Snack `json:"snacks"`
	Total  int64           `json:"total"`
	Page   int             `json:"page"`
	Size   int             `json:"size"`
}

type OrderListResponse struct {
	Orders []*models.Order `json:"orders"`
	Total  int64           `json:"total"`
	Page   int             `json:"page"`
	Size   int             `json:"size"`
}

// ===== SERVICE INTERFACES =====

type AuthService interface {
	// Account lifecycle
	Register(ctx context.Context, req *RegisterRequest) (*models.UserResponse, error)
	Login(ctx context.Context, req *LoginRequest) (*LoginResponse, error)
	Logout(ctx context.Context, token string) error

	// Lookup
	GetByID(ctx context.Context, id uint) (*models.UserResponse, error)

	// Bootstrap: create the admin account on first start if it is missing
	EnsureAdmin(ctx context.Context, username, password string) error
}

type InventoryService interface {
	// Core CRUD operations
	Create(ctx context.Context, req *CreateSnackRequest) (*models.Snack, error)
	GetByID(ctx context.Context, id uint) (*models.Snack, error)
	Update(ctx context.Context, id uint, req *UpdateSnackRequest) (*models.Snack, error)
	Delete(ctx context.Context, id uint) error

	// List and search operations
	List(ctx context.Context, params models.ListSnacksParams) (*SnackListResponse, error)

	// Image management
	SetImage(ctx context.Context, id uint, imageURL string) (*models.Snack, error)

	// Seeding support
	Count(ctx context.Context) (int64, error)
}

type OrderService interface {
	// Core order operations
	Place(ctx context.Context, userID uint, req *PlaceOrderRequest) (*models.Order, error)
	Complete(ctx context.Context, id uint) (*models.Order, error)

	// Get operations; requesterID/requesterIsAdmin enforce that students
	// only see their own orders
	GetByID(ctx context.Context, id uint, requesterID uint, requesterIsAdmin bool) (*models.Order, error)

	// List operations
	List(ctx context.Context, params models.ListOrdersParams) (*OrderListResponse, error)
	ListByUser(ctx context.Context, userID uint, params models.ListOrdersParams) (*OrderListResponse, error)

	// Statistics
	GetShopStats(ctx context.Context) (*repositories.ShopStats, error)
}

type OrderEventService interface {
	PublishOrderPlaced(ctx context.Context, order *models.Order, snackName string) error
	PublishOrderCompleted(ctx context.Context, order *models.Order) error
	PublishStockDepleted(ctx context.Context, snackID uint, snackName string) error
}

type ImportExportService interface {
	// Export operations (admin reports)
	ExportOrders(ctx context.Context, filters repositories.OrderFilters) (*excelize.File, error)
	ExportInventory(ctx context.Context) (*excelize.File, error)

	// Import operations
	ImportSnacks(ctx context.Context, r io.Reader) (*models.ImportSnacksResult, error)
}

// ===== SERVICE MANAGER =====

type ServiceManager interface {
	// Core service getters
	Auth() AuthService
	Inventory() InventoryService
	Order() OrderService
	OrderEvents() OrderEventService
	ImportExport() ImportExportService

	// Health and lifecycle
	Initialize(ctx context.Context) error
	HealthCheck(ctx context.Context) error
	Shutdown(ctx context.Context) error
}
