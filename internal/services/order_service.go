package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/hostelhub/snackshop-service/internal/metrics"
	"github.com/hostelhub/snackshop-service/internal/models"
	"github.com/hostelhub/snackshop-service/internal/repositories"
	"github.com/hostelhub/snackshop-service/internal/validator"
)

type orderService struct {
	repo      repositories.Repository
	db        *gorm.DB
	logger    *slog.Logger
	validator *validator.Validator
	events    OrderEventService
}

func NewOrderService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger, v *validator.Validator, events OrderEventService) OrderService {
	return &orderService{
		repo:      repo,
		db:        db,
		logger:    logger,
		validator: v,
		events:    events,
	}
}

// ===== CORE ORDER OPERATIONS =====

// Place creates an order and takes its quantity out of stock in one
// transaction. The stock check and the decrement are a single conditional
// update, so two buyers racing for the last packet cannot both win.
func (s *orderService) Place(ctx context.Context, userID uint, req *PlaceOrderRequest) (*models.Order, error) {
	if req.Quantity <= 0 {
		return nil, ErrInvalidQuantity
	}
	if err := s.validator.Validate(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidationFailed, err)
	}

	user, err := s.repo.User().GetByID(ctx, userID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrUnauthorized
		}
		return nil, fmt.Errorf("failed to get buyer: %w", err)
	}

	var order *models.Order
	var snack *models.Snack

	err = s.transact(func(tx *gorm.DB) error {
		rows, err := s.repo.Snack().DecrementStock(ctx, tx, req.SnackID, req.Quantity)
		if err != nil {
			return fmt.Errorf("failed to decrement stock: %w", err)
		}
		if rows == 0 {
			exists, err := s.repo.Snack().Exists(ctx, tx, req.SnackID)
			if err != nil {
				return fmt.Errorf("failed to check snack existence: %w", err)
			}
			if !exists {
				return ErrSnackNotFound
			}
			return ErrInsufficientStock
		}

		// Re-read inside the transaction for the post-decrement quantity
		// and the price the buyer is charged
		snack, err = s.repo.Snack().GetByID(ctx, tx, req.SnackID)
		if err != nil {
			return fmt.Errorf("failed to get snack: %w", err)
		}

		snapshot, err := json.Marshal(models.SnackSnapshotData{
			ID:       snack.ID,
			Name:     snack.Name,
			Price:    snack.Price,
			ImageURL: snack.ImageURL,
		})
		if err != nil {
			return fmt.Errorf("failed to marshal snack snapshot: %w", err)
		}

		order = &models.Order{
			SnackID:       snack.ID,
			UserID:        user.ID,
			BuyerName:     user.Name,
			Room:          user.Room,
			Quantity:      req.Quantity,
			UnitPrice:     snack.Price,
			TotalPrice:    snack.Price * float64(req.Quantity),
			Status:        models.OrderStatusPending,
			SnackSnapshot: datatypes.JSON(snapshot),
		}

		if err := s.repo.Order().Create(ctx, tx, order); err != nil {
			return fmt.Errorf("failed to create order: %w", err)
		}

		return nil
	})

	if err != nil {
		if errors.Is(err, ErrInsufficientStock) {
			metrics.InsufficientStockTotal.Inc()
			s.logger.Info("Order rejected, insufficient stock",
				"snack_id", req.SnackID,
				"quantity", req.Quantity,
				"user_id", userID)
		}
		return nil, err
	}

	metrics.OrdersPlacedTotal.Inc()
	s.logger.Info("Order placed",
		"order_id", order.ID,
		"snack_id", snack.ID,
		"quantity", order.Quantity,
		"total_price", order.TotalPrice)

	if err := s.events.PublishOrderPlaced(ctx, order, snack.Name); err != nil {
		s.logger.Error("Failed to publish order placed event", "error", err, "order_id", order.ID)
	}
	if snack.Quantity == 0 {
		if err := s.events.PublishStockDepleted(ctx, snack.ID, snack.Name); err != nil {
			s.logger.Error("Failed to publish stock depleted event", "error", err, "snack_id", snack.ID)
		}
	}

	return order, nil
}

// Complete moves a pending order to its terminal state. Completing an
// already-completed order is rejected; the transition never runs twice.
func (s *orderService) Complete(ctx context.Context, id uint) (*models.Order, error) {
	rows, err := s.repo.Order().MarkCompleted(ctx, nil, id)
	if err != nil {
		return nil, fmt.Errorf("failed to complete order: %w", err)
	}
	if rows == 0 {
		exists, err := s.repo.Order().Exists(ctx, nil, id)
		if err != nil {
			return nil, fmt.Errorf("failed to check order existence: %w", err)
		}
		if !exists {
			return nil, ErrOrderNotFound
		}
		return nil, ErrAlreadyCompleted
	}

	metrics.OrdersCompletedTotal.Inc()

	order, err := s.repo.Order().GetByID(ctx, nil, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get completed order: %w", err)
	}

	s.logger.Info("Order completed", "order_id", order.ID)

	if err := s.events.PublishOrderCompleted(ctx, order); err != nil {
		s.logger.Error("Failed to publish order completed event", "error", err, "order_id", order.ID)
	}

	return order, nil
}

// ===== GET OPERATIONS =====

func (s *orderService) GetByID(ctx context.Context, id uint, requesterID uint, requesterIsAdmin bool) (*models.Order, error) {
	order, err := s.repo.Order().GetByID(ctx, nil, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	// Students only see their own orders
	if !requesterIsAdmin && order.UserID != requesterID {
		return nil, ErrForbidden
	}

	return order, nil
}

// ===== LIST OPERATIONS =====

func (s *orderService) List(ctx context.Context, params models.ListOrdersParams) (*OrderListResponse, error) {
	if err := s.validator.Validate(&params); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidationFailed, err)
	}

	page, size := normalizePage(params.Page, params.Size)
	filters := s.buildFilters(params, page, size)

	orders, total, err := s.repo.Order().List(ctx, nil, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}

	return &OrderListResponse{
		Orders: orders,
		Total:  total,
		Page:   page,
		Size:   size,
	}, nil
}

func (s *orderService) ListByUser(ctx context.Context, userID uint, params models.ListOrdersParams) (*OrderListResponse, error) {
	if err := s.validator.Validate(&params); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidationFailed, err)
	}

	page, size := normalizePage(params.Page, params.Size)
	filters := s.buildFilters(params, page, size)

	orders, total, err := s.repo.Order().GetByUser(ctx, nil, userID, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list user orders: %w", err)
	}

	return &OrderListResponse{
		Orders: orders,
		Total:  total,
		Page:   page,
		Size:   size,
	}, nil
}

// ===== STATISTICS =====

func (s *orderService) GetShopStats(ctx context.Context) (*repositories.ShopStats, error) {
	stats, err := s.repo.Order().GetShopStats(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get shop stats: %w", err)
	}
	return stats, nil
}

// transact runs fn inside a database transaction. Without a database handle
// (repository-backed unit wiring) fn runs directly and the repository is
// expected to provide its own atomicity.
func (s *orderService) transact(fn func(tx *gorm.DB) error) error {
	if s.db == nil {
		return fn(nil)
	}
	return s.db.Transaction(fn)
}

func (s *orderService) buildFilters(params models.ListOrdersParams, page, size int) repositories.OrderFilters {
	filters := repositories.OrderFilters{
		SnackID:   params.SnackID,
		UserID:    params.UserID,
		Limit:     size,
		Offset:    page * size,
		SortBy:    params.SortBy,
		SortOrder: params.SortDir,
	}
	if params.Status != "" {
		status := params.Status
		filters.Status = &status
	}
	return filters
}
