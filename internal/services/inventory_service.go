package services

import (
	"context"
	"fmt"
	"log/slog"

	"gorm.io/gorm"

	"github.com/hostelhub/snackshop-service/internal/models"
	"github.com/hostelhub/snackshop-service/internal/repositories"
	"github.com/hostelhub/snackshop-service/internal/validator"
)

type inventoryService struct {
	repo      repositories.Repository
	db        *gorm.DB
	logger    *slog.Logger
	validator *validator.Validator
	business  *validator.BusinessValidator
}

func NewInventoryService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger, v *validator.Validator) InventoryService {
	return &inventoryService{
		repo:      repo,
		db:        db,
		logger:    logger,
		validator: v,
		business:  validator.NewBusinessValidator(),
	}
}

// ===== CORE CRUD OPERATIONS =====

func (s *inventoryService) Create(ctx context.Context, req *CreateSnackRequest) (*models.Snack, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidationFailed, err)
	}
	if verrs := s.business.ValidateSnackCreate(req); verrs.HasErrors() {
		return nil, fmt.Errorf("%w: %v", ErrValidationFailed, verrs)
	}

	snack := &models.Snack{
		Name:     req.Name,
		Price:    req.Price,
		Quantity: req.Quantity,
		ImageURL: req.ImageURL,
	}
	if snack.ImageURL == "" {
		snack.ImageURL = models.DefaultSnackImage
	}
	snack.RecomputeAvailability()

	if err := s.repo.Snack().Create(ctx, nil, snack); err != nil {
		return nil, fmt.Errorf("failed to create snack: %w", err)
	}

	s.logger.Info("Snack created",
		"snack_id", snack.ID,
		"name", snack.Name,
		"quantity", snack.Quantity)

	return snack, nil
}

func (s *inventoryService) GetByID(ctx context.Context, id uint) (*models.Snack, error) {
	snack, err := s.repo.Snack().GetByID(ctx, nil, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrSnackNotFound
		}
		return nil, fmt.Errorf("failed to get snack: %w", err)
	}
	return snack, nil
}

func (s *inventoryService) Update(ctx context.Context, id uint, req *UpdateSnackRequest) (*models.Snack, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidationFailed, err)
	}

	snack, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		snack.Name = *req.Name
	}
	if req.Price != nil {
		snack.Price = *req.Price
	}
	if req.Quantity != nil {
		snack.Quantity = *req.Quantity
	}
	if req.ImageURL != nil {
		snack.ImageURL = *req.ImageURL
	}

	// Availability is derived state, never set directly
	snack.RecomputeAvailability()

	if err := s.repo.Snack().Update(ctx, nil, snack); err != nil {
		return nil, fmt.Errorf("failed to update snack: %w", err)
	}

	s.logger.Info("Snack updated",
		"snack_id", snack.ID,
		"quantity", snack.Quantity,
		"is_available", snack.IsAvailable)

	return snack, nil
}

func (s *inventoryService) Delete(ctx context.Context, id uint) error {
	exists, err := s.repo.Snack().Exists(ctx, nil, id)
	if err != nil {
		return fmt.Errorf("failed to check snack existence: %w", err)
	}
	if !exists {
		return ErrSnackNotFound
	}

	// Snacks referenced by unfulfilled orders stay on the shelf
	hasPending, err := s.repo.Order().HasPendingBySnack(ctx, nil, id)
	if err != nil {
		return fmt.Errorf("failed to check pending orders: %w", err)
	}
	if hasPending {
		return ErrHasPendingOrders
	}

	if err := s.repo.Snack().Delete(ctx, nil, id); err != nil {
		return fmt.Errorf("failed to delete snack: %w", err)
	}

	s.logger.Info("Snack deleted", "snack_id", id)

	return nil
}

// ===== LIST AND SEARCH OPERATIONS =====

func (s *inventoryService) List(ctx context.Context, params models.ListSnacksParams) (*SnackListResponse, error) {
	if err := s.validator.Validate(&params); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidationFailed, err)
	}

	page, size := normalizePage(params.Page, params.Size)

	filters := repositories.SnackFilters{
		Search:        params.Search,
		AvailableOnly: params.AvailableOnly,
		Limit:         size,
		Offset:        page * size,
		SortBy:        params.SortBy,
		SortOrder:     params.SortDir,
	}

	snacks, total, err := s.repo.Snack().List(ctx, nil, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list snacks: %w", err)
	}

	return &SnackListResponse{
		Snacks: snacks,
		Total:  total,
		Page:   page,
		Size:   size,
	}, nil
}

func (s *inventoryService) Count(ctx context.Context) (int64, error) {
	return s.repo.Snack().Count(ctx)
}

// ===== IMAGE MANAGEMENT =====

func (s *inventoryService) SetImage(ctx context.Context, id uint, imageURL string) (*models.Snack, error) {
	snack, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	snack.ImageURL = imageURL
	if err := s.repo.Snack().Update(ctx, nil, snack); err != nil {
		return nil, fmt.Errorf("failed to update snack image: %w", err)
	}

	s.logger.Info("Snack image updated", "snack_id", id, "image_url", imageURL)

	return snack, nil
}

// normalizePage clamps paging parameters to sane defaults
func normalizePage(page, size int) (int, int) {
	if page < 0 {
		page = 0
	}
	if size <= 0 {
		size = 20
	}
	if size > 100 {
		size = 100
	}
	return page, size
}
