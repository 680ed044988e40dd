package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/gorm"

	"github.com/hostelhub/snackshop-service/internal/cache"
	"github.com/hostelhub/snackshop-service/internal/models"
	"github.com/hostelhub/snackshop-service/internal/repositories"
	"github.com/hostelhub/snackshop-service/internal/utils"
	"github.com/hostelhub/snackshop-service/internal/validator"
)

// dummyHash is compared against when a login names an unknown identity, so
// both failure modes take the same code path and return the same error.
const dummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

type authService struct {
	repo      repositories.Repository
	db        *gorm.DB
	logger    *slog.Logger
	validator *validator.Validator
	sessions  *cache.SessionStore
}

func NewAuthService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger, validator *validator.Validator, sessions *cache.SessionStore) AuthService {
	return &authService{
		repo:      repo,
		db:        db,
		logger:    logger,
		validator: validator,
		sessions:  sessions,
	}
}

// ===== ACCOUNT LIFECYCLE =====

func (s *authService) Register(ctx context.Context, req *RegisterRequest) (*models.UserResponse, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidationFailed, err)
	}

	// The login identity is derived, never user-chosen
	username := models.Identity(req.Name, req.Room)

	exists, err := s.repo.User().ExistsByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("failed to check identity: %w", err)
	}
	if exists {
		return nil, ErrDuplicateIdentity
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username: username,
		Password: hash,
		Name:     req.Name,
		Room:     req.Room,
		Role:     models.RoleStudent,
	}

	if err := s.repo.User().Create(ctx, nil, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Info("Student account registered",
		"user_id", user.ID,
		"username", user.Username)

	return models.NewUserResponse(user), nil
}

func (s *authService) Login(ctx context.Context, req *LoginRequest) (*LoginResponse, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidationFailed, err)
	}

	user, err := s.repo.User().GetByUsername(ctx, req.Username)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			// Unknown identity and wrong password are indistinguishable
			// to the caller
			utils.VerifyPassword(dummyHash, req.Password)
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to resolve identity: %w", err)
	}

	if !utils.VerifyPassword(user.Password, req.Password) {
		return nil, ErrInvalidCredentials
	}

	token, err := s.sessions.Create(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	s.logger.Info("User logged in",
		"user_id", user.ID,
		"role", user.Role)

	return &LoginResponse{
		Token:     token,
		ExpiresAt: time.Now().UTC().Add(s.sessions.TTL()),
		User:      models.NewUserResponse(user),
	}, nil
}

func (s *authService) Logout(ctx context.Context, token string) error {
	if err := s.sessions.Delete(ctx, token); err != nil {
		return fmt.Errorf("failed to destroy session: %w", err)
	}
	return nil
}

// ===== LOOKUP =====

func (s *authService) GetByID(ctx context.Context, id uint) (*models.UserResponse, error) {
	user, err := s.repo.User().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return models.NewUserResponse(user), nil
}

// ===== BOOTSTRAP =====

// EnsureAdmin creates the shop admin account if no account with the
// configured username exists yet. Runs once at startup.
func (s *authService) EnsureAdmin(ctx context.Context, username, password string) error {
	if username == "" || password == "" {
		return fmt.Errorf("admin credentials not configured")
	}

	exists, err := s.repo.User().ExistsByUsername(ctx, username)
	if err != nil {
		return fmt.Errorf("failed to check admin account: %w", err)
	}
	if exists {
		return nil
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	admin := &models.User{
		Username: username,
		Password: hash,
		Name:     username,
		Role:     models.RoleAdmin,
	}

	if err := s.repo.User().Create(ctx, nil, admin); err != nil {
		return fmt.Errorf("failed to create admin account: %w", err)
	}

	s.logger.Info("Admin account created", "username", username)

	return nil
}
