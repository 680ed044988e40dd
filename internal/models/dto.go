package models

import (
	"time"
)

// ===== AUTH DTOS =====

type RegisterRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=100,excludes=-"`
	Room     string `json:"room_number" validate:"required,room_number"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required,min=1,max=120"`
	Password string `json:"password" validate:"required,min=1,max=72"`
}

type LoginResponse struct {
	Token     string        `json:"token"`
	ExpiresAt time.Time     `json:"expires_at"`
	User      *UserResponse `json:"user"`
}

type UserResponse struct {
	ID       uint     `json:"id"`
	Username string   `json:"username"`
	Name     string   `json:"name"`
	Room     string   `json:"room_number,omitempty"`
	Role     UserRole `json:"role"`
}

// NewUserResponse strips credential fields from a user record.
func NewUserResponse(u *User) *UserResponse {
	if u == nil {
		return nil
	}
	return &UserResponse{
		ID:       u.ID,
		Username: u.Username,
		Name:     u.Name,
		Room:     u.Room,
		Role:     u.Role,
	}
}

// ===== SNACK DTOS =====

type SnackCreateRequest struct {
	Name     string  `json:"name" validate:"required,min=1,max=120"`
	Price    float64 `json:"price" validate:"required,gt=0"`
	Quantity int     `json:"quantity" validate:"min=0"`
	ImageURL string  `json:"image_url" validate:"omitempty,max=500"`
}

type SnackUpdateRequest struct {
	Name     *string  `json:"name" validate:"omitempty,min=1,max=120"`
	Price    *float64 `json:"price" validate:"omitempty,gt=0"`
	Quantity *int     `json:"quantity" validate:"omitempty,min=0"`
	ImageURL *string  `json:"image_url" validate:"omitempty,max=500"`
}

// ===== ORDER DTOS =====

type OrderCreateRequest struct {
	SnackID  uint `json:"snack_id" validate:"required"`
	Quantity int  `json:"quantity" validate:"required,gt=0"`
}

// ===== PAGINATION & FILTERING =====

type ListSnacksParams struct {
	Page          int    `json:"page" validate:"min=0"`
	Size          int    `json:"size" validate:"min=0,max=100"`
	Search        string `json:"search"`
	AvailableOnly bool   `json:"available_only"`
	SortBy        string `json:"sort_by"`
	SortDir       string `json:"sort_dir" validate:"omitempty,oneof=asc desc"`
}

type ListOrdersParams struct {
	Page    int         `json:"page" validate:"min=0"`
	Size    int         `json:"size" validate:"min=0,max=100"`
	SnackID *uint       `json:"snack_id"`
	UserID  *uint       `json:"user_id"`
	Status  OrderStatus `json:"status" validate:"omitempty,oneof=Pending Completed"`
	SortBy  string      `json:"sort_by"`
	SortDir string      `json:"sort_dir" validate:"omitempty,oneof=asc desc"`
}

type PaginatedResponse struct {
	Content          interface{} `json:"content"`
	TotalElements    int64       `json:"total_elements"`
	TotalPages       int         `json:"total_pages"`
	Size             int         `json:"size"`
	Page             int         `json:"page"`
	First            bool        `json:"first"`
	Last             bool        `json:"last"`
	NumberOfElements int         `json:"number_of_elements"`
	Empty            bool        `json:"empty"`
}

// ===== IMPORT/EXPORT DTOS =====

type ImportSnacksResult struct {
	SuccessCount int              `json:"success_count"`
	FailureCount int              `json:"failure_count"`
	Errors       []ImportRowError `json:"errors,omitempty"`
}

type ImportRowError struct {
	Row   int    `json:"row"`
	Error string `json:"error"`
}
