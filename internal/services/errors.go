package services

import "errors"

// Sentinel errors mapped to HTTP status codes by the handlers.
var (
	// Validation / bad input
	ErrValidationFailed = errors.New("validation failed")
	ErrInvalidQuantity  = errors.New("quantity must be a positive integer")

	// Authentication / authorization
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")

	// Not found
	ErrUserNotFound  = errors.New("user not found")
	ErrSnackNotFound = errors.New("snack not found")
	ErrOrderNotFound = errors.New("order not found")

	// Conflicts
	ErrDuplicateIdentity = errors.New("an account with this name and room already exists")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrHasPendingOrders  = errors.New("snack has pending orders")
	ErrAlreadyCompleted  = errors.New("order already completed")
)
