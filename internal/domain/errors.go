package domain

import "errors"

var (
	// Validation errors
	ErrInvalidAmount      = errors.New("amount must be positive")
	ErrEmptyKind          = errors.New("movement kind cannot be empty")
	ErrEmptyDescription   = errors.New("description cannot be empty")
	ErrDescriptionTooLong = errors.New("description is too long")
	ErrInvalidDateRange   = errors.New("date_from must not be after date_to")
	ErrInvalidQuantity    = errors.New("quantity must be positive")
	ErrInvalidUnitPrice   = errors.New("unit price must be positive")
	ErrNoItems            = errors.New("at least one item is required")
	ErrNegativeOpening    = errors.New("opening balance cannot be negative")
	ErrInvalidMonth       = errors.New("month must be between 1 and 12")

	// Not-found errors
	ErrMovementNotFound = errors.New("movement not found")
	ErrSaleNotFound     = errors.New("sale not found")
	ErrPurchaseNotFound = errors.New("purchase not found")
	ErrIncomeNotFound   = errors.New("income entry not found")
	ErrExpenseNotFound  = errors.New("expense not found")
	ErrProductNotFound  = errors.New("product not found")
	ErrUserNotFound     = errors.New("user not found")

	// Conflict errors
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrProductInactive   = errors.New("product is inactive")
	ErrForbidden         = errors.New("operation not allowed for this actor")
	ErrEmailTaken        = errors.New("user with this email already exists")

	// Auth errors
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid token")
	ErrExpiredToken       = errors.New("token has expired")
)
