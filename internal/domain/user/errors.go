package user

import "github.com/shareit-lending/service-shareit/internal/common/domain"

var (
	ErrUserNotFound = domain.NewNotFoundError("USER_NOT_FOUND", "user not found")
	ErrInvalidUser  = domain.NewValidationError("INVALID_USER", "invalid user")
	// ErrDuplicateEmail is deliberately not a validation error; it surfaces as a server-side failure.
	ErrDuplicateEmail = domain.NewInvalidArgumentError("DUPLICATE_EMAIL", "email is already registered")
)
