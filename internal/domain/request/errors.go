package request

import "github.com/shareit-lending/service-shareit/internal/common/domain"

var (
	ErrRequestNotFound = domain.NewNotFoundError("REQUEST_NOT_FOUND", "item request not found")
	ErrInvalidRequest  = domain.NewValidationError("INVALID_REQUEST", "invalid item request")
)
