package item

import "github.com/shareit-lending/service-shareit/internal/common/domain"

var (
	ErrItemNotFound = domain.NewNotFoundError("ITEM_NOT_FOUND", "item not found")
	ErrNotOwner     = domain.NewNotFoundError("NOT_OWNER", "user is not the item owner")

	ErrItemUnavailable = domain.NewValidationError("ITEM_UNAVAILABLE", "item is not available")
	ErrInvalidItem     = domain.NewValidationError("INVALID_ITEM", "invalid item")
)
