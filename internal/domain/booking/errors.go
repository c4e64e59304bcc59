package booking

import "github.com/shareit-lending/service-shareit/internal/common/domain"

var (
	ErrBookingNotFound = domain.NewNotFoundError("BOOKING_NOT_FOUND", "booking not found")
	// ErrAccessDenied is reported as not-found so unrelated users cannot probe booking ids.
	ErrAccessDenied = domain.NewNotFoundError("ACCESS_DENIED", "booking not found for this user")
	// ErrOwnerCannotBook is reported as not-found so ownership is not leaked.
	ErrOwnerCannotBook = domain.NewNotFoundError("OWNER_CANNOT_BOOK", "owner cannot book own item")
	ErrNotOwner        = domain.NewNotFoundError("NOT_OWNER", "user is not the item owner")

	ErrInvalidInterval = domain.NewValidationError("INVALID_INTERVAL", "booking start must be before end")
	ErrAlreadyDecided  = domain.NewValidationError("ALREADY_DECIDED", "booking status has already been decided")
)
