package comment

import "github.com/shareit-lending/service-shareit/internal/common/domain"

var (
	ErrNoBookingFound    = domain.NewValidationError("NO_BOOKING_FOUND", "user has no booking on this item")
	ErrCommentNotAllowed = domain.NewValidationError("COMMENT_NOT_ALLOWED", "comment is not allowed")
	ErrInvalidComment    = domain.NewValidationError("INVALID_COMMENT", "invalid comment")
)
