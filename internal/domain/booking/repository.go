package booking

import (
	"context"
)

// BookingRepository defines the persistence contract for booking aggregates.
type BookingRepository interface {
	// FindByID retrieves a booking by its identifier.
	FindByID(ctx context.Context, id int64) (*Booking, error)

	// FindByIDs retrieves the bookings with the given identifiers, ordered by id.
	FindByIDs(ctx context.Context, ids []int64) ([]*Booking, error)

	// FindByBookerID retrieves every booking requested by the user, ordered by id.
	FindByBookerID(ctx context.Context, bookerID int64) ([]*Booking, error)

	// FindByItemOwnerID retrieves every booking on items owned by the user, ordered by id.
	FindByItemOwnerID(ctx context.Context, ownerID int64) ([]*Booking, error)

	// FindByItemIDs retrieves bookings on the given items, ascending by start.
	FindByItemIDs(ctx context.Context, itemIDs []int64) ([]*Booking, error)

	// FindByItemAndBooker retrieves the user's bookings on one item, ascending by start.
	FindByItemAndBooker(ctx context.Context, itemID, bookerID int64) ([]*Booking, error)

	// Save persists a new booking and assigns its identifier.
	Save(ctx context.Context, booking *Booking) error

	// Update persists changes to an existing booking with optimistic locking.
	Update(ctx context.Context, booking *Booking) error
}
