package booking

import (
	"time"
)

// Booking is the aggregate root for the booking domain.
type Booking struct {
	id       int64
	itemID   int64
	bookerID int64
	status   BookingStatus
	start    time.Time
	end      time.Time

	version   int64
	createdAt time.Time
	updatedAt time.Time
}

// ValidateInterval checks that start is strictly before end.
func ValidateInterval(start, end time.Time) error {
	if start.Equal(end) {
		return ErrInvalidInterval.Withf("booking start %s equals end", start.Format(time.DateTime))
	}
	if start.After(end) {
		return ErrInvalidInterval.Withf("booking start %s is after end %s",
			start.Format(time.DateTime), end.Format(time.DateTime))
	}
	return nil
}

// NewBooking creates a new Booking aggregate with status=WAITING.
func NewBooking(itemID, bookerID int64, start, end time.Time) (*Booking, error) {
	if err := ValidateInterval(start, end); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	return &Booking{
		itemID:    itemID,
		bookerID:  bookerID,
		status:    StatusWaiting,
		start:     start,
		end:       end,
		version:   1,
		createdAt: now,
		updatedAt: now,
	}, nil
}

// ReconstructBooking rebuilds a Booking from persistence data (no validation).
func ReconstructBooking(
	id, itemID, bookerID int64,
	status BookingStatus,
	start, end time.Time,
	version int64,
	createdAt, updatedAt time.Time,
) *Booking {
	return &Booking{
		id:        id,
		itemID:    itemID,
		bookerID:  bookerID,
		status:    status,
		start:     start,
		end:       end,
		version:   version,
		createdAt: createdAt,
		updatedAt: updatedAt,
	}
}

// --- Getters ---

// ID returns the booking's identifier, zero until persisted.
func (b *Booking) ID() int64 { return b.id }

// ItemID returns the booked item's identifier.
func (b *Booking) ItemID() int64 { return b.itemID }

// BookerID returns the identifier of the user who requested the booking.
func (b *Booking) BookerID() int64 { return b.bookerID }

// Status returns the current booking status.
func (b *Booking) Status() BookingStatus { return b.status }

// Start returns the booking start.
func (b *Booking) Start() time.Time { return b.start }

// End returns the booking end.
func (b *Booking) End() time.Time { return b.end }

// Version returns the entity version for optimistic locking.
func (b *Booking) Version() int64 { return b.version }

// CreatedAt returns the creation timestamp.
func (b *Booking) CreatedAt() time.Time { return b.createdAt }

// UpdatedAt returns the last-updated timestamp.
func (b *Booking) UpdatedAt() time.Time { return b.updatedAt }

// --- Behavior ---

// AssignID records the identifier issued by the store on insert.
func (b *Booking) AssignID(id int64) { b.id = id }

// IsBookedBy reports whether the given user requested this booking.
func (b *Booking) IsBookedBy(userID int64) bool {
	return b.bookerID == userID
}

// Decide moves a WAITING booking to APPROVED or REJECTED. A booking is decided once.
func (b *Booking) Decide(approve bool) error {
	target := StatusRejected
	if approve {
		target = StatusApproved
	}
	if b.status.IsTerminal() || !b.status.CanTransitionTo(target) {
		return ErrAlreadyDecided.Withf("booking %d is already %s", b.id, b.status)
	}
	b.status = target
	b.updatedAt = time.Now().UTC()
	return nil
}

// IncrementVersion bumps the version for optimistic locking.
func (b *Booking) IncrementVersion() {
	b.version++
	b.updatedAt = time.Now().UTC()
}
