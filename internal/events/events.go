// Package events defines the lending service's event contract and its consumers.
package events

import "time"

// TopicBookingEvents carries booking and comment lifecycle events.
const TopicBookingEvents = "shareit.booking.events"

// Source identifies this service in CloudEvent envelopes.
const Source = "service-shareit"

const (
	BookingCreated  = "booking.created"
	BookingApproved = "booking.approved"
	BookingRejected = "booking.rejected"
	CommentCreated  = "comment.created"
)

// BookingCreatedEvent is published when a booking request is stored as WAITING.
type BookingCreatedEvent struct {
	BookingID  int64     `json:"bookingId"`
	ItemID     int64     `json:"itemId"`
	BookerID   int64     `json:"bookerId"`
	OwnerID    int64     `json:"ownerId"`
	Start      time.Time `json:"start"`
	End        time.Time `json:"end"`
	OccurredAt time.Time `json:"occurredAt"`
}

// BookingDecidedEvent is published when the owner approves or rejects a booking.
type BookingDecidedEvent struct {
	BookingID  int64     `json:"bookingId"`
	ItemID     int64     `json:"itemId"`
	BookerID   int64     `json:"bookerId"`
	OwnerID    int64     `json:"ownerId"`
	Status     string    `json:"status"`
	OccurredAt time.Time `json:"occurredAt"`
}

// CommentCreatedEvent is published when a borrower comments on an item.
type CommentCreatedEvent struct {
	CommentID  int64     `json:"commentId"`
	ItemID     int64     `json:"itemId"`
	AuthorID   int64     `json:"authorId"`
	OccurredAt time.Time `json:"occurredAt"`
}
