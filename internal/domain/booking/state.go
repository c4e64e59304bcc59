package booking

import (
	"time"

	"github.com/shareit-lending/service-shareit/internal/common/domain"
)

// State is the query-time filter applied to a user's bookings.
type State string

const (
	StateAll      State = "ALL"
	StateCurrent  State = "CURRENT"
	StatePast     State = "PAST"
	StateFuture   State = "FUTURE"
	StateWaiting  State = "WAITING"
	StateRejected State = "REJECTED"
)

// ParseState converts a query value to a State. An empty value means ALL.
func ParseState(s string) (State, error) {
	switch State(s) {
	case "":
		return StateAll, nil
	case StateAll, StateCurrent, StatePast, StateFuture, StateWaiting, StateRejected:
		return State(s), nil
	default:
		return "", domain.NewUnsupportedStateError(s)
	}
}

// Matches reports whether b belongs to the state's bucket at the given instant.
// CURRENT includes both boundary instants.
func (s State) Matches(b *Booking, now time.Time) bool {
	switch s {
	case StateCurrent:
		return !b.start.After(now) && !b.end.Before(now)
	case StatePast:
		return !b.end.After(now)
	case StateFuture:
		return !b.start.Before(now)
	case StateWaiting:
		return b.status == StatusWaiting
	case StateRejected:
		return b.status == StatusRejected
	case StateAll:
		return true
	default:
		return true
	}
}

// Filter returns the bookings matching the state, preserving input order.
func (s State) Filter(bookings []*Booking, now time.Time) []*Booking {
	out := make([]*Booking, 0, len(bookings))
	for _, b := range bookings {
		if s.Matches(b, now) {
			out = append(out, b)
		}
	}
	return out
}
