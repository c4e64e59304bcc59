package booking

import (
	"sort"
	"time"
)

// SortByStartDesc orders bookings most recent start first. Equal starts keep input order.
func SortByStartDesc(bookings []*Booking) {
	sort.SliceStable(bookings, func(i, j int) bool {
		return bookings[i].start.After(bookings[j].start)
	})
}

// SortByStartAsc orders bookings earliest start first. Equal starts keep input order.
func SortByStartAsc(bookings []*Booking) {
	sort.SliceStable(bookings, func(i, j int) bool {
		return bookings[i].start.Before(bookings[j].start)
	})
}

// NextAndLast picks the item annotations from one item's bookings.
//
// next is the earliest booking starting at or after now, reported only when APPROVED.
// last is the latest booking starting at or before now, reported only when APPROVED.
// Either may be nil.
func NextAndLast(bookings []*Booking, now time.Time) (next, last *Booking) {
	ordered := make([]*Booking, len(bookings))
	copy(ordered, bookings)
	SortByStartAsc(ordered)

	var upcoming, started []*Booking
	for _, b := range ordered {
		if !b.start.Before(now) {
			upcoming = append(upcoming, b)
		}
		if !b.start.After(now) {
			started = append(started, b)
		}
	}

	if len(upcoming) > 0 && upcoming[0].status == StatusApproved {
		next = upcoming[0]
	}
	if len(started) > 0 && started[len(started)-1].status == StatusApproved {
		last = started[len(started)-1]
	}
	return next, last
}

// GroupByItem buckets bookings by item id, preserving order within each bucket.
func GroupByItem(bookings []*Booking) map[int64][]*Booking {
	grouped := make(map[int64][]*Booking)
	for _, b := range bookings {
		grouped[b.itemID] = append(grouped[b.itemID], b)
	}
	return grouped
}
