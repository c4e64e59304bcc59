package comment

import (
	"strings"
	"time"

	"github.com/shareit-lending/service-shareit/internal/domain/booking"
)

// Comment is feedback left on an item by a user who has borrowed it.
type Comment struct {
	id       int64
	itemID   int64
	authorID int64
	text     string
	created  time.Time
}

// NewComment creates a comment. Eligibility is checked separately with CheckEligibility.
func NewComment(itemID, authorID int64, text string, created time.Time) (*Comment, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrInvalidComment.Withf("comment text is required")
	}
	return &Comment{
		itemID:   itemID,
		authorID: authorID,
		text:     text,
		created:  created,
	}, nil
}

// Reconstruct rebuilds a Comment from persistence data (no validation).
func Reconstruct(id, itemID, authorID int64, text string, created time.Time) *Comment {
	return &Comment{
		id:       id,
		itemID:   itemID,
		authorID: authorID,
		text:     text,
		created:  created,
	}
}

// ID returns the comment identifier.
func (c *Comment) ID() int64 { return c.id }

// ItemID returns the commented item.
func (c *Comment) ItemID() int64 { return c.itemID }

// AuthorID returns the user the comment is attributed to.
func (c *Comment) AuthorID() int64 { return c.authorID }

// Text returns the comment body.
func (c *Comment) Text() string { return c.text }

// Created returns when the comment was written.
func (c *Comment) Created() time.Time { return c.created }

// AssignID records the identifier issued by the store on insert.
func (c *Comment) AssignID(id int64) { c.id = id }

// CheckEligibility returns the governing booking that authorises a comment.
//
// bookings are the author's bookings on the item, ascending by start. The first one governs
// even when a later booking would qualify; it must be APPROVED and must have started by now.
func CheckEligibility(bookings []*booking.Booking, now time.Time) (*booking.Booking, error) {
	if len(bookings) == 0 {
		return nil, ErrNoBookingFound
	}
	governing := bookings[0]
	if governing.Start().After(now) {
		return nil, ErrCommentNotAllowed.Withf("booking %d has not started yet", governing.ID())
	}
	if governing.Status() != booking.StatusApproved {
		return nil, ErrCommentNotAllowed.Withf("booking %d is %s", governing.ID(), governing.Status())
	}
	return governing, nil
}

// GroupByItem buckets comments by item id, preserving order within each bucket.
func GroupByItem(comments []*Comment) map[int64][]*Comment {
	grouped := make(map[int64][]*Comment)
	for _, c := range comments {
		grouped[c.itemID] = append(grouped[c.itemID], c)
	}
	return grouped
}
