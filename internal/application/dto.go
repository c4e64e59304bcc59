package application

import (
	bookingDomain "github.com/shareit-lending/service-shareit/internal/domain/booking"
	commentDomain "github.com/shareit-lending/service-shareit/internal/domain/comment"
	itemDomain "github.com/shareit-lending/service-shareit/internal/domain/item"
	requestDomain "github.com/shareit-lending/service-shareit/internal/domain/request"
	userDomain "github.com/shareit-lending/service-shareit/internal/domain/user"
)

// ItemSummary is the nested item reference inside a booking.
type ItemSummary struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// UserSummary is the nested booker reference inside a booking.
type UserSummary struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// BookingDTO is the response representation of a booking.
type BookingDTO struct {
	ID       int64       `json:"id"`
	Start    DateTime    `json:"start"`
	End      DateTime    `json:"end"`
	Status   string      `json:"status"`
	ItemID   int64       `json:"itemId"`
	BookerID int64       `json:"bookerId"`
	Item     ItemSummary `json:"item"`
	Booker   UserSummary `json:"booker"`
}

// BookingShortDTO is the next/last booking annotation on an item.
type BookingShortDTO struct {
	ID       int64    `json:"id"`
	BookerID int64    `json:"bookerId"`
	Start    DateTime `json:"start"`
	End      DateTime `json:"end"`
}

// CommentDTO is the response representation of a comment.
type CommentDTO struct {
	ID         int64    `json:"id"`
	Text       string   `json:"text"`
	Created    DateTime `json:"created"`
	ItemID     int64    `json:"itemId"`
	AuthorID   int64    `json:"authorId"`
	AuthorName string   `json:"authorName"`
}

// ItemDTO is the response representation of an item. Booking annotations are only
// present for the owner.
type ItemDTO struct {
	ID          int64            `json:"id"`
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Available   bool             `json:"available"`
	OwnerID     int64            `json:"ownerId"`
	RequestID   *int64           `json:"requestId,omitempty"`
	LastBooking *BookingShortDTO `json:"lastBooking"`
	NextBooking *BookingShortDTO `json:"nextBooking"`
	Comments    []CommentDTO     `json:"comments"`
}

// UserDTO is the response representation of a user.
type UserDTO struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// ItemRequestDTO is the response representation of an item request with its answers.
type ItemRequestDTO struct {
	ID          int64     `json:"id"`
	Description string    `json:"description"`
	RequesterID int64     `json:"requesterId"`
	Created     DateTime  `json:"created"`
	Items       []ItemDTO `json:"items"`
}

func toBookingShortDTO(bk *bookingDomain.Booking) *BookingShortDTO {
	if bk == nil {
		return nil
	}
	return &BookingShortDTO{
		ID:       bk.ID(),
		BookerID: bk.BookerID(),
		Start:    NewDateTime(bk.Start()),
		End:      NewDateTime(bk.End()),
	}
}

func toItemDTO(it *itemDomain.Item) ItemDTO {
	return ItemDTO{
		ID:          it.ID(),
		Name:        it.Name(),
		Description: it.Description(),
		Available:   it.Available(),
		OwnerID:     it.OwnerID(),
		RequestID:   it.RequestID(),
		Comments:    []CommentDTO{},
	}
}

func toCommentDTO(c *commentDomain.Comment, authorName string) CommentDTO {
	return CommentDTO{
		ID:         c.ID(),
		Text:       c.Text(),
		Created:    NewDateTime(c.Created()),
		ItemID:     c.ItemID(),
		AuthorID:   c.AuthorID(),
		AuthorName: authorName,
	}
}

func toUserDTO(u *userDomain.User) UserDTO {
	return UserDTO{ID: u.ID(), Name: u.Name(), Email: u.Email()}
}

func toItemRequestDTO(r *requestDomain.Request, answers []*itemDomain.Item) ItemRequestDTO {
	items := make([]ItemDTO, 0, len(answers))
	for _, it := range answers {
		items = append(items, toItemDTO(it))
	}
	return ItemRequestDTO{
		ID:          r.ID(),
		Description: r.Description(),
		RequesterID: r.RequesterID(),
		Created:     NewDateTime(r.Created()),
		Items:       items,
	}
}

func uniqueIDs(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
