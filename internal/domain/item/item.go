package item

import (
	"strings"
	"time"
)

// Item is the aggregate root for a lendable item.
type Item struct {
	id          int64
	ownerID     int64
	name        string
	description string
	available   bool
	requestID   *int64
	createdAt   time.Time
	updatedAt   time.Time
}

// NewItem creates a new item owned by ownerID. requestID links the item to the request it answers.
func NewItem(ownerID int64, name, description string, available bool, requestID *int64) (*Item, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrInvalidItem.Withf("item name is required")
	}
	if strings.TrimSpace(description) == "" {
		return nil, ErrInvalidItem.Withf("item description is required")
	}

	now := time.Now().UTC()
	return &Item{
		ownerID:     ownerID,
		name:        name,
		description: description,
		available:   available,
		requestID:   requestID,
		createdAt:   now,
		updatedAt:   now,
	}, nil
}

// Reconstruct rebuilds an Item from persistence data (no validation).
func Reconstruct(
	id, ownerID int64,
	name, description string,
	available bool,
	requestID *int64,
	createdAt, updatedAt time.Time,
) *Item {
	return &Item{
		id:          id,
		ownerID:     ownerID,
		name:        name,
		description: description,
		available:   available,
		requestID:   requestID,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
	}
}

// --- Getters ---

func (i *Item) ID() int64            { return i.id }
func (i *Item) OwnerID() int64       { return i.ownerID }
func (i *Item) Name() string         { return i.name }
func (i *Item) Description() string  { return i.description }
func (i *Item) Available() bool      { return i.available }
func (i *Item) RequestID() *int64    { return i.requestID }
func (i *Item) CreatedAt() time.Time { return i.createdAt }
func (i *Item) UpdatedAt() time.Time { return i.updatedAt }

// --- Behavior ---

// AssignID records the identifier issued by the store on insert.
func (i *Item) AssignID(id int64) { i.id = id }

// IsOwnedBy checks if the item belongs to the given user.
func (i *Item) IsOwnedBy(userID int64) bool {
	return i.ownerID == userID
}

// Update applies a partial update. Nil fields and blank strings are left untouched.
func (i *Item) Update(name, description *string, available *bool) {
	if name != nil && strings.TrimSpace(*name) != "" {
		i.name = *name
	}
	if description != nil && strings.TrimSpace(*description) != "" {
		i.description = *description
	}
	if available != nil {
		i.available = *available
	}
	i.updatedAt = time.Now().UTC()
}

// MatchesText reports whether the item's name or description contains text, ignoring case.
func (i *Item) MatchesText(text string) bool {
	needle := strings.ToLower(text)
	return strings.Contains(strings.ToLower(i.name), needle) ||
		strings.Contains(strings.ToLower(i.description), needle)
}
