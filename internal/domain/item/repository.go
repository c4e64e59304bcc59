package item

import "context"

// ItemRepository defines persistence operations for items.
type ItemRepository interface {
	FindByID(ctx context.Context, id int64) (*Item, error)
	FindByIDs(ctx context.Context, ids []int64) ([]*Item, error)
	// FindByOwnerID lists the owner's items by id. A negative limit means no limit.
	FindByOwnerID(ctx context.Context, ownerID int64, offset, limit int) ([]*Item, error)
	// Search lists available items whose name or description contains text, ignoring case.
	Search(ctx context.Context, text string, offset, limit int) ([]*Item, error)
	FindByRequestIDs(ctx context.Context, requestIDs []int64) ([]*Item, error)
	Save(ctx context.Context, item *Item) error
	Update(ctx context.Context, item *Item) error
	Delete(ctx context.Context, id int64) error
}
