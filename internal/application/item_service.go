package application

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shareit-lending/service-shareit/internal/common/domain"
	bookingDomain "github.com/shareit-lending/service-shareit/internal/domain/booking"
	commentDomain "github.com/shareit-lending/service-shareit/internal/domain/comment"
	itemDomain "github.com/shareit-lending/service-shareit/internal/domain/item"
	requestDomain "github.com/shareit-lending/service-shareit/internal/domain/request"
	userDomain "github.com/shareit-lending/service-shareit/internal/domain/user"
	"github.com/shareit-lending/service-shareit/internal/events"
	"go.uber.org/zap"
)

// CreateItemRequest holds the data needed to list a new item.
type CreateItemRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Available   *bool  `json:"available"`
	RequestID   *int64 `json:"requestId"`
}

// UpdateItemRequest is a partial item update; nil fields are left untouched.
type UpdateItemRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Available   *bool   `json:"available"`
}

// CreateCommentRequest holds a comment body.
type CreateCommentRequest struct {
	Text string `json:"text"`
}

// ItemService orchestrates item, listing and comment use cases.
type ItemService struct {
	items    itemDomain.ItemRepository
	users    userDomain.UserRepository
	bookings bookingDomain.BookingRepository
	comments commentDomain.CommentRepository
	requests requestDomain.RequestRepository
	events   emitter
	clock    Clock
	logger   *zap.Logger
}

// NewItemService creates a new ItemService.
func NewItemService(
	items itemDomain.ItemRepository,
	users userDomain.UserRepository,
	bookings bookingDomain.BookingRepository,
	comments commentDomain.CommentRepository,
	requests requestDomain.RequestRepository,
	publisher EventPublisher,
	topic string,
	clock Clock,
	logger *zap.Logger,
) *ItemService {
	return &ItemService{
		items:    items,
		users:    users,
		bookings: bookings,
		comments: comments,
		requests: requests,
		events:   newEmitter(publisher, topic, logger),
		clock:    clock,
		logger:   logger,
	}
}

// CreateItem lists a new item for ownerID, optionally answering an item request.
func (s *ItemService) CreateItem(ctx context.Context, ownerID int64, req CreateItemRequest) (*ItemDTO, error) {
	if req.Available == nil {
		return nil, itemDomain.ErrInvalidItem.Withf("item availability is required")
	}

	if _, err := s.users.FindByID(ctx, ownerID); err != nil {
		return nil, err
	}

	var requestID *int64
	if req.RequestID != nil && *req.RequestID != 0 {
		r, err := s.requests.FindByID(ctx, *req.RequestID)
		if err != nil {
			return nil, err
		}
		id := r.ID()
		requestID = &id
	}

	it, err := itemDomain.NewItem(ownerID, req.Name, req.Description, *req.Available, requestID)
	if err != nil {
		return nil, err
	}
	if err := s.items.Save(ctx, it); err != nil {
		return nil, fmt.Errorf("failed to save item: %w", err)
	}

	s.logger.Info("item created", zap.Int64("item_id", it.ID()), zap.Int64("owner_id", ownerID))

	result := toItemDTO(it)
	return &result, nil
}

// GetItem returns an item with its comments. The owner also sees the next and last bookings.
func (s *ItemService) GetItem(ctx context.Context, itemID, viewerID int64) (*ItemDTO, error) {
	it, err := s.items.FindByID(ctx, itemID)
	if err != nil {
		return nil, err
	}

	dtos, err := s.renderItems(ctx, []*itemDomain.Item{it}, it.IsOwnedBy(viewerID))
	if err != nil {
		return nil, err
	}
	return &dtos[0], nil
}

// UpdateItem applies a partial update by the item owner.
func (s *ItemService) UpdateItem(ctx context.Context, itemID, userID int64, req UpdateItemRequest) (*ItemDTO, error) {
	it, err := s.items.FindByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if _, err := s.users.FindByID(ctx, userID); err != nil {
		return nil, err
	}
	if !it.IsOwnedBy(userID) {
		return nil, itemDomain.ErrNotOwner.Withf("user %d does not own item %d", userID, itemID)
	}

	it.Update(req.Name, req.Description, req.Available)
	if err := s.items.Update(ctx, it); err != nil {
		return nil, fmt.Errorf("failed to update item: %w", err)
	}

	s.logger.Info("item updated", zap.Int64("item_id", itemID))

	result := toItemDTO(it)
	return &result, nil
}

// DeleteItem removes an item by id.
func (s *ItemService) DeleteItem(ctx context.Context, itemID int64) error {
	if err := s.items.Delete(ctx, itemID); err != nil {
		return err
	}
	s.logger.Info("item deleted", zap.Int64("item_id", itemID))
	return nil
}

// ListOwnerItems returns the owner's items by id, annotated with bookings and comments.
// With both from and size given, from is a page index.
func (s *ItemService) ListOwnerItems(ctx context.Context, ownerID int64, page domain.Pagination) ([]ItemDTO, error) {
	if err := page.Validate(); err != nil {
		return nil, err
	}

	offset, limit := page.PageOffset()
	items, err := s.items.FindByOwnerID(ctx, ownerID, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list owner items: %w", err)
	}
	return s.renderItems(ctx, items, true)
}

// SearchItems finds available items whose name or description contains text.
// Blank text yields an empty result.
func (s *ItemService) SearchItems(ctx context.Context, text string, page domain.Pagination) ([]ItemDTO, error) {
	if strings.TrimSpace(text) == "" {
		return []ItemDTO{}, nil
	}
	if err := page.Validate(); err != nil {
		return nil, err
	}

	offset, limit := page.PageOffset()
	items, err := s.items.Search(ctx, text, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to search items: %w", err)
	}

	dtos := make([]ItemDTO, len(items))
	for i, it := range items {
		dtos[i] = toItemDTO(it)
	}
	return dtos, nil
}

// CreateComment stores a comment when the author's first booking on the item is
// APPROVED and has already started. The comment is attributed to that booking's booker.
func (s *ItemService) CreateComment(ctx context.Context, itemID, authorID int64, req CreateCommentRequest) (*CommentDTO, error) {
	it, err := s.items.FindByID(ctx, itemID)
	if err != nil {
		return nil, err
	}

	bookings, err := s.bookings.FindByItemAndBooker(ctx, it.ID(), authorID)
	if err != nil {
		return nil, fmt.Errorf("failed to load bookings: %w", err)
	}

	now := s.clock.Now()
	governing, err := commentDomain.CheckEligibility(bookings, now)
	if err != nil {
		return nil, err
	}

	c, err := commentDomain.NewComment(it.ID(), governing.BookerID(), req.Text, now)
	if err != nil {
		return nil, err
	}

	author, err := s.users.FindByID(ctx, governing.BookerID())
	if err != nil {
		return nil, err
	}

	if err := s.comments.Save(ctx, c); err != nil {
		return nil, fmt.Errorf("failed to save comment: %w", err)
	}

	s.logger.Info("comment created",
		zap.Int64("comment_id", c.ID()),
		zap.Int64("item_id", it.ID()),
		zap.Int64("author_id", author.ID()),
	)

	s.events.publish(ctx, events.CommentCreated, it.ID(), events.CommentCreatedEvent{
		CommentID:  c.ID(),
		ItemID:     it.ID(),
		AuthorID:   author.ID(),
		OccurredAt: time.Now().UTC(),
	})

	result := toCommentDTO(c, author.Name())
	return &result, nil
}

// --- Helpers ---

// renderItems attaches comments to every item and, when annotate is set, the next and last
// approved bookings relative to a single sampled now.
func (s *ItemService) renderItems(ctx context.Context, items []*itemDomain.Item, annotate bool) ([]ItemDTO, error) {
	dtos := make([]ItemDTO, len(items))
	if len(items) == 0 {
		return dtos, nil
	}

	ids := make([]int64, len(items))
	for i, it := range items {
		ids[i] = it.ID()
		dtos[i] = toItemDTO(it)
	}

	comments, err := s.commentsByItem(ctx, ids)
	if err != nil {
		return nil, err
	}

	var bookingsByItem map[int64][]*bookingDomain.Booking
	if annotate {
		bookings, err := s.bookings.FindByItemIDs(ctx, ids)
		if err != nil {
			return nil, fmt.Errorf("failed to load item bookings: %w", err)
		}
		bookingsByItem = bookingDomain.GroupByItem(bookings)
	}

	now := s.clock.Now()
	for i, it := range items {
		if c, ok := comments[it.ID()]; ok {
			dtos[i].Comments = c
		}
		if annotate {
			next, last := bookingDomain.NextAndLast(bookingsByItem[it.ID()], now)
			dtos[i].NextBooking = toBookingShortDTO(next)
			dtos[i].LastBooking = toBookingShortDTO(last)
		}
	}
	return dtos, nil
}

func (s *ItemService) commentsByItem(ctx context.Context, itemIDs []int64) (map[int64][]CommentDTO, error) {
	comments, err := s.comments.FindByItemIDs(ctx, itemIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load comments: %w", err)
	}
	if len(comments) == 0 {
		return map[int64][]CommentDTO{}, nil
	}

	authorIDs := make([]int64, len(comments))
	for i, c := range comments {
		authorIDs[i] = c.AuthorID()
	}
	authors, err := s.users.FindByIDs(ctx, uniqueIDs(authorIDs))
	if err != nil {
		return nil, fmt.Errorf("failed to load comment authors: %w", err)
	}
	names := make(map[int64]string, len(authors))
	for _, u := range authors {
		names[u.ID()] = u.Name()
	}

	out := make(map[int64][]CommentDTO)
	for itemID, group := range commentDomain.GroupByItem(comments) {
		dtos := make([]CommentDTO, len(group))
		for i, c := range group {
			dtos[i] = toCommentDTO(c, names[c.AuthorID()])
		}
		out[itemID] = dtos
	}
	return out, nil
}
