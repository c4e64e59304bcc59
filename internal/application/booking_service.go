package application

import (
	"context"
	"fmt"
	"time"

	"github.com/shareit-lending/service-shareit/internal/common/domain"
	"github.com/shareit-lending/service-shareit/internal/common/metrics"
	bookingDomain "github.com/shareit-lending/service-shareit/internal/domain/booking"
	itemDomain "github.com/shareit-lending/service-shareit/internal/domain/item"
	userDomain "github.com/shareit-lending/service-shareit/internal/domain/user"
	"github.com/shareit-lending/service-shareit/internal/events"
	"go.uber.org/zap"
)

// BookingRole selects whose bookings a listing returns.
type BookingRole int

const (
	// RoleBooker lists bookings the user requested.
	RoleBooker BookingRole = iota
	// RoleOwner lists bookings on items the user owns.
	RoleOwner
)

// CreateBookingRequest holds the data needed to create a new booking.
type CreateBookingRequest struct {
	ItemID int64    `json:"itemId" binding:"required"`
	Start  DateTime `json:"start"`
	End    DateTime `json:"end"`
}

// BookingService is the application service orchestrating booking use cases.
type BookingService struct {
	bookings bookingDomain.BookingRepository
	items    itemDomain.ItemRepository
	users    userDomain.UserRepository
	events   emitter
	clock    Clock
	logger   *zap.Logger
}

// NewBookingService creates a new BookingService.
func NewBookingService(
	bookings bookingDomain.BookingRepository,
	items itemDomain.ItemRepository,
	users userDomain.UserRepository,
	publisher EventPublisher,
	topic string,
	clock Clock,
	logger *zap.Logger,
) *BookingService {
	return &BookingService{
		bookings: bookings,
		items:    items,
		users:    users,
		events:   newEmitter(publisher, topic, logger),
		clock:    clock,
		logger:   logger,
	}
}

// CreateBooking stores a WAITING booking on an available item the booker does not own.
func (s *BookingService) CreateBooking(ctx context.Context, bookerID int64, req CreateBookingRequest) (*BookingDTO, error) {
	if err := bookingDomain.ValidateInterval(req.Start.Time, req.End.Time); err != nil {
		return nil, err
	}

	it, err := s.items.FindByID(ctx, req.ItemID)
	if err != nil {
		return nil, err
	}
	if it.IsOwnedBy(bookerID) {
		return nil, bookingDomain.ErrOwnerCannotBook.Withf("user %d owns item %d", bookerID, it.ID())
	}
	if !it.Available() {
		return nil, itemDomain.ErrItemUnavailable.Withf("item %d is not available", it.ID())
	}

	booker, err := s.users.FindByID(ctx, bookerID)
	if err != nil {
		return nil, err
	}

	bk, err := bookingDomain.NewBooking(it.ID(), booker.ID(), req.Start.Time, req.End.Time)
	if err != nil {
		return nil, err
	}

	if err := s.bookings.Save(ctx, bk); err != nil {
		return nil, fmt.Errorf("failed to save booking: %w", err)
	}

	s.logger.Info("booking created",
		zap.Int64("booking_id", bk.ID()),
		zap.Int64("item_id", it.ID()),
		zap.Int64("booker_id", booker.ID()),
	)
	metrics.IncBookingTransition(bk.Status().String())

	s.events.publish(ctx, events.BookingCreated, bk.ID(), events.BookingCreatedEvent{
		BookingID:  bk.ID(),
		ItemID:     it.ID(),
		BookerID:   booker.ID(),
		OwnerID:    it.OwnerID(),
		Start:      bk.Start(),
		End:        bk.End(),
		OccurredAt: time.Now().UTC(),
	})

	result := toBookingDTO(bk, it, booker)
	return &result, nil
}

// PatchBooking lets the item owner approve or reject a WAITING booking.
func (s *BookingService) PatchBooking(ctx context.Context, bookingID int64, approved bool, userID int64) (*BookingDTO, error) {
	bk, err := s.bookings.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	it, err := s.items.FindByID(ctx, bk.ItemID())
	if err != nil {
		return nil, err
	}
	if !it.IsOwnedBy(userID) {
		return nil, bookingDomain.ErrNotOwner.Withf("user %d does not own item %d", userID, it.ID())
	}
	booker, err := s.users.FindByID(ctx, bk.BookerID())
	if err != nil {
		return nil, err
	}

	if err := bk.Decide(approved); err != nil {
		return nil, err
	}

	bk.IncrementVersion()
	if err := s.bookings.Update(ctx, bk); err != nil {
		return nil, err
	}

	s.logger.Info("booking decided",
		zap.Int64("booking_id", bk.ID()),
		zap.String("status", bk.Status().String()),
	)
	metrics.IncBookingTransition(bk.Status().String())

	eventType := events.BookingRejected
	if bk.Status() == bookingDomain.StatusApproved {
		eventType = events.BookingApproved
	}
	s.events.publish(ctx, eventType, bk.ID(), events.BookingDecidedEvent{
		BookingID:  bk.ID(),
		ItemID:     it.ID(),
		BookerID:   bk.BookerID(),
		OwnerID:    it.OwnerID(),
		Status:     bk.Status().String(),
		OccurredAt: time.Now().UTC(),
	})

	result := toBookingDTO(bk, it, booker)
	return &result, nil
}

// GetBooking returns a booking to its booker or to the item owner.
func (s *BookingService) GetBooking(ctx context.Context, bookingID, userID int64) (*BookingDTO, error) {
	bk, err := s.bookings.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	it, err := s.items.FindByID(ctx, bk.ItemID())
	if err != nil {
		return nil, err
	}
	if !bk.IsBookedBy(userID) && !it.IsOwnedBy(userID) {
		return nil, bookingDomain.ErrAccessDenied.Withf("booking %d not found for user %d", bookingID, userID)
	}

	booker, err := s.users.FindByID(ctx, bk.BookerID())
	if err != nil {
		return nil, err
	}
	result := toBookingDTO(bk, it, booker)
	return &result, nil
}

// ListBookings returns the user's bookings for role, filtered by state and ordered by start
// descending. The from/size window applies only when both are given.
func (s *BookingService) ListBookings(
	ctx context.Context,
	role BookingRole,
	userID int64,
	state bookingDomain.State,
	page domain.Pagination,
) ([]BookingDTO, error) {
	if _, err := s.users.FindByID(ctx, userID); err != nil {
		return nil, err
	}
	if err := page.Validate(); err != nil {
		return nil, err
	}

	var (
		candidates []*bookingDomain.Booking
		err        error
	)
	switch role {
	case RoleOwner:
		candidates, err = s.bookings.FindByItemOwnerID(ctx, userID)
	default:
		candidates, err = s.bookings.FindByBookerID(ctx, userID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}

	now := s.clock.Now()
	matched := state.Filter(candidates, now)
	bookingDomain.SortByStartDesc(matched)

	lo, hi := page.Window(len(matched))
	return s.toBookingDTOs(ctx, matched[lo:hi])
}

// --- Helpers ---

func (s *BookingService) toBookingDTOs(ctx context.Context, bookings []*bookingDomain.Booking) ([]BookingDTO, error) {
	if len(bookings) == 0 {
		return []BookingDTO{}, nil
	}

	itemIDs := make([]int64, 0, len(bookings))
	bookerIDs := make([]int64, 0, len(bookings))
	for _, bk := range bookings {
		itemIDs = append(itemIDs, bk.ItemID())
		bookerIDs = append(bookerIDs, bk.BookerID())
	}

	items, err := s.items.FindByIDs(ctx, uniqueIDs(itemIDs))
	if err != nil {
		return nil, fmt.Errorf("failed to load booked items: %w", err)
	}
	bookers, err := s.users.FindByIDs(ctx, uniqueIDs(bookerIDs))
	if err != nil {
		return nil, fmt.Errorf("failed to load bookers: %w", err)
	}

	itemsByID := make(map[int64]*itemDomain.Item, len(items))
	for _, it := range items {
		itemsByID[it.ID()] = it
	}
	bookersByID := make(map[int64]*userDomain.User, len(bookers))
	for _, u := range bookers {
		bookersByID[u.ID()] = u
	}

	dtos := make([]BookingDTO, len(bookings))
	for i, bk := range bookings {
		dtos[i] = toBookingDTO(bk, itemsByID[bk.ItemID()], bookersByID[bk.BookerID()])
	}
	return dtos, nil
}

func toBookingDTO(bk *bookingDomain.Booking, it *itemDomain.Item, booker *userDomain.User) BookingDTO {
	dto := BookingDTO{
		ID:       bk.ID(),
		Start:    NewDateTime(bk.Start()),
		End:      NewDateTime(bk.End()),
		Status:   bk.Status().String(),
		ItemID:   bk.ItemID(),
		BookerID: bk.BookerID(),
		Item:     ItemSummary{ID: bk.ItemID()},
		Booker:   UserSummary{ID: bk.BookerID()},
	}
	if it != nil {
		dto.Item.Name = it.Name()
	}
	if booker != nil {
		dto.Booker.Name = booker.Name()
	}
	return dto
}
