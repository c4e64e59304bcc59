package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shareit-lending/service-shareit/internal/common/domain"
	bookingDomain "github.com/shareit-lending/service-shareit/internal/domain/booking"
	"gorm.io/gorm"
)

// BookingModel is the GORM model for the bookings table.
type BookingModel struct {
	ID        int64     `gorm:"primaryKey;autoIncrement"`
	ItemID    int64     `gorm:"not null;index"`
	BookerID  int64     `gorm:"not null;index"`
	Status    string    `gorm:"not null;size:20;index"`
	StartDate time.Time `gorm:"column:start_date;not null"`
	EndDate   time.Time `gorm:"column:end_date;not null"`
	Version   int64     `gorm:"not null;default:1"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (BookingModel) TableName() string {
	return "bookings"
}

// GormBookingRepository is the GORM-based implementation of BookingRepository.
type GormBookingRepository struct {
	db *gorm.DB
}

// NewGormBookingRepository creates a new GormBookingRepository.
func NewGormBookingRepository(db *gorm.DB) *GormBookingRepository {
	return &GormBookingRepository{db: db}
}

// FindByID retrieves a booking by its identifier.
func (r *GormBookingRepository) FindByID(ctx context.Context, id int64) (*bookingDomain.Booking, error) {
	var model BookingModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, bookingDomain.ErrBookingNotFound.Withf("booking %d not found", id)
		}
		return nil, fmt.Errorf("failed to find booking by ID: %w", err)
	}
	return toDomainBooking(&model)
}

// FindByIDs retrieves the bookings with the given identifiers, ordered by id.
func (r *GormBookingRepository) FindByIDs(ctx context.Context, ids []int64) ([]*bookingDomain.Booking, error) {
	if len(ids) == 0 {
		return []*bookingDomain.Booking{}, nil
	}
	return r.find(r.db.WithContext(ctx).Where("id IN ?", ids).Order("id"))
}

// FindByBookerID retrieves every booking requested by the user, ordered by id.
func (r *GormBookingRepository) FindByBookerID(ctx context.Context, bookerID int64) ([]*bookingDomain.Booking, error) {
	return r.find(r.db.WithContext(ctx).Where("booker_id = ?", bookerID).Order("id"))
}

// FindByItemOwnerID retrieves every booking on items owned by the user, ordered by id.
func (r *GormBookingRepository) FindByItemOwnerID(ctx context.Context, ownerID int64) ([]*bookingDomain.Booking, error) {
	return r.find(r.db.WithContext(ctx).
		Joins("JOIN items ON items.id = bookings.item_id").
		Where("items.owner_id = ?", ownerID).
		Order("bookings.id"))
}

// FindByItemIDs retrieves bookings on the given items, ascending by start.
func (r *GormBookingRepository) FindByItemIDs(ctx context.Context, itemIDs []int64) ([]*bookingDomain.Booking, error) {
	if len(itemIDs) == 0 {
		return []*bookingDomain.Booking{}, nil
	}
	return r.find(r.db.WithContext(ctx).
		Where("item_id IN ?", itemIDs).
		Order("start_date ASC").
		Order("id ASC"))
}

// FindByItemAndBooker retrieves the user's bookings on one item, ascending by start.
func (r *GormBookingRepository) FindByItemAndBooker(ctx context.Context, itemID, bookerID int64) ([]*bookingDomain.Booking, error) {
	return r.find(r.db.WithContext(ctx).
		Where("item_id = ? AND booker_id = ?", itemID, bookerID).
		Order("start_date ASC").
		Order("id ASC"))
}

// Save persists a new booking and assigns its identifier.
func (r *GormBookingRepository) Save(ctx context.Context, bk *bookingDomain.Booking) error {
	model := toBookingModel(bk)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("failed to save booking: %w", err)
	}
	bk.AssignID(model.ID)
	return nil
}

// Update persists changes to an existing booking with optimistic locking.
func (r *GormBookingRepository) Update(ctx context.Context, bk *bookingDomain.Booking) error {
	model := toBookingModel(bk)

	// Only update if the stored version is the one read before IncrementVersion.
	expectedVersion := bk.Version() - 1
	result := r.db.WithContext(ctx).
		Model(&BookingModel{}).
		Where("id = ? AND version = ?", model.ID, expectedVersion).
		Updates(map[string]interface{}{
			"status":     model.Status,
			"start_date": model.StartDate,
			"end_date":   model.EndDate,
			"version":    model.Version,
			"updated_at": model.UpdatedAt,
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update booking: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return domain.NewConflictError("booking was modified by another transaction")
	}

	return nil
}

func (r *GormBookingRepository) find(query *gorm.DB) ([]*bookingDomain.Booking, error) {
	var models []BookingModel
	if err := query.Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to find bookings: %w", err)
	}

	bookings := make([]*bookingDomain.Booking, len(models))
	for i := range models {
		bk, err := toDomainBooking(&models[i])
		if err != nil {
			return nil, err
		}
		bookings[i] = bk
	}
	return bookings, nil
}

// --- Conversion Helpers ---

func toBookingModel(bk *bookingDomain.Booking) *BookingModel {
	return &BookingModel{
		ID:        bk.ID(),
		ItemID:    bk.ItemID(),
		BookerID:  bk.BookerID(),
		Status:    bk.Status().String(),
		StartDate: bk.Start().UTC(),
		EndDate:   bk.End().UTC(),
		Version:   bk.Version(),
		CreatedAt: bk.CreatedAt().UTC(),
		UpdatedAt: bk.UpdatedAt().UTC(),
	}
}

func toDomainBooking(m *BookingModel) (*bookingDomain.Booking, error) {
	status, err := bookingDomain.ParseBookingStatus(m.Status)
	if err != nil {
		return nil, err
	}

	return bookingDomain.ReconstructBooking(
		m.ID,
		m.ItemID,
		m.BookerID,
		status,
		m.StartDate,
		m.EndDate,
		m.Version,
		m.CreatedAt,
		m.UpdatedAt,
	), nil
}
