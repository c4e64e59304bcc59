package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	itemDomain "github.com/shareit-lending/service-shareit/internal/domain/item"
	"gorm.io/gorm"
)

// ItemModel is the GORM model for the items table.
type ItemModel struct {
	ID          int64     `gorm:"primaryKey;autoIncrement"`
	OwnerID     int64     `gorm:"not null;index"`
	Name        string    `gorm:"type:varchar(255);not null"`
	Description string    `gorm:"type:varchar(1000);not null"`
	Available   bool      `gorm:"not null"`
	RequestID   *int64    `gorm:"index"`
	CreatedAt   time.Time `gorm:"not null"`
	UpdatedAt   time.Time `gorm:"not null"`
}

func (ItemModel) TableName() string { return "items" }

// GormItemRepository implements ItemRepository using GORM.
type GormItemRepository struct {
	db *gorm.DB
}

func NewGormItemRepository(db *gorm.DB) *GormItemRepository {
	return &GormItemRepository{db: db}
}

func (r *GormItemRepository) FindByID(ctx context.Context, id int64) (*itemDomain.Item, error) {
	var model ItemModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, itemDomain.ErrItemNotFound.Withf("item %d not found", id)
		}
		return nil, fmt.Errorf("failed to find item by ID: %w", err)
	}
	return toItemDomain(&model), nil
}

func (r *GormItemRepository) FindByIDs(ctx context.Context, ids []int64) ([]*itemDomain.Item, error) {
	if len(ids) == 0 {
		return []*itemDomain.Item{}, nil
	}
	return r.find(r.db.WithContext(ctx).Where("id IN ?", ids).Order("id"))
}

// FindByOwnerID lists the owner's items by id. GORM treats a negative limit as no limit.
func (r *GormItemRepository) FindByOwnerID(ctx context.Context, ownerID int64, offset, limit int) ([]*itemDomain.Item, error) {
	return r.find(r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("id").
		Offset(offset).
		Limit(limit))
}

func (r *GormItemRepository) Search(ctx context.Context, text string, offset, limit int) ([]*itemDomain.Item, error) {
	pattern := "%" + strings.ToLower(text) + "%"
	return r.find(r.db.WithContext(ctx).
		Where("available = ?", true).
		Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", pattern, pattern).
		Order("id").
		Offset(offset).
		Limit(limit))
}

func (r *GormItemRepository) FindByRequestIDs(ctx context.Context, requestIDs []int64) ([]*itemDomain.Item, error) {
	if len(requestIDs) == 0 {
		return []*itemDomain.Item{}, nil
	}
	return r.find(r.db.WithContext(ctx).Where("request_id IN ?", requestIDs).Order("id"))
}

func (r *GormItemRepository) Save(ctx context.Context, it *itemDomain.Item) error {
	model := toItemModel(it)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return err
	}
	it.AssignID(model.ID)
	return nil
}

func (r *GormItemRepository) Update(ctx context.Context, it *itemDomain.Item) error {
	model := toItemModel(it)
	result := r.db.WithContext(ctx).
		Model(&ItemModel{}).
		Where("id = ?", model.ID).
		Updates(map[string]interface{}{
			"name":        model.Name,
			"description": model.Description,
			"available":   model.Available,
			"updated_at":  model.UpdatedAt,
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return itemDomain.ErrItemNotFound.Withf("item %d not found", model.ID)
	}
	return nil
}

func (r *GormItemRepository) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&ItemModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return itemDomain.ErrItemNotFound.Withf("item %d not found", id)
	}
	return nil
}

func (r *GormItemRepository) find(query *gorm.DB) ([]*itemDomain.Item, error) {
	var models []ItemModel
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	items := make([]*itemDomain.Item, len(models))
	for i := range models {
		items[i] = toItemDomain(&models[i])
	}
	return items, nil
}

// --- Conversions ---

func toItemModel(it *itemDomain.Item) *ItemModel {
	return &ItemModel{
		ID:          it.ID(),
		OwnerID:     it.OwnerID(),
		Name:        it.Name(),
		Description: it.Description(),
		Available:   it.Available(),
		RequestID:   it.RequestID(),
		CreatedAt:   it.CreatedAt().UTC(),
		UpdatedAt:   it.UpdatedAt().UTC(),
	}
}

func toItemDomain(m *ItemModel) *itemDomain.Item {
	return itemDomain.Reconstruct(
		m.ID, m.OwnerID,
		m.Name, m.Description,
		m.Available, m.RequestID,
		m.CreatedAt, m.UpdatedAt,
	)
}
