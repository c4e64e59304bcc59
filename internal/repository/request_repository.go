package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	requestDomain "github.com/shareit-lending/service-shareit/internal/domain/request"
	"gorm.io/gorm"
)

// RequestModel is the GORM model for the requests table.
type RequestModel struct {
	ID          int64     `gorm:"primaryKey;autoIncrement"`
	RequesterID int64     `gorm:"not null;index"`
	Description string    `gorm:"type:varchar(1000);not null"`
	Created     time.Time `gorm:"not null"`
}

func (RequestModel) TableName() string { return "requests" }

// GormRequestRepository implements RequestRepository using GORM.
type GormRequestRepository struct {
	db *gorm.DB
}

func NewGormRequestRepository(db *gorm.DB) *GormRequestRepository {
	return &GormRequestRepository{db: db}
}

func (r *GormRequestRepository) Save(ctx context.Context, req *requestDomain.Request) error {
	model := RequestModel{
		RequesterID: req.RequesterID(),
		Description: req.Description(),
		Created:     req.Created().UTC(),
	}
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		return err
	}
	req.AssignID(model.ID)
	return nil
}

func (r *GormRequestRepository) FindByID(ctx context.Context, id int64) (*requestDomain.Request, error) {
	var model RequestModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, requestDomain.ErrRequestNotFound.Withf("item request %d not found", id)
		}
		return nil, fmt.Errorf("failed to find item request by ID: %w", err)
	}
	return toRequestDomain(&model), nil
}

func (r *GormRequestRepository) FindByRequesterID(ctx context.Context, requesterID int64) ([]*requestDomain.Request, error) {
	return r.find(r.db.WithContext(ctx).
		Where("requester_id = ?", requesterID).
		Order("created ASC").
		Order("id ASC"))
}

// FindOthers pages through requests made by anyone but userID, oldest first.
func (r *GormRequestRepository) FindOthers(ctx context.Context, userID int64, offset, limit int) ([]*requestDomain.Request, error) {
	return r.find(r.db.WithContext(ctx).
		Where("requester_id <> ?", userID).
		Order("created ASC").
		Order("id ASC").
		Offset(offset).
		Limit(limit))
}

func (r *GormRequestRepository) find(query *gorm.DB) ([]*requestDomain.Request, error) {
	var models []RequestModel
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	requests := make([]*requestDomain.Request, len(models))
	for i := range models {
		requests[i] = toRequestDomain(&models[i])
	}
	return requests, nil
}

func toRequestDomain(m *RequestModel) *requestDomain.Request {
	return requestDomain.Reconstruct(m.ID, m.RequesterID, m.Description, m.Created)
}
