package repository

import (
	"context"
	"time"

	commentDomain "github.com/shareit-lending/service-shareit/internal/domain/comment"
	"gorm.io/gorm"
)

// CommentModel is the GORM model for the comments table.
type CommentModel struct {
	ID       int64     `gorm:"primaryKey;autoIncrement"`
	ItemID   int64     `gorm:"not null;index"`
	AuthorID int64     `gorm:"not null;index"`
	Text     string    `gorm:"type:varchar(1000);not null"`
	Created  time.Time `gorm:"not null"`
}

func (CommentModel) TableName() string { return "comments" }

// GormCommentRepository implements CommentRepository using GORM.
type GormCommentRepository struct {
	db *gorm.DB
}

func NewGormCommentRepository(db *gorm.DB) *GormCommentRepository {
	return &GormCommentRepository{db: db}
}

func (r *GormCommentRepository) Save(ctx context.Context, c *commentDomain.Comment) error {
	model := CommentModel{
		ItemID:   c.ItemID(),
		AuthorID: c.AuthorID(),
		Text:     c.Text(),
		Created:  c.Created().UTC(),
	}
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		return err
	}
	c.AssignID(model.ID)
	return nil
}

// FindByItemIDs returns comments on the given items, oldest first.
func (r *GormCommentRepository) FindByItemIDs(ctx context.Context, itemIDs []int64) ([]*commentDomain.Comment, error) {
	if len(itemIDs) == 0 {
		return []*commentDomain.Comment{}, nil
	}

	var models []CommentModel
	if err := r.db.WithContext(ctx).
		Where("item_id IN ?", itemIDs).
		Order("created ASC").
		Order("id ASC").
		Find(&models).Error; err != nil {
		return nil, err
	}

	comments := make([]*commentDomain.Comment, len(models))
	for i, m := range models {
		comments[i] = commentDomain.Reconstruct(m.ID, m.ItemID, m.AuthorID, m.Text, m.Created)
	}
	return comments, nil
}
