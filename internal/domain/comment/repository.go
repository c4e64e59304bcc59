package comment

import "context"

// CommentRepository defines persistence operations for comments.
type CommentRepository interface {
	Save(ctx context.Context, comment *Comment) error
	// FindByItemIDs returns comments on the given items ordered by creation time.
	FindByItemIDs(ctx context.Context, itemIDs []int64) ([]*Comment, error)
}
