package request

import "context"

// RequestRepository defines persistence operations for item requests.
type RequestRepository interface {
	Save(ctx context.Context, req *Request) error
	FindByID(ctx context.Context, id int64) (*Request, error)
	// FindByRequesterID lists the user's own requests, oldest first.
	FindByRequesterID(ctx context.Context, requesterID int64) ([]*Request, error)
	// FindOthers lists requests authored by anyone but userID, oldest first.
	FindOthers(ctx context.Context, userID int64, offset, limit int) ([]*Request, error)
}
