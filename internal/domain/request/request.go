package request

import (
	"strings"
	"time"
)

// Request is a user's public ask for an item nobody has listed yet.
type Request struct {
	id          int64
	requesterID int64
	description string
	created     time.Time
}

// NewRequest creates a request authored by requesterID.
func NewRequest(requesterID int64, description string, created time.Time) (*Request, error) {
	if strings.TrimSpace(description) == "" {
		return nil, ErrInvalidRequest.Withf("request description is required")
	}
	return &Request{
		requesterID: requesterID,
		description: description,
		created:     created,
	}, nil
}

// Reconstruct rebuilds a Request from persistence data (no validation).
func Reconstruct(id, requesterID int64, description string, created time.Time) *Request {
	return &Request{
		id:          id,
		requesterID: requesterID,
		description: description,
		created:     created,
	}
}

func (r *Request) ID() int64           { return r.id }
func (r *Request) RequesterID() int64  { return r.requesterID }
func (r *Request) Description() string { return r.description }
func (r *Request) Created() time.Time  { return r.created }

// AssignID records the identifier issued by the store on insert.
func (r *Request) AssignID(id int64) { r.id = id }
