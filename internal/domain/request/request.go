package request

import (
	"time"

	"github.com/peershare/service-rental/internal/domain"
)

// ItemRequest is a request-board entry: a user asking for an item that does
// not exist yet. Items created in answer carry this request's id.
type ItemRequest struct {
	id          int64
	description string
	requesterID int64
	created     time.Time
}

// NewItemRequest creates a new request-board entry.
func NewItemRequest(requesterID int64, description string) (*ItemRequest, error) {
	if description == "" {
		return nil, domain.NewValidationError("request description is required")
	}
	return &ItemRequest{
		description: description,
		requesterID: requesterID,
		created:     time.Now().UTC(),
	}, nil
}

// Reconstruct rebuilds an ItemRequest from persistence data.
func Reconstruct(id int64, description string, requesterID int64, created time.Time) *ItemRequest {
	return &ItemRequest{
		id:          id,
		description: description,
		requesterID: requesterID,
		created:     created,
	}
}

func (r *ItemRequest) ID() int64           { return r.id }
func (r *ItemRequest) Description() string { return r.description }
func (r *ItemRequest) RequesterID() int64  { return r.requesterID }
func (r *ItemRequest) Created() time.Time  { return r.created }
