package request

import "context"

// ItemRequestRepository defines persistence operations for request-board entries.
// Listings are ordered by creation time descending.
type ItemRequestRepository interface {
	FindByID(ctx context.Context, id int64) (*ItemRequest, error)
	FindByRequesterID(ctx context.Context, requesterID int64) ([]*ItemRequest, error)
	FindByOtherRequesters(ctx context.Context, requesterID int64) ([]*ItemRequest, error)
	Save(ctx context.Context, r *ItemRequest) (*ItemRequest, error)
}
