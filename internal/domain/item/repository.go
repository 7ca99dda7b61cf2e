package item

import "context"

// ItemRepository defines persistence operations for item listings.
type ItemRepository interface {
	FindByID(ctx context.Context, id int64) (*Item, error)
	FindByOwnerID(ctx context.Context, ownerID int64) ([]*Item, error)
	FindByRequestID(ctx context.Context, requestID int64) ([]*Item, error)
	// SearchAvailable matches name or description case-insensitively; only
	// available items are returned, and a blank query matches nothing.
	SearchAvailable(ctx context.Context, text string) ([]*Item, error)
	Save(ctx context.Context, it *Item) (*Item, error)
	Update(ctx context.Context, it *Item) error
}

// CommentRepository defines persistence operations for item comments.
type CommentRepository interface {
	FindByItemID(ctx context.Context, itemID int64) ([]*Comment, error)
	FindByItemIDAndAuthorID(ctx context.Context, itemID, authorID int64) ([]*Comment, error)
	Save(ctx context.Context, c *Comment) (*Comment, error)
}
