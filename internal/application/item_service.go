package application

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/peershare/service-rental/internal/domain"
	bookingDomain "github.com/peershare/service-rental/internal/domain/booking"
	itemDomain "github.com/peershare/service-rental/internal/domain/item"
	requestDomain "github.com/peershare/service-rental/internal/domain/request"
	userDomain "github.com/peershare/service-rental/internal/domain/user"
)

// CreateItemRequest holds the data needed to list a new item.
type CreateItemRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description" binding:"required"`
	Available   *bool  `json:"available" binding:"required"`
	RequestID   *int64 `json:"request_id"`
}

// UpdateItemRequest holds a partial item update; nil fields are untouched.
type UpdateItemRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Available   *bool   `json:"available"`
}

// CreateCommentRequest holds the text of a new comment.
type CreateCommentRequest struct {
	Text string `json:"text" binding:"required"`
}

// CommentDTO is the response representation of a comment.
type CommentDTO struct {
	ID         int64     `json:"id"`
	Text       string    `json:"text"`
	AuthorName string    `json:"author_name"`
	Created    time.Time `json:"created"`
}

// ItemDTO is the response representation of an item.
type ItemDTO struct {
	ID          int64        `json:"id"`
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Available   bool         `json:"available"`
	RequestID   *int64       `json:"request_id,omitempty"`
	Comments    []CommentDTO `json:"comments"`
}

// BookingDatesDTO is the minimal booking slice shown on an owner's item.
type BookingDatesDTO struct {
	ID    int64     `json:"id"`
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// ItemWithBookingsDTO decorates an item with its last and next booking.
type ItemWithBookingsDTO struct {
	ItemDTO
	LastBooking *BookingDatesDTO `json:"last_booking,omitempty"`
	NextBooking *BookingDatesDTO `json:"next_booking,omitempty"`
}

// ItemService is the application service for item listings and comments.
type ItemService struct {
	items    itemDomain.ItemRepository
	comments itemDomain.CommentRepository
	bookings bookingDomain.BookingRepository
	users    userDomain.UserRepository
	requests requestDomain.ItemRequestRepository
	logger   *zap.Logger
}

// NewItemService creates a new ItemService.
func NewItemService(
	items itemDomain.ItemRepository,
	comments itemDomain.CommentRepository,
	bookings bookingDomain.BookingRepository,
	users userDomain.UserRepository,
	requests requestDomain.ItemRequestRepository,
	logger *zap.Logger,
) *ItemService {
	return &ItemService{
		items:    items,
		comments: comments,
		bookings: bookings,
		users:    users,
		requests: requests,
		logger:   logger,
	}
}

// CreateItem lists a new item for the given owner, optionally answering a
// request-board entry.
func (s *ItemService) CreateItem(ctx context.Context, ownerID int64, req CreateItemRequest) (*ItemDTO, error) {
	if _, err := s.users.FindByID(ctx, ownerID); err != nil {
		return nil, err
	}
	if req.RequestID != nil {
		if _, err := s.requests.FindByID(ctx, *req.RequestID); err != nil {
			return nil, err
		}
	}

	it, err := itemDomain.NewItem(ownerID, req.Name, req.Description, *req.Available, req.RequestID)
	if err != nil {
		return nil, err
	}

	saved, err := s.items.Save(ctx, it)
	if err != nil {
		return nil, fmt.Errorf("failed to save item: %w", err)
	}

	result := toItemDTO(saved, nil)
	return &result, nil
}

// UpdateItem applies a partial update; only the item's owner may edit it.
func (s *ItemService) UpdateItem(ctx context.Context, callerID, itemID int64, req UpdateItemRequest) (*ItemDTO, error) {
	it, err := s.items.FindByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if _, err := s.users.FindByID(ctx, callerID); err != nil {
		return nil, err
	}
	if !it.IsOwnedBy(callerID) {
		return nil, domain.NewAccessDeniedError("only the item owner may edit an item")
	}

	it.Update(req.Name, req.Description, req.Available)
	if err := s.items.Update(ctx, it); err != nil {
		return nil, fmt.Errorf("failed to update item: %w", err)
	}

	result := toItemDTO(it, nil)
	return &result, nil
}

// GetItem retrieves a single item with its comments.
func (s *ItemService) GetItem(ctx context.Context, itemID int64) (*ItemDTO, error) {
	it, err := s.items.FindByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	comments, err := s.comments.FindByItemID(ctx, itemID)
	if err != nil {
		return nil, fmt.Errorf("failed to load comments for item %d: %w", itemID, err)
	}

	result := toItemDTO(it, comments)
	return &result, nil
}

// ListOwnerItems retrieves the owner's items, each decorated with its last
// and next booking and its comments.
func (s *ItemService) ListOwnerItems(ctx context.Context, ownerID int64) ([]ItemWithBookingsDTO, error) {
	if _, err := s.users.FindByID(ctx, ownerID); err != nil {
		return nil, err
	}

	items, err := s.items.FindByOwnerID(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list items for owner %d: %w", ownerID, err)
	}

	// One "now" for every last/next lookup of this call.
	now := time.Now().UTC()

	dtos := make([]ItemWithBookingsDTO, len(items))
	for i, it := range items {
		last, err := s.bookings.FindLastForItem(ctx, it.ID(), now)
		if err != nil {
			return nil, fmt.Errorf("failed to load last booking for item %d: %w", it.ID(), err)
		}
		next, err := s.bookings.FindNextForItem(ctx, it.ID(), now)
		if err != nil {
			return nil, fmt.Errorf("failed to load next booking for item %d: %w", it.ID(), err)
		}
		comments, err := s.comments.FindByItemID(ctx, it.ID())
		if err != nil {
			return nil, fmt.Errorf("failed to load comments for item %d: %w", it.ID(), err)
		}

		dtos[i] = ItemWithBookingsDTO{
			ItemDTO:     toItemDTO(it, comments),
			LastBooking: toBookingDatesDTO(last),
			NextBooking: toBookingDatesDTO(next),
		}
	}
	return dtos, nil
}

// SearchItems finds available items whose name or description matches the
// text. A blank query returns an empty result.
func (s *ItemService) SearchItems(ctx context.Context, text string) ([]ItemDTO, error) {
	if text == "" {
		return []ItemDTO{}, nil
	}

	items, err := s.items.SearchAvailable(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("failed to search items: %w", err)
	}

	dtos := make([]ItemDTO, len(items))
	for i, it := range items {
		comments, err := s.comments.FindByItemID(ctx, it.ID())
		if err != nil {
			return nil, fmt.Errorf("failed to load comments for item %d: %w", it.ID(), err)
		}
		dtos[i] = toItemDTO(it, comments)
	}
	return dtos, nil
}

// CreateComment adds a comment to an item. The author must not own the item
// and must have an APPROVED booking of it that has already started; one
// comment per author per item.
func (s *ItemService) CreateComment(ctx context.Context, authorID, itemID int64, req CreateCommentRequest) (*CommentDTO, error) {
	author, err := s.users.FindByID(ctx, authorID)
	if err != nil {
		return nil, err
	}
	it, err := s.items.FindByID(ctx, itemID)
	if err != nil {
		return nil, err
	}

	if it.IsOwnedBy(authorID) {
		return nil, domain.NewAccessDeniedError("the item owner may not comment on their own item")
	}

	now := time.Now().UTC()
	rented, err := s.bookings.FindApprovedStartedByBookerForItem(ctx, authorID, itemID, now)
	if err != nil {
		return nil, fmt.Errorf("failed to check bookings for item %d: %w", itemID, err)
	}
	if len(rented) == 0 {
		return nil, domain.NewValidationError(
			fmt.Sprintf("user with id=%d has not rented item with id=%d", authorID, itemID))
	}

	existing, err := s.comments.FindByItemIDAndAuthorID(ctx, itemID, authorID)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing comments: %w", err)
	}
	if len(existing) > 0 {
		return nil, domain.NewValidationError(
			fmt.Sprintf("user with id=%d already commented on item with id=%d", authorID, itemID))
	}

	saved, err := s.comments.Save(ctx, itemDomain.NewComment(itemID, authorID, author.Name(), req.Text))
	if err != nil {
		return nil, fmt.Errorf("failed to save comment: %w", err)
	}

	result := toCommentDTO(saved)
	return &result, nil
}

// --- Helpers ---

func toItemDTO(it *itemDomain.Item, comments []*itemDomain.Comment) ItemDTO {
	dtos := make([]CommentDTO, len(comments))
	for i, c := range comments {
		dtos[i] = toCommentDTO(c)
	}
	return ItemDTO{
		ID:          it.ID(),
		Name:        it.Name(),
		Description: it.Description(),
		Available:   it.Available(),
		RequestID:   it.RequestID(),
		Comments:    dtos,
	}
}

func toCommentDTO(c *itemDomain.Comment) CommentDTO {
	return CommentDTO{
		ID:         c.ID(),
		Text:       c.Text(),
		AuthorName: c.AuthorName(),
		Created:    c.Created(),
	}
}

func toBookingDatesDTO(bd *bookingDomain.BookingDates) *BookingDatesDTO {
	if bd == nil {
		return nil
	}
	return &BookingDatesDTO{
		ID:    bd.ID,
		Start: bd.StartTime,
		End:   bd.EndTime,
	}
}
