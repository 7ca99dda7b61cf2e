package application

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/peershare/service-rental/internal/domain"
	bookingDomain "github.com/peershare/service-rental/internal/domain/booking"
	itemDomain "github.com/peershare/service-rental/internal/domain/item"
	userDomain "github.com/peershare/service-rental/internal/domain/user"
)

// CreateBookingRequest holds the data needed to create a new booking.
type CreateBookingRequest struct {
	ItemID int64     `json:"item_id" binding:"required"`
	Start  time.Time `json:"start" binding:"required"`
	End    time.Time `json:"end" binding:"required"`
}

// ItemRefDTO is the minimal item reference exposed in a booking view.
type ItemRefDTO struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// BookerRefDTO is the minimal booker reference exposed in a booking view.
type BookerRefDTO struct {
	ID int64 `json:"id"`
}

// BookingDTO is the response representation of a booking. It deliberately
// carries no owner detail.
type BookingDTO struct {
	ID     int64        `json:"id"`
	Start  time.Time    `json:"start"`
	End    time.Time    `json:"end"`
	Status string       `json:"status"`
	Item   ItemRefDTO   `json:"item"`
	Booker BookerRefDTO `json:"booker"`
}

// EventPublisher emits booking lifecycle events. Implementations must never
// fail the calling operation.
type EventPublisher interface {
	PublishBookingRequested(ctx context.Context, b *bookingDomain.Booking)
	PublishBookingResolved(ctx context.Context, b *bookingDomain.Booking)
}

// BookingService is the application service orchestrating the booking
// lifecycle: creation, the owner's approve/reject decision, and the
// state-filtered listings for booker and owner.
type BookingService struct {
	bookings bookingDomain.BookingRepository
	items    itemDomain.ItemRepository
	users    userDomain.UserRepository
	events   EventPublisher
	logger   *zap.Logger
}

// NewBookingService creates a new BookingService.
func NewBookingService(
	bookings bookingDomain.BookingRepository,
	items itemDomain.ItemRepository,
	users userDomain.UserRepository,
	events EventPublisher,
	logger *zap.Logger,
) *BookingService {
	return &BookingService{
		bookings: bookings,
		items:    items,
		users:    users,
		events:   events,
		logger:   logger,
	}
}

// CreateBooking creates a WAITING booking for the given booker.
func (s *BookingService) CreateBooking(ctx context.Context, bookerID int64, req CreateBookingRequest) (*BookingDTO, error) {
	if !req.Start.Before(req.End) {
		return nil, domain.NewValidationError("booking start time must be before end time")
	}

	itemToBook, err := s.items.FindByID(ctx, req.ItemID)
	if err != nil {
		return nil, err
	}
	if _, err := s.users.FindByID(ctx, bookerID); err != nil {
		return nil, err
	}
	if !itemToBook.Available() {
		return nil, domain.NewValidationError(
			fmt.Sprintf("item with id=%d is not available for booking", req.ItemID))
	}

	bk, err := bookingDomain.NewBooking(bookerID, bookingDomain.ItemRef{
		ID:      itemToBook.ID(),
		Name:    itemToBook.Name(),
		OwnerID: itemToBook.OwnerID(),
	}, req.Start, req.End)
	if err != nil {
		return nil, err
	}

	saved, err := s.bookings.Save(ctx, bk)
	if err != nil {
		return nil, fmt.Errorf("failed to save booking: %w", err)
	}

	s.events.PublishBookingRequested(ctx, saved)

	result := toBookingDTO(saved)
	return &result, nil
}

// ApproveBooking records the item owner's decision on a WAITING booking.
// The status is overwritten even for an already resolved booking.
func (s *BookingService) ApproveBooking(ctx context.Context, approverID, bookingID int64, approved bool) (*BookingDTO, error) {
	bk, err := s.bookings.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if err := bookingDomain.AuthorizeApproval(bk, approverID); err != nil {
		return nil, err
	}

	bk.Resolve(approved)
	bk.IncrementVersion()
	if err := s.bookings.Update(ctx, bk); err != nil {
		return nil, err
	}

	s.events.PublishBookingResolved(ctx, bk)

	result := toBookingDTO(bk)
	return &result, nil
}

// GetBooking retrieves a single booking, visible only to the item owner and
// the booker.
func (s *BookingService) GetBooking(ctx context.Context, requesterID, bookingID int64) (*BookingDTO, error) {
	bk, err := s.bookings.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if err := bookingDomain.AuthorizeView(bk, requesterID); err != nil {
		return nil, err
	}

	result := toBookingDTO(bk)
	return &result, nil
}

// ListByBooker retrieves the booker's bookings filtered by query state,
// ordered by start time descending.
func (s *BookingService) ListByBooker(ctx context.Context, bookerID int64, state bookingDomain.QueryState) ([]BookingDTO, error) {
	if _, err := s.users.FindByID(ctx, bookerID); err != nil {
		return nil, err
	}

	// Read once so both bound comparisons of this query agree on "now".
	now := time.Now().UTC()

	var (
		results []*bookingDomain.Booking
		err     error
	)
	switch state {
	case bookingDomain.QueryStateAll:
		results, err = s.bookings.FindByBookerID(ctx, bookerID)
	case bookingDomain.QueryStateCurrent:
		results, err = s.bookings.FindByBookerIDAndTimeFilter(ctx, bookerID, bookingDomain.TimeFilterCurrent, now)
	case bookingDomain.QueryStatePast:
		results, err = s.bookings.FindByBookerIDAndTimeFilter(ctx, bookerID, bookingDomain.TimeFilterPast, now)
	case bookingDomain.QueryStateFuture:
		results, err = s.bookings.FindByBookerIDAndTimeFilter(ctx, bookerID, bookingDomain.TimeFilterFuture, now)
	case bookingDomain.QueryStateWaiting:
		results, err = s.bookings.FindByBookerIDAndStatus(ctx, bookerID, bookingDomain.StatusWaiting)
	case bookingDomain.QueryStateRejected:
		results, err = s.bookings.FindByBookerIDAndStatus(ctx, bookerID, bookingDomain.StatusRejected)
	default:
		return nil, domain.NewValidationError("unsupported query state: " + string(state))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings for booker %d: %w", bookerID, err)
	}

	return toBookingDTOs(results), nil
}

// ListByOwner retrieves bookings of the owner's items filtered by query
// state, ordered by start time descending.
func (s *BookingService) ListByOwner(ctx context.Context, ownerID int64, state bookingDomain.QueryState) ([]BookingDTO, error) {
	if _, err := s.users.FindByID(ctx, ownerID); err != nil {
		return nil, err
	}

	status, filter, err := state.Filters()
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	results, err := s.bookings.FindByOwnerID(ctx, ownerID, status, filter, now)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings for owner %d: %w", ownerID, err)
	}

	return toBookingDTOs(results), nil
}

// --- Helpers ---

func toBookingDTO(bk *bookingDomain.Booking) BookingDTO {
	return BookingDTO{
		ID:     bk.ID(),
		Start:  bk.StartTime(),
		End:    bk.EndTime(),
		Status: bk.Status().String(),
		Item: ItemRefDTO{
			ID:   bk.Item().ID,
			Name: bk.Item().Name,
		},
		Booker: BookerRefDTO{ID: bk.BookerID()},
	}
}

func toBookingDTOs(bookings []*bookingDomain.Booking) []BookingDTO {
	dtos := make([]BookingDTO, len(bookings))
	for i, bk := range bookings {
		dtos[i] = toBookingDTO(bk)
	}
	return dtos
}
