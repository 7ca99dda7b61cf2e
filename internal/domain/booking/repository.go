package booking

import (
	"context"
	"time"
)

// BookingDates is the minimal slice of a booking used when decorating an
// item with its last/next booking.
type BookingDates struct {
	ID        int64
	StartTime time.Time
	EndTime   time.Time
	Status    BookingStatus
}

// BookingRepository defines the persistence contract for booking aggregates.
// Every listing returns bookings ordered by start time descending. Lookups
// that compare against "now" take it as a parameter so a single value covers
// both bounds of one query.
type BookingRepository interface {
	// FindByID retrieves a booking by its unique identifier.
	FindByID(ctx context.Context, id int64) (*Booking, error)

	// FindByBookerID retrieves all bookings requested by a booker.
	FindByBookerID(ctx context.Context, bookerID int64) ([]*Booking, error)

	// FindByBookerIDAndTimeFilter retrieves a booker's bookings narrowed to a
	// temporal bucket relative to now.
	FindByBookerIDAndTimeFilter(ctx context.Context, bookerID int64, filter TimeFilter, now time.Time) ([]*Booking, error)

	// FindByBookerIDAndStatus retrieves a booker's bookings narrowed by status.
	FindByBookerIDAndStatus(ctx context.Context, bookerID int64, status BookingStatus) ([]*Booking, error)

	// FindByOwnerID retrieves bookings whose item belongs to ownerID. Both
	// filters are optional; nil means "no constraint" on that dimension.
	FindByOwnerID(ctx context.Context, ownerID int64, status *BookingStatus, filter *TimeFilter, now time.Time) ([]*Booking, error)

	// FindApprovedStartedByBookerForItem retrieves APPROVED bookings by the
	// booker for the item whose start time is already behind now. Used to
	// decide comment eligibility, not to prevent double booking.
	FindApprovedStartedByBookerForItem(ctx context.Context, bookerID, itemID int64, now time.Time) ([]*Booking, error)

	// FindLastForItem retrieves the most recently ended booking of the item
	// before now, or nil when there is none.
	FindLastForItem(ctx context.Context, itemID int64, now time.Time) (*BookingDates, error)

	// FindNextForItem retrieves the earliest booking of the item starting
	// after now, or nil when there is none.
	FindNextForItem(ctx context.Context, itemID int64, now time.Time) (*BookingDates, error)

	// Save persists a new booking and returns it with the store-assigned id.
	Save(ctx context.Context, b *Booking) (*Booking, error)

	// Update persists changes to an existing booking with optimistic locking.
	Update(ctx context.Context, b *Booking) error
}
