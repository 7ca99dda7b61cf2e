package booking

import (
	"time"

	"github.com/peershare/service-rental/internal/domain"
)

// ItemRef is the slice of the item a booking needs: identity, display name,
// and the transitive owner used by the authorization guards. The owner is
// never stored on the booking row itself.
type ItemRef struct {
	ID      int64
	Name    string
	OwnerID int64
}

// Booking is the aggregate root for the booking domain.
type Booking struct {
	id        int64
	startTime time.Time
	endTime   time.Time
	item      ItemRef
	bookerID  int64
	status    BookingStatus
	version   int64
	createdAt time.Time
	updatedAt time.Time
}

// NewBooking creates a new Booking with status=WAITING.
// The id is assigned by the store on save.
func NewBooking(bookerID int64, item ItemRef, startTime, endTime time.Time) (*Booking, error) {
	if !startTime.Before(endTime) {
		return nil, domain.NewValidationError("booking start time must be before end time")
	}

	now := time.Now().UTC()
	return &Booking{
		startTime: startTime,
		endTime:   endTime,
		item:      item,
		bookerID:  bookerID,
		status:    StatusWaiting,
		version:   1,
		createdAt: now,
		updatedAt: now,
	}, nil
}

// ReconstructBooking rebuilds a Booking from persistence data (no validation).
func ReconstructBooking(
	id int64,
	startTime, endTime time.Time,
	item ItemRef,
	bookerID int64,
	status BookingStatus,
	version int64,
	createdAt, updatedAt time.Time,
) *Booking {
	return &Booking{
		id:        id,
		startTime: startTime,
		endTime:   endTime,
		item:      item,
		bookerID:  bookerID,
		status:    status,
		version:   version,
		createdAt: createdAt,
		updatedAt: updatedAt,
	}
}

// --- Getters ---

// ID returns the booking's unique identifier.
func (b *Booking) ID() int64 { return b.id }

// StartTime returns the start of the booked interval.
func (b *Booking) StartTime() time.Time { return b.startTime }

// EndTime returns the end of the booked interval.
func (b *Booking) EndTime() time.Time { return b.endTime }

// Item returns the booked item reference.
func (b *Booking) Item() ItemRef { return b.item }

// BookerID returns the id of the user who requested the booking.
func (b *Booking) BookerID() int64 { return b.bookerID }

// Status returns the current booking status.
func (b *Booking) Status() BookingStatus { return b.status }

// Version returns the entity version for optimistic locking.
func (b *Booking) Version() int64 { return b.version }

// CreatedAt returns the creation timestamp.
func (b *Booking) CreatedAt() time.Time { return b.createdAt }

// UpdatedAt returns the last-updated timestamp.
func (b *Booking) UpdatedAt() time.Time { return b.updatedAt }

// --- Behavior ---

// Resolve records the owner's decision: APPROVED when approved is true,
// REJECTED otherwise. The status is overwritten even when the booking is
// already resolved; a repeated decision simply re-assigns it.
func (b *Booking) Resolve(approved bool) {
	if approved {
		b.status = StatusApproved
	} else {
		b.status = StatusRejected
	}
	b.updatedAt = time.Now().UTC()
}

// IsBookedBy reports whether the booking was requested by the given user.
func (b *Booking) IsBookedBy(userID int64) bool {
	return b.bookerID == userID
}

// IsOwnedBy reports whether the booked item belongs to the given user.
func (b *Booking) IsOwnedBy(userID int64) bool {
	return b.item.OwnerID == userID
}

// IncrementVersion bumps the version for optimistic locking.
func (b *Booking) IncrementVersion() {
	b.version++
	b.updatedAt = time.Now().UTC()
}
