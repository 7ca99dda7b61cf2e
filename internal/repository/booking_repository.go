package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"gorm.io/gorm"

	"github.com/peershare/service-rental/internal/domain"
	bookingDomain "github.com/peershare/service-rental/internal/domain/booking"
)

// BookingModel is the GORM model for the bookings table. The item's owner is
// not stored here; it is joined in from the items table on every read.
type BookingModel struct {
	ID        int64     `gorm:"primaryKey;autoIncrement"`
	StartTime time.Time `gorm:"not null;index"`
	EndTime   time.Time `gorm:"not null"`
	ItemID    int64     `gorm:"not null;index"`
	BookerID  int64     `gorm:"not null;index"`
	Status    string    `gorm:"not null;size:20;index"`
	Version   int64     `gorm:"not null;default:1"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (BookingModel) TableName() string {
	return "bookings"
}

// bookingRow is the read shape: a booking joined with its item's name and owner.
type bookingRow struct {
	ID          int64
	StartTime   time.Time
	EndTime     time.Time
	ItemID      int64
	BookerID    int64
	Status      string
	Version     int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
	ItemName    string
	ItemOwnerID int64
}

// GormBookingRepository is the GORM-based implementation of BookingRepository.
type GormBookingRepository struct {
	db *gorm.DB
}

// NewGormBookingRepository creates a new GormBookingRepository.
func NewGormBookingRepository(db *gorm.DB) *GormBookingRepository {
	return &GormBookingRepository{db: db}
}

func (r *GormBookingRepository) joined(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("bookings").
		Select("bookings.*, items.name AS item_name, items.owner_id AS item_owner_id").
		Joins("JOIN items ON items.id = bookings.item_id")
}

// FindByID retrieves a booking by its unique identifier.
func (r *GormBookingRepository) FindByID(ctx context.Context, id int64) (*bookingDomain.Booking, error) {
	var row bookingRow
	if err := r.joined(ctx).Where("bookings.id = ?", id).Take(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("booking", strconv.FormatInt(id, 10))
		}
		return nil, fmt.Errorf("failed to find booking by id: %w", err)
	}
	return toDomainBooking(&row)
}

// FindByBookerID retrieves all bookings of a booker, start time descending.
func (r *GormBookingRepository) FindByBookerID(ctx context.Context, bookerID int64) ([]*bookingDomain.Booking, error) {
	var rows []bookingRow
	if err := r.joined(ctx).
		Where("bookings.booker_id = ?", bookerID).
		Order("bookings.start_time DESC").
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to find bookings by booker: %w", err)
	}
	return toDomainBookings(rows)
}

// FindByBookerIDAndTimeFilter retrieves a booker's bookings in the given
// temporal bucket, start time descending.
func (r *GormBookingRepository) FindByBookerIDAndTimeFilter(ctx context.Context, bookerID int64, filter bookingDomain.TimeFilter, now time.Time) ([]*bookingDomain.Booking, error) {
	q := r.joined(ctx).Where("bookings.booker_id = ?", bookerID)
	q = applyTimeFilter(q, filter, now)

	var rows []bookingRow
	if err := q.Order("bookings.start_time DESC").Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to find bookings by booker and time filter: %w", err)
	}
	return toDomainBookings(rows)
}

// FindByBookerIDAndStatus retrieves a booker's bookings with the given
// status, start time descending.
func (r *GormBookingRepository) FindByBookerIDAndStatus(ctx context.Context, bookerID int64, status bookingDomain.BookingStatus) ([]*bookingDomain.Booking, error) {
	var rows []bookingRow
	if err := r.joined(ctx).
		Where("bookings.booker_id = ? AND bookings.status = ?", bookerID, status.String()).
		Order("bookings.start_time DESC").
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to find bookings by booker and status: %w", err)
	}
	return toDomainBookings(rows)
}

// FindByOwnerID retrieves bookings of the owner's items. A nil status or
// time filter means no constraint on that dimension.
func (r *GormBookingRepository) FindByOwnerID(ctx context.Context, ownerID int64, status *bookingDomain.BookingStatus, filter *bookingDomain.TimeFilter, now time.Time) ([]*bookingDomain.Booking, error) {
	q := r.joined(ctx).Where("items.owner_id = ?", ownerID)
	if status != nil {
		q = q.Where("bookings.status = ?", status.String())
	}
	if filter != nil {
		q = applyTimeFilter(q, *filter, now)
	}

	var rows []bookingRow
	if err := q.Order("bookings.start_time DESC").Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to find bookings by owner: %w", err)
	}
	return toDomainBookings(rows)
}

// FindApprovedStartedByBookerForItem retrieves the booker's APPROVED
// bookings of the item whose start time lies behind now.
func (r *GormBookingRepository) FindApprovedStartedByBookerForItem(ctx context.Context, bookerID, itemID int64, now time.Time) ([]*bookingDomain.Booking, error) {
	var rows []bookingRow
	if err := r.joined(ctx).
		Where("bookings.booker_id = ? AND bookings.item_id = ? AND bookings.status = ? AND bookings.start_time < ?",
			bookerID, itemID, bookingDomain.StatusApproved.String(), now).
		Order("bookings.start_time DESC").
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to find approved bookings: %w", err)
	}
	return toDomainBookings(rows)
}

// FindLastForItem retrieves the item's most recently ended booking before
// now, or nil when there is none.
func (r *GormBookingRepository) FindLastForItem(ctx context.Context, itemID int64, now time.Time) (*bookingDomain.BookingDates, error) {
	return r.findDates(ctx, "item_id = ? AND end_time < ?", "end_time DESC", itemID, now)
}

// FindNextForItem retrieves the item's earliest booking starting after now,
// or nil when there is none.
func (r *GormBookingRepository) FindNextForItem(ctx context.Context, itemID int64, now time.Time) (*bookingDomain.BookingDates, error) {
	return r.findDates(ctx, "item_id = ? AND start_time > ?", "start_time ASC", itemID, now)
}

func (r *GormBookingRepository) findDates(ctx context.Context, cond, order string, itemID int64, now time.Time) (*bookingDomain.BookingDates, error) {
	var model BookingModel
	err := r.db.WithContext(ctx).
		Where(cond, itemID, now).
		Order(order).
		Take(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find booking dates: %w", err)
	}

	status, err := bookingDomain.ParseBookingStatus(model.Status)
	if err != nil {
		return nil, err
	}
	return &bookingDomain.BookingDates{
		ID:        model.ID,
		StartTime: model.StartTime,
		EndTime:   model.EndTime,
		Status:    status,
	}, nil
}

// Save persists a new booking and returns it with the store-assigned id.
func (r *GormBookingRepository) Save(ctx context.Context, bk *bookingDomain.Booking) (*bookingDomain.Booking, error) {
	model := toBookingModel(bk)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return nil, fmt.Errorf("failed to save booking: %w", err)
	}
	return bookingDomain.ReconstructBooking(
		model.ID,
		bk.StartTime(),
		bk.EndTime(),
		bk.Item(),
		bk.BookerID(),
		bk.Status(),
		bk.Version(),
		model.CreatedAt,
		model.UpdatedAt,
	), nil
}

// Update persists the status change with optimistic locking.
func (r *GormBookingRepository) Update(ctx context.Context, bk *bookingDomain.Booking) error {
	// Version was already bumped by the caller; match against the previous one.
	expectedVersion := bk.Version() - 1
	result := r.db.WithContext(ctx).
		Model(&BookingModel{}).
		Where("id = ? AND version = ?", bk.ID(), expectedVersion).
		Updates(map[string]interface{}{
			"status":     bk.Status().String(),
			"version":    bk.Version(),
			"updated_at": bk.UpdatedAt(),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update booking: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewConflictError("booking was modified by another transaction")
	}
	return nil
}

// --- Conversion helpers ---

func toBookingModel(bk *bookingDomain.Booking) *BookingModel {
	return &BookingModel{
		ID:        bk.ID(),
		StartTime: bk.StartTime(),
		EndTime:   bk.EndTime(),
		ItemID:    bk.Item().ID,
		BookerID:  bk.BookerID(),
		Status:    bk.Status().String(),
		Version:   bk.Version(),
		CreatedAt: bk.CreatedAt(),
		UpdatedAt: bk.UpdatedAt(),
	}
}

func toDomainBooking(row *bookingRow) (*bookingDomain.Booking, error) {
	status, err := bookingDomain.ParseBookingStatus(row.Status)
	if err != nil {
		return nil, err
	}
	return bookingDomain.ReconstructBooking(
		row.ID,
		row.StartTime,
		row.EndTime,
		bookingDomain.ItemRef{
			ID:      row.ItemID,
			Name:    row.ItemName,
			OwnerID: row.ItemOwnerID,
		},
		row.BookerID,
		status,
		row.Version,
		row.CreatedAt,
		row.UpdatedAt,
	), nil
}

func toDomainBookings(rows []bookingRow) ([]*bookingDomain.Booking, error) {
	bookings := make([]*bookingDomain.Booking, len(rows))
	for i := range rows {
		bk, err := toDomainBooking(&rows[i])
		if err != nil {
			return nil, err
		}
		bookings[i] = bk
	}
	return bookings, nil
}

func applyTimeFilter(q *gorm.DB, filter bookingDomain.TimeFilter, now time.Time) *gorm.DB {
	switch filter {
	case bookingDomain.TimeFilterCurrent:
		return q.Where("bookings.start_time <= ? AND bookings.end_time >= ?", now, now)
	case bookingDomain.TimeFilterPast:
		return q.Where("bookings.end_time < ?", now)
	case bookingDomain.TimeFilterFuture:
		return q.Where("bookings.start_time > ?", now)
	default:
		return q
	}
}
