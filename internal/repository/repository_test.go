package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	bookingDomain "github.com/peershare/service-rental/internal/domain/booking"
	itemDomain "github.com/peershare/service-rental/internal/domain/item"
	userDomain "github.com/peershare/service-rental/internal/domain/user"
)

// testDB opens a fresh in-memory SQLite database with the full schema.
func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&UserModel{},
		&RequestModel{},
		&ItemModel{},
		&BookingModel{},
		&CommentModel{},
	))
	return db
}

func seedUser(t *testing.T, db *gorm.DB, name, email string) *userDomain.User {
	t.Helper()
	u, err := userDomain.NewUser(name, email)
	require.NoError(t, err)
	saved, err := NewGormUserRepository(db).Save(context.Background(), u)
	require.NoError(t, err)
	return saved
}

func seedItem(t *testing.T, db *gorm.DB, ownerID int64, name, description string, available bool) *itemDomain.Item {
	t.Helper()
	it, err := itemDomain.NewItem(ownerID, name, description, available, nil)
	require.NoError(t, err)
	saved, err := NewGormItemRepository(db).Save(context.Background(), it)
	require.NoError(t, err)
	return saved
}

func seedBooking(t *testing.T, db *gorm.DB, it *itemDomain.Item, bookerID int64, start, end time.Time, status bookingDomain.BookingStatus) *bookingDomain.Booking {
	t.Helper()
	now := time.Now().UTC()
	bk := bookingDomain.ReconstructBooking(0, start, end, bookingDomain.ItemRef{
		ID:      it.ID(),
		Name:    it.Name(),
		OwnerID: it.OwnerID(),
	}, bookerID, status, 1, now, now)
	saved, err := NewGormBookingRepository(db).Save(context.Background(), bk)
	require.NoError(t, err)
	return saved
}
