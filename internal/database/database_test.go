package database

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"sharehub/internal/models"
)

// baseTime is the fixed reference instant the state-filter tests pivot
// around.
func baseTime(_ *testing.T) time.Time {
	return time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
}

func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := NewDB(":memory:", nil)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func createTestUser(t *testing.T, db *DB, name, email string) *models.User {
	t.Helper()
	user := &models.User{Name: name, Email: email}
	require.NoError(t, db.CreateUser(context.Background(), user))
	return user
}

func createTestItem(t *testing.T, db *DB, ownerID int64, name string, available bool) *models.Item {
	t.Helper()
	item := &models.Item{OwnerID: ownerID, Name: name, Description: name + " description", Available: available}
	require.NoError(t, db.CreateItem(context.Background(), item))
	return item
}

func createTestBooking(t *testing.T, db *DB, itemID, bookerID int64, start, end time.Time, status models.BookingStatus) *models.Booking {
	t.Helper()
	booking := &models.Booking{
		ItemID:   itemID,
		BookerID: bookerID,
		Start:    models.NewDateTime(start),
		End:      models.NewDateTime(end),
		Status:   status,
	}
	require.NoError(t, db.CreateBooking(context.Background(), booking))
	return booking
}
