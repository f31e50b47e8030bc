package service

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"sharehub/internal/database"
	"sharehub/internal/models"
)

// testEnv wires the services against an in-memory store with a frozen
// clock.
type testEnv struct {
	db       *database.DB
	users    *UserService
	items    *ItemService
	bookings *BookingService
	requests *RequestService
	now      time.Time
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := database.NewDB(":memory:", nil)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	logger := zerolog.Nop()
	env := &testEnv{
		db:       db,
		users:    NewUserService(db, db, db, db, &logger),
		items:    NewItemService(db, db, db, db, db, &logger),
		bookings: NewBookingService(db, db, db, &logger),
		requests: NewRequestService(db, db, db, &logger),
		now:      time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC),
	}
	env.setNow(env.now)
	return env
}

// setNow freezes the clock for every time-sensitive service.
func (env *testEnv) setNow(now time.Time) {
	env.now = now
	env.items.now = func() time.Time { return now }
	env.bookings.now = func() time.Time { return now }
	env.requests.now = func() time.Time { return now }
}

func (env *testEnv) createUser(t *testing.T, name, email string) *models.User {
	t.Helper()
	user, err := env.users.Create(context.Background(), name, email)
	require.NoError(t, err)
	return user
}

func (env *testEnv) createItem(t *testing.T, ownerID int64, name string, available bool) *models.Item {
	t.Helper()
	item, err := env.items.Create(context.Background(), models.Item{
		Name:        name,
		Description: name + " description",
		Available:   available,
	}, ownerID)
	require.NoError(t, err)
	return item
}

func (env *testEnv) createBooking(t *testing.T, itemID, bookerID int64, startOffset, endOffset time.Duration) *models.Booking {
	t.Helper()
	start := models.NewDateTime(env.now.Add(startOffset))
	end := models.NewDateTime(env.now.Add(endOffset))
	booking, err := env.bookings.Create(context.Background(), itemID, &start, &end, bookerID)
	require.NoError(t, err)
	return booking
}

func intPtr(v int) *int {
	return &v
}
