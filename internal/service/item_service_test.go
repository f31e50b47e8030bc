package service

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sharehub/internal/domain"
	"sharehub/internal/models"
)

func strPtr(s string) *string { return &s }

func boolPtr(b bool) *bool { return &b }

func TestCreateItem(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	owner := env.createUser(t, "Owner", "owner@example.com")

	item, err := env.items.Create(ctx, models.Item{Name: "Drill", Description: "cordless", Available: true}, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, owner.ID, item.OwnerID)

	_, err = env.items.Create(ctx, models.Item{Name: "Saw", Description: "sharp", Available: true}, 9999)
	assert.ErrorIs(t, err, domain.ErrNotFound, "owner must exist")

	missing := int64(777)
	_, err = env.items.Create(ctx, models.Item{Name: "Saw", Description: "sharp", Available: true, RequestID: &missing}, owner.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound, "referenced request must exist")
}

func TestUpdateItemPartial(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	owner := env.createUser(t, "Owner", "owner@example.com")
	stranger := env.createUser(t, "Stranger", "stranger@example.com")
	item := env.createItem(t, owner.ID, "Drill", true)

	_, err := env.items.Update(ctx, item.ID, models.ItemUpdate{Name: strPtr("Hammer")}, stranger.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	updated, err := env.items.Update(ctx, item.ID, models.ItemUpdate{Available: boolPtr(false)}, owner.ID)
	require.NoError(t, err)
	assert.False(t, updated.Available)
	assert.Equal(t, "Drill", updated.Name, "absent fields stay untouched")

	updated, err = env.items.Update(ctx, item.ID, models.ItemUpdate{Name: strPtr("Big drill"), Description: strPtr("very big")}, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, "Big drill", updated.Name)
	assert.Equal(t, "very big", updated.Description)
	assert.False(t, updated.Available)
}

func TestGetDetailsPreviewsOwnerOnly(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	owner := env.createUser(t, "Owner", "owner@example.com")
	booker := env.createUser(t, "Booker", "booker@example.com")
	item := env.createItem(t, owner.ID, "Drill", true)

	future := env.createBooking(t, item.ID, booker.ID, time.Hour, 2*time.Hour)

	forOwner, err := env.items.GetDetails(ctx, item.ID, owner.ID)
	require.NoError(t, err)
	require.NotNil(t, forOwner.NextBooking)
	assert.Equal(t, future.ID, forOwner.NextBooking.ID)
	assert.Nil(t, forOwner.LastBooking)
	assert.NotNil(t, forOwner.Comments)

	forBooker, err := env.items.GetDetails(ctx, item.ID, booker.ID)
	require.NoError(t, err)
	assert.Nil(t, forBooker.NextBooking, "previews are for the owner only")
	assert.Nil(t, forBooker.LastBooking)
}

func TestDeleteItem(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	owner := env.createUser(t, "Owner", "owner@example.com")
	stranger := env.createUser(t, "Stranger", "stranger@example.com")
	item := env.createItem(t, owner.ID, "Drill", true)

	assert.ErrorIs(t, env.items.Delete(ctx, item.ID, stranger.ID), domain.ErrForbidden)
	require.NoError(t, env.items.Delete(ctx, item.ID, owner.ID))

	_, err := env.items.GetDetails(ctx, item.ID, owner.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDeleteItemKeepsHistory(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	owner := env.createUser(t, "Owner", "owner@example.com")
	booker := env.createUser(t, "Booker", "booker@example.com")

	booked := env.createItem(t, owner.ID, "Drill", true)
	env.createBooking(t, booked.ID, booker.ID, time.Hour, 2*time.Hour)
	assert.ErrorIs(t, env.items.Delete(ctx, booked.ID, owner.ID), domain.ErrItemInUse,
		"even a waiting booking pins the item")

	commented := env.createItem(t, owner.ID, "Saw", true)
	require.NoError(t, env.db.CreateComment(ctx, &models.Comment{
		ItemID:     commented.ID,
		Text:       "sharp as promised",
		AuthorName: booker.Name,
		Created:    models.NewDateTime(env.now),
	}))
	assert.ErrorIs(t, env.items.Delete(ctx, commented.ID, owner.ID), domain.ErrItemInUse)

	_, err := env.items.GetDetails(ctx, booked.ID, owner.ID)
	require.NoError(t, err, "refused deletes leave the item in place")
}

func TestListOwnerItemsWithPreviews(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	owner := env.createUser(t, "Owner", "owner@example.com")
	booker := env.createUser(t, "Booker", "booker@example.com")
	drill := env.createItem(t, owner.ID, "Drill", true)
	saw := env.createItem(t, owner.ID, "Saw", true)

	next := env.createBooking(t, drill.ID, booker.ID, time.Hour, 2*time.Hour)

	comment := leaveComment(t, env, drill.ID, booker.ID)

	details, err := env.items.ListOwnerItems(ctx, owner.ID, nil, nil)
	require.NoError(t, err)
	require.Len(t, details, 2)

	assert.Equal(t, drill.ID, details[0].ID)
	require.NotNil(t, details[0].NextBooking)
	assert.Equal(t, next.ID, details[0].NextBooking.ID)
	require.Len(t, details[0].Comments, 1)
	assert.Equal(t, comment.Text, details[0].Comments[0].Text)

	assert.Equal(t, saw.ID, details[1].ID)
	assert.Nil(t, details[1].NextBooking)
	assert.Empty(t, details[1].Comments)
}

// leaveComment fast-forwards the clock past an approved booking so the
// comment gate opens, then restores it.
func leaveComment(t *testing.T, env *testEnv, itemID, bookerID int64) *models.Comment {
	t.Helper()
	ctx := context.Background()

	booking := env.createBooking(t, itemID, bookerID, 10*time.Minute, 20*time.Minute)
	item, err := env.db.GetItemByID(ctx, itemID)
	require.NoError(t, err)
	_, err = env.bookings.UpdateStatus(ctx, booking.ID, true, item.OwnerID)
	require.NoError(t, err)

	original := env.now
	env.setNow(original.Add(30 * time.Minute))
	comment, err := env.items.CreateComment(ctx, itemID, bookerID, "solid tool")
	env.setNow(original)
	require.NoError(t, err)
	return comment
}

func TestSearchByTextBlankSkipsStorage(t *testing.T) {
	logger := zerolog.Nop()
	spy := &spyItemRepo{}
	svc := NewItemService(spy, nil, nil, nil, nil, &logger)

	items, err := svc.SearchByText(context.Background(), "   ")
	require.NoError(t, err)
	assert.Empty(t, items)
	assert.Zero(t, spy.searchCalls, "blank input must not touch storage")
}

func TestSearchByText(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	owner := env.createUser(t, "Owner", "owner@example.com")
	env.createItem(t, owner.ID, "Drill", true)

	items, err := env.items.SearchByText(ctx, "drill")
	require.NoError(t, err)
	assert.Len(t, items, 1)

	items, err = env.items.SearchByText(ctx, "excavator")
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)
}

func TestCreateCommentGate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	owner := env.createUser(t, "Owner", "owner@example.com")
	booker := env.createUser(t, "Booker", "booker@example.com")
	item := env.createItem(t, owner.ID, "Drill", true)

	_, err := env.items.CreateComment(ctx, item.ID, booker.ID, "  ")
	assert.ErrorIs(t, err, domain.ErrBadRequest, "blank text")

	_, err = env.items.CreateComment(ctx, item.ID, booker.ID, "never booked")
	assert.ErrorIs(t, err, domain.ErrBadRequest, "no approved booking at all")

	booking := env.createBooking(t, item.ID, booker.ID, time.Hour, 3*time.Hour)
	_, err = env.items.CreateComment(ctx, item.ID, booker.ID, "too early")
	assert.ErrorIs(t, err, domain.ErrBadRequest, "waiting booking does not count")

	_, err = env.bookings.UpdateStatus(ctx, booking.ID, true, owner.ID)
	require.NoError(t, err)
	_, err = env.items.CreateComment(ctx, item.ID, booker.ID, "still too early")
	assert.ErrorIs(t, err, domain.ErrBadRequest, "approved but not started")

	env.setNow(env.now.Add(2 * time.Hour))
	comment, err := env.items.CreateComment(ctx, item.ID, booker.ID, "works great")
	require.NoError(t, err)
	assert.Equal(t, "Booker", comment.AuthorName)
	assert.Equal(t, item.ID, comment.ItemID)
}

// spyItemRepo counts search calls; the rest of the interface is never
// reached in the tests that use it.
type spyItemRepo struct {
	domain.ItemRepository
	searchCalls int
}

func (s *spyItemRepo) SearchItemsByText(ctx context.Context, text string) ([]models.Item, error) {
	s.searchCalls++
	return nil, nil
}
