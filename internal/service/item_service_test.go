package service

import (
	"context"
	"testing"
	"time"

	"shareit/internal/apperr"
	"shareit/internal/domain"
	"shareit/internal/memstore"
	"shareit/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

type itemFixture struct {
	svc   *ItemService
	store *memstore.Store
	owner *models.User
}

func newItemFixture(t *testing.T) *itemFixture {
	t.Helper()
	store := memstore.New()
	t.Cleanup(func() { store.Close() })
	logger := zerolog.Nop()

	svc := NewItemService(store, &logger)
	svc.now = func() time.Time { return testNow }

	owner := &models.User{Name: "Owner", Email: "owner@example.com"}
	require.NoError(t, store.CreateUser(context.Background(), owner))

	return &itemFixture{svc: svc, store: store, owner: owner}
}

func (f *itemFixture) addUser(t *testing.T, name, email string) *models.User {
	t.Helper()
	user := &models.User{Name: name, Email: email}
	require.NoError(t, f.store.CreateUser(context.Background(), user))
	return user
}

func (f *itemFixture) addItem(t *testing.T, name string, available bool) *models.Item {
	t.Helper()
	item := &models.Item{Name: name, Description: name + " desc", Available: available, OwnerID: f.owner.ID}
	require.NoError(t, f.store.CreateItem(context.Background(), item))
	return item
}

func (f *itemFixture) addBooking(t *testing.T, itemID, bookerID int64, start, end time.Time, status models.BookingStatus) *models.Booking {
	t.Helper()
	booking := &models.Booking{ItemID: itemID, BookerID: bookerID, Start: start, End: end, Status: status}
	require.NoError(t, f.store.CreateBooking(context.Background(), booking))
	return booking
}

func TestItemServiceCreate(t *testing.T) {
	f := newItemFixture(t)
	ctx := context.Background()

	t.Run("ok", func(t *testing.T) {
		item, err := f.svc.Create(ctx, f.owner.ID, domain.CreateItem{
			Name:        "Drill",
			Description: "Cordless drill",
			Available:   boolPtr(true),
		})
		require.NoError(t, err)
		assert.Equal(t, f.owner.ID, item.OwnerID)
		assert.True(t, item.Available)
	})

	t.Run("unknown owner", func(t *testing.T) {
		_, err := f.svc.Create(ctx, 999, domain.CreateItem{Name: "X", Available: boolPtr(true)})
		require.Error(t, err)
		assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
	})

	t.Run("missing available", func(t *testing.T) {
		_, err := f.svc.Create(ctx, f.owner.ID, domain.CreateItem{Name: "X"})
		require.Error(t, err)
		assert.True(t, apperr.IsKind(err, apperr.KindValidation))
	})
}

func TestItemServiceUpdate(t *testing.T) {
	f := newItemFixture(t)
	ctx := context.Background()
	item := f.addItem(t, "Drill", true)
	stranger := f.addUser(t, "Stranger", "stranger@example.com")

	t.Run("only owner can edit", func(t *testing.T) {
		_, err := f.svc.Update(ctx, item.ID, stranger.ID, domain.UpdateItem{Name: strPtr("Hacked")})
		require.Error(t, err)
		assert.True(t, apperr.IsKind(err, apperr.KindAccessDenied))
	})

	t.Run("partial update keeps other fields", func(t *testing.T) {
		updated, err := f.svc.Update(ctx, item.ID, f.owner.ID, domain.UpdateItem{Available: boolPtr(false)})
		require.NoError(t, err)
		assert.False(t, updated.Available)
		assert.Equal(t, "Drill", updated.Name)
		assert.Equal(t, "Drill desc", updated.Description)
	})

	t.Run("unknown item", func(t *testing.T) {
		_, err := f.svc.Update(ctx, 999, f.owner.ID, domain.UpdateItem{Name: strPtr("X")})
		require.Error(t, err)
		assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
	})
}

func TestItemServiceGetBookingRefs(t *testing.T) {
	f := newItemFixture(t)
	ctx := context.Background()
	item := f.addItem(t, "Drill", true)
	renter := f.addUser(t, "Renter", "renter@example.com")

	// Finished booking: must not surface as lastBooking, only an in-progress
	// one counts.
	f.addBooking(t, item.ID, renter.ID,
		testNow.Add(-72*time.Hour), testNow.Add(-48*time.Hour), models.StatusApproved)
	current := f.addBooking(t, item.ID, renter.ID,
		testNow.Add(-time.Hour), testNow.Add(time.Hour), models.StatusApproved)
	// Two future bookings, the earlier start wins.
	next := f.addBooking(t, item.ID, renter.ID,
		testNow.Add(24*time.Hour), testNow.Add(48*time.Hour), models.StatusWaiting)
	f.addBooking(t, item.ID, renter.ID,
		testNow.Add(72*time.Hour), testNow.Add(96*time.Hour), models.StatusWaiting)

	detail, err := f.svc.Get(ctx, item.ID)
	require.NoError(t, err)

	require.NotNil(t, detail.LastBooking)
	assert.Equal(t, current.ID, detail.LastBooking.ID)
	assert.Equal(t, renter.ID, detail.LastBooking.BookerID)

	require.NotNil(t, detail.NextBooking)
	assert.Equal(t, next.ID, detail.NextBooking.ID)

	assert.Empty(t, detail.Comments)
}

func TestItemServiceGetNoBookings(t *testing.T) {
	f := newItemFixture(t)
	item := f.addItem(t, "Drill", true)

	detail, err := f.svc.Get(context.Background(), item.ID)
	require.NoError(t, err)
	assert.Nil(t, detail.LastBooking)
	assert.Nil(t, detail.NextBooking)

	_, err = f.svc.Get(context.Background(), 999)
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}

func TestItemServiceListByOwner(t *testing.T) {
	f := newItemFixture(t)
	f.addItem(t, "Drill", true)
	f.addItem(t, "Saw", false)

	details, err := f.svc.ListByOwner(context.Background(), f.owner.ID)
	require.NoError(t, err)
	assert.Len(t, details, 2)
}

func TestItemServiceSearch(t *testing.T) {
	f := newItemFixture(t)
	ctx := context.Background()
	f.addItem(t, "Cordless Drill", true)
	f.addItem(t, "Hand Saw", true)

	t.Run("case-insensitive match", func(t *testing.T) {
		items, err := f.svc.Search(ctx, "dRiLl")
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, "Cordless Drill", items[0].Name)
	})

	t.Run("blank text short-circuits", func(t *testing.T) {
		items, err := f.svc.Search(ctx, "   ")
		require.NoError(t, err)
		assert.Empty(t, items)
	})
}

func TestItemServiceAddComment(t *testing.T) {
	f := newItemFixture(t)
	ctx := context.Background()
	item := f.addItem(t, "Drill", true)
	renter := f.addUser(t, "Renter", "renter@example.com")
	stranger := f.addUser(t, "Stranger", "stranger@example.com")

	f.addBooking(t, item.ID, renter.ID,
		testNow.Add(-72*time.Hour), testNow.Add(-48*time.Hour), models.StatusApproved)

	t.Run("after finished approved booking", func(t *testing.T) {
		comment, err := f.svc.AddComment(ctx, renter.ID, item.ID, "worked great")
		require.NoError(t, err)
		assert.Equal(t, "worked great", comment.Text)
		assert.Equal(t, "Renter", comment.AuthorName)
		assert.Equal(t, testNow, comment.Created)
	})

	t.Run("no booking history", func(t *testing.T) {
		_, err := f.svc.AddComment(ctx, stranger.ID, item.ID, "never used it")
		require.Error(t, err)
		assert.True(t, apperr.IsKind(err, apperr.KindValidation))
	})

	t.Run("blank text", func(t *testing.T) {
		_, err := f.svc.AddComment(ctx, renter.ID, item.ID, "  ")
		require.Error(t, err)
		assert.True(t, apperr.IsKind(err, apperr.KindValidation))
	})

	t.Run("unknown author", func(t *testing.T) {
		_, err := f.svc.AddComment(ctx, 999, item.ID, "hi")
		require.Error(t, err)
		assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
	})

	t.Run("booking still running", func(t *testing.T) {
		other := f.addItem(t, "Saw", true)
		f.addBooking(t, other.ID, renter.ID,
			testNow.Add(-time.Hour), testNow.Add(time.Hour), models.StatusApproved)

		_, err := f.svc.AddComment(ctx, renter.ID, other.ID, "too early")
		require.Error(t, err)
		assert.True(t, apperr.IsKind(err, apperr.KindValidation))
	})
}

func TestItemServiceCommentsInDetail(t *testing.T) {
	f := newItemFixture(t)
	ctx := context.Background()
	item := f.addItem(t, "Drill", true)
	renter := f.addUser(t, "Renter", "renter@example.com")

	f.addBooking(t, item.ID, renter.ID,
		testNow.Add(-72*time.Hour), testNow.Add(-48*time.Hour), models.StatusApproved)
	_, err := f.svc.AddComment(ctx, renter.ID, item.ID, "solid tool")
	require.NoError(t, err)

	detail, err := f.svc.Get(ctx, item.ID)
	require.NoError(t, err)
	require.Len(t, detail.Comments, 1)
	assert.Equal(t, "solid tool", detail.Comments[0].Text)
	assert.Equal(t, "Renter", detail.Comments[0].AuthorName)
}
