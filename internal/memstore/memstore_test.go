package memstore

import (
	"context"
	"testing"
	"time"

	"shareit/internal/domain"
	"shareit/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ domain.Store = (*Store)(nil)

func TestUserLifecycle(t *testing.T) {
	s := New()
	ctx := context.Background()

	user := &models.User{Name: "Alice", Email: "alice@example.com"}
	require.NoError(t, s.CreateUser(ctx, user))
	assert.Equal(t, int64(1), user.ID)

	byEmail, err := s.GetUserByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	require.NotNil(t, byEmail)
	assert.Equal(t, user.ID, byEmail.ID)

	// Mutating the returned copy must not touch the stored record.
	byEmail.Name = "Mallory"
	stored, err := s.GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alice", stored.Name)

	stored.Name = "Alice B"
	require.NoError(t, s.UpdateUser(ctx, stored))
	updated, _ := s.GetUserByID(ctx, user.ID)
	assert.Equal(t, "Alice B", updated.Name)

	require.NoError(t, s.DeleteUser(ctx, user.ID))
	gone, err := s.GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)

	// Idempotent delete.
	require.NoError(t, s.DeleteUser(ctx, user.ID))
}

func TestListUsersSorted(t *testing.T) {
	s := New()
	ctx := context.Background()

	for _, email := range []string{"c@x.com", "a@x.com", "b@x.com"} {
		require.NoError(t, s.CreateUser(ctx, &models.User{Name: email, Email: email}))
	}

	users, err := s.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 3)
	assert.Equal(t, int64(1), users[0].ID)
	assert.Equal(t, int64(3), users[2].ID)
}

func TestSearchItems(t *testing.T) {
	s := New()
	ctx := context.Background()

	require.NoError(t, s.CreateItem(ctx, &models.Item{Name: "Cordless Drill", Description: "power tool", OwnerID: 1}))
	require.NoError(t, s.CreateItem(ctx, &models.Item{Name: "Ladder", Description: "has a drill holster", OwnerID: 1}))
	require.NoError(t, s.CreateItem(ctx, &models.Item{Name: "Tent", Description: "sleeps four", OwnerID: 2}))

	items, err := s.SearchItems(ctx, "DRILL")
	require.NoError(t, err)
	assert.Len(t, items, 2)

	items, err = s.SearchItems(ctx, "nothing-matches")
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestBookingQueries(t *testing.T) {
	s := New()
	ctx := context.Background()

	require.NoError(t, s.CreateItem(ctx, &models.Item{Name: "Drill", OwnerID: 10, Available: true}))

	base := time.Now()
	var ids []int64
	for _, offset := range []time.Duration{24 * time.Hour, 72 * time.Hour, 48 * time.Hour} {
		b := &models.Booking{
			ItemID:   1,
			BookerID: 2,
			Start:    base.Add(offset),
			End:      base.Add(offset + 12*time.Hour),
			Status:   models.StatusWaiting,
		}
		require.NoError(t, s.CreateBooking(ctx, b))
		ids = append(ids, b.ID)
	}

	byBooker, err := s.ListBookingsByBooker(ctx, 2)
	require.NoError(t, err)
	require.Len(t, byBooker, 3)
	assert.True(t, byBooker[0].Start.After(byBooker[1].Start))
	assert.True(t, byBooker[1].Start.After(byBooker[2].Start))

	byOwner, err := s.ListBookingsByOwner(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, byOwner, 3)

	byItem, err := s.ListBookingsByItem(ctx, 1)
	require.NoError(t, err)
	require.Len(t, byItem, 3)
	assert.True(t, byItem[0].Start.Before(byItem[1].Start))

	all, err := s.ListAllBookings(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	require.NoError(t, s.UpdateBookingStatus(ctx, ids[0], models.StatusApproved))
	updated, _ := s.GetBookingByID(ctx, ids[0])
	assert.Equal(t, models.StatusApproved, updated.Status)
}

func TestHasFinishedApprovedBooking(t *testing.T) {
	s := New()
	ctx := context.Background()

	now := time.Now()
	booking := &models.Booking{
		ItemID:   1,
		BookerID: 2,
		Start:    now.Add(-72 * time.Hour),
		End:      now.Add(-48 * time.Hour),
		Status:   models.StatusWaiting,
	}
	require.NoError(t, s.CreateBooking(ctx, booking))

	ok, err := s.HasFinishedApprovedBooking(ctx, 2, 1, now)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.UpdateBookingStatus(ctx, booking.ID, models.StatusApproved))

	ok, err = s.HasFinishedApprovedBooking(ctx, 2, 1, now)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.HasFinishedApprovedBooking(ctx, 2, 1, now.Add(-60*time.Hour))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCommentsSortedByCreated(t *testing.T) {
	s := New()
	ctx := context.Background()

	now := time.Now()
	require.NoError(t, s.CreateComment(ctx, &models.Comment{ItemID: 1, AuthorID: 2, Text: "second", Created: now}))
	require.NoError(t, s.CreateComment(ctx, &models.Comment{ItemID: 1, AuthorID: 3, Text: "first", Created: now.Add(-time.Hour)}))
	require.NoError(t, s.CreateComment(ctx, &models.Comment{ItemID: 2, AuthorID: 2, Text: "other item", Created: now}))

	comments, err := s.ListCommentsByItem(ctx, 1)
	require.NoError(t, err)
	require.Len(t, comments, 2)
	assert.Equal(t, "first", comments[0].Text)
	assert.Equal(t, "second", comments[1].Text)
}
