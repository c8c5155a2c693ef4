// Package memstore is the in-memory implementation of the store interfaces,
// interchangeable with the sqlite one via config. It backs tests and
// ephemeral deployments.
package memstore

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"shareit/internal/models"
)

type Store struct {
	mu sync.RWMutex

	users    map[int64]*models.User
	items    map[int64]*models.Item
	bookings map[int64]*models.Booking
	comments map[int64]*models.Comment

	nextUserID    int64
	nextItemID    int64
	nextBookingID int64
	nextCommentID int64
}

func New() *Store {
	return &Store{
		users:    make(map[int64]*models.User),
		items:    make(map[int64]*models.Item),
		bookings: make(map[int64]*models.Booking),
		comments: make(map[int64]*models.Comment),
	}
}

func (s *Store) Close() error {
	return nil
}

// Users

func (s *Store) CreateUser(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextUserID++
	user.ID = s.nextUserID
	user.CreatedAt = time.Now()

	stored := *user
	s.users[user.ID] = &stored
	return nil
}

func (s *Store) GetUserByID(_ context.Context, id int64) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[id]
	if !ok {
		return nil, nil
	}
	copied := *user
	return &copied, nil
}

func (s *Store) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, user := range s.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, nil
}

func (s *Store) ListUsers(_ context.Context) ([]*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	users := make([]*models.User, 0, len(s.users))
	for _, user := range s.users {
		copied := *user
		users = append(users, &copied)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}

func (s *Store) UpdateUser(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[user.ID]; ok {
		stored := *user
		s.users[user.ID] = &stored
	}
	return nil
}

func (s *Store) DeleteUser(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.users, id)
	return nil
}

// Items

func (s *Store) CreateItem(_ context.Context, item *models.Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextItemID++
	item.ID = s.nextItemID
	item.CreatedAt = time.Now()

	stored := *item
	s.items[item.ID] = &stored
	return nil
}

func (s *Store) GetItemByID(_ context.Context, id int64) (*models.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	item, ok := s.items[id]
	if !ok {
		return nil, nil
	}
	copied := *item
	return &copied, nil
}

func (s *Store) ListItemsByOwner(_ context.Context, ownerID int64) ([]*models.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var items []*models.Item
	for _, item := range s.items {
		if item.OwnerID == ownerID {
			copied := *item
			items = append(items, &copied)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return items, nil
}

func (s *Store) SearchItems(_ context.Context, text string) ([]*models.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	needle := strings.ToLower(text)
	var items []*models.Item
	for _, item := range s.items {
		name := strings.ToLower(item.Name)
		description := strings.ToLower(item.Description)
		if strings.Contains(name, needle) || strings.Contains(description, needle) {
			copied := *item
			items = append(items, &copied)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return items, nil
}

func (s *Store) UpdateItem(_ context.Context, item *models.Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.items[item.ID]; ok {
		stored := *item
		s.items[item.ID] = &stored
	}
	return nil
}

// Bookings

func (s *Store) CreateBooking(_ context.Context, booking *models.Booking) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextBookingID++
	booking.ID = s.nextBookingID
	booking.CreatedAt = time.Now()

	stored := *booking
	s.bookings[booking.ID] = &stored
	return nil
}

func (s *Store) GetBookingByID(_ context.Context, id int64) (*models.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	booking, ok := s.bookings[id]
	if !ok {
		return nil, nil
	}
	copied := *booking
	return &copied, nil
}

func (s *Store) UpdateBookingStatus(_ context.Context, id int64, status models.BookingStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if booking, ok := s.bookings[id]; ok {
		booking.Status = status
	}
	return nil
}

func (s *Store) ListBookingsByBooker(_ context.Context, bookerID int64) ([]*models.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.collectBookings(func(b *models.Booking) bool {
		return b.BookerID == bookerID
	}, byStartDesc), nil
}

func (s *Store) ListBookingsByOwner(_ context.Context, ownerID int64) ([]*models.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.collectBookings(func(b *models.Booking) bool {
		item, ok := s.items[b.ItemID]
		return ok && item.OwnerID == ownerID
	}, byStartDesc), nil
}

func (s *Store) ListBookingsByItem(_ context.Context, itemID int64) ([]*models.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.collectBookings(func(b *models.Booking) bool {
		return b.ItemID == itemID
	}, byStartAsc), nil
}

func (s *Store) ListAllBookings(_ context.Context) ([]*models.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.collectBookings(func(*models.Booking) bool { return true }, byStartDesc), nil
}

func (s *Store) HasFinishedApprovedBooking(_ context.Context, bookerID, itemID int64, before time.Time) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, b := range s.bookings {
		if b.BookerID == bookerID && b.ItemID == itemID &&
			b.End.Before(before) && b.Status == models.StatusApproved {
			return true, nil
		}
	}
	return false, nil
}

type bookingOrder func(a, b *models.Booking) bool

func byStartDesc(a, b *models.Booking) bool { return a.Start.After(b.Start) }
func byStartAsc(a, b *models.Booking) bool  { return a.Start.Before(b.Start) }

// collectBookings must be called with the lock held.
func (s *Store) collectBookings(match func(*models.Booking) bool, order bookingOrder) []*models.Booking {
	var bookings []*models.Booking
	for _, b := range s.bookings {
		if match(b) {
			copied := *b
			bookings = append(bookings, &copied)
		}
	}
	sort.Slice(bookings, func(i, j int) bool { return order(bookings[i], bookings[j]) })
	return bookings
}

// Comments

func (s *Store) CreateComment(_ context.Context, comment *models.Comment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextCommentID++
	comment.ID = s.nextCommentID

	stored := *comment
	s.comments[comment.ID] = &stored
	return nil
}

func (s *Store) ListCommentsByItem(_ context.Context, itemID int64) ([]*models.Comment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var comments []*models.Comment
	for _, c := range s.comments {
		if c.ItemID == itemID {
			copied := *c
			comments = append(comments, &copied)
		}
	}
	sort.Slice(comments, func(i, j int) bool {
		if comments[i].Created.Equal(comments[j].Created) {
			return comments[i].ID < comments[j].ID
		}
		return comments[i].Created.Before(comments[j].Created)
	})
	return comments, nil
}
