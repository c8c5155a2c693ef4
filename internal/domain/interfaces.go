package domain

import (
	"context"
	"time"

	"shareit/internal/models"
)

// Store methods return (nil, nil) when the requested record is absent;
// translating absence into a client-facing error is the service layer's job.

type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	ListUsers(ctx context.Context) ([]*models.User, error)
	UpdateUser(ctx context.Context, user *models.User) error
	DeleteUser(ctx context.Context, id int64) error
}

type ItemStore interface {
	CreateItem(ctx context.Context, item *models.Item) error
	GetItemByID(ctx context.Context, id int64) (*models.Item, error)
	ListItemsByOwner(ctx context.Context, ownerID int64) ([]*models.Item, error)
	SearchItems(ctx context.Context, text string) ([]*models.Item, error)
	UpdateItem(ctx context.Context, item *models.Item) error
}

type BookingStore interface {
	CreateBooking(ctx context.Context, booking *models.Booking) error
	GetBookingByID(ctx context.Context, id int64) (*models.Booking, error)
	UpdateBookingStatus(ctx context.Context, id int64, status models.BookingStatus) error
	// ListBookingsByBooker and ListBookingsByOwner return bookings sorted by
	// start descending.
	ListBookingsByBooker(ctx context.Context, bookerID int64) ([]*models.Booking, error)
	ListBookingsByOwner(ctx context.Context, ownerID int64) ([]*models.Booking, error)
	ListBookingsByItem(ctx context.Context, itemID int64) ([]*models.Booking, error)
	ListAllBookings(ctx context.Context) ([]*models.Booking, error)
	// HasFinishedApprovedBooking reports whether booker rented the item via a
	// booking that ended before the given instant with APPROVED status.
	HasFinishedApprovedBooking(ctx context.Context, bookerID, itemID int64, before time.Time) (bool, error)
}

type CommentStore interface {
	CreateComment(ctx context.Context, comment *models.Comment) error
	ListCommentsByItem(ctx context.Context, itemID int64) ([]*models.Comment, error)
}

// Store is the full persistence surface, satisfied by both the sqlite and
// the in-memory implementations.
type Store interface {
	UserStore
	ItemStore
	BookingStore
	CommentStore
	Close() error
}

// CreateUser and the other input structs carry request payloads into the
// services. Pointer fields distinguish "not sent" from zero values on
// partial updates.

type CreateUser struct {
	Name  string
	Email string
}

type UpdateUser struct {
	Name  *string
	Email *string
}

type CreateItem struct {
	Name        string
	Description string
	Available   *bool
}

type UpdateItem struct {
	Name        *string
	Description *string
	Available   *bool
}

type CreateBooking struct {
	ItemID int64
	Start  time.Time
	End    time.Time
}

type UserService interface {
	Create(ctx context.Context, in CreateUser) (*models.User, error)
	Update(ctx context.Context, id int64, in UpdateUser) (*models.User, error)
	Get(ctx context.Context, id int64) (*models.User, error)
	List(ctx context.Context) ([]*models.User, error)
	Delete(ctx context.Context, id int64) error
}

type ItemService interface {
	Create(ctx context.Context, ownerID int64, in CreateItem) (*models.Item, error)
	Update(ctx context.Context, itemID, callerID int64, in UpdateItem) (*models.Item, error)
	Get(ctx context.Context, itemID int64) (*models.ItemDetail, error)
	ListByOwner(ctx context.Context, ownerID int64) ([]*models.ItemDetail, error)
	Search(ctx context.Context, text string) ([]*models.Item, error)
	AddComment(ctx context.Context, callerID, itemID int64, text string) (*models.CommentDetail, error)
}

type BookingService interface {
	Create(ctx context.Context, callerID int64, in CreateBooking) (*models.BookingDetail, error)
	UpdateStatus(ctx context.Context, callerID, bookingID int64, approved bool) (*models.BookingDetail, error)
	Get(ctx context.Context, callerID, bookingID int64) (*models.BookingDetail, error)
	ListForBooker(ctx context.Context, callerID int64, state string) ([]*models.BookingDetail, error)
	ListForOwner(ctx context.Context, callerID int64, state string) ([]*models.BookingDetail, error)
}

// ReportScheduler is notified when booking data changed and the bookings
// report should be rebuilt. Schedule must not block.
type ReportScheduler interface {
	Schedule()
}
