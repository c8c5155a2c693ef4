package service

import (
	"context"
	"fmt"
	"time"

	"shareit/internal/apperr"
	"shareit/internal/domain"
	"shareit/internal/metrics"
	"shareit/internal/models"

	"github.com/rs/zerolog"
)

var _ domain.BookingService = (*BookingService)(nil)

type BookingService struct {
	store     domain.Store
	logger    *zerolog.Logger
	scheduler domain.ReportScheduler
	now       func() time.Time
}

func NewBookingService(store domain.Store, logger *zerolog.Logger, scheduler domain.ReportScheduler) *BookingService {
	return &BookingService{store: store, logger: logger, scheduler: scheduler, now: time.Now}
}

// Create places a booking in WAITING status. Owners cannot book their own
// items, and the requested window must be non-empty with start before end.
func (s *BookingService) Create(ctx context.Context, callerID int64, in domain.CreateBooking) (*models.BookingDetail, error) {
	booker, err := s.store.GetUserByID(ctx, callerID)
	if err != nil {
		return nil, fmt.Errorf("get booker: %w", err)
	}
	if booker == nil {
		return nil, apperr.NotFound("user %d not found", callerID)
	}

	if in.ItemID == 0 {
		return nil, apperr.Validation("itemId is required")
	}

	item, err := s.store.GetItemByID(ctx, in.ItemID)
	if err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}
	if item == nil {
		return nil, apperr.NotFound("item %d not found", in.ItemID)
	}
	if item.OwnerID == callerID {
		return nil, apperr.AccessDenied("owner cannot book their own item")
	}
	if !item.Available {
		return nil, apperr.Validation("item %d is not available", item.ID)
	}

	if in.Start.After(in.End) || in.Start.Equal(in.End) {
		return nil, apperr.Validation("start must be before end")
	}

	booking := &models.Booking{
		ItemID:   in.ItemID,
		BookerID: callerID,
		Start:    in.Start,
		End:      in.End,
		Status:   models.StatusWaiting,
	}
	if err := s.store.CreateBooking(ctx, booking); err != nil {
		return nil, fmt.Errorf("create booking: %w", err)
	}

	metrics.IncBookingCreated()
	s.scheduleReport()
	s.logger.Info().
		Int64("booking_id", booking.ID).
		Int64("item_id", item.ID).
		Int64("booker_id", callerID).
		Msg("booking created")

	return s.toDetail(booking, booker, item), nil
}

// UpdateStatus records the owner's decision on a WAITING booking.
func (s *BookingService) UpdateStatus(ctx context.Context, callerID, bookingID int64, approved bool) (*models.BookingDetail, error) {
	caller, err := s.store.GetUserByID(ctx, callerID)
	if err != nil {
		return nil, fmt.Errorf("get caller: %w", err)
	}
	if caller == nil {
		return nil, apperr.AccessDenied("user %d not found", callerID)
	}

	booking, err := s.store.GetBookingByID(ctx, bookingID)
	if err != nil {
		return nil, fmt.Errorf("get booking: %w", err)
	}
	if booking == nil {
		return nil, apperr.NotFound("booking %d not found", bookingID)
	}

	item, err := s.store.GetItemByID(ctx, booking.ItemID)
	if err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}
	if item == nil {
		return nil, apperr.NotFound("item %d not found", booking.ItemID)
	}
	if item.OwnerID != callerID {
		return nil, apperr.AccessDenied("only the item owner can decide on a booking")
	}
	if booking.Status != models.StatusWaiting {
		return nil, apperr.Validation("booking %d has already been decided", bookingID)
	}

	status := models.StatusRejected
	if approved {
		status = models.StatusApproved
	}
	if err := s.store.UpdateBookingStatus(ctx, bookingID, status); err != nil {
		return nil, fmt.Errorf("update booking status: %w", err)
	}
	booking.Status = status

	metrics.IncBookingDecision(approved)
	s.scheduleReport()
	s.logger.Info().
		Int64("booking_id", bookingID).
		Str("status", string(status)).
		Msg("booking decided")

	booker, err := s.store.GetUserByID(ctx, booking.BookerID)
	if err != nil {
		return nil, fmt.Errorf("get booker: %w", err)
	}
	return s.toDetail(booking, booker, item), nil
}

// Get returns the booking, visible only to its booker or the item's owner.
func (s *BookingService) Get(ctx context.Context, callerID, bookingID int64) (*models.BookingDetail, error) {
	booking, err := s.store.GetBookingByID(ctx, bookingID)
	if err != nil {
		return nil, fmt.Errorf("get booking: %w", err)
	}
	if booking == nil {
		return nil, apperr.NotFound("booking %d not found", bookingID)
	}

	item, err := s.store.GetItemByID(ctx, booking.ItemID)
	if err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}
	if item == nil {
		return nil, apperr.NotFound("item %d not found", booking.ItemID)
	}

	if booking.BookerID != callerID && item.OwnerID != callerID {
		return nil, apperr.AccessDenied("booking is visible only to the booker and the item owner")
	}

	booker, err := s.store.GetUserByID(ctx, booking.BookerID)
	if err != nil {
		return nil, fmt.Errorf("get booker: %w", err)
	}
	return s.toDetail(booking, booker, item), nil
}

func (s *BookingService) ListForBooker(ctx context.Context, callerID int64, state string) ([]*models.BookingDetail, error) {
	filter, err := models.ParseStateFilter(state)
	if err != nil {
		return nil, apperr.Validation("%s", err.Error())
	}

	caller, err := s.store.GetUserByID(ctx, callerID)
	if err != nil {
		return nil, fmt.Errorf("get caller: %w", err)
	}
	if caller == nil {
		return nil, apperr.NotFound("user %d not found", callerID)
	}

	bookings, err := s.store.ListBookingsByBooker(ctx, callerID)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	return s.toDetails(ctx, applyFilter(bookings, filter, s.now()))
}

func (s *BookingService) ListForOwner(ctx context.Context, callerID int64, state string) ([]*models.BookingDetail, error) {
	filter, err := models.ParseStateFilter(state)
	if err != nil {
		return nil, apperr.Validation("%s", err.Error())
	}

	caller, err := s.store.GetUserByID(ctx, callerID)
	if err != nil {
		return nil, fmt.Errorf("get caller: %w", err)
	}
	if caller == nil {
		return nil, apperr.NotFound("user %d not found", callerID)
	}

	bookings, err := s.store.ListBookingsByOwner(ctx, callerID)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	return s.toDetails(ctx, applyFilter(bookings, filter, s.now()))
}

// applyFilter narrows a start-descending booking list, keeping the order.
func applyFilter(bookings []*models.Booking, filter models.StateFilter, now time.Time) []*models.Booking {
	if filter == models.FilterAll {
		return bookings
	}
	out := make([]*models.Booking, 0, len(bookings))
	for _, b := range bookings {
		keep := false
		switch filter {
		case models.FilterCurrent:
			keep = b.InProgressAt(now)
		case models.FilterPast:
			keep = b.End.Before(now)
		case models.FilterFuture:
			keep = b.Start.After(now)
		case models.FilterWaiting:
			keep = b.Status == models.StatusWaiting
		case models.FilterRejected:
			keep = b.Status == models.StatusRejected
		}
		if keep {
			out = append(out, b)
		}
	}
	return out
}

func (s *BookingService) toDetails(ctx context.Context, bookings []*models.Booking) ([]*models.BookingDetail, error) {
	details := make([]*models.BookingDetail, 0, len(bookings))
	for _, b := range bookings {
		booker, err := s.store.GetUserByID(ctx, b.BookerID)
		if err != nil {
			return nil, fmt.Errorf("get booker: %w", err)
		}
		item, err := s.store.GetItemByID(ctx, b.ItemID)
		if err != nil {
			return nil, fmt.Errorf("get item: %w", err)
		}
		details = append(details, s.toDetail(b, booker, item))
	}
	return details, nil
}

func (s *BookingService) toDetail(b *models.Booking, booker *models.User, item *models.Item) *models.BookingDetail {
	detail := &models.BookingDetail{
		ID:     b.ID,
		Start:  b.Start,
		End:    b.End,
		Status: b.Status,
	}
	if booker != nil {
		detail.Booker = models.UserSummary{ID: booker.ID, Name: booker.Name}
	}
	if item != nil {
		detail.Item = models.ItemSummary{ID: item.ID, Name: item.Name}
	}
	return detail
}

func (s *BookingService) scheduleReport() {
	if s.scheduler != nil {
		s.scheduler.Schedule()
	}
}
