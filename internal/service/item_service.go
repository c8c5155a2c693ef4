package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"shareit/internal/apperr"
	"shareit/internal/domain"
	"shareit/internal/models"

	"github.com/rs/zerolog"
)

var _ domain.ItemService = (*ItemService)(nil)

type ItemService struct {
	store  domain.Store
	logger *zerolog.Logger
	now    func() time.Time
}

func NewItemService(store domain.Store, logger *zerolog.Logger) *ItemService {
	return &ItemService{store: store, logger: logger, now: time.Now}
}

func (s *ItemService) Create(ctx context.Context, ownerID int64, in domain.CreateItem) (*models.Item, error) {
	owner, err := s.store.GetUserByID(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("get owner: %w", err)
	}
	if owner == nil {
		return nil, apperr.NotFound("user %d not found", ownerID)
	}

	if in.Available == nil {
		return nil, apperr.Validation("available is required")
	}

	item := &models.Item{
		Name:        in.Name,
		Description: in.Description,
		Available:   *in.Available,
		OwnerID:     ownerID,
	}
	if err := s.store.CreateItem(ctx, item); err != nil {
		return nil, fmt.Errorf("create item: %w", err)
	}

	s.logger.Info().Int64("item_id", item.ID).Int64("owner_id", ownerID).Msg("item created")
	return item, nil
}

// Update applies partial changes; only fields present in the request
// overwrite existing values. Only the owner may edit an item.
func (s *ItemService) Update(ctx context.Context, itemID, callerID int64, in domain.UpdateItem) (*models.Item, error) {
	item, err := s.store.GetItemByID(ctx, itemID)
	if err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}
	if item == nil {
		return nil, apperr.NotFound("item %d not found", itemID)
	}
	if item.OwnerID != callerID {
		return nil, apperr.AccessDenied("only the owner can edit the item")
	}

	if in.Name != nil {
		item.Name = *in.Name
	}
	if in.Description != nil {
		item.Description = *in.Description
	}
	if in.Available != nil {
		item.Available = *in.Available
	}

	if err := s.store.UpdateItem(ctx, item); err != nil {
		return nil, fmt.Errorf("update item: %w", err)
	}

	return item, nil
}

func (s *ItemService) Get(ctx context.Context, itemID int64) (*models.ItemDetail, error) {
	item, err := s.store.GetItemByID(ctx, itemID)
	if err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}
	if item == nil {
		return nil, apperr.NotFound("item %d not found", itemID)
	}

	return s.assembleDetail(ctx, item)
}

func (s *ItemService) ListByOwner(ctx context.Context, ownerID int64) ([]*models.ItemDetail, error) {
	items, err := s.store.ListItemsByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}

	details := make([]*models.ItemDetail, 0, len(items))
	for _, item := range items {
		detail, err := s.assembleDetail(ctx, item)
		if err != nil {
			return nil, err
		}
		details = append(details, detail)
	}
	return details, nil
}

// Search returns items whose name or description contains text,
// case-insensitively. Blank text short-circuits to an empty result without
// touching the store.
func (s *ItemService) Search(ctx context.Context, text string) ([]*models.Item, error) {
	if strings.TrimSpace(text) == "" {
		return []*models.Item{}, nil
	}
	return s.store.SearchItems(ctx, text)
}

// AddComment persists a review, allowed only after the author's APPROVED
// booking on the item has ended.
func (s *ItemService) AddComment(ctx context.Context, callerID, itemID int64, text string) (*models.CommentDetail, error) {
	author, err := s.store.GetUserByID(ctx, callerID)
	if err != nil {
		return nil, fmt.Errorf("get author: %w", err)
	}
	if author == nil {
		return nil, apperr.NotFound("user %d not found", callerID)
	}

	item, err := s.store.GetItemByID(ctx, itemID)
	if err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}
	if item == nil {
		return nil, apperr.NotFound("item %d not found", itemID)
	}

	if strings.TrimSpace(text) == "" {
		return nil, apperr.Validation("comment text must not be blank")
	}

	now := s.now()
	rented, err := s.store.HasFinishedApprovedBooking(ctx, callerID, itemID, now)
	if err != nil {
		return nil, fmt.Errorf("check booking history: %w", err)
	}
	if !rented {
		return nil, apperr.Validation("user has not rented this item")
	}

	comment := &models.Comment{
		ItemID:   itemID,
		AuthorID: callerID,
		Text:     text,
		Created:  now,
	}
	if err := s.store.CreateComment(ctx, comment); err != nil {
		return nil, fmt.Errorf("create comment: %w", err)
	}

	s.logger.Info().Int64("item_id", itemID).Int64("author_id", callerID).Msg("comment added")
	return &models.CommentDetail{
		ID:         comment.ID,
		Text:       comment.Text,
		AuthorName: author.Name,
		Created:    comment.Created,
	}, nil
}

func (s *ItemService) assembleDetail(ctx context.Context, item *models.Item) (*models.ItemDetail, error) {
	bookings, err := s.store.ListBookingsByItem(ctx, item.ID)
	if err != nil {
		return nil, fmt.Errorf("list item bookings: %w", err)
	}

	now := s.now()
	detail := &models.ItemDetail{
		ID:          item.ID,
		Name:        item.Name,
		Description: item.Description,
		Available:   item.Available,
		LastBooking: lastBooking(bookings, now),
		NextBooking: nextBooking(bookings, now),
	}

	comments, err := s.store.ListCommentsByItem(ctx, item.ID)
	if err != nil {
		return nil, fmt.Errorf("list item comments: %w", err)
	}

	detail.Comments = make([]models.CommentDetail, 0, len(comments))
	for _, comment := range comments {
		authorName := ""
		author, err := s.store.GetUserByID(ctx, comment.AuthorID)
		if err != nil {
			return nil, fmt.Errorf("get comment author: %w", err)
		}
		if author != nil {
			authorName = author.Name
		}
		detail.Comments = append(detail.Comments, models.CommentDetail{
			ID:         comment.ID,
			Text:       comment.Text,
			AuthorName: authorName,
			Created:    comment.Created,
		})
	}

	return detail, nil
}

// lastBooking picks the booking currently in progress (start <= now < end)
// with the latest end, not the most recently finished one.
func lastBooking(bookings []*models.Booking, now time.Time) *models.BookingRef {
	var last *models.Booking
	for _, b := range bookings {
		if !b.InProgressAt(now) {
			continue
		}
		if last == nil || b.End.After(last.End) {
			last = b
		}
	}
	return toBookingRef(last)
}

// nextBooking picks the future booking with the earliest start.
func nextBooking(bookings []*models.Booking, now time.Time) *models.BookingRef {
	var next *models.Booking
	for _, b := range bookings {
		if !b.Start.After(now) {
			continue
		}
		if next == nil || b.Start.Before(next.Start) {
			next = b
		}
	}
	return toBookingRef(next)
}

func toBookingRef(b *models.Booking) *models.BookingRef {
	if b == nil {
		return nil
	}
	return &models.BookingRef{ID: b.ID, BookerID: b.BookerID}
}
