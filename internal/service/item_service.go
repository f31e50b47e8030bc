package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"sharehub/internal/domain"
	"sharehub/internal/models"
)

type ItemService struct {
	items    domain.ItemRepository
	users    domain.UserRepository
	bookings domain.BookingRepository
	comments domain.CommentRepository
	requests domain.RequestRepository
	now      func() time.Time
	logger   *zerolog.Logger
}

func NewItemService(items domain.ItemRepository, users domain.UserRepository, bookings domain.BookingRepository, comments domain.CommentRepository, requests domain.RequestRepository, logger *zerolog.Logger) *ItemService {
	return &ItemService{
		items:    items,
		users:    users,
		bookings: bookings,
		comments: comments,
		requests: requests,
		now:      time.Now,
		logger:   logger,
	}
}

func (s *ItemService) Create(ctx context.Context, item models.Item, ownerID int64) (*models.Item, error) {
	exists, err := s.users.UserExists(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("user %d: %w", ownerID, domain.ErrNotFound)
	}
	if item.RequestID != nil {
		if _, err := s.requests.GetRequestByID(ctx, *item.RequestID); err != nil {
			return nil, err
		}
	}

	item.ID = 0
	item.OwnerID = ownerID
	if err := s.items.CreateItem(ctx, &item); err != nil {
		return nil, err
	}
	s.logger.Info().Int64("item_id", item.ID).Int64("owner_id", ownerID).Msg("item created")
	return &item, nil
}

// Update overwrites only the fields present in the patch. The owner id
// never changes.
func (s *ItemService) Update(ctx context.Context, itemID int64, update models.ItemUpdate, userID int64) (*models.Item, error) {
	item, err := s.items.GetItemByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item.OwnerID != userID {
		return nil, fmt.Errorf("user %d does not own item %d: %w", userID, itemID, domain.ErrForbidden)
	}

	if update.Name != nil {
		item.Name = *update.Name
	}
	if update.Description != nil {
		item.Description = *update.Description
	}
	if update.Available != nil {
		item.Available = *update.Available
	}

	if err := s.items.UpdateItem(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// GetDetails attaches comments for everyone, but booking previews only
// when the caller owns the item. For other callers the previews are
// absent, not empty.
func (s *ItemService) GetDetails(ctx context.Context, itemID, userID int64) (*models.ItemDetails, error) {
	item, err := s.items.GetItemByID(ctx, itemID)
	if err != nil {
		return nil, err
	}

	details := &models.ItemDetails{Item: *item}
	details.Comments, err = s.comments.ListCommentsByItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if details.Comments == nil {
		details.Comments = []models.Comment{}
	}

	if item.OwnerID == userID {
		now := s.now()
		if details.LastBooking, err = s.bookings.FindLastBooking(ctx, itemID, now); err != nil {
			return nil, err
		}
		if details.NextBooking, err = s.bookings.FindNextBooking(ctx, itemID, now); err != nil {
			return nil, err
		}
	}
	return details, nil
}

// Delete refuses to remove an item that bookings or comments still
// point at, so the history of past rentals stays intact.
func (s *ItemService) Delete(ctx context.Context, itemID, userID int64) error {
	item, err := s.items.GetItemByID(ctx, itemID)
	if err != nil {
		return err
	}
	if item.OwnerID != userID {
		return fmt.Errorf("user %d does not own item %d: %w", userID, itemID, domain.ErrForbidden)
	}

	bookingCount, err := s.bookings.CountBookingsByItem(ctx, itemID)
	if err != nil {
		return err
	}
	commentCount, err := s.comments.CountCommentsByItem(ctx, itemID)
	if err != nil {
		return err
	}
	if bookingCount > 0 || commentCount > 0 {
		return fmt.Errorf("item %d: %w", itemID, domain.ErrItemInUse)
	}

	return s.items.DeleteItem(ctx, itemID)
}

func (s *ItemService) ListOwnerItems(ctx context.Context, ownerID int64, from, size *int) ([]models.ItemDetails, error) {
	p, err := parsePage(from, size)
	if err != nil {
		return nil, err
	}

	items, err := fetchClamped(ctx, p,
		func(ctx context.Context, limit, offset int) ([]models.Item, error) {
			return s.items.ListItemsByOwner(ctx, ownerID, limit, offset)
		},
		func(ctx context.Context) (int, error) {
			return s.items.CountItemsByOwner(ctx, ownerID)
		})
	if err != nil {
		return nil, err
	}

	itemIDs := make([]int64, len(items))
	for i, item := range items {
		itemIDs[i] = item.ID
	}

	now := s.now()
	lastByItem, err := s.bookings.FindLastBookings(ctx, itemIDs, now)
	if err != nil {
		return nil, err
	}
	nextByItem, err := s.bookings.FindNextBookings(ctx, itemIDs, now)
	if err != nil {
		return nil, err
	}
	commentsByItem, err := s.comments.ListCommentsByItems(ctx, itemIDs)
	if err != nil {
		return nil, err
	}

	details := make([]models.ItemDetails, len(items))
	for i, item := range items {
		details[i] = models.ItemDetails{Item: item, Comments: []models.Comment{}}
		if last, ok := lastByItem[item.ID]; ok {
			details[i].LastBooking = &last
		}
		if next, ok := nextByItem[item.ID]; ok {
			details[i].NextBooking = &next
		}
		if comments, ok := commentsByItem[item.ID]; ok {
			details[i].Comments = comments
		}
	}
	return details, nil
}

// SearchByText short-circuits blank input without touching storage.
func (s *ItemService) SearchByText(ctx context.Context, text string) ([]models.Item, error) {
	if strings.TrimSpace(text) == "" {
		return []models.Item{}, nil
	}
	items, err := s.items.SearchItemsByText(ctx, text)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []models.Item{}
	}
	return items, nil
}

// CreateComment requires proof of use: an APPROVED booking by the
// author on this item whose start has already passed.
func (s *ItemService) CreateComment(ctx context.Context, itemID, userID int64, text string) (*models.Comment, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("comment text is blank: %w", domain.ErrBadRequest)
	}

	author, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if _, err := s.items.GetItemByID(ctx, itemID); err != nil {
		return nil, err
	}

	now := s.now()
	used, err := s.bookings.ExistsApprovedStarted(ctx, userID, itemID, now)
	if err != nil {
		return nil, err
	}
	if !used {
		return nil, fmt.Errorf("user %d doesn't use item %d: %w", userID, itemID, domain.ErrBadRequest)
	}

	comment := &models.Comment{
		ItemID:     itemID,
		Text:       text,
		AuthorName: author.Name,
		Created:    models.NewDateTime(now),
	}
	if err := s.comments.CreateComment(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}
