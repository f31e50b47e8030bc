package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"sharehub/internal/domain"
	"sharehub/internal/models"
)

type BookingService struct {
	bookings domain.BookingRepository
	items    domain.ItemRepository
	users    domain.UserRepository
	now      func() time.Time
	logger   *zerolog.Logger
}

func NewBookingService(bookings domain.BookingRepository, items domain.ItemRepository, users domain.UserRepository, logger *zerolog.Logger) *BookingService {
	return &BookingService{
		bookings: bookings,
		items:    items,
		users:    users,
		now:      time.Now,
		logger:   logger,
	}
}

func (s *BookingService) Get(ctx context.Context, bookingID, userID int64) (*models.Booking, error) {
	booking, err := s.bookings.GetBookingByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if userID != booking.BookerID && userID != booking.OwnerID {
		return nil, fmt.Errorf("user %d is neither booker nor owner: %w", userID, domain.ErrForbidden)
	}
	return booking, nil
}

// Create runs the checks in a fixed order so the first failure decides
// the reported error: dates, then item, then availability, then the
// owner-books-own-item guard.
func (s *BookingService) Create(ctx context.Context, itemID int64, start, end *models.DateTime, bookerID int64) (*models.Booking, error) {
	if start == nil || end == nil {
		return nil, fmt.Errorf("start and end are required: %w", domain.ErrBadRequest)
	}
	now := s.now()
	if now.After(start.Time) || end.Time.Before(now) || end.Time.Before(start.Time) || start.Time.Equal(end.Time) {
		return nil, fmt.Errorf("booking interval %s..%s: %w", start, end, domain.ErrBadRequest)
	}

	item, err := s.items.GetItemByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if !item.Available {
		return nil, fmt.Errorf("item %d: %w", itemID, domain.ErrUnavailable)
	}
	if bookerID == item.OwnerID {
		return nil, fmt.Errorf("owner cannot book own item: %w", domain.ErrForbidden)
	}

	booker, err := s.users.GetUserByID(ctx, bookerID)
	if err != nil {
		return nil, err
	}

	booking := &models.Booking{
		ItemID:     itemID,
		ItemName:   item.Name,
		OwnerID:    item.OwnerID,
		BookerID:   bookerID,
		BookerName: booker.Name,
		Start:      *start,
		End:        *end,
		Status:     models.StatusWaiting,
	}
	if err := s.bookings.CreateBooking(ctx, booking); err != nil {
		return nil, err
	}
	s.logger.Info().Int64("booking_id", booking.ID).Int64("item_id", itemID).Msg("booking created")
	return booking, nil
}

// UpdateStatus performs the single WAITING -> APPROVED/REJECTED
// transition. The conditional update in the repository makes the
// transition atomic under concurrent calls.
func (s *BookingService) UpdateStatus(ctx context.Context, bookingID int64, approve bool, userID int64) (*models.Booking, error) {
	booking, err := s.bookings.GetBookingByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if userID != booking.OwnerID {
		return nil, fmt.Errorf("user %d does not own item %d: %w", userID, booking.ItemID, domain.ErrForbidden)
	}
	if booking.Status != models.StatusWaiting {
		return nil, fmt.Errorf("booking %d: %w", bookingID, domain.ErrStatusAlreadySet)
	}

	status := models.StatusRejected
	if approve {
		status = models.StatusApproved
	}
	if err := s.bookings.UpdateBookingStatusIfWaiting(ctx, bookingID, status); err != nil {
		return nil, err
	}
	booking.Status = status
	s.logger.Info().Int64("booking_id", bookingID).Str("status", string(status)).Msg("booking status set")
	return booking, nil
}

// List resolves the state filter before looking at the subject, so an
// unknown state is reported even for an unknown user.
func (s *BookingService) List(ctx context.Context, subjectID int64, role models.BookingRole, state string, from, size *int) ([]models.Booking, error) {
	parsed, err := models.ParseBookingState(state)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedState, state)
	}

	exists, err := s.users.UserExists(ctx, subjectID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("user %d: %w", subjectID, domain.ErrNotFound)
	}

	p, err := parsePage(from, size)
	if err != nil {
		return nil, err
	}

	now := s.now()
	return fetchClamped(ctx, p,
		func(ctx context.Context, limit, offset int) ([]models.Booking, error) {
			return s.bookings.ListBookingsByState(ctx, subjectID, role, parsed, now, limit, offset)
		},
		func(ctx context.Context) (int, error) {
			return s.bookings.CountBookingsByState(ctx, subjectID, role, parsed, now)
		})
}
