package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"sharehub/internal/domain"
	"sharehub/internal/models"
)

type UserService struct {
	users    domain.UserRepository
	items    domain.ItemRepository
	bookings domain.BookingRepository
	requests domain.RequestRepository
	logger   *zerolog.Logger
}

func NewUserService(users domain.UserRepository, items domain.ItemRepository, bookings domain.BookingRepository, requests domain.RequestRepository, logger *zerolog.Logger) *UserService {
	return &UserService{users: users, items: items, bookings: bookings, requests: requests, logger: logger}
}

func (s *UserService) Get(ctx context.Context, id int64) (*models.User, error) {
	return s.users.GetUserByID(ctx, id)
}

func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	return s.users.ListUsers(ctx)
}

func (s *UserService) Create(ctx context.Context, name, email string) (*models.User, error) {
	if err := s.checkEmailFree(ctx, email, 0); err != nil {
		return nil, err
	}

	user := &models.User{Name: name, Email: email}
	if err := s.users.CreateUser(ctx, user); err != nil {
		return nil, err
	}
	s.logger.Info().Int64("user_id", user.ID).Msg("user created")
	return user, nil
}

func (s *UserService) Update(ctx context.Context, id int64, update models.UserUpdate) (*models.User, error) {
	user, err := s.users.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if update.Email != nil && *update.Email != user.Email {
		if err := s.checkEmailFree(ctx, *update.Email, id); err != nil {
			return nil, err
		}
		user.Email = *update.Email
	}
	if update.Name != nil {
		user.Name = *update.Name
	}

	if err := s.users.UpdateUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Delete refuses to remove a user who still owns items, holds bookings
// or posted requests; callers must clean those up first. The checks
// cover every REFERENCES column pointing at users, so a delete that
// passes them cannot trip a foreign key.
func (s *UserService) Delete(ctx context.Context, id int64) error {
	if _, err := s.users.GetUserByID(ctx, id); err != nil {
		return err
	}

	itemCount, err := s.items.CountItemsByOwner(ctx, id)
	if err != nil {
		return err
	}
	bookingCount, err := s.bookings.CountBookingsByBooker(ctx, id)
	if err != nil {
		return err
	}
	requestCount, err := s.requests.CountRequestsByRequester(ctx, id)
	if err != nil {
		return err
	}
	if itemCount > 0 || bookingCount > 0 || requestCount > 0 {
		return fmt.Errorf("user %d: %w", id, domain.ErrUserInUse)
	}

	return s.users.DeleteUser(ctx, id)
}

func (s *UserService) checkEmailFree(ctx context.Context, email string, selfID int64) error {
	existing, err := s.users.GetUserByEmail(ctx, email)
	if errors.Is(err, domain.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if existing.ID != selfID {
		return fmt.Errorf("email %s: %w", email, domain.ErrEmailTaken)
	}
	return nil
}
