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

type RequestService struct {
	requests domain.RequestRepository
	items    domain.ItemRepository
	users    domain.UserRepository
	now      func() time.Time
	logger   *zerolog.Logger
}

func NewRequestService(requests domain.RequestRepository, items domain.ItemRepository, users domain.UserRepository, logger *zerolog.Logger) *RequestService {
	return &RequestService{
		requests: requests,
		items:    items,
		users:    users,
		now:      time.Now,
		logger:   logger,
	}
}

func (s *RequestService) Create(ctx context.Context, description string, requesterID int64) (*models.ItemRequest, error) {
	if strings.TrimSpace(description) == "" {
		return nil, fmt.Errorf("request description is blank: %w", domain.ErrBadRequest)
	}
	if err := s.requireUser(ctx, requesterID); err != nil {
		return nil, err
	}

	request := &models.ItemRequest{
		Description: description,
		RequesterID: requesterID,
		Created:     models.NewDateTime(s.now()),
	}
	if err := s.requests.CreateRequest(ctx, request); err != nil {
		return nil, err
	}
	s.logger.Info().Int64("request_id", request.ID).Msg("item request created")
	return request, nil
}

func (s *RequestService) Get(ctx context.Context, requestID, userID int64) (*models.RequestDetails, error) {
	if err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}
	request, err := s.requests.GetRequestByID(ctx, requestID)
	if err != nil {
		return nil, err
	}

	details, err := s.attachItems(ctx, []models.ItemRequest{*request})
	if err != nil {
		return nil, err
	}
	return &details[0], nil
}

func (s *RequestService) ListOwn(ctx context.Context, userID int64) ([]models.RequestDetails, error) {
	if err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}
	requests, err := s.requests.ListRequestsByRequester(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.attachItems(ctx, requests)
}

func (s *RequestService) ListOthers(ctx context.Context, userID int64, from, size *int) ([]models.RequestDetails, error) {
	if err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}
	p, err := parsePage(from, size)
	if err != nil {
		return nil, err
	}

	requests, err := fetchClamped(ctx, p,
		func(ctx context.Context, limit, offset int) ([]models.ItemRequest, error) {
			return s.requests.ListOtherRequests(ctx, userID, limit, offset)
		},
		func(ctx context.Context) (int, error) {
			return s.requests.CountOtherRequests(ctx, userID)
		})
	if err != nil {
		return nil, err
	}
	return s.attachItems(ctx, requests)
}

// attachItems resolves the fulfilling items for a batch of requests in
// one query.
func (s *RequestService) attachItems(ctx context.Context, requests []models.ItemRequest) ([]models.RequestDetails, error) {
	ids := make([]int64, len(requests))
	for i, r := range requests {
		ids[i] = r.ID
	}

	itemsByRequest, err := s.items.ListItemsByRequestIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	details := make([]models.RequestDetails, len(requests))
	for i, r := range requests {
		details[i] = models.RequestDetails{ItemRequest: r, Items: []models.Item{}}
		if items, ok := itemsByRequest[r.ID]; ok {
			details[i].Items = items
		}
	}
	return details, nil
}

func (s *RequestService) requireUser(ctx context.Context, userID int64) error {
	exists, err := s.users.UserExists(ctx, userID)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("user %d: %w", userID, domain.ErrNotFound)
	}
	return nil
}
