package service

import (
	"context"
	"fmt"

	"shareit/internal/domain"
	"shareit/internal/dto"
	"shareit/internal/events"
	"shareit/internal/models"

	"github.com/rs/zerolog"
)

type RequestService struct {
	repo     domain.Repository
	eventBus domain.EventPublisher
	logger   *zerolog.Logger
}

func NewRequestService(repo domain.Repository, eventBus domain.EventPublisher, logger *zerolog.Logger) *RequestService {
	return &RequestService{
		repo:     repo,
		eventBus: eventBus,
		logger:   logger,
	}
}

var _ domain.RequestService = (*RequestService)(nil)

func (s *RequestService) CreateRequest(ctx context.Context, requesterID int64, req dto.CreateItemRequestRequest) (*dto.ItemRequestResponse, error) {
	if err := requireText("description", req.Description); err != nil {
		return nil, err
	}
	requester, err := s.repo.GetUserByID(ctx, requesterID)
	if err != nil {
		return nil, err
	}

	itemRequest := &models.ItemRequest{Description: req.Description, RequesterID: requesterID}
	if err := s.repo.CreateItemRequest(ctx, itemRequest); err != nil {
		return nil, err
	}
	itemRequest.Requester = requester

	publish(s.eventBus, s.logger, events.EventItemRequestCreated, events.ItemRequestEventPayload{
		RequestID:   itemRequest.ID,
		RequesterID: requesterID,
		Description: itemRequest.Description,
	})
	return dto.ToItemRequestResponse(itemRequest, nil), nil
}

// GetOwnRequests returns the user's requests, newest first. No requests is not-found.
func (s *RequestService) GetOwnRequests(ctx context.Context, requesterID int64) ([]*dto.ItemRequestResponse, error) {
	if _, err := s.repo.GetUserByID(ctx, requesterID); err != nil {
		return nil, err
	}
	reqs, err := s.repo.GetItemRequestsByRequester(ctx, requesterID)
	if err != nil {
		return nil, err
	}
	if len(reqs) == 0 {
		return nil, fmt.Errorf("user %d has no item requests: %w", requesterID, domain.ErrNotFound)
	}
	return s.withItems(ctx, reqs)
}

// GetOtherRequests returns requests of all other users, newest first. No requests is not-found.
func (s *RequestService) GetOtherRequests(ctx context.Context, requesterID int64) ([]*dto.ItemRequestResponse, error) {
	if _, err := s.repo.GetUserByID(ctx, requesterID); err != nil {
		return nil, err
	}
	reqs, err := s.repo.GetItemRequestsExcept(ctx, requesterID)
	if err != nil {
		return nil, err
	}
	if len(reqs) == 0 {
		return nil, fmt.Errorf("no item requests from other users: %w", domain.ErrNotFound)
	}
	return s.withItems(ctx, reqs)
}

func (s *RequestService) GetRequest(ctx context.Context, userID, requestID int64) (*dto.ItemRequestResponse, error) {
	if _, err := s.repo.GetUserByID(ctx, userID); err != nil {
		return nil, err
	}
	r, err := s.repo.GetItemRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}
	out, err := s.withItems(ctx, []*models.ItemRequest{r})
	if err != nil {
		return nil, err
	}
	return out[0], nil
}

// withItems attaches fulfilling items to each request with a single store query.
func (s *RequestService) withItems(ctx context.Context, reqs []*models.ItemRequest) ([]*dto.ItemRequestResponse, error) {
	ids := make([]int64, 0, len(reqs))
	for _, r := range reqs {
		ids = append(ids, r.ID)
	}
	items, err := s.repo.GetItemsByRequestIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byRequest := make(map[int64][]*models.Item)
	for _, it := range items {
		if it.RequestID != nil {
			byRequest[*it.RequestID] = append(byRequest[*it.RequestID], it)
		}
	}

	out := make([]*dto.ItemRequestResponse, 0, len(reqs))
	for _, r := range reqs {
		out = append(out, dto.ToItemRequestResponse(r, byRequest[r.ID]))
	}
	return out, nil
}
