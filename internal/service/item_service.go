package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"shareit/internal/domain"
	"shareit/internal/dto"
	"shareit/internal/events"
	"shareit/internal/models"

	"github.com/rs/zerolog"
)

type ItemService struct {
	repo     domain.Repository
	eventBus domain.EventPublisher
	logger   *zerolog.Logger
	now      func() time.Time
}

func NewItemService(repo domain.Repository, eventBus domain.EventPublisher, logger *zerolog.Logger) *ItemService {
	return &ItemService{
		repo:     repo,
		eventBus: eventBus,
		logger:   logger,
		now:      time.Now,
	}
}

var _ domain.ItemService = (*ItemService)(nil)

func (s *ItemService) CreateItem(ctx context.Context, ownerID int64, req dto.CreateItemRequest) (*dto.ItemResponse, error) {
	if _, err := s.repo.GetUserByID(ctx, ownerID); err != nil {
		return nil, err
	}
	if err := requireText("name", req.Name); err != nil {
		return nil, err
	}
	if err := requireText("description", req.Description); err != nil {
		return nil, err
	}
	if req.Available == nil {
		return nil, fmt.Errorf("available must be set: %w", domain.ErrInvalidRequest)
	}
	if req.RequestID != nil {
		if _, err := s.repo.GetItemRequest(ctx, *req.RequestID); err != nil {
			return nil, err
		}
	}

	item := &models.Item{
		Name:        req.Name,
		Description: req.Description,
		Available:   *req.Available,
		OwnerID:     ownerID,
		RequestID:   req.RequestID,
	}
	if err := s.repo.CreateItem(ctx, item); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("item_id", item.ID).Int64("owner_id", ownerID).Msg("Item created")
	return dto.ToItemResponse(item), nil
}

func (s *ItemService) UpdateItem(ctx context.Context, ownerID, itemID int64, patch models.ItemPatch) (*dto.ItemResponse, error) {
	if _, err := s.repo.GetUserByID(ctx, ownerID); err != nil {
		return nil, err
	}
	item, err := s.repo.GetItemByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if err := checkOwner(item, ownerID); err != nil {
		return nil, err
	}

	patch.Apply(item)
	if err := s.repo.UpdateItem(ctx, item); err != nil {
		return nil, err
	}
	return dto.ToItemResponse(item), nil
}

// GetItem returns the item with its comments. Last and next bookings are
// derived only for the owner.
func (s *ItemService) GetItem(ctx context.Context, userID, itemID int64) (*dto.ItemWithBookingsResponse, error) {
	item, err := s.repo.GetItemByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	comments, err := s.repo.GetCommentsByItemIDs(ctx, []int64{itemID})
	if err != nil {
		return nil, err
	}

	var ln LastNext
	if item.OwnerID == userID {
		bookings, err := s.repo.FindBookings(ctx, models.BookingQuery{
			ItemIDs: []int64{itemID},
			Status:  models.StatusApproved,
		})
		if err != nil {
			return nil, err
		}
		ln = DeriveLastNext(bookings, s.now())
	}

	return withBookings(item, ln, comments), nil
}

// GetOwnerItems derives last/next bookings and loads comments for all owner items in one batch.
func (s *ItemService) GetOwnerItems(ctx context.Context, ownerID int64) ([]*dto.ItemWithBookingsResponse, error) {
	if _, err := s.repo.GetUserByID(ctx, ownerID); err != nil {
		return nil, err
	}
	items, err := s.repo.GetItemsByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return []*dto.ItemWithBookingsResponse{}, nil
	}

	ids := make([]int64, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.ID)
	}

	bookings, err := s.repo.FindBookings(ctx, models.BookingQuery{ItemIDs: ids, Status: models.StatusApproved})
	if err != nil {
		return nil, err
	}
	derived := DeriveByItem(bookings, s.now())

	comments, err := s.repo.GetCommentsByItemIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	commentsByItem := make(map[int64][]*models.Comment)
	for _, c := range comments {
		commentsByItem[c.ItemID] = append(commentsByItem[c.ItemID], c)
	}

	out := make([]*dto.ItemWithBookingsResponse, 0, len(items))
	for _, it := range items {
		out = append(out, withBookings(it, derived[it.ID], commentsByItem[it.ID]))
	}
	return out, nil
}

func (s *ItemService) SearchItems(ctx context.Context, text string) ([]*dto.ItemResponse, error) {
	if strings.TrimSpace(text) == "" {
		return []*dto.ItemResponse{}, nil
	}
	items, err := s.repo.SearchAvailableItems(ctx, text)
	if err != nil {
		return nil, err
	}
	return dto.ToItemResponses(items), nil
}

func (s *ItemService) AddComment(ctx context.Context, userID, itemID int64, req dto.CreateCommentRequest) (*dto.CommentResponse, error) {
	if err := requireText("text", req.Text); err != nil {
		return nil, err
	}
	author, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if _, err := s.repo.GetItemByID(ctx, itemID); err != nil {
		return nil, err
	}

	now := s.now()
	finished, err := s.repo.FindBookings(ctx, models.BookingQuery{
		BookerID:  userID,
		ItemIDs:   []int64{itemID},
		Status:    models.StatusApproved,
		EndBefore: &now,
	})
	if err != nil {
		return nil, err
	}
	if err := checkCanComment(finished, userID, itemID); err != nil {
		return nil, err
	}

	comment := &models.Comment{Text: req.Text, ItemID: itemID, AuthorID: userID, AuthorName: author.Name}
	if err := s.repo.CreateComment(ctx, comment); err != nil {
		return nil, err
	}

	publish(s.eventBus, s.logger, events.EventCommentAdded, events.CommentEventPayload{
		CommentID:  comment.ID,
		ItemID:     itemID,
		AuthorID:   userID,
		AuthorName: comment.AuthorName,
		Text:       comment.Text,
	})
	return dto.ToCommentResponse(comment), nil
}

func withBookings(item *models.Item, ln LastNext, comments []*models.Comment) *dto.ItemWithBookingsResponse {
	return &dto.ItemWithBookingsResponse{
		ItemResponse: *dto.ToItemResponse(item),
		LastBooking:  dto.ToBookingResponse(ln.Last),
		NextBooking:  dto.ToBookingResponse(ln.Next),
		Comments:     dto.ToCommentResponses(comments),
	}
}
