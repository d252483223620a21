package service

import (
	"context"
	"fmt"
	"time"

	"shareit/internal/domain"
	"shareit/internal/dto"
	"shareit/internal/events"
	"shareit/internal/models"

	"github.com/rs/zerolog"
)

type BookingService struct {
	repo     domain.Repository
	eventBus domain.EventPublisher
	logger   *zerolog.Logger
	now      func() time.Time
}

func NewBookingService(repo domain.Repository, eventBus domain.EventPublisher, logger *zerolog.Logger) *BookingService {
	return &BookingService{
		repo:     repo,
		eventBus: eventBus,
		logger:   logger,
		now:      time.Now,
	}
}

var _ domain.BookingService = (*BookingService)(nil)

func (s *BookingService) CreateBooking(ctx context.Context, bookerID int64, req dto.CreateBookingRequest) (*dto.BookingResponse, error) {
	if req.ItemID <= 0 {
		return nil, fmt.Errorf("itemId is required: %w", domain.ErrInvalidRequest)
	}
	booker, err := s.repo.GetUserByID(ctx, bookerID)
	if err != nil {
		return nil, err
	}
	item, err := s.repo.GetItemByID(ctx, req.ItemID)
	if err != nil {
		return nil, err
	}
	if err := checkCanBook(item, bookerID, req.Start, req.End, s.now()); err != nil {
		return nil, err
	}

	booking := &models.Booking{
		Start:    req.Start,
		End:      req.End,
		ItemID:   item.ID,
		BookerID: bookerID,
		Status:   models.StatusWaiting,
	}
	if err := s.repo.CreateBooking(ctx, booking); err != nil {
		return nil, err
	}
	booking.Item = item
	booking.Booker = booker

	s.logger.Info().
		Int64("booking_id", booking.ID).
		Int64("item_id", item.ID).
		Int64("booker_id", bookerID).
		Msg("Booking created")
	s.publishEvent(events.EventBookingCreated, booking)
	return dto.ToBookingResponse(booking), nil
}

// ApproveBooking moves a WAITING booking to APPROVED or REJECTED.
// Concurrent decisions are not serialized; the last write wins.
func (s *BookingService) ApproveBooking(ctx context.Context, ownerID, bookingID int64, approved bool) (*dto.BookingResponse, error) {
	booking, err := s.repo.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if err := checkCanDecide(booking, ownerID); err != nil {
		return nil, err
	}

	status := models.StatusRejected
	eventType := events.EventBookingRejected
	if approved {
		status = models.StatusApproved
		eventType = events.EventBookingApproved
	}
	if err := s.repo.UpdateBookingStatus(ctx, bookingID, status); err != nil {
		return nil, err
	}
	booking.Status = status

	s.logger.Info().Int64("booking_id", bookingID).Str("status", string(status)).Msg("Booking decided")
	s.publishEvent(eventType, booking)
	return dto.ToBookingResponse(booking), nil
}

func (s *BookingService) GetBooking(ctx context.Context, userID, bookingID int64) (*dto.BookingResponse, error) {
	booking, err := s.repo.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if err := checkCanView(booking, userID); err != nil {
		return nil, err
	}
	return dto.ToBookingResponse(booking), nil
}

func (s *BookingService) GetBookerBookings(ctx context.Context, bookerID int64, state models.BookingState) ([]*dto.BookingResponse, error) {
	if _, err := s.repo.GetUserByID(ctx, bookerID); err != nil {
		return nil, err
	}
	q, err := stateQuery(state, s.now())
	if err != nil {
		return nil, err
	}
	q.BookerID = bookerID
	return s.find(ctx, q)
}

func (s *BookingService) GetOwnerBookings(ctx context.Context, ownerID int64, state models.BookingState) ([]*dto.BookingResponse, error) {
	if _, err := s.repo.GetUserByID(ctx, ownerID); err != nil {
		return nil, err
	}
	q, err := stateQuery(state, s.now())
	if err != nil {
		return nil, err
	}
	q.OwnerID = ownerID
	return s.find(ctx, q)
}

func (s *BookingService) find(ctx context.Context, q models.BookingQuery) ([]*dto.BookingResponse, error) {
	bookings, err := s.repo.FindBookings(ctx, q)
	if err != nil {
		return nil, err
	}
	return dto.ToBookingResponses(bookings), nil
}

// stateQuery maps each list state to exactly one store filter.
func stateQuery(state models.BookingState, now time.Time) (models.BookingQuery, error) {
	switch state {
	case models.StateAll:
		return models.BookingQuery{}, nil
	case models.StateCurrent:
		return models.BookingQuery{StartBefore: &now, EndAfter: &now}, nil
	case models.StatePast:
		return models.BookingQuery{EndBefore: &now}, nil
	case models.StateFuture:
		return models.BookingQuery{StartAfter: &now}, nil
	case models.StateWaiting:
		return models.BookingQuery{Status: models.StatusWaiting}, nil
	case models.StateRejected:
		return models.BookingQuery{Status: models.StatusRejected}, nil
	default:
		return models.BookingQuery{}, fmt.Errorf("unknown booking state %q: %w", state, domain.ErrInvalidRequest)
	}
}

func (s *BookingService) publishEvent(eventType string, b *models.Booking) {
	payload := events.BookingEventPayload{
		BookingID: b.ID,
		ItemID:    b.ItemID,
		BookerID:  b.BookerID,
		Status:    string(b.Status),
		Start:     b.Start,
		End:       b.End,
	}
	if b.Item != nil {
		payload.ItemName = b.Item.Name
		payload.OwnerID = b.Item.OwnerID
	}
	if b.Booker != nil {
		payload.BookerName = b.Booker.Name
	}
	publish(s.eventBus, s.logger, eventType, payload)
}
