package service

import (
	"context"
	"io"
	"testing"
	"time"

	"shareit/internal/models"
	"shareit/internal/repository"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) PublishJSON(eventType string, payload interface{}) error {
	return m.Called(eventType, payload).Error(0)
}

type fixture struct {
	store    *repository.MemoryStore
	bus      *mockPublisher
	logger   *zerolog.Logger
	now      time.Time
	users    *UserService
	items    *ItemService
	bookings *BookingService
	requests *RequestService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	logger := zerolog.New(io.Discard)
	f := &fixture{
		store:  repository.NewMemoryStore(),
		bus:    new(mockPublisher),
		logger: &logger,
		now:    time.Date(2030, 6, 1, 12, 0, 0, 0, time.UTC),
	}
	clock := func() time.Time { return f.now }

	f.users = NewUserService(f.store, f.logger)
	f.items = NewItemService(f.store, f.bus, f.logger)
	f.items.now = clock
	f.bookings = NewBookingService(f.store, f.bus, f.logger)
	f.bookings.now = clock
	f.requests = NewRequestService(f.store, f.bus, f.logger)

	f.bus.On("PublishJSON", mock.Anything, mock.Anything).Return(nil).Maybe()
	return f
}

func (f *fixture) user(t *testing.T, name, email string) int64 {
	t.Helper()
	u := &models.User{Name: name, Email: email}
	require.NoError(t, f.store.CreateUser(context.Background(), u))
	return u.ID
}

func (f *fixture) item(t *testing.T, ownerID int64, name string, available bool) int64 {
	t.Helper()
	it := &models.Item{Name: name, Description: name + " description", Available: available, OwnerID: ownerID}
	require.NoError(t, f.store.CreateItem(context.Background(), it))
	return it.ID
}

// booking inserts directly into the store, bypassing date validation.
func (f *fixture) booking(t *testing.T, itemID, bookerID int64, start, end time.Time, status models.BookingStatus) int64 {
	t.Helper()
	b := &models.Booking{Start: start, End: end, ItemID: itemID, BookerID: bookerID, Status: status}
	require.NoError(t, f.store.CreateBooking(context.Background(), b))
	return b.ID
}

func ptr[T any](v T) *T { return &v }
