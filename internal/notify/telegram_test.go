package notify

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"shareit/internal/events"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockSender struct {
	mock.Mock
}

func (m *MockSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	args := m.Called(c)
	return args.Get(0).(tgbotapi.Message), args.Error(1)
}

func newNotifier(sender Sender) *TelegramNotifier {
	logger := zerolog.New(io.Discard)
	return NewTelegramNotifier(sender, 100, &logger)
}

// startNotifier runs the send loop until the test ends.
func startNotifier(t *testing.T, n *TelegramNotifier) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		n.Start(ctx)
		close(done)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
}

// blockingSender holds every Send until release is closed.
type blockingSender struct {
	release chan struct{}
	sent    chan tgbotapi.Chattable
}

func (s *blockingSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	<-s.release
	s.sent <- c
	return tgbotapi.Message{}, nil
}

func TestTelegramNotifier_BookingCreated(t *testing.T) {
	sent := make(chan struct{})
	sender := new(MockSender)
	sender.On("Send", mock.MatchedBy(func(c tgbotapi.Chattable) bool {
		msg, ok := c.(tgbotapi.MessageConfig)
		return ok && msg.ChatID == 100 &&
			strings.Contains(msg.Text, "New booking #7") &&
			strings.Contains(msg.Text, "Drill") &&
			strings.Contains(msg.Text, "Booker")
	})).Return(tgbotapi.Message{}, nil).Once().Run(func(mock.Arguments) { close(sent) })

	bus := events.NewEventBus()
	n := newNotifier(sender)
	n.Register(bus)
	startNotifier(t, n)

	start := time.Date(2030, 6, 2, 10, 0, 0, 0, time.UTC)
	require.NoError(t, bus.PublishJSON(events.EventBookingCreated, events.BookingEventPayload{
		BookingID: 7, ItemID: 1, ItemName: "Drill", BookerID: 2, BookerName: "Booker",
		Status: "WAITING", Start: start, End: start.Add(time.Hour),
	}))

	select {
	case <-sent:
	case <-time.After(time.Second):
		t.Fatal("notification was not sent")
	}
	sender.AssertExpectations(t)
}

func TestTelegramNotifier_SlowSenderDoesNotBlockPublisher(t *testing.T) {
	sender := &blockingSender{release: make(chan struct{}), sent: make(chan tgbotapi.Chattable, 1)}
	bus := events.NewEventBus()
	n := newNotifier(sender)
	n.Register(bus)
	startNotifier(t, n)

	published := make(chan error, 1)
	go func() {
		published <- bus.PublishJSON(events.EventItemRequestCreated, events.ItemRequestEventPayload{RequestID: 4, Description: "need a ladder"})
	}()

	select {
	case err := <-published:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("publisher waited for the Telegram send")
	}

	close(sender.release)
	select {
	case c := <-sender.sent:
		msg, ok := c.(tgbotapi.MessageConfig)
		require.True(t, ok)
		assert.Contains(t, msg.Text, "need a ladder")
	case <-time.After(time.Second):
		t.Fatal("queued notification was not sent")
	}
}

func TestTelegramNotifier_QueueFull(t *testing.T) {
	n := newNotifier(new(MockSender))
	event := &events.Event{Type: events.EventBookingCreated, Payload: []byte(`{}`)}

	for i := 0; i < defaultQueueSize; i++ {
		require.NoError(t, n.Enqueue(event))
	}
	assert.ErrorIs(t, n.Enqueue(event), ErrQueueFull)
}

func TestTelegramNotifier_IgnoresComments(t *testing.T) {
	sender := new(MockSender)
	bus := events.NewEventBus()
	n := newNotifier(sender)
	n.Register(bus)

	require.NoError(t, bus.PublishJSON(events.EventCommentAdded, events.CommentEventPayload{CommentID: 1}))
	assert.Zero(t, len(n.queue))
	sender.AssertNotCalled(t, "Send", mock.Anything)
}

func TestTelegramNotifier_HandleErrors(t *testing.T) {
	sender := new(MockSender)
	sender.On("Send", mock.Anything).Return(tgbotapi.Message{}, errors.New("telegram down"))
	n := newNotifier(sender)

	err := n.Handle(&events.Event{Type: events.EventItemRequestCreated, Payload: []byte(`{"request_id":1}`)})
	assert.EqualError(t, err, "telegram down")

	err = n.Handle(&events.Event{Type: events.EventBookingApproved, Payload: []byte(`not json`)})
	assert.Error(t, err)
}

func TestFormatBooking(t *testing.T) {
	p := events.BookingEventPayload{BookingID: 3, Status: "REJECTED"}
	assert.Contains(t, formatBooking(events.EventBookingRejected, p), "Booking rejected #3")
	assert.Contains(t, formatBooking(events.EventBookingApproved, p), "Booking approved #3")
}
