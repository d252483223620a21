package notify

import (
	"context"
	"errors"
	"fmt"

	"shareit/internal/events"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
)

// Sender is the subset of tgbotapi.BotAPI used for notifications.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Subscriber is satisfied by *events.EventBus.
type Subscriber interface {
	Subscribe(eventType string, handler events.EventHandler)
}

const defaultQueueSize = 128

// ErrQueueFull is returned by Enqueue when the sender falls behind.
var ErrQueueFull = errors.New("notification queue is full")

// TelegramNotifier posts booking and request events to an operator chat.
// Events are queued by the publisher and sent by Start in its own goroutine.
type TelegramNotifier struct {
	bot    Sender
	chatID int64
	queue  chan *events.Event
	logger *zerolog.Logger
}

func NewTelegramNotifier(bot Sender, chatID int64, logger *zerolog.Logger) *TelegramNotifier {
	return &TelegramNotifier{
		bot:    bot,
		chatID: chatID,
		queue:  make(chan *events.Event, defaultQueueSize),
		logger: logger,
	}
}

// Register subscribes the notifier to the events it reports.
func (n *TelegramNotifier) Register(bus Subscriber) {
	for _, eventType := range []string{
		events.EventBookingCreated,
		events.EventBookingApproved,
		events.EventBookingRejected,
		events.EventItemRequestCreated,
	} {
		bus.Subscribe(eventType, n.Enqueue)
	}
}

// Enqueue never blocks: when the queue is full the event is dropped.
func (n *TelegramNotifier) Enqueue(event *events.Event) error {
	select {
	case n.queue <- event:
		return nil
	default:
		n.logger.Warn().Str("event_type", event.Type).Msg("Notification queue full, event dropped")
		return ErrQueueFull
	}
}

// Start sends queued notifications until ctx is done.
func (n *TelegramNotifier) Start(ctx context.Context) {
	n.logger.Info().Int64("chat_id", n.chatID).Msg("Telegram notifier started")
	for {
		select {
		case <-ctx.Done():
			n.logger.Info().Int("pending", len(n.queue)).Msg("Telegram notifier stopped")
			return
		case event := <-n.queue:
			_ = n.Handle(event)
		}
	}
}

// Handle formats the event and sends it. Send failures are logged and returned.
func (n *TelegramNotifier) Handle(event *events.Event) error {
	text, err := formatEvent(event)
	if err != nil {
		n.logger.Error().Err(err).Str("event_type", event.Type).Msg("Failed to decode event")
		return err
	}
	if text == "" {
		return nil
	}

	msg := tgbotapi.NewMessage(n.chatID, text)
	if _, err := n.bot.Send(msg); err != nil {
		n.logger.Error().Err(err).Int64("chat_id", n.chatID).Str("event_type", event.Type).Msg("Failed to send notification")
		return err
	}
	return nil
}

func formatEvent(event *events.Event) (string, error) {
	switch event.Type {
	case events.EventBookingCreated, events.EventBookingApproved, events.EventBookingRejected:
		var p events.BookingEventPayload
		if err := event.Decode(&p); err != nil {
			return "", err
		}
		return formatBooking(event.Type, p), nil
	case events.EventItemRequestCreated:
		var p events.ItemRequestEventPayload
		if err := event.Decode(&p); err != nil {
			return "", err
		}
		return fmt.Sprintf("📝 New item request #%d from user %d:\n%s", p.RequestID, p.RequesterID, p.Description), nil
	default:
		return "", nil
	}
}

func formatBooking(eventType string, p events.BookingEventPayload) string {
	var title string
	switch eventType {
	case events.EventBookingCreated:
		title = "🆕 New booking"
	case events.EventBookingApproved:
		title = "✅ Booking approved"
	default:
		title = "❌ Booking rejected"
	}
	return fmt.Sprintf(`%s #%d

🏷 Item: %s (#%d)
👤 Booker: %s (#%d)
📅 %s - %s
Status: %s`,
		title, p.BookingID,
		p.ItemName, p.ItemID,
		p.BookerName, p.BookerID,
		p.Start.Format("02.01.2006 15:04"), p.End.Format("02.01.2006 15:04"),
		p.Status)
}
