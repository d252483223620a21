package service

import (
	"fmt"
	"strings"

	"shareit/internal/domain"

	"github.com/rs/zerolog"
)

func requireText(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%s must not be blank: %w", field, domain.ErrInvalidRequest)
	}
	return nil
}

// publish отправляет событие; ошибка шины не прерывает операцию.
func publish(bus domain.EventPublisher, logger *zerolog.Logger, eventType string, payload interface{}) {
	if bus == nil {
		return
	}
	if err := bus.PublishJSON(eventType, payload); err != nil {
		logger.Error().Err(err).Str("event", eventType).Msg("Failed to publish event")
	}
}
