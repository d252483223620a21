package service

import (
	"fmt"
	"time"

	"shareit/internal/domain"
	"shareit/internal/models"
)

// checkCanBook validates the booking window first, then the item state.
func checkCanBook(item *models.Item, bookerID int64, start, end, now time.Time) error {
	switch {
	case start.IsZero() || end.IsZero():
		return fmt.Errorf("booking start and end are required: %w", domain.ErrInvalidRequest)
	case start.Equal(end):
		return fmt.Errorf("booking start equals end: %w", domain.ErrInvalidRequest)
	case start.After(end):
		return fmt.Errorf("booking start is after end: %w", domain.ErrInvalidRequest)
	case start.Before(now) || end.Before(now):
		return fmt.Errorf("booking dates are in the past: %w", domain.ErrInvalidRequest)
	}
	if !item.Available {
		return fmt.Errorf("item %d is not available: %w", item.ID, domain.ErrInvalidRequest)
	}
	if item.OwnerID == bookerID {
		return fmt.Errorf("owner cannot book own item %d: %w", item.ID, domain.ErrInvalidRequest)
	}
	return nil
}

func checkCanDecide(b *models.Booking, actorID int64) error {
	if b.Item == nil || b.Item.OwnerID != actorID {
		return fmt.Errorf("only the item owner can decide on booking %d: %w", b.ID, domain.ErrInvalidRequest)
	}
	if b.Status.Terminal() {
		return fmt.Errorf("booking %d is already %s: %w", b.ID, b.Status, domain.ErrInvalidRequest)
	}
	return nil
}

func checkCanView(b *models.Booking, actorID int64) error {
	if b.BookerID == actorID || (b.Item != nil && b.Item.OwnerID == actorID) {
		return nil
	}
	return fmt.Errorf("user %d cannot view booking %d: %w", actorID, b.ID, domain.ErrInvalidRequest)
}

// checkOwner hides items of other owners behind not-found.
func checkOwner(item *models.Item, actorID int64) error {
	if item.OwnerID != actorID {
		return fmt.Errorf("user %d does not own item %d: %w", actorID, item.ID, domain.ErrNotFound)
	}
	return nil
}

// checkCanComment expects the author's approved bookings of the item that already ended.
func checkCanComment(finished []*models.Booking, authorID, itemID int64) error {
	if len(finished) == 0 {
		return fmt.Errorf("user %d has no finished booking of item %d: %w", authorID, itemID, domain.ErrInvalidRequest)
	}
	return nil
}
