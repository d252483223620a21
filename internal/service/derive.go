package service

import (
	"time"

	"shareit/internal/models"
)

// LastNext holds the approved bookings adjacent to a moment in time.
type LastNext struct {
	Last *models.Booking
	Next *models.Booking
}

// DeriveLastNext picks the booking that started most recently before now and
// the one starting soonest after now. Equal start times resolve to the lowest id.
// A booking starting exactly at now is neither.
func DeriveLastNext(bookings []*models.Booking, now time.Time) LastNext {
	var ln LastNext
	for _, b := range bookings {
		switch {
		case b.Start.Before(now):
			if ln.Last == nil || b.Start.After(ln.Last.Start) ||
				(b.Start.Equal(ln.Last.Start) && b.ID < ln.Last.ID) {
				ln.Last = b
			}
		case b.Start.After(now):
			if ln.Next == nil || b.Start.Before(ln.Next.Start) ||
				(b.Start.Equal(ln.Next.Start) && b.ID < ln.Next.ID) {
				ln.Next = b
			}
		}
	}
	return ln
}

// DeriveByItem partitions bookings by item and derives each group.
// Items without bookings are absent from the result.
func DeriveByItem(bookings []*models.Booking, now time.Time) map[int64]LastNext {
	groups := make(map[int64][]*models.Booking)
	for _, b := range bookings {
		groups[b.ItemID] = append(groups[b.ItemID], b)
	}
	out := make(map[int64]LastNext, len(groups))
	for itemID, group := range groups {
		out[itemID] = DeriveLastNext(group, now)
	}
	return out
}
