package models

import "time"

type Booking struct {
	ID        int64         `json:"id"`
	Start     time.Time     `json:"start"`
	End       time.Time     `json:"end"`
	ItemID    int64         `json:"item_id"`
	BookerID  int64         `json:"booker_id"`
	Status    BookingStatus `json:"status"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`

	// Filled by the store on reads.
	Item   *Item `json:"-"`
	Booker *User `json:"-"`
}

// BookingQuery selects bookings for list views. Zero-valued fields do not filter.
type BookingQuery struct {
	BookerID    int64
	OwnerID     int64
	ItemIDs     []int64
	Status      BookingStatus
	StartBefore *time.Time // start <= StartBefore
	StartAfter  *time.Time // start > StartAfter
	EndBefore   *time.Time // end < EndBefore
	EndAfter    *time.Time // end >= EndAfter
}
