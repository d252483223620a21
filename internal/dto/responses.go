package dto

import (
	"time"

	"shareit/internal/models"
)

type UserResponse struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type UserSummary struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type ItemResponse struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Available   bool   `json:"available"`
	RequestID   *int64 `json:"requestId"`
}

type ItemSummary struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type ItemWithBookingsResponse struct {
	ItemResponse
	LastBooking *BookingResponse   `json:"lastBooking"`
	NextBooking *BookingResponse   `json:"nextBooking"`
	Comments    []*CommentResponse `json:"comments"`
}

type BookingResponse struct {
	ID     int64                `json:"id"`
	Start  time.Time            `json:"start"`
	End    time.Time            `json:"end"`
	Item   ItemSummary          `json:"item"`
	Booker UserSummary          `json:"booker"`
	Status models.BookingStatus `json:"status"`
}

type CommentResponse struct {
	ID         int64     `json:"id"`
	Text       string    `json:"text"`
	AuthorName string    `json:"authorName"`
	Created    time.Time `json:"created"`
}

type ItemRequestResponse struct {
	ID          int64           `json:"id"`
	Description string          `json:"description"`
	Requester   UserSummary     `json:"requester"`
	Created     time.Time       `json:"created"`
	Items       []*ItemResponse `json:"items"`
}

// ErrorResponse is the body written for every failed request.
type ErrorResponse struct {
	Error       string `json:"error"`
	Description string `json:"description,omitempty"`
}
