package domain

import (
	"context"
	"time"

	"shareit/internal/dto"
	"shareit/internal/models"
)

// Repository is the entity store consumed by services.
// Lookups of a single record return ErrNotFound when the row is absent.
type Repository interface {
	CreateUser(ctx context.Context, user *models.User) error
	UpdateUser(ctx context.Context, user *models.User) error
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetAllUsers(ctx context.Context) ([]*models.User, error)
	DeleteUser(ctx context.Context, id int64) error

	CreateItem(ctx context.Context, item *models.Item) error
	UpdateItem(ctx context.Context, item *models.Item) error
	GetItemByID(ctx context.Context, id int64) (*models.Item, error)
	GetItemsByOwner(ctx context.Context, ownerID int64) ([]*models.Item, error)
	GetItemsByRequestIDs(ctx context.Context, requestIDs []int64) ([]*models.Item, error)
	SearchAvailableItems(ctx context.Context, text string) ([]*models.Item, error)

	CreateBooking(ctx context.Context, booking *models.Booking) error
	UpdateBookingStatus(ctx context.Context, id int64, status models.BookingStatus) error
	GetBooking(ctx context.Context, id int64) (*models.Booking, error)
	// FindBookings returns matching bookings ordered by start descending.
	FindBookings(ctx context.Context, q models.BookingQuery) ([]*models.Booking, error)

	CreateItemRequest(ctx context.Context, req *models.ItemRequest) error
	GetItemRequest(ctx context.Context, id int64) (*models.ItemRequest, error)
	GetItemRequestsByRequester(ctx context.Context, requesterID int64) ([]*models.ItemRequest, error)
	GetItemRequestsExcept(ctx context.Context, requesterID int64) ([]*models.ItemRequest, error)

	CreateComment(ctx context.Context, comment *models.Comment) error
	GetCommentsByItemIDs(ctx context.Context, itemIDs []int64) ([]*models.Comment, error)

	Ping(ctx context.Context) error
}

// QuotaRepository counts per-user requests within a sliding window.
type QuotaRepository interface {
	CheckRateLimit(ctx context.Context, userID int64, limit int, window time.Duration) (bool, error)
}

type EventPublisher interface {
	PublishJSON(eventType string, payload interface{}) error
}

type UserService interface {
	CreateUser(ctx context.Context, req dto.CreateUserRequest) (*dto.UserResponse, error)
	GetUser(ctx context.Context, id int64) (*dto.UserResponse, error)
	GetAllUsers(ctx context.Context) ([]*dto.UserResponse, error)
	UpdateUser(ctx context.Context, id int64, patch models.UserPatch) (*dto.UserResponse, error)
	DeleteUser(ctx context.Context, id int64) error
}

type ItemService interface {
	CreateItem(ctx context.Context, ownerID int64, req dto.CreateItemRequest) (*dto.ItemResponse, error)
	UpdateItem(ctx context.Context, ownerID, itemID int64, patch models.ItemPatch) (*dto.ItemResponse, error)
	GetItem(ctx context.Context, userID, itemID int64) (*dto.ItemWithBookingsResponse, error)
	GetOwnerItems(ctx context.Context, ownerID int64) ([]*dto.ItemWithBookingsResponse, error)
	SearchItems(ctx context.Context, text string) ([]*dto.ItemResponse, error)
	AddComment(ctx context.Context, userID, itemID int64, req dto.CreateCommentRequest) (*dto.CommentResponse, error)
}

type BookingService interface {
	CreateBooking(ctx context.Context, bookerID int64, req dto.CreateBookingRequest) (*dto.BookingResponse, error)
	ApproveBooking(ctx context.Context, ownerID, bookingID int64, approved bool) (*dto.BookingResponse, error)
	GetBooking(ctx context.Context, userID, bookingID int64) (*dto.BookingResponse, error)
	GetBookerBookings(ctx context.Context, bookerID int64, state models.BookingState) ([]*dto.BookingResponse, error)
	GetOwnerBookings(ctx context.Context, ownerID int64, state models.BookingState) ([]*dto.BookingResponse, error)
}

type RequestService interface {
	CreateRequest(ctx context.Context, requesterID int64, req dto.CreateItemRequestRequest) (*dto.ItemRequestResponse, error)
	GetOwnRequests(ctx context.Context, requesterID int64) ([]*dto.ItemRequestResponse, error)
	GetOtherRequests(ctx context.Context, requesterID int64) ([]*dto.ItemRequestResponse, error)
	GetRequest(ctx context.Context, userID, requestID int64) (*dto.ItemRequestResponse, error)
}
