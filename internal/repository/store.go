package repository

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"shareit/internal/domain"
	"shareit/internal/models"
)

// MemoryStore is an in-process entity store. Records are copied on the way
// in and out so callers never share state with the maps.
type MemoryStore struct {
	mu       sync.RWMutex
	users    map[int64]models.User
	items    map[int64]models.Item
	bookings map[int64]models.Booking
	requests map[int64]models.ItemRequest
	comments map[int64]models.Comment

	userSeq    atomic.Int64
	itemSeq    atomic.Int64
	bookingSeq atomic.Int64
	requestSeq atomic.Int64
	commentSeq atomic.Int64
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:    make(map[int64]models.User),
		items:    make(map[int64]models.Item),
		bookings: make(map[int64]models.Booking),
		requests: make(map[int64]models.ItemRequest),
		comments: make(map[int64]models.Comment),
	}
}

var _ domain.Repository = (*MemoryStore)(nil)

func (s *MemoryStore) Ping(context.Context) error { return nil }

// Users

func (s *MemoryStore) emailTaken(email string, exceptID int64) bool {
	for id, u := range s.users {
		if id != exceptID && strings.ToLower(u.Email) == strings.ToLower(email) {
			return true
		}
	}
	return false
}

func (s *MemoryStore) CreateUser(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.emailTaken(user.Email, 0) {
		return fmt.Errorf("email %s already registered: %w", user.Email, domain.ErrConflict)
	}
	now := time.Now().UTC()
	user.ID = s.userSeq.Add(1)
	user.CreatedAt = now
	user.UpdatedAt = now
	s.users[user.ID] = *user
	return nil
}

func (s *MemoryStore) UpdateUser(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.users[user.ID]
	if !ok {
		return fmt.Errorf("user %d: %w", user.ID, domain.ErrNotFound)
	}
	if s.emailTaken(user.Email, user.ID) {
		return fmt.Errorf("email %s already registered: %w", user.Email, domain.ErrConflict)
	}
	user.CreatedAt = stored.CreatedAt
	user.UpdatedAt = time.Now().UTC()
	s.users[user.ID] = *user
	return nil
}

func (s *MemoryStore) GetUserByID(_ context.Context, id int64) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, fmt.Errorf("user %d: %w", id, domain.ErrNotFound)
	}
	return &u, nil
}

func (s *MemoryStore) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if strings.ToLower(u.Email) == strings.ToLower(email) {
			return &u, nil
		}
	}
	return nil, fmt.Errorf("user with email %s: %w", email, domain.ErrNotFound)
}

func (s *MemoryStore) GetAllUsers(_ context.Context) ([]*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	users := make([]*models.User, 0, len(s.users))
	for _, u := range s.users {
		users = append(users, &u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}

// DeleteUser removes the user with their items, bookings, comments and
// requests. Items fulfilling a removed request lose the reference.
func (s *MemoryStore) DeleteUser(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[id]; !ok {
		return fmt.Errorf("user %d: %w", id, domain.ErrNotFound)
	}
	delete(s.users, id)

	removedItems := make(map[int64]bool)
	for itemID, it := range s.items {
		if it.OwnerID == id {
			removedItems[itemID] = true
			delete(s.items, itemID)
		}
	}
	for bID, b := range s.bookings {
		if b.BookerID == id || removedItems[b.ItemID] {
			delete(s.bookings, bID)
		}
	}
	for cID, c := range s.comments {
		if c.AuthorID == id || removedItems[c.ItemID] {
			delete(s.comments, cID)
		}
	}
	for rID, r := range s.requests {
		if r.RequesterID != id {
			continue
		}
		delete(s.requests, rID)
		for itemID, it := range s.items {
			if it.RequestID != nil && *it.RequestID == rID {
				it.RequestID = nil
				s.items[itemID] = it
			}
		}
	}
	return nil
}

// Items

func (s *MemoryStore) CreateItem(_ context.Context, item *models.Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[item.OwnerID]; !ok {
		return fmt.Errorf("owner %d: %w", item.OwnerID, domain.ErrNotFound)
	}
	if item.RequestID != nil {
		if _, ok := s.requests[*item.RequestID]; !ok {
			return fmt.Errorf("item request %d: %w", *item.RequestID, domain.ErrNotFound)
		}
	}
	now := time.Now().UTC()
	item.ID = s.itemSeq.Add(1)
	item.CreatedAt = now
	item.UpdatedAt = now
	s.items[item.ID] = copyItem(*item)
	return nil
}

func (s *MemoryStore) UpdateItem(_ context.Context, item *models.Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.items[item.ID]
	if !ok {
		return fmt.Errorf("item %d: %w", item.ID, domain.ErrNotFound)
	}
	stored.Name = item.Name
	stored.Description = item.Description
	stored.Available = item.Available
	stored.UpdatedAt = time.Now().UTC()
	s.items[item.ID] = stored
	item.UpdatedAt = stored.UpdatedAt
	return nil
}

func (s *MemoryStore) GetItemByID(_ context.Context, id int64) (*models.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	it, ok := s.items[id]
	if !ok {
		return nil, fmt.Errorf("item %d: %w", id, domain.ErrNotFound)
	}
	it = copyItem(it)
	return &it, nil
}

func (s *MemoryStore) GetItemsByOwner(_ context.Context, ownerID int64) ([]*models.Item, error) {
	return s.filterItems(func(it models.Item) bool { return it.OwnerID == ownerID }), nil
}

func (s *MemoryStore) GetItemsByRequestIDs(_ context.Context, requestIDs []int64) ([]*models.Item, error) {
	wanted := make(map[int64]bool, len(requestIDs))
	for _, id := range requestIDs {
		wanted[id] = true
	}
	return s.filterItems(func(it models.Item) bool {
		return it.RequestID != nil && wanted[*it.RequestID]
	}), nil
}

func (s *MemoryStore) SearchAvailableItems(_ context.Context, text string) ([]*models.Item, error) {
	needle := strings.ToLower(strings.TrimSpace(text))
	if needle == "" {
		return []*models.Item{}, nil
	}
	return s.filterItems(func(it models.Item) bool {
		return it.Available &&
			(strings.Contains(strings.ToLower(it.Name), needle) ||
				strings.Contains(strings.ToLower(it.Description), needle))
	}), nil
}

func (s *MemoryStore) filterItems(keep func(models.Item) bool) []*models.Item {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := []*models.Item{}
	for _, it := range s.items {
		if keep(it) {
			it = copyItem(it)
			items = append(items, &it)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return items
}

func copyItem(it models.Item) models.Item {
	if it.RequestID != nil {
		id := *it.RequestID
		it.RequestID = &id
	}
	return it
}

// Bookings

func (s *MemoryStore) CreateBooking(_ context.Context, booking *models.Booking) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.items[booking.ItemID]; !ok {
		return fmt.Errorf("item %d: %w", booking.ItemID, domain.ErrNotFound)
	}
	if _, ok := s.users[booking.BookerID]; !ok {
		return fmt.Errorf("user %d: %w", booking.BookerID, domain.ErrNotFound)
	}
	now := time.Now().UTC()
	booking.ID = s.bookingSeq.Add(1)
	booking.CreatedAt = now
	booking.UpdatedAt = now

	stored := *booking
	stored.Item, stored.Booker = nil, nil
	s.bookings[booking.ID] = stored
	return nil
}

func (s *MemoryStore) UpdateBookingStatus(_ context.Context, id int64, status models.BookingStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.bookings[id]
	if !ok {
		return fmt.Errorf("booking %d: %w", id, domain.ErrNotFound)
	}
	b.Status = status
	b.UpdatedAt = time.Now().UTC()
	s.bookings[id] = b
	return nil
}

func (s *MemoryStore) GetBooking(_ context.Context, id int64) (*models.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, ok := s.bookings[id]
	if !ok {
		return nil, fmt.Errorf("booking %d: %w", id, domain.ErrNotFound)
	}
	return s.hydrateBooking(b), nil
}

func (s *MemoryStore) FindBookings(_ context.Context, q models.BookingQuery) ([]*models.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var itemSet map[int64]bool
	if len(q.ItemIDs) > 0 {
		itemSet = make(map[int64]bool, len(q.ItemIDs))
		for _, id := range q.ItemIDs {
			itemSet[id] = true
		}
	}

	out := []*models.Booking{}
	for _, b := range s.bookings {
		if !matchBooking(b, q, itemSet, s.items[b.ItemID].OwnerID) {
			continue
		}
		out = append(out, s.hydrateBooking(b))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Start.Equal(out[j].Start) {
			return out[i].ID > out[j].ID
		}
		return out[i].Start.After(out[j].Start)
	})
	return out, nil
}

func matchBooking(b models.Booking, q models.BookingQuery, itemSet map[int64]bool, ownerID int64) bool {
	switch {
	case q.BookerID != 0 && b.BookerID != q.BookerID:
		return false
	case q.OwnerID != 0 && ownerID != q.OwnerID:
		return false
	case itemSet != nil && !itemSet[b.ItemID]:
		return false
	case q.Status != "" && b.Status != q.Status:
		return false
	case q.StartBefore != nil && b.Start.After(*q.StartBefore):
		return false
	case q.StartAfter != nil && !b.Start.After(*q.StartAfter):
		return false
	case q.EndBefore != nil && !b.End.Before(*q.EndBefore):
		return false
	case q.EndAfter != nil && b.End.Before(*q.EndAfter):
		return false
	}
	return true
}

// hydrateBooking must be called with s.mu held.
func (s *MemoryStore) hydrateBooking(b models.Booking) *models.Booking {
	if it, ok := s.items[b.ItemID]; ok {
		it = copyItem(it)
		b.Item = &it
	}
	if u, ok := s.users[b.BookerID]; ok {
		b.Booker = &u
	}
	return &b
}

// Item requests

func (s *MemoryStore) CreateItemRequest(_ context.Context, req *models.ItemRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[req.RequesterID]; !ok {
		return fmt.Errorf("user %d: %w", req.RequesterID, domain.ErrNotFound)
	}
	req.ID = s.requestSeq.Add(1)
	req.CreatedAt = time.Now().UTC()

	stored := *req
	stored.Requester = nil
	s.requests[req.ID] = stored
	return nil
}

func (s *MemoryStore) GetItemRequest(_ context.Context, id int64) (*models.ItemRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.requests[id]
	if !ok {
		return nil, fmt.Errorf("item request %d: %w", id, domain.ErrNotFound)
	}
	return s.hydrateRequest(r), nil
}

func (s *MemoryStore) GetItemRequestsByRequester(_ context.Context, requesterID int64) ([]*models.ItemRequest, error) {
	return s.filterRequests(func(r models.ItemRequest) bool { return r.RequesterID == requesterID }), nil
}

func (s *MemoryStore) GetItemRequestsExcept(_ context.Context, requesterID int64) ([]*models.ItemRequest, error) {
	return s.filterRequests(func(r models.ItemRequest) bool { return r.RequesterID != requesterID }), nil
}

func (s *MemoryStore) filterRequests(keep func(models.ItemRequest) bool) []*models.ItemRequest {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []*models.ItemRequest{}
	for _, r := range s.requests {
		if keep(r) {
			out = append(out, s.hydrateRequest(r))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

// hydrateRequest must be called with s.mu held.
func (s *MemoryStore) hydrateRequest(r models.ItemRequest) *models.ItemRequest {
	if u, ok := s.users[r.RequesterID]; ok {
		r.Requester = &u
	}
	return &r
}

// Comments

func (s *MemoryStore) CreateComment(_ context.Context, comment *models.Comment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	author, ok := s.users[comment.AuthorID]
	if !ok {
		return fmt.Errorf("user %d: %w", comment.AuthorID, domain.ErrNotFound)
	}
	if _, ok := s.items[comment.ItemID]; !ok {
		return fmt.Errorf("item %d: %w", comment.ItemID, domain.ErrNotFound)
	}
	comment.ID = s.commentSeq.Add(1)
	comment.CreatedAt = time.Now().UTC()
	comment.AuthorName = author.Name
	s.comments[comment.ID] = *comment
	return nil
}

func (s *MemoryStore) GetCommentsByItemIDs(_ context.Context, itemIDs []int64) ([]*models.Comment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	wanted := make(map[int64]bool, len(itemIDs))
	for _, id := range itemIDs {
		wanted[id] = true
	}

	out := []*models.Comment{}
	for _, c := range s.comments {
		if !wanted[c.ItemID] {
			continue
		}
		if u, ok := s.users[c.AuthorID]; ok {
			c.AuthorName = u.Name
		}
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
