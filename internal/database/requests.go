package database

import (
	"context"
	"fmt"
	"time"

	"shareit/internal/models"
)

const requestSelect = `SELECT r.id, r.description, r.requester_id, r.created_at,
       u.id, u.name, u.email, u.created_at, u.updated_at
FROM item_requests r
JOIN users u ON u.id = r.requester_id`

func (db *DB) CreateItemRequest(ctx context.Context, req *models.ItemRequest) error {
	query := `INSERT INTO item_requests (description, requester_id, created_at) VALUES (?, ?, ?)`
	now := time.Now().UTC()
	result, err := db.ExecContext(ctx, query, req.Description, req.RequesterID, formatTime(now))
	if err != nil {
		return fmt.Errorf("failed to create item request: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	req.ID = id
	req.CreatedAt = now
	return nil
}

func (db *DB) GetItemRequest(ctx context.Context, id int64) (*models.ItemRequest, error) {
	req, err := scanItemRequest(db.QueryRowContext(ctx, requestSelect+` WHERE r.id = ?`, id))
	if err != nil {
		return nil, notFound(err, "item request", id)
	}
	return req, nil
}

// GetItemRequestsByRequester возвращает запросы пользователя, новые первыми
func (db *DB) GetItemRequestsByRequester(ctx context.Context, requesterID int64) ([]*models.ItemRequest, error) {
	return db.queryItemRequests(ctx, requestSelect+` WHERE r.requester_id = ? ORDER BY r.created_at DESC, r.id DESC`, requesterID)
}

// GetItemRequestsExcept возвращает запросы остальных пользователей, новые первыми
func (db *DB) GetItemRequestsExcept(ctx context.Context, requesterID int64) ([]*models.ItemRequest, error) {
	return db.queryItemRequests(ctx, requestSelect+` WHERE r.requester_id <> ? ORDER BY r.created_at DESC, r.id DESC`, requesterID)
}

func (db *DB) queryItemRequests(ctx context.Context, query string, args ...interface{}) ([]*models.ItemRequest, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query item requests: %w", err)
	}
	defer rows.Close()

	reqs := []*models.ItemRequest{}
	for rows.Next() {
		r, err := scanItemRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan item request: %w", err)
		}
		reqs = append(reqs, r)
	}
	return reqs, rows.Err()
}

func scanItemRequest(s rowScanner) (*models.ItemRequest, error) {
	var (
		r                           models.ItemRequest
		requester                   models.User
		created, uCreated, uUpdated string
	)
	err := s.Scan(&r.ID, &r.Description, &r.RequesterID, &created,
		&requester.ID, &requester.Name, &requester.Email, &uCreated, &uUpdated)
	if err != nil {
		return nil, err
	}
	if r.CreatedAt, err = parseTime(created); err != nil {
		return nil, err
	}
	if requester.CreatedAt, err = parseTime(uCreated); err != nil {
		return nil, err
	}
	if requester.UpdatedAt, err = parseTime(uUpdated); err != nil {
		return nil, err
	}
	r.Requester = &requester
	return &r, nil
}
