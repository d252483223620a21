package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"shareit/internal/models"
)

const itemColumns = `i.id, i.name, i.description, i.available, i.owner_id, i.request_id, i.created_at, i.updated_at`

func (db *DB) CreateItem(ctx context.Context, item *models.Item) error {
	query := `INSERT INTO items (name, description, available, owner_id, request_id, created_at, updated_at)
              VALUES (?, ?, ?, ?, ?, ?, ?)`
	now := time.Now().UTC()
	result, err := db.ExecContext(ctx, query,
		item.Name,
		item.Description,
		item.Available,
		item.OwnerID,
		nullInt64(item.RequestID),
		formatTime(now),
		formatTime(now),
	)
	if err != nil {
		return fmt.Errorf("failed to create item: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	item.ID = id
	item.CreatedAt = now
	item.UpdatedAt = now
	return nil
}

// UpdateItem сохраняет изменяемые поля; владелец и запрос не меняются.
func (db *DB) UpdateItem(ctx context.Context, item *models.Item) error {
	query := `UPDATE items SET name = ?, description = ?, available = ?, updated_at = ? WHERE id = ?`
	now := time.Now().UTC()
	result, err := db.ExecContext(ctx, query, item.Name, item.Description, item.Available, formatTime(now), item.ID)
	if err != nil {
		return fmt.Errorf("failed to update item: %w", err)
	}
	if err := checkAffected(result, "item", item.ID); err != nil {
		return err
	}
	item.UpdatedAt = now
	return nil
}

func (db *DB) GetItemByID(ctx context.Context, id int64) (*models.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items i WHERE i.id = ?`
	item, err := scanItem(db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, notFound(err, "item", id)
	}
	return item, nil
}

func (db *DB) GetItemsByOwner(ctx context.Context, ownerID int64) ([]*models.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items i WHERE i.owner_id = ? ORDER BY i.id`
	return db.queryItems(ctx, query, ownerID)
}

func (db *DB) GetItemsByRequestIDs(ctx context.Context, requestIDs []int64) ([]*models.Item, error) {
	if len(requestIDs) == 0 {
		return []*models.Item{}, nil
	}
	query := `SELECT ` + itemColumns + ` FROM items i WHERE i.request_id IN (` + placeholders(len(requestIDs)) + `) ORDER BY i.id`
	return db.queryItems(ctx, query, int64Args(requestIDs)...)
}

// SearchAvailableItems ищет подстроку в названии или описании без учета регистра
func (db *DB) SearchAvailableItems(ctx context.Context, text string) ([]*models.Item, error) {
	if strings.TrimSpace(text) == "" {
		return []*models.Item{}, nil
	}
	query := `SELECT ` + itemColumns + ` FROM items i
              WHERE i.available = 1
              AND (ulower(i.name) LIKE ? ESCAPE '\' OR ulower(i.description) LIKE ? ESCAPE '\')
              ORDER BY i.id`
	pattern := likePattern(text)
	return db.queryItems(ctx, query, pattern, pattern)
}

func (db *DB) queryItems(ctx context.Context, query string, args ...interface{}) ([]*models.Item, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query items: %w", err)
	}
	defer rows.Close()

	items := []*models.Item{}
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func scanItem(s rowScanner) (*models.Item, error) {
	var (
		item             models.Item
		requestID        sql.NullInt64
		created, updated string
	)
	err := s.Scan(&item.ID, &item.Name, &item.Description, &item.Available, &item.OwnerID, &requestID, &created, &updated)
	if err != nil {
		return nil, err
	}
	if requestID.Valid {
		id := requestID.Int64
		item.RequestID = &id
	}
	if item.CreatedAt, err = parseTime(created); err != nil {
		return nil, err
	}
	if item.UpdatedAt, err = parseTime(updated); err != nil {
		return nil, err
	}
	return &item, nil
}

func nullInt64(v *int64) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *v, Valid: true}
}
