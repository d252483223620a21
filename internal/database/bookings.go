package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"shareit/internal/models"
)

const bookingSelect = `SELECT b.id, b.start_at, b.end_at, b.item_id, b.booker_id, b.status, b.created_at, b.updated_at,
       ` + itemColumns + `,
       u.id, u.name, u.email, u.created_at, u.updated_at
FROM bookings b
JOIN items i ON i.id = b.item_id
JOIN users u ON u.id = b.booker_id`

func (db *DB) CreateBooking(ctx context.Context, booking *models.Booking) error {
	query := `INSERT INTO bookings (start_at, end_at, item_id, booker_id, status, created_at, updated_at)
              VALUES (?, ?, ?, ?, ?, ?, ?)`
	now := time.Now().UTC()
	result, err := db.ExecContext(ctx, query,
		formatTime(booking.Start),
		formatTime(booking.End),
		booking.ItemID,
		booking.BookerID,
		booking.Status,
		formatTime(now),
		formatTime(now),
	)
	if err != nil {
		return fmt.Errorf("failed to create booking: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	booking.ID = id
	booking.CreatedAt = now
	booking.UpdatedAt = now
	return nil
}

func (db *DB) UpdateBookingStatus(ctx context.Context, id int64, status models.BookingStatus) error {
	query := `UPDATE bookings SET status = ?, updated_at = ? WHERE id = ?`
	result, err := db.ExecContext(ctx, query, status, formatTime(time.Now()), id)
	if err != nil {
		return fmt.Errorf("failed to update booking status: %w", err)
	}
	return checkAffected(result, "booking", id)
}

func (db *DB) GetBooking(ctx context.Context, id int64) (*models.Booking, error) {
	booking, err := scanBooking(db.QueryRowContext(ctx, bookingSelect+` WHERE b.id = ?`, id))
	if err != nil {
		return nil, notFound(err, "booking", id)
	}
	return booking, nil
}

// FindBookings собирает WHERE из заполненных полей запроса.
func (db *DB) FindBookings(ctx context.Context, q models.BookingQuery) ([]*models.Booking, error) {
	var (
		conds []string
		args  []interface{}
	)
	if q.BookerID != 0 {
		conds = append(conds, "b.booker_id = ?")
		args = append(args, q.BookerID)
	}
	if q.OwnerID != 0 {
		conds = append(conds, "i.owner_id = ?")
		args = append(args, q.OwnerID)
	}
	if len(q.ItemIDs) > 0 {
		conds = append(conds, "b.item_id IN ("+placeholders(len(q.ItemIDs))+")")
		args = append(args, int64Args(q.ItemIDs)...)
	}
	if q.Status != "" {
		conds = append(conds, "b.status = ?")
		args = append(args, q.Status)
	}
	if q.StartBefore != nil {
		conds = append(conds, "b.start_at <= ?")
		args = append(args, formatTime(*q.StartBefore))
	}
	if q.StartAfter != nil {
		conds = append(conds, "b.start_at > ?")
		args = append(args, formatTime(*q.StartAfter))
	}
	if q.EndBefore != nil {
		conds = append(conds, "b.end_at < ?")
		args = append(args, formatTime(*q.EndBefore))
	}
	if q.EndAfter != nil {
		conds = append(conds, "b.end_at >= ?")
		args = append(args, formatTime(*q.EndAfter))
	}

	query := bookingSelect
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY b.start_at DESC, b.id DESC"

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to find bookings: %w", err)
	}
	defer rows.Close()

	bookings := []*models.Booking{}
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan booking: %w", err)
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}

func scanBooking(s rowScanner) (*models.Booking, error) {
	var (
		b                                  models.Booking
		item                               models.Item
		booker                             models.User
		requestID                          sql.NullInt64
		start, end, bCreated, bUpdated     string
		iCreated, iUpdated, uCreated, uUpd string
	)
	err := s.Scan(
		&b.ID, &start, &end, &b.ItemID, &b.BookerID, &b.Status, &bCreated, &bUpdated,
		&item.ID, &item.Name, &item.Description, &item.Available, &item.OwnerID, &requestID, &iCreated, &iUpdated,
		&booker.ID, &booker.Name, &booker.Email, &uCreated, &uUpd,
	)
	if err != nil {
		return nil, err
	}
	if requestID.Valid {
		id := requestID.Int64
		item.RequestID = &id
	}

	targets := []struct {
		raw string
		dst *time.Time
	}{
		{start, &b.Start}, {end, &b.End}, {bCreated, &b.CreatedAt}, {bUpdated, &b.UpdatedAt},
		{iCreated, &item.CreatedAt}, {iUpdated, &item.UpdatedAt},
		{uCreated, &booker.CreatedAt}, {uUpd, &booker.UpdatedAt},
	}
	for _, t := range targets {
		if *t.dst, err = parseTime(t.raw); err != nil {
			return nil, err
		}
	}

	b.Item = &item
	b.Booker = &booker
	return &b, nil
}
