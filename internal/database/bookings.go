package database

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"shareit/internal/models"
)

func (db *DB) CreateBooking(ctx context.Context, booking *models.Booking) error {
	query := `INSERT INTO bookings (item_id, booker_id, start_at, end_at, status, created_at)
              VALUES (?, ?, ?, ?, ?, ?)`

	now := time.Now()
	result, err := db.db.ExecContext(ctx, query,
		booking.ItemID,
		booking.BookerID,
		booking.Start,
		booking.End,
		booking.Status,
		now,
	)
	if err != nil {
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}

	booking.ID = id
	booking.CreatedAt = now
	return nil
}

func (db *DB) GetBookingByID(ctx context.Context, id int64) (*models.Booking, error) {
	query := `SELECT id, item_id, booker_id, start_at, end_at, status, created_at
              FROM bookings WHERE id = ?`

	var booking models.Booking
	err := db.db.QueryRowContext(ctx, query, id).Scan(
		&booking.ID,
		&booking.ItemID,
		&booking.BookerID,
		&booking.Start,
		&booking.End,
		&booking.Status,
		&booking.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &booking, nil
}

func (db *DB) UpdateBookingStatus(ctx context.Context, id int64, status models.BookingStatus) error {
	query := `UPDATE bookings SET status = ? WHERE id = ?`

	_, err := db.db.ExecContext(ctx, query, status, id)
	return err
}

func (db *DB) ListBookingsByBooker(ctx context.Context, bookerID int64) ([]*models.Booking, error) {
	query := `SELECT id, item_id, booker_id, start_at, end_at, status, created_at
              FROM bookings WHERE booker_id = ? ORDER BY start_at DESC`

	rows, err := db.db.QueryContext(ctx, query, bookerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanBookings(rows)
}

func (db *DB) ListBookingsByOwner(ctx context.Context, ownerID int64) ([]*models.Booking, error) {
	query := `SELECT b.id, b.item_id, b.booker_id, b.start_at, b.end_at, b.status, b.created_at
              FROM bookings b
              JOIN items i ON i.id = b.item_id
              WHERE i.owner_id = ?
              ORDER BY b.start_at DESC`

	rows, err := db.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanBookings(rows)
}

func (db *DB) ListBookingsByItem(ctx context.Context, itemID int64) ([]*models.Booking, error) {
	query := `SELECT id, item_id, booker_id, start_at, end_at, status, created_at
              FROM bookings WHERE item_id = ? ORDER BY start_at`

	rows, err := db.db.QueryContext(ctx, query, itemID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanBookings(rows)
}

func (db *DB) ListAllBookings(ctx context.Context) ([]*models.Booking, error) {
	query := `SELECT id, item_id, booker_id, start_at, end_at, status, created_at
              FROM bookings ORDER BY start_at DESC`

	rows, err := db.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanBookings(rows)
}

func (db *DB) HasFinishedApprovedBooking(ctx context.Context, bookerID, itemID int64, before time.Time) (bool, error) {
	query := `SELECT COUNT(*)
              FROM bookings
              WHERE booker_id = ?
                AND item_id = ?
                AND end_at < ?
                AND status = ?`

	var count int
	err := db.db.QueryRowContext(ctx, query, bookerID, itemID, before, models.StatusApproved).Scan(&count)
	if err != nil {
		return false, err
	}

	return count > 0, nil
}

func scanBookings(rows *sql.Rows) ([]*models.Booking, error) {
	var bookings []*models.Booking
	for rows.Next() {
		var booking models.Booking
		err := rows.Scan(
			&booking.ID,
			&booking.ItemID,
			&booking.BookerID,
			&booking.Start,
			&booking.End,
			&booking.Status,
			&booking.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, &booking)
	}
	return bookings, rows.Err()
}
