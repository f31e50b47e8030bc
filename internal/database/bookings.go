package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"sharehub/internal/domain"
	"sharehub/internal/models"
)

// bookingSelect joins items and users so every booking row carries the
// item owner and the denormalized names the API emits.
const bookingSelect = `SELECT b.id, b.item_id, i.name, i.owner_id, b.booker_id, u.name, b.start_date, b.end_date, b.status
    FROM bookings b
    JOIN items i ON i.id = b.item_id
    JOIN users u ON u.id = b.booker_id`

func scanBooking(row interface{ Scan(...any) error }) (*models.Booking, error) {
	var b models.Booking
	var start, end string
	err := row.Scan(&b.ID, &b.ItemID, &b.ItemName, &b.OwnerID, &b.BookerID, &b.BookerName, &start, &end, &b.Status)
	if err != nil {
		return nil, err
	}
	if b.Start, err = models.ParseDateTime(start); err != nil {
		return nil, err
	}
	if b.End, err = models.ParseDateTime(end); err != nil {
		return nil, err
	}
	return &b, nil
}

func (db *DB) CreateBooking(ctx context.Context, booking *models.Booking) error {
	query := `INSERT INTO bookings (item_id, booker_id, start_date, end_date, status) VALUES (?, ?, ?, ?, ?)`
	result, err := db.ExecContext(ctx, query,
		booking.ItemID,
		booking.BookerID,
		booking.Start.String(),
		booking.End.String(),
		booking.Status,
	)
	if err != nil {
		return fmt.Errorf("create booking: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("create booking id: %w", err)
	}
	booking.ID = id
	return nil
}

func (db *DB) GetBookingByID(ctx context.Context, id int64) (*models.Booking, error) {
	booking, err := scanBooking(db.QueryRowContext(ctx, bookingSelect+` WHERE b.id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("booking %d: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get booking %d: %w", id, err)
	}
	return booking, nil
}

// UpdateBookingStatusIfWaiting flips the status only while the row is
// still WAITING, so two racing approvals cannot both win.
func (db *DB) UpdateBookingStatusIfWaiting(ctx context.Context, id int64, status models.BookingStatus) error {
	query := `UPDATE bookings SET status = ? WHERE id = ? AND status = ?`
	result, err := db.ExecContext(ctx, query, status, id, models.StatusWaiting)
	if err != nil {
		return fmt.Errorf("update booking %d status: %w", id, err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("booking %d: %w", id, domain.ErrStatusAlreadySet)
	}
	return nil
}

func stateClause(state models.BookingState, now time.Time) (string, []any) {
	nowStr := models.NewDateTime(now).String()
	switch state {
	case models.StateCurrent:
		return ` AND ? BETWEEN b.start_date AND b.end_date`, []any{nowStr}
	case models.StatePast:
		return ` AND b.end_date < ?`, []any{nowStr}
	case models.StateFuture:
		return ` AND b.start_date > ?`, []any{nowStr}
	case models.StateWaiting, models.StateRejected:
		return ` AND b.status = ?`, []any{string(state)}
	default: // ALL
		return ``, nil
	}
}

func roleClause(role models.BookingRole) string {
	if role == models.RoleOwner {
		return ` WHERE i.owner_id = ?`
	}
	return ` WHERE b.booker_id = ?`
}

func (db *DB) ListBookingsByState(ctx context.Context, subjectID int64, role models.BookingRole, state models.BookingState, now time.Time, limit, offset int) ([]models.Booking, error) {
	filter, filterArgs := stateClause(state, now)
	query := bookingSelect + roleClause(role) + filter + ` ORDER BY b.start_date DESC`
	args := append([]any{subjectID}, filterArgs...)
	if limit > 0 {
		query += ` LIMIT ? OFFSET ?`
		args = append(args, limit, offset)
	}

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	defer rows.Close()

	var bookings []models.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("scan booking: %w", err)
		}
		bookings = append(bookings, *b)
	}
	return bookings, rows.Err()
}

func (db *DB) CountBookingsByState(ctx context.Context, subjectID int64, role models.BookingRole, state models.BookingState, now time.Time) (int, error) {
	filter, filterArgs := stateClause(state, now)
	query := `SELECT COUNT(*) FROM bookings b JOIN items i ON i.id = b.item_id` + roleClause(role) + filter
	args := append([]any{subjectID}, filterArgs...)

	var count int
	if err := db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count bookings: %w", err)
	}
	return count, nil
}

func (db *DB) FindLastBooking(ctx context.Context, itemID int64, now time.Time) (*models.BookingPreview, error) {
	query := `SELECT id, booker_id, start_date FROM bookings
              WHERE item_id = ? AND start_date < ?
              ORDER BY start_date DESC LIMIT 1`
	return db.findPreview(ctx, query, itemID, models.NewDateTime(now).String())
}

func (db *DB) FindNextBooking(ctx context.Context, itemID int64, now time.Time) (*models.BookingPreview, error) {
	query := `SELECT id, booker_id, start_date FROM bookings
              WHERE item_id = ? AND start_date > ? AND status != 'REJECTED'
              ORDER BY start_date LIMIT 1`
	return db.findPreview(ctx, query, itemID, models.NewDateTime(now).String())
}

func (db *DB) findPreview(ctx context.Context, query string, args ...any) (*models.BookingPreview, error) {
	var p models.BookingPreview
	var start string
	err := db.QueryRowContext(ctx, query, args...).Scan(&p.ID, &p.BookerID, &start)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find booking preview: %w", err)
	}
	if p.Start, err = models.ParseDateTime(start); err != nil {
		return nil, err
	}
	return &p, nil
}

func (db *DB) FindLastBookings(ctx context.Context, itemIDs []int64, now time.Time) (map[int64]models.BookingPreview, error) {
	marks, args := placeholders(itemIDs)
	query := `SELECT b.item_id, b.id, b.booker_id, b.start_date FROM bookings b
              JOIN (SELECT item_id, MAX(start_date) AS start_date FROM bookings
                    WHERE item_id IN (` + marks + `) AND start_date < ?
                    GROUP BY item_id) last
                ON b.item_id = last.item_id AND b.start_date = last.start_date`
	args = append(args, models.NewDateTime(now).String())
	return db.collectPreviews(ctx, query, args...)
}

func (db *DB) FindNextBookings(ctx context.Context, itemIDs []int64, now time.Time) (map[int64]models.BookingPreview, error) {
	marks, args := placeholders(itemIDs)
	query := `SELECT b.item_id, b.id, b.booker_id, b.start_date FROM bookings b
              JOIN (SELECT item_id, MIN(start_date) AS start_date FROM bookings
                    WHERE item_id IN (` + marks + `) AND start_date > ? AND status != 'REJECTED'
                    GROUP BY item_id) next
                ON b.item_id = next.item_id AND b.start_date = next.start_date
              WHERE b.status != 'REJECTED'`
	args = append(args, models.NewDateTime(now).String())
	return db.collectPreviews(ctx, query, args...)
}

func (db *DB) collectPreviews(ctx context.Context, query string, args ...any) (map[int64]models.BookingPreview, error) {
	previews := make(map[int64]models.BookingPreview)
	if len(args) == 1 { // only the time bound, no item ids
		return previews, nil
	}

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("find booking previews: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var itemID int64
		var p models.BookingPreview
		var start string
		if err := rows.Scan(&itemID, &p.ID, &p.BookerID, &start); err != nil {
			return nil, fmt.Errorf("scan booking preview: %w", err)
		}
		if p.Start, err = models.ParseDateTime(start); err != nil {
			return nil, err
		}
		previews[itemID] = p
	}
	return previews, rows.Err()
}

func (db *DB) ExistsApprovedStarted(ctx context.Context, bookerID, itemID int64, now time.Time) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM bookings
              WHERE booker_id = ? AND item_id = ? AND status = ? AND start_date < ?)`
	err := db.QueryRowContext(ctx, query, bookerID, itemID, models.StatusApproved, models.NewDateTime(now).String()).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check approved booking: %w", err)
	}
	return exists, nil
}

func (db *DB) CountBookingsByBooker(ctx context.Context, bookerID int64) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM bookings WHERE booker_id = ?`
	if err := db.QueryRowContext(ctx, query, bookerID).Scan(&count); err != nil {
		return 0, fmt.Errorf("count bookings by booker %d: %w", bookerID, err)
	}
	return count, nil
}

func (db *DB) CountBookingsByItem(ctx context.Context, itemID int64) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM bookings WHERE item_id = ?`
	if err := db.QueryRowContext(ctx, query, itemID).Scan(&count); err != nil {
		return 0, fmt.Errorf("count bookings by item %d: %w", itemID, err)
	}
	return count, nil
}
