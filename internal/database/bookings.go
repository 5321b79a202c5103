package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"gpubook/internal/models"
)

const bookingColumns = `id, email, node, gpu, start_date, start_hour,
	end_date, end_hour, duration_hours, display_start, display_end, created_at`

// Insert persists a finalized booking and returns its assigned id.
func (db *DB) Insert(ctx context.Context, b *models.Booking) (int64, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	result, err := tx.ExecContext(ctx, `
		INSERT INTO bookings (
			email, node, gpu, start_date, start_hour,
			end_date, end_hour, duration_hours, display_start, display_end, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		b.Email, b.Node, b.GPU,
		b.StartDate.Format(models.DateLayout), b.StartHour,
		b.EndDate.Format(models.DateLayout), b.EndHour,
		b.DurationHours, b.Start, b.End, time.Now(),
	)
	if err != nil {
		return 0, fmt.Errorf("insert booking: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("get last id: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return id, nil
}

// FindByResourceAndDates returns bookings for the resource whose start or end
// date equals any of the given dates. This is the conflict-check pool: both
// duration caps are 24h, so any real overlap lands on one of these dates.
func (db *DB) FindByResourceAndDates(ctx context.Context, node, gpu int, dates ...time.Time) ([]models.Booking, error) {
	if len(dates) == 0 {
		return nil, nil
	}

	placeholders := strings.TrimRight(strings.Repeat("?,", len(dates)), ",")
	args := make([]interface{}, 0, 2+2*len(dates))
	args = append(args, node, gpu)
	for _, d := range dates {
		args = append(args, d.Format(models.DateLayout))
	}
	for _, d := range dates {
		args = append(args, d.Format(models.DateLayout))
	}

	query := fmt.Sprintf(`
		SELECT %s FROM bookings
		WHERE node = ? AND gpu = ?
		  AND (start_date IN (%s) OR end_date IN (%s))
		ORDER BY start_date, start_hour`,
		bookingColumns, placeholders, placeholders)

	return db.queryBookings(ctx, query, args...)
}

// FindByEmail returns all bookings made under the given contact email.
func (db *DB) FindByEmail(ctx context.Context, email string) ([]models.Booking, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM bookings WHERE email = ?
		ORDER BY start_date, start_hour`, bookingColumns)
	return db.queryBookings(ctx, query, email)
}

// FindByNode returns all bookings on the given node, across all GPUs.
func (db *DB) FindByNode(ctx context.Context, node int) ([]models.Booking, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM bookings WHERE node = ?
		ORDER BY start_date, start_hour, gpu`, bookingColumns)
	return db.queryBookings(ctx, query, node)
}

// GetByID returns a single booking, or nil without error if absent.
func (db *DB) GetByID(ctx context.Context, id int64) (*models.Booking, error) {
	query := fmt.Sprintf(`SELECT %s FROM bookings WHERE id = ?`, bookingColumns)
	row := db.QueryRowContext(ctx, query, id)

	b, err := scanBooking(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return b, nil
}

// DeleteByID removes a booking; reports whether a row was deleted.
func (db *DB) DeleteByID(ctx context.Context, id int64) (bool, error) {
	result, err := db.ExecContext(ctx, `DELETE FROM bookings WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("delete booking: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanBooking(row rowScanner) (*models.Booking, error) {
	var b models.Booking
	var startDate, endDate string
	if err := row.Scan(
		&b.ID, &b.Email, &b.Node, &b.GPU, &startDate, &b.StartHour,
		&endDate, &b.EndHour, &b.DurationHours, &b.Start, &b.End, &b.CreatedAt,
	); err != nil {
		return nil, err
	}

	var err error
	if b.StartDate, err = time.Parse(models.DateLayout, startDate); err != nil {
		return nil, fmt.Errorf("parse start_date %q: %w", startDate, err)
	}
	if b.EndDate, err = time.Parse(models.DateLayout, endDate); err != nil {
		return nil, fmt.Errorf("parse end_date %q: %w", endDate, err)
	}
	return &b, nil
}

func (db *DB) queryBookings(ctx context.Context, query string, args ...interface{}) ([]models.Booking, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bookings []models.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, *b)
	}
	return bookings, rows.Err()
}
