package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/parkhub/parkhub-backend/internal/db"
	"github.com/parkhub/parkhub-backend/internal/entities"
)

type BookingRepository struct {
	DB *sql.DB
}

func NewBookingRepository(database *sql.DB) *BookingRepository {
	return &BookingRepository{DB: database}
}

const bookingColumns = `id, code, user_id, slot_id, vehicle_type, vehicle_plate, start_time, end_time,
	duration_hours, amount, currency, tier_id, status, created_at, updated_at`

func scanBooking(row interface{ Scan(...interface{}) error }, b *db.Booking) error {
	return row.Scan(
		&b.ID, &b.Code, &b.UserID, &b.SlotID, &b.VehicleType, &b.VehiclePlate,
		&b.StartTime, &b.EndTime, &b.DurationHours, &b.Amount, &b.Currency,
		&b.TierID, &b.Status, &b.CreatedAt, &b.UpdatedAt)
}

func (r *BookingRepository) Create(b *db.Booking) error {
	query := `
		INSERT INTO bookings (` + bookingColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`
	_, err := r.DB.Exec(query,
		b.ID, b.Code, b.UserID, b.SlotID, b.VehicleType, b.VehiclePlate,
		b.StartTime, b.EndTime, b.DurationHours, b.Amount, b.Currency,
		b.TierID, b.Status, b.CreatedAt, b.UpdatedAt)
	if err != nil {
		return fmt.Errorf("error inserting booking: %w", err)
	}
	return nil
}

func (r *BookingRepository) GetByCode(code string) (*db.Booking, error) {
	var b db.Booking
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE code = $1`
	err := scanBooking(r.DB.QueryRow(query, code), &b)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("booking with code '%s' not found: %w", code, err)
		}
		return nil, fmt.Errorf("error querying booking: %w", err)
	}
	return &b, nil
}

func (r *BookingRepository) GetByID(id string) (*db.Booking, error) {
	var b db.Booking
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`
	err := scanBooking(r.DB.QueryRow(query, id), &b)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("booking %s not found: %w", id, err)
		}
		return nil, fmt.Errorf("error querying booking: %w", err)
	}
	return &b, nil
}

// HasOverlap reports whether the slot already has a blocking booking
// intersecting [startTime, endTime).
func (r *BookingRepository) HasOverlap(slotID string, startTime, endTime time.Time) (bool, error) {
	var count int
	query := `
		SELECT COUNT(*) FROM bookings
		WHERE slot_id = $1
		  AND status IN ('pending', 'confirmed', 'active')
		  AND start_time < $3
		  AND end_time > $2`
	err := r.DB.QueryRow(query, slotID, startTime, endTime).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("error checking booking overlap: %w", err)
	}
	return count > 0, nil
}

func (r *BookingRepository) ListByUser(userID string, limit, offset int) (*entities.BookingsList, error) {
	var total int64
	if err := r.DB.QueryRow(`SELECT COUNT(*) FROM bookings WHERE user_id = $1`, userID).Scan(&total); err != nil {
		return nil, fmt.Errorf("error counting user bookings: %w", err)
	}

	query := `
		SELECT b.code, ps.slot_number, b.vehicle_type, b.vehicle_plate, b.start_time, b.end_time,
		       b.duration_hours, b.amount, b.currency, b.status, b.created_at, b.updated_at
		FROM bookings b
		JOIN parking_slots ps ON b.slot_id = ps.id
		WHERE b.user_id = $1
		ORDER BY b.start_time DESC
		LIMIT $2 OFFSET $3`
	rows, err := r.DB.Query(query, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("error listing user bookings: %w", err)
	}
	defer rows.Close()

	list := &entities.BookingsList{Total: total, Limit: limit, Offset: offset}
	for rows.Next() {
		var br entities.BookingResponse
		if err := rows.Scan(&br.Code, &br.SlotNumber, &br.VehicleType, &br.VehiclePlate, &br.StartTime, &br.EndTime,
			&br.DurationHours, &br.Amount, &br.Currency, &br.Status, &br.CreatedAt, &br.UpdatedAt); err != nil {
			return nil, fmt.Errorf("error scanning booking row: %w", err)
		}
		list.Bookings = append(list.Bookings, br)
	}
	return list, rows.Err()
}

// List returns bookings matching the optional admin filters.
func (r *BookingRepository) List(date, vehicleType, status string) ([]entities.BookingResponse, error) {
	query := `
		SELECT b.code, ps.slot_number, b.vehicle_type, b.vehicle_plate, b.start_time, b.end_time,
		       b.duration_hours, b.amount, b.currency, b.status, b.created_at, b.updated_at
		FROM bookings b
		JOIN parking_slots ps ON b.slot_id = ps.id
		WHERE 1=1`
	args := []interface{}{}
	if date != "" {
		args = append(args, date)
		query += fmt.Sprintf(" AND DATE(b.start_time) = $%d", len(args))
	}
	if vehicleType != "" {
		args = append(args, vehicleType)
		query += fmt.Sprintf(" AND b.vehicle_type = $%d", len(args))
	}
	if status != "" {
		args = append(args, status)
		query += fmt.Sprintf(" AND b.status = $%d", len(args))
	}
	query += ` ORDER BY b.start_time DESC`

	rows, err := r.DB.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing bookings: %w", err)
	}
	defer rows.Close()

	var bookings []entities.BookingResponse
	for rows.Next() {
		var br entities.BookingResponse
		if err := rows.Scan(&br.Code, &br.SlotNumber, &br.VehicleType, &br.VehiclePlate, &br.StartTime, &br.EndTime,
			&br.DurationHours, &br.Amount, &br.Currency, &br.Status, &br.CreatedAt, &br.UpdatedAt); err != nil {
			return nil, fmt.Errorf("error scanning booking row: %w", err)
		}
		bookings = append(bookings, br)
	}
	return bookings, rows.Err()
}

func (r *BookingRepository) UpdateStatus(id, status string) error {
	result, err := r.DB.Exec(`UPDATE bookings SET status = $1, updated_at = NOW() WHERE id = $2`, status, id)
	if err != nil {
		return fmt.Errorf("error updating booking status: %w", err)
	}
	rows, err := result.RowsAffected()
	if err == nil && rows == 0 {
		return fmt.Errorf("booking %s not found", id)
	}
	return nil
}

func (r *BookingRepository) Delete(id string) error {
	result, err := r.DB.Exec(`DELETE FROM bookings WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting booking: %w", err)
	}
	rows, err := result.RowsAffected()
	if err == nil && rows == 0 {
		return fmt.Errorf("booking %s not found", id)
	}
	return nil
}

func (r *BookingRepository) CountByStatus(status string) (int, error) {
	var count int
	err := r.DB.QueryRow(`SELECT COUNT(*) FROM bookings WHERE status = $1`, status).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("error counting bookings: %w", err)
	}
	return count, nil
}

func (r *BookingRepository) CompletedTodayCount() (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM bookings WHERE status = 'completed' AND DATE(updated_at) = CURRENT_DATE`
	if err := r.DB.QueryRow(query).Scan(&count); err != nil {
		return 0, fmt.Errorf("error counting completed bookings: %w", err)
	}
	return count, nil
}
