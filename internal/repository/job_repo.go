package repository

import (
	"database/sql"
	"fmt"
	"log"
	"time"

	"github.com/lib/pq"

	"github.com/parkhub/parkhub-backend/internal/db"
)

type JobRepository struct {
	DB *sql.DB
}

func NewJobRepository(database *sql.DB) *JobRepository {
	return &JobRepository{DB: database}
}

// GetActiveBookingIDsPastEndTime finds active bookings whose end time
// has already passed, together with the slots they occupy.
func (r *JobRepository) GetActiveBookingIDsPastEndTime() (bookingIDs, slotIDs []string, err error) {
	query := `SELECT id, slot_id FROM bookings WHERE status = $1 AND end_time < NOW()`
	rows, err := r.DB.Query(query, db.BookingActive)
	if err != nil {
		return nil, nil, fmt.Errorf("error querying active bookings past end time: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var bookingID, slotID string
		if err := rows.Scan(&bookingID, &slotID); err != nil {
			return nil, nil, fmt.Errorf("error scanning booking ID: %w", err)
		}
		bookingIDs = append(bookingIDs, bookingID)
		slotIDs = append(slotIDs, slotID)
	}
	if err = rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error after iterating rows: %w", err)
	}
	return bookingIDs, slotIDs, nil
}

func (r *JobRepository) UpdateBookingStatuses(ids []string, newStatus string) error {
	if len(ids) == 0 {
		return nil
	}
	query := `UPDATE bookings SET status = $1, updated_at = NOW() WHERE id = ANY($2)`
	result, err := r.DB.Exec(query, newStatus, pq.Array(ids))
	if err != nil {
		return fmt.Errorf("error updating booking statuses: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		log.Printf("Could not get rows affected: %v", err)
	} else {
		log.Printf("Updated status for %d bookings to '%s'", rowsAffected, newStatus)
	}
	return nil
}

func (r *JobRepository) ReleaseSlots(slotIDs []string) error {
	if len(slotIDs) == 0 {
		return nil
	}
	query := `UPDATE parking_slots SET status = $2, updated_at = NOW() WHERE id = ANY($1) AND status IN ($3, $4)`
	if _, err := r.DB.Exec(query, pq.Array(slotIDs), db.SlotAvailable, db.SlotOccupied, db.SlotReserved); err != nil {
		return fmt.Errorf("error releasing slots: %w", err)
	}
	return nil
}

// ExpirePendingBookingsOlderThan marks unpaid pending bookings created
// before the cutoff as expired and frees their reserved slots.
func (r *JobRepository) ExpirePendingBookingsOlderThan(before time.Time) (int64, error) {
	query := `
		WITH expired AS (
			UPDATE bookings SET status = $2, updated_at = NOW()
			WHERE status = $3 AND created_at < $1
			RETURNING slot_id
		)
		UPDATE parking_slots SET status = $4, updated_at = NOW()
		WHERE id IN (SELECT slot_id FROM expired) AND status = $5`
	result, err := r.DB.Exec(query, before, db.BookingExpired, db.BookingPending, db.SlotAvailable, db.SlotReserved)
	if err != nil {
		return 0, fmt.Errorf("error expiring pending bookings: %w", err)
	}
	return result.RowsAffected()
}
