package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/parkhub/parkhub-backend/internal/db"
)

type SlotRepository struct {
	DB *sql.DB
}

func NewSlotRepository(database *sql.DB) *SlotRepository {
	return &SlotRepository{DB: database}
}

func (r *SlotRepository) Create(s *db.ParkingSlot) error {
	query := `
		INSERT INTO parking_slots (id, slot_number, floor, section, slot_type, status, hourly_rate, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.DB.Exec(query,
		s.ID, s.SlotNumber, s.Floor, s.Section, s.SlotType, s.Status, s.HourlyRate, s.CreatedAt, s.UpdatedAt)
	if err != nil {
		return fmt.Errorf("error inserting parking slot: %w", err)
	}
	return nil
}

func (r *SlotRepository) GetByID(id string) (*db.ParkingSlot, error) {
	var s db.ParkingSlot
	query := `
		SELECT id, slot_number, floor, section, slot_type, status, hourly_rate, created_at, updated_at
		FROM parking_slots WHERE id = $1`
	err := r.DB.QueryRow(query, id).Scan(
		&s.ID, &s.SlotNumber, &s.Floor, &s.Section, &s.SlotType, &s.Status, &s.HourlyRate, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("parking slot %s not found: %w", id, err)
		}
		return nil, fmt.Errorf("error querying parking slot: %w", err)
	}
	return &s, nil
}

func (r *SlotRepository) List(status, slotType string) ([]db.ParkingSlot, error) {
	query := `
		SELECT id, slot_number, floor, section, slot_type, status, hourly_rate, created_at, updated_at
		FROM parking_slots WHERE 1=1`
	args := []interface{}{}
	if status != "" {
		args = append(args, status)
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}
	if slotType != "" {
		args = append(args, slotType)
		query += fmt.Sprintf(" AND slot_type = $%d", len(args))
	}
	query += ` ORDER BY floor, slot_number`

	rows, err := r.DB.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing parking slots: %w", err)
	}
	defer rows.Close()

	var slots []db.ParkingSlot
	for rows.Next() {
		var s db.ParkingSlot
		if err := rows.Scan(&s.ID, &s.SlotNumber, &s.Floor, &s.Section, &s.SlotType, &s.Status, &s.HourlyRate, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("error scanning parking slot: %w", err)
		}
		slots = append(slots, s)
	}
	return slots, rows.Err()
}

func (r *SlotRepository) Update(s *db.ParkingSlot) error {
	query := `
		UPDATE parking_slots
		SET slot_number = $1, floor = $2, section = $3, slot_type = $4, status = $5, hourly_rate = $6, updated_at = NOW()
		WHERE id = $7`
	result, err := r.DB.Exec(query, s.SlotNumber, s.Floor, s.Section, s.SlotType, s.Status, s.HourlyRate, s.ID)
	if err != nil {
		return fmt.Errorf("error updating parking slot: %w", err)
	}
	rows, err := result.RowsAffected()
	if err == nil && rows == 0 {
		return fmt.Errorf("parking slot %s not found", s.ID)
	}
	return nil
}

func (r *SlotRepository) UpdateStatus(id, status string) error {
	result, err := r.DB.Exec(`UPDATE parking_slots SET status = $1, updated_at = NOW() WHERE id = $2`, status, id)
	if err != nil {
		return fmt.Errorf("error updating slot status: %w", err)
	}
	rows, err := result.RowsAffected()
	if err == nil && rows == 0 {
		return fmt.Errorf("parking slot %s not found", id)
	}
	return nil
}

func (r *SlotRepository) Delete(id string) error {
	result, err := r.DB.Exec(`DELETE FROM parking_slots WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting parking slot: %w", err)
	}
	rows, err := result.RowsAffected()
	if err == nil && rows == 0 {
		return fmt.Errorf("parking slot %s not found", id)
	}
	return nil
}

func (r *SlotRepository) CountByStatus() (total, available, occupied int, err error) {
	query := `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE status = 'available'),
		       COUNT(*) FILTER (WHERE status = 'occupied')
		FROM parking_slots`
	err = r.DB.QueryRow(query).Scan(&total, &available, &occupied)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("error counting slots: %w", err)
	}
	return total, available, occupied, nil
}
