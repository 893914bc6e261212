package repository

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/parkhub/parkhub-backend/internal/pricing"
)

// TierRepository persists pricing tiers. Discounts and surcharges are
// JSONB documents; the slot allow-list is a text[] column.
type TierRepository struct {
	DB *sql.DB
}

func NewTierRepository(database *sql.DB) *TierRepository {
	return &TierRepository{DB: database}
}

const tierColumns = `id, name, description, vehicle_type, base_price, currency, pricing_type,
	min_duration_hours, max_duration_hours, discounts, surcharges, is_active, priority,
	valid_from, valid_until, applicable_slots`

func (r *TierRepository) Create(t *pricing.Tier) error {
	discounts, err := json.Marshal(t.Discounts)
	if err != nil {
		return fmt.Errorf("error encoding discounts: %w", err)
	}
	surcharges, err := json.Marshal(t.Surcharges)
	if err != nil {
		return fmt.Errorf("error encoding surcharges: %w", err)
	}

	query := `
		INSERT INTO pricing_tiers (` + tierColumns + `, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, NOW(), NOW())`
	_, err = r.DB.Exec(query,
		t.ID, t.Name, t.Description, t.VehicleType, t.BasePrice, t.Currency, t.PricingType,
		t.DurationRange.Min, t.DurationRange.Max, discounts, surcharges, t.IsActive, t.Priority,
		t.ValidFrom, t.ValidUntil, pq.Array(t.ApplicableSlots))
	if err != nil {
		return fmt.Errorf("error inserting pricing tier: %w", err)
	}
	return nil
}

func (r *TierRepository) Update(t *pricing.Tier) error {
	discounts, err := json.Marshal(t.Discounts)
	if err != nil {
		return fmt.Errorf("error encoding discounts: %w", err)
	}
	surcharges, err := json.Marshal(t.Surcharges)
	if err != nil {
		return fmt.Errorf("error encoding surcharges: %w", err)
	}

	query := `
		UPDATE pricing_tiers
		SET name = $1, description = $2, vehicle_type = $3, base_price = $4, currency = $5,
		    pricing_type = $6, min_duration_hours = $7, max_duration_hours = $8,
		    discounts = $9, surcharges = $10, is_active = $11, priority = $12,
		    valid_from = $13, valid_until = $14, applicable_slots = $15, updated_at = NOW()
		WHERE id = $16`
	result, err := r.DB.Exec(query,
		t.Name, t.Description, t.VehicleType, t.BasePrice, t.Currency,
		t.PricingType, t.DurationRange.Min, t.DurationRange.Max,
		discounts, surcharges, t.IsActive, t.Priority,
		t.ValidFrom, t.ValidUntil, pq.Array(t.ApplicableSlots), t.ID)
	if err != nil {
		return fmt.Errorf("error updating pricing tier: %w", err)
	}
	rows, err := result.RowsAffected()
	if err == nil && rows == 0 {
		return fmt.Errorf("pricing tier %s not found", t.ID)
	}
	return nil
}

func (r *TierRepository) GetByID(id string) (*pricing.Tier, error) {
	row := r.DB.QueryRow(`SELECT `+tierColumns+` FROM pricing_tiers WHERE id = $1`, id)
	t, err := scanTier(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("pricing tier %s not found: %w", id, err)
		}
		return nil, err
	}
	return t, nil
}

// ListActive returns tiers with the active flag set. Validity windows
// are deliberately NOT filtered here: applicability is evaluated per
// request at its start time in the pricing package, and this list is
// cached globally, so narrowing it by any one instant would leak that
// instant's view to other requests.
func (r *TierRepository) ListActive() ([]pricing.Tier, error) {
	query := `
		SELECT ` + tierColumns + ` FROM pricing_tiers
		WHERE is_active = TRUE
		ORDER BY priority DESC, valid_from ASC`
	return r.queryTiers(query)
}

func (r *TierRepository) ListAll() ([]pricing.Tier, error) {
	return r.queryTiers(`SELECT ` + tierColumns + ` FROM pricing_tiers ORDER BY priority DESC, name`)
}

func (r *TierRepository) SetActive(id string, active bool) error {
	result, err := r.DB.Exec(`UPDATE pricing_tiers SET is_active = $1, updated_at = NOW() WHERE id = $2`, active, id)
	if err != nil {
		return fmt.Errorf("error toggling pricing tier: %w", err)
	}
	rows, err := result.RowsAffected()
	if err == nil && rows == 0 {
		return fmt.Errorf("pricing tier %s not found", id)
	}
	return nil
}

func (r *TierRepository) Delete(id string) error {
	result, err := r.DB.Exec(`DELETE FROM pricing_tiers WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting pricing tier: %w", err)
	}
	rows, err := result.RowsAffected()
	if err == nil && rows == 0 {
		return fmt.Errorf("pricing tier %s not found", id)
	}
	return nil
}

func (r *TierRepository) queryTiers(query string, args ...interface{}) ([]pricing.Tier, error) {
	rows, err := r.DB.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying pricing tiers: %w", err)
	}
	defer rows.Close()

	var tiers []pricing.Tier
	for rows.Next() {
		t, err := scanTier(rows)
		if err != nil {
			return nil, err
		}
		tiers = append(tiers, *t)
	}
	return tiers, rows.Err()
}

func scanTier(row interface{ Scan(...interface{}) error }) (*pricing.Tier, error) {
	var t pricing.Tier
	var discounts, surcharges []byte
	var validUntil sql.NullTime
	var slots pq.StringArray

	err := row.Scan(
		&t.ID, &t.Name, &t.Description, &t.VehicleType, &t.BasePrice, &t.Currency, &t.PricingType,
		&t.DurationRange.Min, &t.DurationRange.Max, &discounts, &surcharges, &t.IsActive, &t.Priority,
		&t.ValidFrom, &validUntil, &slots)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("error scanning pricing tier: %w", err)
	}

	if len(discounts) > 0 {
		if err := json.Unmarshal(discounts, &t.Discounts); err != nil {
			return nil, fmt.Errorf("error decoding discounts for tier %s: %w", t.ID, err)
		}
	}
	if len(surcharges) > 0 {
		if err := json.Unmarshal(surcharges, &t.Surcharges); err != nil {
			return nil, fmt.Errorf("error decoding surcharges for tier %s: %w", t.ID, err)
		}
	}
	if validUntil.Valid {
		t.ValidUntil = &validUntil.Time
	}
	t.ApplicableSlots = []string(slots)
	return &t, nil
}
