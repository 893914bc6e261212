package repository

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/parkhub/parkhub-backend/internal/db"
)

type PaymentRepository struct {
	DB *sql.DB
}

func NewPaymentRepository(database *sql.DB) *PaymentRepository {
	return &PaymentRepository{DB: database}
}

const paymentColumns = `id, booking_id, user_id, amount, currency, payment_method, status,
	transaction_id, stripe_session_id, refund_details, created_at, updated_at`

func (r *PaymentRepository) Create(p *db.Payment) error {
	refunds, err := json.Marshal(p.RefundDetails)
	if err != nil {
		return fmt.Errorf("error encoding refund details: %w", err)
	}
	query := `
		INSERT INTO payments (` + paymentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err = r.DB.Exec(query,
		p.ID, p.BookingID, p.UserID, p.Amount, p.Currency, p.PaymentMethod, p.Status,
		p.TransactionID, p.StripeSessionID, refunds, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("error inserting payment: %w", err)
	}
	return nil
}

func (r *PaymentRepository) GetByID(id string) (*db.Payment, error) {
	row := r.DB.QueryRow(`SELECT `+paymentColumns+` FROM payments WHERE id = $1`, id)
	p, err := scanPayment(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("payment %s not found: %w", id, err)
		}
		return nil, err
	}
	return p, nil
}

func (r *PaymentRepository) GetByBookingID(bookingID string) (*db.Payment, error) {
	row := r.DB.QueryRow(`SELECT `+paymentColumns+` FROM payments WHERE booking_id = $1`, bookingID)
	p, err := scanPayment(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("payment for booking %s not found: %w", bookingID, err)
		}
		return nil, err
	}
	return p, nil
}

func (r *PaymentRepository) GetByStripeSessionID(sessionID string) (*db.Payment, error) {
	row := r.DB.QueryRow(`SELECT `+paymentColumns+` FROM payments WHERE stripe_session_id = $1`, sessionID)
	p, err := scanPayment(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("payment for session %s not found: %w", sessionID, err)
		}
		return nil, err
	}
	return p, nil
}

func (r *PaymentRepository) GetByTransactionID(transactionID string) (*db.Payment, error) {
	row := r.DB.QueryRow(`SELECT `+paymentColumns+` FROM payments WHERE transaction_id = $1`, transactionID)
	p, err := scanPayment(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("payment for transaction %s not found: %w", transactionID, err)
		}
		return nil, err
	}
	return p, nil
}

// SetTransactionID records the provider charge id once the checkout
// session completes, so refund webhooks can find the payment.
func (r *PaymentRepository) SetTransactionID(id, transactionID string) error {
	result, err := r.DB.Exec(`UPDATE payments SET transaction_id = $1, updated_at = NOW() WHERE id = $2`, transactionID, id)
	if err != nil {
		return fmt.Errorf("error saving transaction id: %w", err)
	}
	rows, err := result.RowsAffected()
	if err == nil && rows == 0 {
		return fmt.Errorf("payment %s not found", id)
	}
	return nil
}

func (r *PaymentRepository) UpdateStatus(id, status string) error {
	result, err := r.DB.Exec(`UPDATE payments SET status = $1, updated_at = NOW() WHERE id = $2`, status, id)
	if err != nil {
		return fmt.Errorf("error updating payment status: %w", err)
	}
	rows, err := result.RowsAffected()
	if err == nil && rows == 0 {
		return fmt.Errorf("payment %s not found", id)
	}
	return nil
}

// SaveRefundDetails writes back the refund list and status after a
// refund mutation on the in-memory payment.
func (r *PaymentRepository) SaveRefundDetails(p *db.Payment) error {
	refunds, err := json.Marshal(p.RefundDetails)
	if err != nil {
		return fmt.Errorf("error encoding refund details: %w", err)
	}
	query := `UPDATE payments SET refund_details = $1, status = $2, updated_at = NOW() WHERE id = $3`
	result, err := r.DB.Exec(query, refunds, p.Status, p.ID)
	if err != nil {
		return fmt.Errorf("error saving refund details: %w", err)
	}
	rows, err := result.RowsAffected()
	if err == nil && rows == 0 {
		return fmt.Errorf("payment %s not found", p.ID)
	}
	return nil
}

func (r *PaymentRepository) ListByUser(userID string) ([]db.Payment, error) {
	return r.queryPayments(`SELECT `+paymentColumns+` FROM payments WHERE user_id = $1 ORDER BY created_at DESC`, userID)
}

func (r *PaymentRepository) List(status string) ([]db.Payment, error) {
	if status != "" {
		return r.queryPayments(`SELECT `+paymentColumns+` FROM payments WHERE status = $1 ORDER BY created_at DESC`, status)
	}
	return r.queryPayments(`SELECT ` + paymentColumns + ` FROM payments ORDER BY created_at DESC`)
}

func (r *PaymentRepository) RevenueToday() (float64, error) {
	var revenue sql.NullFloat64
	query := `SELECT SUM(amount) FROM payments WHERE status = 'completed' AND DATE(created_at) = CURRENT_DATE`
	if err := r.DB.QueryRow(query).Scan(&revenue); err != nil {
		return 0, fmt.Errorf("error computing daily revenue: %w", err)
	}
	return revenue.Float64, nil
}

func (r *PaymentRepository) RevenueThisMonth() (float64, error) {
	var revenue sql.NullFloat64
	query := `
		SELECT SUM(amount) FROM payments
		WHERE status = 'completed' AND DATE_TRUNC('month', created_at) = DATE_TRUNC('month', CURRENT_DATE)`
	if err := r.DB.QueryRow(query).Scan(&revenue); err != nil {
		return 0, fmt.Errorf("error computing monthly revenue: %w", err)
	}
	return revenue.Float64, nil
}

func (r *PaymentRepository) CountPendingRefunds() (int, error) {
	var count int
	query := `
		SELECT COUNT(*) FROM payments p, jsonb_array_elements(p.refund_details) AS refund
		WHERE refund->>'refundStatus' = 'pending'`
	if err := r.DB.QueryRow(query).Scan(&count); err != nil {
		return 0, fmt.Errorf("error counting pending refunds: %w", err)
	}
	return count, nil
}

func (r *PaymentRepository) queryPayments(query string, args ...interface{}) ([]db.Payment, error) {
	rows, err := r.DB.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying payments: %w", err)
	}
	defer rows.Close()

	var payments []db.Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		payments = append(payments, *p)
	}
	return payments, rows.Err()
}

func scanPayment(row interface{ Scan(...interface{}) error }) (*db.Payment, error) {
	var p db.Payment
	var refunds []byte
	err := row.Scan(
		&p.ID, &p.BookingID, &p.UserID, &p.Amount, &p.Currency, &p.PaymentMethod, &p.Status,
		&p.TransactionID, &p.StripeSessionID, &refunds, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("error scanning payment: %w", err)
	}
	if len(refunds) > 0 {
		if err := json.Unmarshal(refunds, &p.RefundDetails); err != nil {
			return nil, fmt.Errorf("error decoding refund details for payment %s: %w", p.ID, err)
		}
	}
	return &p, nil
}
