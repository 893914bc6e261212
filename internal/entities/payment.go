package entities

import (
	"time"

	"github.com/parkhub/parkhub-backend/internal/db"
)

type PaymentResponse struct {
	ID               string      `json:"id"`
	BookingID        string      `json:"booking_id"`
	Amount           float64     `json:"amount"`
	Currency         string      `json:"currency"`
	PaymentMethod    string      `json:"payment_method"`
	Status           string      `json:"status"`
	TransactionID    string      `json:"transaction_id,omitempty"`
	RefundableAmount float64     `json:"refundable_amount"`
	RefundDetails    []db.Refund `json:"refund_details,omitempty"`
	CreatedAt        time.Time   `json:"created_at"`
	UpdatedAt        time.Time   `json:"updated_at"`
}

type CheckoutSessionResponse struct {
	PaymentID string `json:"payment_id"`
	URL       string `json:"url,omitempty"`
	SessionID string `json:"session_id,omitempty"`
}
