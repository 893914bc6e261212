package db

import (
	"errors"
	"fmt"
	"time"
)

// Payment statuses.
const (
	PaymentPending           = "pending"
	PaymentProcessing        = "processing"
	PaymentCompleted         = "completed"
	PaymentFailed            = "failed"
	PaymentCancelled         = "cancelled"
	PaymentRefunded          = "refunded"
	PaymentPartiallyRefunded = "partially_refunded"
)

// Refund statuses.
const (
	RefundPending   = "pending"
	RefundCompleted = "completed"
	RefundFailed    = "failed"
)

var ErrRefundNotAllowed = errors.New("refund not allowed")

// Refund is a single partial or full refund against a payment. The
// list is stored as JSONB on the payments row, field names matching
// the stored document.
type Refund struct {
	RefundID     string    `json:"refundId"`
	RefundAmount float64   `json:"refundAmount"`
	RefundReason string    `json:"refundReason"`
	RefundDate   time.Time `json:"refundDate"`
	RefundStatus string    `json:"refundStatus"`
}

type Payment struct {
	ID              string
	BookingID       string
	UserID          string
	Amount          float64
	Currency        string
	PaymentMethod   string
	Status          string
	TransactionID   string
	StripeSessionID string
	RefundDetails   []Refund
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// CompletedRefundTotal sums the amounts of refunds that actually went
// through.
func (p *Payment) CompletedRefundTotal() float64 {
	var total float64
	for _, r := range p.RefundDetails {
		if r.RefundStatus == RefundCompleted {
			total += r.RefundAmount
		}
	}
	return total
}

// RefundableAmount is the payment amount minus completed refunds.
func (p *Payment) RefundableAmount() float64 {
	return p.Amount - p.CompletedRefundTotal()
}

// CanRefund reports whether a refund may be created. Only completed
// payments are refundable, and a requested amount must not exceed the
// refundable balance. Pass nil to ask "is anything refundable at all".
func (p *Payment) CanRefund(amount *float64) bool {
	if p.Status != PaymentCompleted {
		return false
	}
	refundable := p.RefundableAmount()
	if amount != nil && *amount > refundable {
		return false
	}
	return refundable > 0
}

// AddRefund appends a pending refund record and recomputes the payment
// status. It is a hard failure on an ineligible payment; callers are
// expected to check CanRefund first, but the payment defends itself.
//
// Note: the post-add status decision sums ALL refund entries regardless
// of their status, while eligibility counts completed refunds only.
// This asymmetry is inherited behavior and is kept as-is.
func (p *Payment) AddRefund(refundID string, amount float64, reason string) error {
	if !p.CanRefund(&amount) {
		return fmt.Errorf("%w: payment %s status=%s refundable=%.2f requested=%.2f",
			ErrRefundNotAllowed, p.ID, p.Status, p.RefundableAmount(), amount)
	}

	p.RefundDetails = append(p.RefundDetails, Refund{
		RefundID:     refundID,
		RefundAmount: amount,
		RefundReason: reason,
		RefundDate:   time.Now().UTC(),
		RefundStatus: RefundPending,
	})

	var total float64
	for _, r := range p.RefundDetails {
		total += r.RefundAmount
	}
	if total >= p.Amount {
		p.Status = PaymentRefunded
	} else {
		p.Status = PaymentPartiallyRefunded
	}
	p.UpdatedAt = time.Now().UTC()
	return nil
}
