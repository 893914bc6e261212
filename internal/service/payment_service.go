package service

import (
	"fmt"
	"log"
	"math"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/parkhub/parkhub-backend/internal/db"
	"github.com/parkhub/parkhub-backend/internal/entities"
)

// Payment methods accepted at the lot.
const (
	MethodCash   = "cash"
	MethodCard   = "card"
	MethodUPI    = "upi"
	MethodWallet = "wallet"
	MethodOnline = "online"
)

type PaymentStore interface {
	Create(p *db.Payment) error
	GetByID(id string) (*db.Payment, error)
	GetByBookingID(bookingID string) (*db.Payment, error)
	GetByStripeSessionID(sessionID string) (*db.Payment, error)
	GetByTransactionID(transactionID string) (*db.Payment, error)
	SetTransactionID(id, transactionID string) error
	UpdateStatus(id, status string) error
	SaveRefundDetails(p *db.Payment) error
	ListByUser(userID string) ([]db.Payment, error)
	List(status string) ([]db.Payment, error)
}

type PaymentService struct {
	Repo          PaymentStore
	Bookings      BookingStore
	stripeService *StripeService
	bookingSvc    *BookingService
}

func NewPaymentService(repo PaymentStore, bookings BookingStore, stripeService *StripeService, bookingSvc *BookingService) *PaymentService {
	return &PaymentService{Repo: repo, Bookings: bookings, stripeService: stripeService, bookingSvc: bookingSvc}
}

// CreatePayment opens a payment for a pending booking. Online payments
// get a Stripe checkout session; on-site methods stay pending until an
// attendant marks them completed.
func (s *PaymentService) CreatePayment(bookingID, userID, userEmail, method string) (*entities.CheckoutSessionResponse, error) {
	booking, err := s.Bookings.GetByID(bookingID)
	if err != nil {
		return nil, err
	}
	if booking.UserID != userID {
		return nil, fmt.Errorf("booking %s does not belong to user", bookingID)
	}
	if booking.Status != db.BookingPending {
		return nil, fmt.Errorf("booking %s is not awaiting payment", booking.Code)
	}

	now := time.Now().UTC()
	payment := &db.Payment{
		ID:            uuid.NewString(),
		BookingID:     booking.ID,
		UserID:        userID,
		Amount:        booking.Amount,
		Currency:      booking.Currency,
		PaymentMethod: method,
		Status:        db.PaymentPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	resp := &entities.CheckoutSessionResponse{PaymentID: payment.ID}
	if method == MethodOnline || method == MethodCard {
		amountCents := int64(math.Round(booking.Amount * 100))
		description := fmt.Sprintf("ParkHub booking %s", booking.Code)
		url, sessionID, err := s.stripeService.CreateCheckoutSession(amountCents, booking.Currency, description, userEmail)
		if err != nil {
			return nil, fmt.Errorf("error creating checkout session: %w", err)
		}
		payment.StripeSessionID = sessionID
		payment.Status = db.PaymentProcessing
		resp.URL = url
		resp.SessionID = sessionID
	}

	if err := s.Repo.Create(payment); err != nil {
		log.Printf("Error creating payment in repository: %v", err)
		return nil, err
	}
	return resp, nil
}

func (s *PaymentService) GetPayment(id string) (*db.Payment, error) {
	return s.Repo.GetByID(id)
}

func (s *PaymentService) ListUserPayments(userID string) ([]db.Payment, error) {
	return s.Repo.ListByUser(userID)
}

func (s *PaymentService) ListPayments(status string) ([]db.Payment, error) {
	return s.Repo.List(status)
}

// MarkCompleted finalizes a payment (webhook or attendant cash flow)
// and confirms its booking.
func (s *PaymentService) MarkCompleted(paymentID string) error {
	payment, err := s.Repo.GetByID(paymentID)
	if err != nil {
		return err
	}
	if payment.Status == db.PaymentCompleted {
		return nil
	}
	if err := s.Repo.UpdateStatus(payment.ID, db.PaymentCompleted); err != nil {
		return err
	}
	if s.bookingSvc != nil {
		if err := s.bookingSvc.ConfirmBooking(payment.BookingID); err != nil {
			log.Printf("Payment %s completed but booking %s not confirmed: %v", payment.ID, payment.BookingID, err)
		}
	}
	return nil
}

func (s *PaymentService) MarkCompletedBySessionID(sessionID, transactionID string) error {
	payment, err := s.Repo.GetByStripeSessionID(sessionID)
	if err != nil {
		return err
	}
	if transactionID != "" && transactionID != payment.TransactionID {
		if err := s.Repo.SetTransactionID(payment.ID, transactionID); err != nil {
			return err
		}
	}
	return s.MarkCompleted(payment.ID)
}

func (s *PaymentService) MarkFailedBySessionID(sessionID string) error {
	payment, err := s.Repo.GetByStripeSessionID(sessionID)
	if err != nil {
		return err
	}
	return s.Repo.UpdateStatus(payment.ID, db.PaymentFailed)
}

// Refund creates a refund record against a completed payment and, for
// Stripe-backed payments, pushes the refund to the provider. The
// ledger check and the row update are not atomic; two concurrent
// refunds can race past CanRefund before either write lands. Known
// gap, matching the store's single-document update guarantee.
func (s *PaymentService) Refund(paymentID string, amount float64, reason string) (*db.Payment, string, error) {
	payment, err := s.Repo.GetByID(paymentID)
	if err != nil {
		return nil, "", err
	}

	refundID := NewRefundID()
	if err := payment.AddRefund(refundID, amount, reason); err != nil {
		return nil, "", err
	}

	if payment.StripeSessionID != "" && s.stripeService != nil {
		amountCents := int64(math.Round(amount * 100))
		if err := s.stripeService.RefundBySessionID(payment.StripeSessionID, amountCents); err != nil {
			return nil, "", fmt.Errorf("provider refund failed: %w", err)
		}
	}

	if err := s.Repo.SaveRefundDetails(payment); err != nil {
		return nil, "", err
	}
	log.Printf("Refund %s of %.2f %s created for payment %s", refundID, amount, payment.Currency, payment.ID)
	return payment, refundID, nil
}

// CompleteRefund marks a pending refund as completed (provider webhook
// confirmation).
func (s *PaymentService) CompleteRefund(paymentID, refundID string) error {
	payment, err := s.Repo.GetByID(paymentID)
	if err != nil {
		return err
	}
	for i := range payment.RefundDetails {
		if payment.RefundDetails[i].RefundID == refundID {
			payment.RefundDetails[i].RefundStatus = db.RefundCompleted
			return s.Repo.SaveRefundDetails(payment)
		}
	}
	return fmt.Errorf("refund %s not found on payment %s", refundID, paymentID)
}

// CompleteRefundsByTransactionID marks every pending refund on the
// payment behind a provider transaction as completed. Invoked from the
// charge.refunded webhook, which does not carry our refund ids.
func (s *PaymentService) CompleteRefundsByTransactionID(transactionID string) error {
	payment, err := s.Repo.GetByTransactionID(transactionID)
	if err != nil {
		return err
	}
	changed := false
	for i := range payment.RefundDetails {
		if payment.RefundDetails[i].RefundStatus == db.RefundPending {
			payment.RefundDetails[i].RefundStatus = db.RefundCompleted
			changed = true
		}
	}
	if !changed {
		return nil
	}
	return s.Repo.SaveRefundDetails(payment)
}

const refundIDCharset = "0123456789abcdefghijklmnopqrstuvwxyz"

// NewRefundID generates an identifier of the form REF_<timestamp>_<random9>.
func NewRefundID() string {
	suffix := make([]byte, 9)
	for i := range suffix {
		suffix[i] = refundIDCharset[rand.Intn(len(refundIDCharset))]
	}
	return fmt.Sprintf("REF_%d_%s", time.Now().UnixMilli(), suffix)
}
