package service

import (
	"fmt"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parkhub/parkhub-backend/internal/db"
)

type fakePaymentStore struct {
	payments map[string]*db.Payment
	saved    int
}

func newFakePaymentStore(payments ...*db.Payment) *fakePaymentStore {
	f := &fakePaymentStore{payments: map[string]*db.Payment{}}
	for _, p := range payments {
		f.payments[p.ID] = p
	}
	return f
}

func (f *fakePaymentStore) Create(p *db.Payment) error {
	f.payments[p.ID] = p
	return nil
}

func (f *fakePaymentStore) GetByID(id string) (*db.Payment, error) {
	p, ok := f.payments[id]
	if !ok {
		return nil, fmt.Errorf("payment %s not found", id)
	}
	copied := *p
	copied.RefundDetails = append([]db.Refund(nil), p.RefundDetails...)
	return &copied, nil
}

func (f *fakePaymentStore) GetByBookingID(bookingID string) (*db.Payment, error) {
	for _, p := range f.payments {
		if p.BookingID == bookingID {
			return p, nil
		}
	}
	return nil, fmt.Errorf("payment for booking %s not found", bookingID)
}

func (f *fakePaymentStore) GetByStripeSessionID(sessionID string) (*db.Payment, error) {
	for _, p := range f.payments {
		if p.StripeSessionID == sessionID {
			return p, nil
		}
	}
	return nil, fmt.Errorf("payment for session %s not found", sessionID)
}

func (f *fakePaymentStore) GetByTransactionID(transactionID string) (*db.Payment, error) {
	for _, p := range f.payments {
		if p.TransactionID == transactionID {
			return p, nil
		}
	}
	return nil, fmt.Errorf("payment for transaction %s not found", transactionID)
}

func (f *fakePaymentStore) SetTransactionID(id, transactionID string) error {
	if p, ok := f.payments[id]; ok {
		p.TransactionID = transactionID
	}
	return nil
}

func (f *fakePaymentStore) UpdateStatus(id, status string) error {
	if p, ok := f.payments[id]; ok {
		p.Status = status
	}
	return nil
}

func (f *fakePaymentStore) SaveRefundDetails(p *db.Payment) error {
	f.saved++
	f.payments[p.ID] = p
	return nil
}

func (f *fakePaymentStore) ListByUser(string) ([]db.Payment, error) { return nil, nil }
func (f *fakePaymentStore) List(string) ([]db.Payment, error)       { return nil, nil }

func cashPayment(id string, amount float64, status string) *db.Payment {
	return &db.Payment{
		ID:            id,
		BookingID:     "b1",
		UserID:        "u1",
		Amount:        amount,
		Currency:      "USD",
		PaymentMethod: MethodCash,
		Status:        status,
		CreatedAt:     time.Now().UTC(),
	}
}

func TestRefund(t *testing.T) {
	t.Run("partial refund persists a pending record", func(t *testing.T) {
		store := newFakePaymentStore(cashPayment("p1", 100, db.PaymentCompleted))
		svc := NewPaymentService(store, nil, nil, nil)

		payment, refundID, err := svc.Refund("p1", 40, "overcharged")
		require.NoError(t, err)
		assert.Equal(t, db.PaymentPartiallyRefunded, payment.Status)
		require.Len(t, payment.RefundDetails, 1)
		assert.Equal(t, refundID, payment.RefundDetails[0].RefundID)
		assert.Equal(t, db.RefundPending, payment.RefundDetails[0].RefundStatus)
		assert.Equal(t, 1, store.saved)

		persisted, _ := store.GetByID("p1")
		assert.Len(t, persisted.RefundDetails, 1)
	})

	t.Run("refund of a pending payment fails and persists nothing", func(t *testing.T) {
		store := newFakePaymentStore(cashPayment("p1", 100, db.PaymentPending))
		svc := NewPaymentService(store, nil, nil, nil)

		_, _, err := svc.Refund("p1", 40, "nope")
		require.ErrorIs(t, err, db.ErrRefundNotAllowed)
		assert.Equal(t, 0, store.saved)

		persisted, _ := store.GetByID("p1")
		assert.Empty(t, persisted.RefundDetails)
		assert.Equal(t, db.PaymentPending, persisted.Status)
	})

	t.Run("over-refund fails", func(t *testing.T) {
		p := cashPayment("p1", 100, db.PaymentCompleted)
		p.RefundDetails = []db.Refund{{RefundID: "REF_old", RefundAmount: 70, RefundStatus: db.RefundCompleted}}
		store := newFakePaymentStore(p)
		svc := NewPaymentService(store, nil, nil, nil)

		_, _, err := svc.Refund("p1", 50, "too much")
		require.ErrorIs(t, err, db.ErrRefundNotAllowed)
	})

	t.Run("completing a refund updates the record", func(t *testing.T) {
		store := newFakePaymentStore(cashPayment("p1", 100, db.PaymentCompleted))
		svc := NewPaymentService(store, nil, nil, nil)

		_, refundID, err := svc.Refund("p1", 100, "full refund")
		require.NoError(t, err)

		require.NoError(t, svc.CompleteRefund("p1", refundID))
		persisted, _ := store.GetByID("p1")
		assert.Equal(t, db.RefundCompleted, persisted.RefundDetails[0].RefundStatus)
		assert.Equal(t, db.PaymentRefunded, persisted.Status)
	})
}

func TestNewRefundID(t *testing.T) {
	pattern := regexp.MustCompile(`^REF_\d+_[0-9a-z]{9}$`)
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		id := NewRefundID()
		assert.Regexp(t, pattern, id)
		assert.False(t, seen[id], "refund ids should not repeat: %s", id)
		seen[id] = true
	}
}
