package api

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parkhub/parkhub-backend/internal/auth"
	"github.com/parkhub/parkhub-backend/internal/db"
	"github.com/parkhub/parkhub-backend/internal/service"
)

type stubPaymentStore struct {
	payments map[string]*db.Payment
}

func (s *stubPaymentStore) Create(p *db.Payment) error { return nil }

func (s *stubPaymentStore) GetByID(id string) (*db.Payment, error) {
	if p, ok := s.payments[id]; ok {
		return p, nil
	}
	return nil, errors.New("payment not found")
}

func (s *stubPaymentStore) GetByBookingID(string) (*db.Payment, error)     { return nil, nil }
func (s *stubPaymentStore) GetByStripeSessionID(string) (*db.Payment, error) { return nil, nil }
func (s *stubPaymentStore) GetByTransactionID(string) (*db.Payment, error) { return nil, nil }
func (s *stubPaymentStore) SetTransactionID(string, string) error          { return nil }
func (s *stubPaymentStore) UpdateStatus(string, string) error              { return nil }
func (s *stubPaymentStore) SaveRefundDetails(*db.Payment) error            { return nil }
func (s *stubPaymentStore) ListByUser(string) ([]db.Payment, error)        { return nil, nil }
func (s *stubPaymentStore) List(string) ([]db.Payment, error)              { return nil, nil }

func bearerToken(t *testing.T, userID, role string) string {
	t.Helper()
	claims := jwt.MapClaims{
		"user_id": userID,
		"role":    role,
		"exp":     time.Now().Add(time.Hour).Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return "Bearer " + signed
}

func TestGetPaymentAccess(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	store := &stubPaymentStore{payments: map[string]*db.Payment{
		"p1": {
			ID:       "p1",
			UserID:   "owner",
			Amount:   50,
			Currency: "USD",
			Status:   db.PaymentCompleted,
		},
	}}
	h := NewPaymentHandler(service.NewPaymentService(store, nil, nil, nil), nil)

	r := mux.NewRouter()
	protected := r.PathPrefix("/api").Subrouter()
	protected.Use(auth.Middleware)
	protected.HandleFunc("/payments/{id}", h.GetPayment).Methods("GET")

	get := func(token string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/api/payments/p1", nil)
		req.Header.Set("Authorization", token)
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, req)
		return rr
	}

	t.Run("owner sees their payment", func(t *testing.T) {
		assert.Equal(t, http.StatusOK, get(bearerToken(t, "owner", db.RoleUser)).Code)
	})

	t.Run("another plain user is forbidden", func(t *testing.T) {
		assert.Equal(t, http.StatusForbidden, get(bearerToken(t, "intruder", db.RoleUser)).Code)
	})

	t.Run("staff can inspect any payment", func(t *testing.T) {
		assert.Equal(t, http.StatusOK, get(bearerToken(t, "staff-1", db.RoleAttendant)).Code)
		assert.Equal(t, http.StatusOK, get(bearerToken(t, "admin-1", db.RoleAdmin)).Code)
	})

	t.Run("missing token is unauthorized", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, get("").Code)
	})
}
