package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/parkhub/parkhub-backend/internal/auth"
	"github.com/parkhub/parkhub-backend/internal/db"
	"github.com/parkhub/parkhub-backend/internal/entities"
	"github.com/parkhub/parkhub-backend/internal/service"
)

type PaymentHandler struct {
	Service *service.PaymentService
	Users   service.BookingUserStore
}

func NewPaymentHandler(svc *service.PaymentService, users service.BookingUserStore) *PaymentHandler {
	return &PaymentHandler{Service: svc, Users: users}
}

func (h *PaymentHandler) CreatePayment(w http.ResponseWriter, r *http.Request) {
	var req CreatePaymentRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	userID := auth.UserIDFromContext(r.Context())
	email := ""
	if user, err := h.Users.GetByID(userID); err == nil {
		email = user.Email
	}

	resp, err := h.Service.CreatePayment(req.BookingID, userID, email, req.PaymentMethod)
	if err != nil {
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (h *PaymentHandler) GetPayment(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	payment, err := h.Service.GetPayment(id)
	if err != nil {
		http.Error(w, "Payment not found", http.StatusNotFound)
		return
	}
	if payment.UserID != auth.UserIDFromContext(r.Context()) && auth.RoleFromContext(r.Context()) == db.RoleUser {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}
	writeJSON(w, http.StatusOK, paymentResponse(payment))
}

func (h *PaymentHandler) ListMyPayments(w http.ResponseWriter, r *http.Request) {
	payments, err := h.Service.ListUserPayments(auth.UserIDFromContext(r.Context()))
	if err != nil {
		http.Error(w, "Database error", http.StatusInternalServerError)
		return
	}
	out := make([]entities.PaymentResponse, 0, len(payments))
	for i := range payments {
		out = append(out, paymentResponse(&payments[i]))
	}
	writeJSON(w, http.StatusOK, out)
}

func paymentResponse(p *db.Payment) entities.PaymentResponse {
	return entities.PaymentResponse{
		ID:               p.ID,
		BookingID:        p.BookingID,
		Amount:           p.Amount,
		Currency:         p.Currency,
		PaymentMethod:    p.PaymentMethod,
		Status:           p.Status,
		TransactionID:    p.TransactionID,
		RefundableAmount: p.RefundableAmount(),
		RefundDetails:    p.RefundDetails,
		CreatedAt:        p.CreatedAt,
		UpdatedAt:        p.UpdatedAt,
	}
}
