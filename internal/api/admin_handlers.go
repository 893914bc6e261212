package api

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/parkhub/parkhub-backend/internal/db"
	"github.com/parkhub/parkhub-backend/internal/entities"
	"github.com/parkhub/parkhub-backend/internal/pricing"
	"github.com/parkhub/parkhub-backend/internal/service"
)

type AdminHandler struct {
	Admin    *service.AdminService
	Bookings *service.BookingService
	Slots    *service.SlotService
	Pricing  *service.PricingService
	Payments *service.PaymentService
}

func NewAdminHandler(admin *service.AdminService, bookings *service.BookingService,
	slots *service.SlotService, pricingSvc *service.PricingService, payments *service.PaymentService) *AdminHandler {
	return &AdminHandler{Admin: admin, Bookings: bookings, Slots: slots, Pricing: pricingSvc, Payments: payments}
}

func (h *AdminHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Admin.DashboardStats()
	if err != nil {
		http.Error(w, "Database error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// Bookings

func (h *AdminHandler) ListBookings(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	vehicleType := r.URL.Query().Get("vehicle_type")
	status := r.URL.Query().Get("status")
	bookings, err := h.Bookings.ListBookings(date, vehicleType, status)
	if err != nil {
		http.Error(w, "Database error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, bookings)
}

func (h *AdminHandler) DeleteBooking(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := h.Bookings.DeleteBooking(id); err != nil {
		http.Error(w, "Could not delete booking", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Booking deleted"})
}

// Slots

func (h *AdminHandler) CreateSlot(w http.ResponseWriter, r *http.Request) {
	var req SlotRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	slot, err := h.Slots.CreateSlot(req.SlotNumber, req.Floor, req.Section, req.SlotType, req.HourlyRate)
	if err != nil {
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}
	writeJSON(w, http.StatusCreated, slot)
}

func (h *AdminHandler) UpdateSlot(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	var req SlotRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	slot, err := h.Slots.GetSlot(id)
	if err != nil {
		http.Error(w, "Slot not found", http.StatusNotFound)
		return
	}
	slot.SlotNumber = req.SlotNumber
	slot.Floor = req.Floor
	slot.Section = req.Section
	slot.SlotType = req.SlotType
	slot.HourlyRate = req.HourlyRate
	if err := h.Slots.UpdateSlot(slot); err != nil {
		http.Error(w, "Could not update slot", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, slot)
}

func (h *AdminHandler) DeleteSlot(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := h.Slots.DeleteSlot(id); err != nil {
		http.Error(w, "Could not delete slot", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Slot deleted"})
}

// Pricing tiers

func (h *AdminHandler) ListTiers(w http.ResponseWriter, r *http.Request) {
	tiers, err := h.Pricing.ListTiers()
	if err != nil {
		http.Error(w, "Database error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, tiers)
}

func (h *AdminHandler) CreateTier(w http.ResponseWriter, r *http.Request) {
	var tier pricing.Tier
	if !decodeAndValidate(w, r, &tier) {
		return
	}
	if tier.ID == "" {
		tier.ID = uuid.NewString()
	}
	if err := h.Pricing.CreateTier(r.Context(), &tier); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusCreated, tier)
}

func (h *AdminHandler) UpdateTier(w http.ResponseWriter, r *http.Request) {
	var tier pricing.Tier
	if !decodeAndValidate(w, r, &tier) {
		return
	}
	tier.ID = mux.Vars(r)["id"]
	if err := h.Pricing.UpdateTier(r.Context(), &tier); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, tier)
}

func (h *AdminHandler) SetTierActive(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	var req struct {
		IsActive bool `json:"isActive"`
	}
	if !decodeAndValidate(w, r, &req) {
		return
	}
	if err := h.Pricing.SetTierActive(r.Context(), id, req.IsActive); err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Tier updated"})
}

func (h *AdminHandler) DeleteTier(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := h.Pricing.DeleteTier(r.Context(), id); err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Tier deleted"})
}

// Payments

func (h *AdminHandler) ListPayments(w http.ResponseWriter, r *http.Request) {
	payments, err := h.Payments.ListPayments(r.URL.Query().Get("status"))
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

func (h *AdminHandler) MarkPaymentCompleted(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := h.Payments.MarkCompleted(id); err != nil {
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Payment completed"})
}

func (h *AdminHandler) RefundPayment(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	var req RefundRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	payment, refundID, err := h.Payments.Refund(id, req.RefundAmount, req.RefundReason)
	if err != nil {
		if errors.Is(err, db.ErrRefundNotAllowed) {
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"refund_id":         refundID,
		"payment_status":    payment.Status,
		"refundable_amount": payment.RefundableAmount(),
	})
}

// Users

func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.Admin.ListUsers(r.URL.Query().Get("role"))
	if err != nil {
		http.Error(w, "Database error", http.StatusInternalServerError)
		return
	}
	// Never leak password hashes to the dashboard.
	type userView struct {
		ID       string `json:"id"`
		Name     string `json:"name"`
		Email    string `json:"email"`
		Phone    string `json:"phone"`
		Role     string `json:"role"`
		IsActive bool   `json:"is_active"`
	}
	out := make([]userView, 0, len(users))
	for _, u := range users {
		out = append(out, userView{ID: u.ID, Name: u.Name, Email: u.Email, Phone: u.Phone, Role: u.Role, IsActive: u.IsActive})
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *AdminHandler) SetUserActive(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	var req struct {
		IsActive bool `json:"is_active"`
	}
	if !decodeAndValidate(w, r, &req) {
		return
	}
	if err := h.Admin.SetUserActive(id, req.IsActive); err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "User updated"})
}
