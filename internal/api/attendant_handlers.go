package api

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/parkhub/parkhub-backend/internal/service"
)

// AttendantHandler backs the attendant dashboard: gate check-in and
// check-out plus manual slot status changes.
type AttendantHandler struct {
	Bookings *service.BookingService
	Slots    *service.SlotService
}

func NewAttendantHandler(bookings *service.BookingService, slots *service.SlotService) *AttendantHandler {
	return &AttendantHandler{Bookings: bookings, Slots: slots}
}

func (h *AttendantHandler) TodayBookings(w http.ResponseWriter, r *http.Request) {
	today := time.Now().UTC().Format("2006-01-02")
	bookings, err := h.Bookings.ListBookings(today, "", r.URL.Query().Get("status"))
	if err != nil {
		http.Error(w, "Database error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, bookings)
}

func (h *AttendantHandler) CheckIn(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]
	booking, err := h.Bookings.CheckIn(code)
	if err != nil {
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"booking_code": booking.Code,
		"status":       booking.Status,
		"message":      "Vehicle checked in",
	})
}

func (h *AttendantHandler) CheckOut(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]
	booking, err := h.Bookings.CheckOut(code)
	if err != nil {
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"booking_code": booking.Code,
		"status":       booking.Status,
		"message":      "Vehicle checked out",
	})
}

func (h *AttendantHandler) UpdateSlotStatus(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	var req SlotStatusRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	if err := h.Slots.UpdateSlotStatus(id, req.Status); err != nil {
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Slot status updated"})
}
