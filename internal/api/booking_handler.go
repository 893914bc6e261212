package api

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/parkhub/parkhub-backend/internal/auth"
	"github.com/parkhub/parkhub-backend/internal/db"
	"github.com/parkhub/parkhub-backend/internal/entities"
	"github.com/parkhub/parkhub-backend/internal/service"
	"github.com/parkhub/parkhub-backend/internal/utils"
)

type BookingHandler struct {
	Service *service.BookingService
}

func NewBookingHandler(svc *service.BookingService) *BookingHandler {
	return &BookingHandler{Service: svc}
}

func (h *BookingHandler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	var req CreateBookingRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	vehicleType := utils.NormalizeVehicleType(req.VehicleType)
	if vehicleType == "" {
		http.Error(w, "Unknown vehicle type", http.StatusBadRequest)
		return
	}
	start, end, ok := parseTimeRange(req.StartTime, req.EndTime)
	if !ok {
		http.Error(w, "start_time and end_time must be RFC 3339 with end after start", http.StatusBadRequest)
		return
	}

	booking, quote, err := h.Service.CreateBooking(r.Context(), service.CreateBookingInput{
		UserID:       auth.UserIDFromContext(r.Context()),
		SlotID:       req.SlotID,
		VehicleType:  vehicleType,
		VehiclePlate: req.VehiclePlate,
		StartTime:    start,
		EndTime:      end,
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"booking_code": booking.Code,
		"amount":       booking.Amount,
		"currency":     booking.Currency,
		"quote":        quote,
		"message":      "Booking created. Complete payment to confirm.",
	})
}

func (h *BookingHandler) ListMyBookings(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	list, err := h.Service.ListUserBookings(auth.UserIDFromContext(r.Context()), limit, offset)
	if err != nil {
		http.Error(w, "Database error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *BookingHandler) GetBooking(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]
	booking, err := h.Service.GetBookingByCode(code)
	if err != nil {
		http.Error(w, "Booking not found", http.StatusNotFound)
		return
	}
	if booking.UserID != auth.UserIDFromContext(r.Context()) && auth.RoleFromContext(r.Context()) == db.RoleUser {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}
	writeJSON(w, http.StatusOK, entities.BookingResponse{
		Code:          booking.Code,
		VehicleType:   booking.VehicleType,
		VehiclePlate:  booking.VehiclePlate,
		StartTime:     booking.StartTime,
		EndTime:       booking.EndTime,
		DurationHours: booking.DurationHours,
		Amount:        booking.Amount,
		Currency:      booking.Currency,
		Status:        booking.Status,
		CreatedAt:     booking.CreatedAt,
		UpdatedAt:     booking.UpdatedAt,
	})
}

func (h *BookingHandler) CancelBooking(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]
	_, err := h.Service.CancelBooking(code, auth.UserIDFromContext(r.Context()))
	if err != nil {
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Booking cancelled"})
}
