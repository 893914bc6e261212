package api

import "github.com/parkhub/parkhub-backend/internal/pricing"

// Auth
type RegisterRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone" validate:"omitempty,e164"`
	Password string `json:"password" validate:"required,min=8"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	Token string `json:"token"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

// Pricing quote, body mirrors the calculator input.
type QuoteRequest struct {
	VehicleType string  `json:"vehicle_type" validate:"required"`
	Duration    float64 `json:"duration" validate:"omitempty,gt=0"`
	StartTime   string  `json:"start_time" validate:"required"`
	EndTime     string  `json:"end_time" validate:"required"`
	SlotID      string  `json:"slot_id,omitempty"`
}

type QuoteResponse struct {
	Matched bool           `json:"matched"`
	Message string         `json:"message,omitempty"`
	Quote   *pricing.Quote `json:"quote,omitempty"`
}

// Bookings
type CreateBookingRequest struct {
	SlotID       string `json:"slot_id" validate:"required"`
	VehicleType  string `json:"vehicle_type" validate:"required"`
	VehiclePlate string `json:"vehicle_plate" validate:"required"`
	StartTime    string `json:"start_time" validate:"required"`
	EndTime      string `json:"end_time" validate:"required"`
}

// Payments
type CreatePaymentRequest struct {
	BookingID     string `json:"booking_id" validate:"required"`
	PaymentMethod string `json:"payment_method" validate:"required,oneof=cash card upi wallet online"`
}

type RefundRequest struct {
	RefundAmount float64 `json:"refund_amount" validate:"required,gt=0"`
	RefundReason string  `json:"refund_reason" validate:"required"`
}

// Slots
type SlotRequest struct {
	SlotNumber string  `json:"slot_number" validate:"required"`
	Floor      int     `json:"floor"`
	Section    string  `json:"section"`
	SlotType   string  `json:"slot_type" validate:"required,oneof=car motorcycle truck van suv bus"`
	HourlyRate float64 `json:"hourly_rate" validate:"gte=0"`
}

type SlotStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=available occupied reserved maintenance"`
}
