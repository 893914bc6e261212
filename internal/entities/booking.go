package entities

import "time"

type BookingResponse struct {
	Code          string    `json:"code"`
	SlotNumber    string    `json:"slot_number"`
	VehicleType   string    `json:"vehicle_type"`
	VehiclePlate  string    `json:"vehicle_plate"`
	StartTime     time.Time `json:"start_time"`
	EndTime       time.Time `json:"end_time"`
	DurationHours float64   `json:"duration_hours"`
	Amount        float64   `json:"amount"`
	Currency      string    `json:"currency"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type BookingsList struct {
	Total    int64             `json:"total"`
	Limit    int               `json:"limit"`
	Offset   int               `json:"offset"`
	Bookings []BookingResponse `json:"bookings"`
}

type BookingEmailData struct {
	UserName           string
	BookingCode        string
	SlotNumber         string
	VehiclePlate       string
	StartTimeFormatted string
	EndTimeFormatted   string
	Amount             float64
	Currency           string
	Status             string
	CurrentYear        int
}
