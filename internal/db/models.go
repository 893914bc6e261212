package db

import "time"

// User roles.
const (
	RoleUser      = "user"
	RoleAdmin     = "admin"
	RoleAttendant = "attendant"
)

// Slot statuses.
const (
	SlotAvailable   = "available"
	SlotOccupied    = "occupied"
	SlotReserved    = "reserved"
	SlotMaintenance = "maintenance"
)

// Booking statuses.
const (
	BookingPending   = "pending"
	BookingConfirmed = "confirmed"
	BookingActive    = "active"
	BookingCompleted = "completed"
	BookingCancelled = "cancelled"
	BookingExpired   = "expired"
)

type User struct {
	ID           string
	Name         string
	Email        string
	Phone        string
	PasswordHash string
	Role         string
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ParkingSlot is served as-is on the public availability endpoint.
type ParkingSlot struct {
	ID         string    `json:"id"`
	SlotNumber string    `json:"slot_number"`
	Floor      int       `json:"floor"`
	Section    string    `json:"section"`
	SlotType   string    `json:"slot_type"`
	Status     string    `json:"status"`
	HourlyRate float64   `json:"hourly_rate"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type Booking struct {
	ID            string
	Code          string
	UserID        string
	SlotID        string
	VehicleType   string
	VehiclePlate  string
	StartTime     time.Time
	EndTime       time.Time
	DurationHours float64
	Amount        float64
	Currency      string
	TierID        string
	Status        string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
