package entities

type DashboardStats struct {
	TotalSlots       int     `json:"total_slots"`
	AvailableSlots   int     `json:"available_slots"`
	OccupiedSlots    int     `json:"occupied_slots"`
	ActiveBookings   int     `json:"active_bookings"`
	PendingBookings  int     `json:"pending_bookings"`
	CompletedToday   int     `json:"completed_today"`
	RevenueToday     float64 `json:"revenue_today"`
	RevenueThisMonth float64 `json:"revenue_this_month"`
	RegisteredUsers  int     `json:"registered_users"`
	PendingRefunds   int     `json:"pending_refunds"`
}
