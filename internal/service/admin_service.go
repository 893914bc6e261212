package service

import (
	"log"

	"github.com/parkhub/parkhub-backend/internal/db"
	"github.com/parkhub/parkhub-backend/internal/entities"
	"github.com/parkhub/parkhub-backend/internal/repository"
)

// AdminService backs the admin dashboard: aggregate stats and user
// management.
type AdminService struct {
	Users    *repository.UserRepository
	Slots    *repository.SlotRepository
	Bookings *repository.BookingRepository
	Payments *repository.PaymentRepository
}

func NewAdminService(users *repository.UserRepository, slots *repository.SlotRepository,
	bookings *repository.BookingRepository, payments *repository.PaymentRepository) *AdminService {
	return &AdminService{Users: users, Slots: slots, Bookings: bookings, Payments: payments}
}

// DashboardStats aggregates counters for the admin landing page. Each
// failed sub-query degrades to zero rather than failing the whole
// dashboard.
func (s *AdminService) DashboardStats() (*entities.DashboardStats, error) {
	stats := &entities.DashboardStats{}

	total, available, occupied, err := s.Slots.CountByStatus()
	if err != nil {
		log.Printf("Dashboard: slot counts unavailable: %v", err)
	}
	stats.TotalSlots = total
	stats.AvailableSlots = available
	stats.OccupiedSlots = occupied

	if n, err := s.Bookings.CountByStatus(db.BookingActive); err == nil {
		stats.ActiveBookings = n
	}
	if n, err := s.Bookings.CountByStatus(db.BookingPending); err == nil {
		stats.PendingBookings = n
	}
	if n, err := s.Bookings.CompletedTodayCount(); err == nil {
		stats.CompletedToday = n
	}
	if v, err := s.Payments.RevenueToday(); err == nil {
		stats.RevenueToday = v
	}
	if v, err := s.Payments.RevenueThisMonth(); err == nil {
		stats.RevenueThisMonth = v
	}
	if n, err := s.Users.CountAll(); err == nil {
		stats.RegisteredUsers = n
	}
	if n, err := s.Payments.CountPendingRefunds(); err == nil {
		stats.PendingRefunds = n
	}

	return stats, nil
}

func (s *AdminService) ListUsers(role string) ([]db.User, error) {
	return s.Users.List(role)
}

func (s *AdminService) SetUserActive(id string, active bool) error {
	return s.Users.SetActive(id, active)
}
