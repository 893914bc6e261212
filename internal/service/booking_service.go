package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/parkhub/parkhub-backend/internal/db"
	"github.com/parkhub/parkhub-backend/internal/entities"
	"github.com/parkhub/parkhub-backend/internal/pricing"
	"github.com/parkhub/parkhub-backend/internal/utils"
)

// Bookings cannot be cancelled closer to check-in than this.
const cancelWindow = 12 * time.Hour

type BookingStore interface {
	Create(b *db.Booking) error
	GetByCode(code string) (*db.Booking, error)
	GetByID(id string) (*db.Booking, error)
	HasOverlap(slotID string, startTime, endTime time.Time) (bool, error)
	ListByUser(userID string, limit, offset int) (*entities.BookingsList, error)
	List(date, vehicleType, status string) ([]entities.BookingResponse, error)
	UpdateStatus(id, status string) error
	Delete(id string) error
}

type SlotStore interface {
	GetByID(id string) (*db.ParkingSlot, error)
	UpdateStatus(id, status string) error
}

type BookingUserStore interface {
	GetByID(id string) (*db.User, error)
}

type BookingService struct {
	Repo    BookingStore
	Slots   SlotStore
	Users   BookingUserStore
	Pricing *PricingService
	Sender  Notifier
}

func NewBookingService(repo BookingStore, slots SlotStore, users BookingUserStore, pricingSvc *PricingService, sender Notifier) *BookingService {
	return &BookingService{Repo: repo, Slots: slots, Users: users, Pricing: pricingSvc, Sender: sender}
}

type CreateBookingInput struct {
	UserID       string
	SlotID       string
	VehicleType  string
	VehiclePlate string
	StartTime    time.Time
	EndTime      time.Time
}

// CreateBooking prices the request against the tier catalog, reserves
// the slot, and stores the booking as pending until payment completes.
func (s *BookingService) CreateBooking(ctx context.Context, in CreateBookingInput) (*db.Booking, *pricing.Quote, error) {
	if !in.EndTime.After(in.StartTime) {
		return nil, nil, fmt.Errorf("end_time must be after start_time")
	}

	slot, err := s.Slots.GetByID(in.SlotID)
	if err != nil {
		return nil, nil, err
	}
	if slot.Status != db.SlotAvailable {
		return nil, nil, fmt.Errorf("slot %s is not available", slot.SlotNumber)
	}
	if !utils.SlotFitsVehicle(slot.SlotType, in.VehicleType) {
		return nil, nil, fmt.Errorf("slot %s does not take vehicle type %s", slot.SlotNumber, in.VehicleType)
	}

	overlap, err := s.Repo.HasOverlap(in.SlotID, in.StartTime, in.EndTime)
	if err != nil {
		return nil, nil, err
	}
	if overlap {
		return nil, nil, fmt.Errorf("slot %s is already booked for that window", slot.SlotNumber)
	}

	duration := in.EndTime.Sub(in.StartTime).Hours()
	quote, err := s.Pricing.Quote(ctx, pricing.Request{
		VehicleType: in.VehicleType,
		Duration:    duration,
		StartTime:   in.StartTime,
		EndTime:     in.EndTime,
		SlotID:      in.SlotID,
	})
	if err != nil {
		return nil, nil, err
	}
	if quote == nil {
		return nil, nil, fmt.Errorf("no pricing tier applies to this booking")
	}

	now := time.Now().UTC()
	booking := &db.Booking{
		ID:            uuid.NewString(),
		Code:          fmt.Sprintf("%08X", now.UnixNano()%100000000),
		UserID:        in.UserID,
		SlotID:        in.SlotID,
		VehicleType:   in.VehicleType,
		VehiclePlate:  in.VehiclePlate,
		StartTime:     in.StartTime,
		EndTime:       in.EndTime,
		DurationHours: duration,
		Amount:        quote.FinalAmount,
		Currency:      quote.Currency,
		TierID:        quote.TierID,
		Status:        db.BookingPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.Repo.Create(booking); err != nil {
		log.Printf("Error creating booking in repository: %v", err)
		return nil, nil, err
	}
	if err := s.Slots.UpdateStatus(in.SlotID, db.SlotReserved); err != nil {
		log.Printf("Booking %s created but slot %s could not be reserved: %v", booking.Code, in.SlotID, err)
	}

	return booking, quote, nil
}

func (s *BookingService) GetBookingByCode(code string) (*db.Booking, error) {
	return s.Repo.GetByCode(code)
}

func (s *BookingService) ListUserBookings(userID string, limit, offset int) (*entities.BookingsList, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.Repo.ListByUser(userID, limit, offset)
}

func (s *BookingService) ListBookings(date, vehicleType, status string) ([]entities.BookingResponse, error) {
	return s.Repo.List(date, vehicleType, status)
}

// CancelBooking cancels a booking owned by userID (admins pass the
// owner's id). Only future bookings outside the cancel window qualify.
func (s *BookingService) CancelBooking(code, userID string) (*db.Booking, error) {
	booking, err := s.Repo.GetByCode(code)
	if err != nil {
		return nil, err
	}
	if booking.UserID != userID {
		return nil, fmt.Errorf("booking %s does not belong to user", code)
	}
	if booking.Status != db.BookingPending && booking.Status != db.BookingConfirmed {
		return nil, fmt.Errorf("booking %s cannot be cancelled in status %s", code, booking.Status)
	}
	if booking.StartTime.Sub(time.Now().UTC()) < cancelWindow {
		return nil, fmt.Errorf("bookings can only be cancelled more than %d hours before the start time", int(cancelWindow.Hours()))
	}

	if err := s.Repo.UpdateStatus(booking.ID, db.BookingCancelled); err != nil {
		return nil, err
	}
	if err := s.Slots.UpdateStatus(booking.SlotID, db.SlotAvailable); err != nil {
		log.Printf("Booking %s cancelled but slot %s could not be released: %v", code, booking.SlotID, err)
	}
	booking.Status = db.BookingCancelled

	s.notify(booking, "cancelled")
	return booking, nil
}

// CheckIn moves a confirmed booking to active and marks the slot
// occupied. Used from the attendant dashboard.
func (s *BookingService) CheckIn(code string) (*db.Booking, error) {
	booking, err := s.Repo.GetByCode(code)
	if err != nil {
		return nil, err
	}
	if booking.Status != db.BookingConfirmed {
		return nil, fmt.Errorf("booking %s cannot check in from status %s", code, booking.Status)
	}
	if err := s.Repo.UpdateStatus(booking.ID, db.BookingActive); err != nil {
		return nil, err
	}
	if err := s.Slots.UpdateStatus(booking.SlotID, db.SlotOccupied); err != nil {
		log.Printf("Booking %s checked in but slot %s status not updated: %v", code, booking.SlotID, err)
	}
	booking.Status = db.BookingActive
	return booking, nil
}

func (s *BookingService) CheckOut(code string) (*db.Booking, error) {
	booking, err := s.Repo.GetByCode(code)
	if err != nil {
		return nil, err
	}
	if booking.Status != db.BookingActive {
		return nil, fmt.Errorf("booking %s cannot check out from status %s", code, booking.Status)
	}
	if err := s.Repo.UpdateStatus(booking.ID, db.BookingCompleted); err != nil {
		return nil, err
	}
	if err := s.Slots.UpdateStatus(booking.SlotID, db.SlotAvailable); err != nil {
		log.Printf("Booking %s checked out but slot %s not released: %v", code, booking.SlotID, err)
	}
	booking.Status = db.BookingCompleted
	return booking, nil
}

// ConfirmBooking is invoked when the booking's payment completes.
func (s *BookingService) ConfirmBooking(bookingID string) error {
	booking, err := s.Repo.GetByID(bookingID)
	if err != nil {
		return err
	}
	if err := s.Repo.UpdateStatus(booking.ID, db.BookingConfirmed); err != nil {
		return err
	}
	booking.Status = db.BookingConfirmed
	s.notify(booking, "confirmed")
	return nil
}

func (s *BookingService) DeleteBooking(id string) error {
	booking, err := s.Repo.GetByID(id)
	if err != nil {
		return err
	}
	if booking.Status == db.BookingPending || booking.Status == db.BookingConfirmed || booking.Status == db.BookingActive {
		if err := s.Slots.UpdateStatus(booking.SlotID, db.SlotAvailable); err != nil {
			log.Printf("Deleting booking %s: slot %s not released: %v", id, booking.SlotID, err)
		}
	}
	return s.Repo.Delete(id)
}

func (s *BookingService) notify(booking *db.Booking, status string) {
	if s.Sender == nil || s.Users == nil {
		return
	}
	user, err := s.Users.GetByID(booking.UserID)
	if err != nil {
		log.Printf("Could not load user %s for booking notification: %v", booking.UserID, err)
		return
	}
	slotNumber := ""
	if slot, err := s.Slots.GetByID(booking.SlotID); err == nil {
		slotNumber = slot.SlotNumber
	}
	s.Sender.SendBookingEmail(user, booking, slotNumber, status)
	s.Sender.SendBookingSMS(user, booking, status)
}
