package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parkhub/parkhub-backend/internal/db"
	"github.com/parkhub/parkhub-backend/internal/entities"
	"github.com/parkhub/parkhub-backend/internal/pricing"
)

type fakeBookingStore struct {
	bookings map[string]*db.Booking
	statuses map[string]string
	overlap  bool
}

func newFakeBookingStore() *fakeBookingStore {
	return &fakeBookingStore{bookings: map[string]*db.Booking{}, statuses: map[string]string{}}
}

func (f *fakeBookingStore) Create(b *db.Booking) error {
	f.bookings[b.ID] = b
	return nil
}

func (f *fakeBookingStore) GetByCode(code string) (*db.Booking, error) {
	for _, b := range f.bookings {
		if b.Code == code {
			copied := *b
			return &copied, nil
		}
	}
	return nil, fmt.Errorf("booking with code '%s' not found", code)
}

func (f *fakeBookingStore) GetByID(id string) (*db.Booking, error) {
	b, ok := f.bookings[id]
	if !ok {
		return nil, fmt.Errorf("booking %s not found", id)
	}
	copied := *b
	return &copied, nil
}

func (f *fakeBookingStore) HasOverlap(string, time.Time, time.Time) (bool, error) {
	return f.overlap, nil
}

func (f *fakeBookingStore) ListByUser(string, int, int) (*entities.BookingsList, error) {
	return &entities.BookingsList{}, nil
}

func (f *fakeBookingStore) List(string, string, string) ([]entities.BookingResponse, error) {
	return nil, nil
}

func (f *fakeBookingStore) UpdateStatus(id, status string) error {
	if b, ok := f.bookings[id]; ok {
		b.Status = status
	}
	f.statuses[id] = status
	return nil
}

func (f *fakeBookingStore) Delete(id string) error {
	delete(f.bookings, id)
	return nil
}

type fakeSlotStore struct {
	slots    map[string]*db.ParkingSlot
	statuses map[string]string
}

func newFakeSlotStore(slots ...*db.ParkingSlot) *fakeSlotStore {
	f := &fakeSlotStore{slots: map[string]*db.ParkingSlot{}, statuses: map[string]string{}}
	for _, s := range slots {
		f.slots[s.ID] = s
	}
	return f
}

func (f *fakeSlotStore) GetByID(id string) (*db.ParkingSlot, error) {
	s, ok := f.slots[id]
	if !ok {
		return nil, fmt.Errorf("parking slot %s not found", id)
	}
	return s, nil
}

func (f *fakeSlotStore) UpdateStatus(id, status string) error {
	f.statuses[id] = status
	if s, ok := f.slots[id]; ok {
		s.Status = status
	}
	return nil
}

type fakeTierStore struct {
	tiers []pricing.Tier
}

func (f *fakeTierStore) ListActive() ([]pricing.Tier, error) { return f.tiers, nil }
func (f *fakeTierStore) ListAll() ([]pricing.Tier, error)    { return f.tiers, nil }
func (f *fakeTierStore) GetByID(string) (*pricing.Tier, error)       { return nil, fmt.Errorf("not found") }
func (f *fakeTierStore) Create(*pricing.Tier) error                  { return nil }
func (f *fakeTierStore) Update(*pricing.Tier) error                  { return nil }
func (f *fakeTierStore) SetActive(string, bool) error                { return nil }
func (f *fakeTierStore) Delete(string) error                         { return nil }

func testTier(id string, priority int, hourlyRate float64) pricing.Tier {
	return pricing.Tier{
		ID:            id,
		Name:          id,
		VehicleType:   pricing.VehicleAll,
		BasePrice:     hourlyRate,
		Currency:      "USD",
		PricingType:   pricing.TypeHourly,
		DurationRange: pricing.DurationRange{Min: 0, Max: 1000},
		IsActive:      true,
		Priority:      priority,
		ValidFrom:     time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func availableCarSlot(id string) *db.ParkingSlot {
	return &db.ParkingSlot{
		ID:         id,
		SlotNumber: "A-01",
		SlotType:   "car",
		Status:     db.SlotAvailable,
	}
}

func TestCreateBooking(t *testing.T) {
	start := time.Now().UTC().Add(48 * time.Hour).Truncate(time.Hour)

	newService := func(bookingStore *fakeBookingStore, slotStore *fakeSlotStore, tiers ...pricing.Tier) *BookingService {
		pricingSvc := NewPricingService(&fakeTierStore{tiers: tiers}, nil)
		return NewBookingService(bookingStore, slotStore, nil, pricingSvc, nil)
	}

	t.Run("prices with the highest priority tier", func(t *testing.T) {
		bookingStore := newFakeBookingStore()
		slotStore := newFakeSlotStore(availableCarSlot("slot-1"))
		svc := newService(bookingStore, slotStore, testTier("cheap", 1, 2), testTier("premium", 5, 10))

		booking, quote, err := svc.CreateBooking(context.Background(), CreateBookingInput{
			UserID:      "u1",
			SlotID:      "slot-1",
			VehicleType: "car",
			StartTime:   start,
			EndTime:     start.Add(3 * time.Hour),
		})
		require.NoError(t, err)
		assert.Equal(t, "premium", quote.TierID)
		assert.Equal(t, 30.0, booking.Amount) // 10/h * 3h
		assert.Equal(t, db.BookingPending, booking.Status)
		assert.Equal(t, db.SlotReserved, slotStore.statuses["slot-1"])
	})

	t.Run("no matching tier is an error for booking creation", func(t *testing.T) {
		bookingStore := newFakeBookingStore()
		slotStore := newFakeSlotStore(availableCarSlot("slot-1"))
		svc := newService(bookingStore, slotStore) // no tiers at all

		_, _, err := svc.CreateBooking(context.Background(), CreateBookingInput{
			UserID:      "u1",
			SlotID:      "slot-1",
			VehicleType: "car",
			StartTime:   start,
			EndTime:     start.Add(3 * time.Hour),
		})
		assert.ErrorContains(t, err, "no pricing tier")
		assert.Empty(t, bookingStore.bookings)
	})

	t.Run("overlapping booking is rejected", func(t *testing.T) {
		bookingStore := newFakeBookingStore()
		bookingStore.overlap = true
		slotStore := newFakeSlotStore(availableCarSlot("slot-1"))
		svc := newService(bookingStore, slotStore, testTier("std", 1, 2))

		_, _, err := svc.CreateBooking(context.Background(), CreateBookingInput{
			UserID:      "u1",
			SlotID:      "slot-1",
			VehicleType: "car",
			StartTime:   start,
			EndTime:     start.Add(3 * time.Hour),
		})
		assert.ErrorContains(t, err, "already booked")
	})

	t.Run("slot type must fit the vehicle", func(t *testing.T) {
		bookingStore := newFakeBookingStore()
		slotStore := newFakeSlotStore(availableCarSlot("slot-1"))
		svc := newService(bookingStore, slotStore, testTier("std", 1, 2))

		_, _, err := svc.CreateBooking(context.Background(), CreateBookingInput{
			UserID:      "u1",
			SlotID:      "slot-1",
			VehicleType: "bus",
			StartTime:   start,
			EndTime:     start.Add(3 * time.Hour),
		})
		assert.ErrorContains(t, err, "vehicle type")
	})
}

func TestCancelBooking(t *testing.T) {
	newBooking := func(start time.Time, status string) (*fakeBookingStore, *fakeSlotStore, *BookingService) {
		bookingStore := newFakeBookingStore()
		slotStore := newFakeSlotStore(availableCarSlot("slot-1"))
		bookingStore.bookings["b1"] = &db.Booking{
			ID:        "b1",
			Code:      "CODE1234",
			UserID:    "u1",
			SlotID:    "slot-1",
			StartTime: start,
			Status:    status,
		}
		pricingSvc := NewPricingService(&fakeTierStore{}, nil)
		return bookingStore, slotStore, NewBookingService(bookingStore, slotStore, nil, pricingSvc, nil)
	}

	t.Run("cancel inside the window is rejected", func(t *testing.T) {
		_, _, svc := newBooking(time.Now().UTC().Add(2*time.Hour), db.BookingConfirmed)
		_, err := svc.CancelBooking("CODE1234", "u1")
		assert.ErrorContains(t, err, "cancelled more than")
	})

	t.Run("cancel outside the window releases the slot", func(t *testing.T) {
		bookingStore, slotStore, svc := newBooking(time.Now().UTC().Add(48*time.Hour), db.BookingConfirmed)
		booking, err := svc.CancelBooking("CODE1234", "u1")
		require.NoError(t, err)
		assert.Equal(t, db.BookingCancelled, booking.Status)
		assert.Equal(t, db.BookingCancelled, bookingStore.statuses["b1"])
		assert.Equal(t, db.SlotAvailable, slotStore.statuses["slot-1"])
	})

	t.Run("only the owner can cancel", func(t *testing.T) {
		_, _, svc := newBooking(time.Now().UTC().Add(48*time.Hour), db.BookingConfirmed)
		_, err := svc.CancelBooking("CODE1234", "someone-else")
		assert.ErrorContains(t, err, "does not belong")
	})

	t.Run("completed booking cannot be cancelled", func(t *testing.T) {
		_, _, svc := newBooking(time.Now().UTC().Add(48*time.Hour), db.BookingCompleted)
		_, err := svc.CancelBooking("CODE1234", "u1")
		assert.ErrorContains(t, err, "cannot be cancelled")
	})
}
