package service

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/parkhub/parkhub-backend/internal/db"
	"github.com/parkhub/parkhub-backend/internal/repository"
	"github.com/parkhub/parkhub-backend/internal/utils"
)

type SlotService struct {
	Repo *repository.SlotRepository
}

func NewSlotService(repo *repository.SlotRepository) *SlotService {
	return &SlotService{Repo: repo}
}

func (s *SlotService) CreateSlot(slotNumber string, floor int, section, slotType string, hourlyRate float64) (*db.ParkingSlot, error) {
	if utils.NormalizeVehicleType(slotType) == "" {
		return nil, fmt.Errorf("unknown slot type %q", slotType)
	}
	now := time.Now().UTC()
	slot := &db.ParkingSlot{
		ID:         uuid.NewString(),
		SlotNumber: slotNumber,
		Floor:      floor,
		Section:    section,
		SlotType:   slotType,
		Status:     db.SlotAvailable,
		HourlyRate: hourlyRate,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.Repo.Create(slot); err != nil {
		return nil, err
	}
	return slot, nil
}

func (s *SlotService) ListSlots(status, slotType string) ([]db.ParkingSlot, error) {
	return s.Repo.List(status, slotType)
}

func (s *SlotService) GetSlot(id string) (*db.ParkingSlot, error) {
	return s.Repo.GetByID(id)
}

func (s *SlotService) UpdateSlot(slot *db.ParkingSlot) error {
	return s.Repo.Update(slot)
}

// UpdateSlotStatus is the attendant-facing status change (maintenance,
// manual occupy/release).
func (s *SlotService) UpdateSlotStatus(id, status string) error {
	switch status {
	case db.SlotAvailable, db.SlotOccupied, db.SlotReserved, db.SlotMaintenance:
	default:
		return fmt.Errorf("unknown slot status %q", status)
	}
	return s.Repo.UpdateStatus(id, status)
}

func (s *SlotService) DeleteSlot(id string) error {
	return s.Repo.Delete(id)
}
