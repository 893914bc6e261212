package service

import (
	"fmt"
	"log"
	"time"

	"github.com/parkhub/parkhub-backend/internal/db"
	"github.com/parkhub/parkhub-backend/internal/repository"
)

type JobService struct {
	Repo *repository.JobRepository
}

func NewJobService(repo *repository.JobRepository) *JobService {
	return &JobService{Repo: repo}
}

// CompleteFinishedBookings marks active bookings past their end time
// as completed and releases their slots.
func (s *JobService) CompleteFinishedBookings() error {
	log.Println("Cron Job: Checking for bookings to mark as 'completed'...")

	bookingIDs, slotIDs, err := s.Repo.GetActiveBookingIDsPastEndTime()
	if err != nil {
		return fmt.Errorf("cron job: failed to get active bookings past end time: %w", err)
	}

	if len(bookingIDs) == 0 {
		log.Println("Cron Job: No active bookings found past their end time.")
		return nil
	}

	log.Printf("Cron Job: Found %d bookings to mark as 'completed'. IDs: %v", len(bookingIDs), bookingIDs)

	if err := s.Repo.UpdateBookingStatuses(bookingIDs, db.BookingCompleted); err != nil {
		return fmt.Errorf("cron job: failed to update booking statuses: %w", err)
	}
	if err := s.Repo.ReleaseSlots(slotIDs); err != nil {
		return fmt.Errorf("cron job: failed to release slots: %w", err)
	}

	log.Printf("Cron Job: Successfully completed %d bookings.", len(bookingIDs))
	return nil
}

// ExpireStalePendingBookings expires unpaid bookings older than the
// cutoff and frees their reserved slots.
func (s *JobService) ExpireStalePendingBookings(maxAge time.Duration) error {
	before := time.Now().UTC().Add(-maxAge)
	n, err := s.Repo.ExpirePendingBookingsOlderThan(before)
	if err != nil {
		return fmt.Errorf("cron job: failed to expire stale pending bookings: %w", err)
	}
	if n > 0 {
		log.Printf("Cron Job: Expired stale pending bookings, %d slots released.", n)
	}
	return nil
}
