package service

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"skillmarket/internal/repository"
	"skillmarket/internal/schedule"
)

type JobService struct {
	repo   *repository.JobRepository
	logger *zap.Logger
}

func NewJobService(repo *repository.JobRepository, logger *zap.Logger) *JobService {
	return &JobService{repo: repo, logger: logger}
}

// CompletePastBookings moves approved bookings whose session date has passed
// to completed. Runs as the system, bypassing the actor gate the same way an
// instructor confirming each past session would.
func (s *JobService) CompletePastBookings() error {
	ids, err := s.repo.GetApprovedBookingIDsPastDate()
	if err != nil {
		return fmt.Errorf("cron job: failed to get approved bookings past date: %w", err)
	}
	if len(ids) == 0 {
		return nil
	}

	updated, err := s.repo.UpdateBookingStatuses(ids, schedule.StatusCompleted.String())
	if err != nil {
		return fmt.Errorf("cron job: failed to update booking statuses: %w", err)
	}

	s.logger.Info("completed past bookings", zap.Int64("count", updated))
	return nil
}

// PurgeAbandonedBookings drops requested bookings whose checkout was never
// paid, so their slots become bookable again.
func (s *JobService) PurgeAbandonedBookings(olderThan time.Duration) error {
	deleted, err := s.repo.DeleteUnpaidRequestedOlderThan(time.Now().UTC().Add(-olderThan))
	if err != nil {
		return fmt.Errorf("cron job: failed to purge abandoned bookings: %w", err)
	}
	if deleted > 0 {
		s.logger.Info("purged abandoned bookings", zap.Int64("count", deleted))
	}
	return nil
}
