package service

import (
	"errors"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/weblease/weblease-backend/internal/domain"
	"github.com/weblease/weblease-backend/internal/util"
	"github.com/weblease/weblease-backend/internal/websocket"
)

// SweepService demotes active rentals whose paid-through date has passed to
// payment_due. The sweep is idempotent and per-rental independent: one
// rental's outcome never affects another, and re-running it immediately
// changes nothing.
type SweepService struct {
	rentalRepo domain.RentalRepository
	publisher  websocket.EventPublisher
	now        func() time.Time
}

// NewSweepService creates a new SweepService
func NewSweepService(rentalRepo domain.RentalRepository) *SweepService {
	return &SweepService{
		rentalRepo: rentalRepo,
		now:        time.Now,
	}
}

// SetEventPublisher sets the publisher for real-time updates
func (s *SweepService) SetEventPublisher(publisher websocket.EventPublisher) {
	s.publisher = publisher
}

// Sweep transitions every lapsed active rental to payment_due and returns
// the number of rentals transitioned. Only active rentals are considered;
// pending and cancelled rentals are never touched. A rental concurrently
// modified between listing and update is skipped, not failed: the version
// guard re-checks its state, so a payment that just reactivated it wins.
func (s *SweepService) Sweep() (int, error) {
	rentals, err := s.rentalRepo.ListByStatus(domain.StatusActive)
	if err != nil {
		return 0, err
	}

	now := s.now().UTC()
	transitioned := 0

	for _, rental := range rentals {
		days := util.DaysRemaining(rental.EndDate, now)
		if days == nil || *days > 0 {
			continue
		}

		snap := domain.RentalSnapshot{
			Status:        domain.StatusPaymentDue,
			StartDate:     rental.StartDate,
			EndDate:       rental.EndDate,
			TotalPaid:     rental.TotalPaid,
			LastPaymentAt: rental.LastPaymentAt,
		}

		updated, err := s.rentalRepo.UpdateSnapshot(rental.ID, rental.Version, snap)
		if err != nil {
			if errors.Is(err, domain.ErrConcurrentModification) {
				log.Debug().
					Str("rental_id", rental.ID.String()).
					Msg("rental changed during sweep, skipping")
				continue
			}
			return transitioned, err
		}

		transitioned++
		log.Info().
			Str("rental_id", rental.ID.String()).
			Int("days_overdue", -*days).
			Msg("rental coverage lapsed")

		publishRentalEvent(s.publisher, updated, websocket.RentalStatusChanged(updated))
	}

	return transitioned, nil
}
