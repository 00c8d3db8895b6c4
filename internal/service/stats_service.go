package service

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/weblease/weblease-backend/internal/domain"
	"github.com/weblease/weblease-backend/internal/util"
)

// StatsService computes fleet-wide rental statistics. Results are always
// re-derived from the current rental collection, never from hidden
// accumulators, so they stay consistent after any mutation. Reads run
// against a snapshot listing and do not block writers.
type StatsService struct {
	rentalRepo domain.RentalRepository
	now        func() time.Time
}

// NewStatsService creates a new StatsService
func NewStatsService(rentalRepo domain.RentalRepository) *StatsService {
	return &StatsService{
		rentalRepo: rentalRepo,
		now:        time.Now,
	}
}

// GetStats computes statistics over all rentals
func (s *StatsService) GetStats() (*domain.Stats, error) {
	rentals, err := s.rentalRepo.List()
	if err != nil {
		return nil, err
	}
	return Compute(rentals, s.now().UTC()), nil
}

// Compute derives statistics from a fixed rental collection. Revenue sums
// TotalPaid over every rental including cancelled ones: money already
// received is never un-counted by cancellation.
func Compute(rentals []*domain.Rental, now time.Time) *domain.Stats {
	stats := &domain.Stats{
		Total:        len(rentals),
		TotalRevenue: decimal.Zero,
	}

	for _, r := range rentals {
		stats.TotalRevenue = stats.TotalRevenue.Add(r.TotalPaid)

		switch r.Status {
		case domain.StatusPending:
			stats.Pending++
		case domain.StatusActive:
			stats.Active++
			if days := util.DaysRemaining(r.EndDate, now); days != nil && *days > 0 && *days <= domain.ExpiringSoonDays {
				stats.ExpiringSoon++
			}
		case domain.StatusPaymentDue:
			stats.PaymentDue++
		}
	}

	return stats
}
