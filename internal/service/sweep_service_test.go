package service

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/weblease/weblease-backend/internal/domain"
	"github.com/weblease/weblease-backend/internal/testutil"
)

func activeRental(rentalRepo *testutil.MockRentalRepository, end time.Time) *domain.Rental {
	start := end.AddDate(0, -2, 0)
	rental := &domain.Rental{
		ID:           uuid.New(),
		SiteID:       uuid.New(),
		ContactName:  "Nadia Alaoui",
		ContactEmail: "nadia@example.com",
		MonthlyPrice: decimal.NewFromInt(500),
		Status:       domain.StatusActive,
		StartDate:    &start,
		EndDate:      &end,
		TotalPaid:    decimal.NewFromInt(1000),
		Version:      1,
	}
	rentalRepo.AddRental(rental)
	return rental
}

func TestSweep_TransitionsLapsedActiveRentals(t *testing.T) {
	rentalRepo := testutil.NewMockRentalRepository()
	svc := NewSweepService(rentalRepo)
	svc.now = fixedNow

	lapsed := activeRental(rentalRepo, fixedNow().AddDate(0, 0, -1))
	current := activeRental(rentalRepo, fixedNow().AddDate(0, 0, 30))

	count, err := svc.Sweep()

	require.NoError(t, err)
	assert.Equal(t, 1, count)

	updated, _ := rentalRepo.GetByID(lapsed.ID)
	assert.Equal(t, domain.StatusPaymentDue, updated.Status)

	untouched, _ := rentalRepo.GetByID(current.ID)
	assert.Equal(t, domain.StatusActive, untouched.Status)
}

func TestSweep_Idempotent(t *testing.T) {
	rentalRepo := testutil.NewMockRentalRepository()
	svc := NewSweepService(rentalRepo)
	svc.now = fixedNow

	lapsed := activeRental(rentalRepo, fixedNow().AddDate(0, 0, -3))

	first, err := svc.Sweep()
	require.NoError(t, err)
	assert.Equal(t, 1, first)

	afterFirst, _ := rentalRepo.GetByID(lapsed.ID)

	second, err := svc.Sweep()
	require.NoError(t, err)
	assert.Equal(t, 0, second, "second sweep must be a no-op")

	afterSecond, _ := rentalRepo.GetByID(lapsed.ID)
	assert.Equal(t, afterFirst.Status, afterSecond.Status)
	assert.Equal(t, afterFirst.Version, afterSecond.Version)
}

func TestSweep_IgnoresPendingAndCancelled(t *testing.T) {
	rentalRepo := testutil.NewMockRentalRepository()
	svc := NewSweepService(rentalRepo)
	svc.now = fixedNow

	past := fixedNow().AddDate(0, 0, -10)

	pending := &domain.Rental{
		ID: uuid.New(), SiteID: uuid.New(),
		ContactName: "A", ContactEmail: "a@b.c",
		Status: domain.StatusPending, EndDate: &past,
		MonthlyPrice: decimal.NewFromInt(500), Version: 1,
	}
	cancelled := &domain.Rental{
		ID: uuid.New(), SiteID: uuid.New(),
		ContactName: "B", ContactEmail: "b@b.c",
		Status: domain.StatusCancelled, EndDate: &past,
		MonthlyPrice: decimal.NewFromInt(500), Version: 1,
	}
	rentalRepo.AddRental(pending)
	rentalRepo.AddRental(cancelled)

	count, err := svc.Sweep()

	require.NoError(t, err)
	assert.Equal(t, 0, count)
	p, _ := rentalRepo.GetByID(pending.ID)
	assert.Equal(t, domain.StatusPending, p.Status)
	c, _ := rentalRepo.GetByID(cancelled.ID)
	assert.Equal(t, domain.StatusCancelled, c.Status)
}

func TestSweep_IgnoresActiveRentalWithoutEndDate(t *testing.T) {
	rentalRepo := testutil.NewMockRentalRepository()
	svc := NewSweepService(rentalRepo)
	svc.now = fixedNow

	rental := &domain.Rental{
		ID: uuid.New(), SiteID: uuid.New(),
		ContactName: "C", ContactEmail: "c@b.c",
		Status:       domain.StatusActive,
		MonthlyPrice: decimal.NewFromInt(500), Version: 1,
	}
	rentalRepo.AddRental(rental)

	count, err := svc.Sweep()

	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestSweep_SkipsConcurrentlyModifiedRental(t *testing.T) {
	// A payment reconciled between listing and update wins: the sweep
	// observes the version conflict and skips instead of demoting
	rentalRepo := testutil.NewMockRentalRepository()
	svc := NewSweepService(rentalRepo)
	svc.now = fixedNow

	lapsed := activeRental(rentalRepo, fixedNow().AddDate(0, 0, -1))

	// Simulate the concurrent payment: bump the stored version after the
	// sweep has read its listing snapshot
	rentalRepo.AfterListByStatus = func() {
		rentalRepo.Rentals[lapsed.ID].Version++
	}

	count, err := svc.Sweep()

	require.NoError(t, err)
	assert.Equal(t, 0, count)
	r, _ := rentalRepo.GetByID(lapsed.ID)
	assert.Equal(t, domain.StatusActive, r.Status)
}
