package service

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"github.com/weblease/weblease-backend/internal/domain"
	"github.com/weblease/weblease-backend/internal/util"
	"github.com/weblease/weblease-backend/internal/websocket"
)

// RentalService handles rental lifecycle operations outside payment
// reconciliation: creation from contact requests, manual status and date
// overrides, and reads enriched with site summaries and remaining days.
type RentalService struct {
	rentalRepo domain.RentalRepository
	siteRepo   domain.SiteRepository
	clientRepo domain.ClientRepository
	publisher  websocket.EventPublisher
	now        func() time.Time
}

// NewRentalService creates a new RentalService
func NewRentalService(rentalRepo domain.RentalRepository, siteRepo domain.SiteRepository, clientRepo domain.ClientRepository) *RentalService {
	return &RentalService{
		rentalRepo: rentalRepo,
		siteRepo:   siteRepo,
		clientRepo: clientRepo,
		now:        time.Now,
	}
}

// SetEventPublisher sets the publisher for real-time updates
func (s *RentalService) SetEventPublisher(publisher websocket.EventPublisher) {
	s.publisher = publisher
}

// RentalView is a rental enriched for display: the site summary degrades to
// a placeholder when the site was deleted, and DaysRemaining carries the
// signed remaining-day count (negative = expired N days ago).
type RentalView struct {
	*domain.Rental
	Site          *domain.SiteSummary `json:"site"`
	DaysRemaining *int                `json:"daysRemaining"`
}

// CreateRentalInput carries the fields of a contact/rental request
type CreateRentalInput struct {
	SiteID       uuid.UUID
	Contact      domain.ContactInfo
	ClientID     *uuid.UUID
	MonthlyPrice *decimal.Decimal
	Notes        *string
}

// CreateRental creates a rental in pending status from a contact request.
// The monthly price defaults from the site when not supplied; the contact
// details are snapshotted on the rental for the audit trail.
func (s *RentalService) CreateRental(in CreateRentalInput) (*domain.Rental, error) {
	site, err := s.siteRepo.GetByID(in.SiteID)
	if err != nil {
		return nil, err
	}

	if in.ClientID != nil {
		if _, err := s.clientRepo.GetByID(*in.ClientID); err != nil {
			return nil, err
		}
	}

	price := site.MonthlyPrice
	if in.MonthlyPrice != nil {
		price = *in.MonthlyPrice
	}

	rental := &domain.Rental{
		SiteID:       site.ID,
		ClientID:     in.ClientID,
		ContactName:  in.Contact.Name,
		ContactEmail: in.Contact.Email,
		ContactPhone: in.Contact.Phone,
		MonthlyPrice: price,
		Status:       domain.StatusPending,
		TotalPaid:    decimal.Zero,
		Notes:        in.Notes,
	}
	if err := rental.Validate(); err != nil {
		return nil, err
	}

	created, err := s.rentalRepo.Create(rental)
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("rental_id", created.ID.String()).
		Str("site_id", site.ID.String()).
		Msg("rental request created")

	publishRentalEvent(s.publisher, created, websocket.RentalCreated(created))

	return created, nil
}

// GetRental returns a rental with its ledger, site summary and remaining days
func (s *RentalService) GetRental(id uuid.UUID) (*RentalView, error) {
	rental, err := s.rentalRepo.GetByIDWithPayments(id)
	if err != nil {
		return nil, err
	}
	return s.toView(rental), nil
}

// ListRentals returns all rentals enriched for the admin table
func (s *RentalService) ListRentals() ([]*RentalView, error) {
	rentals, err := s.rentalRepo.List()
	if err != nil {
		return nil, err
	}
	return s.toViews(rentals), nil
}

// ListByClient returns a client's rentals for the dashboard
func (s *RentalService) ListByClient(clientID uuid.UUID) ([]*RentalView, error) {
	if _, err := s.clientRepo.GetByID(clientID); err != nil {
		return nil, err
	}
	rentals, err := s.rentalRepo.ListByClient(clientID)
	if err != nil {
		return nil, err
	}
	return s.toViews(rentals), nil
}

// SetStatus is the manual override path: it moves a rental between
// non-terminal states with no date side effects, except that activating a
// rental that never started sets its start date to now. Transitions out of
// cancelled are rejected and leave the rental unchanged.
func (s *RentalService) SetStatus(id uuid.UUID, status domain.RentalStatus) (*domain.Rental, error) {
	rental, err := s.rentalRepo.GetByID(id)
	if err != nil {
		return nil, err
	}

	if err := rental.Status.CanTransitionTo(status); err != nil {
		return nil, err
	}

	if rental.Status == status {
		// Idempotent set-to-current-state is a no-op
		return rental, nil
	}

	snap := domain.RentalSnapshot{
		Status:        status,
		StartDate:     rental.StartDate,
		EndDate:       rental.EndDate,
		TotalPaid:     rental.TotalPaid,
		LastPaymentAt: rental.LastPaymentAt,
	}
	if status == domain.StatusActive && snap.StartDate == nil {
		now := s.now().UTC()
		snap.StartDate = &now
	}

	updated, err := s.rentalRepo.UpdateSnapshot(rental.ID, rental.Version, snap)
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("rental_id", rental.ID.String()).
		Str("from", string(rental.Status)).
		Str("to", string(status)).
		Msg("rental status changed")

	publishRentalEvent(s.publisher, updated, websocket.RentalStatusChanged(updated))

	return updated, nil
}

// SetDates is the manual date override: it bypasses reconciliation
// arithmetic entirely and may move the end date backwards
func (s *RentalService) SetDates(id uuid.UUID, start, end *time.Time) (*domain.Rental, error) {
	rental, err := s.rentalRepo.GetByID(id)
	if err != nil {
		return nil, err
	}

	snap := domain.RentalSnapshot{
		Status:        rental.Status,
		StartDate:     rental.StartDate,
		EndDate:       rental.EndDate,
		TotalPaid:     rental.TotalPaid,
		LastPaymentAt: rental.LastPaymentAt,
	}
	if start != nil {
		snap.StartDate = start
	}
	if end != nil {
		snap.EndDate = end
	}

	updated, err := s.rentalRepo.UpdateSnapshot(rental.ID, rental.Version, snap)
	if err != nil {
		return nil, err
	}

	publishRentalEvent(s.publisher, updated, websocket.RentalUpdated(updated))

	return updated, nil
}

// UpdateNotes updates the administrator notes on a rental
func (s *RentalService) UpdateNotes(id uuid.UUID, notes *string) (*domain.Rental, error) {
	return s.rentalRepo.UpdateNotes(id, notes)
}

// DeleteRental hard-deletes a rental and its ledger. This is an
// administrative operation; the reconciliation engine itself never deletes.
func (s *RentalService) DeleteRental(id uuid.UUID) error {
	if err := s.rentalRepo.Delete(id); err != nil {
		return err
	}
	log.Info().Str("rental_id", id.String()).Msg("rental deleted")
	return nil
}

func (s *RentalService) toView(rental *domain.Rental) *RentalView {
	return &RentalView{
		Rental:        rental,
		Site:          s.siteSummary(rental.SiteID),
		DaysRemaining: util.DaysRemaining(rental.EndDate, s.now().UTC()),
	}
}

func (s *RentalService) toViews(rentals []*domain.Rental) []*RentalView {
	views := make([]*RentalView, len(rentals))
	for i, r := range rentals {
		views[i] = s.toView(r)
	}
	return views
}

// siteSummary resolves the referenced site, degrading to the removed-site
// placeholder so historical rentals stay viewable after catalog deletions
func (s *RentalService) siteSummary(siteID uuid.UUID) *domain.SiteSummary {
	site, err := s.siteRepo.GetByID(siteID)
	if err != nil {
		if !errors.Is(err, domain.ErrSiteNotFound) {
			log.Warn().Err(err).Str("site_id", siteID.String()).Msg("site lookup failed")
		}
		return &domain.SiteSummary{ID: siteID, Name: domain.RemovedSiteName, Removed: true}
	}
	return &domain.SiteSummary{ID: site.ID, Name: site.Name, Slug: site.Slug}
}
