package service

import (
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"github.com/weblease/weblease-backend/internal/domain"
	"github.com/weblease/weblease-backend/internal/util"
	"github.com/weblease/weblease-backend/internal/websocket"
)

// PaymentService is the reconciliation engine: it applies a payment to a
// rental, deriving the covered period, extending the paid-through date and
// updating the status, all persisted atomically under the rental's version
// guard.
type PaymentService struct {
	rentalRepo  domain.RentalRepository
	paymentRepo domain.PaymentRepository
	publisher   websocket.EventPublisher
	now         func() time.Time
}

// NewPaymentService creates a new PaymentService
func NewPaymentService(rentalRepo domain.RentalRepository, paymentRepo domain.PaymentRepository) *PaymentService {
	return &PaymentService{
		rentalRepo:  rentalRepo,
		paymentRepo: paymentRepo,
		now:         time.Now,
	}
}

// SetEventPublisher sets the publisher for real-time updates
func (s *PaymentService) SetEventPublisher(publisher websocket.EventPublisher) {
	s.publisher = publisher
}

// RecordPaymentInput carries the operator-submitted payment fields.
// PeriodMonths, when set and positive, overrides the derived coverage period.
type RecordPaymentInput struct {
	Amount       decimal.Decimal
	Method       domain.PaymentMethod
	PeriodMonths *int32
	Notes        *string
}

// PaymentPreview is the derived outcome shown to the operator before
// submission, so an off-looking implied period can be corrected with an
// explicit override.
type PaymentPreview struct {
	AppliedPeriodMonths int32           `json:"appliedPeriodMonths"`
	NewEndDate          time.Time       `json:"newEndDate"`
	NewTotalPaid        decimal.Decimal `json:"newTotalPaid"`
}

// RecordPayment applies a payment to a rental. The ledger entry and the
// rental snapshot commit in one transaction; a concurrent write to the same
// rental surfaces as domain.ErrConcurrentModification and the caller retries
// against refreshed state.
func (s *PaymentService) RecordPayment(rentalID uuid.UUID, in RecordPaymentInput) (*domain.Rental, int32, error) {
	if in.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, 0, domain.ErrPaymentAmountInvalid
	}
	if !in.Method.IsValid() {
		return nil, 0, domain.ErrPaymentMethodInvalid
	}

	rental, err := s.rentalRepo.GetByID(rentalID)
	if err != nil {
		return nil, 0, err
	}

	// Reconciliation never reactivates a cancelled rental; that requires an
	// explicit administrative override first
	if rental.Status.IsTerminal() {
		return nil, 0, domain.ErrInvalidTransition
	}

	now := s.now().UTC()
	period := derivePeriodMonths(in.Amount, rental.MonthlyPrice, in.PeriodMonths)
	newEnd := extendEndDate(rental.EndDate, now, period)

	snap := domain.RentalSnapshot{
		Status:        rental.Status,
		StartDate:     rental.StartDate,
		EndDate:       &newEnd,
		TotalPaid:     rental.TotalPaid.Add(in.Amount),
		LastPaymentAt: &now,
	}
	if rental.Status == domain.StatusPending || rental.Status == domain.StatusPaymentDue {
		snap.Status = domain.StatusActive
	}
	if snap.StartDate == nil {
		snap.StartDate = &now
	}

	payment := &domain.Payment{
		RentalID:     rental.ID,
		Amount:       in.Amount,
		Method:       in.Method,
		PeriodMonths: period,
		PaidAt:       now,
		Notes:        in.Notes,
	}
	if err := payment.Validate(); err != nil {
		return nil, 0, err
	}

	updated, err := s.rentalRepo.ApplyPayment(rental.ID, rental.Version, snap, payment)
	if err != nil {
		return nil, 0, err
	}

	log.Info().
		Str("rental_id", rental.ID.String()).
		Str("amount", in.Amount.StringFixed(2)).
		Int32("period_months", period).
		Time("new_end_date", newEnd).
		Msg("payment recorded")

	publishRentalEvent(s.publisher, updated, websocket.PaymentRecorded(updated))

	return updated, period, nil
}

// PreviewPayment derives the period and end date a payment would produce
// without persisting anything
func (s *PaymentService) PreviewPayment(rentalID uuid.UUID, amount decimal.Decimal, periodMonths *int32) (*PaymentPreview, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, domain.ErrPaymentAmountInvalid
	}

	rental, err := s.rentalRepo.GetByID(rentalID)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	period := derivePeriodMonths(amount, rental.MonthlyPrice, periodMonths)

	return &PaymentPreview{
		AppliedPeriodMonths: period,
		NewEndDate:          extendEndDate(rental.EndDate, now, period),
		NewTotalPaid:        rental.TotalPaid.Add(amount),
	}, nil
}

// GetPayments returns the ledger for a rental in insertion order
func (s *PaymentService) GetPayments(rentalID uuid.UUID) ([]*domain.Payment, error) {
	if _, err := s.rentalRepo.GetByID(rentalID); err != nil {
		return nil, err
	}
	return s.paymentRepo.ListByRental(rentalID)
}

// derivePeriodMonths resolves the number of months a payment covers. An
// explicit positive override wins; otherwise the period is
// floor(amount / monthlyPrice) with a floor of 1, so even a token payment
// extends at least one month and never zero.
func derivePeriodMonths(amount, monthlyPrice decimal.Decimal, override *int32) int32 {
	if override != nil && *override > 0 {
		return *override
	}
	if monthlyPrice.LessThanOrEqual(decimal.Zero) {
		return 1
	}
	months := amount.Div(monthlyPrice).Floor().IntPart()
	if months < 1 {
		return 1
	}
	return int32(months)
}

// extendEndDate computes the new paid-through boundary. A renewal before
// expiry stacks on top of the remaining time; an expired or never-started
// rental extends from now. Calendar-month arithmetic avoids drift across
// many renewals.
func extendEndDate(current *time.Time, now time.Time, periodMonths int32) time.Time {
	if current != nil && current.After(now) {
		return util.AddMonths(*current, int(periodMonths))
	}
	return util.AddMonths(now, int(periodMonths))
}
