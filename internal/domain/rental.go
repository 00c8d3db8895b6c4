package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrRentalContactNameEmpty   = errors.New("contact name is required")
	ErrRentalContactNameTooLong = errors.New("contact name must be 200 characters or less")
	ErrRentalContactEmailEmpty  = errors.New("contact email is required")
	ErrRentalPriceInvalid       = errors.New("monthly price must not be negative")
	ErrRentalSiteRequired       = errors.New("site is required")
)

// RentalStatus is the lifecycle state of a rental
type RentalStatus string

const (
	StatusPending    RentalStatus = "pending"
	StatusActive     RentalStatus = "active"
	StatusPaymentDue RentalStatus = "payment_due"
	StatusCancelled  RentalStatus = "cancelled"
)

// IsValid reports whether s is a recognized rental status
func (s RentalStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusActive, StatusPaymentDue, StatusCancelled:
		return true
	}
	return false
}

// IsTerminal reports whether no transition leaves s
func (s RentalStatus) IsTerminal() bool {
	return s == StatusCancelled
}

// CanTransitionTo validates a status transition. Cancelled is terminal:
// nothing leaves it, including a repeated set-to-cancelled. Every other
// transition between recognized statuses is accepted, including the
// idempotent set-to-current-state, which callers treat as a no-op.
func (s RentalStatus) CanTransitionTo(target RentalStatus) error {
	if !target.IsValid() {
		return ErrInvalidTransition
	}
	if s.IsTerminal() {
		// Re-cancelling is rejected too, so the caller learns the rental
		// is already terminal
		return ErrInvalidTransition
	}
	return nil
}

// Rental represents one lease of one catalog site by one client.
// ContactName/Email/Phone are a snapshot taken at request time and are kept
// even if the client account later changes. Version is the optimistic
// concurrency token: every write checks and bumps it.
type Rental struct {
	ID            uuid.UUID       `json:"id"`
	SiteID        uuid.UUID       `json:"siteId"`
	ClientID      *uuid.UUID      `json:"clientId,omitempty"`
	ContactName   string          `json:"contactName"`
	ContactEmail  string          `json:"contactEmail"`
	ContactPhone  string          `json:"contactPhone"`
	MonthlyPrice  decimal.Decimal `json:"monthlyPrice"`
	Status        RentalStatus    `json:"status"`
	StartDate     *time.Time      `json:"startDate,omitempty"`
	EndDate       *time.Time      `json:"endDate,omitempty"`
	TotalPaid     decimal.Decimal `json:"totalPaid"`
	LastPaymentAt *time.Time      `json:"lastPaymentAt,omitempty"`
	Notes         *string         `json:"notes,omitempty"`
	Version       int32           `json:"version"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`

	// Payments is the ordered ledger, loaded on detail reads. Insertion
	// order is chronological for display; reconciliation uses the running
	// totals, not list order.
	Payments []*Payment `json:"payments,omitempty"`
}

func (r *Rental) Validate() error {
	if r.SiteID == uuid.Nil {
		return ErrRentalSiteRequired
	}
	if r.ContactName == "" {
		return ErrRentalContactNameEmpty
	}
	if len(r.ContactName) > MaxContactNameLength {
		return ErrRentalContactNameTooLong
	}
	if r.ContactEmail == "" {
		return ErrRentalContactEmailEmpty
	}
	if r.MonthlyPrice.IsNegative() {
		return ErrRentalPriceInvalid
	}
	return nil
}

// RentalSnapshot is the mutable slice of a rental that payment
// reconciliation and status overrides produce. The repository persists it
// together with any new ledger entry in one transaction, guarded by the
// expected version.
type RentalSnapshot struct {
	Status        RentalStatus
	StartDate     *time.Time
	EndDate       *time.Time
	TotalPaid     decimal.Decimal
	LastPaymentAt *time.Time
}

// RentalRepository defines persistence for rentals
type RentalRepository interface {
	Create(rental *Rental) (*Rental, error)
	GetByID(id uuid.UUID) (*Rental, error)
	GetByIDWithPayments(id uuid.UUID) (*Rental, error)
	List() ([]*Rental, error)
	ListByClient(clientID uuid.UUID) ([]*Rental, error)
	ListByStatus(status RentalStatus) ([]*Rental, error)

	// UpdateSnapshot applies a snapshot to the rental identified by id,
	// failing with ErrConcurrentModification when expectedVersion no longer
	// matches the stored version.
	UpdateSnapshot(id uuid.UUID, expectedVersion int32, snap RentalSnapshot) (*Rental, error)

	// ApplyPayment atomically appends a ledger entry and applies the
	// snapshot under the same version guard. Partial application is a
	// correctness violation, so both writes share one transaction.
	ApplyPayment(id uuid.UUID, expectedVersion int32, snap RentalSnapshot, payment *Payment) (*Rental, error)

	UpdateNotes(id uuid.UUID, notes *string) (*Rental, error)
	Delete(id uuid.UUID) error
}
