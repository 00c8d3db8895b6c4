package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrPaymentMethodInvalid = errors.New("unrecognized payment method")
	ErrPaymentPeriodInvalid = errors.New("period months must be at least 1")
)

// PaymentMethod is how a payment was received
type PaymentMethod string

const (
	MethodBankTransfer PaymentMethod = "bank_transfer"
	MethodCard         PaymentMethod = "card"
	MethodCash         PaymentMethod = "cash"
	MethodOther        PaymentMethod = "other"
)

// IsValid reports whether m is a recognized payment method
func (m PaymentMethod) IsValid() bool {
	switch m {
	case MethodBankTransfer, MethodCard, MethodCash, MethodOther:
		return true
	}
	return false
}

// Payment is one immutable ledger entry against a rental. PeriodMonths is
// the number of months this payment was deemed to cover at reconciliation
// time, recorded so the ledger stays auditable even if the monthly price
// later changes.
type Payment struct {
	ID           uuid.UUID       `json:"id"`
	RentalID     uuid.UUID       `json:"rentalId"`
	Amount       decimal.Decimal `json:"amount"`
	Method       PaymentMethod   `json:"paymentMethod"`
	PeriodMonths int32           `json:"periodMonths"`
	PaidAt       time.Time       `json:"paidAt"`
	Notes        *string         `json:"notes,omitempty"`
	CreatedAt    time.Time       `json:"createdAt"`
}

func (p *Payment) Validate() error {
	if p.RentalID == uuid.Nil {
		return ErrRentalNotFound
	}
	if p.Amount.LessThanOrEqual(decimal.Zero) {
		return ErrPaymentAmountInvalid
	}
	if !p.Method.IsValid() {
		return ErrPaymentMethodInvalid
	}
	if p.PeriodMonths < 1 {
		return ErrPaymentPeriodInvalid
	}
	return nil
}

// PaymentRepository defines read access to the ledger. Writes go through
// RentalRepository.ApplyPayment so the ledger entry and the rental snapshot
// commit together.
type PaymentRepository interface {
	GetByID(id uuid.UUID) (*Payment, error)
	ListByRental(rentalID uuid.UUID) ([]*Payment, error)
	SumByRental(rentalID uuid.UUID) (decimal.Decimal, error)
}
