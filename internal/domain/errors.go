package domain

import "errors"

// Domain errors
var (
	ErrRentalNotFound         = errors.New("rental not found")
	ErrSiteNotFound           = errors.New("site not found")
	ErrClientNotFound         = errors.New("client not found")
	ErrPaymentNotFound        = errors.New("payment not found")
	ErrPaymentAmountInvalid   = errors.New("payment amount must be positive")
	ErrInvalidTransition      = errors.New("invalid status transition")
	ErrConcurrentModification = errors.New("rental was modified concurrently")
	ErrInternalError          = errors.New("internal error")
)

// Validation constants
const (
	MaxContactNameLength = 200
	MaxSiteNameLength    = 200
)
