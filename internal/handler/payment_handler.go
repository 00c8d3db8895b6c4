package handler

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/weblease/weblease-backend/internal/domain"
	"github.com/weblease/weblease-backend/internal/service"
)

// PaymentHandler handles payment-related HTTP requests
type PaymentHandler struct {
	paymentService *service.PaymentService
}

// NewPaymentHandler creates a new PaymentHandler
func NewPaymentHandler(paymentService *service.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

// RecordPaymentRequest represents the record payment request body.
// PeriodMonths overrides the period derived from amount / monthlyPrice.
type RecordPaymentRequest struct {
	Amount       string  `json:"amount"`
	Method       string  `json:"paymentMethod"`
	PeriodMonths *int32  `json:"periodMonths,omitempty"`
	Notes        *string `json:"notes,omitempty"`
}

// RecordPaymentResponse carries the updated rental together with the period
// the payment was reconciled as covering
type RecordPaymentResponse struct {
	Rental              *domain.Rental `json:"rental"`
	AppliedPeriodMonths int32          `json:"appliedPeriodMonths"`
}

// PreviewPaymentRequest represents the preview request body
type PreviewPaymentRequest struct {
	Amount       string `json:"amount"`
	PeriodMonths *int32 `json:"periodMonths,omitempty"`
}

// RecordPayment handles POST /api/v1/rentals/:id/payments
func (h *PaymentHandler) RecordPayment(c echo.Context) error {
	rentalID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid rental ID", nil)
	}

	var req RecordPaymentRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return NewValidationError(c, "Invalid amount", []ValidationError{
			{Field: "amount", Message: "Must be a valid decimal number"},
		})
	}

	input := service.RecordPaymentInput{
		Amount:       amount,
		Method:       domain.PaymentMethod(req.Method),
		PeriodMonths: req.PeriodMonths,
		Notes:        req.Notes,
	}

	rental, appliedMonths, err := h.paymentService.RecordPayment(rentalID, input)
	if err != nil {
		if errors.Is(err, domain.ErrRentalNotFound) {
			return NewNotFoundError(c, "Rental not found")
		}
		if errors.Is(err, domain.ErrPaymentAmountInvalid) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "amount", Message: "Amount must be positive"},
			})
		}
		if errors.Is(err, domain.ErrPaymentMethodInvalid) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "paymentMethod", Message: "Must be bank_transfer, card, cash or other"},
			})
		}
		if errors.Is(err, domain.ErrInvalidTransition) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "status", Message: "Cannot record a payment on a cancelled rental"},
			})
		}
		if errors.Is(err, domain.ErrConcurrentModification) {
			return NewConflictError(c, "Rental was modified concurrently, retry with fresh state")
		}
		log.Error().Err(err).Str("rental_id", rentalID.String()).Msg("Failed to record payment")
		return NewInternalError(c, "Failed to record payment")
	}

	log.Info().
		Str("rental_id", rentalID.String()).
		Str("amount", amount.String()).
		Int32("period_months", appliedMonths).
		Msg("Payment recorded")

	return c.JSON(http.StatusCreated, RecordPaymentResponse{
		Rental:              rental,
		AppliedPeriodMonths: appliedMonths,
	})
}

// PreviewPayment handles POST /api/v1/rentals/:id/payments/preview
func (h *PaymentHandler) PreviewPayment(c echo.Context) error {
	rentalID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid rental ID", nil)
	}

	var req PreviewPaymentRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return NewValidationError(c, "Invalid amount", []ValidationError{
			{Field: "amount", Message: "Must be a valid decimal number"},
		})
	}

	preview, err := h.paymentService.PreviewPayment(rentalID, amount, req.PeriodMonths)
	if err != nil {
		if errors.Is(err, domain.ErrRentalNotFound) {
			return NewNotFoundError(c, "Rental not found")
		}
		if errors.Is(err, domain.ErrPaymentAmountInvalid) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "amount", Message: "Amount must be positive"},
			})
		}
		log.Error().Err(err).Str("rental_id", rentalID.String()).Msg("Failed to preview payment")
		return NewInternalError(c, "Failed to preview payment")
	}

	return c.JSON(http.StatusOK, preview)
}

// GetPayments handles GET /api/v1/rentals/:id/payments
func (h *PaymentHandler) GetPayments(c echo.Context) error {
	rentalID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid rental ID", nil)
	}

	payments, err := h.paymentService.GetPayments(rentalID)
	if err != nil {
		if errors.Is(err, domain.ErrRentalNotFound) {
			return NewNotFoundError(c, "Rental not found")
		}
		log.Error().Err(err).Str("rental_id", rentalID.String()).Msg("Failed to list payments")
		return NewInternalError(c, "Failed to list payments")
	}

	return c.JSON(http.StatusOK, payments)
}
