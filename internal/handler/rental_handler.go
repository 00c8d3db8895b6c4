package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/weblease/weblease-backend/internal/domain"
	"github.com/weblease/weblease-backend/internal/service"
)

// RentalHandler handles rental-related HTTP requests
type RentalHandler struct {
	rentalService *service.RentalService
}

// NewRentalHandler creates a new RentalHandler
func NewRentalHandler(rentalService *service.RentalService) *RentalHandler {
	return &RentalHandler{rentalService: rentalService}
}

// CreateRentalRequest represents the create rental request body
type CreateRentalRequest struct {
	SiteID       string  `json:"siteId"`
	ContactName  string  `json:"contactName"`
	ContactEmail string  `json:"contactEmail"`
	ContactPhone string  `json:"contactPhone"`
	ClientID     *string `json:"clientId,omitempty"`
	MonthlyPrice *string `json:"monthlyPrice,omitempty"` // Optional: defaults from the site
	Notes        *string `json:"notes,omitempty"`
}

// UpdateStatusRequest represents the manual status override request body
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// UpdateDatesRequest represents the manual date override request body.
// Either field may be null to clear the corresponding date.
type UpdateDatesRequest struct {
	StartDate *string `json:"startDate"`
	EndDate   *string `json:"endDate"`
}

// UpdateNotesRequest represents the notes update request body
type UpdateNotesRequest struct {
	Notes *string `json:"notes"`
}

// CreateRental handles POST /api/v1/rentals
func (h *RentalHandler) CreateRental(c echo.Context) error {
	var req CreateRentalRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	siteID, err := uuid.Parse(req.SiteID)
	if err != nil {
		return NewValidationError(c, "Invalid site ID", []ValidationError{
			{Field: "siteId", Message: "Must be a valid UUID"},
		})
	}

	var clientID *uuid.UUID
	if req.ClientID != nil && *req.ClientID != "" {
		id, err := uuid.Parse(*req.ClientID)
		if err != nil {
			return NewValidationError(c, "Invalid client ID", []ValidationError{
				{Field: "clientId", Message: "Must be a valid UUID"},
			})
		}
		clientID = &id
	}

	var monthlyPrice *decimal.Decimal
	if req.MonthlyPrice != nil && *req.MonthlyPrice != "" {
		price, err := decimal.NewFromString(*req.MonthlyPrice)
		if err != nil {
			return NewValidationError(c, "Invalid monthly price", []ValidationError{
				{Field: "monthlyPrice", Message: "Must be a valid decimal number"},
			})
		}
		monthlyPrice = &price
	}

	input := service.CreateRentalInput{
		SiteID: siteID,
		Contact: domain.ContactInfo{
			Name:  req.ContactName,
			Email: req.ContactEmail,
			Phone: req.ContactPhone,
		},
		ClientID:     clientID,
		MonthlyPrice: monthlyPrice,
		Notes:        req.Notes,
	}

	rental, err := h.rentalService.CreateRental(input)
	if err != nil {
		if errors.Is(err, domain.ErrSiteNotFound) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "siteId", Message: "Unknown site"},
			})
		}
		if errors.Is(err, domain.ErrClientNotFound) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "clientId", Message: "Unknown client"},
			})
		}
		if errors.Is(err, domain.ErrRentalContactNameEmpty) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "contactName", Message: "Contact name is required"},
			})
		}
		if errors.Is(err, domain.ErrRentalContactNameTooLong) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "contactName", Message: "Contact name must be 200 characters or less"},
			})
		}
		if errors.Is(err, domain.ErrRentalContactEmailEmpty) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "contactEmail", Message: "Contact email is required"},
			})
		}
		if errors.Is(err, domain.ErrRentalPriceInvalid) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "monthlyPrice", Message: "Monthly price must not be negative"},
			})
		}
		log.Error().Err(err).Str("site_id", req.SiteID).Msg("Failed to create rental")
		return NewInternalError(c, "Failed to create rental")
	}

	log.Info().Str("rental_id", rental.ID.String()).Str("site_id", rental.SiteID.String()).Msg("Rental created")

	return c.JSON(http.StatusCreated, rental)
}

// GetRentals handles GET /api/v1/rentals
func (h *RentalHandler) GetRentals(c echo.Context) error {
	rentals, err := h.rentalService.ListRentals()
	if err != nil {
		log.Error().Err(err).Msg("Failed to list rentals")
		return NewInternalError(c, "Failed to list rentals")
	}

	return c.JSON(http.StatusOK, rentals)
}

// GetRental handles GET /api/v1/rentals/:id
func (h *RentalHandler) GetRental(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid rental ID", nil)
	}

	rental, err := h.rentalService.GetRental(id)
	if err != nil {
		if errors.Is(err, domain.ErrRentalNotFound) {
			return NewNotFoundError(c, "Rental not found")
		}
		log.Error().Err(err).Str("rental_id", id.String()).Msg("Failed to get rental")
		return NewInternalError(c, "Failed to get rental")
	}

	return c.JSON(http.StatusOK, rental)
}

// UpdateStatus handles PATCH /api/v1/rentals/:id/status
func (h *RentalHandler) UpdateStatus(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid rental ID", nil)
	}

	var req UpdateStatusRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	rental, err := h.rentalService.SetStatus(id, domain.RentalStatus(req.Status))
	if err != nil {
		if errors.Is(err, domain.ErrRentalNotFound) {
			return NewNotFoundError(c, "Rental not found")
		}
		if errors.Is(err, domain.ErrInvalidTransition) {
			return NewValidationError(c, "Invalid status transition", []ValidationError{
				{Field: "status", Message: err.Error()},
			})
		}
		if errors.Is(err, domain.ErrConcurrentModification) {
			return NewConflictError(c, "Rental was modified concurrently, retry with fresh state")
		}
		log.Error().Err(err).Str("rental_id", id.String()).Str("status", req.Status).Msg("Failed to update rental status")
		return NewInternalError(c, "Failed to update rental status")
	}

	log.Info().Str("rental_id", id.String()).Str("status", string(rental.Status)).Msg("Rental status updated")

	return c.JSON(http.StatusOK, rental)
}

// UpdateDates handles PATCH /api/v1/rentals/:id/dates
func (h *RentalHandler) UpdateDates(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid rental ID", nil)
	}

	var req UpdateDatesRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	start, err := parseDatePtr(req.StartDate)
	if err != nil {
		return NewValidationError(c, "Invalid start date", []ValidationError{
			{Field: "startDate", Message: "Must be in YYYY-MM-DD format"},
		})
	}
	end, err := parseDatePtr(req.EndDate)
	if err != nil {
		return NewValidationError(c, "Invalid end date", []ValidationError{
			{Field: "endDate", Message: "Must be in YYYY-MM-DD format"},
		})
	}

	rental, err := h.rentalService.SetDates(id, start, end)
	if err != nil {
		if errors.Is(err, domain.ErrRentalNotFound) {
			return NewNotFoundError(c, "Rental not found")
		}
		if errors.Is(err, domain.ErrConcurrentModification) {
			return NewConflictError(c, "Rental was modified concurrently, retry with fresh state")
		}
		log.Error().Err(err).Str("rental_id", id.String()).Msg("Failed to update rental dates")
		return NewInternalError(c, "Failed to update rental dates")
	}

	log.Info().Str("rental_id", id.String()).Msg("Rental dates updated")

	return c.JSON(http.StatusOK, rental)
}

// UpdateNotes handles PATCH /api/v1/rentals/:id/notes
func (h *RentalHandler) UpdateNotes(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid rental ID", nil)
	}

	var req UpdateNotesRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	rental, err := h.rentalService.UpdateNotes(id, req.Notes)
	if err != nil {
		if errors.Is(err, domain.ErrRentalNotFound) {
			return NewNotFoundError(c, "Rental not found")
		}
		log.Error().Err(err).Str("rental_id", id.String()).Msg("Failed to update rental notes")
		return NewInternalError(c, "Failed to update rental notes")
	}

	return c.JSON(http.StatusOK, rental)
}

// DeleteRental handles DELETE /api/v1/rentals/:id
func (h *RentalHandler) DeleteRental(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid rental ID", nil)
	}

	if err := h.rentalService.DeleteRental(id); err != nil {
		if errors.Is(err, domain.ErrRentalNotFound) {
			return NewNotFoundError(c, "Rental not found")
		}
		log.Error().Err(err).Str("rental_id", id.String()).Msg("Failed to delete rental")
		return NewInternalError(c, "Failed to delete rental")
	}

	log.Info().Str("rental_id", id.String()).Msg("Rental deleted")
	return c.NoContent(http.StatusNoContent)
}

// GetClientRentals handles GET /api/v1/clients/:id/rentals
func (h *RentalHandler) GetClientRentals(c echo.Context) error {
	clientID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid client ID", nil)
	}

	rentals, err := h.rentalService.ListByClient(clientID)
	if err != nil {
		if errors.Is(err, domain.ErrClientNotFound) {
			return NewNotFoundError(c, "Client not found")
		}
		log.Error().Err(err).Str("client_id", clientID.String()).Msg("Failed to list client rentals")
		return NewInternalError(c, "Failed to list client rentals")
	}

	return c.JSON(http.StatusOK, rentals)
}

func parseDatePtr(s *string) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", *s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
