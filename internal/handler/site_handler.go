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

// SiteHandler handles catalog site HTTP requests
type SiteHandler struct {
	siteService *service.SiteService
}

// NewSiteHandler creates a new SiteHandler
func NewSiteHandler(siteService *service.SiteService) *SiteHandler {
	return &SiteHandler{siteService: siteService}
}

// CreateSiteRequest represents the create site request body
type CreateSiteRequest struct {
	Name         string  `json:"name"`
	Slug         string  `json:"slug,omitempty"` // Optional: derived from name when empty
	Description  *string `json:"description,omitempty"`
	MonthlyPrice string  `json:"monthlyPrice"`
	Active       *bool   `json:"active,omitempty"`
}

// UpdateSiteRequest represents the update site request body
type UpdateSiteRequest struct {
	Name         string  `json:"name"`
	Slug         string  `json:"slug,omitempty"`
	Description  *string `json:"description,omitempty"`
	MonthlyPrice string  `json:"monthlyPrice"`
	Active       bool    `json:"active"`
}

// CreateSite handles POST /api/v1/sites
func (h *SiteHandler) CreateSite(c echo.Context) error {
	var req CreateSiteRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	price, err := decimal.NewFromString(req.MonthlyPrice)
	if err != nil {
		return NewValidationError(c, "Invalid monthly price", []ValidationError{
			{Field: "monthlyPrice", Message: "Must be a valid decimal number"},
		})
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}

	site := &domain.Site{
		Name:         req.Name,
		Slug:         req.Slug,
		Description:  req.Description,
		MonthlyPrice: price,
		Active:       active,
	}

	created, err := h.siteService.CreateSite(site)
	if err != nil {
		if mapped := mapSiteValidationError(c, err); mapped != nil {
			return mapped
		}
		log.Error().Err(err).Str("name", req.Name).Msg("Failed to create site")
		return NewInternalError(c, "Failed to create site")
	}

	return c.JSON(http.StatusCreated, created)
}

// GetSites handles GET /api/v1/sites
func (h *SiteHandler) GetSites(c echo.Context) error {
	includeInactive := c.QueryParam("includeInactive") == "true"

	sites, err := h.siteService.ListSites(includeInactive)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list sites")
		return NewInternalError(c, "Failed to list sites")
	}

	return c.JSON(http.StatusOK, sites)
}

// GetSite handles GET /api/v1/sites/:id
func (h *SiteHandler) GetSite(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid site ID", nil)
	}

	site, err := h.siteService.GetSite(id)
	if err != nil {
		if errors.Is(err, domain.ErrSiteNotFound) {
			return NewNotFoundError(c, "Site not found")
		}
		log.Error().Err(err).Str("site_id", id.String()).Msg("Failed to get site")
		return NewInternalError(c, "Failed to get site")
	}

	return c.JSON(http.StatusOK, site)
}

// UpdateSite handles PUT /api/v1/sites/:id
func (h *SiteHandler) UpdateSite(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid site ID", nil)
	}

	var req UpdateSiteRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	price, err := decimal.NewFromString(req.MonthlyPrice)
	if err != nil {
		return NewValidationError(c, "Invalid monthly price", []ValidationError{
			{Field: "monthlyPrice", Message: "Must be a valid decimal number"},
		})
	}

	site := &domain.Site{
		ID:           id,
		Name:         req.Name,
		Slug:         req.Slug,
		Description:  req.Description,
		MonthlyPrice: price,
		Active:       req.Active,
	}

	updated, err := h.siteService.UpdateSite(site)
	if err != nil {
		if errors.Is(err, domain.ErrSiteNotFound) {
			return NewNotFoundError(c, "Site not found")
		}
		if mapped := mapSiteValidationError(c, err); mapped != nil {
			return mapped
		}
		log.Error().Err(err).Str("site_id", id.String()).Msg("Failed to update site")
		return NewInternalError(c, "Failed to update site")
	}

	return c.JSON(http.StatusOK, updated)
}

// DeleteSite handles DELETE /api/v1/sites/:id
func (h *SiteHandler) DeleteSite(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid site ID", nil)
	}

	if err := h.siteService.DeleteSite(id); err != nil {
		if errors.Is(err, domain.ErrSiteNotFound) {
			return NewNotFoundError(c, "Site not found")
		}
		log.Error().Err(err).Str("site_id", id.String()).Msg("Failed to delete site")
		return NewInternalError(c, "Failed to delete site")
	}

	return c.NoContent(http.StatusNoContent)
}

func mapSiteValidationError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, domain.ErrSiteNameEmpty):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "name", Message: "Site name is required"},
		})
	case errors.Is(err, domain.ErrSiteNameTooLong):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "name", Message: "Site name must be 200 characters or less"},
		})
	case errors.Is(err, domain.ErrSitePriceInvalid):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "monthlyPrice", Message: "Monthly price must be positive"},
		})
	}
	return nil
}
