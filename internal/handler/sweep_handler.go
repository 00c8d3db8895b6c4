package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/weblease/weblease-backend/internal/service"
)

// SweepHandler exposes the expiration sweep as a manual trigger, in addition
// to the scheduled run
type SweepHandler struct {
	sweepService *service.SweepService
}

// NewSweepHandler creates a new SweepHandler
func NewSweepHandler(sweepService *service.SweepService) *SweepHandler {
	return &SweepHandler{sweepService: sweepService}
}

// SweepResponse reports how many rentals the sweep transitioned
type SweepResponse struct {
	Transitioned int `json:"transitioned"`
}

// Sweep handles POST /api/v1/sweep
func (h *SweepHandler) Sweep(c echo.Context) error {
	transitioned, err := h.sweepService.Sweep()
	if err != nil {
		log.Error().Err(err).Msg("Manual sweep failed")
		return NewInternalError(c, "Sweep failed")
	}

	log.Info().Int("transitioned", transitioned).Msg("Manual sweep completed")

	return c.JSON(http.StatusOK, SweepResponse{Transitioned: transitioned})
}
