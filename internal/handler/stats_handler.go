package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/weblease/weblease-backend/internal/service"
)

// StatsHandler handles aggregate statistics requests
type StatsHandler struct {
	statsService *service.StatsService
}

// NewStatsHandler creates a new StatsHandler
func NewStatsHandler(statsService *service.StatsService) *StatsHandler {
	return &StatsHandler{statsService: statsService}
}

// GetStats handles GET /api/v1/stats. Counts and revenue are re-derived from
// the rental collection on every call.
func (h *StatsHandler) GetStats(c echo.Context) error {
	stats, err := h.statsService.GetStats()
	if err != nil {
		log.Error().Err(err).Msg("Failed to compute stats")
		return NewInternalError(c, "Failed to compute stats")
	}

	return c.JSON(http.StatusOK, stats)
}
