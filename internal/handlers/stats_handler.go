package handlers

import (
	"net/http"

	"github.com/ecobite/backend/internal/repositories"
	"github.com/labstack/echo/v4"
)

// StatsHandler serves dashboard rollups. Stats never fail a caller: on store
// trouble the repository hands back zeroed counters.
type StatsHandler struct {
	statsRepository repositories.StatsRepository
}

// NewStatsHandler creates a new StatsHandler
func NewStatsHandler(statsRepo repositories.StatsRepository) *StatsHandler {
	return &StatsHandler{statsRepository: statsRepo}
}

// GetGlobalStats returns the site-wide counters
func (h *StatsHandler) GetGlobalStats(c echo.Context) error {
	return c.JSON(http.StatusOK, h.statsRepository.GlobalStats())
}

// GetMyStats returns the authenticated user's counters
func (h *StatsHandler) GetMyStats(c echo.Context) error {
	claims, err := actorClaims(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, h.statsRepository.UserStats(claims.UserID))
}
