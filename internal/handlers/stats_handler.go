package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fintrack/internal/services"
)

// StatsHandler handles statistics dashboard requests.
type StatsHandler struct {
	statsService services.StatsServicer
}

// NewStatsHandler creates a new StatsHandler.
func NewStatsHandler(statsService services.StatsServicer) *StatsHandler {
	return &StatsHandler{statsService: statsService}
}

// GetStatistics handles the retrieval of the user's statistics dashboard
// @Summary     Get statistics
// @Description Get monthly income and expense totals for the authenticated user. Responses are cached per user and invalidated on every transaction write.
// @Tags        statistics
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} services.StatsReport "Monthly totals, oldest month first"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /statistics [get]
func (h *StatsHandler) GetStatistics(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	report, err := h.statsService.GetStatistics(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"statistics": report})
}
