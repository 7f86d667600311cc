package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fintrack/internal/services"
)

// AlertHandler handles budget alert requests.
type AlertHandler struct {
	alertService services.AlertServicer
}

// NewAlertHandler creates a new AlertHandler.
func NewAlertHandler(alertService services.AlertServicer) *AlertHandler {
	return &AlertHandler{alertService: alertService}
}

// GetUserAlerts handles the retrieval of the user's current budget alerts
// @Summary     Get budget alerts
// @Description Evaluate all budget limits against spend in their current period. Limits with no spend yet are omitted.
// @Tags        alerts
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Success     200 {array} services.Alert "Current budget alerts"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /alerts [get]
func (h *AlertHandler) GetUserAlerts(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	alerts, err := h.alertService.GetUserAlerts(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"alerts": alerts})
}
