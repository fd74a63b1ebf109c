// controllers/reminder.go
package controllers

import (
	"net/http"
	"strconv"

	"garage-backend/services"
	"garage-backend/utils"

	"github.com/gin-gonic/gin"
)

// ReminderController exposes the unpaid-balance reminder job. Admin only.
type ReminderController struct {
	svc *services.ReminderService
}

func NewReminderController(svc *services.ReminderService) *ReminderController {
	return &ReminderController{svc: svc}
}

// GetReminders lists recent reminder attempts; ?limit= caps the result.
func (rc *ReminderController) GetReminders(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			utils.RespondWithError(c, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	reminders, err := rc.svc.RecentReminders(c.Request.Context(), limit)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, reminders)
}

// SendReminders runs the reminder job now.
func (rc *ReminderController) SendReminders(c *gin.Context) {
	result, err := rc.svc.SendUnpaidReminders(c.Request.Context())
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Reminder run completed",
		"result":  result,
	})
}
