package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jmallard/daybook/internal/apperr"
	"github.com/jmallard/daybook/internal/calendar"
	"github.com/jmallard/daybook/internal/dates"
	"gorm.io/gorm"
)

// handleCalendarList refreshes the provider's calendar list into
// CalendarSync rows and returns them. Also serves the manual sync trigger.
func handleCalendarList(opts StartOpts) gin.HandlerFunc {
	return func(c *gin.Context) {
		p := opts.Calendar(c.Request.Context(), currentSession(c))
		rows, err := calendar.SyncList(c.Request.Context(), opts.DB, currentUser(c).ID, p)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, rows)
	}
}

func handleCalendarToggle(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			CalendarID string `json:"calendarId"`
			IsEnabled  *bool  `json:"isEnabled"`
		}
		if err := c.ShouldBindJSON(&req); err != nil || req.CalendarID == "" || req.IsEnabled == nil {
			writeError(c, apperr.Validationf("calendarId and isEnabled are required"))
			return
		}
		if err := calendar.SetEnabled(db, currentUser(c).ID, req.CalendarID, *req.IsEnabled); err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true})
	}
}

func handleCalendarEvents(opts StartOpts) gin.HandlerFunc {
	return func(c *gin.Context) {
		startDate := c.Query("startDate")
		endDate := c.Query("endDate")
		if startDate == "" || endDate == "" {
			writeError(c, apperr.Validationf("startDate and endDate are required"))
			return
		}
		start, err := dates.DayStartUTC(startDate)
		if err != nil {
			writeError(c, apperr.Validationf("startDate must be YYYY-MM-DD"))
			return
		}
		end, err := dates.DayStartUTC(endDate)
		if err != nil {
			writeError(c, apperr.Validationf("endDate must be YYYY-MM-DD"))
			return
		}

		p := opts.Calendar(c.Request.Context(), currentSession(c))
		events, err := calendar.Events(c.Request.Context(), opts.DB, currentUser(c).ID,
			p, start, end, opts.Cfg.Timezone)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, events)
	}
}

func handleCalendarSettings(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		rows, err := calendar.Settings(db, currentUser(c).ID)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, rows)
	}
}
