package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jmallard/daybook/internal/apperr"
	"github.com/jmallard/daybook/internal/dates"
	"github.com/jmallard/daybook/internal/item"
)

// handleCompletions returns the ids of the user's items done on a day,
// defaulting to today. Backs the UI checkmarks; the week view calls it once
// per day of its window.
func handleCompletions(opts StartOpts) gin.HandlerFunc {
	loc := opts.Cfg.Location()
	return func(c *gin.Context) {
		dayKey, err := dates.DayKey(c.Query("date"), loc)
		if err != nil {
			writeError(c, apperr.Validationf("date must be YYYY-MM-DD"))
			return
		}

		ids, err := item.CompletedOn(opts.DB, currentUser(c).ID, dayKey)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"completedItemIds": ids,
			"date":             dayKey,
		})
	}
}
