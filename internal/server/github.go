package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jmallard/daybook/internal/apperr"
	"github.com/jmallard/daybook/internal/ghsync"
)

// handleGitHubSync manually triggers the issue import.
func handleGitHubSync(opts StartOpts) gin.HandlerFunc {
	return func(c *gin.Context) {
		if opts.Issues == nil {
			writeError(c, apperr.Validationf("github integration is not configured"))
			return
		}
		created, err := ghsync.Import(c.Request.Context(), opts.DB, currentUser(c).ID,
			opts.Issues, opts.Cfg.GitHub.Username, opts.Cfg.GitHub.Repos)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"imported": created})
	}
}
