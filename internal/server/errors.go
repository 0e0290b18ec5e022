package server

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jmallard/daybook/internal/apperr"
)

// writeError maps a domain error to its HTTP response. Every handler routes
// failures through here so nothing surfaces an unhandled error to the
// client; unexpected errors become a generic 500 and are logged with detail.
func writeError(c *gin.Context, err error) {
	var gateErr *apperr.GateError
	if errors.As(err, &gateErr) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":           gateErr.Error(),
			"incompleteCount": gateErr.IncompleteCount,
		})
		return
	}

	var valErr *apperr.ValidationError
	if errors.As(err, &valErr) {
		c.JSON(http.StatusBadRequest, gin.H{"error": valErr.Msg})
		return
	}

	switch {
	case errors.Is(err, apperr.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
	case errors.Is(err, apperr.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
	case errors.Is(err, apperr.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	default:
		log.Printf("server: %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
