package server

import (
	"github.com/gin-gonic/gin"
	"github.com/jmallard/daybook/internal/apperr"
	"github.com/jmallard/daybook/internal/auth"
	"github.com/jmallard/daybook/internal/models"
	"gorm.io/gorm"
)

// Context keys set by requireSession.
const (
	ctxUser    = "user"
	ctxSession = "session"
)

// requireSession resolves the session cookie and attaches the user to the
// request context, rejecting with 401 otherwise.
func requireSession(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, _ := c.Cookie(auth.CookieName)
		user, sess, err := auth.SessionUser(db, token)
		if err != nil {
			writeError(c, apperr.ErrUnauthorized)
			c.Abort()
			return
		}
		c.Set(ctxUser, user)
		c.Set(ctxSession, sess)
		c.Next()
	}
}

// currentUser returns the authenticated user attached by requireSession.
func currentUser(c *gin.Context) *models.User {
	return c.MustGet(ctxUser).(*models.User)
}

// currentSession returns the session attached by requireSession.
func currentSession(c *gin.Context) *models.Session {
	return c.MustGet(ctxSession).(*models.Session)
}
