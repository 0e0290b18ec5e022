package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jmallard/daybook/internal/apperr"
	"github.com/jmallard/daybook/internal/auth"
	"golang.org/x/oauth2"
	"gorm.io/gorm"
)

// stateCookie carries the OAuth CSRF state between login and callback.
const stateCookie = "daybook_oauth_state"

func handleLogin(opts StartOpts) gin.HandlerFunc {
	conf := auth.OAuthConfig(opts.Cfg)
	return func(c *gin.Context) {
		state := uuid.NewString()
		c.SetCookie(stateCookie, state, 600, "/", "", false, true)
		c.Redirect(http.StatusFound, conf.AuthCodeURL(state, oauth2.AccessTypeOffline))
	}
}

func handleCallback(opts StartOpts) gin.HandlerFunc {
	conf := auth.OAuthConfig(opts.Cfg)
	return func(c *gin.Context) {
		state, err := c.Cookie(stateCookie)
		if err != nil || state == "" || c.Query("state") != state {
			writeError(c, apperr.Validationf("invalid oauth state"))
			return
		}
		code := c.Query("code")
		if code == "" {
			writeError(c, apperr.Validationf("code is required"))
			return
		}

		sess, err := auth.HandleCallback(c.Request.Context(), opts.DB, conf, code)
		if err != nil {
			writeError(c, err)
			return
		}

		c.SetCookie(stateCookie, "", -1, "/", "", false, true)
		c.SetCookie(auth.CookieName, sess.Token, 30*24*3600, "/", "", false, true)
		c.Redirect(http.StatusFound, "/")
	}
}

func handleLogout(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, _ := c.Cookie(auth.CookieName)
		if err := auth.Logout(db, token); err != nil {
			writeError(c, err)
			return
		}
		c.SetCookie(auth.CookieName, "", -1, "/", "", false, true)
		c.JSON(http.StatusOK, gin.H{"success": true})
	}
}
