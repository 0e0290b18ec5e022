package server

import (
	"github.com/gin-gonic/gin"
)

// registerRoutes sets up all API routes on the gin router.
func registerRoutes(router *gin.Engine, opts StartOpts) {
	db := opts.DB

	// Sign-in flow; no session required.
	router.GET("/auth/login", handleLogin(opts))
	router.GET("/auth/callback", handleCallback(opts))
	router.POST("/auth/logout", handleLogout(db))

	api := router.Group("/api", requireSession(db))

	api.GET("/completions", handleCompletions(opts))

	api.GET("/items", handleItemList(opts))
	api.POST("/items", handleItemCreate(db))
	api.GET("/items/:id", handleItemGet(db))
	api.PATCH("/items/:id", handleItemUpdate(db))
	api.DELETE("/items/:id", handleItemDelete(db))
	api.POST("/items/:id/toggle", handleItemToggle(opts))
	api.GET("/items/:id/completions", handleItemCompletions(db))

	api.GET("/lists", handleListAll(db))
	api.POST("/lists", handleListCreate(db))
	api.GET("/lists/:id", handleListGet(db))
	api.PATCH("/lists/:id", handleListUpdate(db))
	api.DELETE("/lists/:id", handleListDelete(db))
	api.POST("/lists/:id/items", handleListItemAdd(db))
	api.PATCH("/lists/:id/items", handleListItemUpdate(db))
	api.DELETE("/lists/:id/items", handleListItemDelete(db))

	api.GET("/calendar/list", handleCalendarList(opts))
	api.PATCH("/calendar/list", handleCalendarToggle(db))
	api.GET("/calendar/events", handleCalendarEvents(opts))
	api.GET("/calendar/settings", handleCalendarSettings(db))
	api.POST("/calendar/settings/sync", handleCalendarList(opts))

	api.POST("/github/sync", handleGitHubSync(opts))
}
