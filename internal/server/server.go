// Package server exposes the Daybook JSON API over HTTP.
package server

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jmallard/daybook/internal/auth"
	"github.com/jmallard/daybook/internal/calendar"
	"github.com/jmallard/daybook/internal/config"
	"github.com/jmallard/daybook/internal/ghsync"
	"github.com/jmallard/daybook/internal/models"
	"golang.org/x/oauth2"
	"gorm.io/gorm"
)

// ProviderFactory builds a calendar client for the session's OAuth token.
// Swappable so tests can inject a mock provider.
type ProviderFactory func(ctx context.Context, sess *models.Session) calendar.Provider

// StartOpts holds configuration for the API server.
type StartOpts struct {
	DB  *gorm.DB
	Cfg *config.Config
	Out io.Writer
	// Calendar defaults to the real Google client when nil.
	Calendar ProviderFactory
	// Issues defaults to a token-authenticated GitHub client when nil and a
	// token is configured.
	Issues ghsync.IssueLister
}

// Start launches the API server. It blocks until ctx is cancelled, then
// shuts down gracefully.
func Start(ctx context.Context, opts StartOpts) error {
	if opts.DB == nil {
		return fmt.Errorf("server: db is required")
	}
	if opts.Cfg == nil {
		return fmt.Errorf("server: config is required")
	}

	gin.SetMode(gin.ReleaseMode)
	router := NewRouter(opts)

	addr := fmt.Sprintf(":%d", opts.Cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	// Graceful shutdown on context cancellation.
	go func() {
		<-ctx.Done()
		srv.Shutdown(context.Background())
	}()

	if opts.Out != nil {
		fmt.Fprintf(opts.Out, "Daybook API running at http://localhost:%d\n", opts.Cfg.Server.Port)
	}

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server: %w", err)
	}
	return nil
}

// NewRouter builds the gin engine with all routes registered.
func NewRouter(opts StartOpts) *gin.Engine {
	if opts.Calendar == nil {
		conf := auth.OAuthConfig(opts.Cfg)
		opts.Calendar = func(ctx context.Context, sess *models.Session) calendar.Provider {
			token := &oauth2.Token{
				AccessToken:  sess.AccessToken,
				RefreshToken: sess.RefreshToken,
			}
			return calendar.NewGoogle(ctx, conf, token)
		}
	}
	if opts.Issues == nil && opts.Cfg.GitHub.Token != "" {
		opts.Issues = ghsync.NewLister(context.Background(), opts.Cfg.GitHub.Token)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	registerRoutes(router, opts)
	return router
}
