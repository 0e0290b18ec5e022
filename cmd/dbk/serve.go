package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmallard/daybook/internal/auth"
	"github.com/jmallard/daybook/internal/calendar"
	"github.com/jmallard/daybook/internal/config"
	"github.com/jmallard/daybook/internal/db"
	"github.com/jmallard/daybook/internal/ghsync"
	"github.com/jmallard/daybook/internal/notify"
	"github.com/jmallard/daybook/internal/server"
	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

func newServeCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the Daybook API server",
		Long:  "Launches the HTTP API plus the reminder dispatcher and periodic sync jobs.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, configPath)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "daybook.yaml", "path to Daybook config file")
	return cmd
}

func runServe(cmd *cobra.Command, configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	gormDB, err := db.Connect(cfg.Database)
	if err != nil {
		return err
	}
	if err := db.AutoMigrate(gormDB); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		fmt.Fprintf(cmd.OutOrStdout(), "\nReceived %s, shutting down...\n", sig)
		cancel()
	}()

	scheduler, err := startJobs(ctx, cfg, gormDB)
	if err != nil {
		return err
	}
	defer scheduler.Stop()

	return server.Start(ctx, server.StartOpts{
		DB:  gormDB,
		Cfg: cfg,
		Out: cmd.OutOrStdout(),
	})
}

// startJobs schedules the reminder dispatcher and, when configured, the
// calendar and GitHub sync loops.
func startJobs(ctx context.Context, cfg *config.Config, gormDB *gorm.DB) (*cron.Cron, error) {
	scheduler := cron.New()
	loc := cfg.Location()

	channels, err := notify.ChannelsFromConfig(cfg.Notify)
	if err != nil {
		return nil, err
	}
	if len(channels) > 0 {
		_, err := scheduler.AddFunc(cfg.Notify.ReminderCron, func() {
			if _, err := notify.DispatchDue(gormDB, time.Now(), channels, loc); err != nil {
				log.Printf("serve: reminder dispatch: %v", err)
			}
		})
		if err != nil {
			return nil, fmt.Errorf("serve: schedule reminders: %w", err)
		}
	}

	if cfg.Google.ClientID != "" {
		conf := auth.OAuthConfig(cfg)
		_, err := scheduler.AddFunc(cfg.Calendar.SyncCron, func() {
			if _, err := calendar.SyncAll(ctx, gormDB, conf); err != nil {
				log.Printf("serve: calendar sync: %v", err)
			}
		})
		if err != nil {
			return nil, fmt.Errorf("serve: schedule calendar sync: %w", err)
		}
	}

	if cfg.GitHub.Token != "" {
		lister := ghsync.NewLister(ctx, cfg.GitHub.Token)
		_, err := scheduler.AddFunc(cfg.GitHub.SyncCron, func() {
			if _, err := ghsync.ImportAll(ctx, gormDB, lister, cfg.GitHub.Username, cfg.GitHub.Repos); err != nil {
				log.Printf("serve: github import: %v", err)
			}
		})
		if err != nil {
			return nil, fmt.Errorf("serve: schedule github import: %w", err)
		}
	}

	scheduler.Start()
	return scheduler, nil
}
