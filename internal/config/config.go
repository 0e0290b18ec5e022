// Package config provides YAML-based configuration loading for Daybook.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the top-level Daybook configuration, loaded from daybook.yaml.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	// Timezone names the calendar-day reference zone. Every day-key
	// computation goes through it; nothing else in the codebase is allowed
	// to assume a zone.
	Timezone string         `yaml:"timezone"`
	Google   GoogleConfig   `yaml:"google"`
	Notify   NotifyConfig   `yaml:"notify"`
	GitHub   GitHubConfig   `yaml:"github"`
	Calendar CalendarConfig `yaml:"calendar"`
}

// ServerConfig holds HTTP listener settings.
type ServerConfig struct {
	Port    int    `yaml:"port"`
	BaseURL string `yaml:"base_url"`
}

// DatabaseConfig selects and parameterizes the storage backend.
type DatabaseConfig struct {
	Driver   string `yaml:"driver"` // sqlite or mysql
	Path     string `yaml:"path"`   // sqlite file path
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
}

// GoogleConfig holds the OAuth client used for sign-in and Calendar reads.
type GoogleConfig struct {
	ClientID     string `yaml:"client_id"`
	ClientSecret string `yaml:"client_secret"`
}

// NotifyConfig configures reminder delivery channels. Channels with empty
// credentials are disabled.
type NotifyConfig struct {
	ReminderCron    string         `yaml:"reminder_cron"`
	SlackWebhookURL string         `yaml:"slack_webhook_url"`
	Discord         DiscordConfig  `yaml:"discord"`
	Telegram        TelegramConfig `yaml:"telegram"`
}

// DiscordConfig holds the bot token and target channel for Discord reminders.
type DiscordConfig struct {
	BotToken  string `yaml:"bot_token"`
	ChannelID string `yaml:"channel_id"`
}

// TelegramConfig holds the bot token and target chat for Telegram reminders.
type TelegramConfig struct {
	BotToken string `yaml:"bot_token"`
	ChatID   int64  `yaml:"chat_id"`
}

// GitHubConfig configures the issue importer. Empty token disables it.
type GitHubConfig struct {
	Token    string   `yaml:"token"`
	Username string   `yaml:"username"`
	Repos    []string `yaml:"repos"` // owner/name
	SyncCron string   `yaml:"sync_cron"`
}

// CalendarConfig configures the periodic Google calendar-list refresh.
type CalendarConfig struct {
	SyncCron string `yaml:"sync_cron"`
}

// Load reads a YAML config file from path and returns a validated Config.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	return Parse(data)
}

// Parse unmarshals YAML bytes into a validated Config.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse: %w", err)
	}
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// applyDefaults fills in derived and default values.
func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 3000
	}
	if c.Server.BaseURL == "" {
		c.Server.BaseURL = fmt.Sprintf("http://localhost:%d", c.Server.Port)
	}
	if c.Database.Driver == "" {
		c.Database.Driver = "sqlite"
	}
	if c.Database.Driver == "sqlite" && c.Database.Path == "" {
		c.Database.Path = "daybook.db"
	}
	if c.Database.Driver == "mysql" {
		if c.Database.Host == "" {
			c.Database.Host = "127.0.0.1"
		}
		if c.Database.Port == 0 {
			c.Database.Port = 3306
		}
		if c.Database.User == "" {
			c.Database.User = "root"
		}
	}
	if c.Timezone == "" {
		c.Timezone = "America/New_York"
	}
	if c.Notify.ReminderCron == "" {
		c.Notify.ReminderCron = "* * * * *"
	}
	if c.GitHub.SyncCron == "" {
		c.GitHub.SyncCron = "*/15 * * * *"
	}
	if c.Calendar.SyncCron == "" {
		c.Calendar.SyncCron = "0 * * * *"
	}
}

// validate checks that all required fields are present and consistent.
func (c *Config) validate() error {
	var errs []string
	switch c.Database.Driver {
	case "sqlite":
	case "mysql":
		if c.Database.Name == "" {
			errs = append(errs, "database.name is required for mysql")
		}
	default:
		errs = append(errs, fmt.Sprintf("database.driver %q is not supported (sqlite, mysql)", c.Database.Driver))
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		errs = append(errs, fmt.Sprintf("timezone %q is not a valid IANA zone", c.Timezone))
	}
	if c.GitHub.Token != "" && c.GitHub.Username == "" {
		errs = append(errs, "github.username is required when github.token is set")
	}
	if len(errs) > 0 {
		return fmt.Errorf("config: validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

// Location returns the configured reference timezone. Config validation
// guarantees it loads.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
