// Package notify delivers reminder notifications through configured
// messaging channels.
package notify

import (
	"fmt"
	"log"
	"time"

	"github.com/jmallard/daybook/internal/config"
	"github.com/jmallard/daybook/internal/models"
	"gorm.io/gorm"
)

// Channel sends one reminder message. Implementations wrap a messaging SDK.
type Channel interface {
	Name() string
	Send(text string) error
}

// ChannelsFromConfig builds the channels whose credentials are configured.
func ChannelsFromConfig(cfg config.NotifyConfig) ([]Channel, error) {
	var channels []Channel
	if cfg.SlackWebhookURL != "" {
		channels = append(channels, NewSlack(cfg.SlackWebhookURL))
	}
	if cfg.Discord.BotToken != "" && cfg.Discord.ChannelID != "" {
		ch, err := NewDiscord(cfg.Discord.BotToken, cfg.Discord.ChannelID)
		if err != nil {
			return nil, err
		}
		channels = append(channels, ch)
	}
	if cfg.Telegram.BotToken != "" && cfg.Telegram.ChatID != 0 {
		ch, err := NewTelegram(cfg.Telegram.BotToken, cfg.Telegram.ChatID)
		if err != nil {
			return nil, err
		}
		channels = append(channels, ch)
	}
	return channels, nil
}

// DispatchDue sends a notification for every item whose reminder fell due
// and has not been sent yet, then marks it sent. Channel failures are logged
// and do not block the other channels or items. Returns the number of items
// dispatched.
func DispatchDue(db *gorm.DB, now time.Time, channels []Channel, loc *time.Location) (int, error) {
	var due []models.Item
	err := db.Where("reminder_datetime IS NOT NULL AND reminder_datetime <= ? AND reminder_sent_at IS NULL", now).
		Order("reminder_datetime ASC").Find(&due).Error
	if err != nil {
		return 0, fmt.Errorf("notify: find due reminders: %w", err)
	}

	sent := 0
	for i := range due {
		it := &due[i]
		text := Message(it, loc)
		for _, ch := range channels {
			if err := ch.Send(text); err != nil {
				log.Printf("notify: %s send for item %d: %v", ch.Name(), it.ID, err)
			}
		}
		if err := db.Model(&models.Item{}).Where("id = ?", it.ID).
			Update("reminder_sent_at", now).Error; err != nil {
			return sent, fmt.Errorf("notify: mark item %d sent: %w", it.ID, err)
		}
		sent++
	}
	return sent, nil
}

// Message renders the notification text for an item's reminder.
func Message(it *models.Item, loc *time.Location) string {
	when := ""
	if it.ReminderDatetime != nil {
		when = " (" + it.ReminderDatetime.In(loc).Format("Mon Jan 2 15:04") + ")"
	}
	return fmt.Sprintf("Reminder: %s%s", it.Name, when)
}
