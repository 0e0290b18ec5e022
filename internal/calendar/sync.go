package calendar

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/jmallard/daybook/internal/apperr"
	"github.com/jmallard/daybook/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// defaultColor is used for calendars without a provider color.
const defaultColor = "#4285f4"

// SyncList refreshes the user's CalendarSync rows from the provider's
// calendar list and returns them ordered primary-first.
func SyncList(ctx context.Context, db *gorm.DB, userID uint, p Provider) ([]models.CalendarSync, error) {
	cals, err := p.ListCalendars(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	for _, cal := range cals {
		if cal.ID == "" {
			continue
		}
		name := cal.Summary
		if name == "" {
			name = "Unnamed Calendar"
		}
		row := models.CalendarSync{
			UserID:       userID,
			CalendarID:   cal.ID,
			CalendarName: name,
			Color:        cal.Color,
			IsPrimary:    cal.Primary,
			IsEnabled:    true,
			LastSyncedAt: now,
		}
		result := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "calendar_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"calendar_name", "color", "is_primary", "last_synced_at"}),
		}).Create(&row)
		if result.Error != nil {
			return nil, fmt.Errorf("calendar: upsert %s: %w", cal.ID, result.Error)
		}
	}

	return Settings(db, userID)
}

// Settings returns the user's CalendarSync rows, primary first then by name.
func Settings(db *gorm.DB, userID uint) ([]models.CalendarSync, error) {
	var rows []models.CalendarSync
	err := db.Where("user_id = ?", userID).
		Order("is_primary DESC, calendar_name ASC").Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("calendar: settings: %w", err)
	}
	return rows, nil
}

// SetEnabled toggles whether a calendar contributes events.
func SetEnabled(db *gorm.DB, userID uint, calendarID string, enabled bool) error {
	result := db.Model(&models.CalendarSync{}).
		Where("user_id = ? AND calendar_id = ?", userID, calendarID).
		Update("is_enabled", enabled)
	if result.Error != nil {
		return fmt.Errorf("calendar: set enabled %s: %w", calendarID, result.Error)
	}
	if result.RowsAffected == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

// Event is a normalized event merged across the user's enabled calendars.
type Event struct {
	ID            string `json:"id"`
	Source        string `json:"source"`
	CalendarID    string `json:"calendarId"`
	CalendarName  string `json:"calendarName"`
	CalendarColor string `json:"calendarColor"`
	Title         string `json:"title"`
	Description   string `json:"description,omitempty"`
	Location      string `json:"location,omitempty"`
	StartTime     string `json:"startTime"`
	EndTime       string `json:"endTime"`
	IsAllDay      bool   `json:"isAllDay"`
	Timezone      string `json:"timezone"`
}

// Events fetches events in [start, end] from every enabled calendar. One
// calendar's failure is logged and skipped, never aborting the batch.
func Events(ctx context.Context, db *gorm.DB, userID uint, p Provider, start, end time.Time, defaultTZ string) ([]Event, error) {
	enabled, err := enabledCalendars(db, userID)
	if err != nil {
		return nil, err
	}

	events := []Event{}
	for _, cal := range enabled {
		items, err := p.ListEvents(ctx, cal.CalendarID, start, end)
		if err != nil {
			log.Printf("calendar: fetch events for %s: %v", cal.CalendarID, err)
			continue
		}
		for _, ev := range items {
			if ev.ID == "" {
				continue
			}
			events = append(events, normalizeEvent(ev, cal, defaultTZ))
		}
	}
	return events, nil
}

func enabledCalendars(db *gorm.DB, userID uint) ([]models.CalendarSync, error) {
	var rows []models.CalendarSync
	err := db.Where("user_id = ? AND is_enabled = ?", userID, true).Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("calendar: enabled calendars: %w", err)
	}
	return rows, nil
}

func normalizeEvent(ev ProviderEvent, cal models.CalendarSync, defaultTZ string) Event {
	isAllDay := ev.Start.Date != "" && ev.Start.DateTime == ""
	startTime := ev.Start.DateTime
	if startTime == "" {
		startTime = ev.Start.Date
	}
	endTime := ev.End.DateTime
	if endTime == "" {
		endTime = ev.End.Date
	}
	color := cal.Color
	if color == "" {
		color = defaultColor
	}
	title := ev.Summary
	if title == "" {
		title = "Untitled Event"
	}
	tz := ev.Start.TimeZone
	if tz == "" {
		tz = defaultTZ
	}
	return Event{
		ID:            ev.ID,
		Source:        "google",
		CalendarID:    cal.CalendarID,
		CalendarName:  cal.CalendarName,
		CalendarColor: color,
		Title:         title,
		Description:   ev.Description,
		Location:      ev.Location,
		StartTime:     startTime,
		EndTime:       endTime,
		IsAllDay:      isAllDay,
		Timezone:      tz,
	}
}
