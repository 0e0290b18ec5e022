package models

import "time"

// CalendarSync is a per-user enablement record for one external Google
// calendar. Rows are upserted from the provider's calendar list.
type CalendarSync struct {
	ID           uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID       uint      `gorm:"not null;uniqueIndex:idx_user_calendar" json:"userId"`
	CalendarID   string    `gorm:"size:256;not null;uniqueIndex:idx_user_calendar" json:"calendarId"`
	CalendarName string    `gorm:"size:256" json:"calendarName"`
	Color        string    `gorm:"size:16" json:"color,omitempty"`
	IsPrimary    bool      `gorm:"default:false" json:"isPrimary"`
	IsEnabled    bool      `gorm:"default:true" json:"isEnabled"`
	LastSyncedAt time.Time `json:"lastSyncedAt"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}
