package calendar

import (
	"context"
	"fmt"
	"log"

	"github.com/jmallard/daybook/internal/models"
	"golang.org/x/oauth2"
	"gorm.io/gorm"
)

// SyncAll refreshes the calendar list for every user with a usable session
// token. Runs on a schedule; one user's failure is logged and skipped.
// Returns the number of users synced.
func SyncAll(ctx context.Context, db *gorm.DB, conf *oauth2.Config) (int, error) {
	var sessions []models.Session
	err := db.Where("access_token != ''").
		Order("created_at DESC").Find(&sessions).Error
	if err != nil {
		return 0, fmt.Errorf("calendar: list sessions: %w", err)
	}

	synced := 0
	seen := make(map[uint]bool)
	for _, sess := range sessions {
		// Newest session per user wins.
		if seen[sess.UserID] {
			continue
		}
		seen[sess.UserID] = true

		token := &oauth2.Token{
			AccessToken:  sess.AccessToken,
			RefreshToken: sess.RefreshToken,
		}
		p := NewGoogle(ctx, conf, token)
		if _, err := SyncList(ctx, db, sess.UserID, p); err != nil {
			log.Printf("calendar: sync user %d: %v", sess.UserID, err)
			continue
		}
		synced++
	}
	return synced, nil
}
