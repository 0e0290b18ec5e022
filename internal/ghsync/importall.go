package ghsync

import (
	"context"
	"fmt"
	"log"

	"github.com/jmallard/daybook/internal/models"
	"gorm.io/gorm"
)

// ImportAll runs the issue import for every user. Runs on a schedule; one
// user's failure is logged and skipped. Returns the total tasks created.
func ImportAll(ctx context.Context, db *gorm.DB, lister IssueLister, username string, repos []string) (int, error) {
	var users []models.User
	if err := db.Find(&users).Error; err != nil {
		return 0, fmt.Errorf("ghsync: list users: %w", err)
	}

	total := 0
	for _, u := range users {
		n, err := Import(ctx, db, u.ID, lister, username, repos)
		if err != nil {
			log.Printf("ghsync: import for user %d: %v", u.ID, err)
			continue
		}
		total += n
	}
	return total, nil
}
