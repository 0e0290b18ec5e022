package item

import (
	"errors"
	"fmt"
	"time"

	"github.com/jmallard/daybook/internal/apperr"
	"github.com/jmallard/daybook/internal/dates"
	"github.com/jmallard/daybook/internal/models"
	"gorm.io/gorm"
)

// Toggle flips the completion state of an item for a calendar day and
// returns the new state.
//
// Recurring items are toggled by creating or deleting the day's completion
// row; one-shot items flip their IsCompleted flag and stamp or clear
// CompletedAt. The parent gate applies only to the incomplete→complete
// transition: a parent cannot complete while any sub-item is incomplete
// (for the same day when recurring, overall otherwise). Un-completing is
// never gated.
func Toggle(db *gorm.DB, userID, id uint, dayKey string) (bool, error) {
	it, err := Get(db, userID, id)
	if err != nil {
		return false, err
	}

	if it.IsRecurring() {
		return toggleRecurring(db, it, dayKey)
	}
	return toggleOneShot(db, it)
}

// toggleRecurring creates or deletes the completion row for (item, day).
func toggleRecurring(db *gorm.DB, it *models.Item, dayKey string) (bool, error) {
	start, end, err := dates.DayRange(dayKey)
	if err != nil {
		return false, apperr.Validationf("date must be YYYY-MM-DD")
	}

	var existing models.ItemCompletion
	err = db.Where("item_id = ? AND completion_date >= ? AND completion_date < ?",
		it.ID, start, end).First(&existing).Error
	switch {
	case err == nil:
		if err := db.Delete(&existing).Error; err != nil {
			return false, fmt.Errorf("item: delete completion %d: %w", existing.ID, err)
		}
		return false, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		// fall through to create
	default:
		return false, fmt.Errorf("item: find completion for %d on %s: %w", it.ID, dayKey, err)
	}

	if it.IsParent && len(it.SubItems) > 0 {
		incomplete := 0
		for _, sub := range it.SubItems {
			if !hasCompletionInRange(sub.Completions, start, end) {
				incomplete++
			}
		}
		if incomplete > 0 {
			return false, &apperr.GateError{IncompleteCount: incomplete}
		}
	}

	completion := models.ItemCompletion{
		ItemID:         it.ID,
		CompletionDate: start,
	}
	if err := db.Create(&completion).Error; err != nil {
		return false, fmt.Errorf("item: create completion for %d on %s: %w", it.ID, dayKey, err)
	}
	return true, nil
}

// toggleOneShot flips the item's own completion flag and keeps a linked
// list checkbox in sync.
func toggleOneShot(db *gorm.DB, it *models.Item) (bool, error) {
	newState := !it.IsCompleted

	if newState && it.IsParent && len(it.SubItems) > 0 {
		incomplete := 0
		for _, sub := range it.SubItems {
			if !sub.IsCompleted {
				incomplete++
			}
		}
		if incomplete > 0 {
			return false, &apperr.GateError{IncompleteCount: incomplete}
		}
	}

	var completedAt *time.Time
	if newState {
		now := time.Now()
		completedAt = &now
	}
	err := db.Model(&models.Item{}).Where("id = ?", it.ID).
		Updates(map[string]interface{}{"is_completed": newState, "completed_at": completedAt}).Error
	if err != nil {
		return false, fmt.Errorf("item: toggle %d: %w", it.ID, err)
	}

	if it.ListItem != nil {
		err := db.Model(&models.ListItem{}).Where("id = ?", it.ListItem.ID).
			Update("is_checked", newState).Error
		if err != nil {
			return false, fmt.Errorf("item: sync list item %d: %w", it.ListItem.ID, err)
		}
	}

	return newState, nil
}

// hasCompletionInRange reports whether any completion falls in [start, end).
func hasCompletionInRange(completions []models.ItemCompletion, start, end time.Time) bool {
	for _, c := range completions {
		if !c.CompletionDate.Before(start) && c.CompletionDate.Before(end) {
			return true
		}
	}
	return false
}
