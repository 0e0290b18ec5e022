package item

import (
	"fmt"
	"sort"

	"github.com/jmallard/daybook/internal/apperr"
	"github.com/jmallard/daybook/internal/dates"
	"github.com/jmallard/daybook/internal/models"
	"gorm.io/gorm"
)

// CompletedOn returns the ids of the user's items that are done on dayKey:
// the union of completion rows for recurring items dated to that day and
// one-shot items whose IsCompleted flag is set. Called once per day of the
// week view, so it stays at two queries.
func CompletedOn(db *gorm.DB, userID uint, dayKey string) ([]uint, error) {
	start, end, err := dates.DayRange(dayKey)
	if err != nil {
		return nil, apperr.Validationf("date must be YYYY-MM-DD")
	}

	var recurringIDs []uint
	err = db.Model(&models.ItemCompletion{}).
		Joins("JOIN items ON items.id = item_completions.item_id").
		Where("items.user_id = ? AND item_completions.completion_date >= ? AND item_completions.completion_date < ?",
			userID, start, end).
		Pluck("item_completions.item_id", &recurringIDs).Error
	if err != nil {
		return nil, fmt.Errorf("item: completions on %s: %w", dayKey, err)
	}

	var oneShotIDs []uint
	err = db.Model(&models.Item{}).
		Where("user_id = ? AND (schedule_type = ? OR schedule_type IS NULL) AND is_completed = ?",
			userID, "", true).
		Pluck("id", &oneShotIDs).Error
	if err != nil {
		return nil, fmt.Errorf("item: completed one-shot items: %w", err)
	}

	seen := make(map[uint]bool)
	ids := make([]uint, 0, len(recurringIDs)+len(oneShotIDs))
	for _, id := range append(recurringIDs, oneShotIDs...) {
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

// History returns an item's completion rows, newest first, optionally
// bounded by start/end day keys (inclusive).
func History(db *gorm.DB, userID, id uint, startKey, endKey string) ([]models.ItemCompletion, error) {
	if _, err := Get(db, userID, id); err != nil {
		return nil, err
	}

	q := db.Where("item_id = ?", id)
	if startKey != "" {
		start, err := dates.DayStartUTC(startKey)
		if err != nil {
			return nil, apperr.Validationf("startDate must be YYYY-MM-DD")
		}
		q = q.Where("completion_date >= ?", start)
	}
	if endKey != "" {
		_, end, err := dates.DayRange(endKey)
		if err != nil {
			return nil, apperr.Validationf("endDate must be YYYY-MM-DD")
		}
		q = q.Where("completion_date < ?", end)
	}

	var completions []models.ItemCompletion
	if err := q.Order("completion_date DESC").Find(&completions).Error; err != nil {
		return nil, fmt.Errorf("item: history for %d: %w", id, err)
	}
	return completions, nil
}
