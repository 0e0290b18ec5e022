// Package schedule decides whether an item is due on a given calendar day.
package schedule

import (
	"strconv"
	"strings"

	"github.com/jmallard/daybook/internal/dates"
	"github.com/jmallard/daybook/internal/models"
)

// DueOn reports whether item is due on dayKey, where todayKey is the current
// day at evaluation time.
//
// Recurring items follow their schedule descriptor. Non-recurring tasks and
// reminders with a due date are due only on that exact day. A non-recurring
// item with no due date is due only when dayKey equals todayKey: a dateless
// one-off appears only on the day it is viewed as current. Habits ignore
// due-date fields entirely.
func DueOn(item *models.Item, dayKey, todayKey string) bool {
	switch item.ScheduleType {
	case models.ScheduleDaily:
		return true
	case models.ScheduleWeekly:
		idx, err := dates.Weekday(dayKey)
		if err != nil {
			return false
		}
		return containsDay(item.ScheduleDays, idx)
	}

	if item.ItemType != models.TypeHabit && item.DueDate != nil {
		return item.DueDate.UTC().Format(dates.Layout) == dayKey
	}

	return dayKey == todayKey
}

// containsDay parses a comma-separated list of weekday indices (Monday=0)
// and reports whether idx is present. Malformed entries are skipped.
func containsDay(scheduleDays string, idx int) bool {
	if scheduleDays == "" {
		return false
	}
	for _, part := range strings.Split(scheduleDays, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			continue
		}
		if n == idx {
			return true
		}
	}
	return false
}
