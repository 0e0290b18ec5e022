package schedule

import (
	"fmt"
	"testing"
	"time"

	"github.com/jmallard/daybook/internal/models"
)

func dayKeysFrom(start time.Time, n int) []string {
	keys := make([]string, n)
	for i := 0; i < n; i++ {
		keys[i] = start.AddDate(0, 0, i).Format("2006-01-02")
	}
	return keys
}

func TestDueOn_DailyEveryDayOfMonth(t *testing.T) {
	habit := &models.Item{ItemType: models.TypeHabit, ScheduleType: models.ScheduleDaily}
	today := "2025-11-15"

	for _, key := range dayKeysFrom(time.Date(2025, 11, 1, 0, 0, 0, 0, time.UTC), 30) {
		if !DueOn(habit, key, today) {
			t.Errorf("daily habit not due on %s", key)
		}
	}
}

func TestDueOn_WeeklyMonWedFri(t *testing.T) {
	habit := &models.Item{
		ItemType:     models.TypeHabit,
		ScheduleType: models.ScheduleWeekly,
		ScheduleDays: "0,2,4",
	}
	today := "2025-11-03"

	// Four full weeks starting Monday 2025-11-03.
	dueWeekdays := map[time.Weekday]bool{
		time.Monday:    true,
		time.Wednesday: true,
		time.Friday:    true,
	}
	start := time.Date(2025, 11, 3, 0, 0, 0, 0, time.UTC)
	for i, key := range dayKeysFrom(start, 28) {
		want := dueWeekdays[start.AddDate(0, 0, i).Weekday()]
		if got := DueOn(habit, key, today); got != want {
			t.Errorf("weekly habit on %s: due = %v, want %v", key, got, want)
		}
	}
}

func TestDueOn_WeeklyScheduleDaysWithSpaces(t *testing.T) {
	habit := &models.Item{
		ItemType:     models.TypeHabit,
		ScheduleType: models.ScheduleWeekly,
		ScheduleDays: "1, 3",
	}
	if !DueOn(habit, "2025-11-18", "2025-11-18") { // Tuesday
		t.Error("habit with spaced scheduleDays not due on Tuesday")
	}
	if DueOn(habit, "2025-11-17", "2025-11-17") { // Monday
		t.Error("habit due on Monday despite scheduleDays 1,3")
	}
}

func TestDueOn_TaskWithDueDate(t *testing.T) {
	due := time.Date(2025, 11, 20, 0, 0, 0, 0, time.UTC)
	task := &models.Item{ItemType: models.TypeTask, DueDate: &due}

	if !DueOn(task, "2025-11-20", "2025-11-15") {
		t.Error("task not due on its due date")
	}
	for _, key := range []string{"2025-11-19", "2025-11-21", "2025-11-15"} {
		if DueOn(task, key, "2025-11-15") {
			t.Errorf("task due on %s, want only 2025-11-20", key)
		}
	}
}

func TestDueOn_DatelessTaskOnlyToday(t *testing.T) {
	task := &models.Item{ItemType: models.TypeTask}
	today := "2025-11-19"

	// Across a week-view window, a dateless one-off shows only on the
	// current day.
	start := time.Date(2025, 11, 17, 0, 0, 0, 0, time.UTC)
	for _, key := range dayKeysFrom(start, 7) {
		want := key == today
		if got := DueOn(task, key, today); got != want {
			t.Errorf("dateless task on %s (today %s): due = %v, want %v", key, today, got, want)
		}
	}
}

func TestDueOn_HabitIgnoresDueDate(t *testing.T) {
	due := time.Date(2025, 11, 20, 0, 0, 0, 0, time.UTC)
	habit := &models.Item{ItemType: models.TypeHabit, DueDate: &due}

	// A habit with no schedule falls back to the today-only rule even with
	// a due date set.
	if DueOn(habit, "2025-11-20", "2025-11-15") {
		t.Error("unscheduled habit due on its due date; due dates are ignored for habits")
	}
	if !DueOn(habit, "2025-11-15", "2025-11-15") {
		t.Error("unscheduled habit not due today")
	}
}

func TestDueOn_RecurringTask(t *testing.T) {
	// Tasks may carry a daily schedule orthogonal to their due date.
	due := time.Date(2025, 11, 20, 0, 0, 0, 0, time.UTC)
	task := &models.Item{ItemType: models.TypeTask, ScheduleType: models.ScheduleDaily, DueDate: &due}

	for _, key := range []string{"2025-11-01", "2025-11-20", "2025-12-25"} {
		if !DueOn(task, key, "2025-11-15") {
			t.Errorf("daily recurring task not due on %s", key)
		}
	}
}

func TestDueOn_WeeklyWithoutDays(t *testing.T) {
	habit := &models.Item{ItemType: models.TypeHabit, ScheduleType: models.ScheduleWeekly}
	for i := 0; i < 7; i++ {
		key := fmt.Sprintf("2025-11-%02d", 17+i)
		if DueOn(habit, key, key) {
			t.Errorf("weekly habit with empty scheduleDays due on %s", key)
		}
	}
}

func TestContainsDay_Malformed(t *testing.T) {
	if containsDay("x,,2", 0) {
		t.Error("malformed entries should be skipped, not match 0")
	}
	if !containsDay("x,,2", 2) {
		t.Error("valid entry 2 should match despite malformed neighbors")
	}
}
