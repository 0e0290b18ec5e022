package item

import (
	"errors"
	"testing"

	"github.com/jmallard/daybook/internal/apperr"
	"github.com/jmallard/daybook/internal/models"
)

func TestCompletedOn_Union(t *testing.T) {
	db := openTestDB(t)
	u := seedUser(t, db, "a@example.com")

	habit, err := Create(db, u.ID, CreateOpts{
		ItemType:     models.TypeHabit,
		Name:         "Run",
		ScheduleType: models.ScheduleDaily,
	})
	if err != nil {
		t.Fatalf("Create(habit) error: %v", err)
	}
	doneTask, err := Create(db, u.ID, CreateOpts{ItemType: models.TypeTask, Name: "Done"})
	if err != nil {
		t.Fatalf("Create(task) error: %v", err)
	}
	openTask, err := Create(db, u.ID, CreateOpts{ItemType: models.TypeTask, Name: "Open"})
	if err != nil {
		t.Fatalf("Create(task) error: %v", err)
	}

	day := "2025-11-20"
	if _, err := Toggle(db, u.ID, habit.ID, day); err != nil {
		t.Fatalf("Toggle(habit) error: %v", err)
	}
	if _, err := Toggle(db, u.ID, doneTask.ID, ""); err != nil {
		t.Fatalf("Toggle(task) error: %v", err)
	}

	ids, err := CompletedOn(db, u.ID, day)
	if err != nil {
		t.Fatalf("CompletedOn() error: %v", err)
	}

	want := map[uint]bool{habit.ID: true, doneTask.ID: true}
	if len(ids) != 2 {
		t.Fatalf("completed ids = %v, want habit + done task", ids)
	}
	for _, id := range ids {
		if !want[id] {
			t.Errorf("unexpected completed id %d", id)
		}
		if id == openTask.ID {
			t.Error("open task reported as completed")
		}
	}

	// The habit's row is dated to the toggled day only.
	ids, err = CompletedOn(db, u.ID, "2025-11-21")
	if err != nil {
		t.Fatalf("CompletedOn() error: %v", err)
	}
	if len(ids) != 1 || ids[0] != doneTask.ID {
		t.Errorf("completed ids on other day = %v, want only the one-shot task", ids)
	}
}

func TestCompletedOn_ScopedToUser(t *testing.T) {
	db := openTestDB(t)
	alice := seedUser(t, db, "alice@example.com")
	bob := seedUser(t, db, "bob@example.com")

	task, err := Create(db, alice.ID, CreateOpts{ItemType: models.TypeTask, Name: "Alice's"})
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	if _, err := Toggle(db, alice.ID, task.ID, ""); err != nil {
		t.Fatalf("Toggle() error: %v", err)
	}

	ids, err := CompletedOn(db, bob.ID, "2025-11-20")
	if err != nil {
		t.Fatalf("CompletedOn() error: %v", err)
	}
	if len(ids) != 0 {
		t.Errorf("other user's completions leaked: %v", ids)
	}
}

func TestCompletedOn_InvalidDay(t *testing.T) {
	db := openTestDB(t)
	u := seedUser(t, db, "a@example.com")

	_, err := CompletedOn(db, u.ID, "2025/11/20")
	var valErr *apperr.ValidationError
	if !errors.As(err, &valErr) {
		t.Errorf("CompletedOn() error = %v, want ValidationError", err)
	}
}

func TestHistory_RangeAndOrder(t *testing.T) {
	db := openTestDB(t)
	u := seedUser(t, db, "a@example.com")

	habit, err := Create(db, u.ID, CreateOpts{
		ItemType:     models.TypeHabit,
		Name:         "Read",
		ScheduleType: models.ScheduleDaily,
	})
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	for _, day := range []string{"2025-11-17", "2025-11-19", "2025-11-21"} {
		if _, err := Toggle(db, u.ID, habit.ID, day); err != nil {
			t.Fatalf("Toggle(%s) error: %v", day, err)
		}
	}

	all, err := History(db, u.ID, habit.ID, "", "")
	if err != nil {
		t.Fatalf("History() error: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("history rows = %d, want 3", len(all))
	}
	for i := 1; i < len(all); i++ {
		if all[i].CompletionDate.After(all[i-1].CompletionDate) {
			t.Error("history should be newest first")
		}
	}

	bounded, err := History(db, u.ID, habit.ID, "2025-11-18", "2025-11-20")
	if err != nil {
		t.Fatalf("History() error: %v", err)
	}
	if len(bounded) != 1 || !bounded[0].CompletionDate.Equal(mustDayStart(t, "2025-11-19")) {
		t.Errorf("bounded history = %v, want only 2025-11-19", bounded)
	}
}

func TestHistory_Ownership(t *testing.T) {
	db := openTestDB(t)
	alice := seedUser(t, db, "alice@example.com")
	bob := seedUser(t, db, "bob@example.com")

	habit, err := Create(db, alice.ID, CreateOpts{
		ItemType:     models.TypeHabit,
		Name:         "Run",
		ScheduleType: models.ScheduleDaily,
	})
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	if _, err := History(db, bob.ID, habit.ID, "", ""); !errors.Is(err, apperr.ErrForbidden) {
		t.Errorf("History() as other user error = %v, want ErrForbidden", err)
	}
}
