// Package item provides item lifecycle operations and the completion engine.
package item

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmallard/daybook/internal/apperr"
	"github.com/jmallard/daybook/internal/dates"
	"github.com/jmallard/daybook/internal/models"
	"gorm.io/gorm"
)

// validTypes are the accepted itemType values.
var validTypes = map[string]bool{
	models.TypeHabit:    true,
	models.TypeTask:     true,
	models.TypeReminder: true,
}

// validSchedules are the accepted scheduleType values; empty means no
// recurrence.
var validSchedules = map[string]bool{
	"":                    true,
	models.ScheduleDaily:  true,
	models.ScheduleWeekly: true,
}

// SubItemInput describes one sub-item in a create or update request.
type SubItemInput struct {
	ID      uint
	Name    string
	DueDate string // YYYY-MM-DD, optional
}

// CreateOpts holds parameters for creating a new item.
type CreateOpts struct {
	ItemType    string
	Name        string
	Description string

	ScheduleType  string
	ScheduleDays  string
	ScheduledTime string

	DueDate          string // YYYY-MM-DD
	DueTime          string
	ReminderDatetime string // RFC 3339

	Priority string
	Effort   string
	Duration string
	Focus    string

	ParentItemID *uint
	SubItems     []SubItemInput
}

// Create creates a new item owned by userID, with optional batch-created
// sub-items. Sub-items inherit the parent's itemType; habit sub-items also
// inherit the parent's schedule.
func Create(db *gorm.DB, userID uint, opts CreateOpts) (*models.Item, error) {
	if opts.ItemType == "" || opts.Name == "" {
		return nil, apperr.Validationf("itemType and name are required")
	}
	if !validTypes[opts.ItemType] {
		return nil, apperr.Validationf("itemType must be habit, task, or reminder")
	}
	if !validSchedules[opts.ScheduleType] {
		return nil, apperr.Validationf("scheduleType must be daily or weekly")
	}

	dueDate, err := parseDueDate(opts.DueDate)
	if err != nil {
		return nil, err
	}
	reminderAt, err := parseReminder(opts.ReminderDatetime)
	if err != nil {
		return nil, err
	}

	if opts.ParentItemID != nil {
		if _, err := Get(db, userID, *opts.ParentItemID); err != nil {
			return nil, fmt.Errorf("item: check parent %d: %w", *opts.ParentItemID, err)
		}
	}

	it := models.Item{
		UserID:           userID,
		ItemType:         opts.ItemType,
		Name:             opts.Name,
		Description:      opts.Description,
		ScheduleType:     opts.ScheduleType,
		ScheduleDays:     opts.ScheduleDays,
		ScheduledTime:    opts.ScheduledTime,
		DueDate:          dueDate,
		DueTime:          opts.DueTime,
		ReminderDatetime: reminderAt,
		Priority:         opts.Priority,
		Effort:           opts.Effort,
		Duration:         opts.Duration,
		Focus:            opts.Focus,
		ParentItemID:     opts.ParentItemID,
		IsParent:         len(opts.SubItems) > 0,
	}

	if err := db.Create(&it).Error; err != nil {
		return nil, fmt.Errorf("item: create: %w", err)
	}

	// Creating a sub-item promotes its parent.
	if opts.ParentItemID != nil {
		if err := db.Model(&models.Item{}).Where("id = ?", *opts.ParentItemID).
			Update("is_parent", true).Error; err != nil {
			return nil, fmt.Errorf("item: mark parent %d: %w", *opts.ParentItemID, err)
		}
	}

	for _, sub := range opts.SubItems {
		name := strings.TrimSpace(sub.Name)
		if name == "" {
			continue
		}
		if _, err := createSubItem(db, &it, name, sub.DueDate); err != nil {
			return nil, err
		}
	}

	return Get(db, userID, it.ID)
}

// createSubItem creates one child of parent, inheriting type and, for
// habits, the recurrence descriptor.
func createSubItem(db *gorm.DB, parent *models.Item, name, dueDate string) (*models.Item, error) {
	due, err := parseDueDate(dueDate)
	if err != nil {
		return nil, err
	}
	child := models.Item{
		UserID:       parent.UserID,
		ItemType:     parent.ItemType,
		Name:         name,
		ParentItemID: &parent.ID,
		DueDate:      due,
	}
	if parent.ItemType == models.TypeHabit {
		child.ScheduleType = parent.ScheduleType
		child.ScheduleDays = parent.ScheduleDays
	}
	if err := db.Create(&child).Error; err != nil {
		return nil, fmt.Errorf("item: create sub-item %q: %w", name, err)
	}
	return &child, nil
}

// Get retrieves an item by id, preloading completions, sub-items (with their
// completions) and the parent. Returns apperr.ErrNotFound for a missing id
// and apperr.ErrForbidden when the row belongs to another user.
func Get(db *gorm.DB, userID, id uint) (*models.Item, error) {
	var it models.Item
	err := db.Preload("Completions").
		Preload("SubItems", func(q *gorm.DB) *gorm.DB { return q.Order("created_at ASC") }).
		Preload("SubItems.Completions").
		Preload("Parent").
		Preload("ListItem").
		Where("id = ?", id).First(&it).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrNotFound
		}
		return nil, fmt.Errorf("item: get %d: %w", id, err)
	}
	if it.UserID != userID {
		return nil, apperr.ErrForbidden
	}
	return &it, nil
}

// List returns the user's items, optionally filtered by type, newest first,
// with completions and sub-items embedded.
func List(db *gorm.DB, userID uint, itemType string) ([]models.Item, error) {
	q := db.Preload("Completions").Preload("SubItems").
		Where("user_id = ?", userID)
	if itemType != "" {
		q = q.Where("item_type = ?", itemType)
	}
	var items []models.Item
	if err := q.Order("created_at DESC").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("item: list: %w", err)
	}
	return items, nil
}

// UpdateOpts holds replacement field values for an item. Fields are replaced
// wholesale; SubItems, when non-nil, triggers a replace-by-diff of the
// item's children.
type UpdateOpts struct {
	Name        string
	Description string

	ScheduleType  string
	ScheduleDays  string
	ScheduledTime string

	DueDate          string
	DueTime          string
	ReminderDatetime string

	Priority string
	Effort   string
	Duration string
	Focus    string

	SubItems *[]SubItemInput
}

// Update replaces an item's fields and, when opts.SubItems is provided,
// reconciles its children: absent sub-items are deleted (completions first),
// sub-items with an id are renamed/re-dated, and sub-items without an id are
// created inheriting type and schedule.
func Update(db *gorm.DB, userID, id uint, opts UpdateOpts) (*models.Item, error) {
	existing, err := Get(db, userID, id)
	if err != nil {
		return nil, err
	}
	if !validSchedules[opts.ScheduleType] {
		return nil, apperr.Validationf("scheduleType must be daily or weekly")
	}

	dueDate, err := parseDueDate(opts.DueDate)
	if err != nil {
		return nil, err
	}
	reminderAt, err := parseReminder(opts.ReminderDatetime)
	if err != nil {
		return nil, err
	}

	isParent := existing.IsParent
	if opts.SubItems != nil {
		isParent = len(*opts.SubItems) > 0
	}

	updates := map[string]interface{}{
		"name":              opts.Name,
		"description":       opts.Description,
		"schedule_type":     opts.ScheduleType,
		"schedule_days":     opts.ScheduleDays,
		"scheduled_time":    opts.ScheduledTime,
		"due_date":          dueDate,
		"due_time":          opts.DueTime,
		"reminder_datetime": reminderAt,
		"priority":          opts.Priority,
		"effort":            opts.Effort,
		"duration":          opts.Duration,
		"focus":             opts.Focus,
		"is_parent":         isParent,
	}
	if err := db.Model(&models.Item{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("item: update %d: %w", id, err)
	}

	if opts.SubItems != nil {
		if err := reconcileSubItems(db, existing, *opts.SubItems); err != nil {
			return nil, err
		}
	}

	return Get(db, userID, id)
}

// reconcileSubItems applies a replace-by-diff of parent's children.
func reconcileSubItems(db *gorm.DB, parent *models.Item, subs []SubItemInput) error {
	var existing []models.Item
	if err := db.Where("parent_item_id = ?", parent.ID).Find(&existing).Error; err != nil {
		return fmt.Errorf("item: list sub-items of %d: %w", parent.ID, err)
	}

	provided := make(map[uint]bool)
	for _, s := range subs {
		if s.ID != 0 {
			provided[s.ID] = true
		}
	}

	// Delete children no longer present, completions first.
	var stale []uint
	for _, e := range existing {
		if !provided[e.ID] {
			stale = append(stale, e.ID)
		}
	}
	if len(stale) > 0 {
		if err := db.Where("item_id IN ?", stale).Delete(&models.ItemCompletion{}).Error; err != nil {
			return fmt.Errorf("item: delete sub-item completions: %w", err)
		}
		if err := db.Where("id IN ?", stale).Delete(&models.Item{}).Error; err != nil {
			return fmt.Errorf("item: delete sub-items: %w", err)
		}
	}

	for _, s := range subs {
		name := strings.TrimSpace(s.Name)
		if s.ID != 0 {
			due, err := parseDueDate(s.DueDate)
			if err != nil {
				return err
			}
			err = db.Model(&models.Item{}).Where("id = ?", s.ID).
				Updates(map[string]interface{}{"name": name, "due_date": due}).Error
			if err != nil {
				return fmt.Errorf("item: update sub-item %d: %w", s.ID, err)
			}
		} else if name != "" {
			if _, err := createSubItem(db, parent, name, s.DueDate); err != nil {
				return err
			}
		}
	}
	return nil
}

// Delete removes an item after explicitly deleting its completion rows and
// its children (with their completions). The steps are sequential, not
// wrapped in a transaction.
func Delete(db *gorm.DB, userID, id uint) error {
	if _, err := Get(db, userID, id); err != nil {
		return err
	}

	var childIDs []uint
	if err := db.Model(&models.Item{}).Where("parent_item_id = ?", id).
		Pluck("id", &childIDs).Error; err != nil {
		return fmt.Errorf("item: list children of %d: %w", id, err)
	}

	ids := append(childIDs, id)
	if err := db.Where("item_id IN ?", ids).Delete(&models.ItemCompletion{}).Error; err != nil {
		return fmt.Errorf("item: delete completions of %d: %w", id, err)
	}

	// Detach any list checkbox linked to these items; the row keeps its text.
	if err := db.Model(&models.ListItem{}).Where("task_id IN ?", ids).
		Update("task_id", nil).Error; err != nil {
		return fmt.Errorf("item: detach list items of %d: %w", id, err)
	}

	if len(childIDs) > 0 {
		if err := db.Where("id IN ?", childIDs).Delete(&models.Item{}).Error; err != nil {
			return fmt.Errorf("item: delete children of %d: %w", id, err)
		}
	}
	if err := db.Where("id = ?", id).Delete(&models.Item{}).Error; err != nil {
		return fmt.Errorf("item: delete %d: %w", id, err)
	}
	return nil
}

// parseDueDate converts an optional YYYY-MM-DD string into the persisted
// UTC start-of-day instant.
func parseDueDate(v string) (*time.Time, error) {
	if v == "" {
		return nil, nil
	}
	t, err := dates.DayStartUTC(v)
	if err != nil {
		return nil, apperr.Validationf("dueDate must be YYYY-MM-DD")
	}
	return &t, nil
}

// parseReminder converts an optional RFC 3339 string into a timestamp.
func parseReminder(v string) (*time.Time, error) {
	if v == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return nil, apperr.Validationf("reminderDatetime must be RFC 3339")
	}
	return &t, nil
}
