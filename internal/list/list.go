// Package list provides simple and smart list operations.
//
// A simple list stores checklist rows. A smart list stores no members: its
// contents are recomputed on every read by filtering the user's tasks
// against stored criteria.
package list

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmallard/daybook/internal/apperr"
	"github.com/jmallard/daybook/internal/dates"
	"github.com/jmallard/daybook/internal/models"
	"gorm.io/gorm"
)

// Criteria holds the equality filters of a smart list. Empty fields do not
// filter. Persisted as JSON in List.FilterCriteria.
type Criteria struct {
	Priority string `json:"priority,omitempty"`
	Effort   string `json:"effort,omitempty"`
	Duration string `json:"duration,omitempty"`
	Focus    string `json:"focus,omitempty"`
}

// View is a list as returned by the API: the stored row plus, for smart
// lists, the tasks matching its criteria at read time.
type View struct {
	models.List
	FilteredTasks []models.Item `json:"filteredTasks,omitempty"`
}

// CreateOpts holds parameters for creating a list.
type CreateOpts struct {
	Name           string
	ListType       string
	FilterCriteria *Criteria
	Color          string
}

// Create creates a list owned by userID.
func Create(db *gorm.DB, userID uint, opts CreateOpts) (*View, error) {
	if opts.Name == "" || opts.ListType == "" {
		return nil, apperr.Validationf("name and listType are required")
	}
	if opts.ListType != models.ListSimple && opts.ListType != models.ListSmart {
		return nil, apperr.Validationf("listType must be 'simple' or 'smart'")
	}

	l := models.List{
		UserID:   userID,
		Name:     opts.Name,
		ListType: opts.ListType,
		Color:    opts.Color,
	}
	if opts.FilterCriteria != nil {
		data, err := json.Marshal(opts.FilterCriteria)
		if err != nil {
			return nil, fmt.Errorf("list: marshal criteria: %w", err)
		}
		l.FilterCriteria = string(data)
	}

	if err := db.Create(&l).Error; err != nil {
		return nil, fmt.Errorf("list: create: %w", err)
	}
	return Get(db, userID, l.ID)
}

// Get retrieves a list with its rows ordered by position; smart lists get
// their filtered tasks computed.
func Get(db *gorm.DB, userID, id uint) (*View, error) {
	var l models.List
	err := db.Preload("Items", func(q *gorm.DB) *gorm.DB { return q.Order("position ASC") }).
		Preload("Items.Task").
		Where("id = ?", id).First(&l).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrNotFound
		}
		return nil, fmt.Errorf("list: get %d: %w", id, err)
	}
	if l.UserID != userID {
		return nil, apperr.ErrForbidden
	}
	return toView(db, userID, l)
}

// ListAll returns the user's lists, newest first.
func ListAll(db *gorm.DB, userID uint) ([]View, error) {
	var lists []models.List
	err := db.Preload("Items", func(q *gorm.DB) *gorm.DB { return q.Order("position ASC") }).
		Preload("Items.Task").
		Where("user_id = ?", userID).
		Order("created_at DESC").Find(&lists).Error
	if err != nil {
		return nil, fmt.Errorf("list: list all: %w", err)
	}

	views := make([]View, 0, len(lists))
	for _, l := range lists {
		v, err := toView(db, userID, l)
		if err != nil {
			return nil, err
		}
		views = append(views, *v)
	}
	return views, nil
}

// toView attaches filtered tasks to smart lists.
func toView(db *gorm.DB, userID uint, l models.List) (*View, error) {
	v := View{List: l}
	if l.ListType != models.ListSmart || l.FilterCriteria == "" {
		return &v, nil
	}

	var c Criteria
	if err := json.Unmarshal([]byte(l.FilterCriteria), &c); err != nil {
		return nil, fmt.Errorf("list: parse criteria of %d: %w", l.ID, err)
	}

	q := db.Where("user_id = ? AND item_type = ?", userID, models.TypeTask)
	if c.Priority != "" {
		q = q.Where("priority = ?", c.Priority)
	}
	if c.Effort != "" {
		q = q.Where("effort = ?", c.Effort)
	}
	if c.Duration != "" {
		q = q.Where("duration = ?", c.Duration)
	}
	if c.Focus != "" {
		q = q.Where("focus = ?", c.Focus)
	}
	if err := q.Order("created_at DESC").Find(&v.FilteredTasks).Error; err != nil {
		return nil, fmt.Errorf("list: filter tasks for %d: %w", l.ID, err)
	}
	return &v, nil
}

// UpdateOpts holds partial updates for a list. Nil fields are untouched.
// FilterCriteria only applies to smart lists.
type UpdateOpts struct {
	Name           *string
	Color          *string
	FilterCriteria *Criteria
}

// Update applies partial updates to a list.
func Update(db *gorm.DB, userID, id uint, opts UpdateOpts) (*View, error) {
	existing, err := Get(db, userID, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if opts.Name != nil {
		updates["name"] = *opts.Name
	}
	if opts.Color != nil {
		updates["color"] = *opts.Color
	}
	if opts.FilterCriteria != nil && existing.ListType == models.ListSmart {
		data, err := json.Marshal(opts.FilterCriteria)
		if err != nil {
			return nil, fmt.Errorf("list: marshal criteria: %w", err)
		}
		updates["filter_criteria"] = string(data)
	}

	if len(updates) > 0 {
		if err := db.Model(&models.List{}).Where("id = ?", id).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("list: update %d: %w", id, err)
		}
	}
	return Get(db, userID, id)
}

// Delete removes a list and its rows. Linked task items stay.
func Delete(db *gorm.DB, userID, id uint) error {
	if _, err := Get(db, userID, id); err != nil {
		return err
	}
	if err := db.Where("list_id = ?", id).Delete(&models.ListItem{}).Error; err != nil {
		return fmt.Errorf("list: delete items of %d: %w", id, err)
	}
	if err := db.Where("id = ?", id).Delete(&models.List{}).Error; err != nil {
		return fmt.Errorf("list: delete %d: %w", id, err)
	}
	return nil
}

// AddItemOpts holds parameters for adding a checklist row.
type AddItemOpts struct {
	Text     string
	DueDate  string // YYYY-MM-DD; when set, a linked Task item is created
	Priority string
	Effort   string
	Duration string
	Focus    string
}

// AddItem appends a row to a simple list. When a due date is attached, a
// Task item is created first and linked so the checkbox and the task track
// each other.
func AddItem(db *gorm.DB, userID, listID uint, opts AddItemOpts) (*models.ListItem, error) {
	if opts.Text == "" {
		return nil, apperr.Validationf("text is required")
	}
	l, err := Get(db, userID, listID)
	if err != nil {
		return nil, err
	}
	if l.ListType == models.ListSmart {
		return nil, apperr.Validationf("cannot add items to smart lists")
	}

	var maxPos int
	row := db.Model(&models.ListItem{}).Where("list_id = ?", listID).
		Select("COALESCE(MAX(position), 0)").Row()
	if err := row.Scan(&maxPos); err != nil {
		return nil, fmt.Errorf("list: max position of %d: %w", listID, err)
	}

	var taskID *uint
	if opts.DueDate != "" {
		due, err := dates.DayStartUTC(opts.DueDate)
		if err != nil {
			return nil, apperr.Validationf("dueDate must be YYYY-MM-DD")
		}
		task := models.Item{
			UserID:   userID,
			ItemType: models.TypeTask,
			Name:     opts.Text,
			DueDate:  &due,
			Priority: opts.Priority,
			Effort:   opts.Effort,
			Duration: opts.Duration,
			Focus:    opts.Focus,
		}
		if err := db.Create(&task).Error; err != nil {
			return nil, fmt.Errorf("list: create linked task: %w", err)
		}
		taskID = &task.ID
	}

	li := models.ListItem{
		ListID:   listID,
		Text:     opts.Text,
		Position: maxPos + 1,
		TaskID:   taskID,
	}
	if err := db.Create(&li).Error; err != nil {
		return nil, fmt.Errorf("list: add item: %w", err)
	}

	var created models.ListItem
	if err := db.Preload("Task").First(&created, li.ID).Error; err != nil {
		return nil, fmt.Errorf("list: reload item %d: %w", li.ID, err)
	}
	return &created, nil
}

// UpdateItemOpts holds partial updates for a checklist row.
type UpdateItemOpts struct {
	ItemID    uint
	Text      *string
	IsChecked *bool
	Position  *int
	DueDate   string // when set on an unlinked row, creates a linked Task
}

// UpdateItem applies partial updates to a row. Checking or unchecking a row
// with a linked task mirrors the state onto the task's completion flag.
func UpdateItem(db *gorm.DB, userID, listID uint, opts UpdateItemOpts) (*models.ListItem, error) {
	if opts.ItemID == 0 {
		return nil, apperr.Validationf("itemId is required")
	}
	if _, err := Get(db, userID, listID); err != nil {
		return nil, err
	}

	var existing models.ListItem
	err := db.Preload("Task").Where("id = ? AND list_id = ?", opts.ItemID, listID).
		First(&existing).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrNotFound
		}
		return nil, fmt.Errorf("list: get item %d: %w", opts.ItemID, err)
	}

	updates := map[string]interface{}{}
	if opts.Text != nil {
		updates["text"] = *opts.Text
	}
	if opts.Position != nil {
		updates["position"] = *opts.Position
	}
	if opts.IsChecked != nil {
		updates["is_checked"] = *opts.IsChecked
		if existing.TaskID != nil {
			var completedAt *time.Time
			if *opts.IsChecked {
				now := time.Now()
				completedAt = &now
			}
			err := db.Model(&models.Item{}).Where("id = ?", *existing.TaskID).
				Updates(map[string]interface{}{"is_completed": *opts.IsChecked, "completed_at": completedAt}).Error
			if err != nil {
				return nil, fmt.Errorf("list: sync task %d: %w", *existing.TaskID, err)
			}
		}
	}

	if opts.DueDate != "" && existing.TaskID == nil {
		due, err := dates.DayStartUTC(opts.DueDate)
		if err != nil {
			return nil, apperr.Validationf("dueDate must be YYYY-MM-DD")
		}
		task := models.Item{
			UserID:      userID,
			ItemType:    models.TypeTask,
			Name:        existing.Text,
			DueDate:     &due,
			IsCompleted: existing.IsChecked,
		}
		if err := db.Create(&task).Error; err != nil {
			return nil, fmt.Errorf("list: create linked task: %w", err)
		}
		updates["task_id"] = task.ID
	}

	if len(updates) > 0 {
		if err := db.Model(&models.ListItem{}).Where("id = ?", existing.ID).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("list: update item %d: %w", existing.ID, err)
		}
	}

	var updated models.ListItem
	if err := db.Preload("Task").First(&updated, existing.ID).Error; err != nil {
		return nil, fmt.Errorf("list: reload item %d: %w", existing.ID, err)
	}
	return &updated, nil
}

// DeleteItem removes a checklist row. A linked task is left in place.
func DeleteItem(db *gorm.DB, userID, listID, itemID uint) error {
	if itemID == 0 {
		return apperr.Validationf("itemId is required")
	}
	if _, err := Get(db, userID, listID); err != nil {
		return err
	}
	result := db.Where("id = ? AND list_id = ?", itemID, listID).Delete(&models.ListItem{})
	if result.Error != nil {
		return fmt.Errorf("list: delete item %d: %w", itemID, result.Error)
	}
	if result.RowsAffected == 0 {
		return apperr.ErrNotFound
	}
	return nil
}
