package models

import "time"

// Item type values.
const (
	TypeHabit    = "habit"
	TypeTask     = "task"
	TypeReminder = "reminder"
)

// Schedule type values. An empty ScheduleType means the item does not recur.
const (
	ScheduleDaily  = "daily"
	ScheduleWeekly = "weekly"
)

// Item is the unifying entity for habits, tasks and reminders.
//
// Completion state has two representations that never mix: recurring items
// (ScheduleType set) are tracked by per-day ItemCompletion rows, one-shot
// items by the IsCompleted/CompletedAt fields.
type Item struct {
	ID          uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID      uint   `gorm:"index;not null" json:"userId"`
	ItemType    string `gorm:"size:16;not null;index" json:"itemType"`
	Name        string `gorm:"size:256;not null" json:"name"`
	Description string `gorm:"type:text" json:"description,omitempty"`

	// Recurrence descriptor. ScheduleDays is a comma-separated list of
	// weekday indices, Monday=0 through Sunday=6, used when weekly.
	ScheduleType  string `gorm:"size:16" json:"scheduleType,omitempty"`
	ScheduleDays  string `gorm:"size:32" json:"scheduleDays,omitempty"`
	ScheduledTime string `gorm:"size:8" json:"scheduledTime,omitempty"`

	DueDate          *time.Time `json:"dueDate,omitempty"`
	DueTime          string     `gorm:"size:8" json:"dueTime,omitempty"`
	ReminderDatetime *time.Time `json:"reminderDatetime,omitempty"`
	ReminderSentAt   *time.Time `json:"reminderSentAt,omitempty"`

	Priority string `gorm:"size:16" json:"priority,omitempty"`
	Effort   string `gorm:"size:16" json:"effort,omitempty"`
	Duration string `gorm:"size:16" json:"duration,omitempty"`
	Focus    string `gorm:"size:16" json:"focus,omitempty"`

	IsParent     bool  `gorm:"default:false" json:"isParent"`
	ParentItemID *uint `gorm:"index" json:"parentItemId,omitempty"`

	// One-shot completion fields. Unused when ScheduleType is set.
	IsCompleted bool       `gorm:"default:false" json:"isCompleted"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`

	// SourceRef identifies an externally imported item, e.g. "owner/repo#42"
	// for tasks created from GitHub issues.
	SourceRef string `gorm:"size:128;index" json:"sourceRef,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Parent      *Item            `gorm:"foreignKey:ParentItemID" json:"parent,omitempty"`
	SubItems    []Item           `gorm:"foreignKey:ParentItemID" json:"subItems,omitempty"`
	Completions []ItemCompletion `gorm:"foreignKey:ItemID" json:"completions,omitempty"`
	ListItem    *ListItem        `gorm:"foreignKey:TaskID" json:"listItem,omitempty"`
}

// IsRecurring reports whether completion is tracked by per-day rows.
func (i *Item) IsRecurring() bool {
	return i.ScheduleType != ""
}

// ItemCompletion asserts "item X was completed on calendar day D".
// CompletionDate is stored as the UTC start-of-day instant for the day.
type ItemCompletion struct {
	ID             uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	ItemID         uint      `gorm:"not null;uniqueIndex:idx_item_completion_day" json:"itemId"`
	CompletionDate time.Time `gorm:"not null;uniqueIndex:idx_item_completion_day" json:"completionDate"`
	CreatedAt      time.Time `json:"createdAt"`
}
