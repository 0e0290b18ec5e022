package models

import "time"

// List type values.
const (
	ListSimple = "simple"
	ListSmart  = "smart"
)

// List groups tasks. A simple list stores ListItem rows; a smart list stores
// no members and computes its contents from FilterCriteria on every read.
type List struct {
	ID             uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID         uint      `gorm:"index;not null" json:"userId"`
	Name           string    `gorm:"size:128;not null" json:"name"`
	ListType       string    `gorm:"size:16;not null" json:"listType"`
	FilterCriteria string    `gorm:"type:text" json:"filterCriteria,omitempty"`
	Color          string    `gorm:"size:16" json:"color,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`

	Items []ListItem `gorm:"foreignKey:ListID" json:"items,omitempty"`
}

// ListItem is a checklist row in a simple list, optionally linked 1:1 to a
// Task item when a due date was attached.
type ListItem struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	ListID    uint      `gorm:"index;not null" json:"listId"`
	Text      string    `gorm:"size:256;not null" json:"text"`
	IsChecked bool      `gorm:"default:false" json:"isChecked"`
	Position  int       `gorm:"default:0" json:"order"`
	TaskID    *uint     `gorm:"index" json:"taskId,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Task *Item `gorm:"foreignKey:TaskID" json:"task,omitempty"`
}
