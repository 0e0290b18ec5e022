package server

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/jmallard/daybook/internal/apperr"
	"github.com/jmallard/daybook/internal/dates"
	"github.com/jmallard/daybook/internal/item"
	"github.com/jmallard/daybook/internal/models"
	"github.com/jmallard/daybook/internal/schedule"
	"gorm.io/gorm"
)

// subItemRequest is one sub-item in a create or update body.
type subItemRequest struct {
	ID      uint   `json:"id"`
	Name    string `json:"name"`
	DueDate string `json:"dueDate"`
}

// itemRequest is the create/update body for an item.
type itemRequest struct {
	ItemType    string `json:"itemType"`
	Name        string `json:"name"`
	Description string `json:"description"`

	ScheduleType  string `json:"scheduleType"`
	ScheduleDays  string `json:"scheduleDays"`
	ScheduledTime string `json:"scheduledTime"`

	DueDate          string `json:"dueDate"`
	DueTime          string `json:"dueTime"`
	ReminderDatetime string `json:"reminderDatetime"`

	Priority string `json:"priority"`
	Effort   string `json:"effort"`
	Duration string `json:"duration"`
	Focus    string `json:"focus"`

	ParentItemID *uint             `json:"parentItemId"`
	SubItems     *[]subItemRequest `json:"subItems"`
}

func toSubItemInputs(reqs []subItemRequest) []item.SubItemInput {
	subs := make([]item.SubItemInput, len(reqs))
	for i, r := range reqs {
		subs[i] = item.SubItemInput{ID: r.ID, Name: r.Name, DueDate: r.DueDate}
	}
	return subs
}

// paramID parses the :id path parameter. Non-numeric ids can't name a row.
func paramID(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return 0, apperr.ErrNotFound
	}
	return uint(id), nil
}

func handleItemList(opts StartOpts) gin.HandlerFunc {
	loc := opts.Cfg.Location()
	return func(c *gin.Context) {
		items, err := item.List(opts.DB, currentUser(c).ID, c.Query("type"))
		if err != nil {
			writeError(c, err)
			return
		}

		// Optional ?date= narrows the result to items due that day.
		if date := c.Query("date"); date != "" {
			dayKey, err := dates.DayKey(date, loc)
			if err != nil {
				writeError(c, apperr.Validationf("date must be YYYY-MM-DD"))
				return
			}
			todayKey := dates.Today(loc)
			due := make([]models.Item, 0, len(items))
			for _, it := range items {
				if schedule.DueOn(&it, dayKey, todayKey) {
					due = append(due, it)
				}
			}
			items = due
		}

		c.JSON(http.StatusOK, items)
	}
}

func handleItemCreate(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req itemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			writeError(c, apperr.Validationf("invalid request body"))
			return
		}

		opts := item.CreateOpts{
			ItemType:         req.ItemType,
			Name:             req.Name,
			Description:      req.Description,
			ScheduleType:     req.ScheduleType,
			ScheduleDays:     req.ScheduleDays,
			ScheduledTime:    req.ScheduledTime,
			DueDate:          req.DueDate,
			DueTime:          req.DueTime,
			ReminderDatetime: req.ReminderDatetime,
			Priority:         req.Priority,
			Effort:           req.Effort,
			Duration:         req.Duration,
			Focus:            req.Focus,
			ParentItemID:     req.ParentItemID,
		}
		if req.SubItems != nil {
			opts.SubItems = toSubItemInputs(*req.SubItems)
		}

		created, err := item.Create(db, currentUser(c).ID, opts)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusCreated, created)
	}
}

func handleItemGet(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := paramID(c)
		if err != nil {
			writeError(c, err)
			return
		}
		it, err := item.Get(db, currentUser(c).ID, id)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, it)
	}
}

func handleItemUpdate(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := paramID(c)
		if err != nil {
			writeError(c, err)
			return
		}
		var req itemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			writeError(c, apperr.Validationf("invalid request body"))
			return
		}

		opts := item.UpdateOpts{
			Name:             req.Name,
			Description:      req.Description,
			ScheduleType:     req.ScheduleType,
			ScheduleDays:     req.ScheduleDays,
			ScheduledTime:    req.ScheduledTime,
			DueDate:          req.DueDate,
			DueTime:          req.DueTime,
			ReminderDatetime: req.ReminderDatetime,
			Priority:         req.Priority,
			Effort:           req.Effort,
			Duration:         req.Duration,
			Focus:            req.Focus,
		}
		if req.SubItems != nil {
			subs := toSubItemInputs(*req.SubItems)
			opts.SubItems = &subs
		}

		updated, err := item.Update(db, currentUser(c).ID, id, opts)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, updated)
	}
}

func handleItemDelete(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := paramID(c)
		if err != nil {
			writeError(c, err)
			return
		}
		if err := item.Delete(db, currentUser(c).ID, id); err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true})
	}
}

func handleItemToggle(opts StartOpts) gin.HandlerFunc {
	loc := opts.Cfg.Location()
	return func(c *gin.Context) {
		id, err := paramID(c)
		if err != nil {
			writeError(c, err)
			return
		}
		var req struct {
			Date string `json:"date"`
		}
		if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
			writeError(c, apperr.Validationf("invalid request body"))
			return
		}
		dayKey, err := dates.DayKey(req.Date, loc)
		if err != nil {
			writeError(c, apperr.Validationf("date must be YYYY-MM-DD"))
			return
		}

		completed, err := item.Toggle(opts.DB, currentUser(c).ID, id, dayKey)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"completed": completed})
	}
}

func handleItemCompletions(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := paramID(c)
		if err != nil {
			writeError(c, err)
			return
		}
		completions, err := item.History(db, currentUser(c).ID, id,
			c.Query("startDate"), c.Query("endDate"))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, completions)
	}
}
