package server

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/jmallard/daybook/internal/apperr"
	"github.com/jmallard/daybook/internal/list"
	"gorm.io/gorm"
)

type listRequest struct {
	Name           *string        `json:"name"`
	ListType       string         `json:"listType"`
	FilterCriteria *list.Criteria `json:"filterCriteria"`
	Color          *string        `json:"color"`
}

type listItemRequest struct {
	ItemID    uint    `json:"itemId"`
	Text      *string `json:"text"`
	IsChecked *bool   `json:"isChecked"`
	Order     *int    `json:"order"`
	DueDate   string  `json:"dueDate"`
	Priority  string  `json:"priority"`
	Effort    string  `json:"effort"`
	Duration  string  `json:"duration"`
	Focus     string  `json:"focus"`
}

func handleListAll(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		views, err := list.ListAll(db, currentUser(c).ID)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, views)
	}
}

func handleListCreate(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req listRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			writeError(c, apperr.Validationf("invalid request body"))
			return
		}
		name := ""
		if req.Name != nil {
			name = *req.Name
		}
		color := ""
		if req.Color != nil {
			color = *req.Color
		}
		created, err := list.Create(db, currentUser(c).ID, list.CreateOpts{
			Name:           name,
			ListType:       req.ListType,
			FilterCriteria: req.FilterCriteria,
			Color:          color,
		})
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusCreated, created)
	}
}

func handleListGet(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := paramID(c)
		if err != nil {
			writeError(c, err)
			return
		}
		v, err := list.Get(db, currentUser(c).ID, id)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, v)
	}
}

func handleListUpdate(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := paramID(c)
		if err != nil {
			writeError(c, err)
			return
		}
		var req listRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			writeError(c, apperr.Validationf("invalid request body"))
			return
		}
		updated, err := list.Update(db, currentUser(c).ID, id, list.UpdateOpts{
			Name:           req.Name,
			Color:          req.Color,
			FilterCriteria: req.FilterCriteria,
		})
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, updated)
	}
}

func handleListDelete(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := paramID(c)
		if err != nil {
			writeError(c, err)
			return
		}
		if err := list.Delete(db, currentUser(c).ID, id); err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true})
	}
}

func handleListItemAdd(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := paramID(c)
		if err != nil {
			writeError(c, err)
			return
		}
		var req listItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			writeError(c, apperr.Validationf("invalid request body"))
			return
		}
		text := ""
		if req.Text != nil {
			text = *req.Text
		}
		created, err := list.AddItem(db, currentUser(c).ID, id, list.AddItemOpts{
			Text:     text,
			DueDate:  req.DueDate,
			Priority: req.Priority,
			Effort:   req.Effort,
			Duration: req.Duration,
			Focus:    req.Focus,
		})
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusCreated, created)
	}
}

func handleListItemUpdate(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := paramID(c)
		if err != nil {
			writeError(c, err)
			return
		}
		var req listItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			writeError(c, apperr.Validationf("invalid request body"))
			return
		}
		updated, err := list.UpdateItem(db, currentUser(c).ID, id, list.UpdateItemOpts{
			ItemID:    req.ItemID,
			Text:      req.Text,
			IsChecked: req.IsChecked,
			Position:  req.Order,
			DueDate:   req.DueDate,
		})
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, updated)
	}
}

func handleListItemDelete(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := paramID(c)
		if err != nil {
			writeError(c, err)
			return
		}
		itemID, _ := strconv.ParseUint(c.Query("itemId"), 10, 32)
		if err := list.DeleteItem(db, currentUser(c).ID, id, uint(itemID)); err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true})
	}
}
