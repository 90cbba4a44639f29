package controllers

import (
	"net/http"
	"sort"

	"github.com/gin-gonic/gin"

	"github.com/acadcentral/acportal_backend/internal/audit"
	"github.com/acadcentral/acportal_backend/internal/collections"
	"github.com/acadcentral/acportal_backend/internal/middleware"
	"github.com/acadcentral/acportal_backend/internal/models"
	"github.com/acadcentral/acportal_backend/internal/store"
	"github.com/acadcentral/acportal_backend/internal/utils"
)

// EventController manages the exam/event calendar.
type EventController struct {
	Store *store.Store
	Audit *audit.Recorder
}

type saveEventRequest struct {
	Title     string `json:"title" binding:"required"`
	Details   string `json:"details"`
	Type      string `json:"type" binding:"required,oneof=exam event"`
	StartDate string `json:"startDate" binding:"required"`
	EndDate   string `json:"endDate"`
}

func (ec *EventController) List(c *gin.Context) {
	events := store.Load[models.ExamEvent](ec.Store, collections.ExamEvents)
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].StartDate < events[j].StartDate
	})
	c.JSON(http.StatusOK, events)
}

// Save creates a calendar entry. Single-day entries may omit endDate, which
// defaults to the start date.
func (ec *EventController) Save(c *gin.Context) {
	user := middleware.CurrentUser(c)
	var req saveEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.EndDate == "" {
		req.EndDate = req.StartDate
	}
	event := models.ExamEvent{
		ID:          utils.NewID("event"),
		Title:       req.Title,
		Details:     req.Details,
		Type:        req.Type,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		CreatedBy:   user.Name,
		CreatedByID: user.ID,
		CreatedAt:   utils.NowISO(),
	}
	events := store.Load[models.ExamEvent](ec.Store, collections.ExamEvents)
	events = append(events, event)
	store.Save(ec.Store, collections.ExamEvents, events)
	ec.Audit.Log("SAVE_EVENT", user, "Added "+req.Type+": "+req.Title)
	c.JSON(http.StatusCreated, event)
}

func (ec *EventController) Delete(c *gin.Context) {
	id := c.Param("id")
	events := store.Load[models.ExamEvent](ec.Store, collections.ExamEvents)
	kept := events[:0]
	for _, e := range events {
		if e.ID != id {
			kept = append(kept, e)
		}
	}
	store.Save(ec.Store, collections.ExamEvents, kept)
	ec.Audit.Log("DELETE_EVENT", middleware.CurrentUser(c), "Deleted event "+id)
	c.JSON(http.StatusOK, gin.H{"message": "deleted"})
}
