package controllers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/acadcentral/acportal_backend/internal/audit"
	"github.com/acadcentral/acportal_backend/internal/collections"
	"github.com/acadcentral/acportal_backend/internal/middleware"
	"github.com/acadcentral/acportal_backend/internal/models"
	"github.com/acadcentral/acportal_backend/internal/store"
	"github.com/acadcentral/acportal_backend/internal/utils"
)

// TimetableController keeps the weekly schedule per course.
type TimetableController struct {
	Store *store.Store
	Audit *audit.Recorder
}

type timetableSlot struct {
	DayOfWeek string `json:"dayOfWeek" binding:"required"`
	StartTime string `json:"startTime" binding:"required"`
	EndTime   string `json:"endTime" binding:"required"`
	Subject   string `json:"sub"`
	Name      string `json:"name"`
	Room      string `json:"room"`
	Teacher   string `json:"teacher"`
	TeacherID string `json:"teacherId"`
}

type saveTimetableRequest struct {
	CourseID string          `json:"courseId" binding:"required"`
	Slots    []timetableSlot `json:"slots" binding:"required"`
}

func (tc *TimetableController) List(c *gin.Context) {
	courseID := c.Query("courseId")
	teacherID := c.Query("teacherId")

	out := []models.TimetableEntry{}
	for _, e := range store.Load[models.TimetableEntry](tc.Store, collections.Timetable) {
		if courseID != "" && e.CourseID != courseID {
			continue
		}
		if teacherID != "" && e.TeacherID != teacherID {
			continue
		}
		out = append(out, e)
	}
	c.JSON(http.StatusOK, out)
}

// Save replaces the entire schedule for one course.
func (tc *TimetableController) Save(c *gin.Context) {
	user := middleware.CurrentUser(c)
	var req saveTimetableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	entries := store.Load[models.TimetableEntry](tc.Store, collections.Timetable)
	kept := entries[:0]
	for _, e := range entries {
		if e.CourseID != req.CourseID {
			kept = append(kept, e)
		}
	}
	for _, slot := range req.Slots {
		kept = append(kept, models.TimetableEntry{
			ID:        utils.NewID("tt"),
			DayOfWeek: slot.DayOfWeek,
			StartTime: slot.StartTime,
			EndTime:   slot.EndTime,
			CourseID:  req.CourseID,
			Subject:   slot.Subject,
			Name:      slot.Name,
			Room:      slot.Room,
			Teacher:   slot.Teacher,
			TeacherID: slot.TeacherID,
			CreatedBy: user.Name,
			CreatedAt: utils.NowISO(),
		})
	}
	store.Save(tc.Store, collections.Timetable, kept)
	tc.Audit.Log("UPDATE_TIMETABLE", user,
		fmt.Sprintf("Updated timetable for %s (%d slots)", req.CourseID, len(req.Slots)))
	c.JSON(http.StatusOK, gin.H{"message": "saved", "count": len(req.Slots)})
}
