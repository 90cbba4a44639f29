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

// AttendanceController records per-lecture attendance. One record exists per
// (date, courseId, studentId); saving the same slot again overwrites the
// status instead of duplicating the row.
type AttendanceController struct {
	Store *store.Store
	Audit *audit.Recorder
}

type attendanceMark struct {
	StudentID string `json:"studentId" binding:"required"`
	Status    string `json:"status" binding:"required,oneof=present absent late"`
}

type saveAttendanceRequest struct {
	Date     string           `json:"date" binding:"required"`
	CourseID string           `json:"courseId" binding:"required"`
	Marks    []attendanceMark `json:"marks" binding:"required"`
}

// List filters by any combination of date, courseId and studentId. Students
// only ever see their own records.
func (ac *AttendanceController) List(c *gin.Context) {
	user := middleware.CurrentUser(c)
	date := c.Query("date")
	courseID := c.Query("courseId")
	studentID := c.Query("studentId")
	if user.Role == models.RoleStudent {
		studentID = user.ID
	}

	out := []models.AttendanceRecord{}
	for _, r := range store.Load[models.AttendanceRecord](ac.Store, collections.Attendance) {
		if date != "" && r.Date != date {
			continue
		}
		if courseID != "" && r.CourseID != courseID {
			continue
		}
		if studentID != "" && r.StudentID != studentID {
			continue
		}
		out = append(out, r)
	}
	c.JSON(http.StatusOK, out)
}

// SaveBatch upserts a full roster for one lecture slot.
func (ac *AttendanceController) SaveBatch(c *gin.Context) {
	user := middleware.CurrentUser(c)
	var req saveAttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	records := store.Load[models.AttendanceRecord](ac.Store, collections.Attendance)
	index := make(map[string]int, len(records))
	for i, r := range records {
		index[r.Date+"|"+r.CourseID+"|"+r.StudentID] = i
	}

	for _, mark := range req.Marks {
		key := req.Date + "|" + req.CourseID + "|" + mark.StudentID
		if i, ok := index[key]; ok {
			records[i].Status = mark.Status
			records[i].TakenBy = user.Name
			continue
		}
		records = append(records, models.AttendanceRecord{
			ID:        utils.NewID("att"),
			Date:      req.Date,
			CourseID:  req.CourseID,
			StudentID: mark.StudentID,
			Status:    mark.Status,
			TakenBy:   user.Name,
			CreatedAt: utils.NowISO(),
		})
		index[key] = len(records) - 1
	}
	store.Save(ac.Store, collections.Attendance, records)
	ac.Audit.Log("TAKE_ATTENDANCE", user,
		fmt.Sprintf("Attendance for %s on %s (%d students)", req.CourseID, req.Date, len(req.Marks)))
	c.JSON(http.StatusOK, gin.H{"message": "saved", "count": len(req.Marks)})
}
