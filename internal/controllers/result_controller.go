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

// ResultController stores assessment marks. One row exists per
// (assessmentName, courseId, studentId); re-saving overwrites the scores.
type ResultController struct {
	Store *store.Store
	Audit *audit.Recorder
}

type resultMark struct {
	StudentID   string `json:"studentId" binding:"required"`
	TheoryScore string `json:"theoryScore"`
	VivaScore   string `json:"vivaScore"`
	Comments    string `json:"comments"`
	TotalScore  string `json:"totalScore"`
	Grade       string `json:"grade"`
}

type saveResultsRequest struct {
	AssessmentName string       `json:"assessmentName" binding:"required"`
	CourseID       string       `json:"courseId" binding:"required"`
	Program        string       `json:"program"`
	StudentGroup   string       `json:"studentGroup"`
	Marks          []resultMark `json:"marks" binding:"required"`
}

// List filters by assessmentName, courseId and studentId. Students only see
// their own marks.
func (rc *ResultController) List(c *gin.Context) {
	user := middleware.CurrentUser(c)
	assessment := c.Query("assessmentName")
	courseID := c.Query("courseId")
	studentID := c.Query("studentId")
	if user.Role == models.RoleStudent {
		studentID = user.ID
	}

	out := []models.Result{}
	for _, r := range store.Load[models.Result](rc.Store, collections.Results) {
		if assessment != "" && r.AssessmentName != assessment {
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

// SaveBatch upserts marks for one assessment of one course.
func (rc *ResultController) SaveBatch(c *gin.Context) {
	user := middleware.CurrentUser(c)
	var req saveResultsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	results := store.Load[models.Result](rc.Store, collections.Results)
	index := make(map[string]int, len(results))
	for i, r := range results {
		index[r.AssessmentName+"|"+r.CourseID+"|"+r.StudentID] = i
	}

	for _, mark := range req.Marks {
		key := req.AssessmentName + "|" + req.CourseID + "|" + mark.StudentID
		if i, ok := index[key]; ok {
			results[i].TheoryScore = mark.TheoryScore
			results[i].VivaScore = mark.VivaScore
			results[i].Comments = mark.Comments
			results[i].TotalScore = mark.TotalScore
			results[i].Grade = mark.Grade
			results[i].Program = req.Program
			results[i].StudentGroup = req.StudentGroup
			continue
		}
		results = append(results, models.Result{
			ID:             utils.NewID("res"),
			AssessmentName: req.AssessmentName,
			CourseID:       req.CourseID,
			Program:        req.Program,
			StudentGroup:   req.StudentGroup,
			StudentID:      mark.StudentID,
			TheoryScore:    mark.TheoryScore,
			VivaScore:      mark.VivaScore,
			Comments:       mark.Comments,
			TotalScore:     mark.TotalScore,
			Grade:          mark.Grade,
			CreatedAt:      utils.NowISO(),
		})
		index[key] = len(results) - 1
	}
	store.Save(rc.Store, collections.Results, results)
	rc.Audit.Log("SAVE_RESULTS", user,
		fmt.Sprintf("Saved %s results for %s (%d students)", req.AssessmentName, req.CourseID, len(req.Marks)))
	c.JSON(http.StatusOK, gin.H{"message": "saved", "count": len(req.Marks)})
}
