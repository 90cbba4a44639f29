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

// AssignmentController covers assignments and their submissions. A student
// holds at most one active submission per assignment; re-submitting replaces
// the previous one.
type AssignmentController struct {
	Store *store.Store
	Audit *audit.Recorder
}

type createAssignmentRequest struct {
	ClassroomID string `json:"classroomId" binding:"required"`
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	DueDate     string `json:"dueDate"`
}

type submitAssignmentRequest struct {
	FileName string `json:"fileName" binding:"required"`
	FileData string `json:"fileData" binding:"required"`
	FileType string `json:"fileType"`
}

func (ac *AssignmentController) ListByClassroom(c *gin.Context) {
	classroomID := c.Param("id")
	all := store.Load[models.Assignment](ac.Store, collections.Assignments)
	out := []models.Assignment{}
	for _, a := range all {
		if a.ClassroomID == classroomID {
			out = append(out, a)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt > out[j].CreatedAt })
	c.JSON(http.StatusOK, out)
}

func (ac *AssignmentController) Create(c *gin.Context) {
	user := middleware.CurrentUser(c)
	var req createAssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	assignment := models.Assignment{
		ID:          utils.NewID("assign"),
		ClassroomID: req.ClassroomID,
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
		CreatedBy:   user.Name,
		CreatedByID: user.ID,
		CreatedAt:   utils.NowISO(),
	}
	assignments := store.Load[models.Assignment](ac.Store, collections.Assignments)
	assignments = append(assignments, assignment)
	store.Save(ac.Store, collections.Assignments, assignments)
	ac.Audit.Log("CREATE_ASSIGNMENT", user, "Created assignment: "+req.Title)
	c.JSON(http.StatusCreated, assignment)
}

// Delete removes the assignment and cascades to its submissions.
func (ac *AssignmentController) Delete(c *gin.Context) {
	id := c.Param("id")

	assignments := store.Load[models.Assignment](ac.Store, collections.Assignments)
	kept := assignments[:0]
	for _, a := range assignments {
		if a.ID != id {
			kept = append(kept, a)
		}
	}
	store.Save(ac.Store, collections.Assignments, kept)

	subs := store.Load[models.Submission](ac.Store, collections.Submissions)
	keptSubs := subs[:0]
	for _, s := range subs {
		if s.AssignmentID != id {
			keptSubs = append(keptSubs, s)
		}
	}
	store.Save(ac.Store, collections.Submissions, keptSubs)

	ac.Audit.Log("DELETE_ASSIGNMENT", middleware.CurrentUser(c), "Deleted assignment "+id)
	c.JSON(http.StatusOK, gin.H{"message": "deleted"})
}

func (ac *AssignmentController) ListSubmissions(c *gin.Context) {
	assignmentID := c.Param("id")
	all := store.Load[models.Submission](ac.Store, collections.Submissions)
	out := []models.Submission{}
	for _, s := range all {
		if s.AssignmentID == assignmentID {
			out = append(out, s)
		}
	}
	c.JSON(http.StatusOK, out)
}

func (ac *AssignmentController) MySubmission(c *gin.Context) {
	user := middleware.CurrentUser(c)
	assignmentID := c.Param("id")
	for _, s := range store.Load[models.Submission](ac.Store, collections.Submissions) {
		if s.AssignmentID == assignmentID && s.StudentID == user.ID {
			c.JSON(http.StatusOK, s)
			return
		}
	}
	c.JSON(http.StatusNotFound, gin.H{"error": "no submission"})
}

func (ac *AssignmentController) Submit(c *gin.Context) {
	user := middleware.CurrentUser(c)
	assignmentID := c.Param("id")
	var req submitAssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	subs := store.Load[models.Submission](ac.Store, collections.Submissions)
	kept := subs[:0]
	for _, s := range subs {
		if !(s.AssignmentID == assignmentID && s.StudentID == user.ID) {
			kept = append(kept, s)
		}
	}
	submission := models.Submission{
		ID:           utils.NewID("sub"),
		AssignmentID: assignmentID,
		StudentID:    user.ID,
		StudentName:  user.Name,
		StudentUSN:   user.USN,
		FileName:     req.FileName,
		FileData:     req.FileData,
		FileType:     req.FileType,
		SubmittedAt:  utils.NowISO(),
	}
	kept = append(kept, submission)
	store.Save(ac.Store, collections.Submissions, kept)
	ac.Audit.Log("SUBMIT_ASSIGNMENT", user, "Submitted assignment "+assignmentID)
	c.JSON(http.StatusCreated, submission)
}
