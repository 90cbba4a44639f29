package controllers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/acadcentral/acportal_backend/internal/collections"
	"github.com/acadcentral/acportal_backend/internal/models"
	"github.com/acadcentral/acportal_backend/internal/store"
)

func newResultRouter(st *store.Store, user models.User) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(asUser(user))
	ctrl := &ResultController{Store: st, Audit: newRecorder(st)}
	r.GET("/results", ctrl.List)
	r.POST("/results", ctrl.SaveBatch)
	return r
}

func TestResultsSaveBatchUpserts(t *testing.T) {
	st := newTestStore(t)
	r := newResultRouter(st, testFaculty)

	w := doJSON(t, r, http.MethodPost, "/results", `{
		"assessmentName": "IA-1",
		"courseId": "BCA-3",
		"marks": [
			{"studentId": "stu-1", "theoryScore": "18", "grade": "A"},
			{"studentId": "stu-2", "theoryScore": "12", "grade": "B"}
		]
	}`)
	wantStatus(t, w, http.StatusOK)

	// Re-saving the same assessment corrects marks in place.
	w = doJSON(t, r, http.MethodPost, "/results", `{
		"assessmentName": "IA-1",
		"courseId": "BCA-3",
		"marks": [{"studentId": "stu-2", "theoryScore": "15", "grade": "A"}]
	}`)
	wantStatus(t, w, http.StatusOK)

	results := store.Load[models.Result](st, collections.Results)
	if len(results) != 2 {
		t.Fatalf("results = %d, want 2", len(results))
	}
	for _, res := range results {
		if res.StudentID == "stu-2" && (res.TheoryScore != "15" || res.Grade != "A") {
			t.Errorf("stu-2 result not updated: %+v", res)
		}
	}

	// A different assessment name creates new rows.
	doJSON(t, r, http.MethodPost, "/results", `{
		"assessmentName": "IA-2",
		"courseId": "BCA-3",
		"marks": [{"studentId": "stu-1", "theoryScore": "20"}]
	}`)
	if got := len(store.Load[models.Result](st, collections.Results)); got != 3 {
		t.Errorf("results = %d, want 3", got)
	}
}

func TestResultsStudentOnlySeesOwn(t *testing.T) {
	st := newTestStore(t)
	store.Save(st, collections.Results, []models.Result{
		{ID: "r1", AssessmentName: "IA-1", CourseID: "BCA-3", StudentID: "stu-1", Grade: "A"},
		{ID: "r2", AssessmentName: "IA-1", CourseID: "BCA-3", StudentID: "stu-2", Grade: "B"},
	})

	w := doJSON(t, newResultRouter(st, testStudent), http.MethodGet, "/results?studentId=stu-2", "")
	wantStatus(t, w, http.StatusOK)
	got := decodeBody[[]models.Result](t, w)
	if len(got) != 1 || got[0].StudentID != testStudent.ID {
		t.Errorf("student view = %v", got)
	}
}
