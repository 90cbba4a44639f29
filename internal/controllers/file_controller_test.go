package controllers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/acadcentral/acportal_backend/internal/collections"
	"github.com/acadcentral/acportal_backend/internal/models"
	"github.com/acadcentral/acportal_backend/internal/store"
)

func newFileRouter(st *store.Store, user models.User) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(asUser(user))
	ctrl := &FileController{Store: st, Audit: newRecorder(st)}
	r.GET("/files", ctrl.List)
	r.POST("/files", ctrl.Upload)
	r.POST("/files/:id/approve", ctrl.Approve)
	r.POST("/files/:id/reject", ctrl.Reject)
	r.GET("/files/:id/download", ctrl.Download)
	return r
}

func TestStudentUploadStartsPending(t *testing.T) {
	st := newTestStore(t)

	w := doJSON(t, newFileRouter(st, testStudent), http.MethodPost, "/files",
		`{"name":"notes.pdf","fileData":"ZGF0YQ==","subject":"DBMS"}`)
	wantStatus(t, w, http.StatusCreated)
	file := decodeBody[models.File](t, w)
	if file.Status != models.FileStatusPending {
		t.Errorf("status = %q, want pending", file.Status)
	}
	if file.UploadedBy != testStudent.USN+" - "+testStudent.Name {
		t.Errorf("uploadedBy = %q", file.UploadedBy)
	}
	if file.FileData != "" {
		t.Error("upload response must not echo the blob")
	}

	// Faculty uploads skip moderation.
	w = doJSON(t, newFileRouter(st, testFaculty), http.MethodPost, "/files",
		`{"name":"slides.pdf","fileData":"ZGF0YQ=="}`)
	if decodeBody[models.File](t, w).Status != models.FileStatusApproved {
		t.Error("faculty upload should be auto-approved")
	}
}

func TestStudentsOnlySeeApprovedFiles(t *testing.T) {
	st := newTestStore(t)
	store.Save(st, collections.Files, []models.File{
		{ID: "f1", Name: "ok.pdf", Status: models.FileStatusApproved},
		{ID: "f2", Name: "waiting.pdf", Status: models.FileStatusPending},
	})

	w := doJSON(t, newFileRouter(st, testStudent), http.MethodGet, "/files?status=pending", "")
	wantStatus(t, w, http.StatusOK)
	got := decodeBody[[]models.File](t, w)
	if len(got) != 1 || got[0].ID != "f1" {
		t.Errorf("student listing = %v", got)
	}

	// Staff can inspect the moderation queue.
	w = doJSON(t, newFileRouter(st, testFaculty), http.MethodGet, "/files?status=pending", "")
	got = decodeBody[[]models.File](t, w)
	if len(got) != 1 || got[0].ID != "f2" {
		t.Errorf("staff pending listing = %v", got)
	}
}

func TestApproveAndRejectFlow(t *testing.T) {
	st := newTestStore(t)
	store.Save(st, collections.Files, []models.File{
		{ID: "f1", Name: "a.pdf", Status: models.FileStatusPending},
		{ID: "f2", Name: "b.pdf", Status: models.FileStatusPending},
	})
	r := newFileRouter(st, testFaculty)

	wantStatus(t, doJSON(t, r, http.MethodPost, "/files/f1/approve", ""), http.StatusOK)
	wantStatus(t, doJSON(t, r, http.MethodPost, "/files/f2/reject", ""), http.StatusOK)

	files := store.Load[models.File](st, collections.Files)
	if len(files) != 1 {
		t.Fatalf("files = %v, rejection must delete the row", files)
	}
	if files[0].ID != "f1" || files[0].Status != models.FileStatusApproved {
		t.Errorf("file = %+v", files[0])
	}
}

func TestDownloadBumpsCounterAndGuardsPending(t *testing.T) {
	st := newTestStore(t)
	store.Save(st, collections.Files, []models.File{
		{ID: "f1", Name: "a.pdf", Status: models.FileStatusApproved, FileData: "ZGF0YQ=="},
		{ID: "f2", Name: "b.pdf", Status: models.FileStatusPending, FileData: "ZGF0YQ=="},
	})
	r := newFileRouter(st, testStudent)

	w := doJSON(t, r, http.MethodGet, "/files/f1/download", "")
	wantStatus(t, w, http.StatusOK)
	file := decodeBody[models.File](t, w)
	if file.FileData == "" {
		t.Error("download must include the blob")
	}
	if file.Downloads != 1 {
		t.Errorf("downloads = %d, want 1", file.Downloads)
	}

	wantStatus(t, doJSON(t, r, http.MethodGet, "/files/f2/download", ""), http.StatusNotFound)
}

func TestFileSearchFilters(t *testing.T) {
	st := newTestStore(t)
	store.Save(st, collections.Files, []models.File{
		{ID: "f1", Name: "DBMS Unit 1", Subject: "DBMS", Semester: "3", Status: models.FileStatusApproved, UploadedBy: "Prof Rao"},
		{ID: "f2", Name: "OS Notes", Subject: "OS", Semester: "3", Status: models.FileStatusApproved, UploadedBy: "Prof Iyer"},
		{ID: "f3", Name: "DBMS Lab", Subject: "DBMS", Semester: "5", Status: models.FileStatusApproved, UploadedBy: "Prof Rao"},
	})
	r := newFileRouter(st, testFaculty)

	cases := []struct {
		query string
		want  []string
	}{
		{"?subject=dbms", []string{"f1", "f3"}},
		{"?semester=3&subject=dbms", []string{"f1"}},
		{"?professor=iyer", []string{"f2"}},
		{"?q=lab", []string{"f3"}},
	}
	for _, c := range cases {
		w := doJSON(t, r, http.MethodGet, "/files"+c.query, "")
		wantStatus(t, w, http.StatusOK)
		got := decodeBody[[]models.File](t, w)
		ids := make(map[string]bool, len(got))
		for _, f := range got {
			ids[f.ID] = true
		}
		if len(got) != len(c.want) {
			t.Errorf("%s: got %d files, want %d", c.query, len(got), len(c.want))
			continue
		}
		for _, id := range c.want {
			if !ids[id] {
				t.Errorf("%s: missing %s", c.query, id)
			}
		}
	}
}
