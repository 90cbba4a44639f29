package controllers

import (
	"net/http"
	"sort"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/acadcentral/acportal_backend/internal/audit"
	"github.com/acadcentral/acportal_backend/internal/collections"
	"github.com/acadcentral/acportal_backend/internal/middleware"
	"github.com/acadcentral/acportal_backend/internal/models"
	"github.com/acadcentral/acportal_backend/internal/store"
	"github.com/acadcentral/acportal_backend/internal/utils"
)

// FileController serves the shared file repository with its approval
// workflow: student uploads start pending, staff uploads are auto-approved.
type FileController struct {
	Store *store.Store
	Audit *audit.Recorder
}

type uploadFileRequest struct {
	Name        string `json:"name" binding:"required"`
	Subject     string `json:"subject"`
	SubjectName string `json:"subjectName"`
	Unit        string `json:"unit"`
	Semester    string `json:"semester"`
	FileData    string `json:"fileData" binding:"required"`
	FileType    string `json:"fileType"`
}

// List filters the repository. Students only ever see approved files; staff
// may ask for a specific status.
func (fc *FileController) List(c *gin.Context) {
	user := middleware.CurrentUser(c)
	files := store.Load[models.File](fc.Store, collections.Files)

	status := c.Query("status")
	if user.Role == models.RoleStudent {
		status = models.FileStatusApproved
	}
	semester := c.Query("semester")
	subject := strings.ToLower(c.Query("subject"))
	professor := strings.ToLower(c.Query("professor"))
	query := strings.ToLower(c.Query("q"))

	out := []models.File{}
	for _, f := range files {
		if status != "" && f.Status != status {
			continue
		}
		if semester != "" && f.Semester != semester {
			continue
		}
		if subject != "" &&
			!strings.Contains(strings.ToLower(f.Subject), subject) &&
			!strings.Contains(strings.ToLower(f.SubjectName), subject) {
			continue
		}
		if professor != "" && !strings.Contains(strings.ToLower(f.UploadedBy), professor) {
			continue
		}
		if query != "" &&
			!strings.Contains(strings.ToLower(f.Name), query) &&
			!strings.Contains(strings.ToLower(f.Subject), query) &&
			!strings.Contains(strings.ToLower(f.SubjectName), query) &&
			!strings.Contains(strings.ToLower(f.UploadedBy), query) {
			continue
		}
		f.FileData = "" // listing stays light; content comes via download
		out = append(out, f)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].UploadDate > out[j].UploadDate })
	c.JSON(http.StatusOK, out)
}

func (fc *FileController) Upload(c *gin.Context) {
	user := middleware.CurrentUser(c)
	var req uploadFileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	uploadedBy := user.Name
	status := models.FileStatusApproved
	if user.Role == models.RoleStudent {
		uploadedBy = user.USN + " - " + user.Name
		status = models.FileStatusPending
	}
	file := models.File{
		ID:           utils.NewID("file"),
		Name:         req.Name,
		Subject:      req.Subject,
		SubjectName:  req.SubjectName,
		Unit:         req.Unit,
		Semester:     req.Semester,
		Status:       status,
		UploadedBy:   uploadedBy,
		UploaderID:   user.ID,
		UploaderRole: user.Role,
		Downloads:    0,
		UploadDate:   utils.NowISO(),
		FileData:     req.FileData,
		FileType:     req.FileType,
	}
	files := store.Load[models.File](fc.Store, collections.Files)
	files = append(files, file)
	store.Save(fc.Store, collections.Files, files)
	fc.Audit.Log("UPLOAD_FILE", user, "Uploaded: "+req.Name)

	file.FileData = ""
	c.JSON(http.StatusCreated, file)
}

func (fc *FileController) Approve(c *gin.Context) {
	id := c.Param("id")
	files := store.Load[models.File](fc.Store, collections.Files)
	for i := range files {
		if files[i].ID == id {
			files[i].Status = models.FileStatusApproved
			store.Save(fc.Store, collections.Files, files)
			fc.Audit.Log("APPROVE_FILE", middleware.CurrentUser(c), "Approved file "+id)
			c.JSON(http.StatusOK, gin.H{"message": "approved"})
			return
		}
	}
	c.JSON(http.StatusNotFound, gin.H{"error": "file not found"})
}

// Reject removes a pending upload entirely; the repository keeps no
// rejection history.
func (fc *FileController) Reject(c *gin.Context) {
	fc.remove(c, "REJECT_FILE", "Rejected file ")
}

func (fc *FileController) Delete(c *gin.Context) {
	fc.remove(c, "DELETE_FILE", "Deleted file ")
}

func (fc *FileController) remove(c *gin.Context, action, detail string) {
	id := c.Param("id")
	files := store.Load[models.File](fc.Store, collections.Files)
	kept := files[:0]
	for _, f := range files {
		if f.ID != id {
			kept = append(kept, f)
		}
	}
	store.Save(fc.Store, collections.Files, kept)
	fc.Audit.Log(action, middleware.CurrentUser(c), detail+id)
	c.JSON(http.StatusOK, gin.H{"message": "deleted"})
}

// Download returns the stored blob and bumps the counter.
func (fc *FileController) Download(c *gin.Context) {
	user := middleware.CurrentUser(c)
	id := c.Param("id")
	files := store.Load[models.File](fc.Store, collections.Files)
	for i := range files {
		if files[i].ID != id {
			continue
		}
		if user.Role == models.RoleStudent && files[i].Status != models.FileStatusApproved {
			c.JSON(http.StatusNotFound, gin.H{"error": "file not found"})
			return
		}
		files[i].Downloads++
		store.Save(fc.Store, collections.Files, files)
		c.JSON(http.StatusOK, files[i])
		return
	}
	c.JSON(http.StatusNotFound, gin.H{"error": "file not found"})
}
