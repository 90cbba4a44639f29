package controllers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/acadcentral/acportal_backend/internal/audit"
	"github.com/acadcentral/acportal_backend/internal/collections"
	"github.com/acadcentral/acportal_backend/internal/middleware"
	"github.com/acadcentral/acportal_backend/internal/models"
	"github.com/acadcentral/acportal_backend/internal/store"
	"github.com/acadcentral/acportal_backend/internal/utils"
)

// UserController covers account administration: faculty management, profile
// updates, password changes, bulk import and class allocations.
type UserController struct {
	Store *store.Store
	Audit *audit.Recorder
}

type addFacultyRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=4"`
}

type updateUserRequest struct {
	Name     *string `json:"name"`
	Semester *string `json:"semester"`
	Program  *string `json:"program"`
	Section  *string `json:"section"`
	Avatar   *string `json:"avatar"`
}

type changePasswordRequest struct {
	Password string `json:"password" binding:"required,min=4"`
}

type importRow struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	USN      string `json:"usn"`
	Program  string `json:"program"`
	Section  string `json:"section"`
	Semester string `json:"semester"`
	Password string `json:"password"`
}

type allocationRow struct {
	Email    string `json:"email"`
	Program  string `json:"program"`
	Section  string `json:"section"`
	Subjects string `json:"subjects"` // semicolon-separated
}

func (uc *UserController) ListFaculty(c *gin.Context) {
	uc.listByRole(c, models.RoleFaculty)
}

func (uc *UserController) ListStudents(c *gin.Context) {
	uc.listByRole(c, models.RoleStudent)
}

// ListStaff returns faculty and admin accounts together (the chat contact
// set students are allowed to see).
func (uc *UserController) ListStaff(c *gin.Context) {
	out := []models.User{}
	for _, u := range store.Load[models.User](uc.Store, collections.Users) {
		if u.Role == models.RoleFaculty || u.Role == models.RoleAdmin {
			out = append(out, u.Sanitized())
		}
	}
	c.JSON(http.StatusOK, out)
}

func (uc *UserController) listByRole(c *gin.Context, role string) {
	out := []models.User{}
	for _, u := range store.Load[models.User](uc.Store, collections.Users) {
		if u.Role == role {
			out = append(out, u.Sanitized())
		}
	}
	c.JSON(http.StatusOK, out)
}

func (uc *UserController) AddFaculty(c *gin.Context) {
	var req addFacultyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))
	users := store.Load[models.User](uc.Store, collections.Users)
	for _, u := range users {
		if u.Email == email {
			c.JSON(http.StatusConflict, gin.H{"error": "a user with this email already exists"})
			return
		}
	}
	hashed, err := utils.HashPassword(req.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to hash password"})
		return
	}
	faculty := models.User{
		ID:       utils.NewID("faculty"),
		Role:     models.RoleFaculty,
		Name:     strings.TrimSpace(req.Name),
		Email:    email,
		Password: hashed,
		Avatar:   utils.AvatarInitials(req.Name),
	}
	users = append(users, faculty)
	store.Save(uc.Store, collections.Users, users)
	c.JSON(http.StatusCreated, faculty.Sanitized())
}

func (uc *UserController) DeleteFaculty(c *gin.Context) {
	id := c.Param("id")
	users := store.Load[models.User](uc.Store, collections.Users)
	kept := users[:0]
	for _, u := range users {
		if u.ID != id {
			kept = append(kept, u)
		}
	}
	store.Save(uc.Store, collections.Users, kept)
	c.JSON(http.StatusOK, gin.H{"message": "deleted"})
}

func (uc *UserController) UpdateUser(c *gin.Context) {
	id := c.Param("id")
	var req updateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	users := store.Load[models.User](uc.Store, collections.Users)
	for i := range users {
		if users[i].ID != id {
			continue
		}
		if req.Name != nil {
			users[i].Name = *req.Name
		}
		if req.Semester != nil {
			users[i].Semester = *req.Semester
		}
		if req.Program != nil {
			users[i].Program = *req.Program
		}
		if req.Section != nil {
			users[i].Section = *req.Section
		}
		if req.Avatar != nil {
			users[i].Avatar = *req.Avatar
		}
		store.Save(uc.Store, collections.Users, users)
		c.JSON(http.StatusOK, users[i].Sanitized())
		return
	}
	c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
}

func (uc *UserController) ChangePassword(c *gin.Context) {
	id := c.Param("id")
	var req changePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	users := store.Load[models.User](uc.Store, collections.Users)
	for i := range users {
		if users[i].ID != id {
			continue
		}
		hashed, err := utils.HashPassword(req.Password)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to hash password"})
			return
		}
		users[i].Password = hashed
		store.Save(uc.Store, collections.Users, users)
		uc.Audit.Log("CHANGE_PASSWORD", middleware.CurrentUser(c),
			fmt.Sprintf("Changed password for user: %s (%s)", users[i].Name, users[i].Role))
		c.JSON(http.StatusOK, gin.H{"message": "password changed"})
		return
	}
	c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
}

// BulkImport creates accounts from spreadsheet rows. Rows with missing
// required fields are reported per row; duplicate emails are skipped.
func (uc *UserController) BulkImport(c *gin.Context) {
	var rows []importRow
	if err := c.ShouldBindJSON(&rows); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	users := store.Load[models.User](uc.Store, collections.Users)
	emails := make(map[string]struct{}, len(users))
	for _, u := range users {
		emails[u.Email] = struct{}{}
	}

	created, skipped := 0, 0
	var rowErrors []string
	for idx, row := range rows {
		if row.Name == "" || row.Email == "" || row.Role == "" || row.Password == "" {
			rowErrors = append(rowErrors, fmt.Sprintf("row %d: missing required fields", idx+2))
			continue
		}
		email := strings.ToLower(strings.TrimSpace(row.Email))
		if _, dup := emails[email]; dup {
			skipped++
			continue
		}
		role := models.RoleStudent
		if strings.EqualFold(row.Role, models.RoleFaculty) {
			role = models.RoleFaculty
		}
		hashed, err := utils.HashPassword(strings.TrimSpace(row.Password))
		if err != nil {
			rowErrors = append(rowErrors, fmt.Sprintf("row %d: %v", idx+2, err))
			continue
		}
		user := models.User{
			ID:       utils.NewID(role + "-imp"),
			Role:     role,
			Name:     strings.TrimSpace(row.Name),
			Email:    email,
			Password: hashed,
			USN:      strings.ToUpper(row.USN),
			Semester: row.Semester,
			Avatar:   utils.AvatarInitials(row.Name),
		}
		if role == models.RoleStudent {
			user.Program = upperOr(row.Program, "BCA")
			user.Section = upperOr(row.Section, "A")
		} else {
			user.Program = strings.ToUpper(row.Program)
			user.Section = strings.ToUpper(row.Section)
		}
		users = append(users, user)
		emails[email] = struct{}{}
		created++
	}
	store.Save(uc.Store, collections.Users, users)
	uc.Audit.Log("BULK_IMPORT", middleware.CurrentUser(c),
		fmt.Sprintf("Imported %d users, skipped %d", created, skipped))
	c.JSON(http.StatusOK, gin.H{"created": created, "skipped": skipped, "errors": rowErrors})
}

// Allocate attaches program/section/subject assignments to faculty accounts.
func (uc *UserController) Allocate(c *gin.Context) {
	var rows []allocationRow
	if err := c.ShouldBindJSON(&rows); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	users := store.Load[models.User](uc.Store, collections.Users)

	updated, notFound := 0, 0
	var rowErrors []string
	for idx, row := range rows {
		if row.Email == "" || row.Program == "" || row.Section == "" || row.Subjects == "" {
			rowErrors = append(rowErrors, fmt.Sprintf("row %d: missing required fields (email, program, section, subjects)", idx+2))
			continue
		}
		email := strings.ToLower(strings.TrimSpace(row.Email))
		found := false
		for i := range users {
			if users[i].Email != email || users[i].Role != models.RoleFaculty {
				continue
			}
			var subjects []string
			for _, s := range strings.Split(row.Subjects, ";") {
				if s = strings.TrimSpace(s); s != "" {
					subjects = append(subjects, s)
				}
			}
			users[i].Allocations = append(users[i].Allocations, models.Allocation{
				Program:  strings.ToUpper(row.Program),
				Section:  strings.ToUpper(row.Section),
				Subjects: subjects,
			})
			updated++
			found = true
			break
		}
		if !found {
			notFound++
		}
	}
	store.Save(uc.Store, collections.Users, users)
	uc.Audit.Log("FACULTY_ALLOCATION", middleware.CurrentUser(c),
		fmt.Sprintf("Allocated classes for %d faculty.", updated))
	c.JSON(http.StatusOK, gin.H{"updated": updated, "not_found": notFound, "errors": rowErrors})
}

func upperOr(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return strings.ToUpper(v)
}
