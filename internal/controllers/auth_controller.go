package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/acadcentral/acportal_backend/internal/audit"
	"github.com/acadcentral/acportal_backend/internal/collections"
	"github.com/acadcentral/acportal_backend/internal/middleware"
	"github.com/acadcentral/acportal_backend/internal/models"
	"github.com/acadcentral/acportal_backend/internal/store"
	"github.com/acadcentral/acportal_backend/internal/utils"
)

type AuthController struct {
	Store     *store.Store
	Audit     *audit.Recorder
	JWTSecret string
	ExpiresIn time.Duration
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	Role     string `json:"role" binding:"required,oneof=admin faculty student"`
}

type registerStudentRequest struct {
	USN      string `json:"usn" binding:"required"`
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=4"`
	Semester string `json:"semester"`
	Program  string `json:"program"`
	Section  string `json:"section"`
}

func (a *AuthController) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	users := store.Load[models.User](a.Store, collections.Users)
	for _, u := range users {
		if u.Email == email && u.Role == req.Role && utils.CheckPassword(u.Password, req.Password) {
			safe := u.Sanitized()
			token, err := a.issueToken(safe)
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			a.Audit.Log("LOGIN", safe, "Logged in as "+req.Role)
			c.JSON(http.StatusOK, gin.H{
				"access_token": token,
				"token_type":   "Bearer",
				"expires_in":   int(a.ExpiresIn.Seconds()),
				"user":         safe,
			})
			return
		}
	}
	c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials, check your email, password and role"})
}

// RegisterStudent is the self-service signup path; faculty accounts are
// created by the admin instead.
func (a *AuthController) RegisterStudent(c *gin.Context) {
	var req registerStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	usn := strings.ToUpper(strings.TrimSpace(req.USN))
	email := strings.ToLower(strings.TrimSpace(req.Email))
	users := store.Load[models.User](a.Store, collections.Users)
	for _, u := range users {
		if u.USN == usn {
			c.JSON(http.StatusConflict, gin.H{"error": "usn " + usn + " already registered"})
			return
		}
		if u.Email == email {
			c.JSON(http.StatusConflict, gin.H{"error": "an account with this email already exists"})
			return
		}
	}

	hashed, err := utils.HashPassword(req.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to hash password"})
		return
	}
	program := req.Program
	if program == "" {
		program = "BCA"
	}
	section := req.Section
	if section == "" {
		section = "A"
	}
	user := models.User{
		ID:       utils.NewID("student"),
		Role:     models.RoleStudent,
		Name:     strings.TrimSpace(req.Name),
		Email:    email,
		Password: hashed,
		USN:      usn,
		Semester: req.Semester,
		Program:  strings.ToUpper(program),
		Section:  strings.ToUpper(section),
		Avatar:   utils.AvatarInitials(req.Name),
	}
	users = append(users, user)
	store.Save(a.Store, collections.Users, users)

	safe := user.Sanitized()
	a.Audit.Log("REGISTER", safe, "Student self-registered")

	token, err := a.issueToken(safe)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"access_token": token,
		"token_type":   "Bearer",
		"expires_in":   int(a.ExpiresIn.Seconds()),
		"user":         safe,
	})
}

func (a *AuthController) Me(c *gin.Context) {
	c.JSON(http.StatusOK, middleware.CurrentUser(c))
}

// Logout only records the action; tokens are stateless and expire on their own.
func (a *AuthController) Logout(c *gin.Context) {
	a.Audit.Log("LOGOUT", middleware.CurrentUser(c), "User logged out")
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

func (a *AuthController) issueToken(user models.User) (string, error) {
	now := time.Now().UTC()
	claims := middleware.Claims{
		UserID: user.ID,
		Role:   user.Role,
		Email:  user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "acportal_backend",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(a.ExpiresIn)),
			Subject:   user.ID,
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(a.JWTSecret))
}
