package controllers

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/acadcentral/acportal_backend/internal/collections"
	"github.com/acadcentral/acportal_backend/internal/models"
	"github.com/acadcentral/acportal_backend/internal/store"
	"github.com/acadcentral/acportal_backend/internal/utils"
)

func newAuthRouter(st *store.Store) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	ctrl := &AuthController{
		Store:     st,
		Audit:     newRecorder(st),
		JWTSecret: "test-secret",
		ExpiresIn: time.Hour,
	}
	r.POST("/auth/login", ctrl.Login)
	r.POST("/auth/register", ctrl.RegisterStudent)
	return r
}

type tokenResponse struct {
	AccessToken string      `json:"access_token"`
	TokenType   string      `json:"token_type"`
	ExpiresIn   int         `json:"expires_in"`
	User        models.User `json:"user"`
}

func seedLoginUser(t *testing.T, st *store.Store) {
	t.Helper()
	hashed, err := utils.HashPassword("Secret@1")
	if err != nil {
		t.Fatal(err)
	}
	user := testFaculty
	user.Password = hashed
	store.Save(st, collections.Users, []models.User{user})
}

func TestLogin(t *testing.T) {
	st := newTestStore(t)
	seedLoginUser(t, st)
	r := newAuthRouter(st)

	w := doJSON(t, r, http.MethodPost, "/auth/login",
		`{"email":"rao@dept.edu","password":"Secret@1","role":"faculty"}`)
	wantStatus(t, w, http.StatusOK)

	resp := decodeBody[tokenResponse](t, w)
	if resp.AccessToken == "" || resp.TokenType != "Bearer" {
		t.Errorf("token response = %+v", resp)
	}
	if resp.User.Password != "" {
		t.Error("password must never be returned")
	}
	if resp.User.ID != testFaculty.ID {
		t.Errorf("user = %+v", resp.User)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	st := newTestStore(t)
	seedLoginUser(t, st)
	r := newAuthRouter(st)

	cases := []struct {
		name string
		body string
	}{
		{"wrong password", `{"email":"rao@dept.edu","password":"nope","role":"faculty"}`},
		{"wrong role", `{"email":"rao@dept.edu","password":"Secret@1","role":"admin"}`},
		{"unknown email", `{"email":"ghost@dept.edu","password":"Secret@1","role":"faculty"}`},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			w := doJSON(t, r, http.MethodPost, "/auth/login", c.body)
			wantStatus(t, w, http.StatusUnauthorized)
		})
	}
}

func TestRegisterStudent(t *testing.T) {
	st := newTestStore(t)
	r := newAuthRouter(st)

	w := doJSON(t, r, http.MethodPost, "/auth/register", `{
		"usn": "1ab21ca007",
		"name": "New Student",
		"email": "New@Dept.edu",
		"password": "Pass@123",
		"semester": "3"
	}`)
	wantStatus(t, w, http.StatusCreated)

	resp := decodeBody[tokenResponse](t, w)
	if resp.User.USN != "1AB21CA007" {
		t.Errorf("usn = %q, want uppercased", resp.User.USN)
	}
	if resp.User.Email != "new@dept.edu" {
		t.Errorf("email = %q, want lowercased", resp.User.Email)
	}
	if resp.User.Program != "BCA" || resp.User.Section != "A" {
		t.Errorf("defaults missing: %+v", resp.User)
	}

	users := store.Load[models.User](st, collections.Users)
	if len(users) != 1 {
		t.Fatalf("users = %d", len(users))
	}
	if users[0].Password == "Pass@123" {
		t.Error("stored password must be hashed")
	}
}

func TestRegisterStudentRejectsDuplicates(t *testing.T) {
	st := newTestStore(t)
	r := newAuthRouter(st)
	body := `{"usn":"1AB21CA007","name":"A","email":"a@dept.edu","password":"Pass@123"}`

	wantStatus(t, doJSON(t, r, http.MethodPost, "/auth/register", body), http.StatusCreated)
	wantStatus(t, doJSON(t, r, http.MethodPost, "/auth/register", body), http.StatusConflict)

	// Same email under a different USN is still a conflict.
	other := `{"usn":"1AB21CA008","name":"B","email":"a@dept.edu","password":"Pass@123"}`
	wantStatus(t, doJSON(t, r, http.MethodPost, "/auth/register", other), http.StatusConflict)
}
