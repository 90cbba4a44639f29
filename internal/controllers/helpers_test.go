package controllers

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/acadcentral/acportal_backend/internal/audit"
	"github.com/acadcentral/acportal_backend/internal/models"
	"github.com/acadcentral/acportal_backend/internal/store"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.Open("")
	if err != nil {
		t.Fatal(err)
	}
	return st
}

// asUser injects an authenticated user the way the auth middleware would.
func asUser(user models.User) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("user", user.Sanitized())
		c.Next()
	}
}

func newRecorder(st *store.Store) *audit.Recorder {
	return &audit.Recorder{Store: st}
}

func doJSON(t *testing.T, r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response %s: %v", w.Body, err)
	}
	return out
}

var (
	testAdmin   = models.User{ID: "admin-1", Role: models.RoleAdmin, Name: "Head", Email: "head@dept.edu"}
	testFaculty = models.User{ID: "fac-1", Role: models.RoleFaculty, Name: "Prof Rao", Email: "rao@dept.edu"}
	testStudent = models.User{ID: "stu-1", Role: models.RoleStudent, Name: "Asha", Email: "asha@dept.edu", USN: "1AB21CA001"}
)

func wantStatus(t *testing.T, w *httptest.ResponseRecorder, code int) {
	t.Helper()
	if w.Code != code {
		t.Fatalf("status = %d, want %d (body %s)", w.Code, code, w.Body)
	}
}
