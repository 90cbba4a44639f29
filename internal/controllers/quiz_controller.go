package controllers

import (
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/acadcentral/acportal_backend/internal/audit"
	"github.com/acadcentral/acportal_backend/internal/collections"
	"github.com/acadcentral/acportal_backend/internal/middleware"
	"github.com/acadcentral/acportal_backend/internal/models"
	"github.com/acadcentral/acportal_backend/internal/store"
	"github.com/acadcentral/acportal_backend/internal/utils"
)

// QuizController runs quiz rooms: faculty create a room with a join code,
// students join by code and submit one attempt per room.
type QuizController struct {
	Store *store.Store
	Audit *audit.Recorder
}

type createQuizRequest struct {
	Title     string            `json:"title" binding:"required"`
	Questions []models.Question `json:"questions" binding:"required,min=1"`
}

type submitAttemptRequest struct {
	Answers map[string]int `json:"answers" binding:"required"`
}

// List shows faculty their own rooms and admin all rooms; students join by
// code instead of browsing.
func (qc *QuizController) List(c *gin.Context) {
	user := middleware.CurrentUser(c)
	all := store.Load[models.QuizRoom](qc.Store, collections.QuizRooms)

	out := []models.QuizRoom{}
	for _, room := range all {
		if user.Role == models.RoleAdmin || room.TeacherID == user.ID {
			out = append(out, room)
		}
	}
	c.JSON(http.StatusOK, out)
}

func (qc *QuizController) Create(c *gin.Context) {
	user := middleware.CurrentUser(c)
	var req createQuizRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	rooms := store.Load[models.QuizRoom](qc.Store, collections.QuizRooms)
	code, err := uniqueCode(rooms)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	room := models.QuizRoom{
		ID:          utils.NewID("quiz"),
		Code:        code,
		Title:       req.Title,
		TeacherID:   user.ID,
		TeacherName: user.Name,
		Questions:   req.Questions,
		Status:      models.QuizStatusOpen,
		CreatedAt:   utils.NowISO(),
	}
	rooms = append(rooms, room)
	store.Save(qc.Store, collections.QuizRooms, rooms)
	qc.Audit.Log("CREATE_QUIZ", user, fmt.Sprintf("Created quiz room: %s (%s)", req.Title, code))
	c.JSON(http.StatusCreated, room)
}

// GetByCode resolves a join code. Students receive the questions without the
// correct answers.
func (qc *QuizController) GetByCode(c *gin.Context) {
	user := middleware.CurrentUser(c)
	code := strings.ToUpper(strings.TrimSpace(c.Param("code")))
	for _, room := range store.Load[models.QuizRoom](qc.Store, collections.QuizRooms) {
		if room.Code != code {
			continue
		}
		if user.Role == models.RoleStudent {
			blanked := make([]models.Question, len(room.Questions))
			for i, q := range room.Questions {
				q.CorrectIndex = -1
				blanked[i] = q
			}
			room.Questions = blanked
		}
		c.JSON(http.StatusOK, room)
		return
	}
	c.JSON(http.StatusNotFound, gin.H{"error": "quiz room not found"})
}

func (qc *QuizController) Close(c *gin.Context) {
	id := c.Param("id")
	rooms := store.Load[models.QuizRoom](qc.Store, collections.QuizRooms)
	for i := range rooms {
		if rooms[i].ID == id {
			rooms[i].Status = models.QuizStatusClosed
			store.Save(qc.Store, collections.QuizRooms, rooms)
			qc.Audit.Log("CLOSE_QUIZ", middleware.CurrentUser(c), "Closed quiz room "+id)
			c.JSON(http.StatusOK, gin.H{"message": "closed"})
			return
		}
	}
	c.JSON(http.StatusNotFound, gin.H{"error": "quiz room not found"})
}

func (qc *QuizController) Delete(c *gin.Context) {
	id := c.Param("id")
	rooms := store.Load[models.QuizRoom](qc.Store, collections.QuizRooms)
	kept := rooms[:0]
	for _, room := range rooms {
		if room.ID != id {
			kept = append(kept, room)
		}
	}
	store.Save(qc.Store, collections.QuizRooms, kept)
	qc.Audit.Log("DELETE_QUIZ", middleware.CurrentUser(c), "Deleted quiz room "+id)
	c.JSON(http.StatusOK, gin.H{"message": "deleted"})
}

func (qc *QuizController) ListAttempts(c *gin.Context) {
	roomID := c.Param("id")
	all := store.Load[models.QuizAttempt](qc.Store, collections.QuizAttempts)
	out := []models.QuizAttempt{}
	for _, a := range all {
		if a.RoomID == roomID {
			out = append(out, a)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].SubmittedAt > out[j].SubmittedAt })
	c.JSON(http.StatusOK, out)
}

func (qc *QuizController) MyAttempt(c *gin.Context) {
	user := middleware.CurrentUser(c)
	roomID := c.Param("id")
	for _, a := range store.Load[models.QuizAttempt](qc.Store, collections.QuizAttempts) {
		if a.RoomID == roomID && a.StudentID == user.ID {
			c.JSON(http.StatusOK, a)
			return
		}
	}
	c.JSON(http.StatusNotFound, gin.H{"error": "no attempt"})
}

// SubmitAttempt scores the answers against the room's questions and replaces
// any previous attempt by the same student.
func (qc *QuizController) SubmitAttempt(c *gin.Context) {
	user := middleware.CurrentUser(c)
	roomID := c.Param("id")
	var req submitAttemptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var room *models.QuizRoom
	for _, r := range store.Load[models.QuizRoom](qc.Store, collections.QuizRooms) {
		if r.ID == roomID {
			found := r
			room = &found
			break
		}
	}
	if room == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "quiz room not found"})
		return
	}
	if room.Status != models.QuizStatusOpen {
		c.JSON(http.StatusConflict, gin.H{"error": "quiz room is closed"})
		return
	}

	score := 0
	for i, q := range room.Questions {
		if answer, ok := req.Answers[strconv.Itoa(i)]; ok && answer == q.CorrectIndex {
			score++
		}
	}

	attempt := models.QuizAttempt{
		ID:          utils.NewID("attempt"),
		RoomID:      roomID,
		StudentID:   user.ID,
		StudentName: user.Name,
		StudentUSN:  user.USN,
		Answers:     req.Answers,
		Score:       score,
		Total:       len(room.Questions),
		SubmittedAt: utils.NowISO(),
	}

	attempts := store.Load[models.QuizAttempt](qc.Store, collections.QuizAttempts)
	kept := attempts[:0]
	for _, a := range attempts {
		if !(a.RoomID == roomID && a.StudentID == user.ID) {
			kept = append(kept, a)
		}
	}
	kept = append(kept, attempt)
	store.Save(qc.Store, collections.QuizAttempts, kept)
	qc.Audit.Log("QUIZ_ATTEMPT", user,
		fmt.Sprintf("Attempted quiz %s: %d/%d", room.Title, score, len(room.Questions)))
	c.JSON(http.StatusCreated, attempt)
}

// uniqueCode rejects collisions against existing rooms and draws again.
func uniqueCode(rooms []models.QuizRoom) (string, error) {
	taken := make(map[string]struct{}, len(rooms))
	for _, r := range rooms {
		taken[r.Code] = struct{}{}
	}
	for {
		code, err := utils.GenerateCode(6)
		if err != nil {
			return "", err
		}
		if _, exists := taken[code]; !exists {
			return code, nil
		}
	}
}
