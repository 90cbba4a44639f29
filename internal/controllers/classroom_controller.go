package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/acadcentral/acportal_backend/internal/audit"
	"github.com/acadcentral/acportal_backend/internal/collections"
	"github.com/acadcentral/acportal_backend/internal/middleware"
	"github.com/acadcentral/acportal_backend/internal/models"
	"github.com/acadcentral/acportal_backend/internal/store"
	"github.com/acadcentral/acportal_backend/internal/utils"
)

type ClassroomController struct {
	Store *store.Store
	Audit *audit.Recorder
}

type createClassroomRequest struct {
	Name       string   `json:"name" binding:"required"`
	Subject    string   `json:"subject"`
	StudentIDs []string `json:"studentIds"`
}

type updateClassroomRequest struct {
	Name       *string   `json:"name"`
	Subject    *string   `json:"subject"`
	StudentIDs *[]string `json:"studentIds"`
}

type addNoteRequest struct {
	Name     string `json:"name" binding:"required"`
	FileData string `json:"fileData"`
	Type     string `json:"type"`
}

// List scopes classrooms to the caller: students see rooms they belong to,
// faculty their own rooms, admin everything.
func (cc *ClassroomController) List(c *gin.Context) {
	user := middleware.CurrentUser(c)
	all := store.Load[models.Classroom](cc.Store, collections.Classrooms)

	out := []models.Classroom{}
	for _, room := range all {
		switch user.Role {
		case models.RoleAdmin:
			out = append(out, room)
		case models.RoleFaculty:
			if room.TeacherID == user.ID {
				out = append(out, room)
			}
		case models.RoleStudent:
			for _, id := range room.StudentIDs {
				if id == user.ID {
					out = append(out, room)
					break
				}
			}
		}
	}
	c.JSON(http.StatusOK, out)
}

func (cc *ClassroomController) Create(c *gin.Context) {
	user := middleware.CurrentUser(c)
	var req createClassroomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	studentIDs := req.StudentIDs
	if studentIDs == nil {
		studentIDs = []string{}
	}
	room := models.Classroom{
		ID:          utils.NewID("class"),
		Name:        req.Name,
		Subject:     req.Subject,
		TeacherID:   user.ID,
		TeacherName: user.Name,
		StudentIDs:  studentIDs,
		Notes:       []models.Note{},
		CreatedAt:   utils.NowISO(),
	}
	rooms := store.Load[models.Classroom](cc.Store, collections.Classrooms)
	rooms = append(rooms, room)
	store.Save(cc.Store, collections.Classrooms, rooms)
	cc.Audit.Log("CREATE_CLASSROOM", user, "Created classroom: "+req.Name)
	c.JSON(http.StatusCreated, room)
}

func (cc *ClassroomController) Update(c *gin.Context) {
	id := c.Param("id")
	var req updateClassroomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	rooms := store.Load[models.Classroom](cc.Store, collections.Classrooms)
	for i := range rooms {
		if rooms[i].ID != id {
			continue
		}
		if req.Name != nil {
			rooms[i].Name = *req.Name
		}
		if req.Subject != nil {
			rooms[i].Subject = *req.Subject
		}
		if req.StudentIDs != nil {
			rooms[i].StudentIDs = *req.StudentIDs
		}
		store.Save(cc.Store, collections.Classrooms, rooms)
		c.JSON(http.StatusOK, rooms[i])
		return
	}
	c.JSON(http.StatusNotFound, gin.H{"error": "classroom not found"})
}

func (cc *ClassroomController) Delete(c *gin.Context) {
	id := c.Param("id")
	rooms := store.Load[models.Classroom](cc.Store, collections.Classrooms)
	kept := rooms[:0]
	for _, room := range rooms {
		if room.ID != id {
			kept = append(kept, room)
		}
	}
	store.Save(cc.Store, collections.Classrooms, kept)
	cc.Audit.Log("DELETE_CLASSROOM", middleware.CurrentUser(c), "Deleted classroom "+id)
	c.JSON(http.StatusOK, gin.H{"message": "deleted"})
}

// AddNote appends a note sub-record to a classroom.
func (cc *ClassroomController) AddNote(c *gin.Context) {
	user := middleware.CurrentUser(c)
	id := c.Param("id")
	var req addNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	rooms := store.Load[models.Classroom](cc.Store, collections.Classrooms)
	for i := range rooms {
		if rooms[i].ID != id {
			continue
		}
		note := models.Note{
			ID:         utils.NewID("note"),
			Name:       req.Name,
			FileData:   req.FileData,
			Type:       req.Type,
			UploadedBy: user.Name,
			UploadedAt: utils.NowISO(),
		}
		rooms[i].Notes = append(rooms[i].Notes, note)
		store.Save(cc.Store, collections.Classrooms, rooms)
		cc.Audit.Log("UPLOAD_NOTE", user, "Uploaded note \""+req.Name+"\" to classroom "+id)
		c.JSON(http.StatusCreated, note)
		return
	}
	c.JSON(http.StatusNotFound, gin.H{"error": "classroom not found"})
}

func (cc *ClassroomController) DeleteNote(c *gin.Context) {
	id := c.Param("id")
	noteID := c.Param("note_id")
	rooms := store.Load[models.Classroom](cc.Store, collections.Classrooms)
	for i := range rooms {
		if rooms[i].ID != id {
			continue
		}
		kept := rooms[i].Notes[:0]
		for _, n := range rooms[i].Notes {
			if n.ID != noteID {
				kept = append(kept, n)
			}
		}
		rooms[i].Notes = kept
		store.Save(cc.Store, collections.Classrooms, rooms)
		cc.Audit.Log("DELETE_NOTE", middleware.CurrentUser(c), "Deleted note "+noteID)
		c.JSON(http.StatusOK, gin.H{"message": "deleted"})
		return
	}
	c.JSON(http.StatusNotFound, gin.H{"error": "classroom not found"})
}
