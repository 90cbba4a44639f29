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

type NoticeController struct {
	Store *store.Store
	Audit *audit.Recorder
}

type postNoticeRequest struct {
	Title    string `json:"title" binding:"required"`
	Content  string `json:"content"`
	Category string `json:"category"`
	Priority string `json:"priority"`
	Urgent   bool   `json:"urgent"`
}

func (nc *NoticeController) List(c *gin.Context) {
	notices := store.Load[models.Notice](nc.Store, collections.Notices)
	sort.SliceStable(notices, func(i, j int) bool {
		return notices[i].PostedDate > notices[j].PostedDate
	})
	c.JSON(http.StatusOK, notices)
}

func (nc *NoticeController) Post(c *gin.Context) {
	user := middleware.CurrentUser(c)
	var req postNoticeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	notice := models.Notice{
		ID:         utils.NewID("notice"),
		Title:      req.Title,
		Content:    req.Content,
		Category:   req.Category,
		Priority:   req.Priority,
		Urgent:     req.Urgent,
		PostedBy:   user.Name,
		PosterID:   user.ID,
		PostedDate: utils.NowISO(),
	}
	notices := store.Load[models.Notice](nc.Store, collections.Notices)
	notices = append(notices, notice)
	store.Save(nc.Store, collections.Notices, notices)
	nc.Audit.Log("POST_NOTICE", user, "Posted: "+req.Title)
	c.JSON(http.StatusCreated, notice)
}

func (nc *NoticeController) Delete(c *gin.Context) {
	id := c.Param("id")
	notices := store.Load[models.Notice](nc.Store, collections.Notices)
	kept := notices[:0]
	for _, n := range notices {
		if n.ID != id {
			kept = append(kept, n)
		}
	}
	store.Save(nc.Store, collections.Notices, kept)
	nc.Audit.Log("DELETE_NOTICE", middleware.CurrentUser(c), "Deleted notice "+id)
	c.JSON(http.StatusOK, gin.H{"message": "deleted"})
}
