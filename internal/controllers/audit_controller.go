package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/acadcentral/acportal_backend/internal/audit"
)

// AuditController exposes the audit trail to admin.
type AuditController struct {
	Audit *audit.Recorder
}

func (ac *AuditController) List(c *gin.Context) {
	c.JSON(http.StatusOK, ac.Audit.Entries())
}
