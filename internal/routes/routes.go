package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/acadcentral/acportal_backend/internal/audit"
	"github.com/acadcentral/acportal_backend/internal/config"
	"github.com/acadcentral/acportal_backend/internal/controllers"
	"github.com/acadcentral/acportal_backend/internal/middleware"
	"github.com/acadcentral/acportal_backend/internal/mirror"
	"github.com/acadcentral/acportal_backend/internal/models"
	"github.com/acadcentral/acportal_backend/internal/store"
	"github.com/acadcentral/acportal_backend/internal/ws"
)

// Mirror registers the sync endpoints the portal pushes to.
func Mirror(r *gin.Engine, st mirror.Store) {
	syncCtrl := &controllers.SyncController{Store: st}

	r.GET("/api/health", syncCtrl.Health)
	r.GET("/api/data", syncCtrl.Data)
	r.POST("/api/sync", syncCtrl.Sync)
	r.POST("/api/sync-all", syncCtrl.SyncAll)
}

// Portal registers the department portal API.
func Portal(r *gin.Engine, cfg *config.Config, st *store.Store, rec *audit.Recorder, hub *ws.EventsHub) {
	authCtrl := &controllers.AuthController{Store: st, Audit: rec, JWTSecret: cfg.JWTSecret, ExpiresIn: cfg.JWTExpiresIn}
	userCtrl := &controllers.UserController{Store: st, Audit: rec}
	fileCtrl := &controllers.FileController{Store: st, Audit: rec}
	noticeCtrl := &controllers.NoticeController{Store: st, Audit: rec}
	classCtrl := &controllers.ClassroomController{Store: st, Audit: rec}
	assignCtrl := &controllers.AssignmentController{Store: st, Audit: rec}
	quizCtrl := &controllers.QuizController{Store: st, Audit: rec}
	chatCtrl := &controllers.ChatController{Store: st}
	eventCtrl := &controllers.EventController{Store: st, Audit: rec}
	attCtrl := &controllers.AttendanceController{Store: st, Audit: rec}
	ttCtrl := &controllers.TimetableController{Store: st, Audit: rec}
	resCtrl := &controllers.ResultController{Store: st, Audit: rec}
	auditCtrl := &controllers.AuditController{Audit: rec}

	// Public
	auth := r.Group("/api/auth")
	{
		auth.POST("/login", authCtrl.Login)
		auth.POST("/register", authCtrl.RegisterStudent)
	}

	// Protected
	api := r.Group("/api", middleware.Auth(st, cfg.JWTSecret))
	{
		api.GET("/auth/me", authCtrl.Me)
		api.POST("/auth/logout", authCtrl.Logout)

		// Admin-only
		admin := api.Group("/admin", middleware.RequireRoles(models.RoleAdmin))
		{
			admin.GET("/faculty", userCtrl.ListFaculty)
			admin.POST("/faculty", userCtrl.AddFaculty)
			admin.DELETE("/faculty/:id", userCtrl.DeleteFaculty)
			admin.PUT("/users/:id", userCtrl.UpdateUser)
			admin.PUT("/users/:id/password", userCtrl.ChangePassword)
			admin.POST("/users/import", userCtrl.BulkImport)
			admin.POST("/faculty/allocate", userCtrl.Allocate)
			admin.GET("/audit-logs", auditCtrl.List)
			admin.GET("/events/feed", hub.Serve)
		}

		// Directory
		api.GET("/students", middleware.RequireRoles(models.RoleFaculty), userCtrl.ListStudents)
		api.GET("/staff", userCtrl.ListStaff)

		// File repository
		api.GET("/files", fileCtrl.List)
		api.POST("/files", fileCtrl.Upload)
		api.GET("/files/:id/download", fileCtrl.Download)
		staffFiles := api.Group("/files", middleware.RequireRoles(models.RoleFaculty))
		{
			staffFiles.POST("/:id/approve", fileCtrl.Approve)
			staffFiles.POST("/:id/reject", fileCtrl.Reject)
			staffFiles.DELETE("/:id", fileCtrl.Delete)
		}

		// Notices
		api.GET("/notices", noticeCtrl.List)
		staffNotices := api.Group("/notices", middleware.RequireRoles(models.RoleFaculty))
		{
			staffNotices.POST("", noticeCtrl.Post)
			staffNotices.DELETE("/:id", noticeCtrl.Delete)
		}

		// Classrooms
		api.GET("/classrooms", classCtrl.List)
		api.GET("/classrooms/:id/assignments", assignCtrl.ListByClassroom)
		staffClass := api.Group("/classrooms", middleware.RequireRoles(models.RoleFaculty))
		{
			staffClass.POST("", classCtrl.Create)
			staffClass.PUT("/:id", classCtrl.Update)
			staffClass.DELETE("/:id", classCtrl.Delete)
			staffClass.POST("/:id/notes", classCtrl.AddNote)
			staffClass.DELETE("/:id/notes/:note_id", classCtrl.DeleteNote)
		}

		// Assignments and submissions
		api.GET("/assignments/:id/my-submission", assignCtrl.MySubmission)
		api.POST("/assignments/:id/submit", middleware.RequireRoles(models.RoleStudent), assignCtrl.Submit)
		staffAssign := api.Group("/assignments", middleware.RequireRoles(models.RoleFaculty))
		{
			staffAssign.POST("", assignCtrl.Create)
			staffAssign.DELETE("/:id", assignCtrl.Delete)
			staffAssign.GET("/:id/submissions", assignCtrl.ListSubmissions)
		}

		// Quiz rooms
		api.GET("/quiz-rooms/code/:code", quizCtrl.GetByCode)
		api.GET("/quiz-rooms/:id/my-attempt", quizCtrl.MyAttempt)
		api.POST("/quiz-rooms/:id/attempts", middleware.RequireRoles(models.RoleStudent), quizCtrl.SubmitAttempt)
		staffQuiz := api.Group("/quiz-rooms", middleware.RequireRoles(models.RoleFaculty))
		{
			staffQuiz.GET("", quizCtrl.List)
			staffQuiz.POST("", quizCtrl.Create)
			staffQuiz.POST("/:id/close", quizCtrl.Close)
			staffQuiz.DELETE("/:id", quizCtrl.Delete)
			staffQuiz.GET("/:id/attempts", quizCtrl.ListAttempts)
		}

		// Chat
		api.GET("/chat/contacts", chatCtrl.Contacts)
		api.GET("/chat/unread-count", chatCtrl.UnreadCount)
		api.GET("/chat/:peer_id/messages", chatCtrl.Messages)
		api.POST("/chat/messages", chatCtrl.Send)
		api.POST("/chat/:peer_id/read", chatCtrl.MarkRead)

		// Calendar
		api.GET("/events", eventCtrl.List)
		staffEvents := api.Group("/events", middleware.RequireRoles(models.RoleFaculty))
		{
			staffEvents.POST("", eventCtrl.Save)
			staffEvents.DELETE("/:id", eventCtrl.Delete)
		}

		// Attendance, timetable, results
		api.GET("/attendance", attCtrl.List)
		api.POST("/attendance", middleware.RequireRoles(models.RoleFaculty), attCtrl.SaveBatch)
		api.GET("/timetable", ttCtrl.List)
		api.POST("/timetable", middleware.RequireRoles(models.RoleFaculty), ttCtrl.Save)
		api.GET("/results", resCtrl.List)
		api.POST("/results", middleware.RequireRoles(models.RoleFaculty), resCtrl.SaveBatch)
	}
}
