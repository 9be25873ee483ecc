package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/testoloji/akademi-backend/internal/handlers"
	"github.com/testoloji/akademi-backend/internal/middleware"
	"github.com/testoloji/akademi-backend/internal/types"
)

type RouterConfig struct {
	AuthMiddleware  *middleware.AuthMiddleware
	CoachingHandler *handlers.CoachingHandler
	AdminHandler    *handlers.AdminHandler
	SSEHandler      *handlers.SSEHandler
	AllowOrigins    []string
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	// ===============
	// || Public    ||
	// ===============
	router.GET("/healthcheck", handlers.HealthCheck)

	// ===============
	// || Protected ||
	// ===============
	api := router.Group("/api")
	api.Use(cfg.AuthMiddleware.RequireAuth())

	// SSE
	api.GET("/sse/stream", cfg.SSEHandler.Stream)

	// Coaching
	coaching := api.Group("/coaching")
	coaching.POST("/ask", cfg.CoachingHandler.AskAI)
	coaching.POST("/analyze-progress", cfg.CoachingHandler.AnalyzeProgress)
	coaching.GET("/usage", cfg.CoachingHandler.GetUsage)
	coaching.GET("/history", cfg.CoachingHandler.GetHistory)
	coaching.GET("/jobs/:id", cfg.CoachingHandler.GetJob)
	coaching.GET("/assignments/:assignmentId/analysis", cfg.CoachingHandler.GetAssignmentAnalysis)

	// Teacher / admin
	staff := coaching.Group("/students")
	staff.Use(cfg.AuthMiddleware.RequireRole(types.RoleTeacher, types.RoleAdmin))
	staff.POST("/:studentId/analyze", cfg.CoachingHandler.AnalyzeStudent)
	staff.GET("/:studentId/history", cfg.CoachingHandler.GetStudentHistory)

	// Admin
	adminCoaching := coaching.Group("/")
	adminCoaching.Use(cfg.AuthMiddleware.RequireRole(types.RoleAdmin))
	adminCoaching.PATCH("/daily-limit/:userId", cfg.CoachingHandler.UpdateDailyLimit)
	adminCoaching.GET("/:userId/stats", cfg.CoachingHandler.GetUserStats)

	admin := api.Group("/admin")
	admin.Use(cfg.AuthMiddleware.RequireRole(types.RoleAdmin))
	admin.GET("/settings", cfg.AdminHandler.ListSettings)
	admin.PUT("/settings", cfg.AdminHandler.UpdateSetting)
	admin.GET("/ai-usage", cfg.AdminHandler.GetAIUsage)

	return router
}
