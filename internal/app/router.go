package app

import (
	"github.com/gin-gonic/gin"

	"github.com/testoloji/akademi-backend/internal/logger"
	"github.com/testoloji/akademi-backend/internal/middleware"
	"github.com/testoloji/akademi-backend/internal/server"
)

func wireRouter(log *logger.Logger, cfg Config, handlerset Handlers) *gin.Engine {
	authMiddleware := middleware.NewAuthMiddleware(log, cfg.JWTSecretKey)
	return server.NewRouter(server.RouterConfig{
		AuthMiddleware:  authMiddleware,
		CoachingHandler: handlerset.Coaching,
		AdminHandler:    handlerset.Admin,
		SSEHandler:      handlerset.SSE,
		AllowOrigins:    cfg.AllowOrigins,
	})
}
