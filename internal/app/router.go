package app

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/insightpath-backend/internal/server"
)

func wireRouter(cfg Config, handlers Handlers, middleware Middleware) *gin.Engine {
	return server.NewRouter(server.RouterConfig{
		ServiceName:         cfg.ServiceName,
		AvatarDir:           cfg.AvatarDir,
		AuthMiddleware:      middleware.Auth,
		AIRateLimiter:       middleware.AIRateLimiter,
		AuthHandler:         handlers.Auth,
		UserHandler:         handlers.User,
		DashboardHandler:    handlers.Dashboard,
		ChallengeHandler:    handlers.Challenge,
		ProjectHandler:      handlers.Project,
		NotificationHandler: handlers.Notification,
		ClassroomHandler:    handlers.Classroom,
		AIHandler:           handlers.AI,
		SSEHandler:          handlers.SSE,
	})
}
