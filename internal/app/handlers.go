package app

import (
	"github.com/yungbote/insightpath-backend/internal/handlers"
	"github.com/yungbote/insightpath-backend/internal/logger"
	"github.com/yungbote/insightpath-backend/internal/sse"
)

type Handlers struct {
	Auth         *handlers.AuthHandler
	User         *handlers.UserHandler
	Dashboard    *handlers.DashboardHandler
	Challenge    *handlers.ChallengeHandler
	Project      *handlers.ProjectHandler
	Notification *handlers.NotificationHandler
	Classroom    *handlers.ClassroomHandler
	AI           *handlers.AIHandler
	SSE          *handlers.SSEHandler
}

func wireHandlers(log *logger.Logger, services Services, sseHub *sse.SSEHub) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Auth:         handlers.NewAuthHandler(services.Auth),
		User:         handlers.NewUserHandler(services.User),
		Dashboard:    handlers.NewDashboardHandler(services.Dashboard),
		Challenge:    handlers.NewChallengeHandler(services.Challenge),
		Project:      handlers.NewProjectHandler(services.Project, services.Milestone, services.Analytics, services.Feedback),
		Notification: handlers.NewNotificationHandler(services.Notification),
		Classroom:    handlers.NewClassroomHandler(services.Classroom),
		AI:           handlers.NewAIHandler(services.CodeReview),
		SSE:          handlers.NewSSEHandler(sseHub),
	}
}
