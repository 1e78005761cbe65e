package app

import (
	"fmt"
	"os"

	"gorm.io/gorm"

	redisclient "github.com/yungbote/insightpath-backend/internal/clients/redis"
	"github.com/yungbote/insightpath-backend/internal/logger"
	"github.com/yungbote/insightpath-backend/internal/services"
	"github.com/yungbote/insightpath-backend/internal/sse"
)

type Services struct {
	Auth         services.AuthService
	User         services.UserService
	Avatar       services.AvatarService
	Stats        services.StatsService
	Challenge    services.ChallengeService
	Project      services.ProjectService
	Milestone    services.MilestoneService
	Analytics    services.AnalyticsService
	Classroom    services.ClassroomService
	Feedback     services.FeedbackService
	Notification services.NotificationService
	Dashboard    services.DashboardService
	CodeReview   services.CodeReviewService
	Emitter      services.SSEEmitter
	SSEBus       redisclient.SSEBus
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, r Repos, hub *sse.SSEHub) (Services, error) {
	log.Info("Wiring services...")

	// Redis bus is optional: without REDIS_ADDR the emitter broadcasts on
	// the local hub only.
	var bus redisclient.SSEBus
	if os.Getenv("REDIS_ADDR") != "" {
		var err error
		bus, err = redisclient.NewSSEBus(log)
		if err != nil {
			log.Warn("Redis SSE bus unavailable, using local hub only", "error", err)
			bus = nil
		}
	}
	emitter := services.NewSSEEmitter(log, hub, bus)

	avatar, err := services.NewAvatarService(db, log, r.User)
	if err != nil {
		return Services{}, fmt.Errorf("init avatar service: %w", err)
	}

	stats := services.NewStatsService(db, log, r.StudentStats)
	notification := services.NewNotificationService(db, log, r.Notification, emitter)
	analytics := services.NewAnalyticsService(db, log, r.ProjectAnalytics, r.Milestone)
	project := services.NewProjectService(db, log, r.Project, analytics, notification, emitter)
	milestone := services.NewMilestoneService(db, log, r.Milestone, r.Project, analytics, notification, emitter)
	challenge := services.NewChallengeService(db, log, r.Challenge, r.Submission, stats, notification)
	classroom := services.NewClassroomService(db, log, r.Classroom)
	feedback := services.NewFeedbackService(db, log, r.Feedback, r.Project, notification, emitter)
	dashboard := services.NewDashboardService(log, stats, challenge, project, classroom, notification)
	auth := services.NewAuthService(db, log, r.User, r.UserToken, avatar, stats,
		cfg.JWTSecretKey, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	user := services.NewUserService(db, log, r.User, avatar)

	aiClient, err := services.NewAIClient(log)
	if err != nil {
		// The AI routes fail at request time instead of blocking boot when
		// no API key is configured.
		log.Warn("AI client unavailable", "error", err)
	}
	codeReview := services.NewCodeReviewService(log, aiClient)

	return Services{
		Auth:         auth,
		User:         user,
		Avatar:       avatar,
		Stats:        stats,
		Challenge:    challenge,
		Project:      project,
		Milestone:    milestone,
		Analytics:    analytics,
		Classroom:    classroom,
		Feedback:     feedback,
		Notification: notification,
		Dashboard:    dashboard,
		CodeReview:   codeReview,
		Emitter:      emitter,
		SSEBus:       bus,
	}, nil
}
