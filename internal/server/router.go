package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/yungbote/insightpath-backend/internal/handlers"
	"github.com/yungbote/insightpath-backend/internal/middleware"
	"github.com/yungbote/insightpath-backend/internal/types"
)

type RouterConfig struct {
	ServiceName string
	AvatarDir   string

	AuthMiddleware *middleware.AuthMiddleware
	AIRateLimiter  *middleware.RateLimiter

	AuthHandler         *handlers.AuthHandler
	UserHandler         *handlers.UserHandler
	DashboardHandler    *handlers.DashboardHandler
	ChallengeHandler    *handlers.ChallengeHandler
	ProjectHandler      *handlers.ProjectHandler
	NotificationHandler *handlers.NotificationHandler
	ClassroomHandler    *handlers.ClassroomHandler
	AIHandler           *handlers.AIHandler
	SSEHandler          *handlers.SSEHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()
	router.Use(otelgin.Middleware(cfg.ServiceName))

	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{
			"http://localhost:80",
			"http://localhost:3000",
			"http://localhost:5174",
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With", "X-Refresh-Token"},
		AllowCredentials: true,
	}))

	// ===============
	// || Public    ||
	// ===============
	router.GET("/healthcheck", handlers.HealthCheck)
	router.POST("/register", cfg.AuthHandler.Register)
	router.POST("/login", cfg.AuthHandler.Login)
	router.POST("/refresh", cfg.AuthHandler.Refresh)
	if cfg.AvatarDir != "" {
		router.Static("/static/avatars", cfg.AvatarDir)
	}

	// ===============
	// || Protected ||
	// ===============
	protected := router.Group("/")
	protected.Use(cfg.AuthMiddleware.RequireAuth())

	// Auth
	protected.POST("/logout", cfg.AuthHandler.Logout)

	// User
	protected.GET("/user", cfg.UserHandler.GetMe)
	protected.POST("/user/avatar", cfg.UserHandler.UploadAvatar)

	// SSE
	protected.GET("/sse/stream", cfg.SSEHandler.Stream)

	api := protected.Group("/api")

	// Dashboards
	api.GET("/dashboard/student", cfg.DashboardHandler.Student)
	api.GET("/dashboard/teacher", cfg.AuthMiddleware.RequireRole(types.RoleTeacher), cfg.DashboardHandler.Teacher)

	// Challenges
	api.GET("/challenges", cfg.ChallengeHandler.ListMine)
	api.POST("/challenges", cfg.AuthMiddleware.RequireRole(types.RoleTeacher), cfg.ChallengeHandler.Create)
	api.PATCH("/challenges/:id/progress", cfg.ChallengeHandler.UpdateProgress)
	api.POST("/challenges/:id/submit", cfg.ChallengeHandler.Submit)
	api.GET("/challenges/:id/submissions", cfg.ChallengeHandler.ListSubmissions)
	api.POST("/submissions/:id/review", cfg.AuthMiddleware.RequireRole(types.RoleTeacher), cfg.ChallengeHandler.ReviewSubmission)

	// Projects and milestones
	api.GET("/projects", cfg.ProjectHandler.ListMine)
	api.POST("/projects", cfg.ProjectHandler.Create)
	api.GET("/projects/:id", cfg.ProjectHandler.Get)
	api.PATCH("/projects/:id", cfg.ProjectHandler.Update)
	api.GET("/projects/:id/milestones", cfg.ProjectHandler.ListMilestones)
	api.POST("/projects/:id/milestones", cfg.ProjectHandler.CreateMilestone)
	api.PATCH("/milestones/:milestoneId", cfg.ProjectHandler.UpdateMilestone)
	api.GET("/projects/:id/analytics", cfg.ProjectHandler.GetAnalytics)
	api.PATCH("/projects/:id/analytics", cfg.ProjectHandler.UpdateAnalytics)
	api.GET("/projects/:id/metrics", cfg.ProjectHandler.GetMetrics)

	// Feedback
	api.GET("/projects/:id/feedback", cfg.ProjectHandler.ListFeedback)
	api.POST("/projects/:id/feedback", cfg.ProjectHandler.AddFeedback)

	// Notifications
	api.GET("/notifications", cfg.NotificationHandler.Recent)
	api.GET("/notifications/unread", cfg.NotificationHandler.Unread)
	api.POST("/notifications/:id/read", cfg.NotificationHandler.MarkRead)
	api.POST("/notifications/read-all", cfg.NotificationHandler.MarkAllRead)

	// Classrooms
	teacher := api.Group("/classrooms", cfg.AuthMiddleware.RequireRole(types.RoleTeacher))
	teacher.GET("", cfg.ClassroomHandler.ListMine)
	teacher.POST("", cfg.ClassroomHandler.Create)
	teacher.GET("/:id", cfg.ClassroomHandler.Get)
	teacher.GET("/:id/students", cfg.ClassroomHandler.ListStudents)
	teacher.POST("/:id/students", cfg.ClassroomHandler.AddStudent)
	teacher.POST("/:id/refresh", cfg.ClassroomHandler.RefreshAggregates)

	// AI
	api.POST("/ai/feedback", cfg.AIHandler.Feedback)
	api.POST("/code-review", cfg.AIRateLimiter.Middleware(), cfg.AIHandler.Review)

	return router
}
