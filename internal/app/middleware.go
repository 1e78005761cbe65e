package app

import (
	"github.com/yungbote/insightpath-backend/internal/logger"
	"github.com/yungbote/insightpath-backend/internal/middleware"
)

type Middleware struct {
	Auth          *middleware.AuthMiddleware
	AIRateLimiter *middleware.RateLimiter
}

func wireMiddleware(log *logger.Logger, cfg Config, services Services) Middleware {
	log.Info("Wiring middleware...")
	return Middleware{
		Auth:          middleware.NewAuthMiddleware(log, services.Auth),
		AIRateLimiter: middleware.NewRateLimiter(log, cfg.AIRateLimit, cfg.AIRateInterval),
	}
}
