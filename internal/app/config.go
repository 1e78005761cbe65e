package app

import (
	"time"

	"github.com/yungbote/insightpath-backend/internal/logger"
	"github.com/yungbote/insightpath-backend/internal/utils"
)

type Config struct {
	ServiceName     string
	Environment     string
	Version         string
	JWTSecretKey    string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
	AvatarDir       string

	AIRateLimit     int
	AIRateInterval  time.Duration
}

func LoadConfig(log *logger.Logger) Config {
	jwtSecretKey := utils.GetEnv("JWT_SECRET_KEY", "defaultsecret", log)
	accessTokenTTLSeconds := utils.GetEnvAsInt("ACCESS_TOKEN_TTL", 3600, log)
	refreshTokenTTLSeconds := utils.GetEnvAsInt("REFRESH_TOKEN_TTL", 86400, log)
	aiRateLimit := utils.GetEnvAsInt("AI_RATE_LIMIT", 5, log)
	aiRateIntervalSeconds := utils.GetEnvAsInt("AI_RATE_INTERVAL", 60, log)
	return Config{
		ServiceName:     utils.GetEnv("SERVICE_NAME", "insightpath", log),
		Environment:     utils.GetEnv("ENVIRONMENT", "development", log),
		Version:         utils.GetEnv("SERVICE_VERSION", "dev", log),
		JWTSecretKey:    jwtSecretKey,
		AccessTokenTTL:  time.Duration(accessTokenTTLSeconds) * time.Second,
		RefreshTokenTTL: time.Duration(refreshTokenTTLSeconds) * time.Second,
		AvatarDir:       utils.GetEnv("AVATAR_DIR", "data/avatars", log),
		AIRateLimit:     aiRateLimit,
		AIRateInterval:  time.Duration(aiRateIntervalSeconds) * time.Second,
	}
}
