package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/insightpath-backend/internal/logger"
	"github.com/yungbote/insightpath-backend/internal/requestdata"
)

// RateLimiter is a per-process sliding window over recent request
// timestamps, keyed by caller. State is in memory only: each instance
// enforces its own window and a restart clears it.
type RateLimiter struct {
	log      *logger.Logger
	limit    int
	interval time.Duration
	now      func() time.Time

	mu      sync.Mutex
	windows map[string][]time.Time
}

func NewRateLimiter(log *logger.Logger, limit int, interval time.Duration) *RateLimiter {
	return &RateLimiter{
		log:      log.With("middleware", "RateLimiter"),
		limit:    limit,
		interval: interval,
		now:      time.Now,
		windows:  map[string][]time.Time{},
	}
}

// Allow reports whether another request fits the caller's window and
// records it when it does.
func (rl *RateLimiter) Allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	cutoff := now.Add(-rl.interval)

	recent := rl.windows[key][:0]
	for _, t := range rl.windows[key] {
		if t.After(cutoff) {
			recent = append(recent, t)
		}
	}
	if len(recent) >= rl.limit {
		rl.windows[key] = recent
		return false
	}
	rl.windows[key] = append(recent, now)
	return true
}

func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.ClientIP()
		if rd := requestdata.GetRequestData(c.Request.Context()); rd != nil {
			key = rd.UserID.String()
		}
		if !rl.Allow(key) {
			rl.log.Warn("Rate limit exceeded", "key", key, "path", c.FullPath())
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			return
		}
		c.Next()
	}
}
