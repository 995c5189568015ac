package middleware

import (
	"context"
	"net/http"
	"time"

	"task-management-backend/internal/config"
	"task-management-backend/pkg/apperror"
	"task-management-backend/pkg/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RateLimiter counts requests per key within a window
type RateLimiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}

// RateLimit limits requests per client IP under the given scope. Limiter failures let the
// request through.
func RateLimit(limiter RateLimiter, cfg config.RateLimitConfig, scope, message string, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !cfg.Enabled || limiter == nil {
			c.Next()
			return
		}

		key := scope + ":" + c.ClientIP()
		allowed, err := limiter.Allow(c.Request.Context(), key, cfg.Max, cfg.Window)
		if err != nil {
			logger.Error("Rate limiter failed", zap.String("key", key), zap.Error(err))
			c.Next()
			return
		}

		if !allowed {
			utils.ErrorResponse(c, http.StatusTooManyRequests, apperror.CodeTooManyRequests, message)
			c.Abort()
			return
		}

		c.Next()
	}
}
