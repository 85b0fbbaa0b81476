package middleware

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/carwash/carwash-backend/internal/services"
	"github.com/carwash/carwash-backend/internal/utils"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// RateLimit applies a fixed-window limiter keyed by client IP,
// or ip:userId once AuthMiddleware has run
func RateLimit(limiter *services.RateLimitService, logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := rateLimitKey(c)

		status, err := limiter.Allow(key)
		if err != nil {
			var rateLimitErr *services.RateLimitError
			if !errors.As(err, &rateLimitErr) {
				abortWithError(c, http.StatusInternalServerError, "Internal server error", "INTERNAL")
				return
			}

			retryAfter := rateLimitErr.RetryAfterSeconds(time.Now())
			logger.WithFields(logrus.Fields{
				"limiter":     rateLimitErr.Type,
				"key":         key,
				"path":        c.Request.URL.Path,
				"retry_after": retryAfter,
			}).Warn("Rate limit exceeded")

			c.Header("Retry-After", strconv.Itoa(retryAfter))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"success":    false,
				"error":      rateLimitErr.Message,
				"retryAfter": retryAfter,
				"timestamp":  time.Now().UTC(),
			})
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(status.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(status.Remaining))
		c.Header("X-RateLimit-Reset", status.Reset.UTC().Format(time.RFC3339Nano))
		c.Next()
	}
}

func rateLimitKey(c *gin.Context) string {
	ip := utils.GetRealIP(c)
	if userCtx, ok := GetUserContext(c); ok {
		return ip + ":" + userCtx.UserID.String()
	}
	return ip
}
