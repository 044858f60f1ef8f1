package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/stephen4599/Civic-resolve/internal/cache"
	"github.com/stephen4599/Civic-resolve/internal/utils"
)

// IssueRateLimiter caps issue creations per user per day using a redis
// counter with a 24h TTL set on first increment. The limiter fails open:
// when redis is unavailable the request proceeds.
func IssueRateLimiter(cm *cache.CacheManager, limit int, logger utils.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limit <= 0 {
			c.Next()
			return
		}

		username, exists := c.Get("username")
		if !exists {
			c.Next()
			return
		}

		key := fmt.Sprintf("%s:%s", username, time.Now().Format("2006-01-02"))
		count, err := cm.RateLimit.Increment(c.Request.Context(), key, cache.RateLimitCacheConfig.TTL)
		if err != nil {
			if err != cache.ErrCacheNotAvailable {
				logger.Warn("Rate limiter unavailable", "error", err)
			}
			c.Next()
			return
		}

		if count > int64(limit) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, ErrorResponse{
				Message: fmt.Sprintf("Daily issue limit of %d reached, try again tomorrow", limit),
			})
			return
		}

		c.Next()
	}
}
