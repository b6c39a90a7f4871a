package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/ortosupport/course-assistant/logger"
	"github.com/ortosupport/course-assistant/util/metrics"
	"github.com/ortosupport/course-assistant/web/entity"
	"github.com/ortosupport/course-assistant/web/locale"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// RateLimitConfig configures rate limiting
type RateLimitConfig struct {
	RequestsPerMinute int
	KeyFunc           func(c *gin.Context) string
	Window            time.Duration
}

// DefaultRateLimitConfig limits each client IP to requestsPerMinute per route.
func DefaultRateLimitConfig(requestsPerMinute int) RateLimitConfig {
	return RateLimitConfig{
		RequestsPerMinute: requestsPerMinute,
		KeyFunc: func(c *gin.Context) string {
			return c.ClientIP()
		},
		Window: time.Minute,
	}
}

// RateLimitMiddleware counts requests per client and route in fixed windows
// kept in redis. A non-positive limit disables it. Redis failures let the
// request through.
func RateLimitMiddleware(client *redis.Client, config RateLimitConfig) gin.HandlerFunc {
	if config.RequestsPerMinute <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	if config.Window <= 0 {
		config.Window = time.Minute
	}
	return func(c *gin.Context) {
		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}
		key := config.KeyFunc(c)
		rateLimitKey := "ratelimit:" + key + ":" + route
		ctx := c.Request.Context()

		count, err := client.Incr(ctx, rateLimitKey).Result()
		if err != nil {
			logger.Warning("Rate limit increment failed:", err)
			c.Next()
			return
		}
		if count == 1 {
			if err := client.Expire(ctx, rateLimitKey, config.Window).Err(); err != nil {
				logger.Warning("Rate limit expire failed:", err)
			}
		}

		ttl, err := client.TTL(ctx, rateLimitKey).Result()
		if err != nil || ttl < 0 {
			ttl = config.Window
		}
		remaining := config.RequestsPerMinute - int(count)
		if remaining < 0 {
			remaining = 0
		}
		c.Header("X-RateLimit-Limit", strconv.Itoa(config.RequestsPerMinute))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(time.Now().Add(ttl).Unix(), 10))

		if int(count) > config.RequestsPerMinute {
			logger.Warningf("Rate limit exceeded for %s on %s (count: %d)", key, route, count)
			metrics.RateLimitHits.WithLabelValues(route).Inc()
			c.Header("Retry-After", strconv.Itoa(int(ttl.Seconds())+1))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, entity.ErrorResponse{
				Message: locale.T(c, "rate limit exceeded, try again later"),
			})
			return
		}
		c.Next()
	}
}
