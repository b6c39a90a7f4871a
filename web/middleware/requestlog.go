package middleware

import (
	"strconv"
	"time"

	"github.com/ortosupport/course-assistant/logger"
	"github.com/ortosupport/course-assistant/util/metrics"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequestIDHeader is echoed back on every response.
const RequestIDHeader = "X-Request-ID"

const requestIDKey = "REQUEST_ID"

// RequestLogger tags the request with an id, logs it once it completes and
// records the HTTP metrics. An incoming X-Request-ID is kept.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(RequestIDHeader, id)

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := c.Writer.Status()
		elapsed := time.Since(start)
		metrics.HTTPRequestsTotal.WithLabelValues(c.Request.Method, route, strconv.Itoa(status)).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(c.Request.Method, route).Observe(elapsed.Seconds())

		if status >= 500 {
			logger.Warningf("[%s] %s %s %d %s", id, c.Request.Method, c.Request.URL.Path, status, elapsed)
		} else {
			logger.Debugf("[%s] %s %s %d %s", id, c.Request.Method, c.Request.URL.Path, status, elapsed)
		}
	}
}

// RequestID returns the id assigned by RequestLogger.
func RequestID(c *gin.Context) string {
	return c.GetString(requestIDKey)
}
