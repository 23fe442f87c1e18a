package middleware

import (
	"time"

	"pkcegen/pkg/logger"

	"github.com/gin-gonic/gin"
)

// LoggingMiddleware writes one access log entry per request. The query
// string is omitted because callbacks carry authorization codes.
func LoggingMiddleware(l logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()

		fields := []logger.Field{
			{Key: "path", Value: path},
			{Key: "method", Value: c.Request.Method},
			{Key: "status", Value: status},
			{Key: "latency", Value: latency.String()},
		}

		if status >= 500 {
			l.Error(c.Request.Context(), "request completed", fields...)
			return
		}
		l.Info(c.Request.Context(), "request completed", fields...)
	}
}
