package middleware

import (
	"log/slog"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/emilythestrangee/blogicum/backend/internal/logging"
	"github.com/emilythestrangee/blogicum/backend/internal/metrics"
)

const unmatchedRoute = "unmatched"

// Logger emits one wide "request completed" event per request and records the
// request metrics under the matched route pattern.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Header("X-Request-ID", requestID)

		ctx, event := logging.NewEventContext(c.Request.Context())
		c.Request = c.Request.WithContext(ctx)

		event.Add(
			slog.String("request_id", requestID),
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
			slog.String("remote_addr", c.ClientIP()),
			slog.String("user_agent", c.Request.UserAgent()),
		)

		c.Next()

		duration := time.Since(start)
		status := c.Writer.Status()
		route := c.FullPath()
		if route == "" {
			route = unmatchedRoute
		}

		event.Add(
			slog.String("route", route),
			slog.Int("status", status),
			slog.Int("size", c.Writer.Size()),
			durationMs(duration),
		)
		if len(c.Errors) > 0 {
			event.Add(slog.String("errors", c.Errors.String()))
		}

		metrics.HttpRequestsTotal.WithLabelValues(route, c.Request.Method, strconv.Itoa(status)).Inc()
		metrics.HttpRequestDuration.WithLabelValues(route, c.Request.Method).Observe(duration.Seconds())

		level := slog.LevelInfo
		if status >= 500 {
			level = slog.LevelError
		}

		event.Emit(ctx, level, "request completed")
	}
}

func durationMs(d time.Duration) slog.Attr {
	return slog.Float64("duration_ms", float64(d.Nanoseconds())/1e6)
}
