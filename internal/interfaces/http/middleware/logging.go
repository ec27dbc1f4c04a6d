// Package middleware provides gin middleware shared by the control plane's
// HTTP surface: request logging and panic recovery.
package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/seekr-io/seekr/internal/platform/logging"
)

// LoggingConfig tunes the request logging middleware.
type LoggingConfig struct {
	// SkipPaths are not logged at all (health probes, metrics scrape).
	SkipPaths []string

	// SlowThreshold: requests at or above this duration log at Warn.
	SlowThreshold time.Duration
}

// DefaultLoggingConfig skips the health and metrics routes and flags
// anything over a second as slow.
func DefaultLoggingConfig() LoggingConfig {
	return LoggingConfig{
		SkipPaths:     []string{"/healthz", "/readyz", "/metrics"},
		SlowThreshold: time.Second,
	}
}

// RequestLogging returns a gin middleware that logs one line per request
// with method, path, status, and latency. 5xx responses log at Error,
// slow or 4xx responses log at Warn, everything else at Info.
func RequestLogging(logger logging.Logger, cfg LoggingConfig) gin.HandlerFunc {
	skip := make(map[string]struct{}, len(cfg.SkipPaths))
	for _, p := range cfg.SkipPaths {
		skip[p] = struct{}{}
	}

	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if _, ok := skip[path]; ok {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()
		elapsed := time.Since(start)

		status := c.Writer.Status()
		fields := []logging.Field{
			logging.String("method", c.Request.Method),
			logging.String("path", path),
			logging.Int("status", status),
			logging.Duration("elapsed", elapsed),
			logging.String("request_id", RequestIDFromContext(c.Request.Context())),
		}

		switch {
		case status >= 500:
			logger.Error("request handled", fields...)
		case status >= 400 || elapsed >= cfg.SlowThreshold:
			logger.Warn("request handled", fields...)
		default:
			logger.Info("request handled", fields...)
		}
	}
}

// Recovery returns a gin middleware that logs a recovered panic and
// responds 500 instead of letting gin's own recovery write a bare body.
func Recovery(logger logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				logger.Error("panic recovered",
					logging.String("path", c.Request.URL.Path),
					logging.Any("panic", rec))
				c.AbortWithStatusJSON(500, gin.H{"error": "internal server error"})
			}
		}()
		c.Next()
	}
}
