package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/scribe/logger"
)

var quietPaths = map[string]bool{"/health": true, "/ready": true}

// RequestLogger logs each request at a level chosen by status code.
// Health and readiness endpoints are skipped.
func RequestLogger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if quietPaths[c.Request.URL.Path] {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()
		elapsed := time.Since(start)
		status := c.Writer.Status()

		fields := logger.Fields(
			"method", c.Request.Method,
			"path", c.FullPath(),
			logger.FieldStatus, status,
			logger.FieldDuration, elapsed.Milliseconds(),
			"client", c.ClientIP(),
		)
		if len(c.Errors) > 0 {
			fields[logger.FieldError] = c.Errors.String()
		}

		l := log.WithContext(c.Request.Context())
		switch {
		case status >= 500:
			l.Error("Request completed", fields)
		case status >= 400:
			l.Warn("Request completed", fields)
		default:
			l.Debug("Request completed", fields)
		}
	}
}
