package middleware

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"signaldrift-backend/internal/shared/telemetry"
)

// Logging emits a structured log per request.
func Logging() gin.HandlerFunc {
	return func(c *gin.Context) {
		if strings.EqualFold(c.Request.Method, "OPTIONS") {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()
		latency := time.Since(start)
		status := c.Writer.Status()
		reqID := RequestIDFromContext(c)

		fields := map[string]any{
			"request_id":  reqID,
			"method":      c.Request.Method,
			"path":        c.Request.URL.Path,
			"status":      status,
			"duration_ms": float64(latency.Microseconds()) / 1000.0,
			"client_ip":   c.ClientIP(),
			"user_agent":  c.Request.UserAgent(),
		}
		if doc, ok := c.Get("documentFilename"); ok {
			fields["document_filename"] = doc
		}
		if runID, ok := c.Get("runId"); ok {
			fields["run_id"] = runID
		}
		if transition, ok := c.Get("runStatus"); ok {
			fields["run_status"] = transition
		}

		telemetry.Info("request.complete", fields)
	}
}
