package middleware

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// RequestMetrics holds in-memory request metrics. Endpoints are keyed by
// route template so project codes in the path do not explode the map.
type RequestMetrics struct {
	mu                 sync.RWMutex
	TotalRequests      uint64
	TotalErrors        uint64
	RequestsByEndpoint map[string]uint64
}

var metrics = &RequestMetrics{
	RequestsByEndpoint: make(map[string]uint64),
}

// GetMetrics returns the current request metrics
func GetMetrics() RequestMetrics {
	metrics.mu.RLock()
	defer metrics.mu.RUnlock()
	return RequestMetrics{
		TotalRequests:      metrics.TotalRequests,
		TotalErrors:        metrics.TotalErrors,
		RequestsByEndpoint: copyMap(metrics.RequestsByEndpoint),
	}
}

// copyMap creates a copy of the map
func copyMap(src map[string]uint64) map[string]uint64 {
	dst := make(map[string]uint64, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}

// StructuredLoggingMiddleware provides structured logging with request
// latency and query parameters
func StructuredLoggingMiddleware(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		logger.Info("request started",
			"method", method,
			"path", path,
			"query_params", c.Request.URL.Query().Encode(),
			"remote_addr", c.ClientIP(),
			"user_agent", c.Request.UserAgent(),
		)

		c.Next()

		latency := time.Since(start)
		statusCode := c.Writer.Status()

		route := c.FullPath()
		if route == "" {
			route = path
		}

		metrics.mu.Lock()
		metrics.TotalRequests++
		if statusCode >= http.StatusInternalServerError {
			metrics.TotalErrors++
		}
		metrics.RequestsByEndpoint[method+" "+route]++
		metrics.mu.Unlock()

		logger.Info("request completed",
			"method", method,
			"path", path,
			"status_code", statusCode,
			"latency_ms", latency.Milliseconds(),
			"latency", latency.String(),
			"bytes_written", c.Writer.Size(),
		)

		if len(c.Errors) > 0 {
			for _, err := range c.Errors {
				logger.Error("request error",
					"method", method,
					"path", path,
					"error", err.Error(),
					"latency_ms", latency.Milliseconds(),
				)
			}
		}
	}
}
