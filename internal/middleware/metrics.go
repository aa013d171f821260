package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/gradeufla/planner-api/internal/service"
)

// Metrics returns middleware that captures request metrics using the
// provided service. Probe and scrape endpoints are left out so they do
// not drown out the planner traffic.
func Metrics(metricsSvc *service.MetricsService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if metricsSvc == nil {
			c.Next()
			return
		}
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		if path == "/metrics" || path == "/health" || path == "/ready" {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()
		metricsSvc.ObserveHTTPRequest(c.Request.Method, path, c.Writer.Status(), time.Since(start))
	}
}
