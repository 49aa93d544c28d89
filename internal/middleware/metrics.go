package middleware

import (
	"strconv"
	"time"

	"github.com/SscSPs/bookkeeping_app/internal/platform/metrics"
	"github.com/gin-gonic/gin"
)

// RequestMetrics records route-level request counts and latency.
// Unmatched routes are grouped under one label to bound cardinality.
func RequestMetrics(rec *metrics.Recorder) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		rec.ObserveHTTP(route, c.Request.Method, strconv.Itoa(c.Writer.Status()), time.Since(start))
	}
}
