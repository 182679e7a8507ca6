package middleware

import (
	"strconv"
	"time"

	"github.com/RubeldiRubelda/merryweihnachten/internal/metrics"

	"github.com/gin-gonic/gin"
)

// Metrics records a counter and latency histogram per route. The route label
// is the registered pattern, not the raw path, to keep cardinality bounded.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		metrics.RecordRequest(
			c.Request.Method,
			route,
			strconv.Itoa(c.Writer.Status()),
			time.Since(start).Seconds(),
		)
	}
}
