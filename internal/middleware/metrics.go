package middleware

import (
	"strconv"
	"time"

	"github.com/AlejndroSG/ImpulsaTelecom-sub002/internal/infra"

	"github.com/gin-gonic/gin"
)

// Metrics records request count and latency per route template, so
// /v1/tareas/:id stays a single series.
func Metrics(m *infra.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		m.HTTPRequests.WithLabelValues(c.Request.Method, path, strconv.Itoa(c.Writer.Status())).Inc()
		m.HTTPDuration.WithLabelValues(c.Request.Method, path).Observe(time.Since(start).Seconds())
	}
}
