package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"course-scheduler/backend/internal/metrics"
)

// Metrics 请求计数与耗时，按路由模板聚合避免路径参数撑爆标签
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		metrics.HTTPRequests.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		metrics.HTTPDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}
