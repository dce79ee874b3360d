package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"trends-fun/backend/pkg/metrics"
)

// Metrics HTTP 请求指标中间件
// path 标签使用路由模板（如 /api/v1/tokens/:id），未匹配路由归为 "unmatched"
func Metrics(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		m.ObserveHTTP(c.Request.Method, path, strconv.Itoa(c.Writer.Status()), time.Since(start).Seconds())
	}
}
