package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"trends-fun/backend/pkg/response"
)

// BodyLimit 请求体大小限制
// 声明了 Content-Length 且超限的请求直接 413；未声明长度的请求体在读取时截断，
// 超限后 ShouldBindJSON 返回错误并由 Handler 按参数错误处理
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > maxBytes {
			response.Abort(c, http.StatusRequestEntityTooLarge, 10005, "请求体过大")
			return
		}
		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		}
		c.Next()
	}
}
