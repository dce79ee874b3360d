package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"trends-fun/backend/pkg/redis"
	"trends-fun/backend/pkg/response"
)

// RateLimit 写接口限流，窗口计数存于 Redis
// 计数主体为已认证用户，未认证请求按客户端 IP；路由模板区分不同接口
// rdb 为 nil、limit ≤ 0 或 Redis 出错时放行
func RateLimit(rdb *redis.Client, limit int, window time.Duration) gin.HandlerFunc {
	retryAfter := strconv.Itoa(int(window.Seconds()))

	return func(c *gin.Context) {
		if rdb == nil || limit <= 0 {
			c.Next()
			return
		}

		subject := c.GetString(CtxUserID)
		if subject == "" {
			subject = "ip:" + c.ClientIP()
		}

		allowed, err := rdb.CheckRateLimit(c.Request.Context(), "rate_limit:"+subject+":"+c.FullPath(), limit, window)
		if err == nil && !allowed {
			c.Header("Retry-After", retryAfter)
			response.Abort(c, http.StatusTooManyRequests, 10004, "请求过于频繁，请稍后再试")
			return
		}

		c.Next()
	}
}
