package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	pkgerrors "trends-fun/backend/pkg/errors"
	"trends-fun/backend/pkg/jwt"
	"trends-fun/backend/pkg/redis"
	"trends-fun/backend/pkg/response"
)

// 上下文键
const (
	CtxUserID = "user_id"
	CtxRole   = "role"
	CtxClaims = "claims"
)

// RoleSource 查询用户当前持久化的角色
// Token 中的角色可能在审核通过或管理员变更后过期，鉴权以此为准
type RoleSource interface {
	CurrentRole(ctx context.Context, userID string) (string, error)
}

// JWTAuth JWT 认证中间件
// 从 Authorization: Bearer <token> 中提取并验证 Access Token
// rdb 为 nil 时跳过黑名单检查；roles 为 nil 时使用 Token 中的角色
func JWTAuth(jwtMgr *jwt.Manager, rdb *redis.Client, roles RoleSource) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Abort(c, http.StatusUnauthorized, 10002, "缺少认证头")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.Abort(c, http.StatusUnauthorized, 10002, "认证头格式无效")
			return
		}

		claims, err := jwtMgr.ParseToken(parts[1])
		if err != nil {
			response.Abort(c, http.StatusUnauthorized, 10002, "Token 无效或已过期")
			return
		}

		if claims.TokenType != jwt.TokenTypeAccess {
			response.Abort(c, http.StatusUnauthorized, 10002, "Token 类型无效")
			return
		}

		// Redis 出错时降级放行
		if revoked, err := rdb.IsBlacklisted(c.Request.Context(), claims.ID); err == nil && revoked {
			response.Abort(c, http.StatusUnauthorized, 10002, "Token 已注销")
			return
		}

		role := claims.Role
		if roles != nil {
			current, err := roles.CurrentRole(c.Request.Context(), claims.UserID)
			if err != nil {
				if pkgerrors.IsKind(err, pkgerrors.KindNotFound) {
					response.Abort(c, http.StatusUnauthorized, 10002, "用户不存在")
				} else {
					_ = c.Error(err)
					response.Abort(c, http.StatusInternalServerError, 50000, "服务器内部错误")
				}
				return
			}
			role = current
		}

		// 将用户信息注入上下文
		c.Set(CtxUserID, claims.UserID)
		c.Set(CtxRole, role)
		c.Set(CtxClaims, claims)

		c.Next()
	}
}

// RoleAuth 角色权限中间件
// 检查当前用户是否具有指定角色之一
func RoleAuth(allowedRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userRole := c.GetString(CtxRole)
		if userRole == "" {
			response.Abort(c, http.StatusUnauthorized, 10002, "未认证")
			return
		}

		for _, r := range allowedRoles {
			if userRole == r {
				c.Next()
				return
			}
		}

		response.Abort(c, http.StatusForbidden, 10003, "无权限访问")
	}
}

