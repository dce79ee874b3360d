package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"trends-fun/backend/internal/api/middleware"
	"trends-fun/backend/pkg/jwt"
	"trends-fun/backend/pkg/response"
)

// MustGetUserID 从 Gin 上下文中安全提取 user_id。
// 如果 JWT 中间件未正确注入 user_id，返回 false 并写入 401 响应。
// 调用方应在 ok=false 时直接 return。
func MustGetUserID(c *gin.Context) (string, bool) {
	return mustGetString(c, middleware.CtxUserID)
}

// MustGetRole 从 Gin 上下文中安全提取 role。
func MustGetRole(c *gin.Context) (string, bool) {
	return mustGetString(c, middleware.CtxRole)
}

// MustGetClaims 提取当前 Access Token 的声明（登出时使用）
func MustGetClaims(c *gin.Context) (*jwt.Claims, bool) {
	v, exists := c.Get(middleware.CtxClaims)
	if !exists {
		response.Unauthorized(c, codeUnauthorized, "未认证")
		return nil, false
	}
	claims, ok := v.(*jwt.Claims)
	if !ok || claims == nil {
		response.Unauthorized(c, codeUnauthorized, "未认证")
		return nil, false
	}
	return claims, true
}

// MustParseID 校验路径参数为 UUID，格式非法视同资源不存在，写入 notFound 对应的响应。
// 返回规范化后的小写 UUID。
func MustParseID(c *gin.Context, key string, notFound error) (string, bool) {
	id, err := uuid.Parse(c.Param(key))
	if err != nil {
		writeError(c, notFound)
		return "", false
	}
	return id.String(), true
}

func mustGetString(c *gin.Context, key string) (string, bool) {
	s := c.GetString(key)
	if s == "" {
		response.Unauthorized(c, codeUnauthorized, "未认证")
		return "", false
	}
	return s, true
}
