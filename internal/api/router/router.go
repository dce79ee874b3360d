package router

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"trends-fun/backend/config"
	"trends-fun/backend/internal/api/handler"
	"trends-fun/backend/internal/api/middleware"
	"trends-fun/backend/internal/model"
	"trends-fun/backend/pkg/jwt"
	"trends-fun/backend/pkg/metrics"
	"trends-fun/backend/pkg/redis"
)

// Setup 初始化并返回 Gin 路由引擎
// roles 提供持久化角色查询；db 为 nil 时健康检查不探测数据库
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, rdb *redis.Client,
	roles middleware.RoleSource, m *metrics.Metrics, db *gorm.DB, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Metrics(m))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	if cfg.Server.MaxBodyBytes > 0 {
		r.Use(middleware.BodyLimit(cfg.Server.MaxBodyBytes))
	}

	// ── 健康检查 / 指标 ──
	r.GET("/health", healthCheck(db))
	r.GET("/metrics", gin.WrapH(m.Handler()))

	// 写接口限流
	limit := middleware.RateLimit(rdb, cfg.Server.RateLimit.Limit, cfg.Server.RateLimit.Window)
	adminOnly := middleware.RoleAuth(model.RoleAdmin)

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		// 认证模块（无需认证）
		auth := v1.Group("/auth")
		{
			auth.POST("/register", limit, h.Auth.Register)
			auth.POST("/login", limit, h.Auth.Login)
			auth.POST("/refresh", limit, h.Auth.Refresh)
		}

		// 公开读接口
		v1.GET("/users/:id", h.User.GetProfile) // :id 为用户名
		v1.GET("/users/:id/followers", h.Follow.ListFollowers)
		v1.GET("/users/:id/following", h.Follow.ListFollowing)
		v1.GET("/users/:id/posts", h.Post.ListByAuthor)
		v1.GET("/posts", h.Post.List)
		v1.GET("/posts/:id", h.Post.Get)
		v1.GET("/tokens", h.Token.List)
		v1.GET("/tokens/creator/:creatorId", h.Token.GetByCreator)
		v1.GET("/tokens/:id", h.Token.Get)

		// 需要认证的路由
		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(jwtMgr, rdb, roles))
		{
			authorized.POST("/auth/logout", h.Auth.Logout)
			authorized.GET("/auth/me", h.Auth.Me)

			// 用户模块
			authorized.PUT("/users/me", limit, h.User.UpdateMe)
			authorized.GET("/users", adminOnly, h.User.ListUsers)
			authorized.PUT("/users/:id/role", adminOnly, h.User.AssignRole)
			authorized.POST("/users/:id/follow", limit, h.Follow.Follow)
			authorized.DELETE("/users/:id/follow", limit, h.Follow.Unfollow)

			// 动态模块
			authorized.POST("/posts", limit, h.Post.Create)
			authorized.GET("/posts/feed", h.Post.Feed)
			authorized.DELETE("/posts/:id", limit, h.Post.Delete) // 作者或管理员（Service 层鉴权）

			// 创作者申请
			authorized.POST("/creator-applications", limit, h.Application.Submit)
			authorized.GET("/creator-applications/me", h.Application.ListMine)

			// 代币（所有者校验在 Service 层）
			authorized.POST("/tokens/:id/launch", limit, h.Token.Launch)
			authorized.PUT("/tokens/:id", limit, h.Token.Update)

			// 管理后台
			admin := authorized.Group("/admin", adminOnly)
			{
				apps := admin.Group("/creator-applications")
				{
					apps.GET("", h.Application.List)
					apps.GET("/pending-count", h.Application.PendingCount)
					apps.GET("/export", h.Export.ExportApplications)
					apps.GET("/:id", h.Application.Get)
					apps.POST("/:id/decision", h.Application.Decide)
				}

				admin.PUT("/tokens/:id/featured", h.Token.SetFeatured)
			}
		}
	}

	return r
}

func healthCheck(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if db != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			sqlDB, err := db.DB()
			if err == nil {
				err = sqlDB.PingContext(ctx)
			}
			if err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "database": "down"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
