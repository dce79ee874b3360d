package handler

import (
	"github.com/gin-gonic/gin"

	"trends-fun/backend/internal/dto"
	"trends-fun/backend/internal/service"
	"trends-fun/backend/pkg/response"
)

// FollowHandler 关注模块 HTTP 处理器
type FollowHandler struct {
	followSvc service.FollowService
}

// NewFollowHandler 创建 FollowHandler
func NewFollowHandler(followSvc service.FollowService) *FollowHandler {
	return &FollowHandler{followSvc: followSvc}
}

// Follow 关注用户
// POST /api/v1/users/:id/follow
func (h *FollowHandler) Follow(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	targetID, ok := MustParseID(c, "id", service.ErrUserNotFound)
	if !ok {
		return
	}

	if err := h.followSvc.Follow(c.Request.Context(), userID, targetID); err != nil {
		writeError(c, err)
		return
	}

	response.OK(c, nil)
}

// Unfollow 取消关注
// DELETE /api/v1/users/:id/follow
func (h *FollowHandler) Unfollow(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	targetID, ok := MustParseID(c, "id", service.ErrUserNotFound)
	if !ok {
		return
	}

	if err := h.followSvc.Unfollow(c.Request.Context(), userID, targetID); err != nil {
		writeError(c, err)
		return
	}

	response.OK(c, nil)
}

// ListFollowers 粉丝列表
// GET /api/v1/users/:id/followers
func (h *FollowHandler) ListFollowers(c *gin.Context) {
	userID, ok := MustParseID(c, "id", service.ErrUserNotFound)
	if !ok {
		return
	}

	var page dto.PaginationRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		bindFailed(c)
		return
	}

	users, total, err := h.followSvc.ListFollowers(c.Request.Context(), userID, &page)
	if err != nil {
		writeError(c, err)
		return
	}

	response.OKPage(c, users, total, page.GetPage(), page.GetLimit())
}

// ListFollowing 关注列表
// GET /api/v1/users/:id/following
func (h *FollowHandler) ListFollowing(c *gin.Context) {
	userID, ok := MustParseID(c, "id", service.ErrUserNotFound)
	if !ok {
		return
	}

	var page dto.PaginationRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		bindFailed(c)
		return
	}

	users, total, err := h.followSvc.ListFollowing(c.Request.Context(), userID, &page)
	if err != nil {
		writeError(c, err)
		return
	}

	response.OKPage(c, users, total, page.GetPage(), page.GetLimit())
}
