package handler

import (
	"github.com/gin-gonic/gin"

	"trends-fun/backend/internal/dto"
	"trends-fun/backend/internal/service"
	"trends-fun/backend/pkg/response"
)

// PostHandler 动态模块 HTTP 处理器
type PostHandler struct {
	postSvc service.PostService
}

// NewPostHandler 创建 PostHandler
func NewPostHandler(postSvc service.PostService) *PostHandler {
	return &PostHandler{postSvc: postSvc}
}

// Create 发布动态
// POST /api/v1/posts
func (h *PostHandler) Create(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c)
		return
	}

	post, err := h.postSvc.Create(c.Request.Context(), userID, &req)
	if err != nil {
		writeError(c, err)
		return
	}

	response.Created(c, post)
}

// Get 动态详情
// GET /api/v1/posts/:id
func (h *PostHandler) Get(c *gin.Context) {
	id, ok := MustParseID(c, "id", service.ErrPostNotFound)
	if !ok {
		return
	}

	post, err := h.postSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}

	response.OK(c, post)
}

// List 全站动态
// GET /api/v1/posts
func (h *PostHandler) List(c *gin.Context) {
	var page dto.PaginationRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		bindFailed(c)
		return
	}

	posts, total, err := h.postSvc.List(c.Request.Context(), &page)
	if err != nil {
		writeError(c, err)
		return
	}

	response.OKPage(c, posts, total, page.GetPage(), page.GetLimit())
}

// Feed 关注的作者的动态
// GET /api/v1/posts/feed
func (h *PostHandler) Feed(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var page dto.PaginationRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		bindFailed(c)
		return
	}

	posts, total, err := h.postSvc.Feed(c.Request.Context(), userID, &page)
	if err != nil {
		writeError(c, err)
		return
	}

	response.OKPage(c, posts, total, page.GetPage(), page.GetLimit())
}

// ListByAuthor 某用户的动态
// GET /api/v1/users/:id/posts
func (h *PostHandler) ListByAuthor(c *gin.Context) {
	authorID, ok := MustParseID(c, "id", service.ErrUserNotFound)
	if !ok {
		return
	}

	var page dto.PaginationRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		bindFailed(c)
		return
	}

	posts, total, err := h.postSvc.ListByAuthor(c.Request.Context(), authorID, &page)
	if err != nil {
		writeError(c, err)
		return
	}

	response.OKPage(c, posts, total, page.GetPage(), page.GetLimit())
}

// Delete 删除动态（作者或管理员）
// DELETE /api/v1/posts/:id
func (h *PostHandler) Delete(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	role, ok := MustGetRole(c)
	if !ok {
		return
	}
	id, ok := MustParseID(c, "id", service.ErrPostNotFound)
	if !ok {
		return
	}

	if err := h.postSvc.Delete(c.Request.Context(), id, userID, role); err != nil {
		writeError(c, err)
		return
	}

	response.OK(c, nil)
}
