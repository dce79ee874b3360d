package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"trends-fun/backend/internal/dto"
	"trends-fun/backend/internal/service"
	"trends-fun/backend/pkg/response"
)

// TokenHandler 创作者代币模块 HTTP 处理器
type TokenHandler struct {
	tokenSvc service.TokenService
}

// NewTokenHandler 创建 TokenHandler
func NewTokenHandler(tokenSvc service.TokenService) *TokenHandler {
	return &TokenHandler{tokenSvc: tokenSvc}
}

// List 代币列表
// GET /api/v1/tokens?featured=true&page=1&limit=20
func (h *TokenHandler) List(c *gin.Context) {
	var req dto.TokenListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindFailed(c)
		return
	}

	tokens, total, err := h.tokenSvc.ListAll(c.Request.Context(), &req)
	if err != nil {
		writeError(c, err)
		return
	}

	response.OKPage(c, tokens, total, req.GetPage(), req.GetLimit())
}

// Get 代币详情
// GET /api/v1/tokens/:id
func (h *TokenHandler) Get(c *gin.Context) {
	id, ok := MustParseID(c, "id", service.ErrTokenNotFound)
	if !ok {
		return
	}

	token, err := h.tokenSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}

	response.OK(c, token)
}

// GetByCreator 创作者的代币，没有时 data 为 null
// GET /api/v1/tokens/creator/:creatorId
func (h *TokenHandler) GetByCreator(c *gin.Context) {
	creatorID, err := uuid.Parse(c.Param("creatorId"))
	if err != nil {
		response.OK(c, nil)
		return
	}

	token, err := h.tokenSvc.GetByCreator(c.Request.Context(), creatorID.String())
	if err != nil {
		writeError(c, err)
		return
	}

	response.OK(c, token)
}

// Launch 发行代币（仅所有者）
// POST /api/v1/tokens/:id/launch
func (h *TokenHandler) Launch(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	id, ok := MustParseID(c, "id", service.ErrTokenNotFound)
	if !ok {
		return
	}

	token, err := h.tokenSvc.Launch(c.Request.Context(), id, userID)
	if err != nil {
		writeError(c, err)
		return
	}

	response.OK(c, token)
}

// Update 更新代币元数据（仅所有者，仅 pending）
// PUT /api/v1/tokens/:id
func (h *TokenHandler) Update(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	id, ok := MustParseID(c, "id", service.ErrTokenNotFound)
	if !ok {
		return
	}

	var req dto.UpdateTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c)
		return
	}

	token, err := h.tokenSvc.UpdateMetadata(c.Request.Context(), id, userID, &req)
	if err != nil {
		writeError(c, err)
		return
	}

	response.OK(c, token)
}

// SetFeatured 设置推荐（管理员）
// PUT /api/v1/admin/tokens/:id/featured
func (h *TokenHandler) SetFeatured(c *gin.Context) {
	adminID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	id, ok := MustParseID(c, "id", service.ErrTokenNotFound)
	if !ok {
		return
	}

	var req dto.SetFeaturedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c)
		return
	}

	token, err := h.tokenSvc.SetFeatured(c.Request.Context(), id, *req.Featured, adminID)
	if err != nil {
		writeError(c, err)
		return
	}

	response.OK(c, token)
}
