package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"trends-fun/backend/internal/dto"
	"trends-fun/backend/internal/service"
	"trends-fun/backend/pkg/response"
)

// ApplicationHandler 创作者申请模块 HTTP 处理器
type ApplicationHandler struct {
	appSvc service.ApplicationService
}

// NewApplicationHandler 创建 ApplicationHandler
func NewApplicationHandler(appSvc service.ApplicationService) *ApplicationHandler {
	return &ApplicationHandler{appSvc: appSvc}
}

// Submit 提交创作者申请
// POST /api/v1/creator-applications
func (h *ApplicationHandler) Submit(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.SubmitApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c)
		return
	}

	app, err := h.appSvc.Submit(c.Request.Context(), userID, &req)
	if err != nil {
		writeError(c, err)
		return
	}

	response.Created(c, app)
}

// ListMine 我的申请记录
// GET /api/v1/creator-applications/me
func (h *ApplicationHandler) ListMine(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	apps, err := h.appSvc.ListMine(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}

	response.OK(c, apps)
}

// List 申请列表（管理员）
// GET /api/v1/admin/creator-applications?status=pending&page=1&limit=20
func (h *ApplicationHandler) List(c *gin.Context) {
	var req dto.ApplicationListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindFailed(c)
		return
	}

	apps, total, err := h.appSvc.ListApplications(c.Request.Context(), &req)
	if err != nil {
		writeError(c, err)
		return
	}

	response.OKPage(c, apps, total, req.GetPage(), req.GetLimit())
}

// PendingCount 待审核数量（管理员）
// GET /api/v1/admin/creator-applications/pending-count
func (h *ApplicationHandler) PendingCount(c *gin.Context) {
	n, err := h.appSvc.PendingCount(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}

	response.OK(c, dto.PendingCountResponse{Count: n})
}

// Get 申请详情（管理员）
// GET /api/v1/admin/creator-applications/:id
func (h *ApplicationHandler) Get(c *gin.Context) {
	id, ok := MustParseID(c, "id", service.ErrApplicationNotFound)
	if !ok {
		return
	}

	app, err := h.appSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}

	response.OK(c, app)
}

// Decide 审核申请（管理员）
// POST /api/v1/admin/creator-applications/:id/decision
func (h *ApplicationHandler) Decide(c *gin.Context) {
	adminID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.NotFound(c, 40400, "申请不存在或已处理")
		return
	}

	var req dto.DecideApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c)
		return
	}

	result, err := h.appSvc.Decide(c.Request.Context(), id.String(), adminID, &req)
	if err != nil {
		// 不存在与已处理对调用方不作区分
		if errors.Is(err, service.ErrApplicationNotFound) || errors.Is(err, service.ErrApplicationProcessed) {
			response.NotFound(c, 40400, "申请不存在或已处理")
			return
		}
		writeError(c, err)
		return
	}

	response.OK(c, result)
}
