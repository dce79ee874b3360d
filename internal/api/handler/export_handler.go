package handler

import (
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"trends-fun/backend/internal/model"
	"trends-fun/backend/internal/service"
	"trends-fun/backend/pkg/response"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExportHandler 导出模块 HTTP 处理器
type ExportHandler struct {
	exportSvc service.ExportService
}

// NewExportHandler 创建 ExportHandler
func NewExportHandler(exportSvc service.ExportService) *ExportHandler {
	return &ExportHandler{exportSvc: exportSvc}
}

// ExportApplications 导出创作者申请
// GET /api/v1/admin/creator-applications/export?status=pending
func (h *ExportHandler) ExportApplications(c *gin.Context) {
	status := c.Query("status")
	switch status {
	case "", model.ApplicationStatusPending, model.ApplicationStatusApproved, model.ApplicationStatusRejected:
	default:
		response.BadRequest(c, codeInvalidParams, "status 取值无效")
		return
	}

	buf, filename, err := h.exportSvc.ExportApplications(c.Request.Context(), status)
	if err != nil {
		writeError(c, err)
		return
	}

	// 设置下载响应头
	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+url.QueryEscape(filename))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}
