package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	pkgerrors "trends-fun/backend/pkg/errors"
	"trends-fun/backend/pkg/response"
)

// 业务码 = HTTP 状态码 * 100，模块内细分由 message 区分
const (
	codeInvalidParams = 10001
	codeUnauthorized  = 10002
)

// writeError 按错误类别写出响应，不依赖错误文案做判断
// 非业务错误统一 500，原始错误挂到 gin.Context 供日志中间件输出
func writeError(c *gin.Context, err error) {
	var status int
	switch pkgerrors.KindOf(err) {
	case pkgerrors.KindNotFound:
		status = http.StatusNotFound
	case pkgerrors.KindAlreadyProcessed, pkgerrors.KindConflict:
		status = http.StatusConflict
	case pkgerrors.KindInvalidState, pkgerrors.KindInvalid:
		status = http.StatusBadRequest
	case pkgerrors.KindForbidden:
		status = http.StatusForbidden
	case pkgerrors.KindUnauthenticated:
		status = http.StatusUnauthorized
	default:
		_ = c.Error(err)
		response.InternalError(c)
		return
	}
	response.Error(c, status, status*100, err.Error())
}

// bindFailed 参数校验失败
func bindFailed(c *gin.Context) {
	response.BadRequest(c, codeInvalidParams, "参数校验失败")
}
