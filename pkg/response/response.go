package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	pkgerrors "course-scheduler/backend/pkg/errors"
)

// Response 统一响应结构
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Details interface{} `json:"details,omitempty"`
}

// ── 成功响应 ──

// OK 200 成功响应
func OK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

// Created 201 创建成功
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Response{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

// OKList 200 列表响应，附带总数
func OKList(c *gin.Context, list interface{}, total int) {
	OK(c, gin.H{"list": list, "total": total})
}

// ── 错误响应 ──

// Error 通用错误响应
func Error(c *gin.Context, httpStatus int, code int, message string) {
	c.JSON(httpStatus, Response{
		Code:    code,
		Message: message,
	})
}

// ErrorWithDetails 带详情的错误响应（details 可为字符串或结构化字段）
func ErrorWithDetails(c *gin.Context, httpStatus int, code int, message string, details interface{}) {
	c.JSON(httpStatus, Response{
		Code:    code,
		Message: message,
		Details: details,
	})
}

// ── 常见快捷方式 ──

// BadRequest 400
func BadRequest(c *gin.Context, code int, message string) {
	Error(c, http.StatusBadRequest, code, message)
}

// Unauthorized 401
func Unauthorized(c *gin.Context, code int, message string) {
	Error(c, http.StatusUnauthorized, code, message)
}

// Forbidden 403
func Forbidden(c *gin.Context, code int, message string) {
	Error(c, http.StatusForbidden, code, message)
}

// NotFound 404
func NotFound(c *gin.Context, code int, message string) {
	Error(c, http.StatusNotFound, code, message)
}

// Conflict 409
func Conflict(c *gin.Context, code int, message string) {
	Error(c, http.StatusConflict, code, message)
}

// InternalError 500
func InternalError(c *gin.Context) {
	Error(c, http.StatusInternalServerError, 50000, "服务器内部错误")
}

// ── 业务错误 ──

// StatusOf 业务错误分类对应的 HTTP 状态
// IntegrityWarning 只出现在撤销结果的 warnings 中，单独出现时按内部错误处理
func StatusOf(kind pkgerrors.Kind) int {
	switch kind {
	case pkgerrors.KindNotFound:
		return http.StatusNotFound
	case pkgerrors.KindValidation:
		return http.StatusBadRequest
	case pkgerrors.KindConflictState:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// FromAppError 按分类输出业务错误，details 非空时一并返回
// 内部错误统一为 50000，不向调用方暴露消息
func FromAppError(c *gin.Context, e *pkgerrors.AppError) {
	status := StatusOf(e.Kind)
	if status == http.StatusInternalServerError {
		InternalError(c)
		return
	}
	if len(e.Details) > 0 {
		ErrorWithDetails(c, status, e.Code, e.Message, e.Details)
		return
	}
	Error(c, status, e.Code, e.Message)
}
