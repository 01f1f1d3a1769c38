package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	pkgerrors "course-scheduler/backend/pkg/errors"
	"course-scheduler/backend/pkg/jwt"
	"course-scheduler/backend/pkg/response"
	"course-scheduler/backend/pkg/validator"
)

// MustGetUserID 从 Gin 上下文中安全提取 user_id。
// 如果 JWT 中间件未正确注入 user_id，返回 false 并写入 401 响应。
// 调用方应在 ok=false 时直接 return。
func MustGetUserID(c *gin.Context) (string, bool) {
	v, exists := c.Get("user_id")
	if !exists {
		response.Unauthorized(c, 10002, "未认证")
		return "", false
	}
	s, ok := v.(string)
	if !ok || s == "" {
		response.Unauthorized(c, 10002, "未认证")
		return "", false
	}
	return s, true
}

// MustGetRole 从 Gin 上下文中安全提取 role。
func MustGetRole(c *gin.Context) (string, bool) {
	v, exists := c.Get("role")
	if !exists {
		response.Unauthorized(c, 10002, "未认证")
		return "", false
	}
	s, ok := v.(string)
	if !ok || s == "" {
		response.Unauthorized(c, 10002, "未认证")
		return "", false
	}
	return s, true
}

// MustManageProfessor 管理员或教师本人才能修改该教师的可用性
func MustManageProfessor(c *gin.Context, professorID string) bool {
	userID, ok := MustGetUserID(c)
	if !ok {
		return false
	}
	role, ok := MustGetRole(c)
	if !ok {
		return false
	}
	if role == jwt.RoleAdmin || (role == jwt.RoleProfessor && userID == professorID) {
		return true
	}
	response.Forbidden(c, 10003, "无权限访问")
	return false
}

// ── 错误映射 ──

// bindError 请求参数绑定失败，校验错误附带字段明细
func bindError(c *gin.Context, err error) {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		response.Error(c, http.StatusRequestEntityTooLarge, 10005, "请求体过大")
		return
	}
	if fields := validator.FieldErrors(err); len(fields) > 0 {
		response.ErrorWithDetails(c, http.StatusBadRequest, 13001, "参数校验失败", fields)
		return
	}
	response.BadRequest(c, 13001, "参数校验失败")
}

// handleServiceError 按错误分类统一映射 HTTP 状态
// 无法识别的错误交给日志中间件记录，响应只返回 50000
func handleServiceError(c *gin.Context, err error) {
	var appErr *pkgerrors.AppError
	switch {
	case errors.As(err, &appErr):
		if response.StatusOf(appErr.Kind) == http.StatusInternalServerError {
			_ = c.Error(err)
		}
		response.FromAppError(c, appErr)
	case errors.Is(err, pkgerrors.ErrOptimisticLock):
		response.Conflict(c, 10006, err.Error())
	case errors.Is(err, pkgerrors.ErrLocked):
		response.Conflict(c, 10007, err.Error())
	default:
		_ = c.Error(err)
		response.InternalError(c)
	}
}
