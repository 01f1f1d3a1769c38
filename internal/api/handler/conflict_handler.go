package handler

import (
	"errors"
	"io"

	"github.com/gin-gonic/gin"

	"course-scheduler/backend/internal/dto"
	"course-scheduler/backend/internal/service"
	"course-scheduler/backend/pkg/response"
)

// ConflictHandler 冲突模块 HTTP 处理器
type ConflictHandler struct {
	conflictSvc service.ConflictService
}

// NewConflictHandler 创建 ConflictHandler
func NewConflictHandler(conflictSvc service.ConflictService) *ConflictHandler {
	return &ConflictHandler{conflictSvc: conflictSvc}
}

// ListBySchedule 方案下全部冲突
// GET /api/v1/schedules/:id/conflicts
func (h *ConflictHandler) ListBySchedule(c *gin.Context) {
	list, err := h.conflictSvc.ListBySchedule(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.OKList(c, list, len(list))
}

// Get 冲突详情
// GET /api/v1/conflicts/:id
func (h *ConflictHandler) Get(c *gin.Context) {
	conflict, err := h.conflictSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.OK(c, conflict)
}

// Resolve 处理冲突（ACCEPT / OVERRIDE）
// PUT /api/v1/conflicts/:id/resolve
func (h *ConflictHandler) Resolve(c *gin.Context) {
	var req dto.ResolveConflictRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	conflict, err := h.conflictSvc.Resolve(c.Request.Context(), c.Param("id"), &req, c.GetString("user_id"))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.OK(c, conflict)
}

// Revert 撤销冲突处理
// PUT /api/v1/conflicts/:id/revert
//
// 请求体可为空，此时使用默认备注。
func (h *ConflictHandler) Revert(c *gin.Context) {
	var req dto.RevertConflictRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		bindError(c, err)
		return
	}

	result, err := h.conflictSvc.Revert(c.Request.Context(), c.Param("id"), &req, c.GetString("user_id"))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.OK(c, result)
}
