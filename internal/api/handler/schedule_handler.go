package handler

import (
	"github.com/gin-gonic/gin"

	"course-scheduler/backend/internal/dto"
	"course-scheduler/backend/internal/service"
	"course-scheduler/backend/pkg/response"
)

// ScheduleHandler 排课方案模块 HTTP 处理器
type ScheduleHandler struct {
	scheduleSvc service.ScheduleService
}

// NewScheduleHandler 创建 ScheduleHandler
func NewScheduleHandler(scheduleSvc service.ScheduleService) *ScheduleHandler {
	return &ScheduleHandler{scheduleSvc: scheduleSvc}
}

// Generate 为学期生成排课方案
// POST /api/v1/schedules/generate
func (h *ScheduleHandler) Generate(c *gin.Context) {
	var req dto.GenerateScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.scheduleSvc.Generate(c.Request.Context(), &req, c.GetString("user_id"))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.Created(c, result)
}

// List 排课方案列表
// GET /api/v1/schedules?semester_id=
func (h *ScheduleHandler) List(c *gin.Context) {
	var req dto.ListSchedulesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindError(c, err)
		return
	}

	list, err := h.scheduleSvc.List(c.Request.Context(), &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.OKList(c, list, len(list))
}

// Get 排课方案详情（含落位与未解决冲突数）
// GET /api/v1/schedules/:id
func (h *ScheduleHandler) Get(c *gin.Context) {
	schedule, err := h.scheduleSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.OK(c, schedule)
}

// Update 重命名或定稿 / 取消定稿
// PUT /api/v1/schedules/:id
func (h *ScheduleHandler) Update(c *gin.Context) {
	var req dto.UpdateScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	schedule, err := h.scheduleSvc.Update(c.Request.Context(), c.Param("id"), &req, c.GetString("user_id"))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.OK(c, schedule)
}

// Delete 删除排课方案及其全部落位与冲突
// DELETE /api/v1/schedules/:id
func (h *ScheduleHandler) Delete(c *gin.Context) {
	if err := h.scheduleSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		handleServiceError(c, err)
		return
	}

	response.OK(c, nil)
}

// DetectConflicts 全量冲突检测
// POST /api/v1/schedules/:id/detect
func (h *ScheduleHandler) DetectConflicts(c *gin.Context) {
	result, err := h.scheduleSvc.DetectConflicts(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.OK(c, result)
}

// ListCourses 方案下全部落位
// GET /api/v1/schedules/:id/courses
func (h *ScheduleHandler) ListCourses(c *gin.Context) {
	list, err := h.scheduleSvc.ListScheduledCourses(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.OKList(c, list, len(list))
}

// ── 课程落位 ──

// CreateOverride 手动指定课程落位
// POST /api/v1/scheduled-courses/override
func (h *ScheduleHandler) CreateOverride(c *gin.Context) {
	var req dto.CreateOverrideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.scheduleSvc.CreateOverride(c.Request.Context(), &req, c.GetString("user_id"))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.Created(c, result)
}

// DeleteScheduledCourse 删除单个落位
// DELETE /api/v1/scheduled-courses/:id
func (h *ScheduleHandler) DeleteScheduledCourse(c *gin.Context) {
	if err := h.scheduleSvc.DeleteScheduledCourse(c.Request.Context(), c.Param("id")); err != nil {
		handleServiceError(c, err)
		return
	}

	response.OK(c, nil)
}

// GetHistory 落位调整历史
// GET /api/v1/scheduled-courses/:id/history
func (h *ScheduleHandler) GetHistory(c *gin.Context) {
	list, err := h.scheduleSvc.GetPlacementHistory(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.OKList(c, list, len(list))
}

// ListTimeSlots 时间段目录
// GET /api/v1/time-slots
func (h *ScheduleHandler) ListTimeSlots(c *gin.Context) {
	list, err := h.scheduleSvc.ListTimeSlots(c.Request.Context())
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.OKList(c, list, len(list))
}
