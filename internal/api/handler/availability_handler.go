package handler

import (
	"io"
	"strings"

	"github.com/gin-gonic/gin"

	"course-scheduler/backend/internal/dto"
	"course-scheduler/backend/internal/service"
	"course-scheduler/backend/pkg/response"
)

// AvailabilityHandler 教师可用性 HTTP 处理器
type AvailabilityHandler struct {
	svc service.AvailabilityService
}

// NewAvailabilityHandler 创建 AvailabilityHandler
func NewAvailabilityHandler(svc service.AvailabilityService) *AvailabilityHandler {
	return &AvailabilityHandler{svc: svc}
}

// Get 教师可用性
// GET /api/v1/professors/:id/availability[?view=list]
//
// 默认返回按星期分组的完整网格，view=list 只返回已登记的记录。
func (h *AvailabilityHandler) Get(c *gin.Context) {
	professorID := c.Param("id")

	if c.Query("view") == "list" {
		list, err := h.svc.List(c.Request.Context(), professorID)
		if err != nil {
			handleServiceError(c, err)
			return
		}
		response.OKList(c, list, len(list))
		return
	}

	grid, err := h.svc.Grid(c.Request.Context(), professorID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.OK(c, grid)
}

// Set 整体替换教师可用性
// PUT /api/v1/professors/:id/availability
func (h *AvailabilityHandler) Set(c *gin.Context) {
	professorID := c.Param("id")
	if !MustManageProfessor(c, professorID) {
		return
	}

	var req dto.SetAvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.svc.Set(c.Request.Context(), professorID, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.OK(c, result)
}

// ImportICS 由忙碌日历导入可用性
// POST /api/v1/professors/:id/availability/import
//
// 支持两种方式：
//   - 原始日历: Content-Type: text/calendar
//   - 文件上传: multipart/form-data, field="file"
func (h *AvailabilityHandler) ImportICS(c *gin.Context) {
	professorID := c.Param("id")
	if !MustManageProfessor(c, professorID) {
		return
	}

	var body io.Reader
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		file, _, err := c.Request.FormFile("file")
		if err != nil {
			response.BadRequest(c, 13301, "请上传 ICS 文件")
			return
		}
		defer file.Close()
		body = file
	} else {
		if c.Request.Body == nil || c.Request.ContentLength == 0 {
			response.BadRequest(c, 13301, "请上传 ICS 文件")
			return
		}
		body = c.Request.Body
	}

	result, err := h.svc.ImportICS(c.Request.Context(), professorID, body)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.OK(c, result)
}
