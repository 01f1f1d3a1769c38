package dto

// ── 冲突 DTO ──

// 冲突处理动作
const (
	ConflictActionAccept   = "ACCEPT"
	ConflictActionOverride = "OVERRIDE"
)

// ResolveConflictRequest 解决冲突请求
// OVERRIDE 时 scheduled_course_id 与 new_timeslot_id 必填（Service 层校验）
type ResolveConflictRequest struct {
	Action            string  `json:"action"              binding:"required,conflict_action"`
	ResolutionNotes   string  `json:"resolution_notes"    binding:"max=1000"`
	ScheduledCourseID *string `json:"scheduled_course_id" binding:"omitempty,max=32"`
	NewTimeSlotID     *string `json:"new_timeslot_id"     binding:"omitempty,max=32"`
}

// RevertConflictRequest 撤销冲突处理请求
type RevertConflictRequest struct {
	ResolutionNotes string `json:"resolution_notes" binding:"max=1000"`
}

// ── 响应 ──

// ConflictResponse 冲突响应（含关联落位摘要）
type ConflictResponse struct {
	ID              string                    `json:"id"`
	ScheduleID      string                    `json:"schedule_id"`
	TimeSlotID      *string                   `json:"timeslot_id,omitempty"`
	DayOfWeek       *string                   `json:"day_of_week,omitempty"`
	TimeSlot        *TimeSlotBrief            `json:"timeslot,omitempty"`
	Course          *CourseBrief              `json:"course,omitempty"`
	ConflictType    string                    `json:"conflict_type"`
	Description     string                    `json:"description"`
	IsResolved      bool                      `json:"is_resolved"`
	ResolutionNotes string                    `json:"resolution_notes"`
	Courses         []ScheduledCourseResponse `json:"courses"`
	CreatedAt       string                    `json:"created_at"`
	UpdatedAt       string                    `json:"updated_at"`
}

// RevertConflictResponse 撤销结果，warnings 为无法还原原落位的提示
type RevertConflictResponse struct {
	ConflictResponse
	Warnings []string `json:"warnings,omitempty"`
}

// DetectConflictsResponse 全量检测结果
type DetectConflictsResponse struct {
	Created []ConflictResponse `json:"created"`
	Skipped int                `json:"skipped"`
}
