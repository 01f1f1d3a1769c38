package dto

// ── 排课方案 DTO ──

// GenerateScheduleRequest 生成排课方案请求
type GenerateScheduleRequest struct {
	SemesterID string `json:"semester_id" binding:"required,max=32"`
	Name       string `json:"name"        binding:"required,min=1,max=200"`
}

// UpdateScheduleRequest 修改方案名称或定稿状态
type UpdateScheduleRequest struct {
	Name    *string `json:"name"     binding:"omitempty,min=1,max=200"`
	IsFinal *bool   `json:"is_final"`
}

// ListSchedulesRequest 方案列表查询参数
type ListSchedulesRequest struct {
	SemesterID string `form:"semester_id" binding:"omitempty,max=32"`
}

// CreateOverrideRequest 手动指定课程落位
type CreateOverrideRequest struct {
	ScheduleID  string `json:"schedule_id"  binding:"required,max=32"`
	CourseID    string `json:"course_id"    binding:"required,max=32"`
	ProfessorID string `json:"professor_id" binding:"required,max=32"`
	TimeSlotID  string `json:"timeslot_id"  binding:"required,max=32"`
	DayOfWeek   string `json:"day_of_week"  binding:"required,weekday"`
	Reason      string `json:"reason"       binding:"max=1000"`
}

// ── 响应 ──

// ScheduleResponse 排课方案响应
type ScheduleResponse struct {
	ID                  string                    `json:"id"`
	SemesterID          string                    `json:"semester_id"`
	Semester            *SemesterBrief            `json:"semester,omitempty"`
	Name                string                    `json:"name"`
	IsFinal             bool                      `json:"is_final"`
	Version             int                       `json:"version"`
	UnresolvedConflicts *int64                    `json:"unresolved_conflicts,omitempty"`
	ScheduledCourses    []ScheduledCourseResponse `json:"scheduled_courses,omitempty"`
	CreatedAt           string                    `json:"created_at"`
	UpdatedAt           string                    `json:"updated_at"`
}

// ScheduledCourseResponse 课程落位响应
type ScheduledCourseResponse struct {
	ID             string          `json:"id"`
	ScheduleID     string          `json:"schedule_id"`
	CourseID       string          `json:"course_id"`
	Course         *CourseBrief    `json:"course,omitempty"`
	ProfessorID    string          `json:"professor_id"`
	Professor      *ProfessorBrief `json:"professor,omitempty"`
	TimeSlotID     string          `json:"timeslot_id"`
	DayOfWeek      string          `json:"day_of_week"`
	TimeSlot       *TimeSlotBrief  `json:"timeslot,omitempty"`
	IsOverride     bool            `json:"is_override"`
	OverrideReason string          `json:"override_reason,omitempty"`
	Version        int             `json:"version"`
}

// GenerateScheduleResponse 生成结果
type GenerateScheduleResponse struct {
	Schedule      ScheduleResponse   `json:"schedule"`
	Conflicts     []ConflictResponse `json:"conflicts"`
	PlacedCount   int                `json:"placed_count"`
	UnplacedCount int                `json:"unplaced_count"`
}

// CreateOverrideResponse 手动落位结果
type CreateOverrideResponse struct {
	ScheduledCourse  ScheduledCourseResponse `json:"scheduled_course"`
	ConflictsCreated bool                    `json:"conflicts_created"`
	Conflict         *ConflictResponse       `json:"conflict,omitempty"`
}

// PlacementHistoryResponse 落位调整历史
type PlacementHistoryResponse struct {
	ID               string  `json:"id"`
	ConflictID       *string `json:"conflict_id,omitempty"`
	PriorTimeSlotID  string  `json:"prior_timeslot_id"`
	PriorDayOfWeek   string  `json:"prior_day_of_week"`
	PriorProfessorID string  `json:"prior_professor_id"`
	Reason           string  `json:"reason,omitempty"`
	RevertedAt       *string `json:"reverted_at,omitempty"`
	CreatedAt        string  `json:"created_at"`
}
