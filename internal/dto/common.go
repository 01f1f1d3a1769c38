package dto

// ── 通用简要信息 ──

// SemesterBrief 学期简要信息
type SemesterBrief struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// CourseBrief 课程简要信息
type CourseBrief struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	DurationMinutes int    `json:"duration_minutes"`
	IsCore          bool   `json:"is_core"`
}

// ProfessorBrief 教师简要信息
type ProfessorBrief struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}

// TimeSlotBrief 时间段简要信息
type TimeSlotBrief struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	DayOfWeek       string `json:"day_of_week"`
	StartTime       string `json:"start_time"`
	EndTime         string `json:"end_time"`
	DurationMinutes int    `json:"duration_minutes"`
}
