package dto

// ── 教师可用性 DTO ──

// AvailabilityEntry 单条可用性，缺少时间段或星期的条目会被跳过
type AvailabilityEntry struct {
	TimeSlotID  string `json:"timeslot_id"`
	DayOfWeek   string `json:"day_of_week"`
	IsAvailable bool   `json:"is_available"`
}

// SetAvailabilityRequest 整体替换教师可用性
type SetAvailabilityRequest struct {
	Entries []AvailabilityEntry `json:"entries" binding:"required,max=500"`
}

// SkippedEntry 被跳过的条目
type SkippedEntry struct {
	Index  int    `json:"index"`
	Reason string `json:"reason"`
}

// SetAvailabilityResponse 替换结果
type SetAvailabilityResponse struct {
	UpdatedCount int            `json:"updated_count"`
	SkippedCount int            `json:"skipped_count"`
	Skipped      []SkippedEntry `json:"skipped,omitempty"`
}

// AvailabilityResponse 可用性记录
type AvailabilityResponse struct {
	ID          string `json:"id"`
	ProfessorID string `json:"professor_id"`
	TimeSlotID  string `json:"timeslot_id"`
	DayOfWeek   string `json:"day_of_week"`
	IsAvailable bool   `json:"is_available"`
}

// AvailabilityGridResponse 按星期分组的完整可用性视图
type AvailabilityGridResponse struct {
	ProfessorID string            `json:"professor_id"`
	Days        []AvailabilityDay `json:"days"`
}

// AvailabilityDay 某一天的时间段
type AvailabilityDay struct {
	DayOfWeek string             `json:"day_of_week"`
	Slots     []AvailabilitySlot `json:"slots"`
}

// AvailabilitySlot 单个时间段及是否可用
type AvailabilitySlot struct {
	TimeSlot    TimeSlotBrief `json:"timeslot"`
	IsAvailable bool          `json:"is_available"`
}

// ImportICSResponse 日历导入结果
type ImportICSResponse struct {
	EventsParsed int `json:"events_parsed"`
	SetAvailabilityResponse
}
