package model

import "time"

// ConflictType 冲突类型
type ConflictType string

const (
	ConflictTimeSlot       ConflictType = "TIME_SLOT_CONFLICT"
	ConflictProfessor      ConflictType = "PROFESSOR_CONFLICT"
	ConflictManualOverride ConflictType = "MANUAL_OVERRIDE_CONFLICT"
	ConflictNoAvailable    ConflictType = "NO_AVAILABLE_SLOT"
)

// Conflict 排课冲突 — 对应 conflicts
// NO_AVAILABLE_SLOT 没有落位，TimeSlotID/DayOfWeek 为空，CourseID 指向未能排入的课程
type Conflict struct {
	ConflictID      string       `gorm:"type:varchar(32);primaryKey"        json:"conflict_id"`
	ScheduleID      string       `gorm:"type:varchar(32);not null"          json:"schedule_id"`
	TimeSlotID      *string      `gorm:"column:timeslot_id;type:varchar(32)" json:"timeslot_id,omitempty"`
	DayOfWeek       *DayOfWeek   `gorm:"type:varchar(10)"                   json:"day_of_week,omitempty"`
	CourseID        *string      `gorm:"type:varchar(32)"                   json:"course_id,omitempty"`
	ConflictType    ConflictType `gorm:"type:varchar(32);not null"          json:"conflict_type"`
	Description     string       `gorm:"type:text;not null"                 json:"description"`
	IsResolved      bool         `gorm:"not null;default:false"             json:"is_resolved"`
	ResolutionNotes string       `gorm:"type:text;not null;default:''"      json:"resolution_notes"`
	CreatedAt       time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt       time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
	UpdatedBy       *string      `gorm:"type:varchar(64)"                   json:"updated_by,omitempty"`
}

func (Conflict) TableName() string { return "conflicts" }

// ConflictCourse 冲突与落位的关联 — 对应 conflict_courses
type ConflictCourse struct {
	ConflictCourseID  string `gorm:"type:varchar(32);primaryKey" json:"conflict_course_id"`
	ConflictID        string `gorm:"type:varchar(32);not null"   json:"conflict_id"`
	ScheduledCourseID string `gorm:"type:varchar(32);not null"   json:"scheduled_course_id"`
}

func (ConflictCourse) TableName() string { return "conflict_courses" }
