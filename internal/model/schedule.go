package model

import (
	"time"

	"gorm.io/datatypes"
)

// Schedule 排课方案 — 对应 schedules
// IsFinal=true 时该方案下不存在未解决冲突
type Schedule struct {
	ScheduleID string `gorm:"type:varchar(32);primaryKey" json:"schedule_id"`
	SemesterID string `gorm:"type:varchar(32);not null"   json:"semester_id"`
	Name       string `gorm:"type:varchar(200);not null"  json:"name"`
	IsFinal    bool   `gorm:"not null;default:false"      json:"is_final"`
	VersionedModel

	// 关联
	Semester *Semester `gorm:"foreignKey:SemesterID;references:SemesterID" json:"semester,omitempty"`
}

func (Schedule) TableName() string { return "schedules" }

// ScheduledCourse 课程落位 — 对应 scheduled_courses
type ScheduledCourse struct {
	ScheduledCourseID string    `gorm:"type:varchar(32);primaryKey"                  json:"scheduled_course_id"`
	ScheduleID        string    `gorm:"type:varchar(32);not null"                    json:"schedule_id"`
	CourseID          string    `gorm:"type:varchar(32);not null"                    json:"course_id"`
	ProfessorID       string    `gorm:"type:varchar(32);not null"                    json:"professor_id"`
	TimeSlotID        string    `gorm:"column:timeslot_id;type:varchar(32);not null" json:"timeslot_id"`
	DayOfWeek         DayOfWeek `gorm:"type:varchar(10);not null"                    json:"day_of_week"`
	IsOverride        bool      `gorm:"not null;default:false"                       json:"is_override"`
	OverrideReason    string    `gorm:"type:text;not null;default:''"                json:"override_reason"`
	VersionedModel

	// 关联
	Course    *Course    `gorm:"foreignKey:CourseID;references:CourseID"       json:"course,omitempty"`
	Professor *Professor `gorm:"foreignKey:ProfessorID;references:ProfessorID" json:"professor,omitempty"`
	TimeSlot  *TimeSlot  `gorm:"foreignKey:TimeSlotID;references:TimeSlotID"   json:"timeslot,omitempty"`
}

func (ScheduledCourse) TableName() string { return "scheduled_courses" }

// PlacementHistory 落位调整历史 — 对应 placement_history
// 每次覆盖前写入一条，撤销时取最近一条未撤销记录
type PlacementHistory struct {
	HistoryID         string         `gorm:"type:varchar(32);primaryKey" json:"history_id"`
	ScheduledCourseID string         `gorm:"type:varchar(32);not null"   json:"scheduled_course_id"`
	ScheduleID        string         `gorm:"type:varchar(32);not null"   json:"schedule_id"`
	ConflictID        *string        `gorm:"type:varchar(32)"            json:"conflict_id,omitempty"`
	PriorTimeSlotID   string         `gorm:"column:prior_timeslot_id;type:varchar(32);not null" json:"prior_timeslot_id"`
	PriorDayOfWeek    DayOfWeek      `gorm:"type:varchar(10);not null"   json:"prior_day_of_week"`
	PriorProfessorID  string         `gorm:"type:varchar(32);not null"   json:"prior_professor_id"`
	Reason            string         `gorm:"type:text;not null;default:''" json:"reason"`
	Snapshot          datatypes.JSON `gorm:"type:jsonb"                  json:"snapshot,omitempty"`
	RevertedAt        *time.Time     `json:"reverted_at,omitempty"`
	CreatedAt         time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	CreatedBy         *string        `gorm:"type:varchar(64)"            json:"created_by,omitempty"`
}

func (PlacementHistory) TableName() string { return "placement_history" }

// PlacementSnapshot 覆盖前的落位快照，序列化进 PlacementHistory.Snapshot
type PlacementSnapshot struct {
	ProfessorID    string    `json:"professor_id"`
	TimeSlotID     string    `json:"timeslot_id"`
	DayOfWeek      DayOfWeek `json:"day_of_week"`
	IsOverride     bool      `json:"is_override"`
	OverrideReason string    `json:"override_reason,omitempty"`
	Version        int       `json:"version"`
}
