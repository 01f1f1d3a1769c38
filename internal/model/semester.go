package model

import "time"

// Semester 学期 — 对应 semesters
type Semester struct {
	SemesterID string    `gorm:"type:varchar(32);primaryKey" json:"semester_id"`
	Name       string    `gorm:"type:varchar(100);not null"  json:"name"`
	StartDate  time.Time `gorm:"type:date;not null"          json:"start_date"`
	EndDate    time.Time `gorm:"type:date;not null"          json:"end_date"`
	Timestamps
}

// TableName 指定表名
func (Semester) TableName() string { return "semesters" }
