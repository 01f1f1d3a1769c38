package model

import (
	"fmt"
	"time"
)

// TimeSlot 固定时间段目录 — 对应 time_slots
// TimeSlotID 形如 TS2-MON，同一 Name 在每个工作日各有一行
type TimeSlot struct {
	TimeSlotID      string    `gorm:"column:timeslot_id;type:varchar(32);primaryKey" json:"timeslot_id"`
	Name            string    `gorm:"type:varchar(20);not null"                      json:"name"`
	DayOfWeek       DayOfWeek `gorm:"type:varchar(10);not null"                      json:"day_of_week"`
	StartTime       string    `gorm:"type:varchar(5);not null"                       json:"start_time"` // HH:MM
	EndTime         string    `gorm:"type:varchar(5);not null"                       json:"end_time"`
	DurationMinutes int       `gorm:"not null"                                       json:"duration_minutes"`
}

// TableName 指定表名
func (TimeSlot) TableName() string { return "time_slots" }

// Window 返回时间段在当天的起止分钟数
func (t *TimeSlot) Window() (start, end int, err error) {
	s, err := time.Parse("15:04", t.StartTime)
	if err != nil {
		return 0, 0, fmt.Errorf("时间段 %s 开始时间格式错误: %w", t.TimeSlotID, err)
	}
	e, err := time.Parse("15:04", t.EndTime)
	if err != nil {
		return 0, 0, fmt.Errorf("时间段 %s 结束时间格式错误: %w", t.TimeSlotID, err)
	}
	return s.Hour()*60 + s.Minute(), e.Hour()*60 + e.Minute(), nil
}
