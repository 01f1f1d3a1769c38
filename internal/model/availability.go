package model

// ProfessorAvailability 教师时段可用性 — 对应 professor_availability
type ProfessorAvailability struct {
	AvailabilityID string    `gorm:"type:varchar(32);primaryKey"                 json:"availability_id"`
	ProfessorID    string    `gorm:"type:varchar(32);not null"                   json:"professor_id"`
	TimeSlotID     string    `gorm:"column:timeslot_id;type:varchar(32);not null" json:"timeslot_id"`
	DayOfWeek      DayOfWeek `gorm:"type:varchar(10);not null"                   json:"day_of_week"`
	IsAvailable    bool      `gorm:"not null;default:false"                      json:"is_available"`
	Timestamps
}

// TableName 指定表名
func (ProfessorAvailability) TableName() string { return "professor_availability" }
