package repository

import (
	"context"

	"gorm.io/gorm"
)

// Repository 所有 Repository 的聚合入口
type Repository struct {
	db *gorm.DB

	Semester         SemesterRepository
	Course           CourseRepository
	Professor        ProfessorRepository
	TimeSlot         TimeSlotRepository
	Availability     AvailabilityRepository
	Schedule         ScheduleRepository
	ScheduledCourse  ScheduledCourseRepository
	PlacementHistory PlacementHistoryRepository
	Conflict         ConflictRepository
	ConflictCourse   ConflictCourseRepository
}

// NewRepository 创建 Repository 聚合
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		db:               db,
		Semester:         NewSemesterRepo(db),
		Course:           NewCourseRepo(db),
		Professor:        NewProfessorRepo(db),
		TimeSlot:         NewTimeSlotRepo(db),
		Availability:     NewAvailabilityRepo(db),
		Schedule:         NewScheduleRepo(db),
		ScheduledCourse:  NewScheduledCourseRepo(db),
		PlacementHistory: NewPlacementHistoryRepo(db),
		Conflict:         NewConflictRepo(db),
		ConflictCourse:   NewConflictCourseRepo(db),
	}
}

// WithTx 返回绑定到指定事务的 Repository 聚合
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return NewRepository(tx)
}

// Transaction 在单个数据库事务内执行 fn，fn 返回错误时整体回滚
// 未绑定数据库（单测中以 mock 组装）时直接在当前聚合上执行
func (r *Repository) Transaction(ctx context.Context, fn func(tx *Repository) error) error {
	if r.db == nil {
		return fn(r)
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(r.WithTx(tx))
	})
}

// DB 底层连接（健康检查使用），mock 组装时为 nil
func (r *Repository) DB() *gorm.DB {
	return r.db
}
