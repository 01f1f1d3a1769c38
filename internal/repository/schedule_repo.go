package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"course-scheduler/backend/internal/model"
	pkgerrors "course-scheduler/backend/pkg/errors"
)

// ScheduleRepository 排课方案数据访问接口
type ScheduleRepository interface {
	Create(ctx context.Context, schedule *model.Schedule) error
	GetByID(ctx context.Context, id string) (*model.Schedule, error)
	// GetByIDForUpdate 行级锁读取，仅在事务中使用
	GetByIDForUpdate(ctx context.Context, id string) (*model.Schedule, error)
	List(ctx context.Context, semesterID string) ([]model.Schedule, error)
	Update(ctx context.Context, schedule *model.Schedule) error
	Delete(ctx context.Context, id string) error
}

// ScheduledCourseRepository 课程落位数据访问接口
type ScheduledCourseRepository interface {
	Create(ctx context.Context, sc *model.ScheduledCourse) error
	BatchCreate(ctx context.Context, list []model.ScheduledCourse) error
	GetByID(ctx context.Context, id string) (*model.ScheduledCourse, error)
	ListBySchedule(ctx context.Context, scheduleID string) ([]model.ScheduledCourse, error)
	ListByIDs(ctx context.Context, ids []string) ([]model.ScheduledCourse, error)
	ListAtSlot(ctx context.Context, scheduleID, timeSlotID string, day model.DayOfWeek) ([]model.ScheduledCourse, error)
	FindByScheduleAndCourse(ctx context.Context, scheduleID, courseID string) (*model.ScheduledCourse, error)
	Update(ctx context.Context, sc *model.ScheduledCourse) error
	Delete(ctx context.Context, id string) error
	DeleteBySchedule(ctx context.Context, scheduleID string) error
}

// PlacementHistoryRepository 落位调整历史数据访问接口
type PlacementHistoryRepository interface {
	Create(ctx context.Context, h *model.PlacementHistory) error
	ListByScheduledCourse(ctx context.Context, scheduledCourseID string) ([]model.PlacementHistory, error)
	// LatestPending 最近一条未撤销记录；conflictID 非空时只在该冲突产生的记录中查找
	LatestPending(ctx context.Context, scheduledCourseID string, conflictID *string) (*model.PlacementHistory, error)
	MarkReverted(ctx context.Context, historyID string, at time.Time) error
	DeleteByScheduledCourse(ctx context.Context, scheduledCourseID string) error
	DeleteBySchedule(ctx context.Context, scheduleID string) error
}

// ── Schedule Repository 实现 ──

type scheduleRepo struct {
	db *gorm.DB
}

func NewScheduleRepo(db *gorm.DB) ScheduleRepository {
	return &scheduleRepo{db: db}
}

func (r *scheduleRepo) Create(ctx context.Context, schedule *model.Schedule) error {
	return r.db.WithContext(ctx).Create(schedule).Error
}

func (r *scheduleRepo) GetByID(ctx context.Context, id string) (*model.Schedule, error) {
	var schedule model.Schedule
	err := r.db.WithContext(ctx).
		Preload("Semester").
		Where("schedule_id = ?", id).
		First(&schedule).Error
	if err != nil {
		return nil, err
	}
	return &schedule, nil
}

func (r *scheduleRepo) GetByIDForUpdate(ctx context.Context, id string) (*model.Schedule, error) {
	var schedule model.Schedule
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("schedule_id = ?", id).
		First(&schedule).Error
	if err != nil {
		return nil, err
	}
	return &schedule, nil
}

func (r *scheduleRepo) List(ctx context.Context, semesterID string) ([]model.Schedule, error) {
	var list []model.Schedule
	q := r.db.WithContext(ctx).Preload("Semester")
	if semesterID != "" {
		q = q.Where("semester_id = ?", semesterID)
	}
	err := q.Order("created_at DESC").Find(&list).Error
	return list, err
}

func (r *scheduleRepo) Update(ctx context.Context, schedule *model.Schedule) error {
	oldVersion := schedule.Version
	result := r.db.WithContext(ctx).
		Model(schedule).
		Where("schedule_id = ? AND version = ?", schedule.ScheduleID, oldVersion).
		Updates(map[string]interface{}{
			"name":       schedule.Name,
			"is_final":   schedule.IsFinal,
			"updated_by": schedule.UpdatedBy,
			"version":    oldVersion + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	schedule.Version = oldVersion + 1
	return nil
}

func (r *scheduleRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("schedule_id = ?", id).
		Delete(&model.Schedule{}).Error
}

// ── ScheduledCourse Repository 实现 ──

type scheduledCourseRepo struct {
	db *gorm.DB
}

func NewScheduledCourseRepo(db *gorm.DB) ScheduledCourseRepository {
	return &scheduledCourseRepo{db: db}
}

func (r *scheduledCourseRepo) withDetails(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Course").
		Preload("Professor").
		Preload("TimeSlot")
}

func (r *scheduledCourseRepo) Create(ctx context.Context, sc *model.ScheduledCourse) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(sc).Error
}

func (r *scheduledCourseRepo) BatchCreate(ctx context.Context, list []model.ScheduledCourse) error {
	if len(list) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Omit(clause.Associations).CreateInBatches(list, 100).Error
}

func (r *scheduledCourseRepo) GetByID(ctx context.Context, id string) (*model.ScheduledCourse, error) {
	var sc model.ScheduledCourse
	if err := r.withDetails(ctx).Where("scheduled_course_id = ?", id).First(&sc).Error; err != nil {
		return nil, err
	}
	return &sc, nil
}

func (r *scheduledCourseRepo) ListBySchedule(ctx context.Context, scheduleID string) ([]model.ScheduledCourse, error) {
	var list []model.ScheduledCourse
	err := r.withDetails(ctx).
		Where("schedule_id = ?", scheduleID).
		Order("timeslot_id ASC, scheduled_course_id ASC").
		Find(&list).Error
	return list, err
}

func (r *scheduledCourseRepo) ListByIDs(ctx context.Context, ids []string) ([]model.ScheduledCourse, error) {
	var list []model.ScheduledCourse
	if len(ids) == 0 {
		return list, nil
	}
	err := r.withDetails(ctx).
		Where("scheduled_course_id IN ?", ids).
		Order("scheduled_course_id ASC").
		Find(&list).Error
	return list, err
}

func (r *scheduledCourseRepo) ListAtSlot(ctx context.Context, scheduleID, timeSlotID string, day model.DayOfWeek) ([]model.ScheduledCourse, error) {
	var list []model.ScheduledCourse
	err := r.db.WithContext(ctx).
		Where("schedule_id = ? AND timeslot_id = ? AND day_of_week = ?", scheduleID, timeSlotID, day).
		Order("scheduled_course_id ASC").
		Find(&list).Error
	return list, err
}

func (r *scheduledCourseRepo) FindByScheduleAndCourse(ctx context.Context, scheduleID, courseID string) (*model.ScheduledCourse, error) {
	var sc model.ScheduledCourse
	err := r.db.WithContext(ctx).
		Where("schedule_id = ? AND course_id = ?", scheduleID, courseID).
		Order("created_at ASC").
		First(&sc).Error
	if err != nil {
		return nil, err
	}
	return &sc, nil
}

func (r *scheduledCourseRepo) Update(ctx context.Context, sc *model.ScheduledCourse) error {
	oldVersion := sc.Version
	result := r.db.WithContext(ctx).
		Model(&model.ScheduledCourse{}).
		Where("scheduled_course_id = ? AND version = ?", sc.ScheduledCourseID, oldVersion).
		Updates(map[string]interface{}{
			"professor_id":    sc.ProfessorID,
			"timeslot_id":     sc.TimeSlotID,
			"day_of_week":     sc.DayOfWeek,
			"is_override":     sc.IsOverride,
			"override_reason": sc.OverrideReason,
			"updated_by":      sc.UpdatedBy,
			"version":         oldVersion + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	sc.Version = oldVersion + 1
	return nil
}

func (r *scheduledCourseRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("scheduled_course_id = ?", id).
		Delete(&model.ScheduledCourse{}).Error
}

func (r *scheduledCourseRepo) DeleteBySchedule(ctx context.Context, scheduleID string) error {
	return r.db.WithContext(ctx).
		Where("schedule_id = ?", scheduleID).
		Delete(&model.ScheduledCourse{}).Error
}

// ── PlacementHistory Repository 实现 ──

type placementHistoryRepo struct {
	db *gorm.DB
}

func NewPlacementHistoryRepo(db *gorm.DB) PlacementHistoryRepository {
	return &placementHistoryRepo{db: db}
}

func (r *placementHistoryRepo) Create(ctx context.Context, h *model.PlacementHistory) error {
	return r.db.WithContext(ctx).Create(h).Error
}

func (r *placementHistoryRepo) ListByScheduledCourse(ctx context.Context, scheduledCourseID string) ([]model.PlacementHistory, error) {
	var list []model.PlacementHistory
	err := r.db.WithContext(ctx).
		Where("scheduled_course_id = ?", scheduledCourseID).
		Order("created_at DESC, history_id DESC").
		Find(&list).Error
	return list, err
}

func (r *placementHistoryRepo) LatestPending(ctx context.Context, scheduledCourseID string, conflictID *string) (*model.PlacementHistory, error) {
	var h model.PlacementHistory
	q := r.db.WithContext(ctx).
		Where("scheduled_course_id = ? AND reverted_at IS NULL", scheduledCourseID)
	if conflictID != nil {
		q = q.Where("conflict_id = ?", *conflictID)
	}
	if err := q.Order("created_at DESC, history_id DESC").First(&h).Error; err != nil {
		return nil, err
	}
	return &h, nil
}

func (r *placementHistoryRepo) MarkReverted(ctx context.Context, historyID string, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&model.PlacementHistory{}).
		Where("history_id = ?", historyID).
		Update("reverted_at", at).Error
}

func (r *placementHistoryRepo) DeleteByScheduledCourse(ctx context.Context, scheduledCourseID string) error {
	return r.db.WithContext(ctx).
		Where("scheduled_course_id = ?", scheduledCourseID).
		Delete(&model.PlacementHistory{}).Error
}

func (r *placementHistoryRepo) DeleteBySchedule(ctx context.Context, scheduleID string) error {
	return r.db.WithContext(ctx).
		Where("schedule_id = ?", scheduleID).
		Delete(&model.PlacementHistory{}).Error
}
