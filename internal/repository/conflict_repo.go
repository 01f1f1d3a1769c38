package repository

import (
	"context"

	"gorm.io/gorm"

	"course-scheduler/backend/internal/model"
)

// ConflictRepository 冲突数据访问接口
type ConflictRepository interface {
	Create(ctx context.Context, c *model.Conflict) error
	GetByID(ctx context.Context, id string) (*model.Conflict, error)
	ListBySchedule(ctx context.Context, scheduleID string) ([]model.Conflict, error)
	CountUnresolved(ctx context.Context, scheduleID string) (int64, error)
	// Update 仅更新解决状态与备注
	Update(ctx context.Context, c *model.Conflict) error
	DeleteBySchedule(ctx context.Context, scheduleID string) error
}

// ConflictCourseRepository 冲突关联数据访问接口
type ConflictCourseRepository interface {
	BatchCreate(ctx context.Context, links []model.ConflictCourse) error
	ListByConflicts(ctx context.Context, conflictIDs []string) ([]model.ConflictCourse, error)
	DeleteByScheduledCourse(ctx context.Context, scheduledCourseID string) error
	DeleteBySchedule(ctx context.Context, scheduleID string) error
}

// ── Conflict Repository 实现 ──

type conflictRepo struct {
	db *gorm.DB
}

func NewConflictRepo(db *gorm.DB) ConflictRepository {
	return &conflictRepo{db: db}
}

func (r *conflictRepo) Create(ctx context.Context, c *model.Conflict) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *conflictRepo) GetByID(ctx context.Context, id string) (*model.Conflict, error) {
	var c model.Conflict
	if err := r.db.WithContext(ctx).Where("conflict_id = ?", id).First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *conflictRepo) ListBySchedule(ctx context.Context, scheduleID string) ([]model.Conflict, error) {
	var list []model.Conflict
	err := r.db.WithContext(ctx).
		Where("schedule_id = ?", scheduleID).
		Order("is_resolved ASC, created_at DESC, conflict_id ASC").
		Find(&list).Error
	return list, err
}

func (r *conflictRepo) CountUnresolved(ctx context.Context, scheduleID string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&model.Conflict{}).
		Where("schedule_id = ? AND is_resolved = ?", scheduleID, false).
		Count(&n).Error
	return n, err
}

func (r *conflictRepo) Update(ctx context.Context, c *model.Conflict) error {
	return r.db.WithContext(ctx).
		Model(&model.Conflict{}).
		Where("conflict_id = ?", c.ConflictID).
		Updates(map[string]interface{}{
			"is_resolved":      c.IsResolved,
			"resolution_notes": c.ResolutionNotes,
			"updated_by":       c.UpdatedBy,
		}).Error
}

func (r *conflictRepo) DeleteBySchedule(ctx context.Context, scheduleID string) error {
	return r.db.WithContext(ctx).
		Where("schedule_id = ?", scheduleID).
		Delete(&model.Conflict{}).Error
}

// ── ConflictCourse Repository 实现 ──

type conflictCourseRepo struct {
	db *gorm.DB
}

func NewConflictCourseRepo(db *gorm.DB) ConflictCourseRepository {
	return &conflictCourseRepo{db: db}
}

func (r *conflictCourseRepo) BatchCreate(ctx context.Context, links []model.ConflictCourse) error {
	if len(links) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).CreateInBatches(links, 100).Error
}

func (r *conflictCourseRepo) ListByConflicts(ctx context.Context, conflictIDs []string) ([]model.ConflictCourse, error) {
	var list []model.ConflictCourse
	if len(conflictIDs) == 0 {
		return list, nil
	}
	err := r.db.WithContext(ctx).
		Where("conflict_id IN ?", conflictIDs).
		Order("conflict_id ASC, scheduled_course_id ASC").
		Find(&list).Error
	return list, err
}

func (r *conflictCourseRepo) DeleteByScheduledCourse(ctx context.Context, scheduledCourseID string) error {
	return r.db.WithContext(ctx).
		Where("scheduled_course_id = ?", scheduledCourseID).
		Delete(&model.ConflictCourse{}).Error
}

// DeleteBySchedule 删除该方案下冲突的全部关联，以及指向该方案落位的关联
func (r *conflictCourseRepo) DeleteBySchedule(ctx context.Context, scheduleID string) error {
	db := r.db.WithContext(ctx)
	conflictIDs := db.Model(&model.Conflict{}).Select("conflict_id").Where("schedule_id = ?", scheduleID)
	courseIDs := db.Model(&model.ScheduledCourse{}).Select("scheduled_course_id").Where("schedule_id = ?", scheduleID)
	return db.
		Where("conflict_id IN (?) OR scheduled_course_id IN (?)", conflictIDs, courseIDs).
		Delete(&model.ConflictCourse{}).Error
}
