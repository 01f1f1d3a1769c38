package repository

import (
	"context"

	"gorm.io/gorm"

	"course-scheduler/backend/internal/model"
)

// AvailabilityRepository 教师可用性数据访问接口
type AvailabilityRepository interface {
	ListByProfessor(ctx context.Context, professorID string) ([]model.ProfessorAvailability, error)
	ListByProfessors(ctx context.Context, professorIDs []string) ([]model.ProfessorAvailability, error)
	// ReplaceByProfessor 删除该教师全部记录后批量写入（同一事务）
	ReplaceByProfessor(ctx context.Context, professorID string, entries []model.ProfessorAvailability) error
}

type availabilityRepo struct {
	db *gorm.DB
}

func NewAvailabilityRepo(db *gorm.DB) AvailabilityRepository {
	return &availabilityRepo{db: db}
}

func (r *availabilityRepo) ListByProfessor(ctx context.Context, professorID string) ([]model.ProfessorAvailability, error) {
	var list []model.ProfessorAvailability
	err := r.db.WithContext(ctx).
		Where("professor_id = ?", professorID).
		Order("timeslot_id ASC").
		Find(&list).Error
	return list, err
}

func (r *availabilityRepo) ListByProfessors(ctx context.Context, professorIDs []string) ([]model.ProfessorAvailability, error) {
	var list []model.ProfessorAvailability
	if len(professorIDs) == 0 {
		return list, nil
	}
	err := r.db.WithContext(ctx).Where("professor_id IN ?", professorIDs).Find(&list).Error
	return list, err
}

func (r *availabilityRepo) ReplaceByProfessor(ctx context.Context, professorID string, entries []model.ProfessorAvailability) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("professor_id = ?", professorID).Delete(&model.ProfessorAvailability{}).Error; err != nil {
			return err
		}
		if len(entries) == 0 {
			return nil
		}
		return tx.CreateInBatches(entries, 100).Error
	})
}
