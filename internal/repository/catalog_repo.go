package repository

import (
	"context"

	"gorm.io/gorm"

	"course-scheduler/backend/internal/model"
)

// 目录数据由外部 CRUD 系统维护，这里只提供只读查询

// SemesterRepository 学期只读接口
type SemesterRepository interface {
	GetByID(ctx context.Context, id string) (*model.Semester, error)
}

// CourseRepository 课程只读接口
type CourseRepository interface {
	GetByID(ctx context.Context, id string) (*model.Course, error)
	ListBySemester(ctx context.Context, semesterID string) ([]model.Course, error)
	ListByIDs(ctx context.Context, ids []string) ([]model.Course, error)
}

// ProfessorRepository 教师只读接口
type ProfessorRepository interface {
	GetByID(ctx context.Context, id string) (*model.Professor, error)
	List(ctx context.Context) ([]model.Professor, error)
	ListEligibility(ctx context.Context, courseIDs []string) ([]model.ProfessorCourse, error)
}

// TimeSlotRepository 时间段目录只读接口
type TimeSlotRepository interface {
	GetByID(ctx context.Context, id string) (*model.TimeSlot, error)
	GetByIDAndDay(ctx context.Context, id string, day model.DayOfWeek) (*model.TimeSlot, error)
	List(ctx context.Context) ([]model.TimeSlot, error)
}

// ── Semester ──

type semesterRepo struct {
	db *gorm.DB
}

func NewSemesterRepo(db *gorm.DB) SemesterRepository {
	return &semesterRepo{db: db}
}

func (r *semesterRepo) GetByID(ctx context.Context, id string) (*model.Semester, error) {
	var s model.Semester
	if err := r.db.WithContext(ctx).Where("semester_id = ?", id).First(&s).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

// ── Course ──

type courseRepo struct {
	db *gorm.DB
}

func NewCourseRepo(db *gorm.DB) CourseRepository {
	return &courseRepo{db: db}
}

func (r *courseRepo) GetByID(ctx context.Context, id string) (*model.Course, error) {
	var c model.Course
	if err := r.db.WithContext(ctx).Where("course_id = ?", id).First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *courseRepo) ListBySemester(ctx context.Context, semesterID string) ([]model.Course, error) {
	var list []model.Course
	err := r.db.WithContext(ctx).
		Joins("JOIN course_semesters cs ON cs.course_id = courses.course_id").
		Where("cs.semester_id = ?", semesterID).
		Order("courses.is_core DESC, courses.course_name ASC, courses.course_id ASC").
		Find(&list).Error
	return list, err
}

func (r *courseRepo) ListByIDs(ctx context.Context, ids []string) ([]model.Course, error) {
	var list []model.Course
	if len(ids) == 0 {
		return list, nil
	}
	err := r.db.WithContext(ctx).Where("course_id IN ?", ids).Find(&list).Error
	return list, err
}

// ── Professor ──

type professorRepo struct {
	db *gorm.DB
}

func NewProfessorRepo(db *gorm.DB) ProfessorRepository {
	return &professorRepo{db: db}
}

func (r *professorRepo) GetByID(ctx context.Context, id string) (*model.Professor, error) {
	var p model.Professor
	if err := r.db.WithContext(ctx).Where("professor_id = ?", id).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *professorRepo) List(ctx context.Context) ([]model.Professor, error) {
	var list []model.Professor
	err := r.db.WithContext(ctx).Order("professor_id ASC").Find(&list).Error
	return list, err
}

func (r *professorRepo) ListEligibility(ctx context.Context, courseIDs []string) ([]model.ProfessorCourse, error) {
	var list []model.ProfessorCourse
	if len(courseIDs) == 0 {
		return list, nil
	}
	err := r.db.WithContext(ctx).
		Where("course_id IN ?", courseIDs).
		Order("course_id ASC, professor_id ASC").
		Find(&list).Error
	return list, err
}

// ── TimeSlot ──

type timeSlotRepo struct {
	db *gorm.DB
}

func NewTimeSlotRepo(db *gorm.DB) TimeSlotRepository {
	return &timeSlotRepo{db: db}
}

func (r *timeSlotRepo) GetByID(ctx context.Context, id string) (*model.TimeSlot, error) {
	var ts model.TimeSlot
	if err := r.db.WithContext(ctx).Where("timeslot_id = ?", id).First(&ts).Error; err != nil {
		return nil, err
	}
	return &ts, nil
}

func (r *timeSlotRepo) GetByIDAndDay(ctx context.Context, id string, day model.DayOfWeek) (*model.TimeSlot, error) {
	var ts model.TimeSlot
	err := r.db.WithContext(ctx).
		Where("timeslot_id = ? AND day_of_week = ?", id, day).
		First(&ts).Error
	if err != nil {
		return nil, err
	}
	return &ts, nil
}

// List 星期顺序由调用方排序（库内为英文全称，无法直接按字典序排）
func (r *timeSlotRepo) List(ctx context.Context) ([]model.TimeSlot, error) {
	var list []model.TimeSlot
	err := r.db.WithContext(ctx).Order("start_time ASC, timeslot_id ASC").Find(&list).Error
	return list, err
}
