package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"course-scheduler/backend/internal/dto"
	"course-scheduler/backend/internal/metrics"
	"course-scheduler/backend/internal/model"
	"course-scheduler/backend/internal/repository"
	"course-scheduler/backend/internal/scheduler"
	pkgerrors "course-scheduler/backend/pkg/errors"
)

// ── 排课方案模块业务错误 ──

var (
	ErrScheduleNotFound        = pkgerrors.NotFound(13101, "排课方案不存在")
	ErrSemesterNotFound        = pkgerrors.NotFound(13102, "学期不存在")
	ErrScheduleFinal           = pkgerrors.ConflictState(13103, "排课方案已定稿，不允许修改")
	ErrUnresolvedConflicts     = pkgerrors.ConflictState(13104, "存在未解决的冲突，无法定稿")
	ErrNoScheduleChanges       = pkgerrors.Validation(13105, "未提供任何修改内容")
	ErrScheduleNameRequired    = pkgerrors.Validation(13106, "方案名称不能为空")
	ErrScheduledCourseNotFound = pkgerrors.NotFound(13107, "课程落位不存在")
)

// ── 手动落位业务错误 ──

var (
	ErrCourseNotFound      = pkgerrors.NotFound(13401, "课程不存在")
	ErrTimeSlotNotFound    = pkgerrors.NotFound(13402, "时间段不存在")
	ErrInvalidDay          = pkgerrors.Validation(13403, "星期格式不正确")
	ErrDurationMismatch    = pkgerrors.Validation(13404, "课程时长与时间段不匹配")
	ErrCourseNotInSchedule = pkgerrors.Validation(13405, "课程落位不属于该排课方案")
)

const defaultOverrideReason = "Manual override by administrator"

// ScheduleService 排课方案业务接口
type ScheduleService interface {
	// Generate 为学期生成新方案：落位、未落位冲突与时段冲突在同一事务内写入
	Generate(ctx context.Context, req *dto.GenerateScheduleRequest, operatorID string) (*dto.GenerateScheduleResponse, error)
	// GetByID 方案详情（含落位与未解决冲突数）
	GetByID(ctx context.Context, id string) (*dto.ScheduleResponse, error)
	// List 方案列表，semester_id 为空时返回全部
	List(ctx context.Context, req *dto.ListSchedulesRequest) ([]dto.ScheduleResponse, error)
	// Update 重命名或切换定稿状态
	Update(ctx context.Context, id string, req *dto.UpdateScheduleRequest, operatorID string) (*dto.ScheduleResponse, error)
	// Delete 级联删除方案及其落位、冲突、历史
	Delete(ctx context.Context, id string) error

	// ListScheduledCourses 方案下全部落位
	ListScheduledCourses(ctx context.Context, scheduleID string) ([]dto.ScheduledCourseResponse, error)
	// DeleteScheduledCourse 删除单个落位（定稿方案拒绝）
	DeleteScheduledCourse(ctx context.Context, id string) error
	// CreateOverride 手动指定课程落位，与同时段已有落位产生 MANUAL_OVERRIDE_CONFLICT
	CreateOverride(ctx context.Context, req *dto.CreateOverrideRequest, operatorID string) (*dto.CreateOverrideResponse, error)
	// GetPlacementHistory 落位调整历史（新→旧）
	GetPlacementHistory(ctx context.Context, scheduledCourseID string) ([]dto.PlacementHistoryResponse, error)
	// DetectConflicts 全量重新检测，已被未解决冲突覆盖的分组跳过
	DetectConflicts(ctx context.Context, scheduleID string) (*dto.DetectConflictsResponse, error)

	// ListTimeSlots 时间段目录
	ListTimeSlots(ctx context.Context) ([]dto.TimeSlotBrief, error)
}

type scheduleService struct {
	repo   *repository.Repository
	policy scheduler.Policy
	locker ScheduleLocker
	logger *zap.Logger
}

// NewScheduleService 创建 ScheduleService 实例
func NewScheduleService(repo *repository.Repository, policy scheduler.Policy, locker ScheduleLocker, logger *zap.Logger) ScheduleService {
	if locker == nil {
		locker = noopLocker{}
	}
	return &scheduleService{repo: repo, policy: policy, locker: locker, logger: logger}
}

// ════════════════════════════════════════════════════════════
// Generate
// ════════════════════════════════════════════════════════════

func (s *scheduleService) Generate(ctx context.Context, req *dto.GenerateScheduleRequest, operatorID string) (*dto.GenerateScheduleResponse, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, ErrScheduleNameRequired
	}

	semester, err := s.repo.Semester.GetByID(ctx, req.SemesterID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSemesterNotFound
		}
		s.logger.Error("查询学期失败", zap.Error(err))
		return nil, err
	}

	unlock, err := s.locker.Lock(ctx, semesterLockName(semester.SemesterID))
	if err != nil {
		return nil, err
	}
	defer unlock()

	started := time.Now()
	op := operatorPtr(operatorID)
	schedule := &model.Schedule{
		ScheduleID: model.NewID(model.PrefixSchedule),
		SemesterID: semester.SemesterID,
		Name:       name,
		VersionedModel: model.VersionedModel{
			BaseModel: model.BaseModel{CreatedBy: op, UpdatedBy: op},
			Version:   1,
		},
	}

	var (
		result    scheduler.Result
		conflicts []model.Conflict
	)
	err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		input, err := loadInput(ctx, tx, semester.SemesterID)
		if err != nil {
			return err
		}

		if err := tx.Schedule.Create(ctx, schedule); err != nil {
			return err
		}

		result = scheduler.Assign(*input, s.policy)

		placements := make([]model.ScheduledCourse, 0, len(result.Placements))
		for _, p := range result.Placements {
			placements = append(placements, model.ScheduledCourse{
				ScheduledCourseID: model.NewID(model.PrefixScheduledCourse),
				ScheduleID:        schedule.ScheduleID,
				CourseID:          p.CourseID,
				ProfessorID:       p.ProfessorID,
				TimeSlotID:        p.TimeSlotID,
				DayOfWeek:         p.Day,
				VersionedModel: model.VersionedModel{
					BaseModel: model.BaseModel{CreatedBy: op, UpdatedBy: op},
					Version:   1,
				},
			})
		}
		if err := tx.ScheduledCourse.BatchCreate(ctx, placements); err != nil {
			return err
		}

		for _, u := range result.Unplaced {
			c, err := persistUnplaced(ctx, tx, schedule.ScheduleID, u)
			if err != nil {
				return err
			}
			conflicts = append(conflicts, *c)
		}

		names := make(map[string]string, len(input.Courses))
		for _, c := range input.Courses {
			names[c.CourseID] = c.CourseName
		}
		for _, col := range scheduler.DetectCollisions(placements) {
			c, err := persistCollision(ctx, tx, schedule.ScheduleID, col, names)
			if err != nil {
				return err
			}
			conflicts = append(conflicts, *c)
		}
		return nil
	})
	if err != nil {
		s.logger.Error("生成排课方案失败", zap.String("semester_id", semester.SemesterID), zap.Error(err))
		return nil, err
	}

	metrics.GenerationDuration.Observe(time.Since(started).Seconds())
	metrics.CoursesPlaced.WithLabelValues(metrics.OutcomePlaced).Add(float64(len(result.Placements)))
	metrics.CoursesPlaced.WithLabelValues(metrics.OutcomeUnplaced).Add(float64(len(result.Unplaced)))

	s.logger.Info("排课方案已生成",
		zap.String("schedule_id", schedule.ScheduleID),
		zap.String("semester_id", semester.SemesterID),
		zap.Int("placed", len(result.Placements)),
		zap.Int("unplaced", len(result.Unplaced)),
		zap.Int("conflicts", len(conflicts)),
	)

	schedule.Semester = semester
	scheduleResp, err := s.detail(ctx, schedule)
	if err != nil {
		return nil, err
	}
	conflictResps, err := buildConflictResponses(ctx, s.repo, conflicts)
	if err != nil {
		s.logger.Error("组装冲突信息失败", zap.Error(err))
		return nil, err
	}

	return &dto.GenerateScheduleResponse{
		Schedule:      *scheduleResp,
		Conflicts:     conflictResps,
		PlacedCount:   len(result.Placements),
		UnplacedCount: len(result.Unplaced),
	}, nil
}

// loadInput 读取学期课程、授课资格、时间段与可用性
func loadInput(ctx context.Context, repo *repository.Repository, semesterID string) (*scheduler.Input, error) {
	courses, err := repo.Course.ListBySemester(ctx, semesterID)
	if err != nil {
		return nil, err
	}
	courseIDs := make([]string, 0, len(courses))
	for _, c := range courses {
		courseIDs = append(courseIDs, c.CourseID)
	}

	eligibility, err := repo.Professor.ListEligibility(ctx, courseIDs)
	if err != nil {
		return nil, err
	}
	professors, err := repo.Professor.List(ctx)
	if err != nil {
		return nil, err
	}
	profIDs := make([]string, 0, len(professors))
	for _, p := range professors {
		profIDs = append(profIDs, p.ProfessorID)
	}

	slots, err := repo.TimeSlot.List(ctx)
	if err != nil {
		return nil, err
	}
	availability, err := repo.Availability.ListByProfessors(ctx, profIDs)
	if err != nil {
		return nil, err
	}

	return &scheduler.Input{
		Courses:      courses,
		Professors:   professors,
		Eligibility:  eligibility,
		Slots:        slots,
		Availability: availability,
	}, nil
}

// ════════════════════════════════════════════════════════════
// 查询
// ════════════════════════════════════════════════════════════

func (s *scheduleService) GetByID(ctx context.Context, id string) (*dto.ScheduleResponse, error) {
	schedule, err := s.getSchedule(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.detail(ctx, schedule)
}

func (s *scheduleService) List(ctx context.Context, req *dto.ListSchedulesRequest) ([]dto.ScheduleResponse, error) {
	list, err := s.repo.Schedule.List(ctx, req.SemesterID)
	if err != nil {
		s.logger.Error("查询排课方案列表失败", zap.Error(err))
		return nil, err
	}
	out := make([]dto.ScheduleResponse, 0, len(list))
	for i := range list {
		out = append(out, toScheduleResponse(&list[i]))
	}
	return out, nil
}

func (s *scheduleService) ListScheduledCourses(ctx context.Context, scheduleID string) ([]dto.ScheduledCourseResponse, error) {
	if _, err := s.getSchedule(ctx, scheduleID); err != nil {
		return nil, err
	}
	list, err := s.repo.ScheduledCourse.ListBySchedule(ctx, scheduleID)
	if err != nil {
		s.logger.Error("查询课程落位失败", zap.String("schedule_id", scheduleID), zap.Error(err))
		return nil, err
	}
	out := make([]dto.ScheduledCourseResponse, 0, len(list))
	for i := range list {
		out = append(out, toScheduledCourseResponse(&list[i]))
	}
	return out, nil
}

func (s *scheduleService) GetPlacementHistory(ctx context.Context, scheduledCourseID string) ([]dto.PlacementHistoryResponse, error) {
	if _, err := s.getScheduledCourse(ctx, scheduledCourseID); err != nil {
		return nil, err
	}
	list, err := s.repo.PlacementHistory.ListByScheduledCourse(ctx, scheduledCourseID)
	if err != nil {
		s.logger.Error("查询落位历史失败", zap.String("scheduled_course_id", scheduledCourseID), zap.Error(err))
		return nil, err
	}
	out := make([]dto.PlacementHistoryResponse, 0, len(list))
	for i := range list {
		out = append(out, toHistoryResponse(&list[i]))
	}
	return out, nil
}

func (s *scheduleService) ListTimeSlots(ctx context.Context) ([]dto.TimeSlotBrief, error) {
	slots, err := s.repo.TimeSlot.List(ctx)
	if err != nil {
		s.logger.Error("查询时间段失败", zap.Error(err))
		return nil, err
	}
	scheduler.SortSlots(slots)
	out := make([]dto.TimeSlotBrief, 0, len(slots))
	for i := range slots {
		out = append(out, *toTimeSlotBrief(&slots[i]))
	}
	return out, nil
}

// ════════════════════════════════════════════════════════════
// Update（重命名 / 定稿）
// ════════════════════════════════════════════════════════════

func (s *scheduleService) Update(ctx context.Context, id string, req *dto.UpdateScheduleRequest, operatorID string) (*dto.ScheduleResponse, error) {
	if req.Name == nil && req.IsFinal == nil {
		return nil, ErrNoScheduleChanges
	}

	unlock, err := s.locker.Lock(ctx, scheduleLockName(id))
	if err != nil {
		return nil, err
	}
	defer unlock()

	err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		// 行锁保证计数与写入之间没有新的未解决冲突
		schedule, err := tx.Schedule.GetByIDForUpdate(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrScheduleNotFound
			}
			return err
		}

		changed := false
		if req.Name != nil {
			name := strings.TrimSpace(*req.Name)
			if name == "" {
				return ErrScheduleNameRequired
			}
			if name != schedule.Name {
				schedule.Name = name
				changed = true
			}
		}
		if req.IsFinal != nil && *req.IsFinal != schedule.IsFinal {
			if *req.IsFinal {
				n, err := tx.Conflict.CountUnresolved(ctx, id)
				if err != nil {
					return err
				}
				if n > 0 {
					return ErrUnresolvedConflicts.With("unresolved_conflicts", n)
				}
			}
			schedule.IsFinal = *req.IsFinal
			changed = true
		}
		if !changed {
			return ErrNoScheduleChanges
		}

		schedule.UpdatedBy = operatorPtr(operatorID)
		return tx.Schedule.Update(ctx, schedule)
	})
	if err != nil {
		if pkgerrors.KindOf(err) == pkgerrors.KindInternal && !errors.Is(err, pkgerrors.ErrOptimisticLock) {
			s.logger.Error("更新排课方案失败", zap.String("schedule_id", id), zap.Error(err))
		}
		return nil, err
	}

	s.logger.Info("排课方案已更新", zap.String("schedule_id", id))
	return s.GetByID(ctx, id)
}

// ════════════════════════════════════════════════════════════
// Delete
// ════════════════════════════════════════════════════════════

func (s *scheduleService) Delete(ctx context.Context, id string) error {
	if _, err := s.getSchedule(ctx, id); err != nil {
		return err
	}

	unlock, err := s.locker.Lock(ctx, scheduleLockName(id))
	if err != nil {
		return err
	}
	defer unlock()

	err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		if err := tx.ConflictCourse.DeleteBySchedule(ctx, id); err != nil {
			return err
		}
		if err := tx.PlacementHistory.DeleteBySchedule(ctx, id); err != nil {
			return err
		}
		if err := tx.Conflict.DeleteBySchedule(ctx, id); err != nil {
			return err
		}
		if err := tx.ScheduledCourse.DeleteBySchedule(ctx, id); err != nil {
			return err
		}
		return tx.Schedule.Delete(ctx, id)
	})
	if err != nil {
		s.logger.Error("删除排课方案失败", zap.String("schedule_id", id), zap.Error(err))
		return err
	}

	s.logger.Info("排课方案已删除", zap.String("schedule_id", id))
	return nil
}

func (s *scheduleService) DeleteScheduledCourse(ctx context.Context, id string) error {
	sc, err := s.getScheduledCourse(ctx, id)
	if err != nil {
		return err
	}
	schedule, err := s.getSchedule(ctx, sc.ScheduleID)
	if err != nil {
		return err
	}
	if schedule.IsFinal {
		return ErrScheduleFinal
	}

	unlock, err := s.locker.Lock(ctx, scheduleLockName(schedule.ScheduleID))
	if err != nil {
		return err
	}
	defer unlock()

	err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		if err := lockOpenSchedule(ctx, tx, schedule.ScheduleID); err != nil {
			return err
		}
		if err := tx.ConflictCourse.DeleteByScheduledCourse(ctx, id); err != nil {
			return err
		}
		if err := tx.PlacementHistory.DeleteByScheduledCourse(ctx, id); err != nil {
			return err
		}
		return tx.ScheduledCourse.Delete(ctx, id)
	})
	if err != nil {
		if !errors.Is(err, ErrScheduleFinal) {
			s.logger.Error("删除课程落位失败", zap.String("scheduled_course_id", id), zap.Error(err))
		}
		return err
	}
	return nil
}

// ════════════════════════════════════════════════════════════
// CreateOverride
// ════════════════════════════════════════════════════════════

func (s *scheduleService) CreateOverride(ctx context.Context, req *dto.CreateOverrideRequest, operatorID string) (*dto.CreateOverrideResponse, error) {
	day, err := model.ParseDay(req.DayOfWeek)
	if err != nil {
		return nil, ErrInvalidDay.With("day_of_week", req.DayOfWeek)
	}

	schedule, err := s.getSchedule(ctx, req.ScheduleID)
	if err != nil {
		return nil, err
	}
	if schedule.IsFinal {
		return nil, ErrScheduleFinal
	}

	course, err := s.repo.Course.GetByID(ctx, req.CourseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCourseNotFound
		}
		return nil, err
	}
	if _, err := s.repo.Professor.GetByID(ctx, req.ProfessorID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfessorNotFound
		}
		return nil, err
	}
	slot, err := s.repo.TimeSlot.GetByIDAndDay(ctx, req.TimeSlotID, day)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTimeSlotNotFound
		}
		return nil, err
	}
	if !scheduler.DurationCompatible(course.DurationMinutes, slot.DurationMinutes, s.policy.DurationTolerance) {
		return nil, ErrDurationMismatch.
			With("course_minutes", course.DurationMinutes).
			With("slot_minutes", slot.DurationMinutes)
	}

	reason := strings.TrimSpace(req.Reason)
	if reason == "" {
		reason = defaultOverrideReason
	}

	unlock, err := s.locker.Lock(ctx, scheduleLockName(schedule.ScheduleID))
	if err != nil {
		return nil, err
	}
	defer unlock()

	op := operatorPtr(operatorID)
	var (
		scID     string
		conflict *model.Conflict
	)
	err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		if err := lockOpenSchedule(ctx, tx, schedule.ScheduleID); err != nil {
			return err
		}
		sc, err := tx.ScheduledCourse.FindByScheduleAndCourse(ctx, schedule.ScheduleID, course.CourseID)
		switch {
		case err == nil:
			overrideReason := scheduler.EncodeProvenance(sc.TimeSlotID, sc.DayOfWeek, reason)
			history, err := newHistory(sc, nil, overrideReason, op)
			if err != nil {
				return err
			}
			if err := tx.PlacementHistory.Create(ctx, history); err != nil {
				return err
			}
			sc.ProfessorID = req.ProfessorID
			sc.TimeSlotID = slot.TimeSlotID
			sc.DayOfWeek = slot.DayOfWeek
			sc.IsOverride = true
			sc.OverrideReason = overrideReason
			sc.UpdatedBy = op
			if err := tx.ScheduledCourse.Update(ctx, sc); err != nil {
				return err
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			sc = &model.ScheduledCourse{
				ScheduledCourseID: model.NewID(model.PrefixScheduledCourse),
				ScheduleID:        schedule.ScheduleID,
				CourseID:          course.CourseID,
				ProfessorID:       req.ProfessorID,
				TimeSlotID:        slot.TimeSlotID,
				DayOfWeek:         slot.DayOfWeek,
				IsOverride:        true,
				OverrideReason:    reason,
				VersionedModel: model.VersionedModel{
					BaseModel: model.BaseModel{CreatedBy: op, UpdatedBy: op},
					Version:   1,
				},
			}
			if err := tx.ScheduledCourse.Create(ctx, sc); err != nil {
				return err
			}
		default:
			return err
		}
		scID = sc.ScheduledCourseID

		others, err := tx.ScheduledCourse.ListAtSlot(ctx, schedule.ScheduleID, slot.TimeSlotID, slot.DayOfWeek)
		if err != nil {
			return err
		}
		col := scheduler.DetectForChange(*sc, others, true)
		if col == nil {
			return nil
		}
		names, err := courseNames(ctx, tx, col.Members)
		if err != nil {
			return err
		}
		conflict, err = persistCollision(ctx, tx, schedule.ScheduleID, *col, names)
		return err
	})
	if err != nil {
		if !errors.Is(err, pkgerrors.ErrOptimisticLock) && !errors.Is(err, ErrScheduleFinal) {
			s.logger.Error("手动落位失败", zap.String("schedule_id", schedule.ScheduleID), zap.Error(err))
		}
		return nil, err
	}

	s.logger.Info("手动落位完成",
		zap.String("scheduled_course_id", scID),
		zap.String("timeslot_id", slot.TimeSlotID),
		zap.Bool("conflict", conflict != nil),
	)

	sc, err := s.getScheduledCourse(ctx, scID)
	if err != nil {
		return nil, err
	}
	resp := &dto.CreateOverrideResponse{ScheduledCourse: toScheduledCourseResponse(sc)}
	if conflict != nil {
		views, err := buildConflictResponses(ctx, s.repo, []model.Conflict{*conflict})
		if err != nil {
			return nil, err
		}
		resp.ConflictsCreated = true
		resp.Conflict = &views[0]
	}
	return resp, nil
}

// ════════════════════════════════════════════════════════════
// DetectConflicts
// ════════════════════════════════════════════════════════════

func (s *scheduleService) DetectConflicts(ctx context.Context, scheduleID string) (*dto.DetectConflictsResponse, error) {
	schedule, err := s.getSchedule(ctx, scheduleID)
	if err != nil {
		return nil, err
	}
	if schedule.IsFinal {
		return nil, ErrScheduleFinal
	}

	unlock, err := s.locker.Lock(ctx, scheduleLockName(scheduleID))
	if err != nil {
		return nil, err
	}
	defer unlock()

	var (
		created []model.Conflict
		skipped int
	)
	err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		if err := lockOpenSchedule(ctx, tx, scheduleID); err != nil {
			return err
		}
		placements, err := tx.ScheduledCourse.ListBySchedule(ctx, scheduleID)
		if err != nil {
			return err
		}
		existing, err := tx.Conflict.ListBySchedule(ctx, scheduleID)
		if err != nil {
			return err
		}
		covered, err := conflictMemberKeys(ctx, tx, existing)
		if err != nil {
			return err
		}

		collisions := scheduler.DetectCollisions(placements)
		if len(collisions) == 0 {
			return nil
		}
		names, err := courseNames(ctx, tx, placements)
		if err != nil {
			return err
		}
		for _, col := range collisions {
			if covered[memberKey(col.MemberIDs())] {
				skipped++
				continue
			}
			c, err := persistCollision(ctx, tx, scheduleID, col, names)
			if err != nil {
				return err
			}
			created = append(created, *c)
		}
		return nil
	})
	if err != nil {
		if !errors.Is(err, ErrScheduleFinal) {
			s.logger.Error("冲突检测失败", zap.String("schedule_id", scheduleID), zap.Error(err))
		}
		return nil, err
	}

	views, err := buildConflictResponses(ctx, s.repo, created)
	if err != nil {
		return nil, err
	}
	return &dto.DetectConflictsResponse{Created: views, Skipped: skipped}, nil
}

// conflictMemberKeys 已有冲突的成员集合，已接受的冲突同样计入
func conflictMemberKeys(ctx context.Context, repo *repository.Repository, conflicts []model.Conflict) (map[string]bool, error) {
	ids := make([]string, 0, len(conflicts))
	for _, c := range conflicts {
		ids = append(ids, c.ConflictID)
	}
	keys := make(map[string]bool, len(ids))
	if len(ids) == 0 {
		return keys, nil
	}
	links, err := repo.ConflictCourse.ListByConflicts(ctx, ids)
	if err != nil {
		return nil, err
	}
	members := make(map[string][]string, len(ids))
	for _, l := range links {
		members[l.ConflictID] = append(members[l.ConflictID], l.ScheduledCourseID)
	}
	for _, m := range members {
		keys[memberKey(sortedCopy(m))] = true
	}
	return keys, nil
}

// ── 内部方法 ──

func (s *scheduleService) getSchedule(ctx context.Context, id string) (*model.Schedule, error) {
	schedule, err := s.repo.Schedule.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrScheduleNotFound
		}
		s.logger.Error("查询排课方案失败", zap.String("schedule_id", id), zap.Error(err))
		return nil, err
	}
	return schedule, nil
}

func (s *scheduleService) getScheduledCourse(ctx context.Context, id string) (*model.ScheduledCourse, error) {
	sc, err := s.repo.ScheduledCourse.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrScheduledCourseNotFound
		}
		s.logger.Error("查询课程落位失败", zap.String("scheduled_course_id", id), zap.Error(err))
		return nil, err
	}
	return sc, nil
}

// detail 方案 + 落位 + 未解决冲突数
func (s *scheduleService) detail(ctx context.Context, schedule *model.Schedule) (*dto.ScheduleResponse, error) {
	placements, err := s.repo.ScheduledCourse.ListBySchedule(ctx, schedule.ScheduleID)
	if err != nil {
		s.logger.Error("查询课程落位失败", zap.String("schedule_id", schedule.ScheduleID), zap.Error(err))
		return nil, err
	}
	unresolved, err := s.repo.Conflict.CountUnresolved(ctx, schedule.ScheduleID)
	if err != nil {
		s.logger.Error("统计未解决冲突失败", zap.String("schedule_id", schedule.ScheduleID), zap.Error(err))
		return nil, err
	}

	resp := toScheduleResponse(schedule)
	resp.UnresolvedConflicts = &unresolved
	resp.ScheduledCourses = make([]dto.ScheduledCourseResponse, 0, len(placements))
	for i := range placements {
		resp.ScheduledCourses = append(resp.ScheduledCourses, toScheduledCourseResponse(&placements[i]))
	}
	return &resp, nil
}
