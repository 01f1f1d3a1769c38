package service

import (
	"context"
	"errors"
	"fmt"
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

// ── 冲突模块业务错误 ──

var (
	ErrConflictNotFound        = pkgerrors.NotFound(13201, "冲突不存在")
	ErrInvalidConflictAction   = pkgerrors.Validation(13202, "不支持的冲突处理方式")
	ErrOverrideFieldsRequired  = pkgerrors.Validation(13203, "OVERRIDE 需要提供 scheduled_course_id 与 new_timeslot_id")
	ErrConflictAlreadyResolved = pkgerrors.ConflictState(13204, "冲突已解决，请先撤销再调整")
	ErrConflictNotResolved     = pkgerrors.ConflictState(13205, "冲突尚未解决，无需撤销")
	ErrOriginalPlacementLost   = pkgerrors.IntegrityWarning(13206, "无法确定原始落位")
	ErrCourseNotInConflict     = pkgerrors.Validation(13207, "课程落位不属于该冲突")
)

const (
	defaultAcceptNotes = "Conflict accepted as is."
	defaultRevertNotes = "Reverting previously resolved conflict for reconsideration."
)

// ConflictService 冲突查询与处理业务接口
type ConflictService interface {
	// ListBySchedule 方案下全部冲突（未解决在前）
	ListBySchedule(ctx context.Context, scheduleID string) ([]dto.ConflictResponse, error)
	// GetByID 冲突详情
	GetByID(ctx context.Context, id string) (*dto.ConflictResponse, error)
	// Resolve ACCEPT 原样接受；OVERRIDE 把指定落位移到新时间段
	Resolve(ctx context.Context, id string, req *dto.ResolveConflictRequest, operatorID string) (*dto.ConflictResponse, error)
	// Revert 撤销处理，被覆盖的落位还原到覆盖前位置
	Revert(ctx context.Context, id string, req *dto.RevertConflictRequest, operatorID string) (*dto.RevertConflictResponse, error)
}

type conflictService struct {
	repo   *repository.Repository
	policy scheduler.Policy
	locker ScheduleLocker
	logger *zap.Logger
}

// NewConflictService 创建 ConflictService 实例
func NewConflictService(repo *repository.Repository, policy scheduler.Policy, locker ScheduleLocker, logger *zap.Logger) ConflictService {
	if locker == nil {
		locker = noopLocker{}
	}
	return &conflictService{repo: repo, policy: policy, locker: locker, logger: logger}
}

// ════════════════════════════════════════════════════════════
// 查询
// ════════════════════════════════════════════════════════════

func (s *conflictService) ListBySchedule(ctx context.Context, scheduleID string) ([]dto.ConflictResponse, error) {
	if _, err := s.getSchedule(ctx, scheduleID); err != nil {
		return nil, err
	}
	list, err := s.repo.Conflict.ListBySchedule(ctx, scheduleID)
	if err != nil {
		s.logger.Error("查询冲突列表失败", zap.String("schedule_id", scheduleID), zap.Error(err))
		return nil, err
	}
	out, err := buildConflictResponses(ctx, s.repo, list)
	if err != nil {
		s.logger.Error("组装冲突信息失败", zap.Error(err))
		return nil, err
	}
	return out, nil
}

func (s *conflictService) GetByID(ctx context.Context, id string) (*dto.ConflictResponse, error) {
	conflict, err := s.getConflict(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.view(ctx, conflict)
}

// ════════════════════════════════════════════════════════════
// Resolve
// ════════════════════════════════════════════════════════════

func (s *conflictService) Resolve(ctx context.Context, id string, req *dto.ResolveConflictRequest, operatorID string) (*dto.ConflictResponse, error) {
	conflict, err := s.getConflict(ctx, id)
	if err != nil {
		return nil, err
	}

	switch strings.ToUpper(strings.TrimSpace(req.Action)) {
	case dto.ConflictActionAccept:
		err = s.accept(ctx, conflict, req, operatorID)
	case dto.ConflictActionOverride:
		err = s.override(ctx, conflict, req, operatorID)
	default:
		return nil, ErrInvalidConflictAction.With("action", req.Action)
	}
	if err != nil {
		return nil, err
	}

	fresh, err := s.getConflict(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.view(ctx, fresh)
}

// accept 只改状态与备注，重复接受仅更新备注
func (s *conflictService) accept(ctx context.Context, conflict *model.Conflict, req *dto.ResolveConflictRequest, operatorID string) error {
	notes := strings.TrimSpace(req.ResolutionNotes)
	if notes == "" {
		notes = defaultAcceptNotes
	}

	conflict.IsResolved = true
	conflict.ResolutionNotes = notes
	conflict.UpdatedBy = operatorPtr(operatorID)
	if err := s.repo.Conflict.Update(ctx, conflict); err != nil {
		s.logger.Error("接受冲突失败", zap.String("conflict_id", conflict.ConflictID), zap.Error(err))
		return err
	}

	metrics.ConflictTransitions.WithLabelValues("accept").Inc()
	s.logger.Info("冲突已接受", zap.String("conflict_id", conflict.ConflictID))
	return nil
}

func (s *conflictService) override(ctx context.Context, conflict *model.Conflict, req *dto.ResolveConflictRequest, operatorID string) error {
	if req.ScheduledCourseID == nil || *req.ScheduledCourseID == "" || req.NewTimeSlotID == nil || *req.NewTimeSlotID == "" {
		return ErrOverrideFieldsRequired
	}
	if conflict.IsResolved {
		return ErrConflictAlreadyResolved
	}

	schedule, err := s.getSchedule(ctx, conflict.ScheduleID)
	if err != nil {
		return err
	}
	if schedule.IsFinal {
		return ErrScheduleFinal
	}

	sc, err := s.repo.ScheduledCourse.GetByID(ctx, *req.ScheduledCourseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrScheduledCourseNotFound
		}
		return err
	}
	if sc.ScheduleID != conflict.ScheduleID {
		return ErrCourseNotInSchedule.With("scheduled_course_id", sc.ScheduledCourseID)
	}
	links, err := s.repo.ConflictCourse.ListByConflicts(ctx, []string{conflict.ConflictID})
	if err != nil {
		return err
	}
	linked := false
	for _, l := range links {
		if l.ScheduledCourseID == sc.ScheduledCourseID {
			linked = true
			break
		}
	}
	if !linked {
		return ErrCourseNotInConflict.With("scheduled_course_id", sc.ScheduledCourseID)
	}

	slot, err := s.repo.TimeSlot.GetByID(ctx, *req.NewTimeSlotID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTimeSlotNotFound
		}
		return err
	}
	course := sc.Course
	if course == nil {
		if course, err = s.repo.Course.GetByID(ctx, sc.CourseID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCourseNotFound
			}
			return err
		}
	}
	if !scheduler.DurationCompatible(course.DurationMinutes, slot.DurationMinutes, s.policy.DurationTolerance) {
		return ErrDurationMismatch.
			With("course_minutes", course.DurationMinutes).
			With("slot_minutes", slot.DurationMinutes)
	}

	unlock, err := s.locker.Lock(ctx, scheduleLockName(schedule.ScheduleID))
	if err != nil {
		return err
	}
	defer unlock()

	notes := strings.TrimSpace(req.ResolutionNotes)
	op := operatorPtr(operatorID)
	fromSlot, fromDay := sc.TimeSlotID, sc.DayOfWeek

	err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		if err := lockOpenSchedule(ctx, tx, schedule.ScheduleID); err != nil {
			return err
		}
		overrideReason := scheduler.EncodeProvenance(fromSlot, fromDay, notes)
		history, err := newHistory(sc, &conflict.ConflictID, overrideReason, op)
		if err != nil {
			return err
		}
		if err := tx.PlacementHistory.Create(ctx, history); err != nil {
			return err
		}

		sc.TimeSlotID = slot.TimeSlotID
		sc.DayOfWeek = slot.DayOfWeek
		sc.IsOverride = true
		sc.OverrideReason = overrideReason
		sc.UpdatedBy = op
		if err := tx.ScheduledCourse.Update(ctx, sc); err != nil {
			return err
		}

		move := fmt.Sprintf("Moved %s from %s (%s) to %s (%s).",
			course.CourseName, fromSlot, fromDay, slot.TimeSlotID, slot.DayOfWeek)
		conflict.IsResolved = true
		conflict.ResolutionNotes = joinNotes(notes, move)
		conflict.UpdatedBy = op
		return tx.Conflict.Update(ctx, conflict)
	})
	if err != nil {
		if !errors.Is(err, pkgerrors.ErrOptimisticLock) && !errors.Is(err, ErrScheduleFinal) {
			s.logger.Error("覆盖处理冲突失败", zap.String("conflict_id", conflict.ConflictID), zap.Error(err))
		}
		return err
	}

	metrics.ConflictTransitions.WithLabelValues("override").Inc()
	s.logger.Info("冲突已通过调整落位解决",
		zap.String("conflict_id", conflict.ConflictID),
		zap.String("scheduled_course_id", sc.ScheduledCourseID),
		zap.String("from", fromSlot),
		zap.String("to", slot.TimeSlotID),
	)
	return nil
}

// ════════════════════════════════════════════════════════════
// Revert
// ════════════════════════════════════════════════════════════

// restoreTarget 还原目标及其来源（被消费的历史记录可为空）
type restoreTarget struct {
	slot    *model.TimeSlot
	history *model.PlacementHistory
	source  string
}

func (s *conflictService) Revert(ctx context.Context, id string, req *dto.RevertConflictRequest, operatorID string) (*dto.RevertConflictResponse, error) {
	conflict, err := s.getConflict(ctx, id)
	if err != nil {
		return nil, err
	}
	if !conflict.IsResolved {
		return nil, ErrConflictNotResolved
	}
	schedule, err := s.getSchedule(ctx, conflict.ScheduleID)
	if err != nil {
		return nil, err
	}
	if schedule.IsFinal {
		return nil, ErrScheduleFinal
	}

	unlock, err := s.locker.Lock(ctx, scheduleLockName(schedule.ScheduleID))
	if err != nil {
		return nil, err
	}
	defer unlock()

	notes := strings.TrimSpace(req.ResolutionNotes)
	if notes == "" {
		notes = defaultRevertNotes
	}
	op := operatorPtr(operatorID)

	var warnings []string
	err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		warnings = nil
		if err := lockOpenSchedule(ctx, tx, schedule.ScheduleID); err != nil {
			return err
		}

		links, err := tx.ConflictCourse.ListByConflicts(ctx, []string{conflict.ConflictID})
		if err != nil {
			return err
		}
		ids := make([]string, 0, len(links))
		for _, l := range links {
			ids = append(ids, l.ScheduledCourseID)
		}
		members, err := tx.ScheduledCourse.ListByIDs(ctx, ids)
		if err != nil {
			return err
		}

		now := time.Now()
		for i := range members {
			m := &members[i]
			if !m.IsOverride {
				continue
			}

			target, err := s.findRestoreTarget(ctx, tx, conflict, m, members)
			if err != nil {
				return err
			}

			if target == nil {
				warn := fmt.Sprintf("Could not determine original placement for %s; override flag cleared, placement left at %s (%s).",
					courseLabel(m), m.TimeSlotID, m.DayOfWeek)
				warnings = append(warnings, warn)
				s.logger.Warn(ErrOriginalPlacementLost.Message,
					zap.String("conflict_id", conflict.ConflictID),
					zap.String("scheduled_course_id", m.ScheduledCourseID),
				)
				metrics.IntegrityWarnings.Inc()
				m.IsOverride = false
				m.OverrideReason = ""
			} else {
				m.TimeSlotID = target.slot.TimeSlotID
				m.DayOfWeek = target.slot.DayOfWeek
				if target.history != nil {
					if target.history.PriorProfessorID != "" {
						m.ProfessorID = target.history.PriorProfessorID
					}
					if err := tx.PlacementHistory.MarkReverted(ctx, target.history.HistoryID, now); err != nil {
						return err
					}
				}

				// 更早的覆盖仍未撤销时保留覆盖状态
				older, err := tx.PlacementHistory.LatestPending(ctx, m.ScheduledCourseID, nil)
				switch {
				case err == nil:
					m.IsOverride = true
					m.OverrideReason = older.Reason
				case errors.Is(err, gorm.ErrRecordNotFound):
					m.IsOverride = false
					m.OverrideReason = ""
				default:
					return err
				}
				s.logger.Info("落位已还原",
					zap.String("scheduled_course_id", m.ScheduledCourseID),
					zap.String("source", target.source),
					zap.String("timeslot_id", m.TimeSlotID),
				)
			}

			m.UpdatedBy = op
			if err := tx.ScheduledCourse.Update(ctx, m); err != nil {
				return err
			}
		}

		conflict.IsResolved = false
		conflict.ResolutionNotes = notes
		for _, w := range warnings {
			conflict.ResolutionNotes = joinNotes(conflict.ResolutionNotes, "Warning: "+w)
		}
		conflict.UpdatedBy = op
		return tx.Conflict.Update(ctx, conflict)
	})
	if err != nil {
		if !errors.Is(err, pkgerrors.ErrOptimisticLock) && !errors.Is(err, ErrScheduleFinal) {
			s.logger.Error("撤销冲突处理失败", zap.String("conflict_id", conflict.ConflictID), zap.Error(err))
		}
		return nil, err
	}

	metrics.ConflictTransitions.WithLabelValues("revert").Inc()
	s.logger.Info("冲突处理已撤销", zap.String("conflict_id", conflict.ConflictID), zap.Int("warnings", len(warnings)))

	fresh, err := s.getConflict(ctx, id)
	if err != nil {
		return nil, err
	}
	view, err := s.view(ctx, fresh)
	if err != nil {
		return nil, err
	}
	return &dto.RevertConflictResponse{ConflictResponse: *view, Warnings: warnings}, nil
}

// findRestoreTarget 依次尝试：本冲突的历史记录 → override_reason 后缀 → 冲突所在时段 → 同冲突内未覆盖的落位
// 候选（时间段, 星期）必须仍在目录中；全部失败时返回 nil
func (s *conflictService) findRestoreTarget(
	ctx context.Context,
	tx *repository.Repository,
	conflict *model.Conflict,
	m *model.ScheduledCourse,
	members []model.ScheduledCourse,
) (*restoreTarget, error) {
	// 原位已不在目录中的历史记录在其他来源命中时一并消费
	var stale *model.PlacementHistory
	entry, err := tx.PlacementHistory.LatestPending(ctx, m.ScheduledCourseID, &conflict.ConflictID)
	switch {
	case err == nil:
		slot, err := lookupSlot(ctx, tx, entry.PriorTimeSlotID, entry.PriorDayOfWeek)
		if err != nil {
			return nil, err
		}
		if slot != nil {
			return &restoreTarget{slot: slot, history: entry, source: "history"}, nil
		}
		stale = entry
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, err
	}

	type candidate struct {
		slotID string
		day    model.DayOfWeek
		source string
	}
	var candidates []candidate
	if prov, ok := scheduler.DecodeProvenance(m.OverrideReason); ok {
		candidates = append(candidates, candidate{prov.TimeSlotID, prov.Day, "provenance"})
	}
	if conflict.TimeSlotID != nil && conflict.DayOfWeek != nil {
		candidates = append(candidates, candidate{*conflict.TimeSlotID, *conflict.DayOfWeek, "conflict"})
	}
	for _, sib := range members {
		if sib.ScheduledCourseID != m.ScheduledCourseID && !sib.IsOverride {
			candidates = append(candidates, candidate{sib.TimeSlotID, sib.DayOfWeek, "sibling"})
			break
		}
	}

	for _, c := range candidates {
		slot, err := lookupSlot(ctx, tx, c.slotID, c.day)
		if err != nil {
			return nil, err
		}
		if slot == nil {
			continue
		}
		target := &restoreTarget{slot: slot, history: stale, source: c.source}
		if stale != nil {
			return target, nil
		}
		// 命中的位置恰好是最近一条未撤销记录的原位时一并消费
		pending, err := tx.PlacementHistory.LatestPending(ctx, m.ScheduledCourseID, nil)
		switch {
		case err == nil:
			if pending.PriorTimeSlotID == slot.TimeSlotID && pending.PriorDayOfWeek == slot.DayOfWeek {
				target.history = pending
			}
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return nil, err
		}
		return target, nil
	}
	return nil, nil
}

// ── 内部方法 ──

func (s *conflictService) getConflict(ctx context.Context, id string) (*model.Conflict, error) {
	conflict, err := s.repo.Conflict.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrConflictNotFound
		}
		s.logger.Error("查询冲突失败", zap.String("conflict_id", id), zap.Error(err))
		return nil, err
	}
	return conflict, nil
}

func (s *conflictService) getSchedule(ctx context.Context, id string) (*model.Schedule, error) {
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

func (s *conflictService) view(ctx context.Context, conflict *model.Conflict) (*dto.ConflictResponse, error) {
	views, err := buildConflictResponses(ctx, s.repo, []model.Conflict{*conflict})
	if err != nil {
		s.logger.Error("组装冲突信息失败", zap.String("conflict_id", conflict.ConflictID), zap.Error(err))
		return nil, err
	}
	return &views[0], nil
}

// lookupSlot 目录中不存在时返回 (nil, nil)
func lookupSlot(ctx context.Context, repo *repository.Repository, slotID string, day model.DayOfWeek) (*model.TimeSlot, error) {
	slot, err := repo.TimeSlot.GetByIDAndDay(ctx, slotID, day)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return slot, nil
}

func courseLabel(sc *model.ScheduledCourse) string {
	if sc.Course != nil && sc.Course.CourseName != "" {
		return sc.Course.CourseName
	}
	return sc.CourseID
}

func joinNotes(a, b string) string {
	switch {
	case a == "":
		return b
	case b == "":
		return a
	}
	return a + " " + b
}
