package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"course-scheduler/backend/internal/dto"
	"course-scheduler/backend/internal/model"
	"course-scheduler/backend/internal/repository"
	"course-scheduler/backend/internal/scheduler"
	pkgerrors "course-scheduler/backend/pkg/errors"
)

// ── 可用性模块业务错误 ──

var (
	ErrProfessorNotFound = pkgerrors.NotFound(13301, "教师不存在")
	ErrICSParseFailed    = pkgerrors.Validation(13302, "日历文件解析失败")
	ErrICSEmpty          = pkgerrors.Validation(13303, "日历文件中没有事件")
)

// 条目跳过原因
const (
	skipMissingField = "missing timeslot_id or day_of_week"
	skipBadDay       = "unrecognized day_of_week"
	skipUnknownSlot  = "timeslot not in catalog for that day"
)

// AvailabilityService 教师可用性业务接口
type AvailabilityService interface {
	// Set 整体替换教师可用性，非法条目跳过并计数
	Set(ctx context.Context, professorID string, req *dto.SetAvailabilityRequest) (*dto.SetAvailabilityResponse, error)
	// List 已登记的可用性记录
	List(ctx context.Context, professorID string) ([]dto.AvailabilityResponse, error)
	// Grid 全部时间段按星期分组，未登记视为不可用
	Grid(ctx context.Context, professorID string) (*dto.AvailabilityGridResponse, error)
	// ImportICS 由忙碌日历推导可用性并整体替换
	ImportICS(ctx context.Context, professorID string, r io.Reader) (*dto.ImportICSResponse, error)
}

type availabilityService struct {
	repo   *repository.Repository
	loc    *time.Location
	now    func() time.Time
	logger *zap.Logger
}

// NewAvailabilityService 创建 AvailabilityService 实例
func NewAvailabilityService(repo *repository.Repository, loc *time.Location, logger *zap.Logger) AvailabilityService {
	if loc == nil {
		loc = time.UTC
	}
	return &availabilityService{repo: repo, loc: loc, now: time.Now, logger: logger}
}

// ════════════════════════════════════════════════════════════
// Set
// ════════════════════════════════════════════════════════════

func (s *availabilityService) Set(ctx context.Context, professorID string, req *dto.SetAvailabilityRequest) (*dto.SetAvailabilityResponse, error) {
	if err := s.ensureProfessor(ctx, professorID); err != nil {
		return nil, err
	}

	slots, err := s.repo.TimeSlot.List(ctx)
	if err != nil {
		s.logger.Error("查询时间段失败", zap.Error(err))
		return nil, err
	}
	catalog := make(map[string]bool, len(slots))
	for _, sl := range slots {
		catalog[sl.TimeSlotID+"|"+string(sl.DayOfWeek)] = true
	}

	resp := &dto.SetAvailabilityResponse{}
	// 同一（时间段, 星期）重复出现时以最后一条为准
	byKey := make(map[string]int)
	var rows []model.ProfessorAvailability
	for i, e := range req.Entries {
		if e.TimeSlotID == "" || e.DayOfWeek == "" {
			resp.Skipped = append(resp.Skipped, dto.SkippedEntry{Index: i, Reason: skipMissingField})
			continue
		}
		day, err := model.ParseDay(e.DayOfWeek)
		if err != nil {
			resp.Skipped = append(resp.Skipped, dto.SkippedEntry{Index: i, Reason: skipBadDay})
			continue
		}
		key := e.TimeSlotID + "|" + string(day)
		if !catalog[key] {
			resp.Skipped = append(resp.Skipped, dto.SkippedEntry{Index: i, Reason: skipUnknownSlot})
			continue
		}

		row := model.ProfessorAvailability{
			AvailabilityID: model.NewID(model.PrefixAvailability),
			ProfessorID:    professorID,
			TimeSlotID:     e.TimeSlotID,
			DayOfWeek:      day,
			IsAvailable:    e.IsAvailable,
		}
		if idx, dup := byKey[key]; dup {
			rows[idx] = row
			continue
		}
		byKey[key] = len(rows)
		rows = append(rows, row)
	}

	if err := s.repo.Availability.ReplaceByProfessor(ctx, professorID, rows); err != nil {
		s.logger.Error("替换教师可用性失败", zap.String("professor_id", professorID), zap.Error(err))
		return nil, err
	}

	resp.UpdatedCount = len(rows)
	resp.SkippedCount = len(resp.Skipped)
	if resp.SkippedCount > 0 {
		s.logger.Info("可用性条目部分跳过",
			zap.String("professor_id", professorID),
			zap.Int("skipped", resp.SkippedCount),
		)
	}
	return resp, nil
}

// ════════════════════════════════════════════════════════════
// List / Grid
// ════════════════════════════════════════════════════════════

func (s *availabilityService) List(ctx context.Context, professorID string) ([]dto.AvailabilityResponse, error) {
	if err := s.ensureProfessor(ctx, professorID); err != nil {
		return nil, err
	}
	rows, err := s.repo.Availability.ListByProfessor(ctx, professorID)
	if err != nil {
		s.logger.Error("查询教师可用性失败", zap.String("professor_id", professorID), zap.Error(err))
		return nil, err
	}
	out := make([]dto.AvailabilityResponse, 0, len(rows))
	for i := range rows {
		out = append(out, toAvailabilityResponse(&rows[i]))
	}
	return out, nil
}

func (s *availabilityService) Grid(ctx context.Context, professorID string) (*dto.AvailabilityGridResponse, error) {
	if err := s.ensureProfessor(ctx, professorID); err != nil {
		return nil, err
	}

	slots, err := s.repo.TimeSlot.List(ctx)
	if err != nil {
		s.logger.Error("查询时间段失败", zap.Error(err))
		return nil, err
	}
	rows, err := s.repo.Availability.ListByProfessor(ctx, professorID)
	if err != nil {
		s.logger.Error("查询教师可用性失败", zap.String("professor_id", professorID), zap.Error(err))
		return nil, err
	}
	avail := make(map[string]bool, len(rows))
	for _, r := range rows {
		avail[r.TimeSlotID+"|"+string(r.DayOfWeek)] = r.IsAvailable
	}

	scheduler.SortSlots(slots)
	resp := &dto.AvailabilityGridResponse{ProfessorID: professorID, Days: []dto.AvailabilityDay{}}
	for i := range slots {
		sl := &slots[i]
		n := len(resp.Days)
		if n == 0 || resp.Days[n-1].DayOfWeek != sl.DayOfWeek.String() {
			resp.Days = append(resp.Days, dto.AvailabilityDay{DayOfWeek: sl.DayOfWeek.String()})
			n++
		}
		resp.Days[n-1].Slots = append(resp.Days[n-1].Slots, dto.AvailabilitySlot{
			TimeSlot:    *toTimeSlotBrief(sl),
			IsAvailable: avail[sl.TimeSlotID+"|"+string(sl.DayOfWeek)],
		})
	}
	return resp, nil
}

// ════════════════════════════════════════════════════════════
// ImportICS
// ════════════════════════════════════════════════════════════

func (s *availabilityService) ImportICS(ctx context.Context, professorID string, r io.Reader) (*dto.ImportICSResponse, error) {
	if err := s.ensureProfessor(ctx, professorID); err != nil {
		return nil, err
	}

	events, windows, err := parseBusyWindows(r, s.loc, s.now())
	if err != nil {
		s.logger.Warn("日历导入解析失败", zap.String("professor_id", professorID), zap.Error(err))
		return nil, ErrICSParseFailed.Withf("%v", err)
	}
	if events == 0 {
		return nil, ErrICSEmpty
	}

	slots, err := s.repo.TimeSlot.List(ctx)
	if err != nil {
		s.logger.Error("查询时间段失败", zap.Error(err))
		return nil, err
	}

	req := &dto.SetAvailabilityRequest{Entries: make([]dto.AvailabilityEntry, 0, len(slots))}
	for i := range slots {
		busy, err := slotBusy(&slots[i], windows)
		if err != nil {
			return nil, fmt.Errorf("时间段目录数据异常: %w", err)
		}
		req.Entries = append(req.Entries, dto.AvailabilityEntry{
			TimeSlotID:  slots[i].TimeSlotID,
			DayOfWeek:   slots[i].DayOfWeek.String(),
			IsAvailable: !busy,
		})
	}

	set, err := s.Set(ctx, professorID, req)
	if err != nil {
		return nil, err
	}

	s.logger.Info("日历导入完成",
		zap.String("professor_id", professorID),
		zap.Int("events", events),
		zap.Int("busy_windows", len(windows)),
	)
	return &dto.ImportICSResponse{EventsParsed: events, SetAvailabilityResponse: *set}, nil
}

// ── 内部方法 ──

func (s *availabilityService) ensureProfessor(ctx context.Context, professorID string) error {
	if _, err := s.repo.Professor.GetByID(ctx, professorID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProfessorNotFound
		}
		s.logger.Error("查询教师失败", zap.String("professor_id", professorID), zap.Error(err))
		return err
	}
	return nil
}
