package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"course-scheduler/backend/internal/dto"
	"course-scheduler/backend/internal/metrics"
	"course-scheduler/backend/internal/model"
	"course-scheduler/backend/internal/repository"
	"course-scheduler/backend/internal/scheduler"
)

// persistCollision 写入一条冲突及其全部关联落位
func persistCollision(ctx context.Context, tx *repository.Repository, scheduleID string, col scheduler.Collision, names map[string]string) (*model.Conflict, error) {
	conflict := &model.Conflict{
		ConflictID:   model.NewID(model.PrefixConflict),
		ScheduleID:   scheduleID,
		TimeSlotID:   strPtr(col.TimeSlotID),
		DayOfWeek:    dayPtr(col.Day),
		ConflictType: col.Type,
		Description:  col.Describe(func(id string) string { return names[id] }),
	}
	if err := tx.Conflict.Create(ctx, conflict); err != nil {
		return nil, err
	}

	ids := col.MemberIDs()
	links := make([]model.ConflictCourse, 0, len(ids))
	for _, id := range ids {
		links = append(links, model.ConflictCourse{
			ConflictCourseID:  model.NewID(model.PrefixConflictCourse),
			ConflictID:        conflict.ConflictID,
			ScheduledCourseID: id,
		})
	}
	if err := tx.ConflictCourse.BatchCreate(ctx, links); err != nil {
		return nil, err
	}

	metrics.ConflictsCreated.WithLabelValues(string(col.Type)).Inc()
	return conflict, nil
}

// persistUnplaced 写入 NO_AVAILABLE_SLOT 冲突，没有关联落位
func persistUnplaced(ctx context.Context, tx *repository.Repository, scheduleID string, u scheduler.Unplaced) (*model.Conflict, error) {
	conflict := &model.Conflict{
		ConflictID:   model.NewID(model.PrefixConflict),
		ScheduleID:   scheduleID,
		CourseID:     strPtr(u.Course.CourseID),
		ConflictType: model.ConflictNoAvailable,
		Description:  u.Description(),
	}
	if err := tx.Conflict.Create(ctx, conflict); err != nil {
		return nil, err
	}
	metrics.ConflictsCreated.WithLabelValues(string(model.ConflictNoAvailable)).Inc()
	return conflict, nil
}

// courseNames courseID → 课程名
func courseNames(ctx context.Context, repo *repository.Repository, placements []model.ScheduledCourse) (map[string]string, error) {
	ids := make([]string, 0, len(placements))
	seen := make(map[string]bool, len(placements))
	for _, p := range placements {
		if !seen[p.CourseID] {
			seen[p.CourseID] = true
			ids = append(ids, p.CourseID)
		}
	}
	courses, err := repo.Course.ListByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(courses))
	for _, c := range courses {
		names[c.CourseID] = c.CourseName
	}
	return names, nil
}

// memberKey 冲突成员集合的规范化键
func memberKey(ids []string) string {
	return strings.Join(ids, ",")
}

func sortedCopy(ids []string) []string {
	out := append([]string(nil), ids...)
	sort.Strings(out)
	return out
}

// lockOpenSchedule 事务内加行锁重读方案，已定稿则拒绝写入
func lockOpenSchedule(ctx context.Context, tx *repository.Repository, scheduleID string) error {
	schedule, err := tx.Schedule.GetByIDForUpdate(ctx, scheduleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrScheduleNotFound
		}
		return err
	}
	if schedule.IsFinal {
		return ErrScheduleFinal
	}
	return nil
}

// newHistory 覆盖前的落位快照
func newHistory(sc *model.ScheduledCourse, conflictID *string, reason string, operator *string) (*model.PlacementHistory, error) {
	snap, err := json.Marshal(model.PlacementSnapshot{
		ProfessorID:    sc.ProfessorID,
		TimeSlotID:     sc.TimeSlotID,
		DayOfWeek:      sc.DayOfWeek,
		IsOverride:     sc.IsOverride,
		OverrideReason: sc.OverrideReason,
		Version:        sc.Version,
	})
	if err != nil {
		return nil, fmt.Errorf("序列化落位快照失败: %w", err)
	}
	return &model.PlacementHistory{
		HistoryID:         model.NewID(model.PrefixHistory),
		ScheduledCourseID: sc.ScheduledCourseID,
		ScheduleID:        sc.ScheduleID,
		ConflictID:        conflictID,
		PriorTimeSlotID:   sc.TimeSlotID,
		PriorDayOfWeek:    sc.DayOfWeek,
		PriorProfessorID:  sc.ProfessorID,
		Reason:            reason,
		Snapshot:          datatypes.JSON(snap),
		CreatedBy:         operator,
	}, nil
}

// buildConflictResponses 组装冲突响应：关联落位、时间段与未落位课程
func buildConflictResponses(ctx context.Context, repo *repository.Repository, conflicts []model.Conflict) ([]dto.ConflictResponse, error) {
	out := make([]dto.ConflictResponse, 0, len(conflicts))
	if len(conflicts) == 0 {
		return out, nil
	}

	conflictIDs := make([]string, 0, len(conflicts))
	var courseIDs []string
	for _, c := range conflicts {
		conflictIDs = append(conflictIDs, c.ConflictID)
		if c.CourseID != nil {
			courseIDs = append(courseIDs, *c.CourseID)
		}
	}

	links, err := repo.ConflictCourse.ListByConflicts(ctx, conflictIDs)
	if err != nil {
		return nil, err
	}
	byConflict := make(map[string][]string, len(conflicts))
	var scIDs []string
	seen := make(map[string]bool)
	for _, l := range links {
		byConflict[l.ConflictID] = append(byConflict[l.ConflictID], l.ScheduledCourseID)
		if !seen[l.ScheduledCourseID] {
			seen[l.ScheduledCourseID] = true
			scIDs = append(scIDs, l.ScheduledCourseID)
		}
	}

	members, err := repo.ScheduledCourse.ListByIDs(ctx, scIDs)
	if err != nil {
		return nil, err
	}
	scByID := make(map[string]model.ScheduledCourse, len(members))
	for _, m := range members {
		scByID[m.ScheduledCourseID] = m
	}

	slots, err := repo.TimeSlot.List(ctx)
	if err != nil {
		return nil, err
	}
	slotByKey := make(map[string]*model.TimeSlot, len(slots))
	for i := range slots {
		slotByKey[slots[i].TimeSlotID+"|"+string(slots[i].DayOfWeek)] = &slots[i]
	}

	courses, err := repo.Course.ListByIDs(ctx, courseIDs)
	if err != nil {
		return nil, err
	}
	courseByID := make(map[string]*model.Course, len(courses))
	for i := range courses {
		courseByID[courses[i].CourseID] = &courses[i]
	}

	for i := range conflicts {
		c := &conflicts[i]
		var group []model.ScheduledCourse
		for _, id := range byConflict[c.ConflictID] {
			if m, ok := scByID[id]; ok {
				group = append(group, m)
			}
		}
		var slot *model.TimeSlot
		if c.TimeSlotID != nil && c.DayOfWeek != nil {
			slot = slotByKey[*c.TimeSlotID+"|"+string(*c.DayOfWeek)]
		}
		var course *model.Course
		if c.CourseID != nil {
			course = courseByID[*c.CourseID]
		}
		out = append(out, toConflictResponse(c, group, slot, course))
	}
	return out, nil
}

func operatorPtr(operatorID string) *string {
	if operatorID == "" {
		return nil
	}
	return &operatorID
}
