package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"

	"course-scheduler/backend/internal/dto"
	"course-scheduler/backend/internal/model"
	"course-scheduler/backend/internal/scheduler"
	pkgerrors "course-scheduler/backend/pkg/errors"
)

// lenientPolicy 允许 55 与 80 分钟时间段互相调整
func lenientPolicy() scheduler.Policy {
	p := testPolicy()
	p.DurationTolerance = 30
	return p
}

func setupTestConflictService(policy scheduler.Policy) (ConflictService, *testRepos) {
	repos := newTestRepos()
	seedCatalog(repos)
	repos.course.add("SEM-1", model.Course{CourseID: "C5", DepartmentID: "D1", CourseName: "Seminar", DurationMinutes: 60})
	svc := NewConflictService(repos.toRepository(), policy, nil, zap.NewNop())
	return svc, repos
}

func overrideReq(scID, slotID string) *dto.ResolveConflictRequest {
	return &dto.ResolveConflictRequest{
		Action:            dto.ConflictActionOverride,
		ScheduledCourseID: &scID,
		NewTimeSlotID:     &slotID,
	}
}

type busyLocker struct{}

func (busyLocker) Lock(context.Context, string) (func(), error) {
	return nil, pkgerrors.ErrLocked
}

// finalizingLocker 取得锁时把方案改为定稿，模拟校验之后的并发定稿
type finalizingLocker struct {
	repos      *testRepos
	scheduleID string
}

func (l finalizingLocker) Lock(context.Context, string) (func(), error) {
	s := l.repos.schedule.schedules[l.scheduleID]
	s.IsFinal = true
	l.repos.schedule.schedules[l.scheduleID] = s
	return func() {}, nil
}

// ════════════════════════════════════════════════════════════
// ACCEPT
// ════════════════════════════════════════════════════════════

func TestConflictService_Accept(t *testing.T) {
	svc, repos := setupTestConflictService(testPolicy())
	seedSchedule(repos, "SCH-1", false)
	seedPlacement(repos, "SC-1", "SCH-1", "C2", "P2", "TS3-WED", model.Wednesday)
	seedPlacement(repos, "SC-2", "SCH-1", "C3", "P1", "TS3-WED", model.Wednesday)
	seedConflict(repos, "CONF-1", "SCH-1", "TS3-WED", model.Wednesday, false, "SC-1", "SC-2")

	resp, err := svc.Resolve(context.Background(), "CONF-1", &dto.ResolveConflictRequest{Action: "accept"}, "admin-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !resp.IsResolved || resp.ResolutionNotes != defaultAcceptNotes {
		t.Errorf("unexpected conflict state: resolved=%v notes=%q", resp.IsResolved, resp.ResolutionNotes)
	}

	// 重复接受只更新备注
	resp, err = svc.Resolve(context.Background(), "CONF-1", &dto.ResolveConflictRequest{Action: "ACCEPT", ResolutionNotes: "Lab shared"}, "admin-1")
	if err != nil {
		t.Fatalf("second accept failed: %v", err)
	}
	if !resp.IsResolved || resp.ResolutionNotes != "Lab shared" {
		t.Errorf("unexpected conflict state after re-accept: %+v", resp)
	}

	for _, sc := range repos.scheduledCourse.items {
		if sc.TimeSlotID != "TS3-WED" || sc.IsOverride || sc.Version != 1 {
			t.Errorf("accept must not touch placements: %+v", sc)
		}
	}
}

func TestConflictService_Accept_NoAvailableSlot(t *testing.T) {
	svc, repos := setupTestConflictService(testPolicy())
	seedSchedule(repos, "SCH-1", false)
	repos.conflict.conflicts["CONF-U"] = model.Conflict{
		ConflictID: "CONF-U", ScheduleID: "SCH-1", CourseID: strPtr("C5"),
		ConflictType: model.ConflictNoAvailable, Description: "Could not schedule Seminar",
	}

	resp, err := svc.Resolve(context.Background(), "CONF-U", &dto.ResolveConflictRequest{Action: "ACCEPT"}, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !resp.IsResolved || resp.Course == nil || resp.Course.ID != "C5" {
		t.Errorf("unexpected response %+v", resp)
	}
}

func TestConflictService_Resolve_InvalidAction(t *testing.T) {
	svc, repos := setupTestConflictService(testPolicy())
	seedSchedule(repos, "SCH-1", false)
	seedConflict(repos, "CONF-1", "SCH-1", "TS3-WED", model.Wednesday, false)

	_, err := svc.Resolve(context.Background(), "CONF-1", &dto.ResolveConflictRequest{Action: "IGNORE"}, "")
	if !errors.Is(err, ErrInvalidConflictAction) {
		t.Fatalf("expected ErrInvalidConflictAction, got %v", err)
	}

	_, err = svc.Resolve(context.Background(), "CONF-404", &dto.ResolveConflictRequest{Action: "ACCEPT"}, "")
	if !errors.Is(err, ErrConflictNotFound) {
		t.Fatalf("expected ErrConflictNotFound, got %v", err)
	}
}

// ════════════════════════════════════════════════════════════
// OVERRIDE → REVERT
// ════════════════════════════════════════════════════════════

func TestConflictService_OverrideThenRevert_RoundTrip(t *testing.T) {
	svc, repos := setupTestConflictService(lenientPolicy())
	seedSchedule(repos, "SCH-1", false)
	seedPlacement(repos, "SC-A", "SCH-1", "C5", "P1", "TS2-MON", model.Monday)
	seedPlacement(repos, "SC-X", "SCH-1", "C1", "P2", "TS2-MON", model.Monday)
	seedConflict(repos, "CONF-1", "SCH-1", "TS2-MON", model.Monday, false, "SC-A", "SC-X")

	resp, err := svc.Resolve(context.Background(), "CONF-1", overrideReq("SC-A", "TS4-TUE"), "admin-1")
	if err != nil {
		t.Fatalf("override failed: %v", err)
	}
	if !resp.IsResolved {
		t.Errorf("conflict should be resolved after override")
	}
	if !strings.Contains(resp.ResolutionNotes, "Moved Seminar from TS2-MON (Monday) to TS4-TUE (Tuesday).") {
		t.Errorf("unexpected resolution notes %q", resp.ResolutionNotes)
	}

	moved := repos.scheduledCourse.items["SC-A"]
	if moved.TimeSlotID != "TS4-TUE" || moved.DayOfWeek != model.Tuesday || !moved.IsOverride {
		t.Fatalf("unexpected placement after override: %+v", moved)
	}
	if !strings.Contains(moved.OverrideReason, "original_timeslot_id: TS2-MON") ||
		!strings.Contains(moved.OverrideReason, "original_day_of_week: Monday") {
		t.Errorf("override_reason lacks provenance: %q", moved.OverrideReason)
	}
	if len(repos.history.entries) != 1 {
		t.Fatalf("expected one history row, got %d", len(repos.history.entries))
	}
	if h := repos.history.entries[0]; h.ConflictID == nil || *h.ConflictID != "CONF-1" || h.PriorTimeSlotID != "TS2-MON" {
		t.Errorf("unexpected history %+v", h)
	}

	reverted, err := svc.Revert(context.Background(), "CONF-1", &dto.RevertConflictRequest{}, "admin-1")
	if err != nil {
		t.Fatalf("revert failed: %v", err)
	}
	if reverted.IsResolved || reverted.ResolutionNotes != defaultRevertNotes {
		t.Errorf("unexpected conflict after revert: resolved=%v notes=%q", reverted.IsResolved, reverted.ResolutionNotes)
	}
	if len(reverted.Warnings) != 0 {
		t.Errorf("expected no warnings, got %v", reverted.Warnings)
	}

	back := repos.scheduledCourse.items["SC-A"]
	if back.TimeSlotID != "TS2-MON" || back.DayOfWeek != model.Monday {
		t.Errorf("expected SC-A back at TS2-MON Monday, got %s %s", back.TimeSlotID, back.DayOfWeek)
	}
	if back.IsOverride || back.OverrideReason != "" {
		t.Errorf("override flag should be cleared: %+v", back)
	}
	if repos.history.entries[0].RevertedAt == nil {
		t.Errorf("history row should be marked reverted")
	}
	if x := repos.scheduledCourse.items["SC-X"]; x.TimeSlotID != "TS2-MON" || x.Version != 1 {
		t.Errorf("sibling must stay untouched: %+v", x)
	}
}

func TestConflictService_NestedOverridesUnwindInOrder(t *testing.T) {
	svc, repos := setupTestConflictService(lenientPolicy())
	seedSchedule(repos, "SCH-1", false)
	seedPlacement(repos, "SC-A", "SCH-1", "C5", "P1", "TS2-MON", model.Monday)
	seedPlacement(repos, "SC-X", "SCH-1", "C1", "P2", "TS2-MON", model.Monday)
	seedPlacement(repos, "SC-Y", "SCH-1", "C3", "P2", "TS4-TUE", model.Tuesday)
	seedConflict(repos, "CONF-1", "SCH-1", "TS2-MON", model.Monday, false, "SC-A", "SC-X")
	seedConflict(repos, "CONF-2", "SCH-1", "TS4-TUE", model.Tuesday, false, "SC-A", "SC-Y")

	ctx := context.Background()
	if _, err := svc.Resolve(ctx, "CONF-1", overrideReq("SC-A", "TS4-TUE"), ""); err != nil {
		t.Fatalf("first override failed: %v", err)
	}
	if _, err := svc.Resolve(ctx, "CONF-2", overrideReq("SC-A", "TS3-WED"), ""); err != nil {
		t.Fatalf("second override failed: %v", err)
	}
	if sc := repos.scheduledCourse.items["SC-A"]; sc.TimeSlotID != "TS3-WED" {
		t.Fatalf("expected SC-A at TS3-WED, got %s", sc.TimeSlotID)
	}

	if _, err := svc.Revert(ctx, "CONF-2", &dto.RevertConflictRequest{}, ""); err != nil {
		t.Fatalf("revert CONF-2 failed: %v", err)
	}
	sc := repos.scheduledCourse.items["SC-A"]
	if sc.TimeSlotID != "TS4-TUE" || sc.DayOfWeek != model.Tuesday {
		t.Fatalf("expected SC-A at TS4-TUE after first revert, got %s %s", sc.TimeSlotID, sc.DayOfWeek)
	}
	if !sc.IsOverride || !strings.Contains(sc.OverrideReason, "original_timeslot_id: TS2-MON") {
		t.Errorf("earlier override should remain in effect: %+v", sc)
	}

	if _, err := svc.Revert(ctx, "CONF-1", &dto.RevertConflictRequest{}, ""); err != nil {
		t.Fatalf("revert CONF-1 failed: %v", err)
	}
	sc = repos.scheduledCourse.items["SC-A"]
	if sc.TimeSlotID != "TS2-MON" || sc.DayOfWeek != model.Monday || sc.IsOverride {
		t.Errorf("expected SC-A restored to TS2-MON without override, got %+v", sc)
	}
}

// ── Revert 回退来源 ──

func TestConflictService_Revert_FallbackSources(t *testing.T) {
	tests := []struct {
		name     string
		reason   string
		slotID   string
		day      model.DayOfWeek
		sibling  bool
		wantSlot string
		wantDay  model.DayOfWeek
		wantWarn bool
	}{
		{
			name:     "override_reason 后缀",
			reason:   scheduler.EncodeProvenance("TS2-MON", model.Monday, "manual move"),
			slotID:   "TS4-TUE",
			day:      model.Tuesday,
			wantSlot: "TS2-MON",
			wantDay:  model.Monday,
		},
		{
			name:     "冲突所在时段",
			slotID:   "TS3-WED",
			day:      model.Wednesday,
			wantSlot: "TS3-WED",
			wantDay:  model.Wednesday,
		},
		{
			name:     "同冲突未覆盖落位",
			slotID:   "TS9-SUN",
			day:      model.Sunday,
			sibling:  true,
			wantSlot: "TS1-MON",
			wantDay:  model.Monday,
		},
		{
			name:     "全部失败",
			slotID:   "TS9-SUN",
			day:      model.Sunday,
			wantSlot: "TS4-TUE",
			wantDay:  model.Tuesday,
			wantWarn: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repos := setupTestConflictService(lenientPolicy())
			seedSchedule(repos, "SCH-1", false)
			repos.scheduledCourse.put(model.ScheduledCourse{
				ScheduledCourseID: "SC-A", ScheduleID: "SCH-1", CourseID: "C5", ProfessorID: "P1",
				TimeSlotID: "TS4-TUE", DayOfWeek: model.Tuesday,
				IsOverride: true, OverrideReason: tt.reason,
				VersionedModel: model.VersionedModel{Version: 1},
			})
			members := []string{"SC-A"}
			if tt.sibling {
				seedPlacement(repos, "SC-B", "SCH-1", "C1", "P2", "TS1-MON", model.Monday)
				members = append(members, "SC-B")
			}
			seedConflict(repos, "CONF-1", "SCH-1", tt.slotID, tt.day, true, members...)

			resp, err := svc.Revert(context.Background(), "CONF-1", &dto.RevertConflictRequest{ResolutionNotes: "Reopen"}, "")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			sc := repos.scheduledCourse.items["SC-A"]
			if sc.TimeSlotID != tt.wantSlot || sc.DayOfWeek != tt.wantDay {
				t.Errorf("expected %s %s, got %s %s", tt.wantSlot, tt.wantDay, sc.TimeSlotID, sc.DayOfWeek)
			}
			if sc.IsOverride {
				t.Errorf("override flag should be cleared")
			}
			if resp.IsResolved {
				t.Errorf("conflict should be unresolved after revert")
			}

			if tt.wantWarn {
				if len(resp.Warnings) != 1 || !strings.Contains(resp.Warnings[0], "Seminar") {
					t.Fatalf("expected one warning naming the course, got %v", resp.Warnings)
				}
				if !strings.HasPrefix(resp.ResolutionNotes, "Reopen") || !strings.Contains(resp.ResolutionNotes, "Warning: ") {
					t.Errorf("warning should be appended to notes: %q", resp.ResolutionNotes)
				}
			} else if len(resp.Warnings) != 0 {
				t.Errorf("expected no warnings, got %v", resp.Warnings)
			}
		})
	}
}

func TestConflictService_Revert_StaleHistoryFallsBackToProvenance(t *testing.T) {
	svc, repos := setupTestConflictService(lenientPolicy())
	seedSchedule(repos, "SCH-1", false)
	repos.scheduledCourse.put(model.ScheduledCourse{
		ScheduledCourseID: "SC-A", ScheduleID: "SCH-1", CourseID: "C5", ProfessorID: "P1",
		TimeSlotID: "TS4-TUE", DayOfWeek: model.Tuesday, IsOverride: true,
		OverrideReason: scheduler.EncodeProvenance("TS1-MON", model.Monday, ""),
		VersionedModel: model.VersionedModel{Version: 1},
	})
	seedConflict(repos, "CONF-1", "SCH-1", "TS4-TUE", model.Tuesday, true, "SC-A")
	// 历史记录指向已下线的时间段
	repos.history.entries = append(repos.history.entries, model.PlacementHistory{
		HistoryID: "PH-1", ScheduledCourseID: "SC-A", ScheduleID: "SCH-1",
		ConflictID: strPtr("CONF-1"), PriorTimeSlotID: "TS0-MON", PriorDayOfWeek: model.Monday, PriorProfessorID: "P1",
	})

	if _, err := svc.Revert(context.Background(), "CONF-1", &dto.RevertConflictRequest{}, ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sc := repos.scheduledCourse.items["SC-A"]; sc.TimeSlotID != "TS1-MON" || sc.IsOverride {
		t.Errorf("expected provenance fallback to TS1-MON, got %+v", sc)
	}
	if repos.history.entries[0].RevertedAt == nil {
		t.Errorf("stale history row should be consumed")
	}
}

// ════════════════════════════════════════════════════════════
// 校验与状态错误
// ════════════════════════════════════════════════════════════

func TestConflictService_Override_Validation(t *testing.T) {
	svc, repos := setupTestConflictService(testPolicy())
	seedSchedule(repos, "SCH-1", false)
	seedSchedule(repos, "SCH-2", false)
	seedSchedule(repos, "SCH-F", true)
	seedPlacement(repos, "SC-A", "SCH-1", "C1", "P1", "TS2-MON", model.Monday)
	seedPlacement(repos, "SC-O", "SCH-2", "C1", "P1", "TS2-MON", model.Monday)
	seedPlacement(repos, "SC-F", "SCH-F", "C1", "P1", "TS2-MON", model.Monday)
	seedPlacement(repos, "SC-B", "SCH-1", "C1", "P1", "TS3-WED", model.Wednesday)
	seedConflict(repos, "CONF-1", "SCH-1", "TS2-MON", model.Monday, false, "SC-A")
	seedConflict(repos, "CONF-R", "SCH-1", "TS2-MON", model.Monday, true, "SC-A")
	seedConflict(repos, "CONF-F", "SCH-F", "TS2-MON", model.Monday, false, "SC-F")

	empty := ""
	tests := []struct {
		name       string
		conflictID string
		req        *dto.ResolveConflictRequest
		want       error
	}{
		{"缺少字段", "CONF-1", &dto.ResolveConflictRequest{Action: "OVERRIDE"}, ErrOverrideFieldsRequired},
		{"字段为空串", "CONF-1", &dto.ResolveConflictRequest{Action: "OVERRIDE", ScheduledCourseID: &empty, NewTimeSlotID: &empty}, ErrOverrideFieldsRequired},
		{"冲突已解决", "CONF-R", overrideReq("SC-A", "TS1-MON"), ErrConflictAlreadyResolved},
		{"方案已定稿", "CONF-F", overrideReq("SC-F", "TS1-MON"), ErrScheduleFinal},
		{"落位不存在", "CONF-1", overrideReq("SC-404", "TS1-MON"), ErrScheduledCourseNotFound},
		{"落位属于其他方案", "CONF-1", overrideReq("SC-O", "TS1-MON"), ErrCourseNotInSchedule},
		{"落位不属于该冲突", "CONF-1", overrideReq("SC-B", "TS1-MON"), ErrCourseNotInConflict},
		{"时间段不存在", "CONF-1", overrideReq("SC-A", "TS9-SUN"), ErrTimeSlotNotFound},
		{"时长不匹配", "CONF-1", overrideReq("SC-A", "TS4-TUE"), ErrDurationMismatch},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Resolve(context.Background(), tt.conflictID, tt.req, "")
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}

	if sc := repos.scheduledCourse.items["SC-A"]; sc.TimeSlotID != "TS2-MON" || sc.IsOverride {
		t.Errorf("rejected overrides must not move the placement: %+v", sc)
	}
	if sc := repos.scheduledCourse.items["SC-B"]; sc.TimeSlotID != "TS3-WED" || sc.IsOverride {
		t.Errorf("placement outside the conflict must stay put: %+v", sc)
	}
	if len(repos.history.entries) != 0 {
		t.Errorf("rejected overrides must not write history")
	}
}

func TestConflictService_Override_Locked(t *testing.T) {
	repos := newTestRepos()
	seedCatalog(repos)
	seedSchedule(repos, "SCH-1", false)
	seedPlacement(repos, "SC-A", "SCH-1", "C1", "P1", "TS2-MON", model.Monday)
	seedConflict(repos, "CONF-1", "SCH-1", "TS2-MON", model.Monday, false, "SC-A")
	svc := NewConflictService(repos.toRepository(), testPolicy(), busyLocker{}, zap.NewNop())

	_, err := svc.Resolve(context.Background(), "CONF-1", overrideReq("SC-A", "TS1-MON"), "")
	if !errors.Is(err, pkgerrors.ErrLocked) {
		t.Fatalf("expected ErrLocked, got %v", err)
	}
}

func TestNewHistory_RecordsPriorPlacement(t *testing.T) {
	conflictID := "CONF-1"
	sc := &model.ScheduledCourse{
		ScheduledCourseID: "SC-A", ScheduleID: "SCH-1", CourseID: "C1", ProfessorID: "P1",
		TimeSlotID: "TS2-MON", DayOfWeek: model.Monday, IsOverride: true, OverrideReason: "earlier move",
		VersionedModel: model.VersionedModel{Version: 3},
	}

	h, err := newHistory(sc, &conflictID, "moving again", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if h.PriorTimeSlotID != "TS2-MON" || h.PriorDayOfWeek != model.Monday || *h.ConflictID != conflictID {
		t.Errorf("unexpected history row %+v", h)
	}

	var snap model.PlacementSnapshot
	if err := json.Unmarshal(h.Snapshot, &snap); err != nil {
		t.Fatalf("snapshot is not valid json: %v", err)
	}
	want := model.PlacementSnapshot{
		ProfessorID: "P1", TimeSlotID: "TS2-MON", DayOfWeek: model.Monday,
		IsOverride: true, OverrideReason: "earlier move", Version: 3,
	}
	if snap != want {
		t.Errorf("expected snapshot %+v, got %+v", want, snap)
	}
}

func TestConflictService_FinalizedWhileWaitingForLock(t *testing.T) {
	newSvc := func() (ConflictService, *testRepos) {
		repos := newTestRepos()
		seedCatalog(repos)
		seedSchedule(repos, "SCH-1", false)
		seedPlacement(repos, "SC-A", "SCH-1", "C1", "P1", "TS2-MON", model.Monday)
		seedPlacement(repos, "SC-X", "SCH-1", "C2", "P2", "TS2-MON", model.Monday)
		svc := NewConflictService(repos.toRepository(), testPolicy(), finalizingLocker{repos: repos, scheduleID: "SCH-1"}, zap.NewNop())
		return svc, repos
	}

	t.Run("override", func(t *testing.T) {
		svc, repos := newSvc()
		seedConflict(repos, "CONF-1", "SCH-1", "TS2-MON", model.Monday, false, "SC-A", "SC-X")

		_, err := svc.Resolve(context.Background(), "CONF-1", overrideReq("SC-A", "TS1-MON"), "")
		if !errors.Is(err, ErrScheduleFinal) {
			t.Fatalf("expected ErrScheduleFinal, got %v", err)
		}
		if sc := repos.scheduledCourse.items["SC-A"]; sc.TimeSlotID != "TS2-MON" || sc.IsOverride {
			t.Errorf("placement must not move on a final schedule: %+v", sc)
		}
		if len(repos.history.entries) != 0 {
			t.Errorf("no history expected, got %d rows", len(repos.history.entries))
		}
	})

	t.Run("revert", func(t *testing.T) {
		svc, repos := newSvc()
		seedConflict(repos, "CONF-1", "SCH-1", "TS2-MON", model.Monday, true, "SC-A", "SC-X")

		_, err := svc.Revert(context.Background(), "CONF-1", &dto.RevertConflictRequest{}, "")
		if !errors.Is(err, ErrScheduleFinal) {
			t.Fatalf("expected ErrScheduleFinal, got %v", err)
		}
		if n, _ := repos.conflict.CountUnresolved(context.Background(), "SCH-1"); n != 0 {
			t.Errorf("final schedule must not regain unresolved conflicts, got %d", n)
		}
	})
}

func TestConflictService_Revert_StateErrors(t *testing.T) {
	svc, repos := setupTestConflictService(testPolicy())
	seedSchedule(repos, "SCH-1", false)
	seedSchedule(repos, "SCH-F", true)
	seedConflict(repos, "CONF-OPEN", "SCH-1", "TS2-MON", model.Monday, false)
	seedConflict(repos, "CONF-F", "SCH-F", "TS2-MON", model.Monday, true)

	if _, err := svc.Revert(context.Background(), "CONF-OPEN", &dto.RevertConflictRequest{}, ""); !errors.Is(err, ErrConflictNotResolved) {
		t.Errorf("expected ErrConflictNotResolved, got %v", err)
	}
	if _, err := svc.Revert(context.Background(), "CONF-F", &dto.RevertConflictRequest{}, ""); !errors.Is(err, ErrScheduleFinal) {
		t.Errorf("expected ErrScheduleFinal, got %v", err)
	}
	if _, err := svc.Revert(context.Background(), "CONF-404", &dto.RevertConflictRequest{}, ""); !errors.Is(err, ErrConflictNotFound) {
		t.Errorf("expected ErrConflictNotFound, got %v", err)
	}
}

// ════════════════════════════════════════════════════════════
// 查询
// ════════════════════════════════════════════════════════════

func TestConflictService_ListBySchedule(t *testing.T) {
	svc, repos := setupTestConflictService(testPolicy())
	seedSchedule(repos, "SCH-1", false)
	seedPlacement(repos, "SC-1", "SCH-1", "C2", "P2", "TS3-WED", model.Wednesday)
	seedPlacement(repos, "SC-2", "SCH-1", "C3", "P1", "TS3-WED", model.Wednesday)
	seedConflict(repos, "CONF-1", "SCH-1", "TS3-WED", model.Wednesday, false, "SC-1", "SC-2")

	list, err := svc.ListBySchedule(context.Background(), "SCH-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(list) != 1 || len(list[0].Courses) != 2 {
		t.Fatalf("expected one conflict with two placements, got %+v", list)
	}
	if list[0].Courses[0].Course == nil {
		t.Errorf("linked placement should carry course summary")
	}

	if _, err := svc.ListBySchedule(context.Background(), "missing"); !errors.Is(err, ErrScheduleNotFound) {
		t.Errorf("expected ErrScheduleNotFound, got %v", err)
	}
}
