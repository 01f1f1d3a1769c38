package service

import (
	"context"
	"sort"
	"time"

	"gorm.io/gorm"

	"course-scheduler/backend/internal/model"
	"course-scheduler/backend/internal/repository"
	pkgerrors "course-scheduler/backend/pkg/errors"
)

// 所有 mock 以值保存、以副本返回，调用方修改返回值不会影响存储（与数据库行为一致）

// ── Mock SemesterRepository ──

type mockSemesterRepo struct {
	semesters map[string]model.Semester
}

func newMockSemesterRepo() *mockSemesterRepo {
	return &mockSemesterRepo{semesters: make(map[string]model.Semester)}
}

func (m *mockSemesterRepo) GetByID(_ context.Context, id string) (*model.Semester, error) {
	if s, ok := m.semesters[id]; ok {
		return &s, nil
	}
	return nil, gorm.ErrRecordNotFound
}

// ── Mock CourseRepository ──

type mockCourseRepo struct {
	courses   map[string]model.Course
	semesters map[string][]string // semesterID → courseIDs
}

func newMockCourseRepo() *mockCourseRepo {
	return &mockCourseRepo{
		courses:   make(map[string]model.Course),
		semesters: make(map[string][]string),
	}
}

func (m *mockCourseRepo) add(semesterID string, c model.Course) {
	m.courses[c.CourseID] = c
	m.semesters[semesterID] = append(m.semesters[semesterID], c.CourseID)
}

func (m *mockCourseRepo) GetByID(_ context.Context, id string) (*model.Course, error) {
	if c, ok := m.courses[id]; ok {
		return &c, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockCourseRepo) ListBySemester(_ context.Context, semesterID string) ([]model.Course, error) {
	var out []model.Course
	for _, id := range m.semesters[semesterID] {
		out = append(out, m.courses[id])
	}
	return out, nil
}

func (m *mockCourseRepo) ListByIDs(_ context.Context, ids []string) ([]model.Course, error) {
	var out []model.Course
	for _, id := range ids {
		if c, ok := m.courses[id]; ok {
			out = append(out, c)
		}
	}
	return out, nil
}

// ── Mock ProfessorRepository ──

type mockProfessorRepo struct {
	professors  map[string]model.Professor
	eligibility []model.ProfessorCourse
}

func newMockProfessorRepo() *mockProfessorRepo {
	return &mockProfessorRepo{professors: make(map[string]model.Professor)}
}

func (m *mockProfessorRepo) GetByID(_ context.Context, id string) (*model.Professor, error) {
	if p, ok := m.professors[id]; ok {
		return &p, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockProfessorRepo) List(_ context.Context) ([]model.Professor, error) {
	out := make([]model.Professor, 0, len(m.professors))
	for _, p := range m.professors {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ProfessorID < out[j].ProfessorID })
	return out, nil
}

func (m *mockProfessorRepo) ListEligibility(_ context.Context, courseIDs []string) ([]model.ProfessorCourse, error) {
	want := make(map[string]bool, len(courseIDs))
	for _, id := range courseIDs {
		want[id] = true
	}
	var out []model.ProfessorCourse
	for _, pc := range m.eligibility {
		if want[pc.CourseID] {
			out = append(out, pc)
		}
	}
	return out, nil
}

// ── Mock TimeSlotRepository ──

type mockTimeSlotRepo struct {
	slots []model.TimeSlot
}

func newMockTimeSlotRepo() *mockTimeSlotRepo {
	return &mockTimeSlotRepo{}
}

func (m *mockTimeSlotRepo) GetByID(_ context.Context, id string) (*model.TimeSlot, error) {
	for _, s := range m.slots {
		if s.TimeSlotID == id {
			return &s, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockTimeSlotRepo) GetByIDAndDay(_ context.Context, id string, day model.DayOfWeek) (*model.TimeSlot, error) {
	for _, s := range m.slots {
		if s.TimeSlotID == id && s.DayOfWeek == day {
			return &s, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockTimeSlotRepo) List(_ context.Context) ([]model.TimeSlot, error) {
	return append([]model.TimeSlot(nil), m.slots...), nil
}

// ── Mock AvailabilityRepository ──

type mockAvailabilityRepo struct {
	rows         map[string][]model.ProfessorAvailability
	replaceCalls int
}

func newMockAvailabilityRepo() *mockAvailabilityRepo {
	return &mockAvailabilityRepo{rows: make(map[string][]model.ProfessorAvailability)}
}

func (m *mockAvailabilityRepo) ListByProfessor(_ context.Context, professorID string) ([]model.ProfessorAvailability, error) {
	return append([]model.ProfessorAvailability(nil), m.rows[professorID]...), nil
}

func (m *mockAvailabilityRepo) ListByProfessors(_ context.Context, professorIDs []string) ([]model.ProfessorAvailability, error) {
	var out []model.ProfessorAvailability
	for _, id := range professorIDs {
		out = append(out, m.rows[id]...)
	}
	return out, nil
}

func (m *mockAvailabilityRepo) ReplaceByProfessor(_ context.Context, professorID string, entries []model.ProfessorAvailability) error {
	m.replaceCalls++
	m.rows[professorID] = append([]model.ProfessorAvailability(nil), entries...)
	return nil
}

// ── Mock ScheduleRepository ──

type mockScheduleRepo struct {
	schedules map[string]model.Schedule
	semesters *mockSemesterRepo
}

func newMockScheduleRepo(semesters *mockSemesterRepo) *mockScheduleRepo {
	return &mockScheduleRepo{schedules: make(map[string]model.Schedule), semesters: semesters}
}

func (m *mockScheduleRepo) Create(_ context.Context, s *model.Schedule) error {
	cp := *s
	cp.Semester = nil
	m.schedules[s.ScheduleID] = cp
	return nil
}

func (m *mockScheduleRepo) GetByID(_ context.Context, id string) (*model.Schedule, error) {
	s, ok := m.schedules[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	if sem, ok := m.semesters.semesters[s.SemesterID]; ok {
		s.Semester = &sem
	}
	return &s, nil
}

func (m *mockScheduleRepo) GetByIDForUpdate(_ context.Context, id string) (*model.Schedule, error) {
	s, ok := m.schedules[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &s, nil
}

func (m *mockScheduleRepo) List(_ context.Context, semesterID string) ([]model.Schedule, error) {
	var out []model.Schedule
	for _, s := range m.schedules {
		if semesterID == "" || s.SemesterID == semesterID {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ScheduleID < out[j].ScheduleID })
	return out, nil
}

func (m *mockScheduleRepo) Update(_ context.Context, s *model.Schedule) error {
	stored, ok := m.schedules[s.ScheduleID]
	if !ok || stored.Version != s.Version {
		return pkgerrors.ErrOptimisticLock
	}
	s.Version++
	cp := *s
	cp.Semester = nil
	m.schedules[s.ScheduleID] = cp
	return nil
}

func (m *mockScheduleRepo) Delete(_ context.Context, id string) error {
	delete(m.schedules, id)
	return nil
}

// ── Mock ScheduledCourseRepository ──

type mockScheduledCourseRepo struct {
	items   map[string]model.ScheduledCourse
	order   []string
	courses *mockCourseRepo
}

func newMockScheduledCourseRepo(courses *mockCourseRepo) *mockScheduledCourseRepo {
	return &mockScheduledCourseRepo{items: make(map[string]model.ScheduledCourse), courses: courses}
}

func (m *mockScheduledCourseRepo) put(sc model.ScheduledCourse) {
	if _, ok := m.items[sc.ScheduledCourseID]; !ok {
		m.order = append(m.order, sc.ScheduledCourseID)
	}
	sc.Course, sc.Professor, sc.TimeSlot = nil, nil, nil
	m.items[sc.ScheduledCourseID] = sc
}

// withCourse 模拟 Preload("Course")
func (m *mockScheduledCourseRepo) withCourse(sc model.ScheduledCourse) model.ScheduledCourse {
	if c, ok := m.courses.courses[sc.CourseID]; ok {
		sc.Course = &c
	}
	return sc
}

func (m *mockScheduledCourseRepo) Create(_ context.Context, sc *model.ScheduledCourse) error {
	m.put(*sc)
	return nil
}

func (m *mockScheduledCourseRepo) BatchCreate(_ context.Context, list []model.ScheduledCourse) error {
	for _, sc := range list {
		m.put(sc)
	}
	return nil
}

func (m *mockScheduledCourseRepo) GetByID(_ context.Context, id string) (*model.ScheduledCourse, error) {
	sc, ok := m.items[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	sc = m.withCourse(sc)
	return &sc, nil
}

func (m *mockScheduledCourseRepo) ListBySchedule(_ context.Context, scheduleID string) ([]model.ScheduledCourse, error) {
	var out []model.ScheduledCourse
	for _, id := range m.order {
		if sc, ok := m.items[id]; ok && sc.ScheduleID == scheduleID {
			out = append(out, m.withCourse(sc))
		}
	}
	return out, nil
}

func (m *mockScheduledCourseRepo) ListByIDs(_ context.Context, ids []string) ([]model.ScheduledCourse, error) {
	var out []model.ScheduledCourse
	for _, id := range sortedCopy(ids) {
		if sc, ok := m.items[id]; ok {
			out = append(out, m.withCourse(sc))
		}
	}
	return out, nil
}

func (m *mockScheduledCourseRepo) ListAtSlot(_ context.Context, scheduleID, timeSlotID string, day model.DayOfWeek) ([]model.ScheduledCourse, error) {
	var out []model.ScheduledCourse
	for _, id := range m.order {
		sc, ok := m.items[id]
		if ok && sc.ScheduleID == scheduleID && sc.TimeSlotID == timeSlotID && sc.DayOfWeek == day {
			out = append(out, sc)
		}
	}
	return out, nil
}

func (m *mockScheduledCourseRepo) FindByScheduleAndCourse(_ context.Context, scheduleID, courseID string) (*model.ScheduledCourse, error) {
	for _, id := range m.order {
		sc, ok := m.items[id]
		if ok && sc.ScheduleID == scheduleID && sc.CourseID == courseID {
			return &sc, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockScheduledCourseRepo) Update(_ context.Context, sc *model.ScheduledCourse) error {
	stored, ok := m.items[sc.ScheduledCourseID]
	if !ok || stored.Version != sc.Version {
		return pkgerrors.ErrOptimisticLock
	}
	sc.Version++
	m.put(*sc)
	return nil
}

func (m *mockScheduledCourseRepo) Delete(_ context.Context, id string) error {
	delete(m.items, id)
	return nil
}

func (m *mockScheduledCourseRepo) DeleteBySchedule(_ context.Context, scheduleID string) error {
	for id, sc := range m.items {
		if sc.ScheduleID == scheduleID {
			delete(m.items, id)
		}
	}
	return nil
}

// ── Mock PlacementHistoryRepository ──

type mockPlacementHistoryRepo struct {
	entries []model.PlacementHistory // 按写入顺序
}

func newMockPlacementHistoryRepo() *mockPlacementHistoryRepo {
	return &mockPlacementHistoryRepo{}
}

func (m *mockPlacementHistoryRepo) Create(_ context.Context, h *model.PlacementHistory) error {
	h.CreatedAt = time.Now()
	m.entries = append(m.entries, *h)
	return nil
}

func (m *mockPlacementHistoryRepo) ListByScheduledCourse(_ context.Context, scheduledCourseID string) ([]model.PlacementHistory, error) {
	var out []model.PlacementHistory
	for i := len(m.entries) - 1; i >= 0; i-- {
		if m.entries[i].ScheduledCourseID == scheduledCourseID {
			out = append(out, m.entries[i])
		}
	}
	return out, nil
}

func (m *mockPlacementHistoryRepo) LatestPending(_ context.Context, scheduledCourseID string, conflictID *string) (*model.PlacementHistory, error) {
	for i := len(m.entries) - 1; i >= 0; i-- {
		h := m.entries[i]
		if h.ScheduledCourseID != scheduledCourseID || h.RevertedAt != nil {
			continue
		}
		if conflictID != nil && (h.ConflictID == nil || *h.ConflictID != *conflictID) {
			continue
		}
		return &h, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockPlacementHistoryRepo) MarkReverted(_ context.Context, historyID string, at time.Time) error {
	for i := range m.entries {
		if m.entries[i].HistoryID == historyID {
			t := at
			m.entries[i].RevertedAt = &t
		}
	}
	return nil
}

func (m *mockPlacementHistoryRepo) DeleteByScheduledCourse(_ context.Context, scheduledCourseID string) error {
	kept := m.entries[:0]
	for _, h := range m.entries {
		if h.ScheduledCourseID != scheduledCourseID {
			kept = append(kept, h)
		}
	}
	m.entries = kept
	return nil
}

func (m *mockPlacementHistoryRepo) DeleteBySchedule(_ context.Context, scheduleID string) error {
	kept := m.entries[:0]
	for _, h := range m.entries {
		if h.ScheduleID != scheduleID {
			kept = append(kept, h)
		}
	}
	m.entries = kept
	return nil
}

// ── Mock ConflictRepository ──

type mockConflictRepo struct {
	conflicts map[string]model.Conflict
	order     []string
}

func newMockConflictRepo() *mockConflictRepo {
	return &mockConflictRepo{conflicts: make(map[string]model.Conflict)}
}

func (m *mockConflictRepo) Create(_ context.Context, c *model.Conflict) error {
	m.order = append(m.order, c.ConflictID)
	m.conflicts[c.ConflictID] = *c
	return nil
}

func (m *mockConflictRepo) GetByID(_ context.Context, id string) (*model.Conflict, error) {
	if c, ok := m.conflicts[id]; ok {
		return &c, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockConflictRepo) ListBySchedule(_ context.Context, scheduleID string) ([]model.Conflict, error) {
	var out []model.Conflict
	for _, id := range m.order {
		if c, ok := m.conflicts[id]; ok && c.ScheduleID == scheduleID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *mockConflictRepo) CountUnresolved(_ context.Context, scheduleID string) (int64, error) {
	var n int64
	for _, c := range m.conflicts {
		if c.ScheduleID == scheduleID && !c.IsResolved {
			n++
		}
	}
	return n, nil
}

func (m *mockConflictRepo) Update(_ context.Context, c *model.Conflict) error {
	if _, ok := m.conflicts[c.ConflictID]; !ok {
		return gorm.ErrRecordNotFound
	}
	m.conflicts[c.ConflictID] = *c
	return nil
}

func (m *mockConflictRepo) DeleteBySchedule(_ context.Context, scheduleID string) error {
	for id, c := range m.conflicts {
		if c.ScheduleID == scheduleID {
			delete(m.conflicts, id)
		}
	}
	return nil
}

// ── Mock ConflictCourseRepository ──

type mockConflictCourseRepo struct {
	links     []model.ConflictCourse
	conflicts *mockConflictRepo
	courses   *mockScheduledCourseRepo
}

func newMockConflictCourseRepo(conflicts *mockConflictRepo, courses *mockScheduledCourseRepo) *mockConflictCourseRepo {
	return &mockConflictCourseRepo{conflicts: conflicts, courses: courses}
}

func (m *mockConflictCourseRepo) BatchCreate(_ context.Context, links []model.ConflictCourse) error {
	m.links = append(m.links, links...)
	return nil
}

func (m *mockConflictCourseRepo) ListByConflicts(_ context.Context, conflictIDs []string) ([]model.ConflictCourse, error) {
	want := make(map[string]bool, len(conflictIDs))
	for _, id := range conflictIDs {
		want[id] = true
	}
	var out []model.ConflictCourse
	for _, l := range m.links {
		if want[l.ConflictID] {
			out = append(out, l)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].ConflictID != out[j].ConflictID {
			return out[i].ConflictID < out[j].ConflictID
		}
		return out[i].ScheduledCourseID < out[j].ScheduledCourseID
	})
	return out, nil
}

func (m *mockConflictCourseRepo) DeleteByScheduledCourse(_ context.Context, scheduledCourseID string) error {
	kept := m.links[:0]
	for _, l := range m.links {
		if l.ScheduledCourseID != scheduledCourseID {
			kept = append(kept, l)
		}
	}
	m.links = kept
	return nil
}

func (m *mockConflictCourseRepo) DeleteBySchedule(_ context.Context, scheduleID string) error {
	kept := m.links[:0]
	for _, l := range m.links {
		c, cok := m.conflicts.conflicts[l.ConflictID]
		sc, sok := m.courses.items[l.ScheduledCourseID]
		if (cok && c.ScheduleID == scheduleID) || (sok && sc.ScheduleID == scheduleID) {
			continue
		}
		kept = append(kept, l)
	}
	m.links = kept
	return nil
}

// ── 聚合 ──

// testRepos 聚合所有 mock repo 便于 seed 数据
type testRepos struct {
	semester        *mockSemesterRepo
	course          *mockCourseRepo
	professor       *mockProfessorRepo
	timeSlot        *mockTimeSlotRepo
	availability    *mockAvailabilityRepo
	schedule        *mockScheduleRepo
	scheduledCourse *mockScheduledCourseRepo
	history         *mockPlacementHistoryRepo
	conflict        *mockConflictRepo
	conflictCourse  *mockConflictCourseRepo
}

func newTestRepos() *testRepos {
	r := &testRepos{
		semester:     newMockSemesterRepo(),
		course:       newMockCourseRepo(),
		professor:    newMockProfessorRepo(),
		timeSlot:     newMockTimeSlotRepo(),
		availability: newMockAvailabilityRepo(),
		history:      newMockPlacementHistoryRepo(),
		conflict:     newMockConflictRepo(),
	}
	r.schedule = newMockScheduleRepo(r.semester)
	r.scheduledCourse = newMockScheduledCourseRepo(r.course)
	r.conflictCourse = newMockConflictCourseRepo(r.conflict, r.scheduledCourse)
	return r
}

// toRepository 未绑定数据库，Transaction 直接执行回调
func (r *testRepos) toRepository() *repository.Repository {
	return &repository.Repository{
		Semester:         r.semester,
		Course:           r.course,
		Professor:        r.professor,
		TimeSlot:         r.timeSlot,
		Availability:     r.availability,
		Schedule:         r.schedule,
		ScheduledCourse:  r.scheduledCourse,
		PlacementHistory: r.history,
		Conflict:         r.conflict,
		ConflictCourse:   r.conflictCourse,
	}
}
