// Package scheduler 排课核心算法：贪心落位、冲突识别与覆盖溯源编码。
// 本包不访问存储，输入输出均为 model 值，便于单测与复用。
package scheduler

import (
	"fmt"
	"sort"

	"course-scheduler/backend/internal/model"
)

// Policy 落位策略
type Policy struct {
	// DurationTolerance 课程时长与时间段时长允许的偏差（分钟）
	DurationTolerance int
	// CoreFirst 必修课优先于选修课落位
	CoreFirst bool
	// ExclusiveSlots 同一方案中每个（时间段, 星期）最多一门课
	ExclusiveSlots bool
	// DepartmentFallback 课程未配置授课资格时，允许本院系教师授课
	DepartmentFallback bool
	// DefaultAvailable 教师未登记任何可用性时视为全部可用
	DefaultAvailable bool
}

// DefaultPolicy 默认策略
func DefaultPolicy() Policy {
	return Policy{
		DurationTolerance:  10,
		CoreFirst:          true,
		ExclusiveSlots:     true,
		DepartmentFallback: true,
	}
}

// Input 一次排课所需的全部目录数据
type Input struct {
	Courses      []model.Course
	Professors   []model.Professor
	Eligibility  []model.ProfessorCourse
	Slots        []model.TimeSlot
	Availability []model.ProfessorAvailability
}

// Placement 一门课的落位结果
type Placement struct {
	CourseID    string
	ProfessorID string
	TimeSlotID  string
	Day         model.DayOfWeek
}

// UnplacedReason 无法落位的原因
type UnplacedReason string

const (
	ReasonNoCompatibleSlot  UnplacedReason = "no time slot matches the course duration"
	ReasonNoEligibleTeacher UnplacedReason = "no eligible professor"
	ReasonNoAvailableSlot   UnplacedReason = "no eligible professor is available in a free compatible slot"
)

// Unplaced 未能落位的课程
type Unplaced struct {
	Course model.Course
	Reason UnplacedReason
}

// Description 写入 NO_AVAILABLE_SLOT 冲突的说明
func (u Unplaced) Description() string {
	return fmt.Sprintf("Could not schedule %s (%d min): %s", u.Course.CourseName, u.Course.DurationMinutes, u.Reason)
}

// Result 排课结果
type Result struct {
	Placements []Placement
	Unplaced   []Unplaced
}

// DurationCompatible 课程时长是否落在时间段时长 ± 容差内
func DurationCompatible(courseMinutes, slotMinutes, tolerance int) bool {
	diff := courseMinutes - slotMinutes
	if diff < 0 {
		diff = -diff
	}
	return diff <= tolerance
}

// Assign 按确定性顺序贪心落位
//
// 课程顺序：必修优先（CoreFirst 时），再按课程名、课程 ID；
// 时间段顺序：星期、开始时间、时间段 ID；教师顺序：教师 ID。
// 每门课取第一个满足时长、资格、可用性与占用约束的（时间段, 教师）组合。
func Assign(in Input, p Policy) Result {
	courses := append([]model.Course(nil), in.Courses...)
	sort.SliceStable(courses, func(i, j int) bool {
		a, b := courses[i], courses[j]
		if p.CoreFirst && a.IsCore != b.IsCore {
			return a.IsCore
		}
		if a.CourseName != b.CourseName {
			return a.CourseName < b.CourseName
		}
		return a.CourseID < b.CourseID
	})

	slots := append([]model.TimeSlot(nil), in.Slots...)
	SortSlots(slots)

	eligible := buildEligibility(in, p)
	avail := newAvailabilityIndex(in.Availability, p.DefaultAvailable)

	profBusy := make(map[string]bool)
	slotUsed := make(map[string]bool)

	var result Result
	for _, course := range courses {
		profs := eligible[course.CourseID]
		if len(profs) == 0 {
			result.Unplaced = append(result.Unplaced, Unplaced{Course: course, Reason: ReasonNoEligibleTeacher})
			continue
		}

		placed := false
		compatible := false
		for _, slot := range slots {
			if !DurationCompatible(course.DurationMinutes, slot.DurationMinutes, p.DurationTolerance) {
				continue
			}
			compatible = true

			sk := slotKey(slot.TimeSlotID, slot.DayOfWeek)
			if p.ExclusiveSlots && slotUsed[sk] {
				continue
			}
			for _, profID := range profs {
				pk := profID + "|" + sk
				if profBusy[pk] || !avail.available(profID, slot.TimeSlotID, slot.DayOfWeek) {
					continue
				}
				result.Placements = append(result.Placements, Placement{
					CourseID:    course.CourseID,
					ProfessorID: profID,
					TimeSlotID:  slot.TimeSlotID,
					Day:         slot.DayOfWeek,
				})
				profBusy[pk] = true
				slotUsed[sk] = true
				placed = true
				break
			}
			if placed {
				break
			}
		}

		if !placed {
			reason := ReasonNoAvailableSlot
			if !compatible {
				reason = ReasonNoCompatibleSlot
			}
			result.Unplaced = append(result.Unplaced, Unplaced{Course: course, Reason: reason})
		}
	}

	return result
}

// SortSlots 星期 → 开始时间 → 时间段 ID
func SortSlots(slots []model.TimeSlot) {
	sort.SliceStable(slots, func(i, j int) bool {
		a, b := slots[i], slots[j]
		if a.DayOfWeek.ISO() != b.DayOfWeek.ISO() {
			return a.DayOfWeek.ISO() < b.DayOfWeek.ISO()
		}
		if a.StartTime != b.StartTime {
			return a.StartTime < b.StartTime
		}
		return a.TimeSlotID < b.TimeSlotID
	})
}

func slotKey(timeSlotID string, day model.DayOfWeek) string {
	return timeSlotID + "|" + string(day)
}

// courseID → 升序教师 ID
func buildEligibility(in Input, p Policy) map[string][]string {
	set := make(map[string]map[string]bool)
	for _, pc := range in.Eligibility {
		if set[pc.CourseID] == nil {
			set[pc.CourseID] = make(map[string]bool)
		}
		set[pc.CourseID][pc.ProfessorID] = true
	}

	out := make(map[string][]string, len(in.Courses))
	for _, c := range in.Courses {
		var ids []string
		for id := range set[c.CourseID] {
			ids = append(ids, id)
		}
		if len(ids) == 0 && p.DepartmentFallback {
			for _, prof := range in.Professors {
				if prof.DepartmentID == c.DepartmentID {
					ids = append(ids, prof.ProfessorID)
				}
			}
		}
		sort.Strings(ids)
		out[c.CourseID] = ids
	}
	return out
}

type availabilityIndex struct {
	entries          map[string]bool
	hasRows          map[string]bool
	defaultAvailable bool
}

func newAvailabilityIndex(rows []model.ProfessorAvailability, defaultAvailable bool) *availabilityIndex {
	idx := &availabilityIndex{
		entries:          make(map[string]bool, len(rows)),
		hasRows:          make(map[string]bool),
		defaultAvailable: defaultAvailable,
	}
	for _, r := range rows {
		idx.entries[r.ProfessorID+"|"+slotKey(r.TimeSlotID, r.DayOfWeek)] = r.IsAvailable
		idx.hasRows[r.ProfessorID] = true
	}
	return idx
}

func (a *availabilityIndex) available(profID, timeSlotID string, day model.DayOfWeek) bool {
	if v, ok := a.entries[profID+"|"+slotKey(timeSlotID, day)]; ok {
		return v
	}
	return a.defaultAvailable && !a.hasRows[profID]
}
