package scheduler

import (
	"fmt"
	"sort"
	"strings"

	"course-scheduler/backend/internal/model"
)

// Collision 同一（时间段, 星期）上的多门课
type Collision struct {
	TimeSlotID string
	Day        model.DayOfWeek
	Type       model.ConflictType
	Members    []model.ScheduledCourse
}

// MemberIDs 成员落位 ID（升序）
func (c Collision) MemberIDs() []string {
	ids := make([]string, len(c.Members))
	for i, m := range c.Members {
		ids[i] = m.ScheduledCourseID
	}
	sort.Strings(ids)
	return ids
}

// ClassifyGroup 任意两门课同一教师为 PROFESSOR_CONFLICT，否则 TIME_SLOT_CONFLICT
func ClassifyGroup(group []model.ScheduledCourse) model.ConflictType {
	seen := make(map[string]bool, len(group))
	for _, sc := range group {
		if seen[sc.ProfessorID] {
			return model.ConflictProfessor
		}
		seen[sc.ProfessorID] = true
	}
	return model.ConflictTimeSlot
}

// DetectCollisions 全量扫描：按（时间段, 星期）分组，组内 ≥2 门课即为一个冲突
// 结果按星期、时间段 ID 排序
func DetectCollisions(placements []model.ScheduledCourse) []Collision {
	groups := make(map[string][]model.ScheduledCourse)
	var keys []string
	for _, sc := range placements {
		k := slotKey(sc.TimeSlotID, sc.DayOfWeek)
		if _, ok := groups[k]; !ok {
			keys = append(keys, k)
		}
		groups[k] = append(groups[k], sc)
	}

	var out []Collision
	for _, k := range keys {
		g := groups[k]
		if len(g) < 2 {
			continue
		}
		out = append(out, Collision{
			TimeSlotID: g[0].TimeSlotID,
			Day:        g[0].DayOfWeek,
			Type:       ClassifyGroup(g),
			Members:    g,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Day.ISO() != out[j].Day.ISO() {
			return out[i].Day.ISO() < out[j].Day.ISO()
		}
		return out[i].TimeSlotID < out[j].TimeSlotID
	})
	return out
}

// DetectForChange 单个落位变更后的增量检测
// others 为同一方案中同（时间段, 星期）的其他落位；override=true 时类型固定为 MANUAL_OVERRIDE_CONFLICT
func DetectForChange(changed model.ScheduledCourse, others []model.ScheduledCourse, override bool) *Collision {
	members := []model.ScheduledCourse{changed}
	for _, o := range others {
		if o.ScheduledCourseID == changed.ScheduledCourseID {
			continue
		}
		if o.TimeSlotID != changed.TimeSlotID || o.DayOfWeek != changed.DayOfWeek {
			continue
		}
		members = append(members, o)
	}
	if len(members) < 2 {
		return nil
	}

	typ := ClassifyGroup(members)
	if override {
		typ = model.ConflictManualOverride
	}
	return &Collision{
		TimeSlotID: changed.TimeSlotID,
		Day:        changed.DayOfWeek,
		Type:       typ,
		Members:    members,
	}
}

// Describe 生成冲突说明；courseName 返回空串时使用课程 ID
func (c Collision) Describe(courseName func(courseID string) string) string {
	names := make([]string, 0, len(c.Members))
	for _, m := range c.Members {
		n := courseName(m.CourseID)
		if n == "" {
			n = m.CourseID
		}
		names = append(names, n)
	}

	var kind string
	switch c.Type {
	case model.ConflictProfessor:
		kind = "Professor double-booked"
	case model.ConflictManualOverride:
		kind = "Manual override collides"
	default:
		kind = "Time slot conflict"
	}
	return fmt.Sprintf("%s at %s on %s: %s", kind, c.TimeSlotID, c.Day, strings.Join(names, ", "))
}
