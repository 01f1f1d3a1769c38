package service

import (
	"time"

	"course-scheduler/backend/internal/dto"
	"course-scheduler/backend/internal/model"
)

const timeLayout = "2006-01-02T15:04:05Z"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

// ── model → dto ──

func toCourseBrief(c *model.Course) *dto.CourseBrief {
	if c == nil {
		return nil
	}
	return &dto.CourseBrief{
		ID:              c.CourseID,
		Name:            c.CourseName,
		DurationMinutes: c.DurationMinutes,
		IsCore:          c.IsCore,
	}
}

func toProfessorBrief(p *model.Professor) *dto.ProfessorBrief {
	if p == nil {
		return nil
	}
	return &dto.ProfessorBrief{ID: p.ProfessorID, Name: p.FullName(), Email: p.Email}
}

func toTimeSlotBrief(t *model.TimeSlot) *dto.TimeSlotBrief {
	if t == nil {
		return nil
	}
	return &dto.TimeSlotBrief{
		ID:              t.TimeSlotID,
		Name:            t.Name,
		DayOfWeek:       t.DayOfWeek.String(),
		StartTime:       t.StartTime,
		EndTime:         t.EndTime,
		DurationMinutes: t.DurationMinutes,
	}
}

func toScheduledCourseResponse(sc *model.ScheduledCourse) dto.ScheduledCourseResponse {
	return dto.ScheduledCourseResponse{
		ID:             sc.ScheduledCourseID,
		ScheduleID:     sc.ScheduleID,
		CourseID:       sc.CourseID,
		Course:         toCourseBrief(sc.Course),
		ProfessorID:    sc.ProfessorID,
		Professor:      toProfessorBrief(sc.Professor),
		TimeSlotID:     sc.TimeSlotID,
		DayOfWeek:      sc.DayOfWeek.String(),
		TimeSlot:       toTimeSlotBrief(sc.TimeSlot),
		IsOverride:     sc.IsOverride,
		OverrideReason: sc.OverrideReason,
		Version:        sc.Version,
	}
}

func toScheduleResponse(s *model.Schedule) dto.ScheduleResponse {
	resp := dto.ScheduleResponse{
		ID:         s.ScheduleID,
		SemesterID: s.SemesterID,
		Name:       s.Name,
		IsFinal:    s.IsFinal,
		Version:    s.Version,
		CreatedAt:  formatTime(s.CreatedAt),
		UpdatedAt:  formatTime(s.UpdatedAt),
	}
	if s.Semester != nil {
		resp.Semester = &dto.SemesterBrief{ID: s.Semester.SemesterID, Name: s.Semester.Name}
	}
	return resp
}

// toConflictResponse members 为已预加载课程/教师/时间段的关联落位
func toConflictResponse(c *model.Conflict, members []model.ScheduledCourse, slot *model.TimeSlot, course *model.Course) dto.ConflictResponse {
	resp := dto.ConflictResponse{
		ID:              c.ConflictID,
		ScheduleID:      c.ScheduleID,
		TimeSlotID:      c.TimeSlotID,
		TimeSlot:        toTimeSlotBrief(slot),
		Course:          toCourseBrief(course),
		ConflictType:    string(c.ConflictType),
		Description:     c.Description,
		IsResolved:      c.IsResolved,
		ResolutionNotes: c.ResolutionNotes,
		Courses:         make([]dto.ScheduledCourseResponse, 0, len(members)),
		CreatedAt:       formatTime(c.CreatedAt),
		UpdatedAt:       formatTime(c.UpdatedAt),
	}
	if c.DayOfWeek != nil {
		d := c.DayOfWeek.String()
		resp.DayOfWeek = &d
	}
	for i := range members {
		resp.Courses = append(resp.Courses, toScheduledCourseResponse(&members[i]))
	}
	return resp
}

func toHistoryResponse(h *model.PlacementHistory) dto.PlacementHistoryResponse {
	resp := dto.PlacementHistoryResponse{
		ID:               h.HistoryID,
		ConflictID:       h.ConflictID,
		PriorTimeSlotID:  h.PriorTimeSlotID,
		PriorDayOfWeek:   h.PriorDayOfWeek.String(),
		PriorProfessorID: h.PriorProfessorID,
		Reason:           h.Reason,
		CreatedAt:        formatTime(h.CreatedAt),
	}
	if h.RevertedAt != nil {
		s := formatTime(*h.RevertedAt)
		resp.RevertedAt = &s
	}
	return resp
}

func toAvailabilityResponse(a *model.ProfessorAvailability) dto.AvailabilityResponse {
	return dto.AvailabilityResponse{
		ID:          a.AvailabilityID,
		ProfessorID: a.ProfessorID,
		TimeSlotID:  a.TimeSlotID,
		DayOfWeek:   a.DayOfWeek.String(),
		IsAvailable: a.IsAvailable,
	}
}

func strPtr(s string) *string { return &s }

func dayPtr(d model.DayOfWeek) *model.DayOfWeek { return &d }
