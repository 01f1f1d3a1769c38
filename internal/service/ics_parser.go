package service

import (
	"fmt"
	"io"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"

	"course-scheduler/backend/internal/model"
)

// ── ICS 解析器 ──────────────────────────────────────────────
//
// 职责：把教师日历中的忙碌事件折算为按星期的忙碌区间。
//
//   - DTSTART 的星期决定事件所在日；RRULE 带 BYDAY 时展开到列出的每一天
//   - FREQ=DAILY 且未指定 BYDAY 时占满一周七天
//   - 全天事件占满当天；跨天事件截断到当天 24:00
//   - 截止时间之前已结束的单次事件，以及 UNTIL 早于截止时间的重复事件，均忽略
//   - TRANSP:TRANSPARENT 与 STATUS:CANCELLED 的事件不算忙碌
// ─────────────────────────────────────────────────────────────

const (
	icsMaxFileSize = 5 * 1024 * 1024 // 5MB
	minutesPerDay  = 24 * 60
)

// busyWindow 星期内的忙碌区间 [Start, End)，单位为当天分钟
type busyWindow struct {
	Day   model.DayOfWeek
	Start int
	End   int
}

var icsByDay = map[string]model.DayOfWeek{
	"MO": model.Monday, "TU": model.Tuesday, "WE": model.Wednesday, "TH": model.Thursday,
	"FR": model.Friday, "SA": model.Saturday, "SU": model.Sunday,
}

var allDays = []model.DayOfWeek{
	model.Monday, model.Tuesday, model.Wednesday, model.Thursday,
	model.Friday, model.Saturday, model.Sunday,
}

// parseBusyWindows 解析 ICS 内容，返回事件数与忙碌区间
// loc 为时间段目录所在时区，UTC 时间会先换算到 loc；cutoff 为零值时不过滤过期事件
func parseBusyWindows(reader io.Reader, loc *time.Location, cutoff time.Time) (int, []busyWindow, error) {
	cal, err := ics.ParseCalendar(io.LimitReader(reader, icsMaxFileSize))
	if err != nil {
		return 0, nil, fmt.Errorf("ICS 格式解析失败: %w", err)
	}

	events := cal.Events()
	var windows []busyWindow
	for _, evt := range events {
		windows = append(windows, parseBusyEvent(evt, loc, cutoff)...)
	}
	return len(events), windows, nil
}

func parseBusyEvent(evt *ics.VEvent, loc *time.Location, cutoff time.Time) []busyWindow {
	if p := evt.GetProperty(ics.ComponentPropertyTransp); p != nil && strings.EqualFold(p.Value, "TRANSPARENT") {
		return nil
	}
	if p := evt.GetProperty(ics.ComponentPropertyStatus); p != nil && strings.EqualFold(p.Value, "CANCELLED") {
		return nil
	}

	dtStart, allDay, err := parseICSDateTime(evt, ics.ComponentPropertyDtStart, loc)
	if err != nil {
		return nil
	}

	rule := parseRRule(evt, loc)
	dtEnd, _, endErr := parseICSDateTime(evt, ics.ComponentPropertyDtEnd, loc)
	if !cutoff.IsZero() {
		if rule == nil && eventEnd(dtStart, dtEnd, endErr, allDay).Before(cutoff) {
			return nil
		}
		if rule != nil && !rule.until.IsZero() && rule.until.Before(cutoff) {
			return nil
		}
	}

	start, end := 0, minutesPerDay
	if !allDay {
		start = dtStart.Hour()*60 + dtStart.Minute()
		switch {
		case endErr != nil:
			// 无 DTEND 时按 1 小时处理
			end = start + 60
		case dtEnd.YearDay() != dtStart.YearDay() || dtEnd.Year() != dtStart.Year():
			end = minutesPerDay
		default:
			end = dtEnd.Hour()*60 + dtEnd.Minute()
		}
		if end > minutesPerDay {
			end = minutesPerDay
		}
		if end <= start {
			return nil
		}
	}

	var days []model.DayOfWeek
	switch {
	case rule != nil && len(rule.byDay) > 0:
		days = rule.byDay
	case rule != nil && rule.freq == "DAILY":
		days = allDays
	default:
		days = []model.DayOfWeek{model.DayFromWeekday(dtStart.Weekday())}
	}

	out := make([]busyWindow, 0, len(days))
	for _, d := range days {
		out = append(out, busyWindow{Day: d, Start: start, End: end})
	}
	return out
}

// eventEnd 单次事件的结束时刻，无 DTEND 时全天事件按一天、定时事件按 1 小时
func eventEnd(dtStart, dtEnd time.Time, endErr error, allDay bool) time.Time {
	switch {
	case endErr == nil:
		return dtEnd
	case allDay:
		return dtStart.AddDate(0, 0, 1)
	default:
		return dtStart.Add(time.Hour)
	}
}

// rrule RRULE 中与忙碌区间相关的部分
type rrule struct {
	freq  string
	byDay []model.DayOfWeek
	until time.Time
}

// parseRRule 解析 FREQ / BYDAY / UNTIL，BYDAY 支持 "1MO" 这类带序号的写法
func parseRRule(evt *ics.VEvent, loc *time.Location) *rrule {
	prop := evt.GetProperty(ics.ComponentPropertyRrule)
	if prop == nil {
		return nil
	}
	rule := &rrule{}
	for _, part := range strings.Split(prop.Value, ";") {
		kv := strings.SplitN(part, "=", 2)
		if len(kv) != 2 {
			continue
		}
		switch strings.ToUpper(kv[0]) {
		case "FREQ":
			rule.freq = strings.ToUpper(strings.TrimSpace(kv[1]))
		case "UNTIL":
			rule.until = parseUntil(strings.TrimSpace(kv[1]), loc)
		case "BYDAY":
			for _, tok := range strings.Split(kv[1], ",") {
				tok = strings.ToUpper(strings.TrimSpace(tok))
				if len(tok) < 2 {
					continue
				}
				if d, ok := icsByDay[tok[len(tok)-2:]]; ok {
					rule.byDay = append(rule.byDay, d)
				}
			}
		}
	}
	return rule
}

// parseUntil 无法识别的 UNTIL 视为不设上限
func parseUntil(val string, loc *time.Location) time.Time {
	if t, err := time.Parse("20060102T150405Z", val); err == nil {
		return t
	}
	if t, err := time.ParseInLocation("20060102T150405", val, loc); err == nil {
		return t
	}
	if t, err := time.ParseInLocation("20060102", val, loc); err == nil {
		return t.AddDate(0, 0, 1)
	}
	return time.Time{}
}

// parseICSDateTime 从 VEVENT 中解析日期时间属性，allDay 表示仅有日期
func parseICSDateTime(evt *ics.VEvent, propName ics.ComponentProperty, loc *time.Location) (time.Time, bool, error) {
	prop := evt.GetProperty(propName)
	if prop == nil {
		return time.Time{}, false, fmt.Errorf("missing property %s", propName)
	}
	val := strings.TrimSpace(prop.Value)

	tzid := ""
	for k, v := range prop.ICalParameters {
		if strings.ToUpper(k) == "TZID" && len(v) > 0 {
			tzid = v[0]
		}
	}

	if t, err := time.Parse("20060102T150405Z", val); err == nil {
		return t.In(loc), false, nil
	}
	if t, err := time.Parse("20060102T150405", val); err == nil {
		if tzid != "" {
			if tzLoc, err := time.LoadLocation(tzid); err == nil {
				return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, tzLoc).In(loc), false, nil
			}
		}
		return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, loc), false, nil
	}
	if t, err := time.Parse("20060102", val); err == nil {
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc), true, nil
	}
	return time.Time{}, false, fmt.Errorf("无法解析日期: %s", val)
}

// slotBusy 时间段是否与当天任一忙碌区间重叠
func slotBusy(slot *model.TimeSlot, windows []busyWindow) (bool, error) {
	start, end, err := slot.Window()
	if err != nil {
		return false, err
	}
	for _, w := range windows {
		if w.Day == slot.DayOfWeek && w.Start < end && start < w.End {
			return true, nil
		}
	}
	return false, nil
}
