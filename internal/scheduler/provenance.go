package scheduler

import (
	"fmt"
	"regexp"
	"strings"

	"course-scheduler/backend/internal/model"
)

// 覆盖前落位以固定后缀写入 override_reason：
//
//	<notes> (original_timeslot_id: TS2-MON, original_day_of_week: Monday)
//
// 后缀格式被既有数据使用，不可改动。
var provenancePattern = regexp.MustCompile(
	`\(?\s*original_timeslot_id:\s*([^,\s()]+)\s*,\s*original_day_of_week:\s*([A-Za-z]+|[1-7])\s*\)?`,
)

// Provenance 覆盖前的时间段与星期
type Provenance struct {
	TimeSlotID string
	Day        model.DayOfWeek
}

// EncodeProvenance 在备注后追加原始落位
func EncodeProvenance(timeSlotID string, day model.DayOfWeek, baseNotes string) string {
	suffix := fmt.Sprintf("(original_timeslot_id: %s, original_day_of_week: %s)", timeSlotID, day)
	base := strings.TrimSpace(baseNotes)
	if base == "" {
		return suffix
	}
	return base + " " + suffix
}

// DecodeProvenance 从文本中解析原始落位
// 文本中有多段后缀时以最后一段为准；缺失或星期无法识别时 ok=false
func DecodeProvenance(text string) (Provenance, bool) {
	matches := provenancePattern.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return Provenance{}, false
	}
	last := matches[len(matches)-1]
	day, err := model.ParseDay(last[2])
	if err != nil {
		return Provenance{}, false
	}
	return Provenance{TimeSlotID: last[1], Day: day}, true
}

// StripProvenance 去掉所有落位后缀，返回纯备注
func StripProvenance(text string) string {
	return strings.TrimSpace(provenancePattern.ReplaceAllString(text, ""))
}
