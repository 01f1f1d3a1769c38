package model

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DayOfWeek 星期，库内与接口统一使用英文全称
type DayOfWeek string

const (
	Monday    DayOfWeek = "Monday"
	Tuesday   DayOfWeek = "Tuesday"
	Wednesday DayOfWeek = "Wednesday"
	Thursday  DayOfWeek = "Thursday"
	Friday    DayOfWeek = "Friday"
	Saturday  DayOfWeek = "Saturday"
	Sunday    DayOfWeek = "Sunday"
)

// Days 按 ISO 顺序（周一为 1）
var Days = []DayOfWeek{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

var dayAliases = map[string]DayOfWeek{
	"monday": Monday, "mon": Monday,
	"tuesday": Tuesday, "tue": Tuesday, "tues": Tuesday,
	"wednesday": Wednesday, "wed": Wednesday,
	"thursday": Thursday, "thu": Thursday, "thur": Thursday, "thurs": Thursday,
	"friday": Friday, "fri": Friday,
	"saturday": Saturday, "sat": Saturday,
	"sunday": Sunday, "sun": Sunday,
}

// ParseDay 解析星期：全称、三字母缩写（大小写不敏感）或 ISO 序号 1-7
func ParseDay(s string) (DayOfWeek, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	if d, ok := dayAliases[v]; ok {
		return d, nil
	}
	if n, err := strconv.Atoi(v); err == nil && n >= 1 && n <= 7 {
		return Days[n-1], nil
	}
	return "", fmt.Errorf("无法识别的星期: %q", s)
}

// ISO 返回 ISO 序号，周一为 1，非法值为 0
func (d DayOfWeek) ISO() int {
	for i, day := range Days {
		if day == d {
			return i + 1
		}
	}
	return 0
}

// Short 三字母大写缩写，用于时间段编号后缀（TS2-MON）
func (d DayOfWeek) Short() string {
	if d.ISO() == 0 {
		return ""
	}
	return strings.ToUpper(string(d)[:3])
}

// Valid 是否为合法星期
func (d DayOfWeek) Valid() bool { return d.ISO() != 0 }

func (d DayOfWeek) String() string { return string(d) }

// DayFromWeekday 由 time.Weekday 转换
func DayFromWeekday(w time.Weekday) DayOfWeek {
	if w == time.Sunday {
		return Sunday
	}
	return Days[int(w)-1]
}
