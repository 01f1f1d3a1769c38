package model

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDay(t *testing.T) {
	cases := map[string]DayOfWeek{
		"Monday":    Monday,
		"monday":    Monday,
		"MON":       Monday,
		"Mon":       Monday,
		" wed ":     Wednesday,
		"Thurs":     Thursday,
		"5":         Friday,
		"7":         Sunday,
		"SATURDAY":  Saturday,
		"tue":       Tuesday,
		"Wednesday": Wednesday,
	}
	for in, want := range cases {
		got, err := ParseDay(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	for _, bad := range []string{"", "0", "8", "Funday", "M"} {
		_, err := ParseDay(bad)
		assert.Error(t, err, bad)
	}
}

func TestDayOfWeek_ISOAndShort(t *testing.T) {
	assert.Equal(t, 1, Monday.ISO())
	assert.Equal(t, 7, Sunday.ISO())
	assert.Equal(t, 0, DayOfWeek("Noday").ISO())
	assert.Equal(t, "TUE", Tuesday.Short())
	assert.Equal(t, "", DayOfWeek("x").Short())
	assert.False(t, DayOfWeek("monday").Valid(), "存储值必须是规范全称")
}

func TestDayFromWeekday(t *testing.T) {
	assert.Equal(t, Sunday, DayFromWeekday(time.Sunday))
	assert.Equal(t, Monday, DayFromWeekday(time.Monday))
	assert.Equal(t, Saturday, DayFromWeekday(time.Saturday))
}

func TestNewID(t *testing.T) {
	id := NewID(PrefixSchedule)
	assert.True(t, strings.HasPrefix(id, "SCH-"))
	assert.Len(t, id, len("SCH-")+8)
	assert.NotEqual(t, id, NewID(PrefixSchedule))
}

func TestTimeSlot_Window(t *testing.T) {
	ts := TimeSlot{TimeSlotID: "TS3-WED", StartTime: "11:00", EndTime: "12:20"}
	start, end, err := ts.Window()
	require.NoError(t, err)
	assert.Equal(t, 660, start)
	assert.Equal(t, 740, end)

	bad := TimeSlot{TimeSlotID: "X", StartTime: "11", EndTime: "12:20"}
	_, _, err = bad.Window()
	assert.Error(t, err)
}
