package workcalendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestISOWeekday(t *testing.T) {
	// 2026-01-12 is a Monday
	mon := time.Date(2026, 1, 12, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 7; i++ {
		assert.Equal(t, i+1, ISOWeekday(mon.AddDate(0, 0, i)))
	}
}

func TestScheduleIsWorkingDay(t *testing.T) {
	sc := &Schedule{WorkingDays: []int{1, 2, 3, 4, 5}}
	assert.True(t, sc.IsWorkingDay(time.Date(2026, 1, 16, 0, 0, 0, 0, time.UTC)))  // Fri
	assert.False(t, sc.IsWorkingDay(time.Date(2026, 1, 17, 0, 0, 0, 0, time.UTC))) // Sat
	assert.False(t, sc.IsWorkingDay(time.Date(2026, 1, 18, 0, 0, 0, 0, time.UTC))) // Sun

	var none *Schedule
	assert.False(t, none.IsWorkingDay(time.Date(2026, 1, 16, 0, 0, 0, 0, time.UTC)))
}

func TestParseWorkingDays(t *testing.T) {
	got, err := parseWorkingDays(" 1, 2,3,4,5,6 ")
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3, 4, 5, 6}, got)

	got, err = parseWorkingDays("")
	require.NoError(t, err)
	assert.Empty(t, got)

	for _, bad := range []string{"0", "8", "mon", "1,,x"} {
		_, err := parseWorkingDays(bad)
		assert.Error(t, err, bad)
	}
}
