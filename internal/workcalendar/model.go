package workcalendar

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const DateLayout = "2006-01-02"

type Holiday struct {
	Date string // YYYY-MM-DD
	Name string
}

// DayOff is a recovery declaration that turns a working day into a day off.
type DayOff struct {
	DeclarationID int64
	Date          string
	Label         string
	PeriodName    string
}

// Schedule is the active work schedule. WorkingDays holds ISO weekdays
// (1=Monday … 7=Sunday).
type Schedule struct {
	ID          int64
	Name        string
	WorkingDays []int
}

// Scope is the organisational placement used to match scoped recovery days.
type Scope struct {
	DepartmentID *int64
	SegmentID    *int64
	WorkCenterID *int64
}

// ISOWeekday: 月=1 … 日=7
func ISOWeekday(t time.Time) int {
	wd := int(t.Weekday())
	if wd == 0 {
		return 7
	}
	return wd
}

func (s *Schedule) IsWorkingDay(day time.Time) bool {
	if s == nil {
		return false
	}
	wd := ISOWeekday(day)
	for _, d := range s.WorkingDays {
		if d == wd {
			return true
		}
	}
	return false
}

// parseWorkingDays reads the "1,2,3,4,5" column format.
func parseWorkingDays(v string) ([]int, error) {
	var out []int
	for _, part := range strings.Split(v, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil || n < 1 || n > 7 {
			return nil, fmt.Errorf("invalid weekday %q in working_days", part)
		}
		out = append(out, n)
	}
	return out, nil
}
