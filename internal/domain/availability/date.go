package availability

import (
	"fmt"
	"time"
)

const DateLayout = "2006-01-02"

// DateOf truncates t to local midnight in t's location.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// ParseDate parses YYYY-MM-DD as midnight in loc.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	d, err := time.ParseInLocation(DateLayout, s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, use YYYY-MM-DD: %w", s, err)
	}
	return d, nil
}

// dayNumber maps the calendar date of t to a comparable integer, ignoring location offsets.
func dayNumber(t time.Time) int64 {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Unix() / 86400
}

func SameDate(a, b time.Time) bool {
	return dayNumber(a) == dayNumber(b)
}

// Bounds is an inclusive calendar-date range.
type Bounds struct {
	Start time.Time
	End   time.Time
}

func (b Bounds) Contains(date time.Time) bool {
	n := dayNumber(date)
	return n >= dayNumber(b.Start) && n <= dayNumber(b.End)
}

func (b Bounds) Valid() bool {
	return dayNumber(b.Start) <= dayNumber(b.End)
}
