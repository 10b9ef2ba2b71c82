package availability

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"
)

var (
	ErrInvalidInterval      = errors.New("invalid interval: from must be before to")
	ErrInvalidTimeOfDay     = errors.New("invalid time of day, use HH:MM")
	ErrOverlappingIntervals = errors.New("intervals must not overlap")
)

// TimeOfDay is an offset from local midnight with minute precision.
type TimeOfDay time.Duration

const endOfDay = TimeOfDay(24 * time.Hour)

// NewTimeOfDay builds a TimeOfDay from hour and minute. 24:00 is accepted as the end of day.
func NewTimeOfDay(hour, minute int) (TimeOfDay, error) {
	if hour < 0 || minute < 0 || minute > 59 || hour > 24 || (hour == 24 && minute != 0) {
		return 0, ErrInvalidTimeOfDay
	}
	return TimeOfDay(time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute), nil
}

// ParseTimeOfDay parses "HH:MM".
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	if len(s) != 5 || s[2] != ':' {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeOfDay, s)
	}
	hour, herr := strconv.Atoi(s[:2])
	minute, merr := strconv.Atoi(s[3:])
	if herr != nil || merr != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeOfDay, s)
	}
	return NewTimeOfDay(hour, minute)
}

// TimeOfDayOf returns the wall-clock offset of t in its own location.
func TimeOfDayOf(t time.Time) TimeOfDay {
	return TimeOfDay(time.Duration(t.Hour())*time.Hour +
		time.Duration(t.Minute())*time.Minute +
		time.Duration(t.Second())*time.Second +
		time.Duration(t.Nanosecond()))
}

func (t TimeOfDay) Hour() int   { return int(time.Duration(t) / time.Hour) }
func (t TimeOfDay) Minute() int { return int(time.Duration(t)%time.Hour) / int(time.Minute) }

func (t TimeOfDay) Add(d time.Duration) TimeOfDay {
	return t + TimeOfDay(d)
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour(), t.Minute())
}

// On places t on the calendar day of date, in date's location.
func (t TimeOfDay) On(date time.Time) time.Time {
	y, m, d := date.Date()
	sec := int(time.Duration(t)%time.Minute) / int(time.Second)
	return time.Date(y, m, d, t.Hour(), t.Minute(), sec, 0, date.Location())
}

// Interval is a half-open range [From, To) within a single day.
type Interval struct {
	From TimeOfDay
	To   TimeOfDay
}

func NewInterval(from, to TimeOfDay) (Interval, error) {
	if from < 0 || to > endOfDay || from >= to {
		return Interval{}, fmt.Errorf("%w: [%s, %s)", ErrInvalidInterval, from, to)
	}
	return Interval{From: from, To: to}, nil
}

// ParseInterval builds an interval from two "HH:MM" strings.
func ParseInterval(from, to string) (Interval, error) {
	f, err := ParseTimeOfDay(from)
	if err != nil {
		return Interval{}, err
	}
	t, err := ParseTimeOfDay(to)
	if err != nil {
		return Interval{}, err
	}
	return NewInterval(f, t)
}

// MustInterval panics on invalid input. Intended for tests and literals.
func MustInterval(from, to string) Interval {
	iv, err := ParseInterval(from, to)
	if err != nil {
		panic(err)
	}
	return iv
}

func (i Interval) Contains(t TimeOfDay) bool {
	return i.From <= t && t < i.To
}

func (i Interval) Overlaps(other Interval) bool {
	return i.From < other.To && other.From < i.To
}

func (i Interval) Duration() time.Duration {
	return time.Duration(i.To - i.From)
}

func (i Interval) String() string {
	return "[" + i.From.String() + ", " + i.To.String() + ")"
}

// ValidateNonOverlapping reports ErrOverlappingIntervals if any two intervals overlap.
func ValidateNonOverlapping(intervals []Interval) error {
	sorted := SortIntervals(intervals)
	for i := 1; i < len(sorted); i++ {
		if sorted[i-1].Overlaps(sorted[i]) {
			return fmt.Errorf("%w: %s and %s", ErrOverlappingIntervals, sorted[i-1], sorted[i])
		}
	}
	return nil
}

// SortIntervals returns a copy ordered by From, then To.
func SortIntervals(intervals []Interval) []Interval {
	out := make([]Interval, len(intervals))
	copy(out, intervals)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].From != out[j].From {
			return out[i].From < out[j].From
		}
		return out[i].To < out[j].To
	})
	return out
}
