package availability

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var ErrMalformedRule = errors.New("malformed recurrence rule")

// WeekdaySet is a bitmask of time.Weekday values.
type WeekdaySet uint8

func NewWeekdaySet(days ...time.Weekday) WeekdaySet {
	var s WeekdaySet
	for _, d := range days {
		s = s.With(d)
	}
	return s
}

func (s WeekdaySet) With(d time.Weekday) WeekdaySet { return s | 1<<uint(d) }
func (s WeekdaySet) Has(d time.Weekday) bool        { return s&(1<<uint(d)) != 0 }
func (s WeekdaySet) Empty() bool                    { return s == 0 }

// Days lists the set Monday first, matching the order of a working week.
func (s WeekdaySet) Days() []time.Weekday {
	days := make([]time.Weekday, 0, 7)
	for i := 1; i <= 7; i++ {
		d := time.Weekday(i % 7)
		if s.Has(d) {
			days = append(days, d)
		}
	}
	return days
}

var byDayCodes = map[string]time.Weekday{
	"MO": time.Monday,
	"TU": time.Tuesday,
	"WE": time.Wednesday,
	"TH": time.Thursday,
	"FR": time.Friday,
	"SA": time.Saturday,
	"SU": time.Sunday,
}

var weekdayCodes = [...]string{"SU", "MO", "TU", "WE", "TH", "FR", "SA"}

// ParseWeekday accepts two-letter codes (MO), short names (mon) and full names (monday).
func ParseWeekday(s string) (time.Weekday, error) {
	v := strings.ToUpper(strings.TrimSpace(s))
	if len(v) >= 2 {
		if d, ok := byDayCodes[v[:2]]; ok {
			full := strings.ToUpper(d.String())
			if v == v[:2] || v == full[:3] || v == full {
				return d, nil
			}
		}
	}
	return 0, fmt.Errorf("%w: unknown weekday %q", ErrMalformedRule, s)
}

// RecurrenceRule is a doctor's default weekly pattern: one daily window on a set of weekdays,
// valid between two calendar dates (inclusive).
type RecurrenceRule struct {
	Weekdays   WeekdaySet
	Daily      Interval
	ValidFrom  time.Time
	ValidUntil time.Time
}

func NewRecurrenceRule(weekdays WeekdaySet, daily Interval, validFrom, validUntil time.Time) (*RecurrenceRule, error) {
	if weekdays.Empty() {
		return nil, fmt.Errorf("%w: no active weekdays", ErrMalformedRule)
	}
	if daily.From >= daily.To {
		return nil, fmt.Errorf("%w: %w", ErrMalformedRule, ErrInvalidInterval)
	}
	if dayNumber(validUntil) < dayNumber(validFrom) {
		return nil, fmt.Errorf("%w: until %s is before start %s", ErrMalformedRule,
			validUntil.Format(DateLayout), validFrom.Format(DateLayout))
	}
	return &RecurrenceRule{
		Weekdays:   weekdays,
		Daily:      daily,
		ValidFrom:  DateOf(validFrom),
		ValidUntil: DateOf(validUntil),
	}, nil
}

var instantLayouts = []string{
	"20060102T150405",
	"20060102T1504",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

const canonicalInstantLayout = "20060102T150405"

func parseInstant(v string, loc *time.Location) (time.Time, error) {
	for _, layout := range instantLayouts {
		if t, err := time.ParseInLocation(layout, v, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: bad instant %q", ErrMalformedRule, v)
}

// ParseRule parses the weekly grammar
//
//	FREQ=WEEKLY;BYDAY=MO,TU,WE;DTSTART=20261026T090000;UNTIL=20261030T170000
//
// DTSTART and UNTIL give both the validity dates and the daily window. FREQ is optional.
func ParseRule(spec string, loc *time.Location) (*RecurrenceRule, error) {
	if loc == nil {
		loc = time.UTC
	}
	spec = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(spec), "RRULE:"))
	if spec == "" {
		return nil, fmt.Errorf("%w: empty", ErrMalformedRule)
	}

	var (
		weekdays   WeekdaySet
		start, end time.Time
		seen       = map[string]bool{}
	)
	for _, part := range strings.Split(spec, ";") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		key, value, ok := strings.Cut(part, "=")
		if !ok {
			return nil, fmt.Errorf("%w: expected KEY=VALUE, got %q", ErrMalformedRule, part)
		}
		key = strings.ToUpper(strings.TrimSpace(key))
		value = strings.TrimSpace(value)
		if seen[key] {
			return nil, fmt.Errorf("%w: duplicate %s", ErrMalformedRule, key)
		}
		seen[key] = true

		switch key {
		case "FREQ":
			if !strings.EqualFold(value, "WEEKLY") {
				return nil, fmt.Errorf("%w: only FREQ=WEEKLY is supported", ErrMalformedRule)
			}
		case "BYDAY":
			for _, code := range strings.Split(value, ",") {
				if strings.TrimSpace(code) == "" {
					continue
				}
				d, err := ParseWeekday(code)
				if err != nil {
					return nil, err
				}
				weekdays = weekdays.With(d)
			}
		case "DTSTART":
			t, err := parseInstant(value, loc)
			if err != nil {
				return nil, err
			}
			start = t
		case "UNTIL":
			t, err := parseInstant(value, loc)
			if err != nil {
				return nil, err
			}
			end = t
		default:
			return nil, fmt.Errorf("%w: unsupported key %s", ErrMalformedRule, key)
		}
	}

	if !seen["DTSTART"] || !seen["UNTIL"] {
		return nil, fmt.Errorf("%w: DTSTART and UNTIL are required", ErrMalformedRule)
	}
	daily, err := NewInterval(TimeOfDayOf(start), TimeOfDayOf(end))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedRule, err)
	}
	return NewRecurrenceRule(weekdays, daily, start, end)
}

// String renders the canonical form accepted by ParseRule.
func (r *RecurrenceRule) String() string {
	codes := make([]string, 0, 7)
	for _, d := range r.Weekdays.Days() {
		codes = append(codes, weekdayCodes[d])
	}
	return fmt.Sprintf("FREQ=WEEKLY;BYDAY=%s;DTSTART=%s;UNTIL=%s",
		strings.Join(codes, ","),
		r.Daily.From.On(r.ValidFrom).Format(canonicalInstantLayout),
		r.Daily.To.On(r.ValidUntil).Format(canonicalInstantLayout),
	)
}

// ResolveFor returns the daily window when date is inside the validity range and on an active weekday.
func (r *RecurrenceRule) ResolveFor(date time.Time) (Interval, bool) {
	if r == nil {
		return Interval{}, false
	}
	n := dayNumber(date)
	if n < dayNumber(r.ValidFrom) || n > dayNumber(r.ValidUntil) {
		return Interval{}, false
	}
	if !r.Weekdays.Has(date.Weekday()) {
		return Interval{}, false
	}
	return r.Daily, true
}
