package availability

import "time"

// OverrideType distinguishes date-specific overrides. Only OverrideTypeDate is resolved today.
type OverrideType string

const OverrideTypeDate OverrideType = "date"

// Override replaces the recurrence rule for a single calendar date.
type Override struct {
	Type      OverrideType
	Date      time.Time
	Intervals []Interval
}

// Resolve returns the ordered open intervals for date. Any override on that date wins over the
// rule completely; with several overrides on the same date their intervals are combined.
func Resolve(date time.Time, rule *RecurrenceRule, overrides []Override) []Interval {
	var matched []Interval
	found := false
	for _, o := range overrides {
		if o.Type != "" && o.Type != OverrideTypeDate {
			continue
		}
		if !SameDate(o.Date, date) {
			continue
		}
		found = true
		matched = append(matched, o.Intervals...)
	}
	if found {
		return SortIntervals(matched)
	}

	if iv, ok := rule.ResolveFor(date); ok {
		return []Interval{iv}
	}
	return []Interval{}
}
