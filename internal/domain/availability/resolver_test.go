package availability

import (
	"reflect"
	"testing"
	"time"
)

func mustRule(t *testing.T, spec string) *RecurrenceRule {
	t.Helper()
	rule, err := ParseRule(spec, time.UTC)
	if err != nil {
		t.Fatalf("ParseRule(%q): %v", spec, err)
	}
	return rule
}

func TestResolve_FallsBackToRule(t *testing.T) {
	rule := mustRule(t, weekdayRule)
	monday := time.Date(2026, 10, 26, 0, 0, 0, 0, time.UTC)

	got := Resolve(monday, rule, nil)
	want := []Interval{MustInterval("09:00", "17:00")}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestResolve_EmptyWithoutOverrideOrActiveWeekday(t *testing.T) {
	rule := mustRule(t, weekdayRule)
	dates := []time.Time{
		time.Date(2026, 10, 31, 0, 0, 0, 0, time.UTC), // saturday
		time.Date(2026, 11, 1, 0, 0, 0, 0, time.UTC),  // sunday
		time.Date(2026, 11, 2, 0, 0, 0, 0, time.UTC),  // monday after the rule expires
	}
	other := []Override{{Type: OverrideTypeDate, Date: time.Date(2026, 10, 27, 0, 0, 0, 0, time.UTC), Intervals: []Interval{MustInterval("08:00", "09:00")}}}

	for _, d := range dates {
		got := Resolve(d, rule, other)
		if got == nil || len(got) != 0 {
			t.Errorf("%s: expected empty non-nil list, got %v", d.Format(DateLayout), got)
		}
	}
	if got := Resolve(dates[0], nil, nil); len(got) != 0 {
		t.Errorf("nil rule: expected empty, got %v", got)
	}
}

func TestResolve_OverrideReplacesRule(t *testing.T) {
	rule := mustRule(t, weekdayRule)
	monday := time.Date(2026, 10, 26, 0, 0, 0, 0, time.UTC)
	overrides := []Override{{
		Type: OverrideTypeDate,
		Date: monday,
		Intervals: []Interval{
			MustInterval("15:00", "19:00"),
			MustInterval("09:00", "11:00"),
		},
	}}

	got := Resolve(monday, rule, overrides)
	want := []Interval{MustInterval("09:00", "11:00"), MustInterval("15:00", "19:00")}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	if !reflect.DeepEqual(overrides[0].Intervals[0], MustInterval("15:00", "19:00")) {
		t.Fatal("Resolve must not reorder the caller's slice")
	}
}

func TestResolve_OverrideOnInactiveDayOpensIt(t *testing.T) {
	rule := mustRule(t, weekdayRule)
	saturday := time.Date(2026, 10, 31, 0, 0, 0, 0, time.UTC)
	overrides := []Override{{Date: saturday, Intervals: []Interval{MustInterval("10:00", "12:00")}}}

	got := Resolve(saturday, rule, overrides)
	if len(got) != 1 || got[0] != MustInterval("10:00", "12:00") {
		t.Fatalf("got %v", got)
	}
}

func TestResolve_EmptyOverrideClosesDay(t *testing.T) {
	rule := mustRule(t, weekdayRule)
	monday := time.Date(2026, 10, 26, 0, 0, 0, 0, time.UTC)
	overrides := []Override{{Type: OverrideTypeDate, Date: monday}}

	if got := Resolve(monday, rule, overrides); len(got) != 0 {
		t.Fatalf("expected day off, got %v", got)
	}
}

func TestResolve_MergesSameDateOverridesDeterministically(t *testing.T) {
	monday := time.Date(2026, 10, 26, 0, 0, 0, 0, time.UTC)
	overrides := []Override{
		{Date: monday, Intervals: []Interval{MustInterval("13:00", "14:00")}},
		{Date: monday.Add(5 * time.Hour), Intervals: []Interval{MustInterval("08:00", "09:00"), MustInterval("13:00", "13:30")}},
	}

	first := Resolve(monday, nil, overrides)
	second := Resolve(monday, nil, overrides)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("not idempotent: %v vs %v", first, second)
	}
	want := []Interval{MustInterval("08:00", "09:00"), MustInterval("13:00", "13:30"), MustInterval("13:00", "14:00")}
	if !reflect.DeepEqual(first, want) {
		t.Fatalf("got %v, want %v", first, want)
	}
}

func TestResolve_IgnoresUnknownOverrideTypes(t *testing.T) {
	rule := mustRule(t, weekdayRule)
	monday := time.Date(2026, 10, 26, 0, 0, 0, 0, time.UTC)
	overrides := []Override{{Type: "weekday", Date: monday, Intervals: []Interval{MustInterval("06:00", "07:00")}}}

	got := Resolve(monday, rule, overrides)
	if len(got) != 1 || got[0] != rule.Daily {
		t.Fatalf("got %v, want rule interval", got)
	}
}
