package availability

import (
	"errors"
	"testing"
	"time"
)

const weekdayRule = "FREQ=WEEKLY;BYDAY=MO,TU,WE,TH,FR;DTSTART=20261026T090000;UNTIL=20261030T170000"

func TestParseRule(t *testing.T) {
	rule, err := ParseRule(weekdayRule, time.UTC)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if rule.Daily != MustInterval("09:00", "17:00") {
		t.Errorf("daily = %s, want [09:00, 17:00)", rule.Daily)
	}
	if got := rule.ValidFrom.Format(DateLayout); got != "2026-10-26" {
		t.Errorf("valid from = %s", got)
	}
	if got := rule.ValidUntil.Format(DateLayout); got != "2026-10-30" {
		t.Errorf("valid until = %s", got)
	}
	for _, d := range []time.Weekday{time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday} {
		if !rule.Weekdays.Has(d) {
			t.Errorf("expected %s to be active", d)
		}
	}
	if rule.Weekdays.Has(time.Saturday) || rule.Weekdays.Has(time.Sunday) {
		t.Error("weekend must not be active")
	}
}

func TestParseRule_RoundTrip(t *testing.T) {
	rule, err := ParseRule(weekdayRule, time.UTC)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rule.String() != weekdayRule {
		t.Fatalf("String() = %q, want %q", rule.String(), weekdayRule)
	}
	again, err := ParseRule(rule.String(), time.UTC)
	if err != nil {
		t.Fatalf("reparse: %v", err)
	}
	if again.String() != rule.String() {
		t.Fatalf("round trip mismatch: %q vs %q", again.String(), rule.String())
	}
}

func TestParseRule_AcceptsLooseForms(t *testing.T) {
	specs := []string{
		"RRULE:BYDAY=mon,wed;DTSTART=2026-10-26T08:00;UNTIL=2026-11-30T12:00",
		"byday=MO;dtstart=20261026T0800;until=20261130T1200;",
	}
	for _, spec := range specs {
		if _, err := ParseRule(spec, time.UTC); err != nil {
			t.Errorf("ParseRule(%q) failed: %v", spec, err)
		}
	}
}

func TestParseRule_Malformed(t *testing.T) {
	specs := map[string]string{
		"empty":           "",
		"no weekdays":     "FREQ=WEEKLY;DTSTART=20261026T090000;UNTIL=20261030T170000",
		"empty weekdays":  "FREQ=WEEKLY;BYDAY=;DTSTART=20261026T090000;UNTIL=20261030T170000",
		"daily freq":      "FREQ=DAILY;BYDAY=MO;DTSTART=20261026T090000;UNTIL=20261030T170000",
		"bad weekday":     "BYDAY=XX;DTSTART=20261026T090000;UNTIL=20261030T170000",
		"missing until":   "BYDAY=MO;DTSTART=20261026T090000",
		"bad instant":     "BYDAY=MO;DTSTART=yesterday;UNTIL=20261030T170000",
		"reversed window": "BYDAY=MO;DTSTART=20261026T170000;UNTIL=20261030T090000",
		"until first":     "BYDAY=MO;DTSTART=20261030T090000;UNTIL=20261026T170000",
		"unknown key":     "BYDAY=MO;COUNT=3;DTSTART=20261026T090000;UNTIL=20261030T170000",
		"duplicate key":   "BYDAY=MO;BYDAY=TU;DTSTART=20261026T090000;UNTIL=20261030T170000",
		"not key value":   "BYDAY=MO;garbage;DTSTART=20261026T090000;UNTIL=20261030T170000",
	}
	for name, spec := range specs {
		t.Run(name, func(t *testing.T) {
			if _, err := ParseRule(spec, time.UTC); !errors.Is(err, ErrMalformedRule) {
				t.Fatalf("expected ErrMalformedRule, got %v", err)
			}
		})
	}
}

func TestRecurrenceRule_ResolveFor(t *testing.T) {
	rule, err := ParseRule(weekdayRule, time.UTC)
	if err != nil {
		t.Fatal(err)
	}
	day := func(d int) time.Time { return time.Date(2026, 10, d, 0, 0, 0, 0, time.UTC) }

	tests := []struct {
		name string
		date time.Time
		want bool
	}{
		{"monday first day", day(26), true},
		{"friday last day", day(30), true},
		{"saturday", day(31), false},
		{"monday before validity", day(19), false},
		{"monday after validity", time.Date(2026, 11, 2, 0, 0, 0, 0, time.UTC), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			iv, ok := rule.ResolveFor(tt.date)
			if ok != tt.want {
				t.Fatalf("ok = %v, want %v", ok, tt.want)
			}
			if ok && iv != rule.Daily {
				t.Errorf("interval = %s, want %s", iv, rule.Daily)
			}
		})
	}

	var nilRule *RecurrenceRule
	if _, ok := nilRule.ResolveFor(day(26)); ok {
		t.Error("nil rule must not resolve")
	}
}

func TestParseWeekday(t *testing.T) {
	for _, in := range []string{"MO", "mon", "Monday", " monday "} {
		d, err := ParseWeekday(in)
		if err != nil || d != time.Monday {
			t.Errorf("ParseWeekday(%q) = %v, %v", in, d, err)
		}
	}
	for _, in := range []string{"", "M", "mox", "mondays"} {
		if _, err := ParseWeekday(in); err == nil {
			t.Errorf("ParseWeekday(%q) should fail", in)
		}
	}
}

func TestNewRecurrenceRule_MatchesParsedRule(t *testing.T) {
	days := NewWeekdaySet(time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday)
	from := time.Date(2026, 10, 26, 0, 0, 0, 0, time.UTC)
	until := time.Date(2026, 10, 30, 0, 0, 0, 0, time.UTC)

	built, err := NewRecurrenceRule(days, MustInterval("09:00", "17:00"), from, until)
	if err != nil {
		t.Fatal(err)
	}
	parsed, err := ParseRule(weekdayRule, time.UTC)
	if err != nil {
		t.Fatal(err)
	}
	if built.String() != parsed.String() {
		t.Fatalf("built %q, parsed %q", built.String(), parsed.String())
	}

	if _, err := NewRecurrenceRule(NewWeekdaySet(), MustInterval("09:00", "17:00"), from, until); !errors.Is(err, ErrMalformedRule) {
		t.Errorf("empty weekdays: got %v", err)
	}
	if _, err := NewRecurrenceRule(days, MustInterval("09:00", "17:00"), until, from); !errors.Is(err, ErrMalformedRule) {
		t.Errorf("until before start: got %v", err)
	}
}
