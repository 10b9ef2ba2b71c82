package availability

import (
	"errors"
	"testing"
	"time"
)

// Reference week: the schedule covers Monday 2026-10-26 through Friday 2026-10-30.
func weekSchedule() Schedule {
	return Schedule{
		StartDate:    testMonday,
		EndDate:      time.Date(2026, 10, 30, 0, 0, 0, 0, time.UTC),
		SlotDuration: 15 * time.Minute,
	}
}

func TestCanBook(t *testing.T) {
	rule := mustRule(t, weekdayRule)
	schedule := weekSchedule()
	saturday := time.Date(2026, 10, 31, 0, 0, 0, 0, time.UTC)
	sunday := time.Date(2026, 10, 25, 0, 0, 0, 0, time.UTC)
	wednesday := time.Date(2026, 10, 28, 0, 0, 0, 0, time.UTC)
	overrides := []Override{{Type: OverrideTypeDate, Date: wednesday}}
	active := NewInstantSet(at(testMonday, "09:30"), at(sunday, "10:00"))

	tests := []struct {
		name      string
		requested time.Time
		wantOK    bool
		reason    RejectReason
	}{
		{"accepts free slot", at(testMonday, "09:45"), true, ""},
		{"accepts first slot", at(testMonday, "09:00"), true, ""},
		{"already booked", at(testMonday, "09:30"), false, ReasonAlreadyBooked},
		{"misaligned time", at(testMonday, "09:40"), false, ReasonTimeNotAvailable},
		{"outside working hours", at(testMonday, "17:00"), false, ReasonTimeNotAvailable},
		{"weekend inside rule but outside schedule", at(saturday, "10:00"), false, ReasonOutOfScheduleRange},
		{"override closes day", at(wednesday, "10:00"), false, ReasonNoAvailability},
		{"range wins over conflict", at(sunday, "10:00"), false, ReasonOutOfScheduleRange},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := CanBook(tt.requested, schedule, rule, overrides, active)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if d.Accepted != tt.wantOK {
				t.Fatalf("accepted = %v, want %v (reason %q)", d.Accepted, tt.wantOK, d.Reason)
			}
			if d.Reason != tt.reason {
				t.Errorf("reason = %q, want %q", d.Reason, tt.reason)
			}
			if d.Accepted && (!d.Slot.From.Equal(tt.requested) || d.Slot.To.Sub(d.Slot.From) != schedule.SlotDuration) {
				t.Errorf("slot = %v", d.Slot)
			}
		})
	}
}

func TestCanBook_NoAvailabilityOnInactiveWeekday(t *testing.T) {
	rule := mustRule(t, "BYDAY=TU;DTSTART=20261026T090000;UNTIL=20261030T170000")
	d, err := CanBook(at(testMonday, "09:00"), weekSchedule(), rule, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if d.Accepted || d.Reason != ReasonNoAvailability {
		t.Fatalf("got %+v", d)
	}
}

func TestCanBook_InvalidDuration(t *testing.T) {
	s := weekSchedule()
	s.SlotDuration = 0
	if _, err := CanBook(at(testMonday, "09:00"), s, mustRule(t, weekdayRule), nil, nil); !errors.Is(err, ErrInvalidDuration) {
		t.Fatalf("expected ErrInvalidDuration, got %v", err)
	}
}

func TestEngine_Scenarios(t *testing.T) {
	engine, err := NewEngine(Config{DefaultSlotDuration: 15 * time.Minute, Location: time.UTC})
	if err != nil {
		t.Fatal(err)
	}
	rule := mustRule(t, weekdayRule)
	schedule := weekSchedule()

	t.Run("A saturday has nothing", func(t *testing.T) {
		saturday := time.Date(2026, 10, 31, 0, 0, 0, 0, time.UTC)
		if got := engine.Resolve(saturday, rule, nil); len(got) != 0 {
			t.Fatalf("resolve: %v", got)
		}
		slots, err := engine.ListSlots(saturday, schedule, rule, nil, nil)
		if err != nil {
			t.Fatal(err)
		}
		if len(slots) != 0 {
			t.Fatalf("expected no slots, got %d", len(slots))
		}
	})

	t.Run("B monday override", func(t *testing.T) {
		overrides := []Override{{
			Type:      OverrideTypeDate,
			Date:      testMonday,
			Intervals: []Interval{MustInterval("09:00", "11:00"), MustInterval("15:00", "19:00")},
		}}
		slots, err := engine.ListSlots(testMonday, schedule, rule, overrides, nil)
		if err != nil {
			t.Fatal(err)
		}
		if len(slots) != 24 {
			t.Fatalf("expected 24 slots, got %d", len(slots))
		}
		for _, s := range slots {
			if !s.From.Before(at(testMonday, "11:00")) && s.From.Before(at(testMonday, "15:00")) {
				t.Fatalf("slot between 11:00 and 15:00: %v", s)
			}
		}
	})

	t.Run("C monday booking conflict", func(t *testing.T) {
		active := NewInstantSet(at(testMonday, "09:30"))
		d, err := engine.CanBook(at(testMonday, "09:30"), schedule, rule, nil, active)
		if err != nil {
			t.Fatal(err)
		}
		if d.Accepted || d.Reason != ReasonAlreadyBooked {
			t.Fatalf("09:30: got %+v", d)
		}
		d, err = engine.CanBook(at(testMonday, "09:45"), schedule, rule, nil, active)
		if err != nil {
			t.Fatal(err)
		}
		if !d.Accepted {
			t.Fatalf("09:45: got %+v", d)
		}
	})
}

func TestEngine_CanBookConvertsLocation(t *testing.T) {
	wib := time.FixedZone("WIB", 7*60*60)
	engine, err := NewEngine(Config{DefaultSlotDuration: 15 * time.Minute, Location: wib})
	if err != nil {
		t.Fatal(err)
	}
	rule, err := ParseRule(weekdayRule, wib)
	if err != nil {
		t.Fatal(err)
	}
	schedule := weekSchedule()

	// 02:00 UTC is 09:00 in WIB.
	d, err := engine.CanBook(time.Date(2026, 10, 26, 2, 0, 0, 0, time.UTC), schedule, rule, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if !d.Accepted {
		t.Fatalf("got %+v", d)
	}
}

func TestEngine_ListSlotsInRange(t *testing.T) {
	engine, err := NewEngine(Config{DefaultSlotDuration: 15 * time.Minute, MaxRangeDays: 7})
	if err != nil {
		t.Fatal(err)
	}
	rule := mustRule(t, weekdayRule)

	slots, err := engine.ListSlotsInRange(time.Date(2026, 10, 25, 0, 0, 0, 0, time.UTC), time.Date(2026, 10, 31, 0, 0, 0, 0, time.UTC), weekSchedule(), rule, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(slots) != 5*32 {
		t.Fatalf("expected 160 slots, got %d", len(slots))
	}

	if _, err := engine.ListSlotsInRange(testMonday, testMonday.AddDate(0, 0, 7), weekSchedule(), rule, nil, nil); !errors.Is(err, ErrRangeTooLarge) {
		t.Fatalf("expected ErrRangeTooLarge, got %v", err)
	}
	if _, err := engine.ListSlotsInRange(testMonday, testMonday.AddDate(0, 0, -1), weekSchedule(), rule, nil, nil); !errors.Is(err, ErrInvalidRange) {
		t.Fatalf("expected ErrInvalidRange, got %v", err)
	}
}

func TestEngine_SlotDurationFallsBackToDefault(t *testing.T) {
	engine, err := NewEngine(Config{DefaultSlotDuration: 20 * time.Minute})
	if err != nil {
		t.Fatal(err)
	}
	if got := engine.SlotDuration(0); got != 20*time.Minute {
		t.Errorf("default = %s", got)
	}
	if got := engine.SlotDuration(30); got != 30*time.Minute {
		t.Errorf("explicit = %s", got)
	}
	if _, err := NewEngine(Config{}); !errors.Is(err, ErrInvalidDuration) {
		t.Errorf("expected ErrInvalidDuration for zero default, got %v", err)
	}
}

func TestEngine_DaysAcrossDST(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}
	engine, err := NewEngine(Config{DefaultSlotDuration: 15 * time.Minute, Location: ny})
	if err != nil {
		t.Fatal(err)
	}

	// DST ends on 2026-11-01 in New York.
	days, err := engine.Days(time.Date(2026, 10, 31, 12, 0, 0, 0, ny), time.Date(2026, 11, 2, 0, 0, 0, 0, ny))
	if err != nil {
		t.Fatal(err)
	}
	if len(days) != 3 {
		t.Fatalf("expected 3 days, got %d", len(days))
	}
	for i, d := range days {
		if d.Hour() != 0 || d.Minute() != 0 {
			t.Errorf("day %d is not at local midnight: %s", i, d)
		}
	}
}
