package availability

import (
	"errors"
	"testing"
	"time"
)

func TestParseTimeOfDay(t *testing.T) {
	tests := []struct {
		in      string
		want    TimeOfDay
		wantErr bool
	}{
		{in: "00:00", want: 0},
		{in: "09:15", want: TimeOfDay(9*time.Hour + 15*time.Minute)},
		{in: "24:00", want: TimeOfDay(24 * time.Hour)},
		{in: "24:01", wantErr: true},
		{in: "9:00", wantErr: true},
		{in: "09:60", wantErr: true},
		{in: "ab:cd", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseTimeOfDay(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidTimeOfDay) {
					t.Fatalf("expected ErrInvalidTimeOfDay, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %s, want %s", got, tt.want)
			}
			if got.String() != tt.in {
				t.Errorf("String() = %q, want %q", got.String(), tt.in)
			}
		})
	}
}

func TestNewInterval_RejectsEmptyAndReversed(t *testing.T) {
	nine, _ := ParseTimeOfDay("09:00")
	five, _ := ParseTimeOfDay("17:00")

	if _, err := NewInterval(nine, nine); !errors.Is(err, ErrInvalidInterval) {
		t.Errorf("from == to: expected ErrInvalidInterval, got %v", err)
	}
	if _, err := NewInterval(five, nine); !errors.Is(err, ErrInvalidInterval) {
		t.Errorf("from > to: expected ErrInvalidInterval, got %v", err)
	}
	iv, err := NewInterval(nine, five)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if iv.Duration() != 8*time.Hour {
		t.Errorf("duration = %s, want 8h", iv.Duration())
	}
}

func TestInterval_ContainsIsHalfOpen(t *testing.T) {
	iv := MustInterval("09:00", "10:00")
	at := func(s string) TimeOfDay {
		v, err := ParseTimeOfDay(s)
		if err != nil {
			t.Fatal(err)
		}
		return v
	}

	if !iv.Contains(at("09:00")) {
		t.Error("expected start to be contained")
	}
	if !iv.Contains(at("09:59")) {
		t.Error("expected 09:59 to be contained")
	}
	if iv.Contains(at("10:00")) {
		t.Error("expected end to be excluded")
	}
	if iv.Contains(at("08:59")) {
		t.Error("expected 08:59 to be excluded")
	}
}

func TestInterval_Overlaps(t *testing.T) {
	tests := []struct {
		name string
		a, b Interval
		want bool
	}{
		{"disjoint", MustInterval("09:00", "10:00"), MustInterval("11:00", "12:00"), false},
		{"touching", MustInterval("09:00", "10:00"), MustInterval("10:00", "11:00"), false},
		{"partial", MustInterval("09:00", "10:30"), MustInterval("10:00", "11:00"), true},
		{"nested", MustInterval("09:00", "17:00"), MustInterval("12:00", "13:00"), true},
		{"identical", MustInterval("09:00", "10:00"), MustInterval("09:00", "10:00"), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Overlaps(tt.b); got != tt.want {
				t.Errorf("a.Overlaps(b) = %v, want %v", got, tt.want)
			}
			if got := tt.b.Overlaps(tt.a); got != tt.want {
				t.Errorf("b.Overlaps(a) = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestValidateNonOverlapping(t *testing.T) {
	ok := []Interval{MustInterval("15:00", "19:00"), MustInterval("09:00", "11:00")}
	if err := ValidateNonOverlapping(ok); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	bad := []Interval{MustInterval("09:00", "11:00"), MustInterval("15:00", "19:00"), MustInterval("10:30", "12:00")}
	if err := ValidateNonOverlapping(bad); !errors.Is(err, ErrOverlappingIntervals) {
		t.Fatalf("expected ErrOverlappingIntervals, got %v", err)
	}
}

func TestTimeOfDay_OnUsesDateLocation(t *testing.T) {
	loc := time.FixedZone("WIB", 7*60*60)
	date := time.Date(2026, 10, 26, 0, 0, 0, 0, loc)
	got := MustInterval("09:30", "10:00").From.On(date)
	want := time.Date(2026, 10, 26, 9, 30, 0, 0, loc)
	if !got.Equal(want) {
		t.Fatalf("got %s, want %s", got, want)
	}
}
