// Package availability resolves a doctor's working hours for a date, cuts them into bookable
// slots and decides whether a requested instant can be booked.
//
// Everything in this package is pure: callers pass snapshots of the schedule, overrides and
// bookings, and receive derived values. There is no I/O and no shared mutable state.
package availability

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrInvalidRange  = errors.New("invalid date range")
	ErrRangeTooLarge = errors.New("requested date range is too large")
)

// Config replaces the implicit process-wide defaults with explicit values.
type Config struct {
	DefaultSlotDuration time.Duration
	Location            *time.Location
	MaxRangeDays        int
}

type Engine struct {
	defaultSlotDuration time.Duration
	loc                 *time.Location
	maxRangeDays        int
}

func NewEngine(cfg Config) (*Engine, error) {
	if cfg.DefaultSlotDuration <= 0 {
		return nil, fmt.Errorf("default %w", ErrInvalidDuration)
	}
	loc := cfg.Location
	if loc == nil {
		loc = time.UTC
	}
	maxDays := cfg.MaxRangeDays
	if maxDays <= 0 {
		maxDays = 31
	}
	return &Engine{defaultSlotDuration: cfg.DefaultSlotDuration, loc: loc, maxRangeDays: maxDays}, nil
}

func (e *Engine) Location() *time.Location { return e.loc }

// SlotDuration returns minutes as a duration, falling back to the configured default when the
// schedule does not carry its own value.
func (e *Engine) SlotDuration(minutes int) time.Duration {
	if minutes <= 0 {
		return e.defaultSlotDuration
	}
	return time.Duration(minutes) * time.Minute
}

// InLocation re-expresses t as a wall-clock time of the engine's location.
func (e *Engine) InLocation(t time.Time) time.Time {
	return t.In(e.loc)
}

// Date returns midnight of the given calendar day in the engine's location.
func (e *Engine) Date(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, e.loc)
}

// Resolve is the package-level Resolve with the date moved into the engine's location.
func (e *Engine) Resolve(date time.Time, rule *RecurrenceRule, overrides []Override) []Interval {
	return Resolve(e.Date(date), rule, overrides)
}

// ListSlots resolves availability for date and returns the bookable slots.
func (e *Engine) ListSlots(date time.Time, schedule Schedule, rule *RecurrenceRule, overrides []Override, booked InstantSet) ([]Slot, error) {
	day := e.Date(date)
	return Generate(day, Resolve(day, rule, overrides), schedule.SlotDuration, schedule.Bounds(), booked)
}

// Days lists every calendar day in [from, to] in the engine's location.
// The range must be ordered and no longer than the configured maximum.
func (e *Engine) Days(from, to time.Time) ([]time.Time, error) {
	start, end := e.Date(from), e.Date(to)
	if end.Before(start) {
		return nil, fmt.Errorf("%w: end %s is before start %s", ErrInvalidRange, end.Format(DateLayout), start.Format(DateLayout))
	}
	n := dayNumber(end) - dayNumber(start) + 1
	if n > int64(e.maxRangeDays) {
		return nil, fmt.Errorf("%w: %d days, max %d", ErrRangeTooLarge, n, e.maxRangeDays)
	}

	days := make([]time.Time, 0, n)
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		days = append(days, day)
	}
	return days, nil
}

// ListSlotsInRange concatenates ListSlots for every day in [from, to].
func (e *Engine) ListSlotsInRange(from, to time.Time, schedule Schedule, rule *RecurrenceRule, overrides []Override, booked InstantSet) ([]Slot, error) {
	days, err := e.Days(from, to)
	if err != nil {
		return nil, err
	}

	all := []Slot{}
	for _, day := range days {
		slots, err := e.ListSlots(day, schedule, rule, overrides, booked)
		if err != nil {
			return nil, err
		}
		all = append(all, slots...)
	}
	return all, nil
}

// CanBook validates requested after converting it to the engine's location.
func (e *Engine) CanBook(requested time.Time, schedule Schedule, rule *RecurrenceRule, overrides []Override, active InstantSet) (Decision, error) {
	return CanBook(e.InLocation(requested), schedule, rule, overrides, active)
}
