package availability

import (
	"errors"
	"fmt"
	"time"
)

var ErrInvalidDuration = errors.New("slot duration must be positive")

// Slot is one bookable unit [From, To).
type Slot struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

// InstantSet holds booked start instants keyed by Unix second, so equality ignores location.
type InstantSet map[int64]struct{}

func NewInstantSet(instants ...time.Time) InstantSet {
	s := make(InstantSet, len(instants))
	for _, t := range instants {
		s.Add(t)
	}
	return s
}

func (s InstantSet) Add(t time.Time) { s[t.Unix()] = struct{}{} }

func (s InstantSet) Has(t time.Time) bool {
	if s == nil {
		return false
	}
	_, ok := s[t.Unix()]
	return ok
}

// Generate walks each open interval forward in steps of slotDuration and emits every slot that
// fits entirely inside it. Slots starting at a booked instant are dropped, as is every slot when
// date falls outside bounds.
func Generate(date time.Time, intervals []Interval, slotDuration time.Duration, bounds Bounds, booked InstantSet) ([]Slot, error) {
	if slotDuration <= 0 {
		return nil, fmt.Errorf("%w: %s", ErrInvalidDuration, slotDuration)
	}
	slots := []Slot{}
	if !bounds.Contains(date) || len(intervals) == 0 {
		return slots, nil
	}

	for _, iv := range intervals {
		for t := iv.From; t.Add(slotDuration) <= iv.To; t = t.Add(slotDuration) {
			from := t.On(date)
			if booked.Has(from) {
				continue
			}
			slots = append(slots, Slot{From: from, To: t.Add(slotDuration).On(date)})
		}
	}
	return slots, nil
}
