package availability

import "time"

// RejectReason explains why a requested instant cannot be booked.
type RejectReason string

const (
	ReasonOutOfScheduleRange RejectReason = "out_of_schedule_range"
	ReasonNoAvailability     RejectReason = "no_availability"
	ReasonTimeNotAvailable   RejectReason = "time_not_available"
	ReasonAlreadyBooked      RejectReason = "already_booked"
)

func (r RejectReason) Message() string {
	switch r {
	case ReasonOutOfScheduleRange:
		return "preferred date is outside the schedule range"
	case ReasonNoAvailability:
		return "doctor has no availability on the preferred date"
	case ReasonTimeNotAvailable:
		return "preferred time does not match an available slot"
	case ReasonAlreadyBooked:
		return "preferred time is already booked"
	default:
		return string(r)
	}
}

// Schedule is the slice of a doctor's schedule the engine needs.
type Schedule struct {
	StartDate    time.Time
	EndDate      time.Time
	SlotDuration time.Duration
}

func (s Schedule) Bounds() Bounds {
	return Bounds{Start: s.StartDate, End: s.EndDate}
}

// Decision is the outcome of CanBook. Slot is set when Accepted.
type Decision struct {
	Accepted bool
	Reason   RejectReason
	Slot     Slot
}

func reject(reason RejectReason) Decision {
	return Decision{Reason: reason}
}

// CanBook checks requested against the schedule range, the resolved availability, the generated
// slot grid and the active bookings, in that order. requested must already be in the wall-clock
// location the schedule is expressed in.
func CanBook(requested time.Time, schedule Schedule, rule *RecurrenceRule, overrides []Override, active InstantSet) (Decision, error) {
	if schedule.SlotDuration <= 0 {
		return Decision{}, ErrInvalidDuration
	}
	date := DateOf(requested)
	if !schedule.Bounds().Contains(date) {
		return reject(ReasonOutOfScheduleRange), nil
	}

	open := Resolve(date, rule, overrides)
	if len(open) == 0 {
		return reject(ReasonNoAvailability), nil
	}

	slots, err := Generate(date, open, schedule.SlotDuration, schedule.Bounds(), nil)
	if err != nil {
		return Decision{}, err
	}
	var match *Slot
	for i := range slots {
		if slots[i].From.Equal(requested) {
			match = &slots[i]
			break
		}
	}
	if match == nil {
		return reject(ReasonTimeNotAvailable), nil
	}

	if active.Has(requested) {
		return reject(ReasonAlreadyBooked), nil
	}
	return Decision{Accepted: true, Slot: *match}, nil
}
