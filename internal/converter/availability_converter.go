package converter

import (
	"fmt"
	"time"

	"go-medical-scheduling/internal/delivery/dto"
	"go-medical-scheduling/internal/domain/availability"
	"go-medical-scheduling/internal/domain/entity"
)

// AvailabilityToResponse converts an Availability entity to AvailabilityResponse DTO
func AvailabilityToResponse(a *entity.Availability) *dto.AvailabilityResponse {
	if a == nil {
		return nil
	}

	intervals := make([]dto.IntervalDTO, len(a.Intervals))
	for i, iv := range a.Intervals {
		intervals[i] = dto.IntervalDTO{From: iv.From, To: iv.To}
	}

	return &dto.AvailabilityResponse{
		ID:         a.ID,
		ScheduleID: a.ScheduleID,
		Type:       a.Type,
		Date:       a.Date.Format(availability.DateLayout),
		Intervals:  intervals,
		DayOff:     len(intervals) == 0,
	}
}

// AvailabilitiesToResponses converts a slice of Availability entities to slice of AvailabilityResponse DTOs
func AvailabilitiesToResponses(list []entity.Availability) []dto.AvailabilityResponse {
	responses := make([]dto.AvailabilityResponse, len(list))
	for i := range list {
		responses[i] = *AvailabilityToResponse(&list[i])
	}
	return responses
}

// IntervalsFromRequest parses and validates request intervals.
// The result is sorted and checked for overlap.
func IntervalsFromRequest(in []dto.IntervalDTO) ([]availability.Interval, error) {
	intervals := make([]availability.Interval, 0, len(in))
	for _, iv := range in {
		parsed, err := availability.ParseInterval(iv.From, iv.To)
		if err != nil {
			return nil, err
		}
		intervals = append(intervals, parsed)
	}
	if err := availability.ValidateNonOverlapping(intervals); err != nil {
		return nil, err
	}
	return availability.SortIntervals(intervals), nil
}

// IntervalsToEntity renders domain intervals in their stored HH:MM form
func IntervalsToEntity(intervals []availability.Interval) entity.TimeIntervals {
	out := make(entity.TimeIntervals, len(intervals))
	for i, iv := range intervals {
		out[i] = entity.TimeInterval{From: iv.From.String(), To: iv.To.String()}
	}
	return out
}

// AvailabilityToOverride converts a stored override into the engine's input.
func AvailabilityToOverride(a *entity.Availability, loc *time.Location) (availability.Override, error) {
	intervals := make([]availability.Interval, 0, len(a.Intervals))
	for _, iv := range a.Intervals {
		parsed, err := availability.ParseInterval(iv.From, iv.To)
		if err != nil {
			return availability.Override{}, fmt.Errorf("availability %d on %s: %w", a.ID, a.Date.Format(availability.DateLayout), err)
		}
		intervals = append(intervals, parsed)
	}
	return availability.Override{
		Type:      availability.OverrideType(a.Type),
		Date:      inLocation(a.Date, loc),
		Intervals: intervals,
	}, nil
}

// AvailabilitiesToOverrides converts every stored override, failing on the first corrupt row.
func AvailabilitiesToOverrides(list []entity.Availability, loc *time.Location) ([]availability.Override, error) {
	overrides := make([]availability.Override, 0, len(list))
	for i := range list {
		o, err := AvailabilityToOverride(&list[i], loc)
		if err != nil {
			return nil, err
		}
		overrides = append(overrides, o)
	}
	return overrides, nil
}

// SlotsToResponses converts engine slots to SlotResponse DTOs
func SlotsToResponses(slots []availability.Slot) []dto.SlotResponse {
	responses := make([]dto.SlotResponse, len(slots))
	for i, s := range slots {
		responses[i] = dto.SlotResponse{Start: s.From, End: s.To}
	}
	return responses
}
