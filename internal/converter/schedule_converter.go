package converter

import (
	"time"

	"go-medical-scheduling/internal/delivery/dto"
	"go-medical-scheduling/internal/domain/availability"
	"go-medical-scheduling/internal/domain/entity"

	"github.com/google/uuid"
)

// ScheduleToResponse converts a Schedule entity to ScheduleResponse DTO.
// The structured recurrence is omitted when the stored rule cannot be parsed.
func ScheduleToResponse(schedule *entity.Schedule) *dto.ScheduleResponse {
	if schedule == nil {
		return nil
	}

	response := &dto.ScheduleResponse{
		ID:                  schedule.ID,
		DoctorID:            schedule.DoctorID,
		StartDate:           schedule.StartDate.Format(availability.DateLayout),
		EndDate:             schedule.EndDate.Format(availability.DateLayout),
		SlotDurationMinutes: schedule.SlotDurationMinutes,
		RecurrenceRule:      schedule.RecurrenceRule,
		CreatedAt:           schedule.CreatedAt,
		UpdatedAt:           schedule.UpdatedAt,
	}

	if rule, err := availability.ParseRule(schedule.RecurrenceRule, time.UTC); err == nil {
		response.Recurrence = RuleToResponse(rule)
	}

	// Include doctor info if available
	if schedule.Doctor.UserID != uuid.Nil {
		response.Doctor = DoctorProfileToResponse(&schedule.Doctor)
	}

	return response
}

// SchedulesToResponses converts a slice of Schedule entities to slice of ScheduleResponse DTOs
func SchedulesToResponses(schedules []entity.Schedule) []dto.ScheduleResponse {
	responses := make([]dto.ScheduleResponse, len(schedules))
	for i := range schedules {
		responses[i] = *ScheduleToResponse(&schedules[i])
	}
	return responses
}

func RuleToResponse(rule *availability.RecurrenceRule) *dto.RecurrenceResponse {
	days := rule.Weekdays.Days()
	weekdays := make([]string, len(days))
	for i, d := range days {
		weekdays[i] = d.String()
	}
	return &dto.RecurrenceResponse{
		Weekdays: weekdays,
		From:     rule.Daily.From.String(),
		To:       rule.Daily.To.String(),
	}
}

// ScheduleToDomain projects the stored schedule onto the engine's view of it.
// Dates are re-anchored to midnight in loc; slotDuration is the resolved duration.
func ScheduleToDomain(schedule *entity.Schedule, loc *time.Location, slotDuration time.Duration) availability.Schedule {
	return availability.Schedule{
		StartDate:    inLocation(schedule.StartDate, loc),
		EndDate:      inLocation(schedule.EndDate, loc),
		SlotDuration: slotDuration,
	}
}

// inLocation keeps the calendar date of a DATE column and moves it to loc
func inLocation(date time.Time, loc *time.Location) time.Time {
	y, m, d := date.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}
