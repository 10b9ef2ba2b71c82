package usecase

import (
	"fmt"

	"go-medical-scheduling/internal/converter"
	"go-medical-scheduling/internal/domain/availability"
	"go-medical-scheduling/internal/domain/entity"
	"go-medical-scheduling/internal/service"
)

// scheduleView is a stored schedule projected onto the engine's inputs.
type scheduleView struct {
	record   *entity.Schedule
	schedule availability.Schedule
	rule     *availability.RecurrenceRule
}

func projectSchedule(engine *availability.Engine, rules *service.RuleCache, record *entity.Schedule) (scheduleView, error) {
	rule, err := rules.Parse(record.ID, record.UpdatedAt, record.RecurrenceRule)
	if err != nil {
		return scheduleView{}, fmt.Errorf("schedule %d has an unusable recurrence rule: %w", record.ID, err)
	}
	return scheduleView{
		record:   record,
		schedule: converter.ScheduleToDomain(record, engine.Location(), engine.SlotDuration(record.SlotDurationMinutes)),
		rule:     rule,
	}, nil
}
