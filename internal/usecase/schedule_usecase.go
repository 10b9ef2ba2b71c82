package usecase

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"go-medical-scheduling/internal/converter"
	"go-medical-scheduling/internal/delivery/dto"
	"go-medical-scheduling/internal/domain/availability"
	"go-medical-scheduling/internal/domain/entity"
	"go-medical-scheduling/internal/domain/repository"
	"go-medical-scheduling/internal/service"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrScheduleNotFound     = errors.New("schedule not found")
	ErrInvalidScheduleRange = errors.New("start_date must not be after end_date")
	ErrInvalidRecurrence    = errors.New("invalid recurrence")
	ErrDoctorIDRequired     = errors.New("doctor_id is required when an admin creates a schedule")
)

type ScheduleUsecase interface {
	CreateSchedule(ctx context.Context, req *dto.CreateScheduleRequest) (*dto.ScheduleResponse, error)
	GetSchedule(ctx context.Context, scheduleID int) (*dto.ScheduleResponse, error)
	GetSchedules(ctx context.Context, filter *entity.ScheduleFilter) (*dto.ScheduleListResponse, error)
	UpdateSchedule(ctx context.Context, scheduleID int, req *dto.UpdateScheduleRequest) (*dto.ScheduleResponse, error)
	DeleteSchedule(ctx context.Context, scheduleID int) error
}

type scheduleUsecase struct {
	db                *gorm.DB
	log               *logrus.Logger
	engine            *availability.Engine
	scheduleRepo      repository.ScheduleRepository
	doctorProfileRepo repository.DoctorProfileRepository
	auditService      service.AuditService
	slotCache         service.SlotCache
}

func NewScheduleUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	engine *availability.Engine,
	scheduleRepo repository.ScheduleRepository,
	doctorProfileRepo repository.DoctorProfileRepository,
	auditService service.AuditService,
	slotCache service.SlotCache,
) ScheduleUsecase {
	return &scheduleUsecase{
		db:                db,
		log:               log,
		engine:            engine,
		scheduleRepo:      scheduleRepo,
		doctorProfileRepo: doctorProfileRepo,
		auditService:      auditService,
		slotCache:         slotCache,
	}
}

func (u *scheduleUsecase) CreateSchedule(ctx context.Context, req *dto.CreateScheduleRequest) (*dto.ScheduleResponse, error) {
	a, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}

	doctorID := a.UserID
	if a.IsAdmin() {
		if req.DoctorID == nil {
			return nil, ErrDoctorIDRequired
		}
		doctorID = *req.DoctorID
	} else if a.RoleID != entity.RoleIDDoctor {
		return nil, ErrForbidden
	}

	doctor, err := u.doctorProfileRepo.FindByUserID(ctx, u.db, doctorID)
	if err != nil {
		u.log.Warnf("Failed to find doctor: %+v", err)
		return nil, err
	}
	if doctor == nil {
		return nil, ErrDoctorNotFound
	}

	startDate, endDate, err := u.parseRange(req.StartDate, req.EndDate)
	if err != nil {
		return nil, err
	}
	rule, err := u.buildRule(req.RecurrenceRule, req.Recurrence, startDate, endDate)
	if err != nil {
		return nil, err
	}

	schedule := &entity.Schedule{
		DoctorID:            doctorID,
		StartDate:           startDate,
		EndDate:             endDate,
		SlotDurationMinutes: req.SlotDurationMinutes,
		RecurrenceRule:      rule,
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	if err := u.scheduleRepo.Create(ctx, tx, schedule); err != nil {
		if isForeignKeyError(err, "doctor") {
			return nil, ErrDoctorNotFound
		}
		u.log.Warnf("Failed to create schedule: %+v", err)
		return nil, err
	}

	doctor.Schedules = nil
	schedule.Doctor = *doctor
	response := converter.ScheduleToResponse(schedule)

	if err := u.auditService.LogCreate(ctx, tx, &a.UserID, entity.AuditActionScheduleCreate, "schedule", strconv.Itoa(schedule.ID), response); err != nil {
		u.log.Warnf("Failed to create audit log: %+v", err)
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	u.log.Infof("Schedule created: id=%d, doctor=%s, rule=%s", schedule.ID, doctorID, rule)
	return response, nil
}

func (u *scheduleUsecase) GetSchedule(ctx context.Context, scheduleID int) (*dto.ScheduleResponse, error) {
	schedule, err := u.scheduleRepo.FindByID(ctx, u.db, scheduleID)
	if err != nil {
		u.log.Warnf("Failed to find schedule: %+v", err)
		return nil, err
	}
	if schedule == nil {
		return nil, ErrScheduleNotFound
	}

	return converter.ScheduleToResponse(schedule), nil
}

func (u *scheduleUsecase) GetSchedules(ctx context.Context, filter *entity.ScheduleFilter) (*dto.ScheduleListResponse, error) {
	schedules, err := u.scheduleRepo.FindAll(ctx, u.db, filter)
	if err != nil {
		u.log.Warnf("Failed to find schedules: %+v", err)
		return nil, err
	}

	return &dto.ScheduleListResponse{
		Schedules: converter.SchedulesToResponses(schedules),
		Total:     len(schedules),
	}, nil
}

func (u *scheduleUsecase) UpdateSchedule(ctx context.Context, scheduleID int, req *dto.UpdateScheduleRequest) (*dto.ScheduleResponse, error) {
	a, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}

	schedule, err := u.scheduleRepo.FindByID(ctx, u.db, scheduleID)
	if err != nil {
		u.log.Warnf("Failed to find schedule: %+v", err)
		return nil, err
	}
	if schedule == nil {
		return nil, ErrScheduleNotFound
	}
	if !canManageSchedule(a, schedule) {
		return nil, ErrForbidden
	}

	// Capture old value for audit
	oldValue := converter.ScheduleToResponse(schedule)

	start := schedule.StartDate.Format(availability.DateLayout)
	end := schedule.EndDate.Format(availability.DateLayout)
	if req.StartDate != nil {
		start = *req.StartDate
	}
	if req.EndDate != nil {
		end = *req.EndDate
	}
	startDate, endDate, err := u.parseRange(start, end)
	if err != nil {
		return nil, err
	}
	schedule.StartDate = startDate
	schedule.EndDate = endDate

	if req.SlotDurationMinutes != nil {
		schedule.SlotDurationMinutes = *req.SlotDurationMinutes
	}
	if req.RecurrenceRule != nil || req.Recurrence != nil {
		spec := ""
		if req.RecurrenceRule != nil {
			spec = *req.RecurrenceRule
		}
		rule, err := u.buildRule(spec, req.Recurrence, startDate, endDate)
		if err != nil {
			return nil, err
		}
		schedule.RecurrenceRule = rule
	}

	if err := u.scheduleRepo.Update(ctx, u.db, schedule); err != nil {
		u.log.Warnf("Failed to update schedule %d: %+v", scheduleID, err)
		return nil, err
	}

	u.invalidateSlots(ctx, scheduleID)

	newValue := converter.ScheduleToResponse(schedule)
	if err := u.auditService.LogUpdate(ctx, u.db, &a.UserID, entity.AuditActionScheduleUpdate, "schedule", strconv.Itoa(scheduleID), oldValue, newValue); err != nil {
		u.log.Warnf("Failed to create audit log: %+v", err)
	}

	return newValue, nil
}

func (u *scheduleUsecase) DeleteSchedule(ctx context.Context, scheduleID int) error {
	a, err := actorFromContext(ctx)
	if err != nil {
		return err
	}

	schedule, err := u.scheduleRepo.FindByID(ctx, u.db, scheduleID)
	if err != nil {
		u.log.Warnf("Failed to find schedule: %+v", err)
		return err
	}
	if schedule == nil {
		return ErrScheduleNotFound
	}
	if !canManageSchedule(a, schedule) {
		return ErrForbidden
	}
	oldValue := converter.ScheduleToResponse(schedule)

	affectedRows, err := u.scheduleRepo.Delete(ctx, u.db, scheduleID)
	if err != nil {
		u.log.Warnf("Failed delete schedule: %+v", err)
		return err
	}
	if affectedRows == 0 {
		return ErrScheduleNotFound
	}

	u.invalidateSlots(ctx, scheduleID)

	if err := u.auditService.LogDelete(ctx, u.db, &a.UserID, entity.AuditActionScheduleDelete, "schedule", strconv.Itoa(scheduleID), oldValue); err != nil {
		u.log.Warnf("Failed to create audit log: %+v", err)
	}

	return nil
}

// parseRange parses the schedule's inclusive date range in the clinic's location.
func (u *scheduleUsecase) parseRange(start, end string) (time.Time, time.Time, error) {
	startDate, err := availability.ParseDate(start, u.engine.Location())
	if err != nil {
		return time.Time{}, time.Time{}, ErrInvalidDateFormat
	}
	endDate, err := availability.ParseDate(end, u.engine.Location())
	if err != nil {
		return time.Time{}, time.Time{}, ErrInvalidDateFormat
	}
	if endDate.Before(startDate) {
		return time.Time{}, time.Time{}, ErrInvalidScheduleRange
	}
	return startDate, endDate, nil
}

// buildRule returns the canonical rule string from either a rule string or structured input.
// Structured input is valid over the schedule's own date range.
func (u *scheduleUsecase) buildRule(spec string, structured *dto.RecurrenceInput, start, end time.Time) (string, error) {
	var (
		rule *availability.RecurrenceRule
		err  error
	)
	switch {
	case spec != "":
		rule, err = availability.ParseRule(spec, u.engine.Location())
	case structured != nil:
		rule, err = recurrenceFromInput(structured, start, end)
	default:
		return "", fmt.Errorf("%w: recurrence_rule or recurrence is required", ErrInvalidRecurrence)
	}
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidRecurrence, err)
	}

	canonical := rule.String()
	// The canonical form must survive a round trip, which rules out a 24:00 end.
	if _, err := availability.ParseRule(canonical, u.engine.Location()); err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidRecurrence, err)
	}
	return canonical, nil
}

func recurrenceFromInput(in *dto.RecurrenceInput, start, end time.Time) (*availability.RecurrenceRule, error) {
	var days availability.WeekdaySet
	for _, s := range in.Weekdays {
		d, err := availability.ParseWeekday(s)
		if err != nil {
			return nil, err
		}
		days = days.With(d)
	}
	daily, err := availability.ParseInterval(in.From, in.To)
	if err != nil {
		return nil, err
	}
	return availability.NewRecurrenceRule(days, daily, start, end)
}

func (u *scheduleUsecase) invalidateSlots(ctx context.Context, scheduleID int) {
	if err := u.slotCache.Invalidate(ctx, scheduleID); err != nil {
		u.log.Warnf("Slot cache for schedule %d may be stale: %+v", scheduleID, err)
	}
}
