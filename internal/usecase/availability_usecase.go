package usecase

import (
	"context"
	"errors"
	"fmt"
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
	ErrAvailabilityNotFound = errors.New("availability override not found")
	ErrInvalidIntervals     = errors.New("invalid intervals")
	ErrDateOutsideSchedule  = errors.New("date is outside the schedule range")
)

type AvailabilityUsecase interface {
	UpsertAvailability(ctx context.Context, scheduleID int, date string, req *dto.UpsertAvailabilityRequest) (*dto.AvailabilityResponse, error)
	GetAvailabilities(ctx context.Context, scheduleID int) (*dto.AvailabilityListResponse, error)
	DeleteAvailability(ctx context.Context, scheduleID int, date string) error
}

type availabilityUsecase struct {
	db               *gorm.DB
	log              *logrus.Logger
	engine           *availability.Engine
	scheduleRepo     repository.ScheduleRepository
	availabilityRepo repository.AvailabilityRepository
	auditService     service.AuditService
	slotCache        service.SlotCache
}

func NewAvailabilityUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	engine *availability.Engine,
	scheduleRepo repository.ScheduleRepository,
	availabilityRepo repository.AvailabilityRepository,
	auditService service.AuditService,
	slotCache service.SlotCache,
) AvailabilityUsecase {
	return &availabilityUsecase{
		db:               db,
		log:              log,
		engine:           engine,
		scheduleRepo:     scheduleRepo,
		availabilityRepo: availabilityRepo,
		auditService:     auditService,
		slotCache:        slotCache,
	}
}

// UpsertAvailability stores the hours for one date, replacing any earlier override.
// The intervals must not overlap; an empty list closes the day.
func (u *availabilityUsecase) UpsertAvailability(ctx context.Context, scheduleID int, date string, req *dto.UpsertAvailabilityRequest) (*dto.AvailabilityResponse, error) {
	a, schedule, err := u.loadManagedSchedule(ctx, scheduleID)
	if err != nil {
		return nil, err
	}

	day, err := availability.ParseDate(date, u.engine.Location())
	if err != nil {
		return nil, ErrInvalidDateFormat
	}
	bounds := converter.ScheduleToDomain(schedule, u.engine.Location(), 0).Bounds()
	if !bounds.Contains(day) {
		return nil, ErrDateOutsideSchedule
	}

	intervals, err := converter.IntervalsFromRequest(req.Intervals)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidIntervals, err)
	}

	previous, err := u.availabilityRepo.FindByScheduleAndDate(ctx, u.db, scheduleID, day)
	if err != nil {
		u.log.Warnf("Failed to find availability: %+v", err)
		return nil, err
	}

	record := &entity.Availability{
		ScheduleID: scheduleID,
		Type:       entity.AvailabilityTypeDate,
		Date:       day,
		Intervals:  converter.IntervalsToEntity(intervals),
	}
	if err := u.availabilityRepo.Upsert(ctx, u.db, record); err != nil {
		u.log.Warnf("Failed to upsert availability for schedule %d on %s: %+v", scheduleID, date, err)
		return nil, err
	}

	u.invalidateSlots(ctx, scheduleID)

	response := converter.AvailabilityToResponse(record)
	if err := u.auditService.LogUpdate(ctx, u.db, &a.UserID, entity.AuditActionAvailabilityUpsert, "availability", availabilityEntityID(scheduleID, day), converter.AvailabilityToResponse(previous), response); err != nil {
		u.log.Warnf("Failed to create audit log: %+v", err)
	}

	return response, nil
}

func (u *availabilityUsecase) GetAvailabilities(ctx context.Context, scheduleID int) (*dto.AvailabilityListResponse, error) {
	schedule, err := u.scheduleRepo.FindByID(ctx, u.db, scheduleID)
	if err != nil {
		u.log.Warnf("Failed to find schedule: %+v", err)
		return nil, err
	}
	if schedule == nil {
		return nil, ErrScheduleNotFound
	}

	list, err := u.availabilityRepo.FindByScheduleID(ctx, u.db, scheduleID)
	if err != nil {
		u.log.Warnf("Failed to find availabilities for schedule %d: %+v", scheduleID, err)
		return nil, err
	}

	return &dto.AvailabilityListResponse{
		Availabilities: converter.AvailabilitiesToResponses(list),
		Total:          len(list),
	}, nil
}

// DeleteAvailability drops the override so the recurrence applies again on that date.
func (u *availabilityUsecase) DeleteAvailability(ctx context.Context, scheduleID int, date string) error {
	a, _, err := u.loadManagedSchedule(ctx, scheduleID)
	if err != nil {
		return err
	}

	day, err := availability.ParseDate(date, u.engine.Location())
	if err != nil {
		return ErrInvalidDateFormat
	}

	previous, err := u.availabilityRepo.FindByScheduleAndDate(ctx, u.db, scheduleID, day)
	if err != nil {
		u.log.Warnf("Failed to find availability: %+v", err)
		return err
	}
	if previous == nil {
		return ErrAvailabilityNotFound
	}

	affectedRows, err := u.availabilityRepo.DeleteByScheduleAndDate(ctx, u.db, scheduleID, day)
	if err != nil {
		u.log.Warnf("Failed to delete availability: %+v", err)
		return err
	}
	if affectedRows == 0 {
		return ErrAvailabilityNotFound
	}

	u.invalidateSlots(ctx, scheduleID)

	if err := u.auditService.LogDelete(ctx, u.db, &a.UserID, entity.AuditActionAvailabilityDelete, "availability", availabilityEntityID(scheduleID, day), converter.AvailabilityToResponse(previous)); err != nil {
		u.log.Warnf("Failed to create audit log: %+v", err)
	}

	return nil
}

func (u *availabilityUsecase) loadManagedSchedule(ctx context.Context, scheduleID int) (actor, *entity.Schedule, error) {
	a, err := actorFromContext(ctx)
	if err != nil {
		return actor{}, nil, err
	}

	schedule, err := u.scheduleRepo.FindByID(ctx, u.db, scheduleID)
	if err != nil {
		u.log.Warnf("Failed to find schedule: %+v", err)
		return actor{}, nil, err
	}
	if schedule == nil {
		return actor{}, nil, ErrScheduleNotFound
	}
	if !canManageSchedule(a, schedule) {
		return actor{}, nil, ErrForbidden
	}
	return a, schedule, nil
}

func (u *availabilityUsecase) invalidateSlots(ctx context.Context, scheduleID int) {
	if err := u.slotCache.Invalidate(ctx, scheduleID); err != nil {
		u.log.Warnf("Slot cache for schedule %d may be stale: %+v", scheduleID, err)
	}
}

func availabilityEntityID(scheduleID int, day time.Time) string {
	return fmt.Sprintf("%d:%s", scheduleID, day.Format(availability.DateLayout))
}
