package usecase

import (
	"context"
	"errors"
	"time"

	"go-medical-scheduling/internal/converter"
	"go-medical-scheduling/internal/delivery/dto"
	"go-medical-scheduling/internal/domain/availability"
	"go-medical-scheduling/internal/domain/repository"
	"go-medical-scheduling/internal/service"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var ErrInvalidSlotQuery = errors.New("use either date, or both from and to")

type SlotUsecase interface {
	GetSlots(ctx context.Context, scheduleID int, query *dto.SlotQuery) (*dto.SlotListResponse, error)
}

type slotUsecase struct {
	db               *gorm.DB
	log              *logrus.Logger
	engine           *availability.Engine
	rules            *service.RuleCache
	scheduleRepo     repository.ScheduleRepository
	availabilityRepo repository.AvailabilityRepository
	bookingRepo      repository.BookingRepository
	slotCache        service.SlotCache
}

func NewSlotUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	engine *availability.Engine,
	rules *service.RuleCache,
	scheduleRepo repository.ScheduleRepository,
	availabilityRepo repository.AvailabilityRepository,
	bookingRepo repository.BookingRepository,
	slotCache service.SlotCache,
) SlotUsecase {
	return &slotUsecase{
		db:               db,
		log:              log,
		engine:           engine,
		rules:            rules,
		scheduleRepo:     scheduleRepo,
		availabilityRepo: availabilityRepo,
		bookingRepo:      bookingRepo,
		slotCache:        slotCache,
	}
}

// GetSlots lists the free slots of a schedule for one date or an inclusive date range.
// Each day is served from the slot cache when possible.
func (u *slotUsecase) GetSlots(ctx context.Context, scheduleID int, query *dto.SlotQuery) (*dto.SlotListResponse, error) {
	fromStr, toStr := query.From, query.To
	switch {
	case query.Date != "" && fromStr == "" && toStr == "":
		fromStr, toStr = query.Date, query.Date
	case query.Date == "" && fromStr != "" && toStr != "":
	default:
		return nil, ErrInvalidSlotQuery
	}

	from, err := availability.ParseDate(fromStr, u.engine.Location())
	if err != nil {
		return nil, ErrInvalidDateFormat
	}
	to, err := availability.ParseDate(toStr, u.engine.Location())
	if err != nil {
		return nil, ErrInvalidDateFormat
	}
	days, err := u.engine.Days(from, to)
	if err != nil {
		return nil, err
	}

	record, err := u.scheduleRepo.FindByID(ctx, u.db, scheduleID)
	if err != nil {
		u.log.Warnf("Failed to find schedule: %+v", err)
		return nil, err
	}
	if record == nil {
		return nil, ErrScheduleNotFound
	}
	view, err := projectSchedule(u.engine, u.rules, record)
	if err != nil {
		u.log.Errorf("Failed to load schedule %d: %+v", scheduleID, err)
		return nil, err
	}

	inputs := &rangeInputs{u: u, scheduleID: scheduleID, from: days[0], to: days[len(days)-1]}

	all := []availability.Slot{}
	for _, day := range days {
		day := day
		slots, err := u.slotCache.GetOrLoad(ctx, scheduleID, day, func(ctx context.Context) ([]availability.Slot, error) {
			if err := inputs.load(ctx); err != nil {
				return nil, err
			}
			return u.engine.ListSlots(day, view.schedule, view.rule, inputs.overrides, inputs.booked)
		})
		if err != nil {
			u.log.Warnf("Failed to list slots for schedule %d on %s: %+v", scheduleID, day.Format(availability.DateLayout), err)
			return nil, err
		}
		all = append(all, slots...)
	}

	return &dto.SlotListResponse{
		ScheduleID:          scheduleID,
		From:                days[0].Format(availability.DateLayout),
		To:                  days[len(days)-1].Format(availability.DateLayout),
		SlotDurationMinutes: int(view.schedule.SlotDuration / time.Minute),
		Slots:               converter.SlotsToResponses(all),
		Total:               len(all),
	}, nil
}

// rangeInputs loads overrides and bookings for the whole range on the first cache miss.
type rangeInputs struct {
	u          *slotUsecase
	scheduleID int
	from, to   time.Time

	loaded    bool
	overrides []availability.Override
	booked    availability.InstantSet
}

func (in *rangeInputs) load(ctx context.Context) error {
	if in.loaded {
		return nil
	}

	stored, err := in.u.availabilityRepo.FindByScheduleInRange(ctx, in.u.db, in.scheduleID, in.from, in.to)
	if err != nil {
		return err
	}
	overrides, err := converter.AvailabilitiesToOverrides(stored, in.u.engine.Location())
	if err != nil {
		return err
	}

	starts, err := in.u.bookingRepo.FindActiveStarts(ctx, in.u.db, in.scheduleID, in.from, in.to.AddDate(0, 0, 1))
	if err != nil {
		return err
	}

	in.overrides = overrides
	in.booked = availability.NewInstantSet(starts...)
	in.loaded = true
	return nil
}
