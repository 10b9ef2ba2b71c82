package usecase

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"time"

	"go-medical-scheduling/internal/converter"
	"go-medical-scheduling/internal/delivery/dto"
	"go-medical-scheduling/internal/domain/availability"
	"go-medical-scheduling/internal/domain/entity"
	"go-medical-scheduling/internal/domain/repository"
	"go-medical-scheduling/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrBookingNotFound         = errors.New("booking not found")
	ErrBookingAlreadyCancelled = errors.New("booking is already cancelled")
	ErrBookingNotOwned         = errors.New("booking does not belong to you")
	ErrSchedulePast            = errors.New("cannot book a time in the past")
	ErrInvalidDateTimeFormat   = errors.New("invalid preferred_date_time, use RFC 3339 or YYYY-MM-DDTHH:MM")
	ErrPatientProfileMissing   = errors.New("patient profile not found, complete registration before booking")
)

// activeSlotIndex is the partial unique index guarding one active booking per slot.
const activeSlotIndex = "idx_bookings_active_slot"

// localDateTimeLayouts are accepted for times without an offset, read in the clinic's zone.
var localDateTimeLayouts = []string{
	"2006-01-02T15:04",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
}

type PatientBookingUsecase interface {
	GetMyBookings(ctx context.Context) (*dto.BookingListResponse, error)
	CreateBooking(ctx context.Context, req *dto.CreateBookingRequest) (*dto.BookingResponse, error)
	CancelBooking(ctx context.Context, bookingID uuid.UUID) error
}

type patientBookingUsecase struct {
	db               *gorm.DB
	log              *logrus.Logger
	engine           *availability.Engine
	rules            *service.RuleCache
	bookingRepo        repository.BookingRepository
	scheduleRepo       repository.ScheduleRepository
	availabilityRepo   repository.AvailabilityRepository
	patientProfileRepo repository.PatientProfileRepository
	auditService       service.AuditService
	slotCache          service.SlotCache
	slotLocker         service.SlotLocker
	now                func() time.Time
}

func NewPatientBookingUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	engine *availability.Engine,
	rules *service.RuleCache,
	bookingRepo repository.BookingRepository,
	scheduleRepo repository.ScheduleRepository,
	availabilityRepo repository.AvailabilityRepository,
	patientProfileRepo repository.PatientProfileRepository,
	auditService service.AuditService,
	slotCache service.SlotCache,
	slotLocker service.SlotLocker,
) PatientBookingUsecase {
	return &patientBookingUsecase{
		db:                 db,
		log:                log,
		engine:             engine,
		rules:              rules,
		bookingRepo:        bookingRepo,
		scheduleRepo:       scheduleRepo,
		availabilityRepo:   availabilityRepo,
		patientProfileRepo: patientProfileRepo,
		auditService:       auditService,
		slotCache:          slotCache,
		slotLocker:         slotLocker,
		now:                time.Now,
	}
}

// GetMyBookings returns all bookings for the logged-in patient
func (u *patientBookingUsecase) GetMyBookings(ctx context.Context) (*dto.BookingListResponse, error) {
	a, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}

	bookings, err := u.bookingRepo.FindByPatientID(ctx, u.db, a.UserID)
	if err != nil {
		u.log.Warnf("Failed to find bookings for patient %s: %+v", a.UserID, err)
		return nil, err
	}

	return &dto.BookingListResponse{
		Bookings: converter.BookingsToResponses(bookings),
		Total:    len(bookings),
	}, nil
}

// CreateBooking books the slot starting at the requested instant.
//
// Flow:
// 1. Load the patient profile and the schedule, parse the requested time
// 2. Take a short Redis lock on the slot so concurrent requests queue up
// 3. Check the instant against the schedule, its overrides and the active bookings
// 4. Insert; the partial unique index rejects a double booking that slipped past the lock
// 5. Drop the cached slot lists of the schedule
func (u *patientBookingUsecase) CreateBooking(ctx context.Context, req *dto.CreateBookingRequest) (*dto.BookingResponse, error) {
	a, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}

	profile, err := u.patientProfileRepo.FindByUserID(ctx, u.db, a.UserID)
	if err != nil {
		u.log.Warnf("Failed to find patient profile %s: %+v", a.UserID, err)
		return nil, err
	}
	if profile == nil {
		return nil, ErrPatientProfileMissing
	}

	record, err := u.scheduleRepo.FindByID(ctx, u.db, req.ScheduleID)
	if err != nil {
		u.log.Warnf("Failed to find schedule %d: %+v", req.ScheduleID, err)
		return nil, err
	}
	if record == nil {
		return nil, ErrScheduleNotFound
	}

	requested, err := u.parseDateTime(req.PreferredDateTime)
	if err != nil {
		return nil, err
	}
	if requested.Before(u.now()) {
		return nil, ErrSchedulePast
	}

	release, err := u.slotLocker.Acquire(ctx, req.ScheduleID, requested)
	switch {
	case errors.Is(err, service.ErrSlotLocked):
		return nil, &BookingRejectedError{Reason: availability.ReasonAlreadyBooked}
	case err != nil:
		// The unique index still prevents double booking without the lock.
		u.log.Warnf("Slot lock unavailable for schedule %d, continuing without it: %+v", req.ScheduleID, err)
	default:
		defer release()
	}

	view, err := projectSchedule(u.engine, u.rules, record)
	if err != nil {
		u.log.Errorf("Failed to load schedule %d: %+v", req.ScheduleID, err)
		return nil, err
	}

	day := u.engine.Date(requested)
	stored, err := u.availabilityRepo.FindByScheduleAndDate(ctx, u.db, req.ScheduleID, day)
	if err != nil {
		u.log.Warnf("Failed to find availability for schedule %d: %+v", req.ScheduleID, err)
		return nil, err
	}
	var overrides []availability.Override
	if stored != nil {
		if overrides, err = converter.AvailabilitiesToOverrides([]entity.Availability{*stored}, u.engine.Location()); err != nil {
			u.log.Errorf("Failed to read availability of schedule %d: %+v", req.ScheduleID, err)
			return nil, err
		}
	}

	starts, err := u.bookingRepo.FindActiveStarts(ctx, u.db, req.ScheduleID, day, day.AddDate(0, 0, 1))
	if err != nil {
		u.log.Warnf("Failed to find active bookings for schedule %d: %+v", req.ScheduleID, err)
		return nil, err
	}

	decision, err := u.engine.CanBook(requested, view.schedule, view.rule, overrides, availability.NewInstantSet(starts...))
	if err != nil {
		u.log.Errorf("Failed to validate booking on schedule %d: %+v", req.ScheduleID, err)
		return nil, err
	}
	if !decision.Accepted {
		return nil, &BookingRejectedError{Reason: decision.Reason}
	}

	booking := &entity.Booking{
		PatientID:         a.UserID,
		ScheduleID:        req.ScheduleID,
		BookingCode:       generateBookingCode(decision.Slot.From),
		PreferredDateTime: decision.Slot.From,
		IsActive:          true,
	}
	if err := u.bookingRepo.Create(ctx, u.db, booking); err != nil {
		if isDuplicateKeyError(err, activeSlotIndex) {
			return nil, &BookingRejectedError{Reason: availability.ReasonAlreadyBooked}
		}
		u.log.Errorf("Failed to insert booking: %+v", err)
		return nil, err
	}

	u.invalidateSlots(ctx, req.ScheduleID)

	if err := u.auditService.LogCreate(ctx, u.db, &a.UserID, entity.AuditActionBookingCreate, "booking", booking.ID.String(), converter.BookingToResponse(booking)); err != nil {
		u.log.Warnf("Failed to write audit log: %+v", err)
	}

	fullBooking, err := u.bookingRepo.FindByID(ctx, u.db, booking.ID)
	if err != nil || fullBooking == nil {
		u.log.Warnf("Failed to reload booking %s: %+v", booking.ID, err)
		return converter.BookingToResponse(booking), nil
	}

	u.log.Infof("Booking created: id=%s, schedule=%d, at=%s, code=%s", booking.ID, req.ScheduleID, booking.PreferredDateTime.Format(time.RFC3339), booking.BookingCode)
	return converter.BookingToResponse(fullBooking), nil
}

// CancelBooking deactivates a booking so its slot becomes bookable again.
func (u *patientBookingUsecase) CancelBooking(ctx context.Context, bookingID uuid.UUID) error {
	a, err := actorFromContext(ctx)
	if err != nil {
		return err
	}

	booking, err := u.bookingRepo.FindByID(ctx, u.db, bookingID)
	if err != nil {
		u.log.Warnf("Failed to find booking %s: %+v", bookingID, err)
		return err
	}
	if booking == nil {
		return ErrBookingNotFound
	}
	if booking.PatientID != a.UserID && !a.IsAdmin() {
		return ErrBookingNotOwned
	}
	if booking.IsCancelled() {
		return ErrBookingAlreadyCancelled
	}

	rows, err := u.bookingRepo.CancelBooking(ctx, u.db, bookingID)
	if err != nil {
		u.log.Warnf("Failed to cancel booking %s: %+v", bookingID, err)
		return err
	}
	if rows == 0 {
		return ErrBookingAlreadyCancelled
	}

	u.invalidateSlots(ctx, booking.ScheduleID)

	before := converter.BookingToResponse(booking)
	booking.Cancel()
	if err := u.auditService.LogUpdate(ctx, u.db, &a.UserID, entity.AuditActionBookingCancel, "booking", bookingID.String(), before, converter.BookingToResponse(booking)); err != nil {
		u.log.Warnf("Failed to write audit log: %+v", err)
	}

	u.log.Infof("Booking cancelled: id=%s, schedule=%d", bookingID, booking.ScheduleID)
	return nil
}

// parseDateTime accepts RFC 3339 or a local wall-clock time in the engine's location.
func (u *patientBookingUsecase) parseDateTime(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	for _, layout := range localDateTimeLayouts {
		if t, err := time.ParseInLocation(layout, value, u.engine.Location()); err == nil {
			return t, nil
		}
	}
	return time.Time{}, ErrInvalidDateTimeFormat
}

func (u *patientBookingUsecase) invalidateSlots(ctx context.Context, scheduleID int) {
	if err := u.slotCache.Invalidate(ctx, scheduleID); err != nil {
		u.log.Warnf("Failed to invalidate slot cache for schedule %d: %+v", scheduleID, err)
	}
}

// generateBookingCode generates a unique booking code: BK-YYYYMMDD-XXXXXX
func generateBookingCode(start time.Time) string {
	randomBytes := make([]byte, 3)
	rand.Read(randomBytes)
	return fmt.Sprintf("BK-%s-%06X", start.Format("20060102"), randomBytes)
}
