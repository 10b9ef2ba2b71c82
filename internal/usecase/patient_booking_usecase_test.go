package usecase

import (
	"errors"
	"testing"
	"time"

	"go-medical-scheduling/internal/delivery/dto"
	"go-medical-scheduling/internal/domain/availability"
	"go-medical-scheduling/internal/domain/entity"
	"go-medical-scheduling/internal/service"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

type bookingFixture struct {
	usecase        *patientBookingUsecase
	bookings       *fakeBookingRepo
	availabilities *fakeAvailabilityRepo
	patients       *fakePatientProfileRepo
	audit          *fakeAuditService
	cache          *fakeSlotCache
	locker         *fakeSlotLocker
}

func newBookingFixture(t *testing.T) *bookingFixture {
	t.Helper()
	wednesday := testMonday.AddDate(0, 0, 2)
	f := &bookingFixture{
		bookings: &fakeBookingRepo{bookings: []entity.Booking{{
			ID:                uuid.New(),
			PatientID:         uuid.New(),
			ScheduleID:        1,
			PreferredDateTime: at(testMonday, 9, 30),
			IsActive:          true,
		}}},
		availabilities: newFakeAvailabilityRepo(entity.Availability{ID: 1, ScheduleID: 1, Type: entity.AvailabilityTypeDate, Date: wednesday}),
		patients:       newFakePatientProfileRepo(testPatientID),
		audit:          &fakeAuditService{},
		cache:          &fakeSlotCache{},
		locker:         &fakeSlotLocker{},
	}
	uc := NewPatientBookingUsecase(nil, testLogger(), testEngine(t), testRules(t), f.bookings, newFakeScheduleRepo(weekSchedule()), f.availabilities, f.patients, f.audit, f.cache, f.locker).(*patientBookingUsecase)
	uc.now = func() time.Time { return testNow }
	f.usecase = uc
	return f
}

func TestCreateBooking_Accepted(t *testing.T) {
	f := newBookingFixture(t)

	resp, err := f.usecase.CreateBooking(asPatient(), &dto.CreateBookingRequest{ScheduleID: 1, PreferredDateTime: "2026-10-26T09:45:00Z"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !resp.PreferredDateTime.Equal(at(testMonday, 9, 45)) || !resp.IsActive || resp.PatientID != testPatientID {
		t.Fatalf("unexpected booking: %+v", resp)
	}
	if len(resp.BookingCode) != len("BK-20261026-ABCDEF") || resp.BookingCode[:12] != "BK-20261026-" {
		t.Errorf("booking code = %q", resp.BookingCode)
	}
	if f.locker.acquired != 1 || f.locker.released != 1 {
		t.Errorf("lock acquired %d released %d", f.locker.acquired, f.locker.released)
	}
	if len(f.cache.invalidated) != 1 || f.cache.invalidated[0] != 1 {
		t.Errorf("invalidated = %v", f.cache.invalidated)
	}
	if len(f.audit.actions) != 1 || f.audit.actions[0] != entity.AuditActionBookingCreate {
		t.Errorf("audit = %v", f.audit.actions)
	}
}

func TestCreateBooking_LocalTimeUsesClinicZone(t *testing.T) {
	f := newBookingFixture(t)

	resp, err := f.usecase.CreateBooking(asPatient(), &dto.CreateBookingRequest{ScheduleID: 1, PreferredDateTime: "2026-10-27T10:00"})
	if err != nil {
		t.Fatal(err)
	}
	if !resp.PreferredDateTime.Equal(at(testMonday.AddDate(0, 0, 1), 10, 0)) {
		t.Fatalf("preferred = %s", resp.PreferredDateTime)
	}
}

func TestCreateBooking_Rejections(t *testing.T) {
	tests := []struct {
		name      string
		requested string
		reason    availability.RejectReason
	}{
		{"slot taken", "2026-10-26T09:30:00Z", availability.ReasonAlreadyBooked},
		{"not on the slot grid", "2026-10-26T09:40:00Z", availability.ReasonTimeNotAvailable},
		{"after working hours", "2026-10-26T17:00:00Z", availability.ReasonTimeNotAvailable},
		{"after the schedule ends", "2026-10-31T10:00:00Z", availability.ReasonOutOfScheduleRange},
		{"day closed by override", "2026-10-28T10:00:00Z", availability.ReasonNoAvailability},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newBookingFixture(t)

			_, err := f.usecase.CreateBooking(asPatient(), &dto.CreateBookingRequest{ScheduleID: 1, PreferredDateTime: tt.requested})
			var rejected *BookingRejectedError
			if !errors.As(err, &rejected) {
				t.Fatalf("expected BookingRejectedError, got %v", err)
			}
			if rejected.Reason != tt.reason {
				t.Errorf("reason = %q, want %q", rejected.Reason, tt.reason)
			}
			if !errors.Is(err, ErrBookingRejected) {
				t.Error("error does not match ErrBookingRejected")
			}
			if f.bookings.created != 0 {
				t.Error("rejected booking was inserted")
			}
		})
	}
}

func TestCreateBooking_LockHeldElsewhere(t *testing.T) {
	f := newBookingFixture(t)
	f.locker.err = service.ErrSlotLocked

	_, err := f.usecase.CreateBooking(asPatient(), &dto.CreateBookingRequest{ScheduleID: 1, PreferredDateTime: "2026-10-26T10:00:00Z"})
	var rejected *BookingRejectedError
	if !errors.As(err, &rejected) || rejected.Reason != availability.ReasonAlreadyBooked {
		t.Fatalf("expected already_booked, got %v", err)
	}
	if f.bookings.created != 0 {
		t.Error("booking inserted without the lock")
	}
}

func TestCreateBooking_LockBackendDownStillBooks(t *testing.T) {
	f := newBookingFixture(t)
	f.locker.err = errors.New("dial tcp: connection refused")

	if _, err := f.usecase.CreateBooking(asPatient(), &dto.CreateBookingRequest{ScheduleID: 1, PreferredDateTime: "2026-10-26T10:00:00Z"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.bookings.created != 1 {
		t.Fatalf("created = %d", f.bookings.created)
	}
}

func TestCreateBooking_UniqueIndexViolation(t *testing.T) {
	f := newBookingFixture(t)
	f.bookings.createErr = &pgconn.PgError{Code: "23505", ConstraintName: "idx_bookings_active_slot"}

	_, err := f.usecase.CreateBooking(asPatient(), &dto.CreateBookingRequest{ScheduleID: 1, PreferredDateTime: "2026-10-26T10:00:00Z"})
	var rejected *BookingRejectedError
	if !errors.As(err, &rejected) || rejected.Reason != availability.ReasonAlreadyBooked {
		t.Fatalf("expected already_booked, got %v", err)
	}
	if len(f.cache.invalidated) != 0 {
		t.Error("cache invalidated after a failed insert")
	}
}

func TestCreateBooking_InputErrors(t *testing.T) {
	tests := []struct {
		name string
		req  dto.CreateBookingRequest
		want error
	}{
		{"unknown schedule", dto.CreateBookingRequest{ScheduleID: 9, PreferredDateTime: "2026-10-26T10:00:00Z"}, ErrScheduleNotFound},
		{"unparseable time", dto.CreateBookingRequest{ScheduleID: 1, PreferredDateTime: "next monday"}, ErrInvalidDateTimeFormat},
		{"in the past", dto.CreateBookingRequest{ScheduleID: 1, PreferredDateTime: "2026-10-18T10:00:00Z"}, ErrSchedulePast},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newBookingFixture(t)
			if _, err := f.usecase.CreateBooking(asPatient(), &tt.req); !errors.Is(err, tt.want) {
				t.Fatalf("got %v, want %v", err, tt.want)
			}
		})
	}
}

func TestCreateBooking_RequiresPatientProfile(t *testing.T) {
	f := newBookingFixture(t)
	delete(f.patients.profiles, testPatientID)

	_, err := f.usecase.CreateBooking(asPatient(), &dto.CreateBookingRequest{ScheduleID: 1, PreferredDateTime: "2026-10-26T10:00:00Z"})
	if !errors.Is(err, ErrPatientProfileMissing) {
		t.Fatalf("expected ErrPatientProfileMissing, got %v", err)
	}
	if f.locker.acquired != 0 {
		t.Error("lock taken before the profile check")
	}
}

func TestCreateBooking_CancelledBookingFreesSlot(t *testing.T) {
	f := newBookingFixture(t)
	f.bookings.bookings[0].IsActive = false

	if _, err := f.usecase.CreateBooking(asPatient(), &dto.CreateBookingRequest{ScheduleID: 1, PreferredDateTime: "2026-10-26T09:30:00Z"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestCancelBooking(t *testing.T) {
	f := newBookingFixture(t)
	mine := entity.Booking{ID: uuid.New(), PatientID: testPatientID, ScheduleID: 1, PreferredDateTime: at(testMonday, 11, 0), IsActive: true}
	f.bookings.bookings = append(f.bookings.bookings, mine)
	other := f.bookings.bookings[0].ID

	if err := f.usecase.CancelBooking(asPatient(), uuid.New()); !errors.Is(err, ErrBookingNotFound) {
		t.Errorf("unknown booking: %v", err)
	}
	if err := f.usecase.CancelBooking(asPatient(), other); !errors.Is(err, ErrBookingNotOwned) {
		t.Errorf("foreign booking: %v", err)
	}
	if err := f.usecase.CancelBooking(asPatient(), mine.ID); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if err := f.usecase.CancelBooking(asPatient(), mine.ID); !errors.Is(err, ErrBookingAlreadyCancelled) {
		t.Errorf("second cancel: %v", err)
	}
	if len(f.cache.invalidated) != 1 {
		t.Errorf("invalidated = %v", f.cache.invalidated)
	}
	if len(f.audit.actions) != 1 || f.audit.actions[0] != entity.AuditActionBookingCancel {
		t.Errorf("audit = %v", f.audit.actions)
	}

	// An admin may cancel any booking.
	if err := f.usecase.CancelBooking(asAdmin(), other); err != nil {
		t.Errorf("admin cancel: %v", err)
	}
}

func TestGetMyBookings(t *testing.T) {
	f := newBookingFixture(t)
	f.bookings.bookings = append(f.bookings.bookings, entity.Booking{ID: uuid.New(), PatientID: testPatientID, ScheduleID: 1, IsActive: true})

	resp, err := f.usecase.GetMyBookings(asPatient())
	if err != nil {
		t.Fatal(err)
	}
	if resp.Total != 1 || resp.Bookings[0].PatientID != testPatientID {
		t.Fatalf("got %+v", resp)
	}
}
