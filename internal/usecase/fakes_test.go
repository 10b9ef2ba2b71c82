package usecase

import (
	"context"
	"io"
	"sort"
	"sync"
	"testing"
	"time"

	"go-medical-scheduling/internal/delivery/http/middleware"
	"go-medical-scheduling/internal/domain/availability"
	"go-medical-scheduling/internal/domain/entity"
	"go-medical-scheduling/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const testRule = "FREQ=WEEKLY;BYDAY=MO,TU,WE,TH,FR;DTSTART=20261026T090000;UNTIL=20261030T170000"

var (
	testDoctorID  = uuid.MustParse("11111111-1111-1111-1111-111111111111")
	testPatientID = uuid.MustParse("22222222-2222-2222-2222-222222222222")
	testAdminID   = uuid.MustParse("33333333-3333-3333-3333-333333333333")
	testMonday    = time.Date(2026, 10, 26, 0, 0, 0, 0, time.UTC)
	testNow       = time.Date(2026, 10, 19, 8, 0, 0, 0, time.UTC)
)

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func testEngine(t *testing.T) *availability.Engine {
	t.Helper()
	engine, err := availability.NewEngine(availability.Config{DefaultSlotDuration: 15 * time.Minute, Location: time.UTC})
	if err != nil {
		t.Fatal(err)
	}
	return engine
}

func testRules(t *testing.T) *service.RuleCache {
	t.Helper()
	rules, err := service.NewRuleCache(16, time.UTC)
	if err != nil {
		t.Fatal(err)
	}
	return rules
}

func asPatient() context.Context {
	return middleware.WithUser(context.Background(), testPatientID, entity.RoleIDPatient)
}

func asDoctor(id uuid.UUID) context.Context {
	return middleware.WithUser(context.Background(), id, entity.RoleIDDoctor)
}

func asAdmin() context.Context {
	return middleware.WithUser(context.Background(), testAdminID, entity.RoleIDAdmin)
}

// weekSchedule runs Monday 2026-10-26 through Friday 2026-10-30, 09:00-17:00, 15 minute slots.
func weekSchedule() *entity.Schedule {
	return &entity.Schedule{
		ID:                  1,
		DoctorID:            testDoctorID,
		StartDate:           testMonday,
		EndDate:             time.Date(2026, 10, 30, 0, 0, 0, 0, time.UTC),
		SlotDurationMinutes: 15,
		RecurrenceRule:      testRule,
		UpdatedAt:           testNow,
	}
}

func at(day time.Time, hour, minute int) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, time.UTC)
}

type fakeScheduleRepo struct {
	schedules map[int]*entity.Schedule
	nextID    int
	updates   int
}

func newFakeScheduleRepo(schedules ...*entity.Schedule) *fakeScheduleRepo {
	r := &fakeScheduleRepo{schedules: map[int]*entity.Schedule{}, nextID: 100}
	for _, s := range schedules {
		r.schedules[s.ID] = s
	}
	return r
}

func (r *fakeScheduleRepo) Create(ctx context.Context, db *gorm.DB, schedule *entity.Schedule) error {
	r.nextID++
	schedule.ID = r.nextID
	stored := *schedule
	r.schedules[schedule.ID] = &stored
	return nil
}

func (r *fakeScheduleRepo) FindByID(ctx context.Context, db *gorm.DB, id int) (*entity.Schedule, error) {
	s, ok := r.schedules[id]
	if !ok {
		return nil, nil
	}
	out := *s
	return &out, nil
}

func (r *fakeScheduleRepo) FindAll(ctx context.Context, db *gorm.DB, filter *entity.ScheduleFilter) ([]entity.Schedule, error) {
	var out []entity.Schedule
	for _, s := range r.schedules {
		if filter != nil && filter.DoctorID != nil && s.DoctorID != *filter.DoctorID {
			continue
		}
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeScheduleRepo) Update(ctx context.Context, db *gorm.DB, schedule *entity.Schedule) error {
	r.updates++
	stored := *schedule
	r.schedules[schedule.ID] = &stored
	return nil
}

func (r *fakeScheduleRepo) Delete(ctx context.Context, db *gorm.DB, id int) (int64, error) {
	if _, ok := r.schedules[id]; !ok {
		return 0, nil
	}
	delete(r.schedules, id)
	return 1, nil
}

type fakeAvailabilityRepo struct {
	byDate      map[string]entity.Availability
	nextID      int
	rangeLoads  int
	dateLookups int
}

func newFakeAvailabilityRepo(list ...entity.Availability) *fakeAvailabilityRepo {
	r := &fakeAvailabilityRepo{byDate: map[string]entity.Availability{}}
	for _, a := range list {
		r.byDate[availabilityKey(a.ScheduleID, a.Date)] = a
	}
	return r
}

func availabilityKey(scheduleID int, date time.Time) string {
	return availabilityEntityID(scheduleID, date)
}

func (r *fakeAvailabilityRepo) Upsert(ctx context.Context, db *gorm.DB, a *entity.Availability) error {
	key := availabilityKey(a.ScheduleID, a.Date)
	if existing, ok := r.byDate[key]; ok {
		a.ID = existing.ID
	} else {
		r.nextID++
		a.ID = r.nextID
	}
	r.byDate[key] = *a
	return nil
}

func (r *fakeAvailabilityRepo) FindByScheduleID(ctx context.Context, db *gorm.DB, scheduleID int) ([]entity.Availability, error) {
	var out []entity.Availability
	for _, a := range r.byDate {
		if a.ScheduleID == scheduleID {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (r *fakeAvailabilityRepo) FindByScheduleAndDate(ctx context.Context, db *gorm.DB, scheduleID int, date time.Time) (*entity.Availability, error) {
	r.dateLookups++
	a, ok := r.byDate[availabilityKey(scheduleID, date)]
	if !ok {
		return nil, nil
	}
	return &a, nil
}

func (r *fakeAvailabilityRepo) FindByScheduleInRange(ctx context.Context, db *gorm.DB, scheduleID int, from, to time.Time) ([]entity.Availability, error) {
	r.rangeLoads++
	lo, hi := from.Format(availability.DateLayout), to.Format(availability.DateLayout)
	var out []entity.Availability
	for _, a := range r.byDate {
		d := a.Date.Format(availability.DateLayout)
		if a.ScheduleID == scheduleID && d >= lo && d <= hi {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *fakeAvailabilityRepo) DeleteByScheduleAndDate(ctx context.Context, db *gorm.DB, scheduleID int, date time.Time) (int64, error) {
	key := availabilityKey(scheduleID, date)
	if _, ok := r.byDate[key]; !ok {
		return 0, nil
	}
	delete(r.byDate, key)
	return 1, nil
}

type fakeBookingRepo struct {
	bookings  []entity.Booking
	createErr error
	created   int
}

func (r *fakeBookingRepo) Create(ctx context.Context, db *gorm.DB, booking *entity.Booking) error {
	if r.createErr != nil {
		return r.createErr
	}
	booking.ID = uuid.New()
	r.created++
	r.bookings = append(r.bookings, *booking)
	return nil
}

func (r *fakeBookingRepo) FindByID(ctx context.Context, db *gorm.DB, id uuid.UUID) (*entity.Booking, error) {
	for i := range r.bookings {
		if r.bookings[i].ID == id {
			b := r.bookings[i]
			return &b, nil
		}
	}
	return nil, nil
}

func (r *fakeBookingRepo) FindByPatientID(ctx context.Context, db *gorm.DB, patientID uuid.UUID) ([]entity.Booking, error) {
	var out []entity.Booking
	for _, b := range r.bookings {
		if b.PatientID == patientID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *fakeBookingRepo) FindActiveStarts(ctx context.Context, db *gorm.DB, scheduleID int, from, to time.Time) ([]time.Time, error) {
	var out []time.Time
	for _, b := range r.bookings {
		if b.ScheduleID == scheduleID && b.IsActive && !b.PreferredDateTime.Before(from) && b.PreferredDateTime.Before(to) {
			out = append(out, b.PreferredDateTime)
		}
	}
	return out, nil
}

func (r *fakeBookingRepo) CancelBooking(ctx context.Context, db *gorm.DB, id uuid.UUID) (int64, error) {
	for i := range r.bookings {
		if r.bookings[i].ID == id && r.bookings[i].IsActive {
			r.bookings[i].IsActive = false
			return 1, nil
		}
	}
	return 0, nil
}

type fakeDoctorRepo struct {
	profiles map[uuid.UUID]*entity.DoctorProfile
}

func newFakeDoctorRepo(ids ...uuid.UUID) *fakeDoctorRepo {
	r := &fakeDoctorRepo{profiles: map[uuid.UUID]*entity.DoctorProfile{}}
	for _, id := range ids {
		r.profiles[id] = &entity.DoctorProfile{UserID: id, STRNumber: "STR-" + id.String()[:4], Specialization: "General"}
	}
	return r
}

func (r *fakeDoctorRepo) Create(ctx context.Context, db *gorm.DB, profile *entity.DoctorProfile) error {
	r.profiles[profile.UserID] = profile
	return nil
}

func (r *fakeDoctorRepo) FindByUserID(ctx context.Context, db *gorm.DB, userID uuid.UUID) (*entity.DoctorProfile, error) {
	p, ok := r.profiles[userID]
	if !ok {
		return nil, nil
	}
	return p, nil
}

func (r *fakeDoctorRepo) FindAll(ctx context.Context, db *gorm.DB, filter *entity.DoctorFilter) ([]entity.DoctorProfile, error) {
	var out []entity.DoctorProfile
	for _, p := range r.profiles {
		if filter.Specialization == "" || p.Specialization == filter.Specialization {
			out = append(out, *p)
		}
	}
	return out, nil
}

type fakePatientProfileRepo struct {
	profiles map[uuid.UUID]*entity.PatientProfile
}

func newFakePatientProfileRepo(ids ...uuid.UUID) *fakePatientProfileRepo {
	r := &fakePatientProfileRepo{profiles: map[uuid.UUID]*entity.PatientProfile{}}
	for _, id := range ids {
		r.profiles[id] = &entity.PatientProfile{UserID: id, NIK: "3201010101010001", Gender: entity.GenderFemale}
	}
	return r
}

func (r *fakePatientProfileRepo) Create(ctx context.Context, db *gorm.DB, profile *entity.PatientProfile) error {
	r.profiles[profile.UserID] = profile
	return nil
}

func (r *fakePatientProfileRepo) FindByUserID(ctx context.Context, db *gorm.DB, userID uuid.UUID) (*entity.PatientProfile, error) {
	return r.profiles[userID], nil
}

type fakeAuditService struct {
	actions []string
}

func (s *fakeAuditService) LogCreate(ctx context.Context, tx *gorm.DB, userID *uuid.UUID, action, entityName, entityID string, newValue interface{}) error {
	s.actions = append(s.actions, action)
	return nil
}

func (s *fakeAuditService) LogUpdate(ctx context.Context, tx *gorm.DB, userID *uuid.UUID, action, entityName, entityID string, oldValue, newValue interface{}) error {
	s.actions = append(s.actions, action)
	return nil
}

func (s *fakeAuditService) LogDelete(ctx context.Context, tx *gorm.DB, userID *uuid.UUID, action, entityName, entityID string, oldValue interface{}) error {
	s.actions = append(s.actions, action)
	return nil
}

// fakeSlotCache never stores anything; it counts loads and invalidations.
type fakeSlotCache struct {
	mu          sync.Mutex
	loads       int
	invalidated []int
}

func (c *fakeSlotCache) GetOrLoad(ctx context.Context, scheduleID int, date time.Time, load service.SlotLoader) ([]availability.Slot, error) {
	c.mu.Lock()
	c.loads++
	c.mu.Unlock()
	return load(ctx)
}

func (c *fakeSlotCache) Invalidate(ctx context.Context, scheduleID int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.invalidated = append(c.invalidated, scheduleID)
	return nil
}

type fakeSlotLocker struct {
	err      error
	acquired int
	released int
}

func (l *fakeSlotLocker) Acquire(ctx context.Context, scheduleID int, start time.Time) (func(), error) {
	if l.err != nil {
		return nil, l.err
	}
	l.acquired++
	return func() { l.released++ }, nil
}
