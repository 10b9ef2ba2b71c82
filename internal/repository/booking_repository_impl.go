package repository

import (
	"context"
	"errors"
	"time"

	"go-medical-scheduling/internal/domain/entity"
	domainRepo "go-medical-scheduling/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type bookingRepository struct{}

func NewBookingRepository() domainRepo.BookingRepository {
	return &bookingRepository{}
}

func (r *bookingRepository) Create(ctx context.Context, db *gorm.DB, booking *entity.Booking) error {
	return db.WithContext(ctx).Omit("Patient", "Schedule").Create(booking).Error
}

func (r *bookingRepository) FindByID(ctx context.Context, db *gorm.DB, id uuid.UUID) (*entity.Booking, error) {
	var booking entity.Booking
	err := db.WithContext(ctx).Preload("Schedule.Doctor.User").Where("id = ?", id).First(&booking).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &booking, nil
}

func (r *bookingRepository) FindByPatientID(ctx context.Context, db *gorm.DB, patientID uuid.UUID) ([]entity.Booking, error) {
	var bookings []entity.Booking
	err := db.WithContext(ctx).Preload("Schedule.Doctor.User").
		Where("patient_id = ?", patientID).
		Order("preferred_date_time DESC").
		Find(&bookings).Error
	if err != nil {
		return nil, err
	}
	return bookings, nil
}

func (r *bookingRepository) FindActiveStarts(ctx context.Context, db *gorm.DB, scheduleID int, from, to time.Time) ([]time.Time, error) {
	var starts []time.Time
	err := db.WithContext(ctx).Model(&entity.Booking{}).
		Where("schedule_id = ? AND is_active = ? AND preferred_date_time >= ? AND preferred_date_time < ?", scheduleID, true, from, to).
		Pluck("preferred_date_time", &starts).Error
	if err != nil {
		return nil, err
	}
	return starts, nil
}

// CancelBooking atomically cancels a booking ONLY if it is still active.
// Returns affected rows: 1 = success, 0 = already cancelled (prevents double-cancel race).
func (r *bookingRepository) CancelBooking(ctx context.Context, db *gorm.DB, id uuid.UUID) (int64, error) {
	result := db.WithContext(ctx).Model(&entity.Booking{}).
		Where("id = ? AND is_active = ?", id, true).
		Update("is_active", false)
	return result.RowsAffected, result.Error
}
