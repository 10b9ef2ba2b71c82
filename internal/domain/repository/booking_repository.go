package repository

import (
	"context"
	"time"

	"go-medical-scheduling/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BookingRepository interface {
	Create(ctx context.Context, db *gorm.DB, booking *entity.Booking) error
	FindByID(ctx context.Context, db *gorm.DB, id uuid.UUID) (*entity.Booking, error)
	FindByPatientID(ctx context.Context, db *gorm.DB, patientID uuid.UUID) ([]entity.Booking, error)
	// FindActiveStarts returns the preferred date times of active bookings in [from, to).
	FindActiveStarts(ctx context.Context, db *gorm.DB, scheduleID int, from, to time.Time) ([]time.Time, error)
	CancelBooking(ctx context.Context, db *gorm.DB, id uuid.UUID) (int64, error)
}
