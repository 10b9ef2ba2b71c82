package repository

import (
	"context"
	"time"

	"go-medical-scheduling/internal/domain/entity"

	"gorm.io/gorm"
)

type AvailabilityRepository interface {
	// Upsert inserts or replaces the override for (ScheduleID, Date).
	Upsert(ctx context.Context, db *gorm.DB, availability *entity.Availability) error
	FindByScheduleID(ctx context.Context, db *gorm.DB, scheduleID int) ([]entity.Availability, error)
	FindByScheduleAndDate(ctx context.Context, db *gorm.DB, scheduleID int, date time.Time) (*entity.Availability, error)
	FindByScheduleInRange(ctx context.Context, db *gorm.DB, scheduleID int, from, to time.Time) ([]entity.Availability, error)
	DeleteByScheduleAndDate(ctx context.Context, db *gorm.DB, scheduleID int, date time.Time) (int64, error)
}
