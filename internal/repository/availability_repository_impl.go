package repository

import (
	"context"
	"errors"
	"time"

	"go-medical-scheduling/internal/domain/entity"
	domainRepo "go-medical-scheduling/internal/domain/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type availabilityRepository struct{}

func NewAvailabilityRepository() domainRepo.AvailabilityRepository {
	return &availabilityRepository{}
}

func (r *availabilityRepository) Upsert(ctx context.Context, db *gorm.DB, availability *entity.Availability) error {
	return db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "schedule_id"}, {Name: "date"}},
		DoUpdates: clause.AssignmentColumns([]string{"type", "intervals", "updated_at"}),
	}).Create(availability).Error
}

func (r *availabilityRepository) FindByScheduleID(ctx context.Context, db *gorm.DB, scheduleID int) ([]entity.Availability, error) {
	var availabilities []entity.Availability
	err := db.WithContext(ctx).
		Where("schedule_id = ?", scheduleID).
		Order("date ASC").
		Find(&availabilities).Error
	if err != nil {
		return nil, err
	}
	return availabilities, nil
}

func (r *availabilityRepository) FindByScheduleAndDate(ctx context.Context, db *gorm.DB, scheduleID int, date time.Time) (*entity.Availability, error) {
	var availability entity.Availability
	err := db.WithContext(ctx).
		Where("schedule_id = ? AND date = ?", scheduleID, date.Format(time.DateOnly)).
		First(&availability).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &availability, nil
}

func (r *availabilityRepository) FindByScheduleInRange(ctx context.Context, db *gorm.DB, scheduleID int, from, to time.Time) ([]entity.Availability, error) {
	var availabilities []entity.Availability
	err := db.WithContext(ctx).
		Where("schedule_id = ? AND date BETWEEN ? AND ?", scheduleID, from.Format(time.DateOnly), to.Format(time.DateOnly)).
		Order("date ASC").
		Find(&availabilities).Error
	if err != nil {
		return nil, err
	}
	return availabilities, nil
}

func (r *availabilityRepository) DeleteByScheduleAndDate(ctx context.Context, db *gorm.DB, scheduleID int, date time.Time) (int64, error) {
	result := db.WithContext(ctx).
		Where("schedule_id = ? AND date = ?", scheduleID, date.Format(time.DateOnly)).
		Delete(&entity.Availability{})
	return result.RowsAffected, result.Error
}
