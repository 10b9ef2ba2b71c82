package repository

import (
	"context"
	"errors"

	"go-medical-scheduling/internal/domain/entity"
	domainRepo "go-medical-scheduling/internal/domain/repository"

	"gorm.io/gorm"
)

type scheduleRepository struct{}

func NewScheduleRepository() domainRepo.ScheduleRepository {
	return &scheduleRepository{}
}

func (r *scheduleRepository) Create(ctx context.Context, db *gorm.DB, schedule *entity.Schedule) error {
	return db.WithContext(ctx).Create(schedule).Error
}

func (r *scheduleRepository) FindByID(ctx context.Context, db *gorm.DB, id int) (*entity.Schedule, error) {
	var schedule entity.Schedule
	err := db.WithContext(ctx).Preload("Doctor.User").Where("id = ?", id).First(&schedule).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &schedule, nil
}

func (r *scheduleRepository) FindAll(ctx context.Context, db *gorm.DB, filter *entity.ScheduleFilter) ([]entity.Schedule, error) {
	var schedules []entity.Schedule
	query := db.WithContext(ctx).Preload("Doctor.User")

	if filter != nil {
		if filter.DoctorID != nil {
			query = query.Where("schedules.doctor_id = ?", *filter.DoctorID)
		}
		if filter.ActiveOn != nil {
			query = query.Where("schedules.start_date <= ? AND schedules.end_date >= ?", *filter.ActiveOn, *filter.ActiveOn)
		}
		if filter.Specialization != "" {
			query = query.Joins("JOIN doctor_profiles ON doctor_profiles.user_id = schedules.doctor_id").
				Where("doctor_profiles.specialization ILIKE ?", "%"+filter.Specialization+"%")
		}
	}

	err := query.Order("schedules.start_date ASC, schedules.id ASC").Find(&schedules).Error
	if err != nil {
		return nil, err
	}
	return schedules, nil
}

func (r *scheduleRepository) Update(ctx context.Context, db *gorm.DB, schedule *entity.Schedule) error {
	return db.WithContext(ctx).Model(schedule).Select("start_date", "end_date", "slot_duration_minutes", "recurrence_rule", "updated_at").Updates(schedule).Error
}

func (r *scheduleRepository) Delete(ctx context.Context, db *gorm.DB, id int) (int64, error) {
	result := db.WithContext(ctx).Where("id = ?", id).Delete(&entity.Schedule{})
	return result.RowsAffected, result.Error
}
