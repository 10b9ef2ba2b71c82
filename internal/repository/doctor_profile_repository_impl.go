package repository

import (
	"context"
	"errors"

	"go-medical-scheduling/internal/domain/entity"
	domainRepo "go-medical-scheduling/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type doctorProfileRepository struct{}

func NewDoctorProfileRepository() domainRepo.DoctorProfileRepository {
	return &doctorProfileRepository{}
}

func (r *doctorProfileRepository) Create(ctx context.Context, db *gorm.DB, profile *entity.DoctorProfile) error {
	return db.WithContext(ctx).Omit("User").Create(profile).Error
}

// FindByUserID loads the profile with its account and schedules, newest range first.
func (r *doctorProfileRepository) FindByUserID(ctx context.Context, db *gorm.DB, doctorID uuid.UUID) (*entity.DoctorProfile, error) {
	var profile entity.DoctorProfile
	err := db.WithContext(ctx).
		Preload("User").
		Preload("Schedules", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("start_date DESC")
		}).
		Where("user_id = ?", doctorID).
		First(&profile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &profile, nil
}

func (r *doctorProfileRepository) FindAll(ctx context.Context, db *gorm.DB, filter *entity.DoctorFilter) ([]entity.DoctorProfile, error) {
	var profiles []entity.DoctorProfile
	query := db.WithContext(ctx).
		Select("doctor_profiles.*").
		Preload("User").
		Joins("JOIN users ON users.id = doctor_profiles.user_id").
		Where("users.is_active = ?", true)

	if filter != nil {
		if filter.Specialization != "" {
			query = query.Where("doctor_profiles.specialization ILIKE ?", "%"+filter.Specialization+"%")
		}
		if filter.AvailableOn != nil {
			query = query.Where(
				"EXISTS (SELECT 1 FROM schedules s WHERE s.doctor_id = doctor_profiles.user_id AND s.start_date <= ? AND s.end_date >= ?)",
				*filter.AvailableOn, *filter.AvailableOn,
			)
		}
	}

	err := query.Order("doctor_profiles.specialization ASC, users.full_name ASC").Find(&profiles).Error
	if err != nil {
		return nil, err
	}
	return profiles, nil
}
