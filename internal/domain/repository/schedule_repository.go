package repository

import (
	"context"

	"go-medical-scheduling/internal/domain/entity"

	"gorm.io/gorm"
)

type ScheduleRepository interface {
	Create(ctx context.Context, db *gorm.DB, schedule *entity.Schedule) error
	FindByID(ctx context.Context, db *gorm.DB, id int) (*entity.Schedule, error)
	FindAll(ctx context.Context, db *gorm.DB, filter *entity.ScheduleFilter) ([]entity.Schedule, error)
	Update(ctx context.Context, db *gorm.DB, schedule *entity.Schedule) error
	Delete(ctx context.Context, db *gorm.DB, id int) (int64, error)
}
