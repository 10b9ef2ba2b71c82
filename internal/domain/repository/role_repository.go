package repository

import (
	"context"

	"go-medical-scheduling/internal/domain/entity"

	"gorm.io/gorm"
)

type RoleRepository interface {
	FindByID(ctx context.Context, db *gorm.DB, id int) (*entity.Role, error)
}
