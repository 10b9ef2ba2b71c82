package entity

import (
	"time"

	"github.com/google/uuid"
)

// DoctorProfile is the bookable side of a doctor account
type DoctorProfile struct {
	UserID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"user_id"`
	STRNumber      string    `gorm:"column:str_number;type:varchar(50);uniqueIndex;not null" json:"str_number"`
	Specialization string    `gorm:"type:varchar(100);not null;index" json:"specialization"`
	Biography      string    `gorm:"type:text" json:"biography,omitempty"`

	// Relationships
	User      User       `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Schedules []Schedule `gorm:"foreignKey:DoctorID" json:"schedules,omitempty"`
}

func (DoctorProfile) TableName() string {
	return "doctor_profiles"
}

// DoctorFilter narrows the public doctor directory.
type DoctorFilter struct {
	Specialization string
	AvailableOn    *time.Time // at least one schedule covers this date
}
