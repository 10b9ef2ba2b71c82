package entity

import (
	"time"

	"github.com/google/uuid"
)

// Schedule is a doctor's recurring working pattern over a date range
type Schedule struct {
	ID                  int       `gorm:"primaryKey;autoIncrement" json:"id"`
	DoctorID            uuid.UUID `gorm:"type:uuid;not null;index" json:"doctor_id"`
	StartDate           time.Time `gorm:"type:date;not null" json:"start_date"`
	EndDate             time.Time `gorm:"type:date;not null" json:"end_date"`
	SlotDurationMinutes int       `gorm:"not null;default:0" json:"slot_duration_minutes"`
	RecurrenceRule      string    `gorm:"type:text;not null" json:"recurrence_rule"`
	CreatedAt           time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt           time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Doctor         DoctorProfile  `gorm:"foreignKey:DoctorID;references:UserID" json:"doctor,omitempty"`
	Availabilities []Availability `gorm:"foreignKey:ScheduleID" json:"availabilities,omitempty"`
}

func (Schedule) TableName() string {
	return "schedules"
}

// IsOwnedBy reports whether the doctor with the given user ID owns the schedule
func (s *Schedule) IsOwnedBy(doctorID uuid.UUID) bool {
	return s.DoctorID == doctorID
}

// ScheduleFilter is a domain-level filter for querying schedules.
// Used by repository layer to avoid coupling with delivery DTOs.
type ScheduleFilter struct {
	DoctorID       *uuid.UUID
	ActiveOn       *time.Time // schedules whose range contains this date
	Specialization string     // ILIKE on the doctor's specialization
}
