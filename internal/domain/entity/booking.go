package entity

import (
	"time"

	"github.com/google/uuid"
)

// Booking reserves one slot of a schedule for a patient.
// At most one active booking may exist per (schedule, preferred date time).
type Booking struct {
	ID                uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	PatientID         uuid.UUID `gorm:"type:uuid;not null;index" json:"patient_id"`
	ScheduleID        int       `gorm:"not null;index" json:"schedule_id"`
	BookingCode       string    `gorm:"type:varchar(50);uniqueIndex;not null" json:"booking_code"`
	PreferredDateTime time.Time `gorm:"type:timestamptz;not null" json:"preferred_date_time"`
	IsActive          bool      `gorm:"not null;default:true;index" json:"is_active"`
	CreatedAt         time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Patient  PatientProfile `gorm:"foreignKey:PatientID" json:"patient,omitempty"`
	Schedule Schedule       `gorm:"foreignKey:ScheduleID" json:"schedule,omitempty"`
}

func (Booking) TableName() string {
	return "bookings"
}

// IsCancelled checks if booking no longer holds its slot
func (b *Booking) IsCancelled() bool {
	return !b.IsActive
}

// Cancel releases the slot
func (b *Booking) Cancel() {
	b.IsActive = false
}
