package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type CreateBookingRequest struct {
	ScheduleID int `json:"schedule_id" validate:"required,min=1"`
	// PreferredDateTime is RFC 3339, or YYYY-MM-DDTHH:MM in the clinic's time zone.
	PreferredDateTime string `json:"preferred_date_time" validate:"required"`
}

// Response DTOs

type BookingResponse struct {
	ID                uuid.UUID         `json:"id"`
	PatientID         uuid.UUID         `json:"patient_id"`
	ScheduleID        int               `json:"schedule_id"`
	BookingCode       string            `json:"booking_code"`
	PreferredDateTime time.Time         `json:"preferred_date_time"`
	IsActive          bool              `json:"is_active"`
	Schedule          *ScheduleResponse `json:"schedule,omitempty"`
	CreatedAt         time.Time         `json:"created_at"`
	UpdatedAt         time.Time         `json:"updated_at"`
}

type BookingListResponse struct {
	Bookings []BookingResponse `json:"bookings"`
	Total    int               `json:"total"`
}

// BookingRejectedResponse is the error body of a refused booking
type BookingRejectedResponse struct {
	Reason string `json:"reason"`
}
