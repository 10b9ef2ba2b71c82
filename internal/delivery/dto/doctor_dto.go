package dto

import (
	"github.com/google/uuid"
)

// DoctorProfileResponse is the doctor part of a UserResponse
type DoctorProfileResponse struct {
	STRNumber      string `json:"str_number"`
	Specialization string `json:"specialization"`
	Biography      string `json:"biography,omitempty"`
}

// DoctorScheduleSummary lists a schedule on the doctor's directory page.
type DoctorScheduleSummary struct {
	ID                  int    `json:"id"`
	StartDate           string `json:"start_date"`
	EndDate             string `json:"end_date"`
	SlotDurationMinutes int    `json:"slot_duration_minutes,omitempty"`
	RecurrenceRule      string `json:"recurrence_rule"`
}

type DoctorResponse struct {
	ID             uuid.UUID               `json:"id"`
	FullName       string                  `json:"full_name"`
	Specialization string                  `json:"specialization"`
	Biography      string                  `json:"biography,omitempty"`
	Schedules      []DoctorScheduleSummary `json:"schedules,omitempty"`
}

type DoctorListResponse struct {
	Doctors []DoctorResponse `json:"doctors"`
	Total   int              `json:"total"`
}

// DoctorQuery holds the directory filters from the query string.
type DoctorQuery struct {
	Specialization string `validate:"omitempty,max=100"`
	AvailableOn    string `validate:"omitempty,date"`
}
