package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

// RecurrenceInput is the structured alternative to a recurrence rule string.
type RecurrenceInput struct {
	Weekdays []string `json:"weekdays" validate:"required,min=1,dive,weekday"`
	From     string   `json:"from" validate:"required,hhmm"`
	To       string   `json:"to" validate:"required,hhmm"`
}

type CreateScheduleRequest struct {
	// DoctorID is only honoured for admins; doctors always create their own schedules.
	DoctorID            *uuid.UUID       `json:"doctor_id" validate:"omitempty"`
	StartDate           string           `json:"start_date" validate:"required,date"`
	EndDate             string           `json:"end_date" validate:"required,date"`
	SlotDurationMinutes int              `json:"slot_duration_minutes" validate:"gte=0,lte=480"`
	RecurrenceRule      string           `json:"recurrence_rule" validate:"required_without=Recurrence"`
	Recurrence          *RecurrenceInput `json:"recurrence" validate:"omitempty"`
}

type UpdateScheduleRequest struct {
	StartDate           *string          `json:"start_date" validate:"omitempty,date"`
	EndDate             *string          `json:"end_date" validate:"omitempty,date"`
	SlotDurationMinutes *int             `json:"slot_duration_minutes" validate:"omitempty,gte=0,lte=480"`
	RecurrenceRule      *string          `json:"recurrence_rule" validate:"omitempty"`
	Recurrence          *RecurrenceInput `json:"recurrence" validate:"omitempty"`
}

// Response DTOs

type RecurrenceResponse struct {
	Weekdays []string `json:"weekdays"`
	From     string   `json:"from"`
	To       string   `json:"to"`
}

type ScheduleResponse struct {
	ID                  int                 `json:"id"`
	DoctorID            uuid.UUID           `json:"doctor_id"`
	StartDate           string              `json:"start_date"`
	EndDate             string              `json:"end_date"`
	SlotDurationMinutes int                 `json:"slot_duration_minutes"`
	RecurrenceRule      string              `json:"recurrence_rule"`
	Recurrence          *RecurrenceResponse `json:"recurrence,omitempty"`
	Doctor              *DoctorResponse     `json:"doctor,omitempty"`
	CreatedAt           time.Time           `json:"created_at"`
	UpdatedAt           time.Time           `json:"updated_at"`
}

type ScheduleListResponse struct {
	Schedules []ScheduleResponse `json:"schedules"`
	Total     int                `json:"total"`
}
