package dto

// IntervalDTO is a half-open [from, to) time-of-day range in HH:MM
type IntervalDTO struct {
	From string `json:"from" validate:"required,hhmm"`
	To   string `json:"to" validate:"required,hhmm"`
}

// Request DTOs

// UpsertAvailabilityRequest replaces the schedule's hours on one date.
// An empty list marks the date as a day off.
type UpsertAvailabilityRequest struct {
	Intervals []IntervalDTO `json:"intervals" validate:"dive"`
}

// Response DTOs

type AvailabilityResponse struct {
	ID         int           `json:"id"`
	ScheduleID int           `json:"schedule_id"`
	Type       string        `json:"type"`
	Date       string        `json:"date"`
	Intervals  []IntervalDTO `json:"intervals"`
	DayOff     bool          `json:"day_off"`
}

type AvailabilityListResponse struct {
	Availabilities []AvailabilityResponse `json:"availabilities"`
	Total          int                    `json:"total"`
}
