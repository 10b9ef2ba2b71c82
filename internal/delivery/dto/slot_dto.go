package dto

import "time"

// SlotQuery takes either Date or both From and To.
type SlotQuery struct {
	Date string `validate:"omitempty,date"`
	From string `validate:"omitempty,date"`
	To   string `validate:"omitempty,date"`
}

type SlotResponse struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

type SlotListResponse struct {
	ScheduleID          int            `json:"schedule_id"`
	From                string         `json:"from"`
	To                  string         `json:"to"`
	SlotDurationMinutes int            `json:"slot_duration_minutes"`
	Slots               []SlotResponse `json:"slots"`
	Total               int            `json:"total"`
}
