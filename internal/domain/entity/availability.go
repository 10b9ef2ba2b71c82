package entity

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// AvailabilityTypeDate is the only override kind: it replaces the recurrence for one date.
const AvailabilityTypeDate = "date"

// Availability overrides a schedule's recurrence on a single date.
// An empty Intervals list marks the date as a day off.
type Availability struct {
	ID         int           `gorm:"primaryKey;autoIncrement" json:"id"`
	ScheduleID int           `gorm:"not null;uniqueIndex:idx_availabilities_schedule_date" json:"schedule_id"`
	Type       string        `gorm:"type:varchar(20);not null;default:'date'" json:"type"`
	Date       time.Time     `gorm:"type:date;not null;uniqueIndex:idx_availabilities_schedule_date" json:"date"`
	Intervals  TimeIntervals `gorm:"type:jsonb;not null;default:'[]'" json:"intervals"`
	CreatedAt  time.Time     `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time     `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Availability) TableName() string {
	return "availabilities"
}

// TimeInterval is a stored {from, to} pair in HH:MM
type TimeInterval struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// TimeIntervals type for GORM JSONB support
type TimeIntervals []TimeInterval

// Value returns json value, implement driver.Valuer interface
func (t TimeIntervals) Value() (driver.Value, error) {
	if t == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(t)
}

// Scan scan value into TimeIntervals, implements sql.Scanner interface
func (t *TimeIntervals) Scan(value interface{}) error {
	if value == nil {
		*t = TimeIntervals{}
		return nil
	}
	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New(fmt.Sprint("Failed to unmarshal JSONB value:", value))
	}

	result := TimeIntervals{}
	err := json.Unmarshal(bytes, &result)
	*t = result
	return err
}
