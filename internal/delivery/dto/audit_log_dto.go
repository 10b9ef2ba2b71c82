package dto

import (
	"time"

	"go-medical-scheduling/internal/domain/entity"
)

// Response DTOs

type AuditLogResponse struct {
	ID        int64         `json:"id"`
	User      *UserResponse `json:"user,omitempty"`
	Action    string        `json:"action"`
	Metadata  entity.JSON   `json:"metadata"`
	CreatedAt time.Time     `json:"created_at"`
}

type AuditLogListResponse struct {
	Logs       []AuditLogResponse `json:"logs"`
	Page       int                `json:"-"`
	Limit      int                `json:"-"`
	Total      int64              `json:"-"`
	TotalPages int                `json:"-"`
}

// AuditLogQuery is read from ?action=&page=&limit=.
type AuditLogQuery struct {
	Action string `validate:"omitempty,max=100"`
	Page   int    `validate:"omitempty,min=1"`
	Limit  int    `validate:"omitempty,min=1,max=500"`
}
