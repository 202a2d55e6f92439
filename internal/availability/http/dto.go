package http

import (
	"time"

	"github.com/nekogravitycat/consult-booking-backend/internal/availability"
)

type RuleResponse struct {
	ID           string    `json:"id"`
	ExpertID     string    `json:"expert_id"`
	DayOfWeek    int       `json:"day_of_week"`
	StartTime    string    `json:"start_time"`
	EndTime      string    `json:"end_time"`
	SlotDuration int       `json:"slot_duration"`
	BufferTime   int       `json:"buffer_time"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func NewResponse(r *availability.Rule) RuleResponse {
	return RuleResponse{
		ID:           r.ID,
		ExpertID:     r.ExpertID,
		DayOfWeek:    r.DayOfWeek,
		StartTime:    r.StartTime,
		EndTime:      r.EndTime,
		SlotDuration: r.SlotDuration,
		BufferTime:   r.BufferTime,
		IsActive:     r.IsActive,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}

type ListRulesRequest struct {
	ActiveOnly bool `form:"active_only"`
}

// DayOfWeek is a pointer so that Sunday (0) passes the required check.
type CreateRequest struct {
	DayOfWeek    *int   `json:"day_of_week" binding:"required"`
	StartTime    string `json:"start_time" binding:"required"`
	EndTime      string `json:"end_time" binding:"required"`
	SlotDuration int    `json:"slot_duration" binding:"required"`
	BufferTime   int    `json:"buffer_time"`
	IsActive     *bool  `json:"is_active"`
}

type UpdateRequest struct {
	DayOfWeek    *int    `json:"day_of_week"`
	StartTime    *string `json:"start_time"`
	EndTime      *string `json:"end_time"`
	SlotDuration *int    `json:"slot_duration"`
	BufferTime   *int    `json:"buffer_time"`
	IsActive     *bool   `json:"is_active"`
}
