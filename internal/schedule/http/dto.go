package http

import (
	"github.com/nekogravitycat/consult-booking-backend/internal/slot"
)

type DayQuery struct {
	Date string `form:"date" binding:"required"`
}

type RangeQuery struct {
	Start string `form:"start"`
	Days  int    `form:"days"`
}

type NextQuery struct {
	MaxDays int `form:"max_days" binding:"omitempty,min=1"`
}

type CheckQuery struct {
	Date      string `form:"date" binding:"required"`
	StartTime string `form:"start_time" binding:"required"`
}

type SlotResponse struct {
	Date          string `json:"date"`
	StartTime     string `json:"start_time"`
	EndTime       string `json:"end_time"`
	Available     bool   `json:"available"`
	FormattedTime string `json:"formatted_time"`
}

func NewSlotResponse(s slot.TimeSlot) SlotResponse {
	return SlotResponse{
		Date:          s.Date,
		StartTime:     s.StartTime,
		EndTime:       s.EndTime,
		Available:     s.Available,
		FormattedTime: s.FormattedTime,
	}
}

func newSlotResponses(slots []slot.TimeSlot) []SlotResponse {
	out := make([]SlotResponse, len(slots))
	for i, s := range slots {
		out[i] = NewSlotResponse(s)
	}
	return out
}

type DaySlotsResponse struct {
	Date          string         `json:"date"`
	DayName       string         `json:"day_name,omitempty"`
	FormattedDate string         `json:"formatted_date,omitempty"`
	Slots         []SlotResponse `json:"slots"`
}

type RangeResponse struct {
	Days []DaySlotsResponse `json:"days"`
}

func NewRangeResponse(days []slot.DaySlots) RangeResponse {
	out := make([]DaySlotsResponse, len(days))
	for i, d := range days {
		out[i] = DaySlotsResponse{
			Date:          d.Date,
			DayName:       d.DayName,
			FormattedDate: d.FormattedDate,
			Slots:         newSlotResponses(d.Slots),
		}
	}
	return RangeResponse{Days: out}
}

// NextResponse carries a null slot when nothing is free within the horizon.
type NextResponse struct {
	Slot *SlotResponse `json:"slot"`
}

type CheckResponse struct {
	Date      string `json:"date"`
	StartTime string `json:"start_time"`
	Available bool   `json:"available"`
}
