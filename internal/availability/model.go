package availability

import (
	"net/http"
	"time"

	"github.com/nekogravitycat/consult-booking-backend/internal/pkg/apperror"
	"github.com/nekogravitycat/consult-booking-backend/internal/slot"
)

var (
	ErrNotFound            = apperror.New(http.StatusNotFound, "availability rule not found")
	ErrInvalidDay          = apperror.New(http.StatusBadRequest, "day_of_week must be between 0 (Sunday) and 6 (Saturday)")
	ErrInvalidTime         = apperror.New(http.StatusBadRequest, "times must be zero-padded HH:MM")
	ErrInvalidRange        = apperror.New(http.StatusBadRequest, "start_time must be before end_time")
	ErrInvalidDuration     = apperror.New(http.StatusBadRequest, "slot_duration must be positive")
	ErrInvalidBuffer       = apperror.New(http.StatusBadRequest, "buffer_time cannot be negative")
	ErrDuplicateActiveRule = apperror.New(http.StatusConflict, "an active rule already exists for this weekday")
)

// Rule is one weekly window during which an expert accepts consultations.
type Rule struct {
	ID           string
	ExpertID     string
	DayOfWeek    int // 0 = Sunday
	StartTime    string
	EndTime      string
	SlotDuration int // minutes
	BufferTime   int // minutes
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (r *Rule) ToSlot() slot.AvailabilityRule {
	return slot.AvailabilityRule{
		DayOfWeek:    r.DayOfWeek,
		StartTime:    r.StartTime,
		EndTime:      r.EndTime,
		SlotDuration: r.SlotDuration,
		BufferTime:   r.BufferTime,
		IsActive:     r.IsActive,
	}
}

// ToSlotRules keeps the slice order, which decides rule precedence.
func ToSlotRules(rules []*Rule) []slot.AvailabilityRule {
	out := make([]slot.AvailabilityRule, len(rules))
	for i, r := range rules {
		out[i] = r.ToSlot()
	}
	return out
}

// validate checks the rule shape. Overnight windows are rejected.
func (r *Rule) validate() error {
	if r.DayOfWeek < 0 || r.DayOfWeek > 6 {
		return ErrInvalidDay
	}
	start, err := slot.ParseClock(r.StartTime)
	if err != nil || start >= 24*60 {
		return ErrInvalidTime
	}
	end, err := slot.ParseClock(r.EndTime)
	if err != nil {
		return ErrInvalidTime
	}
	if start >= end {
		return ErrInvalidRange
	}
	if r.SlotDuration <= 0 {
		return ErrInvalidDuration
	}
	if r.BufferTime < 0 {
		return ErrInvalidBuffer
	}
	return nil
}
