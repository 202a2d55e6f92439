package booking

import (
	"context"
	"net/http"
	"time"

	"github.com/nekogravitycat/consult-booking-backend/internal/expert"
	"github.com/nekogravitycat/consult-booking-backend/internal/pkg/apperror"
	"github.com/nekogravitycat/consult-booking-backend/internal/slot"
)

var (
	ErrNotFound          = apperror.New(http.StatusNotFound, "booking not found")
	ErrSlotUnavailable   = apperror.New(http.StatusConflict, "requested slot is not available")
	ErrSlotTaken         = apperror.New(http.StatusConflict, "slot was booked by someone else")
	ErrInvalidStatus     = apperror.New(http.StatusBadRequest, "invalid booking status")
	ErrInvalidDate       = apperror.New(http.StatusBadRequest, "date must be formatted as yyyy-MM-dd")
	ErrInvalidStartTime  = apperror.New(http.StatusBadRequest, "start_time must be formatted as HH:MM")
	ErrInvalidTimeRange  = apperror.New(http.StatusBadRequest, "date_from must not be after date_to")
	ErrPermissionDenied  = apperror.New(http.StatusForbidden, "permission denied")
	ErrAlreadyCancelled  = apperror.New(http.StatusConflict, "booking is already cancelled")
	ErrInvalidTransition = apperror.New(http.StatusConflict, "booking can no longer be changed")
)

type Status string

const (
	StatusScheduled Status = "scheduled"
	StatusCompleted Status = "completed"
	StatusCancelled Status = slot.StatusCancelled
)

func (s Status) Valid() bool {
	switch s {
	case StatusScheduled, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// Booking is a consultation reserved by a customer in one of an expert's slots.
type Booking struct {
	ID         string
	ExpertID   string
	ExpertName string
	UserID     string
	UserName   string
	Date       string // yyyy-MM-dd, expert local
	StartTime  string // HH:MM
	EndTime    string // HH:MM
	Status     Status
	Notes      string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (b *Booking) ToSlot() slot.Booking {
	return slot.Booking{
		Date:      b.Date,
		StartTime: b.StartTime,
		EndTime:   b.EndTime,
		Status:    string(b.Status),
	}
}

type Filter struct {
	UserID      string
	PartyUserID string // made by this user or hosted by the expert it manages
	ExpertID    string
	Status      string
	DateFrom    string // inclusive, yyyy-MM-dd
	DateTo      string // inclusive, yyyy-MM-dd
	Page        int
	PageSize    int
	SortOrder   string
}

// SlotChecker resolves a requested start time to the generated slot.
// It returns a nil slot when no slot of that day starts at startTime.
type SlotChecker interface {
	LookupSlot(ctx context.Context, expertID string, date time.Time, startTime string) (*slot.TimeSlot, error)
}

// ExpertLookup resolves the expert a booking is held with.
type ExpertLookup interface {
	GetByID(ctx context.Context, id string) (*expert.Expert, error)
}
