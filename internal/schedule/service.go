package schedule

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/nekogravitycat/consult-booking-backend/internal/availability"
	"github.com/nekogravitycat/consult-booking-backend/internal/blockeddate"
	"github.com/nekogravitycat/consult-booking-backend/internal/expert"
	"github.com/nekogravitycat/consult-booking-backend/internal/pkg/apperror"
	"github.com/nekogravitycat/consult-booking-backend/internal/slot"
)

const MaxRangeDays = 62

var (
	ErrExpertInactive = apperror.New(http.StatusNotFound, "expert is not accepting bookings")
	ErrInvalidDays    = apperror.New(http.StatusBadRequest, fmt.Sprintf("days must be between 1 and %d", MaxRangeDays))
)

// CalendarBookings is satisfied by booking.Repository.
type CalendarBookings interface {
	ListForCalendar(ctx context.Context, expertID, from, to string) ([]slot.Booking, error)
}

type Service interface {
	DaySlots(ctx context.Context, expertID string, date time.Time) ([]slot.TimeSlot, error)
	RangeSlots(ctx context.Context, expertID string, start time.Time, days int) ([]slot.DaySlots, error)
	NextAvailable(ctx context.Context, expertID string, maxDays int) (*slot.TimeSlot, error)
	CheckSlot(ctx context.Context, expertID string, date time.Time, startTime string) (bool, error)
	// LookupSlot returns the slot starting at startTime, or nil if the day has none.
	LookupSlot(ctx context.Context, expertID string, date time.Time, startTime string) (*slot.TimeSlot, error)
	Today() time.Time
}

type service struct {
	engine       *slot.Engine
	experts      expert.Service
	rules        availability.Service
	blocked      blockeddate.Service
	bookings     CalendarBookings
	maxDaysAhead int
	log          *zap.Logger
}

func NewService(
	engine *slot.Engine,
	experts expert.Service,
	rules availability.Service,
	blocked blockeddate.Service,
	bookings CalendarBookings,
	maxDaysAhead int,
	log *zap.Logger,
) Service {
	if maxDaysAhead <= 0 {
		maxDaysAhead = slot.DefaultMaxDaysAhead
	}
	return &service{
		engine:       engine,
		experts:      experts,
		rules:        rules,
		blocked:      blocked,
		bookings:     bookings,
		maxDaysAhead: maxDaysAhead,
		log:          log,
	}
}

func (s *service) Today() time.Time { return s.engine.Today() }

func (s *service) DaySlots(ctx context.Context, expertID string, date time.Time) ([]slot.TimeSlot, error) {
	cal, err := s.loadCalendar(ctx, expertID, date, date)
	if err != nil {
		return nil, err
	}
	slots, err := s.engine.SlotsForDate(date, cal, s.engine.MinAdvance())
	return slots, s.engineError(expertID, err)
}

func (s *service) RangeSlots(ctx context.Context, expertID string, start time.Time, days int) ([]slot.DaySlots, error) {
	if days < 1 || days > MaxRangeDays {
		return nil, ErrInvalidDays
	}
	cal, err := s.loadCalendar(ctx, expertID, start, addDays(start, days-1))
	if err != nil {
		return nil, err
	}
	out, err := s.engine.SlotsForDateRange(start, days, cal, s.engine.MinAdvance())
	return out, s.engineError(expertID, err)
}

func (s *service) NextAvailable(ctx context.Context, expertID string, maxDays int) (*slot.TimeSlot, error) {
	if maxDays <= 0 {
		maxDays = s.maxDaysAhead
	}
	if maxDays > MaxRangeDays {
		return nil, ErrInvalidDays
	}
	today := s.engine.Today()
	cal, err := s.loadCalendar(ctx, expertID, today, addDays(today, maxDays-1))
	if err != nil {
		return nil, err
	}
	next, err := s.engine.NextAvailableSlot(cal, maxDays)
	return next, s.engineError(expertID, err)
}

func (s *service) CheckSlot(ctx context.Context, expertID string, date time.Time, startTime string) (bool, error) {
	cal, err := s.loadCalendar(ctx, expertID, date, date)
	if err != nil {
		return false, err
	}
	ok, err := s.engine.IsSlotAvailable(date, startTime, cal)
	return ok, s.engineError(expertID, err)
}

func (s *service) LookupSlot(ctx context.Context, expertID string, date time.Time, startTime string) (*slot.TimeSlot, error) {
	cal, err := s.loadCalendar(ctx, expertID, date, date)
	if err != nil {
		return nil, err
	}
	ts, found, err := s.engine.FindSlot(date, startTime, cal)
	if err != nil {
		return nil, s.engineError(expertID, err)
	}
	if !found {
		return nil, nil
	}
	return &ts, nil
}

// loadCalendar gathers the engine input for the inclusive day window [from, to].
func (s *service) loadCalendar(ctx context.Context, expertID string, from, to time.Time) (slot.Calendar, error) {
	e, err := s.experts.GetByID(ctx, expertID)
	if err != nil {
		return slot.Calendar{}, err
	}
	if !e.IsActive {
		return slot.Calendar{}, ErrExpertInactive
	}

	fromISO, toISO := slot.FormatDate(from), slot.FormatDate(to)

	rules, err := s.rules.ListByExpert(ctx, expertID, true)
	if err != nil {
		return slot.Calendar{}, fmt.Errorf("load availability rules: %w", err)
	}
	blocked, err := s.blocked.ListByExpert(ctx, expertID, blockeddate.Filter{From: fromISO, To: toISO})
	if err != nil {
		return slot.Calendar{}, fmt.Errorf("load blocked dates: %w", err)
	}
	bookings, err := s.bookings.ListForCalendar(ctx, expertID, fromISO, toISO)
	if err != nil {
		return slot.Calendar{}, fmt.Errorf("load bookings: %w", err)
	}

	return slot.Calendar{
		Rules:        availability.ToSlotRules(rules),
		BlockedDates: blockeddate.Dates(blocked),
		Bookings:     bookings,
	}, nil
}

// engineError flags malformed stored calendar data. Request input is
// validated before it reaches the engine, so this is a data defect.
func (s *service) engineError(expertID string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, slot.ErrInputFormat) {
		s.log.Error("malformed calendar data", zap.String("expert_id", expertID), zap.Error(err))
	}
	return fmt.Errorf("generate slots for expert %s: %w", expertID, err)
}

func addDays(day time.Time, n int) time.Time {
	y, m, d := day.Date()
	return time.Date(y, m, d+n, 0, 0, 0, 0, day.Location())
}
