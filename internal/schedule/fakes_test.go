package schedule

import (
	"context"
	"time"

	"github.com/nekogravitycat/consult-booking-backend/internal/availability"
	"github.com/nekogravitycat/consult-booking-backend/internal/blockeddate"
	"github.com/nekogravitycat/consult-booking-backend/internal/expert"
	"github.com/nekogravitycat/consult-booking-backend/internal/slot"
	"go.uber.org/zap"
)

type fakeExperts struct {
	expert.Service
	items map[string]*expert.Expert
}

func (f fakeExperts) GetByID(_ context.Context, id string) (*expert.Expert, error) {
	e, ok := f.items[id]
	if !ok {
		return nil, expert.ErrNotFound
	}
	return e, nil
}

type fakeRules struct {
	availability.Service
	rules []*availability.Rule
}

func (f fakeRules) ListByExpert(_ context.Context, expertID string, activeOnly bool) ([]*availability.Rule, error) {
	out := []*availability.Rule{}
	for _, r := range f.rules {
		if r.ExpertID == expertID && (!activeOnly || r.IsActive) {
			out = append(out, r)
		}
	}
	return out, nil
}

type fakeBlocked struct {
	blockeddate.Service
	items   []*blockeddate.BlockedDate
	filters []blockeddate.Filter
}

func (f *fakeBlocked) ListByExpert(_ context.Context, expertID string, filter blockeddate.Filter) ([]*blockeddate.BlockedDate, error) {
	f.filters = append(f.filters, filter)
	out := []*blockeddate.BlockedDate{}
	for _, b := range f.items {
		if b.ExpertID == expertID {
			out = append(out, b)
		}
	}
	return out, nil
}

type fakeBookings struct {
	byExpert map[string][]slot.Booking
	windows  [][2]string
}

func (f *fakeBookings) ListForCalendar(_ context.Context, expertID, from, to string) ([]slot.Booking, error) {
	f.windows = append(f.windows, [2]string{from, to})
	return f.byExpert[expertID], nil
}

const (
	activeExpert   = "exp-active"
	inactiveExpert = "exp-inactive"
)

// Sunday 2026-03-01 20:00 UTC.
var now = time.Date(2026, 3, 1, 20, 0, 0, 0, time.UTC)

type fixture struct {
	svc      Service
	rules    *fakeRules
	blocked  *fakeBlocked
	bookings *fakeBookings
}

func newFixture() *fixture {
	rules := &fakeRules{rules: []*availability.Rule{
		{ID: "r1", ExpertID: activeExpert, DayOfWeek: 1, StartTime: "09:00", EndTime: "12:00", SlotDuration: 30, BufferTime: 15, IsActive: true},
		{ID: "r2", ExpertID: activeExpert, DayOfWeek: 3, StartTime: "14:00", EndTime: "15:00", SlotDuration: 60, IsActive: true},
		{ID: "r3", ExpertID: activeExpert, DayOfWeek: 2, StartTime: "09:00", EndTime: "17:00", SlotDuration: 60, IsActive: false},
	}}
	blocked := &fakeBlocked{}
	bookings := &fakeBookings{byExpert: map[string][]slot.Booking{}}
	experts := fakeExperts{items: map[string]*expert.Expert{
		activeExpert:   {ID: activeExpert, Name: "Grace", IsActive: true},
		inactiveExpert: {ID: inactiveExpert, Name: "Ada", IsActive: false},
	}}

	engine := slot.NewEngine(slot.FixedClock(now))
	svc := NewService(engine, experts, rules, blocked, bookings, 30, zap.NewNop())
	return &fixture{svc: svc, rules: rules, blocked: blocked, bookings: bookings}
}
