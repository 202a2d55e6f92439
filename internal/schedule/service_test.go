package schedule

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/nekogravitycat/consult-booking-backend/internal/availability"
	"github.com/nekogravitycat/consult-booking-backend/internal/blockeddate"
	"github.com/nekogravitycat/consult-booking-backend/internal/expert"
	"github.com/nekogravitycat/consult-booking-backend/internal/slot"
)

var monday = time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

func startTimes(slots []slot.TimeSlot) []string {
	out := make([]string, len(slots))
	for i, s := range slots {
		out[i] = s.StartTime
	}
	return out
}

func TestDaySlots(t *testing.T) {
	ctx := context.Background()

	t.Run("bookings mark slots unavailable", func(t *testing.T) {
		f := newFixture()
		f.bookings.byExpert[activeExpert] = []slot.Booking{
			{Date: "2026-03-02", StartTime: "09:45", EndTime: "10:15", Status: "scheduled"},
		}

		slots, err := f.svc.DaySlots(ctx, activeExpert, monday)
		require.NoError(t, err)
		assert.Equal(t, []string{"09:00", "09:45", "10:30", "11:15"}, startTimes(slots))
		assert.True(t, slots[0].Available)
		assert.False(t, slots[1].Available)
		assert.Equal(t, [][2]string{{"2026-03-02", "2026-03-02"}}, f.bookings.windows)
	})

	t.Run("blocked date yields nothing", func(t *testing.T) {
		f := newFixture()
		f.blocked.items = []*blockeddate.BlockedDate{{ExpertID: activeExpert, Date: "2026-03-02"}}

		slots, err := f.svc.DaySlots(ctx, activeExpert, monday)
		require.NoError(t, err)
		assert.Empty(t, slots)
		assert.NotNil(t, slots)
	})

	t.Run("inactive rules are ignored", func(t *testing.T) {
		f := newFixture()
		slots, err := f.svc.DaySlots(ctx, activeExpert, monday.AddDate(0, 0, 1))
		require.NoError(t, err)
		assert.Empty(t, slots)
	})

	t.Run("inactive expert", func(t *testing.T) {
		f := newFixture()
		_, err := f.svc.DaySlots(ctx, inactiveExpert, monday)
		assert.ErrorIs(t, err, ErrExpertInactive)
	})

	t.Run("unknown expert", func(t *testing.T) {
		f := newFixture()
		_, err := f.svc.DaySlots(ctx, "nobody", monday)
		assert.ErrorIs(t, err, expert.ErrNotFound)
	})
}

func TestMalformedStoredDataIsLogged(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	f := newFixture()
	f.bookings.byExpert[activeExpert] = []slot.Booking{
		{Date: "2026-03-02", StartTime: "9:45", EndTime: "10:15", Status: "scheduled"},
	}
	engine := slot.NewEngine(slot.FixedClock(now))
	svc := NewService(engine, fakeExperts{items: map[string]*expert.Expert{
		activeExpert: {ID: activeExpert, IsActive: true},
	}}, f.rules, f.blocked, f.bookings, 30, zap.New(core))

	_, err := svc.DaySlots(context.Background(), activeExpert, monday)
	require.Error(t, err)
	assert.ErrorIs(t, err, slot.ErrInputFormat)
	assert.Equal(t, 1, logs.FilterMessage("malformed calendar data").Len())
}

func TestRangeSlots(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	// Sunday (today) is skipped; Monday and Wednesday have rules.
	days, err := f.svc.RangeSlots(ctx, activeExpert, now, 7)
	require.NoError(t, err)
	require.Len(t, days, 2)
	assert.Equal(t, "2026-03-02", days[0].Date)
	assert.Equal(t, "Monday", days[0].DayName)
	assert.Equal(t, "Mar 2", days[0].FormattedDate)
	assert.Equal(t, "2026-03-04", days[1].Date)
	assert.Equal(t, []string{"14:00"}, startTimes(days[1].Slots))

	assert.Equal(t, [2]string{"2026-03-01", "2026-03-07"}, f.bookings.windows[0])
	assert.Equal(t, blockeddate.Filter{From: "2026-03-01", To: "2026-03-07"}, f.blocked.filters[0])

	_, err = f.svc.RangeSlots(ctx, activeExpert, now, 0)
	assert.ErrorIs(t, err, ErrInvalidDays)
	_, err = f.svc.RangeSlots(ctx, activeExpert, now, MaxRangeDays+1)
	assert.ErrorIs(t, err, ErrInvalidDays)
}

func TestNextAvailable(t *testing.T) {
	ctx := context.Background()

	t.Run("first free slot after lead time", func(t *testing.T) {
		f := newFixture()
		f.bookings.byExpert[activeExpert] = []slot.Booking{
			{Date: "2026-03-02", StartTime: "09:00", EndTime: "09:30", Status: "scheduled"},
		}
		next, err := f.svc.NextAvailable(ctx, activeExpert, 0)
		require.NoError(t, err)
		require.NotNil(t, next)
		assert.Equal(t, "2026-03-02", next.Date)
		assert.Equal(t, "09:45", next.StartTime)
		assert.Equal(t, [2]string{"2026-03-01", "2026-03-30"}, f.bookings.windows[0])
	})

	t.Run("none within horizon", func(t *testing.T) {
		f := newFixture()
		f.rules.rules = []*availability.Rule{}
		next, err := f.svc.NextAvailable(ctx, activeExpert, 5)
		require.NoError(t, err)
		assert.Nil(t, next)
	})

	t.Run("horizon too large", func(t *testing.T) {
		f := newFixture()
		_, err := f.svc.NextAvailable(ctx, activeExpert, MaxRangeDays+1)
		assert.ErrorIs(t, err, ErrInvalidDays)
	})
}

func TestCheckAndLookupSlot(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	f.bookings.byExpert[activeExpert] = []slot.Booking{
		{Date: "2026-03-02", StartTime: "10:30", EndTime: "11:00", Status: "scheduled"},
		{Date: "2026-03-02", StartTime: "11:15", EndTime: "11:45", Status: "cancelled"},
	}

	ok, err := f.svc.CheckSlot(ctx, activeExpert, monday, "09:00")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = f.svc.CheckSlot(ctx, activeExpert, monday, "10:30")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = f.svc.CheckSlot(ctx, activeExpert, monday, "11:15")
	require.NoError(t, err)
	assert.True(t, ok, "cancelled bookings do not block")

	ok, err = f.svc.CheckSlot(ctx, activeExpert, monday, "09:10")
	require.NoError(t, err)
	assert.False(t, ok)

	ts, err := f.svc.LookupSlot(ctx, activeExpert, monday, "09:45")
	require.NoError(t, err)
	require.NotNil(t, ts)
	assert.Equal(t, "10:15", ts.EndTime)
	assert.True(t, ts.Available)

	ts, err = f.svc.LookupSlot(ctx, activeExpert, monday, "09:10")
	require.NoError(t, err)
	assert.Nil(t, ts)

	_, err = f.svc.LookupSlot(ctx, inactiveExpert, monday, "09:00")
	assert.ErrorIs(t, err, ErrExpertInactive)
}
