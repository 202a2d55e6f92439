package slot

import (
	"iter"
	"strconv"
	"time"
)

// Engine turns weekly availability, blocked dates and existing bookings
// into concrete bookable slots. It holds no mutable state and is safe for
// concurrent use.
type Engine struct {
	clock      Clock
	loc        *time.Location
	minAdvance time.Duration
}

type Option func(*Engine)

// WithLocation sets the expert's local time zone. Defaults to UTC.
func WithLocation(loc *time.Location) Option {
	return func(e *Engine) {
		if loc != nil {
			e.loc = loc
		}
	}
}

// WithMinAdvance sets the lead time used by NextAvailableSlot, FindSlot
// and IsSlotAvailable. Defaults to DefaultMinAdvance.
func WithMinAdvance(d time.Duration) Option {
	return func(e *Engine) {
		if d >= 0 {
			e.minAdvance = d
		}
	}
}

func NewEngine(clock Clock, opts ...Option) *Engine {
	if clock == nil {
		clock = SystemClock()
	}
	e := &Engine{
		clock:      clock,
		loc:        time.UTC,
		minAdvance: DefaultMinAdvance,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) Location() *time.Location { return e.loc }

func (e *Engine) MinAdvance() time.Duration { return e.minAdvance }

// Slots returns the lazy sequence of slots for the calendar day of date.
// Inputs are validated up front so iteration itself never fails. A blocked
// date or a weekday without an active rule yields an empty sequence.
func (e *Engine) Slots(date time.Time, cal Calendar, minAdvance time.Duration) (iter.Seq[TimeSlot], error) {
	day := e.day(date)
	iso := FormatDate(day)

	blocked, err := isBlocked(iso, cal.BlockedDates)
	if err != nil {
		return nil, err
	}
	if blocked {
		return noSlots, nil
	}

	// First active match wins; duplicates are rejected by the availability store.
	rule, ok := selectRule(cal.Rules, day.Weekday())
	if !ok {
		return noSlots, nil
	}

	start, err := ParseClock(rule.StartTime)
	if err != nil {
		return nil, err
	}
	end, err := ParseClock(rule.EndTime)
	if err != nil {
		return nil, err
	}
	if rule.SlotDuration <= 0 {
		return nil, &InputFormatError{Field: "slotDuration", Value: strconv.Itoa(rule.SlotDuration)}
	}
	if rule.BufferTime < 0 {
		return nil, &InputFormatError{Field: "bufferTime", Value: strconv.Itoa(rule.BufferTime)}
	}

	busy, err := bookedIntervals(iso, cal.Bookings)
	if err != nil {
		return nil, err
	}

	cutoff := e.clock.Now().Add(minAdvance)
	duration := rule.SlotDuration
	step := rule.SlotDuration + rule.BufferTime
	y, m, d := day.Date()

	return func(yield func(TimeSlot) bool) {
		// end <= start produces nothing; cross-midnight rules are not supported.
		for cursor := start; cursor+duration <= end; cursor += step {
			slotEnd := cursor + duration
			startsAt := time.Date(y, m, d, 0, cursor, 0, 0, e.loc)

			ts := TimeSlot{
				Date:          iso,
				StartTime:     FormatClock(cursor),
				EndTime:       FormatClock(slotEnd),
				Available:     !startsAt.Before(cutoff) && !overlapsAny(cursor, slotEnd, busy),
				FormattedTime: formatLabel(cursor),
			}
			if !yield(ts) {
				return
			}
		}
	}, nil
}

// SlotsForDate returns every slot of the day, available or not, in
// ascending start order.
func (e *Engine) SlotsForDate(date time.Time, cal Calendar, minAdvance time.Duration) ([]TimeSlot, error) {
	seq, err := e.Slots(date, cal, minAdvance)
	if err != nil {
		return nil, err
	}
	slots := []TimeSlot{}
	for s := range seq {
		slots = append(slots, s)
	}
	return slots, nil
}

// SlotsForDateRange walks numDays days from start. Today and earlier days
// are never offered, and days without an available slot are omitted.
func (e *Engine) SlotsForDateRange(start time.Time, numDays int, cal Calendar, minAdvance time.Duration) ([]DaySlots, error) {
	today := e.Today()
	first := e.day(start)

	days := []DaySlots{}
	for i := 0; i < numDays; i++ {
		day := e.addDays(first, i)
		if !day.After(today) {
			continue
		}

		slots, err := e.SlotsForDate(day, cal, minAdvance)
		if err != nil {
			return nil, err
		}
		if !hasAvailable(slots) {
			continue
		}

		days = append(days, DaySlots{
			Date:          FormatDate(day),
			DayName:       day.Weekday().String(),
			FormattedDate: day.Format("Jan 2"),
			Slots:         slots,
		})
	}
	return days, nil
}

// NextAvailableSlot scans from today (inclusive) for up to maxDaysAhead days
// and returns the first available slot, or nil if there is none.
func (e *Engine) NextAvailableSlot(cal Calendar, maxDaysAhead int) (*TimeSlot, error) {
	if maxDaysAhead <= 0 {
		maxDaysAhead = DefaultMaxDaysAhead
	}

	today := e.Today()
	for i := 0; i < maxDaysAhead; i++ {
		seq, err := e.Slots(e.addDays(today, i), cal, e.minAdvance)
		if err != nil {
			return nil, err
		}
		for s := range seq {
			if s.Available {
				return &s, nil
			}
		}
	}
	return nil, nil
}

// FindSlot returns the generated slot starting exactly at startTime.
// found is false when no slot of the day starts there.
func (e *Engine) FindSlot(date time.Time, startTime string, cal Calendar) (ts TimeSlot, found bool, err error) {
	seq, err := e.Slots(date, cal, e.minAdvance)
	if err != nil {
		return TimeSlot{}, false, err
	}
	for s := range seq {
		if s.StartTime == startTime {
			return s, true, nil
		}
	}
	return TimeSlot{}, false, nil
}

// IsSlotAvailable reports whether the slot starting at startTime is
// bookable. Misaligned start times are simply unavailable.
func (e *Engine) IsSlotAvailable(date time.Time, startTime string, cal Calendar) (bool, error) {
	s, found, err := e.FindSlot(date, startTime, cal)
	if err != nil {
		return false, err
	}
	return found && s.Available, nil
}

// day keeps the calendar day of t and moves it to midnight in the engine zone.
func (e *Engine) day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, e.loc)
}

// Today is the current calendar day in the engine zone.
func (e *Engine) Today() time.Time {
	return e.day(e.clock.Now().In(e.loc))
}

func (e *Engine) addDays(day time.Time, n int) time.Time {
	y, m, d := day.Date()
	return time.Date(y, m, d+n, 0, 0, 0, 0, e.loc)
}

func noSlots(func(TimeSlot) bool) {}

type interval struct {
	start, end int
}

func isBlocked(iso string, blockedDates []string) (bool, error) {
	blocked := false
	for _, b := range blockedDates {
		if _, err := ParseDate(b, time.UTC); err != nil {
			return false, err
		}
		if b == iso {
			blocked = true
		}
	}
	return blocked, nil
}

func selectRule(rules []AvailabilityRule, wd time.Weekday) (AvailabilityRule, bool) {
	for _, r := range rules {
		if r.IsActive && r.DayOfWeek == int(wd) {
			return r, true
		}
	}
	return AvailabilityRule{}, false
}

func bookedIntervals(iso string, bookings []Booking) ([]interval, error) {
	var busy []interval
	for _, b := range bookings {
		if b.Date != iso || b.Status == StatusCancelled {
			continue
		}
		s, err := ParseClock(b.StartTime)
		if err != nil {
			return nil, err
		}
		en, err := ParseClock(b.EndTime)
		if err != nil {
			return nil, err
		}
		busy = append(busy, interval{start: s, end: en})
	}
	return busy, nil
}

// overlapsAny uses half-open intervals: [s1,e1) and [s2,e2) overlap iff
// s1 < e2 && s2 < e1.
func overlapsAny(start, end int, busy []interval) bool {
	for _, b := range busy {
		if start < b.end && b.start < end {
			return true
		}
	}
	return false
}

func hasAvailable(slots []TimeSlot) bool {
	for _, s := range slots {
		if s.Available {
			return true
		}
	}
	return false
}
