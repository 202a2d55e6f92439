package slot

import "time"

const (
	// DefaultMinAdvance is the minimum lead time before a slot may be booked.
	DefaultMinAdvance = 2 * time.Hour
	// DefaultMaxDaysAhead bounds the next-available-slot scan.
	DefaultMaxDaysAhead = 30

	StatusCancelled = "cancelled"
)

// AvailabilityRule is a recurring weekly working window for one weekday.
type AvailabilityRule struct {
	DayOfWeek    int    // 0 = Sunday
	StartTime    string // HH:MM
	EndTime      string // HH:MM
	SlotDuration int    // minutes, > 0
	BufferTime   int    // minutes, >= 0
	IsActive     bool
}

// Booking is an existing reservation that may block slots.
// Any status other than "cancelled" blocks.
type Booking struct {
	Date      string // yyyy-MM-dd
	StartTime string // HH:MM
	EndTime   string // HH:MM
	Status    string
}

// Calendar bundles everything the engine reads for one expert.
type Calendar struct {
	Rules        []AvailabilityRule
	BlockedDates []string
	Bookings     []Booking
}

// TimeSlot is one candidate appointment window on a date.
type TimeSlot struct {
	Date          string
	StartTime     string
	EndTime       string
	Available     bool
	FormattedTime string // e.g. "2:30 PM"
}

// DaySlots is one calendar day of slots plus display metadata.
type DaySlots struct {
	Date          string
	DayName       string
	FormattedDate string // e.g. "Jan 2"
	Slots         []TimeSlot
}
