package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nekogravitycat/consult-booking-backend/internal/pkg/request"
	"github.com/nekogravitycat/consult-booking-backend/internal/pkg/response"
	"github.com/nekogravitycat/consult-booking-backend/internal/schedule"
	"github.com/nekogravitycat/consult-booking-backend/internal/slot"
)

const defaultRangeDays = 7

type Handler struct {
	service schedule.Service
}

func NewHandler(service schedule.Service) *Handler {
	return &Handler{service: service}
}

// parseDate reads a yyyy-MM-dd query value; only its calendar day matters.
func parseDate(c *gin.Context, value string) (time.Time, bool) {
	d, err := slot.ParseDate(value, time.UTC)
	if err != nil {
		response.BadRequest(c, "date must be formatted as yyyy-MM-dd", err)
		return time.Time{}, false
	}
	return d, true
}

// Day handles GET /experts/:id/slots?date=.
func (h *Handler) Day(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid id", err)
		return
	}
	var q DayQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, "invalid query parameters", err)
		return
	}
	date, ok := parseDate(c, q.Date)
	if !ok {
		return
	}

	slots, err := h.service.DaySlots(c.Request.Context(), uri.ID, date)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, DaySlotsResponse{
		Date:  slot.FormatDate(date),
		Slots: newSlotResponses(slots),
	})
}

// Range handles GET /experts/:id/slots/range?start=&days=.
func (h *Handler) Range(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid id", err)
		return
	}
	var q RangeQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, "invalid query parameters", err)
		return
	}

	start := h.service.Today()
	if q.Start != "" {
		var ok bool
		if start, ok = parseDate(c, q.Start); !ok {
			return
		}
	}
	days := q.Days
	if c.Query("days") == "" {
		days = defaultRangeDays
	}

	out, err := h.service.RangeSlots(c.Request.Context(), uri.ID, start, days)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, NewRangeResponse(out))
}

// Next handles GET /experts/:id/slots/next?max_days=.
func (h *Handler) Next(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid id", err)
		return
	}
	var q NextQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, "invalid query parameters", err)
		return
	}

	next, err := h.service.NextAvailable(c.Request.Context(), uri.ID, q.MaxDays)
	if err != nil {
		response.Error(c, err)
		return
	}

	var resp NextResponse
	if next != nil {
		s := NewSlotResponse(*next)
		resp.Slot = &s
	}
	c.JSON(http.StatusOK, resp)
}

// Check handles GET /experts/:id/slots/check?date=&start_time=.
func (h *Handler) Check(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid id", err)
		return
	}
	var q CheckQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, "invalid query parameters", err)
		return
	}
	date, ok := parseDate(c, q.Date)
	if !ok {
		return
	}
	if _, err := slot.ParseClock(q.StartTime); err != nil {
		response.BadRequest(c, "start_time must be formatted as HH:MM", err)
		return
	}

	available, err := h.service.CheckSlot(c.Request.Context(), uri.ID, date, q.StartTime)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, CheckResponse{
		Date:      slot.FormatDate(date),
		StartTime: q.StartTime,
		Available: available,
	})
}
