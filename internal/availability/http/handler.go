package http

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nekogravitycat/consult-booking-backend/internal/auth"
	"github.com/nekogravitycat/consult-booking-backend/internal/availability"
	"github.com/nekogravitycat/consult-booking-backend/internal/expert"
	"github.com/nekogravitycat/consult-booking-backend/internal/pkg/request"
	"github.com/nekogravitycat/consult-booking-backend/internal/pkg/response"
	"github.com/nekogravitycat/consult-booking-backend/internal/user"
)

// UserLookup is the part of user.Service the handler needs.
type UserLookup interface {
	GetByID(ctx context.Context, id string) (*user.User, error)
}

type Handler struct {
	service       availability.Service
	expertService expert.Service
	users         UserLookup
}

func NewHandler(service availability.Service, expertService expert.Service, users UserLookup) *Handler {
	return &Handler{
		service:       service,
		expertService: expertService,
		users:         users,
	}
}

// checkPermission allows system admins and the expert's own account.
func (h *Handler) checkPermission(c *gin.Context, expertID string) bool {
	userID := auth.GetUserID(c)
	if userID == "" {
		return false
	}

	ctx := c.Request.Context()
	u, err := h.users.GetByID(ctx, userID)
	if err != nil {
		return false
	}
	if u.IsSystemAdmin {
		return true
	}

	e, err := h.expertService.GetByID(ctx, expertID)
	if err != nil {
		return false
	}
	return e.ManagedBy(userID)
}

func (h *Handler) forbidden(c *gin.Context) {
	c.JSON(http.StatusForbidden, gin.H{"error": "forbidden: only admins or the expert can manage availability"})
}

// List handles GET /experts/:id/availability.
func (h *Handler) List(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid id", err)
		return
	}
	var q ListRulesRequest
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, "invalid query parameters", err)
		return
	}

	if _, err := h.expertService.GetByID(c.Request.Context(), uri.ID); err != nil {
		response.Error(c, err)
		return
	}

	rules, err := h.service.ListByExpert(c.Request.Context(), uri.ID, q.ActiveOnly)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]RuleResponse, len(rules))
	for i, r := range rules {
		items[i] = NewResponse(r)
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

// Create handles POST /experts/:id/availability.
func (h *Handler) Create(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid id", err)
		return
	}
	var body CreateRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "invalid request body", err)
		return
	}

	if !h.checkPermission(c, uri.ID) {
		h.forbidden(c)
		return
	}

	rule, err := h.service.Create(c.Request.Context(), uri.ID, availability.CreateRequest{
		DayOfWeek:    *body.DayOfWeek,
		StartTime:    body.StartTime,
		EndTime:      body.EndTime,
		SlotDuration: body.SlotDuration,
		BufferTime:   body.BufferTime,
		IsActive:     body.IsActive,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, NewResponse(rule))
}

// Update handles PATCH /availability/:id.
func (h *Handler) Update(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid id", err)
		return
	}
	var body UpdateRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "invalid request body", err)
		return
	}

	existing, err := h.service.GetByID(c.Request.Context(), uri.ID)
	if err != nil {
		response.Error(c, err)
		return
	}
	if !h.checkPermission(c, existing.ExpertID) {
		h.forbidden(c)
		return
	}

	rule, err := h.service.Update(c.Request.Context(), uri.ID, availability.UpdateRequest{
		DayOfWeek:    body.DayOfWeek,
		StartTime:    body.StartTime,
		EndTime:      body.EndTime,
		SlotDuration: body.SlotDuration,
		BufferTime:   body.BufferTime,
		IsActive:     body.IsActive,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, NewResponse(rule))
}

// Delete handles DELETE /availability/:id.
func (h *Handler) Delete(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid id", err)
		return
	}

	existing, err := h.service.GetByID(c.Request.Context(), uri.ID)
	if err != nil {
		response.Error(c, err)
		return
	}
	if !h.checkPermission(c, existing.ExpertID) {
		h.forbidden(c)
		return
	}

	if err := h.service.Delete(c.Request.Context(), uri.ID); err != nil {
		response.Error(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
