package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nekogravitycat/consult-booking-backend/internal/blockeddate"
	"github.com/nekogravitycat/consult-booking-backend/internal/pkg/request"
	"github.com/nekogravitycat/consult-booking-backend/internal/pkg/response"
)

type Handler struct {
	service blockeddate.Service
}

func NewHandler(service blockeddate.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) List(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid id", err)
		return
	}
	var q ListRequest
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, "invalid query parameters", err)
		return
	}

	items, err := h.service.ListByExpert(c.Request.Context(), uri.ID, blockeddate.Filter{From: q.From, To: q.To})
	if err != nil {
		response.Error(c, err)
		return
	}

	out := make([]BlockedDateResponse, len(items))
	for i, b := range items {
		out[i] = NewResponse(b)
	}
	c.JSON(http.StatusOK, gin.H{"items": out})
}

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

	b, err := h.service.Create(c.Request.Context(), uri.ID, blockeddate.CreateRequest{
		Date:   body.Date,
		Reason: body.Reason,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, NewResponse(b))
}

func (h *Handler) Delete(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid id", err)
		return
	}

	if err := h.service.Delete(c.Request.Context(), uri.ID); err != nil {
		response.Error(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
