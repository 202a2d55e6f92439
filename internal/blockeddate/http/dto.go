package http

import (
	"time"

	"github.com/nekogravitycat/consult-booking-backend/internal/blockeddate"
)

type BlockedDateResponse struct {
	ID        string    `json:"id"`
	ExpertID  string    `json:"expert_id"`
	Date      string    `json:"date"`
	Reason    string    `json:"reason,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func NewResponse(b *blockeddate.BlockedDate) BlockedDateResponse {
	return BlockedDateResponse{
		ID:        b.ID,
		ExpertID:  b.ExpertID,
		Date:      b.Date,
		Reason:    b.Reason,
		CreatedAt: b.CreatedAt,
	}
}

type ListRequest struct {
	From string `form:"from"`
	To   string `form:"to"`
}

type CreateRequest struct {
	Date   string `json:"date" binding:"required"`
	Reason string `json:"reason"`
}
