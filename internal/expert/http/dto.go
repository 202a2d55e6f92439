package http

import (
	"time"

	"github.com/nekogravitycat/consult-booking-backend/internal/expert"
	"github.com/nekogravitycat/consult-booking-backend/internal/pkg/request"
)

type ExpertResponse struct {
	ID        string    `json:"id"`
	UserID    *string   `json:"user_id,omitempty"`
	Name      string    `json:"name"`
	Specialty string    `json:"specialty"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

func NewResponse(e *expert.Expert) ExpertResponse {
	return ExpertResponse{
		ID:        e.ID,
		UserID:    e.UserID,
		Name:      e.Name,
		Specialty: e.Specialty,
		IsActive:  e.IsActive,
		CreatedAt: e.CreatedAt,
	}
}

type ListExpertsRequest struct {
	request.ListParams
	Specialty       string `form:"specialty"`
	IncludeInactive bool   `form:"include_inactive"`
}

type CreateRequest struct {
	UserID    *string `json:"user_id" binding:"omitempty,uuid"`
	Name      string  `json:"name" binding:"required"`
	Specialty string  `json:"specialty"`
}

// UpdateRequest: user_id "" unlinks the account.
type UpdateRequest struct {
	UserID    *string `json:"user_id" binding:"omitempty"`
	Name      *string `json:"name"`
	Specialty *string `json:"specialty"`
	IsActive  *bool   `json:"is_active"`
}
