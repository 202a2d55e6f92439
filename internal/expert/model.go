package expert

import (
	"net/http"
	"time"

	"github.com/nekogravitycat/consult-booking-backend/internal/pkg/apperror"
)

var (
	ErrNotFound     = apperror.New(http.StatusNotFound, "expert not found")
	ErrEmptyName    = apperror.New(http.StatusBadRequest, "name cannot be empty")
	ErrInvalidUser  = apperror.New(http.StatusBadRequest, "invalid user_id")
	ErrUserAssigned = apperror.New(http.StatusConflict, "user is already linked to an expert")
)

// Expert is a compliance professional offering consultations.
type Expert struct {
	ID        string
	UserID    *string // account the expert logs in with, if any
	Name      string
	Specialty string
	IsActive  bool
	CreatedAt time.Time
}

// ManagedBy reports whether userID is the expert's own account.
func (e *Expert) ManagedBy(userID string) bool {
	return e.UserID != nil && userID != "" && *e.UserID == userID
}

// Filter defines parameters for listing experts.
type Filter struct {
	Specialty  string
	ActiveOnly bool
	Page       int
	PageSize   int
}
