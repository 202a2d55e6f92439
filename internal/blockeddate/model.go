package blockeddate

import (
	"net/http"
	"time"

	"github.com/nekogravitycat/consult-booking-backend/internal/pkg/apperror"
)

var (
	ErrNotFound       = apperror.New(http.StatusNotFound, "blocked date not found")
	ErrAlreadyBlocked = apperror.New(http.StatusConflict, "date is already blocked")
	ErrInvalidDate    = apperror.New(http.StatusBadRequest, "dates must be formatted as yyyy-MM-dd")
	ErrInvalidRange   = apperror.New(http.StatusBadRequest, "from must not be after to")
)

// BlockedDate is a whole calendar day on which an expert takes no consultations.
type BlockedDate struct {
	ID        string
	ExpertID  string
	Date      string // yyyy-MM-dd
	Reason    string
	CreatedAt time.Time
}

// Filter restricts a listing to an inclusive date window. Empty bounds are open.
type Filter struct {
	From string
	To   string
}

// Dates returns the bare date strings in input order.
func Dates(items []*BlockedDate) []string {
	out := make([]string, len(items))
	for i, b := range items {
		out[i] = b.Date
	}
	return out
}
