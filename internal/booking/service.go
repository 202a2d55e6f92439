package booking

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/nekogravitycat/consult-booking-backend/internal/expert"
	"github.com/nekogravitycat/consult-booking-backend/internal/slot"
)

type CreateRequest struct {
	UserID    string
	ExpertID  string
	Date      string // yyyy-MM-dd
	StartTime string // HH:MM
	Notes     string
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Booking, error)
	GetByID(ctx context.Context, id string) (*Booking, error)
	// IsParty reports whether userID made the booking or is the expert hosting it.
	IsParty(ctx context.Context, b *Booking, userID string) (bool, error)
	List(ctx context.Context, filter Filter) ([]*Booking, int, error)
	UpdateStatus(ctx context.Context, id string, status Status, updaterUserID string, isSysAdmin bool) (*Booking, error)
	Delete(ctx context.Context, id string) error
	ListForCalendar(ctx context.Context, expertID, from, to string) ([]slot.Booking, error)
}

type service struct {
	repo    Repository
	checker SlotChecker
	experts ExpertLookup
	log     *zap.Logger
}

func NewService(repo Repository, checker SlotChecker, experts ExpertLookup, log *zap.Logger) Service {
	return &service{
		repo:    repo,
		checker: checker,
		experts: experts,
		log:     log,
	}
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*Booking, error) {
	date, err := slot.ParseDate(req.Date, time.UTC)
	if err != nil {
		return nil, ErrInvalidDate
	}
	if _, err := slot.ParseClock(req.StartTime); err != nil {
		return nil, ErrInvalidStartTime
	}

	ts, err := s.checker.LookupSlot(ctx, req.ExpertID, date, req.StartTime)
	if err != nil {
		return nil, err
	}
	if ts == nil || !ts.Available {
		return nil, ErrSlotUnavailable
	}

	b := &Booking{
		ExpertID:  req.ExpertID,
		UserID:    req.UserID,
		Date:      ts.Date,
		StartTime: ts.StartTime,
		EndTime:   ts.EndTime,
		Status:    StatusScheduled,
		Notes:     strings.TrimSpace(req.Notes),
	}

	// Two requests may both pass the check above; the overlap exclusion
	// constraint lets exactly one insert win and the other gets ErrSlotTaken.
	if err := s.repo.Create(ctx, b); err != nil {
		return nil, err
	}

	s.log.Info("booking created",
		zap.String("booking_id", b.ID),
		zap.String("expert_id", b.ExpertID),
		zap.String("date", b.Date),
		zap.String("start_time", b.StartTime),
	)
	return b, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*Booking, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) IsParty(ctx context.Context, b *Booking, userID string) (bool, error) {
	if userID == "" {
		return false, nil
	}
	if b.UserID == userID {
		return true, nil
	}
	e, err := s.experts.GetByID(ctx, b.ExpertID)
	if err != nil {
		if errors.Is(err, expert.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return e.ManagedBy(userID), nil
}

func (s *service) List(ctx context.Context, filter Filter) ([]*Booking, int, error) {
	if filter.DateFrom != "" && filter.DateTo != "" && filter.DateFrom > filter.DateTo {
		return nil, 0, ErrInvalidTimeRange
	}
	return s.repo.List(ctx, filter)
}

func (s *service) UpdateStatus(ctx context.Context, id string, status Status, updaterUserID string, isSysAdmin bool) (*Booking, error) {
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}

	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// Either party may cancel; only admins may set other statuses.
	if !isSysAdmin {
		isParty, err := s.IsParty(ctx, b, updaterUserID)
		if err != nil {
			return nil, err
		}
		if !isParty || status != StatusCancelled {
			return nil, ErrPermissionDenied
		}
	}

	// Cancelled is terminal: its slot may already belong to someone else.
	if b.Status == StatusCancelled {
		return nil, ErrAlreadyCancelled
	}
	if b.Status == StatusCompleted && !isSysAdmin {
		return nil, ErrInvalidTransition
	}
	if b.Status == status {
		return b, nil
	}

	b.Status = status
	if err := s.repo.UpdateStatus(ctx, b); err != nil {
		return nil, err
	}

	s.log.Info("booking status changed",
		zap.String("booking_id", b.ID),
		zap.String("status", string(b.Status)),
		zap.String("by_user", updaterUserID),
		zap.Bool("by_admin", isSysAdmin),
	)
	return b, nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

func (s *service) ListForCalendar(ctx context.Context, expertID, from, to string) ([]slot.Booking, error) {
	return s.repo.ListForCalendar(ctx, expertID, from, to)
}
