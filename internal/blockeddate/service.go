package blockeddate

import (
	"context"
	"strings"
	"time"

	"github.com/nekogravitycat/consult-booking-backend/internal/expert"
	"github.com/nekogravitycat/consult-booking-backend/internal/slot"
)

type CreateRequest struct {
	Date   string
	Reason string
}

type Service interface {
	Create(ctx context.Context, expertID string, req CreateRequest) (*BlockedDate, error)
	ListByExpert(ctx context.Context, expertID string, filter Filter) ([]*BlockedDate, error)
	Delete(ctx context.Context, id string) error
}

type service struct {
	repo    Repository
	experts expert.Service
}

func NewService(repo Repository, experts expert.Service) Service {
	return &service{repo: repo, experts: experts}
}

func (s *service) Create(ctx context.Context, expertID string, req CreateRequest) (*BlockedDate, error) {
	if _, err := slot.ParseDate(req.Date, time.UTC); err != nil {
		return nil, ErrInvalidDate
	}
	if _, err := s.experts.GetByID(ctx, expertID); err != nil {
		return nil, err
	}

	b := &BlockedDate{
		ExpertID: expertID,
		Date:     req.Date,
		Reason:   strings.TrimSpace(req.Reason),
	}
	// Duplicates surface from the unique constraint as ErrAlreadyBlocked.
	if err := s.repo.Create(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

func (s *service) ListByExpert(ctx context.Context, expertID string, filter Filter) ([]*BlockedDate, error) {
	var from, to time.Time
	var err error
	if filter.From != "" {
		if from, err = slot.ParseDate(filter.From, time.UTC); err != nil {
			return nil, ErrInvalidDate
		}
	}
	if filter.To != "" {
		if to, err = slot.ParseDate(filter.To, time.UTC); err != nil {
			return nil, ErrInvalidDate
		}
	}
	if filter.From != "" && filter.To != "" && from.After(to) {
		return nil, ErrInvalidRange
	}
	return s.repo.ListByExpert(ctx, expertID, filter)
}

func (s *service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}
