package availability

import (
	"context"

	"github.com/nekogravitycat/consult-booking-backend/internal/expert"
)

type CreateRequest struct {
	DayOfWeek    int
	StartTime    string
	EndTime      string
	SlotDuration int
	BufferTime   int
	IsActive     *bool // defaults to true
}

type UpdateRequest struct {
	DayOfWeek    *int
	StartTime    *string
	EndTime      *string
	SlotDuration *int
	BufferTime   *int
	IsActive     *bool
}

type Service interface {
	Create(ctx context.Context, expertID string, req CreateRequest) (*Rule, error)
	GetByID(ctx context.Context, id string) (*Rule, error)
	ListByExpert(ctx context.Context, expertID string, activeOnly bool) ([]*Rule, error)
	Update(ctx context.Context, id string, req UpdateRequest) (*Rule, error)
	Delete(ctx context.Context, id string) error
}

type service struct {
	repo    Repository
	experts expert.Service
}

func NewService(repo Repository, experts expert.Service) Service {
	return &service{repo: repo, experts: experts}
}

func (s *service) Create(ctx context.Context, expertID string, req CreateRequest) (*Rule, error) {
	if _, err := s.experts.GetByID(ctx, expertID); err != nil {
		return nil, err
	}

	rule := &Rule{
		ExpertID:     expertID,
		DayOfWeek:    req.DayOfWeek,
		StartTime:    req.StartTime,
		EndTime:      req.EndTime,
		SlotDuration: req.SlotDuration,
		BufferTime:   req.BufferTime,
		IsActive:     req.IsActive == nil || *req.IsActive,
	}
	if err := rule.validate(); err != nil {
		return nil, err
	}
	if err := s.ensureSingleActive(ctx, rule); err != nil {
		return nil, err
	}

	// The partial unique index still rejects a concurrent duplicate.
	if err := s.repo.Create(ctx, rule); err != nil {
		return nil, err
	}
	return rule, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*Rule, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) ListByExpert(ctx context.Context, expertID string, activeOnly bool) ([]*Rule, error) {
	return s.repo.ListByExpert(ctx, expertID, activeOnly)
}

func (s *service) Update(ctx context.Context, id string, req UpdateRequest) (*Rule, error) {
	rule, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.DayOfWeek != nil {
		rule.DayOfWeek = *req.DayOfWeek
	}
	if req.StartTime != nil {
		rule.StartTime = *req.StartTime
	}
	if req.EndTime != nil {
		rule.EndTime = *req.EndTime
	}
	if req.SlotDuration != nil {
		rule.SlotDuration = *req.SlotDuration
	}
	if req.BufferTime != nil {
		rule.BufferTime = *req.BufferTime
	}
	if req.IsActive != nil {
		rule.IsActive = *req.IsActive
	}

	if err := rule.validate(); err != nil {
		return nil, err
	}
	if err := s.ensureSingleActive(ctx, rule); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, rule); err != nil {
		return nil, err
	}
	return rule, nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

// ensureSingleActive rejects a second active rule on the same weekday.
func (s *service) ensureSingleActive(ctx context.Context, rule *Rule) error {
	if !rule.IsActive {
		return nil
	}
	existing, err := s.repo.ListByExpert(ctx, rule.ExpertID, true)
	if err != nil {
		return err
	}
	for _, other := range existing {
		if other.ID != rule.ID && other.DayOfWeek == rule.DayOfWeek {
			return ErrDuplicateActiveRule
		}
	}
	return nil
}
