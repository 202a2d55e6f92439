package expert

import (
	"context"
	"strings"
)

type CreateRequest struct {
	UserID    *string
	Name      string
	Specialty string
}

// UpdateRequest uses pointers so absent fields stay unchanged.
type UpdateRequest struct {
	UserID    *string
	Name      *string
	Specialty *string
	IsActive  *bool
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Expert, error)
	GetByID(ctx context.Context, id string) (*Expert, error)
	List(ctx context.Context, filter Filter) ([]*Expert, int, error)
	Update(ctx context.Context, id string, req UpdateRequest) (*Expert, error)
	Delete(ctx context.Context, id string) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*Expert, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, ErrEmptyName
	}

	e := &Expert{
		UserID:    req.UserID,
		Name:      name,
		Specialty: strings.TrimSpace(req.Specialty),
		IsActive:  true,
	}
	if err := s.repo.Create(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*Expert, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context, filter Filter) ([]*Expert, int, error) {
	return s.repo.List(ctx, filter)
}

func (s *service) Update(ctx context.Context, id string, req UpdateRequest) (*Expert, error) {
	e, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, ErrEmptyName
		}
		e.Name = name
	}
	if req.Specialty != nil {
		e.Specialty = strings.TrimSpace(*req.Specialty)
	}
	if req.IsActive != nil {
		e.IsActive = *req.IsActive
	}
	if req.UserID != nil {
		// An empty string unlinks the account.
		if *req.UserID == "" {
			e.UserID = nil
		} else {
			uid := *req.UserID
			e.UserID = &uid
		}
	}

	if err := s.repo.Update(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}
