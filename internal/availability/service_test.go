package availability

import (
	"context"
	"fmt"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nekogravitycat/consult-booking-backend/internal/expert"
)

type memRepo struct {
	rules map[string]*Rule
	seq   int
}

func newMemRepo() *memRepo { return &memRepo{rules: map[string]*Rule{}} }

func (r *memRepo) Create(_ context.Context, rule *Rule) error {
	r.seq++
	rule.ID = fmt.Sprintf("rule-%02d", r.seq)
	cp := *rule
	r.rules[rule.ID] = &cp
	return nil
}

func (r *memRepo) GetByID(_ context.Context, id string) (*Rule, error) {
	rule, ok := r.rules[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *rule
	return &cp, nil
}

func (r *memRepo) ListByExpert(_ context.Context, expertID string, activeOnly bool) ([]*Rule, error) {
	out := []*Rule{}
	for _, rule := range r.rules {
		if rule.ExpertID != expertID || (activeOnly && !rule.IsActive) {
			continue
		}
		cp := *rule
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memRepo) Update(_ context.Context, rule *Rule) error {
	if _, ok := r.rules[rule.ID]; !ok {
		return ErrNotFound
	}
	cp := *rule
	r.rules[rule.ID] = &cp
	return nil
}

func (r *memRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.rules[id]; !ok {
		return ErrNotFound
	}
	delete(r.rules, id)
	return nil
}

type stubExperts struct {
	expert.Service
	known map[string]bool
}

func (s stubExperts) GetByID(_ context.Context, id string) (*expert.Expert, error) {
	if !s.known[id] {
		return nil, expert.ErrNotFound
	}
	return &expert.Expert{ID: id, Name: "Grace", IsActive: true}, nil
}

func newTestService() (Service, *memRepo) {
	repo := newMemRepo()
	return NewService(repo, stubExperts{known: map[string]bool{"exp-1": true}}), repo
}

func mondayRule() CreateRequest {
	return CreateRequest{DayOfWeek: 1, StartTime: "09:00", EndTime: "12:00", SlotDuration: 30, BufferTime: 15}
}

func TestCreateRule(t *testing.T) {
	ctx := context.Background()

	t.Run("valid rule defaults to active", func(t *testing.T) {
		svc, _ := newTestService()
		rule, err := svc.Create(ctx, "exp-1", mondayRule())
		require.NoError(t, err)
		assert.True(t, rule.IsActive)
		assert.Equal(t, "exp-1", rule.ExpertID)
	})

	t.Run("unknown expert", func(t *testing.T) {
		svc, _ := newTestService()
		_, err := svc.Create(ctx, "exp-404", mondayRule())
		assert.ErrorIs(t, err, expert.ErrNotFound)
	})

	tests := []struct {
		name    string
		mutate  func(*CreateRequest)
		wantErr error
	}{
		{"day below range", func(r *CreateRequest) { r.DayOfWeek = -1 }, ErrInvalidDay},
		{"day above range", func(r *CreateRequest) { r.DayOfWeek = 7 }, ErrInvalidDay},
		{"unpadded start", func(r *CreateRequest) { r.StartTime = "9:00" }, ErrInvalidTime},
		{"bad end", func(r *CreateRequest) { r.EndTime = "12:60" }, ErrInvalidTime},
		{"start at 24:00", func(r *CreateRequest) { r.StartTime = "24:00"; r.EndTime = "24:00" }, ErrInvalidTime},
		{"overnight window", func(r *CreateRequest) { r.StartTime = "22:00"; r.EndTime = "02:00" }, ErrInvalidRange},
		{"empty window", func(r *CreateRequest) { r.EndTime = "09:00" }, ErrInvalidRange},
		{"zero duration", func(r *CreateRequest) { r.SlotDuration = 0 }, ErrInvalidDuration},
		{"negative buffer", func(r *CreateRequest) { r.BufferTime = -5 }, ErrInvalidBuffer},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newTestService()
			req := mondayRule()
			tt.mutate(&req)
			_, err := svc.Create(ctx, "exp-1", req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	t.Run("end of day is allowed", func(t *testing.T) {
		svc, _ := newTestService()
		req := mondayRule()
		req.StartTime, req.EndTime = "20:00", "24:00"
		_, err := svc.Create(ctx, "exp-1", req)
		assert.NoError(t, err)
	})
}

func TestSingleActiveRulePerDay(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()

	first, err := svc.Create(ctx, "exp-1", mondayRule())
	require.NoError(t, err)

	_, err = svc.Create(ctx, "exp-1", mondayRule())
	assert.ErrorIs(t, err, ErrDuplicateActiveRule)

	inactive := false
	req := mondayRule()
	req.IsActive = &inactive
	second, err := svc.Create(ctx, "exp-1", req)
	require.NoError(t, err, "inactive duplicates are allowed")

	active := true
	_, err = svc.Update(ctx, second.ID, UpdateRequest{IsActive: &active})
	assert.ErrorIs(t, err, ErrDuplicateActiveRule)

	// Updating the active rule itself does not conflict with itself.
	end := "13:00"
	updated, err := svc.Update(ctx, first.ID, UpdateRequest{EndTime: &end})
	require.NoError(t, err)
	assert.Equal(t, "13:00", updated.EndTime)

	tuesday := 2
	_, err = svc.Update(ctx, second.ID, UpdateRequest{DayOfWeek: &tuesday, IsActive: &active})
	assert.NoError(t, err)
}

func TestListKeepsIDOrderForEngine(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()

	for day := 0; day < 3; day++ {
		req := mondayRule()
		req.DayOfWeek = day
		_, err := svc.Create(ctx, "exp-1", req)
		require.NoError(t, err)
	}

	rules, err := svc.ListByExpert(ctx, "exp-1", true)
	require.NoError(t, err)
	require.Len(t, rules, 3)

	slotRules := ToSlotRules(rules)
	for i, r := range slotRules {
		assert.Equal(t, rules[i].DayOfWeek, r.DayOfWeek)
		assert.Equal(t, 30, r.SlotDuration)
		assert.Equal(t, 15, r.BufferTime)
		assert.True(t, r.IsActive)
	}
}
