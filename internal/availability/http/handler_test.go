package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nekogravitycat/consult-booking-backend/internal/auth"
	"github.com/nekogravitycat/consult-booking-backend/internal/availability"
	"github.com/nekogravitycat/consult-booking-backend/internal/expert"
	"github.com/nekogravitycat/consult-booking-backend/internal/user"
)

var (
	adminID    = uuid.NewString()
	expertUser = uuid.NewString()
	otherUser  = uuid.NewString()
	expertID   = uuid.NewString()
)

type stubUsers map[string]*user.User

func (s stubUsers) GetByID(_ context.Context, id string) (*user.User, error) {
	u, ok := s[id]
	if !ok {
		return nil, user.ErrNotFound
	}
	return u, nil
}

type stubExperts struct {
	expert.Service
}

func (stubExperts) GetByID(_ context.Context, id string) (*expert.Expert, error) {
	if id != expertID {
		return nil, expert.ErrNotFound
	}
	return &expert.Expert{ID: expertID, UserID: &expertUser, Name: "Grace", IsActive: true}, nil
}

type stubRules struct {
	rules map[string]*availability.Rule
}

func (s *stubRules) Create(_ context.Context, id string, req availability.CreateRequest) (*availability.Rule, error) {
	r := &availability.Rule{
		ID: uuid.NewString(), ExpertID: id, DayOfWeek: req.DayOfWeek,
		StartTime: req.StartTime, EndTime: req.EndTime, SlotDuration: req.SlotDuration, IsActive: true,
	}
	s.rules[r.ID] = r
	return r, nil
}

func (s *stubRules) GetByID(_ context.Context, id string) (*availability.Rule, error) {
	r, ok := s.rules[id]
	if !ok {
		return nil, availability.ErrNotFound
	}
	return r, nil
}

func (s *stubRules) ListByExpert(_ context.Context, id string, _ bool) ([]*availability.Rule, error) {
	var out []*availability.Rule
	for _, r := range s.rules {
		if r.ExpertID == id {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *stubRules) Update(_ context.Context, id string, req availability.UpdateRequest) (*availability.Rule, error) {
	r := s.rules[id]
	if req.IsActive != nil {
		r.IsActive = *req.IsActive
	}
	return r, nil
}

func (s *stubRules) Delete(_ context.Context, id string) error {
	delete(s.rules, id)
	return nil
}

// fakeAuth trusts the X-User header so tests can switch identities.
func fakeAuth(c *gin.Context) {
	if id := c.GetHeader("X-User"); id != "" {
		auth.SetUser(c, id, "")
		c.Next()
		return
	}
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
}

func newRouter() (*gin.Engine, *stubRules) {
	gin.SetMode(gin.TestMode)
	rules := &stubRules{rules: map[string]*availability.Rule{}}
	users := stubUsers{
		adminID:    {ID: adminID, IsSystemAdmin: true},
		expertUser: {ID: expertUser},
		otherUser:  {ID: otherUser},
	}
	r := gin.New()
	RegisterRoutes(r.Group("/v1"), NewHandler(rules, stubExperts{}, users), fakeAuth)
	return r, rules
}

func call(r http.Handler, method, path, as string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if as != "" {
		req.Header.Set("X-User", as)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCreateRulePermissions(t *testing.T) {
	r, _ := newRouter()
	path := "/v1/experts/" + expertID + "/availability"
	body := map[string]any{"day_of_week": 0, "start_time": "09:00", "end_time": "12:00", "slot_duration": 30}

	assert.Equal(t, http.StatusUnauthorized, call(r, http.MethodPost, path, "", body).Code)
	assert.Equal(t, http.StatusForbidden, call(r, http.MethodPost, path, otherUser, body).Code)
	assert.Equal(t, http.StatusCreated, call(r, http.MethodPost, path, expertUser, body).Code)
	assert.Equal(t, http.StatusCreated, call(r, http.MethodPost, path, adminID, body).Code)

	missingDay := map[string]any{"start_time": "09:00", "end_time": "12:00", "slot_duration": 30}
	assert.Equal(t, http.StatusBadRequest, call(r, http.MethodPost, path, adminID, missingDay).Code)
}

func TestListAndManageRules(t *testing.T) {
	r, rules := newRouter()
	path := "/v1/experts/" + expertID + "/availability"

	w := call(r, http.MethodPost, path, expertUser, map[string]any{
		"day_of_week": 1, "start_time": "09:00", "end_time": "12:00", "slot_duration": 30,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var created RuleResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	w = call(r, http.MethodGet, path, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list struct {
		Items []RuleResponse `json:"items"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Len(t, list.Items, 1)

	assert.Equal(t, http.StatusNotFound, call(r, http.MethodGet, "/v1/experts/"+uuid.NewString()+"/availability", "", nil).Code)

	off := false
	assert.Equal(t, http.StatusForbidden, call(r, http.MethodPatch, "/v1/availability/"+created.ID, otherUser, map[string]any{"is_active": off}).Code)
	assert.Equal(t, http.StatusOK, call(r, http.MethodPatch, "/v1/availability/"+created.ID, expertUser, map[string]any{"is_active": off}).Code)
	assert.False(t, rules.rules[created.ID].IsActive)

	assert.Equal(t, http.StatusNotFound, call(r, http.MethodDelete, "/v1/availability/"+uuid.NewString(), adminID, nil).Code)
	assert.Equal(t, http.StatusNoContent, call(r, http.MethodDelete, "/v1/availability/"+created.ID, adminID, nil).Code)
}
