package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/nekogravitycat/consult-booking-backend/internal/auth"
	"github.com/nekogravitycat/consult-booking-backend/internal/user"
)

type stubUsers map[string]*user.User

func (s stubUsers) GetByID(_ context.Context, id string) (*user.User, error) {
	if u, ok := s[id]; ok {
		return u, nil
	}
	return nil, user.ErrNotFound
}

func TestRequireSystemAdmin(t *testing.T) {
	gin.SetMode(gin.TestMode)
	users := stubUsers{
		"admin":    {ID: "admin", IsActive: true, IsSystemAdmin: true},
		"disabled": {ID: "disabled", IsActive: false, IsSystemAdmin: true},
		"customer": {ID: "customer", IsActive: true},
	}

	r := gin.New()
	r.GET("/admin", func(c *gin.Context) {
		if id := c.GetHeader("X-User"); id != "" {
			auth.SetUser(c, id, "")
		}
		c.Next()
	}, RequireSystemAdmin(users), func(c *gin.Context) { c.Status(http.StatusOK) })

	tests := []struct {
		user string
		want int
	}{
		{"admin", http.StatusOK},
		{"disabled", http.StatusForbidden},
		{"customer", http.StatusForbidden},
		{"ghost", http.StatusUnauthorized},
		{"", http.StatusUnauthorized},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, "/admin", nil)
		if tt.user != "" {
			req.Header.Set("X-User", tt.user)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, tt.want, w.Code, "user %q", tt.user)
	}
}

func TestSplitOrigins(t *testing.T) {
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, splitOrigins(" https://a.example, ,https://b.example "))
	assert.Empty(t, splitOrigins(""))
}
