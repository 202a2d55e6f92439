package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nekogravitycat/consult-booking-backend/internal/auth"
	"github.com/nekogravitycat/consult-booking-backend/internal/user"
)

// UserLookup is the part of user.Service the guards need.
type UserLookup interface {
	GetByID(ctx context.Context, id string) (*user.User, error)
}

// RequireSystemAdmin ensures the authenticated user is an active system admin.
// It MUST be used after auth.AuthRequired middleware.
func RequireSystemAdmin(users UserLookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := auth.GetUserID(c)
		if userID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		u, err := users.GetByID(c.Request.Context(), userID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
			return
		}

		if !u.IsActive || !u.IsSystemAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden: system admin access required"})
			return
		}

		c.Next()
	}
}
