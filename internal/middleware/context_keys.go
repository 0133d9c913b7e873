package middleware

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/hazemq/billpay_backend/internal/core/domain"
)

// userIDKey is the key used to store the authenticated user's ID.
const userIDKey = contextKey("userID")

// userKey is the key used to store the authenticated user.
const userKey = contextKey("user")

// GetUserIDFromContext retrieves the authenticated user ID from the Gin context.
// It returns the user ID and a boolean indicating if it was found.
func GetUserIDFromContext(c *gin.Context) (string, bool) {
	userIDVal := c.Request.Context().Value(userIDKey)
	if userIDVal == nil {
		return "", false
	}
	userID, ok := userIDVal.(string)
	return userID, ok
}

// GetUserFromContext retrieves the authenticated user from the Gin context.
func GetUserFromContext(c *gin.Context) (*domain.User, bool) {
	userVal := c.Request.Context().Value(userKey)
	if userVal == nil {
		return nil, false
	}
	user, ok := userVal.(*domain.User)
	return user, ok
}

func withUser(ctx context.Context, user *domain.User) context.Context {
	ctx = context.WithValue(ctx, userIDKey, user.UserID)
	return context.WithValue(ctx, userKey, user)
}
