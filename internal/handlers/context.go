package handlers

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/nestbay/api/internal/helpers"
)

// userIDFromContext pulls the authenticated user id the middleware stored on
// the request.
func userIDFromContext(c *gin.Context) (uuid.UUID, error) {
	userClaims, exists := c.Get("user")
	if !exists {
		return uuid.Nil, fmt.Errorf("unauthorized")
	}

	claims, ok := userClaims.(*helpers.EnhancedClaims)
	if !ok {
		return uuid.Nil, fmt.Errorf("invalid user claims")
	}

	userId, err := uuid.Parse(claims.UserID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid user ID in token")
	}

	return userId, nil
}
