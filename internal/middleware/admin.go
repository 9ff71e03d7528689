package middleware

import (
	"context"  // Request context for the lookup
	"errors"   // Error inspection
	"net/http" // HTTP status codes

	"github.com/Neeraj-1996/mlmbackend/internal/apperror" // Generic failure message
	"github.com/Neeraj-1996/mlmbackend/internal/domain"   // Importing domain models
	"github.com/Neeraj-1996/mlmbackend/internal/response" // Response envelope
	"github.com/Neeraj-1996/mlmbackend/internal/store"    // Store errors

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Structured logging
)

// UserFinder loads a user by ID
type UserFinder interface {
	FindByID(ctx context.Context, id uint) (*domain.User, error)
}

// AdminOnlyMiddleware checks the user's role from the database on each request
func AdminOnlyMiddleware(users UserFinder) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := UserID(c) // Get userID from context
		if !exists {
			response.Fail(c, http.StatusUnauthorized, "Unauthorized request")
			return
		}
		user, err := users.FindByID(c.Request.Context(), userID)
		if err != nil && !errors.Is(err, store.ErrNotFound) {
			logrus.WithError(err).WithField("user_id", userID).Error("Admin check failed")
			response.Fail(c, http.StatusInternalServerError, apperror.GenericMessage)
			return
		}
		// Deleted users and non-admins are treated alike
		if err != nil || !user.IsAdmin() {
			logrus.WithField("user_id", userID).Warn("Admin route denied")
			response.Fail(c, http.StatusForbidden, "Admin access required")
			return
		}
		c.Next() // If admin, proceed to the next handler
	}
}
