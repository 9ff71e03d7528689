package middleware

import (
	"net/http" // HTTP status codes
	"strings"  // String manipulation

	"github.com/Neeraj-1996/mlmbackend/internal/config"   // Token settings
	"github.com/Neeraj-1996/mlmbackend/internal/response" // Response envelope
	"github.com/Neeraj-1996/mlmbackend/internal/utils"    // JWT utility functions

	"github.com/gin-gonic/gin" // Gin web framework
)

// Context keys and cookie names shared with the handlers
const (
	ContextUserID     = "userID"       // uint ID of the authenticated user
	ContextClaims     = "claims"       // *utils.AccessClaims of the request
	AccessTokenCookie = "accessToken"  // Cookie carrying the access token
	RefreshCookie     = "refreshToken" // Cookie carrying the refresh token
)

// JWTAuthMiddleware validates the access token from the Authorization header or cookie
func JWTAuthMiddleware(tokens config.TokenConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr := bearerToken(c) // Header first, then cookie
		if tokenStr == "" {
			response.Fail(c, http.StatusUnauthorized, "Unauthorized request")
			return
		}
		claims, err := utils.ParseAccessToken(tokenStr, tokens) // Parse the JWT token
		if err != nil {
			response.Fail(c, http.StatusUnauthorized, "Invalid or expired access token")
			return
		}
		c.Set(ContextUserID, claims.UserID) // Store userID in context
		c.Set(ContextClaims, claims)        // Store claims for handlers that need them
		c.Next()                            // Proceed to the next handler
	}
}

func bearerToken(c *gin.Context) string {
	if h := c.GetHeader("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	}
	if cookie, err := c.Cookie(AccessTokenCookie); err == nil {
		return cookie
	}
	return ""
}

// UserID returns the authenticated user's ID
func UserID(c *gin.Context) (uint, bool) {
	v, ok := c.Get(ContextUserID)
	if !ok {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok
}
