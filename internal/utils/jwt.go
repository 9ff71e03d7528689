package utils

import (
	"errors" // Error values
	"time"   // Time for token expiration

	"github.com/Neeraj-1996/mlmbackend/internal/config" // Token secrets and lifetimes
	"github.com/Neeraj-1996/mlmbackend/internal/domain" // User model

	"github.com/golang-jwt/jwt/v5" // JWT library
	"github.com/google/uuid"       // Token IDs
)

// ErrInvalidToken is returned for any token that fails verification
var ErrInvalidToken = errors.New("invalid or expired token")

// AccessClaims is the payload of a short-lived access token
type AccessClaims struct {
	UserID               uint   `json:"id"`       // User ID
	Email                string `json:"email"`    // User email
	Username             string `json:"username"` // Username
	FullName             string `json:"fullName"` // Display name
	jwt.RegisteredClaims        // Standard JWT claims
}

// RefreshClaims is the payload of a long-lived refresh token
type RefreshClaims struct {
	UserID               uint `json:"id"` // User ID
	jwt.RegisteredClaims      // Standard JWT claims
}

// TokenPair is what a successful login or refresh hands out
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

func registered(ttl time.Duration) jwt.RegisteredClaims {
	now := time.Now()
	return jwt.RegisteredClaims{
		ID:        uuid.NewString(),                 // Unique per token so rotation always changes the value
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)), // Expiry
		IssuedAt:  jwt.NewNumericDate(now),          // Issued at current time
	}
}

// GenerateAccessToken signs an access token for user
func GenerateAccessToken(user *domain.User, cfg config.TokenConfig) (string, error) {
	claims := AccessClaims{
		UserID:           user.ID,
		Email:            user.Email,
		Username:         user.Username,
		FullName:         user.FullName,
		RegisteredClaims: registered(cfg.AccessTTL),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims) // Create token with claims
	return token.SignedString([]byte(cfg.AccessSecret))        // Sign the token with the access secret
}

// GenerateRefreshToken signs a refresh token for user
func GenerateRefreshToken(user *domain.User, cfg config.TokenConfig) (string, error) {
	claims := RefreshClaims{
		UserID:           user.ID,
		RegisteredClaims: registered(cfg.RefreshTTL),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(cfg.RefreshSecret))
}

// GenerateTokenPair issues both tokens for user
func GenerateTokenPair(user *domain.User, cfg config.TokenConfig) (TokenPair, error) {
	access, err := GenerateAccessToken(user, cfg)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, err := GenerateRefreshToken(user, cfg)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// ParseAccessToken verifies signature and expiry of an access token
func ParseAccessToken(tokenStr string, cfg config.TokenConfig) (*AccessClaims, error) {
	claims := &AccessClaims{}
	if err := parse(tokenStr, cfg.AccessSecret, claims); err != nil {
		return nil, err
	}
	return claims, nil
}

// ParseRefreshToken verifies signature and expiry of a refresh token
func ParseRefreshToken(tokenStr string, cfg config.TokenConfig) (*RefreshClaims, error) {
	claims := &RefreshClaims{}
	if err := parse(tokenStr, cfg.RefreshSecret, claims); err != nil {
		return nil, err
	}
	return claims, nil
}

func parse(tokenStr, secret string, claims jwt.Claims) error {
	if tokenStr == "" {
		return ErrInvalidToken
	}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (any, error) {
		return []byte(secret), nil // Return the secret key for validation
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	// Check for parsing errors
	if err != nil || !token.Valid {
		return ErrInvalidToken
	}
	return nil
}
