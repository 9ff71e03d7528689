package api

import (
	"net/http" // HTTP status codes

	"github.com/Neeraj-1996/mlmbackend/internal/middleware" // Cookie names
	"github.com/Neeraj-1996/mlmbackend/internal/response"   // Response envelope
	"github.com/Neeraj-1996/mlmbackend/internal/service"    // Auth flows
	"github.com/Neeraj-1996/mlmbackend/internal/utils"      // Cache

	"github.com/gin-gonic/gin" // Gin web framework
)

// LoginRequest identifies the user by username or email
type LoginRequest struct {
	Username string `json:"username"` // Username, or
	Email    string `json:"email"`    // email
	Password string `json:"password"` // Plaintext password
	OTP      string `json:"otp"`      // One-time code from /sendOtp
}

// SendOtpRequest names the account the code is sent to
type SendOtpRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

// RefreshRequest carries the refresh token when no cookie is sent
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// ChangePasswordRequest replaces the password
type ChangePasswordRequest struct {
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}

// UpdateAccountRequest changes the profile
type UpdateAccountRequest struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
}

func identifier(username, email string) string {
	if username != "" {
		return username
	}
	return email
}

// RegisterHandler creates a user from a multipart form with an avatar file
func RegisterHandler(auth *service.AuthService, cache *utils.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		avatar, closeFile := formImage(c, "avatar") // Avatar is mandatory, the service checks it
		defer closeFile()
		user, err := auth.Register(c.Request.Context(), service.RegisterInput{
			Username: c.PostForm("username"),
			Email:    c.PostForm("email"),
			FullName: c.PostForm("fullName"),
			MobileNo: c.PostForm("mobileNo"),
			Password: c.PostForm("password"),
		}, avatar)
		if err != nil {
			respondError(c, err)
			return
		}
		invalidate(c.Request.Context(), cache, keyUsers, keyHome)
		response.OK(c, http.StatusCreated, user, "User registered successfully")
	}
}

// LoginHandler issues a token pair and sets the auth cookies
func LoginHandler(auth *service.AuthService, cookies CookieConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest
		if !bindJSON(c, &req) {
			return
		}
		session, err := auth.Login(c.Request.Context(), identifier(req.Username, req.Email), req.Password, req.OTP)
		if err != nil {
			respondError(c, err)
			return
		}
		setAuthCookies(c, cookies, session.AccessToken, session.RefreshToken)
		response.OK(c, http.StatusOK, session, "User logged in successfully")
	}
}

// SendOtpHandler generates and delivers a login code
func SendOtpHandler(auth *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req SendOtpRequest
		if !bindJSON(c, &req) {
			return
		}
		expires, err := auth.SendOtp(c.Request.Context(), identifier(req.Username, req.Email))
		if err != nil {
			respondError(c, err)
			return
		}
		response.OK(c, http.StatusOK, gin.H{"otpValidity": expires}, "OTP sent successfully")
	}
}

// RefreshTokenHandler rotates the token pair using the refresh cookie or body
func RefreshTokenHandler(auth *service.AuthService, cookies CookieConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, _ := c.Cookie(middleware.RefreshCookie)
		if token == "" {
			var req RefreshRequest
			_ = c.ShouldBindJSON(&req) // Body is optional when the cookie is present
			token = req.RefreshToken
		}
		session, err := auth.RefreshAccessToken(c.Request.Context(), token)
		if err != nil {
			respondError(c, err)
			return
		}
		setAuthCookies(c, cookies, session.AccessToken, session.RefreshToken)
		response.OK(c, http.StatusOK, session.TokenPair, "Access token refreshed")
	}
}

// LogoutHandler forgets the refresh token and clears the cookies
func LogoutHandler(auth *service.AuthService, cookies CookieConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUser(c)
		if !ok {
			return
		}
		if err := auth.Logout(c.Request.Context(), userID); err != nil {
			respondError(c, err)
			return
		}
		clearAuthCookies(c, cookies)
		response.OK(c, http.StatusOK, gin.H{}, "User logged out")
	}
}

// ChangePasswordHandler replaces the password after checking the old one
func ChangePasswordHandler(auth *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUser(c)
		if !ok {
			return
		}
		var req ChangePasswordRequest
		if !bindJSON(c, &req) {
			return
		}
		if err := auth.ChangePassword(c.Request.Context(), userID, req.OldPassword, req.NewPassword); err != nil {
			respondError(c, err)
			return
		}
		response.OK(c, http.StatusOK, gin.H{}, "Password changed successfully")
	}
}

// CurrentUserHandler returns the caller's profile
func CurrentUserHandler(auth *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUser(c)
		if !ok {
			return
		}
		user, err := auth.CurrentUser(c.Request.Context(), userID)
		if err != nil {
			respondError(c, err)
			return
		}
		response.OK(c, http.StatusOK, user, "Current user fetched successfully")
	}
}

// UpdateAccountHandler changes full name and email
func UpdateAccountHandler(auth *service.AuthService, cache *utils.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUser(c)
		if !ok {
			return
		}
		var req UpdateAccountRequest
		if !bindJSON(c, &req) {
			return
		}
		user, err := auth.UpdateAccount(c.Request.Context(), userID, req.FullName, req.Email)
		if err != nil {
			respondError(c, err)
			return
		}
		invalidate(c.Request.Context(), cache, keyUsers)
		response.OK(c, http.StatusOK, user, "Account details updated successfully")
	}
}

// UpdateAvatarHandler replaces the avatar from a multipart upload
func UpdateAvatarHandler(auth *service.AuthService, cache *utils.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUser(c)
		if !ok {
			return
		}
		avatar, closeFile := formImage(c, "avatar")
		defer closeFile()
		user, err := auth.UpdateAvatar(c.Request.Context(), userID, avatar)
		if err != nil {
			respondError(c, err)
			return
		}
		invalidate(c.Request.Context(), cache, keyUsers)
		response.OK(c, http.StatusOK, user, "Avatar updated successfully")
	}
}
