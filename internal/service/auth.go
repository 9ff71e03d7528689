package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/Neeraj-1996/mlmbackend/internal/apperror"
	"github.com/Neeraj-1996/mlmbackend/internal/config"
	"github.com/Neeraj-1996/mlmbackend/internal/domain"
	"github.com/Neeraj-1996/mlmbackend/internal/notify"
	"github.com/Neeraj-1996/mlmbackend/internal/store"
	"github.com/Neeraj-1996/mlmbackend/internal/utils"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// UserRepository is the user persistence the auth flows need
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	FindByID(ctx context.Context, id uint) (*domain.User, error)
	FindByIdentifier(ctx context.Context, identifier string) (*domain.User, error)
	Taken(ctx context.Context, username, email string, exceptID uint) (bool, error)
	SetRefreshToken(ctx context.Context, id uint, token *string) error
	RotateRefreshToken(ctx context.Context, id uint, current, next string) error
	SetOTP(ctx context.Context, id uint, code *string, validity *time.Time) error
	ConsumeOTP(ctx context.Context, id uint, code string) error
	RecordOTPFailure(ctx context.Context, id uint, maxAttempts int) (bool, error)
	UpdateProfile(ctx context.Context, id uint, fullName, email string) error
	SetPassword(ctx context.Context, id uint, hash string) error
	SetAvatar(ctx context.Context, id uint, url string) error
}

// bcrypt only hashes the first 72 bytes and refuses anything longer
const maxPasswordBytes = 72

// RegisterInput is the profile submitted at sign-up
type RegisterInput struct {
	Username string
	Email    string
	FullName string
	MobileNo string
	Password string
}

// Session is returned by login and refresh
type Session struct {
	User *domain.User `json:"user"`
	utils.TokenPair
}

// AuthService issues and revokes sessions
type AuthService struct {
	users  UserRepository
	images ImageUploader
	sender notify.Sender
	tokens config.TokenConfig
	otp    config.OTPConfig
	now    func() time.Time
}

// NewAuthService creates an AuthService
func NewAuthService(users UserRepository, images ImageUploader, sender notify.Sender, tokens config.TokenConfig, otp config.OTPConfig) *AuthService {
	return &AuthService{
		users:  users,
		images: images,
		sender: sender,
		tokens: tokens,
		otp:    otp,
		now:    time.Now,
	}
}

// Register validates the profile, uploads the avatar and creates the user
func (s *AuthService) Register(ctx context.Context, in RegisterInput, avatar *ImageFile) (*domain.User, error) {
	err := required(
		[2]string{"fullName", in.FullName},
		[2]string{"email", in.Email},
		[2]string{"username", in.Username},
		[2]string{"mobileNo", in.MobileNo},
		[2]string{"password", in.Password},
	)
	if err != nil {
		return nil, err
	}
	if err := checkPasswordLength(in.Password); err != nil {
		return nil, err
	}
	username := strings.ToLower(strings.TrimSpace(in.Username))
	email := strings.ToLower(strings.TrimSpace(in.Email))

	taken, err := s.users.Taken(ctx, username, email, 0)
	if err != nil {
		return nil, apperror.Server("check existing user", err)
	}
	if taken {
		return nil, apperror.Conflict("User with email or username already exists")
	}

	url, err := uploadImage(ctx, s.images, avatar, "avatar")
	if err != nil {
		return nil, err
	}
	hash, err := utils.HashPassword(in.Password)
	if err != nil {
		return nil, apperror.Server("hash password", err)
	}
	user := &domain.User{
		Username: username,
		Email:    email,
		FullName: strings.TrimSpace(in.FullName),
		MobileNo: strings.TrimSpace(in.MobileNo),
		Password: hash,
		SharedID: uuid.NewString(),
		Avatar:   url,
		Role:     domain.RoleUser,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, storeError(err, "User not found")
	}
	logrus.WithFields(logrus.Fields{
		"user_id":  user.ID,
		"username": user.Username,
	}).Info("User registered")
	return user, nil
}

// Login checks credentials (and the OTP when required) and issues a token pair
func (s *AuthService) Login(ctx context.Context, identifier, password, otp string) (*Session, error) {
	if strings.TrimSpace(identifier) == "" {
		return nil, apperror.Validation("username or email is required")
	}
	if password == "" {
		return nil, apperror.Validation("password is required")
	}
	user, err := s.users.FindByIdentifier(ctx, identifier)
	if errors.Is(err, store.ErrNotFound) {
		return nil, apperror.Auth("Invalid user credentials")
	}
	if err != nil {
		return nil, apperror.Server("find user", err)
	}
	if !utils.CheckPassword(user.Password, password) {
		logrus.WithField("user_id", user.ID).Warn("Login rejected: bad password")
		return nil, apperror.Auth("Invalid user credentials")
	}
	if s.otp.Required {
		if !user.HasValidOTP(otp, s.now()) {
			logrus.WithField("user_id", user.ID).Warn("Login rejected: bad otp")
			s.recordOTPFailure(ctx, user)
			return nil, apperror.Auth("Invalid or expired OTP")
		}
		// Codes are single use; a concurrent login may have consumed it already
		err := s.users.ConsumeOTP(ctx, user.ID, otp)
		if errors.Is(err, store.ErrStale) {
			return nil, apperror.Auth("Invalid or expired OTP")
		}
		if err != nil {
			return nil, apperror.Server("consume otp", err)
		}
		user.OTP, user.OTPValidity, user.OTPAttempts = nil, nil, 0
	}
	session, err := s.issue(ctx, user, nil)
	if err != nil {
		return nil, err
	}
	logrus.WithField("user_id", user.ID).Info("User logged in")
	return session, nil
}

// SendOtp stores a fresh code for the user and delivers it. Returns the expiry.
func (s *AuthService) SendOtp(ctx context.Context, identifier string) (time.Time, error) {
	if strings.TrimSpace(identifier) == "" {
		return time.Time{}, apperror.Validation("username or email is required")
	}
	user, err := s.users.FindByIdentifier(ctx, identifier)
	if err != nil {
		return time.Time{}, storeError(err, "User does not exist")
	}
	code, err := utils.GenerateOTP(s.otp.Digits)
	if err != nil {
		return time.Time{}, apperror.Server("generate otp", err)
	}
	expires := s.now().Add(s.otp.TTL)
	if err := s.users.SetOTP(ctx, user.ID, &code, &expires); err != nil {
		return time.Time{}, storeError(err, "User does not exist")
	}
	if err := s.sender.SendOTP(ctx, user, code, expires); err != nil {
		// Never leave a code behind that the user could not receive
		if clearErr := s.users.SetOTP(ctx, user.ID, nil, nil); clearErr != nil {
			logrus.WithError(clearErr).WithField("user_id", user.ID).Error("Failed to clear undelivered OTP")
		}
		return time.Time{}, apperror.Server("deliver otp", err)
	}
	logrus.WithField("user_id", user.ID).Info("OTP sent")
	return expires, nil
}

// RefreshAccessToken exchanges a valid, current refresh token for a new pair
func (s *AuthService) RefreshAccessToken(ctx context.Context, refreshToken string) (*Session, error) {
	if refreshToken == "" {
		return nil, apperror.Auth("Unauthorized request")
	}
	claims, err := utils.ParseRefreshToken(refreshToken, s.tokens)
	if err != nil {
		return nil, apperror.Auth("Invalid refresh token")
	}
	user, err := s.users.FindByID(ctx, claims.UserID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, apperror.Auth("Invalid refresh token")
	}
	if err != nil {
		return nil, apperror.Server("find user", err)
	}
	if user.RefreshToken == nil || *user.RefreshToken != refreshToken {
		logrus.WithField("user_id", user.ID).Warn("Stale refresh token presented")
		return nil, apperror.Auth("Refresh token is expired or used")
	}
	return s.issue(ctx, user, &refreshToken)
}

// Logout forgets the user's refresh token
func (s *AuthService) Logout(ctx context.Context, userID uint) error {
	if err := s.users.SetRefreshToken(ctx, userID, nil); err != nil {
		return storeError(err, "User not found")
	}
	logrus.WithField("user_id", userID).Info("User logged out")
	return nil
}

// ChangePassword replaces the password after verifying the old one. Existing refresh tokens stop working.
func (s *AuthService) ChangePassword(ctx context.Context, userID uint, oldPassword, newPassword string) error {
	if err := required([2]string{"oldPassword", oldPassword}, [2]string{"newPassword", newPassword}); err != nil {
		return err
	}
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return storeError(err, "User not found")
	}
	if !utils.CheckPassword(user.Password, oldPassword) {
		return apperror.Validation("Invalid old password")
	}
	if err := checkPasswordLength(newPassword); err != nil {
		return err
	}
	hash, err := utils.HashPassword(newPassword)
	if err != nil {
		return apperror.Server("hash password", err)
	}
	if err := s.users.SetPassword(ctx, userID, hash); err != nil {
		return storeError(err, "User not found")
	}
	logrus.WithField("user_id", userID).Info("Password changed")
	return nil
}

// CurrentUser returns the user behind the access token
func (s *AuthService) CurrentUser(ctx context.Context, userID uint) (*domain.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, storeError(err, "User not found")
	}
	return user, nil
}

// UpdateAccount changes full name and email
func (s *AuthService) UpdateAccount(ctx context.Context, userID uint, fullName, email string) (*domain.User, error) {
	if err := required([2]string{"fullName", fullName}, [2]string{"email", email}); err != nil {
		return nil, err
	}
	email = strings.ToLower(strings.TrimSpace(email))
	taken, err := s.users.Taken(ctx, "", email, userID)
	if err != nil {
		return nil, apperror.Server("check email", err)
	}
	if taken {
		return nil, apperror.Conflict("Email is already in use")
	}
	if err := s.users.UpdateProfile(ctx, userID, strings.TrimSpace(fullName), email); err != nil {
		return nil, storeError(err, "User not found")
	}
	return s.CurrentUser(ctx, userID)
}

// UpdateAvatar uploads a new avatar and stores its URL
func (s *AuthService) UpdateAvatar(ctx context.Context, userID uint, avatar *ImageFile) (*domain.User, error) {
	url, err := uploadImage(ctx, s.images, avatar, "avatar")
	if err != nil {
		return nil, err
	}
	if err := s.users.SetAvatar(ctx, userID, url); err != nil {
		return nil, storeError(err, "User not found")
	}
	return s.CurrentUser(ctx, userID)
}

// issue signs a new pair. When previous is set the stored token is only
// replaced if it still equals previous, so a refresh token works once.
func (s *AuthService) issue(ctx context.Context, user *domain.User, previous *string) (*Session, error) {
	pair, err := utils.GenerateTokenPair(user, s.tokens)
	if err != nil {
		return nil, apperror.Server("sign tokens", err)
	}
	if previous == nil {
		err = s.users.SetRefreshToken(ctx, user.ID, &pair.RefreshToken)
	} else {
		err = s.users.RotateRefreshToken(ctx, user.ID, *previous, pair.RefreshToken)
	}
	if errors.Is(err, store.ErrStale) {
		logrus.WithField("user_id", user.ID).Warn("Refresh token rotated concurrently")
		return nil, apperror.Auth("Refresh token is expired or used")
	}
	if err != nil {
		return nil, storeError(err, "User not found")
	}
	user.RefreshToken = &pair.RefreshToken
	return &Session{User: user, TokenPair: pair}, nil
}

// recordOTPFailure counts a wrong code against the pending one. Errors are only logged.
func (s *AuthService) recordOTPFailure(ctx context.Context, user *domain.User) {
	if user.OTP == nil {
		return
	}
	burned, err := s.users.RecordOTPFailure(ctx, user.ID, s.otp.MaxAttempts)
	if err != nil {
		logrus.WithError(err).WithField("user_id", user.ID).Error("Failed to record OTP attempt")
		return
	}
	if burned {
		logrus.WithField("user_id", user.ID).Warn("OTP burned after too many wrong codes")
	}
}

func checkPasswordLength(password string) error {
	if len(password) > maxPasswordBytes {
		return apperror.Validation("password must be at most 72 bytes")
	}
	return nil
}
