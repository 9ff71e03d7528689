package domain

import "time"

// Roles a user can hold
const (
	RoleUser  = "user"  // Regular account
	RoleAdmin = "admin" // Back-office account
)

// User Model
type User struct {
	ID           uint       `gorm:"primaryKey" json:"id"`                                 // Primary key
	Username     string     `gorm:"size:191;uniqueIndex;not null" json:"username"`        // Unique lowercase username
	Email        string     `gorm:"size:191;uniqueIndex;not null" json:"email"`           // Unique lowercase email
	FullName     string     `gorm:"column:full_name;not null" json:"fullName"`            // Display name
	MobileNo     string     `gorm:"column:mobile_no;not null" json:"mobileNo"`            // Contact number
	Password     string     `gorm:"not null" json:"-"`                                    // bcrypt hash, never plaintext
	SharedID     string     `gorm:"column:shared_id;size:64;uniqueIndex" json:"sharedId"` // Referral code shared with other users
	RefreshToken *string    `gorm:"column:refresh_token;type:text" json:"-"`              // Current refresh token, nil when logged out
	Avatar       string     `json:"avatar"`                                               // Avatar URL on the image host
	OTP          *string    `gorm:"column:otp;size:16" json:"-"`                          // Pending one-time code
	OTPValidity  *time.Time `gorm:"column:otp_validity" json:"-"`                         // Expiry of the pending code
	OTPAttempts  int        `gorm:"column:otp_attempts;not null;default:0" json:"-"`      // Failed codes since the last issue
	Currency     float64    `gorm:"not null;default:0" json:"currency"`                   // Withdrawable balance
	Role         string     `gorm:"size:16;not null;default:user" json:"role"`            // Role: user or admin
	CreatedAt    time.Time  `json:"createdAt"`                                            // Creation time
	UpdatedAt    time.Time  `json:"updatedAt"`                                            // Last update time
}

// IsAdmin reports whether the user may use the admin namespace
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// HasValidOTP reports whether code matches the pending OTP and has not expired at now
func (u *User) HasValidOTP(code string, now time.Time) bool {
	if u.OTP == nil || u.OTPValidity == nil || code == "" {
		return false
	}
	return *u.OTP == code && now.Before(*u.OTPValidity)
}
