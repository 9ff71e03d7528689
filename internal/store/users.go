package store

import (
	"context"
	"strings"
	"time"

	"github.com/Neeraj-1996/mlmbackend/internal/domain"

	"gorm.io/gorm"
)

// UserStore reads and writes users
type UserStore struct {
	db *gorm.DB
}

// NewUserStore creates a UserStore
func NewUserStore(db *gorm.DB) *UserStore {
	return &UserStore{db: db}
}

// Create inserts user
func (s *UserStore) Create(ctx context.Context, user *domain.User) error {
	return translate(s.db.WithContext(ctx).Create(user).Error)
}

// FindByID loads a user by primary key
func (s *UserStore) FindByID(ctx context.Context, id uint) (*domain.User, error) {
	var user domain.User
	if err := s.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

// FindByIdentifier loads a user by username or email
func (s *UserStore) FindByIdentifier(ctx context.Context, identifier string) (*domain.User, error) {
	ident := strings.ToLower(strings.TrimSpace(identifier))
	var user domain.User
	err := s.db.WithContext(ctx).
		Where("username = ? OR email = ?", ident, ident).
		First(&user).Error
	if err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

// Taken reports whether username or email is already used by a user other than exceptID
func (s *UserStore) Taken(ctx context.Context, username, email string, exceptID uint) (bool, error) {
	var count int64
	q := s.db.WithContext(ctx).Model(&domain.User{})
	switch {
	case username != "" && email != "":
		q = q.Where("username = ? OR email = ?", username, email)
	case username != "":
		q = q.Where("username = ?", username)
	default:
		q = q.Where("email = ?", email)
	}
	if exceptID != 0 {
		q = q.Where("id <> ?", exceptID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// SetRefreshToken stores token, or clears it when token is nil
func (s *UserStore) SetRefreshToken(ctx context.Context, id uint, token *string) error {
	return s.update(ctx, id, map[string]any{"refresh_token": nullable(token)})
}

// RotateRefreshToken replaces current with next only while current is still the stored token
func (s *UserStore) RotateRefreshToken(ctx context.Context, id uint, current, next string) error {
	res := s.db.WithContext(ctx).Model(&domain.User{}).
		Where("id = ? AND refresh_token = ?", id, current).
		Update("refresh_token", next)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrStale // Someone else rotated or revoked it first
	}
	return nil
}

// SetOTP stores the code and its expiry together, or clears both when code is nil.
// Either way the failed attempt counter starts over.
func (s *UserStore) SetOTP(ctx context.Context, id uint, code *string, validity *time.Time) error {
	if code == nil || validity == nil {
		return s.update(ctx, id, map[string]any{"otp": nil, "otp_validity": nil, "otp_attempts": 0})
	}
	return s.update(ctx, id, map[string]any{"otp": *code, "otp_validity": *validity, "otp_attempts": 0})
}

// ConsumeOTP clears the pending code only while it still equals code
func (s *UserStore) ConsumeOTP(ctx context.Context, id uint, code string) error {
	res := s.db.WithContext(ctx).Model(&domain.User{}).
		Where("id = ? AND otp = ?", id, code).
		Updates(map[string]any{"otp": nil, "otp_validity": nil, "otp_attempts": 0})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrStale
	}
	return nil
}

// RecordOTPFailure counts a wrong code against the pending one and burns it once
// maxAttempts is reached. Reports whether the code was burned.
func (s *UserStore) RecordOTPFailure(ctx context.Context, id uint, maxAttempts int) (bool, error) {
	burned := false
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&domain.User{}).
			Where("id = ? AND otp IS NOT NULL", id).
			Update("otp_attempts", gorm.Expr("otp_attempts + 1"))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil // No pending code to count against
		}
		res = tx.Model(&domain.User{}).
			Where("id = ? AND otp_attempts >= ?", id, maxAttempts).
			Updates(map[string]any{"otp": nil, "otp_validity": nil, "otp_attempts": 0})
		if res.Error != nil {
			return res.Error
		}
		burned = res.RowsAffected > 0
		return nil
	})
	return burned, err
}

// UpdateProfile changes full name and email
func (s *UserStore) UpdateProfile(ctx context.Context, id uint, fullName, email string) error {
	return s.update(ctx, id, map[string]any{"full_name": fullName, "email": email})
}

// SetPassword stores a new password hash and drops the refresh token
func (s *UserStore) SetPassword(ctx context.Context, id uint, hash string) error {
	return s.update(ctx, id, map[string]any{"password": hash, "refresh_token": nil})
}

// SetAvatar stores a new avatar URL
func (s *UserStore) SetAvatar(ctx context.Context, id uint, url string) error {
	return s.update(ctx, id, map[string]any{"avatar": url})
}

func (s *UserStore) update(ctx context.Context, id uint, fields map[string]any) error {
	res := s.db.WithContext(ctx).Model(&domain.User{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		// MySQL reports 0 affected rows when nothing changed, so confirm the row is really gone
		var count int64
		if err := s.db.WithContext(ctx).Model(&domain.User{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return ErrNotFound
		}
	}
	return nil
}

func nullable(v *string) any {
	if v == nil {
		return nil
	}
	return *v
}

// List returns one page of users, newest first, and the total count
func (s *UserStore) List(ctx context.Context, page Page) ([]domain.User, int64, error) {
	var total int64
	if err := s.db.WithContext(ctx).Model(&domain.User{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var users []domain.User
	err := s.db.WithContext(ctx).
		Order("id desc").
		Offset(page.Offset()).
		Limit(page.Size).
		Find(&users).Error
	if err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

// Count returns the number of users
func (s *UserStore) Count(ctx context.Context) (int64, error) {
	var total int64
	err := s.db.WithContext(ctx).Model(&domain.User{}).Count(&total).Error
	return total, err
}
