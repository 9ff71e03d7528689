package store

import (
	"context"

	"github.com/Neeraj-1996/mlmbackend/internal/domain"

	"gorm.io/gorm"
)

// WithdrawalStore reads and writes withdrawal requests
type WithdrawalStore struct {
	db *gorm.DB
}

// NewWithdrawalStore creates a WithdrawalStore
func NewWithdrawalStore(db *gorm.DB) *WithdrawalStore {
	return &WithdrawalStore{db: db}
}

// Create inserts req
func (s *WithdrawalStore) Create(ctx context.Context, req *domain.WithdrawalRequest) error {
	return translate(s.db.WithContext(ctx).Create(req).Error)
}

// FindByID loads a request by primary key
func (s *WithdrawalStore) FindByID(ctx context.Context, id uint) (*domain.WithdrawalRequest, error) {
	var req domain.WithdrawalRequest
	if err := s.db.WithContext(ctx).First(&req, id).Error; err != nil {
		return nil, translate(err)
	}
	return &req, nil
}

// ListByUser returns the requests of one user, newest first
func (s *WithdrawalStore) ListByUser(ctx context.Context, userID uint) ([]domain.WithdrawalRequest, error) {
	reqs := []domain.WithdrawalRequest{}
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("date_time desc, id desc").
		Find(&reqs).Error
	return reqs, err
}

// ListAll returns every request, newest first. A non-empty status filters by state.
func (s *WithdrawalStore) ListAll(ctx context.Context, status domain.WithdrawalStatus) ([]domain.WithdrawalRequest, error) {
	reqs := []domain.WithdrawalRequest{}
	q := s.db.WithContext(ctx).Order("date_time desc, id desc")
	if status != "" {
		q = q.Where("status = ?", string(status))
	}
	err := q.Find(&reqs).Error
	return reqs, err
}

// CountByStatus returns the number of requests in status
func (s *WithdrawalStore) CountByStatus(ctx context.Context, status domain.WithdrawalStatus) (int64, error) {
	var total int64
	err := s.db.WithContext(ctx).Model(&domain.WithdrawalRequest{}).Where("status = ?", string(status)).Count(&total).Error
	return total, err
}

// Transition moves a pending request to status. When debit is set, the request amount is
// taken from the owner's balance in the same transaction.
func (s *WithdrawalStore) Transition(ctx context.Context, id uint, status domain.WithdrawalStatus, debit bool) (*domain.WithdrawalRequest, error) {
	var out domain.WithdrawalRequest
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&out, id).Error; err != nil {
			return translate(err)
		}
		if out.Status != domain.StatusPending {
			return ErrNotPending
		}
		// Only one concurrent transition can match the pending row
		res := tx.Model(&domain.WithdrawalRequest{}).
			Where("id = ? AND status = ?", id, string(domain.StatusPending)).
			Update("status", string(status))
		if res.Error != nil {
			return res.Error // Return error to rollback
		}
		if res.RowsAffected == 0 {
			return ErrNotPending
		}
		if debit {
			res = tx.Model(&domain.User{}).
				Where("id = ? AND currency >= ?", out.UserID, out.Amount).
				Update("currency", gorm.Expr("currency - ?", out.Amount))
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return ErrInsufficientFunds
			}
		}
		out.Status = status
		return nil // Commit transaction
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// DeletePending removes a pending request owned by userID
func (s *WithdrawalStore) DeletePending(ctx context.Context, id, userID uint) error {
	res := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ? AND status = ?", id, userID, string(domain.StatusPending)).
		Delete(&domain.WithdrawalRequest{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		return nil
	}
	req, err := s.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if req.UserID != userID {
		return ErrNotFound
	}
	return ErrNotPending
}
