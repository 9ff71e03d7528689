package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/Neeraj-1996/mlmbackend/internal/apperror"
	"github.com/Neeraj-1996/mlmbackend/internal/domain"
	"github.com/Neeraj-1996/mlmbackend/internal/store"

	"github.com/sirupsen/logrus"
)

// WithdrawalRepository is the withdrawal persistence the ledger needs
type WithdrawalRepository interface {
	Create(ctx context.Context, req *domain.WithdrawalRequest) error
	FindByID(ctx context.Context, id uint) (*domain.WithdrawalRequest, error)
	ListByUser(ctx context.Context, userID uint) ([]domain.WithdrawalRequest, error)
	ListAll(ctx context.Context, status domain.WithdrawalStatus) ([]domain.WithdrawalRequest, error)
	CountByStatus(ctx context.Context, status domain.WithdrawalStatus) (int64, error)
	Transition(ctx context.Context, id uint, status domain.WithdrawalStatus, debit bool) (*domain.WithdrawalRequest, error)
	DeletePending(ctx context.Context, id, userID uint) error
}

// UserFinder loads users by ID
type UserFinder interface {
	FindByID(ctx context.Context, id uint) (*domain.User, error)
}

// SubmitInput is a new withdrawal request
type SubmitInput struct {
	Address     string
	Amount      float64
	FinalAmount float64
}

// WithdrawalService runs the withdrawal request lifecycle
type WithdrawalService struct {
	withdrawals WithdrawalRepository
	users       UserFinder
	now         func() time.Time
}

// NewWithdrawalService creates a WithdrawalService
func NewWithdrawalService(withdrawals WithdrawalRepository, users UserFinder) *WithdrawalService {
	return &WithdrawalService{withdrawals: withdrawals, users: users, now: time.Now}
}

// Submit records a pending request for the user
func (s *WithdrawalService) Submit(ctx context.Context, userID uint, in SubmitInput) (*domain.WithdrawalRequest, error) {
	address := strings.TrimSpace(in.Address)
	switch {
	case address == "":
		return nil, apperror.Validation("address is required")
	case in.Amount <= 0:
		return nil, apperror.Validation("amount must be greater than zero")
	case in.FinalAmount < 0:
		return nil, apperror.Validation("finalAmount cannot be negative")
	case in.FinalAmount > in.Amount:
		return nil, apperror.Validation("finalAmount cannot exceed amount")
	}
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, storeError(err, "User not found")
	}
	if in.Amount > user.Currency {
		return nil, apperror.Validation("Insufficient balance")
	}
	req := &domain.WithdrawalRequest{
		UserID:      user.ID,
		Address:     address,
		Amount:      in.Amount,
		FinalAmount: in.FinalAmount,
		Username:    user.Username,
		Mobile:      user.MobileNo,
		DateTime:    s.now(),
		Status:      domain.StatusPending,
	}
	if err := s.withdrawals.Create(ctx, req); err != nil {
		return nil, storeError(err, "Withdrawal request not found")
	}
	logrus.WithFields(logrus.Fields{
		"withdrawal_id": req.ID,
		"user_id":       userID,
		"amount":        req.Amount,
		"final_amount":  req.FinalAmount,
	}).Info("Withdrawal requested")
	return req, nil
}

// ListForUser returns the user's requests, newest first
func (s *WithdrawalService) ListForUser(ctx context.Context, userID uint) ([]domain.WithdrawalRequest, error) {
	reqs, err := s.withdrawals.ListByUser(ctx, userID)
	if err != nil {
		return nil, apperror.Server("list withdrawals", err)
	}
	return reqs, nil
}

// ListAll returns every request, optionally filtered by status
func (s *WithdrawalService) ListAll(ctx context.Context, status string) ([]domain.WithdrawalRequest, error) {
	filter := domain.WithdrawalStatus(status)
	if status != "" && !filter.Valid() {
		return nil, apperror.Validationf("unknown status %q", status)
	}
	reqs, err := s.withdrawals.ListAll(ctx, filter)
	if err != nil {
		return nil, apperror.Server("list withdrawals", err)
	}
	return reqs, nil
}

// UpdateStatusByUser lets the owner retract a pending request. Rejected is the only target allowed.
func (s *WithdrawalService) UpdateStatusByUser(ctx context.Context, userID, id uint, status string) (*domain.WithdrawalRequest, error) {
	target := domain.WithdrawalStatus(status)
	if target != domain.StatusRejected {
		return nil, apperror.Validationf("Invalid status, users may only set %q", domain.StatusRejected)
	}
	req, err := s.withdrawals.FindByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "Withdrawal request not found")
	}
	if req.UserID != userID {
		return nil, apperror.NotFound("Withdrawal request not found")
	}
	return s.transition(ctx, id, target, "user", userID)
}

// UpdateStatusByAdmin approves or cancels a pending request. Approval debits the owner's balance.
func (s *WithdrawalService) UpdateStatusByAdmin(ctx context.Context, id uint, status string) (*domain.WithdrawalRequest, error) {
	target := domain.WithdrawalStatus(status)
	if target != domain.StatusApproved && target != domain.StatusCancelledByAdmin {
		return nil, apperror.Validationf("Invalid status, expected %q or %q", domain.StatusApproved, domain.StatusCancelledByAdmin)
	}
	return s.transition(ctx, id, target, "admin", 0)
}

func (s *WithdrawalService) transition(ctx context.Context, id uint, target domain.WithdrawalStatus, actor string, actorID uint) (*domain.WithdrawalRequest, error) {
	req, err := s.withdrawals.Transition(ctx, id, target, target == domain.StatusApproved)
	switch {
	case errors.Is(err, store.ErrNotPending):
		return nil, apperror.Validation("Withdrawal request is already finalised")
	case errors.Is(err, store.ErrInsufficientFunds):
		return nil, apperror.Validation("Insufficient balance")
	case err != nil:
		return nil, storeError(err, "Withdrawal request not found")
	}
	logrus.WithFields(logrus.Fields{
		"withdrawal_id": id,
		"status":        target,
		"actor":         actor,
		"actor_id":      actorID,
	}).Info("Withdrawal status updated")
	return req, nil
}

// Delete removes the user's own pending request
func (s *WithdrawalService) Delete(ctx context.Context, userID, id uint) error {
	err := s.withdrawals.DeletePending(ctx, id, userID)
	switch {
	case errors.Is(err, store.ErrNotPending):
		return apperror.Validation("Only pending withdrawal requests can be deleted")
	case err != nil:
		return storeError(err, "Withdrawal request not found")
	}
	logrus.WithFields(logrus.Fields{
		"withdrawal_id": id,
		"user_id":       userID,
	}).Info("Withdrawal request deleted")
	return nil
}
