package api

import (
	"context"  // Loader context
	"net/http" // HTTP status codes
	"strconv"  // Query parsing

	"github.com/Neeraj-1996/mlmbackend/internal/apperror" // Error kinds
	"github.com/Neeraj-1996/mlmbackend/internal/domain"   // Importing domain models
	"github.com/Neeraj-1996/mlmbackend/internal/response" // Response envelope
	"github.com/Neeraj-1996/mlmbackend/internal/service"  // Withdrawal ledger
	"github.com/Neeraj-1996/mlmbackend/internal/utils"    // Cache

	"github.com/gin-gonic/gin" // Gin web framework
)

// WithdrawalRequestBody is a new withdrawal
type WithdrawalRequestBody struct {
	Address     string  `json:"address"`     // Payout address
	Amount      float64 `json:"amount"`      // Amount to withdraw
	FinalAmount float64 `json:"finalAmount"` // Amount after fees
}

// StatusUpdateRequest moves a withdrawal request to a new state
type StatusUpdateRequest struct {
	ID     uint   `json:"id"`     // Withdrawal request ID
	Status string `json:"status"` // Target status
}

// DeleteWithdrawalRequest names the request to delete
type DeleteWithdrawalRequest struct {
	ID uint `json:"id"`
}

// SubmitWithdrawalHandler records a pending withdrawal for the caller
func SubmitWithdrawalHandler(ledger *service.WithdrawalService, cache *utils.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUser(c)
		if !ok {
			return
		}
		var req WithdrawalRequestBody
		if !bindJSON(c, &req) {
			return
		}
		wr, err := ledger.Submit(c.Request.Context(), userID, service.SubmitInput{
			Address:     req.Address,
			Amount:      req.Amount,
			FinalAmount: req.FinalAmount,
		})
		if err != nil {
			respondError(c, err)
			return
		}
		invalidate(c.Request.Context(), cache, keyWithdrawals, keyHome)
		response.OK(c, http.StatusCreated, wr, "Withdrawal request submitted successfully")
	}
}

// GetWithdrawalsHandler lists the caller's own requests
func GetWithdrawalsHandler(ledger *service.WithdrawalService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUser(c)
		if !ok {
			return
		}
		reqs, err := ledger.ListForUser(c.Request.Context(), userID)
		if err != nil {
			respondError(c, err)
			return
		}
		response.OK(c, http.StatusOK, reqs, "Withdrawal requests fetched successfully")
	}
}

// UserWithdrawalStatusHandler lets the owner reject their own pending request
func UserWithdrawalStatusHandler(ledger *service.WithdrawalService, cache *utils.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUser(c)
		if !ok {
			return
		}
		var req StatusUpdateRequest
		if !bindJSON(c, &req) {
			return
		}
		wr, err := ledger.UpdateStatusByUser(c.Request.Context(), userID, req.ID, req.Status)
		if err != nil {
			respondError(c, err)
			return
		}
		invalidate(c.Request.Context(), cache, keyWithdrawals, keyHome)
		response.OK(c, http.StatusOK, wr, "Withdrawal request status updated")
	}
}

// DeleteWithdrawalHandler removes the caller's pending request. The ID comes from ?id= or the body.
func DeleteWithdrawalHandler(ledger *service.WithdrawalService, cache *utils.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUser(c)
		if !ok {
			return
		}
		var req DeleteWithdrawalRequest
		if raw := c.Query("id"); raw != "" {
			id, err := strconv.ParseUint(raw, 10, 64)
			if err != nil {
				respondError(c, apperror.Validation("Invalid id"))
				return
			}
			req.ID = uint(id)
		} else if !bindJSON(c, &req) {
			return
		}
		if req.ID == 0 {
			respondError(c, apperror.Validation("id is required"))
			return
		}
		if err := ledger.Delete(c.Request.Context(), userID, req.ID); err != nil {
			respondError(c, err)
			return
		}
		invalidate(c.Request.Context(), cache, keyWithdrawals, keyHome)
		response.OK(c, http.StatusOK, gin.H{"id": req.ID}, "Withdrawal request deleted")
	}
}

// AdminWithdrawalsHandler lists every request, optionally filtered by ?status=
func AdminWithdrawalsHandler(ledger *service.WithdrawalService, cache *utils.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		status := c.Query("status")
		reqs, err := cached(c, cache, keyWithdrawals+"status="+status, func(ctx context.Context) ([]domain.WithdrawalRequest, error) {
			return ledger.ListAll(ctx, status)
		})
		if err != nil {
			respondError(c, err)
			return
		}
		response.OK(c, http.StatusOK, reqs, "Withdrawal requests fetched successfully")
	}
}

// AdminWithdrawalStatusHandler approves or cancels a pending request
func AdminWithdrawalStatusHandler(ledger *service.WithdrawalService, cache *utils.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req StatusUpdateRequest
		if !bindJSON(c, &req) {
			return
		}
		wr, err := ledger.UpdateStatusByAdmin(c.Request.Context(), req.ID, req.Status)
		if err != nil {
			respondError(c, err)
			return
		}
		// Approval moves the owner's balance too
		invalidate(c.Request.Context(), cache, keyWithdrawals, keyUsers, keyHome)
		response.OK(c, http.StatusOK, wr, "Withdrawal request status updated")
	}
}
