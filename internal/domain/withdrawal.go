package domain

import "time"

// WithdrawalStatus is the lifecycle state of a withdrawal request
type WithdrawalStatus string

// Withdrawal request states. Pending is the only non-terminal one.
const (
	StatusPending          WithdrawalStatus = "Pending"
	StatusApproved         WithdrawalStatus = "Approved"
	StatusRejected         WithdrawalStatus = "Rejected"
	StatusCancelledByAdmin WithdrawalStatus = "Cancelled by Admin"
)

// Valid reports whether s is one of the known states
func (s WithdrawalStatus) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected, StatusCancelledByAdmin:
		return true
	}
	return false
}

// Terminal reports whether no further transition is allowed out of s
func (s WithdrawalStatus) Terminal() bool {
	return s.Valid() && s != StatusPending
}

// WithdrawalRequest Model
type WithdrawalRequest struct {
	ID          uint             `gorm:"primaryKey" json:"id"`                                 // Primary key
	UserID      uint             `gorm:"index;not null" json:"userId"`                         // Owner of the request
	Address     string           `gorm:"not null" json:"address"`                              // Payout address
	Amount      float64          `gorm:"not null" json:"amount"`                               // Requested amount
	FinalAmount float64          `gorm:"column:final_amount;not null" json:"finalAmount"`      // Amount after fees/conversion
	Username    string           `gorm:"size:191;index" json:"username"`                       // Owner username at submit time
	Mobile      string           `json:"mobile"`                                               // Owner mobile at submit time
	DateTime    time.Time        `gorm:"column:date_time;index" json:"dateTime"`               // Creation time
	Status      WithdrawalStatus `gorm:"size:32;index;not null;default:Pending" json:"status"` // Lifecycle state
	UpdatedAt   time.Time        `json:"updatedAt"`                                            // Last transition time
}
