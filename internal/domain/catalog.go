package domain

import "time"

// Product Model
type Product struct {
	ID           uint      `gorm:"primaryKey" json:"id"`                              // Primary key
	ProductName  string    `gorm:"column:product_name;not null" json:"productName"`   // Display name
	Level        string    `gorm:"not null" json:"level"`                             // Referral level the product belongs to
	RatioBetween string    `gorm:"column:ratio_between;not null" json:"ratioBetween"` // Payout ratio range, e.g. "1.2-1.5"
	Price        float64   `gorm:"not null;default:0" json:"price"`                   // Price
	ProductImg   string    `gorm:"column:product_img" json:"productImg"`              // Image URL
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Event Model
type Event struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Title       string    `gorm:"not null" json:"title"`
	StartDate   time.Time `gorm:"column:start_date" json:"startDate"`
	EndDate     time.Time `gorm:"column:end_date" json:"endDate"`
	Description string    `gorm:"type:text" json:"description"`
	EventImg    string    `gorm:"column:event_img" json:"eventImg"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// SliderImage Model
type SliderImage struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	SliderImg string    `gorm:"column:slider_img;not null" json:"sliderImg"`
	CreatedAt time.Time `json:"createdAt"`
}

// Dashboard holds the counters shown on the admin home page
type Dashboard struct {
	Users              int64 `json:"users"`
	Products           int64 `json:"products"`
	Events             int64 `json:"events"`
	Sliders            int64 `json:"sliders"`
	PendingWithdrawals int64 `json:"pendingWithdrawals"`
}
