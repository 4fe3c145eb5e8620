package models

import (
	"time"
)

// LoginAttempt records login and registration attempts for security
// monitoring.
type LoginAttempt struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Username  string    `gorm:"not null;index" json:"username"`
	IPAddress string    `gorm:"not null;index" json:"ip_address"`
	UserAgent string    `json:"user_agent"`
	Success   bool      `gorm:"not null;index" json:"success"`
	Reason    string    `json:"reason,omitempty"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}

// RateLimit is the database fallback for the Redis rate limiter.
type RateLimit struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Key         string    `gorm:"unique;not null;index" json:"key"`
	Count       int       `gorm:"not null" json:"count"`
	WindowStart time.Time `gorm:"not null;index" json:"window_start"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName methods
func (LoginAttempt) TableName() string { return "login_attempts" }
func (RateLimit) TableName() string    { return "rate_limits" }
