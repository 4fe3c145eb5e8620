package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// StartingCash is credited to every account at registration.
var StartingCash = decimal.NewFromInt(10000)

// User represents a registered account. Cash is mutated only by the
// trading service (buy, sell, deposit), always inside a row-locked
// transaction.
type User struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	Username  string          `gorm:"unique;not null;size:50" json:"username"`
	Cash      decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"cash"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`

	// Relationships
	Transactions []Transaction `gorm:"foreignKey:UserID" json:"transactions,omitempty"`
}

// UserPassword holds password hashes separately from the account row so
// the account can be loaded and serialized without touching credential
// material.
type UserPassword struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	UserID       uint      `gorm:"unique;not null;index" json:"user_id"`
	PasswordHash string    `gorm:"not null" json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	// Relationships
	User User `gorm:"foreignKey:UserID" json:"-"`
}

// TableName methods
func (User) TableName() string         { return "users" }
func (UserPassword) TableName() string { return "user_passwords" }
