package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TradeSide is the sign of a ledger entry. Summing shares*side over a
// user's rows for a symbol yields the net position, which is why the
// values are +1 and -1 rather than an opaque enum.
type TradeSide int8

const (
	SideBuy  TradeSide = 1
	SideSell TradeSide = -1
)

// String returns the display form used in transaction history.
func (s TradeSide) String() string {
	if s == SideBuy {
		return "BUY"
	}
	return "SELL"
}

// Transaction is one append-only ledger entry. Price is a snapshot of
// the quote at execution time and is never updated afterwards.
type Transaction struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	Ref       string          `gorm:"unique;not null;size:20" json:"ref"`
	UserID    uint            `gorm:"not null;index" json:"user_id"`
	Symbol    string          `gorm:"not null;size:10;index" json:"symbol"`
	Price     decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"price"`
	Shares    int64           `gorm:"not null" json:"shares"`
	Side      TradeSide       `gorm:"not null" json:"side"`
	CreatedAt time.Time       `gorm:"index" json:"created_at"`

	// Relationships
	User User `gorm:"foreignKey:UserID" json:"-"`
}

// Total is the cash value of the entry at its snapshot price.
func (t *Transaction) Total() decimal.Decimal {
	return t.Price.Mul(decimal.NewFromInt(t.Shares))
}

// Holding is a derived view of a user's net position in one symbol,
// priced at the current quote. Holdings are never stored; they are
// recomputed from the ledger on every portfolio read.
type Holding struct {
	Symbol string          `json:"symbol"`
	Name   string          `json:"name"`
	Price  decimal.Decimal `json:"price"`
	Shares int64           `json:"shares"`
	Value  decimal.Decimal `json:"value"`
}

// TableName methods
func (Transaction) TableName() string { return "transactions" }
