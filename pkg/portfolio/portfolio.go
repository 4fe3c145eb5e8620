package portfolio

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"papertrade/pkg/models"
	"papertrade/pkg/quotes"
)

// Engine derives portfolio state from the transaction ledger. Holdings
// are recomputed from scratch on every read; the ledger is the single
// source of truth and there is no materialized position table to drift
// out of sync.
type Engine struct {
	db     *gorm.DB
	quotes quotes.Source
}

// NewEngine creates a portfolio engine.
func NewEngine(db *gorm.DB, src quotes.Source) *Engine {
	return &Engine{db: db, quotes: src}
}

// Statement is the dashboard view of one account: every open position
// priced at the current quote, plus cash and the combined total.
type Statement struct {
	Holdings    []models.Holding `json:"holdings"`
	Cash        decimal.Decimal  `json:"cash"`
	TotalAssets decimal.Decimal  `json:"total_assets"`
}

// position is an aggregated net ledger position before pricing.
type position struct {
	symbol string
	shares int64
}

// Compute builds the portfolio statement for a user. A quote failure
// for any held symbol fails the whole read: a dashboard that silently
// understates total assets is worse than an error.
func (e *Engine) Compute(ctx context.Context, userID uint) (*Statement, error) {
	var user models.User
	if err := e.db.WithContext(ctx).First(&user, userID).Error; err != nil {
		return nil, fmt.Errorf("failed to load account: %w", err)
	}

	entries, err := e.loadLedger(ctx, userID)
	if err != nil {
		return nil, err
	}

	statement := &Statement{
		Holdings:    []models.Holding{},
		Cash:        user.Cash,
		TotalAssets: user.Cash,
	}

	for _, pos := range aggregate(entries) {
		quote, err := e.quotes.Lookup(ctx, pos.symbol)
		if err != nil {
			return nil, fmt.Errorf("failed to price held symbol %s: %w", pos.symbol, err)
		}

		value := quote.Price.Mul(decimal.NewFromInt(pos.shares))
		statement.Holdings = append(statement.Holdings, models.Holding{
			Symbol: pos.symbol,
			Name:   quote.Name,
			Price:  quote.Price,
			Shares: pos.shares,
			Value:  value,
		})
		statement.TotalAssets = statement.TotalAssets.Add(value)
	}

	return statement, nil
}

// History returns the user's ledger in insertion order. A missing
// ledger table is an empty history.
func (e *Engine) History(ctx context.Context, userID uint) ([]models.Transaction, error) {
	entries, err := e.loadLedger(ctx, userID)
	if err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []models.Transaction{}
	}
	return entries, nil
}

// loadLedger reads all of a user's ledger rows oldest-first, treating a
// missing table as empty.
func (e *Engine) loadLedger(ctx context.Context, userID uint) ([]models.Transaction, error) {
	db := e.db.WithContext(ctx)
	if !db.Migrator().HasTable(&models.Transaction{}) {
		return nil, nil
	}

	var entries []models.Transaction
	err := db.Where("user_id = ?", userID).
		Order("id ASC").
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load ledger: %w", err)
	}
	return entries, nil
}

// aggregate folds ledger entries into net positions per symbol,
// keeping only symbols with a positive net and preserving first-trade
// order.
func aggregate(entries []models.Transaction) []position {
	totals := make(map[string]int64)
	var order []string

	for _, entry := range entries {
		if _, seen := totals[entry.Symbol]; !seen {
			order = append(order, entry.Symbol)
		}
		totals[entry.Symbol] += entry.Shares * int64(entry.Side)
	}

	var positions []position
	for _, symbol := range order {
		if totals[symbol] > 0 {
			positions = append(positions, position{symbol: symbol, shares: totals[symbol]})
		}
	}
	return positions
}
