package trading

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/rs/xid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"papertrade/pkg/models"
	"papertrade/pkg/quotes"
)

// Service validates and executes trades against the account and ledger
// tables. Each buy/sell runs as one database transaction that locks the
// user's account row FOR UPDATE, so concurrent trades for the same user
// serialize while other users' trades proceed independently.
type Service struct {
	db     *gorm.DB
	quotes quotes.Source
}

// NewService creates a trading service.
func NewService(db *gorm.DB, src quotes.Source) *Service {
	return &Service{db: db, quotes: src}
}

// ParseShareCount parses a requested share count. Whole-share trading
// only: the input must be all digits and at least 1, which rejects
// fractional, zero, negative, and signed inputs before any store
// access.
func ParseShareCount(input string) (int64, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return 0, newError(KindInvalidShareCount, "share count is required")
	}
	for _, r := range input {
		if r < '0' || r > '9' {
			return 0, newError(KindInvalidShareCount, "shares must be a positive integer")
		}
	}
	n, err := strconv.ParseInt(input, 10, 64)
	if err != nil {
		return 0, newError(KindInvalidShareCount, "share count is too large")
	}
	if n < 1 {
		return 0, newError(KindInvalidShareCount, "shares must be a positive integer")
	}
	return n, nil
}

// Buy purchases shares at the current quoted price. The ledger row and
// the cash debit commit together or not at all.
func (s *Service) Buy(ctx context.Context, userID uint, symbol, sharesRequested string) (*models.Transaction, error) {
	shares, err := ParseShareCount(sharesRequested)
	if err != nil {
		return nil, err
	}

	quote, err := s.lookup(ctx, symbol)
	if err != nil {
		return nil, err
	}
	cost := quote.Price.Mul(decimal.NewFromInt(shares))

	entry := &models.Transaction{
		Ref:    xid.New().String(),
		UserID: userID,
		Symbol: quote.Symbol,
		Price:  quote.Price,
		Shares: shares,
		Side:   models.SideBuy,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		user, err := lockUser(tx, userID)
		if err != nil {
			return err
		}

		if user.Cash.LessThan(cost) {
			return newError(KindInsufficientFunds, "not enough cash for this purchase")
		}

		if err := ensureLedger(tx); err != nil {
			return err
		}
		if err := tx.Create(entry).Error; err != nil {
			return storeError(err)
		}

		newCash := user.Cash.Sub(cost)
		if err := tx.Model(user).Update("cash", newCash).Error; err != nil {
			return storeError(err)
		}
		return nil
	})
	if err != nil {
		return nil, asTradeError(err)
	}

	logrus.WithFields(logrus.Fields{
		"user_id": userID,
		"symbol":  entry.Symbol,
		"shares":  shares,
		"price":   quote.Price,
	}).Info("Buy executed")

	return entry, nil
}

// Sell sells shares at the current quoted price. Net holdings are
// recomputed from the ledger inside the locked transaction, so a sell
// can never take a position negative.
func (s *Service) Sell(ctx context.Context, userID uint, symbol, sharesRequested string) (*models.Transaction, error) {
	shares, err := ParseShareCount(sharesRequested)
	if err != nil {
		return nil, err
	}

	quote, err := s.lookup(ctx, symbol)
	if err != nil {
		return nil, err
	}
	proceeds := quote.Price.Mul(decimal.NewFromInt(shares))

	entry := &models.Transaction{
		Ref:    xid.New().String(),
		UserID: userID,
		Symbol: quote.Symbol,
		Price:  quote.Price,
		Shares: shares,
		Side:   models.SideSell,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		user, err := lockUser(tx, userID)
		if err != nil {
			return err
		}

		owned, err := netShares(tx, userID, quote.Symbol)
		if err != nil {
			return err
		}
		if shares > owned {
			return newError(KindInsufficientHoldings, "not enough shares held to sell")
		}

		if err := tx.Create(entry).Error; err != nil {
			return storeError(err)
		}

		newCash := user.Cash.Add(proceeds)
		if err := tx.Model(user).Update("cash", newCash).Error; err != nil {
			return storeError(err)
		}
		return nil
	})
	if err != nil {
		return nil, asTradeError(err)
	}

	logrus.WithFields(logrus.Fields{
		"user_id": userID,
		"symbol":  entry.Symbol,
		"shares":  shares,
		"price":   quote.Price,
	}).Info("Sell executed")

	return entry, nil
}

// Deposit credits cash to the account. No ledger row is written and no
// upper bound is enforced; negative amounts are rejected.
func (s *Service) Deposit(ctx context.Context, userID uint, amount decimal.Decimal) (decimal.Decimal, error) {
	if amount.IsNegative() {
		return decimal.Zero, newError(KindNegativeAmount, "deposit amount cannot be negative")
	}

	var newCash decimal.Decimal
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		user, err := lockUser(tx, userID)
		if err != nil {
			return err
		}

		newCash = user.Cash.Add(amount)
		if err := tx.Model(user).Update("cash", newCash).Error; err != nil {
			return storeError(err)
		}
		return nil
	})
	if err != nil {
		return decimal.Zero, asTradeError(err)
	}

	return newCash, nil
}

// lookup resolves a symbol to a quote. Any lookup failure is reported
// uniformly as symbol-not-found.
func (s *Service) lookup(ctx context.Context, symbol string) (*quotes.Quote, error) {
	quote, err := s.quotes.Lookup(ctx, symbol)
	if err != nil {
		return nil, newError(KindSymbolNotFound, "stock not found")
	}
	return quote, nil
}

// lockUser loads the account row FOR UPDATE.
func lockUser(tx *gorm.DB, userID uint) (*models.User, error) {
	var user models.User
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&user, userID).Error
	if err != nil {
		return nil, storeError(err)
	}
	return &user, nil
}

// netShares sums shares*side over the user's ledger rows for a symbol.
// A missing ledger table is an empty ledger, not an error.
func netShares(tx *gorm.DB, userID uint, symbol string) (int64, error) {
	if !tx.Migrator().HasTable(&models.Transaction{}) {
		return 0, nil
	}

	var net int64
	err := tx.Model(&models.Transaction{}).
		Select("COALESCE(SUM(shares * side), 0)").
		Where("user_id = ? AND symbol = ?", userID, symbol).
		Scan(&net).Error
	if err != nil {
		return 0, storeError(err)
	}
	return net, nil
}

// ledgerLockID keys the advisory lock serializing ledger creation.
const ledgerLockID = 7465824

// ensureLedger creates the transactions table on the first trade. Two
// concurrent first trades hold no common row lock, so the check and the
// CREATE TABLE are serialized under a transaction-scoped advisory lock;
// the loser re-checks and finds the table already created.
func ensureLedger(tx *gorm.DB) error {
	if tx.Migrator().HasTable(&models.Transaction{}) {
		return nil
	}
	if err := tx.Exec("SELECT pg_advisory_xact_lock(?)", ledgerLockID).Error; err != nil {
		return storeError(err)
	}
	if tx.Migrator().HasTable(&models.Transaction{}) {
		return nil
	}
	if err := tx.AutoMigrate(&models.Transaction{}); err != nil {
		return storeError(err)
	}
	logrus.Info("Transactions ledger created")
	return nil
}

// asTradeError passes typed failures through and wraps anything else,
// typically a commit failure, as store-unavailable.
func asTradeError(err error) error {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr
	}
	return storeError(err)
}
