package portfolio

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"papertrade/pkg/models"
	"papertrade/pkg/quotes"
)

type stubQuotes struct {
	prices map[string]decimal.Decimal
}

func (s stubQuotes) Lookup(_ context.Context, symbol string) (*quotes.Quote, error) {
	symbol = quotes.Normalize(symbol)
	price, ok := s.prices[symbol]
	if !ok {
		return nil, quotes.ErrNotFound
	}
	return &quotes.Quote{Symbol: symbol, Name: symbol + " Inc", Price: price}, nil
}

func testDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := os.Getenv("PAPERTRADE_TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("PAPERTRADE_TEST_DATABASE_URL not set")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.Migrator().DropTable(&models.Transaction{}, &models.UserPassword{}, &models.User{}))
	require.NoError(t, db.AutoMigrate(&models.User{}))

	return db
}

func seedLedger(t *testing.T, db *gorm.DB, entries []models.Transaction) {
	t.Helper()

	require.NoError(t, db.AutoMigrate(&models.Transaction{}))
	for i := range entries {
		require.NoError(t, db.Create(&entries[i]).Error)
	}
}

func TestCompute_NoLedger(t *testing.T) {
	db := testDB(t)
	user := &models.User{Username: "alice", Cash: models.StartingCash}
	require.NoError(t, db.Create(user).Error)

	engine := NewEngine(db, stubQuotes{})

	statement, err := engine.Compute(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Empty(t, statement.Holdings)
	assert.True(t, statement.Cash.Equal(models.StartingCash))
	assert.True(t, statement.TotalAssets.Equal(models.StartingCash))
}

func TestCompute_PricesOpenPositions(t *testing.T) {
	db := testDB(t)
	user := &models.User{Username: "alice", Cash: decimal.NewFromInt(8500)}
	require.NoError(t, db.Create(user).Error)

	seedLedger(t, db, []models.Transaction{
		{Ref: "r1", UserID: user.ID, Symbol: "AAPL", Price: decimal.NewFromInt(150), Shares: 10, Side: models.SideBuy},
		{Ref: "r2", UserID: user.ID, Symbol: "NET", Price: decimal.NewFromInt(60), Shares: 5, Side: models.SideBuy},
		{Ref: "r3", UserID: user.ID, Symbol: "NET", Price: decimal.NewFromInt(65), Shares: 5, Side: models.SideSell},
	})

	engine := NewEngine(db, stubQuotes{prices: map[string]decimal.Decimal{
		"AAPL": decimal.NewFromInt(160),
		"NET":  decimal.NewFromInt(70),
	}})

	statement, err := engine.Compute(context.Background(), user.ID)
	require.NoError(t, err)

	// NET is flat, so only AAPL remains, valued at the current quote.
	require.Len(t, statement.Holdings, 1)
	holding := statement.Holdings[0]
	assert.Equal(t, "AAPL", holding.Symbol)
	assert.Equal(t, int64(10), holding.Shares)
	assert.True(t, holding.Value.Equal(decimal.NewFromInt(1600)))
	assert.True(t, statement.TotalAssets.Equal(decimal.NewFromInt(10100)))
}

func TestCompute_QuoteFailureFailsRead(t *testing.T) {
	db := testDB(t)
	user := &models.User{Username: "alice", Cash: decimal.NewFromInt(1000)}
	require.NoError(t, db.Create(user).Error)

	seedLedger(t, db, []models.Transaction{
		{Ref: "r1", UserID: user.ID, Symbol: "GONE", Price: decimal.NewFromInt(10), Shares: 3, Side: models.SideBuy},
	})

	engine := NewEngine(db, stubQuotes{})

	_, err := engine.Compute(context.Background(), user.ID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, quotes.ErrNotFound))
}

func TestHistory(t *testing.T) {
	db := testDB(t)
	user := &models.User{Username: "alice", Cash: decimal.NewFromInt(1000)}
	require.NoError(t, db.Create(user).Error)

	engine := NewEngine(db, stubQuotes{})

	// No ledger yet: empty history, not an error.
	history, err := engine.History(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Empty(t, history)

	seedLedger(t, db, []models.Transaction{
		{Ref: "r1", UserID: user.ID, Symbol: "AAPL", Price: decimal.NewFromInt(150), Shares: 10, Side: models.SideBuy},
		{Ref: "r2", UserID: user.ID, Symbol: "AAPL", Price: decimal.NewFromInt(160), Shares: 4, Side: models.SideSell},
	})

	history, err = engine.History(context.Background(), user.ID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, models.SideBuy, history[0].Side)
	assert.Equal(t, models.SideSell, history[1].Side)
	assert.Equal(t, "BUY", history[0].Side.String())
	assert.Equal(t, "SELL", history[1].Side.String())
}
