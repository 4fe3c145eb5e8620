package portfolio

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"papertrade/pkg/models"
)

func entry(symbol string, shares int64, side models.TradeSide) models.Transaction {
	return models.Transaction{Symbol: symbol, Shares: shares, Side: side}
}

func TestAggregate(t *testing.T) {
	t.Run("EmptyLedger", func(t *testing.T) {
		assert.Empty(t, aggregate(nil))
		assert.Empty(t, aggregate([]models.Transaction{}))
	})

	t.Run("NetPositions", func(t *testing.T) {
		positions := aggregate([]models.Transaction{
			entry("AAPL", 10, models.SideBuy),
			entry("NET", 5, models.SideBuy),
			entry("AAPL", 4, models.SideSell),
			entry("AAPL", 2, models.SideBuy),
		})

		require.Len(t, positions, 2)
		assert.Equal(t, position{symbol: "AAPL", shares: 8}, positions[0])
		assert.Equal(t, position{symbol: "NET", shares: 5}, positions[1])
	})

	t.Run("FlatPositionsDropped", func(t *testing.T) {
		positions := aggregate([]models.Transaction{
			entry("AAPL", 10, models.SideBuy),
			entry("NET", 5, models.SideBuy),
			entry("AAPL", 10, models.SideSell),
		})

		require.Len(t, positions, 1)
		assert.Equal(t, "NET", positions[0].symbol)
	})

	t.Run("FirstTradeOrderPreserved", func(t *testing.T) {
		positions := aggregate([]models.Transaction{
			entry("NET", 1, models.SideBuy),
			entry("AAPL", 1, models.SideBuy),
			entry("NET", 2, models.SideBuy),
		})

		require.Len(t, positions, 2)
		assert.Equal(t, "NET", positions[0].symbol)
		assert.Equal(t, "AAPL", positions[1].symbol)
	})
}
