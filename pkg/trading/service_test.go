package trading

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"papertrade/pkg/quotes"
)

// stubQuotes serves fixed prices without any network access.
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

func TestParseShareCount(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    int64
		wantErr bool
	}{
		{name: "Simple", input: "10", want: 10},
		{name: "One", input: "1", want: 1},
		{name: "Whitespace", input: " 7 ", want: 7},
		{name: "Zero", input: "0", wantErr: true},
		{name: "Negative", input: "-3", wantErr: true},
		{name: "ExplicitPlus", input: "+3", wantErr: true},
		{name: "Fractional", input: "1.5", wantErr: true},
		{name: "Junk", input: "ten", wantErr: true},
		{name: "Empty", input: "", wantErr: true},
		{name: "Blank", input: "   ", wantErr: true},
		{name: "Overflow", input: "99999999999999999999", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseShareCount(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				kind, ok := KindOf(err)
				require.True(t, ok)
				assert.Equal(t, KindInvalidShareCount, kind)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBuy_InvalidShareCountBeforeStoreAccess(t *testing.T) {
	// nil db: any store access would panic, proving validation runs first.
	svc := NewService(nil, stubQuotes{prices: map[string]decimal.Decimal{
		"AAPL": decimal.NewFromFloat(150),
	}})

	for _, input := range []string{"0", "-3", "1.5", "x"} {
		_, err := svc.Buy(context.Background(), 1, "AAPL", input)
		kind, ok := KindOf(err)
		require.True(t, ok, "input %q", input)
		assert.Equal(t, KindInvalidShareCount, kind, "input %q", input)
	}
}

func TestBuy_UnknownSymbol(t *testing.T) {
	svc := NewService(nil, stubQuotes{prices: map[string]decimal.Decimal{}})

	_, err := svc.Buy(context.Background(), 1, "ZZZZ", "5")
	kind, ok := KindOf(err)
	require.True(t, ok)
	assert.Equal(t, KindSymbolNotFound, kind)
}

func TestSell_InvalidInputBeforeStoreAccess(t *testing.T) {
	svc := NewService(nil, stubQuotes{prices: map[string]decimal.Decimal{}})

	_, err := svc.Sell(context.Background(), 1, "AAPL", "2.5")
	kind, ok := KindOf(err)
	require.True(t, ok)
	assert.Equal(t, KindInvalidShareCount, kind)

	_, err = svc.Sell(context.Background(), 1, "AAPL", "2")
	kind, ok = KindOf(err)
	require.True(t, ok)
	assert.Equal(t, KindSymbolNotFound, kind)
}

func TestDeposit_NegativeAmount(t *testing.T) {
	svc := NewService(nil, stubQuotes{})

	_, err := svc.Deposit(context.Background(), 1, decimal.NewFromInt(-5))
	kind, ok := KindOf(err)
	require.True(t, ok)
	assert.Equal(t, KindNegativeAmount, kind)
}

func TestKindOf_ForeignError(t *testing.T) {
	_, ok := KindOf(context.Canceled)
	assert.False(t, ok)
}
