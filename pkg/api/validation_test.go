package api

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestValidateRegisterRequest(t *testing.T) {
	tests := []struct {
		name    string
		req     RegisterRequest
		wantErr bool
	}{
		{"valid", RegisterRequest{Username: "alice", Password: "correct-horse-1"}, false},
		{"missing username", RegisterRequest{Password: "correct-horse-1"}, true},
		{"short username", RegisterRequest{Username: "al", Password: "correct-horse-1"}, true},
		{"invalid username chars", RegisterRequest{Username: "al ice!", Password: "correct-horse-1"}, true},
		{"missing password", RegisterRequest{Username: "alice"}, true},
		{"short password", RegisterRequest{Username: "alice", Password: "short"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := ValidateRegisterRequest(tt.req)
			if tt.wantErr {
				assert.NotEmpty(t, errs)
			} else {
				assert.Empty(t, errs)
			}
		})
	}
}

func TestValidateTradeRequest(t *testing.T) {
	tests := []struct {
		name    string
		req     TradeRequest
		wantErr bool
	}{
		{"valid", TradeRequest{Symbol: "AAPL", Shares: "10"}, false},
		{"lowercase symbol accepted", TradeRequest{Symbol: "aapl", Shares: "1"}, false},
		{"dotted class share", TradeRequest{Symbol: "BRK.B", Shares: "1"}, false},
		{"missing symbol", TradeRequest{Shares: "10"}, true},
		{"symbol with digits", TradeRequest{Symbol: "AAPL1", Shares: "10"}, true},
		{"missing shares", TradeRequest{Symbol: "AAPL"}, true},
		{"blank shares", TradeRequest{Symbol: "AAPL", Shares: "   "}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := ValidateTradeRequest(tt.req)
			if tt.wantErr {
				assert.NotEmpty(t, errs)
			} else {
				assert.Empty(t, errs)
			}
		})
	}
}

func TestValidateAmount(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    decimal.Decimal
		wantErr bool
	}{
		{"whole dollars", "100", decimal.NewFromInt(100), false},
		{"cents", "0.01", decimal.NewFromFloat(0.01), false},
		{"zero allowed", "0", decimal.Zero, false},
		{"no upper bound", "150000000", decimal.NewFromInt(150000000), false},
		{"empty", "", decimal.Zero, true},
		{"negative", "-5", decimal.Zero, true},
		{"garbage", "ten dollars", decimal.Zero, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := NewValidator()
			got := v.ValidateAmount("amount", tt.input)
			if tt.wantErr {
				assert.True(t, v.HasErrors())
				return
			}
			assert.False(t, v.HasErrors())
			assert.True(t, got.Equal(tt.want))
		})
	}
}

func TestValidationErrors_Error(t *testing.T) {
	v := NewValidator()
	v.AddError("username", "username is required")
	v.AddError("password", "password is required")

	assert.Equal(t, "username: username is required; password: password is required", v.GetErrors().Error())
	assert.Empty(t, ValidationErrors{}.Error())
}
