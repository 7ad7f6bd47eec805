package domain

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPosition_DerivedValues(t *testing.T) {
	pos := Position{Symbol: "AAA", Quantity: 10, CostBasis: 100, CurrentPrice: 110, AssetType: AssetTypeStock}

	assert.Equal(t, 1100.0, pos.MarketValue())
	assert.Equal(t, 1000.0, pos.CostValue())
	assert.Equal(t, 100.0, pos.GainLoss())
	require.NotNil(t, pos.GainLossPercent())
	assert.InDelta(t, 10.0, *pos.GainLossPercent(), 1e-12)

	// Derived values follow the inputs
	pos.CurrentPrice = 90
	assert.Equal(t, 900.0, pos.MarketValue())
	assert.InDelta(t, -10.0, *pos.GainLossPercent(), 1e-12)
}

func TestPosition_GainLossPercentUndefinedForZeroCost(t *testing.T) {
	pos := Position{Symbol: "GIFT", Quantity: 5, CostBasis: 0, CurrentPrice: 20, AssetType: AssetTypeStock}
	assert.Nil(t, pos.GainLossPercent())

	data, err := json.Marshal(pos.Valuation())
	require.NoError(t, err)
	assert.Contains(t, string(data), `"gain_loss_percent":null`)
	assert.Contains(t, string(data), `"market_value":100`)
}

func TestPosition_Validate(t *testing.T) {
	valid := Position{Symbol: "AAA", Quantity: 1, CostBasis: 1, CurrentPrice: 1, AssetType: AssetTypeETF}
	assert.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(p *Position)
	}{
		{"empty symbol", func(p *Position) { p.Symbol = " " }},
		{"negative quantity", func(p *Position) { p.Quantity = -1 }},
		{"negative price", func(p *Position) { p.CurrentPrice = -1 }},
		{"unknown asset type", func(p *Position) { p.AssetType = "option" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := valid
			tt.mutate(&p)
			assert.True(t, errors.Is(p.Validate(), ErrInvalidInput))
		})
	}
}

func TestParseTypes(t *testing.T) {
	at, err := ParseAssetType(" ETF ")
	require.NoError(t, err)
	assert.Equal(t, AssetTypeETF, at)

	_, err = ParseAssetType("warrant")
	assert.ErrorIs(t, err, ErrInvalidInput)

	tt, err := ParseTransactionType("Dividend")
	require.NoError(t, err)
	assert.Equal(t, TransactionTypeDividend, tt)

	_, err = ParseTransactionType("transfer")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestTransaction_ValidateAndNet(t *testing.T) {
	date := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	buy := Transaction{ID: "t1", Date: date, Symbol: "AAA", Type: TransactionTypeBuy, Quantity: 10, Price: 100, Total: 1000, Fees: 5}
	sell := Transaction{ID: "t2", Date: date, Symbol: "AAA", Type: TransactionTypeSell, Quantity: 5, Price: 120, Total: 600, Fees: 5}

	require.NoError(t, buy.Validate())
	assert.Equal(t, -1005.0, buy.Net())
	assert.Equal(t, 595.0, sell.Net())

	bad := buy
	bad.Fees = -1
	assert.ErrorIs(t, bad.Validate(), ErrInvalidInput)

	bad = buy
	bad.Date = time.Time{}
	assert.ErrorIs(t, bad.Validate(), ErrInvalidInput)
}

func TestDay(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*3600)
	ts := time.Date(2024, 5, 10, 1, 30, 0, 0, loc) // 2024-05-09 23:30 UTC
	assert.Equal(t, time.Date(2024, 5, 9, 0, 0, 0, 0, time.UTC), Day(ts))
}
