package portfolio

import (
	"testing"

	"github.com/aristath/folio/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarize(t *testing.T) {
	positions := []domain.Position{
		{Symbol: "AAA", AssetType: domain.AssetTypeStock, Quantity: 10, CostBasis: 100, CurrentPrice: 110},
		{Symbol: "CASH", AssetType: domain.AssetTypeCash, Quantity: 500, CostBasis: 1, CurrentPrice: 1},
	}

	s := Summarize(positions)
	assert.InDelta(t, 1600.0, s.TotalValue, 1e-9)
	assert.InDelta(t, 1500.0, s.TotalCost, 1e-9)
	assert.InDelta(t, 100.0, s.TotalGainLoss, 1e-9)
	require.NotNil(t, s.TotalGainLossPercent)
	assert.InDelta(t, 6.6667, *s.TotalGainLossPercent, 1e-4)
	assert.InDelta(t, 500.0, s.CashBalance, 1e-9)
	assert.InDelta(t, 1100.0, s.InvestedValue, 1e-9)
	assert.Equal(t, 2, s.PositionCount)
}

func TestSummarize_Empty(t *testing.T) {
	s := Summarize(nil)
	assert.Zero(t, s.TotalValue)
	assert.Nil(t, s.TotalGainLossPercent)
	assert.Zero(t, s.PositionCount)
}

func TestValuations(t *testing.T) {
	v := Valuations([]domain.Position{{Symbol: "AAA", Quantity: 2, CostBasis: 0, CurrentPrice: 5}})
	require.Len(t, v, 1)
	assert.Equal(t, 10.0, v[0].MarketValue)
	assert.Nil(t, v[0].GainLossPercent)
}
