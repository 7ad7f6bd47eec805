package formulas

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMeanAndStdDev(t *testing.T) {
	data := []float64{2, 4, 4, 4, 5, 5, 7, 9}

	assert.InDelta(t, 5.0, Mean(data), 1e-12)
	// Sample standard deviation (n-1): sqrt(32/7)
	assert.InDelta(t, math.Sqrt(32.0/7.0), StdDev(data), 1e-12)
	assert.InDelta(t, 32.0/7.0, Variance(data), 1e-12)
}

func TestStdDev_InsufficientData(t *testing.T) {
	assert.Equal(t, 0.0, StdDev(nil))
	assert.Equal(t, 0.0, StdDev([]float64{42}))
	assert.Equal(t, 0.0, Variance([]float64{42}))
	assert.Equal(t, 0.0, Mean(nil))
}

func TestCalculateReturns(t *testing.T) {
	tests := []struct {
		name     string
		values   []float64
		expected []float64
		ok       bool
	}{
		{"empty", nil, []float64{}, true},
		{"single value", []float64{100}, []float64{}, true},
		{"growth and loss", []float64{100, 110, 99}, []float64{0.1, -0.1}, true},
		{"zero denominator", []float64{100, 0, 50}, nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			returns, ok := CalculateReturns(tt.values)
			assert.Equal(t, tt.ok, ok)
			require.Len(t, returns, len(tt.expected))
			for i := range tt.expected {
				assert.InDelta(t, tt.expected[i], returns[i], 1e-12)
			}
		})
	}
}

func TestAnnualizedVolatility(t *testing.T) {
	returns := []float64{0.01, -0.01, 0.01, -0.01}

	vol := AnnualizedVolatility(returns, 252)
	require.NotNil(t, vol)
	assert.InDelta(t, StdDev(returns)*math.Sqrt(252), *vol, 1e-12)

	assert.Nil(t, AnnualizedVolatility([]float64{0.01}, 252))
	assert.Nil(t, AnnualizedVolatility(returns, 0))
}

func TestCorrelation(t *testing.T) {
	x := []float64{1, 2, 3, 4}

	corr := Correlation(x, []float64{2, 4, 6, 8})
	require.NotNil(t, corr)
	assert.InDelta(t, 1.0, *corr, 1e-12)

	corr = Correlation(x, []float64{8, 6, 4, 2})
	require.NotNil(t, corr)
	assert.InDelta(t, -1.0, *corr, 1e-12)

	assert.Nil(t, Correlation(x, []float64{5, 5, 5, 5}), "constant series has no correlation")
	assert.Nil(t, Correlation(x, []float64{1, 2}), "length mismatch")
}

func TestCalculateBeta(t *testing.T) {
	market := []float64{0.01, -0.02, 0.015, 0.005}

	t.Run("double exposure", func(t *testing.T) {
		asset := make([]float64, len(market))
		for i, r := range market {
			asset[i] = 2 * r
		}
		beta := CalculateBeta(asset, market)
		require.NotNil(t, beta)
		assert.InDelta(t, 2.0, *beta, 1e-9)
	})

	t.Run("aligns on most recent observations", func(t *testing.T) {
		asset := []float64{0.5, 0.01, -0.02, 0.015, 0.005}
		beta := CalculateBeta(asset, market)
		require.NotNil(t, beta)
		assert.InDelta(t, 1.0, *beta, 1e-9)
	})

	t.Run("flat market is undefined", func(t *testing.T) {
		assert.Nil(t, CalculateBeta([]float64{0.1, 0.2, 0.3}, []float64{0.01, 0.01, 0.01}))
	})

	t.Run("insufficient data", func(t *testing.T) {
		assert.Nil(t, CalculateBeta([]float64{0.1}, market))
	})

	t.Run("non-finite market is undefined", func(t *testing.T) {
		asset := []float64{0.02, 0.01, -0.01}
		assert.Nil(t, CalculateBeta(asset, []float64{math.NaN(), 0.01, -0.02}))
		assert.Nil(t, CalculateBeta(asset, []float64{math.Inf(1), 0.01, -0.02}))
	})
}
