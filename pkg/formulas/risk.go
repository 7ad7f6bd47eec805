package formulas

import (
	"sort"

	"gonum.org/v1/gonum/stat"
)

// CalculateVaR returns the historical Value at Risk threshold: the
// (1-confidence) quantile of the return distribution, linearly interpolated.
// Losses come back negative (-0.03 = a 3% loss).
func CalculateVaR(returns []float64, confidence float64) float64 {
	if len(returns) == 0 || confidence <= 0 || confidence >= 1 {
		return 0
	}

	sorted := make([]float64, len(returns))
	copy(sorted, returns)
	sort.Float64s(sorted)

	return stat.Quantile(1-confidence, stat.LinInterp, sorted, nil)
}

// CalculateCVaR calculates Conditional Value at Risk (expected shortfall):
// the mean of all returns at or below the VaR threshold.
func CalculateCVaR(returns []float64, confidence float64) float64 {
	if len(returns) == 0 {
		return 0
	}

	threshold := CalculateVaR(returns, confidence)

	sum := 0.0
	count := 0
	for _, r := range returns {
		if r <= threshold {
			sum += r
			count++
		}
	}

	if count == 0 {
		return threshold
	}
	return sum / float64(count)
}
