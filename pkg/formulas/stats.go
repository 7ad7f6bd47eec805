// Package formulas holds the numeric building blocks behind the metrics engine.
//
// Functions operate on plain float64 series and never return NaN or Inf:
// inputs that leave a statistic undefined yield nil (for *float64 results)
// or a false ok flag.
package formulas

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// Mean calculates the arithmetic mean of a slice of float64 values
func Mean(data []float64) float64 {
	if len(data) == 0 {
		return 0
	}
	return stat.Mean(data, nil)
}

// StdDev calculates the sample standard deviation (n-1 denominator).
// Fewer than two observations yield 0.
func StdDev(data []float64) float64 {
	if len(data) < 2 {
		return 0
	}
	return stat.StdDev(data, nil)
}

// Variance calculates the sample variance (n-1 denominator)
func Variance(data []float64) float64 {
	if len(data) < 2 {
		return 0
	}
	return stat.Variance(data, nil)
}

// CalculateReturns converts a value series to fractional period returns.
// Returns[i] = (v[i+1] - v[i]) / v[i]
//
// ok is false when any denominator is zero; the returned slice is then nil.
func CalculateReturns(values []float64) (returns []float64, ok bool) {
	if len(values) < 2 {
		return []float64{}, true
	}

	returns = make([]float64, len(values)-1)
	for i := 1; i < len(values); i++ {
		if values[i-1] == 0 {
			return nil, false
		}
		returns[i-1] = (values[i] - values[i-1]) / values[i-1]
	}

	return returns, true
}

// AnnualizedVolatility scales the sample standard deviation of period returns
// by sqrt(periodsPerYear). Returned as a fraction (0.2 = 20%).
//
// Returns nil when fewer than two returns are available.
func AnnualizedVolatility(returns []float64, periodsPerYear float64) *float64 {
	if len(returns) < 2 || periodsPerYear <= 0 {
		return nil
	}

	volatility := StdDev(returns) * math.Sqrt(periodsPerYear)
	return &volatility
}

// Covariance calculates the sample covariance between two equal-length datasets
func Covariance(x, y []float64) float64 {
	if len(x) < 2 || len(x) != len(y) {
		return 0
	}
	return stat.Covariance(x, y, nil)
}

// Correlation calculates the Pearson correlation coefficient.
// Returns nil when either series is constant or the lengths differ.
func Correlation(x, y []float64) *float64 {
	if len(x) < 2 || len(x) != len(y) {
		return nil
	}
	if StdDev(x) == 0 || StdDev(y) == 0 {
		return nil
	}

	corr := stat.Correlation(x, y, nil)
	return &corr
}

// CalculateBeta measures the sensitivity of asset returns to market returns:
// cov(asset, market) / var(market).
//
// The series are aligned on their most recent observations. Returns nil when
// fewer than two aligned points exist or the market series has no variance.
func CalculateBeta(assetReturns, marketReturns []float64) *float64 {
	n := min(len(assetReturns), len(marketReturns))
	if n < 2 {
		return nil
	}

	asset := assetReturns[len(assetReturns)-n:]
	market := marketReturns[len(marketReturns)-n:]

	marketVariance := Variance(market)
	if marketVariance == 0 {
		return nil
	}

	beta := Covariance(asset, market) / marketVariance
	if math.IsNaN(beta) || math.IsInf(beta, 0) {
		return nil
	}
	return &beta
}
