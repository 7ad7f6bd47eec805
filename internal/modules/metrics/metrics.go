// Package metrics computes performance and risk reports from a portfolio
// value series. All functions are pure; undefined ratios are reported as nil.
package metrics

import (
	"fmt"
	"time"

	"github.com/aristath/folio/internal/domain"
	"github.com/aristath/folio/pkg/formulas"
)

// Options configures the metrics engine
type Options struct {
	RiskFreeRate        float64   // annual, as a fraction
	AnnualizationFactor float64   // periods per year used to scale volatility
	MonthlyWindow       int       // snapshots back for the monthly return
	Benchmark           []float64 // periodic fractional benchmark returns, most recent last
	DefaultBeta         float64   // reported when beta cannot be measured
}

// DefaultOptions returns the standard configuration
func DefaultOptions() Options {
	return Options{
		RiskFreeRate:        0.04,
		AnnualizationFactor: 252,
		MonthlyWindow:       30,
		DefaultBeta:         1.0,
	}
}

// ComputeMetrics derives the performance report for a chronologically ordered
// snapshot series and the current positions.
func ComputeMetrics(snapshots []domain.PortfolioSnapshot, positions []domain.Position, opts Options) (domain.PerformanceMetrics, error) {
	if err := ValidateSeries(snapshots); err != nil {
		return domain.PerformanceMetrics{}, err
	}
	if err := domain.ValidatePositions(positions); err != nil {
		return domain.PerformanceMetrics{}, err
	}
	opts = withDefaults(opts)

	var m domain.PerformanceMetrics
	values := Values(snapshots)
	n := len(values)
	latest := values[n-1]

	var marketValue, costValue float64
	for _, p := range positions {
		marketValue += p.MarketValue()
		costValue += p.CostValue()
	}
	m.TotalReturn = marketValue - costValue
	m.TotalReturnPercent = percentOf(m.TotalReturn, costValue)

	if n >= 2 {
		m.DailyReturn, m.DailyReturnPercent = change(values[n-2], latest)
	} else {
		zero := 0.0
		m.DailyReturnPercent = &zero
	}

	monthlyIdx := n - 1 - opts.MonthlyWindow
	if monthlyIdx < 0 {
		monthlyIdx = 0
	}
	m.MonthlyReturn, m.MonthlyReturnPercent = change(values[monthlyIdx], latest)

	ytdIdx := yearStartIndex(snapshots)
	m.YTDReturn, m.YTDReturnPercent = change(values[ytdIdx], latest)

	returns, ok := formulas.CalculateReturns(values)
	if ok {
		if vol := formulas.AnnualizedVolatility(returns, opts.AnnualizationFactor); vol != nil {
			pct := *vol * 100
			m.Volatility = &pct
		}
	}

	if m.Volatility != nil && m.TotalReturnPercent != nil && *m.Volatility != 0 {
		sharpe := (*m.TotalReturnPercent/100 - opts.RiskFreeRate) / (*m.Volatility / 100)
		m.SharpeRatio = &sharpe
	}

	m.MaxDrawdown = formulas.CalculateMaxDrawdown(values) * 100

	m.Beta, m.BetaSource = opts.DefaultBeta, domain.BetaSourceDefault
	if ok && len(opts.Benchmark) > 0 {
		if beta := formulas.CalculateBeta(returns, opts.Benchmark); beta != nil {
			m.Beta, m.BetaSource = *beta, domain.BetaSourceBenchmark
		}
	}

	return m, nil
}

// ValidateSeries checks that a snapshot series is non-empty, strictly
// increasing in time and free of negative values.
func ValidateSeries(snapshots []domain.PortfolioSnapshot) error {
	if len(snapshots) == 0 {
		return fmt.Errorf("snapshot series is empty: %w", domain.ErrInvalidInput)
	}
	for i, s := range snapshots {
		if s.TotalValue < 0 {
			return fmt.Errorf("snapshot %d has negative value %v: %w", i, s.TotalValue, domain.ErrInvalidInput)
		}
		if i > 0 && !s.Date.After(snapshots[i-1].Date) {
			return fmt.Errorf("snapshot %d at %s is not after %s: %w",
				i, s.Date.Format(time.RFC3339), snapshots[i-1].Date.Format(time.RFC3339), domain.ErrInvalidInput)
		}
	}
	return nil
}

// Values extracts the total value of each snapshot
func Values(snapshots []domain.PortfolioSnapshot) []float64 {
	values := make([]float64, len(snapshots))
	for i, s := range snapshots {
		values[i] = s.TotalValue
	}
	return values
}

func withDefaults(opts Options) Options {
	defaults := DefaultOptions()
	if opts.AnnualizationFactor <= 0 {
		opts.AnnualizationFactor = defaults.AnnualizationFactor
	}
	if opts.MonthlyWindow <= 0 {
		opts.MonthlyWindow = defaults.MonthlyWindow
	}
	return opts
}

// change returns the absolute and percent change from base to latest.
// The percent is nil when base is zero.
func change(base, latest float64) (float64, *float64) {
	diff := latest - base
	return diff, percentOf(diff, base)
}

func percentOf(part, whole float64) *float64 {
	if whole == 0 {
		return nil
	}
	pct := part / whole * 100
	return &pct
}

// yearStartIndex returns the first snapshot on or after January 1 of the
// latest snapshot's year, or 0 if none qualifies.
func yearStartIndex(snapshots []domain.PortfolioSnapshot) int {
	latest := snapshots[len(snapshots)-1].Date.UTC()
	jan1 := time.Date(latest.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	for i, s := range snapshots {
		if !s.Date.Before(jan1) {
			return i
		}
	}
	return 0
}
