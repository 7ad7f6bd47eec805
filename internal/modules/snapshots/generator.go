// Package snapshots builds the portfolio value time series: synthesized from
// current holdings when no history exists, or read from recorded daily
// valuations.
package snapshots

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/aristath/folio/internal/domain"
)

const (
	// DefaultTrend is the annual drift backed out of the synthesized history
	DefaultTrend = 0.10
	// DefaultNoise bounds the uniform day-to-day perturbation
	DefaultNoise = 0.02
	// MaxLookbackDays caps the series length when Options.MaxDays is unset
	MaxLookbackDays = 36500
)

// Options controls snapshot synthesis
type Options struct {
	Now   time.Time  // end of the series; truncated to the UTC day
	Rand  *rand.Rand // source of noise; nil disables noise
	Trend float64    // fraction of value removed per 365 days back
	Noise float64    // noise is uniform in [-Noise, +Noise]
	// MaxDays rejects longer lookbacks; 0 means MaxLookbackDays
	MaxDays int
}

// DefaultOptions returns the standard synthesis parameters with a seeded source
func DefaultOptions(now time.Time, seed uint64) Options {
	return Options{
		Now:   now,
		Rand:  rand.New(rand.NewPCG(seed, seed)),
		Trend: DefaultTrend,
		Noise: DefaultNoise,
	}
}

// GenerateSnapshots synthesizes lookbackDays+1 daily snapshots, oldest first,
// ending at opts.Now. The last snapshot values positions at their current
// prices exactly; earlier days scale every price, and so today's aggregate
// market value, by
//
//	factor(d) = 1 - Trend·d/365 + noise,  clamped at 0
//
// where d is the number of days ago.
//
// Cash-type positions are part of that aggregate and scale with it, while
// CashBalance is reported as given on every day. On simulated days the cash
// inside TotalValue therefore differs from CashBalance; recorded history
// values cash at its actual price.
func GenerateSnapshots(positions []domain.Position, lookbackDays int, cashBalance float64, opts Options) ([]domain.PortfolioSnapshot, error) {
	if lookbackDays < 0 {
		return nil, fmt.Errorf("lookback days %d is negative: %w", lookbackDays, domain.ErrInvalidInput)
	}
	maxDays := opts.MaxDays
	if maxDays <= 0 || maxDays > MaxLookbackDays {
		maxDays = MaxLookbackDays
	}
	if lookbackDays > maxDays {
		return nil, fmt.Errorf("lookback days %d exceeds the limit of %d: %w", lookbackDays, maxDays, domain.ErrInvalidInput)
	}
	if err := domain.ValidatePositions(positions); err != nil {
		return nil, err
	}
	if opts.Now.IsZero() {
		opts.Now = time.Now()
	}
	end := domain.Day(opts.Now)

	snapshots := make([]domain.PortfolioSnapshot, 0, lookbackDays+1)
	for d := lookbackDays; d >= 0; d-- {
		f := factor(d, opts)

		valued := make([]domain.PositionValuation, 0, len(positions))
		total := 0.0
		for _, p := range positions {
			p.CurrentPrice *= f
			v := p.Valuation()
			total += v.MarketValue
			valued = append(valued, v)
		}

		snapshots = append(snapshots, domain.PortfolioSnapshot{
			Date:        end.AddDate(0, 0, -d),
			TotalValue:  total,
			CashBalance: cashBalance,
			Positions:   valued,
		})
	}

	return snapshots, nil
}

func factor(daysAgo int, opts Options) float64 {
	if daysAgo == 0 {
		return 1
	}
	f := 1 - opts.Trend*float64(daysAgo)/365
	if opts.Rand != nil && opts.Noise > 0 {
		f += (opts.Rand.Float64()*2 - 1) * opts.Noise
	}
	if f < 0 {
		return 0
	}
	return f
}
