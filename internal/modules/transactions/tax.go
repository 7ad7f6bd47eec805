package transactions

import (
	"sort"

	"github.com/aristath/folio/internal/domain"
	"github.com/shopspring/decimal"
)

// Estimate methods reported in TaxSummary.EstimateMethod
const (
	MethodFixedRate   = "fixed_rate"
	MethodAverageCost = "average_cost"
)

// DefaultGainRate is the share of sell proceeds assumed to be gain when no
// cost information is used
const DefaultGainRate = 0.20

// GainEstimator estimates realized gains for one calendar year
type GainEstimator interface {
	// Method names the estimation strategy
	Method() string
	// RealizedGain returns the estimated realized gain of sells dated in year.
	// ledger is the full transaction history, so cost-based strategies can
	// replay earlier buys.
	RealizedGain(ledger []domain.Transaction, year int) float64
	// Approximate reports whether the figure is a proxy rather than derived
	// from cost basis
	Approximate() bool
}

// FixedRateEstimator assumes a fixed fraction of sell proceeds is gain
type FixedRateEstimator struct {
	Rate float64
}

func (e FixedRateEstimator) Method() string    { return MethodFixedRate }
func (e FixedRateEstimator) Approximate() bool { return true }

func (e FixedRateEstimator) RealizedGain(ledger []domain.Transaction, year int) float64 {
	proceeds := 0.0
	for _, tx := range ledger {
		if tx.Type == domain.TransactionTypeSell && tx.Date.UTC().Year() == year {
			proceeds += tx.Total
		}
	}
	return proceeds * e.Rate
}

// AverageCostEstimator replays the ledger in date order under the average
// cost model: each sell realizes net proceeds minus quantity × average cost.
type AverageCostEstimator struct{}

func (AverageCostEstimator) Method() string    { return MethodAverageCost }
func (AverageCostEstimator) Approximate() bool { return false }

type holding struct {
	quantity decimal.Decimal
	avgCost  decimal.Decimal
}

func (AverageCostEstimator) RealizedGain(ledger []domain.Transaction, year int) float64 {
	ordered := make([]domain.Transaction, len(ledger))
	copy(ordered, ledger)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Date.Before(ordered[j].Date)
	})

	holdings := make(map[string]*holding)
	gain := decimal.Zero
	for _, tx := range ordered {
		h, ok := holdings[tx.Symbol]
		if !ok {
			h = &holding{quantity: decimal.Zero, avgCost: decimal.Zero}
			holdings[tx.Symbol] = h
		}

		qty := decimal.NewFromFloat(tx.Quantity)
		total := decimal.NewFromFloat(tx.Total)

		switch tx.Type {
		case domain.TransactionTypeBuy:
			newQty := h.quantity.Add(qty)
			if newQty.IsPositive() {
				h.avgCost = h.quantity.Mul(h.avgCost).Add(total).Div(newQty)
			}
			h.quantity = newQty

		case domain.TransactionTypeSell:
			matched := decimal.Min(qty, h.quantity)
			if tx.Date.UTC().Year() == year {
				net := total.Sub(decimal.NewFromFloat(tx.Fees))
				gain = gain.Add(net.Sub(matched.Mul(h.avgCost)))
			}
			h.quantity = h.quantity.Sub(matched)
			if !h.quantity.IsPositive() {
				h.quantity = decimal.Zero
				h.avgCost = decimal.Zero
			}
		}
	}

	return gain.InexactFloat64()
}

// TaxSummary is the yearly tax-relevant activity
type TaxSummary struct {
	Year                  int     `json:"year"`
	SellCount             int     `json:"sell_count"`
	SellProceeds          float64 `json:"sell_proceeds"`
	DividendIncome        float64 `json:"dividend_income"`
	EstimatedRealizedGain float64 `json:"estimated_realized_gain"`
	EstimateMethod        string  `json:"estimate_method"`
	IsEstimate            bool    `json:"is_estimate"`
}

// YearTaxSummary sums sells and dividends dated in year and estimates the
// realized gain with the supplied strategy
func YearTaxSummary(ledger []domain.Transaction, year int, estimator GainEstimator) TaxSummary {
	if estimator == nil {
		estimator = FixedRateEstimator{Rate: DefaultGainRate}
	}

	s := TaxSummary{
		Year:           year,
		EstimateMethod: estimator.Method(),
		IsEstimate:     estimator.Approximate(),
	}
	for _, tx := range ledger {
		if tx.Date.UTC().Year() != year {
			continue
		}
		switch tx.Type {
		case domain.TransactionTypeSell:
			s.SellCount++
			s.SellProceeds += tx.Total
		case domain.TransactionTypeDividend:
			s.DividendIncome += tx.Total
		}
	}
	s.EstimatedRealizedGain = estimator.RealizedGain(ledger, year)
	return s
}
