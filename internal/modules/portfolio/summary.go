// Package portfolio provides the position store and portfolio-level valuation.
package portfolio

import "github.com/aristath/folio/internal/domain"

// Summary is the valuation of the whole book at current prices
type Summary struct {
	TotalValue           float64  `json:"total_value"`
	TotalCost            float64  `json:"total_cost"`
	TotalGainLoss        float64  `json:"total_gain_loss"`
	TotalGainLossPercent *float64 `json:"total_gain_loss_percent"`
	CashBalance          float64  `json:"cash_balance"`
	InvestedValue        float64  `json:"invested_value"`
	PositionCount        int      `json:"position_count"`
}

// Summarize values a set of positions. Cash is the market value of cash-type
// positions and is included in the total.
func Summarize(positions []domain.Position) Summary {
	var s Summary
	for _, p := range positions {
		mv := p.MarketValue()
		s.TotalValue += mv
		s.TotalCost += p.CostValue()
		if p.AssetType == domain.AssetTypeCash {
			s.CashBalance += mv
		}
	}
	s.TotalGainLoss = s.TotalValue - s.TotalCost
	s.InvestedValue = s.TotalValue - s.CashBalance
	s.PositionCount = len(positions)
	if s.TotalCost != 0 {
		pct := s.TotalGainLoss / s.TotalCost * 100
		s.TotalGainLossPercent = &pct
	}
	return s
}

// CashBalance returns the market value held in cash-type positions
func CashBalance(positions []domain.Position) float64 {
	var cash float64
	for _, p := range positions {
		if p.AssetType == domain.AssetTypeCash {
			cash += p.MarketValue()
		}
	}
	return cash
}

// Valuations returns the serializable view of each position
func Valuations(positions []domain.Position) []domain.PositionValuation {
	out := make([]domain.PositionValuation, 0, len(positions))
	for _, p := range positions {
		out = append(out, p.Valuation())
	}
	return out
}
