package metrics

import (
	"github.com/aristath/folio/internal/domain"
	"github.com/aristath/folio/pkg/formulas"
)

// CorrelationMatrix returns the Pearson correlation of per-symbol price
// returns, using the position prices carried by each snapshot. Only symbols
// held in every snapshot are included; pairs whose correlation is undefined
// (constant prices, zero prices) are omitted.
func CorrelationMatrix(snapshots []domain.PortfolioSnapshot) (map[string]map[string]float64, error) {
	if err := ValidateSeries(snapshots); err != nil {
		return nil, err
	}

	order, returns := symbolReturns(snapshots)

	matrix := make(map[string]map[string]float64, len(order))
	for _, a := range order {
		for _, b := range order {
			corr := formulas.Correlation(returns[a], returns[b])
			if corr == nil {
				continue
			}
			if matrix[a] == nil {
				matrix[a] = make(map[string]float64)
			}
			matrix[a][b] = *corr
		}
	}

	return matrix, nil
}

// symbolReturns extracts per-symbol price returns for the symbols held in
// every snapshot. Symbols with fewer than two returns or a zero price are
// left out.
func symbolReturns(snapshots []domain.PortfolioSnapshot) ([]string, map[string][]float64) {
	symbols := heldThroughout(snapshots)
	returns := make(map[string][]float64, len(symbols))
	order := make([]string, 0, len(symbols))
	for _, symbol := range symbols {
		prices := make([]float64, 0, len(snapshots))
		for _, s := range snapshots {
			for _, p := range s.Positions {
				if p.Symbol == symbol {
					prices = append(prices, p.CurrentPrice)
					break
				}
			}
		}
		r, ok := formulas.CalculateReturns(prices)
		if !ok || len(r) < 2 {
			continue
		}
		returns[symbol] = r
		order = append(order, symbol)
	}
	return order, returns
}

// heldThroughout returns the symbols of the first snapshot that appear in
// every snapshot, in first-snapshot order
func heldThroughout(snapshots []domain.PortfolioSnapshot) []string {
	counts := make(map[string]int)
	for _, s := range snapshots {
		seen := make(map[string]bool, len(s.Positions))
		for _, p := range s.Positions {
			if !seen[p.Symbol] {
				seen[p.Symbol] = true
				counts[p.Symbol]++
			}
		}
	}

	var symbols []string
	for _, p := range snapshots[0].Positions {
		if counts[p.Symbol] == len(snapshots) {
			symbols = append(symbols, p.Symbol)
			counts[p.Symbol] = 0
		}
	}
	return symbols
}
