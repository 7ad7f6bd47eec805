package transactions

import (
	"fmt"
	"sort"

	"github.com/aristath/folio/internal/domain"
)

// monthsKept bounds the monthly volume report
const monthsKept = 12

// TypeTotal is the count and summed total of one transaction type
type TypeTotal struct {
	Count  int     `json:"count"`
	Amount float64 `json:"amount"`
}

// TotalsByType counts and sums transactions per type. Every type is present,
// zero-valued when unused.
func TotalsByType(txns []domain.Transaction) map[domain.TransactionType]TypeTotal {
	totals := make(map[domain.TransactionType]TypeTotal, len(domain.TransactionTypes))
	for _, t := range domain.TransactionTypes {
		totals[t] = TypeTotal{}
	}
	for _, tx := range txns {
		tt, ok := totals[tx.Type]
		if !ok {
			continue
		}
		tt.Count++
		tt.Amount += tx.Total
		totals[tx.Type] = tt
	}
	return totals
}

// MonthlyVolume is the summed totals of one calendar month
type MonthlyVolume struct {
	Period    string  `json:"period"` // YYYY-MM
	Buys      float64 `json:"buys"`
	Sells     float64 `json:"sells"`
	Dividends float64 `json:"dividends"`
}

// MonthlyVolumes buckets totals by calendar month (UTC), chronologically,
// keeping the most recent 12 months that have activity.
func MonthlyVolumes(txns []domain.Transaction) []MonthlyVolume {
	buckets := make(map[string]*MonthlyVolume)
	for _, tx := range txns {
		period := tx.Date.UTC().Format("2006-01")
		b, ok := buckets[period]
		if !ok {
			b = &MonthlyVolume{Period: period}
			buckets[period] = b
		}
		switch tx.Type {
		case domain.TransactionTypeBuy:
			b.Buys += tx.Total
		case domain.TransactionTypeSell:
			b.Sells += tx.Total
		case domain.TransactionTypeDividend:
			b.Dividends += tx.Total
		}
	}

	out := make([]MonthlyVolume, 0, len(buckets))
	for _, b := range buckets {
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Period < out[j].Period })

	if len(out) > monthsKept {
		out = out[len(out)-monthsKept:]
	}
	return out
}

// SymbolVolume is the traded value of one symbol
type SymbolVolume struct {
	Symbol string  `json:"symbol"`
	Volume float64 `json:"volume"`
	Trades int     `json:"trades"`
}

// TopTraded ranks symbols by summed buy and sell totals, descending, ties by
// symbol. Dividends are not trades and are ignored.
func TopTraded(txns []domain.Transaction, n int) ([]SymbolVolume, error) {
	if n < 0 {
		return nil, fmt.Errorf("top traded limit %d is negative: %w", n, domain.ErrInvalidInput)
	}

	index := make(map[string]int)
	volumes := make([]SymbolVolume, 0)
	for _, tx := range txns {
		if tx.Type != domain.TransactionTypeBuy && tx.Type != domain.TransactionTypeSell {
			continue
		}
		i, ok := index[tx.Symbol]
		if !ok {
			i = len(volumes)
			index[tx.Symbol] = i
			volumes = append(volumes, SymbolVolume{Symbol: tx.Symbol})
		}
		volumes[i].Volume += tx.Total
		volumes[i].Trades++
	}

	sort.Slice(volumes, func(i, j int) bool {
		if volumes[i].Volume != volumes[j].Volume {
			return volumes[i].Volume > volumes[j].Volume
		}
		return volumes[i].Symbol < volumes[j].Symbol
	})

	if len(volumes) > n {
		volumes = volumes[:n]
	}
	return volumes, nil
}
