// Package allocation groups positions into value and percentage breakdowns.
package allocation

import (
	"sort"

	"github.com/aristath/folio/internal/domain"
)

// KeySelector maps a position to the group it belongs to
type KeySelector func(domain.Position) string

// Allocation is the aggregate of one group
type Allocation struct {
	Key        string  `json:"key"`
	Value      float64 `json:"value"`
	Percentage float64 `json:"percentage"`
	Count      int     `json:"count"`
}

// BySector groups positions by sector label
func BySector(p domain.Position) string {
	return p.Sector
}

// ByAssetType groups positions by asset-type tag
func ByAssetType(p domain.Position) string {
	return string(p.AssetType)
}

// AggregateBy sums market value and counts positions per key.
// Groups are sorted by value descending; equal values keep the order in which
// their key was first encountered. Percentages are of the total market value
// of all positions, and 0 when that total is 0.
func AggregateBy(positions []domain.Position, key KeySelector) []Allocation {
	index := make(map[string]int)
	groups := make([]Allocation, 0)
	total := 0.0

	for _, p := range positions {
		k := key(p)
		i, ok := index[k]
		if !ok {
			i = len(groups)
			index[k] = i
			groups = append(groups, Allocation{Key: k})
		}
		mv := p.MarketValue()
		groups[i].Value += mv
		groups[i].Count++
		total += mv
	}

	if total > 0 {
		for i := range groups {
			groups[i].Percentage = groups[i].Value / total * 100
		}
	}

	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].Value > groups[j].Value
	})

	return groups
}

// SectorAllocations returns the sector breakdown report
func SectorAllocations(positions []domain.Position) []domain.SectorAllocation {
	groups := AggregateBy(positions, BySector)
	out := make([]domain.SectorAllocation, len(groups))
	for i, g := range groups {
		out[i] = domain.SectorAllocation{Sector: g.Key, Value: g.Value, Percentage: g.Percentage, Count: g.Count}
	}
	return out
}

// AssetAllocations returns the asset-type breakdown report
func AssetAllocations(positions []domain.Position) []domain.AssetAllocation {
	groups := AggregateBy(positions, ByAssetType)
	out := make([]domain.AssetAllocation, len(groups))
	for i, g := range groups {
		out[i] = domain.AssetAllocation{AssetType: g.Key, Value: g.Value, Percentage: g.Percentage}
	}
	return out
}
