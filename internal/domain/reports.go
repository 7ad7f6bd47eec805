package domain

// Beta sources reported alongside PerformanceMetrics.Beta
const (
	BetaSourceBenchmark = "benchmark"
	BetaSourceDefault   = "default"
)

// PerformanceMetrics is a derived, stateless report.
//
// Percentages are numeric percentage values (12.5 means 12.5%). Pointer fields
// are null when the metric is undefined for the input (zero denominators,
// too few observations).
type PerformanceMetrics struct {
	TotalReturn          float64  `json:"total_return"`
	TotalReturnPercent   *float64 `json:"total_return_percent"`
	DailyReturn          float64  `json:"daily_return"`
	DailyReturnPercent   *float64 `json:"daily_return_percent"`
	MonthlyReturn        float64  `json:"monthly_return"`
	MonthlyReturnPercent *float64 `json:"monthly_return_percent"`
	YTDReturn            float64  `json:"ytd_return"`
	YTDReturnPercent     *float64 `json:"ytd_return_percent"`
	Volatility           *float64 `json:"volatility"`
	SharpeRatio          *float64 `json:"sharpe_ratio"`
	MaxDrawdown          float64  `json:"max_drawdown"`
	Beta                 float64  `json:"beta"`
	BetaSource           string   `json:"beta_source"`
}

// SectorAllocation is the share of portfolio value held in one sector
type SectorAllocation struct {
	Sector     string  `json:"sector"`
	Value      float64 `json:"value"`
	Percentage float64 `json:"percentage"`
	Count      int     `json:"count"`
}

// AssetAllocation is the share of portfolio value held in one asset type
type AssetAllocation struct {
	AssetType  string  `json:"asset_type"`
	Value      float64 `json:"value"`
	Percentage float64 `json:"percentage"`
}
