package formulas

// DrawdownMetrics represents drawdown analysis results.
// Drawdowns are fractions of the running peak (0.25 = 25% below peak).
type DrawdownMetrics struct {
	MaxDrawdown      float64 `json:"max_drawdown"`
	CurrentDrawdown  float64 `json:"current_drawdown"`
	PeriodsSincePeak int     `json:"periods_since_peak"`
	PeakValue        float64 `json:"peak_value"`
	CurrentValue     float64 `json:"current_value"`
}

// CalculateMaxDrawdown scans the series once, tracking the running peak.
//
// Drawdown = (Peak - Value) / Peak, Max Drawdown = maximum over the series.
// Points where the running peak is not positive contribute no drawdown, so the
// result always lies in [0, 1] for non-negative series.
func CalculateMaxDrawdown(values []float64) float64 {
	return CalculateDrawdownMetrics(values).MaxDrawdown
}

// CalculateDrawdownMetrics calculates max and current drawdown together with
// the peak the current drawdown is measured from.
func CalculateDrawdownMetrics(values []float64) DrawdownMetrics {
	if len(values) == 0 {
		return DrawdownMetrics{}
	}

	maxDrawdown := 0.0
	peak := values[0]
	peakIndex := 0

	for i, value := range values {
		if value > peak {
			peak = value
			peakIndex = i
		}

		if peak > 0 {
			drawdown := (peak - value) / peak
			if drawdown > maxDrawdown {
				maxDrawdown = drawdown
			}
		}
	}

	currentValue := values[len(values)-1]
	currentDrawdown := 0.0
	if peak > 0 {
		currentDrawdown = (peak - currentValue) / peak
	}

	return DrawdownMetrics{
		MaxDrawdown:      maxDrawdown,
		CurrentDrawdown:  currentDrawdown,
		PeriodsSincePeak: len(values) - 1 - peakIndex,
		PeakValue:        peak,
		CurrentValue:     currentValue,
	}
}
