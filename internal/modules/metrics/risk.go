package metrics

import (
	"github.com/aristath/folio/internal/domain"
	"github.com/aristath/folio/pkg/formulas"
)

// RiskAnalysis reports tail-risk and drawdown figures as positive percentages
type RiskAnalysis struct {
	VaR95            float64  `json:"var_95"`
	VaR99            float64  `json:"var_99"`
	CVaR95           float64  `json:"cvar_95"`
	Volatility       *float64 `json:"volatility"`
	MaxDrawdown      float64  `json:"max_drawdown"`
	CurrentDrawdown  float64  `json:"current_drawdown"`
	PeriodsSincePeak int      `json:"periods_since_peak"`
	PeakValue        float64  `json:"peak_value"`
	Observations     int      `json:"observations"`
}

// ComputeRisk derives historical VaR/CVaR and drawdown details from the
// snapshot series. With fewer than two usable returns the tail figures are 0.
func ComputeRisk(snapshots []domain.PortfolioSnapshot, opts Options) (RiskAnalysis, error) {
	if err := ValidateSeries(snapshots); err != nil {
		return RiskAnalysis{}, err
	}
	opts = withDefaults(opts)

	values := Values(snapshots)
	dd := formulas.CalculateDrawdownMetrics(values)

	r := RiskAnalysis{
		MaxDrawdown:      dd.MaxDrawdown * 100,
		CurrentDrawdown:  dd.CurrentDrawdown * 100,
		PeriodsSincePeak: dd.PeriodsSincePeak,
		PeakValue:        dd.PeakValue,
	}

	returns, ok := formulas.CalculateReturns(values)
	if !ok {
		return r, nil
	}
	r.Observations = len(returns)

	if vol := formulas.AnnualizedVolatility(returns, opts.AnnualizationFactor); vol != nil {
		pct := *vol * 100
		r.Volatility = &pct
	}
	if len(returns) >= 2 {
		r.VaR95 = lossPercent(formulas.CalculateVaR(returns, 0.95))
		r.VaR99 = lossPercent(formulas.CalculateVaR(returns, 0.99))
		r.CVaR95 = lossPercent(formulas.CalculateCVaR(returns, 0.95))
	}

	return r, nil
}

// lossPercent reports a return threshold as the magnitude of the loss
func lossPercent(ret float64) float64 {
	if ret < 0 {
		return -ret * 100
	}
	return ret * 100
}
