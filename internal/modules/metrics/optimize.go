package metrics

import (
	"fmt"
	"math"

	"github.com/aristath/folio/internal/domain"
	"github.com/aristath/folio/pkg/formulas"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// DefaultAssetVolatility is assumed for a symbol whose price history is too
// short or flat to measure
const DefaultAssetVolatility = 0.20

// OptimizationResult is a recommended reallocation of the current holdings.
// Weights are fractions summing to 1; ExpectedReturn and ExpectedVolatility
// are percentages.
type OptimizationResult struct {
	RiskTolerance      float64            `json:"risk_tolerance"`
	CurrentAllocation  map[string]float64 `json:"current_allocation"`
	RecommendedWeights map[string]float64 `json:"recommended_weights"`
	Volatilities       map[string]float64 `json:"volatilities"`
	ExpectedReturn     float64            `json:"expected_return"`
	ExpectedVolatility float64            `json:"expected_volatility"`
	SharpeRatio        *float64           `json:"sharpe_ratio"`
}

// Optimize weights positions by their return-to-volatility score.
//
// Each symbol scores max(gain fraction / annualized volatility, 0), where the
// volatility comes from the symbol's prices across the snapshots. Scores are
// normalized into weights; with no positive score every symbol gets an equal
// weight. A riskTolerance below 0.5 blends the weights toward equal weight,
// reaching it at 0. The expected volatility uses the return covariance when
// every symbol's volatility was measured, and the weighted sum of
// volatilities otherwise.
func Optimize(snapshots []domain.PortfolioSnapshot, positions []domain.Position, riskTolerance float64, opts Options) (OptimizationResult, error) {
	if math.IsNaN(riskTolerance) || riskTolerance < 0 || riskTolerance > 1 {
		return OptimizationResult{}, fmt.Errorf("risk tolerance must be in [0, 1], got %g: %w", riskTolerance, domain.ErrInvalidInput)
	}
	if len(positions) == 0 {
		return OptimizationResult{}, fmt.Errorf("no positions to optimize: %w", domain.ErrInvalidInput)
	}
	if err := domain.ValidatePositions(positions); err != nil {
		return OptimizationResult{}, err
	}
	if len(snapshots) > 0 {
		if err := ValidateSeries(snapshots); err != nil {
			return OptimizationResult{}, err
		}
	}
	opts = withDefaults(opts)

	total := 0.0
	for _, p := range positions {
		total += p.MarketValue()
	}
	if total <= 0 {
		return OptimizationResult{}, fmt.Errorf("portfolio has no market value: %w", domain.ErrInvalidInput)
	}

	var returns map[string][]float64
	if len(snapshots) > 0 {
		_, returns = symbolReturns(snapshots)
	}

	result := OptimizationResult{
		RiskTolerance:      riskTolerance,
		CurrentAllocation:  make(map[string]float64, len(positions)),
		RecommendedWeights: make(map[string]float64, len(positions)),
		Volatilities:       make(map[string]float64, len(positions)),
	}

	gains := make(map[string]float64, len(positions))
	scores := make(map[string]float64, len(positions))
	measured := true
	totalScore := 0.0
	for _, p := range positions {
		result.CurrentAllocation[p.Symbol] = p.MarketValue() / total

		vol := DefaultAssetVolatility
		if v := formulas.AnnualizedVolatility(returns[p.Symbol], opts.AnnualizationFactor); v != nil && *v > 0 {
			vol = *v
		} else {
			measured = false
		}
		result.Volatilities[p.Symbol] = vol

		if pct := p.GainLossPercent(); pct != nil {
			gains[p.Symbol] = *pct / 100
		}
		scores[p.Symbol] = math.Max(gains[p.Symbol]/vol, 0)
		totalScore += scores[p.Symbol]
	}

	equal := 1 / float64(len(positions))
	weightSum := 0.0
	for _, p := range positions {
		w := equal
		if totalScore > 0 {
			w = scores[p.Symbol] / totalScore
			if riskTolerance < 0.5 {
				w = w*riskTolerance*2 + equal*(1-riskTolerance*2)
			}
		}
		result.RecommendedWeights[p.Symbol] = w
		weightSum += w
	}

	expectedReturn := 0.0
	for _, p := range positions {
		result.RecommendedWeights[p.Symbol] /= weightSum
		expectedReturn += gains[p.Symbol] * result.RecommendedWeights[p.Symbol]
	}

	expectedVol := 0.0
	if measured {
		symbols := make([]string, len(positions))
		for i, p := range positions {
			symbols[i] = p.Symbol
		}
		expectedVol = portfolioVolatility(symbols, returns, result.RecommendedWeights, opts.AnnualizationFactor)
	} else {
		for _, p := range positions {
			expectedVol += result.RecommendedWeights[p.Symbol] * result.Volatilities[p.Symbol]
		}
	}

	result.ExpectedReturn = expectedReturn * 100
	result.ExpectedVolatility = expectedVol * 100
	if expectedVol > 0 {
		sharpe := (expectedReturn - opts.RiskFreeRate) / expectedVol
		result.SharpeRatio = &sharpe
	}

	return result, nil
}

// portfolioVolatility annualizes sqrt(wᵀΣw) over the return covariance.
// Every symbol must have a return series of the same length.
func portfolioVolatility(symbols []string, returns map[string][]float64, weights map[string]float64, periodsPerYear float64) float64 {
	periods := len(returns[symbols[0]])
	data := mat.NewDense(periods, len(symbols), nil)
	w := mat.NewVecDense(len(symbols), nil)
	for j, symbol := range symbols {
		data.SetCol(j, returns[symbol])
		w.SetVec(j, weights[symbol])
	}

	var cov mat.SymDense
	stat.CovarianceMatrix(&cov, data, nil)
	variance := mat.Inner(w, &cov, w)
	return math.Sqrt(math.Max(variance, 0) * periodsPerYear)
}
