// Package analytics assembles request-scoped datasets from the stores and
// runs the computation engines over them.
package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/aristath/folio/internal/domain"
	"github.com/aristath/folio/internal/modules/ledger"
	"github.com/aristath/folio/internal/modules/metrics"
	"github.com/aristath/folio/internal/modules/portfolio"
	"github.com/aristath/folio/internal/modules/snapshots"
	"github.com/rs/zerolog"
)

// Snapshot sources reported in Dataset.Source
const (
	SourceRecorded  = "recorded"
	SourceSimulated = "simulated"
)

// BookReader supplies a point-in-time copy of positions and the ledger
type BookReader interface {
	Book(ctx context.Context) (ledger.Book, error)
}

// HistorySource supplies recorded daily valuations, oldest first
type HistorySource interface {
	Series(ctx context.Context, days int) ([]domain.PortfolioSnapshot, error)
}

// Config holds analytics settings
type Config struct {
	LookbackDays    int
	MaxLookbackDays int // requests for longer windows are rejected
	Seed         uint64
	Trend        float64
	Noise        float64
	Metrics      metrics.Options
}

// Dataset is the data one request computes over. It is built per call and
// never shared.
type Dataset struct {
	Positions    []domain.Position
	Transactions []domain.Transaction
	Snapshots    []domain.PortfolioSnapshot
	Source       string
}

// Service runs analytics over freshly loaded datasets
type Service struct {
	book    BookReader
	history HistorySource
	cfg     Config
	now     func() time.Time
	log     zerolog.Logger
}

// NewService creates a new analytics service
func NewService(book BookReader, history HistorySource, cfg Config, log zerolog.Logger) *Service {
	if cfg.MaxLookbackDays <= 0 || cfg.MaxLookbackDays > snapshots.MaxLookbackDays {
		cfg.MaxLookbackDays = 3650
	}
	if cfg.LookbackDays <= 0 {
		cfg.LookbackDays = 365
	}
	if cfg.LookbackDays > cfg.MaxLookbackDays {
		cfg.LookbackDays = cfg.MaxLookbackDays
	}
	return &Service{
		book:    book,
		history: history,
		cfg:     cfg,
		now:     time.Now,
		log:     log.With().Str("service", "analytics").Logger(),
	}
}

// Load builds a dataset covering the last days days (the configured lookback
// when days <= 0). Recorded history is used when at least two days exist;
// otherwise the series is synthesized from current holdings. Windows longer
// than MaxLookbackDays are rejected with ErrInvalidInput.
func (s *Service) Load(ctx context.Context, days int) (Dataset, error) {
	if days <= 0 {
		days = s.cfg.LookbackDays
	}
	if days > s.cfg.MaxLookbackDays {
		return Dataset{}, fmt.Errorf("days %d exceeds the limit of %d: %w", days, s.cfg.MaxLookbackDays, domain.ErrInvalidInput)
	}

	book, err := s.book.Book(ctx)
	if err != nil {
		return Dataset{}, err
	}

	ds := Dataset{
		Positions:    book.Positions,
		Transactions: book.Transactions,
	}

	if s.history != nil {
		recorded, err := s.history.Series(ctx, days+1)
		if err != nil {
			return Dataset{}, fmt.Errorf("failed to load snapshot history: %w", err)
		}
		if len(recorded) >= 2 {
			ds.Snapshots = recorded
			ds.Source = SourceRecorded
			return ds, nil
		}
	}

	opts := snapshots.DefaultOptions(s.now(), s.cfg.Seed)
	opts.MaxDays = s.cfg.MaxLookbackDays
	if s.cfg.Trend != 0 {
		opts.Trend = s.cfg.Trend
	}
	if s.cfg.Noise != 0 {
		opts.Noise = s.cfg.Noise
	}

	generated, err := snapshots.GenerateSnapshots(book.Positions, days, portfolio.CashBalance(book.Positions), opts)
	if err != nil {
		return Dataset{}, err
	}
	ds.Snapshots = generated
	ds.Source = SourceSimulated

	s.log.Debug().Int("days", days).Int("positions", len(book.Positions)).Msg("Synthesized snapshot series")
	return ds, nil
}

// Summary values the current holdings
func (s *Service) Summary(ctx context.Context) (portfolio.Summary, error) {
	book, err := s.book.Book(ctx)
	if err != nil {
		return portfolio.Summary{}, err
	}
	return portfolio.Summarize(book.Positions), nil
}

// PerformanceHistory returns the snapshot series for the last days days and
// where it came from
func (s *Service) PerformanceHistory(ctx context.Context, days int) ([]domain.PortfolioSnapshot, string, error) {
	ds, err := s.Load(ctx, days)
	if err != nil {
		return nil, "", err
	}
	return ds.Snapshots, ds.Source, nil
}

// Metrics computes the performance report. benchmark, when non-empty,
// overrides the configured benchmark returns.
func (s *Service) Metrics(ctx context.Context, benchmark []float64) (domain.PerformanceMetrics, error) {
	ds, err := s.Load(ctx, 0)
	if err != nil {
		return domain.PerformanceMetrics{}, err
	}

	opts := s.cfg.Metrics
	if len(benchmark) > 0 {
		opts.Benchmark = benchmark
	}
	return metrics.ComputeMetrics(ds.Snapshots, ds.Positions, opts)
}

// Risk computes VaR, CVaR and drawdown details
func (s *Service) Risk(ctx context.Context) (metrics.RiskAnalysis, error) {
	ds, err := s.Load(ctx, 0)
	if err != nil {
		return metrics.RiskAnalysis{}, err
	}
	return metrics.ComputeRisk(ds.Snapshots, s.cfg.Metrics)
}

// Correlation computes the correlation matrix of held symbols
func (s *Service) Correlation(ctx context.Context) (map[string]map[string]float64, error) {
	ds, err := s.Load(ctx, 0)
	if err != nil {
		return nil, err
	}
	return metrics.CorrelationMatrix(ds.Snapshots)
}

// Optimize recommends weights for the current holdings
func (s *Service) Optimize(ctx context.Context, riskTolerance float64) (metrics.OptimizationResult, error) {
	ds, err := s.Load(ctx, 0)
	if err != nil {
		return metrics.OptimizationResult{}, err
	}
	return metrics.Optimize(ds.Snapshots, ds.Positions, riskTolerance, s.cfg.Metrics)
}
