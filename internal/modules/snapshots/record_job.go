package snapshots

import (
	"context"
	"fmt"
	"time"

	"github.com/aristath/folio/internal/domain"
	"github.com/aristath/folio/internal/modules/portfolio"
	"github.com/rs/zerolog"
)

// PositionSource supplies the current holdings
type PositionSource interface {
	GetAll(ctx context.Context) ([]domain.Position, error)
}

// RecordJob values the current holdings and stores one snapshot for today.
// Running it more than once a day overwrites that day's snapshot.
type RecordJob struct {
	positions PositionSource
	history   *HistoryRepository
	now       func() time.Time
	timeout   time.Duration
	log       zerolog.Logger
}

// NewRecordJob creates a new snapshot recording job
func NewRecordJob(positions PositionSource, history *HistoryRepository, log zerolog.Logger) *RecordJob {
	return &RecordJob{
		positions: positions,
		history:   history,
		now:       time.Now,
		timeout:   30 * time.Second,
		log:       log.With().Str("job", "record_snapshot").Logger(),
	}
}

// Name returns the job name
func (j *RecordJob) Name() string {
	return "record_snapshot"
}

// Run executes the job
func (j *RecordJob) Run() error {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	snapshot, err := j.Record(ctx)
	if err != nil {
		return err
	}

	j.log.Info().
		Time("date", snapshot.Date).
		Float64("total_value", snapshot.TotalValue).
		Int("positions", len(snapshot.Positions)).
		Msg("Portfolio snapshot recorded")
	return nil
}

// Record builds today's snapshot from current holdings and stores it
func (j *RecordJob) Record(ctx context.Context) (domain.PortfolioSnapshot, error) {
	positions, err := j.positions.GetAll(ctx)
	if err != nil {
		return domain.PortfolioSnapshot{}, fmt.Errorf("failed to load positions: %w", err)
	}

	snapshot := Value(positions, j.now())
	if err := j.history.Upsert(ctx, snapshot); err != nil {
		return domain.PortfolioSnapshot{}, err
	}
	return snapshot, nil
}

// Value builds the snapshot of positions at their current prices for the UTC
// day containing at
func Value(positions []domain.Position, at time.Time) domain.PortfolioSnapshot {
	summary := portfolio.Summarize(positions)
	return domain.PortfolioSnapshot{
		Date:        domain.Day(at),
		TotalValue:  summary.TotalValue,
		CashBalance: summary.CashBalance,
		Positions:   portfolio.Valuations(positions),
	}
}
