package snapshots

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aristath/folio/internal/database"
	"github.com/aristath/folio/internal/domain"
	"github.com/rs/zerolog"
)

// HistoryRepository stores recorded daily portfolio valuations (history.db)
type HistoryRepository struct {
	db  database.Querier
	log zerolog.Logger
}

// NewHistoryRepository creates a new history repository
func NewHistoryRepository(db database.Querier, log zerolog.Logger) *HistoryRepository {
	return &HistoryRepository{
		db:  db,
		log: log.With().Str("repo", "history").Logger(),
	}
}

// Upsert stores the snapshot for its UTC day, replacing any earlier recording
// for the same day
func (r *HistoryRepository) Upsert(ctx context.Context, snapshot domain.PortfolioSnapshot) error {
	if snapshot.TotalValue < 0 {
		return fmt.Errorf("snapshot total value %v is negative: %w", snapshot.TotalValue, domain.ErrInvalidInput)
	}

	positions := snapshot.Positions
	if positions == nil {
		positions = []domain.PositionValuation{}
	}
	positionsJSON, err := json.Marshal(positions)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot positions: %w", err)
	}

	date := domain.Day(snapshot.Date).Format(domain.DateLayout)
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO portfolio_snapshots (date, total_value, cash_balance, positions_json, recorded_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(date) DO UPDATE SET
			total_value = excluded.total_value,
			cash_balance = excluded.cash_balance,
			positions_json = excluded.positions_json,
			recorded_at = excluded.recorded_at`,
		date,
		snapshot.TotalValue,
		snapshot.CashBalance,
		string(positionsJSON),
		time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert snapshot for %s: %w", date, err)
	}

	r.log.Debug().Str("date", date).Float64("total_value", snapshot.TotalValue).Msg("Snapshot recorded")
	return nil
}

// Series returns the most recent days recorded snapshots, oldest first.
// days <= 0 returns the whole history.
func (r *HistoryRepository) Series(ctx context.Context, days int) ([]domain.PortfolioSnapshot, error) {
	query := `SELECT date, total_value, cash_balance, positions_json FROM (
		SELECT date, total_value, cash_balance, positions_json FROM portfolio_snapshots
		ORDER BY date DESC`
	args := []any{}
	if days > 0 {
		query += " LIMIT ?"
		args = append(args, days)
	}
	query += ") ORDER BY date ASC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshots: %w", err)
	}
	defer rows.Close()

	series := make([]domain.PortfolioSnapshot, 0)
	for rows.Next() {
		var date, positionsJSON string
		var snap domain.PortfolioSnapshot
		if err := rows.Scan(&date, &snap.TotalValue, &snap.CashBalance, &positionsJSON); err != nil {
			return nil, fmt.Errorf("failed to scan snapshot: %w", err)
		}

		snap.Date, err = time.Parse(domain.DateLayout, date)
		if err != nil {
			return nil, fmt.Errorf("invalid stored snapshot date %q: %w", date, err)
		}
		if err := json.Unmarshal([]byte(positionsJSON), &snap.Positions); err != nil {
			return nil, fmt.Errorf("failed to unmarshal positions for %s: %w", date, err)
		}
		series = append(series, snap)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating snapshots: %w", err)
	}

	return series, nil
}

// GetCount returns the number of recorded days
func (r *HistoryRepository) GetCount(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM portfolio_snapshots").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count snapshots: %w", err)
	}
	return count, nil
}
