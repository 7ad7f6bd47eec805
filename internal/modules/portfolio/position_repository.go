package portfolio

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aristath/folio/internal/database"
	"github.com/aristath/folio/internal/domain"
	"github.com/rs/zerolog"
)

// SecurityInfo carries descriptive metadata used when a buy opens a new position
type SecurityInfo struct {
	Name      string           `json:"name"`
	Sector    string           `json:"sector"`
	AssetType domain.AssetType `json:"asset_type"`
}

// PositionRepository handles position database operations (portfolio.db)
type PositionRepository struct {
	db  database.Querier
	log zerolog.Logger
}

// NewPositionRepository creates a new position repository
func NewPositionRepository(db database.Querier, log zerolog.Logger) *PositionRepository {
	return &PositionRepository{
		db:  db,
		log: log.With().Str("repo", "position").Logger(),
	}
}

// WithTx returns a repository bound to an open transaction
func (r *PositionRepository) WithTx(tx database.Querier) *PositionRepository {
	return &PositionRepository{db: tx, log: r.log}
}

const positionColumns = `symbol, name, sector, asset_type, quantity, cost_basis, current_price`

// GetAll returns all positions ordered by symbol
func (r *PositionRepository) GetAll(ctx context.Context) ([]domain.Position, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+positionColumns+` FROM positions ORDER BY symbol`)
	if err != nil {
		return nil, fmt.Errorf("failed to query positions: %w", err)
	}
	defer rows.Close()

	positions := make([]domain.Position, 0)
	for rows.Next() {
		pos, err := scanPosition(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan position: %w", err)
		}
		positions = append(positions, pos)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating positions: %w", err)
	}

	return positions, nil
}

// GetBySymbol returns a position by symbol, or nil if none is held
func (r *PositionRepository) GetBySymbol(ctx context.Context, symbol string) (*domain.Position, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+positionColumns+` FROM positions WHERE symbol = ?`,
		normalizeSymbol(symbol))

	pos, err := scanPosition(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get position %s: %w", symbol, err)
	}
	return &pos, nil
}

// GetCount returns the number of held positions
func (r *PositionRepository) GetCount(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM positions").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count positions: %w", err)
	}
	return count, nil
}

// Upsert inserts or replaces a position after validating it
func (r *PositionRepository) Upsert(ctx context.Context, position domain.Position) error {
	position.Symbol = normalizeSymbol(position.Symbol)
	if err := position.Validate(); err != nil {
		return err
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO positions
		(symbol, name, sector, asset_type, quantity, cost_basis, current_price, last_updated)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(symbol) DO UPDATE SET
			name = excluded.name,
			sector = excluded.sector,
			asset_type = excluded.asset_type,
			quantity = excluded.quantity,
			cost_basis = excluded.cost_basis,
			current_price = excluded.current_price,
			last_updated = excluded.last_updated`,
		position.Symbol,
		position.Name,
		position.Sector,
		string(position.AssetType),
		position.Quantity,
		position.CostBasis,
		position.CurrentPrice,
		time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert position %s: %w", position.Symbol, err)
	}

	r.log.Debug().Str("symbol", position.Symbol).Float64("quantity", position.Quantity).Msg("Position upserted")
	return nil
}

// Delete removes a position by symbol
func (r *PositionRepository) Delete(ctx context.Context, symbol string) error {
	symbol = normalizeSymbol(symbol)
	if _, err := r.db.ExecContext(ctx, "DELETE FROM positions WHERE symbol = ?", symbol); err != nil {
		return fmt.Errorf("failed to delete position %s: %w", symbol, err)
	}

	r.log.Info().Str("symbol", symbol).Msg("Position closed")
	return nil
}

// UpdatePrice sets the current price of a held position.
// Returns false when no position exists for the symbol.
func (r *PositionRepository) UpdatePrice(ctx context.Context, symbol string, price float64) (bool, error) {
	if price < 0 {
		return false, fmt.Errorf("price for %s is negative: %w", symbol, domain.ErrInvalidInput)
	}

	result, err := r.db.ExecContext(ctx,
		"UPDATE positions SET current_price = ?, last_updated = ? WHERE symbol = ?",
		price, time.Now().Unix(), normalizeSymbol(symbol))
	if err != nil {
		return false, fmt.Errorf("failed to update price for %s: %w", symbol, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows: %w", err)
	}
	return affected > 0, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanPosition(s scanner) (domain.Position, error) {
	var pos domain.Position
	var assetType string
	err := s.Scan(
		&pos.Symbol,
		&pos.Name,
		&pos.Sector,
		&assetType,
		&pos.Quantity,
		&pos.CostBasis,
		&pos.CurrentPrice,
	)
	if err != nil {
		return pos, err
	}
	pos.AssetType = domain.AssetType(assetType)
	return pos, nil
}

func normalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}
