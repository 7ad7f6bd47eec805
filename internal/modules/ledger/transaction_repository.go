// Package ledger provides the append-only transaction ledger and the
// settlement service that applies transactions to positions.
package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/aristath/folio/internal/database"
	"github.com/aristath/folio/internal/domain"
	"github.com/rs/zerolog"
)

// TransactionRepository reads and appends ledger rows. Rows are never updated
// or deleted; the schema enforces this with triggers.
type TransactionRepository struct {
	db  database.Querier
	log zerolog.Logger
}

// NewTransactionRepository creates a new transaction repository
func NewTransactionRepository(db database.Querier, log zerolog.Logger) *TransactionRepository {
	return &TransactionRepository{
		db:  db,
		log: log.With().Str("repo", "transaction").Logger(),
	}
}

// WithTx returns a repository bound to an open transaction
func (r *TransactionRepository) WithTx(tx database.Querier) *TransactionRepository {
	return &TransactionRepository{db: tx, log: r.log}
}

const transactionColumns = `id, date, symbol, type, quantity, price, total, fees`

// Append inserts a validated transaction
func (r *TransactionRepository) Append(ctx context.Context, tx domain.Transaction) error {
	if err := tx.Validate(); err != nil {
		return err
	}
	if tx.ID == "" {
		return fmt.Errorf("transaction id is empty: %w", domain.ErrInvalidInput)
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO transactions
		(id, date, symbol, type, quantity, price, total, fees, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		tx.ID,
		tx.Date.UTC().Format(domain.DateLayout),
		tx.Symbol,
		string(tx.Type),
		tx.Quantity,
		tx.Price,
		tx.Total,
		tx.Fees,
		time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to append transaction %s: %w", tx.ID, err)
	}

	r.log.Debug().Str("id", tx.ID).Str("symbol", tx.Symbol).Str("type", string(tx.Type)).Msg("Transaction appended")
	return nil
}

// GetAll returns the full ledger in chronological order (date, then insertion)
func (r *TransactionRepository) GetAll(ctx context.Context) ([]domain.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+transactionColumns+` FROM transactions ORDER BY date, seq`)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer rows.Close()

	txns := make([]domain.Transaction, 0)
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		txns = append(txns, tx)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transactions: %w", err)
	}

	return txns, nil
}

// GetByID returns a transaction by id, or nil if it does not exist
func (r *TransactionRepository) GetByID(ctx context.Context, id string) (*domain.Transaction, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+transactionColumns+` FROM transactions WHERE id = ?`, id)

	tx, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction %s: %w", id, err)
	}
	return &tx, nil
}

// GetCount returns the number of ledger rows
func (r *TransactionRepository) GetCount(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM transactions").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count transactions: %w", err)
	}
	return count, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTransaction(s scanner) (domain.Transaction, error) {
	var tx domain.Transaction
	var date, txType string
	err := s.Scan(
		&tx.ID,
		&date,
		&tx.Symbol,
		&txType,
		&tx.Quantity,
		&tx.Price,
		&tx.Total,
		&tx.Fees,
	)
	if err != nil {
		return tx, err
	}

	parsed, err := time.Parse(domain.DateLayout, date)
	if err != nil {
		return tx, fmt.Errorf("invalid stored date %q: %w", date, err)
	}
	tx.Date = parsed
	tx.Type = domain.TransactionType(txType)
	return tx, nil
}
