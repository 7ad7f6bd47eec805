package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/aristath/folio/internal/database"
	"github.com/aristath/folio/internal/domain"
	"github.com/aristath/folio/internal/modules/portfolio"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// quantityEpsilon absorbs float residue when a sell closes a position
const quantityEpsilon = 1e-9

// Book is a point-in-time copy of the positions and the ledger
type Book struct {
	Positions    []domain.Position
	Transactions []domain.Transaction
}

// SettlementService applies ledger transactions to positions. Each settlement
// appends the transaction and updates the position inside one sqlite
// transaction on portfolio.db.
type SettlementService struct {
	db           *sql.DB
	positions    *portfolio.PositionRepository
	transactions *TransactionRepository
	mu           sync.Mutex
	now          func() time.Time
	log          zerolog.Logger
}

// NewSettlementService creates a new settlement service
func NewSettlementService(
	db *sql.DB,
	positions *portfolio.PositionRepository,
	transactions *TransactionRepository,
	log zerolog.Logger,
) *SettlementService {
	return &SettlementService{
		db:           db,
		positions:    positions,
		transactions: transactions,
		now:          time.Now,
		log:          log.With().Str("service", "settlement").Logger(),
	}
}

// Record validates a transaction, appends it to the ledger and applies it to
// the matching position:
//   - buy creates or grows the position at average cost (q·c + total)/(q + Δq)
//   - sell shrinks it, closing the position when the quantity reaches zero
//   - dividend leaves positions untouched
//
// meta describes the security when a buy opens a new position; it may be nil.
func (s *SettlementService) Record(ctx context.Context, tx domain.Transaction, meta *portfolio.SecurityInfo) (domain.Transaction, error) {
	tx.Symbol = strings.ToUpper(strings.TrimSpace(tx.Symbol))
	if tx.ID == "" {
		tx.ID = uuid.NewString()
	}
	if tx.Date.IsZero() {
		tx.Date = s.now()
	}
	tx.Date = domain.Day(tx.Date)
	if tx.Type != domain.TransactionTypeDividend && tx.Total == 0 {
		tx.Total = tx.Quantity * tx.Price
	}

	if err := tx.Validate(); err != nil {
		return domain.Transaction{}, err
	}
	if tx.Type != domain.TransactionTypeDividend && tx.Quantity == 0 {
		return domain.Transaction{}, fmt.Errorf("%s of %s has zero quantity: %w", tx.Type, tx.Symbol, domain.ErrInvalidInput)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	err := database.WithTransaction(ctx, s.db, func(sqlTx *sql.Tx) error {
		positions := s.positions.WithTx(sqlTx)
		transactions := s.transactions.WithTx(sqlTx)

		existing, err := transactions.GetByID(ctx, tx.ID)
		if err != nil {
			return err
		}
		if existing != nil {
			return fmt.Errorf("transaction %s already recorded: %w", tx.ID, domain.ErrInvalidInput)
		}

		if err := s.apply(ctx, positions, tx, meta); err != nil {
			return err
		}
		return transactions.Append(ctx, tx)
	})
	if err != nil {
		return domain.Transaction{}, err
	}

	s.log.Info().
		Str("id", tx.ID).
		Str("symbol", tx.Symbol).
		Str("type", string(tx.Type)).
		Float64("quantity", tx.Quantity).
		Float64("total", tx.Total).
		Msg("Transaction settled")

	return tx, nil
}

func (s *SettlementService) apply(ctx context.Context, positions *portfolio.PositionRepository, tx domain.Transaction, meta *portfolio.SecurityInfo) error {
	pos, err := positions.GetBySymbol(ctx, tx.Symbol)
	if err != nil {
		return err
	}

	switch tx.Type {
	case domain.TransactionTypeBuy:
		if pos == nil {
			pos = newPosition(tx.Symbol, meta)
		}
		newQuantity := pos.Quantity + tx.Quantity
		pos.CostBasis = (pos.Quantity*pos.CostBasis + tx.Total) / newQuantity
		pos.Quantity = newQuantity
		pos.CurrentPrice = tx.Price
		return positions.Upsert(ctx, *pos)

	case domain.TransactionTypeSell:
		if pos == nil {
			return fmt.Errorf("cannot sell %s: no position held: %w", tx.Symbol, domain.ErrInvalidInput)
		}
		if tx.Quantity > pos.Quantity+quantityEpsilon {
			return fmt.Errorf("cannot sell %v %s: only %v held: %w", tx.Quantity, tx.Symbol, pos.Quantity, domain.ErrInvalidInput)
		}
		remaining := pos.Quantity - tx.Quantity
		if remaining <= quantityEpsilon {
			return positions.Delete(ctx, tx.Symbol)
		}
		pos.Quantity = remaining
		pos.CurrentPrice = tx.Price
		return positions.Upsert(ctx, *pos)
	}

	return nil
}

func newPosition(symbol string, meta *portfolio.SecurityInfo) *domain.Position {
	pos := &domain.Position{
		Symbol:    symbol,
		Name:      symbol,
		AssetType: domain.AssetTypeStock,
	}
	if meta != nil {
		if meta.Name != "" {
			pos.Name = meta.Name
		}
		pos.Sector = meta.Sector
		if meta.AssetType != "" {
			pos.AssetType = meta.AssetType
		}
	}
	return pos
}

// UpdatePrice sets the market price of a held position and returns it.
// Returns domain.ErrNotFound when the symbol is not held.
func (s *SettlementService) UpdatePrice(ctx context.Context, symbol string, price float64) (domain.Position, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var updated domain.Position
	err := database.WithTransaction(ctx, s.db, func(sqlTx *sql.Tx) error {
		positions := s.positions.WithTx(sqlTx)

		found, err := positions.UpdatePrice(ctx, symbol, price)
		if err != nil {
			return err
		}
		if !found {
			return fmt.Errorf("position %s: %w", symbol, domain.ErrNotFound)
		}

		pos, err := positions.GetBySymbol(ctx, symbol)
		if err != nil {
			return err
		}
		updated = *pos
		return nil
	})
	if err != nil {
		return domain.Position{}, err
	}

	s.log.Debug().Str("symbol", updated.Symbol).Float64("price", price).Msg("Price updated")
	return updated, nil
}

// Book reads positions and the ledger from the same point-in-time view
func (s *SettlementService) Book(ctx context.Context) (Book, error) {
	var book Book
	err := database.WithReadSnapshot(ctx, s.db, func(sqlTx *sql.Tx) error {
		positions, err := s.positions.WithTx(sqlTx).GetAll(ctx)
		if err != nil {
			return err
		}
		transactions, err := s.transactions.WithTx(sqlTx).GetAll(ctx)
		if err != nil {
			return err
		}
		book = Book{Positions: positions, Transactions: transactions}
		return nil
	})
	if err != nil {
		return Book{}, fmt.Errorf("failed to read book: %w", err)
	}
	return book, nil
}

// Transaction returns a single ledger entry.
// Returns domain.ErrNotFound when the id is unknown.
func (s *SettlementService) Transaction(ctx context.Context, id string) (domain.Transaction, error) {
	tx, err := s.transactions.GetByID(ctx, id)
	if err != nil {
		return domain.Transaction{}, err
	}
	if tx == nil {
		return domain.Transaction{}, fmt.Errorf("transaction %s: %w", id, domain.ErrNotFound)
	}
	return *tx, nil
}
