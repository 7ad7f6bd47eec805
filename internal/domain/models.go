// Package domain provides core domain models and types.
package domain

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the day-precision layout used for transaction and snapshot dates
const DateLayout = "2006-01-02"

// AssetType classifies the instrument behind a position
type AssetType string

const (
	AssetTypeStock  AssetType = "stock"
	AssetTypeETF    AssetType = "etf"
	AssetTypeBond   AssetType = "bond"
	AssetTypeCrypto AssetType = "crypto"
	AssetTypeCash   AssetType = "cash"
)

// Valid reports whether t is one of the known asset types
func (t AssetType) Valid() bool {
	switch t {
	case AssetTypeStock, AssetTypeETF, AssetTypeBond, AssetTypeCrypto, AssetTypeCash:
		return true
	}
	return false
}

// ParseAssetType parses a case-insensitive asset type tag
func ParseAssetType(s string) (AssetType, error) {
	t := AssetType(strings.ToLower(strings.TrimSpace(s)))
	if !t.Valid() {
		return "", fmt.Errorf("unknown asset type %q: %w", s, ErrInvalidInput)
	}
	return t, nil
}

// TransactionType is the kind of ledger event
type TransactionType string

const (
	TransactionTypeBuy      TransactionType = "buy"
	TransactionTypeSell     TransactionType = "sell"
	TransactionTypeDividend TransactionType = "dividend"
)

// TransactionTypes lists every transaction type in reporting order
var TransactionTypes = []TransactionType{
	TransactionTypeBuy,
	TransactionTypeSell,
	TransactionTypeDividend,
}

// Valid reports whether t is one of the known transaction types
func (t TransactionType) Valid() bool {
	switch t {
	case TransactionTypeBuy, TransactionTypeSell, TransactionTypeDividend:
		return true
	}
	return false
}

// ParseTransactionType parses a case-insensitive transaction type
func ParseTransactionType(s string) (TransactionType, error) {
	t := TransactionType(strings.ToLower(strings.TrimSpace(s)))
	if !t.Valid() {
		return "", fmt.Errorf("unknown transaction type %q: %w", s, ErrInvalidInput)
	}
	return t, nil
}

// Position represents a currently held instrument.
//
// Market value and gain/loss are methods, never stored fields, so they always
// follow quantity, cost basis and price.
type Position struct {
	Symbol       string    `json:"symbol"`
	Name         string    `json:"name"`
	Sector       string    `json:"sector"`
	AssetType    AssetType `json:"asset_type"`
	Quantity     float64   `json:"quantity"`
	CostBasis    float64   `json:"cost_basis"` // average cost per unit
	CurrentPrice float64   `json:"current_price"`
}

// MarketValue is quantity × current price
func (p Position) MarketValue() float64 {
	return p.Quantity * p.CurrentPrice
}

// CostValue is quantity × average cost basis
func (p Position) CostValue() float64 {
	return p.Quantity * p.CostBasis
}

// GainLoss is market value minus cost value
func (p Position) GainLoss() float64 {
	return p.MarketValue() - p.CostValue()
}

// GainLossPercent returns gain/loss relative to cost value, or nil when the
// cost value is zero.
func (p Position) GainLossPercent() *float64 {
	cost := p.CostValue()
	if cost == 0 {
		return nil
	}
	pct := p.GainLoss() / cost * 100
	return &pct
}

// Validate checks the field contract of a position
func (p Position) Validate() error {
	if strings.TrimSpace(p.Symbol) == "" {
		return fmt.Errorf("position symbol is empty: %w", ErrInvalidInput)
	}
	if p.Quantity < 0 {
		return fmt.Errorf("position %s has negative quantity %v: %w", p.Symbol, p.Quantity, ErrInvalidInput)
	}
	if p.CostBasis < 0 || p.CurrentPrice < 0 {
		return fmt.Errorf("position %s has negative cost basis or price: %w", p.Symbol, ErrInvalidInput)
	}
	if !p.AssetType.Valid() {
		return fmt.Errorf("position %s has unknown asset type %q: %w", p.Symbol, p.AssetType, ErrInvalidInput)
	}
	return nil
}

// Valuation returns the serializable view of the position with derived fields
func (p Position) Valuation() PositionValuation {
	return PositionValuation{
		Position:        p,
		MarketValue:     p.MarketValue(),
		GainLoss:        p.GainLoss(),
		GainLossPercent: p.GainLossPercent(),
	}
}

// PositionValuation is a Position together with its derived values.
// GainLossPercent is null when the cost value is zero.
type PositionValuation struct {
	Position
	MarketValue     float64  `json:"market_value"`
	GainLoss        float64  `json:"gain_loss"`
	GainLossPercent *float64 `json:"gain_loss_percent"`
}

// ValidatePositions validates every position in the slice
func ValidatePositions(positions []Position) error {
	for _, p := range positions {
		if err := p.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Transaction is an immutable ledger event. Corrections are recorded as new
// offsetting transactions.
type Transaction struct {
	Date     time.Time       `json:"date"`
	ID       string          `json:"id"`
	Symbol   string          `json:"symbol"`
	Type     TransactionType `json:"type"`
	Quantity float64         `json:"quantity"`
	Price    float64         `json:"price"`
	Total    float64         `json:"total"` // quantity × price, gross proceeds for sells, gross amount for dividends
	Fees     float64         `json:"fees"`
}

// Validate checks the field contract of a transaction
func (t Transaction) Validate() error {
	if strings.TrimSpace(t.Symbol) == "" {
		return fmt.Errorf("transaction symbol is empty: %w", ErrInvalidInput)
	}
	if !t.Type.Valid() {
		return fmt.Errorf("transaction has unknown type %q: %w", t.Type, ErrInvalidInput)
	}
	if t.Quantity < 0 || t.Price < 0 || t.Total < 0 || t.Fees < 0 {
		return fmt.Errorf("transaction %s has negative amounts: %w", t.ID, ErrInvalidInput)
	}
	if t.Date.IsZero() {
		return fmt.Errorf("transaction %s has no date: %w", t.ID, ErrInvalidInput)
	}
	return nil
}

// Net returns the signed cash effect of the transaction, fees included
func (t Transaction) Net() float64 {
	if t.Type == TransactionTypeBuy {
		return -(t.Total + t.Fees)
	}
	return t.Total - t.Fees
}

// PortfolioSnapshot is a valuation of the whole portfolio at one point in time
type PortfolioSnapshot struct {
	Date        time.Time           `json:"date"`
	TotalValue  float64             `json:"total_value"`
	CashBalance float64             `json:"cash_balance"`
	Positions   []PositionValuation `json:"positions"`
}

// Day truncates t to midnight UTC of its calendar day
func Day(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
