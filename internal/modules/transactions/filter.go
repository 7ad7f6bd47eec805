// Package transactions provides pure query and aggregation functions over
// the transaction ledger.
package transactions

import (
	"fmt"
	"strings"
	"time"

	"github.com/aristath/folio/internal/domain"
)

// Criteria selects transactions. Every set field must match; zero fields
// match everything.
type Criteria struct {
	Type   *domain.TransactionType
	Symbol string     // exact, case-insensitive
	Query  string     // substring of symbol or id, case-insensitive
	From   *time.Time // inclusive, by day
	To     *time.Time // inclusive, by day
}

// Filter returns the transactions matching c, in their original order
func Filter(txns []domain.Transaction, c Criteria) ([]domain.Transaction, error) {
	var from, to time.Time
	if c.From != nil {
		from = domain.Day(*c.From)
	}
	if c.To != nil {
		to = domain.Day(*c.To)
	}
	if c.From != nil && c.To != nil && from.After(to) {
		return nil, fmt.Errorf("date range %s..%s is inverted: %w",
			from.Format(domain.DateLayout), to.Format(domain.DateLayout), domain.ErrInvalidInput)
	}

	symbol := strings.TrimSpace(c.Symbol)
	query := strings.ToLower(strings.TrimSpace(c.Query))

	out := make([]domain.Transaction, 0, len(txns))
	for _, tx := range txns {
		if c.Type != nil && tx.Type != *c.Type {
			continue
		}
		if symbol != "" && !strings.EqualFold(tx.Symbol, symbol) {
			continue
		}
		if query != "" &&
			!strings.Contains(strings.ToLower(tx.Symbol), query) &&
			!strings.Contains(strings.ToLower(tx.ID), query) {
			continue
		}
		day := domain.Day(tx.Date)
		if c.From != nil && day.Before(from) {
			continue
		}
		if c.To != nil && day.After(to) {
			continue
		}
		out = append(out, tx)
	}
	return out, nil
}
