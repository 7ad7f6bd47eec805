package transactions

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/aristath/folio/internal/domain"
	"github.com/shopspring/decimal"
)

var csvHeader = []string{"id", "date", "type", "symbol", "quantity", "price", "total", "fees"}

// WriteCSV writes transactions as CSV with a header row. Monetary columns are
// fixed to two decimals.
func WriteCSV(w io.Writer, txns []domain.Transaction) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}

	for _, tx := range txns {
		record := []string{
			tx.ID,
			tx.Date.UTC().Format(domain.DateLayout),
			string(tx.Type),
			tx.Symbol,
			decimal.NewFromFloat(tx.Quantity).String(),
			money(tx.Price),
			money(tx.Total),
			money(tx.Fees),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write csv row %s: %w", tx.ID, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to flush csv: %w", err)
	}
	return nil
}

func money(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2)
}
